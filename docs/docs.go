// Package docs provides the generated OpenAPI document served at /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Log a user in",
                "parameters": [
                    {
                        "description": "Login credentials",
                        "name": "loginRequest",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/api.LoginRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.TokenResponse"}},
                    "400": {"description": "Invalid request body", "schema": {"type": "string"}},
                    "401": {"description": "Invalid username or password", "schema": {"type": "string"}}
                }
            }
        },
        "/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.User"}},
                    "404": {"description": "User not found", "schema": {"type": "string"}}
                }
            }
        },
        "/nodes": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["nodes"],
                "summary": "List direct children of a path",
                "parameters": [
                    {"type": "string", "description": "Parent path key, defaults to /", "name": "path", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.ListNodesResponse"}},
                    "400": {"description": "Malformed path", "schema": {"type": "string"}}
                }
            }
        },
        "/nodes/folder": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["nodes"],
                "summary": "Create a folder",
                "parameters": [
                    {
                        "description": "Folder name and parent path",
                        "name": "createFolderRequest",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/api.CreateFolderRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.Node"}},
                    "400": {"description": "Validation error", "schema": {"type": "string"}},
                    "409": {"description": "Duplicate name", "schema": {"type": "string"}}
                }
            }
        },
        "/nodes/file": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["nodes"],
                "summary": "Upload one or more files",
                "description": "Every file in the form starts transport immediately and independently; progress is streamed per upload over the websocket. A file's record is created only after its blob has been committed.",
                "parameters": [
                    {"type": "string", "description": "Target path key, defaults to /", "name": "path", "in": "formData"},
                    {"type": "file", "description": "Files to upload", "name": "files", "in": "formData", "required": true}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/api.UploadResponse"}},
                    "400": {"description": "Bad form or path", "schema": {"type": "string"}}
                }
            }
        },
        "/nodes/{nodeId}": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["nodes"],
                "summary": "Rename and/or move a node",
                "description": "Renaming or moving a folder rewrites every descendant's path key record by record; the outcome reports which rewrites applied. A partial outcome is returned with status 500 and is retryable.",
                "parameters": [
                    {"type": "string", "description": "Node ID", "name": "nodeId", "in": "path", "required": true},
                    {
                        "description": "New name and/or new parent path",
                        "name": "updateNodeRequest",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/api.UpdateNodeRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.UpdateNodeResponse"}},
                    "400": {"description": "Validation error", "schema": {"type": "string"}},
                    "404": {"description": "Not found", "schema": {"type": "string"}},
                    "409": {"description": "Duplicate name", "schema": {"type": "string"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["nodes"],
                "summary": "Delete a node",
                "description": "Deleting a folder cascades over every record within its location; file blobs are deleted best-effort. The cascade is non-atomic and a partial outcome is returned with status 500.",
                "parameters": [
                    {"type": "string", "description": "Node ID", "name": "nodeId", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not found", "schema": {"type": "string"}}
                }
            }
        },
        "/nodes/{nodeId}/download": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/octet-stream"],
                "tags": ["nodes"],
                "summary": "Download a file",
                "parameters": [
                    {"type": "string", "description": "Node ID", "name": "nodeId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "400": {"description": "Not a file", "schema": {"type": "string"}},
                    "404": {"description": "Not found or no content", "schema": {"type": "string"}}
                }
            }
        },
        "/uploads": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["nodes"],
                "summary": "List in-flight uploads",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/uploads.Entry"}}}
                }
            }
        },
        "/events": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["events"],
                "summary": "Get change events",
                "description": "Returns the per-user change journal entries after a given id. Clients that missed websocket pushes use this to bring their cached listing back in sync with the record set.",
                "parameters": [
                    {"type": "integer", "description": "Last event id already seen; omit or 0 for everything", "name": "since", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/database.Event"}}},
                    "400": {"description": "Bad Request", "schema": {"type": "string"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["text/plain"],
                "tags": ["system"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "ok", "schema": {"type": "string"}}
                }
            }
        }
    },
    "definitions": {
        "api.CreateFolderRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "path": {"type": "string"}
            }
        },
        "api.ListNodesResponse": {
            "type": "object",
            "properties": {
                "path": {"type": "string"},
                "breadcrumbs": {"type": "array", "items": {"type": "string"}},
                "nodes": {"type": "array", "items": {"$ref": "#/definitions/models.Node"}}
            }
        },
        "api.LoginRequest": {
            "type": "object",
            "properties": {
                "username": {"type": "string", "example": "admin"},
                "password": {"type": "string", "example": "password123"}
            }
        },
        "api.TokenResponse": {
            "type": "object",
            "properties": {
                "access_token": {"type": "string"}
            }
        },
        "api.UpdateNodeRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "path": {"type": "string"}
            }
        },
        "api.UpdateNodeResponse": {
            "type": "object",
            "properties": {
                "node": {"$ref": "#/definitions/models.Node"},
                "outcome": {"$ref": "#/definitions/namespace.Outcome"}
            }
        },
        "api.UploadFailure": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "reason": {"type": "string"}
            }
        },
        "api.UploadResponse": {
            "type": "object",
            "properties": {
                "created": {"type": "array", "items": {"$ref": "#/definitions/models.Node"}},
                "failed": {"type": "array", "items": {"$ref": "#/definitions/api.UploadFailure"}}
            }
        },
        "database.Event": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "event_type": {"type": "string"},
                "event_time": {"type": "string"},
                "payload": {"type": "object"}
            }
        },
        "models.Node": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "owner_id": {"type": "integer"},
                "name": {"type": "string"},
                "node_type": {"type": "string"},
                "path": {"type": "string"},
                "size_bytes": {"type": "integer"},
                "mime_type": {"type": "string"},
                "download_url": {"type": "string"},
                "created_at": {"type": "string"},
                "modified_at": {"type": "string"}
            }
        },
        "models.User": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "username": {"type": "string"},
                "display_name": {"type": "string"},
                "created_at": {"type": "string"}
            }
        },
        "namespace.Outcome": {
            "type": "object",
            "properties": {
                "applied": {"type": "array", "items": {"type": "string"}},
                "failed": {"type": "array", "items": {"$ref": "#/definitions/namespace.WriteFailure"}}
            }
        },
        "namespace.WriteFailure": {
            "type": "object",
            "properties": {
                "node_id": {"type": "string"},
                "reason": {"type": "string"}
            }
        },
        "uploads.Entry": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "path": {"type": "string"},
                "progress": {"type": "integer"},
                "started_at": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost",
	BasePath:         "/api/v1",
	Schemes:          []string{"http", "https"},
	Title:            "Cloudshelf Namespace API",
	Description:      "Virtual hierarchical file namespace over a flat path-keyed record store.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
