package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"cloudshelf/internal/database"
	"cloudshelf/internal/models"
	"cloudshelf/internal/namespace"
	"cloudshelf/internal/service"
)

func validPath(value interface{}) error {
	s, _ := value.(string)
	if !namespace.Valid(s) {
		return errors.New("must be a well-formed absolute path")
	}
	return nil
}

// respondServiceError maps service sentinel errors onto HTTP statuses.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrEmptyName),
		errors.Is(err, service.ErrInvalidName),
		errors.Is(err, service.ErrInvalidPath),
		errors.Is(err, service.ErrNotAFile),
		errors.Is(err, service.ErrFolderCycle):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, database.ErrDuplicateNodeName):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, service.ErrNodeNotFound), errors.Is(err, service.ErrNoContent):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

type ListNodesResponse struct {
	Path        string        `json:"path"`
	Breadcrumbs []string      `json:"breadcrumbs"`
	Nodes       []models.Node `json:"nodes"`
}

// @Summary      List direct children of a path
// @Tags         nodes
// @Produce      json
// @Security     BearerAuth
// @Param        path  query     string  false  "Parent path key, defaults to /"
// @Success      200   {object}  ListNodesResponse
// @Failure      400   {string}  string "Malformed path"
// @Router       /nodes [get]
func (s *Server) ListNodesHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	path := r.URL.Query().Get("path")
	if path == "" {
		path = "/"
	}

	nodes, err := s.nodes.Children(r.Context(), claims.UserID, path)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ListNodesResponse{
		Path:        path,
		Breadcrumbs: namespace.Split(path),
		Nodes:       nodes,
	})
}

type CreateFolderRequest struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

func (req CreateFolderRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Name, validation.Required),
		validation.Field(&req.Path, validation.Required, validation.By(validPath)),
	)
}

// @Summary      Create a folder
// @Tags         nodes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        createFolderRequest  body      CreateFolderRequest  true  "Folder name and parent path"
// @Success      201  {object}  models.Node
// @Failure      400  {string}  string "Validation error"
// @Failure      409  {string}  string "Duplicate name"
// @Router       /nodes/folder [post]
func (s *Server) CreateFolderHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	var req CreateFolderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Path == "" {
		req.Path = "/"
	}
	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	node, err := s.nodes.CreateFolder(r.Context(), claims.UserID, req.Path, req.Name)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, node)
}

type UpdateNodeRequest struct {
	Name *string `json:"name"`
	Path *string `json:"path"`
}

type UpdateNodeResponse struct {
	Node    *models.Node       `json:"node"`
	Outcome *namespace.Outcome `json:"outcome"`
}

// @Summary      Rename and/or move a node
// @Description  Renaming or moving a folder rewrites every descendant's path key record by record; the outcome reports which rewrites applied. A partial outcome is returned with status 500 and is retryable.
// @Tags         nodes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        nodeId             path      string             true  "Node ID"
// @Param        updateNodeRequest  body      UpdateNodeRequest  true  "New name and/or new parent path"
// @Success      200  {object}  UpdateNodeResponse
// @Failure      400  {string}  string "Validation error"
// @Failure      404  {string}  string "Not found"
// @Failure      409  {string}  string "Duplicate name"
// @Router       /nodes/{nodeId} [patch]
func (s *Server) UpdateNodeHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())
	nodeID := chi.URLParam(r, "nodeId")

	var req UpdateNodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == nil && req.Path == nil {
		http.Error(w, "No update operation specified (provide 'name' or 'path')", http.StatusBadRequest)
		return
	}

	resp := UpdateNodeResponse{Outcome: &namespace.Outcome{}}

	if req.Name != nil {
		node, outcome, err := s.nodes.Rename(r.Context(), claims.UserID, nodeID, *req.Name)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		resp.Node = node
		resp.Outcome = outcome
	}

	if req.Path != nil {
		node, outcome, err := s.nodes.Move(r.Context(), claims.UserID, nodeID, *req.Path)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		resp.Node = node
		resp.Outcome.Applied = append(resp.Outcome.Applied, outcome.Applied...)
		resp.Outcome.Failed = append(resp.Outcome.Failed, outcome.Failed...)
	}

	status := http.StatusOK
	if resp.Outcome.Partial() {
		// Applied rewrites are not rolled back; the failed subset is in the
		// body so the client can retry just those.
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, resp)
}

// @Summary      Delete a node
// @Description  Deleting a folder cascades over every record within its location; file blobs are deleted best-effort. The cascade is non-atomic and a partial outcome is returned with status 500.
// @Tags         nodes
// @Produce      json
// @Security     BearerAuth
// @Param        nodeId  path  string  true  "Node ID"
// @Success      204
// @Failure      404  {string}  string "Not found"
// @Router       /nodes/{nodeId} [delete]
func (s *Server) DeleteNodeHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())
	nodeID := chi.URLParam(r, "nodeId")

	outcome, err := s.nodes.Delete(r.Context(), claims.UserID, nodeID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if outcome.Partial() {
		writeJSON(w, http.StatusInternalServerError, outcome)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// @Summary      Download a file
// @Tags         nodes
// @Produce      octet-stream
// @Security     BearerAuth
// @Param        nodeId  path  string  true  "Node ID"
// @Success      200  {file}    file
// @Failure      400  {string}  string "Not a file"
// @Failure      404  {string}  string "Not found or no content"
// @Router       /nodes/{nodeId}/download [get]
func (s *Server) DownloadFileHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())
	nodeID := chi.URLParam(r, "nodeId")

	stream, node, err := s.nodes.Download(r.Context(), claims.UserID, nodeID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	defer stream.Close()

	w.Header().Set("Content-Disposition", `attachment; filename="`+node.Name+`"`)
	if node.MimeType != nil && *node.MimeType != "" {
		w.Header().Set("Content-Type", *node.MimeType)
	} else {
		w.Header().Set("Content-Type", "application/octet-stream")
	}
	if node.SizeBytes != nil {
		w.Header().Set("Content-Length", fmt.Sprintf("%d", *node.SizeBytes))
	}

	if _, err := io.Copy(w, stream); err != nil {
		// Headers are gone; all we can do is log the broken transfer.
		s.logger.Warn().Err(err).Str("node_id", nodeID).Msg("download stream aborted")
	}
}
