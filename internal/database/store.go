package database

import (
	"context"
	"errors"

	"cloudshelf/internal/models"
)

var ErrDuplicateNodeName = errors.New("a node with the same name already exists in this folder")

type CreateNodeParams struct {
	ID          string
	OwnerID     int64
	Name        string
	NodeType    string
	Path        string
	SizeBytes   *int64
	MimeType    *string
	BlobRef     *string
	DownloadURL *string
}

// NodeStore is the document-store boundary for the flat node set. Writes are
// strictly single-record: the store exposes no multi-record transaction, so
// cascading operations (rename/move/delete of a folder) are applied by the
// caller one record at a time. Lookups that find nothing return (nil, nil).
type NodeStore interface {
	CreateNode(ctx context.Context, arg CreateNodeParams) (*models.Node, error)
	GetNodeByID(ctx context.Context, id string, ownerID int64) (*models.Node, error)
	// ListNodesByPath returns the unordered records whose path key equals
	// path exactly; ordering is the namespace layer's concern.
	ListNodesByPath(ctx context.Context, ownerID int64, path string) ([]models.Node, error)
	// ListSubtree returns every record whose path key is the given location
	// or lies under it (segment-aware prefix).
	ListSubtree(ctx context.Context, ownerID int64, location string) ([]models.Node, error)
	NodeExists(ctx context.Context, id string) (bool, error)
	NodeExistsAtPath(ctx context.Context, ownerID int64, path, name string) (bool, error)
	RenameNode(ctx context.Context, id string, ownerID int64, newName string) (bool, error)
	SetNodePath(ctx context.Context, id string, ownerID int64, newPath string) (bool, error)
	DeleteNode(ctx context.Context, id string, ownerID int64) (bool, error)

	LogEvent(ctx context.Context, userID int64, eventType string, payload interface{}) error
	GetEventsSince(ctx context.Context, userID int64, sinceID int64) ([]Event, error)
}

type UserStore interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}
