// Package service implements the mutation operations of the virtual
// namespace: create folder, rename, move, delete and download, composed
// from the namespace layer, the node store and the blob store.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"cloudshelf/internal/database"
	"cloudshelf/internal/logging"
	"cloudshelf/internal/models"
	"cloudshelf/internal/namespace"
	"cloudshelf/internal/storage"
)

var (
	ErrEmptyName    = errors.New("name cannot be empty")
	ErrInvalidName  = errors.New(`name cannot contain "/"`)
	ErrInvalidPath  = errors.New("malformed path")
	ErrNodeNotFound = errors.New("node not found")
	ErrNotAFile     = errors.New("operation requires a file node")
	ErrFolderCycle  = errors.New("cannot move a folder into its own subtree")
	ErrNoContent    = errors.New("file has no retrievable content")
)

// Notifier pushes change events to the owning user's connected clients.
type Notifier interface {
	PublishJSON(userID int64, eventType string, payload interface{})
}

type Service struct {
	store    database.NodeStore
	blobs    storage.BlobStore
	notifier Notifier
	logger   zerolog.Logger
}

func New(store database.NodeStore, blobs storage.BlobStore, notifier Notifier) *Service {
	return &Service{
		store:    store,
		blobs:    blobs,
		notifier: notifier,
		logger:   logging.Component("service"),
	}
}

// Children lists the direct children of path, folders first, names in
// collated ascending order. The listing is recomputed from the record set on
// every call; nothing is cached.
func (s *Service) Children(ctx context.Context, ownerID int64, path string) ([]models.Node, error) {
	if !namespace.Valid(path) {
		return nil, ErrInvalidPath
	}
	nodes, err := s.store.ListNodesByPath(ctx, ownerID, path)
	if err != nil {
		return nil, err
	}
	return namespace.Children(nodes, path), nil
}

func (s *Service) CreateFolder(ctx context.Context, ownerID int64, path, name string) (*models.Node, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if !namespace.ValidName(name) {
		return nil, ErrInvalidName
	}
	if !namespace.Valid(path) {
		return nil, ErrInvalidPath
	}
	if err := s.RequireFolderAt(ctx, ownerID, path); err != nil {
		return nil, err
	}

	exists, err := s.store.NodeExistsAtPath(ctx, ownerID, path, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, database.ErrDuplicateNodeName
	}

	nodeID, err := database.GenerateNodeID(ctx, s.store)
	if err != nil {
		return nil, err
	}

	node, err := s.store.CreateNode(ctx, database.CreateNodeParams{
		ID:       nodeID,
		OwnerID:  ownerID,
		Name:     name,
		NodeType: models.NodeTypeFolder,
		Path:     path,
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, ownerID, "node_created", node)
	return node, nil
}

// Rename changes a node's name. For a folder this additionally rewrites the
// path key of every descendant record; the rewrites are applied one record
// at a time and the returned Outcome says which ones landed. A partial
// outcome is reported, never rolled back.
func (s *Service) Rename(ctx context.Context, ownerID int64, nodeID, newName string) (*models.Node, *namespace.Outcome, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return nil, nil, ErrEmptyName
	}
	if !namespace.ValidName(newName) {
		return nil, nil, ErrInvalidName
	}

	node, err := s.store.GetNodeByID(ctx, nodeID, ownerID)
	if err != nil {
		return nil, nil, err
	}
	if node == nil {
		return nil, nil, ErrNodeNotFound
	}

	outcome := &namespace.Outcome{}
	if node.Name == newName {
		return node, outcome, nil
	}

	exists, err := s.store.NodeExistsAtPath(ctx, ownerID, node.Path, newName)
	if err != nil {
		return nil, nil, err
	}
	if exists {
		return nil, nil, database.ErrDuplicateNodeName
	}

	var plan namespace.Plan
	if node.IsFolder() {
		subtree, err := s.store.ListSubtree(ctx, ownerID, node.Location())
		if err != nil {
			return nil, nil, err
		}
		plan = namespace.RenamePlan(node, newName, subtree)
	}

	ok, err := s.store.RenameNode(ctx, nodeID, ownerID, newName)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, ErrNodeNotFound
	}

	s.applyPlan(ctx, ownerID, plan, outcome)

	renamed, err := s.store.GetNodeByID(ctx, nodeID, ownerID)
	if err != nil || renamed == nil {
		renamed = node
		renamed.Name = newName
	}

	s.publish(ctx, ownerID, "node_renamed", map[string]interface{}{
		"node":    renamed,
		"outcome": outcome,
	})
	return renamed, outcome, nil
}

// Move re-parents a node under newPath. Files are a single-record update;
// folders also drag their subtree along via the rewrite plan. Moving a
// folder into its own subtree is rejected.
func (s *Service) Move(ctx context.Context, ownerID int64, nodeID, newPath string) (*models.Node, *namespace.Outcome, error) {
	if !namespace.Valid(newPath) {
		return nil, nil, ErrInvalidPath
	}

	node, err := s.store.GetNodeByID(ctx, nodeID, ownerID)
	if err != nil {
		return nil, nil, err
	}
	if node == nil {
		return nil, nil, ErrNodeNotFound
	}

	outcome := &namespace.Outcome{}
	if node.Path == newPath {
		return node, outcome, nil
	}

	if node.IsFolder() && namespace.Within(newPath, node.Location()) {
		return nil, nil, ErrFolderCycle
	}

	if err := s.RequireFolderAt(ctx, ownerID, newPath); err != nil {
		return nil, nil, err
	}

	exists, err := s.store.NodeExistsAtPath(ctx, ownerID, newPath, node.Name)
	if err != nil {
		return nil, nil, err
	}
	if exists {
		return nil, nil, database.ErrDuplicateNodeName
	}

	var plan namespace.Plan
	if node.IsFolder() {
		subtree, err := s.store.ListSubtree(ctx, ownerID, node.Location())
		if err != nil {
			return nil, nil, err
		}
		plan = namespace.MovePlan(node, newPath, subtree)
	}

	ok, err := s.store.SetNodePath(ctx, nodeID, ownerID, newPath)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, ErrNodeNotFound
	}

	s.applyPlan(ctx, ownerID, plan, outcome)

	moved, err := s.store.GetNodeByID(ctx, nodeID, ownerID)
	if err != nil || moved == nil {
		moved = node
		moved.Path = newPath
	}

	s.publish(ctx, ownerID, "node_moved", map[string]interface{}{
		"node":    moved,
		"outcome": outcome,
	})
	return moved, outcome, nil
}

// Delete removes a file record (plus a best-effort blob delete) or cascades
// over a folder and everything within its location, deepest records first.
// The cascade is non-atomic; the Outcome reports the failed subset.
func (s *Service) Delete(ctx context.Context, ownerID int64, nodeID string) (*namespace.Outcome, error) {
	node, err := s.store.GetNodeByID(ctx, nodeID, ownerID)
	if err != nil {
		return nil, err
	}
	if node == nil {
		return nil, ErrNodeNotFound
	}

	outcome := &namespace.Outcome{}

	if node.IsFolder() {
		subtree, err := s.store.ListSubtree(ctx, ownerID, node.Location())
		if err != nil {
			return nil, err
		}
		// Deepest first, so a retry of a partial cascade never strands
		// children under an already-deleted ancestor record.
		sort.Slice(subtree, func(i, j int) bool {
			if len(subtree[i].Path) != len(subtree[j].Path) {
				return len(subtree[i].Path) > len(subtree[j].Path)
			}
			return subtree[i].Path > subtree[j].Path
		})
		for i := range subtree {
			s.deleteRecord(ctx, ownerID, &subtree[i], outcome)
		}
	}

	s.deleteRecord(ctx, ownerID, node, outcome)

	if outcome.Partial() {
		s.logger.Error().Str("node_id", nodeID).Int("failed", len(outcome.Failed)).
			Msg("delete cascade partially applied")
	}

	s.publish(ctx, ownerID, "node_deleted", map[string]interface{}{
		"node_id": nodeID,
		"name":    node.Name,
		"outcome": outcome,
	})
	return outcome, nil
}

// Download opens the blob behind a file node for streaming to the client.
func (s *Service) Download(ctx context.Context, ownerID int64, nodeID string) (io.ReadCloser, *models.Node, error) {
	node, err := s.store.GetNodeByID(ctx, nodeID, ownerID)
	if err != nil {
		return nil, nil, err
	}
	if node == nil {
		return nil, nil, ErrNodeNotFound
	}
	if node.IsFolder() {
		return nil, nil, ErrNotAFile
	}
	if node.BlobRef == nil || *node.BlobRef == "" {
		return nil, nil, ErrNoContent
	}

	stream, err := s.blobs.Open(*node.BlobRef)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open blob %s: %w", *node.BlobRef, err)
	}
	return stream, node, nil
}

// applyPlan runs a rewrite plan record by record, recording every write.
func (s *Service) applyPlan(ctx context.Context, ownerID int64, plan namespace.Plan, outcome *namespace.Outcome) {
	for _, rw := range plan.Rewrites {
		ok, err := s.store.SetNodePath(ctx, rw.NodeID, ownerID, rw.NewPath)
		if err == nil && !ok {
			err = ErrNodeNotFound
		}
		outcome.Record(rw.NodeID, err)
	}
	if outcome.Partial() {
		s.logger.Error().Str("old_location", plan.OldLocation).Str("new_location", plan.NewLocation).
			Int("failed", len(outcome.Failed)).Msg("path rewrite partially applied")
	}
}

// deleteRecord removes one record and, for files, best-effort deletes the
// backing blob. Blob failures never block or roll back the record delete.
func (s *Service) deleteRecord(ctx context.Context, ownerID int64, node *models.Node, outcome *namespace.Outcome) {
	ok, err := s.store.DeleteNode(ctx, node.ID, ownerID)
	if err == nil && !ok {
		err = ErrNodeNotFound
	}
	outcome.Record(node.ID, err)
	if err != nil {
		return
	}

	if node.NodeType == models.NodeTypeFile && node.BlobRef != nil && *node.BlobRef != "" {
		if err := s.blobs.Delete(*node.BlobRef); err != nil {
			s.logger.Warn().Err(err).Str("blob_ref", *node.BlobRef).Msg("best-effort blob delete failed")
		}
	}
}

// RequireFolderAt verifies that location names the root or an existing
// folder record. Create, move and upload targets all pass through here, so a
// record can never land at a path no breadcrumb navigation reaches.
func (s *Service) RequireFolderAt(ctx context.Context, ownerID int64, location string) error {
	if location == "/" {
		return nil
	}
	exists, err := s.store.NodeExistsAtPath(ctx, ownerID, namespace.Parent(location), namespace.Base(location))
	if err != nil {
		return err
	}
	if !exists {
		return ErrInvalidPath
	}
	return nil
}

func (s *Service) publish(ctx context.Context, ownerID int64, eventType string, payload interface{}) {
	if err := s.store.LogEvent(ctx, ownerID, eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Msg("failed to journal event")
	}
	if s.notifier != nil {
		s.notifier.PublishJSON(ownerID, eventType, payload)
	}
}
