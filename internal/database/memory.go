package database

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"cloudshelf/internal/models"
	"cloudshelf/internal/namespace"
)

// MemoryStore is the in-process NodeStore implementation. It mirrors the
// Postgres store's contract (single-record writes, nil for missing rows,
// duplicate-name enforcement) so callers stay backend-agnostic; handler and
// service tests run against it directly.
type MemoryStore struct {
	mu          sync.RWMutex
	nodes       map[string]models.Node
	events      map[int64][]Event
	nextEventID int64
	users       map[int64]models.User

	// WriteErr, when set, lets tests inject a per-record write failure to
	// exercise partial cascade outcomes.
	WriteErr func(nodeID string) error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nodes:  make(map[string]models.Node),
		events: make(map[int64][]Event),
		users:  make(map[int64]models.User),
	}
}

func (m *MemoryStore) writeErr(nodeID string) error {
	if m.WriteErr == nil {
		return nil
	}
	return m.WriteErr(nodeID)
}

func (m *MemoryStore) CreateNode(_ context.Context, arg CreateNodeParams) (*models.Node, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.nodes[arg.ID]; ok {
		return nil, fmt.Errorf("node id %q already exists", arg.ID)
	}
	for _, n := range m.nodes {
		if n.OwnerID == arg.OwnerID && n.Path == arg.Path && n.Name == arg.Name {
			return nil, ErrDuplicateNodeName
		}
	}

	now := time.Now()
	node := models.Node{
		ID:          arg.ID,
		OwnerID:     arg.OwnerID,
		Name:        arg.Name,
		NodeType:    arg.NodeType,
		Path:        arg.Path,
		SizeBytes:   arg.SizeBytes,
		MimeType:    arg.MimeType,
		BlobRef:     arg.BlobRef,
		DownloadURL: arg.DownloadURL,
		CreatedAt:   now,
		ModifiedAt:  now,
	}
	m.nodes[node.ID] = node
	return &node, nil
}

func (m *MemoryStore) GetNodeByID(_ context.Context, id string, ownerID int64) (*models.Node, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	node, ok := m.nodes[id]
	if !ok || node.OwnerID != ownerID {
		return nil, nil
	}
	return &node, nil
}

func (m *MemoryStore) ListNodesByPath(_ context.Context, ownerID int64, path string) ([]models.Node, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	nodes := []models.Node{}
	for _, n := range m.nodes {
		if n.OwnerID == ownerID && n.Path == path {
			nodes = append(nodes, n)
		}
	}
	return nodes, nil
}

func (m *MemoryStore) ListSubtree(_ context.Context, ownerID int64, location string) ([]models.Node, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	nodes := []models.Node{}
	for _, n := range m.nodes {
		if n.OwnerID == ownerID && namespace.Within(n.Path, location) {
			nodes = append(nodes, n)
		}
	}
	return nodes, nil
}

func (m *MemoryStore) NodeExists(_ context.Context, id string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.nodes[id]
	return ok, nil
}

func (m *MemoryStore) NodeExistsAtPath(_ context.Context, ownerID int64, path, name string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, n := range m.nodes {
		if n.OwnerID == ownerID && n.Path == path && n.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (m *MemoryStore) RenameNode(_ context.Context, id string, ownerID int64, newName string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	node, ok := m.nodes[id]
	if !ok || node.OwnerID != ownerID {
		return false, nil
	}
	if err := m.writeErr(id); err != nil {
		return false, err
	}
	for _, n := range m.nodes {
		if n.ID != id && n.OwnerID == ownerID && n.Path == node.Path && n.Name == newName {
			return false, ErrDuplicateNodeName
		}
	}

	node.Name = newName
	node.ModifiedAt = time.Now()
	m.nodes[id] = node
	return true, nil
}

func (m *MemoryStore) SetNodePath(_ context.Context, id string, ownerID int64, newPath string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	node, ok := m.nodes[id]
	if !ok || node.OwnerID != ownerID {
		return false, nil
	}
	if err := m.writeErr(id); err != nil {
		return false, err
	}
	for _, n := range m.nodes {
		if n.ID != id && n.OwnerID == ownerID && n.Path == newPath && n.Name == node.Name {
			return false, ErrDuplicateNodeName
		}
	}

	node.Path = newPath
	node.ModifiedAt = time.Now()
	m.nodes[id] = node
	return true, nil
}

func (m *MemoryStore) DeleteNode(_ context.Context, id string, ownerID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	node, ok := m.nodes[id]
	if !ok || node.OwnerID != ownerID {
		return false, nil
	}
	if err := m.writeErr(id); err != nil {
		return false, err
	}

	delete(m.nodes, id)
	return true, nil
}

func (m *MemoryStore) LogEvent(_ context.Context, userID int64, eventType string, payload interface{}) error {
	eventBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextEventID++
	m.events[userID] = append(m.events[userID], Event{
		ID:        m.nextEventID,
		EventType: eventType,
		EventTime: time.Now(),
		Payload:   eventBytes,
	})
	return nil
}

func (m *MemoryStore) GetEventsSince(_ context.Context, userID int64, sinceID int64) ([]Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	events := []Event{}
	for _, e := range m.events[userID] {
		if e.ID > sinceID {
			events = append(events, e)
		}
	}
	return events, nil
}

func (m *MemoryStore) AddUser(user models.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
}

func (m *MemoryStore) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, nil
}

func (m *MemoryStore) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}
