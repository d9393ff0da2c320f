// Package uploads coordinates concurrent file uploads: each upload gets an
// in-flight registry entry with its own progress stream, and a node record
// is materialized only once the blob has been fully committed.
package uploads

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/puzpuzpuz/xsync/v4"
	"github.com/rs/zerolog"

	"cloudshelf/internal/database"
	"cloudshelf/internal/logging"
	"cloudshelf/internal/models"
	"cloudshelf/internal/namespace"
	"cloudshelf/internal/storage"
)

var (
	ErrEmptyFileName   = errors.New("file name cannot be empty")
	ErrInvalidFileName = errors.New(`file name cannot contain "/"`)
)

var (
	uploadsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cloudshelf_uploads_in_flight",
		Help: "Number of uploads currently being transported.",
	})
	uploadBytesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cloudshelf_upload_bytes_total",
		Help: "Total bytes received across all uploads.",
	})
)

// Notifier pushes upload lifecycle events to the owning user's clients.
type Notifier interface {
	PublishJSON(userID int64, eventType string, payload interface{})
}

// Entry is the pseudo-row a client renders for an upload whose record does
// not exist yet. Progress runs 0-100.
type Entry struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	Progress  int       `json:"progress"`
	StartedAt time.Time `json:"started_at"`
}

type Coordinator struct {
	store    database.NodeStore
	blobs    storage.BlobStore
	notifier Notifier
	logger   zerolog.Logger

	// inflight maps upload id to its entry. Updates always replace the
	// value for one key, so concurrent uploads never perturb each other.
	inflight *xsync.Map[string, Entry]
}

func NewCoordinator(store database.NodeStore, blobs storage.BlobStore, notifier Notifier) *Coordinator {
	return &Coordinator{
		store:    store,
		blobs:    blobs,
		notifier: notifier,
		logger:   logging.Component("uploads"),
		inflight: xsync.NewMap[string, Entry](),
	}
}

// Snapshot lists the in-flight entries, oldest first.
func (c *Coordinator) Snapshot() []Entry {
	entries := []Entry{}
	c.inflight.Range(func(_ string, entry Entry) bool {
		entries = append(entries, entry)
		return true
	})
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].StartedAt.Equal(entries[j].StartedAt) {
			return entries[i].ID < entries[j].ID
		}
		return entries[i].StartedAt.Before(entries[j].StartedAt)
	})
	return entries
}

// Upload transports one file to blob storage and, on success, creates
// exactly one file record under path. The in-flight entry is registered
// before the first byte moves and removed only after record creation has
// succeeded or failed. A transport failure creates no record; a record
// failure after a committed blob orphans the blob (accepted, logged).
func (c *Coordinator) Upload(ctx context.Context, ownerID int64, path, filename, mimeType string, size int64, data io.Reader) (*models.Node, error) {
	name := strings.TrimSpace(filename)
	if name == "" {
		return nil, ErrEmptyFileName
	}
	if !namespace.ValidName(name) {
		return nil, ErrInvalidFileName
	}

	uploadID := uuid.NewString()
	entry := Entry{ID: uploadID, Name: name, Path: path, StartedAt: time.Now()}
	c.inflight.Store(uploadID, entry)
	uploadsInFlight.Inc()
	defer func() {
		c.inflight.Delete(uploadID)
		uploadsInFlight.Dec()
	}()

	c.notify(ownerID, "upload_started", entry)

	blobRef := storage.NewBlobRef(name)
	var reported int64
	err := c.blobs.Save(blobRef, data, size, func(written, total int64) {
		uploadBytesTotal.Add(float64(written - reported))
		reported = written
		c.setProgress(ownerID, uploadID, written, total)
	})
	if err != nil {
		c.logger.Error().Err(err).Str("upload_id", uploadID).Str("name", name).Msg("blob transport failed")
		c.notify(ownerID, "upload_failed", entry)
		return nil, err
	}

	nodeID, err := database.GenerateNodeID(ctx, c.store)
	if err != nil {
		c.logger.Warn().Err(err).Str("blob_ref", blobRef).Msg("record creation failed, blob orphaned")
		c.notify(ownerID, "upload_failed", entry)
		return nil, err
	}

	downloadURL := "/api/v1/nodes/" + nodeID + "/download"
	node, err := c.store.CreateNode(ctx, database.CreateNodeParams{
		ID:          nodeID,
		OwnerID:     ownerID,
		Name:        name,
		NodeType:    models.NodeTypeFile,
		Path:        path,
		SizeBytes:   &size,
		MimeType:    &mimeType,
		BlobRef:     &blobRef,
		DownloadURL: &downloadURL,
	})
	if err != nil {
		c.logger.Warn().Err(err).Str("blob_ref", blobRef).Msg("record creation failed, blob orphaned")
		c.notify(ownerID, "upload_failed", entry)
		return nil, err
	}

	if err := c.store.LogEvent(ctx, ownerID, "node_created", node); err != nil {
		c.logger.Error().Err(err).Str("node_id", node.ID).Msg("failed to journal upload event")
	}
	c.notify(ownerID, "node_created", node)

	return node, nil
}

// setProgress replaces the entry for one upload id; a progress event for one
// upload can never change another upload's recorded progress.
func (c *Coordinator) setProgress(ownerID int64, uploadID string, written, total int64) {
	pct := 0
	if total > 0 {
		pct = int(written * 100 / total)
		if pct > 100 {
			pct = 100
		}
	}

	entry, ok := c.inflight.Load(uploadID)
	if !ok || entry.Progress == pct {
		return
	}
	entry.Progress = pct
	c.inflight.Store(uploadID, entry)
	c.notify(ownerID, "upload_progress", entry)
}

func (c *Coordinator) notify(ownerID int64, eventType string, payload interface{}) {
	if c.notifier == nil {
		return
	}
	c.notifier.PublishJSON(ownerID, eventType, payload)
}
