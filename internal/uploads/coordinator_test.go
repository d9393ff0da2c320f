package uploads

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"cloudshelf/internal/database"
	"cloudshelf/internal/models"
	"cloudshelf/internal/storage"
)

const testOwner int64 = 1

// stepBlobStore drains the reader in chunks and reports progress after each
// one, optionally pausing between chunks so a test can interleave uploads.
type stepBlobStore struct {
	chunkSize int
	failAfter int // bytes to accept before failing, -1 for never
	onChunk   func()

	mu    sync.Mutex
	saved map[string][]byte
}

func newStepBlobStore(chunkSize int) *stepBlobStore {
	return &stepBlobStore{chunkSize: chunkSize, failAfter: -1, saved: map[string][]byte{}}
}

func (s *stepBlobStore) Save(ref string, data io.Reader, total int64, onProgress storage.ProgressFunc) error {
	var written int64
	buf := make([]byte, s.chunkSize)
	var content []byte
	for {
		n, err := data.Read(buf)
		if n > 0 {
			written += int64(n)
			content = append(content, buf[:n]...)
			if s.failAfter >= 0 && written > int64(s.failAfter) {
				return errors.New("transport interrupted")
			}
			if onProgress != nil {
				onProgress(written, total)
			}
			if s.onChunk != nil {
				s.onChunk()
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
	}
	s.mu.Lock()
	s.saved[ref] = content
	s.mu.Unlock()
	return nil
}

func (s *stepBlobStore) Open(ref string) (io.ReadCloser, error) {
	return nil, errors.New("not implemented")
}

func (s *stepBlobStore) Delete(ref string) error { return nil }

// recordingNotifier captures published events per upload id.
type recordingNotifier struct {
	mu     sync.Mutex
	events []publishedEvent
}

type publishedEvent struct {
	eventType string
	payload   interface{}
}

func (r *recordingNotifier) PublishJSON(userID int64, eventType string, payload interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, publishedEvent{eventType, payload})
}

func (r *recordingNotifier) progressFor(name string) []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []int
	for _, e := range r.events {
		if e.eventType != "upload_progress" {
			continue
		}
		entry, ok := e.payload.(Entry)
		if ok && entry.Name == name {
			out = append(out, entry.Progress)
		}
	}
	return out
}

func TestUploadCreatesRecordAfterBlobCommit(t *testing.T) {
	store := database.NewMemoryStore()
	blobs := newStepBlobStore(4)
	notifier := &recordingNotifier{}
	c := NewCoordinator(store, blobs, notifier)

	node, err := c.Upload(context.Background(), testOwner, "/", "hello.txt", "text/plain", 11, strings.NewReader("hello world"))
	require.NoError(t, err)
	require.NotNil(t, node)
	require.Equal(t, models.NodeTypeFile, node.NodeType)
	require.Equal(t, "/", node.Path)
	require.Equal(t, "hello.txt", node.Name)
	require.NotNil(t, node.BlobRef)
	require.Equal(t, "/api/v1/nodes/"+node.ID+"/download", *node.DownloadURL)

	// Exactly one record landed.
	nodes, err := store.ListNodesByPath(context.Background(), testOwner, "/")
	require.NoError(t, err)
	require.Len(t, nodes, 1)

	// Entry is gone once the upload settled.
	require.Empty(t, c.Snapshot())

	// Progress reached 100 before the created event.
	progress := notifier.progressFor("hello.txt")
	require.NotEmpty(t, progress)
	require.Equal(t, 100, progress[len(progress)-1])
}

func TestUploadTransportFailureLeavesNoRecord(t *testing.T) {
	store := database.NewMemoryStore()
	blobs := newStepBlobStore(4)
	blobs.failAfter = 4
	notifier := &recordingNotifier{}
	c := NewCoordinator(store, blobs, notifier)

	_, err := c.Upload(context.Background(), testOwner, "/", "big.bin", "application/octet-stream", 100, strings.NewReader(strings.Repeat("x", 100)))
	require.Error(t, err)

	nodes, err := store.ListNodesByPath(context.Background(), testOwner, "/")
	require.NoError(t, err)
	require.Empty(t, nodes)
	require.Empty(t, c.Snapshot())

	var failed bool
	for _, e := range notifier.events {
		if e.eventType == "upload_failed" {
			failed = true
		}
	}
	require.True(t, failed)
}

func TestUploadEmptyNameRejected(t *testing.T) {
	c := NewCoordinator(database.NewMemoryStore(), newStepBlobStore(4), nil)
	_, err := c.Upload(context.Background(), testOwner, "/", "  ", "", 0, strings.NewReader(""))
	require.ErrorIs(t, err, ErrEmptyFileName)
}

func TestUploadSeparatorInNameRejected(t *testing.T) {
	store := database.NewMemoryStore()
	c := NewCoordinator(store, newStepBlobStore(4), nil)

	_, err := c.Upload(context.Background(), testOwner, "/", "a/b.txt", "", 1, strings.NewReader("x"))
	require.ErrorIs(t, err, ErrInvalidFileName)

	nodes, err := store.ListNodesByPath(context.Background(), testOwner, "/")
	require.NoError(t, err)
	require.Empty(t, nodes)
}

func TestConcurrentUploadsTrackProgressIndependently(t *testing.T) {
	store := database.NewMemoryStore()
	notifier := &recordingNotifier{}

	// A shared coordinator, two uploads racing through it.
	blobs := newStepBlobStore(10)
	c := NewCoordinator(store, blobs, notifier)

	var wg sync.WaitGroup
	upload := func(name string, size int) {
		defer wg.Done()
		_, err := c.Upload(context.Background(), testOwner, "/", name, "application/octet-stream", int64(size), strings.NewReader(strings.Repeat("a", size)))
		require.NoError(t, err)
	}
	wg.Add(2)
	go upload("one.bin", 50)
	go upload("two.bin", 200)
	wg.Wait()

	// Each upload's progress sequence is monotonic and ends at 100,
	// regardless of how the two interleaved.
	for _, name := range []string{"one.bin", "two.bin"} {
		seq := notifier.progressFor(name)
		require.NotEmpty(t, seq, name)
		last := 0
		for _, p := range seq {
			require.GreaterOrEqual(t, p, last, name)
			last = p
		}
		require.Equal(t, 100, last, name)
	}

	nodes, err := store.ListNodesByPath(context.Background(), testOwner, "/")
	require.NoError(t, err)
	require.Len(t, nodes, 2)
}

func TestSnapshotListsInFlightOldestFirst(t *testing.T) {
	store := database.NewMemoryStore()
	blobs := newStepBlobStore(1)

	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	blobs.onChunk = func() {
		once.Do(func() { close(started) })
		<-release
	}

	c := NewCoordinator(store, blobs, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := c.Upload(context.Background(), testOwner, "/", "slow.bin", "", 2, strings.NewReader("ab"))
		require.NoError(t, err)
	}()

	<-started
	entries := c.Snapshot()
	require.Len(t, entries, 1)
	require.Equal(t, "slow.bin", entries[0].Name)
	require.Equal(t, "/", entries[0].Path)

	close(release)
	<-done
	require.Empty(t, c.Snapshot())
}
