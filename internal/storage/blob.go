// Package storage is the blob-store boundary: file bytes live here under
// opaque refs, entirely apart from the node records that name them.
package storage

import (
	"io"
	"strings"

	"github.com/google/uuid"
)

// ProgressFunc receives transport progress while a blob is being written.
// total is the expected byte count, or 0 when unknown.
type ProgressFunc func(written, total int64)

// BlobStore stores and retrieves file content by ref. Save reports progress
// as bytes land; Delete is best-effort and must tolerate a missing blob.
type BlobStore interface {
	Save(ref string, data io.Reader, total int64, onProgress ProgressFunc) error
	Open(ref string) (io.ReadCloser, error)
	Delete(ref string) error
}

// NewBlobRef derives a collision-resistant blob key from a random unique
// suffix plus the original file name. The name part keeps blobs identifiable
// on disk but plays no role in uniqueness.
func NewBlobRef(filename string) string {
	return uuid.NewString() + "_" + sanitizeName(filename)
}

func sanitizeName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, name)
}
