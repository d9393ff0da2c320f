package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalStorage keeps blobs on the local disk, sharded into two directory
// levels off the ref so a single directory never collects every blob.
type LocalStorage struct {
	basePath string
}

func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, err
	}
	return &LocalStorage{basePath: basePath}, nil
}

func (ls *LocalStorage) pathFromRef(ref string) string {
	if len(ref) < 4 {
		return filepath.Join(ls.basePath, ref)
	}
	return filepath.Join(ls.basePath, ref[:2], ref[2:4], ref)
}

func (ls *LocalStorage) Save(ref string, data io.Reader, total int64, onProgress ProgressFunc) error {
	filePath := ls.pathFromRef(ref)
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return err
	}

	file, err := os.Create(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	if _, err := io.Copy(file, newProgressReader(data, total, onProgress)); err != nil {
		os.Remove(filePath)
		return err
	}
	return file.Sync()
}

func (ls *LocalStorage) Open(ref string) (io.ReadCloser, error) {
	file, err := os.Open(ls.pathFromRef(ref))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("blob %s not found: %w", ref, err)
		}
		return nil, err
	}
	return file, nil
}

func (ls *LocalStorage) Delete(ref string) error {
	err := os.Remove(ls.pathFromRef(ref))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
