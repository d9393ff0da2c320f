package storage

import (
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewLocalStorage(t *testing.T) {
	tempDir := t.TempDir()

	ls, err := NewLocalStorage(tempDir)
	require.NoError(t, err)
	require.NotNil(t, ls)
	require.Equal(t, tempDir, ls.basePath)

	_, err = os.Stat(tempDir)
	require.NoError(t, err, "base directory should exist")
}

func TestLocalStorage_SaveOpenDelete(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	ref := NewBlobRef("report.pdf")
	content := "Hello, world!"

	err = ls.Save(ref, strings.NewReader(content), int64(len(content)), nil)
	require.NoError(t, err)

	// The blob lands sharded two levels deep off the ref.
	fileInfo, err := os.Stat(ls.pathFromRef(ref))
	require.NoError(t, err, "blob should exist after save")
	require.Equal(t, int64(len(content)), fileInfo.Size())

	readCloser, err := ls.Open(ref)
	require.NoError(t, err)
	retrieved, err := io.ReadAll(readCloser)
	require.NoError(t, err)
	readCloser.Close()
	require.Equal(t, content, string(retrieved))

	err = ls.Delete(ref)
	require.NoError(t, err)
	_, err = os.Stat(ls.pathFromRef(ref))
	require.True(t, os.IsNotExist(err), "blob should be gone after delete")
}

func TestLocalStorage_SaveReportsProgress(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	content := strings.Repeat("x", 64*1024)
	var lastWritten, lastTotal int64
	err = ls.Save("progress_ref_0001", strings.NewReader(content), int64(len(content)), func(written, total int64) {
		require.GreaterOrEqual(t, written, lastWritten)
		lastWritten = written
		lastTotal = total
	})
	require.NoError(t, err)
	require.Equal(t, int64(len(content)), lastWritten)
	require.Equal(t, int64(len(content)), lastTotal)
}

func TestLocalStorage_OpenMissingBlob(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = ls.Open("no_such_ref_000000")
	require.Error(t, err)
}

func TestLocalStorage_DeleteMissingBlobIsNil(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, ls.Delete("no_such_ref_000000"))
}

func TestNewBlobRefSanitizesName(t *testing.T) {
	ref := NewBlobRef("weird name/../<>.txt")
	require.NotContains(t, ref, "/")
	require.NotContains(t, ref, "<")
	require.True(t, strings.HasSuffix(ref, ".txt"))
}
