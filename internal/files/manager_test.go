package files

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "store.csv")
	require.NoError(t, os.WriteFile(file, []byte("Store\n1\n"), 0644))

	tests := []struct {
		name string
		path string
		want bool
	}{
		{name: "existing file", path: file, want: true},
		{name: "missing file", path: filepath.Join(dir, "absent.csv"), want: false},
		{name: "directory", path: dir, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Exists(tt.path))
		})
	}
}

func TestEnsureParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "features.csv")

	require.NoError(t, EnsureParentDir(path))

	info, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestWriteAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "features.csv")

	err := WriteAtomic(path, func(w io.Writer) error {
		_, err := io.WriteString(w, "store,sales\n1,5263\n")
		return err
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "store,sales\n1,5263\n", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file left behind")
}

func TestWriteAtomic_FailureKeepsExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "features.csv")
	require.NoError(t, os.WriteFile(path, []byte("previous"), 0644))

	boom := errors.New("boom")
	err := WriteAtomic(path, func(w io.Writer) error {
		io.WriteString(w, "partial")
		return boom
	})
	assert.ErrorIs(t, err, boom)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
