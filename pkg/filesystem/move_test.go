package filesystem

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/filedb/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, m *Mover, path string) string {
	t.Helper()
	f, err := m.fs.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	return string(data)
}

func TestMover_Move(t *testing.T) {
	fsys := NewMemory()
	require.NoError(t, fsys.MkdirAll("/in", 0755))
	require.NoError(t, fsys.WriteFile("/in/a.txt", []byte("hello"), 0644))

	m := NewMover(fsys)
	require.NoError(t, m.Move("/archive/2022/01/a.txt", "/in/a.txt"))

	assert.Equal(t, "hello", readAll(t, m, "/archive/2022/01/a.txt"))

	exists, err := m.Exists("/in/a.txt")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMover_IntoExistingDirectory(t *testing.T) {
	fsys := NewMemory()
	require.NoError(t, fsys.MkdirAll("/in", 0755))
	require.NoError(t, fsys.MkdirAll("/out", 0755))
	require.NoError(t, fsys.WriteFile("/in/b.bin", []byte{1, 2, 3}, 0644))

	m := NewMover(fsys)
	require.NoError(t, m.Move("/out/b.bin", "/in/b.bin"))

	assert.Equal(t, string([]byte{1, 2, 3}), readAll(t, m, "/out/b.bin"))
	exists, err := m.Exists("/in/b.bin")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMover_MissingSource(t *testing.T) {
	m := NewMover(NewMemory())

	err := m.Move("/archive/a.txt", "/in/missing.txt")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrFileNotFound))
}

func TestOSMover_Move(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0644))

	m := NewOSMover()
	dst := filepath.Join(dir, "a", "b", "src.txt")
	require.NoError(t, m.Move(dst, src))

	exists, err := m.Exists(dst)
	require.NoError(t, err)
	assert.True(t, exists)

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "x", string(data))

	_, err = os.Stat(src)
	assert.True(t, os.IsNotExist(err))
}
