package safeio

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFS(tb testing.TB) (*SafeFS, string) {
	tb.Helper()
	root := tb.TempDir()
	require.NoError(tb, os.MkdirAll(filepath.Join(root, "sub"), 0o755))
	require.NoError(tb, os.WriteFile(filepath.Join(root, "a.txt"), []byte("hello"), 0o644))
	require.NoError(tb, os.WriteFile(filepath.Join(root, "sub", "b.txt"), []byte("nested"), 0o644))
	fsys, err := New(root)
	require.NoError(tb, err)
	return fsys, root
}

func TestReadFile(t *testing.T) {
	fsys, _ := newFS(t)

	data, err := fsys.ReadFile("a.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	data, err = fsys.ReadFile("sub/b.txt")
	require.NoError(t, err)
	assert.Equal(t, "nested", string(data))
}

func TestRejectsEscapes(t *testing.T) {
	fsys, _ := newFS(t)

	_, err := fsys.ReadFile("../outside.txt")
	assert.Error(t, err)

	_, err = fsys.ReadFile("/etc/hostname")
	assert.Error(t, err)

	_, err = fsys.ReadFile("sub/../../escape.txt")
	assert.Error(t, err)

	_, err = fsys.ReadFile("")
	assert.Error(t, err)
}

func TestRejectsSymlinkEscape(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	fsys, root := newFS(t)

	outside := filepath.Join(t.TempDir(), "secret.txt")
	require.NoError(t, os.WriteFile(outside, []byte("secret"), 0o644))
	require.NoError(t, os.Symlink(outside, filepath.Join(root, "link.txt")))

	_, err := fsys.ReadFile("link.txt")
	assert.Error(t, err)
}

func TestNewRejectsBadRoot(t *testing.T) {
	_, err := New("")
	assert.Error(t, err)

	_, err = New(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "f.txt")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	_, err = New(file)
	assert.Error(t, err)
}

func TestReadDirectoryFails(t *testing.T) {
	fsys, _ := newFS(t)
	_, err := fsys.ReadFile("sub")
	assert.Error(t, err)
}
