package blobfs

import (
	"PassVault/internal/service"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirWriter_WritesAtomically(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "backups")
	w := DirWriter{Dir: dir}

	loc, err := w.WriteBlob(context.Background(), "passwords_1.enc", []byte("token"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "passwords_1.enc"), loc)

	b, err := os.ReadFile(loc)
	require.NoError(t, err)
	assert.Equal(t, "token", string(b))

	// временных файлов не остаётся
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	if runtime.GOOS != "windows" {
		st, err := os.Stat(loc)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), st.Mode().Perm())
	}
}

func TestDirWriter_RejectsBadNames(t *testing.T) {
	w := DirWriter{Dir: t.TempDir()}
	for _, name := range []string{"", ".", "..", "../x.enc", "a/b.enc", `a\b.enc`} {
		_, err := w.WriteBlob(context.Background(), name, []byte("x"))
		assert.Error(t, err, "name %q", name)
	}
}

func TestDirWriter_FailsWhenDirIsFile(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "not_dir")
	require.NoError(t, os.WriteFile(bad, []byte("x"), 0o600))

	_, err := DirWriter{Dir: bad}.WriteBlob(context.Background(), "passwords_1.enc", []byte("x"))
	assert.Error(t, err)
}

func TestFilePicker(t *testing.T) {
	p := filepath.Join(t.TempDir(), "whatever.bin")
	require.NoError(t, os.WriteFile(p, []byte("token"), 0o600))

	b, err := FilePicker{Path: p}.PickBlob(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token", string(b))

	_, err = FilePicker{}.PickBlob(context.Background())
	assert.ErrorIs(t, err, service.ErrPickCancelled)

	_, err = FilePicker{Path: filepath.Join(t.TempDir(), "missing")}.PickBlob(context.Background())
	assert.Error(t, err)
}
