package mmap

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "snapshot.bin")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestMapping_ReadAt(t *testing.T) {
	m, err := Open(writeFile(t, []byte("geoterm snapshot")))
	require.NoError(t, err)
	defer m.Close()

	assert.Equal(t, int64(16), m.Size())
	assert.Equal(t, []byte("geoterm snapshot"), m.Bytes())

	buf := make([]byte, 8)
	n, err := m.ReadAt(buf, 8)
	require.NoError(t, err)
	assert.Equal(t, 8, n)
	assert.Equal(t, "snapshot", string(buf))

	n, err = m.ReadAt(buf, 12)
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, 4, n)

	_, err = m.ReadAt(buf, -1)
	assert.ErrorIs(t, err, ErrInvalidOffset)

	_, err = m.ReadAt(buf, 100)
	assert.ErrorIs(t, err, io.EOF)
}

func TestMapping_Empty(t *testing.T) {
	m, err := Open(writeFile(t, nil))
	require.NoError(t, err)

	assert.Zero(t, m.Size())
	_, err = m.ReadAt(make([]byte, 1), 0)
	assert.ErrorIs(t, err, io.EOF)
	assert.NoError(t, m.Close())
}

func TestMapping_Close(t *testing.T) {
	m, err := Open(writeFile(t, []byte("abc")))
	require.NoError(t, err)

	require.NoError(t, m.Close())
	require.NoError(t, m.Close())

	assert.Nil(t, m.Bytes())
	_, err = m.ReadAt(make([]byte, 1), 0)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestOpen_Missing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
