package badger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenBackend_InMemory(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	assert.False(t, backend.IsClosed())
}

func TestOpenBackend_FileSystem(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "db")
	backend, err := OpenBackend(dir, false)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestOpenBackend_PathIsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	backend, err := OpenBackend(path, false)
	assert.Error(t, err)
	assert.Nil(t, backend)
}

func TestBackendClose(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)

	assert.False(t, backend.IsClosed())
	require.NoError(t, backend.Close())
	assert.True(t, backend.IsClosed())
}

func TestWithTx_DiscardsUncommittedWrites(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	defer backend.Close()

	err = backend.WithTx(func(tx *badger.Txn) error {
		return tx.Set([]byte("k"), []byte("v"))
	}, true)
	require.NoError(t, err)

	err = backend.WithTx(func(tx *badger.Txn) error {
		_, err := tx.Get([]byte("k"))
		return err
	}, false)
	assert.ErrorIs(t, err, badger.ErrKeyNotFound)
}

func TestKeysWithPrefix(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	defer backend.Close()

	err = backend.WithTx(func(tx *badger.Txn) error {
		for _, key := range [][]byte{
			makeChunkKey("a", 1),
			makeChunkKey("a", 0),
			makeChunkKey("ab", 0),
			makeManifestKey("a"),
		} {
			if err := tx.Set(key, []byte{1}); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	require.NoError(t, err)

	var keys [][]byte
	err = backend.WithTx(func(tx *badger.Txn) error {
		keys = keysWithPrefix(tx, makeChunkPrefix("a"))
		return nil
	}, false)
	require.NoError(t, err)

	require.Len(t, keys, 2)
	assert.Equal(t, makeChunkKey("a", 0), keys[0])
	assert.Equal(t, makeChunkKey("a", 1), keys[1])
}

func TestChunkKeyOrdering(t *testing.T) {
	// Big-endian indices must sort numerically, including across byte boundaries.
	assert.Less(t, string(makeChunkKey("doc", 9)), string(makeChunkKey("doc", 10)))
	assert.Less(t, string(makeChunkKey("doc", 255)), string(makeChunkKey("doc", 256)))
}

func TestValidDocumentID(t *testing.T) {
	assert.True(t, validDocumentID("doc-1"))
	assert.True(t, validDocumentID("path/to/file.md"))
	assert.False(t, validDocumentID(""))
	assert.False(t, validDocumentID("bad\x00id"))
}
