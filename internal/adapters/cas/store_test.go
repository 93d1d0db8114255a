package cas_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/gryla/internal/adapters/cas"
	"go.trai.ch/gryla/internal/adapters/fs"
	"go.trai.ch/gryla/internal/core/domain"
)

func TestStore_PutAndGet(t *testing.T) {
	tmpDir := t.TempDir()
	storePath := filepath.Join(tmpDir, ".gryla", "link.json")
	fsys := fs.NewOSFS("")

	store, err := cas.NewStore(fsys, storePath)
	require.NoError(t, err)

	got, err := store.Get("libgryla.so")
	require.NoError(t, err)
	assert.Nil(t, got)

	rec := domain.NewLinkRecord("libgryla.so", "00ff", []string{"lib/a.o", "lib/b.o"}, time.Unix(1700000000, 0).UTC())
	require.NoError(t, store.Put(rec))

	got, err = store.Get("libgryla.so")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, *rec, *got)

	// A fresh store reads what the first one persisted.
	reopened, err := cas.NewOpener(fsys).Open(storePath)
	require.NoError(t, err)
	got, err = reopened.Get("libgryla.so")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "00ff", got.Fingerprint)
	assert.True(t, rec.Timestamp.Equal(got.Timestamp))
}

func TestStore_GetReturnsCopy(t *testing.T) {
	store, err := cas.NewStore(fs.NewMemFS(), ".gryla/link.json")
	require.NoError(t, err)

	require.NoError(t, store.Put(domain.NewLinkRecord("libgryla.so", "a", nil, time.Time{})))

	got, err := store.Get("libgryla.so")
	require.NoError(t, err)
	got.Fingerprint = "mutated"

	again, err := store.Get("libgryla.so")
	require.NoError(t, err)
	assert.Equal(t, "a", again.Fingerprint)
}

func TestStore_PutNil(t *testing.T) {
	mem := fs.NewMemFS()
	store, err := cas.NewStore(mem, ".gryla/link.json")
	require.NoError(t, err)

	require.NoError(t, store.Put(nil))
	assert.False(t, mem.Exists(".gryla/link.json"))
}

func TestStore_EmptyFile(t *testing.T) {
	mem := fs.NewMemFS()
	mem.Touch(".gryla/link.json", mem.Now())

	store, err := cas.NewStore(mem, ".gryla/link.json")
	require.NoError(t, err)

	got, err := store.Get("libgryla.so")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_CorruptFile(t *testing.T) {
	tmpDir := t.TempDir()
	storePath := filepath.Join(tmpDir, "link.json")
	require.NoError(t, os.WriteFile(storePath, []byte("{not json"), 0o600))

	_, err := cas.NewStore(fs.NewOSFS(""), storePath)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrStoreReadFailed))
}

func TestStore_WriteFailure(t *testing.T) {
	tmpDir := t.TempDir()
	blocker := filepath.Join(tmpDir, "state")

	store, err := cas.NewStore(fs.NewOSFS(""), filepath.Join(blocker, "link.json"))
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(blocker, []byte("file, not dir"), 0o600))

	err = store.Put(domain.NewLinkRecord("libgryla.so", "a", nil, time.Time{}))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrStoreWriteFailed))
}
