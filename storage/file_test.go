package storage_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pw2712gz/go-auth-client/storage"
)

func newTestRepo(t *testing.T) (*storage.FileRepo, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "credentials.json")
	repo, err := storage.NewFileRepo(path)
	require.NoError(t, err)
	return repo, path
}

func TestFileRepo_SetGetDelete(t *testing.T) {
	repo, _ := newTestRepo(t)

	_, ok := repo.Get(storage.AccessTokenKey)
	require.False(t, ok)

	require.NoError(t, repo.Set(storage.AccessTokenKey, "token-a"))
	value, ok := repo.Get(storage.AccessTokenKey)
	require.True(t, ok)
	require.Equal(t, "token-a", value)

	require.NoError(t, repo.Delete(storage.AccessTokenKey))
	_, ok = repo.Get(storage.AccessTokenKey)
	require.False(t, ok)
}

func TestFileRepo_DeleteMissingKey(t *testing.T) {
	repo, _ := newTestRepo(t)
	require.NoError(t, repo.Delete("never-set"))
}

func TestFileRepo_PersistsAcrossInstances(t *testing.T) {
	repo, path := newTestRepo(t)
	require.NoError(t, repo.Set(storage.AccessTokenKey, "token-a"))
	require.NoError(t, repo.Set(storage.RefreshTokenKey, "token-r"))

	reopened, err := storage.NewFileRepo(path)
	require.NoError(t, err)

	value, ok := reopened.Get(storage.AccessTokenKey)
	require.True(t, ok)
	require.Equal(t, "token-a", value)

	value, ok = reopened.Get(storage.RefreshTokenKey)
	require.True(t, ok)
	require.Equal(t, "token-r", value)
}

func TestFileRepo_CorruptFileReadsAsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	repo, err := storage.NewFileRepo(path)
	require.NoError(t, err)

	_, ok := repo.Get(storage.AccessTokenKey)
	require.False(t, ok)
}
