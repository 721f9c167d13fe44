package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

var _ Repo = (*FileRepo)(nil)

// FileRepo persists values as a JSON object in a single file. Writes go
// through to disk before returning so that a value set by one mutator is
// visible to every later reader, including a fresh process.
type FileRepo struct {
	path   string
	values map[string]string
	lock   sync.RWMutex
}

// NewFileRepo loads the file at path if it exists. A missing file is an
// empty store, not an error.
func NewFileRepo(path string) (*FileRepo, error) {
	repo := &FileRepo{
		path:   path,
		values: make(map[string]string),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return repo, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "[NewFileRepo] read")
	}

	if err := json.Unmarshal(data, &repo.values); err != nil {
		// A corrupt credentials file reads as empty rather than wedging
		// the client; the next Set rewrites it.
		repo.values = make(map[string]string)
	}

	return repo, nil
}

func (fr *FileRepo) Get(key string) (string, bool) {
	fr.lock.RLock()
	defer fr.lock.RUnlock()
	value, ok := fr.values[key]
	return value, ok
}

func (fr *FileRepo) Set(key, value string) error {
	fr.lock.Lock()
	defer fr.lock.Unlock()
	fr.values[key] = value
	return fr.flush()
}

func (fr *FileRepo) Delete(key string) error {
	fr.lock.Lock()
	defer fr.lock.Unlock()
	if _, ok := fr.values[key]; !ok {
		return nil
	}
	delete(fr.values, key)
	return fr.flush()
}

// flush writes the store atomically via a temp file rename. Callers hold
// the write lock.
func (fr *FileRepo) flush() error {
	data, err := json.MarshalIndent(fr.values, "", "  ")
	if err != nil {
		return errors.Wrap(err, "[FileRepo.flush] marshal")
	}

	dir := filepath.Dir(fr.path)
	tmp, err := os.CreateTemp(dir, ".credentials-*")
	if err != nil {
		return errors.Wrap(err, "[FileRepo.flush] create temp")
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return errors.Wrap(err, "[FileRepo.flush] write")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(err, "[FileRepo.flush] close")
	}

	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(err, "[FileRepo.flush] chmod")
	}

	if err := os.Rename(tmp.Name(), fr.path); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(err, "[FileRepo.flush] rename")
	}

	return nil
}
