// Package cache is a file-backed caching layer for FIO catalog data.
// Each data set is one JSON file under the cache directory, validated by
// file age against a TTL and indexed in memory on first use.
package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// DefaultTTL is how long a cache file stays valid.
const DefaultTTL = 24 * time.Hour

// fileStore handles one cache file: TTL checks via mtime, JSON round trips.
type fileStore struct {
	path string
	ttl  time.Duration
}

func newFileStore(dir, name string, ttl time.Duration) fileStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return fileStore{path: filepath.Join(dir, name), ttl: ttl}
}

// valid reports whether the cache file exists and is within TTL.
func (s fileStore) valid() bool {
	age, ok := s.age()
	return ok && age < s.ttl
}

// age returns how long ago the cache file was written.
func (s fileStore) age() (time.Duration, bool) {
	info, err := os.Stat(s.path)
	if err != nil {
		return 0, false
	}
	return time.Since(info.ModTime()), true
}

func (s fileStore) read(v interface{}) error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func (s fileStore) write(v interface{}) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}

func (s fileStore) remove() error {
	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
