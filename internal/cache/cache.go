// Package cache provides persistent storage for the completion set: the
// conversation IDs that a previous pass found fully clean. The set is stored
// as a flat JSON array so runs can resume without re-scanning clean
// conversations.
package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"github.com/aatumaykin/slacknuke/internal/logger"
)

// Set is an in-memory completion set keyed by conversation ID.
type Set map[string]struct{}

// NewSet creates an empty completion set.
func NewSet() Set {
	return make(Set)
}

// Contains reports whether the conversation ID is in the set.
func (s Set) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// Add inserts the conversation ID into the set.
func (s Set) Add(id string) {
	s[id] = struct{}{}
}

// IDs returns the set members as a sorted slice.
func (s Set) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Store provides persistent storage for the completion set.
type Store struct {
	filePath string         // Full path to the cache file
	logger   *logger.Logger // Logger instance for storage operations
}

// NewStore creates a Store backed by the given file path.
func NewStore(filePath string, log *logger.Logger) *Store {
	return &Store{
		filePath: filePath,
		logger:   log,
	}
}

// Path returns the cache file path.
func (s *Store) Path() string {
	return s.filePath
}

// Load reads the completion set from the cache file.
// Returns an empty set if the file doesn't exist.
func (s *Store) Load() (Set, error) {
	data, err := os.ReadFile(s.filePath)
	if os.IsNotExist(err) {
		return NewSet(), nil
	}
	if err != nil {
		s.logger.Error("failed to read cache file", err,
			logger.Field{Key: "file", Value: s.filePath})
		return nil, err
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		s.logger.Error("failed to unmarshal cache file", err,
			logger.Field{Key: "file", Value: s.filePath})
		return nil, err
	}

	set := NewSet()
	for _, id := range ids {
		set.Add(id)
	}

	return set, nil
}

// Save writes the completion set to the cache file using atomic write.
// A temporary file is created first, then renamed to the actual file.
// The file is rewritten whole on every save.
func (s *Store) Save(set Set) error {
	// Ensure directory exists
	if dir := filepath.Dir(s.filePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			s.logger.Error("failed to create cache directory", err,
				logger.Field{Key: "dir", Value: dir})
			return err
		}
	}

	data, err := json.Marshal(set.IDs())
	if err != nil {
		s.logger.Error("failed to marshal completion set", err)
		return err
	}

	tmpPath := s.filePath + ".tmp"

	file, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		s.logger.Error("failed to create temporary cache file", err,
			logger.Field{Key: "file", Value: tmpPath})
		return err
	}
	defer file.Close()

	if _, err := file.Write(data); err != nil {
		s.logger.Error("failed to write temporary cache file", err,
			logger.Field{Key: "file", Value: tmpPath})
		return err
	}

	// Ensure all data is written to disk
	if err := file.Sync(); err != nil {
		s.logger.Error("failed to sync temporary cache file", err,
			logger.Field{Key: "file", Value: tmpPath})
		return err
	}

	// Atomically rename temporary file to actual file
	if err := os.Rename(tmpPath, s.filePath); err != nil {
		s.logger.Error("failed to rename temporary cache file", err,
			logger.Field{Key: "from", Value: tmpPath},
			logger.Field{Key: "to", Value: s.filePath})
		return err
	}

	s.logger.Debug("completion set saved",
		logger.Field{Key: "count", Value: len(set)},
		logger.Field{Key: "file", Value: s.filePath})

	return nil
}

// Clear removes the cache file. Missing file is not an error.
func (s *Store) Clear() error {
	err := os.Remove(s.filePath)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
