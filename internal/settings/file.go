package settings

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/jqntn/timetracker/internal/config"
)

// document is the on-disk layout of settings.yaml.
type document struct {
	Version int               `yaml:"version"`
	Values  map[string]uint32 `yaml:"values"`
}

func newDocument() *document {
	return &document{Version: 1, Values: map[string]uint32{}}
}

// FileStore keeps preferences in a YAML document. Every call goes to disk so
// edits made by another process (e.g. `timetracker settings`) are visible.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore returns a store backed by the YAML file at path. The file is
// created on the first Set.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// String returns the backing file path.
func (s *FileStore) String() string {
	return s.path
}

// WatchPaths implements Watchable.
func (s *FileStore) WatchPaths() []string {
	return []string{filepath.Dir(s.path)}
}

// Get implements Store.
func (s *FileStore) Get(key string) (uint32, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return 0, false, err
	}
	v, ok := doc.Values[key]
	return v, ok, nil
}

// Set implements Store.
func (s *FileStore) Set(key string, value uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	doc.Values[key] = value
	if err := config.SaveYAML(s.path, doc); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

func (s *FileStore) load() (*document, error) {
	doc, err := config.LoadYAMLOrDefault(s.path, newDocument)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	if doc.Values == nil {
		doc.Values = map[string]uint32{}
	}
	return doc, nil
}
