package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// document is the on-disk layout of a JSONStore file. Values are
// base64-encoded by encoding/json so arbitrary bytes round-trip.
type document struct {
	Version int               `json:"version"`
	Values  map[string][]byte `json:"values"`
}

// JSONStore keeps every key in a single JSON file, rewritten on each Set.
type JSONStore struct {
	path string
	mu   sync.RWMutex
	doc  *document
}

func NewJSONStore(configPath string) *JSONStore {
	return &JSONStore{
		path: configPath,
	}
}

func (s *JSONStore) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}

	s.doc = &document{Version: 1, Values: make(map[string][]byte)}
	return s.save()
}

func (s *JSONStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run 'habitual init' first")
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	doc := &document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}
	if doc.Values == nil {
		doc.Values = make(map[string][]byte)
	}
	s.doc = doc
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

// save writes to a temp file and renames it over the store so a crash
// never leaves a half-written document behind.
func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace storage: %w", err)
	}
	return nil
}

func (s *JSONStore) Get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.doc == nil {
		return nil, fmt.Errorf("storage not loaded")
	}
	v, ok := s.doc.Values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *JSONStore) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		return fmt.Errorf("storage not loaded")
	}
	prev, had := s.doc.Values[key]
	s.doc.Values[key] = append([]byte(nil), value...)
	if err := s.save(); err != nil {
		if had {
			s.doc.Values[key] = prev
		} else {
			delete(s.doc.Values, key)
		}
		return err
	}
	return nil
}

func (s *JSONStore) Keys() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.doc == nil {
		return nil, fmt.Errorf("storage not loaded")
	}
	keys := make([]string, 0, len(s.doc.Values))
	for k := range s.doc.Values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}
