package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

type document struct {
	Version int                                 `json:"version"`
	Records map[Kind]map[string]json.RawMessage `json:"records"`
}

// JSONStore keeps every record in one JSON file, rewritten on each change.
// It is not safe for concurrent use.
type JSONStore struct {
	path string
	doc  *document
}

func NewJSONStore(configPath string) *JSONStore {
	return &JSONStore{
		path: configPath,
	}
}

func (s *JSONStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}

	s.doc = &document{
		Version: 1,
		Records: make(map[Kind]map[string]json.RawMessage),
	}
	s.ensureKinds()

	return s.save()
}

func (s *JSONStore) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotInitialized
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	s.doc = &document{}
	if err := json.Unmarshal(data, s.doc); err != nil {
		s.doc = nil
		return fmt.Errorf("failed to parse storage: %w", err)
	}
	if s.doc.Records == nil {
		s.doc.Records = make(map[Kind]map[string]json.RawMessage)
	}
	s.ensureKinds()

	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) ensureKinds() {
	for _, kind := range Kinds {
		if s.doc.Records[kind] == nil {
			s.doc.Records[kind] = make(map[string]json.RawMessage)
		}
	}
}

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
		os.Remove(tmp)
		return fmt.Errorf("failed to write storage: %w", err)
	}

	return nil
}

func (s *JSONStore) Put(kind Kind, id string, data []byte) error {
	if s.doc == nil {
		return ErrNotLoaded
	}
	if err := checkKey(kind, id); err != nil {
		return err
	}
	if !json.Valid(data) {
		return fmt.Errorf("record %s/%s is not valid JSON", kind, id)
	}

	s.doc.Records[kind][id] = json.RawMessage(append([]byte(nil), data...))
	return s.save()
}

func (s *JSONStore) Get(kind Kind, id string) ([]byte, error) {
	if s.doc == nil {
		return nil, ErrNotLoaded
	}
	if err := checkKey(kind, id); err != nil {
		return nil, err
	}

	raw, ok := s.doc.Records[kind][id]
	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", kind, id, ErrNotFound)
	}
	return append([]byte(nil), raw...), nil
}

// List returns the records of kind ordered by id.
func (s *JSONStore) List(kind Kind) ([]Record, error) {
	if s.doc == nil {
		return nil, ErrNotLoaded
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown record kind: %q", kind)
	}

	records := make([]Record, 0, len(s.doc.Records[kind]))
	for id, raw := range s.doc.Records[kind] {
		records = append(records, Record{Kind: kind, ID: id, Data: append([]byte(nil), raw...)})
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].ID < records[j].ID
	})

	return records, nil
}

func (s *JSONStore) Delete(kind Kind, id string) error {
	if s.doc == nil {
		return ErrNotLoaded
	}
	if err := checkKey(kind, id); err != nil {
		return err
	}

	if _, ok := s.doc.Records[kind][id]; !ok {
		return fmt.Errorf("%s/%s: %w", kind, id, ErrNotFound)
	}
	delete(s.doc.Records[kind], id)
	return s.save()
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}
