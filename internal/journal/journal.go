// Package journal reads and writes habits, completions, entries and goals
// through a storage.Provider. Every record read back from storage passes
// through the normalization layer before it is returned.
package journal

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/daybook/internal/logger"
	"github.com/julianstephens/daybook/internal/normalize"
	"github.com/julianstephens/daybook/internal/storage"
)

var (
	ErrHabitNotFound      = errors.New("habit not found")
	ErrCompletionNotFound = errors.New("completion not found")
	ErrEntryNotFound      = errors.New("entry not found")
	ErrGoalNotFound       = errors.New("goal not found")
	ErrStepNotFound       = errors.New("goal step not found")
)

type Service struct {
	store storage.Provider
	norm  *normalize.Normalizer
	now   func() time.Time
}

func New(store storage.Provider) *Service {
	return &Service{
		store: store,
		norm:  normalize.New(),
		now:   time.Now,
	}
}

// NewWithSources is New with a fixed clock and id generator.
func NewWithSources(store storage.Provider, now func() time.Time, newID func() string) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		store: store,
		norm:  normalize.NewWithSources(now, newID),
		now:   now,
	}
}

// Store returns the underlying provider.
func (s *Service) Store() storage.Provider {
	return s.store
}

func (s *Service) nowUTC() time.Time {
	return s.now().UTC()
}

// list decodes every record of kind. Records that are not JSON objects are
// logged and skipped so one bad record cannot hide the rest.
func (s *Service) list(kind storage.Kind) ([]map[string]any, error) {
	records, err := s.store.List(kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", kind, err)
	}
	raws := make([]map[string]any, 0, len(records))
	for _, rec := range records {
		raw, err := normalize.Decode(rec.Data)
		if err != nil {
			logger.Warn("skipping corrupt record", "kind", kind, "id", rec.ID, "err", err)
			continue
		}
		withKeyID(kind, raw, rec.ID)
		raws = append(raws, raw)
	}
	return raws, nil
}

// get returns the raw record or notFound when it does not exist.
func (s *Service) get(kind storage.Kind, id string, notFound error) (map[string]any, error) {
	data, err := s.store.Get(kind, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", notFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s %s: %w", kind, id, err)
	}
	raw, err := normalize.Decode(data)
	if err != nil {
		logger.Warn("corrupt record", "kind", kind, "id", id, "err", err)
		return nil, fmt.Errorf("%w: %s", notFound, id)
	}
	withKeyID(kind, raw, id)
	return raw, nil
}

// withKeyID uses the storage key as the id of records whose own id is
// unusable, so the id stays stable across reads. Entries are keyed by user
// and date and keep their own id.
func withKeyID(kind storage.Kind, raw map[string]any, key string) {
	if kind == storage.KindEntries {
		return
	}
	if normalize.ID(raw) == "" {
		raw["id"] = key
	}
}

func (s *Service) put(kind storage.Kind, id string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s %s: %w", kind, id, err)
	}
	if err := s.store.Put(kind, id, data); err != nil {
		return fmt.Errorf("failed to save %s %s: %w", kind, id, err)
	}
	return nil
}

func (s *Service) delete(kind storage.Kind, id string, notFound error) error {
	err := s.store.Delete(kind, id)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%w: %s", notFound, id)
	}
	if err != nil {
		return fmt.Errorf("failed to delete %s %s: %w", kind, id, err)
	}
	return nil
}

// canonical runs v through JSON so it can be normalized like stored data.
func canonical(v any) map[string]any {
	raw, err := normalize.Raw(v)
	if err != nil {
		return map[string]any{}
	}
	return raw
}
