// Package normalize turns loosely shaped stored records into canonical
// model values. It never fails: missing or malformed fields fall back to
// defaults, and normalizing a canonical record returns it unchanged.
package normalize

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Normalizer carries the clock and id source used to fill defaults.
type Normalizer struct {
	now   func() time.Time
	newID func() string
}

// New returns a Normalizer using the wall clock and random UUIDs.
func New() *Normalizer {
	return &Normalizer{now: time.Now, newID: uuid.NewString}
}

// NewWithSources returns a Normalizer with a fixed clock and id generator.
// Nil arguments select the defaults.
func NewWithSources(now func() time.Time, newID func() string) *Normalizer {
	n := New()
	if now != nil {
		n.now = now
	}
	if newID != nil {
		n.newID = newID
	}
	return n
}

var std = New()

func (n *Normalizer) nowUTC() time.Time {
	return n.now().UTC()
}

func (n *Normalizer) idOr(raw map[string]any, key string) string {
	if s := id(raw, key); s != "" {
		return s
	}
	return n.newID()
}

// ID returns the record's id as a string, or "" when it is missing, null
// or not a scalar.
func ID(raw map[string]any) string {
	return id(raw, "id")
}

// Decode parses a stored JSON document into a raw record.
func Decode(data []byte) (map[string]any, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode record: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("failed to decode record: not an object")
	}
	return raw, nil
}

// Raw converts any JSON-serializable value into a raw record.
func Raw(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode record: %w", err)
	}
	return Decode(data)
}
