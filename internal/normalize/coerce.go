package normalize

import (
	"time"

	"github.com/spf13/cast"

	"github.com/julianstephens/daybook/internal/constants"
)

// The helpers below read one field of a raw record and fall back to def
// whenever the field is missing, null or of a shape that cannot be coerced.

func present(raw map[string]any, key string) (any, bool) {
	v, ok := raw[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func str(raw map[string]any, key, def string) string {
	v, ok := present(raw, key)
	if !ok {
		return def
	}
	s, ok := v.(string)
	if !ok {
		return def
	}
	return s
}

func nonEmptyStr(raw map[string]any, key, def string) string {
	if s := str(raw, key, ""); s != "" {
		return s
	}
	return def
}

// id accepts strings and numbers, legacy records used numeric ids.
func id(raw map[string]any, key string) string {
	v, ok := present(raw, key)
	if !ok {
		return ""
	}
	switch v.(type) {
	case string, float64, int, int64, float32:
		return cast.ToString(v)
	}
	return ""
}

func float(raw map[string]any, key string, def float64) float64 {
	v, ok := present(raw, key)
	if !ok {
		return def
	}
	if _, isBool := v.(bool); isBool {
		return def
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return def
	}
	return f
}

func optionalFloat(raw map[string]any, key string) *float64 {
	v, ok := present(raw, key)
	if !ok {
		return nil
	}
	if _, isNum := v.(float64); !isNum {
		return nil
	}
	f := v.(float64)
	return &f
}

func optionalStr(raw map[string]any, key string) *string {
	v, ok := present(raw, key)
	if !ok {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		return nil
	}
	return &s
}

func boolean(raw map[string]any, key string, def bool) bool {
	v, ok := present(raw, key)
	if !ok {
		return def
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return def
	}
	return b
}

func userID(raw map[string]any, key string) int64 {
	v, ok := present(raw, key)
	if !ok {
		return constants.DefaultUserID
	}
	if _, isBool := v.(bool); isBool {
		return constants.DefaultUserID
	}
	n, err := cast.ToInt64E(v)
	if err != nil || n == 0 {
		return constants.DefaultUserID
	}
	return n
}

func integer(raw map[string]any, key string, def int) int {
	v, ok := present(raw, key)
	if !ok {
		return def
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		return def
	}
	return n
}

func timestamp(raw map[string]any, key string, def time.Time) time.Time {
	v, ok := present(raw, key)
	if !ok {
		return def
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return def
	}
	t, err := cast.ToTimeInDefaultLocationE(s, time.UTC)
	if err != nil || t.IsZero() {
		return def
	}
	return t.UTC()
}

// date returns the YYYY-MM-DD calendar day of a date or timestamp string.
func date(raw map[string]any, key, def string) string {
	s := str(raw, key, "")
	if len(s) < len(constants.DateFormat) {
		return def
	}
	day := s[:len(constants.DateFormat)]
	if _, err := time.Parse(constants.DateFormat, day); err != nil {
		return def
	}
	return day
}

func object(raw map[string]any, key string) map[string]any {
	v, ok := present(raw, key)
	if !ok {
		return map[string]any{}
	}
	m, ok := v.(map[string]any)
	if !ok {
		return map[string]any{}
	}
	return m
}

func objects(raw map[string]any, key string) []map[string]any {
	v, ok := present(raw, key)
	if !ok {
		return nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// strs keeps the string elements of a list and never returns nil.
func strs(raw map[string]any, key string) []string {
	out := []string{}
	v, ok := present(raw, key)
	if !ok {
		return out
	}
	switch items := v.(type) {
	case []string:
		return append(out, items...)
	case []any:
		for _, item := range items {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
	}
	return out
}
