// Package settings is the configurable-parameter store every tool reads
// its stroke size, color, fill, and mode flags from. Malformed or missing
// values fall back to documented defaults; out-of-range numbers are
// clamped rather than rejected.
package settings

import (
	"github.com/neptino/neptino/editor-go/internal/color"
)

// Store holds tool settings by key. It is not safe for concurrent use;
// all tool logic runs on a single goroutine.
type Store struct {
	values map[string]any
}

// NewStore creates an empty settings store.
func NewStore() *Store {
	return &Store{values: make(map[string]any)}
}

// Set stores a raw value under key.
func (s *Store) Set(key string, value any) {
	s.values[key] = value
}

// Float returns the numeric setting under key, or def if missing or not
// a number.
func (s *Store) Float(key string, def float64) float64 {
	v, ok := s.values[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return def
}

// FloatIn returns the numeric setting clamped to [lo, hi].
func (s *Store) FloatIn(key string, def, lo, hi float64) float64 {
	v := s.Float(key, def)
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Int returns the integer setting under key, or def.
func (s *Store) Int(key string, def int) int {
	v, ok := s.values[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return def
}

// IntIn returns the integer setting clamped to [lo, hi].
func (s *Store) IntIn(key string, def, lo, hi int) int {
	v := s.Int(key, def)
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Bool returns the boolean setting under key, or def.
func (s *Store) Bool(key string, def bool) bool {
	if v, ok := s.values[key].(bool); ok {
		return v
	}
	return def
}

// String returns the string setting under key, or def.
func (s *Store) String(key string, def string) string {
	if v, ok := s.values[key].(string); ok {
		return v
	}
	return def
}

// Color returns the hex color setting under key as a packed 0xRRGGBB
// value. An invalid or missing hex string yields fallback (the caller's
// last-known color).
func (s *Store) Color(key string, fallback uint32) uint32 {
	v, ok := s.values[key].(string)
	if !ok {
		return fallback
	}
	return color.HexToValue(v, fallback)
}
