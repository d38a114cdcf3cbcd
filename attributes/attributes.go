// Package attributes provides Store, a thread-safe map from attribute names to
// array values, modelled on netCDF variable and global attributes.
package attributes

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/hupe1980/colarray/array"
	"github.com/hupe1980/colarray/internal/num"
	"github.com/hupe1980/colarray/internal/text"
)

// Store maps attribute names to values.
//
// Single operations are safe for concurrent use. Sequences of operations are not
// atomic. Values are stored as given: callers that keep a reference to an Array
// they passed to Set must not mutate it concurrently with readers of the Store.
type Store struct {
	mu sync.RWMutex
	m  map[string]array.Array
}

// New returns an empty Store.
func New() *Store {
	return &Store{m: make(map[string]array.Array)}
}

// NewMerged returns a Store holding the entries of less overlaid with the entries
// of more. Values are cloned.
func NewMerged(more, less *Store) *Store {
	s := New()
	less.CopyTo(s)
	s.SetAll(more)
	return s
}

// Clone returns a deep copy of s.
func (s *Store) Clone() *Store {
	c := New()
	s.CopyTo(c)
	return c
}

// Clear removes all entries.
func (s *Store) Clear() {
	s.mu.Lock()
	clear(s.m)
	s.mu.Unlock()
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}

// Get returns the value stored for name, or nil.
func (s *Store) Get(name string) array.Array {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.m[name]
}

// Names returns the attribute names sorted case-insensitively.
func (s *Store) Names() []string {
	s.mu.RLock()
	names := make([]string, 0, len(s.m))
	for name := range s.m {
		names = append(names, name)
	}
	s.mu.RUnlock()

	sorted := array.Strings(names...)
	sorted.SortIgnoreCase()
	return sorted.Values()
}

// first returns the value for name if it has at least one element.
func (s *Store) first(name string) (array.Array, bool) {
	v := s.Get(name)
	if v == nil || v.Len() == 0 {
		return nil, false
	}
	return v, true
}

// GetString returns the first element of the value as text, or "".
func (s *Store) GetString(name string) string {
	v, ok := s.first(name)
	if !ok {
		return ""
	}
	return v.GetString(0)
}

// GetStringsFromCSV splits the first element of the value as a CSV line.
// It returns nil if name is not set.
func (s *Store) GetStringsFromCSV(name string) []string {
	v, ok := s.first(name)
	if !ok {
		return nil
	}
	return text.SplitCSV(v.GetString(0))
}

// GetDouble returns the first element as a float64, or NaN.
func (s *Store) GetDouble(name string) float64 {
	v, ok := s.first(name)
	if !ok {
		return math.NaN()
	}
	return v.GetDouble(0)
}

// GetNiceDouble is like GetDouble, but Float values are widened to the float64
// nearest their shortest decimal representation.
func (s *Store) GetNiceDouble(name string) float64 {
	v, ok := s.first(name)
	if !ok {
		return math.NaN()
	}
	if v.Kind() == array.Float {
		return num.FloatToDouble(v.GetFloat(0))
	}
	return v.GetDouble(0)
}

// GetFloat returns the first element as a float32, or NaN.
func (s *Store) GetFloat(name string) float32 {
	v, ok := s.first(name)
	if !ok {
		return float32(math.NaN())
	}
	return v.GetFloat(0)
}

// GetLong returns the first element as an int64, or math.MaxInt64.
func (s *Store) GetLong(name string) int64 {
	v, ok := s.first(name)
	if !ok {
		return math.MaxInt64
	}
	return v.GetLong(0)
}

// GetInt returns the first element as an int32, or math.MaxInt32.
func (s *Store) GetInt(name string) int32 {
	v, ok := s.first(name)
	if !ok {
		return math.MaxInt32
	}
	return v.GetInt(0)
}

// Remove deletes name and returns its previous value, or nil.
func (s *Store) Remove(name string) array.Array {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.m[name]
	delete(s.m, name)
	return prev
}

func removes(value array.Array) bool {
	if value == nil || value.Len() == 0 {
		return true
	}
	return value.Kind() == array.String && value.Len() == 1 &&
		strings.TrimSpace(value.GetString(0)) == ""
}

func (s *Store) setLocked(name string, value array.Array) array.Array {
	prev := s.m[name]
	if removes(value) {
		delete(s.m, name)
	} else {
		s.m[name] = value
	}
	return prev
}

// Set stores value under name and returns the previous value, or nil.
// A nil or empty value, or a single blank string, removes name instead.
func (s *Store) Set(name string, value array.Array) array.Array {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setLocked(name, value)
}

// Add is Set returning s, for chaining.
func (s *Store) Add(name string, value array.Array) *Store {
	s.Set(name, value)
	return s
}

// snapshot returns a copy of the entries with cloned values.
func (s *Store) snapshot() map[string]array.Array {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m := make(map[string]array.Array, len(s.m))
	for name, v := range s.m {
		m[name] = v.Clone()
	}
	return m
}

// SetAll stores clones of all entries of more, replacing entries with the same
// names.
func (s *Store) SetAll(more *Store) {
	if more == nil || more == s {
		return
	}
	entries := more.snapshot()
	s.mu.Lock()
	defer s.mu.Unlock()
	for name, v := range entries {
		s.setLocked(name, v)
	}
}

// AddAll is SetAll returning s, for chaining.
func (s *Store) AddAll(more *Store) *Store {
	s.SetAll(more)
	return s
}

// SetString stores a one element String value. A blank value removes name.
func (s *Store) SetString(name, value string) array.Array {
	if strings.TrimSpace(value) == "" {
		return s.Remove(name)
	}
	return s.Set(name, array.Strings(value))
}

// SetIfNotAlreadySet stores value only if name has no value yet. It returns the
// value that was already present, or nil.
func (s *Store) SetIfNotAlreadySet(name, value string) array.Array {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.m[name]; ok {
		return prev
	}
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return s.setLocked(name, array.Strings(value))
}

// SetDouble stores a one element Double value.
func (s *Store) SetDouble(name string, v float64) array.Array {
	return s.Set(name, array.Doubles(v))
}

// SetFloat stores a one element Float value.
func (s *Store) SetFloat(name string, v float32) array.Array {
	return s.Set(name, array.Floats(v))
}

// SetLong stores a one element Long value.
func (s *Store) SetLong(name string, v int64) array.Array {
	return s.Set(name, array.Longs(v))
}

// SetInt stores a one element Int value.
func (s *Store) SetInt(name string, v int32) array.Array {
	return s.Set(name, array.Ints(v))
}

// SetShort stores a one element Short value.
func (s *Store) SetShort(name string, v int16) array.Array {
	return s.Set(name, array.Shorts(v))
}

// SetChar stores a one element Char value.
func (s *Store) SetChar(name string, v uint16) array.Array {
	return s.Set(name, array.Chars(v))
}

// SetByte stores a one element Byte value.
func (s *Store) SetByte(name string, v int8) array.Array {
	return s.Set(name, array.Bytes(v))
}

// AddString is SetString returning s.
func (s *Store) AddString(name, value string) *Store { s.SetString(name, value); return s }

// AddDouble is SetDouble returning s.
func (s *Store) AddDouble(name string, v float64) *Store { s.SetDouble(name, v); return s }

// AddFloat is SetFloat returning s.
func (s *Store) AddFloat(name string, v float32) *Store { s.SetFloat(name, v); return s }

// AddLong is SetLong returning s.
func (s *Store) AddLong(name string, v int64) *Store { s.SetLong(name, v); return s }

// AddInt is SetInt returning s.
func (s *Store) AddInt(name string, v int32) *Store { s.SetInt(name, v); return s }

// AddShort is SetShort returning s.
func (s *Store) AddShort(name string, v int16) *Store { s.SetShort(name, v); return s }

// AddChar is SetChar returning s.
func (s *Store) AddChar(name string, v uint16) *Store { s.SetChar(name, v); return s }

// AddByte is SetByte returning s.
func (s *Store) AddByte(name string, v int8) *Store { s.SetByte(name, v); return s }

// String renders one "    name=value\n" line per entry, sorted by name, with the
// value in JSON-style CSV.
func (s *Store) String() string {
	var sb strings.Builder
	for _, name := range s.Names() {
		v := s.Get(name)
		if v == nil {
			continue
		}
		sb.WriteString("    ")
		sb.WriteString(name)
		sb.WriteByte('=')
		sb.WriteString(v.JSONCSVString())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// RemoveValue removes every entry whose value renders as value and returns the
// number removed.
func (s *Store) RemoveValue(value string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for name, v := range s.m {
		if v.String() == value {
			delete(s.m, name)
			n++
		}
	}
	return n
}

// NCString renders one "prefix name = value suffix" line per entry in netCDF
// header style: strings quoted, floats with an f suffix.
func (s *Store) NCString(prefix, suffix string) string {
	var sb strings.Builder
	for _, name := range s.Names() {
		v := s.Get(name)
		if v == nil {
			continue
		}
		fmt.Fprintf(&sb, "%s%s = %s%s\n", prefix, name, ValueNCString(v), suffix)
	}
	return sb.String()
}

type ncStringer interface {
	NCString() string
}

// ValueNCString renders a single value the way NCString does.
func ValueNCString(v array.Array) string {
	if nc, ok := v.(ncStringer); ok {
		return nc.NCString()
	}
	return v.String()
}

// CopyTo replaces the contents of dst with clones of the entries of s.
func (s *Store) CopyTo(dst *Store) {
	if dst == s {
		return
	}
	entries := s.snapshot()
	dst.mu.Lock()
	defer dst.mu.Unlock()
	clear(dst.m)
	for name, v := range entries {
		dst.setLocked(name, v)
	}
}

// Equal reports whether s and other render identically with String.
func (s *Store) Equal(other *Store) bool {
	return s.Diff(other) == nil
}

// Diff returns nil if s and other are equal, or an error describing the first
// difference.
func (s *Store) Diff(other *Store) error {
	if other == nil {
		return fmt.Errorf("%w: the other store is nil", ErrDifferent)
	}
	names, otherNames := s.Names(), other.Names()
	for i := 0; i < len(names) || i < len(otherNames); i++ {
		switch {
		case i >= len(names):
			return fmt.Errorf("%w: %q is only in the other store", ErrDifferent, otherNames[i])
		case i >= len(otherNames) || names[i] != otherNames[i]:
			return fmt.Errorf("%w: %q is only in this store", ErrDifferent, names[i])
		}
		a, b := s.Get(names[i]), other.Get(names[i])
		if a == nil || b == nil {
			return fmt.Errorf("%w: %q was removed concurrently", ErrDifferent, names[i])
		}
		if as, bs := a.JSONCSVString(), b.JSONCSVString(); as != bs {
			return fmt.Errorf("%w: %s=%s, other %s=%s", ErrDifferent, names[i], as, names[i], bs)
		}
	}
	return nil
}

// RemoveIfSame removes the entries whose value equals, kind included, the
// value other holds under the same name.
func (s *Store) RemoveIfSame(other *Store) {
	if other == s {
		s.Clear()
		return
	}
	entries := other.snapshot()
	s.mu.Lock()
	defer s.mu.Unlock()
	for name, v := range s.m {
		if o, ok := entries[name]; ok && v.Equal(o) {
			delete(s.m, name)
		}
	}
}

// Trim trims white space around names, and at the start of the first and the end
// of the last element of String values.
func (s *Store) Trim() {
	s.mu.Lock()
	defer s.mu.Unlock()
	trimmed := make(map[string]array.Array, len(s.m))
	for name, v := range s.m {
		if v.Kind() == array.String && v.Len() > 0 {
			last := v.Len() - 1
			v.SetString(0, text.TrimStart(v.GetString(0)))
			v.SetString(last, text.TrimEnd(v.GetString(last)))
		}
		trimmed[strings.TrimSpace(name)] = v
	}
	clear(s.m)
	for name, v := range trimmed {
		s.setLocked(name, v)
	}
}
