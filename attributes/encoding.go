package attributes

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	gojson "github.com/goccy/go-json"

	"github.com/hupe1980/colarray/array"
)

var (
	// ErrDifferent is wrapped by the errors Diff returns.
	ErrDifferent = errors.New("attributes differ")

	// ErrCorrupt is returned when encoded attributes cannot be decoded.
	ErrCorrupt = errors.New("corrupt attributes")
)

// MarshalBinary implements encoding.BinaryMarshaler.
//
// The layout is a uvarint entry count followed, in name order, by a uvarint name
// length, the name, one kind byte and the value in array binary form.
func (s *Store) MarshalBinary() ([]byte, error) {
	names := s.Names()
	var buf bytes.Buffer
	buf.Write(binary.AppendUvarint(nil, uint64(len(names))))
	for _, name := range names {
		v := s.Get(name)
		if v == nil {
			v = array.NewString(0, false)
		}
		buf.Write(binary.AppendUvarint(nil, uint64(len(name))))
		buf.WriteString(name)
		buf.WriteByte(byte(v.Kind()))
		if err := v.WriteBinary(&buf); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler. Decoded entries are added
// to the existing ones.
func (s *Store) UnmarshalBinary(data []byte) error {
	return s.ReadFrom(bytes.NewReader(data))
}

// ReadFrom decodes attributes in MarshalBinary form from r.
func (s *Store) ReadFrom(r io.Reader) error {
	br, ok := r.(io.ByteReader)
	if !ok {
		b := bufio.NewReader(r)
		br, r = b, b
	}
	count, err := binary.ReadUvarint(br)
	if err != nil {
		return fmt.Errorf("%w: entry count: %w", ErrCorrupt, err)
	}
	entries := make(map[string]array.Array, min(count, 1024))
	for range count {
		nameLen, err := binary.ReadUvarint(br)
		if err != nil {
			return fmt.Errorf("%w: name length: %w", ErrCorrupt, err)
		}
		if nameLen > 1<<20 {
			return fmt.Errorf("%w: name length %d", ErrCorrupt, nameLen)
		}
		name := make([]byte, nameLen)
		if _, err := io.ReadFull(r, name); err != nil {
			return fmt.Errorf("%w: name: %w", ErrCorrupt, err)
		}
		k, err := br.ReadByte()
		if err != nil {
			return fmt.Errorf("%w: kind of %q: %w", ErrCorrupt, name, err)
		}
		v, err := array.New(array.Kind(k), 0, false)
		if err != nil {
			return fmt.Errorf("%w: %q: %w", ErrCorrupt, name, err)
		}
		if err := v.ReadBinary(r); err != nil {
			return fmt.Errorf("%w: value of %q: %w", ErrCorrupt, name, err)
		}
		entries[string(name)] = v
	}
	s.merge(entries)
	return nil
}

func (s *Store) merge(entries map[string]array.Array) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.m == nil {
		s.m = make(map[string]array.Array, len(entries))
	}
	for name, v := range entries {
		s.setLocked(name, v)
	}
}

type jsonValue struct {
	Type   string   `json:"type"`
	Values []string `json:"values"`
}

// MarshalJSON implements json.Marshaler. Each entry becomes
// {"type": kind name, "values": [element text...]}.
func (s *Store) MarshalJSON() ([]byte, error) {
	s.mu.RLock()
	m := make(map[string]jsonValue, len(s.m))
	for name, v := range s.m {
		values := make([]string, v.Len())
		for i := range values {
			values[i] = v.GetString(i)
		}
		m[name] = jsonValue{Type: v.Kind().String(), Values: values}
	}
	s.mu.RUnlock()
	return gojson.Marshal(m)
}

// UnmarshalJSON implements json.Unmarshaler. Decoded entries are added to the
// existing ones.
func (s *Store) UnmarshalJSON(data []byte) error {
	var m map[string]jsonValue
	if err := gojson.Unmarshal(data, &m); err != nil {
		return err
	}
	entries := make(map[string]array.Array, len(m))
	for name, jv := range m {
		kind, err := array.ParseKind(jv.Type)
		if err != nil {
			return fmt.Errorf("attribute %q: %w", name, err)
		}
		v, err := array.FromStrings(kind, jv.Values)
		if err != nil {
			return fmt.Errorf("attribute %q: %w", name, err)
		}
		entries[name] = v
	}
	s.merge(entries)
	return nil
}
