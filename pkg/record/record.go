// Package record holds the canonical record produced for one form image: an insertion ordered
// mapping from field key to cleaned value.
package record

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/gardar/formscribe/pkg/fields"
)

// Field is one entry of a Record.
type Field struct {
	Key   fields.Key
	Value string
}

// Record maps field keys to values, iterating in first-seen order.
// Setting an existing key replaces its value and keeps its position.
// A Record is not safe for concurrent mutation.
type Record struct {
	keys   []fields.Key
	values map[fields.Key]string
}

// New returns an empty record.
func New() *Record {
	return &Record{values: make(map[fields.Key]string)}
}

// Set stores value under k.
func (r *Record) Set(k fields.Key, value string) {
	if _, ok := r.values[k]; !ok {
		r.keys = append(r.keys, k)
	}
	r.values[k] = value
}

// Get returns the value stored under k.
func (r *Record) Get(k fields.Key) (string, bool) {
	if r == nil {
		return "", false
	}
	v, ok := r.values[k]
	return v, ok
}

// Has reports whether k is present.
func (r *Record) Has(k fields.Key) bool {
	_, ok := r.Get(k)
	return ok
}

// Len returns the number of fields.
func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return len(r.keys)
}

// Keys returns the keys in insertion order.
func (r *Record) Keys() []fields.Key {
	if r == nil {
		return nil
	}
	out := make([]fields.Key, len(r.keys))
	copy(out, r.keys)
	return out
}

// Fields returns the entries in insertion order.
func (r *Record) Fields() []Field {
	if r == nil {
		return nil
	}
	out := make([]Field, 0, len(r.keys))
	for _, k := range r.keys {
		out = append(out, Field{Key: k, Value: r.values[k]})
	}
	return out
}

// MarshalJSON encodes the record as a JSON object with keys in insertion order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.Fields() {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeString(&buf, string(f.Key)); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeString(&buf, f.Value); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// writeString encodes s without HTML escaping so tag markers such as <B> stay readable.
func writeString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
	return nil
}

// UnmarshalJSON decodes a flat JSON object of string values, keeping document order.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("record must be a JSON object")
	}

	out := New()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected token %v", tok)
		}
		var value string
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
		out.Set(fields.Key(key), value)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*r = *out
	return nil
}

// JSON renders the record with two space indentation, the clipboard export format.
func (r *Record) JSON() (string, error) {
	compact, err := r.MarshalJSON()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, "", "  "); err != nil {
		return "", err
	}
	return buf.String(), nil
}
