package samples

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// RecordSet is a sample-ID keyed collection that preserves insertion order
// across JSON round trips. encoding/json maps neither expose nor preserve
// object key order, and the merge contract requires the output to iterate in
// the order of the base source document.
type RecordSet struct {
	ids  []string
	byID map[string]Record
}

// NewRecordSet creates an empty RecordSet.
func NewRecordSet() *RecordSet {
	return &RecordSet{byID: make(map[string]Record)}
}

// Len returns the number of records.
func (s *RecordSet) Len() int {
	return len(s.ids)
}

// IDs returns the sample IDs in insertion order. The returned slice is shared;
// callers must not modify it.
func (s *RecordSet) IDs() []string {
	return s.ids
}

// Get returns the record for the given sample ID.
func (s *RecordSet) Get(id string) (Record, bool) {
	r, ok := s.byID[id]
	return r, ok
}

// Set inserts or replaces the record for the given sample ID. New IDs append
// to the iteration order; existing IDs keep their position.
func (s *RecordSet) Set(id string, r Record) {
	if _, ok := s.byID[id]; !ok {
		s.ids = append(s.ids, id)
	}
	s.byID[id] = r
}

// Each calls fn for every record in insertion order, stopping at the first error.
func (s *RecordSet) Each(fn func(id string, r Record) error) error {
	for _, id := range s.ids {
		if err := fn(id, s.byID[id]); err != nil {
			return err
		}
	}
	return nil
}

// MarshalJSON writes the records as a JSON object with keys in insertion
// order, so identical inputs always serialize to identical bytes.
func (s *RecordSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, id := range s.ids {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(id)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(s.byID[id])
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object, recording keys in document order.
func (s *RecordSet) UnmarshalJSON(data []byte) error {
	s.ids = nil
	s.byID = make(map[string]Record)
	return eachObjectEntry(data, func(id string, raw json.RawMessage) error {
		var r Record
		if err := json.Unmarshal(raw, &r); err != nil {
			return fmt.Errorf("sample %q: %w", id, err)
		}
		s.Set(id, r)
		return nil
	})
}

// eachObjectEntry streams the top-level entries of a JSON object in document
// order, handing each raw value to visit.
func eachObjectEntry(data []byte, visit func(key string, raw json.RawMessage) error) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected JSON object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("value for key %q: %w", key, err)
		}
		if err := visit(key, raw); err != nil {
			return err
		}
	}

	// consume the closing brace
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
