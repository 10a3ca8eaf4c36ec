// Package guard decides whether an extracted record is worth keeping and remembers which
// forms have already been processed. Its verdicts are advisory: only a missing record is
// rejected.
package guard

import (
	"errors"
	"strings"
	"sync"

	"github.com/gardar/formscribe/pkg/fields"
	"github.com/gardar/formscribe/pkg/normalize"
	"github.com/gardar/formscribe/pkg/record"
)

// ErrNoFormData is returned for a nil record.
var ErrNoFormData = errors.New("No form data available")

// Advisory warnings.
const (
	WarnNoID      = "Form has no ID"
	WarnDuplicate = "This form has already been processed"
	WarnAllEmpty  = "All fields are empty or unavailable"
)

// Verdict is the outcome of Validate.
type Verdict struct {
	Accept  bool
	Warning string
	Err     error
}

// Seen is the set of form identifiers that passed validation. It is safe for concurrent use.
// A nil *Seen is an always-empty set that never remembers anything.
type Seen struct {
	mu  sync.Mutex
	ids map[string]struct{}
}

// NewSeen returns an empty set.
func NewSeen() *Seen {
	return &Seen{ids: make(map[string]struct{})}
}

// Add inserts id and reports whether it was not already present.
func (s *Seen) Add(id string) bool {
	if s == nil {
		return true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ids == nil {
		s.ids = make(map[string]struct{})
	}
	if _, ok := s.ids[id]; ok {
		return false
	}
	s.ids[id] = struct{}{}
	return true
}

// Has reports whether id has been added.
func (s *Seen) Has(id string) bool {
	if s == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of identifiers in the set.
func (s *Seen) Len() int {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}

// FormID returns the record's FormNumber, or its FormNumberId when FormNumber is missing.
// A value holding the empty-value placeholder is not an identifier.
func FormID(rec *record.Record) string {
	for _, k := range []fields.Key{fields.FormNumber, fields.FormNumberId} {
		if id, _ := rec.Get(k); isID(id) {
			return id
		}
	}
	return ""
}

func isID(v string) bool {
	return v != "" && !strings.Contains(v, normalize.Sentinel)
}

// Validate checks rec against seen. Checks run in order and the first warning wins; an
// identifier is only added to seen when no warning was raised. A record without an
// identifier that also holds no data at all is reported as empty rather than unidentified.
func Validate(rec *record.Record, seen *Seen) Verdict {
	if rec == nil {
		return Verdict{Err: ErrNoFormData}
	}

	id := FormID(rec)
	if id == "" {
		if !hasData(rec) {
			return Verdict{Accept: true, Warning: WarnAllEmpty}
		}
		return Verdict{Accept: true, Warning: WarnNoID}
	}
	if seen.Has(id) {
		return Verdict{Accept: true, Warning: WarnDuplicate}
	}

	// Another caller may have added the same id since the check above.
	if !seen.Add(id) {
		return Verdict{Accept: true, Warning: WarnDuplicate}
	}
	return Verdict{Accept: true}
}

func hasData(rec *record.Record) bool {
	for _, f := range rec.Fields() {
		if f.Value != "" && !strings.Contains(f.Value, normalize.Sentinel) {
			return true
		}
	}
	return false
}
