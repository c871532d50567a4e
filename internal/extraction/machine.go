// Package extraction provides heuristic, rule-based extractors that turn
// section lines into structured profile records.
package extraction

import (
	"github.com/google/uuid"
)

// Output caps per record kind; entries beyond the cap are dropped from the
// tail so the first entries in document order are kept.
const (
	MaxEducation      = 2
	MaxExperience     = 3
	MaxProjects       = 3
	MaxCertifications = 5
	MaxSkills         = 20
)

// descriptionSeparator joins description fragments of one record
const descriptionSeparator = " · "

// scanState is the state of a line-scanning extractor
type scanState int

const (
	noRecord scanState = iota
	recordOpen
)

// recordMachine accumulates records during a single pass over lines. A new
// record boundary flushes the open record; finish flushes the last one, so
// an open record is never lost at end of input.
type recordMachine[T any] struct {
	state   scanState
	current T
	records []T
}

// open flushes any open record and starts a new one
func (m *recordMachine[T]) open(record T) {
	m.flush()
	m.current = record
	m.state = recordOpen
}

// isOpen reports whether a record is currently open
func (m *recordMachine[T]) isOpen() bool {
	return m.state == recordOpen
}

// draft returns the open record for in-place accumulation, or nil
func (m *recordMachine[T]) draft() *T {
	if m.state != recordOpen {
		return nil
	}
	return &m.current
}

// flush closes the open record, if any
func (m *recordMachine[T]) flush() {
	if m.state == recordOpen {
		m.records = append(m.records, m.current)
	}
	var zero T
	m.current = zero
	m.state = noRecord
}

// finish flushes the open record and returns every record in document order
func (m *recordMachine[T]) finish() []T {
	m.flush()
	return m.records
}

// truncate keeps the first limit items
func truncate[T any](items []T, limit int) []T {
	if len(items) > limit {
		return items[:limit]
	}
	return items
}

// Extractor runs the field extractors with a configurable identifier generator
type Extractor struct {
	newID func() string
}

// New creates an Extractor. A nil newID uses random UUIDs.
func New(newID func() string) *Extractor {
	if newID == nil {
		newID = uuid.NewString
	}
	return &Extractor{newID: newID}
}

var defaultExtractor = New(nil)
