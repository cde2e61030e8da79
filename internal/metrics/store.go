// Package metrics holds the current sensor state and exposes it to
// Prometheus scrapes.
package metrics

import (
	"sync/atomic"

	"github.com/crazybolillo/expodht/internal/dht"
)

// Snapshot is one immutable, internally consistent view of the exported
// state. Humidity, Temperature and LastSuccessUnix are meaningful only
// once HasReading is set.
type Snapshot struct {
	Humidity        float64
	Temperature     float64
	ReadErrorsTotal uint64
	LastSuccessUnix float64
	HasReading      bool
}

// Store is a single-writer, many-reader holder of the latest Snapshot.
// The sampler publishes by building a new snapshot and swapping the
// pointer, so scrapes never observe a partially updated set of fields
// and never block the sampling loop.
type Store struct {
	cur atomic.Pointer[Snapshot]
}

// NewStore returns a Store with an empty snapshot in place.
func NewStore() *Store {
	s := &Store{}
	s.cur.Store(&Snapshot{})
	return s
}

// PublishReading records a successful sample. Must only be called from
// the sampling loop.
func (s *Store) PublishReading(r dht.Reading) {
	next := *s.cur.Load()
	next.Humidity = r.Humidity
	next.Temperature = r.Temperature
	next.LastSuccessUnix = float64(r.Timestamp.Unix())
	next.HasReading = true
	s.cur.Store(&next)
}

// RecordError counts a failed sample, leaving the last good reading
// untouched. Must only be called from the sampling loop.
func (s *Store) RecordError() {
	next := *s.cur.Load()
	next.ReadErrorsTotal++
	s.cur.Store(&next)
}

// Snapshot returns the current state. Safe for concurrent use.
func (s *Store) Snapshot() Snapshot {
	return *s.cur.Load()
}
