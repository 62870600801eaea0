// Package observe connects instance pool anomalies and statistics to logging
// and metrics backends.
package observe

import (
	"sync"

	"github.com/geseq/instancepool"
)

// StatsSource is anything that can report pool statistics.
// Both *instancepool.Pool and *instancepool.Synchronized satisfy it.
type StatsSource interface {
	Stats() instancepool.Stats
}

type multi []instancepool.Observer

func (m multi) Observe(a instancepool.Anomaly) {
	for _, o := range m {
		o.Observe(a)
	}
}

// Multi fans an anomaly out to every non-nil observer in order
func Multi(observers ...instancepool.Observer) instancepool.Observer {
	m := make(multi, 0, len(observers))
	for _, o := range observers {
		if o != nil {
			m = append(m, o)
		}
	}

	return m
}

// Recorder keeps every anomaly it observes in memory
type Recorder struct {
	mu        sync.Mutex
	anomalies []instancepool.Anomaly
}

// Observe records a
func (r *Recorder) Observe(a instancepool.Anomaly) {
	r.mu.Lock()
	r.anomalies = append(r.anomalies, a)
	r.mu.Unlock()
}

// Anomalies returns a copy of the recorded anomalies
func (r *Recorder) Anomalies() []instancepool.Anomaly {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]instancepool.Anomaly, len(r.anomalies))
	copy(out, r.anomalies)
	return out
}

// Count returns how many anomalies of kind were recorded
func (r *Recorder) Count(kind instancepool.AnomalyKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int
	for _, a := range r.anomalies {
		if a.Kind == kind {
			n++
		}
	}
	return n
}

// Reset forgets every recorded anomaly
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.anomalies = nil
	r.mu.Unlock()
}
