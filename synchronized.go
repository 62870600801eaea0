package instancepool

import (
	"sync"

	"golang.org/x/sys/cpu"
)

// Recycler defines the common interface for instance pools
type Recycler[T any] interface {
	Obtain() (T, error)   // Hands out an instance
	Recycle(inst T) error // Gives an instance back
}

// Ensure that both pool flavours implement Recycler
var (
	_ Recycler[any] = (*Pool[any, any])(nil)
	_ Recycler[any] = (*Synchronized[any, any])(nil)
)

// Synchronized guards a Pool with a single mutex. The whole of Obtain and
// Recycle, hooks and factory calls included, runs under the lock.
type Synchronized[T, D any] struct {
	_  cpu.CacheLinePad
	mu sync.Mutex
	_  cpu.CacheLinePad
	p  *Pool[T, D]
}

// NewSynchronized creates a pool exactly like New and wraps it for concurrent use
func NewSynchronized[T, D any](template D, factory Factory[T, D], hooks Hooks[T], opts ...Option) (*Synchronized[T, D], error) {
	p, err := New(template, factory, hooks, opts...)
	if err != nil {
		return nil, err
	}

	return &Synchronized[T, D]{p: p}, nil
}

// Obtain calls Pool.Obtain under the lock
func (s *Synchronized[T, D]) Obtain() (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.p.Obtain()
}

// Recycle calls Pool.Recycle under the lock
func (s *Synchronized[T, D]) Recycle(inst T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.p.Recycle(inst)
}

// Stats returns a consistent snapshot of the wrapped pool
func (s *Synchronized[T, D]) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.p.Stats()
}

// Name returns the name of the wrapped pool
func (s *Synchronized[T, D]) Name() string {
	return s.p.Name()
}

// Template returns the descriptor handed to the factory
func (s *Synchronized[T, D]) Template() D {
	return s.p.Template()
}

// Available returns the number of parked instances
func (s *Synchronized[T, D]) Available() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.p.Available()
}

// AvailableMaximum returns the cap on parked instances
func (s *Synchronized[T, D]) AvailableMaximum() int {
	return s.p.AvailableMaximum()
}

// Growth returns the batch size allocated on exhaustion
func (s *Synchronized[T, D]) Growth() int {
	return s.p.Growth()
}

// Unrecycled returns obtains minus recycles
func (s *Synchronized[T, D]) Unrecycled() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.p.Unrecycled()
}
