package instancepool

import (
	"fmt"
	"reflect"
)

// Factory creates brand-new instances from the pool template.
// Every call must return a fresh instance that no pool tracks yet.
type Factory[T, D any] interface {
	Allocate(template D) (T, error)
}

// FactoryFunc adapts a plain function to the Factory interface
type FactoryFunc[T, D any] func(template D) (T, error)

// Allocate calls f(template)
func (f FactoryFunc[T, D]) Allocate(template D) (T, error) {
	return f(template)
}

// Hooks customize per-instance setup and teardown. A nil hook is a no-op.
type Hooks[T any] struct {
	// OnAllocate runs once per freshly allocated instance, before it is parked or handed out.
	OnAllocate func(T)
	// OnObtain runs every time an instance is handed out by Obtain.
	OnObtain func(T)
	// OnRecycle runs every time an instance is given back, whether it is parked or discarded.
	OnRecycle func(T)
}

// maxPrealloc bounds the free-list capacity reserved at construction.
// Larger initial sizes grow the list as instances are allocated.
const maxPrealloc = 1024

// Stats is a snapshot of pool bookkeeping
type Stats struct {
	Available        int
	AvailableMaximum int
	Unrecycled       int
	Allocated        uint64
	Obtained         uint64
	Recycled         uint64
	Discarded        uint64
	Exhaustions      uint64
}

// Pool recycles instances created by a Factory instead of letting callers
// create them anew. Parked instances are handed out in LIFO order.
//
// A Pool is not safe for concurrent use. Wrap it with NewSynchronized when
// Obtain and Recycle are called from more than one goroutine.
type Pool[T, D any] struct {
	name     string
	template D
	factory  Factory[T, D]
	hooks    Hooks[T]
	observer Observer

	available        []T
	availableMaximum int
	growth           int
	unrecycled       int

	allocated   uint64
	obtained    uint64
	recycled    uint64
	discarded   uint64
	exhaustions uint64
}

// New creates a pool and eagerly parks min(initialSize, availableMaximum) instances.
// It fails with ErrInvalidConfiguration before allocating anything when the
// options are out of range, and with ErrAllocationFailed when the factory fails.
func New[T, D any](template D, factory Factory[T, D], hooks Hooks[T], opts ...Option) (*Pool[T, D], error) {
	if isNil(factory) {
		return nil, fmt.Errorf("%w: factory must not be nil", ErrInvalidConfiguration)
	}

	var s settings
	options(defaultOpts).applyTo(&s)
	options(opts).applyTo(&s)

	if s.growth <= 0 {
		return nil, fmt.Errorf("%w: growth must be greater than 0, got %d", ErrInvalidConfiguration, s.growth)
	}
	if s.availableMaximum < 0 {
		return nil, fmt.Errorf("%w: available maximum must be at least 0, got %d", ErrInvalidConfiguration, s.availableMaximum)
	}
	if s.initialSize < 0 {
		return nil, fmt.Errorf("%w: initial size must be at least 0, got %d", ErrInvalidConfiguration, s.initialSize)
	}
	if s.name == "" {
		s.name = "Pool<" + reflect.TypeOf((*T)(nil)).Elem().String() + ">"
	}

	p := &Pool[T, D]{
		name:             s.name,
		template:         template,
		factory:          factory,
		hooks:            hooks,
		observer:         s.observer,
		available:        make([]T, 0, min(s.initialSize, s.availableMaximum, maxPrealloc)),
		availableMaximum: s.availableMaximum,
		growth:           s.growth,
	}

	if s.initialSize > 0 {
		if _, err := p.batchAllocate(s.initialSize); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Obtain hands out a parked instance, or allocates when none is parked.
// The returned instance has passed OnObtain.
func (p *Pool[T, D]) Obtain() (T, error) {
	var inst T

	if len(p.available) > 0 {
		inst = p.pop()
	} else {
		var allocated int
		if p.growth == 1 || p.availableMaximum == 0 {
			v, err := p.allocate()
			if err != nil {
				return inst, err
			}
			inst, allocated = v, 1
		} else {
			n, err := p.batchAllocate(p.growth)
			if err != nil {
				return inst, err
			}
			inst, allocated = p.pop(), n
		}

		p.exhaustions++
		p.observer.Observe(Anomaly{
			Kind:       AnomalyExhausted,
			Pool:       p.name,
			Unrecycled: p.unrecycled,
			Allocated:  allocated,
			Available:  len(p.available),
		})
	}

	if p.hooks.OnObtain != nil {
		p.hooks.OnObtain(inst)
	}
	p.unrecycled++
	p.obtained++

	return inst, nil
}

// Recycle gives an instance back to the pool. The instance passes OnRecycle
// and is parked unless the pool already holds AvailableMaximum instances, in
// which case it is dropped. Recycling an instance twice, or one that was never
// obtained, is reported as an AnomalyOverRecycled once the balance turns negative.
func (p *Pool[T, D]) Recycle(inst T) error {
	if isNil(inst) {
		return fmt.Errorf("%w: cannot recycle nil instance", ErrInvalidArgument)
	}

	if p.hooks.OnRecycle != nil {
		p.hooks.OnRecycle(inst)
	}

	if len(p.available) < p.availableMaximum {
		p.available = append(p.available, inst)
	} else {
		p.discarded++
	}
	p.unrecycled--
	p.recycled++

	if p.unrecycled < 0 {
		p.observer.Observe(Anomaly{
			Kind:       AnomalyOverRecycled,
			Pool:       p.name,
			Unrecycled: p.unrecycled,
			Available:  len(p.available),
		})
	}

	return nil
}

// Name returns the name reported in anomalies
func (p *Pool[T, D]) Name() string {
	return p.name
}

// Template returns the descriptor handed to the factory
func (p *Pool[T, D]) Template() D {
	return p.template
}

// Available returns the number of parked instances
func (p *Pool[T, D]) Available() int {
	return len(p.available)
}

// AvailableMaximum returns the cap on parked instances
func (p *Pool[T, D]) AvailableMaximum() int {
	return p.availableMaximum
}

// Growth returns the batch size allocated on exhaustion
func (p *Pool[T, D]) Growth() int {
	return p.growth
}

// Unrecycled returns obtains minus recycles. It goes negative on caller misuse.
func (p *Pool[T, D]) Unrecycled() int {
	return p.unrecycled
}

// Stats returns a snapshot of the pool bookkeeping
func (p *Pool[T, D]) Stats() Stats {
	return Stats{
		Available:        len(p.available),
		AvailableMaximum: p.availableMaximum,
		Unrecycled:       p.unrecycled,
		Allocated:        p.allocated,
		Obtained:         p.obtained,
		Recycled:         p.recycled,
		Discarded:        p.discarded,
		Exhaustions:      p.exhaustions,
	}
}

// batchAllocate parks up to count new instances without exceeding the cap.
// On factory failure the instances allocated so far stay parked.
func (p *Pool[T, D]) batchAllocate(count int) (int, error) {
	n := p.availableMaximum - len(p.available)
	if count < n {
		n = count
	}

	for i := 0; i < n; i++ {
		inst, err := p.allocate()
		if err != nil {
			return i, err
		}
		p.available = append(p.available, inst)
	}

	return max(n, 0), nil
}

func (p *Pool[T, D]) allocate() (T, error) {
	inst, err := p.factory.Allocate(p.template)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("%w: %w", ErrAllocationFailed, err)
	}
	if isNil(inst) {
		var zero T
		return zero, fmt.Errorf("%w: factory returned nil instance", ErrAllocationFailed)
	}

	p.allocated++
	if p.hooks.OnAllocate != nil {
		p.hooks.OnAllocate(inst)
	}

	return inst, nil
}

func (p *Pool[T, D]) pop() T {
	last := len(p.available) - 1
	inst := p.available[last]

	var zero T
	p.available[last] = zero
	p.available = p.available[:last]

	return inst
}

func isNil(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice, reflect.UnsafePointer:
		return rv.IsNil()
	}

	return false
}
