package instancepool

import "math"

type Option func(*settings)

type options []Option

func (l options) applyTo(s *settings) {
	for _, opt := range l {
		opt(s)
	}
}

type settings struct {
	name             string
	initialSize      int
	growth           int
	availableMaximum int
	observer         Observer
}

// defaultOpts provides list of options
var defaultOpts = []Option{
	WithInitialSize(0),
	WithGrowth(1),
	WithAvailableMaximum(math.MaxInt),
	WithObserver(NopObserver{}),
}

// WithName sets the name reported in anomalies and metrics
func WithName(name string) Option {
	return func(s *settings) { s.name = name }
}

// WithInitialSize sets the number of instances allocated at construction
func WithInitialSize(n int) Option {
	return func(s *settings) { s.initialSize = n }
}

// WithGrowth sets the batch size allocated when the pool is exhausted
func WithGrowth(n int) Option {
	return func(s *settings) { s.growth = n }
}

// WithAvailableMaximum caps the number of parked instances
func WithAvailableMaximum(n int) Option {
	return func(s *settings) { s.availableMaximum = n }
}

// WithObserver sets the receiver of pool anomalies. A nil observer disables reporting.
func WithObserver(o Observer) Option {
	return func(s *settings) {
		if o == nil {
			o = NopObserver{}
		}
		s.observer = o
	}
}
