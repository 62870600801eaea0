package instancepool

// AnomalyKind classifies a pool balance anomaly
type AnomalyKind byte

const (
	// AnomalyExhausted is reported when Obtain found no parked instance and had to allocate.
	AnomalyExhausted AnomalyKind = iota + 1
	// AnomalyOverRecycled is reported when more instances were recycled than obtained.
	AnomalyOverRecycled
)

func (k AnomalyKind) String() string {
	switch k {
	case AnomalyExhausted:
		return "exhausted"
	case AnomalyOverRecycled:
		return "over_recycled"
	}
	return "unknown"
}

// Anomaly is a non-fatal observation about obtain/recycle balance.
// It never alters the control flow of the operation that produced it.
type Anomaly struct {
	Kind       AnomalyKind
	Pool       string
	Unrecycled int // unrecycled count at the time of the observation
	Allocated  int // instances allocated by the triggering operation
	Available  int // parked instances after the triggering operation
}

// Observer receives anomalies from a pool
type Observer interface {
	Observe(a Anomaly)
}

// ObserverFunc adapts a function to the Observer interface
type ObserverFunc func(a Anomaly)

// Observe calls f(a)
func (f ObserverFunc) Observe(a Anomaly) { f(a) }

// NopObserver discards every anomaly
type NopObserver struct{}

// Observe does nothing
func (NopObserver) Observe(Anomaly) {}
