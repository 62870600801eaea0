package observe

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/geseq/instancepool"
)

// Prometheus exports pool statistics and anomaly counts as Prometheus metrics.
// It is both an instancepool.Observer and a prometheus.Collector: pass it to
// instancepool.WithObserver, Bind the resulting pool, then register it.
//
// Scrapes read the bound source from the scraping goroutine, so a pool used
// concurrently with scrapes must be an *instancepool.Synchronized.
type Prometheus struct {
	mu  sync.RWMutex
	src StatsSource

	available        prometheus.GaugeFunc
	availableMaximum prometheus.GaugeFunc
	unrecycled       prometheus.GaugeFunc
	allocated        prometheus.CounterFunc
	obtained         prometheus.CounterFunc
	recycled         prometheus.CounterFunc
	discarded        prometheus.CounterFunc
	anomalies        *prometheus.CounterVec
}

// NewPrometheus creates the metric set for one pool. Every metric carries a
// constant "pool" label.
func NewPrometheus(namespace, pool string) *Prometheus {
	p := &Prometheus{}
	labels := prometheus.Labels{"pool": pool}

	gauge := func(name, help string, v func(instancepool.Stats) float64) prometheus.GaugeFunc {
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   "pool",
			Name:        name,
			Help:        help,
			ConstLabels: labels,
		}, func() float64 { return v(p.stats()) })
	}
	counter := func(name, help string, v func(instancepool.Stats) float64) prometheus.CounterFunc {
		return prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "pool",
			Name:        name,
			Help:        help,
			ConstLabels: labels,
		}, func() float64 { return v(p.stats()) })
	}

	p.available = gauge("available_instances", "Instances parked in the free list.",
		func(s instancepool.Stats) float64 { return float64(s.Available) })
	p.availableMaximum = gauge("available_instances_maximum", "Cap on parked instances.",
		func(s instancepool.Stats) float64 { return float64(s.AvailableMaximum) })
	p.unrecycled = gauge("unrecycled_instances", "Instances obtained and not yet recycled.",
		func(s instancepool.Stats) float64 { return float64(s.Unrecycled) })
	p.allocated = counter("allocated_total", "Instances created by the factory.",
		func(s instancepool.Stats) float64 { return float64(s.Allocated) })
	p.obtained = counter("obtained_total", "Successful obtain calls.",
		func(s instancepool.Stats) float64 { return float64(s.Obtained) })
	p.recycled = counter("recycled_total", "Successful recycle calls.",
		func(s instancepool.Stats) float64 { return float64(s.Recycled) })
	p.discarded = counter("discarded_total", "Recycled instances dropped because the free list was full.",
		func(s instancepool.Stats) float64 { return float64(s.Discarded) })
	p.anomalies = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   namespace,
		Subsystem:   "pool",
		Name:        "anomalies_total",
		Help:        "Pool balance anomalies by kind.",
		ConstLabels: labels,
	}, []string{"kind"})

	return p
}

// Bind sets the pool whose statistics are exported
func (p *Prometheus) Bind(src StatsSource) {
	p.mu.Lock()
	p.src = src
	p.mu.Unlock()
}

// Observe counts a by kind
func (p *Prometheus) Observe(a instancepool.Anomaly) {
	p.anomalies.WithLabelValues(a.Kind.String()).Inc()
}

// Describe implements prometheus.Collector
func (p *Prometheus) Describe(ch chan<- *prometheus.Desc) {
	for _, c := range p.collectors() {
		c.Describe(ch)
	}
}

// Collect implements prometheus.Collector
func (p *Prometheus) Collect(ch chan<- prometheus.Metric) {
	for _, c := range p.collectors() {
		c.Collect(ch)
	}
}

func (p *Prometheus) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		p.available,
		p.availableMaximum,
		p.unrecycled,
		p.allocated,
		p.obtained,
		p.recycled,
		p.discarded,
		p.anomalies,
	}
}

func (p *Prometheus) stats() instancepool.Stats {
	p.mu.RLock()
	src := p.src
	p.mu.RUnlock()

	if src == nil {
		return instancepool.Stats{}
	}
	return src.Stats()
}
