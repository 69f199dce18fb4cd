// Package metrics counts logrotatorr events with Prometheus.
// Pass an Observer as the Config's Observer, or wrap another one:
//
//	stats, err := metrics.New(prometheus.DefaultRegisterer, "myapp", &logrotatorr.SlogObserver{})
//	logger, err := logrotatorr.New(&logrotatorr.Config{Filename: "app.log", Observer: stats})
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"golift.io/logrotatorr"
)

// Removal reasons used in the reason label.
const (
	ReasonCount = "count"
	ReasonSize  = "size"
)

// Observer records Prometheus metrics for every event, then passes
// the event to Next, if it's not nil.
type Observer struct {
	Next logrotatorr.Observer

	opens     prometheus.Counter
	rotations prometheus.Counter
	rotated   prometheus.Counter
	histories prometheus.Counter
	removed   *prometheus.CounterVec
	warnings  prometheus.Counter
	errors    prometheus.Counter
	failed    prometheus.Gauge
}

// New creates the metrics and registers them. namespace may be empty.
func New(registry prometheus.Registerer, namespace string, next logrotatorr.Observer) (*Observer, error) {
	o := &Observer{Next: next}
	o.initMetrics(namespace)

	if err := registry.Register(o); err != nil {
		return nil, fmt.Errorf("registering log rotation metrics: %w", err)
	}

	return o, nil
}

func (o *Observer) initMetrics(namespace string) {
	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "logrotatorr",
			Name:      name,
			Help:      help,
		})
	}

	o.opens = counter("opens_total", "Total number of log files opened for writing")
	o.rotations = counter("rotations_total", "Total number of log rotations started")
	o.rotated = counter("rotated_total", "Total number of log files retired by a rotation")
	o.histories = counter("history_writes_total", "Total number of history ledger writes")
	o.warnings = counter("warnings_total", "Total number of non-fatal problems")
	o.errors = counter("errors_total", "Total number of errors that stopped a logger")

	o.removed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "logrotatorr",
		Name:      "removed_total",
		Help:      "Total number of old log files removed by the history ledger",
	}, []string{"reason"}) // reason: count, size

	o.failed = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "logrotatorr",
		Name:      "failed",
		Help:      "Set to 1 when a logger stopped on an error",
	})
}

// Describe implements the Collector interface.
func (o *Observer) Describe(ch chan<- *prometheus.Desc) {
	o.opens.Describe(ch)
	o.rotations.Describe(ch)
	o.rotated.Describe(ch)
	o.histories.Describe(ch)
	o.removed.Describe(ch)
	o.warnings.Describe(ch)
	o.errors.Describe(ch)
	o.failed.Describe(ch)
}

// Collect implements the Collector interface.
func (o *Observer) Collect(ch chan<- prometheus.Metric) {
	o.opens.Collect(ch)
	o.rotations.Collect(ch)
	o.rotated.Collect(ch)
	o.histories.Collect(ch)
	o.removed.Collect(ch)
	o.warnings.Collect(ch)
	o.errors.Collect(ch)
	o.failed.Collect(ch)
}

func (o *Observer) Open(fileName string) {
	o.opens.Inc()

	if o.Next != nil {
		o.Next.Open(fileName)
	}
}

func (o *Observer) Rotation() {
	o.rotations.Inc()

	if o.Next != nil {
		o.Next.Rotation()
	}
}

func (o *Observer) Rotated(fileName string) {
	o.rotated.Inc()

	if o.Next != nil {
		o.Next.Rotated(fileName)
	}
}

func (o *Observer) History() {
	o.histories.Inc()

	if o.Next != nil {
		o.Next.History()
	}
}

func (o *Observer) Removed(fileName string, count bool) {
	reason := ReasonSize
	if count {
		reason = ReasonCount
	}

	o.removed.WithLabelValues(reason).Inc()

	if o.Next != nil {
		o.Next.Removed(fileName, count)
	}
}

func (o *Observer) Warning(err error) {
	o.warnings.Inc()

	if o.Next != nil {
		o.Next.Warning(err)
	}
}

func (o *Observer) Error(err error) {
	o.errors.Inc()
	o.failed.Set(1)

	if o.Next != nil {
		o.Next.Error(err)
	}
}

// Our types must satify an Observer and a Collector.
var (
	_ logrotatorr.Observer = (*Observer)(nil)
	_ prometheus.Collector = (*Observer)(nil)
)
