package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"lineclamp/pkg/clamp"
)

// Collector records clamp run metrics. It implements clamp.Observer.
type Collector struct {
	runs      *prometheus.CounterVec
	steps     prometheus.Counter
	exhausted prometheus.Counter
	inFlight  prometheus.Gauge
	runSteps  prometheus.Histogram
}

// NewCollector creates the metrics and registers them with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lineclamp_runs_total",
				Help: "Total number of clamp runs by path",
			},
			[]string{"path"},
		),
		steps: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "lineclamp_steps_total",
				Help: "Total number of truncation steps taken",
			},
		),
		exhausted: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "lineclamp_runs_exhausted_total",
				Help: "Runs that removed all text without fitting",
			},
		),
		inFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "lineclamp_runs_in_flight",
				Help: "Clamp runs started but not yet finished",
			},
		),
		runSteps: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "lineclamp_run_steps",
				Help:    "Steps per progressive run",
				Buckets: prometheus.ExponentialBuckets(1, 2, 10),
			},
		),
	}
	reg.MustRegister(c.runs, c.steps, c.exhausted, c.inFlight, c.runSteps)
	return c
}

func (c *Collector) RunStarted(path string) {
	c.runs.WithLabelValues(path).Inc()
	c.inFlight.Inc()
}

func (c *Collector) StepTaken() {
	c.steps.Inc()
}

func (c *Collector) RunFinished(res clamp.Result) {
	c.inFlight.Dec()
	if res.Exhausted {
		c.exhausted.Inc()
	}
	if res.Steps > 0 {
		c.runSteps.Observe(float64(res.Steps))
	}
}
