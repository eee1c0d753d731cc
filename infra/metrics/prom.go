package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/emsim/core/metrics"
)

// PromSink exposes run results as Prometheus metrics.
type PromSink struct {
	runs      prometheus.Counter
	stats     *prometheus.GaugeVec
	dispatch  *prometheus.CounterVec
	incidents *prometheus.CounterVec
	eta       prometheus.Histogram
	tick      prometheus.Gauge
}

// NewPromSink registers the simulation metrics on the default Prometheus registerer.
// The Prometheus server should be started separately with StartPromServer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		runs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "emsim_runs_total",
			Help: "Number of finished simulation runs",
		}),
		stats: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "emsim_run_emergencies",
			Help: "Emergency counts of the last finished run",
		}, []string{"outcome"}),
		dispatch: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "emsim_dispatch_decisions_total",
			Help: "Matcher decisions by kind",
		}, []string{"kind"}),
		incidents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "emsim_incident_transitions_total",
			Help: "Incident state transitions by outcome",
		}, []string{"outcome"}),
		eta: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "emsim_allocation_eta_ticks",
			Help:    "Announced travel time of allocated vehicles",
			Buckets: prometheus.LinearBuckets(1, 2, 10),
		}),
		tick: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "emsim_current_tick",
			Help: "Last completed tick of the running simulation",
		}),
	}
	var err error
	if s.runs, err = register(reg, s.runs); err != nil {
		return nil, err
	}
	if s.stats, err = register(reg, s.stats); err != nil {
		return nil, err
	}
	if s.dispatch, err = register(reg, s.dispatch); err != nil {
		return nil, err
	}
	if s.incidents, err = register(reg, s.incidents); err != nil {
		return nil, err
	}
	if s.eta, err = register(reg, s.eta); err != nil {
		return nil, err
	}
	if s.tick, err = register(reg, s.tick); err != nil {
		return nil, err
	}
	return s, nil
}

// register returns the already registered collector when c was registered before.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordRunStatistics publishes the counts of a finished run.
func (s *PromSink) RecordRunStatistics(st coremetrics.RunStatistics) error {
	s.runs.Inc()
	s.stats.WithLabelValues("received").Set(float64(st.Received))
	s.stats.WithLabelValues("resolved").Set(float64(st.Resolved))
	s.stats.WithLabelValues("failed").Set(float64(st.Failed))
	s.stats.WithLabelValues("ongoing").Set(float64(st.Ongoing))
	s.stats.WithLabelValues("rerouted").Set(float64(st.Rerouted))
	return nil
}

// RecordTick moves the current tick gauge.
func (s *PromSink) RecordTick(p coremetrics.TickPoint) error {
	s.tick.Set(float64(p.Tick))
	return nil
}

// RecordDispatch counts a matcher decision and observes allocation ETAs.
func (s *PromSink) RecordDispatch(ev coremetrics.DispatchEvent) error {
	s.dispatch.WithLabelValues(string(ev.Kind)).Inc()
	if ev.Kind == coremetrics.Allocation {
		s.eta.Observe(float64(ev.ETA))
	}
	return nil
}

// RecordIncident counts an incident transition.
func (s *PromSink) RecordIncident(ev coremetrics.IncidentEvent) error {
	s.incidents.WithLabelValues(ev.Outcome).Inc()
	return nil
}
