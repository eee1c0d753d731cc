package metrics

import "time"

// RunStatistics are the aggregate counts of a finished run.
type RunStatistics struct {
	RunID    string
	Ticks    int
	Received int
	Resolved int
	Failed   int
	Ongoing  int
	Rerouted int
	Time     time.Time
}

// MetricsSink records run statistics for observability purposes.
type MetricsSink interface {
	RecordRunStatistics(RunStatistics) error
}

// TickPoint summarises one simulated tick.
type TickPoint struct {
	RunID       string
	Tick        int
	Ongoing     int
	Allocations int
	Arrivals    int
	Rerouted    int
	Time        time.Time
}

// TickRecorder records per tick points.
type TickRecorder interface {
	RecordTick(TickPoint) error
}

// DispatchKind names a dispatch decision.
type DispatchKind string

const (
	Allocation    DispatchKind = "allocation"
	Reallocation  DispatchKind = "reallocation"
	RequestSent   DispatchKind = "request_sent"
	RequestFailed DispatchKind = "request_failed"
)

// DispatchEvent is a single decision of the matcher. Vehicle and Station
// are -1 when they do not apply.
type DispatchEvent struct {
	RunID     string
	Tick      int
	Kind      DispatchKind
	Emergency int
	Vehicle   int
	Station   int
	ETA       int
	Time      time.Time
}

// DispatchRecorder records matcher decisions.
type DispatchRecorder interface {
	RecordDispatch(DispatchEvent) error
}

// IncidentEvent records an incident leaving the ongoing state.
type IncidentEvent struct {
	RunID     string
	Tick      int
	Emergency int
	Outcome   string
	Time      time.Time
}

// IncidentRecorder records incident transitions.
type IncidentRecorder interface {
	RecordIncident(IncidentEvent) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordRunStatistics(RunStatistics) error { return nil }
func (NopSink) RecordTick(TickPoint) error              { return nil }
func (NopSink) RecordDispatch(DispatchEvent) error      { return nil }
func (NopSink) RecordIncident(IncidentEvent) error      { return nil }
