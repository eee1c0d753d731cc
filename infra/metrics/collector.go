package metrics

import (
	"context"
	"time"

	"github.com/kilianp07/emsim/core/events"
	coremetrics "github.com/kilianp07/emsim/core/metrics"
	"github.com/kilianp07/emsim/core/incident"
	"github.com/kilianp07/emsim/infra/logger"
	"github.com/kilianp07/emsim/internal/eventbus"
)

// Collector turns kernel notifications into metric records. It is not
// safe for concurrent use; StartEventCollector drives it from one goroutine.
type Collector struct {
	sink  coremetrics.MetricsSink
	runID string
	log   logger.Logger
	now   func() time.Time

	open    bool
	point   coremetrics.TickPoint
	ongoing int
	ticks   int
}

// NewCollector returns a collector tagging every record with runID.
func NewCollector(sink coremetrics.MetricsSink, runID string, log logger.Logger) *Collector {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Collector{sink: sink, runID: runID, log: log, now: time.Now}
}

// Handle records n.
func (c *Collector) Handle(n events.Notification) {
	switch e := n.(type) {
	case events.TickStarted:
		c.flush()
		c.open = true
		c.point = coremetrics.TickPoint{RunID: c.runID, Tick: e.Tick}
	case events.EmergencyAssigned:
		c.ongoing++
	case events.AssetAllocated:
		c.point.Allocations++
		c.dispatch(e.Tick, coremetrics.Allocation, int(e.Emergency), int(e.Vehicle), -1, e.ETA)
	case events.AssetReallocated:
		c.dispatch(e.Tick, coremetrics.Reallocation, int(e.Emergency), int(e.Vehicle), -1, 0)
	case events.RequestSent:
		c.dispatch(e.Tick, coremetrics.RequestSent, int(e.Emergency), -1, int(e.Station), 0)
	case events.RequestFailed:
		c.dispatch(e.Tick, coremetrics.RequestFailed, int(e.Emergency), -1, -1, 0)
	case events.AssetArrived:
		c.point.Arrivals++
	case events.AssetsRerouted:
		c.point.Rerouted += e.Count
	case events.EmergencyStatus:
		if e.State == incident.Success || e.State == incident.Failed {
			c.ongoing--
		}
		if rec, ok := c.sink.(coremetrics.IncidentRecorder); ok {
			c.check("incident", rec.RecordIncident(coremetrics.IncidentEvent{
				RunID:     c.runID,
				Tick:      e.Tick,
				Emergency: int(e.Emergency),
				Outcome:   e.State.String(),
				Time:      c.now(),
			}))
		}
	case events.SimulationEnded:
		c.flush()
		c.ticks = e.Tick + 1
	case events.Statistics:
		c.check("statistics", c.sink.RecordRunStatistics(coremetrics.RunStatistics{
			RunID:    c.runID,
			Ticks:    c.ticks,
			Received: e.Received,
			Resolved: e.Resolved,
			Failed:   e.Failed,
			Ongoing:  e.Ongoing,
			Rerouted: e.Rerouted,
			Time:     c.now(),
		}))
	}
}

func (c *Collector) dispatch(tick int, kind coremetrics.DispatchKind, emergency, vehicle, station, eta int) {
	rec, ok := c.sink.(coremetrics.DispatchRecorder)
	if !ok {
		return
	}
	c.check("dispatch", rec.RecordDispatch(coremetrics.DispatchEvent{
		RunID:     c.runID,
		Tick:      tick,
		Kind:      kind,
		Emergency: emergency,
		Vehicle:   vehicle,
		Station:   station,
		ETA:       eta,
		Time:      c.now(),
	}))
}

func (c *Collector) flush() {
	if !c.open {
		return
	}
	c.open = false
	c.point.Ongoing = c.ongoing
	c.point.Time = c.now()
	if rec, ok := c.sink.(coremetrics.TickRecorder); ok {
		c.check("tick", rec.RecordTick(c.point))
	}
}

func (c *Collector) check(what string, err error) {
	if err != nil {
		c.log.Warnf("metrics: record %s: %v", what, err)
	}
}

// StartEventCollector feeds c from the bus until the bus is closed. The
// returned channel is closed once the collector stopped.
func StartEventCollector(ctx context.Context, bus *eventbus.TypedBus[events.Notification], c *Collector) <-chan struct{} {
	if c == nil {
		return eventbus.Drain[events.Notification](ctx, bus, nil)
	}
	return eventbus.Drain(ctx, bus, c.Handle)
}
