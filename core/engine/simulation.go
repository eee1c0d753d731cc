// Package engine drives a simulation tick by tick: intake of new incidents,
// allocation of vehicles, then the update of vehicles, incidents and events.
package engine

import (
	"context"
	"fmt"
	"sort"

	"github.com/kilianp07/emsim/core/dispatch"
	"github.com/kilianp07/emsim/core/disruption"
	"github.com/kilianp07/emsim/core/events"
	"github.com/kilianp07/emsim/core/fleet"
	"github.com/kilianp07/emsim/core/logger"
	"github.com/kilianp07/emsim/core/registry"
)

// Simulation runs the tick loop over a registry.
type Simulation struct {
	reg     *registry.Registry
	matcher *dispatch.Matcher
	sink    events.Sink
	log     logger.Logger

	tick      int
	observers []fleet.VehicleID
	applied   map[disruption.ID]bool
}

// New returns a Simulation over reg. Notifications go to sink.
func New(reg *registry.Registry, sink events.Sink, log logger.Logger) (*Simulation, error) {
	if reg == nil || sink == nil || log == nil {
		return nil, fmt.Errorf("engine: nil parameter provided to New")
	}
	m, err := dispatch.NewMatcher(reg, sink, log)
	if err != nil {
		return nil, err
	}
	return &Simulation{reg: reg, matcher: m, sink: sink, log: log, tick: -1}, nil
}

// Registry exposes the simulated state.
func (s *Simulation) Registry() *registry.Registry { return s.reg }

// Run executes ticks until no incident is left to serve or maxTicks ticks
// have run. At least one tick always runs.
func (s *Simulation) Run(ctx context.Context, maxTicks int) (registry.Statistics, error) {
	s.sink.Notify(events.SimulationStarted{})
	for {
		if err := ctx.Err(); err != nil {
			return s.reg.Stats, err
		}
		s.Step()
		if !s.reg.HasWork(s.tick) || s.tick >= maxTicks-1 {
			break
		}
	}
	s.reg.Stats.Ongoing = len(s.reg.Ongoing)
	st := s.reg.Stats
	s.sink.Notify(events.SimulationEnded{Tick: s.tick})
	s.sink.Notify(events.Statistics{
		Rerouted: st.Rerouted,
		Received: st.Received,
		Ongoing:  st.Ongoing,
		Failed:   st.Failed,
		Resolved: st.Resolved,
	})
	s.log.Infof("simulation finished after %d ticks: %d received, %d resolved, %d failed", s.tick+1, st.Received, st.Resolved, st.Failed)
	return st, nil
}

// Step runs the next tick.
func (s *Simulation) Step() {
	s.tick++
	s.sink.Notify(events.TickStarted{Tick: s.tick})
	s.intake()
	allocated := s.matcher.Allocate(s.tick)
	s.observe(allocated)
	s.updateVehicles()
	s.updateEmergencies()
	s.updateEvents()
	s.log.Debugf("tick %d: %d ongoing, %d observed vehicles", s.tick, len(s.reg.Ongoing), len(s.observers))
}

// Tick returns the last tick run, -1 before the first.
func (s *Simulation) Tick() int { return s.tick }

func (s *Simulation) observe(ids []fleet.VehicleID) {
	seen := make(map[fleet.VehicleID]bool, len(s.observers)+len(ids))
	out := s.observers[:0]
	for _, id := range append(append([]fleet.VehicleID(nil), s.observers...), ids...) {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	s.observers = out
}

func (s *Simulation) forget(id fleet.VehicleID) {
	for i, x := range s.observers {
		if x == id {
			s.observers = append(s.observers[:i], s.observers[i+1:]...)
			return
		}
	}
}
