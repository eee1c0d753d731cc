package dispatch

import (
	"fmt"

	"github.com/kilianp07/emsim/core/events"
	"github.com/kilianp07/emsim/core/fleet"
	"github.com/kilianp07/emsim/core/incident"
	"github.com/kilianp07/emsim/core/logger"
	"github.com/kilianp07/emsim/core/registry"
	"github.com/kilianp07/emsim/core/routing"
)

// Matcher runs the allocation phase of a tick.
type Matcher struct {
	reg  *registry.Registry
	sink events.Sink
	log  logger.Logger

	tick   int
	queue  *incident.Queue
	tooFar bool
}

// NewMatcher returns a Matcher over reg. Notifications go to sink.
func NewMatcher(reg *registry.Registry, sink events.Sink, log logger.Logger) (*Matcher, error) {
	if reg == nil || sink == nil || log == nil {
		return nil, fmt.Errorf("dispatch: nil parameter provided to NewMatcher")
	}
	return &Matcher{reg: reg, sink: sink, log: log}, nil
}

// Allocate serves every ongoing incident for tick and returns the ids of
// vehicles that left their base.
func (m *Matcher) Allocate(tick int) []fleet.VehicleID {
	m.tick = tick
	m.queue = incident.NewQueue(m.reg.Ongoing)

	var (
		allocated []fleet.VehicleID
		pending   []*Request
	)
	for {
		for e := m.queue.Pop(); e != nil; e = m.queue.Pop() {
			st := m.reg.StationOf(e.ID)
			alloc := m.allocate(e, st)
			var realloc []fleet.VehicleID
			if len(*e.Requirement.Needs(st.Kind)) > 0 {
				realloc = m.reallocate(e, st)
			}
			allocated = append(allocated, alloc...)
			own := true
			if len(alloc) == 0 && len(realloc) == 0 {
				own = !m.tooFar
			}
			pending = append(pending, m.requests(st, e, own)...)
			m.tooFar = false
		}
		if len(pending) == 0 {
			break
		}
		// A handled request may take vehicles from another incident, which
		// then waits in the queue again before the next request.
		r := pending[0]
		pending = pending[1:]
		alloc, next := m.handle(r)
		allocated = append(allocated, alloc...)
		if next != nil {
			pending = append(pending, next)
		}
	}
	m.queue = nil
	return allocated
}

// allocate sends idle vehicles of s to e.
func (m *Matcher) allocate(e *incident.Emergency, s *fleet.Station) []fleet.VehicleID {
	return m.match(e, s, func(v *fleet.Vehicle) bool { return v.State == fleet.Available }, false)
}

// reallocate redirects busy vehicles of s to e.
func (m *Matcher) reallocate(e *incident.Emergency, s *fleet.Station) []fleet.VehicleID {
	return m.match(e, s, (*fleet.Vehicle).Reallocatable, true)
}

func (m *Matcher) match(e *incident.Emergency, s *fleet.Station, pool func(*fleet.Vehicle) bool, realloc bool) []fleet.VehicleID {
	if e.Requirement.Fulfilled() {
		return nil
	}
	var cands []*fleet.Vehicle
	for _, id := range s.Vehicles() {
		v := m.reg.Roster.MustVehicle(id)
		if pool(v) && m.eligible(v, s, e) {
			cands = append(cands, v)
		}
	}
	set := largest(cands, func(set []*fleet.Vehicle) bool { return fits(e.Requirement, s, set) })
	if len(set) == 0 {
		return nil
	}
	m.log.Debugw("dispatch: selected vehicles", map[string]any{
		"tick":       m.tick,
		"emergency":  int(e.ID),
		"station":    int(s.ID),
		"candidates": len(cands),
		"selected":   len(set),
		"realloc":    realloc,
	})
	ids := make([]fleet.VehicleID, 0, len(set))
	for _, v := range set {
		m.commit(v, e, s, realloc)
		ids = append(ids, v.ID)
	}
	return ids
}

// eligible checks v on its own: type still needed, state, capacity and
// whether it can arrive in time.
func (m *Matcher) eligible(v *fleet.Vehicle, s *fleet.Station, e *incident.Emergency) bool {
	req := e.Requirement
	if req.Count(v.Type) == 0 {
		return false
	}
	switch v.State {
	case fleet.Available:
		if !s.CanStaff(v) {
			return false
		}
	case fleet.Dispatched:
		if m.reg.Serving(v.ID).Severity >= e.Severity {
			return false
		}
	}
	switch v.Type {
	case fleet.FireTruckLadder:
		if v.Ladder < req.Ladder {
			return false
		}
	case fleet.FireTruckWater:
		if v.Water == 0 {
			return false
		}
	case fleet.PoliceCar:
		if v.FreeCriminalSlots() == 0 {
			return false
		}
	case fleet.Ambulance:
		if v.Patient {
			return false
		}
	}
	p, err := m.route(v, s, e)
	if err != nil {
		return false
	}
	inTime := routing.Ticks(p.Remaining()) <= e.TicksLeftForArrival(m.tick)
	m.tooFar = m.tooFar || !inTime
	return inTime
}

// route plans the trip of v to e: from the road for moving vehicles, from
// the station otherwise.
func (m *Matcher) route(v *fleet.Vehicle, s *fleet.Station, e *incident.Emergency) (*routing.Path, error) {
	if v.State == fleet.Dispatched || v.State == fleet.Returning {
		return m.reg.Finder.PositionToStreet(v.Path().Position(), e.Street, v.Height, false)
	}
	return m.reg.Finder.VertexToStreet(s.Vertex, e.Street, v.Height)
}

func (m *Matcher) commit(v *fleet.Vehicle, e *incident.Emergency, s *fleet.Station, realloc bool) {
	p, err := m.route(v, s, e)
	if err != nil {
		panic(fmt.Sprintf("dispatch: vehicle %d lost its route to emergency %d: %v", v.ID, e.ID, err))
	}
	v.SetPath(p)
	if realloc {
		if v.State != fleet.Returning {
			old := m.reg.Serving(v.ID)
			m.reg.Unassign(v.ID, old.ID)
			old.Requirement.Give(v.Type)
			m.recalculate(old)
			m.queue.Push(old)
		}
		v.State = fleet.Dispatched
		m.sink.Notify(events.AssetReallocated{Tick: m.tick, Vehicle: v.ID, Emergency: e.ID})
	} else {
		s.TakeCrew(v)
		v.State = fleet.Allocated
		m.sink.Notify(events.AssetAllocated{Tick: m.tick, Vehicle: v.ID, Emergency: e.ID, ETA: max(routing.Ticks(p.Remaining()), 1)})
	}
	m.reg.Assign(v.ID, e.ID)
	req := e.Requirement
	req.Take(v.Type)
	switch v.Type {
	case fleet.PoliceCar:
		req.RemainingCriminals = max(req.RemainingCriminals-v.FreeCriminalSlots(), 0)
	case fleet.FireTruckWater:
		req.RemainingWater = max(req.RemainingWater-v.Water, 0)
	case fleet.Ambulance:
		req.RemainingPatients = max(req.RemainingPatients-1, 0)
	}
}

// recalculate rebuilds the consumable remainders of e from the vehicles
// still assigned to it.
func (m *Matcher) recalculate(e *incident.Emergency) {
	water, slots, ambulances := 0, 0, 0
	for _, v := range m.reg.Assigned(e.ID) {
		switch v.Type {
		case fleet.FireTruckWater:
			water += v.Water
		case fleet.PoliceCar:
			slots += v.FreeCriminalSlots()
		case fleet.Ambulance:
			if !v.Patient {
				ambulances++
			}
		}
	}
	req := e.Requirement
	req.RemainingWater = max(req.TotalWater-water, 0)
	req.RemainingCriminals = max(req.TotalCriminals-slots, 0)
	req.RemainingPatients = max(req.TotalPatients-ambulances, 0)
}
