package engine

import (
	"fmt"
	"sort"

	"github.com/kilianp07/emsim/core/disruption"
	"github.com/kilianp07/emsim/core/events"
	"github.com/kilianp07/emsim/core/fleet"
	"github.com/kilianp07/emsim/core/incident"
	"github.com/kilianp07/emsim/core/routing"
)

func (s *Simulation) updateVehicles() {
	for _, id := range append([]fleet.VehicleID(nil), s.observers...) {
		v := s.reg.Roster.MustVehicle(id)
		switch v.State {
		case fleet.Dispatched:
			p := v.Path()
			p.Advance(routing.WeightPerTick)
			if p.Arrived() {
				v.State = fleet.Waiting
				s.sink.Notify(events.AssetArrived{Tick: s.tick, Vehicle: v.ID, Vertex: p.Target()})
			}
		case fleet.Returning:
			p := v.Path()
			p.Advance(routing.WeightPerTick)
			if p.Arrived() {
				s.sink.Notify(events.AssetArrived{Tick: s.tick, Vehicle: v.ID, Vertex: p.Target()})
				s.reg.Roster.MustStation(v.Station).ReturnCrew(v)
				v.Replenish()
				if v.State == fleet.Available {
					s.forget(v.ID)
				}
			}
		case fleet.InPreparation:
			v.Waiting--
			if v.Waiting <= 0 {
				v.Waiting = 0
				v.State = fleet.Available
				s.forget(v.ID)
			}
		case fleet.Allocated:
			v.State = fleet.Dispatched
		}
	}
}

func (s *Simulation) updateEmergencies() {
	var changed []events.EmergencyStatus
	for _, e := range append([]*incident.Emergency(nil), s.reg.Ongoing...) {
		switch e.State {
		case incident.Ongoing:
			left := e.TicksLeft(s.tick)
			late := left == 0 && e.HandleTime > 1
			if s.onScene(e) && !late {
				e.State = incident.BeingResolved
				changed = append(changed, s.status(e))
				continue
			}
			// Assets on scene with no time left still fail.
			if late || left == e.HandleTime {
				e.State = incident.Failed
				changed = append(changed, s.status(e))
				s.reg.Stats.Failed++
				s.release(e)
			}
		case incident.BeingResolved:
			e.HandleTime--
			if e.HandleTime <= 0 {
				e.State = incident.Success
				changed = append(changed, s.status(e))
				s.reg.Stats.Resolved++
				s.consume(e)
				s.release(e)
			}
		}
	}
	sort.SliceStable(changed, func(i, j int) bool {
		if changed[i].State != changed[j].State {
			return changed[i].State < changed[j].State
		}
		return changed[i].Emergency < changed[j].Emergency
	})
	for _, n := range changed {
		s.sink.Notify(n)
	}
}

func (s *Simulation) status(e *incident.Emergency) events.EmergencyStatus {
	return events.EmergencyStatus{Tick: s.tick, Emergency: e.ID, State: e.State}
}

// onScene reports whether every needed vehicle is assigned and none is
// still driving.
func (s *Simulation) onScene(e *incident.Emergency) bool {
	if !e.Requirement.Fulfilled() {
		return false
	}
	assigned := s.reg.Assigned(e.ID)
	if len(assigned) == 0 {
		return false
	}
	for _, v := range assigned {
		if v.State == fleet.Dispatched || v.State == fleet.Allocated {
			return false
		}
	}
	return true
}

// consume spends water, loads patients and arrests criminals on the
// assigned vehicles in id order.
func (s *Simulation) consume(e *incident.Emergency) {
	req := e.Requirement
	water, patients, criminals := req.TotalWater, req.TotalPatients, req.TotalCriminals
	for _, v := range s.reg.Assigned(e.ID) {
		switch v.Type {
		case fleet.FireTruckWater:
			used := min(v.Water, water)
			v.Water -= used
			water -= used
		case fleet.Ambulance:
			if patients > 0 && !v.Patient {
				v.Patient = true
				patients--
			}
		case fleet.PoliceCar:
			n := min(v.FreeCriminalSlots(), criminals)
			v.AddCriminals(n)
			criminals -= n
		}
	}
}

// release closes e and sends its vehicles home from where they are.
func (s *Simulation) release(e *incident.Emergency) {
	s.reg.County.MustStreet(e.Street).EmergencyCounter--
	for _, v := range s.reg.Assigned(e.ID) {
		home := s.reg.Roster.MustStation(v.Station)
		p, err := s.reg.Finder.PositionToVertex(v.Path().Position(), home.Vertex, v.Height, false)
		if err != nil {
			p, err = s.reg.Finder.PositionToVertex(v.Path().Position(), home.Vertex, v.Height, true)
		}
		if err != nil {
			panic(fmt.Sprintf("engine: vehicle %d cannot return to station %d: %v", v.ID, home.ID, err))
		}
		v.SetPath(p)
		v.State = fleet.Returning
		s.reg.Unassign(v.ID, e.ID)
	}
	s.reg.RemoveOngoing(e)
}

func (s *Simulation) updateEvents() {
	recalc := false
	s.applied = make(map[disruption.ID]bool)

	running := append([]disruption.Event(nil), s.reg.Running...)
	sort.Slice(running, func(i, j int) bool { return running[i].ID() < running[j].ID() })
	for _, ev := range running {
		ev.Update()
		switch ev.State() {
		case disruption.Ended:
			s.stop(ev)
			s.sink.Notify(events.EventEnded{Tick: s.tick, Event: ev.ID()})
			recalc = recalc || ev.Kind() != disruption.KindVehicleUnavailable
		case disruption.Suspended:
			ev.Resume()
			if ev.State() == disruption.Running {
				recalc = recalc || ev.Kind() != disruption.KindVehicleUnavailable
			}
		}
	}

	for _, ev := range s.reg.Events.At(s.tick) {
		if !ev.Apply() {
			s.reg.Events.Reschedule(ev)
			continue
		}
		s.reg.Running = append(s.reg.Running, ev)
		s.applied[ev.ID()] = true
		s.sink.Notify(events.EventTriggered{Tick: s.tick, Event: ev.ID()})
		recalc = recalc || ev.Kind() != disruption.KindVehicleUnavailable
	}

	if recalc {
		s.reroute()
	}
}

func (s *Simulation) stop(ev disruption.Event) {
	for i, x := range s.reg.Running {
		if x == ev {
			s.reg.Running = append(s.reg.Running[:i], s.reg.Running[i+1:]...)
			return
		}
	}
}

// reroute replans every moving vehicle after the network changed.
func (s *Simulation) reroute() {
	count := 0
	for _, id := range s.observers {
		v := s.reg.Roster.MustVehicle(id)
		if v.State != fleet.Dispatched && v.State != fleet.Returning {
			continue
		}
		pos := v.Path().Position()
		var (
			p   *routing.Path
			err error
		)
		if v.State == fleet.Dispatched {
			p, err = s.reg.Finder.PositionToStreet(pos, s.reg.Serving(v.ID).Street, v.Height, s.heldByNewEvent(pos))
		} else {
			p, err = s.reg.Finder.PositionToVertex(pos, s.reg.Roster.MustStation(v.Station).Vertex, v.Height, false)
		}
		if err != nil {
			s.log.Warnf("engine: tick %d: vehicle %d keeps its route: %v", s.tick, v.ID, err)
			continue
		}
		if !p.SameRoute(v.Path()) {
			v.SetPath(p)
			count++
		}
	}
	if count > 0 {
		s.reg.Stats.Rerouted += count
		s.sink.Notify(events.AssetsRerouted{Tick: s.tick, Count: count})
	}
}

func (s *Simulation) heldByNewEvent(pos routing.Position) bool {
	id, ok := s.reg.County.MustStreet(pos.Street).AffectedBy()
	return ok && s.applied[id]
}
