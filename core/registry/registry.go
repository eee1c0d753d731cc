// Package registry is the shared state of a simulation run: the county, the
// fleet, the scenario and the bookkeeping that links incidents, stations and
// vehicles.
package registry

import (
	"fmt"
	"sort"

	"github.com/kilianp07/emsim/core/disruption"
	"github.com/kilianp07/emsim/core/fleet"
	"github.com/kilianp07/emsim/core/incident"
	"github.com/kilianp07/emsim/core/network"
	"github.com/kilianp07/emsim/core/routing"
)

// Statistics are the counters reported at the end of a run.
type Statistics struct {
	Received int
	Resolved int
	Failed   int
	Ongoing  int
	Rerouted int
}

// Registry owns every mutable piece of a run. It is not safe for concurrent use.
type Registry struct {
	County *network.County
	Roster *fleet.Roster
	Finder *routing.Finder
	Events *disruption.Schedule

	// Ongoing holds the incidents being served, in intake order.
	Ongoing []*incident.Emergency
	// Running holds the events currently in effect.
	Running []disruption.Event

	Stats Statistics

	emergencies map[incident.ID]*incident.Emergency
	byTick      map[int][]*incident.Emergency
	lastTick    int

	stationOf map[incident.ID]fleet.StationID
	assigned  map[incident.ID][]fleet.VehicleID
	serving   map[fleet.VehicleID]incident.ID

	nextRequest int
}

// New indexes the scenario. Emergency ids must be unique.
func New(county *network.County, roster *fleet.Roster, emergencies []*incident.Emergency, schedule *disruption.Schedule) (*Registry, error) {
	r := &Registry{
		County:      county,
		Roster:      roster,
		Finder:      routing.NewFinder(county),
		Events:      schedule,
		emergencies: make(map[incident.ID]*incident.Emergency, len(emergencies)),
		byTick:      make(map[int][]*incident.Emergency),
		lastTick:    -1,
		stationOf:   make(map[incident.ID]fleet.StationID),
		assigned:    make(map[incident.ID][]fleet.VehicleID),
		serving:     make(map[fleet.VehicleID]incident.ID),
	}
	if r.Events == nil {
		r.Events = disruption.NewSchedule()
	}
	for _, e := range emergencies {
		if _, dup := r.emergencies[e.ID]; dup {
			return nil, fmt.Errorf("registry: duplicate emergency %d", e.ID)
		}
		r.emergencies[e.ID] = e
		r.byTick[e.Tick] = append(r.byTick[e.Tick], e)
		r.lastTick = max(r.lastTick, e.Tick)
	}
	return r, nil
}

// Emergency returns the incident with the given id.
func (r *Registry) Emergency(id incident.ID) *incident.Emergency {
	e, ok := r.emergencies[id]
	if !ok {
		panic(fmt.Sprintf("registry: unknown emergency %d", id))
	}
	return e
}

// IncidentsAt returns the incidents reported at tick ordered by id and
// counts them as received.
func (r *Registry) IncidentsAt(tick int) []*incident.Emergency {
	list := append([]*incident.Emergency(nil), r.byTick[tick]...)
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	r.Stats.Received += len(list)
	return list
}

// HasWork reports whether incidents are still being served or reported at
// or after tick.
func (r *Registry) HasWork(tick int) bool {
	return len(r.Ongoing) > 0 || r.lastTick >= tick
}

// RemoveOngoing drops e from the ongoing list.
func (r *Registry) RemoveOngoing(e *incident.Emergency) {
	for i, x := range r.Ongoing {
		if x == e {
			r.Ongoing = append(r.Ongoing[:i], r.Ongoing[i+1:]...)
			return
		}
	}
}

// AssignStation records s as the home station of e.
func (r *Registry) AssignStation(e incident.ID, s fleet.StationID) {
	if old, ok := r.stationOf[e]; ok {
		panic(fmt.Sprintf("registry: emergency %d already assigned to station %d", e, old))
	}
	r.stationOf[e] = s
}

// StationOf returns the home station of e.
func (r *Registry) StationOf(e incident.ID) *fleet.Station {
	id, ok := r.stationOf[e]
	if !ok {
		panic(fmt.Sprintf("registry: emergency %d has no station", e))
	}
	return r.Roster.MustStation(id)
}

// Assign links vehicle v to incident e.
func (r *Registry) Assign(v fleet.VehicleID, e incident.ID) {
	if old, ok := r.serving[v]; ok {
		panic(fmt.Sprintf("registry: vehicle %d already serves emergency %d", v, old))
	}
	r.serving[v] = e
	r.assigned[e] = append(r.assigned[e], v)
}

// Unassign breaks the link between v and e.
func (r *Registry) Unassign(v fleet.VehicleID, e incident.ID) {
	if cur, ok := r.serving[v]; !ok || cur != e {
		panic(fmt.Sprintf("registry: vehicle %d does not serve emergency %d", v, e))
	}
	delete(r.serving, v)
	list := r.assigned[e]
	for i, x := range list {
		if x == v {
			r.assigned[e] = append(list[:i], list[i+1:]...)
			break
		}
	}
}

// Assigned returns the vehicles serving e in ascending id order.
func (r *Registry) Assigned(e incident.ID) []*fleet.Vehicle {
	ids := append([]fleet.VehicleID(nil), r.assigned[e]...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]*fleet.Vehicle, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.Roster.MustVehicle(id))
	}
	return out
}

// Serving returns the incident vehicle v is assigned to.
func (r *Registry) Serving(v fleet.VehicleID) *incident.Emergency {
	id, ok := r.serving[v]
	if !ok {
		panic(fmt.Sprintf("registry: vehicle %d serves no emergency", v))
	}
	return r.Emergency(id)
}

// NextRequestID hands out mutual-aid request ids starting at 1.
func (r *Registry) NextRequestID() int {
	r.nextRequest++
	return r.nextRequest
}
