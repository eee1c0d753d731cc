package fleet

import (
	"errors"
	"fmt"
	"sort"

	"github.com/kilianp07/emsim/core/network"
)

// ErrNotFound is returned when a lookup misses.
var ErrNotFound = errors.New("fleet: not found")

// Roster owns every station and vehicle of a run.
type Roster struct {
	stations map[StationID]*Station
	vehicles map[VehicleID]*Vehicle
	byVertex map[network.VertexID]StationID
}

// NewRoster returns an empty roster.
func NewRoster() *Roster {
	return &Roster{
		stations: make(map[StationID]*Station),
		vehicles: make(map[VehicleID]*Vehicle),
		byVertex: make(map[network.VertexID]StationID),
	}
}

// AddStation registers s. Ids and locations must be unique.
func (r *Roster) AddStation(s *Station) error {
	if s == nil {
		return errors.New("fleet: nil station")
	}
	if _, ok := r.stations[s.ID]; ok {
		return fmt.Errorf("fleet: station %d declared twice", s.ID)
	}
	if other, ok := r.byVertex[s.Vertex]; ok {
		return fmt.Errorf("fleet: station %d shares vertex %d with station %d", s.ID, s.Vertex, other)
	}
	r.stations[s.ID] = s
	r.byVertex[s.Vertex] = s.ID
	return nil
}

// AddVehicle registers v with its owning station.
func (r *Roster) AddVehicle(v *Vehicle) error {
	if v == nil {
		return errors.New("fleet: nil vehicle")
	}
	if _, ok := r.vehicles[v.ID]; ok {
		return fmt.Errorf("fleet: vehicle %d declared twice", v.ID)
	}
	s, err := r.Station(v.Station)
	if err != nil {
		return err
	}
	r.vehicles[v.ID] = v
	s.own(v.ID)
	return nil
}

func (r *Roster) Station(id StationID) (*Station, error) {
	s, ok := r.stations[id]
	if !ok {
		return nil, fmt.Errorf("fleet: station %d: %w", id, ErrNotFound)
	}
	return s, nil
}

func (r *Roster) Vehicle(id VehicleID) (*Vehicle, error) {
	v, ok := r.vehicles[id]
	if !ok {
		return nil, fmt.Errorf("fleet: vehicle %d: %w", id, ErrNotFound)
	}
	return v, nil
}

// MustStation is Station for ids known to exist.
func (r *Roster) MustStation(id StationID) *Station {
	s, err := r.Station(id)
	if err != nil {
		panic(err)
	}
	return s
}

// MustVehicle is Vehicle for ids known to exist.
func (r *Roster) MustVehicle(id VehicleID) *Vehicle {
	v, err := r.Vehicle(id)
	if err != nil {
		panic(err)
	}
	return v
}

// StationAt returns the station located at vertex v.
func (r *Roster) StationAt(v network.VertexID) (*Station, bool) {
	id, ok := r.byVertex[v]
	if !ok {
		return nil, false
	}
	return r.stations[id], true
}

// Stations returns every station ordered by id.
func (r *Roster) Stations() []*Station {
	out := make([]*Station, 0, len(r.stations))
	for _, s := range r.stations {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// StationsOfKind returns the stations of kind k ordered by id.
func (r *Roster) StationsOfKind(k Kind) []*Station {
	var out []*Station
	for _, s := range r.Stations() {
		if s.Kind == k {
			out = append(out, s)
		}
	}
	return out
}

// Vehicles returns every vehicle ordered by id.
func (r *Roster) Vehicles() []*Vehicle {
	out := make([]*Vehicle, 0, len(r.vehicles))
	for _, v := range r.vehicles {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// HomeOf returns the station owning vehicle id.
func (r *Roster) HomeOf(id VehicleID) *Station {
	return r.MustStation(r.MustVehicle(id).Station)
}
