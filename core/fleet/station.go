package fleet

import (
	"fmt"
	"sort"

	"github.com/kilianp07/emsim/core/network"
)

// Station is a base owning vehicles and staff. Dogs are only used by police
// stations, doctors only by hospitals.
type Station struct {
	ID      StationID
	Kind    Kind
	Vertex  network.VertexID
	Staff   int
	Dogs    int
	Doctors int

	vehicles []VehicleID
}

// Vehicles returns the owned vehicle ids in ascending order.
func (s *Station) Vehicles() []VehicleID { return s.vehicles }

func (s *Station) own(id VehicleID) {
	i := sort.Search(len(s.vehicles), func(i int) bool { return s.vehicles[i] >= id })
	s.vehicles = append(s.vehicles, 0)
	copy(s.vehicles[i+1:], s.vehicles[i:])
	s.vehicles[i] = id
}

// CanStaff reports whether the station can crew v right now.
func (s *Station) CanStaff(v *Vehicle) bool {
	if s.Staff < v.Staff {
		return false
	}
	switch v.Type {
	case K9PoliceCar:
		return s.Dogs > 0
	case EmergencyDoctorCar:
		return s.Doctors > 0
	}
	return true
}

// TakeCrew removes the crew of v from the pools.
func (s *Station) TakeCrew(v *Vehicle) {
	if !s.CanStaff(v) {
		panic(fmt.Sprintf("fleet: station %d cannot staff vehicle %d", s.ID, v.ID))
	}
	s.Staff -= v.Staff
	switch v.Type {
	case K9PoliceCar:
		s.Dogs--
	case EmergencyDoctorCar:
		s.Doctors--
	}
}

// ReturnCrew puts the crew of v back into the pools.
func (s *Station) ReturnCrew(v *Vehicle) {
	s.Staff += v.Staff
	switch v.Type {
	case K9PoliceCar:
		s.Dogs++
	case EmergencyDoctorCar:
		s.Doctors++
	}
}
