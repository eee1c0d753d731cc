package fleet

import (
	"fmt"

	"github.com/kilianp07/emsim/core/routing"
)

// Replenishment constants.
const (
	WaterPerTick        = 300
	CriminalDropOffTime = 2
	PatientDropOffTime  = 1
)

// Vehicle is a single asset. Capacity fields only matter for the vehicle
// types that use them: water for FireTruckWater, ladder for FireTruckLadder,
// criminals for PoliceCar and the patient slot for Ambulance.
type Vehicle struct {
	ID      VehicleID
	Type    VehicleType
	Station StationID
	Staff   int
	Height  int

	State              State
	Waiting            int
	PendingUnavailable bool

	MaxWater     int
	Water        int
	Ladder       int
	MaxCriminals int
	Criminals    int
	Patient      bool

	path *routing.Path
}

// NewVehicle returns an available vehicle with full tanks.
func NewVehicle(id VehicleID, t VehicleType, station StationID, staff, height int) *Vehicle {
	return &Vehicle{ID: id, Type: t, Station: station, Staff: staff, Height: height}
}

// WithWater sets the tank capacity and fills it.
func (v *Vehicle) WithWater(capacity int) *Vehicle {
	v.MaxWater, v.Water = capacity, capacity
	return v
}

// WithLadder sets the ladder length.
func (v *Vehicle) WithLadder(length int) *Vehicle {
	v.Ladder = length
	return v
}

// WithCriminalCapacity sets the number of criminal slots.
func (v *Vehicle) WithCriminalCapacity(n int) *Vehicle {
	v.MaxCriminals = n
	return v
}

// Path returns the route the vehicle currently follows.
func (v *Vehicle) Path() *routing.Path {
	if v.path == nil {
		panic(fmt.Sprintf("fleet: vehicle %d has no path", v.ID))
	}
	return v.path
}

// SetPath replaces the current route.
func (v *Vehicle) SetPath(p *routing.Path) { v.path = p }

// Reallocatable reports whether the vehicle may be redirected to another incident.
func (v *Vehicle) Reallocatable() bool {
	return (v.State == Dispatched || v.State == Returning) && !v.PendingUnavailable
}

// FreeCriminalSlots returns the criminal slots left.
func (v *Vehicle) FreeCriminalSlots() int { return v.MaxCriminals - v.Criminals }

// AddCriminals loads n criminals.
func (v *Vehicle) AddCriminals(n int) {
	if n > v.FreeCriminalSlots() {
		panic(fmt.Sprintf("fleet: vehicle %d cannot take %d criminals", v.ID, n))
	}
	v.Criminals += n
}

// Replenish starts the preparation after a vehicle is back at its base:
// refill water, drop off criminals or patients. The vehicle ends up
// InPreparation when that takes time, Available otherwise.
func (v *Vehicle) Replenish() {
	switch {
	case v.Type == FireTruckWater && v.Water != v.MaxWater:
		missing := v.MaxWater - v.Water
		v.Waiting = (missing + WaterPerTick - 1) / WaterPerTick
		v.Water = v.MaxWater
	case v.Type == PoliceCar && v.Criminals != 0:
		v.Waiting = CriminalDropOffTime
		v.Criminals = 0
	case v.Type == Ambulance && v.Patient:
		v.Waiting = PatientDropOffTime
		v.Patient = false
	}
	if v.Waiting > 0 {
		v.State = InPreparation
	} else {
		v.State = Available
	}
}
