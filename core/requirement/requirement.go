// Package requirement holds the resource demand of one incident: the vehicle
// types still needed per service and the consumable counters they carry.
package requirement

import (
	"fmt"

	"github.com/kilianp07/emsim/core/fleet"
)

// Requirement tracks what an incident still needs. A service's need list is
// empty exactly when its consumable remainder is zero.
type Requirement struct {
	Police  []fleet.VehicleType
	Fire    []fleet.VehicleType
	Medical []fleet.VehicleType

	Ladder int

	TotalCriminals     int
	RemainingCriminals int
	TotalPatients      int
	RemainingPatients  int
	TotalWater         int
	RemainingWater     int
}

// New returns a requirement whose remaining counters equal the totals.
func New(police, fire, medical []fleet.VehicleType, ladder, criminals, patients, water int) *Requirement {
	return &Requirement{
		Police:             append([]fleet.VehicleType(nil), police...),
		Fire:               append([]fleet.VehicleType(nil), fire...),
		Medical:            append([]fleet.VehicleType(nil), medical...),
		Ladder:             ladder,
		TotalCriminals:     criminals,
		RemainingCriminals: criminals,
		TotalPatients:      patients,
		RemainingPatients:  patients,
		TotalWater:         water,
		RemainingWater:     water,
	}
}

func requires(service string, list []fleet.VehicleType, remaining int) bool {
	if len(list) == 0 && remaining > 0 {
		panic(fmt.Sprintf("requirement: %s needs %d more but no vehicle type is left", service, remaining))
	}
	return len(list) > 0 || remaining != 0
}

// RequiresPolice reports whether police assets are still needed.
func (r *Requirement) RequiresPolice() bool {
	return requires("police", r.Police, r.RemainingCriminals)
}

// RequiresFire reports whether fire assets are still needed.
func (r *Requirement) RequiresFire() bool {
	return requires("fire", r.Fire, r.RemainingWater)
}

// RequiresMedical reports whether medical assets are still needed.
func (r *Requirement) RequiresMedical() bool {
	return requires("medical", r.Medical, r.RemainingPatients)
}

// Requires dispatches to the service of kind k.
func (r *Requirement) Requires(k fleet.Kind) bool {
	switch k {
	case fleet.Police:
		return r.RequiresPolice()
	case fleet.Medical:
		return r.RequiresMedical()
	default:
		return r.RequiresFire()
	}
}

// Fulfilled reports whether no service needs anything.
func (r *Requirement) Fulfilled() bool {
	return !r.RequiresPolice() && !r.RequiresFire() && !r.RequiresMedical()
}

// Needs returns the live need list for stations of kind k. Callers mutate
// the returned list through Take and Give.
func (r *Requirement) Needs(k fleet.Kind) *[]fleet.VehicleType {
	switch k {
	case fleet.Police:
		return &r.Police
	case fleet.Medical:
		return &r.Medical
	default:
		return &r.Fire
	}
}

// Count returns how many vehicles of type t are still needed.
func (r *Requirement) Count(t fleet.VehicleType) int {
	n := 0
	for _, x := range *r.Needs(t.Kind()) {
		if x == t {
			n++
		}
	}
	return n
}

// Take removes one entry of type t from its service list.
func (r *Requirement) Take(t fleet.VehicleType) {
	list := r.Needs(t.Kind())
	for i, x := range *list {
		if x == t {
			*list = append((*list)[:i], (*list)[i+1:]...)
			return
		}
	}
}

// Give appends one entry of type t to its service list.
func (r *Requirement) Give(t fleet.VehicleType) {
	list := r.Needs(t.Kind())
	*list = append(*list, t)
}
