package disruption

import "github.com/kilianp07/emsim/core/fleet"

// VehicleUnavailable takes a vehicle out of service. A vehicle that is busy
// is flagged and the event keeps retrying until the vehicle is available.
type VehicleUnavailable struct {
	base
	vehicle *fleet.Vehicle
}

func NewVehicleUnavailable(id ID, start, duration int, v *fleet.Vehicle) *VehicleUnavailable {
	return &VehicleUnavailable{base: base{id: id, start: start, duration: duration}, vehicle: v}
}

func (e *VehicleUnavailable) Kind() Kind { return KindVehicleUnavailable }

// Vehicle returns the targeted vehicle id.
func (e *VehicleUnavailable) Vehicle() fleet.VehicleID { return e.vehicle.ID }

func (e *VehicleUnavailable) Apply() bool {
	switch e.vehicle.State {
	case fleet.Available:
		e.vehicle.State = fleet.Unavailable
		e.vehicle.PendingUnavailable = false
		e.state = Running
		return true
	case fleet.Unavailable:
		return false
	default:
		e.vehicle.PendingUnavailable = true
		return false
	}
}

func (e *VehicleUnavailable) Undo() {
	e.vehicle.State = fleet.Available
	e.state = Ended
}

func (e *VehicleUnavailable) Suspend() { noSuspend(e.id, e.Kind()) }
func (e *VehicleUnavailable) Resume()  {}

func (e *VehicleUnavailable) Update() {
	if e.countdown() {
		e.Undo()
	}
}
