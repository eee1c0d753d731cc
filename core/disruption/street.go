package disruption

import (
	"github.com/kilianp07/emsim/core/network"
)

// RoadClosure blocks a street. It cannot start while an incident is located
// on the street and is suspended while one arrives.
type RoadClosure struct {
	base
	street *network.Street
}

func NewRoadClosure(id ID, start, duration int, street *network.Street) *RoadClosure {
	return &RoadClosure{base: base{id: id, start: start, duration: duration}, street: street}
}

func (e *RoadClosure) Kind() Kind { return KindRoadClosure }

// Street returns the closed street.
func (e *RoadClosure) Street() network.StreetID { return e.street.ID }

func (e *RoadClosure) Apply() bool {
	if e.street.EmergencyCounter > 0 || e.street.Affected() {
		return false
	}
	e.street.Blocked = true
	e.street.Attach(e.id)
	e.state = Running
	return true
}

func (e *RoadClosure) Undo() {
	if !e.street.Affected() || e.street.HeldBy(e.id) {
		e.street.Blocked = false
		e.street.Detach()
		e.state = Ended
	}
}

// Suspend lifts the block but keeps the street held and the remaining duration.
func (e *RoadClosure) Suspend() {
	if e.street.Affected() {
		e.street.Blocked = false
		e.state = Suspended
	}
}

// Resume blocks the street again once no incident is located on it.
func (e *RoadClosure) Resume() {
	if e.street.EmergencyCounter == 0 {
		e.street.Blocked = true
		e.state = Running
	}
}

func (e *RoadClosure) Update() {
	if e.countdown() {
		e.Undo()
	}
}

// ConstructionSite multiplies a street's weight and, on bidirectional
// streets, forces a single direction.
type ConstructionSite struct {
	base
	street *network.Street
	factor int
	dir    network.Direction
}

func NewConstructionSite(id ID, start, duration int, street *network.Street, factor int, dir network.Direction) *ConstructionSite {
	return &ConstructionSite{base: base{id: id, start: start, duration: duration}, street: street, factor: factor, dir: dir}
}

func (e *ConstructionSite) Kind() Kind { return KindConstructionSite }

func (e *ConstructionSite) Apply() bool {
	if e.street.Affected() {
		return false
	}
	e.street.Weight *= e.factor
	e.street.Attach(e.id)
	if e.street.Direction == network.Bidirectional {
		e.street.Direction = e.dir
	}
	e.state = Running
	return true
}

func (e *ConstructionSite) Undo() {
	if e.street.HeldBy(e.id) {
		e.street.Weight /= e.factor
		e.street.Detach()
		e.street.Direction = e.street.OriginalDirection
	}
	e.state = Ended
}

func (e *ConstructionSite) Suspend() { noSuspend(e.id, e.Kind()) }
func (e *ConstructionSite) Resume()  {}

func (e *ConstructionSite) Update() {
	if e.countdown() {
		e.Undo()
	}
}

// TrafficJam multiplies a street's weight.
type TrafficJam struct {
	base
	street *network.Street
	factor int
}

func NewTrafficJam(id ID, start, duration int, street *network.Street, factor int) *TrafficJam {
	return &TrafficJam{base: base{id: id, start: start, duration: duration}, street: street, factor: factor}
}

func (e *TrafficJam) Kind() Kind { return KindTrafficJam }

func (e *TrafficJam) Apply() bool {
	if e.street.Affected() {
		return false
	}
	e.street.Weight *= e.factor
	e.street.Attach(e.id)
	e.state = Running
	return true
}

func (e *TrafficJam) Undo() {
	if e.street.HeldBy(e.id) {
		e.street.Weight /= e.factor
		e.street.Detach()
	}
	e.state = Ended
}

func (e *TrafficJam) Suspend() { noSuspend(e.id, e.Kind()) }
func (e *TrafficJam) Resume()  {}

func (e *TrafficJam) Update() {
	if e.countdown() {
		e.Undo()
	}
}
