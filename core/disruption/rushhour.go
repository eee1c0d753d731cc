package disruption

import "github.com/kilianp07/emsim/core/network"

// RushHour multiplies the weight of every free street of the listed primary
// types. Undo only touches the streets recorded at apply time.
type RushHour struct {
	base
	county  *network.County
	types   []network.PrimaryType
	factor  int
	applied []*network.Street
}

func NewRushHour(id ID, start, duration int, county *network.County, types []network.PrimaryType, factor int) *RushHour {
	return &RushHour{
		base:   base{id: id, start: start, duration: duration},
		county: county,
		types:  append([]network.PrimaryType(nil), types...),
		factor: factor,
	}
}

func (e *RushHour) Kind() Kind { return KindRushHour }

// Applied returns the streets currently slowed down by this event.
func (e *RushHour) Applied() []network.StreetID {
	out := make([]network.StreetID, len(e.applied))
	for i, s := range e.applied {
		out[i] = s.ID
	}
	return out
}

func (e *RushHour) Apply() bool {
	for _, t := range e.types {
		for _, s := range e.county.StreetsByType(t) {
			if s.Affected() {
				continue
			}
			s.Weight *= e.factor
			s.Attach(e.id)
			e.applied = append(e.applied, s)
		}
	}
	if len(e.applied) == 0 {
		return false
	}
	e.state = Running
	return true
}

func (e *RushHour) Undo() {
	for _, s := range e.applied {
		if s.HeldBy(e.id) {
			s.Weight /= e.factor
			s.Detach()
		}
	}
	e.applied = nil
	e.state = Ended
}

func (e *RushHour) Suspend() { noSuspend(e.id, e.Kind()) }
func (e *RushHour) Resume()  {}

func (e *RushHour) Update() {
	if e.countdown() {
		e.Undo()
	}
}
