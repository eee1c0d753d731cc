package disruption

import (
	"fmt"
	"sort"

	"github.com/kilianp07/emsim/core/network"
)

// ID identifies an event.
type ID = network.EventID

// State is the event lifecycle.
type State int

const (
	Inactive State = iota
	Running
	Suspended
	Ended
)

func (s State) String() string {
	switch s {
	case Inactive:
		return "INACTIVE"
	case Running:
		return "RUNNING"
	case Suspended:
		return "SUSPENDED"
	case Ended:
		return "ENDED"
	default:
		return "unknown"
	}
}

// Kind names the event variant.
type Kind string

const (
	KindRoadClosure        Kind = "ROAD_CLOSURE"
	KindConstructionSite   Kind = "CONSTRUCTION_SITE"
	KindRushHour           Kind = "RUSH_HOUR"
	KindTrafficJam         Kind = "TRAFFIC_JAM"
	KindVehicleUnavailable Kind = "VEHICLE_UNAVAILABLE"
)

// Event is the contract shared by all variants. The set of variants is
// closed to this package.
type Event interface {
	ID() ID
	Kind() Kind
	Start() int
	Duration() int
	State() State
	Apply() bool
	Undo()
	Suspend()
	Resume()
	Update()

	postpone()
}

type base struct {
	id       ID
	start    int
	duration int
	state    State
}

func (b *base) ID() ID        { return b.id }
func (b *base) Start() int    { return b.start }
func (b *base) Duration() int { return b.duration }
func (b *base) State() State  { return b.state }
func (b *base) postpone()     { b.start++ }

// countdown consumes one tick of a running event and reports whether the
// duration just ran out.
func (b *base) countdown() bool {
	if b.state != Running {
		return false
	}
	if b.duration <= 0 {
		panic(fmt.Sprintf("disruption: running event %d has no duration left", b.id))
	}
	b.duration--
	return b.duration == 0
}

func noSuspend(id ID, k Kind) {
	panic(fmt.Sprintf("disruption: %s event %d cannot be suspended", k, id))
}

// Schedule holds the events waiting to start, keyed by start tick.
type Schedule struct {
	byTick map[int][]Event
}

// NewSchedule returns an empty schedule.
func NewSchedule() *Schedule {
	return &Schedule{byTick: make(map[int][]Event)}
}

// Add enqueues e at its start tick.
func (s *Schedule) Add(e Event) {
	s.byTick[e.Start()] = append(s.byTick[e.Start()], e)
}

// At returns a copy of the events starting at tick, ordered by id.
func (s *Schedule) At(tick int) []Event {
	out := append([]Event(nil), s.byTick[tick]...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// Reschedule moves e to the tick after its current start.
func (s *Schedule) Reschedule(e Event) {
	list := s.byTick[e.Start()]
	found := false
	for i, x := range list {
		if x == e {
			s.byTick[e.Start()] = append(list[:i], list[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		panic(fmt.Sprintf("disruption: event %d not scheduled at tick %d", e.ID(), e.Start()))
	}
	if len(s.byTick[e.Start()]) == 0 {
		delete(s.byTick, e.Start())
	}
	e.postpone()
	s.Add(e)
}

// Pending returns the number of events still waiting to start.
func (s *Schedule) Pending() int {
	n := 0
	for _, l := range s.byTick {
		n += len(l)
	}
	return n
}
