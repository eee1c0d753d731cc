// Package incident models emergency calls and their lifecycle.
package incident

import (
	"github.com/kilianp07/emsim/core/network"
	"github.com/kilianp07/emsim/core/requirement"
)

// ID identifies an emergency.
type ID int

// State is the incident lifecycle. The declaration order is used to sort
// status notifications.
type State int

const (
	Unassigned State = iota
	Ongoing
	BeingResolved
	Success
	Failed
)

func (s State) String() string {
	switch s {
	case Unassigned:
		return "UNASSIGNED"
	case Ongoing:
		return "ONGOING"
	case BeingResolved:
		return "BEING_RESOLVED"
	case Success:
		return "SUCCESS"
	case Failed:
		return "FAILED"
	default:
		return "unknown"
	}
}

// Emergency is one incident of the scenario.
type Emergency struct {
	ID          ID
	Street      network.StreetID
	Tick        int
	HandleTime  int
	MaxDuration int
	Severity    requirement.Severity
	Type        requirement.Type
	Requirement *requirement.Requirement
	State       State
}

// New builds an unassigned emergency with the requirement of its type and severity.
func New(id ID, street network.StreetID, tick int, t requirement.Type, sev requirement.Severity, handle, maxDuration int) (*Emergency, error) {
	req, err := requirement.ForEmergency(t, sev)
	if err != nil {
		return nil, err
	}
	return &Emergency{
		ID:          id,
		Street:      street,
		Tick:        tick,
		HandleTime:  handle,
		MaxDuration: maxDuration,
		Severity:    sev,
		Type:        t,
		Requirement: req,
	}, nil
}

// TicksLeft returns the ticks remaining before the deadline, never negative.
func (e *Emergency) TicksLeft(now int) int {
	return max(e.MaxDuration-(now-e.Tick), 0)
}

// TicksLeftForArrival is the window in which assets must arrive so handling
// can still finish in time.
func (e *Emergency) TicksLeftForArrival(now int) int {
	return e.TicksLeft(now) - e.HandleTime
}

// Less orders by severity descending, then id ascending.
func Less(a, b *Emergency) bool {
	if a.Severity != b.Severity {
		return a.Severity > b.Severity
	}
	return a.ID < b.ID
}
