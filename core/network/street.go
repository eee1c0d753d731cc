package network

import "fmt"

// VertexID identifies a junction in the county graph.
type VertexID int

// EventID identifies the disruption currently holding a street.
type EventID int

// StreetID identifies a street by its declared endpoints.
type StreetID struct {
	Source VertexID
	Target VertexID
}

func (id StreetID) String() string { return fmt.Sprintf("%d -> %d", id.Source, id.Target) }

// Direction describes which way a street may be traversed.
type Direction int

const (
	Bidirectional Direction = iota
	SourceTarget
	TargetSource
)

func (d Direction) String() string {
	switch d {
	case SourceTarget:
		return "SOURCE_TARGET"
	case TargetSource:
		return "TARGET_SOURCE"
	default:
		return "BIDIRECTIONAL"
	}
}

// PrimaryType classifies a street for rush hour disruptions.
type PrimaryType int

const (
	MainStreet PrimaryType = iota
	SideStreet
	CountyRoad
)

func (t PrimaryType) String() string {
	switch t {
	case MainStreet:
		return "mainStreet"
	case SideStreet:
		return "sideStreet"
	case CountyRoad:
		return "countyRoad"
	default:
		return "unknown"
	}
}

// SecondaryType carries the optional street attribute.
type SecondaryType int

const (
	NoSecondary SecondaryType = iota
	OneWayStreet
	Tunnel
)

func (t SecondaryType) String() string {
	switch t {
	case OneWayStreet:
		return "oneWayStreet"
	case Tunnel:
		return "tunnel"
	default:
		return "none"
	}
}

// Street is a weighted edge between two vertices. Weight, Direction and
// Blocked are mutated by disruptions; the Original* fields never change.
type Street struct {
	ID                StreetID
	Village           string
	Name              string
	HeightLimit       int
	Primary           PrimaryType
	Secondary         SecondaryType
	Weight            int
	OriginalWeight    int
	Direction         Direction
	OriginalDirection Direction
	Blocked           bool

	// EmergencyCounter counts ongoing incidents located on this street.
	EmergencyCounter int

	event    EventID
	affected bool
}

// NewStreet builds a street in its initial state. One-way streets start as
// SourceTarget, everything else is bidirectional.
func NewStreet(source, target VertexID, village, name string, height, weight int, primary PrimaryType, secondary SecondaryType) *Street {
	dir := Bidirectional
	if secondary == OneWayStreet {
		dir = SourceTarget
	}
	return &Street{
		ID:                StreetID{Source: source, Target: target},
		Village:           village,
		Name:              name,
		HeightLimit:       height,
		Primary:           primary,
		Secondary:         secondary,
		Weight:            weight,
		OriginalWeight:    weight,
		Direction:         dir,
		OriginalDirection: dir,
	}
}

// Source returns the declared source vertex.
func (s *Street) Source() VertexID { return s.ID.Source }

// Target returns the declared target vertex.
func (s *Street) Target() VertexID { return s.ID.Target }

// Affected reports whether a disruption currently holds the street.
func (s *Street) Affected() bool { return s.affected }

// AffectedBy returns the holding disruption, if any.
func (s *Street) AffectedBy() (EventID, bool) { return s.event, s.affected }

// Attach records id as the disruption holding the street.
func (s *Street) Attach(id EventID) {
	s.event = id
	s.affected = true
}

// Detach clears the holding disruption.
func (s *Street) Detach() {
	s.event = 0
	s.affected = false
}

// HeldBy reports whether id is the disruption holding the street.
func (s *Street) HeldBy(id EventID) bool { return s.affected && s.event == id }

// Other returns the endpoint opposite to v.
func (s *Street) Other(v VertexID) VertexID {
	if v == s.ID.Source {
		return s.ID.Target
	}
	return s.ID.Source
}
