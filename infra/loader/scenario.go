package loader

import (
	"github.com/kilianp07/emsim/core/disruption"
	"github.com/kilianp07/emsim/core/fleet"
	"github.com/kilianp07/emsim/core/incident"
	"github.com/kilianp07/emsim/core/network"
	"github.com/kilianp07/emsim/core/requirement"
)

type emergencyDoc struct {
	ID            int    `json:"id"`
	Tick          int    `json:"tick"`
	EmergencyType string `json:"emergencyType"`
	Village       string `json:"village"`
	RoadName      string `json:"roadName"`
	Severity      int    `json:"severity"`
	HandleTime    int    `json:"handleTime"`
	MaxDuration   int    `json:"maxDuration"`
}

type eventDoc struct {
	ID           int      `json:"id"`
	Type         string   `json:"type"`
	Tick         int      `json:"tick"`
	Duration     int      `json:"duration"`
	RoadTypes    []string `json:"roadTypes"`
	Factor       int      `json:"factor"`
	OneWayStreet bool     `json:"oneWayStreet"`
	Source       int      `json:"source"`
	Target       int      `json:"target"`
	VehicleID    int      `json:"vehicleID"`
}

var roadTypes = map[string]network.PrimaryType{
	"MAIN_STREET": network.MainStreet,
	"SIDE_STREET": network.SideStreet,
	"COUNTY_ROAD": network.CountyRoad,
}

// eventKeys lists which optional keys each event kind carries.
var eventKeys = map[disruption.Kind][]string{
	disruption.KindRushHour:           {"roadTypes", "factor"},
	disruption.KindTrafficJam:         {"factor", "source", "target"},
	disruption.KindConstructionSite:   {"factor", "oneWayStreet", "source", "target"},
	disruption.KindRoadClosure:        {"source", "target"},
	disruption.KindVehicleUnavailable: {"vehicleID"},
}

var optionalEventKeys = []string{"roadTypes", "factor", "oneWayStreet", "source", "target", "vehicleID"}

// Scenario is the timeline of a run.
type Scenario struct {
	Emergencies []*incident.Emergency
	Events      *disruption.Schedule
}

// ParseScenario reads the emergency calls and events of a run.
func ParseScenario(data []byte, county *network.County, roster *fleet.Roster) (*Scenario, error) {
	doc, err := document(data)
	if err != nil {
		return nil, err
	}
	calls, err := objects(doc, "emergencyCalls", "emergencyCalls", "events")
	if err != nil {
		return nil, err
	}
	evs, err := objects(doc, "events", "emergencyCalls", "events")
	if err != nil {
		return nil, err
	}
	sc := &Scenario{Events: disruption.NewSchedule()}
	seen := make(map[int]bool, len(calls))
	for _, obj := range calls {
		e, err := emergency(obj, county)
		if err != nil {
			return nil, err
		}
		if seen[int(e.ID)] {
			return nil, invalid("scenario: duplicate emergency %d", e.ID)
		}
		seen[int(e.ID)] = true
		sc.Emergencies = append(sc.Emergencies, e)
	}
	seen = make(map[int]bool, len(evs))
	for _, obj := range evs {
		ev, err := event(obj, county, roster)
		if err != nil {
			return nil, err
		}
		if seen[int(ev.ID())] {
			return nil, invalid("scenario: duplicate event %d", ev.ID())
		}
		seen[int(ev.ID())] = true
		sc.Events.Add(ev)
	}
	return sc, nil
}

func emergency(obj map[string]any, county *network.County) (*incident.Emergency, error) {
	if err := fields(obj, []string{"id", "tick", "emergencyType", "village", "roadName", "severity", "handleTime", "maxDuration"}, nil); err != nil {
		return nil, err
	}
	var d emergencyDoc
	if err := decode(obj, &d); err != nil {
		return nil, err
	}
	switch {
	case d.ID < 0 || d.Tick < 0:
		return nil, invalid("scenario: emergency %d has a negative id or tick", d.ID)
	case d.HandleTime < 1:
		return nil, invalid("scenario: emergency %d needs a positive handle time", d.ID)
	case d.MaxDuration <= d.HandleTime:
		return nil, invalid("scenario: emergency %d ends before it can be handled", d.ID)
	}
	t, err := requirement.ParseType(d.EmergencyType)
	if err != nil {
		return nil, invalid("scenario: %v", err)
	}
	st, err := county.StreetByName(d.Village, d.RoadName)
	if err != nil {
		return nil, invalid("scenario: emergency %d: %v", d.ID, err)
	}
	e, err := incident.New(incident.ID(d.ID), st.ID, d.Tick, t, requirement.Severity(d.Severity), d.HandleTime, d.MaxDuration)
	if err != nil {
		return nil, invalid("scenario: emergency %d: %v", d.ID, err)
	}
	return e, nil
}

func event(obj map[string]any, county *network.County, roster *fleet.Roster) (disruption.Event, error) {
	kind := disruption.Kind(stringField(obj, "type"))
	keys, ok := eventKeys[kind]
	if !ok {
		return nil, invalid("scenario: unknown event type %q", kind)
	}
	want := make(map[string]bool, len(optionalEventKeys))
	for _, k := range optionalEventKeys {
		want[k] = contains(keys, k)
	}
	if err := fields(obj, []string{"id", "type", "tick", "duration"}, want); err != nil {
		return nil, err
	}
	var d eventDoc
	if err := decode(obj, &d); err != nil {
		return nil, err
	}
	switch {
	case d.ID < 0 || d.Tick < 0:
		return nil, invalid("scenario: event %d has a negative id or tick", d.ID)
	case d.Duration < 1:
		return nil, invalid("scenario: event %d needs a positive duration", d.ID)
	case want["factor"] && d.Factor < 1:
		return nil, invalid("scenario: event %d needs a positive factor", d.ID)
	}
	id := disruption.ID(d.ID)

	switch kind {
	case disruption.KindRushHour:
		types, err := parseRoadTypes(d.RoadTypes)
		if err != nil {
			return nil, err
		}
		return disruption.NewRushHour(id, d.Tick, d.Duration, county, types, d.Factor), nil
	case disruption.KindVehicleUnavailable:
		v, err := roster.Vehicle(fleet.VehicleID(d.VehicleID))
		if err != nil {
			return nil, invalid("scenario: event %d: %v", d.ID, err)
		}
		return disruption.NewVehicleUnavailable(id, d.Tick, d.Duration, v), nil
	}

	st, err := county.StreetBetween(network.VertexID(d.Source), network.VertexID(d.Target))
	if err != nil {
		return nil, invalid("scenario: event %d: %v", d.ID, err)
	}
	switch kind {
	case disruption.KindTrafficJam:
		return disruption.NewTrafficJam(id, d.Tick, d.Duration, st, d.Factor), nil
	case disruption.KindConstructionSite:
		return disruption.NewConstructionSite(id, d.Tick, d.Duration, st, d.Factor, siteDirection(st, d)), nil
	default:
		return disruption.NewRoadClosure(id, d.Tick, d.Duration, st), nil
	}
}

// siteDirection keeps a one-way construction site open from the event's
// source towards its target.
func siteDirection(st *network.Street, d eventDoc) network.Direction {
	switch {
	case !d.OneWayStreet:
		return network.Bidirectional
	case st.Source() == network.VertexID(d.Source):
		return network.SourceTarget
	default:
		return network.TargetSource
	}
}

func parseRoadTypes(names []string) ([]network.PrimaryType, error) {
	if len(names) == 0 {
		return nil, invalid("scenario: rush hour without road types")
	}
	seen := make(map[network.PrimaryType]bool, len(names))
	out := make([]network.PrimaryType, 0, len(names))
	for _, n := range names {
		t, ok := roadTypes[n]
		if !ok {
			return nil, invalid("scenario: unknown road type %q", n)
		}
		if seen[t] {
			return nil, invalid("scenario: road type %s listed twice", n)
		}
		seen[t] = true
		out = append(out, t)
	}
	return out, nil
}
