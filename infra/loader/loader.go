package loader

import (
	"os"

	"github.com/kilianp07/emsim/core/disruption"
	"github.com/kilianp07/emsim/core/events"
	"github.com/kilianp07/emsim/core/fleet"
	"github.com/kilianp07/emsim/core/incident"
	"github.com/kilianp07/emsim/core/network"
	"github.com/kilianp07/emsim/core/registry"
)

// Paths locates the three input files of a run.
type Paths struct {
	Map      string
	Assets   string
	Scenario string
}

// World is a validated set of inputs ready to be simulated.
type World struct {
	County      *network.County
	Roster      *fleet.Roster
	Emergencies []*incident.Emergency
	Events      *disruption.Schedule
}

// Registry builds the run state of w. Regenerate the World before calling
// it again since a run mutates the county and the roster.
func (w *World) Registry() (*registry.Registry, error) {
	return registry.New(w.County, w.Roster, w.Emergencies, w.Events)
}

// Load parses map, assets and scenario in that order and reports each file
// on sink. Loading stops at the first invalid file.
func Load(p Paths, sink events.Sink) (*World, error) {
	if sink == nil {
		sink = events.Nop{}
	}
	w := &World{}

	county, err := step(p.Map, sink, func(data []byte) (*network.County, error) {
		return ParseCounty(data)
	})
	if err != nil {
		return nil, err
	}
	w.County = county

	roster, err := step(p.Assets, sink, func(data []byte) (*fleet.Roster, error) {
		return ParseAssets(data, county)
	})
	if err != nil {
		return nil, err
	}
	w.Roster = roster

	sc, err := step(p.Scenario, sink, func(data []byte) (*Scenario, error) {
		return ParseScenario(data, county, roster)
	})
	if err != nil {
		return nil, err
	}
	w.Emergencies, w.Events = sc.Emergencies, sc.Events
	return w, nil
}

func step[T any](path string, sink events.Sink, parse func([]byte) (T, error)) (T, error) {
	var zero T
	data, err := os.ReadFile(path)
	if err != nil {
		sink.Notify(events.InitInfo{File: path, Valid: false})
		return zero, invalid("read %s: %v", path, err)
	}
	out, err := parse(data)
	if err != nil {
		sink.Notify(events.InitInfo{File: path, Valid: false})
		return zero, err
	}
	sink.Notify(events.InitInfo{File: path, Valid: true})
	return out, nil
}
