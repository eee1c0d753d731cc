package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/emsim/core/disruption"
	"github.com/kilianp07/emsim/core/events"
	"github.com/kilianp07/emsim/core/fleet"
	"github.com/kilianp07/emsim/core/incident"
	"github.com/kilianp07/emsim/core/network"
	"github.com/kilianp07/emsim/core/registry"
	"github.com/kilianp07/emsim/core/requirement"
	"github.com/kilianp07/emsim/infra/logger"
)

type edge struct {
	a, b network.VertexID
	w    int
}

type scenario struct {
	t        *testing.T
	county   *network.County
	roster   *fleet.Roster
	es       []*incident.Emergency
	schedule *disruption.Schedule
}

func newScenario(t *testing.T, vertices int, edges ...edge) *scenario {
	t.Helper()
	c := network.NewCounty()
	for v := 0; v < vertices; v++ {
		require.NoError(t, c.AddVertex(network.VertexID(v)))
	}
	for _, e := range edges {
		require.NoError(t, c.AddStreet(network.NewStreet(e.a, e.b, "V", "s", 5, e.w, network.MainStreet, network.NoSecondary)))
	}
	return &scenario{t: t, county: c, roster: fleet.NewRoster(), schedule: disruption.NewSchedule()}
}

func (s *scenario) station(id fleet.StationID, k fleet.Kind, at network.VertexID) {
	require.NoError(s.t, s.roster.AddStation(&fleet.Station{ID: id, Kind: k, Vertex: at, Staff: 10}))
}

func (s *scenario) vehicle(v *fleet.Vehicle) *fleet.Vehicle {
	require.NoError(s.t, s.roster.AddVehicle(v))
	return v
}

func (s *scenario) emergency(id incident.ID, tick int, a, b network.VertexID, typ requirement.Type, sev requirement.Severity, handle, maxDuration int) *incident.Emergency {
	e, err := incident.New(id, network.StreetID{Source: a, Target: b}, tick, typ, sev, handle, maxDuration)
	require.NoError(s.t, err)
	s.es = append(s.es, e)
	return e
}

func (s *scenario) street(a, b network.VertexID) *network.Street {
	return s.county.MustStreet(network.StreetID{Source: a, Target: b})
}

func (s *scenario) build() (*Simulation, *events.Recorder) {
	reg, err := registry.New(s.county, s.roster, s.es, s.schedule)
	require.NoError(s.t, err)
	rec := &events.Recorder{}
	sim, err := New(reg, rec, logger.NopLogger{})
	require.NoError(s.t, err)
	return sim, rec
}

func TestNewRejectsNil(t *testing.T) {
	_, err := New(nil, events.Nop{}, logger.NopLogger{})
	assert.Error(t, err)
}

func TestLowMedicalIncidentResolves(t *testing.T) {
	sc := newScenario(t, 3, edge{0, 1, 10}, edge{1, 2, 10})
	sc.station(1, fleet.Medical, 0)
	amb := sc.vehicle(fleet.NewVehicle(1, fleet.Ambulance, 1, 2, 1))
	e := sc.emergency(1, 0, 0, 1, requirement.Medical, requirement.Low, 2, 10)
	sim, rec := sc.build()

	stats, err := sim.Run(context.Background(), 20)
	require.NoError(t, err)
	assert.Equal(t, registry.Statistics{Received: 1, Resolved: 1}, stats)
	assert.Equal(t, 3, sim.Tick(), "the run stops once nothing is left to serve")
	assert.Equal(t, incident.Success, e.State)
	assert.Equal(t, fleet.Returning, amb.State)
	assert.Equal(t, 0, sc.street(0, 1).EmergencyCounter)

	assert.Equal(t, []events.EmergencyAssigned{{Tick: 0, Emergency: 1, Station: 1}}, events.Of[events.EmergencyAssigned](rec))
	assert.Equal(t, []events.AssetAllocated{{Tick: 0, Vehicle: 1, Emergency: 1, ETA: 1}}, events.Of[events.AssetAllocated](rec))
	assert.Equal(t, []events.EmergencyStatus{
		{Tick: 1, Emergency: 1, State: incident.BeingResolved},
		{Tick: 3, Emergency: 1, State: incident.Success},
	}, events.Of[events.EmergencyStatus](rec))

	all := rec.All()
	assert.Equal(t, events.SimulationStarted{}, all[0])
	assert.Equal(t, events.Statistics{Received: 1, Resolved: 1}, all[len(all)-1])
	assert.Equal(t, events.SimulationEnded{Tick: 3}, all[len(all)-2])

	sim.Step()
	assert.Equal(t, fleet.Available, amb.State)
	assert.Equal(t, 10, sim.Registry().Roster.MustStation(1).Staff)
	assert.Equal(t, []events.AssetArrived{
		{Tick: 1, Vehicle: 1, Vertex: 1},
		{Tick: 4, Vehicle: 1, Vertex: 0},
	}, events.Of[events.AssetArrived](rec))
}

func TestZeroMaxTicksRunsOneTick(t *testing.T) {
	sc := newScenario(t, 2, edge{0, 1, 10})
	sc.station(1, fleet.Medical, 0)
	sc.vehicle(fleet.NewVehicle(1, fleet.Ambulance, 1, 2, 1))
	sc.emergency(1, 0, 0, 1, requirement.Medical, requirement.Low, 1, 10)
	sim, rec := sc.build()

	stats, err := sim.Run(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 0, sim.Tick())
	assert.Equal(t, 1, stats.Ongoing)
	assert.Len(t, events.Of[events.TickStarted](rec), 1)
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	sc := newScenario(t, 2, edge{0, 1, 10})
	sim, _ := sc.build()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := sim.Run(ctx, 10)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRoadClosureWaitsForIncident(t *testing.T) {
	sc := newScenario(t, 3, edge{0, 1, 10}, edge{1, 2, 10})
	sc.station(1, fleet.Fire, 0)
	closure := disruption.NewRoadClosure(5, 0, 2, sc.street(1, 2))
	sc.schedule.Add(closure)
	e := sc.emergency(1, 0, 1, 2, requirement.Fire, requirement.Low, 1, 3)
	sim, rec := sc.build()

	stats, err := sim.Run(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, incident.Failed, e.State)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 2, closure.Start())
	assert.Equal(t, disruption.Running, closure.State())
	assert.True(t, sc.street(1, 2).Blocked)
	assert.Equal(t, []events.EventTriggered{{Tick: 2, Event: 5}}, events.Of[events.EventTriggered](rec))
}

func TestClosureSuspendedByNewIncident(t *testing.T) {
	sc := newScenario(t, 3, edge{0, 1, 10}, edge{1, 2, 10})
	sc.station(1, fleet.Fire, 0)
	closure := disruption.NewRoadClosure(5, 0, 4, sc.street(1, 2))
	sc.schedule.Add(closure)
	sc.emergency(1, 1, 1, 2, requirement.Fire, requirement.Low, 1, 3)
	sim, _ := sc.build()

	sim.Step()
	require.True(t, sc.street(1, 2).Blocked)
	sim.Step()
	assert.Equal(t, disruption.Suspended, closure.State())
	assert.False(t, sc.street(1, 2).Blocked)
	assert.Equal(t, 1, sc.street(1, 2).EmergencyCounter)
}

func TestVehicleUnavailableWaitsForReturn(t *testing.T) {
	sc := newScenario(t, 3, edge{0, 1, 10}, edge{1, 2, 10})
	sc.station(1, fleet.Medical, 0)
	amb := sc.vehicle(fleet.NewVehicle(1, fleet.Ambulance, 1, 2, 1))
	vu := disruption.NewVehicleUnavailable(9, 0, 2, amb)
	sc.schedule.Add(vu)
	sc.emergency(1, 0, 0, 1, requirement.Medical, requirement.Low, 1, 10)
	sim, rec := sc.build()

	_, err := sim.Run(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 2, sim.Tick())
	assert.Equal(t, 3, vu.Start())
	assert.Equal(t, fleet.Returning, amb.State)
	assert.True(t, amb.PendingUnavailable)
	assert.False(t, amb.Reallocatable())
	assert.Empty(t, events.Of[events.EventTriggered](rec))

	sim.Step()
	assert.Equal(t, fleet.Unavailable, amb.State)
	assert.False(t, amb.PendingUnavailable)
	assert.Equal(t, []events.EventTriggered{{Tick: 3, Event: 9}}, events.Of[events.EventTriggered](rec))

	sim.Step()
	sim.Step()
	assert.Equal(t, fleet.Available, amb.State)
	assert.Equal(t, []events.EventEnded{{Tick: 5, Event: 9}}, events.Of[events.EventEnded](rec))
}

func TestHigherSeverityTakesTheTruck(t *testing.T) {
	sc := newScenario(t, 4, edge{0, 1, 10}, edge{1, 2, 10}, edge{2, 3, 10})
	sc.station(1, fleet.Fire, 0)
	truck := sc.vehicle(fleet.NewVehicle(1, fleet.FireTruckTechnical, 1, 2, 1))
	low := sc.emergency(1, 0, 2, 3, requirement.Accident, requirement.Low, 1, 10)
	high := sc.emergency(2, 1, 1, 2, requirement.Accident, requirement.Medium, 1, 10)
	sim, rec := sc.build()

	_, err := sim.Run(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, []events.AssetReallocated{{Tick: 1, Vehicle: 1, Emergency: 2}}, events.Of[events.AssetReallocated](rec))
	assert.Equal(t, high.ID, sim.Registry().Serving(truck.ID).ID)
	assert.Equal(t, 1, low.Requirement.Count(fleet.FireTruckTechnical))
	assert.Equal(t, 1, high.Requirement.Count(fleet.FireTruckTechnical))
}

func TestClosureAheadReroutesVehicle(t *testing.T) {
	sc := newScenario(t, 5, edge{0, 1, 10}, edge{1, 2, 10}, edge{0, 3, 10}, edge{3, 2, 20}, edge{2, 4, 10})
	sc.station(1, fleet.Fire, 0)
	truck := sc.vehicle(fleet.NewVehicle(1, fleet.FireTruckTechnical, 1, 2, 1))
	sc.schedule.Add(disruption.NewRoadClosure(3, 0, 5, sc.street(1, 2)))
	sc.emergency(1, 0, 2, 4, requirement.Accident, requirement.Low, 1, 20)
	sim, rec := sc.build()

	sim.Step()
	assert.Equal(t, []events.AssetsRerouted{{Tick: 0, Count: 1}}, events.Of[events.AssetsRerouted](rec))
	assert.Equal(t, 1, sim.Registry().Stats.Rerouted)
	steps := truck.Path().Steps()
	require.NotEmpty(t, steps)
	assert.Equal(t, network.StreetID{Source: 0, Target: 3}, steps[0].Street.ID)
	assert.Equal(t, 30, truck.Path().Remaining())
}

func TestArrivalWithoutTimeLeftFails(t *testing.T) {
	sc := newScenario(t, 2, edge{0, 1, 10})
	sc.station(1, fleet.Medical, 0)
	amb := sc.vehicle(fleet.NewVehicle(1, fleet.Ambulance, 1, 2, 1))
	e := sc.emergency(1, 0, 0, 1, requirement.Medical, requirement.Low, 2, 10)
	sim, rec := sc.build()

	sim.Step()
	require.Equal(t, fleet.Dispatched, amb.State)
	e.MaxDuration = 1

	sim.Step()
	assert.Equal(t, incident.Failed, e.State)
	assert.Equal(t, 1, sim.Registry().Stats.Failed)
	assert.Equal(t, fleet.Returning, amb.State)
	assert.Equal(t, []events.EmergencyStatus{{Tick: 1, Emergency: 1, State: incident.Failed}}, events.Of[events.EmergencyStatus](rec))
}
