package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/emsim/core/events"
	"github.com/kilianp07/emsim/core/fleet"
	"github.com/kilianp07/emsim/core/incident"
	"github.com/kilianp07/emsim/core/network"
	"github.com/kilianp07/emsim/core/registry"
	"github.com/kilianp07/emsim/core/requirement"
	"github.com/kilianp07/emsim/infra/logger"
)

type world struct {
	t      *testing.T
	county *network.County
	roster *fleet.Roster
	es     []*incident.Emergency
}

// newWorld builds a line 0 - 1 - ... - n-1 of weight 10 streets.
func newWorld(t *testing.T, n int) *world {
	t.Helper()
	c := network.NewCounty()
	for v := 0; v < n; v++ {
		require.NoError(t, c.AddVertex(network.VertexID(v)))
	}
	for v := 0; v+1 < n; v++ {
		st := network.NewStreet(network.VertexID(v), network.VertexID(v+1), "V", "s", 5, 10, network.MainStreet, network.NoSecondary)
		require.NoError(t, c.AddStreet(st))
	}
	return &world{t: t, county: c, roster: fleet.NewRoster()}
}

func (w *world) station(id fleet.StationID, k fleet.Kind, at network.VertexID, staff int) *fleet.Station {
	s := &fleet.Station{ID: id, Kind: k, Vertex: at, Staff: staff, Dogs: 2, Doctors: 2}
	require.NoError(w.t, w.roster.AddStation(s))
	return s
}

func (w *world) vehicle(v *fleet.Vehicle) *fleet.Vehicle {
	require.NoError(w.t, w.roster.AddVehicle(v))
	return v
}

func (w *world) emergency(id incident.ID, a, b network.VertexID, typ requirement.Type, sev requirement.Severity, maxDuration int) *incident.Emergency {
	e, err := incident.New(id, network.StreetID{Source: a, Target: b}, 0, typ, sev, 1, maxDuration)
	require.NoError(w.t, err)
	w.es = append(w.es, e)
	return e
}

func (w *world) matcher() (*Matcher, *registry.Registry, *events.Recorder) {
	reg, err := registry.New(w.county, w.roster, w.es, nil)
	require.NoError(w.t, err)
	rec := &events.Recorder{}
	m, err := NewMatcher(reg, rec, logger.NopLogger{})
	require.NoError(w.t, err)
	return m, reg, rec
}

func open(reg *registry.Registry, e *incident.Emergency, s fleet.StationID) {
	reg.AssignStation(e.ID, s)
	e.State = incident.Ongoing
	reg.Ongoing = append(reg.Ongoing, e)
}

func water(id fleet.VehicleID, station fleet.StationID, staff int) *fleet.Vehicle {
	return fleet.NewVehicle(id, fleet.FireTruckWater, station, staff, 1).WithWater(600)
}

func TestNewMatcherRejectsNil(t *testing.T) {
	_, err := NewMatcher(nil, events.Nop{}, logger.NopLogger{})
	assert.Error(t, err)
}

func TestAllocateLargestFittingSet(t *testing.T) {
	w := newWorld(t, 3)
	w.station(1, fleet.Fire, 0, 10)
	for id := fleet.VehicleID(1); id <= 3; id++ {
		w.vehicle(water(id, 1, 2))
	}
	e := w.emergency(1, 1, 2, requirement.Fire, requirement.Low, 10)
	m, reg, rec := w.matcher()
	open(reg, e, 1)

	got := m.Allocate(0)
	assert.Equal(t, []fleet.VehicleID{1, 2}, got)
	assert.True(t, e.Requirement.Fulfilled())
	assert.Equal(t, 0, e.Requirement.RemainingWater)
	assert.Equal(t, fleet.Allocated, reg.Roster.MustVehicle(1).State)
	assert.Equal(t, fleet.Available, reg.Roster.MustVehicle(3).State)
	assert.Equal(t, 6, reg.Roster.MustStation(1).Staff)

	allocs := events.Of[events.AssetAllocated](rec)
	require.Len(t, allocs, 2)
	assert.Equal(t, events.AssetAllocated{Tick: 0, Vehicle: 1, Emergency: 1, ETA: 1}, allocs[0])
	assert.Empty(t, events.Of[events.RequestSent](rec))
}

func TestMutualAidCoversShortStaff(t *testing.T) {
	w := newWorld(t, 5)
	w.station(1, fleet.Fire, 0, 3)
	w.station(2, fleet.Fire, 4, 10)
	w.vehicle(water(1, 1, 2))
	w.vehicle(water(2, 1, 2))
	w.vehicle(water(4, 2, 2))
	e := w.emergency(1, 1, 2, requirement.Fire, requirement.Low, 10)
	m, reg, rec := w.matcher()
	open(reg, e, 1)

	got := m.Allocate(0)
	assert.Equal(t, []fleet.VehicleID{1, 4}, got)
	assert.True(t, e.Requirement.Fulfilled())

	reqs := events.Of[events.RequestSent](rec)
	require.Len(t, reqs, 1)
	assert.Equal(t, events.RequestSent{Tick: 0, Request: 1, Station: 2, Emergency: 1}, reqs[0])
	allocs := events.Of[events.AssetAllocated](rec)
	require.Len(t, allocs, 2)
	assert.Equal(t, 2, allocs[1].ETA)
}

func TestReallocationTakesFromLowerSeverity(t *testing.T) {
	w := newWorld(t, 4)
	w.station(1, fleet.Police, 0, 2)
	car := w.vehicle(fleet.NewVehicle(1, fleet.PoliceCar, 1, 2, 1).WithCriminalCapacity(2))
	low := w.emergency(1, 1, 2, requirement.Crime, requirement.Low, 10)
	medium := w.emergency(2, 2, 3, requirement.Crime, requirement.Medium, 10)
	m, reg, rec := w.matcher()
	open(reg, low, 1)

	require.Equal(t, []fleet.VehicleID{1}, m.Allocate(0))
	assert.Equal(t, 0, low.Requirement.RemainingCriminals)
	car.State = fleet.Dispatched

	open(reg, medium, 1)
	assert.Empty(t, m.Allocate(1))

	assert.Equal(t, medium.ID, reg.Serving(car.ID).ID)
	assert.Equal(t, fleet.Dispatched, car.State)
	assert.Equal(t, 3, medium.Requirement.Count(fleet.PoliceCar))
	assert.Equal(t, 2, medium.Requirement.RemainingCriminals)
	assert.Equal(t, []fleet.VehicleType{fleet.PoliceCar}, low.Requirement.Police)
	assert.Equal(t, 1, low.Requirement.RemainingCriminals)

	re := events.Of[events.AssetReallocated](rec)
	require.Len(t, re, 1, "the low incident must not take the car back")
	assert.Equal(t, events.AssetReallocated{Tick: 1, Vehicle: 1, Emergency: 2}, re[0])
}

func TestTooFarSkipsOwnServiceRequest(t *testing.T) {
	w := newWorld(t, 6)
	w.station(1, fleet.Fire, 0, 10)
	w.station(2, fleet.Fire, 5, 10)
	w.vehicle(water(1, 1, 2))
	w.vehicle(water(2, 2, 2))
	w.vehicle(water(3, 2, 2))
	e := w.emergency(1, 3, 4, requirement.Fire, requirement.Low, 2)
	m, reg, rec := w.matcher()
	open(reg, e, 1)

	assert.Empty(t, m.Allocate(0))
	assert.Empty(t, events.Of[events.RequestSent](rec))
}

func TestUnstaffedHomeStillAsksOwnService(t *testing.T) {
	w := newWorld(t, 6)
	w.station(1, fleet.Fire, 0, 0)
	w.station(2, fleet.Fire, 5, 10)
	w.vehicle(water(1, 1, 2))
	w.vehicle(water(2, 2, 2))
	w.vehicle(water(3, 2, 2))
	e := w.emergency(1, 3, 4, requirement.Fire, requirement.Low, 2)
	m, reg, rec := w.matcher()
	open(reg, e, 1)

	assert.Equal(t, []fleet.VehicleID{2, 3}, m.Allocate(0))
	reqs := events.Of[events.RequestSent](rec)
	require.Len(t, reqs, 1)
	assert.Equal(t, fleet.StationID(2), reqs[0].Station)
}

func TestRequestForwardingAndFailure(t *testing.T) {
	build := func(maxDuration int) (*Matcher, *registry.Registry, *events.Recorder) {
		w := newWorld(t, 5)
		w.station(1, fleet.Police, 0, 4)
		w.station(2, fleet.Police, 2, 4)
		w.station(3, fleet.Police, 4, 4)
		w.vehicle(fleet.NewVehicle(7, fleet.PoliceCar, 3, 2, 1).WithCriminalCapacity(1))
		e := w.emergency(1, 0, 1, requirement.Crime, requirement.Low, maxDuration)
		m, reg, rec := w.matcher()
		open(reg, e, 1)
		return m, reg, rec
	}

	m, _, rec := build(10)
	assert.Equal(t, []fleet.VehicleID{7}, m.Allocate(0))
	reqs := events.Of[events.RequestSent](rec)
	require.Len(t, reqs, 2)
	assert.Equal(t, fleet.StationID(2), reqs[0].Station)
	assert.Equal(t, 1, reqs[0].Request)
	assert.Equal(t, fleet.StationID(3), reqs[1].Station)
	assert.Equal(t, 2, reqs[1].Request)
	assert.Empty(t, events.Of[events.RequestFailed](rec))

	m, _, rec = build(3)
	assert.Empty(t, m.Allocate(0))
	failed := events.Of[events.RequestFailed](rec)
	require.Len(t, failed, 1)
	assert.Equal(t, events.RequestFailed{Tick: 0, Request: 2, Emergency: 1}, failed[0])
}

func TestPriorityOrderServesSevereFirst(t *testing.T) {
	w := newWorld(t, 3)
	w.station(1, fleet.Medical, 0, 10)
	w.vehicle(fleet.NewVehicle(1, fleet.Ambulance, 1, 2, 1))
	low := w.emergency(1, 0, 1, requirement.Medical, requirement.Low, 10)
	high := w.emergency(2, 1, 2, requirement.Accident, requirement.Medium, 10)
	m, reg, _ := w.matcher()
	open(reg, low, 1)
	open(reg, high, 1)

	require.Equal(t, []fleet.VehicleID{1}, m.Allocate(0))
	assert.Equal(t, high.ID, reg.Serving(1).ID)
	assert.False(t, low.Requirement.Fulfilled())
}

func TestRecalculateCountsFreeAmbulances(t *testing.T) {
	w := newWorld(t, 2)
	w.station(1, fleet.Medical, 0, 10)
	w.vehicle(fleet.NewVehicle(1, fleet.Ambulance, 1, 1, 1))
	w.vehicle(fleet.NewVehicle(2, fleet.EmergencyDoctorCar, 1, 1, 1))
	e := w.emergency(1, 0, 1, requirement.Medical, requirement.Medium, 10)
	m, reg, _ := w.matcher()
	reg.Assign(1, e.ID)
	reg.Assign(2, e.ID)
	e.Requirement.RemainingPatients = 0

	m.recalculate(e)
	assert.Equal(t, 1, e.Requirement.RemainingPatients)
}

func TestAidReallocationRequeuesRobbedIncident(t *testing.T) {
	w := newWorld(t, 5)
	w.station(1, fleet.Police, 0, 4)
	w.station(2, fleet.Police, 4, 4)
	car := w.vehicle(fleet.NewVehicle(7, fleet.PoliceCar, 2, 2, 1).WithCriminalCapacity(2))
	low := w.emergency(1, 2, 3, requirement.Crime, requirement.Low, 10)
	medium := w.emergency(2, 1, 2, requirement.Crime, requirement.Medium, 10)
	m, reg, rec := w.matcher()
	open(reg, low, 2)

	require.Equal(t, []fleet.VehicleID{7}, m.Allocate(0))
	car.State = fleet.Dispatched

	open(reg, medium, 1)
	assert.Empty(t, m.Allocate(1))

	assert.Equal(t, []events.AssetReallocated{{Tick: 1, Vehicle: 7, Emergency: 2}}, events.Of[events.AssetReallocated](rec))
	assert.Equal(t, medium.ID, reg.Serving(car.ID).ID)
	assert.Equal(t, []fleet.VehicleType{fleet.PoliceCar}, low.Requirement.Police)

	assert.Equal(t, []events.RequestSent{
		{Tick: 1, Request: 1, Station: 2, Emergency: 2},
		{Tick: 1, Request: 2, Station: 1, Emergency: 1},
	}, events.Of[events.RequestSent](rec))
	assert.Equal(t, []events.RequestFailed{
		{Tick: 1, Request: 1, Emergency: 2},
		{Tick: 1, Request: 2, Emergency: 1},
	}, events.Of[events.RequestFailed](rec))
}
