package disruption

import (
	"testing"

	"github.com/kilianp07/emsim/core/fleet"
	"github.com/kilianp07/emsim/core/network"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func county(t *testing.T) *network.County {
	t.Helper()
	c := network.NewCounty()
	for v := network.VertexID(0); v < 4; v++ {
		require.NoError(t, c.AddVertex(v))
	}
	require.NoError(t, c.AddStreet(network.NewStreet(0, 1, "V", "a", 3, 10, network.MainStreet, network.NoSecondary)))
	require.NoError(t, c.AddStreet(network.NewStreet(1, 2, "V", "b", 3, 4, network.SideStreet, network.NoSecondary)))
	require.NoError(t, c.AddStreet(network.NewStreet(2, 3, "V", "c", 3, 6, network.SideStreet, network.OneWayStreet)))
	return c
}

func street(c *network.County, a, b network.VertexID) *network.Street {
	return c.MustStreet(network.StreetID{Source: a, Target: b})
}

func TestRoadClosureLifecycle(t *testing.T) {
	c := county(t)
	s := street(c, 0, 1)
	rc := NewRoadClosure(1, 0, 2, s)

	s.EmergencyCounter = 1
	assert.False(t, rc.Apply(), "closure must not start on a street with an incident")
	s.EmergencyCounter = 0
	require.True(t, rc.Apply())
	assert.True(t, s.Blocked)

	s.EmergencyCounter = 1
	rc.Suspend()
	assert.Equal(t, Suspended, rc.State())
	assert.False(t, s.Blocked)
	assert.True(t, s.HeldBy(1), "suspended closure keeps the street")
	rc.Update()
	assert.Equal(t, 2, rc.Duration(), "suspended closures do not count down")
	rc.Resume()
	assert.Equal(t, Suspended, rc.State())

	s.EmergencyCounter = 0
	rc.Resume()
	assert.Equal(t, Running, rc.State())
	rc.Update()
	rc.Update()
	assert.Equal(t, Ended, rc.State())
	assert.False(t, s.Blocked)
	assert.False(t, s.Affected())
}

func TestWeightEventsRoundTrip(t *testing.T) {
	c := county(t)
	s := street(c, 1, 2)
	events := []Event{
		NewTrafficJam(1, 0, 1, s, 3),
		NewConstructionSite(2, 0, 1, s, 2, network.TargetSource),
	}
	for _, e := range events {
		require.True(t, e.Apply(), "%s", e.Kind())
		assert.NotEqual(t, s.OriginalWeight, s.Weight)
		e.Update()
		assert.Equal(t, Ended, e.State())
		assert.Equal(t, s.OriginalWeight, s.Weight)
		assert.Equal(t, s.OriginalDirection, s.Direction)
		assert.False(t, s.Affected())
	}
}

func TestConstructionSiteDirection(t *testing.T) {
	c := county(t)
	bi := street(c, 1, 2)
	cs := NewConstructionSite(1, 0, 3, bi, 2, network.TargetSource)
	require.True(t, cs.Apply())
	assert.Equal(t, network.TargetSource, bi.Direction)
	assert.Equal(t, 8, bi.Weight)

	oneWay := street(c, 2, 3)
	cs2 := NewConstructionSite(2, 0, 3, oneWay, 2, network.TargetSource)
	require.True(t, cs2.Apply())
	assert.Equal(t, network.SourceTarget, oneWay.Direction, "one way streets keep their direction")

	other := NewTrafficJam(3, 0, 1, bi, 2)
	assert.False(t, other.Apply(), "a street holds one event at a time")
}

func TestRushHourUndoesOnlyTouchedStreets(t *testing.T) {
	c := county(t)
	jam := NewTrafficJam(1, 0, 5, street(c, 2, 3), 5)
	require.True(t, jam.Apply())

	rh := NewRushHour(2, 0, 1, c, []network.PrimaryType{network.SideStreet}, 2)
	require.True(t, rh.Apply())
	assert.Equal(t, []network.StreetID{{Source: 1, Target: 2}}, rh.Applied())
	assert.Equal(t, 8, street(c, 1, 2).Weight)

	rh.Update()
	assert.Equal(t, Ended, rh.State())
	assert.Equal(t, 4, street(c, 1, 2).Weight)
	assert.Equal(t, 30, street(c, 2, 3).Weight, "jammed street must keep its factor")
	assert.True(t, street(c, 2, 3).HeldBy(1))
}

func TestRushHourWithoutFreeStreetFails(t *testing.T) {
	c := county(t)
	rh := NewRushHour(1, 0, 1, c, []network.PrimaryType{network.CountyRoad}, 2)
	assert.False(t, rh.Apply())
	assert.Equal(t, Inactive, rh.State())
}

func TestVehicleUnavailable(t *testing.T) {
	v := fleet.NewVehicle(7, fleet.Ambulance, 1, 1, 1)
	v.State = fleet.Dispatched
	e := NewVehicleUnavailable(1, 0, 2, v)

	assert.False(t, e.Apply())
	assert.True(t, v.PendingUnavailable)
	assert.False(t, v.Reallocatable())

	v.State = fleet.Available
	require.True(t, e.Apply())
	assert.Equal(t, fleet.Unavailable, v.State)
	assert.False(t, v.PendingUnavailable)

	twin := NewVehicleUnavailable(2, 0, 2, v)
	assert.False(t, twin.Apply())
	assert.False(t, v.PendingUnavailable, "double coverage does not flag the vehicle")

	e.Update()
	assert.Equal(t, fleet.Unavailable, v.State)
	e.Update()
	assert.Equal(t, fleet.Available, v.State)
	assert.Equal(t, Ended, e.State())
}

func TestSuspendIsFatalOutsideClosures(t *testing.T) {
	c := county(t)
	assert.Panics(t, func() { NewTrafficJam(1, 0, 1, street(c, 0, 1), 2).Suspend() })
	assert.Panics(t, func() { NewRushHour(1, 0, 1, c, nil, 2).Suspend() })
}

func TestUpdateRequiresDuration(t *testing.T) {
	c := county(t)
	e := NewTrafficJam(1, 0, 0, street(c, 0, 1), 2)
	require.True(t, e.Apply())
	assert.Panics(t, e.Update)
}

func TestScheduleReschedule(t *testing.T) {
	c := county(t)
	s := NewSchedule()
	a := NewRoadClosure(5, 2, 1, street(c, 0, 1))
	b := NewTrafficJam(3, 2, 1, street(c, 1, 2), 2)
	s.Add(a)
	s.Add(b)
	got := s.At(2)
	require.Len(t, got, 2)
	assert.Equal(t, ID(3), got[0].ID())

	s.Reschedule(a)
	assert.Equal(t, 3, a.Start())
	assert.Len(t, s.At(2), 1)
	assert.Len(t, s.At(3), 1)
	assert.Equal(t, 2, s.Pending())
	assert.Panics(t, func() { s.Reschedule(NewTrafficJam(9, 0, 1, street(c, 0, 1), 2)) })
}
