package events

import (
	"github.com/kilianp07/emsim/core/fleet"
	"github.com/kilianp07/emsim/core/incident"
	"github.com/kilianp07/emsim/core/network"
)

// Notification is implemented by every kernel notification.
type Notification interface {
	Kind() string
}

type InitInfo struct {
	File  string
	Valid bool
}

type SimulationStarted struct{}

type TickStarted struct {
	Tick int
}

type EmergencyAssigned struct {
	Tick      int
	Emergency incident.ID
	Station   fleet.StationID
}

// AssetAllocated reports a vehicle leaving its base. ETA is in ticks.
type AssetAllocated struct {
	Tick      int
	Vehicle   fleet.VehicleID
	Emergency incident.ID
	ETA       int
}

type AssetReallocated struct {
	Tick      int
	Vehicle   fleet.VehicleID
	Emergency incident.ID
}

// RequestSent reports a mutual aid request addressed to Station.
type RequestSent struct {
	Tick      int
	Request   int
	Station   fleet.StationID
	Emergency incident.ID
}

type RequestFailed struct {
	Tick      int
	Request   int
	Emergency incident.ID
}

type AssetArrived struct {
	Tick    int
	Vehicle fleet.VehicleID
	Vertex  network.VertexID
}

// EmergencyStatus reports a transition to BeingResolved, Success or Failed.
type EmergencyStatus struct {
	Tick      int
	Emergency incident.ID
	State     incident.State
}

type EventTriggered struct {
	Tick  int
	Event network.EventID
}

type EventEnded struct {
	Tick  int
	Event network.EventID
}

type AssetsRerouted struct {
	Tick  int
	Count int
}

type SimulationEnded struct {
	Tick int
}

// Statistics are the aggregate counts of a finished run.
type Statistics struct {
	Rerouted int
	Received int
	Ongoing  int
	Failed   int
	Resolved int
}

func (InitInfo) Kind() string          { return "init_info" }
func (SimulationStarted) Kind() string { return "simulation_started" }
func (TickStarted) Kind() string       { return "tick_started" }
func (EmergencyAssigned) Kind() string { return "emergency_assigned" }
func (AssetAllocated) Kind() string    { return "asset_allocated" }
func (AssetReallocated) Kind() string  { return "asset_reallocated" }
func (RequestSent) Kind() string       { return "request_sent" }
func (RequestFailed) Kind() string     { return "request_failed" }
func (AssetArrived) Kind() string      { return "asset_arrived" }
func (EmergencyStatus) Kind() string   { return "emergency_status" }
func (EventTriggered) Kind() string    { return "event_triggered" }
func (EventEnded) Kind() string        { return "event_ended" }
func (AssetsRerouted) Kind() string    { return "assets_rerouted" }
func (SimulationEnded) Kind() string   { return "simulation_ended" }
func (Statistics) Kind() string        { return "statistics" }
