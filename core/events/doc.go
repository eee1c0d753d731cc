// Package events defines the notifications emitted by the simulation kernel.
// Each notification carries identifiers and counts only.
//
// Available notification types:
//   - InitInfo: result of loading one input file
//   - SimulationStarted, SimulationEnded: run boundaries
//   - TickStarted: a new tick begins
//   - EmergencyAssigned: intake picked a home station
//   - AssetAllocated, AssetReallocated: the matcher committed a vehicle
//   - RequestSent, RequestFailed: mutual aid chain progress
//   - AssetArrived: a vehicle reached the end of its route
//   - EmergencyStatus: handling started, resolved or failed
//   - EventTriggered, EventEnded: disruption lifecycle
//   - AssetsRerouted: number of route changes in a tick
//   - Statistics: aggregate counts at the end of the run
package events
