// Package disruption implements the scenario events that perturb the road
// network or the fleet for a bounded number of ticks.
//
// Every event follows the same protocol: Apply tries to take effect and
// reports whether it did, Update counts the remaining duration down while
// the event runs and undoes it at zero. Only road closures can be suspended
// and resumed.
//
// Available event types:
//   - RoadClosure: blocks one street
//   - ConstructionSite: slows one street and may force a direction
//   - RushHour: slows every street of some primary types
//   - TrafficJam: slows one street
//   - VehicleUnavailable: takes one vehicle out of service
package disruption
