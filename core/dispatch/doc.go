// Package dispatch matches vehicles to incidents once per tick.
//
// Incidents are served in priority order, highest severity first. The home
// station allocates the largest set of idle vehicles that fit the incident,
// then redirects busy vehicles from less severe incidents, and finally asks
// the nearest stations of the missing services for help. Requests that
// cannot be served are forwarded to the next nearest station until none is
// left.
package dispatch
