package registry

import (
	"fmt"

	"github.com/kilianp07/emsim/core/fleet"
	"github.com/kilianp07/emsim/core/incident"
	"github.com/kilianp07/emsim/core/network"
)

// ClosestStation returns the station of the incident's service with the
// shortest route to the incident street. Ties go to the lowest station id.
func (r *Registry) ClosestStation(e *incident.Emergency) *fleet.Station {
	var best *fleet.Station
	bestDist := 0
	for _, s := range r.Roster.StationsOfKind(e.Type.Service()) {
		p, err := r.Finder.VertexToStreet(s.Vertex, e.Street, 0)
		if err != nil {
			continue
		}
		if best == nil || p.Remaining() < bestDist {
			best, bestDist = s, p.Remaining()
		}
	}
	if best == nil {
		panic(fmt.Sprintf("registry: no %s reaches emergency %d", e.Type.Service(), e.ID))
	}
	return best
}

// NearestStation finds the closest station of kind k as seen from the
// station from, skipping from itself and every station in visited. Among
// equally distant stations the lowest id wins.
func (r *Registry) NearestStation(from fleet.StationID, k fleet.Kind, visited map[fleet.StationID]struct{}) (*fleet.Station, bool) {
	origin := r.Roster.MustStation(from)
	accept := func(v network.VertexID) bool {
		s, ok := r.Roster.StationAt(v)
		if !ok || s.Kind != k || s.ID == from {
			return false
		}
		_, seen := visited[s.ID]
		return !seen
	}
	var best *fleet.Station
	for _, v := range r.Finder.Nearest(origin.Vertex, accept) {
		s, _ := r.Roster.StationAt(v)
		if best == nil || s.ID < best.ID {
			best = s
		}
	}
	return best, best != nil
}
