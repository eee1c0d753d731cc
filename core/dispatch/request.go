package dispatch

import (
	"sort"

	"github.com/kilianp07/emsim/core/events"
	"github.com/kilianp07/emsim/core/fleet"
	"github.com/kilianp07/emsim/core/incident"
)

// Request asks Receiver to help Sender with an incident. Visited lists the
// stations already involved; forwarding never returns to one of them.
type Request struct {
	ID        int
	Sender    fleet.StationID
	Receiver  fleet.StationID
	Emergency incident.ID
	Visited   map[fleet.StationID]struct{}
}

func newRequest(sender, receiver fleet.StationID, e incident.ID, visited map[fleet.StationID]struct{}) *Request {
	seen := make(map[fleet.StationID]struct{}, len(visited)+2)
	for id := range visited {
		seen[id] = struct{}{}
	}
	seen[sender] = struct{}{}
	seen[receiver] = struct{}{}
	return &Request{Sender: sender, Receiver: receiver, Emergency: e, Visited: seen}
}

// send stamps r with a fresh id and announces it.
func (m *Matcher) send(r *Request) {
	r.ID = m.reg.NextRequestID()
	m.sink.Notify(events.RequestSent{Tick: m.tick, Request: r.ID, Station: r.Receiver, Emergency: r.Emergency})
}

// requests asks the nearest station of every service e still needs. The
// home service is only asked when own is set.
func (m *Matcher) requests(s *fleet.Station, e *incident.Emergency, own bool) []*Request {
	var out []*Request
	for _, k := range []fleet.Kind{fleet.Fire, fleet.Police, fleet.Medical} {
		if !e.Requirement.Requires(k) || (s.Kind == k && !own) {
			continue
		}
		to, ok := m.reg.NearestStation(s.ID, k, map[fleet.StationID]struct{}{s.ID: {}})
		if !ok {
			continue
		}
		out = append(out, newRequest(s.ID, to.ID, e.ID, nil))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Receiver < out[j].Receiver })
	for _, r := range out {
		m.send(r)
	}
	return out
}

// handle lets the receiver of r allocate and reallocate for the incident.
// When its service is still short, the request moves on to the next nearest
// station as seen from the original sender.
func (m *Matcher) handle(r *Request) ([]fleet.VehicleID, *Request) {
	s := m.reg.Roster.MustStation(r.Receiver)
	e := m.reg.Emergency(r.Emergency)
	alloc := m.allocate(e, s)
	if len(*e.Requirement.Needs(s.Kind)) > 0 {
		m.reallocate(e, s)
	}
	m.tooFar = false
	if len(*e.Requirement.Needs(s.Kind)) == 0 {
		return alloc, nil
	}
	to, ok := m.reg.NearestStation(r.Sender, s.Kind, r.Visited)
	if !ok {
		m.sink.Notify(events.RequestFailed{Tick: m.tick, Request: r.ID, Emergency: e.ID})
		return alloc, nil
	}
	next := newRequest(r.Sender, to.ID, e.ID, r.Visited)
	m.send(next)
	return alloc, next
}
