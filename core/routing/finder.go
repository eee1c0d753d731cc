package routing

import (
	"errors"
	"fmt"
	"sort"

	"github.com/kilianp07/emsim/core/network"
)

// ErrNoRoute is returned when the target cannot be reached.
var ErrNoRoute = errors.New("routing: no route")

// Finder computes shortest routes over a county under direction, height and
// blockage constraints. A height of zero ignores height limits.
type Finder struct {
	county *network.County
}

// NewFinder returns a Finder over c.
func NewFinder(c *network.County) *Finder {
	return &Finder{county: c}
}

// County returns the underlying graph.
func (f *Finder) County() *network.County { return f.county }

type search struct {
	dist  map[network.VertexID]int
	pred  map[network.VertexID]network.StreetID
	seen  map[network.VertexID]bool
	queue []network.VertexID
	inQ   map[network.VertexID]bool
}

func newSearch(start network.VertexID) *search {
	return &search{
		dist:  map[network.VertexID]int{start: 0},
		pred:  map[network.VertexID]network.StreetID{},
		seen:  map[network.VertexID]bool{},
		queue: []network.VertexID{start},
		inQ:   map[network.VertexID]bool{start: true},
	}
}

func (s *search) pop() network.VertexID {
	v := s.queue[0]
	s.queue = s.queue[1:]
	delete(s.inQ, v)
	s.seen[v] = true
	return v
}

type hop struct {
	to     network.VertexID
	street *network.Street
}

func (f *Finder) neighbours(v network.VertexID, height int) []hop {
	vertex := f.county.MustVertex(v)
	out := make([]hop, 0, len(vertex.Connections))
	for _, id := range vertex.Connections {
		st := f.county.MustStreet(id)
		if st.Blocked || (height > 0 && st.HeightLimit < height) {
			continue
		}
		switch {
		case st.Source() == v && st.Direction != network.TargetSource:
			out = append(out, hop{to: st.Target(), street: st})
		case st.Target() == v && st.Direction != network.SourceTarget:
			out = append(out, hop{to: st.Source(), street: st})
		}
	}
	return out
}

func (f *Finder) expand(s *search, v network.VertexID, height int) {
	d := s.dist[v]
	for _, h := range f.neighbours(v, height) {
		if s.seen[h.to] {
			continue
		}
		if !s.inQ[h.to] {
			s.queue = append(s.queue, h.to)
			s.inQ[h.to] = true
		}
		nd := d + h.street.Weight
		if old, ok := s.dist[h.to]; !ok || nd < old {
			s.dist[h.to] = nd
			s.pred[h.to] = h.street.ID
		}
	}
	sort.SliceStable(s.queue, func(i, j int) bool { return s.dist[s.queue[i]] < s.dist[s.queue[j]] })
}

// dijkstra searches from start until accept holds for a settled vertex.
// When start itself is accepted the result is either an empty path
// (allowEmpty) or a zero-remaining loop over the first incident street.
func (f *Finder) dijkstra(start network.VertexID, accept func(network.VertexID) bool, height int, allowEmpty bool) (*Path, bool) {
	s := newSearch(start)
	for len(s.queue) > 0 {
		v := s.pop()
		if accept(v) {
			return f.build(start, v, s.pred, allowEmpty), true
		}
		f.expand(s, v, height)
	}
	return nil, false
}

func (f *Finder) build(start, target network.VertexID, pred map[network.VertexID]network.StreetID, allowEmpty bool) *Path {
	if start == target {
		if allowEmpty {
			return emptyPath(start)
		}
		st := f.county.MustStreet(f.county.MustVertex(start).Connections[0])
		dir := network.SourceTarget
		if st.Source() == start {
			dir = network.TargetSource
		}
		return loopPath(Step{Street: st, Dir: dir}, start)
	}
	var rev []Step
	for cur := target; cur != start; {
		id, ok := pred[cur]
		if !ok {
			panic(fmt.Sprintf("routing: vertex %d has no predecessor", cur))
		}
		st := f.county.MustStreet(id)
		if st.Source() == cur {
			rev = append(rev, Step{Street: st, Dir: network.TargetSource})
			cur = st.Target()
		} else {
			rev = append(rev, Step{Street: st, Dir: network.SourceTarget})
			cur = st.Source()
		}
	}
	steps := make([]Step, len(rev))
	for i := range rev {
		steps[i] = rev[len(rev)-1-i]
	}
	return NewPath(steps, 0)
}

// VertexToVertex returns the shortest route between two junctions.
func (f *Finder) VertexToVertex(from, to network.VertexID, height int) (*Path, error) {
	p, ok := f.dijkstra(from, func(v network.VertexID) bool { return v == to }, height, false)
	if !ok {
		return nil, fmt.Errorf("%w from %d to %d", ErrNoRoute, from, to)
	}
	return p, nil
}

// VertexToStreet returns the best route from a junction to either end of a
// street. Starting on the street yields a single-street path.
func (f *Finder) VertexToStreet(from network.VertexID, to network.StreetID, height int) (*Path, error) {
	st, err := f.county.Street(to)
	if err != nil {
		return nil, err
	}
	switch from {
	case st.Source():
		return NewPath([]Step{{Street: st, Dir: network.SourceTarget}}, 0), nil
	case st.Target():
		return NewPath([]Step{{Street: st, Dir: network.SourceTarget}}, st.Weight), nil
	}
	viaSource, _ := f.dijkstra(from, func(v network.VertexID) bool { return v == st.Source() }, height, false)
	viaTarget, _ := f.dijkstra(from, func(v network.VertexID) bool { return v == st.Target() }, height, false)
	best := minPath(viaSource, viaTarget)
	if best == nil {
		return nil, fmt.Errorf("%w from %d to street %s", ErrNoRoute, from, to)
	}
	return best, nil
}

// PositionToVertex routes a vehicle standing mid-street to a junction. With
// ignoreFirst the starting street is treated as undisturbed for the search.
func (f *Finder) PositionToVertex(pos Position, to network.VertexID, height int, ignoreFirst bool) (*Path, error) {
	st, err := f.county.Street(pos.Street)
	if err != nil {
		return nil, err
	}
	if ignoreFirst {
		dir, w, blocked := st.Direction, st.Weight, st.Blocked
		st.Direction, st.Weight, st.Blocked = st.OriginalDirection, st.OriginalWeight, false
		defer func() { st.Direction, st.Weight, st.Blocked = dir, w, blocked }()
	}
	offset := max(0, min(pos.Offset, st.Weight))
	accept := func(v network.VertexID) bool { return v == to }

	var best *Path
	if offset == 0 || st.Direction != network.SourceTarget {
		if p, ok := f.dijkstra(st.Source(), accept, height, offset != 0); ok {
			switch {
			case offset != 0 && p.Len() > 0 && p.segs[0].street == st:
				best = minPath(best, newFrozen(p, offset))
			case offset != 0:
				steps := append([]Step{{Street: st, Dir: network.TargetSource}}, p.Steps()...)
				best = minPath(best, NewPath(steps, p.offset+st.Weight-offset))
			default:
				best = minPath(best, p)
			}
		}
	}
	if offset > 0 && st.Direction != network.TargetSource {
		if p, ok := f.dijkstra(st.Target(), accept, height, true); ok {
			if p.Len() > 0 && p.segs[0].street == st {
				best = minPath(best, newFrozen(p, st.Weight-offset))
			} else {
				steps := append([]Step{{Street: st, Dir: network.SourceTarget}}, p.Steps()...)
				best = minPath(best, NewPath(steps, offset))
			}
		}
	}
	if best == nil {
		return nil, fmt.Errorf("%w from %d on %s to %d", ErrNoRoute, pos.Offset, pos.Street, to)
	}
	return best, nil
}

// newFrozen rebuilds p with the given offset.
func newFrozen(p *Path, offset int) *Path {
	return NewPath(p.Steps(), offset)
}

// PositionToStreet routes a vehicle standing mid-street to either end of a
// street.
func (f *Finder) PositionToStreet(pos Position, to network.StreetID, height int, ignoreFirst bool) (*Path, error) {
	st, err := f.county.Street(to)
	if err != nil {
		return nil, err
	}
	viaSource, errS := f.PositionToVertex(pos, st.Source(), height, ignoreFirst)
	viaTarget, errT := f.PositionToVertex(pos, st.Target(), height, ignoreFirst)
	if errS != nil && errT != nil {
		return nil, errS
	}
	return minPath(viaSource, viaTarget), nil
}

// Nearest runs a blockage-aware, height-agnostic search from start and
// returns every accepted vertex settled at the smallest distance, in settle
// order. The start vertex is never accepted.
func (f *Finder) Nearest(start network.VertexID, accept func(network.VertexID) bool) []network.VertexID {
	s := newSearch(start)
	var (
		found []network.VertexID
		best  int
	)
	for len(s.queue) > 0 {
		if len(found) > 0 && s.dist[s.queue[0]] > best {
			break
		}
		v := s.pop()
		if v != start && accept(v) {
			if len(found) == 0 {
				best = s.dist[v]
			}
			found = append(found, v)
			continue
		}
		if len(found) == 0 {
			f.expand(s, v, 0)
		}
	}
	return found
}
