package routing

import "github.com/kilianp07/emsim/core/network"

// Step is one street of a route together with its traversal direction.
type Step struct {
	Street *network.Street
	Dir    network.Direction
}

type segment struct {
	street *network.Street
	weight int
	dir    network.Direction
}

// start returns the vertex the segment is entered from.
func (s segment) start() network.VertexID {
	if s.dir == network.SourceTarget {
		return s.street.Source()
	}
	return s.street.Target()
}

func (s segment) end() network.VertexID {
	if s.dir == network.SourceTarget {
		return s.street.Target()
	}
	return s.street.Source()
}

// Position locates a vehicle on a street. Offset is measured from the
// street's source vertex.
type Position struct {
	Offset int
	Street network.StreetID
}

// Path is a route with street weights frozen at creation time and a mutable
// progress offset.
type Path struct {
	segs   []segment
	offset int
	total  int
	source network.VertexID
	target network.VertexID
}

// NewPath freezes the current weights of steps. Endpoints are inferred from
// the first and last step, so steps must not be empty. Bidirectional steps
// are rejected.
func NewPath(steps []Step, offset int) *Path {
	if len(steps) == 0 {
		panic("routing: path without streets needs explicit endpoints")
	}
	p := newPath(steps, offset)
	p.source = p.segs[0].start()
	p.target = p.segs[len(p.segs)-1].end()
	return p
}

func newPath(steps []Step, offset int) *Path {
	p := &Path{offset: offset, segs: make([]segment, 0, len(steps))}
	for _, st := range steps {
		if st.Dir == network.Bidirectional {
			panic("routing: path step without a traversal direction")
		}
		p.segs = append(p.segs, segment{street: st.Street, weight: st.Street.Weight, dir: st.Dir})
		p.total += st.Street.Weight
	}
	return p
}

func emptyPath(at network.VertexID) *Path {
	return &Path{source: at, target: at}
}

func loopPath(step Step, at network.VertexID) *Path {
	p := newPath([]Step{step}, step.Street.Weight)
	p.source, p.target = at, at
	return p
}

// Source is the vertex the route starts from.
func (p *Path) Source() network.VertexID { return p.source }

// Target is the vertex the route ends at.
func (p *Path) Target() network.VertexID { return p.target }

// Offset is the progress made so far.
func (p *Path) Offset() int { return p.offset }

// Remaining is the length still to travel.
func (p *Path) Remaining() int { return p.total - p.offset }

// Len returns the number of streets.
func (p *Path) Len() int { return len(p.segs) }

// Steps returns the route, dropping the frozen weights.
func (p *Path) Steps() []Step {
	out := make([]Step, len(p.segs))
	for i, s := range p.segs {
		out[i] = Step{Street: s.street, Dir: s.dir}
	}
	return out
}

// Advance moves the offset forward by w, capped at the route length.
func (p *Path) Advance(w int) {
	p.offset = min(p.offset+w, p.total)
}

// Arrived reports whether nothing remains to travel.
func (p *Path) Arrived() bool { return p.Remaining() == 0 }

// Position returns where on the route the offset currently points.
func (p *Path) Position() Position {
	if len(p.segs) == 0 {
		panic("routing: position on an empty path")
	}
	cur := 0
	for _, s := range p.segs {
		if cur+s.weight > p.offset {
			if s.dir == network.TargetSource {
				return Position{Offset: s.weight - (p.offset - cur), Street: s.street.ID}
			}
			return Position{Offset: p.offset - cur, Street: s.street.ID}
		}
		cur += s.weight
	}
	last := p.segs[len(p.segs)-1]
	if last.dir == network.TargetSource {
		return Position{Offset: 0, Street: last.street.ID}
	}
	return Position{Offset: last.street.Weight, Street: last.street.ID}
}

// Compare orders routes by remaining length, then by the sequence of entry
// vertices, then by number of streets.
func (p *Path) Compare(o *Path) int {
	switch {
	case p.Remaining() < o.Remaining():
		return -1
	case p.Remaining() > o.Remaining():
		return 1
	}
	for i := 0; i < len(p.segs) && i < len(o.segs); i++ {
		a, b := p.segs[i].start(), o.segs[i].start()
		if a < b {
			return -1
		}
		if a > b {
			return 1
		}
	}
	switch {
	case len(p.segs) < len(o.segs):
		return -1
	case len(p.segs) > len(o.segs):
		return 1
	}
	return 0
}

// SameRoute reports whether o covers the same remaining streets as p with
// the same remaining length.
func (p *Path) SameRoute(o *Path) bool {
	if p.Remaining() != o.Remaining() {
		return false
	}
	a, b := p.ahead(), o.ahead()
	if len(a) != len(b) {
		return false
	}
	for id := range a {
		if _, ok := b[id]; !ok {
			return false
		}
	}
	return true
}

// ahead collects the streets from the current one to the end.
func (p *Path) ahead() map[network.StreetID]struct{} {
	out := make(map[network.StreetID]struct{})
	if len(p.segs) == 0 {
		return out
	}
	cur := p.Position().Street
	idx := 0
	for i, s := range p.segs {
		if s.street.ID == cur {
			idx = i
			break
		}
	}
	for _, s := range p.segs[idx:] {
		out[s.street.ID] = struct{}{}
	}
	return out
}

func minPath(a, b *Path) *Path {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case b.Compare(a) < 0:
		return b
	}
	return a
}

// WeightPerTick is the distance a vehicle covers in one tick.
const WeightPerTick = 10

// Ticks converts a distance into whole ticks of travel.
func Ticks(weight int) int {
	return (weight + WeightPerTick - 1) / WeightPerTick
}
