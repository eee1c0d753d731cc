package routing

import (
	"errors"
	"testing"

	"github.com/kilianp07/emsim/core/network"
)

// square builds
//
//	0 --10-- 1 --10-- 2
//	 \               /
//	  5 -- 3 --30---
func square(t *testing.T) *network.County {
	t.Helper()
	c := network.NewCounty()
	for v := network.VertexID(0); v < 4; v++ {
		if err := c.AddVertex(v); err != nil {
			t.Fatalf("vertex: %v", err)
		}
	}
	add := func(a, b network.VertexID, w, h int) {
		if err := c.AddStreet(network.NewStreet(a, b, "V", "s", h, w, network.MainStreet, network.NoSecondary)); err != nil {
			t.Fatalf("street: %v", err)
		}
	}
	add(0, 1, 10, 2)
	add(1, 2, 10, 5)
	add(0, 3, 5, 5)
	add(3, 2, 30, 5)
	return c
}

func TestVertexToVertexShortest(t *testing.T) {
	f := NewFinder(square(t))
	p, err := f.VertexToVertex(0, 2, 0)
	if err != nil {
		t.Fatalf("route: %v", err)
	}
	if p.Remaining() != 20 || p.Source() != 0 || p.Target() != 2 || p.Len() != 2 {
		t.Fatalf("unexpected route remaining=%d %d->%d len=%d", p.Remaining(), p.Source(), p.Target(), p.Len())
	}
}

func TestVertexToVertexRespectsHeightAndBlockage(t *testing.T) {
	c := square(t)
	f := NewFinder(c)
	p, err := f.VertexToVertex(0, 2, 3)
	if err != nil {
		t.Fatalf("route: %v", err)
	}
	if p.Remaining() != 35 {
		t.Fatalf("tall vehicle should avoid the low street, got %d", p.Remaining())
	}
	c.MustStreet(network.StreetID{Source: 3, Target: 2}).Blocked = true
	if _, err := f.VertexToVertex(0, 2, 3); !errors.Is(err, ErrNoRoute) {
		t.Fatalf("expected ErrNoRoute, got %v", err)
	}
	p, err = f.VertexToVertex(0, 2, 0)
	if err != nil || p.Remaining() != 20 {
		t.Fatalf("height agnostic search should still pass: %v", err)
	}
}

func TestVertexToVertexHonoursDirection(t *testing.T) {
	c := square(t)
	c.MustStreet(network.StreetID{Source: 1, Target: 2}).Direction = network.TargetSource
	f := NewFinder(c)
	p, err := f.VertexToVertex(0, 2, 0)
	if err != nil {
		t.Fatalf("route: %v", err)
	}
	if p.Remaining() != 35 {
		t.Fatalf("expected detour via 3, got %d", p.Remaining())
	}
	back, err := f.VertexToVertex(2, 0, 0)
	if err != nil || back.Remaining() != 20 {
		t.Fatalf("reverse direction should be allowed: %v %d", err, back.Remaining())
	}
}

func TestVertexToSelfIsLoop(t *testing.T) {
	f := NewFinder(square(t))
	p, err := f.VertexToVertex(1, 1, 0)
	if err != nil {
		t.Fatalf("route: %v", err)
	}
	if !p.Arrived() || p.Len() != 1 || p.Source() != 1 || p.Target() != 1 {
		t.Fatalf("unexpected loop path %+v", p)
	}
	pos := p.Position()
	if pos.Street != (network.StreetID{Source: 0, Target: 1}) || pos.Offset != 10 {
		t.Fatalf("loop should end at vertex 1, got %+v", pos)
	}
}

func TestVertexToStreet(t *testing.T) {
	f := NewFinder(square(t))
	id := network.StreetID{Source: 1, Target: 2}
	p, err := f.VertexToStreet(2, id, 0)
	if err != nil || !p.Arrived() {
		t.Fatalf("standing on the target end should be arrived: %v", err)
	}
	p, err = f.VertexToStreet(1, id, 0)
	if err != nil || p.Remaining() != 10 {
		t.Fatalf("standing on the source end should cover the street: %v", err)
	}
	p, err = f.VertexToStreet(3, id, 0)
	if err != nil {
		t.Fatalf("route: %v", err)
	}
	if p.Remaining() != 15 || p.Target() != 1 {
		t.Fatalf("expected route to vertex 1 of length 15, got %d to %d", p.Remaining(), p.Target())
	}
}

func TestPositionToVertexMidStreet(t *testing.T) {
	f := NewFinder(square(t))
	pos := Position{Offset: 4, Street: network.StreetID{Source: 0, Target: 1}}
	p, err := f.PositionToVertex(pos, 2, 0, false)
	if err != nil {
		t.Fatalf("route: %v", err)
	}
	if p.Remaining() != 16 {
		t.Fatalf("expected 16, got %d", p.Remaining())
	}
	if got := p.Position(); got != pos {
		t.Fatalf("new route should start where the vehicle stands, got %+v", got)
	}

	p, err = f.PositionToVertex(pos, 3, 0, false)
	if err != nil {
		t.Fatalf("route: %v", err)
	}
	if p.Remaining() != 9 || p.Steps()[0].Dir != network.TargetSource {
		t.Fatalf("expected to turn back towards 0, got %d", p.Remaining())
	}
}

func TestPositionToVertexIgnoreFirst(t *testing.T) {
	c := square(t)
	st := c.MustStreet(network.StreetID{Source: 0, Target: 1})
	st.Blocked = true
	st.Weight = 100
	f := NewFinder(c)
	pos := Position{Offset: 4, Street: st.ID}
	p, err := f.PositionToVertex(pos, 2, 0, true)
	if err != nil {
		t.Fatalf("route: %v", err)
	}
	if p.Remaining() != 16 {
		t.Fatalf("expected undisturbed street to be used, got %d", p.Remaining())
	}
	if !st.Blocked || st.Weight != 100 {
		t.Fatalf("street state must be restored")
	}
}

func TestPositionToStreet(t *testing.T) {
	f := NewFinder(square(t))
	pos := Position{Offset: 5, Street: network.StreetID{Source: 3, Target: 2}}
	p, err := f.PositionToStreet(pos, network.StreetID{Source: 0, Target: 1}, 0, false)
	if err != nil {
		t.Fatalf("route: %v", err)
	}
	if p.Remaining() != 10 || p.Target() != 0 {
		t.Fatalf("expected to head back to 0, got %d to %d", p.Remaining(), p.Target())
	}
}

func TestNearest(t *testing.T) {
	c := square(t)
	f := NewFinder(c)
	got := f.Nearest(0, func(v network.VertexID) bool { return v == 2 || v == 3 })
	if len(got) != 1 || got[0] != 3 {
		t.Fatalf("expected [3], got %v", got)
	}
	c.MustStreet(network.StreetID{Source: 0, Target: 3}).Weight = 10
	got = f.Nearest(0, func(v network.VertexID) bool { return v == 1 || v == 3 })
	if len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Fatalf("expected both equidistant vertices, got %v", got)
	}
	if got := f.Nearest(0, func(network.VertexID) bool { return false }); len(got) != 0 {
		t.Fatalf("expected no match, got %v", got)
	}
}
