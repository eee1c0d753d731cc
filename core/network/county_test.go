package network

import (
	"errors"
	"testing"
)

func line(t *testing.T) *County {
	t.Helper()
	c := NewCounty()
	for _, v := range []VertexID{0, 1, 2} {
		if err := c.AddVertex(v); err != nil {
			t.Fatalf("add vertex: %v", err)
		}
	}
	if err := c.AddStreet(NewStreet(0, 1, "Town", "Main", 5, 10, MainStreet, NoSecondary)); err != nil {
		t.Fatalf("add street: %v", err)
	}
	if err := c.AddStreet(NewStreet(1, 2, "Town", "Side", 2, 20, SideStreet, OneWayStreet)); err != nil {
		t.Fatalf("add street: %v", err)
	}
	return c
}

func TestCountyLookups(t *testing.T) {
	c := line(t)
	s, err := c.StreetBetween(2, 1)
	if err != nil {
		t.Fatalf("street between: %v", err)
	}
	if s.ID.String() != "1 -> 2" {
		t.Fatalf("unexpected street %s", s.ID)
	}
	if s.Direction != SourceTarget || s.OriginalDirection != SourceTarget {
		t.Fatalf("one way street should start source to target, got %s", s.Direction)
	}
	if _, err := c.StreetByName("Town", "Main"); err != nil {
		t.Fatalf("by name: %v", err)
	}
	if got := len(c.StreetsByType(SideStreet)); got != 1 {
		t.Fatalf("expected one side street, got %d", got)
	}
	v := c.MustVertex(1)
	if len(v.Connections) != 2 || v.Connections[0] != (StreetID{0, 1}) {
		t.Fatalf("unexpected connections %v", v.Connections)
	}
}

func TestCountyNotFound(t *testing.T) {
	c := line(t)
	if _, err := c.Vertex(9); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := c.Street(StreetID{0, 2}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := c.StreetByName("Town", "Nowhere"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	defer func() {
		if recover() == nil {
			t.Fatalf("MustStreet should panic on a missing id")
		}
	}()
	c.MustStreet(StreetID{2, 0})
}

func TestAddStreetRejectsUnknownVertex(t *testing.T) {
	c := NewCounty()
	_ = c.AddVertex(0)
	if err := c.AddStreet(NewStreet(0, 4, "V", "R", 1, 1, MainStreet, NoSecondary)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := c.AddVertex(0); err == nil {
		t.Fatalf("expected duplicate vertex error")
	}
}

func TestStreetAttachment(t *testing.T) {
	s := NewStreet(0, 1, "V", "R", 1, 1, MainStreet, NoSecondary)
	if s.Affected() {
		t.Fatalf("fresh street should be free")
	}
	s.Attach(0)
	if !s.HeldBy(0) || s.HeldBy(1) {
		t.Fatalf("event zero should hold the street")
	}
	s.Detach()
	if _, ok := s.AffectedBy(); ok {
		t.Fatalf("street should be free after detach")
	}
}
