package network

import (
	"errors"
	"fmt"
	"sort"
)

// ErrNotFound is returned when a lookup misses.
var ErrNotFound = errors.New("network: not found")

// Vertex is a junction with its incident streets in declaration order.
type Vertex struct {
	ID          VertexID
	Connections []StreetID
}

// County is the road graph of one simulation run.
type County struct {
	vertices map[VertexID]*Vertex
	streets  map[StreetID]*Street
	byType   map[PrimaryType][]*Street
	order    []StreetID
}

// NewCounty returns an empty county.
func NewCounty() *County {
	return &County{
		vertices: make(map[VertexID]*Vertex),
		streets:  make(map[StreetID]*Street),
		byType:   make(map[PrimaryType][]*Street),
	}
}

// AddVertex declares a junction. Declaring the same id twice is an error.
func (c *County) AddVertex(id VertexID) error {
	if _, ok := c.vertices[id]; ok {
		return fmt.Errorf("network: vertex %d declared twice", id)
	}
	c.vertices[id] = &Vertex{ID: id}
	return nil
}

// AddStreet attaches s to both of its endpoints.
func (c *County) AddStreet(s *Street) error {
	if s == nil {
		return errors.New("network: nil street")
	}
	src, ok := c.vertices[s.Source()]
	if !ok {
		return fmt.Errorf("network: street %s: source: %w", s.ID, ErrNotFound)
	}
	tgt, ok := c.vertices[s.Target()]
	if !ok {
		return fmt.Errorf("network: street %s: target: %w", s.ID, ErrNotFound)
	}
	if _, dup := c.streets[s.ID]; dup {
		return fmt.Errorf("network: street %s declared twice", s.ID)
	}
	c.streets[s.ID] = s
	c.order = append(c.order, s.ID)
	c.byType[s.Primary] = append(c.byType[s.Primary], s)
	src.Connections = append(src.Connections, s.ID)
	tgt.Connections = append(tgt.Connections, s.ID)
	return nil
}

// Vertex returns the vertex with the given id.
func (c *County) Vertex(id VertexID) (*Vertex, error) {
	v, ok := c.vertices[id]
	if !ok {
		return nil, fmt.Errorf("network: vertex %d: %w", id, ErrNotFound)
	}
	return v, nil
}

// Street returns the street with the given id.
func (c *County) Street(id StreetID) (*Street, error) {
	s, ok := c.streets[id]
	if !ok {
		return nil, fmt.Errorf("network: street %s: %w", id, ErrNotFound)
	}
	return s, nil
}

// MustVertex is Vertex for ids that are known to exist.
func (c *County) MustVertex(id VertexID) *Vertex {
	v, err := c.Vertex(id)
	if err != nil {
		panic(err)
	}
	return v
}

// MustStreet is Street for ids that are known to exist.
func (c *County) MustStreet(id StreetID) *Street {
	s, err := c.Street(id)
	if err != nil {
		panic(err)
	}
	return s
}

// StreetBetween finds the street joining a and b in either orientation.
func (c *County) StreetBetween(a, b VertexID) (*Street, error) {
	if s, ok := c.streets[StreetID{Source: a, Target: b}]; ok {
		return s, nil
	}
	if s, ok := c.streets[StreetID{Source: b, Target: a}]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("network: street between %d and %d: %w", a, b, ErrNotFound)
}

// StreetByName finds a street by village and road name.
func (c *County) StreetByName(village, name string) (*Street, error) {
	for _, id := range c.order {
		s := c.streets[id]
		if s.Village == village && s.Name == name {
			return s, nil
		}
	}
	return nil, fmt.Errorf("network: road %q in %q: %w", name, village, ErrNotFound)
}

// StreetsByType returns the streets of the given primary type in declaration order.
func (c *County) StreetsByType(t PrimaryType) []*Street {
	return c.byType[t]
}

// Streets returns every street in declaration order.
func (c *County) Streets() []*Street {
	out := make([]*Street, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.streets[id])
	}
	return out
}

// VertexIDs returns all vertex ids in ascending order.
func (c *County) VertexIDs() []VertexID {
	ids := make([]VertexID, 0, len(c.vertices))
	for id := range c.vertices {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
