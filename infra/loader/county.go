package loader

import (
	"regexp"
	"strconv"

	"gonum.org/v1/gonum/graph/formats/dot"
	"gonum.org/v1/gonum/graph/formats/dot/ast"

	"github.com/kilianp07/emsim/core/network"
)

var (
	numberID = regexp.MustCompile(`^(?:0|[1-9][0-9]*)$`)
	stringID = regexp.MustCompile(`^[a-zA-Z][a-zA-Z_]*$`)
)

var edgeAttrs = []string{"village", "name", "heightLimit", "weight", "primaryType", "secondaryType"}

var primaryTypes = map[string]network.PrimaryType{
	"mainStreet": network.MainStreet,
	"sideStreet": network.SideStreet,
	"countyRoad": network.CountyRoad,
}

var secondaryTypes = map[string]network.SecondaryType{
	"none":         network.NoSecondary,
	"oneWayStreet": network.OneWayStreet,
	"tunnel":       network.Tunnel,
}

type rawStreet struct {
	source, target network.VertexID
	village, name  string
	height, weight int
	primary        network.PrimaryType
	secondary      network.SecondaryType
}

// ParseCounty reads a county map in DOT format: one digraph whose vertex
// statements come first, followed by one attributed edge per street.
func ParseCounty(data []byte) (*network.County, error) {
	f, err := dot.ParseBytes(data)
	if err != nil {
		return nil, invalid("county: %v", err)
	}
	if len(f.Graphs) != 1 {
		return nil, invalid("county: expected one graph, got %d", len(f.Graphs))
	}
	g := f.Graphs[0]
	if !g.Directed || g.Strict {
		return nil, invalid("county: graph must be a plain digraph")
	}
	if !numberID.MatchString(g.ID) && !stringID.MatchString(g.ID) {
		return nil, invalid("county: malformed graph id %q", g.ID)
	}
	vertices, streets, err := statements(g.Stmts)
	if err != nil {
		return nil, err
	}
	if len(vertices) == 0 || len(streets) == 0 {
		return nil, invalid("county: needs vertices and streets")
	}
	checks := []func([]network.VertexID, []rawStreet) error{
		checkUniqueVertices,
		checkStreets,
		checkSideStreetPresent,
		checkConnections,
		checkVillageMainRoad,
		checkVertexVillage,
		checkVillageNotCounty,
	}
	for _, check := range checks {
		if err := check(vertices, streets); err != nil {
			return nil, err
		}
	}
	return buildCounty(vertices, streets)
}

func statements(stmts []ast.Stmt) ([]network.VertexID, []rawStreet, error) {
	var (
		vertices []network.VertexID
		streets  []rawStreet
	)
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.NodeStmt:
			if len(streets) > 0 {
				return nil, nil, invalid("county: vertex %s declared after the streets", s.Node.ID)
			}
			if len(s.Attrs) > 0 || s.Node.Port != nil {
				return nil, nil, invalid("county: vertex %s carries attributes", s.Node.ID)
			}
			id, err := vertexID(s.Node)
			if err != nil {
				return nil, nil, err
			}
			vertices = append(vertices, id)
		case *ast.EdgeStmt:
			st, err := edge(s)
			if err != nil {
				return nil, nil, err
			}
			streets = append(streets, st)
		default:
			return nil, nil, invalid("county: unexpected statement %s", stmt)
		}
	}
	return vertices, streets, nil
}

func vertexID(v ast.Vertex) (network.VertexID, error) {
	n, ok := v.(*ast.Node)
	if !ok || n.Port != nil || !numberID.MatchString(n.ID) {
		return 0, invalid("county: malformed vertex %s", v)
	}
	id, err := strconv.Atoi(n.ID)
	if err != nil {
		return 0, invalid("county: vertex %s: %v", n.ID, err)
	}
	return network.VertexID(id), nil
}

func edge(s *ast.EdgeStmt) (rawStreet, error) {
	var st rawStreet
	if s.To == nil || !s.To.Directed || s.To.To != nil {
		return st, invalid("county: street %s must join exactly two vertices", s)
	}
	src, err := vertexID(s.From)
	if err != nil {
		return st, err
	}
	dst, err := vertexID(s.To.Vertex)
	if err != nil {
		return st, err
	}
	st.source, st.target = src, dst
	if len(s.Attrs) != len(edgeAttrs) {
		return st, invalid("county: street %d -> %d needs %d attributes", src, dst, len(edgeAttrs))
	}
	vals := make(map[string]string, len(edgeAttrs))
	for i, a := range s.Attrs {
		if a.Key != edgeAttrs[i] {
			return st, invalid("county: street %d -> %d: attribute %q out of place", src, dst, a.Key)
		}
		vals[a.Key] = a.Val
	}
	if !stringID.MatchString(vals["village"]) || !stringID.MatchString(vals["name"]) {
		return st, invalid("county: street %d -> %d: malformed village or name", src, dst)
	}
	st.village, st.name = vals["village"], vals["name"]
	if st.height, err = number(vals["heightLimit"]); err != nil {
		return st, err
	}
	if st.weight, err = number(vals["weight"]); err != nil {
		return st, err
	}
	var ok bool
	if st.primary, ok = primaryTypes[vals["primaryType"]]; !ok {
		return st, invalid("county: unknown primary type %q", vals["primaryType"])
	}
	if st.secondary, ok = secondaryTypes[vals["secondaryType"]]; !ok {
		return st, invalid("county: unknown secondary type %q", vals["secondaryType"])
	}
	return st, nil
}

func number(s string) (int, error) {
	if !numberID.MatchString(s) {
		return 0, invalid("county: malformed number %q", s)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, invalid("county: number %q: %v", s, err)
	}
	return n, nil
}

func buildCounty(vertices []network.VertexID, streets []rawStreet) (*network.County, error) {
	c := network.NewCounty()
	for _, v := range vertices {
		if err := c.AddVertex(v); err != nil {
			return nil, invalid("county: %v", err)
		}
	}
	for _, s := range streets {
		st := network.NewStreet(s.source, s.target, s.village, s.name, s.height, s.weight, s.primary, s.secondary)
		if err := c.AddStreet(st); err != nil {
			return nil, invalid("county: %v", err)
		}
	}
	return c, nil
}

func checkUniqueVertices(vertices []network.VertexID, _ []rawStreet) error {
	seen := make(map[network.VertexID]bool, len(vertices))
	for _, v := range vertices {
		if seen[v] {
			return invalid("county: duplicate vertex %d", v)
		}
		seen[v] = true
	}
	return nil
}

// checkStreets validates each street on its own and the uniqueness of road
// names within a village.
func checkStreets(vertices []network.VertexID, streets []rawStreet) error {
	known := make(map[network.VertexID]bool, len(vertices))
	for _, v := range vertices {
		known[v] = true
	}
	names := make(map[[2]string]bool)
	for _, s := range streets {
		switch {
		case s.source == s.target:
			return invalid("county: street %s loops on vertex %d", s.name, s.source)
		case !known[s.source] || !known[s.target]:
			return invalid("county: street %s joins undeclared vertices", s.name)
		case s.height < 1:
			return invalid("county: street %s has height limit %d", s.name, s.height)
		case s.secondary == network.Tunnel && s.height > 3:
			return invalid("county: tunnel %s is higher than 3", s.name)
		case s.weight < 1:
			return invalid("county: street %s has weight %d", s.name, s.weight)
		}
		key := [2]string{s.village, s.name}
		if names[key] {
			return invalid("county: road %s exists twice in %s", s.name, s.village)
		}
		names[key] = true
	}
	return nil
}

func checkSideStreetPresent(_ []network.VertexID, streets []rawStreet) error {
	for _, s := range streets {
		if s.primary == network.SideStreet {
			return nil
		}
	}
	return invalid("county: no side street")
}

// checkConnections requires every vertex to be connected and forbids two
// streets between the same pair of vertices.
func checkConnections(vertices []network.VertexID, streets []rawStreet) error {
	neighbours := make(map[network.VertexID]map[network.VertexID]bool, len(vertices))
	for _, v := range vertices {
		neighbours[v] = make(map[network.VertexID]bool)
	}
	for _, s := range streets {
		if neighbours[s.source][s.target] {
			return invalid("county: duplicate street between %d and %d", s.source, s.target)
		}
		neighbours[s.source][s.target] = true
		neighbours[s.target][s.source] = true
	}
	for _, v := range vertices {
		if len(neighbours[v]) == 0 {
			return invalid("county: vertex %d has no street", v)
		}
	}
	return nil
}

func checkVillageMainRoad(_ []network.VertexID, streets []rawStreet) error {
	has := make(map[string]bool)
	for _, s := range streets {
		has[s.village] = has[s.village] || s.primary != network.SideStreet
	}
	for village, ok := range has {
		if !ok {
			return invalid("county: village %s has no main street", village)
		}
	}
	return nil
}

// checkVertexVillage forbids a vertex from belonging to two villages.
// County roads do not tie their vertices to a village.
func checkVertexVillage(_ []network.VertexID, streets []rawStreet) error {
	owner := make(map[network.VertexID]string)
	for _, s := range streets {
		if s.primary == network.CountyRoad {
			continue
		}
		for _, v := range []network.VertexID{s.source, s.target} {
			if cur, ok := owner[v]; ok && cur != s.village {
				return invalid("county: vertex %d belongs to %s and %s", v, cur, s.village)
			}
			owner[v] = s.village
		}
	}
	return nil
}

func checkVillageNotCounty(_ []network.VertexID, streets []rawStreet) error {
	county := make(map[string]bool)
	village := make(map[string]bool)
	for _, s := range streets {
		if s.primary == network.CountyRoad {
			county[s.village] = true
		} else {
			village[s.village] = true
		}
		if county[s.village] && village[s.village] {
			return invalid("county: %s mixes county roads and village streets", s.village)
		}
	}
	return nil
}
