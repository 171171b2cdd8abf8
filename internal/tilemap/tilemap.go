// Package tilemap is the client's view of the game map: terrain, fog,
// units, cities and diplomacy. It implements pathing.Grid.
package tilemap

import (
	"fmt"

	"github.com/Garsondee/Route-Sense/internal/pathing"
)

// Tile is one map square.
type Tile struct {
	Terrain Terrain
	Road    bool
	Known   bool
}

// Unit is a unit standing on the map.
type Unit struct {
	ID       int
	Owner    int
	Name     string
	Pos      pathing.Tile
	Domain   pathing.Domain
	MoveRate int // move fragments per turn
	Flags    pathing.UnitFlags
	Capacity int // cargo slots, boats only
	Cargo    int // cargo slots in use
}

// Mover returns the planner's view of u.
func (u *Unit) Mover() pathing.Unit {
	return pathing.Unit{
		ID:       u.ID,
		Owner:    u.Owner,
		Pos:      u.Pos,
		Domain:   u.Domain,
		MoveRate: u.MoveRate,
		Flags:    u.Flags,
	}
}

// City is a city on the map.
type City struct {
	ID    int
	Owner int
	Name  string
	Pos   pathing.Tile
}

// Map is a rectangular grid that may wrap in x and/or y.
type Map struct {
	Cols  int
	Rows  int
	WrapX bool
	WrapY bool

	tiles     []Tile
	units     []*Unit
	cities    []*City
	unitsAt   map[int][]*Unit
	cityAt    map[int]*City
	alliances map[[2]int]bool
}

// NewMap creates a fully known grassland map.
func NewMap(cols, rows int) *Map {
	if cols <= 0 || rows <= 0 {
		panic(fmt.Sprintf("tilemap: bad size %dx%d", cols, rows))
	}
	m := &Map{
		Cols:      cols,
		Rows:      rows,
		tiles:     make([]Tile, cols*rows),
		unitsAt:   make(map[int][]*Unit),
		cityAt:    make(map[int]*City),
		alliances: make(map[[2]int]bool),
	}
	for i := range m.tiles {
		m.tiles[i] = Tile{Terrain: TerrainGrassland, Known: true}
	}
	return m
}

// Normalize wraps t onto the map, or returns false if it lies off a
// non-wrapping edge.
func (m *Map) Normalize(t pathing.Tile) (pathing.Tile, bool) {
	if m.WrapX {
		t.X = ((t.X % m.Cols) + m.Cols) % m.Cols
	}
	if m.WrapY {
		t.Y = ((t.Y % m.Rows) + m.Rows) % m.Rows
	}
	if t.X < 0 || t.Y < 0 || t.X >= m.Cols || t.Y >= m.Rows {
		return t, false
	}
	return t, true
}

// HasRoad reports whether t carries a road.
func (m *Map) HasRoad(t pathing.Tile) bool { return m.At(t).Road }

// RoadTime returns the worker turns a road on t takes, 0 if none can be
// built there.
func (m *Map) RoadTime(t pathing.Tile) int { return roadTime(m.At(t).Terrain) }

// Contains reports whether t is a normalized tile on the map.
func (m *Map) Contains(t pathing.Tile) bool {
	n, ok := m.Normalize(t)
	return ok && n == t
}

// At returns the tile at t. Off-map positions return an unknown ocean tile.
func (m *Map) At(t pathing.Tile) Tile {
	n, ok := m.Normalize(t)
	if !ok {
		return Tile{Terrain: TerrainDeep}
	}
	return m.tiles[m.Index(n)]
}

// Set writes a tile. Off-map writes are ignored.
func (m *Map) Set(t pathing.Tile, tile Tile) {
	if n, ok := m.Normalize(t); ok {
		m.tiles[m.Index(n)] = tile
	}
}

// SetTerrain changes only the terrain of t.
func (m *Map) SetTerrain(t pathing.Tile, terrain Terrain) {
	tile := m.At(t)
	tile.Terrain = terrain
	m.Set(t, tile)
}

// SetRoad adds or removes a road on t.
func (m *Map) SetRoad(t pathing.Tile, road bool) {
	tile := m.At(t)
	tile.Road = road
	m.Set(t, tile)
}

// SetKnown reveals or fogs t.
func (m *Map) SetKnown(t pathing.Tile, known bool) {
	tile := m.At(t)
	tile.Known = known
	m.Set(t, tile)
}

// FillTerrain sets every tile in the inclusive rectangle to terrain.
func (m *Map) FillTerrain(x0, y0, x1, y1 int, terrain Terrain) {
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			m.SetTerrain(pathing.Tile{X: x, Y: y}, terrain)
		}
	}
}

// AddUnit places u on the map.
func (m *Map) AddUnit(u *Unit) {
	m.units = append(m.units, u)
	i := m.Index(u.Pos)
	m.unitsAt[i] = append(m.unitsAt[i], u)
}

// MoveUnit relocates u and keeps the position index current.
func (m *Map) MoveUnit(u *Unit, to pathing.Tile) {
	from := m.Index(u.Pos)
	list := m.unitsAt[from]
	for i, other := range list {
		if other == u {
			m.unitsAt[from] = append(list[:i], list[i+1:]...)
			break
		}
	}
	u.Pos = to
	m.unitsAt[m.Index(to)] = append(m.unitsAt[m.Index(to)], u)
}

// Unit returns the unit with the given id.
func (m *Map) Unit(id int) (*Unit, bool) {
	for _, u := range m.units {
		if u.ID == id {
			return u, true
		}
	}
	return nil, false
}

// Units returns every unit in insertion order.
func (m *Map) Units() []*Unit { return m.units }

// UnitsAt returns the units standing on t.
func (m *Map) UnitsAt(t pathing.Tile) []*Unit {
	return m.unitsAt[m.Index(t)]
}

// AddCity places c on the map.
func (m *Map) AddCity(c *City) {
	m.cities = append(m.cities, c)
	m.cityAt[m.Index(c.Pos)] = c
}

// Cities returns every city in insertion order.
func (m *Map) Cities() []*City { return m.cities }

// CityAt returns the city on t, if any.
func (m *Map) CityAt(t pathing.Tile) (*City, bool) {
	c, ok := m.cityAt[m.Index(t)]
	return c, ok
}

// SetAlliance makes players a and b allies (or breaks the alliance).
func (m *Map) SetAlliance(a, b int, allied bool) {
	m.alliances[allianceKey(a, b)] = allied
}

// Allied reports whether two players never block each other.
func (m *Map) Allied(a, b int) bool {
	return a == b || m.alliances[allianceKey(a, b)]
}

func allianceKey(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}

// IsAlliedCity reports whether t holds a city friendly to owner.
func (m *Map) IsAlliedCity(t pathing.Tile, owner int) bool {
	c, ok := m.CityAt(t)
	return ok && m.Allied(c.Owner, owner)
}
