package tilemap

import "github.com/Garsondee/Route-Sense/internal/pathing"

// optionKind controls the pass in which an option is applied.
type optionKind int

const (
	optTerrain   optionKind = iota // applied first
	optFog                         // after terrain
	optPieces                      // units and cities
	optDiplomacy                   // alliances
)

// Option is a builder step applied to a Map during Build.
type Option struct {
	kind optionKind
	fn   func(*Map)
}

// Build creates a cols×rows grassland map and applies opts in pass order.
func Build(cols, rows int, opts ...Option) *Map {
	m := NewMap(cols, rows)
	for _, kind := range []optionKind{optTerrain, optFog, optPieces, optDiplomacy} {
		for _, o := range opts {
			if o.kind == kind {
				o.fn(m)
			}
		}
	}
	return m
}

// WithWrap makes the map wrap in x and/or y.
func WithWrap(x, y bool) Option {
	return Option{optTerrain, func(m *Map) {
		m.WrapX = x
		m.WrapY = y
	}}
}

// WithTerrain fills an inclusive rectangle with terrain.
func WithTerrain(x0, y0, x1, y1 int, t Terrain) Option {
	return Option{optTerrain, func(m *Map) {
		m.FillTerrain(x0, y0, x1, y1, t)
	}}
}

// WithRoad lays road on each listed tile.
func WithRoad(tiles ...pathing.Tile) Option {
	return Option{optTerrain, func(m *Map) {
		for _, t := range tiles {
			m.SetRoad(t, true)
		}
	}}
}

// WithUnknown fogs an inclusive rectangle.
func WithUnknown(x0, y0, x1, y1 int) Option {
	return Option{optFog, func(m *Map) {
		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				m.SetKnown(pathing.Tile{X: x, Y: y}, false)
			}
		}
	}}
}

// WithUnit places a unit.
func WithUnit(u *Unit) Option {
	return Option{optPieces, func(m *Map) {
		m.AddUnit(u)
	}}
}

// WithCity places a city.
func WithCity(c *City) Option {
	return Option{optPieces, func(m *Map) {
		m.AddCity(c)
	}}
}

// WithAlliance allies two players.
func WithAlliance(a, b int) Option {
	return Option{optDiplomacy, func(m *Map) {
		m.SetAlliance(a, b, true)
	}}
}

// Warrior returns a basic one-move land unit.
func Warrior(id, owner int, x, y int) *Unit {
	return &Unit{
		ID: id, Owner: owner, Name: "Warriors",
		Pos:      pathing.Tile{X: x, Y: y},
		Domain:   pathing.DomainLand,
		MoveRate: pathing.SingleMove,
	}
}

// Transport returns a boat with the given cargo capacity.
func Transport(id, owner int, x, y, capacity int) *Unit {
	return &Unit{
		ID: id, Owner: owner, Name: "Transport",
		Pos:      pathing.Tile{X: x, Y: y},
		Domain:   pathing.DomainSea,
		MoveRate: 5 * pathing.SingleMove,
		Capacity: capacity,
	}
}
