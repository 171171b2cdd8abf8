// Package scenario loads JSON world descriptions into a tilemap.Map.
package scenario

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Garsondee/Route-Sense/internal/pathing"
	"github.com/Garsondee/Route-Sense/internal/tilemap"
)

//go:embed default.json
var defaultScenario []byte

// Scenario is the JSON-serializable definition of a world.
type Scenario struct {
	Name      string    `json:"name"`
	Cols      int       `json:"cols"`
	Rows      int       `json:"rows"`
	WrapX     bool      `json:"wrap_x"`
	WrapY     bool      `json:"wrap_y"`
	Tiles     []string  `json:"tiles"`
	Roads     [][2]int  `json:"roads"`
	Unknown   [][4]int  `json:"unknown"` // inclusive x0,y0,x1,y1 rectangles
	Units     []UnitDef `json:"units"`
	Cities    []CityDef `json:"cities"`
	Alliances [][2]int  `json:"alliances"`
}

// UnitDef places one unit.
type UnitDef struct {
	ID       int      `json:"id"`
	Owner    int      `json:"owner"`
	Name     string   `json:"name"`
	X        int      `json:"x"`
	Y        int      `json:"y"`
	Domain   string   `json:"domain"`
	MoveRate int      `json:"move_rate"` // full moves; defaults to 1
	Capacity int      `json:"capacity"`
	Cargo    int      `json:"cargo"`
	Flags    []string `json:"flags"`
}

// CityDef places one city.
type CityDef struct {
	ID    int    `json:"id"`
	Owner int    `json:"owner"`
	Name  string `json:"name"`
	X     int    `json:"x"`
	Y     int    `json:"y"`
}

// Parse decodes and validates a scenario.
func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := json.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if sc.Cols <= 0 || sc.Rows <= 0 {
		return nil, fmt.Errorf("scenario %q: bad size %dx%d", sc.Name, sc.Cols, sc.Rows)
	}
	if len(sc.Tiles) != sc.Rows {
		return nil, fmt.Errorf("scenario %q: tile rows (%d) != declared rows (%d)", sc.Name, len(sc.Tiles), sc.Rows)
	}
	for y, row := range sc.Tiles {
		if n := len([]rune(row)); n != sc.Cols {
			return nil, fmt.Errorf("scenario %q: row %d has %d tiles, want %d", sc.Name, y, n, sc.Cols)
		}
	}
	return &sc, nil
}

// Load reads a scenario file. An empty path loads the built-in scenario.
func Load(path string) (*Scenario, error) {
	if path == "" {
		return Parse(defaultScenario)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return Parse(data)
}

// Build converts the scenario into a map.
func (sc *Scenario) Build() (*tilemap.Map, error) {
	m := tilemap.NewMap(sc.Cols, sc.Rows)
	m.WrapX, m.WrapY = sc.WrapX, sc.WrapY

	for y, row := range sc.Tiles {
		for x, ch := range []rune(row) {
			t, ok := tilemap.TerrainFromGlyph(ch)
			if !ok {
				return nil, fmt.Errorf("scenario %q: unknown terrain %q at (%d,%d)", sc.Name, ch, x, y)
			}
			m.SetTerrain(pathing.Tile{X: x, Y: y}, t)
		}
	}
	for _, r := range sc.Roads {
		m.SetRoad(pathing.Tile{X: r[0], Y: r[1]}, true)
	}
	for _, r := range sc.Unknown {
		for y := r[1]; y <= r[3]; y++ {
			for x := r[0]; x <= r[2]; x++ {
				m.SetKnown(pathing.Tile{X: x, Y: y}, false)
			}
		}
	}

	for _, def := range sc.Units {
		u, err := def.unit()
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %w", sc.Name, err)
		}
		if !m.Contains(u.Pos) {
			return nil, fmt.Errorf("scenario %q: unit %d off the map at (%d,%d)", sc.Name, u.ID, u.Pos.X, u.Pos.Y)
		}
		if _, dup := m.Unit(u.ID); dup {
			return nil, fmt.Errorf("scenario %q: duplicate unit id %d", sc.Name, u.ID)
		}
		m.AddUnit(u)
	}
	for _, def := range sc.Cities {
		pos := pathing.Tile{X: def.X, Y: def.Y}
		if !m.Contains(pos) {
			return nil, fmt.Errorf("scenario %q: city %d off the map at (%d,%d)", sc.Name, def.ID, def.X, def.Y)
		}
		m.AddCity(&tilemap.City{ID: def.ID, Owner: def.Owner, Name: def.Name, Pos: pos})
	}
	for _, a := range sc.Alliances {
		m.SetAlliance(a[0], a[1], true)
	}
	return m, nil
}

func (def UnitDef) unit() (*tilemap.Unit, error) {
	domain, err := ParseDomain(def.Domain)
	if err != nil {
		return nil, fmt.Errorf("unit %d: %w", def.ID, err)
	}
	moves := def.MoveRate
	if moves <= 0 {
		moves = 1
	}
	u := &tilemap.Unit{
		ID:       def.ID,
		Owner:    def.Owner,
		Name:     def.Name,
		Pos:      pathing.Tile{X: def.X, Y: def.Y},
		Domain:   domain,
		MoveRate: moves * pathing.SingleMove,
		Capacity: def.Capacity,
		Cargo:    def.Cargo,
	}
	for _, f := range def.Flags {
		switch strings.ToLower(f) {
		case "ignores_terrain", "igter":
			u.Flags.IgnoresTerrain = true
		case "ignores_zoc", "igzoc":
			u.Flags.IgnoresZOC = true
		case "marines":
			u.Flags.Marines = true
		case "trireme":
			u.Flags.Trireme = true
		case "settlers", "workers":
			u.Flags.Settlers = true
		default:
			return nil, fmt.Errorf("unit %d: unknown flag %q", def.ID, f)
		}
	}
	return u, nil
}

// ParseDomain maps a domain name to its value.
func ParseDomain(s string) (pathing.Domain, error) {
	switch strings.ToLower(s) {
	case "", "land":
		return pathing.DomainLand, nil
	case "sea":
		return pathing.DomainSea, nil
	case "air":
		return pathing.DomainAir, nil
	case "heli":
		return pathing.DomainHeli, nil
	default:
		return 0, fmt.Errorf("unknown domain %q", s)
	}
}

// ParseRestriction maps a restriction name to its value.
func ParseRestriction(s string) (pathing.Restriction, error) {
	switch strings.ToLower(s) {
	case "", "any":
		return pathing.MoveAny, nil
	case "cardinal":
		return pathing.MoveCardinalOnly, nil
	case "straight", "straightest":
		return pathing.MoveStraightest, nil
	default:
		return 0, fmt.Errorf("unknown restriction %q", s)
	}
}

// ParseTile reads a tile written as "x,y".
func ParseTile(s string) (pathing.Tile, error) {
	xs, ys, ok := strings.Cut(strings.TrimSpace(s), ",")
	if !ok {
		return pathing.Tile{}, fmt.Errorf("tile %q: want x,y", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return pathing.Tile{}, fmt.Errorf("tile %q: %w", s, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return pathing.Tile{}, fmt.Errorf("tile %q: %w", s, err)
	}
	return pathing.Tile{X: x, Y: y}, nil
}

// ParseTiles reads a ';'-separated list of tiles. An empty string is an
// empty list.
func ParseTiles(s string) ([]pathing.Tile, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var out []pathing.Tile
	for _, part := range strings.Split(s, ";") {
		t, err := ParseTile(part)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}
