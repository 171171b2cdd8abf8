package tilemap

import "github.com/Garsondee/Route-Sense/internal/pathing"

var _ pathing.Grid = (*Map)(nil)

// Size returns the map dimensions.
func (m *Map) Size() (int, int) { return m.Cols, m.Rows }

// Index maps a normalized tile to its slice index.
func (m *Map) Index(t pathing.Tile) int {
	return t.Y*m.Cols + t.X
}

// Step returns the neighbour of t in direction d.
func (m *Map) Step(t pathing.Tile, d pathing.Direction) (pathing.Tile, bool) {
	dx, dy := d.Vector()
	return m.Normalize(pathing.Tile{X: t.X + dx, Y: t.Y + dy})
}

// MoveCost returns the move fragments for stepping from t in direction d.
// Roads on both ends reduce the step to a road move.
func (m *Map) MoveCost(t pathing.Tile, d pathing.Direction) int {
	n, ok := m.Step(t, d)
	if !ok {
		return pathing.MaxCost
	}
	src, dst := m.At(t), m.At(n)
	if dst.Terrain.IsOcean() {
		return pathing.SingleMove
	}
	if src.Road && dst.Road {
		return pathing.RoadMoveCost
	}
	return terrainMoveCost(dst.Terrain) * pathing.SingleMove
}

// Info describes t as seen by owner. Unknown tiles reveal nothing.
func (m *Map) Info(t pathing.Tile, owner int) pathing.TileInfo {
	tile := m.At(t)
	if !tile.Known {
		return pathing.TileInfo{}
	}

	info := pathing.TileInfo{
		Known:           true,
		Ocean:           tile.Terrain.IsOcean(),
		TerrainMoveCost: terrainMoveCost(tile.Terrain),
	}

	for _, u := range m.UnitsAt(t) {
		if m.Allied(u.Owner, owner) {
			info.AlliedUnit = true
			if u.Owner == owner && u.Capacity > u.Cargo {
				info.TransportSpace += u.Capacity - u.Cargo
			}
		} else {
			info.NonAlliedUnit = true
		}
	}
	if c, ok := m.CityAt(t); ok {
		if m.Allied(c.Owner, owner) {
			info.AlliedCity = true
		} else {
			info.NonAlliedCity = true
		}
	}

	for d := pathing.DirNW; d < pathing.DirCount; d++ {
		n, ok := m.Step(t, d)
		if !ok {
			continue
		}
		nt := m.At(n)
		if !nt.Terrain.IsOcean() {
			info.Coastal = true
			if m.hasEnemyUnit(n, owner) {
				info.ForeignZOC = true
			}
		}
	}
	return info
}

func (m *Map) hasEnemyUnit(t pathing.Tile, owner int) bool {
	for _, u := range m.UnitsAt(t) {
		if !m.Allied(u.Owner, owner) {
			return true
		}
	}
	return false
}
