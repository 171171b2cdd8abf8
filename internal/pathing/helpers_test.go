package pathing

import "math/rand"

// testGrid is a flat (optionally x-wrapping) grid with per-tile info.
type testGrid struct {
	w, h  int
	wrapX bool
	enter []int // base fragments to enter each tile
	info  []TileInfo
}

func newTestGrid(w, h int) *testGrid {
	g := &testGrid{w: w, h: h, enter: make([]int, w*h), info: make([]TileInfo, w*h)}
	for i := range g.info {
		g.enter[i] = SingleMove
		g.info[i] = TileInfo{Known: true, TerrainMoveCost: 1}
	}
	return g
}

func (g *testGrid) Size() (int, int) { return g.w, g.h }

func (g *testGrid) Index(t Tile) int { return t.Y*g.w + t.X }

func (g *testGrid) Step(t Tile, d Direction) (Tile, bool) {
	dx, dy := d.Vector()
	n := Tile{X: t.X + dx, Y: t.Y + dy}
	if g.wrapX {
		n.X = (n.X + g.w) % g.w
	}
	if n.X < 0 || n.Y < 0 || n.X >= g.w || n.Y >= g.h {
		return n, false
	}
	return n, true
}

func (g *testGrid) MoveCost(t Tile, d Direction) int {
	n, ok := g.Step(t, d)
	if !ok {
		return MaxCost
	}
	return g.enter[g.Index(n)]
}

func (g *testGrid) Info(t Tile, _ int) TileInfo { return g.info[g.Index(t)] }

func (g *testGrid) set(x, y int, info TileInfo) { g.info[g.Index(Tile{X: x, Y: y})] = info }

// randomGrid mixes terrain costs, water, fog and hostile pieces.
func randomGrid(rng *rand.Rand, w, h int) *testGrid {
	g := newTestGrid(w, h)
	g.wrapX = rng.Intn(2) == 0
	costs := []int{1, SingleMove, 2 * SingleMove, 3 * SingleMove}
	for i := range g.info {
		g.enter[i] = costs[rng.Intn(len(costs))]
		info := TileInfo{Known: true, TerrainMoveCost: 1 + rng.Intn(3)}
		switch r := rng.Intn(20); {
		case r < 4:
			info.Ocean = true
			info.Coastal = rng.Intn(2) == 0
			if rng.Intn(3) == 0 {
				info.TransportSpace = 1
			}
		case r < 6:
			info = TileInfo{}
		case r == 6:
			info.NonAlliedUnit = true
		case r == 7:
			info.AlliedCity = true
		case r == 8:
			info.ForeignZOC = true
		}
		g.info[i] = info
	}
	g.info[0] = TileInfo{Known: true, TerrainMoveCost: 1}
	return g
}
