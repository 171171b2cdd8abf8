package pathing

import "fmt"

// Path returns the tiles from the source (exclusive) to dest (inclusive)
// along the back-vectors. It returns false if dest is unreachable. A
// source-to-source path is empty but reachable.
func (m *CostMap) Path(dest Tile) ([]Tile, bool) {
	if !m.Reachable(dest) {
		return nil, false
	}
	var out []Tile
	m.walkBack(dest, 0, &out)
	return out, true
}

// walkBack appends the path ending at t in forward order. depth guards
// against cycles, which can only appear if the cells were corrupted.
func (m *CostMap) walkBack(t Tile, depth int, out *[]Tile) {
	if t == m.source {
		return
	}
	if depth > len(m.cells) {
		panic(fmt.Sprintf("pathing: back-vector cycle through (%d,%d)", t.X, t.Y))
	}
	mask := m.cells[m.grid.Index(t)].Back
	if mask == 0 || mask&(mask-1) != 0 {
		panic(fmt.Sprintf("pathing: tile (%d,%d) cost %d has back-vector %08b",
			t.X, t.Y, m.Cost(t), mask))
	}
	prev, ok := m.grid.Step(t, DirectionFromBits(mask))
	if !ok {
		panic(fmt.Sprintf("pathing: back-vector of (%d,%d) leaves the map", t.X, t.Y))
	}
	m.walkBack(prev, depth+1, out)
	*out = append(*out, t)
}

// NearestMatch returns the cheapest reachable tile for which match is
// true. A source that already matches has nowhere to go and yields
// false. Ties go to the lowest grid index.
func (m *CostMap) NearestMatch(match func(Tile) bool) (Tile, bool) {
	if !m.built || match(m.source) {
		return Tile{}, false
	}
	best := Tile{}
	bestCost := MaxCost
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			t := Tile{X: x, Y: y}
			c := int(m.cells[m.grid.Index(t)].Cost)
			if c >= bestCost || !match(t) {
				continue
			}
			best, bestCost = t, c
		}
	}
	return best, bestCost < MaxCost
}

// PathToNearest is NearestMatch followed by Path.
func (m *CostMap) PathToNearest(match func(Tile) bool) ([]Tile, bool) {
	t, ok := m.NearestMatch(match)
	if !ok {
		return nil, false
	}
	return m.Path(t)
}
