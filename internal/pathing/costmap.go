package pathing

import (
	"fmt"

	"github.com/Garsondee/Route-Sense/internal/planlog"
)

// Grid is the map collaborator the cost map reads from. Wrapping, edges
// and diplomacy all live behind it.
type Grid interface {
	// Size returns the map dimensions in tiles.
	Size() (w, h int)
	// Index maps a normalized tile to a dense index in [0, w*h).
	Index(t Tile) int
	// Step returns the neighbour of t in direction d, normalized for
	// wrapping, or false if it falls off the map.
	Step(t Tile, d Direction) (Tile, bool)
	// MoveCost returns the base move fragments for stepping from t in d.
	MoveCost(t Tile, d Direction) int
	// Info describes t as seen by the given player.
	Info(t Tile, owner int) TileInfo
}

// Cell is one tile of the cost map.
type Cell struct {
	Cost int16
	Back uint8 // one bit per direction leading back toward the source
}

// CostMap holds the cheapest known cost from one source tile to every
// tile on the map, plus the direction each cost was reached from.
type CostMap struct {
	grid   Grid
	width  int
	height int
	cells  []Cell
	queue  *BucketQueue
	log    *planlog.Log

	source      Tile
	unitID      int
	restriction Restriction
	built       bool

	// Stats from the last rebuild.
	Pops    int
	Settled int
}

// NewCostMap allocates a cost map sized to grid.
func NewCostMap(grid Grid, log *planlog.Log) *CostMap {
	m := &CostMap{grid: grid, queue: NewBucketQueue(), log: log, unitID: -1}
	m.resize()
	return m
}

// resize reallocates the cells when the grid has changed size.
func (m *CostMap) resize() {
	w, h := m.grid.Size()
	if w == m.width && h == m.height && m.cells != nil {
		return
	}
	m.width, m.height = w, h
	m.cells = make([]Cell, w*h)
	m.built = false
}

// Source returns the tile the map was last rebuilt from.
func (m *CostMap) Source() Tile { return m.source }

// UnitID returns the id of the unit the map was last rebuilt for.
func (m *CostMap) UnitID() int { return m.unitID }

// Cost returns the cumulative cost to t, or MaxCost if unreachable.
func (m *CostMap) Cost(t Tile) int {
	if !m.built {
		return MaxCost
	}
	return int(m.cells[m.grid.Index(t)].Cost)
}

// BackVector returns the back-vector mask of t.
func (m *CostMap) BackVector(t Tile) uint8 {
	if !m.built {
		return 0
	}
	return m.cells[m.grid.Index(t)].Back
}

// Reachable reports whether t has a finite cost.
func (m *CostMap) Reachable(t Tile) bool {
	return m.Cost(t) < MaxCost
}

// Cells exposes the raw grid, indexed by Grid.Index. Callers must not
// modify it.
func (m *CostMap) Cells() []Cell {
	return m.cells
}

// Rebuild recomputes every cost from src for unit u.
func (m *CostMap) Rebuild(u Unit, src Tile, r Restriction) {
	switch u.Domain {
	case DomainLand, DomainSea, DomainAir, DomainHeli:
	default:
		panic(fmt.Sprintf("pathing: bad movement domain %d for unit %d", u.Domain, u.ID))
	}

	m.resize()
	for i := range m.cells {
		m.cells[i] = Cell{Cost: MaxCost}
	}
	m.source = src
	m.unitID = u.ID
	m.restriction = r
	m.built = true
	m.Pops = 0
	m.Settled = 0

	m.log.Add("rebuild", "start", fmt.Sprintf("unit=%d %s from (%d,%d)", u.ID, u.Domain, src.X, src.Y), 0)

	m.cells[m.grid.Index(src)].Cost = 0
	m.queue.Reset()
	m.queue.Push(0, src)

	for {
		t, ok := m.queue.Pop()
		if !ok {
			break
		}
		m.Pops++
		m.expand(u, t)
	}

	for i := range m.cells {
		if m.cells[i].Cost < MaxCost {
			m.Settled++
		}
	}
	m.log.Add("rebuild", "done", fmt.Sprintf("settled=%d pops=%d arena=%d", m.Settled, m.Pops, m.queue.Arena()), float64(m.Settled))
}

// expand relaxes every neighbour of t.
func (m *CostMap) expand(u Unit, t Tile) {
	ti := m.grid.Index(t)
	base := int(m.cells[ti].Cost)
	var src TileInfo
	srcLoaded := false

	for d := DirNW; d < DirCount; d++ {
		if m.restriction == MoveCardinalOnly && !d.Cardinal() {
			continue
		}
		n, ok := m.grid.Step(t, d)
		if !ok {
			continue
		}
		ni := m.grid.Index(n)
		if int(m.cells[ni].Cost) <= base {
			// Nothing through t can beat it.
			continue
		}

		if !srcLoaded {
			src = m.grid.Info(t, u.Owner)
			srcLoaded = true
		}
		res := edgeCost(Edge{
			Src:         src,
			Dst:         m.grid.Info(n, u.Owner),
			StepCost:    m.grid.MoveCost(t, d),
			FromOrigin:  t == m.source,
			Restriction: m.restriction,
		}, u)
		if !res.OK {
			continue
		}

		total := base + res.Cost
		if total >= MaxCost || total >= int(m.cells[ni].Cost) {
			continue
		}
		m.cells[ni].Cost = int16(total)
		m.cells[ni].Back = d.Reverse().Bit()
		if !res.Terminal {
			m.queue.Push(total, n)
		}
	}
}
