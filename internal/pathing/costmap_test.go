package pathing

import (
	"container/heap"
	"math/rand"
	"slices"
	"testing"

	"github.com/Garsondee/Route-Sense/internal/planlog"
)

// referenceCosts is a textbook heap Dijkstra over the same edge rules.
func referenceCosts(g Grid, u Unit, src Tile, r Restriction) []int {
	w, h := g.Size()
	dist := make([]int, w*h)
	for i := range dist {
		dist[i] = MaxCost
	}
	terminal := make([]bool, w*h)
	done := make([]bool, w*h)
	dist[g.Index(src)] = 0

	pq := &refHeap{{cost: 0, t: src}}
	seq := 1
	for pq.Len() > 0 {
		it := heap.Pop(pq).(heapItem)
		i := g.Index(it.t)
		if done[i] || it.cost > dist[i] {
			continue
		}
		done[i] = true
		if terminal[i] {
			continue
		}
		for d := DirNW; d < DirCount; d++ {
			if r == MoveCardinalOnly && !d.Cardinal() {
				continue
			}
			n, ok := g.Step(it.t, d)
			if !ok {
				continue
			}
			res := edgeCost(Edge{
				Src:         g.Info(it.t, u.Owner),
				Dst:         g.Info(n, u.Owner),
				StepCost:    g.MoveCost(it.t, d),
				FromOrigin:  it.t == src,
				Restriction: r,
			}, u)
			if !res.OK {
				continue
			}
			ni := g.Index(n)
			total := dist[i] + res.Cost
			if total < MaxCost && total < dist[ni] {
				dist[ni] = total
				terminal[ni] = res.Terminal
				heap.Push(pq, heapItem{cost: total, seq: seq, t: n})
				seq++
			}
		}
	}
	return dist
}

func TestCostMap_MatchesReferenceDijkstra(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	units := []Unit{
		{ID: 1, Domain: DomainLand, MoveRate: SingleMove},
		{ID: 2, Domain: DomainLand, MoveRate: 3 * SingleMove, Flags: UnitFlags{IgnoresTerrain: true}},
		{ID: 3, Domain: DomainSea, MoveRate: 3 * SingleMove, Flags: UnitFlags{Trireme: true}},
		{ID: 4, Domain: DomainAir, MoveRate: 10 * SingleMove},
	}
	restrictions := []Restriction{MoveAny, MoveCardinalOnly, MoveStraightest}

	for trial := 0; trial < 40; trial++ {
		g := randomGrid(rng, 6+rng.Intn(8), 4+rng.Intn(8))
		u := units[trial%len(units)]
		r := restrictions[trial%len(restrictions)]
		if u.Domain == DomainSea {
			g.info[0] = TileInfo{Known: true, Ocean: true}
		}

		m := NewCostMap(g, nil)
		m.Rebuild(u, Tile{}, r)
		want := referenceCosts(g, u, Tile{}, r)

		for y := 0; y < g.h; y++ {
			for x := 0; x < g.w; x++ {
				tile := Tile{X: x, Y: y}
				if got := m.Cost(tile); got != want[g.Index(tile)] {
					t.Fatalf("trial %d (%s, r=%d): cost at %v expected %d, got %d",
						trial, u.Domain, r, tile, want[g.Index(tile)], got)
				}
			}
		}
	}
}

func TestCostMap_BackVectorsConsistent(t *testing.T) {
	rng := rand.New(rand.NewSource(23))
	u := Unit{ID: 1, Domain: DomainLand, MoveRate: 2 * SingleMove}
	for trial := 0; trial < 20; trial++ {
		g := randomGrid(rng, 10, 10)
		m := NewCostMap(g, nil)
		m.Rebuild(u, Tile{}, MoveAny)

		for y := 0; y < g.h; y++ {
			for x := 0; x < g.w; x++ {
				tile := Tile{X: x, Y: y}
				if tile == m.Source() || !m.Reachable(tile) {
					if tile != m.Source() && m.BackVector(tile) != 0 {
						t.Fatalf("unreachable %v has back-vector %08b", tile, m.BackVector(tile))
					}
					continue
				}
				mask := m.BackVector(tile)
				if mask == 0 || mask&(mask-1) != 0 {
					t.Fatalf("%v: expected exactly one back bit, got %08b", tile, mask)
				}
				back := DirectionFromBits(mask)
				prev, ok := g.Step(tile, back)
				if !ok {
					t.Fatalf("%v: back-vector %s leaves the map", tile, back)
				}
				res := edgeCost(Edge{
					Src:        g.Info(prev, u.Owner),
					Dst:        g.Info(tile, u.Owner),
					StepCost:   g.MoveCost(prev, back.Reverse()),
					FromOrigin: prev == m.Source(),
				}, u)
				if m.Cost(prev)+res.Cost != m.Cost(tile) {
					t.Fatalf("%v: cost %d != prev %v cost %d + step %d",
						tile, m.Cost(tile), prev, m.Cost(prev), res.Cost)
				}
			}
		}
	}
}

func TestCostMap_Deterministic(t *testing.T) {
	g := randomGrid(rand.New(rand.NewSource(5)), 12, 9)
	u := Unit{ID: 1, Domain: DomainLand, MoveRate: SingleMove}

	a := NewCostMap(g, nil)
	a.Rebuild(u, Tile{}, MoveAny)
	first := slices.Clone(a.Cells())

	a.Rebuild(u, Tile{X: 3, Y: 3}, MoveAny)
	a.Rebuild(u, Tile{}, MoveAny)
	if !slices.Equal(first, a.Cells()) {
		t.Fatal("expected identical cells after rebuilding from the same source")
	}

	b := NewCostMap(g, nil)
	b.Rebuild(u, Tile{}, MoveAny)
	if !slices.Equal(first, b.Cells()) {
		t.Fatal("expected a fresh map to match")
	}
}

func TestCostMap_UnbuiltIsUnreachable(t *testing.T) {
	m := NewCostMap(newTestGrid(3, 3), nil)
	if m.Reachable(Tile{}) {
		t.Fatal("expected nothing reachable before the first rebuild")
	}
	if _, ok := m.Path(Tile{X: 1}); ok {
		t.Fatal("expected no path before the first rebuild")
	}
}

func TestCostMap_BadDomainPanics(t *testing.T) {
	m := NewCostMap(newTestGrid(3, 3), nil)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for unknown domain")
		}
	}()
	m.Rebuild(Unit{ID: 7, Domain: Domain(9)}, Tile{}, MoveAny)
}

func TestCostMap_TerminalNotExpanded(t *testing.T) {
	g := newTestGrid(5, 1)
	enemy := grass
	enemy.NonAlliedUnit = true
	g.set(2, 0, enemy)

	m := NewCostMap(g, nil)
	m.Rebuild(landUnit(), Tile{}, MoveAny)
	if got := m.Cost(Tile{X: 2}); got != 2*SingleMove {
		t.Fatalf("expected attack tile at %d, got %d", 2*SingleMove, got)
	}
	if m.Reachable(Tile{X: 3}) {
		t.Fatal("expected nothing beyond the attacked tile")
	}
}

func TestCostMap_LogsRebuild(t *testing.T) {
	log := planlog.New(false)
	m := NewCostMap(newTestGrid(4, 4), log)
	m.Rebuild(landUnit(), Tile{}, MoveAny)
	if log.CountCategory("rebuild", "") != 2 {
		t.Fatalf("expected start and done entries, got %d", log.CountCategory("rebuild", ""))
	}
	if e, ok := log.LastOf("rebuild", "done"); !ok || e.NumVal != 16 {
		t.Fatalf("expected 16 settled tiles, got %+v ok=%v", e, ok)
	}
}

func TestCostMap_ResizesWithGrid(t *testing.T) {
	g := newTestGrid(3, 3)
	m := NewCostMap(g, nil)
	m.Rebuild(landUnit(), Tile{}, MoveAny)

	big := newTestGrid(6, 6)
	*g = *big
	m.Rebuild(landUnit(), Tile{}, MoveAny)
	if !m.Reachable(Tile{X: 5, Y: 5}) {
		t.Fatal("expected far corner reachable after resize")
	}
	if len(m.Cells()) != 36 {
		t.Fatalf("expected 36 cells, got %d", len(m.Cells()))
	}
}

func TestPath_CorruptBackVectorPanics(t *testing.T) {
	cases := map[string]uint8{
		"empty":    0,
		"two bits": DirW.Bit() | DirN.Bit(),
	}
	for name, mask := range cases {
		t.Run(name, func(t *testing.T) {
			g := newTestGrid(4, 4)
			m := NewCostMap(g, nil)
			m.Rebuild(landUnit(), Tile{}, MoveAny)
			m.cells[g.Index(Tile{X: 2, Y: 2})].Back = mask

			defer func() {
				if recover() == nil {
					t.Fatalf("expected panic for back-vector %08b", mask)
				}
			}()
			m.Path(Tile{X: 3, Y: 3})
		})
	}
}
