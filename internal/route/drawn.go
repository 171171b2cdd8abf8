package route

import (
	"fmt"

	"github.com/Garsondee/Route-Sense/internal/pathing"
)

// maxDrawn is the highest reference count one edge can hold.
const maxDrawn = 255

// Renderer paints and erases single route segments. A segment is the
// edge leaving t in direction d. Calls are gated by reference counts, so
// a renderer only sees the first draw and the last undraw of an edge.
type Renderer interface {
	DrawSegment(t pathing.Tile, d pathing.Direction)
	UndrawSegment(t pathing.Tile, d pathing.Direction)
}

type nopRenderer struct{}

func (nopRenderer) DrawSegment(pathing.Tile, pathing.Direction)   {}
func (nopRenderer) UndrawSegment(pathing.Tile, pathing.Direction) {}

// drawnEdges counts how many route steps cover each map edge. Every edge
// is stored once, at the endpoint from which it points NW, N, NE or W.
type drawnEdges struct {
	grid   pathing.Grid
	counts [][4]uint8
}

func newDrawnEdges(grid pathing.Grid) *drawnEdges {
	e := &drawnEdges{grid: grid}
	e.resize()
	return e
}

func (e *drawnEdges) resize() {
	w, h := e.grid.Size()
	if len(e.counts) != w*h {
		e.counts = make([][4]uint8, w*h)
	}
}

// canonical maps an edge to its stored endpoint and direction.
func (e *drawnEdges) canonical(t pathing.Tile, d pathing.Direction) (pathing.Tile, pathing.Direction, bool) {
	w, h := e.grid.Size()
	if d < 0 || d >= pathing.DirCount || t.X < 0 || t.Y < 0 || t.X >= w || t.Y >= h {
		return t, d, false
	}
	if d <= pathing.DirW {
		return t, d, true
	}
	n, ok := e.grid.Step(t, d)
	if !ok {
		return t, d, false
	}
	return n, d.Reverse(), true
}

func (e *drawnEdges) count(t pathing.Tile, d pathing.Direction) int {
	ct, cd, ok := e.canonical(t, d)
	if !ok {
		return 0
	}
	return int(e.counts[e.grid.Index(ct)][cd])
}

// increment bumps the edge and reports whether it was previously undrawn.
func (e *drawnEdges) increment(t pathing.Tile, d pathing.Direction) (pathing.Tile, pathing.Direction, bool) {
	ct, cd, ok := e.canonical(t, d)
	if !ok {
		panic(fmt.Sprintf("route: edge (%d,%d) %s leaves the map", t.X, t.Y, d))
	}
	c := &e.counts[e.grid.Index(ct)][cd]
	if *c == maxDrawn {
		panic(fmt.Sprintf("route: edge (%d,%d) %s drawn %d times", ct.X, ct.Y, cd, maxDrawn))
	}
	*c++
	return ct, cd, *c == 1
}

// decrement drops the edge and reports whether it is now undrawn.
func (e *drawnEdges) decrement(t pathing.Tile, d pathing.Direction) (pathing.Tile, pathing.Direction, bool) {
	ct, cd, ok := e.canonical(t, d)
	if !ok {
		panic(fmt.Sprintf("route: edge (%d,%d) %s leaves the map", t.X, t.Y, d))
	}
	c := &e.counts[e.grid.Index(ct)][cd]
	if *c == 0 {
		panic(fmt.Sprintf("route: edge (%d,%d) %s undrawn while not drawn", ct.X, ct.Y, cd))
	}
	*c--
	return ct, cd, *c == 0
}

// total returns the sum of all counts.
func (e *drawnEdges) total() int {
	n := 0
	for _, c := range e.counts {
		n += int(c[0]) + int(c[1]) + int(c[2]) + int(c[3])
	}
	return n
}
