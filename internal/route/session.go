// Package route is the interactive goto editor. A Session owns the cost
// map rooted at the last waypoint, the concatenated route buffer and the
// drawn-edge reference counts that keep the on-screen line in sync.
package route

import (
	"fmt"

	"github.com/Garsondee/Route-Sense/internal/pathing"
	"github.com/Garsondee/Route-Sense/internal/planlog"
)

// Waypoint is a confirmed stop. RouteIndex is the offset in the route
// buffer where the leg leaving this waypoint begins.
type Waypoint struct {
	Pos        pathing.Tile
	RouteIndex int
	LegCost    int // cost of the leg that ends here; zero for the origin
}

// Option configures a Session.
type Option func(*Session)

// WithLog records session events to log.
func WithLog(log *planlog.Log) Option {
	return func(s *Session) { s.log = log }
}

// WithRestriction limits every cost map the session builds.
func WithRestriction(r pathing.Restriction) Option {
	return func(s *Session) { s.restriction = r }
}

// Session is a goto in progress. It is not safe for concurrent use.
type Session struct {
	grid        pathing.Grid
	renderer    Renderer
	costs       *pathing.CostMap
	drawn       *drawnEdges
	log         *planlog.Log
	restriction pathing.Restriction

	active      bool
	unit        pathing.Unit
	waypoints   []Waypoint
	route       []pathing.Tile // excludes the origin
	lineDest    pathing.Tile
	pendingCost int
}

// NewSession creates an inactive session over grid. A nil renderer draws
// nothing.
func NewSession(grid pathing.Grid, renderer Renderer, opts ...Option) *Session {
	if renderer == nil {
		renderer = nopRenderer{}
	}
	s := &Session{grid: grid, renderer: renderer}
	for _, o := range opts {
		o(s)
	}
	s.costs = pathing.NewCostMap(grid, s.log)
	s.drawn = newDrawnEdges(grid)
	return s
}

func (s *Session) mustBeActive(op string) {
	if !s.active {
		panic(fmt.Sprintf("route: %s called with no goto in progress", op))
	}
}

// Enter starts a goto for u from its current tile.
func (s *Session) Enter(u pathing.Unit) {
	if s.active {
		panic(fmt.Sprintf("route: Enter for unit %d while unit %d is active", u.ID, s.unit.ID))
	}
	s.drawn.resize()
	s.active = true
	s.unit = u
	s.waypoints = append(s.waypoints[:0], Waypoint{Pos: u.Pos})
	s.route = s.route[:0]
	s.lineDest = u.Pos
	s.pendingCost = 0
	s.costs.Rebuild(u, u.Pos, s.restriction)
	s.log.Add("route", "enter", fmt.Sprintf("unit=%d at (%d,%d)", u.ID, u.Pos.X, u.Pos.Y), 0)
}

// Exit undraws the whole route and ends the goto. It is a no-op when no
// goto is in progress.
func (s *Session) Exit() {
	if !s.active {
		return
	}
	s.truncate(0)
	s.waypoints = s.waypoints[:0]
	s.active = false
	s.log.Add("route", "exit", fmt.Sprintf("unit=%d", s.unit.ID), 0)
}

// Active reports whether a goto is in progress.
func (s *Session) Active() bool { return s.active }

// Unit returns the unit being routed.
func (s *Session) Unit() pathing.Unit {
	s.mustBeActive("Unit")
	return s.unit
}

// Origin returns the tile the unit started from.
func (s *Session) Origin() pathing.Tile {
	s.mustBeActive("Origin")
	return s.waypoints[0].Pos
}

// Costs exposes the cost map rooted at the last waypoint.
func (s *Session) Costs() *pathing.CostMap { return s.costs }

// DrawLine points the pending leg at dest. Only the part of the line that
// changes is undrawn and redrawn. If dest cannot be reached the pending
// leg is erased and DrawLine returns false.
func (s *Session) DrawLine(dest pathing.Tile) bool {
	s.mustBeActive("DrawLine")
	last := s.lastWaypoint()

	path, ok := s.costs.Path(dest)
	if !ok {
		s.truncate(last.RouteIndex)
		s.lineDest = last.Pos
		s.pendingCost = 0
		s.log.AddVerbose("route", "no-path", fmt.Sprintf("(%d,%d)", dest.X, dest.Y), 0)
		return false
	}

	pending := s.route[last.RouteIndex:]
	common := 0
	for common < len(pending) && common < len(path) && pending[common] == path[common] {
		common++
	}
	s.truncate(last.RouteIndex + common)
	for _, t := range path[common:] {
		s.appendStep(t)
	}
	s.lineDest = dest
	s.pendingCost = s.costs.Cost(dest)
	s.log.AddVerbose("route", "draw",
		fmt.Sprintf("(%d,%d) kept=%d drew=%d", dest.X, dest.Y, common, len(path)-common),
		float64(s.pendingCost))
	return true
}

// DrawToNearest draws the line to the cheapest tile match accepts.
func (s *Session) DrawToNearest(match func(pathing.Tile) bool) bool {
	s.mustBeActive("DrawToNearest")
	dest, ok := s.costs.NearestMatch(match)
	if !ok {
		return false
	}
	return s.DrawLine(dest)
}

// AddWaypoint freezes the end of the pending line as a waypoint and
// re-roots the cost map there. It returns false when the pending line is
// empty.
func (s *Session) AddWaypoint() bool {
	s.mustBeActive("AddWaypoint")
	last := s.lastWaypoint()
	if len(s.route) == last.RouteIndex {
		return false
	}
	pos := s.route[len(s.route)-1]
	s.waypoints = append(s.waypoints, Waypoint{Pos: pos, RouteIndex: len(s.route), LegCost: s.pendingCost})
	s.lineDest = pos
	s.pendingCost = 0
	s.costs.Rebuild(s.unit, pos, s.restriction)
	s.log.Add("route", "waypoint", fmt.Sprintf("#%d (%d,%d)", len(s.waypoints)-1, pos.X, pos.Y),
		float64(len(s.route)))
	return true
}

// CanPopWaypoint reports whether there is a waypoint besides the origin.
func (s *Session) CanPopWaypoint() bool {
	return s.active && len(s.waypoints) > 1
}

// PopWaypoint removes the newest waypoint. The leg that led to it becomes
// the pending line again and is redrawn toward the current line
// destination. The origin can never be popped.
func (s *Session) PopWaypoint() {
	s.mustBeActive("PopWaypoint")
	if len(s.waypoints) < 2 {
		panic("route: PopWaypoint with only the origin waypoint")
	}
	w := s.lastWaypoint()
	s.truncate(w.RouteIndex)
	s.waypoints = s.waypoints[:len(s.waypoints)-1]
	s.pendingCost = w.LegCost

	prev := s.lastWaypoint()
	s.costs.Rebuild(s.unit, prev.Pos, s.restriction)
	s.log.Add("route", "pop", fmt.Sprintf("(%d,%d) back to (%d,%d)", w.Pos.X, w.Pos.Y, prev.Pos.X, prev.Pos.Y),
		float64(len(s.route)))
	s.DrawLine(s.lineDest)
}

// Waypoints returns a copy of the waypoint list, origin first.
func (s *Session) Waypoints() []Waypoint {
	return append([]Waypoint(nil), s.waypoints...)
}

// Route returns a copy of the route buffer, pending line included. The
// origin is not part of it.
func (s *Session) Route() []pathing.Tile {
	return append([]pathing.Tile(nil), s.route...)
}

// ConfirmedRoute returns the route up to the last waypoint.
func (s *Session) ConfirmedRoute() []pathing.Tile {
	if !s.active {
		return nil
	}
	return append([]pathing.Tile(nil), s.route[:s.lastWaypoint().RouteIndex]...)
}

// LineDest returns where the pending line currently ends.
func (s *Session) LineDest() pathing.Tile {
	s.mustBeActive("LineDest")
	return s.lineDest
}

// IsDrawnLine reports whether any route step covers the edge leaving t
// in direction d.
func (s *Session) IsDrawnLine(t pathing.Tile, d pathing.Direction) bool {
	return s.drawn.count(t, d) > 0
}

// DrawnCount returns how many route steps cover the edge leaving t in
// direction d.
func (s *Session) DrawnCount(t pathing.Tile, d pathing.Direction) int {
	return s.drawn.count(t, d)
}

// Turns estimates the full turns the whole route takes, leg by leg.
func (s *Session) Turns() int {
	s.mustBeActive("Turns")
	total := 0
	for _, w := range s.waypoints[1:] {
		total += s.turnsFor(w.LegCost)
	}
	return total + s.turnsFor(s.pendingCost)
}

func (s *Session) turnsFor(cost int) int {
	if cost <= 0 || s.unit.MoveRate <= 0 {
		return 0
	}
	return (cost + s.unit.MoveRate - 1) / s.unit.MoveRate
}

func (s *Session) lastWaypoint() Waypoint {
	return s.waypoints[len(s.waypoints)-1]
}

// stepStart returns the tile the route step at index i leaves from.
func (s *Session) stepStart(i int) pathing.Tile {
	if i == 0 {
		return s.waypoints[0].Pos
	}
	return s.route[i-1]
}

// appendStep extends the route by one adjacent tile and draws the edge.
func (s *Session) appendStep(t pathing.Tile) {
	from := s.stepStart(len(s.route))
	d := pathing.DirectionBetween(s.grid, from, t)
	if d == pathing.DirNone {
		panic(fmt.Sprintf("route: (%d,%d) is not adjacent to (%d,%d)", t.X, t.Y, from.X, from.Y))
	}
	if ct, cd, first := s.drawn.increment(from, d); first {
		s.renderer.DrawSegment(ct, cd)
	}
	s.route = append(s.route, t)
}

// truncate undraws route steps from the end until n remain.
func (s *Session) truncate(n int) {
	for i := len(s.route) - 1; i >= n; i-- {
		from := s.stepStart(i)
		d := pathing.DirectionBetween(s.grid, from, s.route[i])
		if ct, cd, last := s.drawn.decrement(from, d); last {
			s.renderer.UndrawSegment(ct, cd)
		}
	}
	s.route = s.route[:n]
}
