package route

import (
	"slices"
	"testing"

	"github.com/Garsondee/Route-Sense/internal/pathing"
	"github.com/Garsondee/Route-Sense/internal/planlog"
	"github.com/Garsondee/Route-Sense/internal/tilemap"
)

type edgeKey struct {
	t pathing.Tile
	d pathing.Direction
}

// recorder counts renderer calls and tracks which edges are on screen.
type recorder struct {
	draws   int
	undraws int
	calls   []edgeKey
	live    map[edgeKey]bool
}

func newRecorder() *recorder { return &recorder{live: make(map[edgeKey]bool)} }

func (r *recorder) DrawSegment(t pathing.Tile, d pathing.Direction) {
	r.draws++
	r.calls = append(r.calls, edgeKey{t, d})
	r.live[edgeKey{t, d}] = true
}

func (r *recorder) UndrawSegment(t pathing.Tile, d pathing.Direction) {
	r.undraws++
	r.calls = append(r.calls, edgeKey{t, d})
	delete(r.live, edgeKey{t, d})
}

func tileAt(x, y int) pathing.Tile { return pathing.Tile{X: x, Y: y} }

func grassSession(t *testing.T, cols, rows int, opts ...Option) (*Session, *recorder, *tilemap.Unit) {
	t.Helper()
	u := tilemap.Warrior(1, 0, 0, 0)
	m := tilemap.Build(cols, rows, tilemap.WithUnit(u))
	rec := newRecorder()
	s := NewSession(m, rec, opts...)
	s.Enter(u.Mover())
	return s, rec, u
}

func TestSession_EnterStartsAtOrigin(t *testing.T) {
	s, rec, u := grassSession(t, 6, 6)
	if !s.Active() {
		t.Fatal("expected session active after Enter")
	}
	wps := s.Waypoints()
	if len(wps) != 1 || wps[0].Pos != u.Pos {
		t.Fatalf("expected single origin waypoint, got %+v", wps)
	}
	if len(s.Route()) != 0 || rec.draws != 0 {
		t.Fatalf("expected empty route, got %v (%d draws)", s.Route(), rec.draws)
	}
	if s.Costs().Source() != u.Pos {
		t.Fatalf("expected cost map rooted at %v, got %v", u.Pos, s.Costs().Source())
	}
}

func TestSession_AddAddPopScenario(t *testing.T) {
	s, _, _ := grassSession(t, 10, 10)
	a, b := tileAt(3, 0), tileAt(3, 4)

	if !s.DrawLine(a) {
		t.Fatal("expected A reachable")
	}
	toA := s.Route()
	if !s.AddWaypoint() {
		t.Fatal("expected waypoint at A")
	}
	if !s.DrawLine(b) {
		t.Fatal("expected B reachable")
	}
	if !s.AddWaypoint() {
		t.Fatal("expected waypoint at B")
	}
	s.PopWaypoint()

	wps := s.Waypoints()
	if len(wps) != 2 || wps[0].Pos != tileAt(0, 0) || wps[1].Pos != a {
		t.Fatalf("expected waypoints (origin, A), got %+v", wps)
	}
	if got := s.ConfirmedRoute(); !slices.Equal(got, toA) {
		t.Fatalf("expected confirmed route %v, got %v", toA, got)
	}
	if got := s.Route(); got[len(got)-1] != b {
		t.Fatalf("expected pending line still ending at B, got %v", got)
	}
}

func TestSession_AddPopIsIdempotent(t *testing.T) {
	s, rec, _ := grassSession(t, 10, 10)
	s.DrawLine(tileAt(4, 2))
	s.AddWaypoint()
	s.DrawLine(tileAt(7, 8))

	route := s.Route()
	counts := slices.Clone(s.drawn.counts)
	draws, undraws := rec.draws, rec.undraws
	turns := s.Turns()

	if !s.AddWaypoint() {
		t.Fatal("expected waypoint added")
	}
	s.PopWaypoint()

	if !slices.Equal(route, s.Route()) {
		t.Fatalf("expected route %v, got %v", route, s.Route())
	}
	if !slices.Equal(counts, s.drawn.counts) {
		t.Fatal("expected drawn counts unchanged")
	}
	if rec.draws != draws || rec.undraws != undraws {
		t.Fatalf("expected no renderer calls, got %d draws %d undraws",
			rec.draws-draws, rec.undraws-undraws)
	}
	if s.Turns() != turns {
		t.Fatalf("expected %d turns, got %d", turns, s.Turns())
	}
	if len(s.Waypoints()) != 2 {
		t.Fatalf("expected 2 waypoints, got %d", len(s.Waypoints()))
	}
}

func TestSession_SharedPrefixNotRedrawn(t *testing.T) {
	s, rec, _ := grassSession(t, 12, 12)
	s.DrawLine(tileAt(8, 3))
	before := s.Route()
	rec.calls = nil
	draws, undraws := rec.draws, rec.undraws

	s.DrawLine(tileAt(9, 5))
	after := s.Route()

	common := 0
	for common < len(before) && common < len(after) && before[common] == after[common] {
		common++
	}
	shared := make(map[edgeKey]bool)
	prev := tileAt(0, 0)
	for _, tile := range after[:common] {
		ct, cd, _ := s.drawn.canonical(prev, pathing.DirectionBetween(s.grid, prev, tile))
		shared[edgeKey{ct, cd}] = true
		prev = tile
	}
	for _, c := range rec.calls {
		if shared[c] {
			t.Fatalf("renderer touched shared edge %v %s", c.t, c.d)
		}
	}
	if got := rec.undraws - undraws; got != len(before)-common {
		t.Fatalf("expected %d undraws, got %d", len(before)-common, got)
	}
	if got := rec.draws - draws; got != len(after)-common {
		t.Fatalf("expected %d draws, got %d", len(after)-common, got)
	}
}

func TestSession_SameDestinationIsFree(t *testing.T) {
	s, rec, _ := grassSession(t, 8, 8)
	s.DrawLine(tileAt(5, 6))
	draws := rec.draws
	s.DrawLine(tileAt(5, 6))
	if rec.draws != draws || rec.undraws != 0 {
		t.Fatalf("expected no calls on redraw, got %d draws %d undraws", rec.draws-draws, rec.undraws)
	}
}

func TestSession_UnreachableClearsPendingLine(t *testing.T) {
	u := tilemap.Warrior(1, 0, 0, 0)
	m := tilemap.Build(5, 1, tilemap.WithTerrain(3, 0, 4, 0, tilemap.TerrainOcean), tilemap.WithUnit(u))
	rec := newRecorder()
	s := NewSession(m, rec)
	s.Enter(u.Mover())

	if !s.DrawLine(tileAt(2, 0)) {
		t.Fatal("expected land tile reachable")
	}
	if s.DrawLine(tileAt(4, 0)) {
		t.Fatal("expected sea tile unreachable")
	}
	if len(s.Route()) != 0 || len(rec.live) != 0 {
		t.Fatalf("expected pending line erased, route=%v live=%d", s.Route(), len(rec.live))
	}
	if s.LineDest() != u.Pos {
		t.Fatalf("expected line dest back at origin, got %v", s.LineDest())
	}
	if s.AddWaypoint() {
		t.Fatal("expected no waypoint on an empty line")
	}
}

func TestSession_OverlappingLegsShareEdges(t *testing.T) {
	s, rec, _ := grassSession(t, 4, 1)
	s.DrawLine(tileAt(3, 0))
	s.AddWaypoint()
	s.DrawLine(tileAt(0, 0))

	if got := s.DrawnCount(tileAt(0, 0), pathing.DirE); got != 2 {
		t.Fatalf("expected edge drawn twice, got %d", got)
	}
	if got := s.DrawnCount(tileAt(1, 0), pathing.DirW); got != 2 {
		t.Fatalf("expected reversed lookup to match, got %d", got)
	}
	if rec.draws != 3 {
		t.Fatalf("expected 3 draw calls, got %d", rec.draws)
	}

	s.DrawLine(tileAt(3, 0))
	if !s.IsDrawnLine(tileAt(2, 0), pathing.DirE) || rec.undraws != 0 {
		t.Fatalf("expected outbound leg still drawn, undraws=%d", rec.undraws)
	}
}

func TestSession_ExitUndrawsEverything(t *testing.T) {
	s, rec, _ := grassSession(t, 10, 10)
	s.DrawLine(tileAt(5, 5))
	s.AddWaypoint()
	s.DrawLine(tileAt(9, 1))
	s.Exit()

	if s.Active() {
		t.Fatal("expected session inactive")
	}
	if len(rec.live) != 0 || s.drawn.total() != 0 {
		t.Fatalf("expected nothing drawn, live=%d counts=%d", len(rec.live), s.drawn.total())
	}
	if rec.draws != rec.undraws {
		t.Fatalf("expected balanced calls, got %d draws %d undraws", rec.draws, rec.undraws)
	}
	s.Exit()
}

func TestSession_ReenterAfterExit(t *testing.T) {
	s, _, u := grassSession(t, 6, 6)
	s.DrawLine(tileAt(4, 4))
	s.Exit()
	s.Enter(u.Mover())
	if len(s.Waypoints()) != 1 || len(s.Route()) != 0 {
		t.Fatalf("expected fresh session, got %d waypoints route %v", len(s.Waypoints()), s.Route())
	}
}

func TestSession_Turns(t *testing.T) {
	s, _, _ := grassSession(t, 10, 10)
	s.DrawLine(tileAt(3, 4))
	if got := s.Turns(); got != 4 {
		t.Fatalf("expected 4 turns, got %d", got)
	}
	s.AddWaypoint()
	s.DrawLine(tileAt(3, 8))
	if got := s.Turns(); got != 8 {
		t.Fatalf("expected 8 turns, got %d", got)
	}
}

func TestSession_CardinalRestriction(t *testing.T) {
	s, _, _ := grassSession(t, 10, 10, WithRestriction(pathing.MoveCardinalOnly))
	s.DrawLine(tileAt(3, 4))
	if got := len(s.Route()); got != 7 {
		t.Fatalf("expected 7 cardinal steps, got %d", got)
	}
}

func TestSession_DrawToNearestCity(t *testing.T) {
	u := tilemap.Warrior(1, 0, 0, 0)
	m := tilemap.Build(8, 8,
		tilemap.WithUnit(u),
		tilemap.WithCity(&tilemap.City{ID: 1, Owner: 0, Pos: tileAt(5, 2)}),
		tilemap.WithCity(&tilemap.City{ID: 2, Owner: 0, Pos: tileAt(7, 7)}),
	)
	s := NewSession(m, nil)
	s.Enter(u.Mover())
	if !s.DrawToNearest(func(t pathing.Tile) bool { return m.IsAlliedCity(t, 0) }) {
		t.Fatal("expected a city in reach")
	}
	if s.LineDest() != tileAt(5, 2) {
		t.Fatalf("expected line to nearest city, got %v", s.LineDest())
	}
}

func TestSession_LogsWaypoints(t *testing.T) {
	log := planlog.New(true)
	s, _, _ := grassSession(t, 6, 6, WithLog(log))
	s.DrawLine(tileAt(2, 2))
	s.AddWaypoint()
	if !log.HasEntry("route", "waypoint", "(2,2)") {
		t.Fatalf("expected waypoint entry, log:\n%s", log.Format())
	}
	if !log.HasEntry("rebuild", "done", "") {
		t.Fatal("expected cost map entries in the same log")
	}
}

func expectPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatalf("expected %s to panic", name)
		}
	}()
	fn()
}

func TestSession_MisusePanics(t *testing.T) {
	u := tilemap.Warrior(1, 0, 0, 0)
	m := tilemap.Build(4, 4, tilemap.WithUnit(u))

	idle := NewSession(m, nil)
	expectPanic(t, "DrawLine while inactive", func() { idle.DrawLine(tileAt(1, 1)) })
	expectPanic(t, "AddWaypoint while inactive", func() { idle.AddWaypoint() })
	expectPanic(t, "Turns while inactive", func() { idle.Turns() })

	s := NewSession(m, nil)
	s.Enter(u.Mover())
	expectPanic(t, "double Enter", func() { s.Enter(u.Mover()) })
	expectPanic(t, "popping the origin", func() { s.PopWaypoint() })
	if s.CanPopWaypoint() {
		t.Fatal("expected origin not poppable")
	}
}

func TestDrawnEdges_UnderflowPanics(t *testing.T) {
	e := newDrawnEdges(tilemap.NewMap(3, 3))
	expectPanic(t, "underflow", func() { e.decrement(tileAt(1, 1), pathing.DirE) })
}

func TestDrawnEdges_OverflowPanics(t *testing.T) {
	e := newDrawnEdges(tilemap.NewMap(3, 3))
	for i := 0; i < maxDrawn; i++ {
		e.increment(tileAt(1, 1), pathing.DirS)
	}
	if got := e.count(tileAt(1, 2), pathing.DirN); got != maxDrawn {
		t.Fatalf("expected %d, got %d", maxDrawn, got)
	}
	expectPanic(t, "overflow", func() { e.increment(tileAt(1, 1), pathing.DirS) })
}
