package orders

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/Garsondee/Route-Sense/internal/pathing"
	"github.com/Garsondee/Route-Sense/internal/route"
	"github.com/Garsondee/Route-Sense/internal/tilemap"
)

// roadSession routes a settler along a one-row grassland map with a road
// on (1,0).
func roadSession(t *testing.T) (*route.Session, *tilemap.Map, *tilemap.Unit) {
	t.Helper()
	u := tilemap.Warrior(5, 0, 0, 0)
	u.Flags.Settlers = true
	m := tilemap.Build(5, 1, tilemap.WithUnit(u), tilemap.WithRoad(tileAt(1, 0)))
	s := route.NewSession(m, nil)
	s.Enter(u.Mover())
	if !s.DrawLine(tileAt(3, 0)) {
		t.Fatal("expected (3,0) reachable")
	}
	return s, m, u
}

func TestConnectOrders_WorksTilesWithoutRoad(t *testing.T) {
	s, m, _ := roadSession(t)
	got, err := ConnectOrders(m, GotoPath(s))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	road := Order{Kind: OrderActivity, Dir: pathing.DirNone, Activity: ActivityRoad}
	east := Order{Kind: OrderMove, Dir: pathing.DirE}
	want := []Order{road, east, east, road, east, road}
	if !slices.Equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestConnectOrders_OceanCannotBeWorked(t *testing.T) {
	m := tilemap.Build(3, 1, tilemap.WithTerrain(1, 0, 1, 0, tilemap.TerrainOcean))
	_, err := ConnectOrders(m, []pathing.Tile{tileAt(0, 0), tileAt(1, 0), tileAt(2, 0)})
	if !errors.Is(err, ErrCannotConnect) {
		t.Fatalf("expected ErrCannotConnect, got %v", err)
	}
}

func TestConnectTurns_AddsRoadWork(t *testing.T) {
	s, m, _ := roadSession(t)
	if s.Turns() != 3 {
		t.Fatalf("expected 3 turns of movement, got %d", s.Turns())
	}
	// three grassland tiles without a road at 2 turns each
	if got := ConnectTurns(s, m); got != 9 {
		t.Fatalf("expected 9 turns, got %d", got)
	}
}

func TestSendConnectRoute(t *testing.T) {
	s, m, u := roadSession(t)
	f := &fakeSender{}
	if err := SendConnectRoute(context.Background(), f, s, u.Mover(), m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	req := f.sent[0]
	if req.Kind != KindConnect || req.Length != 3 || req.Dest != tileAt(3, 0) {
		t.Fatalf("expected 3-step connect to (3,0), got %s %d to %v", req.Kind, req.Length, req.Dest)
	}
	if len(req.Orders) != 6 {
		t.Fatalf("expected 6 orders, got %d", len(req.Orders))
	}
}

func TestSendConnectRoute_NeedsSettlers(t *testing.T) {
	s, m, u := lineSession(t, 4, 2)
	f := &fakeSender{}
	err := SendConnectRoute(context.Background(), f, s, u.Mover(), m)
	if !errors.Is(err, ErrNotSettlers) {
		t.Fatalf("expected ErrNotSettlers, got %v", err)
	}
	if len(f.sent) != 0 {
		t.Fatal("expected nothing sent")
	}
}

func TestSendGotoRouteThen_FinalActivity(t *testing.T) {
	s, _, u := lineSession(t, 4, 2)
	f := &fakeSender{}
	if err := SendGotoRouteThen(context.Background(), f, s, u.Mover(), ActivityFortify); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.sent[0].Final != ActivityFortify || f.sent[0].Orders != nil {
		t.Fatalf("expected plain goto ending in fortify, got %+v", f.sent[0])
	}
	if err := SendGotoRouteThen(context.Background(), f, s, u.Mover(), Activity(42)); !errors.Is(err, ErrBadActivity) {
		t.Fatalf("expected ErrBadActivity, got %v", err)
	}
	if len(f.sent) != 1 {
		t.Fatalf("expected one request, got %d", len(f.sent))
	}
}

func TestParseActivity(t *testing.T) {
	for name, want := range map[string]Activity{"": ActivityNone, "road": ActivityRoad, "fortify": ActivityFortify, "sentry": ActivitySentry} {
		got, err := ParseActivity(name)
		if err != nil || got != want {
			t.Fatalf("%q: expected %s, got %s err=%v", name, want, got, err)
		}
	}
	if _, err := ParseActivity("mine"); !errors.Is(err, ErrBadActivity) {
		t.Fatalf("expected ErrBadActivity, got %v", err)
	}
}
