package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image/png"
	"io"
	"os"
	"strings"
	"time"

	"github.com/Garsondee/Route-Sense/internal/netclient"
	"github.com/Garsondee/Route-Sense/internal/orders"
	"github.com/Garsondee/Route-Sense/internal/pathing"
	"github.com/Garsondee/Route-Sense/internal/planlog"
	"github.com/Garsondee/Route-Sense/internal/render"
	"github.com/Garsondee/Route-Sense/internal/route"
	"github.com/Garsondee/Route-Sense/internal/scenario"
	"github.com/Garsondee/Route-Sense/internal/tilemap"
)

type config struct {
	scenario string
	unit     int
	to       string
	via      string
	nearest  bool
	patrol   bool
	connect  bool
	final    string
	restrict string
	verbose  bool
	addr     string
	pngPath  string
}

type reportStats struct {
	unit      int
	kind      orders.RouteKind
	waypoints []route.Waypoint
	path      []pathing.Tile
	steps     []orders.Step
	orders    []orders.Order
	final     orders.Activity
	cost      int
	turns     int
	rebuilds  int
	settled   int
	sent      bool
	verbose   bool
	log       *planlog.Log
}

func main() {
	var cfg config
	flag.StringVar(&cfg.scenario, "scenario", "", "scenario JSON file (default: built-in)")
	flag.IntVar(&cfg.unit, "unit", 101, "unit id to route")
	flag.StringVar(&cfg.to, "to", "", "destination tile x,y")
	flag.StringVar(&cfg.via, "via", "", "waypoints x,y;x,y")
	flag.BoolVar(&cfg.nearest, "nearest-city", false, "route to the nearest allied city instead of -to")
	flag.BoolVar(&cfg.patrol, "patrol", false, "report a patrol instead of a goto")
	flag.BoolVar(&cfg.connect, "connect", false, "report a road connect for a settler")
	flag.StringVar(&cfg.final, "final", "", "activity at the end of a goto: fortify, sentry, road")
	flag.StringVar(&cfg.restrict, "restrict", "any", "move restriction: any, cardinal, straight")
	flag.BoolVar(&cfg.verbose, "verbose", false, "print the planner log")
	flag.StringVar(&cfg.addr, "send", "", "websocket URL of an orders sink")
	flag.StringVar(&cfg.pngPath, "png", "", "write a snapshot of the route to this file")
	flag.Parse()

	rs, err := runReport(cfg)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}
	printReport(os.Stdout, rs)
}

func runReport(cfg config) (reportStats, error) {
	if cfg.to == "" && !cfg.nearest {
		return reportStats{}, errors.New("-to or -nearest-city is required")
	}
	if cfg.patrol && cfg.connect {
		return reportStats{}, errors.New("-patrol and -connect are exclusive")
	}
	final, err := orders.ParseActivity(cfg.final)
	if err != nil {
		return reportStats{}, err
	}
	if final != orders.ActivityNone && (cfg.patrol || cfg.connect) {
		return reportStats{}, errors.New("-final only applies to a goto")
	}
	sc, err := scenario.Load(cfg.scenario)
	if err != nil {
		return reportStats{}, err
	}
	m, err := sc.Build()
	if err != nil {
		return reportStats{}, err
	}
	u, ok := m.Unit(cfg.unit)
	if !ok {
		return reportStats{}, fmt.Errorf("no unit %d in scenario %q", cfg.unit, sc.Name)
	}
	if cfg.connect && !u.Flags.Settlers {
		return reportStats{}, fmt.Errorf("unit %d: %w", u.ID, orders.ErrNotSettlers)
	}
	restriction, err := scenario.ParseRestriction(cfg.restrict)
	if err != nil {
		return reportStats{}, err
	}
	via, err := scenario.ParseTiles(cfg.via)
	if err != nil {
		return reportStats{}, err
	}

	log := planlog.New(cfg.verbose)
	overlay := render.NewOverlay()
	s := route.NewSession(m, overlay, route.WithLog(log), route.WithRestriction(restriction))
	mover := u.Mover()
	s.Enter(mover)
	defer s.Exit()

	for _, t := range via {
		t, err := onMap(m, t)
		if err != nil {
			return reportStats{}, err
		}
		if !s.DrawLine(t) {
			return reportStats{}, fmt.Errorf("no path to waypoint (%d,%d)", t.X, t.Y)
		}
		if !s.AddWaypoint() {
			return reportStats{}, fmt.Errorf("waypoint (%d,%d) repeats the previous stop", t.X, t.Y)
		}
	}
	if cfg.nearest {
		if !s.DrawToNearest(func(t pathing.Tile) bool { return m.IsAlliedCity(t, u.Owner) }) {
			return reportStats{}, errors.New("no reachable allied city")
		}
	} else {
		dest, err := scenario.ParseTile(cfg.to)
		if err != nil {
			return reportStats{}, err
		}
		if dest, err = onMap(m, dest); err != nil {
			return reportStats{}, err
		}
		if !s.DrawLine(dest) {
			return reportStats{}, fmt.Errorf("no path to (%d,%d)", dest.X, dest.Y)
		}
	}

	rs := reportStats{
		unit:      u.ID,
		kind:      orders.KindGoto,
		waypoints: s.Waypoints(),
		turns:     s.Turns(),
		cost:      s.Costs().Cost(s.LineDest()),
		rebuilds:  log.CountCategory("rebuild", "done"),
		settled:   s.Costs().Settled,
		final:     final,
		verbose:   cfg.verbose,
		log:       log,
	}
	for _, w := range rs.waypoints {
		rs.cost += w.LegCost
	}
	rs.path = orders.GotoPath(s)
	switch {
	case cfg.patrol:
		rs.kind = orders.KindPatrol
		rs.path = orders.PatrolPath(s)
	case cfg.connect:
		rs.kind = orders.KindConnect
		if rs.orders, err = orders.ConnectOrders(m, rs.path); err != nil {
			return reportStats{}, err
		}
		rs.turns = orders.ConnectTurns(s, m)
	}
	rs.steps = orders.Steps(m, rs.path)

	if cfg.pngPath != "" {
		if err := writeSnapshot(cfg.pngPath, m, overlay, s, u.Owner); err != nil {
			return rs, err
		}
	}
	if cfg.addr != "" {
		if err := send(cfg.addr, s, mover, m, rs.kind, final); err != nil {
			return rs, err
		}
		rs.sent = true
	}
	return rs, nil
}

func send(addr string, s *route.Session, u pathing.Unit, m *tilemap.Map, kind orders.RouteKind, final orders.Activity) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	c, err := netclient.Dial(ctx, addr)
	if err != nil {
		return err
	}
	defer c.Close()
	switch kind {
	case orders.KindPatrol:
		return orders.SendPatrolRoute(ctx, c, s, u)
	case orders.KindConnect:
		return orders.SendConnectRoute(ctx, c, s, u, m)
	}
	return orders.SendGotoRouteThen(ctx, c, s, u, final)
}

func writeSnapshot(path string, m *tilemap.Map, o *render.Overlay, s *route.Session, viewer int) error {
	img := render.Snapshot(m, o, s.Waypoints(), viewer, 24, fmt.Sprintf("turns=%d", s.Turns()))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("snapshot: %w", err)
	}
	return f.Close()
}

func printReport(w io.Writer, rs reportStats) {
	fmt.Fprintf(w, "=== Route Report ===\n")
	fmt.Fprintf(w, "unit=%d kind=%s waypoints=%d length=%d cost=%d turns=%d\n",
		rs.unit, rs.kind, len(rs.waypoints)-1, len(rs.path)-1, rs.cost, rs.turns)
	fmt.Fprintf(w, "path: %s\n", joinTiles(rs.path))
	fmt.Fprintf(w, "steps: %s\n", joinSteps(rs.steps))
	if rs.kind == orders.KindConnect {
		fmt.Fprintf(w, "work: roads=%d orders=%d\n", countWork(rs.orders), len(rs.orders))
	}
	if rs.final != orders.ActivityNone {
		fmt.Fprintf(w, "final: %s\n", rs.final)
	}
	fmt.Fprintf(w, "planner: rebuilds=%d settled=%d\n", rs.rebuilds, rs.settled)
	if rs.sent {
		fmt.Fprintf(w, "orders: sent\n")
	}
	if rs.verbose && rs.log != nil {
		fmt.Fprintf(w, "\n--- planner log ---\n%s", rs.log.Format())
	}
}

// onMap normalizes t for wrapping maps and rejects tiles outside the map.
func onMap(m *tilemap.Map, t pathing.Tile) (pathing.Tile, error) {
	n, ok := m.Normalize(t)
	if !ok {
		return pathing.Tile{}, fmt.Errorf("tile (%d,%d) is off the %dx%d map", t.X, t.Y, m.Cols, m.Rows)
	}
	return n, nil
}

func countWork(ords []orders.Order) int {
	n := 0
	for _, o := range ords {
		if o.Kind == orders.OrderActivity {
			n++
		}
	}
	return n
}

func joinTiles(path []pathing.Tile) string {
	parts := make([]string, len(path))
	for i, t := range path {
		parts[i] = fmt.Sprintf("(%d,%d)", t.X, t.Y)
	}
	return strings.Join(parts, " ")
}

func joinSteps(steps []orders.Step) string {
	parts := make([]string, len(steps))
	for i, s := range steps {
		parts[i] = s.Dir.String()
	}
	return strings.Join(parts, " ")
}
