package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/Garsondee/Route-Sense/internal/pathing"
	"github.com/Garsondee/Route-Sense/internal/route"
)

var (
	ErrBadActivity   = errors.New("orders: unknown activity")
	ErrNotSettlers   = errors.New("orders: unit cannot build roads")
	ErrCannotConnect = errors.New("orders: no road can be built on the route")
)

// Activity is work or a stance a unit takes up on its tile.
type Activity uint8

const (
	ActivityNone Activity = iota
	ActivityRoad
	ActivityFortify
	ActivitySentry
	activityCount
)

var activityNames = [activityCount]string{
	ActivityNone:    "none",
	ActivityRoad:    "road",
	ActivityFortify: "fortify",
	ActivitySentry:  "sentry",
}

func (a Activity) String() string {
	if a >= activityCount {
		return "unknown"
	}
	return activityNames[a]
}

// Valid reports whether a is a known activity.
func (a Activity) Valid() bool { return a < activityCount }

func (a Activity) finishesGoto() bool { return a.Valid() }

// ParseActivity accepts the names String returns. The empty string is
// ActivityNone.
func ParseActivity(name string) (Activity, error) {
	if name == "" {
		return ActivityNone, nil
	}
	for a := Activity(0); a < activityCount; a++ {
		if activityNames[a] == name {
			return a, nil
		}
	}
	return ActivityNone, fmt.Errorf("%q: %w", name, ErrBadActivity)
}

// OrderKind is what one order asks of the unit.
type OrderKind uint8

const (
	OrderMove OrderKind = iota
	OrderActivity
)

// Order is one entry of a connect request. Activity orders carry DirNone.
type Order struct {
	Kind     OrderKind         `json:"kind"`
	Dir      pathing.Direction `json:"dir"`
	Activity Activity          `json:"activity,omitempty"`
}

// Worksite is the map as a road connect sees it.
type Worksite interface {
	pathing.Grid
	HasRoad(t pathing.Tile) bool
	// RoadTime is the worker turns a road on t takes, 0 if none can be
	// built there.
	RoadTime(t pathing.Tile) int
}

// ConnectOrders walks path and builds a road on every tile that lacks
// one before moving on. The last tile is worked too.
func ConnectOrders(site Worksite, path []pathing.Tile) ([]Order, error) {
	out := make([]Order, 0, 2*len(path))
	for i, t := range path {
		if !site.HasRoad(t) {
			if site.RoadTime(t) == 0 {
				return nil, fmt.Errorf("(%d,%d): %w", t.X, t.Y, ErrCannotConnect)
			}
			out = append(out, Order{Kind: OrderActivity, Dir: pathing.DirNone, Activity: ActivityRoad})
		}
		if i == len(path)-1 {
			break
		}
		d := pathing.DirectionBetween(site, t, path[i+1])
		if d == pathing.DirNone {
			return nil, fmt.Errorf("(%d,%d) to (%d,%d): not a single step", t.X, t.Y, path[i+1].X, path[i+1].Y)
		}
		out = append(out, Order{Kind: OrderMove, Dir: d})
	}
	return out, nil
}

// ConnectTurns is the goto estimate plus the road work along the route,
// including the unit's own tile.
func ConnectTurns(s *route.Session, site Worksite) int {
	turns := s.Turns()
	for _, t := range GotoPath(s) {
		if !site.HasRoad(t) {
			turns += site.RoadTime(t)
		}
	}
	return turns
}

// SendConnectRoute sends the session's route as a road connect for u.
func SendConnectRoute(ctx context.Context, sender Sender, s *route.Session, u pathing.Unit, site Worksite) error {
	checkSession(s, u)
	if !u.Flags.Settlers {
		return fmt.Errorf("unit %d: %w", u.ID, ErrNotSettlers)
	}
	path := GotoPath(s)
	ords, err := ConnectOrders(site, path)
	if err != nil {
		return fmt.Errorf("unit %d: %w", u.ID, err)
	}
	if len(ords) > MaxRouteLength {
		return fmt.Errorf("unit %d connect of %d orders: %w", u.ID, len(ords), ErrRouteTooLong)
	}
	req, err := newRequest(u, KindConnect, path)
	if err != nil {
		return err
	}
	req.Orders = ords
	return send(ctx, sender, req)
}
