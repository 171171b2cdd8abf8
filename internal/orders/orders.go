// Package orders turns a finished goto into a unit orders request and
// hands it to a transport. It never changes the session it reads.
package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/Garsondee/Route-Sense/internal/pathing"
	"github.com/Garsondee/Route-Sense/internal/route"
)

// MaxRouteLength is the longest path a single request may carry.
const MaxRouteLength = 2000

// ErrRouteTooLong is returned instead of sending an oversized path.
var ErrRouteTooLong = errors.New("orders: route too long")

// RouteKind tags a request as a one-way goto, a repeating patrol or a
// connect that works each tile it passes.
type RouteKind uint8

const (
	KindGoto RouteKind = iota
	KindPatrol
	KindConnect
)

func (k RouteKind) String() string {
	switch k {
	case KindGoto:
		return "goto"
	case KindPatrol:
		return "patrol"
	case KindConnect:
		return "connect"
	default:
		return "unknown"
	}
}

// RouteRequest is the payload sent for one unit. Path starts at the
// unit's tile; Length counts the steps after it. Connect requests spell
// out every move and activity in Orders. Final is done on arrival.
type RouteRequest struct {
	UnitID int            `json:"unit_id"`
	Kind   RouteKind      `json:"kind"`
	Length int            `json:"length"`
	Path   []pathing.Tile `json:"path"`
	Dest   pathing.Tile   `json:"dest"`
	Orders []Order        `json:"orders,omitempty"`
	Final  Activity       `json:"final,omitempty"`
}

// Sender delivers route requests.
type Sender interface {
	SendRoute(ctx context.Context, req RouteRequest) error
}

// GotoPath returns the origin followed by every route tile.
func GotoPath(s *route.Session) []pathing.Tile {
	r := s.Route()
	path := make([]pathing.Tile, 0, len(r)+1)
	path = append(path, s.Origin())
	return append(path, r...)
}

// PatrolPath returns the route out and back: origin, r1..rn, rn-1..r1,
// origin. The turnaround tile appears once.
func PatrolPath(s *route.Session) []pathing.Tile {
	r := s.Route()
	if len(r) == 0 {
		return []pathing.Tile{s.Origin()}
	}
	path := make([]pathing.Tile, 0, 2*len(r)+1)
	path = append(path, s.Origin())
	path = append(path, r...)
	for i := len(r) - 2; i >= 0; i-- {
		path = append(path, r[i])
	}
	return append(path, s.Origin())
}

func checkSession(s *route.Session, u pathing.Unit) {
	if !s.Active() {
		panic(fmt.Sprintf("orders: no goto in progress for unit %d", u.ID))
	}
	if s.Unit().ID != u.ID {
		panic(fmt.Sprintf("orders: goto belongs to unit %d, not %d", s.Unit().ID, u.ID))
	}
}

func newRequest(u pathing.Unit, kind RouteKind, path []pathing.Tile) (RouteRequest, error) {
	if len(path)-1 > MaxRouteLength {
		return RouteRequest{}, fmt.Errorf("unit %d %s of %d steps: %w", u.ID, kind, len(path)-1, ErrRouteTooLong)
	}
	return RouteRequest{
		UnitID: u.ID,
		Kind:   kind,
		Length: len(path) - 1,
		Path:   path,
		Dest:   path[len(path)-1],
	}, nil
}

func send(ctx context.Context, sender Sender, req RouteRequest) error {
	if err := sender.SendRoute(ctx, req); err != nil {
		return fmt.Errorf("send %s for unit %d: %w", req.Kind, req.UnitID, err)
	}
	return nil
}

// SendGotoRoute sends the session's route as a one-way goto for u.
func SendGotoRoute(ctx context.Context, sender Sender, s *route.Session, u pathing.Unit) error {
	return SendGotoRouteThen(ctx, sender, s, u, ActivityNone)
}

// SendGotoRouteThen sends a goto that ends with final, for example
// fortifying on arrival.
func SendGotoRouteThen(ctx context.Context, sender Sender, s *route.Session, u pathing.Unit, final Activity) error {
	checkSession(s, u)
	if !final.finishesGoto() {
		return fmt.Errorf("unit %d: %s: %w", u.ID, final, ErrBadActivity)
	}
	req, err := newRequest(u, KindGoto, GotoPath(s))
	if err != nil {
		return err
	}
	req.Final = final
	return send(ctx, sender, req)
}

// SendPatrolRoute sends the session's route as an out-and-back patrol.
func SendPatrolRoute(ctx context.Context, sender Sender, s *route.Session, u pathing.Unit) error {
	checkSession(s, u)
	req, err := newRequest(u, KindPatrol, PatrolPath(s))
	if err != nil {
		return err
	}
	return send(ctx, sender, req)
}

// SendClearOrders cancels u's orders with an empty goto ending where it
// stands.
func SendClearOrders(ctx context.Context, sender Sender, u pathing.Unit) error {
	return send(ctx, sender, RouteRequest{
		UnitID: u.ID,
		Kind:   KindGoto,
		Path:   []pathing.Tile{u.Pos},
		Dest:   u.Pos,
	})
}

// Step is one move of a route.
type Step struct {
	From pathing.Tile
	Dir  pathing.Direction
}

// Steps turns a path into moves. Repeated tiles become waits with
// DirNone.
func Steps(grid pathing.Grid, path []pathing.Tile) []Step {
	if len(path) < 2 {
		return nil
	}
	out := make([]Step, 0, len(path)-1)
	for i := 1; i < len(path); i++ {
		d := pathing.DirNone
		if path[i] != path[i-1] {
			d = pathing.DirectionBetween(grid, path[i-1], path[i])
		}
		out = append(out, Step{From: path[i-1], Dir: d})
	}
	return out
}
