// Package control maps player actions onto a goto session. Front ends
// translate their own input events into these calls.
package control

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Garsondee/Route-Sense/internal/cue"
	"github.com/Garsondee/Route-Sense/internal/orders"
	"github.com/Garsondee/Route-Sense/internal/pathing"
	"github.com/Garsondee/Route-Sense/internal/planlog"
	"github.com/Garsondee/Route-Sense/internal/route"
	"github.com/Garsondee/Route-Sense/internal/tilemap"
)

// sendTimeout bounds one orders round trip.
const sendTimeout = 5 * time.Second

// Cues plays feedback sounds.
type Cues interface {
	Play(cue.Kind)
}

type silent struct{}

func (silent) Play(cue.Kind) {}

// LocalSender accepts every request and records it in a log. It stands in
// for a server when none is configured.
type LocalSender struct {
	Log  *planlog.Log
	Sent []orders.RouteRequest
}

func (l *LocalSender) SendRoute(_ context.Context, req orders.RouteRequest) error {
	l.Sent = append(l.Sent, req)
	l.Log.Add("orders", "local",
		fmt.Sprintf("%s unit=%d length=%d dest=(%d,%d)", req.Kind, req.UnitID, req.Length, req.Dest.X, req.Dest.Y),
		float64(req.Length))
	return nil
}

// Controller holds the selection and the goto session for one player.
type Controller struct {
	Map    *tilemap.Map
	Viewer int

	session  *route.Session
	sender   orders.Sender
	cues     Cues
	log      *planlog.Log
	selected *tilemap.Unit
	hover    pathing.Tile
	blocked  bool

	// Final is what units do when a goto arrives.
	Final orders.Activity

	// Status is a one-line description of the last action.
	Status string
}

// New creates a controller. renderer receives route segments; a nil cues
// plays nothing.
func New(m *tilemap.Map, viewer int, renderer route.Renderer, sender orders.Sender, cues Cues, log *planlog.Log, restriction pathing.Restriction) *Controller {
	if cues == nil {
		cues = silent{}
	}
	return &Controller{
		Map:     m,
		Viewer:  viewer,
		session: route.NewSession(m, renderer, route.WithLog(log), route.WithRestriction(restriction)),
		sender:  sender,
		cues:    cues,
		log:     log,
		Status:  "select a unit",
	}
}

// Session exposes the underlying goto session.
func (c *Controller) Session() *route.Session { return c.session }

// Selected returns the selected unit, if any.
func (c *Controller) Selected() (*tilemap.Unit, bool) {
	return c.selected, c.selected != nil
}

// Select picks the viewer's first unit on t and starts a goto for it.
// It reports false if there is none.
func (c *Controller) Select(t pathing.Tile) bool {
	for _, u := range c.Map.UnitsAt(t) {
		if u.Owner != c.Viewer {
			continue
		}
		c.session.Exit()
		c.selected = u
		c.hover = u.Pos
		c.blocked = false
		c.session.Enter(u.Mover())
		c.Status = fmt.Sprintf("%s (%d): goto", u.Name, u.ID)
		return true
	}
	return false
}

// CycleUnit selects the viewer's next unit after the current one.
func (c *Controller) CycleUnit() bool {
	var own []*tilemap.Unit
	for _, u := range c.Map.Units() {
		if u.Owner == c.Viewer {
			own = append(own, u)
		}
	}
	if len(own) == 0 {
		return false
	}
	next := own[0]
	for i, u := range own {
		if u == c.selected {
			next = own[(i+1)%len(own)]
			break
		}
	}
	return c.Select(next.Pos)
}

// Hover points the goto line at t. Hovering the same tile twice does
// nothing.
func (c *Controller) Hover(t pathing.Tile) {
	if !c.session.Active() {
		return
	}
	t, ok := c.Map.Normalize(t)
	if !ok || t == c.hover {
		return
	}
	c.hover = t
	c.drawTo(func() bool { return c.session.DrawLine(t) })
}

// NearestCity points the goto line at the closest allied city.
func (c *Controller) NearestCity() {
	if !c.session.Active() {
		return
	}
	owner := c.selected.Owner
	c.drawTo(func() bool {
		return c.session.DrawToNearest(func(t pathing.Tile) bool { return c.Map.IsAlliedCity(t, owner) })
	})
	c.hover = c.session.LineDest()
}

func (c *Controller) drawTo(draw func() bool) {
	if draw() {
		c.blocked = false
		c.Status = fmt.Sprintf("turns %d", c.session.Turns())
		return
	}
	if !c.blocked {
		c.cues.Play(cue.NoPath)
	}
	c.blocked = true
	c.Status = "no path"
}

// AddWaypoint confirms the current line end as a waypoint.
func (c *Controller) AddWaypoint() bool {
	if !c.session.Active() || !c.session.AddWaypoint() {
		return false
	}
	c.cues.Play(cue.Waypoint)
	c.Status = fmt.Sprintf("waypoint %d, turns %d", len(c.session.Waypoints())-1, c.session.Turns())
	return true
}

// PopWaypoint drops the newest waypoint.
func (c *Controller) PopWaypoint() bool {
	if !c.session.CanPopWaypoint() {
		return false
	}
	c.session.PopWaypoint()
	c.cues.Play(cue.Pop)
	c.Status = fmt.Sprintf("waypoint removed, turns %d", c.session.Turns())
	return true
}

// Cancel abandons the goto and clears the selection.
func (c *Controller) Cancel() {
	c.session.Exit()
	c.selected = nil
	c.Status = "select a unit"
}

// SendGoto sends the route as a goto and ends the session on success.
func (c *Controller) SendGoto() error {
	return c.sendWith(orders.KindGoto)
}

// SendPatrol sends the route as a patrol and ends the session on success.
func (c *Controller) SendPatrol() error {
	return c.sendWith(orders.KindPatrol)
}

// SendConnect sends the route as a road connect for a settler.
func (c *Controller) SendConnect() error {
	return c.sendWith(orders.KindConnect)
}

func (c *Controller) sendWith(kind orders.RouteKind) error {
	if !c.session.Active() {
		return errors.New("no goto in progress")
	}
	if len(c.session.Route()) == 0 {
		c.Status = "route is empty"
		return errors.New("route is empty")
	}
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	u := c.selected
	var err error
	switch kind {
	case orders.KindPatrol:
		err = orders.SendPatrolRoute(ctx, c.sender, c.session, u.Mover())
	case orders.KindConnect:
		err = orders.SendConnectRoute(ctx, c.sender, c.session, u.Mover(), c.Map)
	default:
		err = orders.SendGotoRouteThen(ctx, c.sender, c.session, u.Mover(), c.Final)
	}
	if err != nil {
		c.cues.Play(cue.Rejected)
		c.Status = err.Error()
		c.log.Add("orders", "error", err.Error(), 0)
		return err
	}
	c.cues.Play(cue.Sent)
	c.session.Exit()
	c.selected = nil
	c.Status = fmt.Sprintf("%s sent for %s (%d)", kind, u.Name, u.ID)
	c.log.Add("orders", "sent", c.Status, 0)
	return nil
}

// ClearOrders cancels the selected unit's orders on the server.
func (c *Controller) ClearOrders() error {
	if c.selected == nil {
		return errors.New("no unit selected")
	}
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()
	if err := orders.SendClearOrders(ctx, c.sender, c.selected.Mover()); err != nil {
		c.cues.Play(cue.Rejected)
		c.Status = err.Error()
		return err
	}
	c.cues.Play(cue.Sent)
	c.Status = fmt.Sprintf("orders cleared for %s (%d)", c.selected.Name, c.selected.ID)
	return nil
}

// RouteText describes the route for the clipboard: the path followed by
// one direction per step.
func (c *Controller) RouteText() string {
	if !c.session.Active() {
		return ""
	}
	path := orders.GotoPath(c.session)
	var sb strings.Builder
	for i, t := range path {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "(%d,%d)", t.X, t.Y)
	}
	sb.WriteByte('\n')
	for i, s := range orders.Steps(c.Map, path) {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(s.Dir.String())
	}
	fmt.Fprintf(&sb, "\nturns=%d\n", c.session.Turns())
	return sb.String()
}
