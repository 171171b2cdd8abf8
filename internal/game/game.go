// Package game is the windowed goto client: it draws a scenario map with
// ebiten and lets the player plot, edit and send unit routes with the
// mouse and keyboard.
package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/Garsondee/Route-Sense/internal/control"
	"github.com/Garsondee/Route-Sense/internal/orders"
	"github.com/Garsondee/Route-Sense/internal/pathing"
	"github.com/Garsondee/Route-Sense/internal/planlog"
	"github.com/Garsondee/Route-Sense/internal/render"
	"github.com/Garsondee/Route-Sense/internal/tilemap"
)

// borderWidth is the pixel gap between the window edge and the map.
const borderWidth = 24

// panelWidth is the status panel to the right of the map.
const panelWidth = 300

// action is one keyboard command.
type action int

const (
	actNone action = iota
	actPop
	actGoto
	actPatrol
	actCancel
	actCopy
	actNearest
	actClear
	actCycle
	actConnect
	actHelp
)

// keyBindings maps edge-triggered keys to actions.
var keyBindings = map[ebiten.Key]action{
	ebiten.KeyBackspace: actPop,
	ebiten.KeyG:         actGoto,
	ebiten.KeyEnter:     actGoto,
	ebiten.KeyP:         actPatrol,
	ebiten.KeyEscape:    actCancel,
	ebiten.KeyC:         actCopy,
	ebiten.KeyN:         actNearest,
	ebiten.KeyX:         actClear,
	ebiten.KeyTab:       actCycle,
	ebiten.KeyR:         actConnect,
	ebiten.KeyH:         actHelp,
}

var helpLines = []string{
	"click unit: select   click map: waypoint",
	"Backspace/right click: remove waypoint",
	"G/Enter: goto   P: patrol   N: nearest city",
	"R: road connect   X: clear orders",
	"C: copy route   Tab: next unit",
	"Esc: cancel   H: hide help",
}

// Config describes one window session.
type Config struct {
	Map         *tilemap.Map
	Name        string
	Viewer      int
	Sender      orders.Sender // nil records orders locally
	Cues        control.Cues
	Log         *planlog.Log
	Restriction pathing.Restriction
	Final       orders.Activity // done at the end of every goto
	TileSize    float32
}

type Game struct {
	width  int
	height int
	name   string

	m       *tilemap.Map
	overlay *render.Overlay
	segs    []render.Segment // overlay contents, refreshed when it changes
	ctrl    *control.Controller
	log     *planlog.Log
	view    render.View

	showHelp bool
	copyText func(string) error
}

// New builds the window for cfg.
func New(cfg Config) *Game {
	if cfg.TileSize <= 0 {
		cfg.TileSize = 32
	}
	sender := cfg.Sender
	if sender == nil {
		sender = &control.LocalSender{Log: cfg.Log}
	}
	overlay := render.NewOverlay()
	g := &Game{
		width:    borderWidth + int(cfg.TileSize)*cfg.Map.Cols + borderWidth + panelWidth,
		height:   borderWidth + int(cfg.TileSize)*cfg.Map.Rows + borderWidth,
		name:     cfg.Name,
		m:        cfg.Map,
		overlay:  overlay,
		ctrl:     control.New(cfg.Map, cfg.Viewer, overlay, sender, cfg.Cues, cfg.Log, cfg.Restriction),
		log:      cfg.Log,
		view:     render.View{OffX: borderWidth, OffY: borderWidth, TileSize: cfg.TileSize},
		showHelp: true,
		copyText: writeClipboard,
	}
	g.ctrl.Final = cfg.Final
	return g
}

// Size returns the window size the game lays out at.
func (g *Game) Size() (int, int) { return g.width, g.height }

func (g *Game) Update() error {
	g.handleInput()
	g.syncSegments()
	return nil
}

// syncSegments copies the overlay out only on frames where it changed.
func (g *Game) syncSegments() {
	if g.overlay.TakeDirty() {
		g.segs = g.overlay.Segments()
	}
}

// handleInput processes mouse and edge-triggered keys.
func (g *Game) handleInput() {
	mx, my := ebiten.CursorPosition()
	t := g.view.TileAt(mx, my)
	onMap := g.m.Contains(t)
	if onMap {
		g.ctrl.Hover(t)
	}
	if onMap && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.click(t)
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		g.apply(actPop)
	}
	for k, a := range keyBindings {
		if inpututil.IsKeyJustPressed(k) {
			g.apply(a)
		}
	}
}

// click selects a unit when no goto is running, otherwise it confirms a
// waypoint at t.
func (g *Game) click(t pathing.Tile) {
	if !g.ctrl.Session().Active() {
		g.ctrl.Select(t)
		return
	}
	g.ctrl.Hover(t)
	g.ctrl.AddWaypoint()
}

func (g *Game) apply(a action) {
	switch a {
	case actPop:
		g.ctrl.PopWaypoint()
	case actGoto:
		g.ctrl.SendGoto()
	case actPatrol:
		g.ctrl.SendPatrol()
	case actCancel:
		g.ctrl.Cancel()
	case actNearest:
		g.ctrl.NearestCity()
	case actClear:
		g.ctrl.ClearOrders()
	case actCycle:
		g.ctrl.CycleUnit()
	case actConnect:
		g.ctrl.SendConnect()
	case actHelp:
		g.showHelp = !g.showHelp
	case actCopy:
		text := g.ctrl.RouteText()
		if text == "" {
			return
		}
		if err := g.copyText(text); err != nil {
			g.ctrl.Status = fmt.Sprintf("copy failed: %v", err)
			return
		}
		g.ctrl.Status = "route copied"
	}
}

// panelLines is the text shown beside the map.
func (g *Game) panelLines() []string {
	lines := []string{g.name, ""}
	if u, ok := g.ctrl.Selected(); ok {
		s := g.ctrl.Session()
		lines = append(lines,
			fmt.Sprintf("unit %d %s", u.ID, u.Name),
			fmt.Sprintf("at (%d,%d) %s", u.Pos.X, u.Pos.Y, u.Domain),
			fmt.Sprintf("waypoints %d", len(s.Waypoints())-1),
			fmt.Sprintf("length %d  turns %d", len(s.Route()), s.Turns()),
		)
	} else {
		lines = append(lines, "no unit selected")
	}
	lines = append(lines, "", g.ctrl.Status)
	if e, ok := g.log.LastOf("orders", ""); ok {
		lines = append(lines, "", "last: "+e.Value)
	}
	if g.showHelp {
		lines = append(lines, "")
		lines = append(lines, helpLines...)
	}
	return lines
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 12, G: 14, B: 12, A: 255})
	render.DrawMap(screen, g.m, g.view, g.ctrl.Viewer)
	render.DrawSegments(screen, g.segs, g.view)
	if g.ctrl.Session().Active() {
		render.DrawWaypoints(screen, g.ctrl.Session().Waypoints(), g.view)
	}
	px := borderWidth + int(g.view.TileSize)*g.m.Cols + borderWidth/2
	render.DrawPanel(screen, g.panelLines(), px, borderWidth)
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}
