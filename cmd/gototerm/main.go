package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/Garsondee/Route-Sense/internal/control"
	"github.com/Garsondee/Route-Sense/internal/cue"
	"github.com/Garsondee/Route-Sense/internal/netclient"
	"github.com/Garsondee/Route-Sense/internal/orders"
	"github.com/Garsondee/Route-Sense/internal/pathing"
	"github.com/Garsondee/Route-Sense/internal/planlog"
	"github.com/Garsondee/Route-Sense/internal/route"
	"github.com/Garsondee/Route-Sense/internal/scenario"
	"github.com/Garsondee/Route-Sense/internal/termview"
	"github.com/Garsondee/Route-Sense/internal/tilemap"
)

// viKeys move the cursor like a roguelike.
var viKeys = map[rune]pathing.Direction{
	'y': pathing.DirNW, 'k': pathing.DirN, 'u': pathing.DirNE,
	'h': pathing.DirW, 'l': pathing.DirE,
	'b': pathing.DirSW, 'j': pathing.DirS, 'n': pathing.DirSE,
}

var arrowKeys = map[tcell.Key]pathing.Direction{
	tcell.KeyUp:    pathing.DirN,
	tcell.KeyDown:  pathing.DirS,
	tcell.KeyLeft:  pathing.DirW,
	tcell.KeyRight: pathing.DirE,
}

type term struct {
	screen tcell.Screen
	view   *termview.View
	ctrl   *control.Controller
}

func newTerm(screen tcell.Screen, m *tilemap.Map, viewer int, sender orders.Sender, cues control.Cues, restriction pathing.Restriction) *term {
	view := termview.New(screen, m, viewer)
	if sender == nil {
		sender = &control.LocalSender{Log: planlog.New(false)}
	}
	t := &term{
		screen: screen,
		view:   view,
		ctrl:   control.New(m, viewer, view, sender, cues, nil, restriction),
	}
	if own := firstUnit(m, viewer); own != nil {
		view.Cursor = own.Pos
	}
	return t
}

func firstUnit(m *tilemap.Map, owner int) *tilemap.Unit {
	for _, u := range m.Units() {
		if u.Owner == owner {
			return u
		}
	}
	return nil
}

// handleEvent applies one event and reports whether to keep running.
func (t *term) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if d, ok := arrowKeys[ev.Key()]; ok {
			t.moveCursor(d)
			break
		}
		switch ev.Key() {
		case tcell.KeyEscape:
			if !t.ctrl.Session().Active() {
				return false
			}
			t.ctrl.Cancel()
		case tcell.KeyEnter:
			t.confirm()
		case tcell.KeyBackspace, tcell.KeyBackspace2:
			t.ctrl.PopWaypoint()
		case tcell.KeyTab:
			if t.ctrl.CycleUnit() {
				u, _ := t.ctrl.Selected()
				t.view.Cursor = u.Pos
			}
		case tcell.KeyRune:
			return t.handleRune(ev.Rune())
		}
	case *tcell.EventMouse:
		tile, ok := t.view.TileAt(ev.Position())
		if !ok {
			break
		}
		t.view.Cursor = tile
		t.ctrl.Hover(tile)
		if ev.Buttons()&tcell.Button1 != 0 {
			t.confirm()
		}
	case *tcell.EventResize:
		t.screen.Sync()
	}
	return true
}

func (t *term) handleRune(r rune) bool {
	if d, ok := viKeys[r]; ok {
		t.moveCursor(d)
		return true
	}
	switch r {
	case 'q':
		return false
	case ' ':
		t.confirm()
	case 'g':
		t.ctrl.SendGoto()
	case 'p':
		t.ctrl.SendPatrol()
	case 'c':
		if t.ctrl.Session().Active() {
			t.ctrl.NearestCity()
			t.view.Cursor = t.ctrl.Session().LineDest()
		}
	case 'r':
		t.ctrl.SendConnect()
	case 'x':
		t.ctrl.ClearOrders()
	}
	return true
}

func (t *term) moveCursor(d pathing.Direction) {
	t.view.MoveCursor(d)
	t.ctrl.Hover(t.view.Cursor)
}

// confirm selects a unit under the cursor, or adds a waypoint when a goto
// is already running.
func (t *term) confirm() {
	if !t.ctrl.Session().Active() {
		t.ctrl.Select(t.view.Cursor)
		return
	}
	t.ctrl.AddWaypoint()
}

func (t *term) draw() {
	t.view.Status = t.ctrl.Status
	var wps []route.Waypoint
	if t.ctrl.Session().Active() {
		wps = t.ctrl.Session().Waypoints()
	}
	t.view.Draw(wps)
}

func (t *term) run() {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			eventChan <- t.screen.PollEvent()
		}
	}()

	t.draw()
	for {
		select {
		case ev := <-eventChan:
			if !t.handleEvent(ev) {
				return
			}
		case <-ticker.C:
			t.draw()
		}
	}
}

func main() {
	scenarioPath := flag.String("scenario", "", "scenario JSON file (default: built-in)")
	viewer := flag.Int("player", 0, "player whose units can be routed")
	addr := flag.String("addr", "", "websocket URL of an orders sink (default: record locally)")
	restrict := flag.String("restrict", "any", "move restriction: any, cardinal, straight")
	mute := flag.Bool("mute", false, "disable sound cues")
	final := flag.String("final", "", "activity at the end of a goto: fortify, sentry, road")
	flag.Parse()

	if err := runTerm(*scenarioPath, *viewer, *addr, *restrict, *final, *mute); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func runTerm(scenarioPath string, viewer int, addr, restrict, final string, mute bool) error {
	sc, err := scenario.Load(scenarioPath)
	if err != nil {
		return err
	}
	m, err := sc.Build()
	if err != nil {
		return err
	}
	restriction, err := scenario.ParseRestriction(restrict)
	if err != nil {
		return err
	}
	finalActivity, err := orders.ParseActivity(final)
	if err != nil {
		return err
	}

	var sender orders.Sender
	if addr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		c, err := netclient.Dial(ctx, addr)
		cancel()
		if err != nil {
			return err
		}
		defer c.Close()
		sender = c
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initialize screen: %w", err)
	}
	screen.EnableMouse()
	defer screen.Fini()

	var cues control.Cues
	if !mute {
		player := cue.NewPlayer(0.3)
		defer player.Close()
		cues = player
	}

	t := newTerm(screen, m, viewer, sender, cues, restriction)
	t.ctrl.Final = finalActivity
	t.run()
	return nil
}
