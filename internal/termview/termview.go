// Package termview draws a map and its goto line on a terminal with tcell.
//
// Tiles sit on even screen columns and rows. The cell between two
// neighbouring tiles holds the route segment joining them. Crossing
// diagonals share a cell and are drawn as an X.
package termview

import (
	"github.com/gdamore/tcell/v2"

	"github.com/Garsondee/Route-Sense/internal/pathing"
	"github.com/Garsondee/Route-Sense/internal/route"
	"github.com/Garsondee/Route-Sense/internal/tilemap"
)

var (
	styleBase   = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorGray)
	styleFog    = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.NewRGBColor(60, 60, 60))
	styleLand   = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.NewRGBColor(90, 160, 70))
	styleWater  = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.NewRGBColor(70, 110, 220))
	styleRoute  = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.NewRGBColor(255, 220, 60)).Bold(true)
	styleWaypt  = tcell.StyleDefault.Background(tcell.NewRGBColor(255, 120, 40)).Foreground(tcell.ColorBlack)
	styleOwn    = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.NewRGBColor(100, 170, 255)).Bold(true)
	styleEnemy  = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.NewRGBColor(255, 80, 80)).Bold(true)
	styleCity   = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite).Bold(true)
	styleStatus = tcell.StyleDefault.Background(tcell.NewRGBColor(30, 30, 40)).Foreground(tcell.ColorWhite)
)

// segmentRunes indexes by Direction.
var segmentRunes = [8]rune{'\\', '|', '/', '-', '-', '/', '|', '\\'}

// View renders one map onto a tcell screen. It is the route.Renderer for a
// terminal session.
type View struct {
	screen tcell.Screen
	m      *tilemap.Map
	viewer int

	segs   map[[2]int]map[rune]int
	Cursor pathing.Tile
	Status string
}

var _ route.Renderer = (*View)(nil)

// New returns a view of m for the player viewer.
func New(screen tcell.Screen, m *tilemap.Map, viewer int) *View {
	return &View{
		screen: screen,
		m:      m,
		viewer: viewer,
		segs:   make(map[[2]int]map[rune]int),
	}
}

// cellFor returns the screen cell holding the edge leaving t toward d.
func (v *View) cellFor(t pathing.Tile, d pathing.Direction) (int, int) {
	dx, dy := d.Vector()
	x, y := 2*t.X+dx, 2*t.Y+dy
	w, h := 2*v.m.Cols, 2*v.m.Rows
	if v.m.WrapX {
		x = (x + w) % w
	}
	if v.m.WrapY {
		y = (y + h) % h
	}
	return x, y
}

func (v *View) DrawSegment(t pathing.Tile, d pathing.Direction) {
	x, y := v.cellFor(t, d)
	cell := v.segs[[2]int{x, y}]
	if cell == nil {
		cell = make(map[rune]int, 2)
		v.segs[[2]int{x, y}] = cell
	}
	cell[segmentRunes[d]]++
}

// UndrawSegment removes one edge. The cell stays lit while another edge
// crosses it.
func (v *View) UndrawSegment(t pathing.Tile, d pathing.Direction) {
	x, y := v.cellFor(t, d)
	key := [2]int{x, y}
	cell := v.segs[key]
	r := segmentRunes[d]
	if cell[r] == 0 {
		return
	}
	cell[r]--
	if cell[r] == 0 {
		delete(cell, r)
	}
	if len(cell) == 0 {
		delete(v.segs, key)
	}
}

// Segments returns the number of edges on screen.
func (v *View) Segments() int {
	n := 0
	for _, cell := range v.segs {
		for _, c := range cell {
			n += c
		}
	}
	return n
}

// cellRune picks the glyph for a lit cell.
func cellRune(cell map[rune]int) rune {
	if cell['\\'] > 0 && cell['/'] > 0 {
		return 'X'
	}
	for r := range cell {
		return r
	}
	return ' '
}

// TileAt converts a screen cell to a tile, reporting false for cells
// between tiles or off the map.
func (v *View) TileAt(x, y int) (pathing.Tile, bool) {
	if x < 0 || y < 0 || x%2 != 0 || y%2 != 0 {
		return pathing.Tile{}, false
	}
	t := pathing.Tile{X: x / 2, Y: y / 2}
	return t, v.m.Contains(t)
}

// MoveCursor shifts the cursor one tile, wrapping where the map wraps.
func (v *View) MoveCursor(d pathing.Direction) {
	dx, dy := d.Vector()
	next, ok := v.m.Normalize(pathing.Tile{X: v.Cursor.X + dx, Y: v.Cursor.Y + dy})
	if ok {
		v.Cursor = next
	}
}

// Draw repaints the whole screen. Waypoints after the origin are
// highlighted.
func (v *View) Draw(wps []route.Waypoint) {
	v.screen.Clear()
	for y := 0; y < v.m.Rows; y++ {
		for x := 0; x < v.m.Cols; x++ {
			t := pathing.Tile{X: x, Y: y}
			r, st := v.tileGlyph(t)
			v.screen.SetContent(2*x, 2*y, r, nil, st)
		}
	}
	for key, cell := range v.segs {
		v.screen.SetContent(key[0], key[1], cellRune(cell), nil, styleRoute)
	}
	for i, w := range wps {
		if i == 0 {
			continue
		}
		r, _ := v.tileGlyph(w.Pos)
		v.screen.SetContent(2*w.Pos.X, 2*w.Pos.Y, r, nil, styleWaypt)
	}

	r, st := v.tileGlyph(v.Cursor)
	v.screen.SetContent(2*v.Cursor.X, 2*v.Cursor.Y, r, nil, st.Reverse(true))

	v.drawStatus()
	v.screen.Show()
}

func (v *View) tileGlyph(t pathing.Tile) (rune, tcell.Style) {
	tile := v.m.At(t)
	if !tile.Known {
		return ' ', styleFog
	}
	if units := v.m.UnitsAt(t); len(units) > 0 {
		u := units[0]
		r := 'u'
		if u.Domain == pathing.DomainSea {
			r = 'b'
		} else if u.Domain == pathing.DomainAir {
			r = 'a'
		}
		if v.m.Allied(u.Owner, v.viewer) {
			return r, styleOwn
		}
		return r - 'a' + 'A', styleEnemy
	}
	if _, ok := v.m.CityAt(t); ok {
		return '#', styleCity
	}
	if tile.Road {
		return '=', styleBase
	}
	if tile.Terrain.IsOcean() {
		return tile.Terrain.Glyph(), styleWater
	}
	return tile.Terrain.Glyph(), styleLand
}

func (v *View) drawStatus() {
	_, h := v.screen.Size()
	y := 2 * v.m.Rows
	if y >= h {
		y = h - 1
	}
	w := 2 * v.m.Cols
	for x := 0; x < w; x++ {
		v.screen.SetContent(x, y, ' ', nil, styleStatus)
	}
	for i, r := range []rune(v.Status) {
		if i >= w {
			break
		}
		v.screen.SetContent(i, y, r, nil, styleStatus)
	}
}
