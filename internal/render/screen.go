package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Route-Sense/internal/pathing"
	"github.com/Garsondee/Route-Sense/internal/route"
	"github.com/Garsondee/Route-Sense/internal/tilemap"
)

// View places the map on screen.
type View struct {
	OffX, OffY float32
	TileSize   float32
}

// Center returns the screen position of the middle of t.
func (v View) Center(t pathing.Tile) (float32, float32) {
	return v.OffX + (float32(t.X)+0.5)*v.TileSize, v.OffY + (float32(t.Y)+0.5)*v.TileSize
}

// TileAt converts a screen position to a tile. The result may be off the
// map; callers check with Map.Contains.
func (v View) TileAt(x, y int) pathing.Tile {
	fx := (float32(x) - v.OffX) / v.TileSize
	fy := (float32(y) - v.OffY) / v.TileSize
	tx, ty := int(fx), int(fy)
	if fx < 0 {
		tx--
	}
	if fy < 0 {
		ty--
	}
	return pathing.Tile{X: tx, Y: ty}
}

// DrawMap paints terrain, roads, cities and units as seen by viewer.
func DrawMap(screen *ebiten.Image, m *tilemap.Map, v View, viewer int) {
	ts := v.TileSize
	for y := 0; y < m.Rows; y++ {
		for x := 0; x < m.Cols; x++ {
			t := pathing.Tile{X: x, Y: y}
			tile := m.At(t)
			x0 := v.OffX + float32(x)*ts
			y0 := v.OffY + float32(y)*ts
			if !tile.Known {
				vector.DrawFilledRect(screen, x0, y0, ts, ts, fogColor, false)
				continue
			}
			vector.DrawFilledRect(screen, x0, y0, ts, ts, TerrainColor(tile.Terrain), false)
			if tile.Road {
				cx, cy := v.Center(t)
				vector.DrawFilledRect(screen, cx-ts/8, cy-ts/8, ts/4, ts/4, roadColor, false)
			}
		}
	}

	// Faint grid.
	grid := color.RGBA{R: 0, G: 0, B: 0, A: 40}
	for x := 0; x <= m.Cols; x++ {
		xf := v.OffX + float32(x)*ts
		vector.StrokeLine(screen, xf, v.OffY, xf, v.OffY+float32(m.Rows)*ts, 1.0, grid, false)
	}
	for y := 0; y <= m.Rows; y++ {
		yf := v.OffY + float32(y)*ts
		vector.StrokeLine(screen, v.OffX, yf, v.OffX+float32(m.Cols)*ts, yf, 1.0, grid, false)
	}

	for _, c := range m.Cities() {
		if !m.At(c.Pos).Known {
			continue
		}
		x0 := v.OffX + float32(c.Pos.X)*ts
		y0 := v.OffY + float32(c.Pos.Y)*ts
		vector.StrokeRect(screen, x0+2, y0+2, ts-4, ts-4, 2.0, cityColor, false)
	}
	for _, u := range m.Units() {
		if !m.At(u.Pos).Known {
			continue
		}
		cx, cy := v.Center(u.Pos)
		vector.DrawFilledCircle(screen, cx, cy, ts/4, unitColor(m, u, viewer), true)
	}
}

// DrawSegments strokes route segments, usually an Overlay's.
func DrawSegments(screen *ebiten.Image, segs []Segment, v View) {
	for _, s := range segs {
		cx, cy := v.Center(s.Tile)
		dx, dy := s.Dir.Vector()
		ex := cx + float32(dx)*v.TileSize
		ey := cy + float32(dy)*v.TileSize
		vector.StrokeLine(screen, cx, cy, ex, ey, 2.5, routeColor, true)
	}
}

// DrawWaypoints marks each waypoint after the origin.
func DrawWaypoints(screen *ebiten.Image, wps []route.Waypoint, v View) {
	for i, w := range wps {
		if i == 0 {
			continue
		}
		cx, cy := v.Center(w.Pos)
		vector.DrawFilledCircle(screen, cx, cy, v.TileSize/6, waypointColor, true)
	}
}

// DrawPanel prints lines of text on a translucent box.
func DrawPanel(screen *ebiten.Image, lines []string, x, y int) {
	const lineH, padX, padY = 16, 6, 4
	w := 0
	for _, l := range lines {
		if n := len(l) * 6; n > w {
			w = n
		}
	}
	bgW := float32(w + 2*padX)
	bgH := float32(len(lines)*lineH + 2*padY)
	vector.DrawFilledRect(screen, float32(x), float32(y), bgW, bgH, color.RGBA{R: 10, G: 12, B: 10, A: 200}, false)
	vector.StrokeRect(screen, float32(x), float32(y), bgW, bgH, 1.0, routeColor, false)
	for i, l := range lines {
		ebitenutil.DebugPrintAt(screen, l, x+padX, y+padY+i*lineH)
	}
}
