// Package render draws maps and goto lines: live on an ebiten screen, or
// headless into an image for reports.
package render

import (
	"image/color"
	"sort"

	"github.com/Garsondee/Route-Sense/internal/pathing"
	"github.com/Garsondee/Route-Sense/internal/route"
	"github.com/Garsondee/Route-Sense/internal/tilemap"
)

// Segment is one drawn route edge, leaving Tile toward Dir.
type Segment struct {
	Tile pathing.Tile
	Dir  pathing.Direction
}

// Overlay remembers which route segments are on screen. It is the
// route.Renderer the UI hands to a session; the frame loop then paints
// whatever the overlay holds.
type Overlay struct {
	live  map[Segment]struct{}
	dirty bool

	// Draws and Undraws count calls since creation.
	Draws   int
	Undraws int
}

var _ route.Renderer = (*Overlay)(nil)

// NewOverlay returns an empty overlay.
func NewOverlay() *Overlay {
	return &Overlay{live: make(map[Segment]struct{})}
}

func (o *Overlay) DrawSegment(t pathing.Tile, d pathing.Direction) {
	o.live[Segment{t, d}] = struct{}{}
	o.Draws++
	o.dirty = true
}

func (o *Overlay) UndrawSegment(t pathing.Tile, d pathing.Direction) {
	delete(o.live, Segment{t, d})
	o.Undraws++
	o.dirty = true
}

// Len returns the number of segments on screen.
func (o *Overlay) Len() int { return len(o.live) }

// Has reports whether a segment is on screen.
func (o *Overlay) Has(t pathing.Tile, d pathing.Direction) bool {
	_, ok := o.live[Segment{t, d}]
	return ok
}

// Segments returns the live segments in row-major order.
func (o *Overlay) Segments() []Segment {
	out := make([]Segment, 0, len(o.live))
	for s := range o.live {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Tile.Y != b.Tile.Y {
			return a.Tile.Y < b.Tile.Y
		}
		if a.Tile.X != b.Tile.X {
			return a.Tile.X < b.Tile.X
		}
		return a.Dir < b.Dir
	})
	return out
}

// TakeDirty reports whether segments changed since the last call.
func (o *Overlay) TakeDirty() bool {
	d := o.dirty
	o.dirty = false
	return d
}

// Palette.
var (
	routeColor     = color.RGBA{R: 255, G: 220, B: 60, A: 255}
	waypointColor  = color.RGBA{R: 255, G: 120, B: 40, A: 255}
	fogColor       = color.RGBA{R: 18, G: 18, B: 22, A: 255}
	ownUnitColor   = color.RGBA{R: 90, G: 160, B: 255, A: 255}
	enemyUnitColor = color.RGBA{R: 230, G: 60, B: 50, A: 255}
	cityColor      = color.RGBA{R: 240, G: 240, B: 240, A: 255}
	roadColor      = color.RGBA{R: 140, G: 110, B: 70, A: 255}
)

// TerrainColor returns the base fill for a terrain.
func TerrainColor(t tilemap.Terrain) color.RGBA {
	switch t {
	case tilemap.TerrainGrassland:
		return color.RGBA{R: 70, G: 130, B: 60, A: 255}
	case tilemap.TerrainPlains:
		return color.RGBA{R: 130, G: 150, B: 70, A: 255}
	case tilemap.TerrainDesert:
		return color.RGBA{R: 200, G: 180, B: 110, A: 255}
	case tilemap.TerrainTundra:
		return color.RGBA{R: 150, G: 160, B: 150, A: 255}
	case tilemap.TerrainForest:
		return color.RGBA{R: 30, G: 90, B: 40, A: 255}
	case tilemap.TerrainJungle:
		return color.RGBA{R: 40, G: 110, B: 50, A: 255}
	case tilemap.TerrainSwamp:
		return color.RGBA{R: 70, G: 90, B: 70, A: 255}
	case tilemap.TerrainHills:
		return color.RGBA{R: 120, G: 110, B: 70, A: 255}
	case tilemap.TerrainMountains:
		return color.RGBA{R: 110, G: 100, B: 100, A: 255}
	case tilemap.TerrainGlacier:
		return color.RGBA{R: 220, G: 230, B: 240, A: 255}
	case tilemap.TerrainLake:
		return color.RGBA{R: 60, G: 120, B: 190, A: 255}
	case tilemap.TerrainOcean:
		return color.RGBA{R: 40, G: 80, B: 160, A: 255}
	case tilemap.TerrainDeep:
		return color.RGBA{R: 20, G: 45, B: 110, A: 255}
	default:
		return color.RGBA{R: 255, G: 0, B: 255, A: 255}
	}
}

// unitColor picks the marker colour for a unit as seen by viewer.
func unitColor(m *tilemap.Map, u *tilemap.Unit, viewer int) color.RGBA {
	if m.Allied(u.Owner, viewer) {
		return ownUnitColor
	}
	return enemyUnitColor
}
