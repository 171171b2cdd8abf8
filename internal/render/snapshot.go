package render

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/Garsondee/Route-Sense/internal/pathing"
	"github.com/Garsondee/Route-Sense/internal/route"
	"github.com/Garsondee/Route-Sense/internal/tilemap"
)

// captionHeight is the strip below the map reserved for text.
const captionHeight = 16

// Snapshot renders the map, the overlay and a caption into an image
// without a window. Each tile is tileSize pixels square.
func Snapshot(m *tilemap.Map, o *Overlay, wps []route.Waypoint, viewer, tileSize int, caption string) *image.RGBA {
	w, h := m.Cols*tileSize, m.Rows*tileSize
	img := image.NewRGBA(image.Rect(0, 0, w, h+captionHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)

	for y := 0; y < m.Rows; y++ {
		for x := 0; x < m.Cols; x++ {
			tile := m.At(pathing.Tile{X: x, Y: y})
			c := fogColor
			if tile.Known {
				c = TerrainColor(tile.Terrain)
			}
			r := image.Rect(x*tileSize, y*tileSize, (x+1)*tileSize, (y+1)*tileSize)
			draw.Draw(img, r, image.NewUniform(c), image.Point{}, draw.Src)
		}
	}

	center := func(t pathing.Tile) (int, int) {
		return t.X*tileSize + tileSize/2, t.Y*tileSize + tileSize/2
	}
	for _, c := range m.Cities() {
		if m.At(c.Pos).Known {
			x, y := c.Pos.X*tileSize, c.Pos.Y*tileSize
			strokeRect(img, x+1, y+1, x+tileSize-2, y+tileSize-2, cityColor)
		}
	}
	for _, u := range m.Units() {
		if m.At(u.Pos).Known {
			cx, cy := center(u.Pos)
			fillSquare(img, cx, cy, max(1, tileSize/6), unitColor(m, u, viewer))
		}
	}
	if o != nil {
		for _, s := range o.Segments() {
			cx, cy := center(s.Tile)
			dx, dy := s.Dir.Vector()
			line(img, cx, cy, cx+dx*tileSize, cy+dy*tileSize, routeColor)
		}
	}
	for i, wp := range wps {
		if i > 0 {
			cx, cy := center(wp.Pos)
			fillSquare(img, cx, cy, max(1, tileSize/8), waypointColor)
		}
	}

	if caption != "" {
		d := &font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(color.White),
			Face: basicfont.Face7x13,
			Dot:  fixed.P(2, h+captionHeight-4),
		}
		d.DrawString(caption)
	}
	return img
}

// line draws a 1px line with Bresenham's algorithm, clipped by Set.
func line(img *image.RGBA, x0, y0, x1, y1 int, c color.RGBA) {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		img.SetRGBA(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func strokeRect(img *image.RGBA, x0, y0, x1, y1 int, c color.RGBA) {
	line(img, x0, y0, x1, y0, c)
	line(img, x1, y0, x1, y1, c)
	line(img, x1, y1, x0, y1, c)
	line(img, x0, y1, x0, y0, c)
}

func fillSquare(img *image.RGBA, cx, cy, r int, c color.RGBA) {
	draw.Draw(img, image.Rect(cx-r, cy-r, cx+r+1, cy+r+1), image.NewUniform(c), image.Point{}, draw.Src)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
