package render

import (
	"image/color"
	"testing"

	"github.com/Garsondee/Route-Sense/internal/pathing"
	"github.com/Garsondee/Route-Sense/internal/route"
	"github.com/Garsondee/Route-Sense/internal/tilemap"
)

func lineSetup(t *testing.T) (*tilemap.Map, *route.Session, *Overlay, *tilemap.Unit) {
	t.Helper()
	u := tilemap.Warrior(1, 0, 0, 0)
	m := tilemap.Build(6, 2, tilemap.WithUnit(u), tilemap.WithUnknown(5, 0, 5, 1))
	o := NewOverlay()
	s := route.NewSession(m, o)
	s.Enter(u.Mover())
	return m, s, o, u
}

func TestOverlay_TracksSession(t *testing.T) {
	_, s, o, _ := lineSetup(t)
	s.DrawLine(pathing.Tile{X: 3, Y: 0})
	if o.Len() != 3 {
		t.Fatalf("expected 3 live segments, got %d", o.Len())
	}
	if !o.TakeDirty() || o.TakeDirty() {
		t.Fatal("expected dirty flag set once")
	}
	if !o.Has(pathing.Tile{X: 1, Y: 0}, pathing.DirW) {
		t.Fatalf("expected canonical segment (1,0) W, got %v", o.Segments())
	}

	s.Exit()
	if o.Len() != 0 || o.Draws != o.Undraws {
		t.Fatalf("expected overlay cleared, len=%d draws=%d undraws=%d", o.Len(), o.Draws, o.Undraws)
	}
}

func TestOverlay_SegmentsSorted(t *testing.T) {
	o := NewOverlay()
	o.DrawSegment(pathing.Tile{X: 2, Y: 1}, pathing.DirN)
	o.DrawSegment(pathing.Tile{X: 0, Y: 1}, pathing.DirW)
	o.DrawSegment(pathing.Tile{X: 5, Y: 0}, pathing.DirNW)
	segs := o.Segments()
	if segs[0].Tile != (pathing.Tile{X: 5, Y: 0}) || segs[2].Tile != (pathing.Tile{X: 2, Y: 1}) {
		t.Fatalf("expected row-major order, got %v", segs)
	}
}

func TestSnapshot_DrawsRouteAndCaption(t *testing.T) {
	m, s, o, _ := lineSetup(t)
	s.DrawLine(pathing.Tile{X: 3, Y: 0})

	const ts = 8
	img := Snapshot(m, o, s.Waypoints(), 0, ts, "turns: 1")
	if b := img.Bounds(); b.Dx() != 6*ts || b.Dy() != 2*ts+captionHeight {
		t.Fatalf("unexpected bounds %v", b)
	}
	if got := img.RGBAAt(ts, ts/2); got != routeColor {
		t.Fatalf("expected route colour between first tiles, got %v", got)
	}
	if got := img.RGBAAt(0, ts); got != TerrainColor(tilemap.TerrainGrassland) {
		t.Fatalf("expected grassland at (0,1), got %v", got)
	}
	if got := img.RGBAAt(5*ts, 0); got != fogColor {
		t.Fatalf("expected fog on unknown tile, got %v", got)
	}

	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	found := false
	for y := 2 * ts; y < 2*ts+captionHeight && !found; y++ {
		for x := 0; x < 6*ts; x++ {
			if img.RGBAAt(x, y) == white {
				found = true
				break
			}
		}
	}
	if !found {
		t.Fatal("expected caption text in the bottom strip")
	}
}

func TestView_TileAtRoundTrip(t *testing.T) {
	v := View{OffX: 10, OffY: 20, TileSize: 16}
	for _, tile := range []pathing.Tile{{X: 0, Y: 0}, {X: 3, Y: 7}} {
		cx, cy := v.Center(tile)
		if got := v.TileAt(int(cx), int(cy)); got != tile {
			t.Fatalf("expected %v, got %v", tile, got)
		}
	}
	if got := v.TileAt(5, 5); got.X >= 0 || got.Y >= 0 {
		t.Fatalf("expected negative tile left of the map, got %v", got)
	}
}
