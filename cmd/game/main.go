package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/Route-Sense/internal/cue"
	"github.com/Garsondee/Route-Sense/internal/game"
	"github.com/Garsondee/Route-Sense/internal/netclient"
	"github.com/Garsondee/Route-Sense/internal/orders"
	"github.com/Garsondee/Route-Sense/internal/planlog"
	"github.com/Garsondee/Route-Sense/internal/scenario"
)

func main() {
	scenarioPath := flag.String("scenario", "", "scenario JSON file (default: built-in)")
	viewer := flag.Int("player", 0, "player whose units can be routed")
	addr := flag.String("addr", "", "websocket URL of an orders sink (default: record locally)")
	restrict := flag.String("restrict", "any", "move restriction: any, cardinal, straight")
	tileSize := flag.Int("tile", 32, "tile size in pixels")
	mute := flag.Bool("mute", false, "disable sound cues")
	final := flag.String("final", "", "activity at the end of a goto: fortify, sentry, road")
	flag.Parse()

	sc, err := scenario.Load(*scenarioPath)
	if err != nil {
		log.Fatal(err)
	}
	m, err := sc.Build()
	if err != nil {
		log.Fatal(err)
	}
	restriction, err := scenario.ParseRestriction(*restrict)
	if err != nil {
		log.Fatal(err)
	}
	finalActivity, err := orders.ParseActivity(*final)
	if err != nil {
		log.Fatal(err)
	}

	var sender orders.Sender
	if *addr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		c, err := netclient.Dial(ctx, *addr)
		cancel()
		if err != nil {
			log.Fatal(err)
		}
		defer c.Close()
		sender = c
	}

	cfg := game.Config{
		Map:         m,
		Name:        sc.Name,
		Viewer:      *viewer,
		Sender:      sender,
		Log:         planlog.New(false),
		Restriction: restriction,
		Final:       finalActivity,
		TileSize:    float32(*tileSize),
	}
	if !*mute {
		player := cue.NewPlayer(0.3)
		defer player.Close()
		cfg.Cues = player
	}

	g := game.New(cfg)
	w, h := g.Size()
	ebiten.SetWindowTitle("Route Sense - " + sc.Name)
	ebiten.SetWindowSize(w, h)
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
