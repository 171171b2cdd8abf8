package main

import (
	"flag"
	"log"
	"net/http"

	"github.com/Garsondee/Route-Sense/internal/netclient"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	flag.Parse()

	sink := netclient.NewSink()
	sink.OnOrders = func(p netclient.OrdersPayload, err error) {
		if err != nil {
			log.Printf("rejected %s for unit %d: %v", p.RequestID, p.UnitID, err)
			return
		}
		log.Printf("accepted %s: unit %d %s length=%d dest=(%d,%d)",
			p.RequestID, p.UnitID, p.Kind, p.Length, p.Dest.X, p.Dest.Y)
	}
	http.Handle("/ws", sink)
	log.Printf("Orders sink listening on %s", *addr)
	log.Fatal(http.ListenAndServe(*addr, nil))
}
