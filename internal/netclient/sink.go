package netclient

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// Sink accepts route requests over websockets, validates them and
// acknowledges each one. It keeps every accepted request.
type Sink struct {
	// OnOrders, if set, is called for every request after validation.
	OnOrders func(p OrdersPayload, err error)

	upgrader websocket.Upgrader
	mu       sync.Mutex
	received []OrdersPayload
}

// NewSink returns a sink that accepts connections from any origin.
func NewSink() *Sink {
	return &Sink{
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
	}
}

// Received returns a copy of the accepted requests in arrival order.
func (s *Sink) Received() []OrdersPayload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]OrdersPayload(nil), s.received...)
}

// ServeHTTP upgrades the connection and serves it until it closes.
func (s *Sink) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var env Envelope
		if json.Unmarshal(data, &env) != nil || env.Type != TypeUnitOrders {
			continue
		}
		var p OrdersPayload
		if json.Unmarshal(env.Payload, &p) != nil {
			continue
		}

		verr := Validate(p.RouteRequest)
		ack := AckPayload{RequestID: p.RequestID, UnitID: p.UnitID, Accepted: verr == nil}
		if verr != nil {
			ack.Error = verr.Error()
		} else {
			s.mu.Lock()
			s.received = append(s.received, p)
			s.mu.Unlock()
		}
		if s.OnOrders != nil {
			s.OnOrders(p, verr)
		}

		msg, err := encode(TypeOrdersAck, ack)
		if err != nil {
			return
		}
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}
