// Package netclient carries route requests over a websocket as JSON
// envelopes. Client implements orders.Sender; Sink is the receiving end.
package netclient

import (
	"encoding/json"
	"fmt"

	"github.com/Garsondee/Route-Sense/internal/orders"
)

// Envelope types.
const (
	TypeUnitOrders = "unit_orders"
	TypeOrdersAck  = "orders_ack"
)

// Envelope wraps every message on the wire.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// OrdersPayload is a route request tagged with a request id.
type OrdersPayload struct {
	RequestID string `json:"request_id"`
	orders.RouteRequest
}

// AckPayload answers one OrdersPayload.
type AckPayload struct {
	RequestID string `json:"request_id"`
	UnitID    int    `json:"unit_id"`
	Accepted  bool   `json:"accepted"`
	Error     string `json:"error,omitempty"`
}

func encode(typ string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", typ, err)
	}
	return json.Marshal(Envelope{Type: typ, Payload: raw})
}

// Validate checks a request the way a server would before accepting it.
func Validate(req orders.RouteRequest) error {
	switch {
	case len(req.Path) == 0:
		return fmt.Errorf("unit %d: empty path", req.UnitID)
	case req.Length != len(req.Path)-1:
		return fmt.Errorf("unit %d: length %d for %d tiles", req.UnitID, req.Length, len(req.Path))
	case req.Length > orders.MaxRouteLength:
		return fmt.Errorf("unit %d: %w", req.UnitID, orders.ErrRouteTooLong)
	case req.Dest != req.Path[len(req.Path)-1]:
		return fmt.Errorf("unit %d: dest does not end the path", req.UnitID)
	case req.Kind > orders.KindConnect:
		return fmt.Errorf("unit %d: unknown route kind %d", req.UnitID, req.Kind)
	case !req.Final.Valid():
		return fmt.Errorf("unit %d: final %w", req.UnitID, orders.ErrBadActivity)
	case req.Final != orders.ActivityNone && req.Kind != orders.KindGoto:
		return fmt.Errorf("unit %d: final activity on a %s", req.UnitID, req.Kind)
	case req.Kind != orders.KindConnect && len(req.Orders) > 0:
		return fmt.Errorf("unit %d: orders list on a %s", req.UnitID, req.Kind)
	case req.Kind == orders.KindConnect:
		return validateConnect(req)
	}
	return nil
}

// validateConnect checks that the orders walk the path step by step.
func validateConnect(req orders.RouteRequest) error {
	moves := 0
	for i, o := range req.Orders {
		switch o.Kind {
		case orders.OrderMove:
			if moves >= req.Length {
				return fmt.Errorf("unit %d: order %d moves past the path", req.UnitID, i)
			}
			moves++
		case orders.OrderActivity:
			if o.Activity == orders.ActivityNone || !o.Activity.Valid() {
				return fmt.Errorf("unit %d: order %d: %w", req.UnitID, i, orders.ErrBadActivity)
			}
		default:
			return fmt.Errorf("unit %d: order %d has unknown kind %d", req.UnitID, i, o.Kind)
		}
	}
	if moves != req.Length {
		return fmt.Errorf("unit %d: %d moves for %d steps", req.UnitID, moves, req.Length)
	}
	return nil
}
