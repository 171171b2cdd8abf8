package netclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Garsondee/Route-Sense/internal/orders"
)

// ErrRejected is returned when the server refuses a route.
var ErrRejected = errors.New("netclient: route rejected")

// defaultTimeout bounds a send when ctx has no deadline.
const defaultTimeout = 5 * time.Second

// Client sends route requests over one websocket connection and waits
// for each acknowledgement.
type Client struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

var _ orders.Sender = (*Client)(nil)

// Dial connects to a sink at url (ws:// or wss://).
func Dial(ctx context.Context, url string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	return &Client{conn: conn}, nil
}

// SendRoute writes req and blocks until the matching ack arrives.
func (c *Client) SendRoute(ctx context.Context, req orders.RouteRequest) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(defaultTimeout)
	}
	id := uuid.New().String()
	msg, err := encode(TypeUnitOrders, OrdersPayload{RequestID: id, RouteRequest: req})
	if err != nil {
		return err
	}

	_ = c.conn.SetWriteDeadline(deadline)
	if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
		return fmt.Errorf("write orders: %w", err)
	}

	_ = c.conn.SetReadDeadline(deadline)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read ack: %w", err)
		}
		var env Envelope
		if json.Unmarshal(data, &env) != nil || env.Type != TypeOrdersAck {
			continue
		}
		var ack AckPayload
		if err := json.Unmarshal(env.Payload, &ack); err != nil || ack.RequestID != id {
			continue
		}
		if !ack.Accepted {
			return fmt.Errorf("%w: %s", ErrRejected, ack.Error)
		}
		return nil
	}
}

// Close sends a close frame and releases the connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	return c.conn.Close()
}
