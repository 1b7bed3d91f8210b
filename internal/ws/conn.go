package ws

import (
	"context"
	"net/http"
	"time"

	"nhooyr.io/websocket"
)

// 64 KB fits any SDP blob with room to spare.
const maxFrameSize = 64 * 1024

type Conn struct {
	id  string
	ws  *websocket.Conn
	out chan []byte
}

// Accept upgrades HTTP to websocket (allow all origins)
func Accept(w http.ResponseWriter, r *http.Request) (*websocket.Conn, error) {
	return websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns:  []string{"*"},
		CompressionMode: websocket.CompressionDisabled,
	})
}

// NewConn wraps an accepted websocket under its assigned connection ID.
func NewConn(id string, ws *websocket.Conn) *Conn {
	if ws != nil {
		ws.SetReadLimit(maxFrameSize)
	}
	return &Conn{
		id:  id,
		ws:  ws,
		out: make(chan []byte, 256),
	}
}

func (c *Conn) ID() string { return c.id }

// Read blocks until it receives a text/binary frame.
// Returns false if the connection is closed.
func (c *Conn) Read(ctx context.Context) ([]byte, bool) {
	for {
		typ, data, err := c.ws.Read(ctx)
		if err != nil {
			return nil, false
		}
		if typ == websocket.MessageText || typ == websocket.MessageBinary {
			return data, true
		}
	}
}

// WriteLoop sends outbound frames + periodic pings
// Exits when ctx is cancelled
func (c *Conn) WriteLoop(ctx context.Context) {
	t := time.NewTicker(20 * time.Second)
	defer t.Stop()

	for {
		select {
		case b := <-c.out:
			_ = c.ws.Write(ctx, websocket.MessageText, b)
		case <-t.C:
			_ = c.ws.Ping(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// enqueue hands a frame to the write loop without blocking; a connection
// whose buffer is full loses the frame rather than stalling the sender.
func (c *Conn) enqueue(b []byte) {
	select {
	case c.out <- b:
	default:
	}
}

// Close closes the websocket normally.
func (c *Conn) Close() error { return c.ws.Close(websocket.StatusNormalClosure, "bye") }
