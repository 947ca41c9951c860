package device

import (
	"context"
	"fmt"
	"image"
	"sync"

	"github.com/gorilla/websocket"
)

// WebSocket forwards pointer actions to a remote injector. Each action is
// sent as one JSON text message; the injector is not expected to reply. The
// pointer position is tracked locally from the moves sent.
type WebSocket struct {
	mu   sync.Mutex
	conn *websocket.Conn
	pos  image.Point
}

// DialWebSocket connects to the injector at url.
func DialWebSocket(ctx context.Context, url string, start image.Point) (*WebSocket, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to injector %s: %w", url, err)
	}
	return &WebSocket{conn: conn, pos: start}, nil
}

func (w *WebSocket) send(a Action) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.conn.WriteJSON(a); err != nil {
		return fmt.Errorf("failed to send %s: %w", a, err)
	}
	if a.Op == OpMove {
		w.pos = a.Point()
	}
	return nil
}

// Move implements pen.Device.
func (w *WebSocket) Move(x, y int) error { return w.send(Move(x, y)) }

// Press implements pen.Device.
func (w *WebSocket) Press() error { return w.send(Press()) }

// Release implements pen.Device.
func (w *WebSocket) Release() error { return w.send(Release()) }

// Position implements pen.Device.
func (w *WebSocket) Position() (image.Point, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.pos, nil
}

// Close sends a close frame and closes the connection.
func (w *WebSocket) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = w.conn.WriteMessage(websocket.CloseMessage, msg)
	return w.conn.Close()
}
