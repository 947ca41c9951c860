package device

import (
	"context"
	"encoding/json"
	"image"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// injector accepts one connection and forwards every decoded action.
func injector(t *testing.T) (*httptest.Server, <-chan Action) {
	t.Helper()
	got := make(chan Action, 16)
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				close(got)
				return
			}
			var a Action
			if err := json.Unmarshal(msg, &a); err != nil {
				t.Errorf("decode %q: %v", msg, err)
				continue
			}
			got <- a
		}
	}))
	t.Cleanup(srv.Close)
	return srv, got
}

func TestWebSocket(t *testing.T) {
	srv, got := injector(t)
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ws, err := DialWebSocket(ctx, url, image.Pt(2, 2))
	require.NoError(t, err)

	require.NoError(t, ws.Move(100, 200))
	require.NoError(t, ws.Press())
	require.NoError(t, ws.Release())

	pos, err := ws.Position()
	require.NoError(t, err)
	assert.Equal(t, image.Pt(100, 200), pos)

	var received []Action
	for i := 0; i < 3; i++ {
		select {
		case a := <-got:
			received = append(received, a)
		case <-ctx.Done():
			t.Fatal("timed out waiting for actions")
		}
	}
	assert.Equal(t, []Action{Move(100, 200), Press(), Release()}, received)

	require.NoError(t, ws.Close())
}

func TestDialWebSocket_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := DialWebSocket(ctx, "ws://127.0.0.1:1/pen", image.Point{})
	assert.ErrorContains(t, err, "failed to connect")
}
