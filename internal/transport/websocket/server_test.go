package websocket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func newTestServer(t *testing.T) (*Hub, *httptest.Server, context.CancelFunc) {
	t.Helper()

	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWebSocket))
	t.Cleanup(srv.Close)
	t.Cleanup(cancel)

	return hub, srv, cancel
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForSubscribers(t *testing.T, hub *Hub, want int) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.Subscribers() == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("expected %d subscribers, got %d", want, hub.Subscribers())
}

func TestHubBroadcast(t *testing.T) {
	hub, srv, _ := newTestServer(t)

	conn := dial(t, srv)
	waitForSubscribers(t, hub, 1)

	hub.Broadcast(&Message{
		Type:    "export_progress",
		Channel: "exports",
		Data:    map[string]interface{}{"id": "exports:abc", "progress": 50.0},
	})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got Message
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.Type != "export_progress" || got.Channel != "exports" {
		t.Errorf("unexpected message: %+v", got)
	}
}

func TestHubBroadcastReachesAllConnections(t *testing.T) {
	hub, srv, _ := newTestServer(t)

	first := dial(t, srv)
	second := dial(t, srv)
	waitForSubscribers(t, hub, 2)

	hub.Broadcast(&Message{Type: "export_complete", Channel: "exports"})

	for _, conn := range []*websocket.Conn{first, second} {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var got Message
		if err := conn.ReadJSON(&got); err != nil {
			t.Fatalf("read: %v", err)
		}
		if got.Type != "export_complete" {
			t.Errorf("unexpected message type: %q", got.Type)
		}
	}
}

func TestHubUnregisterOnClose(t *testing.T) {
	hub, srv, _ := newTestServer(t)

	conn := dial(t, srv)
	waitForSubscribers(t, hub, 1)

	conn.Close()
	waitForSubscribers(t, hub, 0)
}

func TestHubShutdownClosesConnections(t *testing.T) {
	hub, srv, cancel := newTestServer(t)

	conn := dial(t, srv)
	waitForSubscribers(t, hub, 1)

	cancel()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatal("expected read error after hub shutdown")
	}
}
