package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Kgreeven-max/monopoly/monopoly/economy/auction"
	"github.com/gorilla/websocket"
)

func dialHub(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForClient(t *testing.T, hub *Hub) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for {
		hub.mu.Lock()
		n := len(hub.clients)
		hub.mu.Unlock()
		if n == 1 {
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHubBroadcastReachesClients(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	ts := httptest.NewServer(http.HandlerFunc(hub.HandleWS))
	defer ts.Close()

	conn := dialHub(t, ts)
	waitForClient(t, hub)

	hub.Broadcast(auction.Event{
		Type: auction.EventAuctionStarted,
		Payload: auction.StartedPayload{
			AuctionID:  "ABC123",
			PropertyID: "boardwalk",
		},
	})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var received struct {
		Type    string                 `json:"type"`
		Payload auction.StartedPayload `json:"payload"`
	}
	if err := conn.ReadJSON(&received); err != nil {
		t.Fatalf("ReadJSON() = %v", err)
	}
	if received.Type != auction.EventAuctionStarted {
		t.Errorf("event type = %s, want %s", received.Type, auction.EventAuctionStarted)
	}
	if received.Payload.AuctionID != "ABC123" {
		t.Errorf("auction id = %s, want ABC123", received.Payload.AuctionID)
	}
}

func TestHubCloseDisconnectsClients(t *testing.T) {
	hub := NewHub()

	ts := httptest.NewServer(http.HandlerFunc(hub.HandleWS))
	defer ts.Close()

	conn := dialHub(t, ts)
	waitForClient(t, hub)

	hub.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("expected the connection to close")
	}

	hub.mu.Lock()
	defer hub.mu.Unlock()
	if len(hub.clients) != 0 {
		t.Errorf("clients after Close = %d, want 0", len(hub.clients))
	}
}
