package websocket

import (
	"encoding/json"
	"testing"
	"time"
)

func waitForClients(t *testing.T, h *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if h.GetClientCount() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("client count never reached %d (got %d)", want, h.GetClientCount())
}

func TestHubBroadcastScanReachesClients(t *testing.T) {
	h := NewHub()
	go h.Run()

	client := &Client{hub: h, send: make(chan []byte, 4), userID: 7}
	h.register <- client
	waitForClients(t, h, 1)

	h.BroadcastScan(ScanEvent{
		Type:      "scan",
		StudentID: "1001",
		Outcome:   "marked_present",
		Date:      "2026-09-01",
	})

	select {
	case raw := <-client.send:
		var event ScanEvent
		if err := json.Unmarshal(raw, &event); err != nil {
			t.Fatalf("broadcast payload is not JSON: %v", err)
		}
		if event.StudentID != "1001" || event.Outcome != "marked_present" {
			t.Errorf("unexpected event: %+v", event)
		}
	case <-time.After(time.Second):
		t.Fatal("broadcast never reached the client")
	}
}

func TestHubUnregisterClosesSend(t *testing.T) {
	h := NewHub()
	go h.Run()

	client := &Client{hub: h, send: make(chan []byte, 1), userID: 3}
	h.register <- client
	waitForClients(t, h, 1)

	h.unregister <- client
	waitForClients(t, h, 0)

	select {
	case _, ok := <-client.send:
		if ok {
			t.Error("expected send channel to be closed after unregister")
		}
	case <-time.After(time.Second):
		t.Fatal("send channel not closed after unregister")
	}

	// A second unregister for the same client must be a no-op, not a double close.
	h.unregister <- client
	waitForClients(t, h, 0)
}

func TestHubDropsSlowClient(t *testing.T) {
	h := NewHub()
	go h.Run()

	slow := &Client{hub: h, send: make(chan []byte), userID: 9}
	h.register <- slow
	waitForClients(t, h, 1)

	// Nothing reads from slow.send, so the broadcast cannot be delivered and
	// the hub evicts the client instead of blocking the feed.
	h.BroadcastScan(ScanEvent{Type: "scan", StudentID: "x", Outcome: "already_present", Date: "2026-09-01"})
	waitForClients(t, h, 0)
}
