package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wricardo/rabbit-chase-game/game/engine"
)

func testState() *engine.MatchState {
	return &engine.MatchState{
		Phase: engine.PhaseDice,
		Players: []engine.Player{
			{Role: engine.Wolf, Pos: engine.Position{X: 5, Y: 3}, Score: 2},
			{Role: engine.Rabbit, Pos: engine.Position{X: 0, Y: 0}, Score: 1},
		},
		DiceQueue: []engine.Role{engine.Wolf, engine.Rabbit},
	}
}

func newTestClient(hub *Hub, matchID string) *Client {
	return &Client{
		hub:     hub,
		matchID: matchID,
		send:    make(chan []byte, 256),
	}
}

func TestNewHub(t *testing.T) {
	hub := NewHub()

	if hub.matches == nil {
		t.Error("Hub matches map is nil")
	}
	if hub.broadcast == nil || hub.register == nil || hub.unregister == nil {
		t.Error("Hub channels must be initialised")
	}
}

func TestHubRegisterAndUnregister(t *testing.T) {
	hub := NewHub()
	matchID := "a1b2c3d4"

	client1 := newTestClient(hub, matchID)
	client2 := newTestClient(hub, matchID)
	hub.registerClient(client1)
	hub.registerClient(client2)

	if len(hub.matches[matchID]) != 2 {
		t.Fatalf("Expected 2 clients, got %d", len(hub.matches[matchID]))
	}

	hub.unregisterClient(client1)
	if !hub.matches[matchID][client2] {
		t.Error("client2 should still be registered")
	}
	if _, ok := <-client1.send; ok {
		t.Error("Expected client1's send channel to be closed")
	}

	hub.unregisterClient(client2)
	if _, exists := hub.matches[matchID]; exists {
		t.Error("Match entry should be removed with its last client")
	}

	// unregistering twice is harmless
	hub.unregisterClient(client2)
}

func TestHubBroadcastMessage(t *testing.T) {
	hub := NewHub()
	matchID := "broadcast"
	client := newTestClient(hub, matchID)
	other := newTestClient(hub, "other")
	hub.registerClient(client)
	hub.registerClient(other)

	hub.broadcastMessage(&Message{MatchID: matchID, State: testState(), Event: EventStateUpdate})

	select {
	case data := <-client.send:
		var message Message
		if err := json.Unmarshal(data, &message); err != nil {
			t.Fatalf("Failed to unmarshal message: %v", err)
		}
		if message.MatchID != matchID || message.Event != EventStateUpdate {
			t.Errorf("Unexpected message header %+v", message)
		}
		if message.State == nil || message.State.Players[0].Pos != (engine.Position{X: 5, Y: 3}) {
			t.Error("State not correctly transmitted")
		}
	default:
		t.Fatal("No message queued for the match's client")
	}

	select {
	case <-other.send:
		t.Error("Clients of other matches must not receive the update")
	default:
	}
}

func TestHubBroadcastEnqueues(t *testing.T) {
	hub := NewHub()

	hub.BroadcastEvent("event-test", EventMatchDeleted, "bye")
	hub.BroadcastMatchState("event-test", testState())

	first := <-hub.broadcast
	if first.Event != EventMatchDeleted || first.Data != "bye" {
		t.Errorf("Unexpected first message %+v", first)
	}
	second := <-hub.broadcast
	if second.Event != EventStateUpdate || second.State == nil {
		t.Errorf("Unexpected second message %+v", second)
	}
}

func TestHubBroadcastDropsWhenFull(t *testing.T) {
	hub := NewHub()

	done := make(chan struct{})
	go func() {
		for i := 0; i < broadcastBuffer+10; i++ {
			hub.BroadcastMatchState("full", testState())
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Broadcast blocked without a running hub")
	}
	if len(hub.broadcast) != broadcastBuffer {
		t.Errorf("Expected a full queue of %d, got %d", broadcastBuffer, len(hub.broadcast))
	}
}

func TestWebSocketReceivesStates(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		initial := testState()
		initial.Message = "hello"
		hub.ServeWS(w, r, r.URL.Query().Get("match"), initial)
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "?match=ws-test"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	defer conn.Close()

	read := func() Message {
		t.Helper()
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("Failed to read WebSocket message: %v", err)
		}
		var message Message
		if err := json.Unmarshal(data, &message); err != nil {
			t.Fatalf("Failed to unmarshal message: %v", err)
		}
		return message
	}

	// the initial state arrives once the client is registered
	initial := read()
	if initial.State == nil || initial.State.Message != "hello" {
		t.Fatalf("Expected the initial state first, got %+v", initial)
	}

	update := testState()
	update.Phase = engine.PhaseMatchOver
	update.Winner = engine.Wolf
	hub.BroadcastMatchState("ws-test", update)

	message := read()
	if message.MatchID != "ws-test" {
		t.Errorf("Expected match ws-test, got %s", message.MatchID)
	}
	if message.State == nil || message.State.Winner != engine.Wolf {
		t.Error("Update not correctly received")
	}
}
