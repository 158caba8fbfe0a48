// Package websocket pushes live match state to browser clients.
//
// A Hub keeps the connected clients grouped by match id. Clients connect
// through the API's /ws?match=<id> endpoint, receive the current state
// right away and then one message per state change:
//
//	{"match_id": "a1b2c3d4", "event": "state_update", "state": {...}}
//
// The hub implements service.Notifier, so the game service broadcasts after
// every accepted action and every AI tick. When a match is deleted its
// clients receive a "match_deleted" event.
//
// Concurrency:
//
// The client map is owned by the Run goroutine; registration, removal and
// broadcasts all go through channels. Broadcasts never block the caller:
// when the queue is full the message is dropped and logged.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//	gameService := service.NewGameService(sessions, configs, service.WithNotifier(hub))
package websocket
