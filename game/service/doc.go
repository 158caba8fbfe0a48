// Package service provides the business logic layer for the rabbit chase game.
//
// The service package implements:
//   - Multi-match management keyed by match id
//   - Rule preset loading and per-match overrides
//   - AI pacing through timers armed from the engine's pending ticks
//   - Paginated match history
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level match operations.
// SessionManager stores the running matches.
// ConfigManager loads and saves rule presets.
// Notifier receives every state change (the websocket hub implements it).
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the engine. All engine calls run under a single lock. After each call the
// match's next pending tick is armed with time.AfterFunc; when it fires the
// service calls FireTick, arms the following tick and notifies listeners.
// Ticks that a newer transition superseded are dropped by the engine.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr, service.WithNotifier(hub))
//	defer gameService.Close()
//
//	info, err := gameService.CreateMatch(ctx, "classic", service.MatchOptions{})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	res, err := gameService.SubmitRPSChoice(ctx, info.ID, engine.Rabbit, engine.Rock)
//
// Illegal gameplay input is not an error: the engine ignores it and the
// result comes back with Accepted set to false.
package service
