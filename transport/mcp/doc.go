// Package mcp exposes the game to assistants through the Model Context
// Protocol.
//
// Client registers one MCP tool per game operation and proxies every call
// to the REST API, so an assistant plays exactly like a browser would:
//
//   - create_match, list_matches, match_state, reset_match
//   - play_rps, ai_rps, acknowledge_trivia, roll_dice, move_to, advance_ai
//   - match_history, describe_cell, list_configs, game_instructions
//
// Tool results are plain text: an ASCII drawing of the board (grid plus
// safety zone ring), the scoreboard, the phase and what it waits for.
//
// Transport Modes:
//
//   - HTTP: main mounts GetMCPServer().HandleMessage on /mcp
//   - Stdio: main serves GetMCPServer() with server.ServeStdio
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
