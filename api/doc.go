// Package api provides the HTTP REST handlers for the wolf and rabbits game.
//
// Endpoints:
//
// Match management:
//   - POST   /api/matches          - Create a match from a preset
//   - GET    /api/matches          - List matches (sort=created|accessed, order, limit)
//   - GET    /api/matches/{id}     - Get a match
//   - DELETE /api/matches/{id}     - Delete a match
//
// Match state:
//   - GET /api/matches/{id}/state          - Current state snapshot
//   - GET /api/matches/{id}/history        - Event history (page, limit, order, type)
//   - GET /api/matches/{id}/cells/{x}/{y}  - Describe one board cell
//
// Round cycle:
//   - POST /api/matches/{id}/rps         - {"role": "rabbit", "hand": "rock"}
//   - POST /api/matches/{id}/rps/ai      - Let every AI seat pick a hand
//   - POST /api/matches/{id}/trivia/ack  - {"role": "wolf"}
//   - POST /api/matches/{id}/roll        - {"role": "wolf"}
//   - POST /api/matches/{id}/move        - {"role": "wolf", "x": 3, "y": 4}
//   - POST /api/matches/{id}/advance     - {"limit": 50} fires pending AI turns now
//   - POST /api/matches/{id}/reset       - Restart the match with the same seats
//
// Configuration:
//   - GET  /api/configs         - List presets
//   - GET  /api/configs/{name}  - Get one preset
//   - POST /api/configs         - Save a preset
//
// WebSocket:
//   - GET /ws?match={id} - Live state updates for one match
//
// Round actions always answer 200 with an ActionResult. Input the rules do
// not allow at that moment comes back with "accepted": false and the
// unchanged state. Malformed bodies, unknown roles and unknown hands are
// rejected with 400; unknown matches and presets with 404:
//
//	{"error": "match not found: a1b2c3d4"}
package api
