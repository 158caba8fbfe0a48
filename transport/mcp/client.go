package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/rabbit-chase-game/game/engine"
	"github.com/wricardo/rabbit-chase-game/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Wolf and Rabbits",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Wolf and Rabbits - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
One wolf hunts up to three rabbits on an 8x8 board. The wolf scores by
landing on a rabbit; a rabbit scores by reaching the safety zone through a
door or by picking up a collectible. First to the victory threshold wins.

ROUND CYCLE:
rps -> trivia (losers only) -> dice (each queued player rolls, then moves)

AVAILABLE TOOLS:
- create_match: Start a match, choosing which seats you play
- list_matches / match_state: Inspect matches
- play_rps: Throw rock, paper or scissors for a seat you play
- ai_rps: Let every AI seat throw its hand
- acknowledge_trivia: Reveal the answer of the current trivia question
- roll_dice: Roll for the player at the head of the dice queue
- move_to: Move to one of the legal destinations - requires intent explanation
- advance_ai: Play pending AI turns immediately
- reset_match: Restart with the same seats
- match_history: Review past events
- list_configs: List rule presets
- game_instructions: Full rules
- describe_cell: Details of one cell

NOTE: The 'intent' parameter on move_to serves as rubber duck debugging - explain your reasoning!`),
	)

	c.registerTools()
}

func matchIDProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Match ID",
	}
}

func roleProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"enum":        []string{"wolf", "rabbit", "redRabbit", "blueRabbit", "blackRabbit"},
		"description": "Seat acting",
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Match management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_match",
		Description: "Create a new match from a rule preset. Seats not listed in human_roles are played by the AI.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "Preset to use (optional, see list_configs)",
				},
				"player_count": map[string]interface{}{
					"type":        "number",
					"description": "2, 3 or 4 players (optional)",
				},
				"victory_threshold": map[string]interface{}{
					"type":        "number",
					"description": "Points needed to win (optional)",
				},
				"human_roles": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "string",
					},
					"description": "Seats you will play (optional, empty list = watch an all-AI match)",
				},
				"seed": map[string]interface{}{
					"type":        "number",
					"description": "Random seed for a reproducible match (optional)",
				},
			},
		},
	}, c.handleCreateMatch)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_matches",
		Description: "List all active matches",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListMatches)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "match_state",
		Description: "Get the current state of a match with a board drawing",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"match_id": matchIDProperty(),
			},
			Required: []string{"match_id"},
		},
	}, c.handleMatchState)

	// Round cycle
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "play_rps",
		Description: "Throw a rock-paper-scissors hand for a seat you play",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"match_id": matchIDProperty(),
				"role":     roleProperty(),
				"hand": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"rock", "paper", "scissors"},
					"description": "Hand to throw",
				},
			},
			Required: []string{"match_id", "role", "hand"},
		},
	}, c.handlePlayRPS)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "ai_rps",
		Description: "Let every AI seat that has not chosen yet throw its hand",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"match_id": matchIDProperty(),
			},
			Required: []string{"match_id"},
		},
	}, c.handleAIRPS)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "acknowledge_trivia",
		Description: "Reveal the answer to the current trivia question and continue",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"match_id": matchIDProperty(),
				"role":     roleProperty(),
			},
			Required: []string{"match_id", "role"},
		},
	}, c.handleAcknowledgeTrivia)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "roll_dice",
		Description: "Roll the die for the seat at the head of the dice queue",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"match_id": matchIDProperty(),
				"role":     roleProperty(),
			},
			Required: []string{"match_id", "role"},
		},
	}, c.handleRollDice)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_to",
		Description: "Move to one of the legal destinations of the last roll",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"match_id": matchIDProperty(),
				"role":     roleProperty(),
				"x": map[string]interface{}{
					"type":        "number",
					"description": "Destination column (0-8)",
				},
				"y": map[string]interface{}{
					"type":        "number",
					"description": "Destination row (0-8)",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this move (serves as a rubber duck to help explain your reasoning)",
				},
			},
			Required: []string{"match_id", "role", "x", "y"},
		},
	}, c.handleMoveTo)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "advance_ai",
		Description: "Play pending AI turns immediately instead of waiting for their delays",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"match_id": matchIDProperty(),
				"limit": map[string]interface{}{
					"type":        "number",
					"description": "Maximum AI turns to play (default 100)",
				},
			},
			Required: []string{"match_id"},
		},
	}, c.handleAdvanceAI)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_match",
		Description: "Restart the match with the same seats and a new board",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"match_id": matchIDProperty(),
			},
			Required: []string{"match_id"},
		},
	}, c.handleResetMatch)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "match_history",
		Description: "Get the event history of a match with pagination",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"match_id": matchIDProperty(),
				"page": map[string]interface{}{
					"type":        "number",
					"description": "Page number (default 1)",
				},
				"limit": map[string]interface{}{
					"type":        "number",
					"description": "Events per page (default 20)",
				},
				"order": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"asc", "desc"},
					"description": "Sort order (default desc)",
				},
				"type": map[string]interface{}{
					"type":        "string",
					"description": "Only events of this type, e.g. caught or escaped",
				},
			},
			Required: []string{"match_id"},
		},
	}, c.handleMatchHistory)

	// Information
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available rule presets",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the complete rules of the game",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_cell",
		Description: "Get detailed information about one cell, including whether the current roll can reach it",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"match_id": matchIDProperty(),
				"x": map[string]interface{}{
					"type":        "number",
					"description": "Column (0-8)",
				},
				"y": map[string]interface{}{
					"type":        "number",
					"description": "Row (0-8)",
				},
			},
			Required: []string{"match_id", "x", "y"},
		},
	}, c.handleDescribeCell)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

// intArg reads a JSON number argument
func intArg(args map[string]interface{}, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	}
	return 0, false
}

func matchPath(args map[string]interface{}, suffix string) (string, error) {
	matchID, _ := args["match_id"].(string)
	if matchID == "" {
		return "", fmt.Errorf("match_id is required")
	}
	return "/api/matches/" + url.PathEscape(matchID) + suffix, nil
}

// action posts to a round endpoint and formats the outcome
func (c *Client) action(ctx context.Context, args map[string]interface{}, suffix string, body interface{}) (*mcp.CallToolResult, error) {
	path, err := matchPath(args, suffix)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result service.ActionResult
	if err := c.apiCall(ctx, "POST", path, body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatActionResult(&result)), nil
}

// Tool handlers

func (c *Client) handleCreateMatch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	body := map[string]interface{}{}
	if configID, _ := args["config_id"].(string); configID != "" {
		body["config_id"] = configID
	}
	if n, ok := intArg(args, "player_count"); ok {
		body["player_count"] = n
	}
	if n, ok := intArg(args, "victory_threshold"); ok {
		body["victory_threshold"] = n
	}
	if n, ok := intArg(args, "seed"); ok && n > 0 {
		body["seed"] = n
	}
	if raw, ok := args["human_roles"].([]interface{}); ok {
		roles := make([]string, 0, len(raw))
		for _, r := range raw {
			if role, ok := r.(string); ok {
				roles = append(roles, role)
			}
		}
		body["human_roles"] = roles
	}

	var info service.MatchInfo
	if err := c.apiCall(ctx, "POST", "/api/matches", body, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMatchInfo(&info)), nil
}

func (c *Client) handleListMatches(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count   int                 `json:"count"`
		Matches []service.MatchInfo `json:"matches"`
	}

	if err := c.apiCall(ctx, "GET", "/api/matches", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Matches (%d):\n\n", response.Count)
	for _, m := range response.Matches {
		phase := engine.PhaseSetup
		if m.State != nil {
			phase = m.State.Phase
		}
		fmt.Fprintf(&b, "- %s (Config: %s, Phase: %s, Created: %s)\n",
			m.ID, m.ConfigName, phase, m.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleMatchState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := matchPath(arguments(request), "/state")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var state engine.MatchState
	if err := c.apiCall(ctx, "GET", path, nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMatchState(&state)), nil
}

func (c *Client) handlePlayRPS(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	role, _ := args["role"].(string)
	hand, _ := args["hand"].(string)

	return c.action(ctx, args, "/rps", map[string]string{"role": role, "hand": hand})
}

func (c *Client) handleAIRPS(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.action(ctx, arguments(request), "/rps/ai", nil)
}

func (c *Client) handleAcknowledgeTrivia(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	role, _ := args["role"].(string)

	return c.action(ctx, args, "/trivia/ack", map[string]string{"role": role})
}

func (c *Client) handleRollDice(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	role, _ := args["role"].(string)

	return c.action(ctx, args, "/roll", map[string]string{"role": role})
}

func (c *Client) handleMoveTo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	role, _ := args["role"].(string)
	x, okX := intArg(args, "x")
	y, okY := intArg(args, "y")
	if !okX || !okY {
		return mcp.NewToolResultError("x and y are required"), nil
	}

	// Intent parameter serves as rubber duck debugging - we don't need to process it further
	_ = args["intent"]

	return c.action(ctx, args, "/move", map[string]interface{}{"role": role, "x": x, "y": y})
}

func (c *Client) handleAdvanceAI(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	body := map[string]int{}
	if limit, ok := intArg(args, "limit"); ok {
		body["limit"] = limit
	}

	return c.action(ctx, args, "/advance", body)
}

func (c *Client) handleResetMatch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.action(ctx, arguments(request), "/reset", nil)
}

func (c *Client) handleMatchHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	params := url.Values{}
	if page, ok := intArg(args, "page"); ok {
		params.Set("page", fmt.Sprint(page))
	}
	if limit, ok := intArg(args, "limit"); ok {
		params.Set("limit", fmt.Sprint(limit))
	}
	if order, _ := args["order"].(string); order != "" {
		params.Set("order", order)
	}
	if typ, _ := args["type"].(string); typ != "" {
		params.Set("type", typ)
	}

	path, err := matchPath(args, "/history")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Presets:\n\n")
	for _, config := range configs {
		fmt.Fprintf(&b, "• %s (%s)\n  %s\n  Players: %d, First to: %d\n\n",
			config.ConfigID, config.Name, config.Description, config.PlayerCount, config.VictoryThreshold)
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `🐺 Wolf and Rabbits - Complete Instructions

GAME OBJECTIVE:
The wolf chases up to three rabbits across an 8x8 board. Every capture
scores a point for the wolf. Every escape into the safety zone, and every
collectible picked up, scores a point for that rabbit. The first player to
reach the victory threshold wins the match.

BOARD LEGEND:
• W = Wolf, R = Rabbit / Red Rabbit, B = Blue Rabbit, K = Black Rabbit
• ~ = Obstacle (impassable for everyone)
• D = Door, the only way into the safety zone
• S = Safety zone (outside the grid, rabbits only)
• C = Collectible (rabbits only, worth one point)
• + = Bonus tile (grants an extra roll to whoever lands on it)
• * = Legal destination for the current roll
• . = Empty cell

ROUND CYCLE:
1. ROCK-PAPER-SCISSORS: every seat throws a hand. Ties repeat the throw.
   Losers must answer a trivia question before the dice phase.
2. TRIVIA: each loser in turn acknowledges the question; the answer is
   revealed and play continues.
3. DICE: the wolf rolls and moves first, then the rabbits in rotating
   order. Rabbits add a bonus of 1 to every roll.

MOVEMENT:
• A roll of N means exactly N orthogonal steps; you may double back.
• Nobody walks through obstacles or other players.
• The wolf may finish on a rabbit (capture) but never enters the safety
  zone or steps on a collectible.
• A rabbit may never jump over the wolf in a straight line.
• Rabbits enter the safety zone only by stepping out of a door.
• Captured and escaped rabbits return to the free corner farthest from
  the wolf.
• A player with no legal destination for any roll is skipped.

TILES:
• A collectible appears every few rounds (faster with more rabbits) and
  vanishes after 3 rounds.
• Up to two bonus tiles appear every 3-5 rounds and vanish after 2 rounds.

PLAYING A SEAT:
1. Check match_state to see the phase and whose turn it is.
2. In rps use play_rps for your seats, then ai_rps (or advance_ai).
3. In trivia use acknowledge_trivia when the question names your seat.
4. In dice use roll_dice when your seat heads the queue, then move_to
   one of the listed legal destinations.
5. Use advance_ai to play the AI seats without waiting.

Good luck, and watch out for the wolf! 🐇`

	return mcp.NewToolResultText(instructions), nil
}

func (c *Client) handleDescribeCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	x, okX := intArg(args, "x")
	y, okY := intArg(args, "y")
	if !okX || !okY {
		return mcp.NewToolResultError("x and y are required"), nil
	}
	if x < 0 || x > engine.GridSize || y < 0 || y > engine.GridSize {
		return mcp.NewToolResultError(fmt.Sprintf("Coordinates (%d, %d) are out of bounds. The board spans 0-%d on both axes",
			x, y, engine.GridSize)), nil
	}

	path, err := matchPath(args, fmt.Sprintf("/cells/%d/%d", x, y))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var cell engine.CellInfo
	if err := c.apiCall(ctx, "GET", path, nil, &cell); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatCellInfo(&cell)), nil
}

// Formatting helpers

func formatMatchInfo(info *service.MatchInfo) string {
	return fmt.Sprintf("Match: %s\nConfig: %s\nCreated: %s\n\n%s",
		info.ID, info.ConfigName, info.CreatedAt.Format("15:04:05"), formatMatchState(info.State))
}

// roleChar is the board letter of a role
func roleChar(r engine.Role) string {
	switch r {
	case engine.Wolf:
		return "W"
	case engine.Rabbit, engine.RedRabbit:
		return "R"
	case engine.BlueRabbit:
		return "B"
	case engine.BlackRabbit:
		return "K"
	}
	return "?"
}

// cellChar resolves the letter drawn for a cell, occupants first
func cellChar(state *engine.MatchState, p engine.Position, legal map[engine.Position]bool) string {
	for _, pl := range state.Players {
		if pl.Pos == p {
			return roleChar(pl.Role)
		}
	}
	for _, o := range state.Obstacles {
		if o == p {
			return "~"
		}
	}
	for _, t := range state.Tiles {
		if t.Pos == p {
			if t.Kind == engine.Collectible {
				return "C"
			}
			return "+"
		}
	}
	switch {
	case legal[p]:
		return "*"
	case p.InSafetyZone():
		return "S"
	case engine.IsDoor(p):
		return "D"
	case p.InGrid():
		return "."
	}
	return " "
}

// formatBoard draws the grid plus the safety zone ring, row 0 on top
func formatBoard(state *engine.MatchState) string {
	legal := make(map[engine.Position]bool, len(state.LegalMoves))
	for _, p := range state.LegalMoves {
		legal[p] = true
	}

	var b strings.Builder
	b.WriteString("   0 1 2 3 4 5 6 7 8\n")
	for y := 0; y <= engine.GridSize; y++ {
		fmt.Fprintf(&b, "%d ", y)
		for x := 0; x <= engine.GridSize; x++ {
			b.WriteString(" " + cellChar(state, engine.Position{X: x, Y: y}, legal))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func formatPositions(ps []engine.Position) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = fmt.Sprintf("(%d,%d)", p.X, p.Y)
	}
	return strings.Join(parts, " ")
}

func formatMatchState(state *engine.MatchState) string {
	if state == nil {
		return "No state available"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Phase: %s\n", state.Phase)
	if state.Message != "" {
		fmt.Fprintf(&b, "Message: %s\n", state.Message)
	}

	fmt.Fprintf(&b, "\nScores (first to %d):\n", state.VictoryThreshold)
	for _, p := range state.Players {
		seat := "AI"
		if p.Human {
			seat = "human"
		}
		fmt.Fprintf(&b, "  %s %-13s %d  at (%d,%d) [%s]\n", roleChar(p.Role), p.Label, p.Score, p.Pos.X, p.Pos.Y, seat)
	}

	b.WriteString("\n" + formatBoard(state))

	switch state.Phase {
	case engine.PhaseRPS:
		waiting := []string{}
		for _, p := range state.Players {
			if _, done := state.RPSChoices[p.Role]; !done {
				waiting = append(waiting, string(p.Role))
			}
		}
		fmt.Fprintf(&b, "\nWaiting for hands from: %s\n", strings.Join(waiting, ", "))
	case engine.PhaseTrivia:
		if t := state.Trivia; t != nil {
			fmt.Fprintf(&b, "\nTrivia #%d for %s: %s\n", t.Number, t.Role, t.Question.Text)
			if len(t.Question.Options) > 0 {
				fmt.Fprintf(&b, "Options: %s\n", strings.Join(t.Question.Options, " / "))
			}
		}
	case engine.PhaseDice:
		queue := make([]string, len(state.DiceQueue))
		for i, r := range state.DiceQueue {
			queue[i] = string(r)
		}
		fmt.Fprintf(&b, "\nDice queue: %s\n", strings.Join(queue, " → "))
		if r := state.PendingRoll; r != nil {
			fmt.Fprintf(&b, "%s rolled %d (+%d) = %d steps\n", r.Role, r.Value, r.Bonus, r.Steps)
			fmt.Fprintf(&b, "Legal destinations: %s\n", formatPositions(state.LegalMoves))
		}
	case engine.PhaseMatchOver:
		fmt.Fprintf(&b, "\n🏆 MATCH OVER - %s wins!\n", state.Winner)
	}

	if state.LastAnswer != "" && state.Phase != engine.PhaseTrivia {
		fmt.Fprintf(&b, "Last trivia answer: %s\n", state.LastAnswer)
	}

	return b.String()
}

func formatActionResult(result *service.ActionResult) string {
	var b strings.Builder

	if result.Accepted {
		b.WriteString("✓ Accepted\n")
	} else {
		fmt.Fprintf(&b, "✗ Ignored: %s\n", result.Message)
	}

	if r := result.Roll; r != nil {
		if r.Trapped {
			fmt.Fprintf(&b, "Rolled %d: %s has no legal move and loses the turn\n", r.Value, r.Role)
		} else {
			fmt.Fprintf(&b, "Rolled %d (+%d) = %d steps, destinations: %s\n", r.Value, r.Bonus, r.Steps, formatPositions(r.Destinations))
		}
	}
	if m := result.Move; m != nil {
		fmt.Fprintf(&b, "%s moved (%d,%d) → (%d,%d)\n", m.Role, m.From.X, m.From.Y, m.To.X, m.To.Y)
		switch {
		case m.Captured:
			fmt.Fprintf(&b, "🐺 Caught %s!\n", m.CaughtRole)
		case m.Escaped:
			b.WriteString("🐇 Escaped to safety!\n")
		case m.Collected:
			b.WriteString("🥕 Collectible picked up!\n")
		}
		if m.BonusTriggered {
			b.WriteString("🎲 Bonus roll earned\n")
		}
	}
	if result.TicksFired > 0 {
		fmt.Fprintf(&b, "AI turns played: %d\n", result.TicksFired)
	}

	if len(result.Events) > 0 {
		b.WriteString("\nEvents:\n")
		for _, e := range result.Events {
			fmt.Fprintf(&b, "  [%s] %s\n", e.Type, e.Message)
		}
	}

	b.WriteString("\n" + formatMatchState(result.State))
	return b.String()
}

func formatCellInfo(cell *engine.CellInfo) string {
	var kind, description string
	switch {
	case cell.Obstacle:
		kind, description = "Obstacle", "Impassable for every player"
	case cell.SafetyZone:
		kind, description = "Safety zone", "Rabbits score by stepping in from a door; the wolf can never enter"
	case cell.Door:
		kind, description = "Door", "Rabbits on this cell may step into the safety zone"
	case cell.InGrid:
		kind, description = "Open", "Free cell"
	default:
		kind, description = "Off board", "Nobody can stand here"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Cell at position (%d, %d):\n━━━━━━━━━━━━━━━━━━━━━━━━\n", cell.Pos.X, cell.Pos.Y)
	fmt.Fprintf(&b, "Type: %s\nDescription: %s\n", kind, description)
	if cell.Occupant != "" {
		fmt.Fprintf(&b, "Occupant: %s\n", cell.Occupant)
	}
	if cell.Tile != "" {
		fmt.Fprintf(&b, "Tile: %s (%d rounds left)\n", cell.Tile, cell.RoundsLeft)
	}
	fmt.Fprintf(&b, "Legal destination for the current roll: %v\n", cell.Legal)
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Match History (Page %d/%d, Total: %d events):\n\n",
		history.Page, history.TotalPages, history.TotalEvents)

	for _, e := range history.Events {
		fmt.Fprintf(&b, "#%d [%s] %s\n", e.Seq, e.Type, e.Message)
	}

	if history.HasNext {
		b.WriteString("\n(more events on the next page)\n")
	}
	return b.String()
}
