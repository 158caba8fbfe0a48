package engine

import "maps"

// Engine provides the main interface for match operations
type Engine interface {
	// State
	State() *MatchState
	Snapshot() *MatchState
	Phase() Phase
	IsMatchOver() bool
	Winner() Role
	Scores() map[Role]int
	Reset() error

	// Round cycle
	SubmitRPSChoice(role Role, hand Hand) bool
	RequestAIRPSChoice() bool
	SubmitTriviaAcknowledged(role Role) bool
	RollDice(role Role) (RollResult, bool)
	SubmitMove(role Role, dest Position) (MoveResult, bool)
	LegalDestinations() []Position

	// AI pacing
	PendingTicks() []Tick
	FireTick(t Tick) bool
	TickValid(t Tick) bool
	RunPendingTicks(limit int) int

	// Configuration
	Config() *GameConfig

	// History
	History() []MatchEvent
	LastEvent() *MatchEvent

	// Board inspection
	DescribeCell(p Position) CellInfo
}

var _ Engine = (*Match)(nil)

// CellInfo describes what occupies a single cell
type CellInfo struct {
	Pos        Position `json:"pos"`
	InGrid     bool     `json:"in_grid"`
	SafetyZone bool     `json:"safety_zone"`
	Door       bool     `json:"door"`
	Obstacle   bool     `json:"obstacle"`
	Occupant   Role     `json:"occupant,omitempty"`
	Tile       TileKind `json:"tile,omitempty"`
	RoundsLeft int      `json:"rounds_left,omitempty"`
	Legal      bool     `json:"legal"`
}

// State returns the live match state. Callers must not modify it.
func (m *Match) State() *MatchState {
	return m.state
}

// Snapshot returns a deep copy of the match state that is safe to hand out
func (m *Match) Snapshot() *MatchState {
	s := *m.state
	s.Players = append([]Player(nil), m.state.Players...)
	s.Obstacles = append([]Position(nil), m.state.Obstacles...)
	s.Doors = append([]Position(nil), m.state.Doors...)
	s.Tiles = append([]TransientTile{}, m.state.Tiles...)
	s.DiceQueue = append([]Role{}, m.state.DiceQueue...)
	s.PendingLosers = append([]Role{}, m.state.PendingLosers...)
	s.LegalMoves = append([]Position{}, m.state.LegalMoves...)
	if m.state.RPSChoices != nil {
		s.RPSChoices = make(map[Role]Hand, len(m.state.RPSChoices))
		for r := range m.state.RPSChoices {
			s.RPSChoices[r] = HandHidden
		}
	}
	if m.state.LastRPS != nil {
		s.LastRPS = maps.Clone(m.state.LastRPS)
	}
	if m.state.Trivia != nil {
		t := *m.state.Trivia
		t.Question.Options = append([]string(nil), t.Question.Options...)
		s.Trivia = &t
	}
	if m.state.PendingRoll != nil {
		r := *m.state.PendingRoll
		r.Destinations = append([]Position(nil), r.Destinations...)
		s.PendingRoll = &r
	}
	if m.state.LastRoll != nil {
		r := *m.state.LastRoll
		r.Destinations = append([]Position(nil), r.Destinations...)
		s.LastRoll = &r
	}
	return &s
}

// Phase returns the current phase
func (m *Match) Phase() Phase {
	return m.state.Phase
}

// IsMatchOver returns whether a player has reached the victory threshold
func (m *Match) IsMatchOver() bool {
	return m.state.MatchDecided
}

// Winner returns the winning role, or "" while the match is running
func (m *Match) Winner() Role {
	return m.state.Winner
}

// Scores returns each role's points
func (m *Match) Scores() map[Role]int {
	out := make(map[Role]int, len(m.state.Players))
	for _, p := range m.state.Players {
		out[p.Role] = p.Score
	}
	return out
}

// LegalDestinations returns the cells the pending roll allows
func (m *Match) LegalDestinations() []Position {
	return append([]Position{}, m.state.LegalMoves...)
}

// Config returns the effective rules preset
func (m *Match) Config() *GameConfig {
	return m.config
}

// History returns a copy of every recorded event, oldest first
func (m *Match) History() []MatchEvent {
	return append([]MatchEvent{}, m.history...)
}

// LastEvent returns the newest event, or nil if nothing happened yet
func (m *Match) LastEvent() *MatchEvent {
	if len(m.history) == 0 {
		return nil
	}
	ev := m.history[len(m.history)-1]
	return &ev
}

// DescribeCell reports what occupies p
func (m *Match) DescribeCell(p Position) CellInfo {
	info := CellInfo{
		Pos:        p,
		InGrid:     p.InGrid(),
		SafetyZone: p.InSafetyZone(),
		Door:       IsDoor(p),
		Obstacle:   m.obstacles.Has(p),
		Legal:      containsPosition(m.state.LegalMoves, p),
	}
	for _, q := range m.state.Players {
		if q.Pos == p {
			info.Occupant = q.Role
			break
		}
	}
	if i := m.tileAt(p); i >= 0 {
		info.Tile = m.state.Tiles[i].Kind
		info.RoundsLeft = m.state.Tiles[i].RoundsLeft
	}
	return info
}
