package engine

import "time"

// Phase is the current step of the round cycle
type Phase string

const (
	PhaseSetup     Phase = "setup"
	PhaseRPS       Phase = "rps"
	PhaseTrivia    Phase = "trivia"
	PhaseDice      Phase = "dice"
	PhaseMatchOver Phase = "match_over"

	// Board and rule constants
	GridSize             = 8
	DefaultObstacleCount = 8
	DefaultDieFaces      = 6
	DefaultRabbitBonus   = 1
	DefaultMaxBonusTiles = 2
	MinPlayers           = 2
	MaxPlayers           = 4
	MaxVictoryThreshold  = 99
	MaxObstacleAttempts  = 10000
	DefaultHistoryLimit  = 20
)

// Position represents x,y coordinates on the board. The safety zone lies
// one ring outside the 8x8 grid, so x or y may equal GridSize.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Player is one seat of the match roster
type Player struct {
	Role    Role     `json:"role"`
	Species Species  `json:"species"`
	Label   string   `json:"label"`
	Pos     Position `json:"pos"`
	Start   Position `json:"start"`
	Human   bool     `json:"human"`
	Score   int      `json:"score"`
}

// TileKind distinguishes the two transient tile flavours
type TileKind string

const (
	Collectible TileKind = "collectible"
	BonusRoll   TileKind = "bonus"
)

// TransientTile is a bonus tile with a countdown of remaining rounds
type TransientTile struct {
	Kind       TileKind `json:"kind"`
	Pos        Position `json:"pos"`
	RoundsLeft int      `json:"rounds_left"`
}

// TileCounters tracks the spawn cadence of transient tiles
type TileCounters struct {
	RoundsSinceCollectible int `json:"rounds_since_collectible"`
	CollectibleThreshold   int `json:"collectible_threshold"`
	RoundsSinceBonus       int `json:"rounds_since_bonus"`
	BonusThreshold         int `json:"bonus_threshold"`
}

// TriviaTurn is the question currently put to an RPS loser
type TriviaTurn struct {
	Role     Role     `json:"role"`
	Question Question `json:"question"`
	Number   int      `json:"number"`
}

// RollResult describes a die roll and the destinations it opens up
type RollResult struct {
	Role         Role       `json:"role"`
	Value        int        `json:"value"`
	Bonus        int        `json:"bonus"`
	Steps        int        `json:"steps"`
	Destinations []Position `json:"destinations"`
	Trapped      bool       `json:"trapped,omitempty"`
}

// MoveResult reports everything a single move triggered
type MoveResult struct {
	Role           Role      `json:"role"`
	From           Position  `json:"from"`
	To             Position  `json:"to"`
	Captured       bool      `json:"captured,omitempty"`
	CaughtRole     Role      `json:"caught_role,omitempty"`
	Escaped        bool      `json:"escaped,omitempty"`
	Collected      bool      `json:"collected,omitempty"`
	BonusTriggered bool      `json:"bonus_triggered,omitempty"`
	Respawned      *Position `json:"respawned,omitempty"`
	VictoryRole    Role      `json:"victory_role,omitempty"`
}

// MatchState is the single aggregate holding everything about a match.
// Only the Match that owns it mutates it.
type MatchState struct {
	ConfigName       string          `json:"config_name"`
	Phase            Phase           `json:"phase"`
	Players          []Player        `json:"players"`
	Obstacles        []Position      `json:"obstacles"`
	Doors            []Position      `json:"doors"`
	Tiles            []TransientTile `json:"tiles"`
	Counters         TileCounters    `json:"tile_counters"`
	DiceQueue        []Role          `json:"dice_queue"`
	DiceRound        int             `json:"dice_round"`
	RPSChoices       map[Role]Hand   `json:"rps_choices,omitempty"`
	LastRPS          map[Role]Hand   `json:"last_rps,omitempty"`
	PendingLosers    []Role          `json:"pending_losers"`
	Trivia           *TriviaTurn     `json:"trivia,omitempty"`
	QuestionIndex    int             `json:"question_index"`
	LastAnswer       string          `json:"last_answer,omitempty"`
	PendingRoll      *RollResult     `json:"pending_roll,omitempty"`
	LastRoll         *RollResult     `json:"last_roll,omitempty"`
	LegalMoves       []Position      `json:"legal_moves"`
	VictoryThreshold int             `json:"victory_threshold"`
	MatchDecided     bool            `json:"match_decided"`
	Winner           Role            `json:"winner,omitempty"`
	Message          string          `json:"message"`
	TotalEvents      int             `json:"total_events"`
}

// EventType classifies history entries
type EventType string

const (
	EventRPS       EventType = "rps"
	EventRPSTie    EventType = "rps_tie"
	EventTrivia    EventType = "trivia"
	EventRoll      EventType = "roll"
	EventTrapped   EventType = "trapped"
	EventBypassed  EventType = "bypassed"
	EventMove      EventType = "move"
	EventCaught    EventType = "caught"
	EventEscaped   EventType = "escaped"
	EventCollected EventType = "collected"
	EventBonus     EventType = "bonus"
	EventRespawn   EventType = "respawn"
	EventSpawn     EventType = "spawn"
	EventExpire    EventType = "expire"
	EventVictory   EventType = "victory"
	EventReset     EventType = "reset"
)

// MatchEvent represents a single entry in the match history
type MatchEvent struct {
	Seq       int       `json:"seq"`
	Type      EventType `json:"type"`
	Role      Role      `json:"role,omitempty"`
	Message   string    `json:"message"`
	From      *Position `json:"from,omitempty"`
	To        *Position `json:"to,omitempty"`
	Value     int       `json:"value,omitempty"`
	Timestamp int64     `json:"timestamp"`
}

func newEvent(typ EventType, role Role, msg string) MatchEvent {
	return MatchEvent{
		Type:      typ,
		Role:      role,
		Message:   msg,
		Timestamp: time.Now().Unix(),
	}
}
