package service

import (
	"time"

	"github.com/wricardo/rabbit-chase-game/game/engine"
)

// MatchOptions overrides parts of a preset when a match is created. Zero
// values keep the preset's setting. A nil HumanRoles keeps the preset's
// seats while an empty, non-nil list makes every seat AI.
type MatchOptions struct {
	PlayerCount      int           `json:"player_count,omitempty"`
	VictoryThreshold int           `json:"victory_threshold,omitempty"`
	HumanRoles       []engine.Role `json:"human_roles,omitempty"`
	Seed             uint64        `json:"seed,omitempty"`
}

// MatchInfo provides information about a match
type MatchInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	State          *engine.MatchState `json:"state"`
	Config         *engine.GameConfig `json:"config"`
}

// ActionResult is the outcome of a single entry point call. Accepted is
// false when the engine ignored the input; State is returned either way.
type ActionResult struct {
	Accepted   bool                `json:"accepted"`
	Message    string              `json:"message"`
	State      *engine.MatchState  `json:"state"`
	Roll       *engine.RollResult  `json:"roll,omitempty"`
	Move       *engine.MoveResult  `json:"move,omitempty"`
	TicksFired int                 `json:"ticks_fired,omitempty"`
	Events     []engine.MatchEvent `json:"events"`
}

// HistoryOptions configures event history retrieval
type HistoryOptions struct {
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
	Order string           `json:"order"` // "asc" or "desc"
	Type  engine.EventType `json:"type,omitempty"`
}

// HistoryResponse contains paginated match history
type HistoryResponse struct {
	Events      []engine.MatchEvent `json:"events"`
	TotalEvents int                 `json:"total_events"`
	Page        int                 `json:"page"`
	PageSize    int                 `json:"page_size"`
	TotalPages  int                 `json:"total_pages"`
	HasNext     bool                `json:"has_next"`
	HasPrevious bool                `json:"has_previous"`
}

// ConfigInfo provides information about a rules preset
type ConfigInfo struct {
	Filename         string `json:"filename"`
	ConfigID         string `json:"config_id"` // The identifier to use for match creation
	Name             string `json:"name"`      // Display name
	Description      string `json:"description"`
	PlayerCount      int    `json:"player_count"`
	VictoryThreshold int    `json:"victory_threshold"`
}
