package service

import (
	"context"
	"errors"
	"time"

	"github.com/wricardo/rabbit-chase-game/game/engine"
)

var (
	// ErrMatchNotFound is returned for operations on an unknown match id
	ErrMatchNotFound = errors.New("match not found")
	// ErrConfigNotFound is returned when a preset cannot be loaded
	ErrConfigNotFound = errors.New("config not found")
	// ErrInvalidOptions is returned when match options don't fit the preset
	ErrInvalidOptions = errors.New("invalid match options")
)

// GameService defines all match-related operations
type GameService interface {
	// Match lifecycle
	CreateMatch(ctx context.Context, configID string, opts MatchOptions) (*MatchInfo, error)
	GetMatch(ctx context.Context, matchID string) (*MatchInfo, error)
	ListMatches(ctx context.Context) ([]*MatchInfo, error)
	DeleteMatch(ctx context.Context, matchID string) error

	// Round cycle
	SubmitRPSChoice(ctx context.Context, matchID string, role engine.Role, hand engine.Hand) (*ActionResult, error)
	RequestAIRPSChoice(ctx context.Context, matchID string) (*ActionResult, error)
	AcknowledgeTrivia(ctx context.Context, matchID string, role engine.Role) (*ActionResult, error)
	RollDice(ctx context.Context, matchID string, role engine.Role) (*ActionResult, error)
	SubmitMove(ctx context.Context, matchID string, role engine.Role, dest engine.Position) (*ActionResult, error)
	AdvanceAI(ctx context.Context, matchID string, limit int) (*ActionResult, error)
	ResetMatch(ctx context.Context, matchID string) (*ActionResult, error)

	// Match state
	GetState(ctx context.Context, matchID string) (*engine.MatchState, error)
	GetHistory(ctx context.Context, matchID string, opts HistoryOptions) (*HistoryResponse, error)
	DescribeCell(ctx context.Context, matchID string, pos engine.Position) (*engine.CellInfo, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configID string) (*engine.GameConfig, error)
	SaveConfig(ctx context.Context, configID string, config *engine.GameConfig) error

	// Close stops every pending AI timer
	Close()
}

// SessionManager defines match storage operations
type SessionManager interface {
	Create(id string, config *engine.GameConfig) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// ConfigManager handles rule preset loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.GameConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.GameConfig
	SaveConfig(name string, config *engine.GameConfig) error
}

// Notifier receives the match state after every change. The websocket hub
// implements it.
type Notifier interface {
	BroadcastMatchState(matchID string, state *engine.MatchState)
}

// Session represents an active match
type Session struct {
	ID             string
	Match          *engine.Match
	Config         *engine.GameConfig
	ConfigID       string
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
