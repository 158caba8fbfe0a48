package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// ErrInvalidConfig wraps every rules validation failure
var ErrInvalidConfig = errors.New("invalid game config")

// CadenceRange is an inclusive range of rounds between two spawns
type CadenceRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Messages are the user-facing texts of the match. Entries left empty fall
// back to the defaults.
type Messages struct {
	Welcome    string `json:"welcome"`
	RPSTie     string `json:"rps_tie"`
	MustAnswer string `json:"must_answer"`
	RollPrompt string `json:"roll_prompt"`
	Rolled     string `json:"rolled"`
	Trapped    string `json:"trapped"`
	Bypassed   string `json:"bypassed"`
	Caught     string `json:"caught"`
	Escaped    string `json:"escaped"`
	Collected  string `json:"collected"`
	BonusRoll  string `json:"bonus_roll"`
	Victory    string `json:"victory"`
}

// Delays are the artificial pauses before AI decisions, in milliseconds
type Delays struct {
	AIThinkMS      int `json:"ai_think_ms"`
	FeedbackMS     int `json:"feedback_ms"`
	TriviaRevealMS int `json:"trivia_reveal_ms"`
}

// GameConfig is a rules preset loaded from JSON
type GameConfig struct {
	Name                string         `json:"name"`
	Description         string         `json:"description"`
	PlayerCount         int            `json:"player_count"`
	VictoryThreshold    int            `json:"victory_threshold"`
	HumanRoles          []Role         `json:"human_roles"`
	ObstacleCount       int            `json:"obstacle_count,omitempty"`
	MaxObstacleAttempts int            `json:"max_obstacle_attempts"`
	RabbitRollBonus     int            `json:"rabbit_roll_bonus,omitempty"`
	DieFaces            int            `json:"die_faces"`
	CollectibleLifetime int            `json:"collectible_lifetime"`
	BonusLifetime       int            `json:"bonus_lifetime"`
	MaxBonusTiles       int            `json:"max_bonus_tiles"`
	CollectibleCadence  []CadenceRange `json:"collectible_cadence"`
	BonusCadence        CadenceRange   `json:"bonus_cadence"`
	Delays              Delays         `json:"delays"`
	Seed                uint64         `json:"seed,omitempty"`
	Questions           []Question     `json:"questions,omitempty"`
	Messages            Messages       `json:"messages"`
}

// DefaultMessages returns the built-in match texts
func DefaultMessages() Messages {
	return Messages{
		Welcome:    "Play rock-paper-scissors to start!",
		RPSTie:     "It's a tie! Play rock-paper-scissors again.",
		MustAnswer: "%s must answer!",
		RollPrompt: "%s, roll the dice!",
		Rolled:     "%s rolled %d.",
		Trapped:    "%s is trapped and skips the turn.",
		Bypassed:   "%s cannot move this round.",
		Caught:     "Wolf caught the %s!",
		Escaped:    "%s reached safety!",
		Collected:  "%s grabbed a carrot!",
		BonusRoll:  "%s rolls again!",
		Victory:    "%s wins the match with %d points!",
	}
}

// DefaultConfig returns the classic two-player preset
func DefaultConfig() *GameConfig {
	return &GameConfig{
		Name:                "classic",
		Description:         "Wolf against a single rabbit, first to five points",
		PlayerCount:         2,
		VictoryThreshold:    5,
		HumanRoles:          []Role{Rabbit},
		ObstacleCount:       DefaultObstacleCount,
		MaxObstacleAttempts: 1000,
		RabbitRollBonus:     DefaultRabbitBonus,
		DieFaces:            DefaultDieFaces,
		CollectibleLifetime: 3,
		BonusLifetime:       2,
		MaxBonusTiles:       DefaultMaxBonusTiles,
		CollectibleCadence:  []CadenceRange{{Min: 4, Max: 6}, {Min: 3, Max: 5}, {Min: 2, Max: 4}},
		BonusCadence:        CadenceRange{Min: 3, Max: 5},
		Delays:              Delays{AIThinkMS: 800, FeedbackMS: 1500, TriviaRevealMS: 2000},
		Questions:           DefaultQuestions(),
		Messages:            DefaultMessages(),
	}
}

// Clone returns a deep copy of the config
func (c *GameConfig) Clone() *GameConfig {
	out := *c
	out.HumanRoles = append([]Role(nil), c.HumanRoles...)
	out.CollectibleCadence = append([]CadenceRange(nil), c.CollectibleCadence...)
	out.Questions = make([]Question, len(c.Questions))
	for i, q := range c.Questions {
		q.Options = append([]string(nil), q.Options...)
		out.Questions[i] = q
	}
	return &out
}

// WithDefaults returns a copy with every unset (zero) field filled from
// DefaultConfig. HumanRoles is left as given: an empty list means an all-AI
// match.
func (c *GameConfig) WithDefaults() *GameConfig {
	out := c.Clone()
	def := DefaultConfig()

	if out.PlayerCount == 0 {
		out.PlayerCount = def.PlayerCount
	}
	if out.VictoryThreshold == 0 {
		out.VictoryThreshold = def.VictoryThreshold
	}
	if out.ObstacleCount == 0 {
		out.ObstacleCount = def.ObstacleCount
	}
	if out.MaxObstacleAttempts == 0 {
		out.MaxObstacleAttempts = def.MaxObstacleAttempts
	}
	if out.RabbitRollBonus == 0 {
		out.RabbitRollBonus = def.RabbitRollBonus
	}
	if out.DieFaces == 0 {
		out.DieFaces = def.DieFaces
	}
	if out.CollectibleLifetime == 0 {
		out.CollectibleLifetime = def.CollectibleLifetime
	}
	if out.BonusLifetime == 0 {
		out.BonusLifetime = def.BonusLifetime
	}
	if out.MaxBonusTiles == 0 {
		out.MaxBonusTiles = def.MaxBonusTiles
	}
	if len(out.CollectibleCadence) == 0 {
		out.CollectibleCadence = def.CollectibleCadence
	}
	if out.BonusCadence == (CadenceRange{}) {
		out.BonusCadence = def.BonusCadence
	}
	if len(out.Questions) == 0 {
		out.Questions = def.Questions
	}

	m, dm := &out.Messages, def.Messages
	fill := func(dst *string, v string) {
		if *dst == "" {
			*dst = v
		}
	}
	fill(&m.Welcome, dm.Welcome)
	fill(&m.RPSTie, dm.RPSTie)
	fill(&m.MustAnswer, dm.MustAnswer)
	fill(&m.RollPrompt, dm.RollPrompt)
	fill(&m.Rolled, dm.Rolled)
	fill(&m.Trapped, dm.Trapped)
	fill(&m.Bypassed, dm.Bypassed)
	fill(&m.Caught, dm.Caught)
	fill(&m.Escaped, dm.Escaped)
	fill(&m.Collected, dm.Collected)
	fill(&m.BonusRoll, dm.BonusRoll)
	fill(&m.Victory, dm.Victory)
	return out
}

// ValidateGameConfig validates a rules preset after defaults are applied
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	if config.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidConfig)
	}
	c := config.WithDefaults()

	roster, err := RosterFor(c.PlayerCount)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.VictoryThreshold < 1 || c.VictoryThreshold > MaxVictoryThreshold {
		return fmt.Errorf("%w: victory_threshold must be between 1 and %d, got %d", ErrInvalidConfig, MaxVictoryThreshold, c.VictoryThreshold)
	}
	for _, r := range c.HumanRoles {
		if !containsRole(roster, r) {
			return fmt.Errorf("%w: human role %q is not part of a %d-player match", ErrInvalidConfig, r, c.PlayerCount)
		}
	}
	if c.ObstacleCount < 1 || c.ObstacleCount > GridSize*GridSize/2 {
		return fmt.Errorf("%w: obstacle_count must be between 1 and %d, got %d", ErrInvalidConfig, GridSize*GridSize/2, c.ObstacleCount)
	}
	if c.MaxObstacleAttempts < 1 || c.MaxObstacleAttempts > MaxObstacleAttempts {
		return fmt.Errorf("%w: max_obstacle_attempts must be between 1 and %d, got %d", ErrInvalidConfig, MaxObstacleAttempts, c.MaxObstacleAttempts)
	}
	if c.RabbitRollBonus < 1 {
		return fmt.Errorf("%w: rabbit_roll_bonus must be at least 1, got %d", ErrInvalidConfig, c.RabbitRollBonus)
	}
	if c.DieFaces < 1 {
		return fmt.Errorf("%w: die_faces must be positive, got %d", ErrInvalidConfig, c.DieFaces)
	}
	if c.CollectibleLifetime < 1 || c.BonusLifetime < 1 {
		return fmt.Errorf("%w: tile lifetimes must be positive", ErrInvalidConfig)
	}
	if c.MaxBonusTiles < 1 || c.MaxBonusTiles > DefaultMaxBonusTiles {
		return fmt.Errorf("%w: max_bonus_tiles must be between 1 and %d, got %d", ErrInvalidConfig, DefaultMaxBonusTiles, c.MaxBonusTiles)
	}
	if len(c.CollectibleCadence) < MaxPlayers-1 {
		return fmt.Errorf("%w: collectible_cadence needs one range per rabbit count (%d), got %d", ErrInvalidConfig, MaxPlayers-1, len(c.CollectibleCadence))
	}
	for i, r := range c.CollectibleCadence {
		if r.Min < 1 || r.Max < r.Min {
			return fmt.Errorf("%w: collectible_cadence[%d] must satisfy 1 <= min <= max, got %d..%d", ErrInvalidConfig, i, r.Min, r.Max)
		}
	}
	if c.BonusCadence.Min < 1 || c.BonusCadence.Max < c.BonusCadence.Min {
		return fmt.Errorf("%w: bonus_cadence must satisfy 1 <= min <= max, got %d..%d", ErrInvalidConfig, c.BonusCadence.Min, c.BonusCadence.Max)
	}
	if c.Delays.AIThinkMS < 0 || c.Delays.FeedbackMS < 0 || c.Delays.TriviaRevealMS < 0 {
		return fmt.Errorf("%w: delays cannot be negative", ErrInvalidConfig)
	}
	for i, q := range c.Questions {
		if q.Text == "" || q.Answer == "" {
			return fmt.Errorf("%w: question %d needs text and answer", ErrInvalidConfig, i+1)
		}
		if len(q.Options) > 0 && !containsString(q.Options, q.Answer) {
			return fmt.Errorf("%w: question %d answer %q is not among its options", ErrInvalidConfig, i+1, q.Answer)
		}
	}

	// Validate format strings
	m := c.Messages
	for _, f := range []struct {
		key, text string
		verbs     []string
	}{
		{"must_answer", m.MustAnswer, []string{"%s"}},
		{"roll_prompt", m.RollPrompt, []string{"%s"}},
		{"rolled", m.Rolled, []string{"%s", "%d"}},
		{"trapped", m.Trapped, []string{"%s"}},
		{"bypassed", m.Bypassed, []string{"%s"}},
		{"caught", m.Caught, []string{"%s"}},
		{"escaped", m.Escaped, []string{"%s"}},
		{"collected", m.Collected, []string{"%s"}},
		{"bonus_roll", m.BonusRoll, []string{"%s"}},
		{"victory", m.Victory, []string{"%s", "%d"}},
	} {
		for _, verb := range f.verbs {
			if strings.Count(f.text, verb) != 1 {
				return fmt.Errorf("%w: messages.%s must contain %s exactly once, got %q", ErrInvalidConfig, f.key, verb, f.text)
			}
		}
	}
	return nil
}

// UnmarshalJSON decodes a preset. An explicit 0 for obstacle_count or
// rabbit_roll_bonus is rejected, since a zero value stands for the default.
func (c *GameConfig) UnmarshalJSON(data []byte) error {
	type plain GameConfig
	var raw struct {
		plain
		ObstacleCount   *int `json:"obstacle_count"`
		RabbitRollBonus *int `json:"rabbit_roll_bonus"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*c = GameConfig(raw.plain)
	if raw.ObstacleCount != nil {
		if *raw.ObstacleCount == 0 {
			return fmt.Errorf("%w: obstacle_count must be at least 1, omit it for the default of %d", ErrInvalidConfig, DefaultObstacleCount)
		}
		c.ObstacleCount = *raw.ObstacleCount
	}
	if raw.RabbitRollBonus != nil {
		if *raw.RabbitRollBonus == 0 {
			return fmt.Errorf("%w: rabbit_roll_bonus must be at least 1, omit it for the default of %d", ErrInvalidConfig, DefaultRabbitBonus)
		}
		c.RabbitRollBonus = *raw.RabbitRollBonus
	}
	return nil
}

// LoadGameConfig loads a rules preset from a JSON file
func LoadGameConfig(filename string) (*GameConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var config GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	if err := ValidateGameConfig(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

func (d Delays) aiThink() time.Duration {
	return time.Duration(d.AIThinkMS) * time.Millisecond
}

func (d Delays) feedback() time.Duration {
	return time.Duration(d.FeedbackMS) * time.Millisecond
}

func (d Delays) triviaReveal() time.Duration {
	return time.Duration(d.TriviaRevealMS) * time.Millisecond
}

func containsString(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
