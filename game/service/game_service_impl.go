package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/wricardo/rabbit-chase-game/game/engine"
)

const (
	defaultAdvanceLimit = 100
	maxAdvanceLimit     = 1000
)

// Option configures the game service
type Option func(*gameServiceImpl)

// WithNotifier registers a listener that receives the state after every change
func WithNotifier(n Notifier) Option {
	return func(s *gameServiceImpl) {
		s.notifier = n
	}
}

// WithoutTimers disables AI timers. AI seats then only act through AdvanceAI.
func WithoutTimers() Option {
	return func(s *gameServiceImpl) {
		s.timersDisabled = true
	}
}

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions       SessionManager
	configs        ConfigManager
	notifier       Notifier
	timers         map[string]*time.Timer
	timersDisabled bool
	closed         bool
	mu             sync.Mutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager, opts ...Option) GameService {
	s := &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
		timers:   make(map[string]*time.Timer),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// getConfigID returns the config_id for a given preset name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

// CreateMatch starts a new match from a preset
func (s *gameServiceImpl) CreateMatch(ctx context.Context, configID string, opts MatchOptions) (*MatchInfo, error) {
	var base *engine.GameConfig
	if configID != "" {
		cfg, err := s.configs.LoadConfig(configID)
		if err != nil {
			if errors.Is(err, ErrConfigNotFound) {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, c := range availableConfigs {
						configIDs = append(configIDs, c.ConfigID)
					}
					return nil, fmt.Errorf("%w: '%s'. Available configs: %v", ErrConfigNotFound, configID, configIDs)
				}
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configID, err)
		}
		base = cfg
	} else {
		base = s.configs.GetDefault()
		configID = s.getConfigID(base.Name)
	}

	cfg, err := applyOptions(base, opts)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	sess, err := s.sessions.Create("", cfg)
	if err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("failed to create match: %w", err)
	}
	sess.ConfigID = configID
	s.arm(sess)
	info := s.matchInfo(sess)
	s.mu.Unlock()

	log.WithFields(log.Fields{
		"match":     sess.ID,
		"config":    configID,
		"players":   cfg.PlayerCount,
		"threshold": cfg.VictoryThreshold,
		"humans":    cfg.HumanRoles,
	}).Info("match created")

	s.notify(sess.ID, info.State)
	return info, nil
}

// applyOptions lays the per-match overrides over a preset
func applyOptions(base *engine.GameConfig, opts MatchOptions) (*engine.GameConfig, error) {
	cfg := base.WithDefaults()

	if opts.PlayerCount != 0 && opts.PlayerCount != cfg.PlayerCount {
		roster, err := engine.RosterFor(opts.PlayerCount)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidOptions, err)
		}
		if opts.HumanRoles == nil {
			cfg.HumanRoles = keepSeats(cfg.HumanRoles, roster)
		}
		cfg.PlayerCount = opts.PlayerCount
	}
	if opts.VictoryThreshold != 0 {
		cfg.VictoryThreshold = opts.VictoryThreshold
	}
	if opts.HumanRoles != nil {
		cfg.HumanRoles = append([]engine.Role{}, opts.HumanRoles...)
	}
	if opts.Seed != 0 {
		cfg.Seed = opts.Seed
	}

	if err := engine.ValidateGameConfig(cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}
	return cfg, nil
}

// keepSeats keeps the human seats that exist in the new roster. When none
// survive, the first rabbit becomes the human seat.
func keepSeats(humans, roster []engine.Role) []engine.Role {
	out := []engine.Role{}
	for _, h := range humans {
		for _, r := range roster {
			if h == r {
				out = append(out, h)
				break
			}
		}
	}
	if len(out) == 0 && len(humans) > 0 {
		out = append(out, roster[1])
	}
	return out
}

// GetMatch retrieves match information
func (s *gameServiceImpl) GetMatch(ctx context.Context, matchID string) (*MatchInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(matchID)
	if err != nil {
		return nil, err
	}
	return s.matchInfo(sess), nil
}

// ListMatches returns all active matches, oldest first
func (s *gameServiceImpl) ListMatches(ctx context.Context) ([]*MatchInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions := s.sessions.List()
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.Before(sessions[j].CreatedAt)
	})

	result := make([]*MatchInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.matchInfo(sess))
	}
	return result, nil
}

// DeleteMatch stops the match's timer and removes it
func (s *gameServiceImpl) DeleteMatch(ctx context.Context, matchID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.disarm(matchID)
	if err := s.sessions.Delete(matchID); err != nil {
		return fmt.Errorf("%w: %w", ErrMatchNotFound, err)
	}
	log.WithField("match", matchID).Info("match deleted")
	return nil
}

// SubmitRPSChoice records a human seat's hand
func (s *gameServiceImpl) SubmitRPSChoice(ctx context.Context, matchID string, role engine.Role, hand engine.Hand) (*ActionResult, error) {
	return s.act(matchID, func(m *engine.Match, res *ActionResult) bool {
		return m.SubmitRPSChoice(role, hand)
	})
}

// RequestAIRPSChoice lets the AI seats pick their hands right away
func (s *gameServiceImpl) RequestAIRPSChoice(ctx context.Context, matchID string) (*ActionResult, error) {
	return s.act(matchID, func(m *engine.Match, res *ActionResult) bool {
		return m.RequestAIRPSChoice()
	})
}

// AcknowledgeTrivia reveals the answer for the player facing the question
func (s *gameServiceImpl) AcknowledgeTrivia(ctx context.Context, matchID string, role engine.Role) (*ActionResult, error) {
	return s.act(matchID, func(m *engine.Match, res *ActionResult) bool {
		return m.SubmitTriviaAcknowledged(role)
	})
}

// RollDice rolls for the head of the dice queue
func (s *gameServiceImpl) RollDice(ctx context.Context, matchID string, role engine.Role) (*ActionResult, error) {
	return s.act(matchID, func(m *engine.Match, res *ActionResult) bool {
		roll, ok := m.RollDice(role)
		if ok {
			res.Roll = &roll
		}
		return ok
	})
}

// SubmitMove moves the head of the dice queue to dest
func (s *gameServiceImpl) SubmitMove(ctx context.Context, matchID string, role engine.Role, dest engine.Position) (*ActionResult, error) {
	return s.act(matchID, func(m *engine.Match, res *ActionResult) bool {
		move, ok := m.SubmitMove(role, dest)
		if ok {
			res.Move = &move
		}
		return ok
	})
}

// AdvanceAI fires pending AI ticks without waiting for their delays
func (s *gameServiceImpl) AdvanceAI(ctx context.Context, matchID string, limit int) (*ActionResult, error) {
	if limit <= 0 {
		limit = defaultAdvanceLimit
	}
	if limit > maxAdvanceLimit {
		limit = maxAdvanceLimit
	}
	return s.act(matchID, func(m *engine.Match, res *ActionResult) bool {
		res.TicksFired = m.RunPendingTicks(limit)
		return res.TicksFired > 0
	})
}

// ResetMatch regenerates the board and zeroes the scores
func (s *gameServiceImpl) ResetMatch(ctx context.Context, matchID string) (*ActionResult, error) {
	var resetErr error
	res, err := s.act(matchID, func(m *engine.Match, res *ActionResult) bool {
		resetErr = m.Reset()
		return resetErr == nil
	})
	if err != nil {
		return nil, err
	}
	if resetErr != nil {
		return nil, fmt.Errorf("failed to reset match %s: %w", matchID, resetErr)
	}
	return res, nil
}

// GetState returns a snapshot of the match state
func (s *gameServiceImpl) GetState(ctx context.Context, matchID string) (*engine.MatchState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(matchID)
	if err != nil {
		return nil, err
	}
	return sess.Match.Snapshot(), nil
}

// GetHistory returns paginated match history
func (s *gameServiceImpl) GetHistory(ctx context.Context, matchID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.Lock()
	sess, err := s.session(matchID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	history := sess.Match.History()
	s.mu.Unlock()

	if opts.Type != "" {
		filtered := history[:0]
		for _, ev := range history {
			if ev.Type == opts.Type {
				filtered = append(filtered, ev)
			}
		}
		history = filtered
	}
	return paginate(history, opts), nil
}

// paginate slices the history the same way for every caller
func paginate(history []engine.MatchEvent, opts HistoryOptions) *HistoryResponse {
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = engine.DefaultHistoryLimit
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	events := []engine.MatchEvent{}
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			events = append(events, history[i])
		}
	} else if start < total {
		events = append(events, history[start:end]...)
	}

	return &HistoryResponse{
		Events:      events,
		TotalEvents: total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}
}

// DescribeCell reports what occupies a single cell
func (s *gameServiceImpl) DescribeCell(ctx context.Context, matchID string, pos engine.Position) (*engine.CellInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(matchID)
	if err != nil {
		return nil, err
	}
	info := sess.Match.DescribeCell(pos)
	return &info, nil
}

// ListConfigs returns available rule presets
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific rule preset
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configID string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configID)
}

// SaveConfig validates and stores a rule preset
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configID string, config *engine.GameConfig) error {
	if strings.TrimSpace(configID) == "" {
		return fmt.Errorf("%w: config id is required", engine.ErrInvalidConfig)
	}
	if err := engine.ValidateGameConfig(config); err != nil {
		return err
	}
	return s.configs.SaveConfig(configID, config)
}

// Close stops every AI timer. Later calls never arm new ones.
func (s *gameServiceImpl) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	for id := range s.timers {
		s.disarm(id)
	}
}

// session looks up a match and marks it accessed. Callers hold s.mu.
func (s *gameServiceImpl) session(matchID string) (*Session, error) {
	sess, err := s.sessions.Get(matchID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMatchNotFound, err)
	}
	s.sessions.UpdateLastAccessed(matchID)
	return sess, nil
}

func (s *gameServiceImpl) matchInfo(sess *Session) *MatchInfo {
	configID := sess.ConfigID
	if configID == "" {
		configID = s.getConfigID(sess.Config.Name)
	}
	return &MatchInfo{
		ID:             sess.ID,
		ConfigName:     configID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		State:          sess.Match.Snapshot(),
		Config:         sess.Config,
	}
}

// act runs one engine entry point under the lock, re-arms the AI timer and
// notifies listeners once the lock is released.
func (s *gameServiceImpl) act(matchID string, fn func(m *engine.Match, res *ActionResult) bool) (*ActionResult, error) {
	s.mu.Lock()
	sess, err := s.session(matchID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}

	before := sess.Match.State().TotalEvents
	res := &ActionResult{}
	res.Accepted = fn(sess.Match, res)
	res.Events = eventsSince(sess.Match, before)
	res.State = sess.Match.Snapshot()
	res.Message = res.State.Message
	s.logEvents(matchID, res.Events)
	s.arm(sess)
	s.mu.Unlock()

	if res.Accepted {
		s.notify(matchID, res.State)
	}
	return res, nil
}

func eventsSince(m *engine.Match, before int) []engine.MatchEvent {
	history := m.History()
	if before > len(history) {
		return []engine.MatchEvent{}
	}
	return history[before:]
}

// arm replaces the match's timer with one for its next pending tick.
// Callers hold s.mu.
func (s *gameServiceImpl) arm(sess *Session) {
	s.disarm(sess.ID)
	if s.timersDisabled || s.closed {
		return
	}
	pending := sess.Match.PendingTicks()
	if len(pending) == 0 {
		return
	}

	tick := pending[0]
	id := sess.ID
	s.timers[id] = time.AfterFunc(tick.Delay, func() {
		s.fire(id, tick)
	})
}

func (s *gameServiceImpl) disarm(matchID string) {
	if t, ok := s.timers[matchID]; ok {
		t.Stop()
		delete(s.timers, matchID)
	}
}

// fire runs a timer's tick. A tick superseded by a newer transition is
// dropped, since that transition armed its own timer.
func (s *gameServiceImpl) fire(matchID string, tick engine.Tick) {
	s.mu.Lock()
	sess, err := s.sessions.Get(matchID)
	if err != nil || s.closed || !sess.Match.TickValid(tick) {
		s.mu.Unlock()
		return
	}

	before := sess.Match.State().TotalEvents
	fired := sess.Match.FireTick(tick)
	events := eventsSince(sess.Match, before)
	log.WithFields(log.Fields{
		"match": matchID,
		"tick":  tick.Kind,
		"role":  tick.Role,
		"fired": fired,
	}).Debug("ai tick")
	s.logEvents(matchID, events)
	s.arm(sess)
	state := sess.Match.Snapshot()
	s.mu.Unlock()

	s.notify(matchID, state)
}

func (s *gameServiceImpl) notify(matchID string, state *engine.MatchState) {
	if s.notifier != nil {
		s.notifier.BroadcastMatchState(matchID, state)
	}
}

func (s *gameServiceImpl) logEvents(matchID string, events []engine.MatchEvent) {
	for _, ev := range events {
		entry := log.WithFields(log.Fields{
			"match": matchID,
			"type":  ev.Type,
			"role":  ev.Role,
			"seq":   ev.Seq,
		})
		switch ev.Type {
		case engine.EventCaught, engine.EventEscaped, engine.EventCollected, engine.EventVictory, engine.EventReset:
			entry.Info(ev.Message)
		default:
			entry.Debug(ev.Message)
		}
	}
}
