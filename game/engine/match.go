package engine

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/zyedidia/generic/mapset"
)

// Match is the turn/phase state machine. It exclusively owns its
// MatchState; callers drive it through the exported entry points, each of
// which either performs a valid transition or does nothing.
type Match struct {
	config    *GameConfig
	state     *MatchState
	rng       *rand.Rand
	obstacles mapset.Set[Position]
	sched     *Scheduler
	history   []MatchEvent
	feedback  bool
}

// NewMatch validates the preset and sets up a match ready for the first
// rock-paper-scissors round.
func NewMatch(config *GameConfig) (*Match, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}
	cfg := config.WithDefaults()

	m := &Match{
		config:  cfg,
		rng:     newRand(cfg.Seed),
		sched:   NewScheduler(),
		history: []MatchEvent{},
	}
	if err := m.setup(); err != nil {
		return nil, err
	}
	return m, nil
}

// ConfigureMatch builds a match from the classic preset with the given
// roster size, victory threshold and human-controlled seats.
func ConfigureMatch(playerCount, victoryThreshold int, humanRoles []Role) (*Match, error) {
	cfg := DefaultConfig()
	cfg.PlayerCount = playerCount
	cfg.VictoryThreshold = victoryThreshold
	cfg.HumanRoles = humanRoles
	return NewMatch(cfg)
}

func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// setup builds the roster and board and enters the first RPS round. The
// previous state is left untouched when no obstacle layout can be found.
func (m *Match) setup() error {
	roster, err := RosterFor(m.config.PlayerCount)
	if err != nil {
		return fmt.Errorf("match setup: %w", err)
	}

	players := make([]Player, 0, len(roster))
	for _, r := range roster {
		c := capabilities[r]
		players = append(players, Player{
			Role:    r,
			Species: c.Species,
			Label:   c.Label,
			Pos:     c.StartCorner,
			Start:   c.StartCorner,
			Human:   containsRole(m.config.HumanRoles, r),
		})
	}

	// every corner a rabbit can respawn on must keep a path to a door
	obstacles, err := GenerateObstacles(m.rng, m.config.ObstacleCount, rabbitCorners, m.config.MaxObstacleAttempts)
	if err != nil {
		return fmt.Errorf("match setup: %w", err)
	}

	m.sched.CancelAll()
	m.feedback = false
	m.obstacles = obstacles
	m.state = &MatchState{
		ConfigName:       m.config.Name,
		Phase:            PhaseSetup,
		Players:          players,
		Obstacles:        SetToSlice(obstacles),
		Doors:            Doors(),
		DiceQueue:        []Role{},
		PendingLosers:    []Role{},
		LegalMoves:       []Position{},
		VictoryThreshold: m.config.VictoryThreshold,
		TotalEvents:      len(m.history),
	}
	m.resetTiles()
	m.enterRPS()
	return nil
}

// Reset regenerates the board, zeroes every score and returns to the RPS
// phase. All pending ticks are cancelled.
func (m *Match) Reset() error {
	if err := m.setup(); err != nil {
		return err
	}
	m.record(newEvent(EventReset, "", m.config.Messages.Welcome))
	return nil
}

// record appends an event to the history and mirrors its message on the state
func (m *Match) record(ev MatchEvent) {
	ev.Seq = len(m.history) + 1
	m.history = append(m.history, ev)
	m.state.TotalEvents = len(m.history)
	if ev.Message != "" {
		m.state.Message = ev.Message
	}
}

func (m *Match) player(r Role) *Player {
	for i := range m.state.Players {
		if m.state.Players[i].Role == r {
			return &m.state.Players[i]
		}
	}
	return nil
}

func (m *Match) wolf() *Player {
	return m.player(Wolf)
}

func (m *Match) roles() []Role {
	out := make([]Role, len(m.state.Players))
	for i, p := range m.state.Players {
		out[i] = p.Role
	}
	return out
}

func (m *Match) rabbitRoles() []Role {
	var out []Role
	for _, p := range m.state.Players {
		if p.Species == Prey {
			out = append(out, p.Role)
		}
	}
	return out
}

// enterRPS starts a fresh rock-paper-scissors round
func (m *Match) enterRPS() {
	m.state.Phase = PhaseRPS
	m.state.RPSChoices = map[Role]Hand{}
	m.state.PendingLosers = []Role{}
	m.state.Trivia = nil
	m.state.PendingRoll = nil
	m.state.LegalMoves = []Position{}
	m.state.DiceQueue = []Role{}
	m.state.Message = m.config.Messages.Welcome
	m.scheduleNext()
}

// SubmitRPSChoice records a human player's hand
func (m *Match) SubmitRPSChoice(role Role, hand Hand) bool {
	if m.state.MatchDecided || m.state.Phase != PhaseRPS || !hand.Valid() {
		return false
	}
	p := m.player(role)
	if p == nil || !p.Human {
		return false
	}
	if _, done := m.state.RPSChoices[role]; done {
		return false
	}
	m.state.RPSChoices[role] = hand
	m.tryResolveRPS()
	return true
}

// RequestAIRPSChoice lets every AI player without a hand pick one
func (m *Match) RequestAIRPSChoice() bool {
	if m.state.MatchDecided || m.state.Phase != PhaseRPS {
		return false
	}
	picked := false
	for _, p := range m.state.Players {
		if p.Human {
			continue
		}
		if _, done := m.state.RPSChoices[p.Role]; done {
			continue
		}
		m.state.RPSChoices[p.Role] = ChooseHand(m.rng)
		picked = true
	}
	if !picked {
		return false
	}
	m.tryResolveRPS()
	return true
}

// tryResolveRPS resolves the round once every player has chosen
func (m *Match) tryResolveRPS() {
	if len(m.state.RPSChoices) < len(m.state.Players) {
		m.scheduleNext()
		return
	}

	order := m.roles()
	choices := m.state.RPSChoices
	m.state.LastRPS = choices
	m.state.RPSChoices = map[Role]Hand{}

	parts := make([]string, 0, len(order))
	for _, r := range order {
		parts = append(parts, fmt.Sprintf("%s chose %s", r.Label(), choices[r]))
	}
	summary := strings.Join(parts, ", ") + "."

	losers := ResolveRPS(order, choices)
	if len(losers) == 0 {
		m.feedback = true
		m.record(newEvent(EventRPSTie, "", summary+" "+m.config.Messages.RPSTie))
		m.scheduleNext()
		return
	}

	ev := newEvent(EventRPS, "", summary)
	ev.Value = len(losers)
	m.record(ev)
	m.state.PendingLosers = losers
	m.askNextQuestion()
}

// askNextQuestion puts the next trivia question to the first pending loser,
// or moves on to the dice phase when nobody is left.
func (m *Match) askNextQuestion() {
	if len(m.state.PendingLosers) == 0 {
		m.startDicePhase()
		return
	}
	role := m.state.PendingLosers[0]
	idx := m.state.QuestionIndex % len(m.config.Questions)
	m.state.Trivia = &TriviaTurn{
		Role:     role,
		Question: m.config.Questions[idx],
		Number:   idx + 1,
	}
	m.state.QuestionIndex = (idx + 1) % len(m.config.Questions)
	m.state.Phase = PhaseTrivia
	m.state.Message = fmt.Sprintf(m.config.Messages.MustAnswer, role.Label())
	m.scheduleNext()
}

// SubmitTriviaAcknowledged reveals the answer for the player facing the
// current question and advances to the next loser or the dice phase.
func (m *Match) SubmitTriviaAcknowledged(role Role) bool {
	if m.state.MatchDecided || m.state.Phase != PhaseTrivia || m.state.Trivia == nil {
		return false
	}
	if m.state.Trivia.Role != role {
		return false
	}
	m.acknowledgeTrivia()
	return true
}

func (m *Match) acknowledgeTrivia() {
	turn := m.state.Trivia
	m.state.LastAnswer = turn.Question.Answer
	ev := newEvent(EventTrivia, turn.Role, fmt.Sprintf("Answer: %s", turn.Question.Answer))
	ev.Value = turn.Number
	m.record(ev)

	m.state.Trivia = nil
	if len(m.state.PendingLosers) > 0 {
		m.state.PendingLosers = m.state.PendingLosers[1:]
	}
	m.askNextQuestion()
}

// declareVictory moves the match into its terminal state
func (m *Match) declareVictory(p *Player) {
	m.state.MatchDecided = true
	m.state.Phase = PhaseMatchOver
	m.state.Winner = p.Role
	m.state.DiceQueue = []Role{}
	m.state.PendingRoll = nil
	m.state.LegalMoves = []Position{}
	m.state.PendingLosers = []Role{}
	m.state.Trivia = nil
	m.sched.CancelAll()

	ev := newEvent(EventVictory, p.Role, fmt.Sprintf(m.config.Messages.Victory, p.Label, p.Score))
	ev.Value = p.Score
	m.record(ev)
}

// award gives p one point and reports whether that decided the match
func (m *Match) award(p *Player, typ EventType, msg string) bool {
	p.Score++
	ev := newEvent(typ, p.Role, msg)
	ev.Value = p.Score
	m.record(ev)
	if p.Score >= m.state.VictoryThreshold {
		m.declareVictory(p)
		return true
	}
	return false
}

// scheduleNext replaces any pending tick with the one for the next AI
// decision, if the next decision belongs to an AI player.
func (m *Match) scheduleNext() {
	m.sched.CancelAll()
	if m.state.MatchDecided {
		return
	}

	d := m.config.Delays
	pause := d.aiThink()
	if m.feedback {
		pause += d.feedback()
		m.feedback = false
	}

	switch m.state.Phase {
	case PhaseRPS:
		// AI hands are drawn only after every human has committed
		aiPending := false
		for _, p := range m.state.Players {
			_, done := m.state.RPSChoices[p.Role]
			if done {
				continue
			}
			if p.Human {
				return
			}
			aiPending = true
		}
		if aiPending {
			m.sched.Schedule(TickAIRPS, "", pause)
		}
	case PhaseTrivia:
		if t := m.state.Trivia; t != nil {
			if p := m.player(t.Role); p != nil && !p.Human {
				m.sched.Schedule(TickAITrivia, t.Role, pause-d.aiThink()+d.triviaReveal())
			}
		}
	case PhaseDice:
		if len(m.state.DiceQueue) == 0 {
			return
		}
		head := m.state.DiceQueue[0]
		if p := m.player(head); p != nil && !p.Human {
			if m.state.PendingRoll == nil {
				m.sched.Schedule(TickAIRoll, head, pause)
			} else {
				m.sched.Schedule(TickAIMove, head, pause)
			}
		}
	}
}

// FireTick performs the AI action a tick stands for. Stale ticks and ticks
// arriving after the match is decided are ignored.
func (m *Match) FireTick(t Tick) bool {
	if m.state.MatchDecided {
		return false
	}
	if !m.sched.Valid(t) {
		return false
	}
	m.sched.consume(t)

	ok := false
	switch t.Kind {
	case TickAIRPS:
		ok = m.RequestAIRPSChoice()
	case TickAITrivia:
		if m.state.Phase == PhaseTrivia && m.state.Trivia != nil && m.state.Trivia.Role == t.Role {
			m.acknowledgeTrivia()
			ok = true
		}
	case TickAIRoll:
		_, ok = m.RollDice(t.Role)
	case TickAIMove:
		ok = m.playAIMove(t.Role)
	}
	if !ok {
		m.scheduleNext()
	}
	return ok
}

// RunPendingTicks fires pending ticks immediately, ignoring their delays,
// until none is left or limit ticks have fired. It returns the number fired.
func (m *Match) RunPendingTicks(limit int) int {
	fired := 0
	for fired < limit {
		pending := m.sched.Pending()
		if len(pending) == 0 {
			break
		}
		m.FireTick(pending[0])
		fired++
	}
	return fired
}

// PendingTicks returns the ticks waiting for their delay to elapse
func (m *Match) PendingTicks() []Tick {
	return m.sched.Pending()
}

// TickValid reports whether t would still be honoured by FireTick
func (m *Match) TickValid(t Tick) bool {
	return !m.state.MatchDecided && m.sched.Valid(t)
}
