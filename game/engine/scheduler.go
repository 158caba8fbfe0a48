package engine

import "time"

// TickKind names the AI decision a tick stands in for
type TickKind string

const (
	TickAIRPS    TickKind = "ai_rps"
	TickAITrivia TickKind = "ai_trivia"
	TickAIRoll   TickKind = "ai_roll"
	TickAIMove   TickKind = "ai_move"
)

// Tick is a pending, cancellable phase advance
type Tick struct {
	ID         uint64        `json:"id"`
	Kind       TickKind      `json:"kind"`
	Role       Role          `json:"role"`
	Delay      time.Duration `json:"delay"`
	Generation uint64        `json:"generation"`
}

// Scheduler is a cooperative queue of ticks. Cancelling bumps the
// generation so ticks already handed out to timers become stale.
type Scheduler struct {
	nextID     uint64
	generation uint64
	pending    []Tick
}

// NewScheduler creates an empty scheduler
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Schedule replaces anything pending with a single new tick
func (s *Scheduler) Schedule(kind TickKind, role Role, delay time.Duration) Tick {
	s.CancelAll()
	s.nextID++
	t := Tick{
		ID:         s.nextID,
		Kind:       kind,
		Role:       role,
		Delay:      delay,
		Generation: s.generation,
	}
	s.pending = append(s.pending, t)
	return t
}

// CancelAll invalidates every tick handed out so far
func (s *Scheduler) CancelAll() {
	s.generation++
	s.pending = nil
}

// Pending returns a copy of the ticks still waiting to fire
func (s *Scheduler) Pending() []Tick {
	out := make([]Tick, len(s.pending))
	copy(out, s.pending)
	return out
}

// Valid reports whether t is still pending in the current generation
func (s *Scheduler) Valid(t Tick) bool {
	if t.Generation != s.generation {
		return false
	}
	for _, p := range s.pending {
		if p.ID == t.ID {
			return true
		}
	}
	return false
}

// consume removes t from the pending list
func (s *Scheduler) consume(t Tick) {
	for i, p := range s.pending {
		if p.ID == t.ID {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			return
		}
	}
}
