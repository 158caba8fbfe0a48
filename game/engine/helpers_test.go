package engine

import (
	"math/rand/v2"
	"testing"
)

// newTestMatch builds a seeded match with no AI delays
func newTestMatch(t *testing.T, playerCount int, humans ...Role) *Match {
	t.Helper()
	cfg := DefaultConfig()
	cfg.PlayerCount = playerCount
	cfg.HumanRoles = humans
	cfg.Seed = 42
	cfg.Delays = Delays{}
	m, err := NewMatch(cfg)
	if err != nil {
		t.Fatalf("NewMatch failed: %v", err)
	}
	return m
}

func testRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

// clearBoard replaces the obstacle layout and removes every tile
func (m *Match) clearBoard(obstacles ...Position) {
	m.obstacles = NewPositionSet(obstacles...)
	m.state.Obstacles = SetToSlice(m.obstacles)
	m.state.Tiles = []TransientTile{}
}

func (m *Match) place(r Role, p Position) {
	m.player(r).Pos = p
}

// forceDice drops the match straight into the dice phase with the given queue
func (m *Match) forceDice(queue ...Role) {
	m.sched.CancelAll()
	m.state.Phase = PhaseDice
	m.state.Trivia = nil
	m.state.PendingLosers = []Role{}
	m.state.DiceQueue = queue
	m.state.PendingRoll = nil
	m.state.LegalMoves = []Position{}
}

// forceRoll gives role a pending roll of the given number of steps
func (m *Match) forceRoll(role Role, steps int) {
	p := m.player(role)
	dests := SetToSlice(Reachable(p.Pos, p.Species, steps, m.boardFor(p)))
	m.state.PendingRoll = &RollResult{Role: role, Value: steps, Steps: steps, Destinations: dests}
	m.state.LegalMoves = dests
}
