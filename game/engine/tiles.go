package engine

import (
	"fmt"
	"math/rand/v2"
)

// resetTiles clears every transient tile and draws fresh spawn thresholds
func (m *Match) resetTiles() {
	m.state.Tiles = []TransientTile{}
	m.state.Counters = TileCounters{
		CollectibleThreshold: m.drawCollectibleThreshold(),
		BonusThreshold:       drawRange(m.rng, m.config.BonusCadence),
	}
}

// drawCollectibleThreshold picks the next collectible interval; fewer
// rabbits means a longer wait.
func (m *Match) drawCollectibleThreshold() int {
	idx := len(m.rabbitRoles()) - 1
	idx = max(0, min(idx, len(m.config.CollectibleCadence)-1))
	return drawRange(m.rng, m.config.CollectibleCadence[idx])
}

func drawRange(rng *rand.Rand, r CadenceRange) int {
	return r.Min + rng.IntN(r.Max-r.Min+1)
}

// onRoundEnd runs once after every completed dice round. Tiles age first,
// so a freshly spawned tile keeps its full lifetime.
func (m *Match) onRoundEnd() {
	c := &m.state.Counters
	c.RoundsSinceCollectible++
	c.RoundsSinceBonus++

	kept := make([]TransientTile, 0, len(m.state.Tiles))
	for _, t := range m.state.Tiles {
		t.RoundsLeft--
		if t.RoundsLeft <= 0 {
			pos := t.Pos
			ev := newEvent(EventExpire, "", "")
			ev.To = &pos
			m.record(ev)
			continue
		}
		kept = append(kept, t)
	}
	m.state.Tiles = kept

	// a due collectible waits while one is still on the board
	if c.RoundsSinceCollectible >= c.CollectibleThreshold && m.collectible() == nil {
		if pos, ok := m.randomEmptyCell(); ok {
			m.spawnTile(Collectible, pos, m.config.CollectibleLifetime)
			c.RoundsSinceCollectible = 0
			c.CollectibleThreshold = m.drawCollectibleThreshold()
		}
	}

	if c.RoundsSinceBonus >= c.BonusThreshold {
		room := m.config.MaxBonusTiles - len(m.bonusTiles())
		n := min(1+m.rng.IntN(2), room)
		for i := 0; i < n; i++ {
			pos, ok := m.randomEmptyCell()
			if !ok {
				break
			}
			m.spawnTile(BonusRoll, pos, m.config.BonusLifetime)
		}
		c.RoundsSinceBonus = 0
		c.BonusThreshold = drawRange(m.rng, m.config.BonusCadence)
	}
}

func (m *Match) spawnTile(kind TileKind, pos Position, lifetime int) {
	m.state.Tiles = append(m.state.Tiles, TransientTile{Kind: kind, Pos: pos, RoundsLeft: lifetime})
	ev := newEvent(EventSpawn, "", "")
	ev.To = &pos
	ev.Value = lifetime
	m.record(ev)
}

// randomEmptyCell picks a grid cell free of obstacles, doors, players and
// tiles. It reports false when none is left.
func (m *Match) randomEmptyCell() (Position, bool) {
	taken := NewPositionSet(Doors()...)
	for _, p := range m.state.Players {
		taken.Put(p.Pos)
	}
	for _, t := range m.state.Tiles {
		taken.Put(t.Pos)
	}

	var free []Position
	for _, c := range gridCells() {
		if m.obstacles.Has(c) || taken.Has(c) || c.InSafetyZone() {
			continue
		}
		free = append(free, c)
	}
	if len(free) == 0 {
		return Position{}, false
	}
	return free[m.rng.IntN(len(free))], true
}

// collectible returns the live collectible tile, if any
func (m *Match) collectible() *TransientTile {
	for i := range m.state.Tiles {
		if m.state.Tiles[i].Kind == Collectible {
			return &m.state.Tiles[i]
		}
	}
	return nil
}

func (m *Match) bonusTiles() []Position {
	var out []Position
	for _, t := range m.state.Tiles {
		if t.Kind == BonusRoll {
			out = append(out, t.Pos)
		}
	}
	return out
}

// tileAt returns the index of the tile on p, or -1
func (m *Match) tileAt(p Position) int {
	for i, t := range m.state.Tiles {
		if t.Pos == p {
			return i
		}
	}
	return -1
}

func (m *Match) removeTile(i int) TransientTile {
	t := m.state.Tiles[i]
	m.state.Tiles = append(m.state.Tiles[:i], m.state.Tiles[i+1:]...)
	return t
}

// applyTile resolves the tile under p after a move or respawn. Collectibles
// only score for rabbits; bonus tiles grant any role one extra roll. It
// returns the kind of tile consumed, if any, and whether the match was
// decided.
func (m *Match) applyTile(p *Player) (TileKind, bool) {
	i := m.tileAt(p.Pos)
	if i < 0 {
		return "", false
	}
	switch m.state.Tiles[i].Kind {
	case Collectible:
		if p.Species != Prey {
			return "", false
		}
		m.removeTile(i)
		return Collectible, m.award(p, EventCollected, fmt.Sprintf(m.config.Messages.Collected, p.Label))
	case BonusRoll:
		m.removeTile(i)
		m.record(newEvent(EventBonus, p.Role, fmt.Sprintf(m.config.Messages.BonusRoll, p.Label)))
		return BonusRoll, false
	}
	return "", false
}
