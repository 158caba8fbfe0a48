package engine

import "testing"

func TestCollectibleSpawnsWhenDue(t *testing.T) {
	m := newTestMatch(t, 2, Wolf, Rabbit)
	m.clearBoard()
	m.state.Counters = TileCounters{CollectibleThreshold: 1, BonusThreshold: 99}

	m.onRoundEnd()

	c := m.collectible()
	if c == nil {
		t.Fatal("Expected a collectible to spawn")
	}
	if c.RoundsLeft != m.config.CollectibleLifetime {
		t.Errorf("Expected lifetime %d, got %d", m.config.CollectibleLifetime, c.RoundsLeft)
	}
	if m.state.Counters.RoundsSinceCollectible != 0 {
		t.Error("Expected the collectible counter to reset")
	}
	if th := m.state.Counters.CollectibleThreshold; th < 4 || th > 6 {
		t.Errorf("Expected a one-rabbit threshold in 4..6, got %d", th)
	}
}

func TestCollectibleWaitsWhileLive(t *testing.T) {
	m := newTestMatch(t, 2, Wolf, Rabbit)
	m.clearBoard()
	m.state.Tiles = []TransientTile{{Kind: Collectible, Pos: Position{3, 3}, RoundsLeft: 5}}
	m.state.Counters = TileCounters{CollectibleThreshold: 1, BonusThreshold: 99}

	m.onRoundEnd()

	count := 0
	for _, tile := range m.state.Tiles {
		if tile.Kind == Collectible {
			count++
		}
	}
	if count != 1 {
		t.Errorf("Expected a single collectible on the board, got %d", count)
	}
	if m.state.Counters.RoundsSinceCollectible != 1 {
		t.Errorf("Expected the due counter to keep running, got %d", m.state.Counters.RoundsSinceCollectible)
	}
}

func TestTilesExpire(t *testing.T) {
	m := newTestMatch(t, 2, Wolf, Rabbit)
	m.clearBoard()
	m.state.Tiles = []TransientTile{
		{Kind: BonusRoll, Pos: Position{2, 2}, RoundsLeft: 1},
		{Kind: Collectible, Pos: Position{3, 3}, RoundsLeft: 2},
	}
	m.state.Counters = TileCounters{CollectibleThreshold: 99, BonusThreshold: 99}

	m.onRoundEnd()
	if len(m.state.Tiles) != 1 || m.state.Tiles[0].Kind != Collectible || m.state.Tiles[0].RoundsLeft != 1 {
		t.Fatalf("Expected only the aged collectible to remain, got %+v", m.state.Tiles)
	}

	m.onRoundEnd()
	if len(m.state.Tiles) != 0 {
		t.Errorf("Expected every tile to expire, got %+v", m.state.Tiles)
	}
}

func TestBonusTilesRespectCap(t *testing.T) {
	m := newTestMatch(t, 2, Wolf, Rabbit)
	m.clearBoard()

	for round := 0; round < 20; round++ {
		m.state.Counters.CollectibleThreshold = 99
		m.state.Counters.BonusThreshold = 1
		m.onRoundEnd()
		if n := len(m.bonusTiles()); n > m.config.MaxBonusTiles {
			t.Fatalf("round %d: %d bonus tiles exceed cap %d", round, n, m.config.MaxBonusTiles)
		}
	}
	if len(m.bonusTiles()) == 0 {
		t.Error("Expected bonus tiles to spawn")
	}
}

func TestSpawnAvoidsOccupiedCells(t *testing.T) {
	m := newTestMatch(t, 2, Wolf, Rabbit)

	// leave only (3,3) free
	var blocked []Position
	for _, c := range gridCells() {
		if c != (Position{3, 3}) && !IsCorner(c) && !IsDoor(c) {
			blocked = append(blocked, c)
		}
	}
	m.clearBoard(blocked...)
	m.place(Rabbit, Position{0, 0})
	m.place(Wolf, Position{7, 7})

	got, ok := m.randomEmptyCell()
	if !ok {
		t.Fatal("Expected a free cell")
	}
	// corners (7,0) and (0,7) are free too
	allowed := NewPositionSet(Position{3, 3}, Position{7, 0}, Position{0, 7})
	if !allowed.Has(got) {
		t.Errorf("Spawn landed on occupied cell %v", got)
	}

	m.state.Tiles = []TransientTile{
		{Kind: BonusRoll, Pos: Position{3, 3}},
		{Kind: BonusRoll, Pos: Position{7, 0}},
		{Kind: Collectible, Pos: Position{0, 7}},
	}
	if _, ok := m.randomEmptyCell(); ok {
		t.Error("Expected no free cell once every gap is taken")
	}
}
