package engine

import (
	"math/rand/v2"
	"testing"
)

func emptyBoard(wolf Position) BoardView {
	return BoardView{Obstacles: NewPositionSet(), Wolf: wolf}
}

func assertCells(t *testing.T, got []Position, want ...Position) {
	t.Helper()
	SortPositions(want)
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Expected %v, got %v", want, got)
		}
	}
}

func TestReachableExactSteps(t *testing.T) {
	board := emptyBoard(Position{7, 7})

	one := SetToSlice(Reachable(Position{0, 0}, Predator, 1, board))
	assertCells(t, one, Position{1, 0}, Position{0, 1})

	// paths may double back, so the start is reachable in two steps
	two := SetToSlice(Reachable(Position{0, 0}, Predator, 2, board))
	assertCells(t, two, Position{0, 0}, Position{2, 0}, Position{1, 1}, Position{0, 2})

	zero := SetToSlice(Reachable(Position{3, 3}, Prey, 0, board))
	assertCells(t, zero, Position{3, 3})
}

func TestReachablePredatorRules(t *testing.T) {
	t.Run("stays out of the safety zone", func(t *testing.T) {
		board := emptyBoard(Position{7, 7})
		got := SetToSlice(Reachable(Position{7, 7}, Predator, 1, board))
		assertCells(t, got, Position{6, 7}, Position{7, 6})
	})

	t.Run("never steps on the collectible", func(t *testing.T) {
		board := emptyBoard(Position{7, 7})
		board.Collectible = &Position{6, 7}
		got := SetToSlice(Reachable(Position{7, 7}, Predator, 1, board))
		assertCells(t, got, Position{7, 6})
	})

	t.Run("may land on a rabbit", func(t *testing.T) {
		board := emptyBoard(Position{2, 2})
		board.Rabbits = []Position{{3, 2}}
		if !Reachable(Position{2, 2}, Predator, 1, board).Has(Position{3, 2}) {
			t.Error("Expected the wolf to reach the rabbit's cell")
		}
	})

	t.Run("blocked by obstacles", func(t *testing.T) {
		board := emptyBoard(Position{0, 0})
		board.Obstacles = NewPositionSet(Position{1, 0})
		got := SetToSlice(Reachable(Position{0, 0}, Predator, 1, board))
		assertCells(t, got, Position{0, 1})
	})
}

func TestReachablePreyRules(t *testing.T) {
	t.Run("enters the safety zone only through a door", func(t *testing.T) {
		board := emptyBoard(Position{0, 0})
		got := SetToSlice(Reachable(Position{7, 7}, Prey, 1, board))
		assertCells(t, got, Position{6, 7}, Position{7, 6})

		fromDoor := Reachable(DoorSouth, Prey, 1, board)
		if !fromDoor.Has(Position{6, 8}) {
			t.Error("Expected the south door to open onto (6,8)")
		}
		fromEast := Reachable(DoorEast, Prey, 1, board)
		if !fromEast.Has(Position{8, 6}) {
			t.Error("Expected the east door to open onto (8,6)")
		}
	})

	t.Run("cannot enter or pass the wolf", func(t *testing.T) {
		board := emptyBoard(Position{1, 0})
		got := SetToSlice(Reachable(Position{0, 0}, Prey, 1, board))
		assertCells(t, got, Position{0, 1})

		// (2,0) is only two steps away through the wolf's cell
		if Reachable(Position{0, 0}, Prey, 2, board).Has(Position{2, 0}) {
			t.Error("Expected the wolf's cell to block the straight path")
		}
	})

	t.Run("cannot enter another rabbit", func(t *testing.T) {
		board := emptyBoard(Position{7, 7})
		board.Rabbits = []Position{{0, 1}}
		got := SetToSlice(Reachable(Position{0, 0}, Prey, 1, board))
		assertCells(t, got, Position{1, 0})
	})

	t.Run("may take the collectible", func(t *testing.T) {
		board := emptyBoard(Position{7, 7})
		board.Collectible = &Position{1, 0}
		if !Reachable(Position{0, 0}, Prey, 1, board).Has(Position{1, 0}) {
			t.Error("Expected a rabbit to reach the collectible")
		}
	})
}

func TestReachableNeverLandsOnBlockedCells(t *testing.T) {
	anchors := []Position{{0, 0}}
	for seed := uint64(1); seed <= 20; seed++ {
		rng := rand.New(rand.NewPCG(seed, 7))
		blocked, err := GenerateObstacles(rng, DefaultObstacleCount, anchors, 1000)
		if err != nil {
			t.Fatalf("GenerateObstacles failed: %v", err)
		}
		wolf := Position{7, 7}
		board := BoardView{Obstacles: blocked, Wolf: wolf}

		for steps := 1; steps <= 7; steps++ {
			Reachable(Position{0, 0}, Prey, steps, board).Each(func(p Position) {
				if blocked.Has(p) {
					t.Errorf("seed %d: rabbit reached obstacle %v", seed, p)
				}
				if p == wolf {
					t.Errorf("seed %d: rabbit reached the wolf", seed)
				}
				if !p.InGrid() && !p.InSafetyZone() {
					t.Errorf("seed %d: rabbit left the board at %v", seed, p)
				}
			})
			Reachable(wolf, Predator, steps, board).Each(func(p Position) {
				if blocked.Has(p) || p.InSafetyZone() {
					t.Errorf("seed %d: wolf reached forbidden cell %v", seed, p)
				}
			})
		}
	}
}

func TestJumpsWolf(t *testing.T) {
	wolf := Position{3, 3}
	tests := []struct {
		from, to Position
		want     bool
	}{
		{Position{2, 3}, Position{4, 3}, true},
		{Position{3, 2}, Position{3, 4}, true},
		{Position{2, 3}, Position{2, 5}, false},
		{Position{2, 2}, Position{4, 4}, false},
		{Position{2, 3}, Position{3, 3}, false},
	}
	for _, tt := range tests {
		if got := JumpsWolf(tt.from, tt.to, wolf); got != tt.want {
			t.Errorf("JumpsWolf(%v, %v) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestTrappedForAllRolls(t *testing.T) {
	board := emptyBoard(Position{7, 7})
	board.Obstacles = NewPositionSet(Position{1, 0}, Position{0, 1})
	if !TrappedForAllRolls(Position{0, 0}, Prey, 1, DefaultDieFaces, board) {
		t.Error("Expected a walled-in rabbit to be trapped for every roll")
	}

	board.Obstacles = NewPositionSet(Position{1, 0})
	if TrappedForAllRolls(Position{0, 0}, Prey, 1, DefaultDieFaces, board) {
		t.Error("Expected an open side to leave some roll playable")
	}
}
