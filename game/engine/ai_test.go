package engine

import "testing"

func TestChooseWolfDestination(t *testing.T) {
	rng := testRand()

	t.Run("prefers a capture", func(t *testing.T) {
		sit := Situation{Rabbits: []Position{{4, 4}}}
		got, ok := ChooseWolfDestination([]Position{{1, 1}, {4, 4}, {4, 3}}, sit, rng)
		if !ok || got != (Position{4, 4}) {
			t.Errorf("Expected capture at (4,4), got %v", got)
		}
	})

	t.Run("closes in on the nearest rabbit", func(t *testing.T) {
		sit := Situation{Rabbits: []Position{{6, 6}, {0, 7}}}
		got, ok := ChooseWolfDestination([]Position{{3, 0}, {5, 5}}, sit, rng)
		if !ok || got != (Position{5, 5}) {
			t.Errorf("Expected (5,5), got %v", got)
		}
	})

	t.Run("no destinations", func(t *testing.T) {
		if _, ok := ChooseWolfDestination(nil, Situation{}, rng); ok {
			t.Error("Expected no choice without destinations")
		}
	})
}

func TestChooseRabbitDestination(t *testing.T) {
	rng := testRand()
	carrot := Position{2, 2}

	tests := []struct {
		name  string
		dests []Position
		sit   Situation
		want  Position
	}{
		{
			name:  "collectible first",
			dests: []Position{{6, 8}, {2, 2}, {3, 3}},
			sit:   Situation{Wolf: Position{0, 0}, Collectible: &carrot, BonusTiles: []Position{{3, 3}}},
			want:  Position{2, 2},
		},
		{
			name:  "safety before bonus",
			dests: []Position{{3, 3}, {8, 6}},
			sit:   Situation{Wolf: Position{0, 0}, BonusTiles: []Position{{3, 3}}},
			want:  Position{8, 6},
		},
		{
			name:  "bonus before heuristic",
			dests: []Position{{3, 3}, {6, 6}},
			sit:   Situation{Wolf: Position{0, 0}, BonusTiles: []Position{{3, 3}}},
			want:  Position{3, 3},
		},
		{
			name:  "away from the wolf and toward a door",
			dests: []Position{{0, 0}, {6, 6}},
			sit:   Situation{Wolf: Position{0, 1}},
			want:  Position{6, 6},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ChooseRabbitDestination(tt.dests, tt.sit, rng)
			if !ok {
				t.Fatal("Expected a destination")
			}
			if got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestChooseHandIsValid(t *testing.T) {
	rng := testRand()
	for i := 0; i < 30; i++ {
		if h := ChooseHand(rng); !h.Valid() {
			t.Fatalf("ChooseHand returned invalid hand %q", h)
		}
	}
}
