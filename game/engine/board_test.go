package engine

import "testing"

func TestInSafetyZone(t *testing.T) {
	tests := []struct {
		pos  Position
		want bool
	}{
		{Position{6, 8}, true},
		{Position{7, 8}, true},
		{Position{8, 8}, true},
		{Position{8, 7}, true},
		{Position{8, 6}, true},
		{Position{5, 8}, false},
		{Position{8, 5}, false},
		{Position{9, 8}, false},
		{Position{8, 9}, false},
		{Position{7, 7}, false},
		{Position{0, 0}, false},
	}

	for _, tt := range tests {
		if got := tt.pos.InSafetyZone(); got != tt.want {
			t.Errorf("InSafetyZone(%v) = %v, want %v", tt.pos, got, tt.want)
		}
	}
}

func TestDoorsAndCorners(t *testing.T) {
	doors := Doors()
	if len(doors) != 2 || doors[0] != (Position{6, 7}) || doors[1] != (Position{7, 6}) {
		t.Errorf("Unexpected doors: %v", doors)
	}
	for _, c := range []Position{{0, 0}, {7, 0}, {0, 7}, {7, 7}} {
		if !IsCorner(c) {
			t.Errorf("Expected %v to be a corner", c)
		}
	}
	if IsCorner(Position{3, 0}) {
		t.Error("(3,0) is not a corner")
	}
	if len(gridCells()) != GridSize*GridSize {
		t.Errorf("Expected %d grid cells, got %d", GridSize*GridSize, len(gridCells()))
	}
}

func TestRosterFor(t *testing.T) {
	tests := []struct {
		count int
		want  []Role
	}{
		{2, []Role{Wolf, Rabbit}},
		{3, []Role{Wolf, RedRabbit, BlueRabbit}},
		{4, []Role{Wolf, RedRabbit, BlueRabbit, BlackRabbit}},
	}
	for _, tt := range tests {
		got, err := RosterFor(tt.count)
		if err != nil {
			t.Fatalf("RosterFor(%d) failed: %v", tt.count, err)
		}
		if len(got) != len(tt.want) {
			t.Fatalf("RosterFor(%d) = %v, want %v", tt.count, got, tt.want)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("RosterFor(%d)[%d] = %s, want %s", tt.count, i, got[i], tt.want[i])
			}
		}
	}

	for _, bad := range []int{0, 1, 5} {
		if _, err := RosterFor(bad); err == nil {
			t.Errorf("Expected error for player count %d", bad)
		}
	}
}

func TestRespawnCandidatesOwnCornerFirst(t *testing.T) {
	got := respawnCandidates(BlueRabbit)
	want := []Position{{7, 0}, {0, 0}, {0, 7}}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("respawnCandidates(blueRabbit) = %v, want %v", got, want)
		}
	}
}

func TestDistances(t *testing.T) {
	if d := ManhattanDistance(Position{0, 0}, Position{3, 4}); d != 7 {
		t.Errorf("ManhattanDistance = %d, want 7", d)
	}
	if d := EuclideanDistance(Position{0, 0}, Position{3, 4}); d != 5 {
		t.Errorf("EuclideanDistance = %v, want 5", d)
	}
	if d := NearestDoorDistance(Position{7, 7}); d != 1 {
		t.Errorf("NearestDoorDistance = %d, want 1", d)
	}
}
