package engine

import (
	"errors"
	"math/rand/v2"
	"testing"
)

func TestGenerateObstaclesKeepsCornersConnected(t *testing.T) {
	anchors := []Position{{0, 0}, {7, 0}, {0, 7}}

	for seed := uint64(1); seed <= 50; seed++ {
		rng := rand.New(rand.NewPCG(seed, seed))
		blocked, err := GenerateObstacles(rng, DefaultObstacleCount, anchors, 1000)
		if err != nil {
			t.Fatalf("seed %d: GenerateObstacles failed: %v", seed, err)
		}
		if blocked.Size() != DefaultObstacleCount {
			t.Errorf("seed %d: expected %d obstacles, got %d", seed, DefaultObstacleCount, blocked.Size())
		}
		blocked.Each(func(p Position) {
			if !p.InGrid() {
				t.Errorf("seed %d: obstacle %v outside grid", seed, p)
			}
			if IsCorner(p) || IsDoor(p) {
				t.Errorf("seed %d: obstacle on reserved cell %v", seed, p)
			}
		})
		if !LayoutConnected(anchors, blocked) {
			t.Errorf("seed %d: layout leaves an anchor cut off from both doors", seed)
		}
	}
}

func TestGenerateObstaclesTooMany(t *testing.T) {
	_, err := GenerateObstacles(testRand(), 100, []Position{{0, 0}}, 10)
	if !errors.Is(err, ErrObstacleLayout) {
		t.Errorf("Expected ErrObstacleLayout, got %v", err)
	}
}

func TestGenerateObstaclesGivesUp(t *testing.T) {
	// Filling every free cell always walls the anchor in
	free := GridSize*GridSize - 6
	_, err := GenerateObstacles(testRand(), free, []Position{{0, 0}}, 3)
	if !errors.Is(err, ErrObstacleLayout) {
		t.Errorf("Expected ErrObstacleLayout after exhausting attempts, got %v", err)
	}
}

func TestPathExists(t *testing.T) {
	// A full column wall at x=3 separates the west half from the doors
	var wall []Position
	for y := 0; y < GridSize; y++ {
		wall = append(wall, Position{3, y})
	}
	blocked := NewPositionSet(wall...)

	if PathExists(Position{0, 0}, Doors(), blocked) {
		t.Error("Expected wall to cut off (0,0)")
	}
	if !PathExists(Position{7, 0}, Doors(), blocked) {
		t.Error("Expected (7,0) to reach a door")
	}
	if PathExists(Position{3, 3}, Doors(), blocked) {
		t.Error("A blocked start cannot reach anything")
	}
}
