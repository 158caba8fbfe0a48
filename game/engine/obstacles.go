package engine

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/zyedidia/generic/mapset"
)

// ErrObstacleLayout is returned when no connected layout is found within the retry budget
var ErrObstacleLayout = errors.New("obstacle layout: no connected layout found")

// reservedCell reports cells that can never hold an obstacle
func reservedCell(p Position) bool {
	return IsCorner(p) || IsDoor(p)
}

// GenerateObstacles samples count distinct obstacle cells, rejecting whole
// batches until every anchor keeps a path to at least one door.
func GenerateObstacles(rng *rand.Rand, count int, anchors []Position, maxAttempts int) (mapset.Set[Position], error) {
	free := 0
	for _, c := range gridCells() {
		if !reservedCell(c) && !containsPosition(anchors, c) {
			free++
		}
	}
	if count < 0 || count > free {
		return mapset.Set[Position]{}, fmt.Errorf("%w: %d obstacles do not fit in %d free cells", ErrObstacleLayout, count, free)
	}
	if maxAttempts <= 0 {
		maxAttempts = MaxObstacleAttempts
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		blocked := mapset.New[Position]()
		for blocked.Size() < count {
			p := Position{X: rng.IntN(GridSize), Y: rng.IntN(GridSize)}
			if reservedCell(p) || containsPosition(anchors, p) || blocked.Has(p) {
				continue
			}
			blocked.Put(p)
		}
		if LayoutConnected(anchors, blocked) {
			return blocked, nil
		}
	}
	return mapset.Set[Position]{}, fmt.Errorf("%w after %d attempts", ErrObstacleLayout, maxAttempts)
}

// LayoutConnected reports whether every anchor reaches a door through open cells
func LayoutConnected(anchors []Position, blocked mapset.Set[Position]) bool {
	for _, a := range anchors {
		if !PathExists(a, Doors(), blocked) {
			return false
		}
	}
	return true
}

// PathExists runs a breadth-first search over the grid, avoiding blocked
// cells, and reports whether any target is reachable from start.
func PathExists(start Position, targets []Position, blocked mapset.Set[Position]) bool {
	if !start.InGrid() || blocked.Has(start) {
		return false
	}
	visited := mapset.New[Position]()
	queue := []Position{start}
	visited.Put(start)

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if containsPosition(targets, current) {
			return true
		}
		for _, d := range directions {
			next := current.Add(d)
			if !next.InGrid() || blocked.Has(next) || visited.Has(next) {
				continue
			}
			visited.Put(next)
			queue = append(queue, next)
		}
	}
	return false
}
