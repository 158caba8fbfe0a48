package engine

import "github.com/zyedidia/generic/mapset"

// BoardView is the read-only occupancy a mover sees while its destinations
// are computed. Rabbits lists the other rabbits, never the mover itself.
type BoardView struct {
	Obstacles   mapset.Set[Position]
	Wolf        Position
	Rabbits     []Position
	Collectible *Position
}

type searchNode struct {
	pos       Position
	prev      Position
	hasPrev   bool
	remaining int
}

type searchKey struct {
	pos       Position
	remaining int
}

// Reachable returns every cell reached by spending exactly steps single
// orthogonal moves from `from` under the movement rules of the species.
// Cells reached with steps left over are not part of the result.
func Reachable(from Position, species Species, steps int, board BoardView) mapset.Set[Position] {
	reachable := mapset.New[Position]()
	if steps < 0 {
		return reachable
	}

	visited := mapset.New[searchKey]()
	queue := []searchNode{{pos: from, remaining: steps}}

	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]

		key := searchKey{pos: node.pos, remaining: node.remaining}
		if visited.Has(key) {
			continue
		}
		visited.Put(key)

		if node.remaining == 0 {
			reachable.Put(node.pos)
			continue
		}

		for _, d := range directions {
			next := node.pos.Add(d)
			if !canStep(species, node, next, board) {
				continue
			}
			queue = append(queue, searchNode{
				pos:       next,
				prev:      node.pos,
				hasPrev:   true,
				remaining: node.remaining - 1,
			})
		}
	}
	return reachable
}

// canStep applies the per-species legality rules to a single step
func canStep(species Species, node searchNode, next Position, board BoardView) bool {
	if !next.InGrid() && !next.InSafetyZone() {
		return false
	}
	if board.Obstacles.Has(next) {
		return false
	}

	if species == Predator {
		if next.InSafetyZone() {
			return false
		}
		if board.Collectible != nil && *board.Collectible == next {
			return false
		}
		return true
	}

	if !node.pos.InSafetyZone() && next.InSafetyZone() && !IsDoor(node.pos) {
		return false
	}
	if next == board.Wolf {
		return false
	}
	if containsPosition(board.Rabbits, next) {
		return false
	}
	if node.hasPrev && JumpsWolf(node.prev, next, board.Wolf) {
		return false
	}
	return true
}

// JumpsWolf reports whether from and to are a straight two-cell jump with
// the wolf on the cell between them.
func JumpsWolf(from, to, wolf Position) bool {
	dx, dy := to.X-from.X, to.Y-from.Y
	straight := (abs(dx) == 2 && dy == 0) || (dx == 0 && abs(dy) == 2)
	if !straight {
		return false
	}
	mid := Position{X: from.X + dx/2, Y: from.Y + dy/2}
	return mid == wolf
}

// TrappedForAllRolls reports whether no die face from 1 to faces opens any destination
func TrappedForAllRolls(from Position, species Species, bonus, faces int, board BoardView) bool {
	for v := 1; v <= faces; v++ {
		if Reachable(from, species, v+bonus, board).Size() > 0 {
			return false
		}
	}
	return true
}
