package engine

import (
	"math"
	"math/rand/v2"
)

// Heuristic weights for rabbit destination scoring
const (
	wolfDistanceWeight = 1.0
	doorDistanceWeight = 1.5
	scoreJitter        = 0.01
)

// Situation is what the AI looks at when picking a destination
type Situation struct {
	Wolf        Position
	Rabbits     []Position
	Collectible *Position
	BonusTiles  []Position
}

// ChooseHand picks an AI rock-paper-scissors hand
func ChooseHand(rng *rand.Rand) Hand {
	return RandomHand(rng)
}

// ChooseWolfDestination prefers a capture, otherwise the destination closest
// to the nearest rabbit. Ties are broken at random.
func ChooseWolfDestination(dests []Position, sit Situation, rng *rand.Rand) (Position, bool) {
	if len(dests) == 0 {
		return Position{}, false
	}
	for _, d := range dests {
		if containsPosition(sit.Rabbits, d) {
			return d, true
		}
	}
	if len(sit.Rabbits) == 0 {
		return dests[rng.IntN(len(dests))], true
	}

	best := []Position{}
	bestDist := math.MaxInt
	for _, d := range dests {
		nearest := math.MaxInt
		for _, r := range sit.Rabbits {
			nearest = min(nearest, ManhattanDistance(d, r))
		}
		switch {
		case nearest < bestDist:
			bestDist = nearest
			best = []Position{d}
		case nearest == bestDist:
			best = append(best, d)
		}
	}
	return best[rng.IntN(len(best))], true
}

// ChooseRabbitDestination prefers the collectible, then the safety zone,
// then a bonus tile, and otherwise balances distance from the wolf
// against closeness to a door.
func ChooseRabbitDestination(dests []Position, sit Situation, rng *rand.Rand) (Position, bool) {
	if len(dests) == 0 {
		return Position{}, false
	}
	if sit.Collectible != nil && containsPosition(dests, *sit.Collectible) {
		return *sit.Collectible, true
	}
	for _, d := range dests {
		if d.InSafetyZone() {
			return d, true
		}
	}
	for _, d := range dests {
		if containsPosition(sit.BonusTiles, d) {
			return d, true
		}
	}

	best := dests[0]
	bestScore := math.Inf(-1)
	for _, d := range dests {
		score := wolfDistanceWeight*float64(ManhattanDistance(d, sit.Wolf)) -
			doorDistanceWeight*float64(NearestDoorDistance(d)) +
			rng.Float64()*scoreJitter
		if score > bestScore {
			bestScore = score
			best = d
		}
	}
	return best, true
}
