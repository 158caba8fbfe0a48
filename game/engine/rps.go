package engine

import (
	"math/rand/v2"
	"strings"
)

// Hand is a rock-paper-scissors choice
type Hand string

const (
	Rock     Hand = "rock"
	Paper    Hand = "paper"
	Scissors Hand = "scissors"

	// HandHidden stands in for a committed hand in snapshots taken before
	// the round resolves
	HandHidden Hand = "hidden"
)

var hands = []Hand{Rock, Paper, Scissors}

var beats = map[Hand]Hand{
	Rock:     Scissors,
	Scissors: Paper,
	Paper:    Rock,
}

// ParseHand accepts rock/paper/scissors plus "stone" from the paper-scissors-stone naming
func ParseHand(s string) (Hand, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rock", "stone":
		return Rock, true
	case "paper":
		return Paper, true
	case "scissors":
		return Scissors, true
	}
	return "", false
}

// Valid reports whether h is one of the three hands
func (h Hand) Valid() bool {
	_, ok := beats[h]
	return ok
}

// Beats reports whether h wins against other
func (h Hand) Beats(other Hand) bool {
	return beats[h] == other
}

// RandomHand picks a hand uniformly at random
func RandomHand(rng *rand.Rand) Hand {
	return hands[rng.IntN(len(hands))]
}

// ResolveRPS returns, in roster order, every player whose hand is beaten by
// at least one other player's hand. An empty result is a tie.
func ResolveRPS(order []Role, choices map[Role]Hand) []Role {
	losers := []Role{}
	for _, r := range order {
		mine, ok := choices[r]
		if !ok {
			continue
		}
		for _, other := range order {
			if other == r {
				continue
			}
			if theirs, ok := choices[other]; ok && theirs.Beats(mine) {
				losers = append(losers, r)
				break
			}
		}
	}
	return losers
}
