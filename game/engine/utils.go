package engine

import (
	"math"
	"sort"

	"github.com/zyedidia/generic/mapset"
)

// ManhattanDistance calculates the Manhattan distance between two positions
func ManhattanDistance(from, to Position) int {
	return abs(from.X-to.X) + abs(from.Y-to.Y)
}

// EuclideanDistance calculates the straight-line distance between two positions
func EuclideanDistance(from, to Position) float64 {
	dx := float64(from.X - to.X)
	dy := float64(from.Y - to.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// NearestDoorDistance returns the Manhattan distance from p to the closer door
func NearestDoorDistance(p Position) int {
	return min(ManhattanDistance(p, DoorSouth), ManhattanDistance(p, DoorEast))
}

// SortPositions orders positions row by row, left to right
func SortPositions(ps []Position) []Position {
	sort.Slice(ps, func(i, j int) bool {
		if ps[i].Y != ps[j].Y {
			return ps[i].Y < ps[j].Y
		}
		return ps[i].X < ps[j].X
	})
	return ps
}

// SetToSlice flattens a position set into a sorted slice
func SetToSlice(s mapset.Set[Position]) []Position {
	out := make([]Position, 0, s.Size())
	s.Each(func(p Position) {
		out = append(out, p)
	})
	return SortPositions(out)
}

// NewPositionSet builds a set holding the given positions
func NewPositionSet(ps ...Position) mapset.Set[Position] {
	s := mapset.New[Position]()
	for _, p := range ps {
		s.Put(p)
	}
	return s
}

func containsPosition(ps []Position, p Position) bool {
	for _, q := range ps {
		if q == p {
			return true
		}
	}
	return false
}

func containsRole(rs []Role, r Role) bool {
	for _, q := range rs {
		if q == r {
			return true
		}
	}
	return false
}

// abs returns the absolute value of x
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
