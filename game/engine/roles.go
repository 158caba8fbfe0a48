package engine

import "fmt"

// Role is one of the fixed player identities
type Role string

const (
	Wolf        Role = "wolf"
	Rabbit      Role = "rabbit"
	RedRabbit   Role = "redRabbit"
	BlueRabbit  Role = "blueRabbit"
	BlackRabbit Role = "blackRabbit"
)

// Species selects the movement and scoring rules of a role
type Species string

const (
	Predator Species = "predator"
	Prey     Species = "prey"
)

// Capability is everything the rules need to know about a role
type Capability struct {
	Species     Species
	StartCorner Position
	Label       string
}

var capabilities = map[Role]Capability{
	Wolf:        {Species: Predator, StartCorner: Position{X: 7, Y: 7}, Label: "Wolf"},
	Rabbit:      {Species: Prey, StartCorner: Position{X: 0, Y: 0}, Label: "Rabbit"},
	RedRabbit:   {Species: Prey, StartCorner: Position{X: 0, Y: 0}, Label: "Red Rabbit"},
	BlueRabbit:  {Species: Prey, StartCorner: Position{X: 7, Y: 0}, Label: "Blue Rabbit"},
	BlackRabbit: {Species: Prey, StartCorner: Position{X: 0, Y: 7}, Label: "Black Rabbit"},
}

// rabbitCorners are the corners a rabbit may respawn on, in preference order
var rabbitCorners = []Position{{X: 0, Y: 0}, {X: 7, Y: 0}, {X: 0, Y: 7}}

// CapabilityOf looks up the capability table entry for a role
func CapabilityOf(r Role) (Capability, bool) {
	c, ok := capabilities[r]
	return c, ok
}

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	_, ok := capabilities[r]
	return ok
}

// IsRabbit reports whether r is one of the prey roles
func (r Role) IsRabbit() bool {
	c, ok := capabilities[r]
	return ok && c.Species == Prey
}

// Label returns the display name of a role
func (r Role) Label() string {
	if c, ok := capabilities[r]; ok {
		return c.Label
	}
	return string(r)
}

// RosterFor returns the roles taking part in a match of the given size.
// The wolf is always first.
func RosterFor(playerCount int) ([]Role, error) {
	switch playerCount {
	case 2:
		return []Role{Wolf, Rabbit}, nil
	case 3:
		return []Role{Wolf, RedRabbit, BlueRabbit}, nil
	case 4:
		return []Role{Wolf, RedRabbit, BlueRabbit, BlackRabbit}, nil
	default:
		return nil, fmt.Errorf("player count must be between %d and %d, got %d", MinPlayers, MaxPlayers, playerCount)
	}
}

// respawnCandidates lists the corners a rabbit may be put back on, its own first
func respawnCandidates(r Role) []Position {
	own := capabilities[r].StartCorner
	out := []Position{own}
	for _, c := range rabbitCorners {
		if c != own {
			out = append(out, c)
		}
	}
	return out
}
