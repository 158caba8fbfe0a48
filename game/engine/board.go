package engine

var (
	// DoorSouth and DoorEast are the only cells from which a rabbit may
	// step into the safety zone.
	DoorSouth = Position{X: 6, Y: 7}
	DoorEast  = Position{X: 7, Y: 6}

	directions = []Position{{X: 1, Y: 0}, {X: -1, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: -1}}
)

// Doors returns both door cells
func Doors() []Position {
	return []Position{DoorSouth, DoorEast}
}

// InGrid reports whether x,y lies on the 8x8 playing grid
func InGrid(x, y int) bool {
	return x >= 0 && x < GridSize && y >= 0 && y < GridSize
}

// InSafetyZone reports whether x,y lies in the L-shaped zone beyond the south-east corner
func InSafetyZone(x, y int) bool {
	return (y == GridSize && x >= 6 && x <= GridSize) || (x == GridSize && y >= 6 && y <= GridSize)
}

// IsDoor reports whether p is one of the two doors
func IsDoor(p Position) bool {
	return p == DoorSouth || p == DoorEast
}

// IsCorner reports whether p is a corner of the grid
func IsCorner(p Position) bool {
	edge := GridSize - 1
	return (p.X == 0 || p.X == edge) && (p.Y == 0 || p.Y == edge)
}

// InGrid reports whether the position lies on the playing grid
func (p Position) InGrid() bool {
	return InGrid(p.X, p.Y)
}

// InSafetyZone reports whether the position lies in the safety zone
func (p Position) InSafetyZone() bool {
	return InSafetyZone(p.X, p.Y)
}

// Add returns p translated by d
func (p Position) Add(d Position) Position {
	return Position{X: p.X + d.X, Y: p.Y + d.Y}
}

// gridCells returns every cell of the grid in row-major order
func gridCells() []Position {
	cells := make([]Position, 0, GridSize*GridSize)
	for y := 0; y < GridSize; y++ {
		for x := 0; x < GridSize; x++ {
			cells = append(cells, Position{X: x, Y: y})
		}
	}
	return cells
}
