package pathing

// Tile is a map position in the grid's own coordinate system.
type Tile struct {
	X, Y int
}

// Direction is one of the eight compass steps between adjacent tiles.
// Order: NW, N, NE, W, E, SW, S, SE. Opposite directions sum to 7, so the
// four lower-numbered directions each have their reverse in the upper four.
type Direction int8

const (
	DirNW Direction = iota
	DirN
	DirNE
	DirW
	DirE
	DirSW
	DirS
	DirSE
	DirCount
)

// DirNone marks a missing direction (e.g. no back-vector bit set).
const DirNone Direction = -1

// dirVectors match DirNW..DirSE.
var dirVectors = [DirCount][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

var dirNames = [DirCount]string{"NW", "N", "NE", "W", "E", "SW", "S", "SE"}

// Reverse returns the opposite direction.
func (d Direction) Reverse() Direction {
	return DirCount - 1 - d
}

// Cardinal reports whether d is N, W, E or S.
func (d Direction) Cardinal() bool {
	return d == DirN || d == DirW || d == DirE || d == DirS
}

// Vector returns the (dx, dy) offset for d.
func (d Direction) Vector() (int, int) {
	v := dirVectors[d]
	return v[0], v[1]
}

func (d Direction) String() string {
	if d < 0 || d >= DirCount {
		return "none"
	}
	return dirNames[d]
}

// Bit returns the back-vector mask bit for d.
func (d Direction) Bit() uint8 {
	return 1 << uint(d)
}

// DirectionFromBits returns the single direction encoded in a back-vector,
// or DirNone if the mask is empty.
func DirectionFromBits(mask uint8) Direction {
	for d := DirNW; d < DirCount; d++ {
		if mask&d.Bit() != 0 {
			return d
		}
	}
	return DirNone
}

// DirectionBetween finds the direction that steps from a to b on grid,
// or DirNone if b is not adjacent to a.
func DirectionBetween(grid Grid, a, b Tile) Direction {
	for d := DirNW; d < DirCount; d++ {
		if n, ok := grid.Step(a, d); ok && n == b {
			return d
		}
	}
	return DirNone
}
