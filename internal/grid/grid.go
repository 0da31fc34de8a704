// Package grid provides the rectangular cell grid the simulation runs on.
// Each cell holds at most one occupant. The grid wraps at its edges (a torus)
// unless constructed with wrap disabled.
package grid

import (
	"errors"
	"fmt"
)

var (
	ErrOutOfBounds = errors.New("grid: coordinate out of bounds")
	ErrOccupied    = errors.New("grid: cell occupied")
	ErrNotFound    = errors.New("grid: occupant not at position")
)

// Coord is a cell position. X is the column, Y the row.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Grid holds occupants of type T. The zero value of T marks an empty cell.
type Grid[T comparable] struct {
	width  int
	height int
	wrap   bool
	cells  []T
}

// New creates an empty width x height grid.
func New[T comparable](width, height int, wrap bool) *Grid[T] {
	return &Grid[T]{
		width:  width,
		height: height,
		wrap:   wrap,
		cells:  make([]T, width*height),
	}
}

func (g *Grid[T]) Width() int { return g.width }
func (g *Grid[T]) Height() int { return g.height }
func (g *Grid[T]) Wraps() bool { return g.wrap }

// Normalize maps c onto the grid. On a torus every coordinate is valid; on a
// bounded grid ok is false for coordinates outside it.
func (g *Grid[T]) Normalize(c Coord) (Coord, bool) {
	if g.wrap {
		return Coord{X: mod(c.X, g.width), Y: mod(c.Y, g.height)}, true
	}
	if c.X < 0 || c.X >= g.width || c.Y < 0 || c.Y >= g.height {
		return c, false
	}
	return c, true
}

func (g *Grid[T]) index(c Coord) (int, error) {
	n, ok := g.Normalize(c)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrOutOfBounds, c)
	}
	return n.Y*g.width + n.X, nil
}

// Get returns the occupant at c, or the zero value for an empty or invalid cell.
func (g *Grid[T]) Get(c Coord) T {
	var zero T
	i, err := g.index(c)
	if err != nil {
		return zero
	}
	return g.cells[i]
}

// IsEmpty reports whether c is a valid, unoccupied cell.
func (g *Grid[T]) IsEmpty(c Coord) bool {
	var zero T
	i, err := g.index(c)
	if err != nil {
		return false
	}
	return g.cells[i] == zero
}

// Place puts occ at c.
func (g *Grid[T]) Place(occ T, c Coord) error {
	var zero T
	i, err := g.index(c)
	if err != nil {
		return err
	}
	if g.cells[i] != zero {
		return fmt.Errorf("%w: %s", ErrOccupied, c)
	}
	g.cells[i] = occ
	return nil
}

// Remove clears c if it holds occ. ErrNotFound is returned when occ is not
// there; callers that only need occ off the grid can ignore it.
func (g *Grid[T]) Remove(occ T, c Coord) error {
	var zero T
	i, err := g.index(c)
	if err != nil {
		return err
	}
	if occ == zero || g.cells[i] != occ {
		return fmt.Errorf("%w: %s", ErrNotFound, c)
	}
	g.cells[i] = zero
	return nil
}

// Move relocates occ from one cell to another empty cell and returns the
// normalized destination.
func (g *Grid[T]) Move(occ T, from, to Coord) (Coord, error) {
	dst, ok := g.Normalize(to)
	if !ok {
		return from, fmt.Errorf("%w: %s", ErrOutOfBounds, to)
	}
	if !g.IsEmpty(dst) {
		return from, fmt.Errorf("%w: %s", ErrOccupied, dst)
	}
	if err := g.Remove(occ, from); err != nil {
		return from, err
	}
	// dst was checked empty and is in bounds.
	_ = g.Place(occ, dst)
	return dst, nil
}

// Neighborhood returns the cells within Manhattan distance radius of c, in a
// stable order. Cells reached twice through wrapping are listed once.
func (g *Grid[T]) Neighborhood(c Coord, radius int, includeCenter bool) []Coord {
	out := make([]Coord, 0, 2*radius*(radius+1)+1)
	seen := make(map[Coord]struct{}, cap(out))
	center, _ := g.Normalize(c)

	for dy := -radius; dy <= radius; dy++ {
		span := radius - abs(dy)
		for dx := -span; dx <= span; dx++ {
			n, ok := g.Normalize(Coord{X: c.X + dx, Y: c.Y + dy})
			if !ok {
				continue
			}
			if n == center && !includeCenter {
				continue
			}
			if _, dup := seen[n]; dup {
				continue
			}
			seen[n] = struct{}{}
			out = append(out, n)
		}
	}
	return out
}

// Occupants returns the non-empty occupants of the given cells.
func (g *Grid[T]) Occupants(cells []Coord) []T {
	var zero T
	out := make([]T, 0, len(cells))
	for _, c := range cells {
		if occ := g.Get(c); occ != zero {
			out = append(out, occ)
		}
	}
	return out
}

// EmptyNeighbors returns the empty cells of the 4-neighbourhood of c.
func (g *Grid[T]) EmptyNeighbors(c Coord) []Coord {
	var out []Coord
	for _, n := range g.Neighborhood(c, 1, false) {
		if g.IsEmpty(n) {
			out = append(out, n)
		}
	}
	return out
}

// EmptyCells returns every empty cell in row-major order.
func (g *Grid[T]) EmptyCells() []Coord {
	var zero T
	var out []Coord
	for i, occ := range g.cells {
		if occ == zero {
			out = append(out, Coord{X: i % g.width, Y: i / g.width})
		}
	}
	return out
}

// Each calls fn for every cell in row-major order.
func (g *Grid[T]) Each(fn func(c Coord, occ T)) {
	for i, occ := range g.cells {
		fn(Coord{X: i % g.width, Y: i / g.width}, occ)
	}
}

// Delta returns the shortest signed displacement from a to b. On a torus the
// step across the seam is used when it is shorter.
func (g *Grid[T]) Delta(a, b Coord) (dx, dy int) {
	dx = b.X - a.X
	dy = b.Y - a.Y
	if g.wrap {
		dx = shortest(dx, g.width)
		dy = shortest(dy, g.height)
	}
	return dx, dy
}

func shortest(d, size int) int {
	d = mod(d, size)
	if d > size/2 {
		d -= size
	}
	return d
}

func mod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
