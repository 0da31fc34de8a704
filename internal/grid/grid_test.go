package grid

import (
	"errors"
	"testing"
)

type token struct{ name string }

func TestNeighborhoodTorus(t *testing.T) {
	g := New[*token](5, 5, true)

	got := g.Neighborhood(Coord{0, 0}, 1, false)
	want := map[Coord]bool{
		{0, 4}: true, // up across the seam
		{4, 0}: true,
		{1, 0}: true,
		{0, 1}: true,
	}
	if len(got) != len(want) {
		t.Fatalf("got %d neighbours %v, want %d", len(got), got, len(want))
	}
	for _, c := range got {
		if !want[c] {
			t.Fatalf("unexpected neighbour %s", c)
		}
	}
}

func TestNeighborhoodBounded(t *testing.T) {
	g := New[*token](5, 5, false)
	got := g.Neighborhood(Coord{0, 0}, 1, false)
	if len(got) != 2 {
		t.Fatalf("corner of bounded grid has %d neighbours, want 2: %v", len(got), got)
	}
}

func TestNeighborhoodRadiusIsManhattan(t *testing.T) {
	g := New[*token](20, 20, true)
	got := g.Neighborhood(Coord{10, 10}, 2, true)
	// Diamond of radius 2: 1 + 4 + 8 cells.
	if len(got) != 13 {
		t.Fatalf("radius 2 diamond has %d cells, want 13", len(got))
	}
	for _, c := range got {
		dx, dy := g.Delta(Coord{10, 10}, c)
		if abs(dx)+abs(dy) > 2 {
			t.Fatalf("%s is outside Manhattan radius 2", c)
		}
	}
}

func TestNeighborhoodDedupesSmallTorus(t *testing.T) {
	g := New[*token](3, 3, true)
	got := g.Neighborhood(Coord{1, 1}, 5, true)
	seen := map[Coord]bool{}
	for _, c := range got {
		if seen[c] {
			t.Fatalf("cell %s listed twice", c)
		}
		seen[c] = true
	}
	if len(got) != 9 {
		t.Fatalf("radius 5 on a 3x3 torus covers %d cells, want 9", len(got))
	}
}

func TestPlaceMoveRemove(t *testing.T) {
	g := New[*token](4, 4, true)
	a := &token{"a"}
	b := &token{"b"}

	if err := g.Place(a, Coord{1, 1}); err != nil {
		t.Fatalf("place a: %v", err)
	}
	if err := g.Place(b, Coord{1, 1}); !errors.Is(err, ErrOccupied) {
		t.Fatalf("place on occupied cell: got %v, want ErrOccupied", err)
	}
	if err := g.Place(b, Coord{2, 1}); err != nil {
		t.Fatalf("place b: %v", err)
	}

	if _, err := g.Move(a, Coord{1, 1}, Coord{2, 1}); !errors.Is(err, ErrOccupied) {
		t.Fatalf("move onto b: got %v, want ErrOccupied", err)
	}
	dst, err := g.Move(a, Coord{1, 1}, Coord{-1, 1})
	if err != nil {
		t.Fatalf("move across seam: %v", err)
	}
	if dst != (Coord{3, 1}) {
		t.Fatalf("move landed at %s, want (3,1)", dst)
	}
	if !g.IsEmpty(Coord{1, 1}) {
		t.Fatal("source cell still occupied after move")
	}

	if err := g.Remove(a, Coord{1, 1}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("remove from wrong cell: got %v, want ErrNotFound", err)
	}
	if err := g.Remove(a, Coord{3, 1}); err != nil {
		t.Fatalf("remove a: %v", err)
	}
	if err := g.Remove(a, Coord{3, 1}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second remove: got %v, want ErrNotFound", err)
	}
}

func TestBoundedRejectsOutside(t *testing.T) {
	g := New[*token](3, 3, false)
	if err := g.Place(&token{}, Coord{3, 0}); !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("got %v, want ErrOutOfBounds", err)
	}
	if g.IsEmpty(Coord{-1, 0}) {
		t.Fatal("out-of-bounds cell reported empty")
	}
}

func TestDeltaShortestAcrossSeam(t *testing.T) {
	g := New[*token](10, 10, true)
	dx, dy := g.Delta(Coord{1, 1}, Coord{9, 2})
	if dx != -2 || dy != 1 {
		t.Fatalf("Delta = (%d,%d), want (-2,1)", dx, dy)
	}

	b := New[*token](10, 10, false)
	dx, _ = b.Delta(Coord{1, 1}, Coord{9, 2})
	if dx != 8 {
		t.Fatalf("bounded Delta dx = %d, want 8", dx)
	}
}

func TestEmptyCells(t *testing.T) {
	g := New[*token](2, 2, true)
	_ = g.Place(&token{}, Coord{0, 0})
	_ = g.Place(&token{}, Coord{1, 1})
	empty := g.EmptyCells()
	if len(empty) != 2 || empty[0] != (Coord{1, 0}) || empty[1] != (Coord{0, 1}) {
		t.Fatalf("EmptyCells = %v", empty)
	}
}

func TestNoiseFieldRangeAndDeterminism(t *testing.T) {
	a := NoiseField(16, 12, 99)
	b := NoiseField(16, 12, 99)
	for i, v := range a.Values {
		if v < 0 || v > 1 {
			t.Fatalf("value %d = %v outside [0,1]", i, v)
		}
		if v != b.Values[i] {
			t.Fatalf("value %d differs between identical seeds", i)
		}
	}
	if a.At(Coord{-1, 0}) != a.At(Coord{15, 0}) {
		t.Fatal("At does not wrap")
	}
}
