// Scalar fields over the grid, generated with layered simplex noise.
package grid

import (
	opensimplex "github.com/ojrac/opensimplex-go"
)

// Field is a value in [0, 1] per cell, stored row-major.
type Field struct {
	Width  int
	Height int
	Values []float64
}

// At returns the field value at c, wrapping out-of-range coordinates.
func (f *Field) At(c Coord) float64 {
	x := mod(c.X, f.Width)
	y := mod(c.Y, f.Height)
	return f.Values[y*f.Width+x]
}

// NoiseField builds a spatially correlated field from seed. Neighbouring cells
// get similar values, producing regions of high and low intensity.
func NoiseField(width, height int, seed int64) *Field {
	noise := opensimplex.NewNormalized(seed)
	f := &Field{
		Width:  width,
		Height: height,
		Values: make([]float64, width*height),
	}

	lo, hi := 1.0, 0.0
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := octaveNoise(noise, float64(x), float64(y), 3, 0.12, 0.5)
			f.Values[y*width+x] = v
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}

	// Stretch to the full [0, 1] range so the field is comparable to a uniform draw.
	if span := hi - lo; span > 0 {
		for i, v := range f.Values {
			f.Values[i] = (v - lo) / span
		}
	}
	return f
}

// octaveNoise generates fractal noise by layering multiple frequencies.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}
