// Package config holds the model parameters, their defaults and validation,
// and loading them from a YAML file.
package config

import (
	"errors"
	"fmt"
	"math"
)

// Layout selects the initial arrangement of agents on the grid.
type Layout string

const (
	LayoutRandom      Layout = "random"       // Independent weighted draw per cell
	LayoutBlockMiddle Layout = "block-middle" // Square barricade in the centre
	LayoutCopsMiddle  Layout = "cops-middle"  // Square of cops in the centre
	LayoutCopWall     Layout = "cop-wall"     // Column of cops down the middle
	LayoutStreet      Layout = "street"       // Two barricade rows enclosing a street
)

// HardshipField selects how citizen hardship is drawn.
type HardshipField string

const (
	HardshipUniform HardshipField = "uniform" // Independent uniform draw per citizen
	HardshipSimplex HardshipField = "simplex" // Spatially correlated simplex noise
)

// Config is the full set of model parameters.
type Config struct {
	Height     int     `yaml:"height" json:"height"`
	Width      int     `yaml:"width" json:"width"`
	Density    float64 `yaml:"density" json:"density"`       // Fraction of cells holding citizens or cops
	Ratio      float64 `yaml:"ratio" json:"ratio"`           // Citizen share of the occupied cells
	Barricades int     `yaml:"barricades" json:"barricades"` // Target number of blocks

	CitizenVision int `yaml:"citizen_vision" json:"citizen_vision"`
	CopVision     int `yaml:"cop_vision" json:"cop_vision"`

	Legitimacy         float64 `yaml:"legitimacy" json:"legitimacy"`
	MaxJailTerm        int     `yaml:"max_jail_term" json:"max_jail_term"`
	JailCapacity       int     `yaml:"jail_capacity" json:"jail_capacity"`
	ActiveThreshold    float64 `yaml:"active_threshold" json:"active_threshold"`
	ArrestProbConstant float64 `yaml:"arrest_prob_constant" json:"arrest_prob_constant"`
	CopWaitFor         int     `yaml:"cop_wait_for" json:"cop_wait_for"` // Steps a cop stands down after an arrest

	Movement bool  `yaml:"movement" json:"movement"`
	Wrap     bool  `yaml:"wrap" json:"wrap"`
	MaxIters int   `yaml:"max_iters" json:"max_iters"`
	Seed     int64 `yaml:"seed" json:"seed"`

	Layout        Layout        `yaml:"layout" json:"layout"`
	HardshipField HardshipField `yaml:"hardship_field" json:"hardship_field"`
}

// Default returns the standard parameter set.
func Default() Config {
	return Config{
		Height:             40,
		Width:              40,
		Density:            0.7,
		Ratio:              0.074,
		Barricades:         4,
		CitizenVision:      7,
		CopVision:          7,
		Legitimacy:         0.8,
		MaxJailTerm:        1000,
		JailCapacity:       50,
		ActiveThreshold:    0.1,
		ArrestProbConstant: 2.3,
		CopWaitFor:         40,
		Movement:           true,
		Wrap:               true,
		MaxIters:           1000,
		Seed:               42,
		Layout:             LayoutRandom,
		HardshipField:      HardshipUniform,
	}
}

// Validate reports every invalid parameter, joined into one error.
func (c Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if c.Height <= 0 || c.Width <= 0 {
		bad("grid must be at least 1x1, got %dx%d", c.Width, c.Height)
	}
	if !unit(c.Density) {
		bad("density must be in [0, 1], got %v", c.Density)
	}
	if !unit(c.Ratio) {
		bad("ratio must be in [0, 1], got %v", c.Ratio)
	}
	if c.Barricades < 0 {
		bad("barricades must be >= 0, got %d", c.Barricades)
	}
	if c.CitizenVision <= 0 {
		bad("citizen_vision must be > 0, got %d", c.CitizenVision)
	}
	if c.CopVision <= 0 {
		bad("cop_vision must be > 0, got %d", c.CopVision)
	}
	if !unit(c.Legitimacy) {
		bad("legitimacy must be in [0, 1], got %v", c.Legitimacy)
	}
	if c.MaxJailTerm < 0 {
		bad("max_jail_term must be >= 0, got %d", c.MaxJailTerm)
	}
	if c.JailCapacity < 0 {
		bad("jail_capacity must be >= 0, got %d", c.JailCapacity)
	}
	if math.IsNaN(c.ActiveThreshold) || math.IsInf(c.ActiveThreshold, 0) {
		bad("active_threshold must be finite, got %v", c.ActiveThreshold)
	}
	if math.IsNaN(c.ArrestProbConstant) || math.IsInf(c.ArrestProbConstant, 0) || c.ArrestProbConstant < 0 {
		bad("arrest_prob_constant must be finite and >= 0, got %v", c.ArrestProbConstant)
	}
	if c.CopWaitFor < 0 {
		bad("cop_wait_for must be >= 0, got %d", c.CopWaitFor)
	}
	if c.MaxIters < 0 {
		bad("max_iters must be >= 0, got %d", c.MaxIters)
	}
	switch c.Layout {
	case LayoutRandom, LayoutBlockMiddle, LayoutCopsMiddle, LayoutCopWall, LayoutStreet:
	default:
		bad("unknown layout %q", c.Layout)
	}
	switch c.HardshipField {
	case HardshipUniform, HardshipSimplex:
	default:
		bad("unknown hardship_field %q", c.HardshipField)
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("invalid config: %w", errors.Join(errs...))
}

func unit(v float64) bool {
	return v >= 0 && v <= 1
}
