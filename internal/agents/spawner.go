// Agent spawning: fills the grid with citizens, cops and barricades at model
// start using a weighted draw per cell, optionally overlaid with a fixed layout.
package agents

import (
	"fmt"
	"log/slog"

	"github.com/talgya/civil-violence/internal/config"
	"github.com/talgya/civil-violence/internal/entropy"
	"github.com/talgya/civil-violence/internal/grid"
)

// cell contents drawn by the spawner, in weight order.
const (
	spawnEmpty = iota
	spawnCitizen
	spawnCop
	spawnBlock
)

// Spawner creates the initial population.
type Spawner struct {
	cfg      config.Config
	rng      *entropy.Source
	hardship *grid.Field
	nextID   AgentID
}

// NewSpawner creates a spawner drawing from rng.
func NewSpawner(cfg config.Config, rng *entropy.Source) *Spawner {
	s := &Spawner{cfg: cfg, rng: rng}
	if cfg.HardshipField == config.HardshipSimplex {
		s.hardship = grid.NoiseField(cfg.Width, cfg.Height, rng.Int63())
	}
	return s
}

// Weights returns the per-cell draw weights for {empty, citizen, cop, block}:
// target counts divided by the total cell count.
func (s *Spawner) Weights() [4]float64 {
	total := float64(s.cfg.Width * s.cfg.Height)
	occupied := total * s.cfg.Density
	citizens := occupied * s.cfg.Ratio
	cops := occupied - citizens
	return [4]float64{
		spawnEmpty:   (total - occupied) / total,
		spawnCitizen: citizens / total,
		spawnCop:     cops / total,
		spawnBlock:   float64(s.cfg.Barricades) / total,
	}
}

// Populate fills g cell by cell in row-major order and returns the created
// agents in id order. Ids are sequential from 0.
func (s *Spawner) Populate(g *Grid) ([]Agent, error) {
	weights := s.Weights()
	var created []Agent
	counts := [4]int{}

	for y := 0; y < s.cfg.Height; y++ {
		for x := 0; x < s.cfg.Width; x++ {
			pos := grid.Coord{X: x, Y: y}
			kind, fixed := s.layoutAt(pos)
			if !fixed {
				kind = s.rng.WeightedIndex(weights[:])
			}

			var a Agent
			switch kind {
			case spawnCitizen:
				a = s.citizen(pos)
			case spawnCop:
				a = NewCop(s.takeID(), pos, s.cfg.CopVision, s.cfg.CopWaitFor)
			case spawnBlock:
				a = NewBlock(s.takeID(), pos)
			default:
				counts[spawnEmpty]++
				continue
			}
			if err := g.Place(a, pos); err != nil {
				return nil, fmt.Errorf("spawn %s at %s: %w", a.Breed(), pos, err)
			}
			counts[kind]++
			created = append(created, a)
		}
	}

	slog.Debug("population spawned",
		"layout", s.cfg.Layout,
		"citizens", counts[spawnCitizen],
		"cops", counts[spawnCop],
		"blocks", counts[spawnBlock],
		"empty", counts[spawnEmpty],
	)
	return created, nil
}

func (s *Spawner) takeID() AgentID {
	id := s.nextID
	s.nextID++
	return id
}

func (s *Spawner) citizen(pos grid.Coord) *Citizen {
	id := s.takeID()
	hardship := s.rng.Float()
	if s.hardship != nil {
		hardship = s.hardship.At(pos)
	}
	return NewCitizen(id, pos, CitizenTraits{
		Hardship:     hardship,
		Legitimacy:   s.cfg.Legitimacy,
		RiskAversion: s.rng.Float(),
		Threshold:    s.cfg.ActiveThreshold,
		Vision:       s.cfg.CitizenVision,
		Aggression:   s.rng.Float(),
	})
}

// layoutAt returns the fixed contents of pos under the configured layout.
// fixed is false for cells left to the random draw.
func (s *Spawner) layoutAt(pos grid.Coord) (kind int, fixed bool) {
	w, h := s.cfg.Width, s.cfg.Height
	cx, cy := w/2, h/2
	half := min(w, h) / 8

	inCentre := abs(pos.X-cx) <= half && abs(pos.Y-cy) <= half

	switch s.cfg.Layout {
	case config.LayoutBlockMiddle:
		if inCentre {
			return spawnBlock, true
		}
	case config.LayoutCopsMiddle:
		if inCentre {
			return spawnCop, true
		}
	case config.LayoutCopWall:
		if pos.X == cx {
			return spawnCop, true
		}
	case config.LayoutStreet:
		gap := max(h/8, 1)
		if pos.Y == cy-gap-1 || pos.Y == cy+gap+1 {
			return spawnBlock, true
		}
	}
	return spawnEmpty, false
}
