// Package engine runs the civil violence model: the model state, the random
// activation scheduler, jail bookkeeping and the step loop.
package engine

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/talgya/civil-violence/internal/agents"
	"github.com/talgya/civil-violence/internal/config"
	"github.com/talgya/civil-violence/internal/entropy"
	"github.com/talgya/civil-violence/internal/grid"
)

// Collector samples model state. It is called once at construction and once
// after every step.
type Collector interface {
	Collect(m *Model) error
}

// Counts are the model-level aggregates reported after each step.
type Counts struct {
	Quiescent int `json:"quiescent" db:"quiescent"`
	Active    int `json:"active" db:"active"`
	Deviant   int `json:"deviant" db:"deviant"`
	Jailed    int `json:"jailed" db:"jailed"`
	Arrests   int `json:"arrests" db:"arrests"` // Total since the run began
}

// Model owns the grid, scheduler, jail and the single random source.
type Model struct {
	cfg       config.Config
	grid      *agents.Grid
	schedule  *Scheduler
	jail      *agents.Jail
	rng       *entropy.Source
	collector Collector

	iteration int
	running   bool
}

// NewModel validates cfg, spawns the population and collects the initial
// state. collector may be nil.
func NewModel(cfg config.Config, collector Collector) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := &Model{
		cfg:       cfg,
		grid:      grid.New[agents.Agent](cfg.Width, cfg.Height, cfg.Wrap),
		schedule:  NewScheduler(),
		jail:      agents.NewJail(cfg.JailCapacity),
		rng:       entropy.New(cfg.Seed),
		collector: collector,
		running:   true,
	}

	created, err := agents.NewSpawner(cfg, m.rng).Populate(m.grid)
	if err != nil {
		return nil, fmt.Errorf("spawn: %w", err)
	}
	for _, a := range created {
		m.schedule.Add(a)
	}

	slog.Info("model initialized",
		"width", cfg.Width,
		"height", cfg.Height,
		"agents", m.schedule.Len(),
		"seed", cfg.Seed,
		"max_iters", cfg.MaxIters,
	)

	m.collect()
	return m, nil
}

func (m *Model) Config() config.Config { return m.cfg }
func (m *Model) Grid() *agents.Grid { return m.grid }
func (m *Model) Scheduler() *Scheduler { return m.schedule }
func (m *Model) Jail() *agents.Jail { return m.jail }
func (m *Model) Iteration() int { return m.iteration }
func (m *Model) Running() bool { return m.running }

// Step advances the model by one step. It does nothing once the run has ended.
func (m *Model) Step() {
	if !m.running {
		return
	}

	m.schedule.Step(&agents.StepContext{
		Grid: m.grid,
		Rand: m.rng,
		Jail: m.jail,
		Params: agents.Params{
			ArrestProbConstant: m.cfg.ArrestProbConstant,
			MaxJailTerm:        m.cfg.MaxJailTerm,
			Movement:           m.cfg.Movement,
		},
		Iteration: m.iteration,
	})
	m.processJail()
	m.collect()

	m.iteration++
	if m.iteration > m.cfg.MaxIters {
		m.running = false
		slog.Info("run finished", "iteration", m.iteration, "arrests", m.jail.Arrests())
	}
}

// processJail takes this step's arrestees off the grid, counts down sentences
// of inmates already held, and releases inmates whose sentence is served.
//
// An arrestee keeps its full sentence for the step it was arrested in, so a
// sentence of n keeps the citizen off the grid for n steps. A zero sentence is
// released in the same step without leaving the grid.
func (m *Model) processJail() {
	for _, c := range m.jail.Inmates() {
		if m.grid.Get(c.Pos()) == agents.Agent(c) {
			if c.JailSentence > 0 {
				m.detain(c)
			}
			continue
		}
		if c.JailSentence > 0 {
			c.JailSentence--
		}
	}

	freed := m.jail.Release(func(c *agents.Citizen) bool {
		return c.JailSentence == 0 && m.returnToGrid(c)
	})
	for _, c := range freed {
		m.schedule.Add(c)
	}
	if len(freed) > 0 {
		slog.Debug("inmates released", "iteration", m.iteration, "count", len(freed), "held", m.jail.Len())
	}
}

// detain removes c from the grid and the scheduler. Either may already be
// missing it; that is not an error.
func (m *Model) detain(c *agents.Citizen) {
	if err := m.grid.Remove(c, c.Pos()); err != nil && !errors.Is(err, grid.ErrNotFound) {
		slog.Warn("detain: grid removal failed", "citizen", c.ID(), "error", err)
	}
	m.schedule.Remove(c.ID())
}

// returnToGrid puts a released citizen back on its last cell, or on a random
// empty cell when that one is taken. It reports false when the grid is full.
func (m *Model) returnToGrid(c *agents.Citizen) bool {
	if m.grid.Get(c.Pos()) == agents.Agent(c) {
		return true
	}
	if m.grid.IsEmpty(c.Pos()) {
		return m.grid.Place(c, c.Pos()) == nil
	}
	dst, ok := entropy.Pick(m.rng, m.grid.EmptyCells())
	if !ok {
		return false
	}
	if err := m.grid.Place(c, dst); err != nil {
		return false
	}
	c.SetPos(dst)
	return true
}

// Counts tallies free citizens by condition and jailed citizens. Jailed
// citizens are never counted as Quiescent, Active or Deviant.
func (m *Model) Counts() Counts {
	var n Counts
	for _, a := range m.schedule.Agents() {
		c, ok := a.(*agents.Citizen)
		if !ok || c.Jailed() || c.InCustody() {
			continue
		}
		switch c.Condition {
		case agents.Quiescent:
			n.Quiescent++
		case agents.Active:
			n.Active++
		case agents.Deviant:
			n.Deviant++
		}
	}
	for _, c := range m.jail.Inmates() {
		if c.Jailed() {
			n.Jailed++
		}
	}
	n.Arrests = m.jail.Arrests()
	return n
}

// BreedCounts returns how many registered agents there are of each breed.
func (m *Model) BreedCounts() map[agents.Breed]int {
	out := make(map[agents.Breed]int, 3)
	for _, a := range m.schedule.Agents() {
		out[a.Breed()]++
	}
	return out
}

func (m *Model) collect() {
	if m.collector == nil {
		return
	}
	if err := m.collector.Collect(m); err != nil {
		slog.Warn("data collection failed", "iteration", m.iteration, "error", err)
	}
}
