// Cop behaviour: arrests in the immediate neighbourhood and pursuit of rebels.
package agents

import (
	"github.com/talgya/civil-violence/internal/entropy"
	"github.com/talgya/civil-violence/internal/grid"
)

// Cop enforces order. It never defects.
type Cop struct {
	base

	Vision       int  // Manhattan radius searched for rebels to pursue
	CanArrest    bool // Ready to arrest Active citizens; cleared by an arrest
	ArrestedStep int  // Iteration of the last arrest
	WaitFor      int  // Steps to stand down after an arrest
}

// NewCop creates a cop at pos, ready to arrest.
func NewCop(id AgentID, pos grid.Coord, vision, waitFor int) *Cop {
	return &Cop{
		base:      base{id: id, pos: pos},
		Vision:    vision,
		CanArrest: true,
		WaitFor:   waitFor,
	}
}

func (c *Cop) Breed() Breed { return BreedCop }

// Step inspects the 4-neighbourhood, arrests at most one citizen, refreshes
// the stand-down timer and moves.
//
// Deviants are arrested whenever the jail has room. Active citizens are only
// arrested by a cop that is ready and backed by more than one adjacent cop.
func (c *Cop) Step(ctx *StepContext) {
	var actives, deviants []*Citizen
	backup := 0
	for _, a := range ctx.Grid.Occupants(ctx.Grid.Neighborhood(c.pos, 1, false)) {
		switch other := a.(type) {
		case *Citizen:
			if other.custody || other.Jailed() {
				continue
			}
			switch other.Condition {
			case Active:
				actives = append(actives, other)
			case Deviant:
				deviants = append(deviants, other)
			}
		case *Cop:
			backup++
		}
	}

	switch {
	case len(deviants) > 0 && ctx.Jail.HasRoom():
		arrestee, _ := entropy.Pick(ctx.Rand, deviants)
		c.arrest(ctx, arrestee)
	case len(actives) > 0 && ctx.Jail.HasRoom() && c.CanArrest && backup > 1:
		arrestee, _ := entropy.Pick(ctx.Rand, actives)
		c.arrest(ctx, arrestee)
	}

	if !c.CanArrest && ctx.Iteration-c.ArrestedStep > c.WaitFor {
		c.CanArrest = true
	}

	if ctx.Params.Movement {
		c.move(ctx)
	}
}

func (c *Cop) arrest(ctx *StepContext, target *Citizen) {
	sentence := ctx.Rand.IntRange(0, ctx.Params.MaxJailTerm)
	if !ctx.Jail.Admit(target, sentence) {
		return
	}
	c.CanArrest = false
	c.ArrestedStep = ctx.Iteration
}

func (c *Cop) move(ctx *StepContext) {
	empty := ctx.Grid.EmptyNeighbors(c.pos)
	if len(empty) == 0 {
		return
	}
	if dst, ok := c.pursue(ctx); ok {
		moveAgent(ctx, c, dst)
		return
	}
	dst, _ := entropy.Pick(ctx.Rand, empty)
	moveAgent(ctx, c, dst)
}

// pursue picks the nearest visible Deviant, or failing that the nearest
// Active citizen, and returns an empty adjacent cell one axis step closer.
func (c *Cop) pursue(ctx *StepContext) (grid.Coord, bool) {
	var deviants, actives []grid.Coord
	for _, cell := range ctx.Grid.Neighborhood(c.pos, c.Vision, false) {
		cit, ok := ctx.Grid.Get(cell).(*Citizen)
		if !ok || cit.custody {
			continue
		}
		switch cit.Condition {
		case Deviant:
			deviants = append(deviants, cell)
		case Active:
			actives = append(actives, cell)
		}
	}

	targets := deviants
	if len(targets) == 0 {
		targets = actives
	}
	target, ok := entropy.Pick(ctx.Rand, c.nearest(ctx.Grid, targets))
	if !ok {
		return grid.Coord{}, false
	}

	dx, dy := ctx.Grid.Delta(c.pos, target)
	var steps []grid.Coord
	if dx != 0 {
		steps = append(steps, grid.Coord{X: c.pos.X + sign(dx), Y: c.pos.Y})
	}
	if dy != 0 {
		steps = append(steps, grid.Coord{X: c.pos.X, Y: c.pos.Y + sign(dy)})
	}

	viable := steps[:0]
	for _, s := range steps {
		if ctx.Grid.IsEmpty(s) {
			viable = append(viable, s)
		}
	}
	return entropy.Pick(ctx.Rand, viable)
}

// nearest returns the cells at the smallest Manhattan distance from the cop.
func (c *Cop) nearest(g *Grid, cells []grid.Coord) []grid.Coord {
	best := -1
	var out []grid.Coord
	for _, cell := range cells {
		dx, dy := g.Delta(c.pos, cell)
		d := abs(dx) + abs(dy)
		switch {
		case best < 0 || d < best:
			best = d
			out = append(out[:0], cell)
		case d == best:
			out = append(out, cell)
		}
	}
	return out
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
