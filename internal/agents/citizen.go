// Citizen behaviour: grievance, estimated arrest risk, and the decision to rebel.
package agents

import (
	"math"

	"github.com/talgya/civil-violence/internal/entropy"
	"github.com/talgya/civil-violence/internal/grid"
)

// Citizen is a member of the population whose grievance may turn into rebellion.
type Citizen struct {
	base

	Hardship     float64 // 0.0–1.0, private
	Legitimacy   float64 // Perceived regime legitimacy, 0.0–1.0
	RiskAversion float64 // 0.0–1.0
	Threshold    float64 // Net risk above which the citizen rebels
	Vision       int     // Manhattan radius the citizen observes
	Aggression   float64 // 0.0–1.0, tips rebellion into deviance

	Condition         Condition
	JailSentence      int     // Remaining steps in jail; 0 when free
	ArrestProbability float64 // Last estimate, 0.0–1.0

	custody bool // Held in jail (possibly still on the grid until the model prunes it)
}

// CitizenTraits are the per-citizen parameters fixed at spawn.
type CitizenTraits struct {
	Hardship     float64
	Legitimacy   float64
	RiskAversion float64
	Threshold    float64
	Vision       int
	Aggression   float64
}

// NewCitizen creates a free, quiescent citizen at pos.
func NewCitizen(id AgentID, pos grid.Coord, t CitizenTraits) *Citizen {
	return &Citizen{
		base:         base{id: id, pos: pos},
		Hardship:     t.Hardship,
		Legitimacy:   t.Legitimacy,
		RiskAversion: t.RiskAversion,
		Threshold:    t.Threshold,
		Vision:       t.Vision,
		Aggression:   t.Aggression,
		Condition:    Quiescent,
	}
}

func (c *Citizen) Breed() Breed { return BreedCitizen }

// Jailed reports whether the citizen is serving a sentence.
func (c *Citizen) Jailed() bool {
	return c.JailSentence > 0
}

// InCustody reports whether the citizen is held by the jail, including
// arrests made this step with a zero sentence.
func (c *Citizen) InCustody() bool {
	return c.custody
}

// Grievance is hardship scaled by how illegitimate the regime is perceived to be.
func (c *Citizen) Grievance() float64 {
	return c.Hardship * (1 - c.Legitimacy)
}

// Step re-evaluates the citizen's condition and moves it if movement is on.
func (c *Citizen) Step(ctx *StepContext) {
	if c.Jailed() || c.custody {
		return
	}

	c.ArrestProbability = c.estimateArrestProbability(ctx)

	grievance := c.Grievance()
	net := grievance - c.RiskAversion*c.ArrestProbability
	switch {
	case net > c.Threshold && c.Aggression*grievance > c.Threshold:
		c.Condition = Deviant
	case net > c.Threshold:
		c.Condition = Active
	default:
		c.Condition = Quiescent
	}

	if ctx.Params.Movement {
		if dst, ok := entropy.Pick(ctx.Rand, ctx.Grid.EmptyNeighbors(c.pos)); ok {
			moveAgent(ctx, c, dst)
		}
	}
}

// estimateArrestProbability counts cops and free rebels within vision. The
// citizen counts itself as a rebel, so the ratio never divides by zero and
// is 0 when no cop is in sight. Halves round to even, so one cop facing two
// rebels estimates no risk.
func (c *Citizen) estimateArrestProbability(ctx *StepContext) float64 {
	cops := 0
	rebels := 1
	cells := ctx.Grid.Neighborhood(c.pos, c.Vision, false)
	for _, a := range ctx.Grid.Occupants(cells) {
		switch other := a.(type) {
		case *Cop:
			cops++
		case *Citizen:
			if !other.custody && other.Condition.Rebelling() {
				rebels++
			}
		}
	}
	ratio := math.RoundToEven(float64(cops) / float64(rebels))
	return 1 - math.Exp(-ctx.Params.ArrestProbConstant*ratio)
}
