// Package agents provides the three agent variants of the civil violence model
// (barricade blocks, citizens and cops), the jail, and the initial spawner.
package agents

import (
	"github.com/talgya/civil-violence/internal/entropy"
	"github.com/talgya/civil-violence/internal/grid"
)

// AgentID is a unique identifier for an agent.
type AgentID uint64

// Breed is the role tag of an agent.
type Breed uint8

const (
	BreedBlock Breed = iota
	BreedCitizen
	BreedCop
)

func (b Breed) String() string {
	switch b {
	case BreedBlock:
		return "block"
	case BreedCitizen:
		return "citizen"
	case BreedCop:
		return "cop"
	default:
		return "unknown"
	}
}

// Condition is a citizen's behavioural state.
type Condition uint8

const (
	Quiescent Condition = iota // Compliant
	Active                     // Openly rebelling
	Deviant                    // Rebelling and aggressive; arrested first
)

func (c Condition) String() string {
	switch c {
	case Quiescent:
		return "Quiescent"
	case Active:
		return "Active"
	case Deviant:
		return "Deviant"
	default:
		return "Unknown"
	}
}

// Rebelling reports whether the condition is Active or Deviant.
func (c Condition) Rebelling() bool {
	return c == Active || c == Deviant
}

// Agent is implemented by *Block, *Citizen and *Cop only.
type Agent interface {
	ID() AgentID
	Pos() grid.Coord
	SetPos(grid.Coord)
	Breed() Breed
	Step(ctx *StepContext)
}

// Grid is the cell grid agents live on.
type Grid = grid.Grid[Agent]

// Params are the model-wide values agents read while stepping.
type Params struct {
	ArrestProbConstant float64
	MaxJailTerm        int
	Movement           bool
}

// StepContext is the simulation state handed to each agent when it acts.
type StepContext struct {
	Grid      *Grid
	Rand      *entropy.Source
	Jail      *Jail
	Params    Params
	Iteration int
}

type base struct {
	id  AgentID
	pos grid.Coord
}

func (b *base) ID() AgentID { return b.id }
func (b *base) Pos() grid.Coord { return b.pos }
func (b *base) SetPos(p grid.Coord) { b.pos = p }

// Block is an immobile barricade. It never acts and is never removed.
type Block struct {
	base
}

// NewBlock creates a barricade at pos.
func NewBlock(id AgentID, pos grid.Coord) *Block {
	return &Block{base: base{id: id, pos: pos}}
}

func (b *Block) Breed() Breed { return BreedBlock }
func (b *Block) Step(ctx *StepContext) {}

// moveAgent relocates a to dst if dst is empty, keeping the agent's own
// position in sync with the grid.
func moveAgent(ctx *StepContext, a Agent, dst grid.Coord) bool {
	pos, err := ctx.Grid.Move(a, a.Pos(), dst)
	if err != nil {
		return false
	}
	a.SetPos(pos)
	return true
}
