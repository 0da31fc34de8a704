package engine

import (
	"testing"

	"github.com/talgya/civil-violence/internal/agents"
	"github.com/talgya/civil-violence/internal/entropy"
	"github.com/talgya/civil-violence/internal/grid"
)

type probe struct {
	id    agents.AgentID
	calls *[]agents.AgentID
}

func (p *probe) ID() agents.AgentID { return p.id }
func (p *probe) Pos() grid.Coord { return grid.Coord{} }
func (p *probe) SetPos(grid.Coord) {}
func (p *probe) Breed() agents.Breed { return agents.BreedBlock }
func (p *probe) Step(ctx *agents.StepContext) { *p.calls = append(*p.calls, p.id) }

func TestSchedulerActivatesEachOnce(t *testing.T) {
	var calls []agents.AgentID
	s := NewScheduler()
	for i := 0; i < 20; i++ {
		s.Add(&probe{id: agents.AgentID(i), calls: &calls})
	}

	s.Step(&agents.StepContext{Rand: entropy.New(3)})
	if len(calls) != 20 {
		t.Fatalf("%d activations, want 20", len(calls))
	}
	seen := map[agents.AgentID]bool{}
	inOrder := true
	for i, id := range calls {
		if seen[id] {
			t.Fatalf("agent %d activated twice", id)
		}
		seen[id] = true
		if id != agents.AgentID(i) {
			inOrder = false
		}
	}
	if inOrder {
		t.Fatal("activation order was not shuffled")
	}
}

func TestSchedulerAddRemove(t *testing.T) {
	var calls []agents.AgentID
	s := NewScheduler()
	a := &probe{id: 1, calls: &calls}
	b := &probe{id: 2, calls: &calls}
	c := &probe{id: 3, calls: &calls}
	s.Add(a)
	s.Add(b)
	s.Add(c)
	s.Add(b)
	if s.Len() != 3 {
		t.Fatalf("len %d after duplicate add, want 3", s.Len())
	}

	if !s.Remove(2) {
		t.Fatal("remove registered agent reported false")
	}
	if s.Remove(2) {
		t.Fatal("remove of absent agent reported true")
	}
	got := s.Agents()
	if len(got) != 2 || got[0] != agents.Agent(a) || got[1] != agents.Agent(c) {
		t.Fatalf("agents after remove: %v", got)
	}

	// The index must follow the shifted slice.
	if !s.Remove(3) || s.Len() != 1 {
		t.Fatal("remove after shift failed")
	}
}
