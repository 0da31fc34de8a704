package engine

import (
	"github.com/talgya/civil-violence/internal/agents"
)

// Scheduler activates every registered agent once per step in a random order.
type Scheduler struct {
	agents []agents.Agent
	index  map[agents.AgentID]int
}

// NewScheduler creates an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{index: make(map[agents.AgentID]int)}
}

// Add registers a. Registering an id twice is ignored.
func (s *Scheduler) Add(a agents.Agent) {
	if _, ok := s.index[a.ID()]; ok {
		return
	}
	s.index[a.ID()] = len(s.agents)
	s.agents = append(s.agents, a)
}

// Remove unregisters the agent with the given id. It reports false when the
// id was not registered.
func (s *Scheduler) Remove(id agents.AgentID) bool {
	i, ok := s.index[id]
	if !ok {
		return false
	}
	delete(s.index, id)
	copy(s.agents[i:], s.agents[i+1:])
	s.agents[len(s.agents)-1] = nil
	s.agents = s.agents[:len(s.agents)-1]
	for j := i; j < len(s.agents); j++ {
		s.index[s.agents[j].ID()] = j
	}
	return true
}

// Agents returns the registered agents in registration order. The slice is
// shared; callers must not modify it.
func (s *Scheduler) Agents() []agents.Agent {
	return s.agents
}

// Len returns the number of registered agents.
func (s *Scheduler) Len() int {
	return len(s.agents)
}

// Step shuffles the activation order with ctx.Rand and steps each agent once.
func (s *Scheduler) Step(ctx *agents.StepContext) {
	order := make([]agents.Agent, len(s.agents))
	copy(order, s.agents)
	ctx.Rand.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
	for _, a := range order {
		a.Step(ctx)
	}
}
