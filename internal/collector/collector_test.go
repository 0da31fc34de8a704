package collector

import (
	"testing"

	"github.com/talgya/civil-violence/internal/config"
	"github.com/talgya/civil-violence/internal/engine"
)

func newRun(t *testing.T, steps int) (*Collector, *engine.Model) {
	t.Helper()
	col, err := New()
	if err != nil {
		t.Fatalf("new collector: %v", err)
	}
	t.Cleanup(func() { col.Close() })

	cfg := config.Default()
	cfg.Width, cfg.Height = 12, 12
	cfg.Legitimacy = 0.2
	cfg.MaxIters = 50
	cfg.Seed = 4
	m, err := engine.NewModel(cfg, col)
	if err != nil {
		t.Fatalf("new model: %v", err)
	}
	for i := 0; i < steps; i++ {
		m.Step()
	}
	return col, m
}

func TestCollectsInitialStateAndEachStep(t *testing.T) {
	col, m := newRun(t, 3)

	series, err := col.ModelSeries()
	if err != nil {
		t.Fatalf("model series: %v", err)
	}
	if len(series) != 4 || col.Samples() != 4 {
		t.Fatalf("%d samples (%d counted), want 4", len(series), col.Samples())
	}
	for i, mv := range series {
		if mv.Step != i {
			t.Fatalf("sample %d has step %d", i, mv.Step)
		}
		if mv.RunID != col.RunID().String() {
			t.Fatalf("sample %d run id %q", i, mv.RunID)
		}
	}
	if last := series[len(series)-1]; last.Counts != m.Counts() {
		t.Fatalf("last sample %+v, model reports %+v", last.Counts, m.Counts())
	}
}

func TestAgentRowsCarryBreedFields(t *testing.T) {
	col, m := newRun(t, 0)

	rows, err := col.AgentRows(0)
	if err != nil {
		t.Fatalf("agent rows: %v", err)
	}
	if len(rows) != m.Scheduler().Len() {
		t.Fatalf("%d rows for %d agents", len(rows), m.Scheduler().Len())
	}

	citizens := 0
	for _, r := range rows {
		switch r.Breed {
		case "citizen":
			citizens++
			if r.Condition == nil || r.JailSentence == nil || r.ArrestProbability == nil {
				t.Fatalf("citizen row %d missing fields: %+v", r.AgentID, r)
			}
		case "cop", "block":
			if r.Condition != nil || r.JailSentence != nil || r.ArrestProbability != nil {
				t.Fatalf("%s row %d has citizen fields", r.Breed, r.AgentID)
			}
		default:
			t.Fatalf("unexpected breed %q", r.Breed)
		}
	}

	conds, err := col.ConditionCounts(0)
	if err != nil {
		t.Fatalf("condition counts: %v", err)
	}
	total := 0
	for _, n := range conds {
		total += n
	}
	if total != citizens {
		t.Fatalf("condition counts %v sum to %d, want %d citizens", conds, total, citizens)
	}
}

func TestRunsAreIsolated(t *testing.T) {
	a, _ := newRun(t, 1)
	b, _ := newRun(t, 2)
	if a.RunID() == b.RunID() {
		t.Fatal("two collectors share a run id")
	}
	sa, _ := a.ModelSeries()
	sb, _ := b.ModelSeries()
	if len(sa) != 2 || len(sb) != 3 {
		t.Fatalf("series lengths %d and %d, want 2 and 3", len(sa), len(sb))
	}
}
