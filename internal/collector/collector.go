// Package collector samples model and agent state after every step into an
// in-process SQLite store, so a run's history can be queried while it runs.
// Nothing is written to disk.
package collector

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/civil-violence/internal/agents"
	"github.com/talgya/civil-violence/internal/engine"
)

// ModelVars is one sample of the model-level reporters.
type ModelVars struct {
	RunID     string `db:"run_id" json:"run_id"`
	Step      int    `db:"step" json:"step"` // 0 is the initial state
	Iteration int    `db:"iteration" json:"iteration"`
	engine.Counts
}

// AgentVars is one sample of an agent's reporters. Fields a breed does not
// have are nil.
type AgentVars struct {
	RunID             string   `db:"run_id" json:"run_id"`
	Step              int      `db:"step" json:"step"`
	AgentID           uint64   `db:"agent_id" json:"agent_id"`
	X                 int      `db:"x" json:"x"`
	Y                 int      `db:"y" json:"y"`
	Breed             string   `db:"breed" json:"breed"`
	JailSentence      *int     `db:"jail_sentence" json:"jail_sentence"`
	Condition         *string  `db:"condition" json:"condition"`
	ArrestProbability *float64 `db:"arrest_probability" json:"arrest_probability"`
}

// Collector stores samples for a single run.
type Collector struct {
	db     *sqlx.DB
	runID  uuid.UUID
	sample int
}

// New opens an empty in-memory store tagged with a fresh run id.
func New() (*Collector, error) {
	conn, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	// Each connection to :memory: is a separate database; keep exactly one.
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(0)

	c := &Collector{db: conn, runID: uuid.New()}
	if err := c.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return c, nil
}

// RunID identifies the run the samples belong to.
func (c *Collector) RunID() uuid.UUID {
	return c.runID
}

// Close releases the store. All samples are lost.
func (c *Collector) Close() error {
	return c.db.Close()
}

func (c *Collector) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS model_vars (
		run_id TEXT NOT NULL,
		step INTEGER NOT NULL,
		iteration INTEGER NOT NULL,
		quiescent INTEGER NOT NULL,
		active INTEGER NOT NULL,
		deviant INTEGER NOT NULL,
		jailed INTEGER NOT NULL,
		arrests INTEGER NOT NULL,
		PRIMARY KEY (run_id, step)
	);

	CREATE TABLE IF NOT EXISTS agent_vars (
		run_id TEXT NOT NULL,
		step INTEGER NOT NULL,
		agent_id INTEGER NOT NULL,
		x INTEGER NOT NULL,
		y INTEGER NOT NULL,
		breed TEXT NOT NULL,
		jail_sentence INTEGER,
		condition TEXT,
		arrest_probability REAL,
		PRIMARY KEY (run_id, step, agent_id)
	);
	`
	_, err := c.db.Exec(schema)
	return err
}

// Collect records the model reporters and one row per scheduled agent.
func (c *Collector) Collect(m *engine.Model) error {
	tx, err := c.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	runID := c.runID.String()
	mv := ModelVars{
		RunID:     runID,
		Step:      c.sample,
		Iteration: m.Iteration(),
		Counts:    m.Counts(),
	}
	if _, err := tx.NamedExec(`INSERT INTO model_vars
		(run_id, step, iteration, quiescent, active, deviant, jailed, arrests)
		VALUES (:run_id, :step, :iteration, :quiescent, :active, :deviant, :jailed, :arrests)`, mv); err != nil {
		return fmt.Errorf("insert model vars: %w", err)
	}

	stmt, err := tx.Preparex(`INSERT INTO agent_vars
		(run_id, step, agent_id, x, y, breed, jail_sentence, condition, arrest_probability)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, a := range m.Scheduler().Agents() {
		av := agentVars(a)
		if _, err := stmt.Exec(
			runID, c.sample, av.AgentID, av.X, av.Y, av.Breed,
			av.JailSentence, av.Condition, av.ArrestProbability,
		); err != nil {
			return fmt.Errorf("insert agent %d: %w", av.AgentID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	slog.Debug("step collected", "run", runID, "step", c.sample, "agents", m.Scheduler().Len())
	c.sample++
	return nil
}

func agentVars(a agents.Agent) AgentVars {
	pos := a.Pos()
	av := AgentVars{
		AgentID: uint64(a.ID()),
		X:       pos.X,
		Y:       pos.Y,
		Breed:   a.Breed().String(),
	}
	if cit, ok := a.(*agents.Citizen); ok {
		sentence := cit.JailSentence
		cond := cit.Condition.String()
		prob := cit.ArrestProbability
		av.JailSentence = &sentence
		av.Condition = &cond
		av.ArrestProbability = &prob
	}
	return av
}

// Samples returns how many samples have been collected.
func (c *Collector) Samples() int {
	return c.sample
}

// ModelSeries returns every model sample of this run in step order.
func (c *Collector) ModelSeries() ([]ModelVars, error) {
	var out []ModelVars
	err := c.db.Select(&out,
		`SELECT run_id, step, iteration, quiescent, active, deviant, jailed, arrests
		FROM model_vars WHERE run_id = ? ORDER BY step`,
		c.runID.String(),
	)
	return out, err
}

// AgentRows returns the agent samples taken at step, ordered by agent id.
func (c *Collector) AgentRows(step int) ([]AgentVars, error) {
	var out []AgentVars
	err := c.db.Select(&out,
		`SELECT run_id, step, agent_id, x, y, breed, jail_sentence, condition, arrest_probability
		FROM agent_vars WHERE run_id = ? AND step = ? ORDER BY agent_id`,
		c.runID.String(), step,
	)
	return out, err
}

// ConditionCounts returns, for one step, how many citizen rows are in each
// condition. Jailed citizens are not scheduled and so never appear.
func (c *Collector) ConditionCounts(step int) (map[string]int, error) {
	var rows []struct {
		Condition string `db:"condition"`
		N         int    `db:"n"`
	}
	err := c.db.Select(&rows,
		`SELECT condition, COUNT(*) AS n FROM agent_vars
		WHERE run_id = ? AND step = ? AND condition IS NOT NULL
		GROUP BY condition`,
		c.runID.String(), step,
	)
	if err != nil {
		return nil, err
	}
	out := make(map[string]int, len(rows))
	for _, r := range rows {
		out[r.Condition] = r.N
	}
	return out, nil
}
