package simulation

import (
	"github.com/nvandessel/heatwatch/internal/models"
	"github.com/nvandessel/heatwatch/internal/oracle"
	"github.com/nvandessel/heatwatch/internal/sim"
	"github.com/nvandessel/heatwatch/internal/vitals"
)

// WorkerSpec declares a worker to seed into the scenario's roster.
type WorkerSpec struct {
	Name string

	// RiskTier defaults to moderate.
	RiskTier string

	// Vitals, when non-nil, replaces the tier baseline. The override is
	// clamped against the scenario's bounds before seeding.
	Vitals *models.Vitals
}

// Scenario declares one harness run: a roster, an oracle script, and how
// far to drive the loop.
type Scenario struct {
	Name string

	Workers []WorkerSpec

	// Subject is the run target, by name. Defaults to the first worker.
	Subject string

	// Mode defaults to heat-up.
	Mode vitals.Mode

	// Script replaces the oracle's scripted outcomes. Empty means every
	// call succeeds with the mock's default prediction.
	Script []oracle.Outcome

	// Ticks drives exactly that many ticks. Zero means run until the
	// loop terminates on its own (capped by the harness).
	Ticks int

	// Config mutates the run configuration before the controller is
	// built. The harness always forces manual ticking.
	Config func(*sim.Config)
}

// RunResult captures everything a scenario run published.
type RunResult struct {
	// Updates holds every state update, in tick order.
	Updates []sim.Update

	// Terminal is the terminal event the run emitted, or nil if the run
	// was still active when driving stopped.
	Terminal *sim.Terminal

	// Errors holds every budget-exhaustion error, in emission order.
	Errors []*sim.BudgetError

	// Status is the controller status after the final driven tick,
	// captured before harness cleanup.
	Status sim.Status

	// Final is the subject reloaded from the roster store after the run,
	// reflecting what actually persisted.
	Final *models.Worker

	// Oracle is the scripted client, for call-count inspection.
	Oracle *oracle.MockClient
}

// LastUpdate returns the final published update, or a zero Update when
// nothing was published.
func (r RunResult) LastUpdate() sim.Update {
	if len(r.Updates) == 0 {
		return sim.Update{}
	}
	return r.Updates[len(r.Updates)-1]
}

// Steps returns the step count of the final published update.
func (r RunResult) Steps() int {
	return r.LastUpdate().Step
}
