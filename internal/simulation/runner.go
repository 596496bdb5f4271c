package simulation

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/nvandessel/heatwatch/internal/oracle"
	"github.com/nvandessel/heatwatch/internal/roster"
	"github.com/nvandessel/heatwatch/internal/sim"
	"github.com/nvandessel/heatwatch/internal/vitals"
)

// maxAutoTicks caps run-to-terminal scenarios so a broken termination
// policy fails the test instead of spinning forever.
const maxAutoTicks = 500

// Runner executes scenarios against a real roster store and controller.
type Runner struct {
	t     *testing.T
	store *roster.Store
	gen   *roster.Generator
}

// NewRunner creates a runner with an isolated SQLite roster under
// t.TempDir(). The store is closed automatically when the test ends.
func NewRunner(t *testing.T) *Runner {
	t.Helper()

	store, err := roster.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewRunner: open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return &Runner{
		t:     t,
		store: store,
		gen:   roster.NewGeneratorWithSeed(vitals.DefaultBounds(), 1),
	}
}

// capture accumulates controller callbacks for one scenario run.
type capture struct {
	mu       sync.Mutex
	updates  []sim.Update
	terminal *sim.Terminal
	errs     []*sim.BudgetError
}

func (c *capture) attach(ctrl *sim.Controller) {
	ctrl.OnUpdate(func(u sim.Update) {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.updates = append(c.updates, u)
	})
	ctrl.OnTerminal(func(term sim.Terminal) {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.terminal == nil {
			c.terminal = &term
		}
	})
	ctrl.OnError(func(e *sim.BudgetError) {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.errs = append(c.errs, e)
	})
}

// Run seeds the scenario's workers, starts a run, drives ticks, and
// returns everything the loop published. The controller ticks only when
// the harness calls for it, so results are deterministic.
func (r *Runner) Run(scenario Scenario) RunResult {
	r.t.Helper()
	ctx := context.Background()

	cfg := sim.DefaultConfig()
	if scenario.Config != nil {
		scenario.Config(&cfg)
	}
	cfg.TickInterval = time.Hour

	if len(scenario.Workers) == 0 {
		r.t.Fatalf("scenario %q: no workers", scenario.Name)
	}
	for _, spec := range scenario.Workers {
		tier := spec.RiskTier
		if tier == "" {
			tier = roster.TierModerate
		}
		w := r.gen.NewWorker(spec.Name, tier)
		if spec.Vitals != nil {
			w.Vitals = cfg.Bounds.Clamp(*spec.Vitals)
		}
		if err := r.store.Add(ctx, w); err != nil {
			r.t.Fatalf("scenario %q: seed worker %q: %v", scenario.Name, spec.Name, err)
		}
	}

	subject := scenario.Subject
	if subject == "" {
		subject = scenario.Workers[0].Name
	}
	mode := scenario.Mode
	if mode == "" {
		mode = vitals.ModeHeatUp
	}

	mock := oracle.NewMockClient()
	if len(scenario.Script) > 0 {
		mock.WithScript(scenario.Script...)
	}

	ctrl := sim.NewController(cfg, r.store, r.gen, mock, slog.New(slog.DiscardHandler))
	rec := &capture{}
	rec.attach(ctrl)

	if err := ctrl.Start(ctx, subject, mode); err != nil {
		r.t.Fatalf("scenario %q: Start(%q, %s): %v", scenario.Name, subject, mode, err)
	}

	if scenario.Ticks > 0 {
		for i := 0; i < scenario.Ticks; i++ {
			ctrl.Tick(ctx)
		}
	} else {
		for i := 0; i < maxAutoTicks; i++ {
			ctrl.Tick(ctx)
			rec.mu.Lock()
			done := rec.terminal != nil
			rec.mu.Unlock()
			if done {
				break
			}
		}
		rec.mu.Lock()
		done := rec.terminal != nil
		rec.mu.Unlock()
		if !done {
			r.t.Fatalf("scenario %q: no terminal after %d ticks", scenario.Name, maxAutoTicks)
		}
	}

	status := ctrl.Status()

	rec.mu.Lock()
	result := RunResult{
		Updates:  append([]sim.Update(nil), rec.updates...),
		Terminal: rec.terminal,
		Errors:   append([]*sim.BudgetError(nil), rec.errs...),
		Status:   status,
		Oracle:   mock,
	}
	rec.mu.Unlock()

	ctrl.Stop(sim.ReasonStopped)

	final, err := r.store.FindByIdentity(ctx, subject)
	if err != nil {
		r.t.Fatalf("scenario %q: reload subject: %v", scenario.Name, err)
	}
	result.Final = final

	return result
}
