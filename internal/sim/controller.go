// Package sim implements the stepwise heat-stress simulation loop.
//
// A Controller owns at most one run at a time. Each run drives a single
// worker's environmental and HRV state toward the target regime on a
// periodic tick, calls the risk oracle with every candidate snapshot,
// merges the result back into shared state, and decides per tick whether
// to continue, degrade, or terminate. Oracle failures are tolerated up to
// two budgets (consecutive and total); runs never exceed the step ceiling.
package sim

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nvandessel/heatwatch/internal/logging"
	"github.com/nvandessel/heatwatch/internal/models"
	"github.com/nvandessel/heatwatch/internal/oracle"
	"github.com/nvandessel/heatwatch/internal/vitals"
)

// DefaultTickInterval is the default cadence between ticks, chosen to
// keep dashboard updates visually smooth.
const DefaultTickInterval = 500 * time.Millisecond

const (
	// DefaultMaxConsecutiveFailures stops a run after this many oracle
	// failures in a row.
	DefaultMaxConsecutiveFailures = 3
	// DefaultMaxTotalFailures stops a run after this many oracle
	// failures overall, consecutive or not.
	DefaultMaxTotalFailures = 10
)

// Config controls run cadence, budgets, and physiological bounds.
type Config struct {
	TickInterval           time.Duration
	StepCeiling            int
	MaxConsecutiveFailures int
	MaxTotalFailures       int
	Bounds                 vitals.Bounds
}

// DefaultConfig returns the standard simulation configuration.
func DefaultConfig() Config {
	return Config{
		TickInterval:           DefaultTickInterval,
		StepCeiling:            vitals.DefaultStepCeiling,
		MaxConsecutiveFailures: DefaultMaxConsecutiveFailures,
		MaxTotalFailures:       DefaultMaxTotalFailures,
		Bounds:                 vitals.DefaultBounds(),
	}
}

// SubjectResolver resolves workers by id or name and persists the fields
// the loop merges back after each tick. *roster.Store satisfies it.
type SubjectResolver interface {
	FindByIdentity(ctx context.Context, idOrName string) (*models.Worker, error)
	Update(ctx context.Context, w models.Worker) error
}

// BaselineSeeder generates fresh baseline vitals for a risk tier.
// *roster.Generator satisfies it.
type BaselineSeeder interface {
	Baseline(riskTier string) models.Vitals
}

// runState is the private control-plane record for one run. It lives from
// Start to the first stop condition and is owned by the controller mutex.
type runState struct {
	mode        vitals.Mode
	subjectID   string
	subjectName string

	step                int
	totalFailures       int
	consecutiveFailures int
	lastFailure         error

	// Environmental values captured at run start, kept for observability.
	baselineTemperature float64
	baselineHumidity    float64

	// Last merged subject snapshot, so ticks avoid re-resolving identity.
	cached *models.Worker

	// inFlight suppresses timer fires while a tick is awaiting the
	// oracle. Single-flight is enforced here, not by assuming the tick
	// interval exceeds oracle latency.
	inFlight bool

	ticker *time.Ticker
	done   chan struct{}
}

// Controller schedules and executes simulation runs. All mutable state is
// guarded by mu; callbacks are invoked outside the lock and must be
// configured before the first Start.
type Controller struct {
	mu  sync.Mutex
	cfg Config

	resolver SubjectResolver
	seeder   BaselineSeeder
	oracle   oracle.Client

	logger *slog.Logger
	ticks  *logging.TickLogger

	onUpdate   func(Update)
	onTerminal func(Terminal)
	onError    func(*BudgetError)

	run *runState
}

// NewController creates a controller. logger may be nil.
func NewController(cfg Config, resolver SubjectResolver, seeder BaselineSeeder, oc oracle.Client, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Controller{
		cfg:      cfg,
		resolver: resolver,
		seeder:   seeder,
		oracle:   oc,
		logger:   logger,
	}
}

// SetTickLogger attaches an optional per-tick JSONL trace logger.
func (c *Controller) SetTickLogger(tl *logging.TickLogger) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ticks = tl
}

// OnUpdate registers the per-tick observer callback.
func (c *Controller) OnUpdate(fn func(Update)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUpdate = fn
}

// OnTerminal registers the terminal-transition callback.
func (c *Controller) OnTerminal(fn func(Terminal)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onTerminal = fn
}

// OnError registers the budget-exhaustion callback.
func (c *Controller) OnError(fn func(*BudgetError)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onError = fn
}

// Start begins a run for the given subject in the given mode. Any active
// run is torn down synchronously first, so no two timers ever target the
// same subject. If the subject cannot be resolved the controller stays
// idle and an error is returned.
func (c *Controller) Start(ctx context.Context, idOrName string, mode vitals.Mode) error {
	if !mode.Valid() {
		return fmt.Errorf("invalid simulation mode %q", mode)
	}

	c.mu.Lock()
	term := c.stopLocked(ReasonSuperseded)

	w, err := c.resolver.FindByIdentity(ctx, idOrName)
	if err != nil {
		c.mu.Unlock()
		c.emitTerminal(term)
		return fmt.Errorf("resolving subject %q: %w", idOrName, err)
	}
	if w == nil {
		c.mu.Unlock()
		c.emitTerminal(term)
		c.logger.Warn("simulation start refused: subject not found", "subject", idOrName)
		return fmt.Errorf("subject %q not found", idOrName)
	}

	interval := c.cfg.TickInterval
	if interval <= 0 {
		interval = DefaultTickInterval
	}

	rs := &runState{
		mode:                mode,
		subjectID:           w.ID,
		subjectName:         w.Name,
		baselineTemperature: w.Vitals.Temperature,
		baselineHumidity:    w.Vitals.Humidity,
		cached:              w,
		ticker:              time.NewTicker(interval),
		done:                make(chan struct{}),
	}
	c.run = rs
	c.mu.Unlock()

	c.emitTerminal(term)
	c.logger.Info("simulation started",
		"subject", w.Name,
		"subject_id", w.ID,
		"mode", string(mode),
		"interval", interval)

	go c.loop(rs)
	return nil
}

// Stop tears down any active run and records the reason. Calling Stop on
// an idle controller is a no-op.
func (c *Controller) Stop(reason StopReason) {
	c.mu.Lock()
	term := c.stopLocked(reason)
	c.mu.Unlock()
	c.emitTerminal(term)
}

// ResetToBaseline stops any active run, discards the subject's risk
// annotation, and re-seeds its vitals with a freshly generated baseline
// profile for its risk tier. This is a full re-seed, not a restore of the
// values captured when the run started.
func (c *Controller) ResetToBaseline(ctx context.Context, idOrName string) error {
	c.mu.Lock()
	term := c.stopLocked(ReasonReset)
	c.mu.Unlock()
	c.emitTerminal(term)

	w, err := c.resolver.FindByIdentity(ctx, idOrName)
	if err != nil {
		return fmt.Errorf("resolving subject %q: %w", idOrName, err)
	}
	if w == nil {
		return fmt.Errorf("subject %q not found", idOrName)
	}

	w.Vitals = c.seeder.Baseline(w.RiskTier)
	w.Risk = nil
	w.UpdatedAt = time.Now().UTC()

	if err := c.resolver.Update(ctx, *w); err != nil {
		return fmt.Errorf("persisting baseline reset for %q: %w", w.ID, err)
	}

	c.logger.Info("subject reset to baseline", "subject", w.Name, "subject_id", w.ID)
	c.emitUpdate(Update{
		Active:      false,
		SubjectID:   w.ID,
		SubjectName: w.Name,
		State:       w.Clone(),
	})
	return nil
}

// Status reports the controller's current run state.
type Status struct {
	Active              bool        `json:"active"`
	Mode                vitals.Mode `json:"mode,omitempty"`
	SubjectID           string      `json:"subject_id,omitempty"`
	SubjectName         string      `json:"subject_name,omitempty"`
	Step                int         `json:"step"`
	ConsecutiveFailures int         `json:"consecutive_failures"`
	TotalFailures       int         `json:"total_failures"`
	Progress            float64     `json:"progress"`
	BaselineTemperature float64     `json:"baseline_temperature,omitempty"`
	BaselineHumidity    float64     `json:"baseline_humidity,omitempty"`
}

// Status returns a snapshot of the current run, or a zero-valued inactive
// status when idle.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	rs := c.run
	if rs == nil {
		return Status{}
	}

	st := Status{
		Active:              true,
		Mode:                rs.mode,
		SubjectID:           rs.subjectID,
		SubjectName:         rs.subjectName,
		Step:                rs.step,
		ConsecutiveFailures: rs.consecutiveFailures,
		TotalFailures:       rs.totalFailures,
		BaselineTemperature: rs.baselineTemperature,
		BaselineHumidity:    rs.baselineHumidity,
	}
	if rs.cached != nil {
		st.Progress = vitals.Progress(rs.cached.Vitals.Temperature, rs.cached.Vitals.Humidity, rs.mode, c.cfg.Bounds)
	}
	return st
}

// loop drives ticks until the run's done channel closes.
func (c *Controller) loop(rs *runState) {
	for {
		select {
		case <-rs.done:
			return
		case <-rs.ticker.C:
			c.Tick(context.Background())
		}
	}
}

// Tick executes one simulation step: perturb vitals toward the target
// regime, call the risk oracle, merge, publish, and evaluate termination.
// Exactly one tick runs at a time; a fire that arrives while a previous
// tick is still awaiting the oracle is a no-op.
func (c *Controller) Tick(ctx context.Context) {
	c.mu.Lock()
	rs := c.run
	if rs == nil || !rs.mode.Valid() {
		term := c.stopLocked(ReasonInactive)
		c.mu.Unlock()
		c.emitTerminal(term)
		return
	}
	if rs.inFlight {
		c.mu.Unlock()
		return
	}

	working := rs.cached
	if working == nil {
		w, err := c.resolver.FindByIdentity(ctx, rs.subjectID)
		if err != nil || w == nil {
			term := c.stopLocked(ReasonSubjectNotFound)
			c.mu.Unlock()
			if err != nil {
				c.logger.Warn("subject resolution failed mid-run", "subject_id", rs.subjectID, "error", err)
			}
			c.emitTerminal(term)
			return
		}
		working = w
	}

	candidate := working.Clone()
	candidate.Vitals = vitals.Next(working.Vitals, rs.mode, c.cfg.Bounds)
	mode := rs.mode

	rs.inFlight = true
	c.mu.Unlock()

	// The oracle call is the only blocking external call in the tick
	// body. The lock is released while it is pending; inFlight keeps
	// concurrent fires out.
	pred, oracleErr := c.oracle.Predict(ctx, candidate)

	c.mu.Lock()
	if c.run != rs {
		// Torn down (or superseded) while the oracle call was pending.
		c.mu.Unlock()
		return
	}
	rs.inFlight = false

	if oracleErr == nil {
		ann := pred.Annotation()
		candidate.Risk = &ann
		rs.consecutiveFailures = 0
	} else {
		// The physical simulation must not stall because the oracle is
		// degraded: the candidate still advances, just without a fresh
		// risk annotation.
		rs.consecutiveFailures++
		rs.totalFailures++
		rs.lastFailure = oracleErr
	}
	candidate.UpdatedAt = time.Now().UTC()
	rs.cached = &candidate
	rs.step++

	update := Update{
		Active:      true,
		Mode:        mode,
		SubjectID:   rs.subjectID,
		SubjectName: rs.subjectName,
		Step:        rs.step,
		Progress:    vitals.Progress(candidate.Vitals.Temperature, candidate.Vitals.Humidity, mode, c.cfg.Bounds),
		State:       candidate.Clone(),
	}

	var term *Terminal
	var budgetErr *BudgetError

	if oracleErr != nil {
		c.logger.Warn("risk oracle call failed",
			"subject_id", rs.subjectID,
			"step", rs.step,
			"consecutive", rs.consecutiveFailures,
			"total", rs.totalFailures,
			"error", oracleErr)

		maxConsecutive := c.cfg.MaxConsecutiveFailures
		if maxConsecutive <= 0 {
			maxConsecutive = DefaultMaxConsecutiveFailures
		}
		maxTotal := c.cfg.MaxTotalFailures
		if maxTotal <= 0 {
			maxTotal = DefaultMaxTotalFailures
		}

		var reason StopReason
		switch {
		case rs.consecutiveFailures >= maxConsecutive:
			reason = ReasonConsecutiveFailures
		case rs.totalFailures >= maxTotal:
			reason = ReasonTotalFailures
		}
		if reason != "" {
			budgetErr = &BudgetError{
				Reason:              reason,
				Mode:                mode,
				SubjectID:           rs.subjectID,
				Step:                rs.step,
				ConsecutiveFailures: rs.consecutiveFailures,
				TotalFailures:       rs.totalFailures,
				Err:                 oracleErr,
			}
			term = c.stopLocked(reason)
		}
	}

	// Budget exhaustion stops immediately; the continuation check only
	// runs for surviving ticks.
	if term == nil {
		if !vitals.ShouldContinue(candidate.Vitals, mode, rs.step, c.cfg.StepCeiling, c.cfg.Bounds) {
			reason := ReasonCompleted
			ceiling := c.cfg.StepCeiling
			if ceiling <= 0 {
				ceiling = vitals.DefaultStepCeiling
			}
			if rs.step >= ceiling {
				reason = ReasonStepLimit
			}
			term = c.stopLocked(reason)
		}
	}
	c.mu.Unlock()

	if err := c.resolver.Update(ctx, candidate); err != nil {
		c.logger.Warn("persisting tick state failed", "subject_id", candidate.ID, "error", err)
	}

	c.logTick(update, oracleErr)
	c.emitUpdate(update)
	if budgetErr != nil {
		c.emitError(budgetErr)
	}
	c.emitTerminal(term)
}

// stopLocked tears down the active run. It must be called with the mutex
// held and is a no-op when idle, so explicit stops, supersession, and the
// tick body's own termination all converge on the same teardown path.
// Returns the terminal event to emit after the lock is released, or nil.
func (c *Controller) stopLocked(reason StopReason) *Terminal {
	rs := c.run
	if rs == nil {
		return nil
	}

	if rs.ticker != nil {
		rs.ticker.Stop()
	}
	if rs.done != nil {
		close(rs.done)
	}
	c.run = nil

	t := &Terminal{
		Reason:      reason,
		Message:     reason.Message(),
		Mode:        rs.mode,
		SubjectID:   rs.subjectID,
		SubjectName: rs.subjectName,
		Step:        rs.step,
	}
	if rs.cached != nil {
		state := rs.cached.Clone()
		t.State = &state
	}
	return t
}

func (c *Controller) emitUpdate(u Update) {
	c.mu.Lock()
	fn := c.onUpdate
	c.mu.Unlock()
	if fn != nil {
		fn(u)
	}
}

func (c *Controller) emitTerminal(t *Terminal) {
	if t == nil {
		return
	}
	c.logger.Info("simulation run ended",
		"subject_id", t.SubjectID,
		"reason", string(t.Reason),
		"message", t.Message,
		"step", t.Step)

	c.mu.Lock()
	fn := c.onTerminal
	ticks := c.ticks
	c.mu.Unlock()

	ticks.Log(map[string]any{
		"event":      "terminal",
		"subject_id": t.SubjectID,
		"reason":     string(t.Reason),
		"step":       t.Step,
	})
	if fn != nil {
		fn(*t)
	}
}

func (c *Controller) emitError(e *BudgetError) {
	c.mu.Lock()
	fn := c.onError
	c.mu.Unlock()
	if fn != nil {
		fn(e)
	}
}

func (c *Controller) logTick(u Update, oracleErr error) {
	c.mu.Lock()
	ticks := c.ticks
	c.mu.Unlock()

	event := map[string]any{
		"event":       "tick",
		"subject_id":  u.SubjectID,
		"mode":        string(u.Mode),
		"step":        u.Step,
		"progress":    u.Progress,
		"temperature": u.State.Vitals.Temperature,
		"humidity":    u.State.Vitals.Humidity,
		"heart_rate":  u.State.Vitals.HeartRate,
	}
	if u.State.Risk != nil {
		event["risk_score"] = u.State.Risk.RiskScore
		event["predicted_class"] = u.State.Risk.PredictedClass
	}
	if oracleErr != nil {
		event["oracle_error"] = oracleErr.Error()
	}
	ticks.Log(event)
}
