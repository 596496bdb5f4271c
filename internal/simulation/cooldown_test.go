package simulation

import (
	"math"
	"testing"

	"github.com/nvandessel/heatwatch/internal/roster"
	"github.com/nvandessel/heatwatch/internal/sim"
	"github.com/nvandessel/heatwatch/internal/vitals"
)

// A cool-down run from a warm late-shift state relaxes both axes to their
// minimums: temperature bottoms out at step 17, humidity at step 18, and
// the run completes at step 18 with full reported progress.
func TestCoolDownRunsToCompletion(t *testing.T) {
	r := NewRunner(t)
	result := r.Run(Scenario{
		Name:    "cool-down-completes",
		Workers: []WorkerSpec{{Name: "boris", RiskTier: roster.TierHigh, Vitals: warmVitals()}},
		Mode:    vitals.ModeCoolDown,
	})

	AssertTerminalReason(t, result, sim.ReasonCompleted)
	AssertSteps(t, result, 18)
	AssertFinalEnvironment(t, result, 10.0, 20.0)
	AssertProgressMonotonic(t, result)

	if got := result.LastUpdate().Progress; math.Abs(got-100.0) > 1e-9 {
		t.Errorf("final progress = %v, want 100", got)
	}
}

// Cool-down progress starts near zero when the subject is already at the
// hot end of both ranges.
func TestCoolDownProgressInverted(t *testing.T) {
	hot := warmVitals()
	hot.Temperature = 34.0
	hot.Humidity = 90.0

	r := NewRunner(t)
	result := r.Run(Scenario{
		Name:    "cool-down-progress",
		Workers: []WorkerSpec{{Name: "boris", Vitals: hot}},
		Mode:    vitals.ModeCoolDown,
		Ticks:   1,
	})

	AssertStillActive(t, result)
	got := result.LastUpdate().Progress
	if got < 0 || got > 6 {
		t.Errorf("progress after first tick = %v, want near 0", got)
	}
}
