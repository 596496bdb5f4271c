package simulation

import (
	"math"
	"testing"

	"github.com/nvandessel/heatwatch/internal/sim"
)

// AssertTerminalReason asserts that the run ended with the given reason.
func AssertTerminalReason(t *testing.T, result RunResult, reason sim.StopReason) {
	t.Helper()
	if result.Terminal == nil {
		t.Fatalf("AssertTerminalReason: run did not terminate (want %s)", reason)
	}
	if result.Terminal.Reason != reason {
		t.Errorf("AssertTerminalReason: reason = %s, want %s", result.Terminal.Reason, reason)
	}
}

// AssertStillActive asserts that no terminal event was emitted while driving.
func AssertStillActive(t *testing.T, result RunResult) {
	t.Helper()
	if result.Terminal != nil {
		t.Errorf("AssertStillActive: run terminated with %s at step %d", result.Terminal.Reason, result.Terminal.Step)
	}
	if !result.Status.Active {
		t.Errorf("AssertStillActive: status reports inactive")
	}
}

// AssertSteps asserts the final published step count.
func AssertSteps(t *testing.T, result RunResult, want int) {
	t.Helper()
	if got := result.Steps(); got != want {
		t.Errorf("AssertSteps: final step = %d, want %d", got, want)
	}
	if result.Terminal != nil && result.Terminal.Step != want {
		t.Errorf("AssertSteps: terminal step = %d, want %d", result.Terminal.Step, want)
	}
}

// AssertAnnotation asserts the persisted subject carries a risk annotation
// with the given fields.
func AssertAnnotation(t *testing.T, result RunResult, class string, confidence, riskScore float64) {
	t.Helper()
	if result.Final == nil {
		t.Fatal("AssertAnnotation: subject missing from roster")
	}
	risk := result.Final.Risk
	if risk == nil {
		t.Fatalf("AssertAnnotation: no annotation persisted (want class %q)", class)
	}
	if risk.PredictedClass != class {
		t.Errorf("AssertAnnotation: class = %q, want %q", risk.PredictedClass, class)
	}
	if math.Abs(risk.Confidence-confidence) > 1e-9 {
		t.Errorf("AssertAnnotation: confidence = %v, want %v", risk.Confidence, confidence)
	}
	if math.Abs(risk.RiskScore-riskScore) > 1e-9 {
		t.Errorf("AssertAnnotation: risk score = %v, want %v", risk.RiskScore, riskScore)
	}
}

// AssertNoAnnotation asserts the persisted subject has no risk annotation.
func AssertNoAnnotation(t *testing.T, result RunResult) {
	t.Helper()
	if result.Final == nil {
		t.Fatal("AssertNoAnnotation: subject missing from roster")
	}
	if result.Final.Risk != nil {
		t.Errorf("AssertNoAnnotation: unexpected annotation %+v", *result.Final.Risk)
	}
}

// AssertFinalEnvironment asserts the persisted temperature and humidity.
func AssertFinalEnvironment(t *testing.T, result RunResult, temperature, humidity float64) {
	t.Helper()
	if result.Final == nil {
		t.Fatal("AssertFinalEnvironment: subject missing from roster")
	}
	v := result.Final.Vitals
	if math.Abs(v.Temperature-temperature) > 1e-9 {
		t.Errorf("AssertFinalEnvironment: temperature = %v, want %v", v.Temperature, temperature)
	}
	if math.Abs(v.Humidity-humidity) > 1e-9 {
		t.Errorf("AssertFinalEnvironment: humidity = %v, want %v", v.Humidity, humidity)
	}
}

// AssertProgressMonotonic asserts that reported progress never decreases
// across the published updates.
func AssertProgressMonotonic(t *testing.T, result RunResult) {
	t.Helper()
	prev := -1.0
	for _, u := range result.Updates {
		if u.Progress < prev-1e-9 {
			t.Errorf("AssertProgressMonotonic: step %d: progress %.1f dropped below %.1f", u.Step, u.Progress, prev)
		}
		if u.Progress < 0 || u.Progress > 100 {
			t.Errorf("AssertProgressMonotonic: step %d: progress %.1f outside [0,100]", u.Step, u.Progress)
		}
		prev = u.Progress
	}
}

// AssertOracleCalls asserts how many times the oracle was consulted.
func AssertOracleCalls(t *testing.T, result RunResult, want int) {
	t.Helper()
	if got := result.Oracle.CallCount(); got != want {
		t.Errorf("AssertOracleCalls: oracle called %d times, want %d", got, want)
	}
}
