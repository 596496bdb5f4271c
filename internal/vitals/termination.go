package vitals

import "github.com/nvandessel/heatwatch/internal/models"

// DefaultStepCeiling bounds every run regardless of convergence. A run
// whose saturation condition never fires still stops at exactly this many
// steps.
const DefaultStepCeiling = 120

// ShouldContinue decides whether a running simulation should take another
// tick given the current state, mode and step count.
//
// The saturation check is deliberately an OR: a heat-up run keeps ticking
// while temperature has not reached its maximum OR humidity has not, so it
// stops only when both axes are saturated. Symmetric against the minima for
// cool-down. This matches the system being modeled as shipped; do not
// "fix" it to stop on the first saturated axis.
func ShouldContinue(v models.Vitals, mode Mode, step, stepCeiling int, b Bounds) bool {
	if stepCeiling <= 0 {
		stepCeiling = DefaultStepCeiling
	}
	if step >= stepCeiling {
		return false
	}
	switch mode {
	case ModeHeatUp:
		return v.Temperature < b.Temperature.Max || v.Humidity < b.Humidity.Max
	case ModeCoolDown:
		return v.Temperature > b.Temperature.Min || v.Humidity > b.Humidity.Min
	default:
		return false
	}
}
