package vitals

import "github.com/nvandessel/heatwatch/internal/models"

// Progress converts the current environmental values and mode into a
// 0–100% completion estimate for UI consumption. Each axis contributes its
// fractional distance from minimum toward maximum, independently clamped to
// [0,1] before averaging, so an overshoot on one axis can neither push the
// average above 100 nor drag the other axis negative. Cool-down inverts the
// legs (fully cooled = 100%).
//
// Purely a display aid; the termination policy must never consume this.
func Progress(temp, humidity float64, mode Mode, b Bounds) float64 {
	tempLeg := b.Temperature.Fraction(temp)
	humLeg := b.Humidity.Fraction(humidity)
	if mode == ModeCoolDown {
		tempLeg = 1 - tempLeg
		humLeg = 1 - humLeg
	}
	return models.Round1((tempLeg + humLeg) / 2 * 100)
}
