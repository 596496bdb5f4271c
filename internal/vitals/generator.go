package vitals

import (
	"fmt"

	"github.com/nvandessel/heatwatch/internal/models"
)

// Mode selects which regime the signal generator drives the subject toward.
type Mode string

const (
	// ModeHeatUp perturbs the state toward heat stress: environment warms,
	// heart rate climbs, HRV statistics shift toward sympathetic arousal.
	ModeHeatUp Mode = "heat-up"

	// ModeCoolDown is the symmetric relaxation transform back toward a
	// resting baseline.
	ModeCoolDown Mode = "cool-down"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeHeatUp || m == ModeCoolDown
}

// ParseMode maps a string to a Mode, accepting the wire names used by the
// API ("heat-up"/"heatup" and "cool-down"/"cooldown").
func ParseMode(s string) (Mode, error) {
	switch s {
	case "heat-up", "heatup":
		return ModeHeatUp, nil
	case "cool-down", "cooldown":
		return ModeCoolDown, nil
	default:
		return "", fmt.Errorf("unknown mode %q (valid: heat-up, cool-down)", s)
	}
}

// Per-tick environmental and cardiac increments. Temperature, humidity and
// heart rate move by fixed additive steps; each HRV statistic has its own
// multiplicative rate because the different HRV bands respond at different
// physiological speeds. Heat-up rates drive arousal (time-domain variability
// and HF power drop, LF power rises); cool-down rates are the relaxation
// counterparts, deliberately not exact reciprocals.
const (
	TemperatureStep = 1.2 // °C per tick
	HumidityStep    = 3.5 // % per tick
	HeartRateStep   = 1.5 // bpm per tick

	heatRMSSDRate      = 0.96
	heatSDNNRate       = 0.95
	heatMeanNNIRate    = 0.985
	heatPNN50Rate      = 0.93
	heatTotalPowerRate = 0.94
	heatLFRate         = 1.04
	heatHFRate         = 0.92

	coolRMSSDRate      = 1.05
	coolSDNNRate       = 1.06
	coolMeanNNIRate    = 1.02
	coolPNN50Rate      = 1.08
	coolTotalPowerRate = 1.07
	coolLFRate         = 0.97
	coolHFRate         = 1.09
)

// Derived-metric coefficients. The five secondary HRV fields are mechanical
// functions of the primaries and are recomputed every tick, never perturbed.
const (
	stdHRFromSDNN     = 0.05 // StdHeartRate = SDNN * this
	minMaxHRSpread    = 1.5  // Min/MaxHeartRate = mean -/+ spread * StdHeartRate
	medianNNIFromMean = 0.98 // MedianNNI = MeanNNI * this
	rangeNNIFromSDNN  = 6.5  // RangeNNI = SDNN * this
)

// Next computes the state one tick ahead of current for the given mode.
// Pure and deterministic: no I/O, no randomness. Every output field is
// clamped to bounds and rounded before being returned.
func Next(current models.Vitals, mode Mode, b Bounds) models.Vitals {
	v := current
	switch mode {
	case ModeHeatUp:
		v.Temperature += TemperatureStep
		v.Humidity += HumidityStep
		v.HeartRate += HeartRateStep
		v.RMSSD *= heatRMSSDRate
		v.SDNN *= heatSDNNRate
		v.MeanNNI *= heatMeanNNIRate
		v.PNN50 *= heatPNN50Rate
		v.TotalPower *= heatTotalPowerRate
		v.LF *= heatLFRate
		v.HF *= heatHFRate
	case ModeCoolDown:
		v.Temperature -= TemperatureStep
		v.Humidity -= HumidityStep
		v.HeartRate -= HeartRateStep
		v.RMSSD *= coolRMSSDRate
		v.SDNN *= coolSDNNRate
		v.MeanNNI *= coolMeanNNIRate
		v.PNN50 *= coolPNN50Rate
		v.TotalPower *= coolTotalPowerRate
		v.LF *= coolLFRate
		v.HF *= coolHFRate
	}
	return b.Clamp(v)
}

// deriveSecondary recomputes the five secondary HRV fields from the
// primaries. Min/max/std heart rate follow from mean HR and SDNN; the
// LF/HF ratio from the band powers; median, range and CV of NNI from
// mean NNI and SDNN.
func deriveSecondary(v *models.Vitals) {
	v.StdHeartRate = models.Round1(v.SDNN * stdHRFromSDNN)
	v.MinHeartRate = models.Round1(v.HeartRate - minMaxHRSpread*v.StdHeartRate)
	v.MaxHeartRate = models.Round1(v.HeartRate + minMaxHRSpread*v.StdHeartRate)
	if v.HF > 0 {
		v.LFHFRatio = models.Round2(v.LF / v.HF)
	} else {
		v.LFHFRatio = 0
	}
	v.MedianNNI = models.RoundInt(v.MeanNNI * medianNNIFromMean)
	v.RangeNNI = models.RoundInt(v.SDNN * rangeNNIFromSDNN)
	if v.MeanNNI > 0 {
		v.CVNNI = models.Round3(v.SDNN / v.MeanNNI)
	} else {
		v.CVNNI = 0
	}
}
