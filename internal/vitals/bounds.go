// Package vitals implements the pure physiological transforms of the
// simulation: the per-tick signal generator, the clamp table, the
// termination policy, and the progress reporter. Nothing in this package
// performs I/O or holds state; everything is a deterministic function of
// its inputs so each mode's transform is testable independently.
package vitals

import "github.com/nvandessel/heatwatch/internal/models"

// Range is an inclusive [Min, Max] clamp interval for one quantity.
type Range struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// Clamp returns v limited to the range. Clamping an already-clamped value
// is a no-op.
func (r Range) Clamp(v float64) float64 {
	if v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

// Fraction returns how far v sits between Min and Max as a value in [0,1].
// Out-of-range inputs are clamped, so an overshoot on one axis can never
// produce a fraction outside [0,1].
func (r Range) Fraction(v float64) float64 {
	if r.Max == r.Min {
		return 0
	}
	return (r.Clamp(v) - r.Min) / (r.Max - r.Min)
}

// Bounds is the physiological clamp table for all primary quantities.
// It is a configuration surface: defaults below are the documented table,
// but deployments may override any range via config.
type Bounds struct {
	Temperature Range `json:"temperature" yaml:"temperature"`
	Humidity    Range `json:"humidity" yaml:"humidity"`
	HeartRate   Range `json:"heart_rate" yaml:"heart_rate"`
	RMSSD       Range `json:"rmssd" yaml:"rmssd"`
	SDNN        Range `json:"sdnn" yaml:"sdnn"`
	MeanNNI     Range `json:"mean_nni" yaml:"mean_nni"`
	PNN50       Range `json:"pnn50" yaml:"pnn50"`
	TotalPower  Range `json:"total_power" yaml:"total_power"`
	LF          Range `json:"lf" yaml:"lf"`
	HF          Range `json:"hf" yaml:"hf"`
}

// DefaultBounds returns the standard clamp table.
func DefaultBounds() Bounds {
	return Bounds{
		Temperature: Range{Min: 10, Max: 34},
		Humidity:    Range{Min: 20, Max: 90},
		HeartRate:   Range{Min: 50, Max: 110},
		RMSSD:       Range{Min: 15, Max: 120},
		SDNN:        Range{Min: 20, Max: 150},
		MeanNNI:     Range{Min: 545, Max: 1200},
		PNN50:       Range{Min: 0.5, Max: 50},
		TotalPower:  Range{Min: 500, Max: 5000},
		LF:          Range{Min: 200, Max: 1800},
		HF:          Range{Min: 80, Max: 1200},
	}
}

// Validate checks that every range has Min < Max.
func (b Bounds) Validate() error {
	ranges := []struct {
		name string
		r    Range
	}{
		{"temperature", b.Temperature},
		{"humidity", b.Humidity},
		{"heart_rate", b.HeartRate},
		{"rmssd", b.RMSSD},
		{"sdnn", b.SDNN},
		{"mean_nni", b.MeanNNI},
		{"pnn50", b.PNN50},
		{"total_power", b.TotalPower},
		{"lf", b.LF},
		{"hf", b.HF},
	}
	for _, rr := range ranges {
		if rr.r.Min >= rr.r.Max {
			return &BoundsError{Field: rr.name, Min: rr.r.Min, Max: rr.r.Max}
		}
	}
	return nil
}

// Clamp rounds and limits every primary field of v to its range, then
// recomputes the derived fields from the clamped primaries. Rounding runs
// before clamping so a rounded value can never escape its range, which
// makes the whole operation idempotent: clamping an already-clamped state
// returns it unchanged.
func (b Bounds) Clamp(v models.Vitals) models.Vitals {
	v.Temperature = b.Temperature.Clamp(models.Round1(v.Temperature))
	v.Humidity = b.Humidity.Clamp(models.Round1(v.Humidity))
	v.HeartRate = b.HeartRate.Clamp(models.Round1(v.HeartRate))
	v.RMSSD = b.RMSSD.Clamp(models.Round1(v.RMSSD))
	v.SDNN = b.SDNN.Clamp(models.Round1(v.SDNN))
	v.MeanNNI = b.MeanNNI.Clamp(models.RoundInt(v.MeanNNI))
	v.PNN50 = b.PNN50.Clamp(models.Round1(v.PNN50))
	v.TotalPower = b.TotalPower.Clamp(models.RoundInt(v.TotalPower))
	v.LF = b.LF.Clamp(models.RoundInt(v.LF))
	v.HF = b.HF.Clamp(models.RoundInt(v.HF))
	deriveSecondary(&v)
	return v
}

// BoundsError reports an invalid clamp range.
type BoundsError struct {
	Field    string
	Min, Max float64
}

func (e *BoundsError) Error() string {
	return "invalid bounds for " + e.Field + ": min must be below max"
}
