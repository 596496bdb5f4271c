package vitals

import (
	"math/rand"
	"testing"

	"github.com/nvandessel/heatwatch/internal/models"
)

// restingVitals returns a plausible resting state used across the tests.
func restingVitals() models.Vitals {
	b := DefaultBounds()
	return b.Clamp(models.Vitals{
		Temperature: 22.0,
		Humidity:    45.0,
		HeartRate:   70.0,
		RMSSD:       55.0,
		SDNN:        62.0,
		MeanNNI:     857,
		PNN50:       18.0,
		TotalPower:  2600,
		LF:          780,
		HF:          520,
	})
}

func TestNext_HeatUpSingleTick(t *testing.T) {
	b := DefaultBounds()
	got := Next(restingVitals(), ModeHeatUp, b)

	if got.Temperature != 23.2 {
		t.Errorf("Temperature = %v, want 23.2", got.Temperature)
	}
	if got.Humidity != 48.5 {
		t.Errorf("Humidity = %v, want 48.5", got.Humidity)
	}
	if got.HeartRate != 71.5 {
		t.Errorf("HeartRate = %v, want 71.5", got.HeartRate)
	}
	// Arousal: time-domain variability and HF drop, LF rises.
	if got.RMSSD >= 55.0 {
		t.Errorf("RMSSD = %v, want < 55.0 under heat-up", got.RMSSD)
	}
	if got.SDNN >= 62.0 {
		t.Errorf("SDNN = %v, want < 62.0 under heat-up", got.SDNN)
	}
	if got.LF <= 780 {
		t.Errorf("LF = %v, want > 780 under heat-up", got.LF)
	}
	if got.HF >= 520 {
		t.Errorf("HF = %v, want < 520 under heat-up", got.HF)
	}
}

func TestNext_CoolDownSingleTick(t *testing.T) {
	b := DefaultBounds()
	got := Next(restingVitals(), ModeCoolDown, b)

	if got.Temperature != 20.8 {
		t.Errorf("Temperature = %v, want 20.8", got.Temperature)
	}
	if got.Humidity != 41.5 {
		t.Errorf("Humidity = %v, want 41.5", got.Humidity)
	}
	if got.HeartRate != 68.5 {
		t.Errorf("HeartRate = %v, want 68.5", got.HeartRate)
	}
	if got.RMSSD <= 55.0 {
		t.Errorf("RMSSD = %v, want > 55.0 under cool-down", got.RMSSD)
	}
	if got.HF <= 520 {
		t.Errorf("HF = %v, want > 520 under cool-down", got.HF)
	}
}

// TestNext_BoundsProperty drives both modes from randomized valid starting
// states and checks every primary output field stays inside its range.
func TestNext_BoundsProperty(t *testing.T) {
	b := DefaultBounds()
	rng := rand.New(rand.NewSource(42))

	randIn := func(r Range) float64 {
		return r.Min + rng.Float64()*(r.Max-r.Min)
	}

	for i := 0; i < 500; i++ {
		start := models.Vitals{
			Temperature: randIn(b.Temperature),
			Humidity:    randIn(b.Humidity),
			HeartRate:   randIn(b.HeartRate),
			RMSSD:       randIn(b.RMSSD),
			SDNN:        randIn(b.SDNN),
			MeanNNI:     randIn(b.MeanNNI),
			PNN50:       randIn(b.PNN50),
			TotalPower:  randIn(b.TotalPower),
			LF:          randIn(b.LF),
			HF:          randIn(b.HF),
		}
		for _, mode := range []Mode{ModeHeatUp, ModeCoolDown} {
			got := Next(start, mode, b)
			checkWithinBounds(t, got, b, mode)
		}
	}
}

func checkWithinBounds(t *testing.T, v models.Vitals, b Bounds, mode Mode) {
	t.Helper()
	checks := []struct {
		name string
		val  float64
		r    Range
	}{
		{"Temperature", v.Temperature, b.Temperature},
		{"Humidity", v.Humidity, b.Humidity},
		{"HeartRate", v.HeartRate, b.HeartRate},
		{"RMSSD", v.RMSSD, b.RMSSD},
		{"SDNN", v.SDNN, b.SDNN},
		{"MeanNNI", v.MeanNNI, b.MeanNNI},
		{"PNN50", v.PNN50, b.PNN50},
		{"TotalPower", v.TotalPower, b.TotalPower},
		{"LF", v.LF, b.LF},
		{"HF", v.HF, b.HF},
	}
	for _, c := range checks {
		if c.val < c.r.Min || c.val > c.r.Max {
			t.Errorf("%s: %s = %v, outside [%v, %v]", mode, c.name, c.val, c.r.Min, c.r.Max)
		}
	}
}

func TestClamp_Idempotent(t *testing.T) {
	b := DefaultBounds()
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 200; i++ {
		// Start well outside the bounds in both directions.
		start := models.Vitals{
			Temperature: rng.Float64()*100 - 30,
			Humidity:    rng.Float64()*200 - 50,
			HeartRate:   rng.Float64()*300 - 50,
			RMSSD:       rng.Float64() * 400,
			SDNN:        rng.Float64() * 400,
			MeanNNI:     rng.Float64() * 3000,
			PNN50:       rng.Float64()*120 - 20,
			TotalPower:  rng.Float64() * 10000,
			LF:          rng.Float64() * 4000,
			HF:          rng.Float64() * 3000,
		}
		once := b.Clamp(start)
		twice := b.Clamp(once)
		if once != twice {
			t.Fatalf("clamp not idempotent:\n once = %+v\ntwice = %+v", once, twice)
		}
	}
}

func TestNext_DerivedFieldsRecomputed(t *testing.T) {
	b := DefaultBounds()
	start := restingVitals()
	// Corrupt the derived fields; Next must overwrite them from primaries.
	start.MinHeartRate = -999
	start.LFHFRatio = -999
	start.MedianNNI = -999

	got := Next(start, ModeHeatUp, b)

	wantStd := models.Round1(got.SDNN * stdHRFromSDNN)
	if got.StdHeartRate != wantStd {
		t.Errorf("StdHeartRate = %v, want %v", got.StdHeartRate, wantStd)
	}
	wantMin := models.Round1(got.HeartRate - minMaxHRSpread*got.StdHeartRate)
	if got.MinHeartRate != wantMin {
		t.Errorf("MinHeartRate = %v, want %v", got.MinHeartRate, wantMin)
	}
	wantMax := models.Round1(got.HeartRate + minMaxHRSpread*got.StdHeartRate)
	if got.MaxHeartRate != wantMax {
		t.Errorf("MaxHeartRate = %v, want %v", got.MaxHeartRate, wantMax)
	}
	wantRatio := models.Round2(got.LF / got.HF)
	if got.LFHFRatio != wantRatio {
		t.Errorf("LFHFRatio = %v, want %v", got.LFHFRatio, wantRatio)
	}
	wantMedian := models.RoundInt(got.MeanNNI * medianNNIFromMean)
	if got.MedianNNI != wantMedian {
		t.Errorf("MedianNNI = %v, want %v", got.MedianNNI, wantMedian)
	}
	wantRange := models.RoundInt(got.SDNN * rangeNNIFromSDNN)
	if got.RangeNNI != wantRange {
		t.Errorf("RangeNNI = %v, want %v", got.RangeNNI, wantRange)
	}
	wantCV := models.Round3(got.SDNN / got.MeanNNI)
	if got.CVNNI != wantCV {
		t.Errorf("CVNNI = %v, want %v", got.CVNNI, wantCV)
	}
}

func TestNext_Deterministic(t *testing.T) {
	b := DefaultBounds()
	start := restingVitals()
	a := Next(start, ModeHeatUp, b)
	c := Next(start, ModeHeatUp, b)
	if a != c {
		t.Errorf("Next is not deterministic:\n a = %+v\n b = %+v", a, c)
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"heat-up", ModeHeatUp, false},
		{"heatup", ModeHeatUp, false},
		{"cool-down", ModeCoolDown, false},
		{"cooldown", ModeCoolDown, false},
		{"", "", true},
		{"warm", "", true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseMode(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseMode(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
