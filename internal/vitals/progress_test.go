package vitals

import "testing"

func TestProgress(t *testing.T) {
	b := DefaultBounds() // temp 10–34, humidity 20–90

	tests := []struct {
		name string
		temp float64
		hum  float64
		mode Mode
		want float64
	}{
		{"heat-up at minima", 10.0, 20.0, ModeHeatUp, 0.0},
		{"heat-up at maxima", 34.0, 90.0, ModeHeatUp, 100.0},
		{"heat-up midway", 22.0, 55.0, ModeHeatUp, 50.0},
		{"cool-down at maxima", 34.0, 90.0, ModeCoolDown, 0.0},
		{"cool-down at minima", 10.0, 20.0, ModeCoolDown, 100.0},
		{"cool-down midway", 22.0, 55.0, ModeCoolDown, 50.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Progress(tt.temp, tt.hum, tt.mode, b)
			if got != tt.want {
				t.Errorf("Progress(%v, %v, %s) = %v, want %v", tt.temp, tt.hum, tt.mode, got, tt.want)
			}
		})
	}
}

// An overshoot on one axis is clamped to that leg's full contribution; it
// cannot push the average above 100 or drag the other leg negative.
func TestProgress_OvershootClamped(t *testing.T) {
	b := DefaultBounds()

	got := Progress(40.0, 55.0, ModeHeatUp, b) // temp overshoots max 34
	want := Progress(34.0, 55.0, ModeHeatUp, b)
	if got != want {
		t.Errorf("overshoot progress = %v, want %v", got, want)
	}
	if got > 100 {
		t.Errorf("progress %v exceeds 100", got)
	}

	if p := Progress(40.0, 95.0, ModeHeatUp, b); p != 100.0 {
		t.Errorf("double overshoot = %v, want exactly 100", p)
	}
	if p := Progress(5.0, 10.0, ModeHeatUp, b); p != 0.0 {
		t.Errorf("double undershoot = %v, want exactly 0", p)
	}
}
