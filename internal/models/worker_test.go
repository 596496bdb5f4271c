package models

import "testing"

func TestWorkerClone(t *testing.T) {
	w := Worker{
		ID:   "w-1",
		Name: "ana",
		Risk: &RiskAnnotation{PredictedClass: "moderate", Confidence: 0.9, RiskScore: 0.42},
	}

	cp := w.Clone()
	cp.Name = "renamed"
	cp.Risk.PredictedClass = "high"
	cp.Vitals.Temperature = 99

	if w.Name != "ana" {
		t.Errorf("clone mutation leaked into original name: %q", w.Name)
	}
	if w.Risk.PredictedClass != "moderate" {
		t.Errorf("clone mutation leaked into original risk: %q", w.Risk.PredictedClass)
	}
	if w.Vitals.Temperature != 0 {
		t.Errorf("clone mutation leaked into original vitals: %v", w.Vitals.Temperature)
	}
}

func TestWorkerCloneNilRisk(t *testing.T) {
	w := Worker{ID: "w-2"}
	cp := w.Clone()
	if cp.Risk != nil {
		t.Errorf("clone invented a risk annotation: %+v", *cp.Risk)
	}
}

func TestRounding(t *testing.T) {
	tests := []struct {
		name string
		fn   func(float64) float64
		in   float64
		want float64
	}{
		{"Round1 up", Round1, 23.16, 23.2},
		{"Round1 down", Round1, 23.14, 23.1},
		{"Round2", Round2, 1.498, 1.50},
		{"Round3", Round3, 0.06149, 0.061},
		{"Round4", Round4, 0.73126, 0.7313},
		{"RoundInt", RoundInt, 856.5, 857},
		{"Round1 negative", Round1, -0.06, -0.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.in); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
