// Package models defines the core data types shared across heatwatch:
// workers, their vital signs, and risk annotations.
package models

import "time"

// Vitals is the mutable physiological and environmental record the
// simulation loop evolves. Primary fields are perturbed per tick by the
// signal generator; derived fields are always recomputed from primaries
// and never independently perturbed.
type Vitals struct {
	// Environmental
	Temperature float64 `json:"temperature" yaml:"temperature"` // °C, 1 dp
	Humidity    float64 `json:"humidity" yaml:"humidity"`       // %, 1 dp

	// Cardiac primaries
	HeartRate  float64 `json:"heart_rate" yaml:"heart_rate"`   // mean HR, bpm, 1 dp
	RMSSD      float64 `json:"rmssd" yaml:"rmssd"`             // ms, 1 dp
	SDNN       float64 `json:"sdnn" yaml:"sdnn"`               // ms, 1 dp
	MeanNNI    float64 `json:"mean_nni" yaml:"mean_nni"`       // ms, integer
	PNN50      float64 `json:"pnn50" yaml:"pnn50"`             // %, 1 dp
	TotalPower float64 `json:"total_power" yaml:"total_power"` // ms², integer
	LF         float64 `json:"lf" yaml:"lf"`                   // ms², integer
	HF         float64 `json:"hf" yaml:"hf"`                   // ms², integer

	// Derived (recomputed from primaries every tick)
	MinHeartRate float64 `json:"min_heart_rate" yaml:"min_heart_rate"` // bpm, 1 dp
	MaxHeartRate float64 `json:"max_heart_rate" yaml:"max_heart_rate"` // bpm, 1 dp
	StdHeartRate float64 `json:"std_heart_rate" yaml:"std_heart_rate"` // bpm, 1 dp
	LFHFRatio    float64 `json:"lf_hf_ratio" yaml:"lf_hf_ratio"`       // 2 dp
	MedianNNI    float64 `json:"median_nni" yaml:"median_nni"`         // ms, integer
	RangeNNI     float64 `json:"range_nni" yaml:"range_nni"`           // ms, integer
	CVNNI        float64 `json:"cv_nni" yaml:"cv_nni"`                 // 3 dp
}

// RiskAnnotation is the last known output of the risk oracle for a worker.
// It is absent (nil pointer on Worker) until the first successful oracle call.
type RiskAnnotation struct {
	PredictedClass string  `json:"predicted_class" yaml:"predicted_class"`
	Confidence     float64 `json:"confidence" yaml:"confidence"` // [0,1], 3 dp
	RiskScore      float64 `json:"risk_score" yaml:"risk_score"` // [0,1], 4 dp
}

// Worker is a monitored subject: identity, demographics, current vitals,
// and the last known risk annotation.
type Worker struct {
	ID       string  `json:"id" yaml:"id"`
	Name     string  `json:"name" yaml:"name"`
	Age      int     `json:"age" yaml:"age"`
	Gender   string  `json:"gender" yaml:"gender"`
	WeightKG float64 `json:"weight_kg" yaml:"weight_kg"`
	HeightCM float64 `json:"height_cm" yaml:"height_cm"`

	// RiskTier is the baseline risk profile used when generating the worker:
	// "low", "moderate", or "high".
	RiskTier string `json:"risk_tier" yaml:"risk_tier"`

	Vitals Vitals          `json:"vitals" yaml:"vitals"`
	Risk   *RiskAnnotation `json:"risk,omitempty" yaml:"risk,omitempty"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// Clone returns a deep copy of the worker. The simulation loop publishes
// clones so observers never alias the loop's working state.
func (w Worker) Clone() Worker {
	cp := w
	if w.Risk != nil {
		risk := *w.Risk
		cp.Risk = &risk
	}
	return cp
}
