package simulation

import (
	"errors"

	"github.com/nvandessel/heatwatch/internal/models"
	"github.com/nvandessel/heatwatch/internal/oracle"
)

// errOracleDown is the canonical failure used in oracle scripts.
var errOracleDown = errors.New("oracle unreachable")

// restingVitals returns the canonical mild-office baseline used across
// scenarios: 22.0 degC, 45.0% humidity, resting cardiac profile.
func restingVitals() *models.Vitals {
	return &models.Vitals{
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
	}
}

// warmVitals returns a late-shift warm baseline, used for cool-down runs.
func warmVitals() *models.Vitals {
	return &models.Vitals{
		Temperature: 30.0,
		Humidity:    80.0,
		HeartRate:   98.0,
		RMSSD:       24.0,
		SDNN:        30.0,
		MeanNNI:     620,
		PNN50:       4.0,
		TotalPower:  900,
		LF:          620,
		HF:          140,
	}
}

// ok builds a successful oracle outcome.
func ok(class string, confidence, riskScore float64) oracle.Outcome {
	return oracle.Outcome{Prediction: &oracle.Prediction{
		PredictedClass: class,
		Confidence:     confidence,
		RiskScore:      riskScore,
	}}
}

// fail builds a failing oracle outcome.
func fail() oracle.Outcome {
	return oracle.Outcome{Err: errOracleDown}
}
