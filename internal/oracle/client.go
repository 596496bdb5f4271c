// Package oracle provides the risk-prediction client consumed by the
// simulation loop. It defines the request/response contract, an HTTP
// implementation bound by a fixed timeout, and a scriptable mock for tests.
//
// The loop treats every non-success outcome identically, whether it is a
// network error, a timeout, a non-2xx status, or a malformed payload, so
// this package folds all of them into a single error return.
package oracle

import (
	"context"
	"time"

	"github.com/nvandessel/heatwatch/internal/models"
)

// Prediction is a successful risk classification for one worker snapshot.
type Prediction struct {
	// RiskScore is the composite risk score in [0,1], 4 dp.
	RiskScore float64 `json:"risk_score"`

	// PredictedClass is the classification label (e.g. "low", "moderate", "high").
	PredictedClass string `json:"predicted_class"`

	// Confidence is the classifier's confidence in [0,1], 3 dp.
	Confidence float64 `json:"confidence"`
}

// Annotation converts the prediction into the risk annotation merged into
// worker state, applying the standard rounding.
func (p Prediction) Annotation() models.RiskAnnotation {
	return models.RiskAnnotation{
		PredictedClass: p.PredictedClass,
		Confidence:     models.Round3(p.Confidence),
		RiskScore:      models.Round4(p.RiskScore),
	}
}

// ClientConfig configures an oracle client.
type ClientConfig struct {
	// BaseURL is the prediction service endpoint, e.g. "http://localhost:8500".
	BaseURL string `json:"base_url" yaml:"base_url"`

	// Timeout bounds every prediction call. Exceeding it is a failure,
	// not a hang. Defaults to 30 seconds.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// DefaultConfig returns a ClientConfig with sensible defaults.
func DefaultConfig() ClientConfig {
	return ClientConfig{
		BaseURL: "http://localhost:8500",
		Timeout: 30 * time.Second,
	}
}

// Client is the risk oracle contract.
type Client interface {
	// Predict classifies a full worker snapshot. Missing optional fields
	// in the snapshot default to zero on the wire.
	Predict(ctx context.Context, w models.Worker) (*Prediction, error)

	// Available reports whether the client is configured to serve requests.
	Available() bool
}
