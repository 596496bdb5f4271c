package oracle

import (
	"context"
	"sync"

	"github.com/nvandessel/heatwatch/internal/models"
)

// MockClient implements Client for testing purposes. It returns responses
// from a configurable script, one outcome per call, and records every
// snapshot it was asked to classify. When the script is exhausted, the
// last outcome repeats. Safe for concurrent use.
type MockClient struct {
	mu sync.Mutex

	script    []Outcome
	pos       int
	available bool

	// Block, when non-nil, is received from at the start of every Predict
	// call. Tests use it to hold a call in flight.
	Block chan struct{}

	// Calls records each snapshot passed to Predict, in order.
	Calls []models.Worker
}

// Outcome is one scripted Predict result.
type Outcome struct {
	Prediction *Prediction
	Err        error
}

// NewMockClient creates an available MockClient that always succeeds with
// a fixed moderate prediction until scripted otherwise.
func NewMockClient() *MockClient {
	return &MockClient{
		available: true,
		script: []Outcome{{
			Prediction: &Prediction{RiskScore: 0.42, PredictedClass: "moderate", Confidence: 0.9},
		}},
	}
}

// WithScript replaces the outcome script. Each Predict call consumes one
// outcome; the final outcome repeats once the script is exhausted.
func (m *MockClient) WithScript(outcomes ...Outcome) *MockClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = outcomes
	m.pos = 0
	return m
}

// WithError makes every call fail with err.
func (m *MockClient) WithError(err error) *MockClient {
	return m.WithScript(Outcome{Err: err})
}

// WithAvailable sets the availability flag.
func (m *MockClient) WithAvailable(available bool) *MockClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.available = available
	return m
}

// Predict returns the next scripted outcome and records the call.
func (m *MockClient) Predict(ctx context.Context, w models.Worker) (*Prediction, error) {
	if m.Block != nil {
		select {
		case <-m.Block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, w.Clone())

	if len(m.script) == 0 {
		return &Prediction{RiskScore: 0.42, PredictedClass: "moderate", Confidence: 0.9}, nil
	}
	out := m.script[m.pos]
	if m.pos < len(m.script)-1 {
		m.pos++
	}
	if out.Err != nil {
		return nil, out.Err
	}
	pred := *out.Prediction
	return &pred, nil
}

// Available returns the configured availability.
func (m *MockClient) Available() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.available
}

// CallCount returns how many Predict calls were recorded.
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
