package oracle

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nvandessel/heatwatch/internal/models"
)

func testWorker() models.Worker {
	return models.Worker{
		ID:     "w-1",
		Name:   "Dana",
		Age:    34,
		Gender: "female",
		Vitals: models.Vitals{
			Temperature: 22.0,
			Humidity:    45.0,
			HeartRate:   70.0,
			RMSSD:       55.0,
			SDNN:        62.0,
		},
	}
}

func TestHTTPClient_PredictSuccess(t *testing.T) {
	var gotBody predictRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/predict" {
			t.Errorf("path = %s, want /predict", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"risk_score":      0.7312,
			"predicted_class": "high",
			"confidence":      0.881,
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(ClientConfig{BaseURL: srv.URL})
	pred, err := c.Predict(context.Background(), testWorker())
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if pred.PredictedClass != "high" {
		t.Errorf("PredictedClass = %q, want %q", pred.PredictedClass, "high")
	}
	if pred.RiskScore != 0.7312 {
		t.Errorf("RiskScore = %v, want 0.7312", pred.RiskScore)
	}
	if gotBody.Age != 34 || gotBody.Temperature != 22.0 {
		t.Errorf("request snapshot missing fields: %+v", gotBody)
	}
}

func TestHTTPClient_PredictFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			"non-200 status",
			func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "model unavailable", http.StatusServiceUnavailable)
			},
		},
		{
			"malformed body",
			func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("{not json"))
			},
		},
		{
			"contract violation: score out of range",
			func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]any{
					"risk_score":      1.7,
					"predicted_class": "high",
					"confidence":      0.9,
				})
			},
		},
		{
			"contract violation: missing class",
			func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]any{
					"risk_score": 0.4,
					"confidence": 0.9,
				})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			c := NewHTTPClient(ClientConfig{BaseURL: srv.URL})
			if _, err := c.Predict(context.Background(), testWorker()); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestHTTPClient_PredictTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewHTTPClient(ClientConfig{BaseURL: srv.URL, Timeout: 20 * time.Millisecond})
	start := time.Now()
	_, err := c.Predict(context.Background(), testWorker())
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("timeout took %v, should be bounded near 20ms", elapsed)
	}
}

func TestHTTPClient_NotAvailable(t *testing.T) {
	c := NewHTTPClient(ClientConfig{BaseURL: ""})
	if c.Available() {
		t.Error("client with empty base URL should not be available")
	}
	if _, err := c.Predict(context.Background(), testWorker()); err == nil {
		t.Error("expected error from unavailable client")
	}
}

func TestPrediction_AnnotationRounding(t *testing.T) {
	p := Prediction{RiskScore: 0.73126666, PredictedClass: "high", Confidence: 0.88166}
	a := p.Annotation()
	if a.RiskScore != 0.7313 {
		t.Errorf("RiskScore = %v, want 0.7313", a.RiskScore)
	}
	if a.Confidence != 0.882 {
		t.Errorf("Confidence = %v, want 0.882", a.Confidence)
	}
}
