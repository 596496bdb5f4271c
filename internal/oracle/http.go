package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nvandessel/heatwatch/internal/models"
)

// HTTPClient implements Client against a JSON-over-HTTP prediction service.
type HTTPClient struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

// NewHTTPClient creates an HTTPClient from config.
// If config.Timeout is zero, it defaults to 30 seconds.
func NewHTTPClient(config ClientConfig) *HTTPClient {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(config.BaseURL, "/"),
		timeout: timeout,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// predictRequest is the snapshot sent to the prediction service. Zero
// values stand in for any field the worker record never populated.
type predictRequest struct {
	Age      int     `json:"age"`
	Gender   string  `json:"gender"`
	WeightKG float64 `json:"weight_kg"`
	HeightCM float64 `json:"height_cm"`

	models.Vitals
}

// Predict sends the worker snapshot and returns the parsed prediction.
// The call is bounded by the configured timeout via both the HTTP client
// and the request context.
func (c *HTTPClient) Predict(ctx context.Context, w models.Worker) (*Prediction, error) {
	if !c.Available() {
		return nil, fmt.Errorf("oracle client not available: missing base URL")
	}

	reqBody := predictRequest{
		Age:      w.Age,
		Gender:   w.Gender,
		WeightKG: w.WeightKG,
		HeightCM: w.HeightCM,
		Vitals:   w.Vitals,
	}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling prediction request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending prediction request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading prediction response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("prediction request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("parsing prediction response: %w", err)
	}
	if err := predictionSchema.Validate(payload); err != nil {
		return nil, fmt.Errorf("prediction response violates contract: %w", err)
	}

	var pred Prediction
	if err := json.Unmarshal(body, &pred); err != nil {
		return nil, fmt.Errorf("decoding prediction: %w", err)
	}
	return &pred, nil
}

// Available returns true when a base URL is configured.
func (c *HTTPClient) Available() bool {
	return c.baseURL != ""
}
