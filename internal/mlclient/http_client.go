// Package mlclient binds the classifier port to a model server over HTTP.
package mlclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/Veraticus/potability/internal/common"
	"github.com/Veraticus/potability/internal/service"
)

// PredictRequest is the body posted to /predict.
type PredictRequest struct {
	Features []float64 `json:"features"`
}

// PredictResponse is the model server's answer.
type PredictResponse struct {
	Probabilities []float64 `json:"probabilities"`
	Label         int       `json:"label"`
}

// HTTPClassifier classifies through a remote model server.
type HTTPClassifier struct {
	client  *http.Client
	baseURL string
}

var _ service.Classifier = (*HTTPClassifier)(nil)

// NewHTTPClassifier creates a client for baseURL with a per-request timeout.
func NewHTTPClassifier(baseURL string, timeout time.Duration) *HTTPClassifier {
	return &HTTPClassifier{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// Ping checks /health. Any failure is reported as ErrResourceUnavailable.
func (c *HTTPClassifier) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return common.Unavailable("model server", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return common.Unavailable("model server", err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return common.Unavailable("model server", fmt.Errorf("health check returned %d", resp.StatusCode))
	}
	return nil
}

// Classify posts the scaled vector to /predict. Each call is exactly one request.
func (c *HTTPClassifier) Classify(ctx context.Context, vector service.ScaledVector) (service.Prediction, error) {
	body, err := json.Marshal(PredictRequest{Features: vector[:]})
	if err != nil {
		return service.Prediction{}, fmt.Errorf("error marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return service.Prediction{}, fmt.Errorf("error building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return service.Prediction{}, fmt.Errorf("error sending request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return service.Prediction{}, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var out PredictResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return service.Prediction{}, fmt.Errorf("error decoding response: %w", err)
	}

	return toPrediction(out)
}

func toPrediction(out PredictResponse) (service.Prediction, error) {
	if out.Label != 0 && out.Label != 1 {
		return service.Prediction{}, fmt.Errorf("model server returned label %d", out.Label)
	}
	if len(out.Probabilities) != 2 {
		return service.Prediction{}, fmt.Errorf("model server returned %d probabilities, want 2", len(out.Probabilities))
	}
	for _, p := range out.Probabilities {
		if math.IsNaN(p) || p < 0 || p > 1 {
			return service.Prediction{}, fmt.Errorf("model server returned probability %v", p)
		}
	}

	return service.Prediction{
		Class:         out.Label,
		Probabilities: [2]float64{out.Probabilities[0], out.Probabilities[1]},
	}, nil
}
