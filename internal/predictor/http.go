package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultPath is the prediction endpoint of the forecasting backend.
const DefaultPath = "/predict-energy"

// maxBodyBytes caps how much of a response is read.
const maxBodyBytes = 1 << 20

// HTTPPredictor calls the forecasting backend over JSON/HTTP.
type HTTPPredictor struct {
	BaseURL string
	Path    string
	APIKey  string
	Client  *http.Client
}

// NewHTTPPredictor creates a predictor with optional proxy support.
// The client timeout is a backstop; callers bound each call with a context.
func NewHTTPPredictor(baseURL, path, apiKey, proxyURL string, timeout time.Duration) *HTTPPredictor {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if path == "" {
		path = DefaultPath
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPPredictor{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Path:    path,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

func (p *HTTPPredictor) Name() string { return "http" }

type predictRequest struct {
	Last24Values []float64 `json:"last_24_values"`
}

// predictResponse uses a pointer so a missing or null field is detectable.
type predictResponse struct {
	PredictedEnergy *float64 `json:"predicted_energy"`
}

// PredictNext posts the readings and returns the predicted next-hour value.
// Errors are *TransportError, *APIError or *DataError.
func (p *HTTPPredictor) PredictNext(ctx context.Context, values []float64) (float64, error) {
	payload, err := json.Marshal(predictRequest{Last24Values: values})
	if err != nil {
		return 0, fmt.Errorf("marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+p.Path, bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if p.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.APIKey)
	}

	start := time.Now()
	resp, err := p.Client.Do(req)
	if err != nil {
		log.Warn().Str("component", "predictor").Err(err).Dur("duration", time.Since(start)).Msg("request failed")
		return 0, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return 0, &TransportError{Err: fmt.Errorf("read body: %w", err)}
	}
	log.Debug().Str("component", "predictor").Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).Msg("response received")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return parsePrediction(body)
}

// parsePrediction validates the payload instead of trusting the field type.
func parsePrediction(body []byte) (float64, error) {
	var result predictResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return 0, &DataError{Reason: err.Error()}
	}
	if result.PredictedEnergy == nil {
		return 0, &DataError{Reason: "missing numeric field predicted_energy"}
	}
	return *result.PredictedEnergy, nil
}
