package advisory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// HTTPConfig configures an HTTPAdvisor.
type HTTPConfig struct {
	URL         string
	APIKey      string
	Timeout     time.Duration
	MinInterval time.Duration // minimum spacing between calls
}

// HTTPAdvisor posts a Brief as JSON and reads {"text": "..."} back.
type HTTPAdvisor struct {
	url        string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

type adviceResponse struct {
	Text  string `json:"text"`
	Error string `json:"error,omitempty"`
}

// NewHTTPAdvisor creates an advisor client. It returns ErrNotConfigured when
// cfg.URL is empty.
func NewHTTPAdvisor(cfg HTTPConfig) (*HTTPAdvisor, error) {
	if cfg.URL == "" {
		return nil, ErrNotConfigured
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Minute
	}
	limit := rate.Inf
	if cfg.MinInterval > 0 {
		limit = rate.Every(cfg.MinInterval)
	}
	return &HTTPAdvisor{
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(limit, 1),
	}, nil
}

// Advise sends the brief and returns the advisor's raw text.
func (a *HTTPAdvisor) Advise(ctx context.Context, brief Brief) (string, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait failed: %w", err)
	}

	body, err := json.Marshal(brief)
	if err != nil {
		return "", fmt.Errorf("encode brief: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if a.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+a.apiKey)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var out adviceResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("unexpected response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		if out.Error != "" {
			return "", fmt.Errorf("advisor error (status %d): %s", resp.StatusCode, out.Error)
		}
		return "", fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}
	return out.Text, nil
}
