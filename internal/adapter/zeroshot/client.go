package zeroshot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/hazard-verify-service/internal/domain"
	"github.com/couchcryptid/hazard-verify-service/internal/observability"
)

// Client implements domain.Classifier against a zero-shot classification
// endpoint speaking the Hugging Face inference wire format.
type Client struct {
	url        string
	token      string
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a zero-shot classification client.
func NewClient(url, token string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		url:   url,
		token: token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: metrics,
		logger:  logger,
	}
}

// Classify scores text against labels and returns them in the order the
// endpoint ranked them.
func (c *Client) Classify(ctx context.Context, text string, labels []string) ([]domain.LabelScore, error) {
	body, err := json.Marshal(request{
		Inputs:     text,
		Parameters: parameters{CandidateLabels: labels},
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.ClassifierAPIDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("classify request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("classifier API error: status %d: %s", resp.StatusCode, msg)
	}

	var out response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(out.Labels) != len(out.Scores) {
		return nil, fmt.Errorf("decode response: %d labels but %d scores", len(out.Labels), len(out.Scores))
	}

	scores := make([]domain.LabelScore, len(out.Labels))
	for i, label := range out.Labels {
		scores[i] = domain.LabelScore{Label: label, Score: out.Scores[i]}
	}
	c.logger.Debug("classified text", "labels", len(scores))
	return scores, nil
}

// Zero-shot API wire types.

type request struct {
	Inputs     string     `json:"inputs"`
	Parameters parameters `json:"parameters"`
}

type parameters struct {
	CandidateLabels []string `json:"candidate_labels"`
}

type response struct {
	Sequence string    `json:"sequence"`
	Labels   []string  `json:"labels"`
	Scores   []float64 `json:"scores"`
}
