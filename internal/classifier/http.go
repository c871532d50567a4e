package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jonathan/resume-profiler/internal/httputil"
	"github.com/jonathan/resume-profiler/internal/types"
)

// MaxResponseBytes caps how much of a classifier response is read
const MaxResponseBytes = 1 << 20

// DefaultMaxRetries is how often an HTTP 429 is retried
const DefaultMaxRetries = 2

// HTTPClassifier posts document text to a remote classification endpoint
type HTTPClassifier struct {
	endpoint   string
	client     *http.Client
	maxRetries int
}

// HTTPOption configures an HTTPClassifier
type HTTPOption func(*HTTPClassifier)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(h *HTTPClassifier) {
		if c != nil {
			h.client = c
		}
	}
}

// WithMaxRetries sets how many HTTP 429 responses are retried
func WithMaxRetries(n int) HTTPOption {
	return func(h *HTTPClassifier) {
		if n > 0 {
			h.maxRetries = n
		}
	}
}

// NewHTTPClassifier creates a classifier for the given endpoint URL
func NewHTTPClassifier(endpoint string, opts ...HTTPOption) *HTTPClassifier {
	h := &HTTPClassifier{
		endpoint:   endpoint,
		client:     &http.Client{Timeout: 30 * time.Second},
		maxRetries: DefaultMaxRetries,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Classify sends {"text": text} with the caller's bearer token and decodes
// the Profile-shaped response.
func (h *HTTPClassifier) Classify(ctx context.Context, text, authToken string) (*types.ProfileCandidate, error) {
	body, err := json.Marshal(types.ClassifyRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("failed to encode classify request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &APICallError{Message: "failed to build request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}

	resp, err := httputil.DoWithRetry(ctx, h.client, req, h.maxRetries)
	if err != nil {
		return nil, &APICallError{Message: "request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseBytes+1))
	if err != nil {
		return nil, &APICallError{Message: "failed to read response", StatusCode: resp.StatusCode, Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APICallError{Message: "unexpected status", StatusCode: resp.StatusCode}
	}
	if len(data) > MaxResponseBytes {
		return nil, &ParseError{Message: "response exceeds 1 MiB"}
	}

	return DecodeCandidate(string(data))
}
