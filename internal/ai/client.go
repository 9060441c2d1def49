package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"tutorhub/internal/config"

	"go.uber.org/zap"
)

// Client dispatches generation requests to a single configured
// text-generation endpoint (HuggingFace inference wire format: an
// {"inputs", "parameters"} POST with a bearer token). It owns the retry,
// backoff and timeout policy; callers only ever see the terminal outcome.
type Client struct {
	endpoint     string
	token        string
	httpClient   *http.Client
	maxAttempts  int
	baseDelay    time.Duration
	maxDelay     time.Duration
	totalCeiling time.Duration
	logger       *zap.Logger

	// injectable for deterministic tests
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewClient builds a Client from immutable startup configuration.
func NewClient(cfg config.AIConfig, logger *zap.Logger) *Client {
	maxAttempts := cfg.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	baseDelay := cfg.BaseDelay
	if baseDelay <= 0 {
		baseDelay = 2 * time.Second
	}
	maxDelay := cfg.MaxDelay
	if maxDelay < baseDelay {
		maxDelay = baseDelay
	}
	totalCeiling := cfg.TotalCeiling
	if totalCeiling <= 0 {
		totalCeiling = 90 * time.Second
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		endpoint: cfg.Endpoint,
		token:    cfg.Token,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     timeout,
			},
		},
		maxAttempts:  maxAttempts,
		baseDelay:    baseDelay,
		maxDelay:     maxDelay,
		totalCeiling: totalCeiling,
		logger:       logger,
		now:          time.Now,
		sleep:        sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

type retryPhase int

const (
	phaseAttempting retryPhase = iota
	phaseBackoff
	phaseTerminal
)

// retryState lives only inside a single Generate call.
type retryState struct {
	attempt  int
	lastKind ErrorKind
	started  time.Time
}

// backoffDelay returns the exponential delay before the next attempt:
// base doubling per completed attempt, capped at max. attempt is >= 1.
func backoffDelay(base, max time.Duration, attempt int) time.Duration {
	d := base
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= max {
			return max
		}
	}
	if d > max {
		return max
	}
	return d
}

// Generate issues the request and returns either the cleaned generated text
// or a single terminal GenerationError. Attempts are strictly sequential;
// RateLimited, Unavailable and Timeout outcomes are retried with exponential
// backoff until the attempt cap or the elapsed ceiling is hit.
func (c *Client) Generate(ctx context.Context, req GenerationRequest) (string, error) {
	state := retryState{started: c.now()}
	var terminal *GenerationError

	phase := phaseAttempting
	for {
		switch phase {
		case phaseAttempting:
			text, attemptErr := c.attempt(ctx, req)
			if attemptErr == nil {
				return cleanResponse(text, req), nil
			}
			state.attempt++
			state.lastKind = attemptErr.Kind
			terminal = attemptErr
			c.logger.Warn("generation attempt failed",
				zap.String("kind", string(attemptErr.Kind)),
				zap.Int("attempt", state.attempt),
				zap.String("detail", attemptErr.Detail),
			)
			if !attemptErr.Retryable() || state.attempt >= c.maxAttempts {
				phase = phaseTerminal
				break
			}
			phase = phaseBackoff

		case phaseBackoff:
			delay := backoffDelay(c.baseDelay, c.maxDelay, state.attempt)
			if c.now().Sub(state.started)+delay > c.totalCeiling {
				phase = phaseTerminal
				break
			}
			if err := c.sleep(ctx, delay); err != nil {
				terminal = &GenerationError{Kind: KindTimeout, Detail: err.Error()}
				phase = phaseTerminal
				break
			}
			phase = phaseAttempting

		case phaseTerminal:
			terminal.Attempts = state.attempt
			return "", terminal
		}
	}
}

type generationParameters struct {
	MaxNewTokens   int      `json:"max_new_tokens"`
	Temperature    float64  `json:"temperature"`
	TopP           float64  `json:"top_p,omitempty"`
	ReturnFullText bool     `json:"return_full_text"`
	Stop           []string `json:"stop,omitempty"`
}

type generationPayload struct {
	Inputs     string               `json:"inputs"`
	Parameters generationParameters `json:"parameters"`
}

// attempt performs exactly one network round trip and classifies the outcome.
func (c *Client) attempt(ctx context.Context, req GenerationRequest) (string, *GenerationError) {
	payload := generationPayload{
		Inputs: req.Prompt,
		Parameters: generationParameters{
			MaxNewTokens:   req.MaxNewTokens,
			Temperature:    req.Temperature,
			TopP:           req.TopP,
			ReturnFullText: false,
			Stop:           req.Stop,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", &GenerationError{Kind: KindClientError, Detail: fmt.Sprintf("failed to encode payload: %v", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", &GenerationError{Kind: KindClientError, Detail: fmt.Sprintf("failed to build request: %v", err)}
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.token)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if isTimeout(err) {
			return "", &GenerationError{Kind: KindTimeout, Detail: err.Error()}
		}
		return "", &GenerationError{Kind: KindUnavailable, Detail: err.Error()}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return decodeGeneratedText(resp.Body)
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", &GenerationError{Kind: KindRateLimited, Detail: "endpoint rate limited the request"}
	case resp.StatusCode == http.StatusServiceUnavailable:
		return "", &GenerationError{Kind: KindUnavailable, Detail: "endpoint unavailable (503)"}
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return "", &GenerationError{Kind: KindClientError, Detail: fmt.Sprintf("endpoint rejected the request with status %d", resp.StatusCode)}
	default:
		return "", &GenerationError{Kind: KindUnavailable, Detail: fmt.Sprintf("unexpected status %d", resp.StatusCode)}
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// decodeGeneratedText handles both response shapes the inference endpoint
// emits: a single-element array of objects, or a bare object.
func decodeGeneratedText(r io.Reader) (string, *GenerationError) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return "", &GenerationError{Kind: KindUnavailable, Detail: fmt.Sprintf("failed to read response body: %v", err)}
	}

	var asList []struct {
		GeneratedText string `json:"generated_text"`
	}
	if err := json.Unmarshal(raw, &asList); err == nil && len(asList) > 0 {
		return asList[0].GeneratedText, nil
	}

	var asObject struct {
		GeneratedText string `json:"generated_text"`
	}
	if err := json.Unmarshal(raw, &asObject); err == nil && asObject.GeneratedText != "" {
		return asObject.GeneratedText, nil
	}

	return "", &GenerationError{Kind: KindUnavailable, Detail: "response body had no generated_text"}
}

// cleanResponse trims whitespace, strips an echoed prompt prefix, and cuts
// the text at the first stop sequence if the model included one.
func cleanResponse(text string, req GenerationRequest) string {
	text = strings.TrimSpace(text)
	if req.Prompt != "" && strings.HasPrefix(text, req.Prompt) {
		text = strings.TrimSpace(strings.TrimPrefix(text, req.Prompt))
	}
	for _, stop := range req.Stop {
		if idx := strings.Index(text, stop); idx >= 0 {
			text = text[:idx]
		}
	}
	return strings.TrimSpace(text)
}
