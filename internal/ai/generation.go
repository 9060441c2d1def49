package ai

import (
	"context"
	"errors"
	"fmt"
)

// ErrorKind classifies a terminal generation failure.
type ErrorKind string

const (
	KindRateLimited  ErrorKind = "RATE_LIMITED"
	KindUnavailable  ErrorKind = "UNAVAILABLE"
	KindTimeout      ErrorKind = "TIMEOUT"
	KindClientError  ErrorKind = "CLIENT_ERROR"
	KindParseFailure ErrorKind = "PARSE_FAILURE"
)

// GenerationError is the single terminal error a Generate call (or a
// response parser) surfaces. Intermediate retry attempts never escape the
// client.
type GenerationError struct {
	Kind     ErrorKind
	Detail   string
	Attempts int
}

func (e *GenerationError) Error() string {
	if e.Attempts > 0 {
		return fmt.Sprintf("generation failed (%s) after %d attempt(s): %s", e.Kind, e.Attempts, e.Detail)
	}
	return fmt.Sprintf("generation failed (%s): %s", e.Kind, e.Detail)
}

// Retryable reports whether the classification is transient.
func (e *GenerationError) Retryable() bool {
	switch e.Kind {
	case KindRateLimited, KindUnavailable, KindTimeout:
		return true
	}
	return false
}

// IsKind reports whether err is a GenerationError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return genErr.Kind == kind
	}
	return false
}

// GenerationRequest is the text-generation payload produced by the prompt
// builder. It is created per call and never reused.
type GenerationRequest struct {
	Prompt       string
	MaxNewTokens int
	Temperature  float64
	TopP         float64
	Stop         []string
}

// Generator is the port the feature services depend on; Client is the
// production implementation.
type Generator interface {
	Generate(ctx context.Context, req GenerationRequest) (string, error)
}
