package generate

import (
	"context"
	"errors"
	"fmt"
)

// Generator turns an assembled prompt into answer text. Backends are
// interchangeable: callers never depend on which model sits behind it.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Available(ctx context.Context) bool
}

// ErrUnavailable means the backend is not reachable or not ready.
// Callers surface it as a structured failure result, not a crash.
var ErrUnavailable = errors.New("generation backend unavailable")

// GenerationError wraps a backend failure with its origin.
type GenerationError struct {
	Backend string
	Err     error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s generation failed: %v", e.Backend, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Options selects and configures a backend.
type Options struct {
	Backend string // "ollama" or "stub"
	BaseURL string
	Model   string
}

// New builds a Generator for the configured backend.
func New(opts Options) (Generator, error) {
	switch opts.Backend {
	case "ollama":
		return NewOllamaClient(opts.BaseURL, opts.Model), nil
	case "stub", "":
		return NewStub(), nil
	default:
		return nil, fmt.Errorf("unknown generation backend %q", opts.Backend)
	}
}
