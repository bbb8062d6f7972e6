package generate

import (
	"context"
	"fmt"

	"reportctx/internal/chunker"
)

// Stub is a deterministic offline backend. It answers with a short
// acknowledgement of the prompt so the rest of the pipeline can be
// exercised without a model server.
type Stub struct{}

func NewStub() *Stub {
	return &Stub{}
}

func (s *Stub) Generate(_ context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", &GenerationError{Backend: "stub", Err: fmt.Errorf("empty prompt")}
	}
	return fmt.Sprintf("[stub] received a prompt of ~%d tokens; no model is configured.",
		chunker.EstimateTokens(prompt)), nil
}

func (s *Stub) Available(context.Context) bool {
	return true
}
