package generate

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt("FINANCIAL SUMMARY:\nRevenue: ₹50000", "What was revenue?", "TCS")

	if !strings.Contains(prompt, "annual report of TCS") {
		t.Errorf("company name missing from prompt: %q", prompt)
	}
	if !strings.Contains(prompt, "USER QUERY: What was revenue?") {
		t.Errorf("query missing from prompt: %q", prompt)
	}
	if !strings.Contains(prompt, "Revenue: ₹50000") {
		t.Errorf("context missing from prompt: %q", prompt)
	}
	if !strings.HasSuffix(prompt, "ANSWER:") {
		t.Errorf("prompt should end with the answer cue: %q", prompt)
	}
}

func TestBuildPromptDefaultCompanyName(t *testing.T) {
	prompt := BuildPrompt("ctx", "query", "")
	if !strings.Contains(prompt, "annual report of the company") {
		t.Errorf("expected generic company fallback, got %q", prompt)
	}
}

func TestNewSelectsBackend(t *testing.T) {
	gen, err := New(Options{Backend: "stub"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := gen.(*Stub); !ok {
		t.Errorf("expected *Stub, got %T", gen)
	}

	gen, err = New(Options{Backend: "ollama", BaseURL: "http://localhost:11434", Model: "llama3"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := gen.(*OllamaClient); !ok {
		t.Errorf("expected *OllamaClient, got %T", gen)
	}

	if _, err := New(Options{Backend: "finagent"}); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestStubGenerate(t *testing.T) {
	stub := NewStub()
	if !stub.Available(context.Background()) {
		t.Fatal("stub should always be available")
	}

	answer, err := stub.Generate(context.Background(), "analyze this report")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if answer == "" {
		t.Error("expected a non-empty stub answer")
	}

	if _, err := stub.Generate(context.Background(), ""); err == nil {
		t.Error("expected error for empty prompt")
	}
}

func TestOllamaGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/generate":
			w.Write([]byte(`{"response":"Revenue was 50000 crores.","done":true}`))
		case "/api/tags":
			w.Write([]byte(`{"models":[]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := NewOllamaClient(srv.URL, "llama3")
	defer client.Close()

	if !client.Available(context.Background()) {
		t.Fatal("expected server to report available")
	}

	answer, err := client.Generate(context.Background(), "What was revenue?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if answer != "Revenue was 50000 crores." {
		t.Errorf("unexpected answer %q", answer)
	}
}

func TestOllamaGenerateModelError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":"model not found"}`))
	}))
	defer srv.Close()

	client := NewOllamaClient(srv.URL, "missing")
	defer client.Close()

	_, err := client.Generate(context.Background(), "prompt")
	var genErr *GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected GenerationError, got %v", err)
	}
	if genErr.Backend != "ollama" {
		t.Errorf("expected ollama backend in error, got %q", genErr.Backend)
	}
}

func TestOllamaGenerateUnreachable(t *testing.T) {
	client := NewOllamaClient("http://127.0.0.1:1", "llama3")
	defer client.Close()

	if client.Available(context.Background()) {
		t.Error("expected unreachable server to report unavailable")
	}

	_, err := client.Generate(context.Background(), "prompt")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}
