package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Cache
	CacheDir    string
	DatabaseURL string // optional Postgres mirror

	// Section taxonomy override (YAML); empty uses the built-in table
	TaxonomyPath string

	// Generation backend
	GeneratorBackend string
	OllamaURL        string
	OllamaModel      string

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// Token budgets
	MaxChunkTokens   int
	OverlapTokens    int
	MaxContextTokens int

	// Job state
	JobTTL time.Duration

	// PDF
	PDFFallbackPdftotext bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("REPORTCTX_API_KEY"),

		CacheDir:    envOr("CACHE_DIR", "cache"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		TaxonomyPath: os.Getenv("TAXONOMY_PATH"),

		GeneratorBackend: envOr("GENERATOR_BACKEND", "stub"),
		OllamaURL:        envOr("OLLAMA_URL", "http://localhost:11434"),
		OllamaModel:      envOr("OLLAMA_MODEL", "llama3"),

		WorkerCount:  envInt("WORKER_COUNT", 4),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		MaxChunkTokens:   envInt("MAX_CHUNK_TOKENS", 1000),
		OverlapTokens:    envInt("OVERLAP_TOKENS", 100),
		MaxContextTokens: envInt("MAX_CONTEXT_TOKENS", 4000),

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.MaxChunkTokens <= 0 {
		cfg.MaxChunkTokens = 1000
	}
	if cfg.OverlapTokens < 0 {
		cfg.OverlapTokens = 100
	}
	if cfg.MaxContextTokens <= 0 {
		cfg.MaxContextTokens = 4000
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("REPORTCTX_API_KEY is required")
	}
	if c.CacheDir == "" {
		return fmt.Errorf("CACHE_DIR must not be empty")
	}
	switch c.GeneratorBackend {
	case "stub", "ollama":
	default:
		return fmt.Errorf("GENERATOR_BACKEND must be stub or ollama, got %q", c.GeneratorBackend)
	}
	if c.OverlapTokens >= c.MaxChunkTokens {
		return fmt.Errorf("OVERLAP_TOKENS must be smaller than MAX_CHUNK_TOKENS")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
