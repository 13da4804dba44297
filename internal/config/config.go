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

	// Worker pool
	WorkerCount       int
	MaxQueueSize      int
	MaxConcurrentDocs int

	// Upload limits
	MaxUploadBytes int64

	// Static tables
	LexiconDir string

	// Output artifacts
	OutputDir string

	// Pipeline tunables
	TopKSections       int
	SummarySentences   int
	MinSectionWords    int
	MaxSectionsPerPage int
	TitleMaxLen        int

	// Job state
	JobTTL time.Duration

	// Soft time budget per collection; exceeding it logs a warning and
	// flushes partial output instead of failing.
	ProcessBudget time.Duration

	// PDF
	PDFFallbackPdftotext bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("DOCRANK_API_KEY"),

		WorkerCount:       envInt("WORKER_COUNT", 4),
		MaxQueueSize:      envInt("MAX_QUEUE_SIZE", 100),
		MaxConcurrentDocs: envInt("MAX_CONCURRENT_DOCS", 4),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		LexiconDir: os.Getenv("DOCRANK_LEXICON_DIR"),
		OutputDir:  os.Getenv("DOCRANK_OUTPUT_DIR"),

		TopKSections:       envInt("TOP_K_SECTIONS", 5),
		SummarySentences:   envInt("SUMMARY_SENTENCES", 4),
		MinSectionWords:    envInt("MIN_SECTION_WORDS", 15),
		MaxSectionsPerPage: envInt("MAX_SECTIONS_PER_PAGE", 15),
		TitleMaxLen:        envInt("TITLE_MAX_LEN", 80),

		JobTTL:        envDuration("JOB_TTL", 1*time.Hour),
		ProcessBudget: envDuration("PROCESS_BUDGET", 60*time.Second),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxConcurrentDocs <= 0 {
		cfg.MaxConcurrentDocs = 4
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.TopKSections <= 0 {
		cfg.TopKSections = 5
	}
	if cfg.SummarySentences < 3 || cfg.SummarySentences > 5 {
		cfg.SummarySentences = 4
	}
	if cfg.MinSectionWords <= 0 {
		cfg.MinSectionWords = 15
	}
	if cfg.TitleMaxLen <= 0 {
		cfg.TitleMaxLen = 80
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

// Validate checks the settings the HTTP server cannot run without. The
// CLI paths do not require an API key and skip this.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("DOCRANK_API_KEY is required")
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
