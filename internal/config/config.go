package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Storage
	DBPath string

	// Pipeline
	Model            string
	EnablePipes      []string
	DisablePipes     []string
	LoadDefaultRules bool

	// Optional YAML rule files merged on top of the defaults.
	TargetRulesFile      string
	ContextRulesFile     string
	SectionRulesFile     string
	PostprocessRulesFile string

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL time.Duration

	// PDF
	PDFFallbackPdftotext bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8091"),

		APIKey: os.Getenv("CLINPIPE_API_KEY"),

		DBPath: envOr("DB_PATH", "clinpipe.db"),

		Model:            envOr("MODEL", "clinical"),
		EnablePipes:      envList("ENABLE_PIPES"),
		DisablePipes:     envList("DISABLE_PIPES"),
		LoadDefaultRules: envBool("LOAD_DEFAULT_RULES", true),

		TargetRulesFile:      os.Getenv("TARGET_RULES_FILE"),
		ContextRulesFile:     os.Getenv("CONTEXT_RULES_FILE"),
		SectionRulesFile:     os.Getenv("SECTION_RULES_FILE"),
		PostprocessRulesFile: os.Getenv("POSTPROCESS_RULES_FILE"),

		WorkerCount:  envInt("WORKER_COUNT", 4),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

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
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("CLINPIPE_API_KEY is required")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH is required")
	}
	if c.Model != "clinical" && c.Model != "generic" {
		return fmt.Errorf("MODEL must be clinical or generic, got %q", c.Model)
	}
	return nil
}

// RuleFiles returns the configured rule file paths, empties included.
func (c Config) RuleFiles() []string {
	return []string{
		c.TargetRulesFile,
		c.ContextRulesFile,
		c.SectionRulesFile,
		c.PostprocessRulesFile,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
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
