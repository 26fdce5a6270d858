// Package config provides configuration loading and structs for lectio.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Database   DatabaseConfig   `yaml:"database"`
	Source     SourceConfig     `yaml:"source"`
	Segment    SegmentConfig    `yaml:"segment"`
	AI         AIConfig         `yaml:"ai"`
	Enrichment EnrichmentConfig `yaml:"enrichment"`
	WordPress  WordPressConfig  `yaml:"wordpress"`
	Schedule   ScheduleConfig   `yaml:"schedule"`
}

// DatabaseConfig holds the storage path.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// SourceConfig locates the source text and its boilerplate markers.
type SourceConfig struct {
	Path        string `yaml:"path"`
	StartMarker string `yaml:"start_marker"`
	EndMarker   string `yaml:"end_marker"`
}

// SegmentConfig holds chunk size bounds in bytes.
type SegmentConfig struct {
	TargetSize int `yaml:"target_size"`
	MinSize    int `yaml:"min_size"`
	MaxSize    int `yaml:"max_size"`
}

// AIConfig holds generation service settings.
// The token can also come from the LECTIO_AI_TOKEN environment variable.
type AIConfig struct {
	Host        string  `yaml:"host"`
	Model       string  `yaml:"model"`
	Token       string  `yaml:"token"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

// EnrichmentConfig holds retry and reporting settings.
type EnrichmentConfig struct {
	MaxRetries     int    `yaml:"max_retries"`
	RetryDelay     string `yaml:"retry_delay"`
	ReportInterval int    `yaml:"report_interval"`
}

// Delay parses the retry delay, e.g. "2s" or "500ms".
func (e *EnrichmentConfig) Delay() (time.Duration, error) {
	d, err := time.ParseDuration(e.RetryDelay)
	if err != nil {
		return 0, fmt.Errorf("invalid enrichment retry_delay %q: %w", e.RetryDelay, err)
	}
	return d, nil
}

// WordPressConfig holds publication destination settings.
// The access token can also come from the WORDPRESS_ACCESS_TOKEN
// environment variable, which takes precedence over the file.
type WordPressConfig struct {
	SiteURL     string `yaml:"site_url"`
	AccessToken string `yaml:"access_token"`
	Category    string `yaml:"category"`
}

// ScheduleConfig holds the posting calendar.
type ScheduleConfig struct {
	// StartDate is the day chunk 0 posts, in YYYY-MM-DD form.
	StartDate string `yaml:"start_date"`
}

// Start parses the schedule start date. A missing date returns the zero
// time, which downstream treats as "post-dated now".
func (s *ScheduleConfig) Start() (time.Time, error) {
	if s.StartDate == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", s.StartDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid schedule start_date %q: %w", s.StartDate, err)
	}
	return t, nil
}

// Load reads and parses the config file at path, expands paths, applies
// defaults, and overlays secret values from the environment.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)
	applyEnv(&cfg)

	configDir := filepath.Dir(path)
	cfg.Database.Path = expandPath(cfg.Database.Path, configDir)
	cfg.Source.Path = expandPath(cfg.Source.Path, configDir)

	return &cfg, nil
}

// ApplyDefaults fills in zero-valued fields.
func ApplyDefaults(cfg *Config) {
	if cfg.Database.Path == "" {
		cfg.Database.Path = "./lectio.db"
	}
	if cfg.Segment.TargetSize == 0 {
		cfg.Segment.TargetSize = 2500
	}
	if cfg.Segment.MinSize == 0 {
		cfg.Segment.MinSize = 2000
	}
	if cfg.Segment.MaxSize == 0 {
		cfg.Segment.MaxSize = 3000
	}
	if cfg.AI.Host == "" {
		cfg.AI.Host = "http://localhost:11434/v1"
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = "qwen2.5:14b"
	}
	if cfg.AI.MaxTokens == 0 {
		cfg.AI.MaxTokens = 4096
	}
	if cfg.AI.Temperature == 0 {
		cfg.AI.Temperature = 0.3
	}
	if cfg.Enrichment.MaxRetries == 0 {
		cfg.Enrichment.MaxRetries = 3
	}
	if cfg.Enrichment.RetryDelay == "" {
		cfg.Enrichment.RetryDelay = "1s"
	}
	if cfg.Enrichment.ReportInterval == 0 {
		cfg.Enrichment.ReportInterval = 10
	}
}

// applyEnv overlays secrets from the environment. Environment values win
// over the file so tokens can stay out of committed configs.
func applyEnv(cfg *Config) {
	if v := os.Getenv("WORDPRESS_ACCESS_TOKEN"); v != "" {
		cfg.WordPress.AccessToken = v
	}
	if v := os.Getenv("LECTIO_AI_TOKEN"); v != "" {
		cfg.AI.Token = v
	}
}

// expandPath converts a path to absolute. Paths starting with "./" are
// relative to configDir; other relative paths are relative to the home
// directory.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
