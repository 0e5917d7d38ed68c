package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the osintinfo service configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Provider  ProviderConfig  `yaml:"provider"`
	Auth      AuthConfig      `yaml:"auth"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Handoff   HandoffConfig   `yaml:"handoff"`
	Ledger    LedgerConfig    `yaml:"ledger"`
	Tracking  TrackingConfig  `yaml:"tracking"`
	Archive   ArchiveConfig   `yaml:"archive"`
	Export    ExportConfig    `yaml:"export"`
	Ping      PingConfig      `yaml:"ping"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
	MaxBodyKB       int `yaml:"max_body_kb"`
}

// DatabaseConfig holds Redis connection settings.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// BudgetConfig holds upstream search budget settings.
type BudgetConfig struct {
	DailySearchLimit   int64  `yaml:"daily_search_limit"`   // 0 = unlimited
	MonthlySearchLimit int64  `yaml:"monthly_search_limit"` // 0 = unlimited
	Action             string `yaml:"action"`               // "reject" | "warn" (default)
}

// ProviderConfig holds breach API settings.
type ProviderConfig struct {
	Name            string       `yaml:"name"`
	APIKey          string       `yaml:"api_key"`
	APIKeySecretARN string       `yaml:"api_key_secret_arn"`
	BaseURL         string       `yaml:"base_url"`
	TimeoutSec      int          `yaml:"timeout_sec"`
	Budget          BudgetConfig `yaml:"budget"`
}

// RateLimitConfig holds per-IP rate limiting settings.
type RateLimitConfig struct {
	Enabled           bool    `yaml:"enabled"`
	Backend           string  `yaml:"backend"` // memory (default) | redis
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
	IdleTTLSec        int     `yaml:"idle_ttl_sec"`
	SweepSchedule     string  `yaml:"sweep_schedule"`
}

// HandoffConfig holds result handoff settings.
type HandoffConfig struct {
	TTLSec int `yaml:"ttl_sec"`
}

// LedgerConfig holds the credit ledger database settings. Empty DSN disables the ledger.
type LedgerConfig struct {
	DSN          string `yaml:"dsn"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	AutoMigrate  bool   `yaml:"auto_migrate"`
}

// TrackingConfig holds search event webhook settings. Empty URL disables delivery.
type TrackingConfig struct {
	WebhookURL string `yaml:"webhook_url"`
	TimeoutSec int    `yaml:"timeout_sec"`
	QueueSize  int    `yaml:"queue_size"`
}

// ArchiveConfig holds export archive settings. Empty bucket disables archiving.
type ArchiveConfig struct {
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	Prefix          string `yaml:"prefix"`
	PublicBaseURL   string `yaml:"public_base_url"`
	UsePathStyle    bool   `yaml:"use_path_style"`
}

// ExportConfig holds export header and footer text.
type ExportConfig struct {
	Site        string `yaml:"site"`
	SupportLine string `yaml:"support_line"`
	ThanksLine  string `yaml:"thanks_line"`
}

// PingConfig holds the /api/ping answer.
type PingConfig struct {
	Message string `yaml:"message"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
// A .env file in the working directory is loaded first when present.
func Load(env string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse expands ${VAR} references, decodes YAML, applies defaults and validates.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.HTTP.MaxBodyKB <= 0 {
		c.HTTP.MaxBodyKB = 1024
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Provider.Name == "" {
		c.Provider.Name = "leakosint"
	}
	if c.Provider.BaseURL == "" {
		c.Provider.BaseURL = "https://leakosintapi.com/"
	}
	if c.Provider.TimeoutSec <= 0 {
		c.Provider.TimeoutSec = 15
	}
	if c.RateLimit.Backend == "" {
		c.RateLimit.Backend = "memory"
	}
	if c.RateLimit.RequestsPerSecond <= 0 {
		c.RateLimit.RequestsPerSecond = 1
	}
	if c.RateLimit.Burst <= 0 {
		c.RateLimit.Burst = 1
	}
	if c.RateLimit.IdleTTLSec <= 0 {
		c.RateLimit.IdleTTLSec = 300
	}
	if c.RateLimit.SweepSchedule == "" {
		c.RateLimit.SweepSchedule = "@every 1m"
	}
	if c.Handoff.TTLSec <= 0 {
		c.Handoff.TTLSec = 3600
	}
	if c.Ledger.MaxOpenConns <= 0 {
		c.Ledger.MaxOpenConns = 10
	}
	if c.Tracking.TimeoutSec <= 0 {
		c.Tracking.TimeoutSec = 5
	}
	if c.Tracking.QueueSize <= 0 {
		c.Tracking.QueueSize = 64
	}
	if c.Archive.Region == "" {
		c.Archive.Region = "us-east-1"
	}
	if c.Archive.Prefix == "" {
		c.Archive.Prefix = "exports/"
	}
	if c.Ping.Message == "" {
		c.Ping.Message = "ping"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	switch c.Provider.Budget.Action {
	case "", "warn", "reject":
	default:
		return fmt.Errorf(
			"provider.budget.action must be \"warn\" or \"reject\", got %q",
			c.Provider.Budget.Action,
		)
	}
	switch c.RateLimit.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("rate_limit.backend must be \"memory\" or \"redis\", got %q", c.RateLimit.Backend)
	}
	if c.Archive.AccessKeyID != "" && c.Archive.SecretAccessKey == "" {
		return fmt.Errorf("archive.secret_access_key is required with archive.access_key_id")
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
