package config

import (
	"strings"
	"testing"
)

func validConfig() Config {
	return Config{
		HTTP:     HTTPConfig{Port: 8080},
		Database: DatabaseConfig{Addrs: []string{"localhost:6379"}},
	}
}

func TestValidate_InvalidBudgetAction(t *testing.T) {
	cfg := validConfig()
	cfg.Provider.Budget = BudgetConfig{DailySearchLimit: 1000, Action: "invalid_action"}
	cfg.ApplyDefaults()

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid budget action")
	}

	expected := `provider.budget.action must be "warn" or "reject", got "invalid_action"`
	if err.Error() != expected {
		t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), expected)
	}
}

func TestValidate_ValidBudgetActions(t *testing.T) {
	validActions := []string{"", "warn", "reject"}

	for _, action := range validActions {
		t.Run("action="+action, func(t *testing.T) {
			cfg := validConfig()
			cfg.Provider.Budget.Action = action
			cfg.ApplyDefaults()

			if err := cfg.Validate(); err != nil {
				t.Fatalf("unexpected error for valid action %q: %v", action, err)
			}
		})
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingDatabaseAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Addrs = []string{}
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing database addrs")
	}
}

func TestValidate_RateLimitBackend(t *testing.T) {
	cfg := validConfig()
	cfg.RateLimit.Backend = "memcached"
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown rate limit backend")
	}
}

func TestValidate_ArchiveCredentials(t *testing.T) {
	cfg := validConfig()
	cfg.Archive.AccessKeyID = "AKIA"
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for access key without secret")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 30 {
		t.Errorf("expected WriteTimeoutSec=30, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.Database.ReadinessTimeout != 10 {
		t.Errorf("expected ReadinessTimeout=10, got %d", cfg.Database.ReadinessTimeout)
	}
	if cfg.Provider.BaseURL != "https://leakosintapi.com/" {
		t.Errorf("expected default provider base url, got %q", cfg.Provider.BaseURL)
	}
	if cfg.Provider.TimeoutSec != 15 {
		t.Errorf("expected TimeoutSec=15, got %d", cfg.Provider.TimeoutSec)
	}
	if cfg.RateLimit.Backend != "memory" {
		t.Errorf("expected memory backend, got %q", cfg.RateLimit.Backend)
	}
	if cfg.RateLimit.RequestsPerSecond != 1 {
		t.Errorf("expected RequestsPerSecond=1, got %v", cfg.RateLimit.RequestsPerSecond)
	}
	if cfg.Handoff.TTLSec != 3600 {
		t.Errorf("expected handoff TTLSec=3600, got %d", cfg.Handoff.TTLSec)
	}
	if cfg.Ping.Message != "ping" {
		t.Errorf("expected ping message 'ping', got %q", cfg.Ping.Message)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:      HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Provider:  ProviderConfig{BaseURL: "http://localhost:9000/", TimeoutSec: 3},
		RateLimit: RateLimitConfig{Backend: "redis", RequestsPerSecond: 5},
		Ping:      PingConfig{Message: "pong"},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 30 {
		t.Errorf("expected ReadTimeoutSec=30, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.Provider.BaseURL != "http://localhost:9000/" {
		t.Errorf("expected custom base url, got %q", cfg.Provider.BaseURL)
	}
	if cfg.Provider.TimeoutSec != 3 {
		t.Errorf("expected TimeoutSec=3, got %d", cfg.Provider.TimeoutSec)
	}
	if cfg.RateLimit.Backend != "redis" || cfg.RateLimit.RequestsPerSecond != 5 {
		t.Errorf("rate limit overridden: %+v", cfg.RateLimit)
	}
	if cfg.Ping.Message != "pong" {
		t.Errorf("expected ping message 'pong', got %q", cfg.Ping.Message)
	}
}

func TestParse_ExpandsEnv(t *testing.T) {
	t.Setenv("OSINT_TEST_PORT", "9090")
	t.Setenv("LEAKOSINT_API_KEY", "secret")

	data := []byte(`
http:
  port: ${OSINT_TEST_PORT}
database:
  addrs: ["${OSINT_TEST_REDIS:-localhost:6379}"]
provider:
  api_key: ${LEAKOSINT_API_KEY}
ping:
  message: ${PING_MESSAGE_UNSET:-hello}
`)
	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.HTTP.Port)
	}
	if len(cfg.Database.Addrs) != 1 || cfg.Database.Addrs[0] != "localhost:6379" {
		t.Errorf("addrs = %v", cfg.Database.Addrs)
	}
	if cfg.Provider.APIKey != "secret" {
		t.Errorf("api key = %q", cfg.Provider.APIKey)
	}
	if cfg.Ping.Message != "hello" {
		t.Errorf("ping = %q", cfg.Ping.Message)
	}
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("http:\n  port: 0\n"))
	if err == nil || !strings.Contains(err.Error(), "invalid config") {
		t.Fatalf("expected invalid config error, got %v", err)
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("ENV", "")
	if got := GetEnv(); got != "local" {
		t.Errorf("GetEnv() = %q, want local", got)
	}
	t.Setenv("ENV", "prod")
	if got := GetEnv(); got != "prod" {
		t.Errorf("GetEnv() = %q, want prod", got)
	}
}
