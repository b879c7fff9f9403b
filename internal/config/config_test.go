package config

import (
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/nfl-league/internal/platform/logging"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("NFL_WEEK", "")
	t.Setenv("UPTRACE_ENABLED", "")
	t.Setenv("BETTERSTACK_ENABLED", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.AppEnv != EnvDev {
		t.Fatalf("expected dev env, got %q", cfg.AppEnv)
	}
	if cfg.Week != 1 {
		t.Fatalf("expected week 1, got %d", cfg.Week)
	}
	if cfg.ESPNTimeout != 20*time.Second {
		t.Fatalf("expected 20s timeout, got %s", cfg.ESPNTimeout)
	}
	if !cfg.ESPNCircuitEnabled || cfg.ESPNCircuitFailureCount != 5 {
		t.Fatalf("unexpected circuit defaults: %+v", cfg)
	}
	if cfg.ServiceName != "nflweek" {
		t.Fatalf("unexpected service name %q", cfg.ServiceName)
	}
	if cfg.BestEffort {
		t.Fatalf("expected strict mode by default")
	}
}

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_WeekRange(t *testing.T) {
	tests := []struct {
		value   string
		wantErr bool
	}{
		{value: "1"},
		{value: "18"},
		{value: "22"},
		{value: "0", wantErr: true},
		{value: "23", wantErr: true},
		{value: "wildcard", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.value, func(t *testing.T) {
			t.Setenv("APP_ENV", EnvDev)
			t.Setenv("NFL_WEEK", tc.value)

			_, err := Load()
			if (err != nil) != tc.wantErr {
				t.Fatalf("NFL_WEEK=%s err=%v wantErr=%v", tc.value, err, tc.wantErr)
			}
			if err != nil && !strings.Contains(err.Error(), "NFL_WEEK") {
				t.Fatalf("expected error to name NFL_WEEK, got %v", err)
			}
		})
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")

	_, err := Load()
	if err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
	if !strings.Contains(err.Error(), "UPTRACE_DSN is required") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", `foo=bar, uptrace-dsn="https://token@api.uptrace.dev/1"`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev/1" {
		t.Fatalf("unexpected dsn %q", cfg.UptraceDSN)
	}
}

func TestLoad_BetterStackConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvProd)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("BETTERSTACK_ENABLED", "true")
	t.Setenv("BETTERSTACK_ENDPOINT", "s1765114.eu-fsn-3.betterstackdata.com")
	t.Setenv("BETTERSTACK_TOKEN", " token-123 ")
	t.Setenv("BETTERSTACK_TIMEOUT", "4s")
	t.Setenv("BETTERSTACK_MIN_LEVEL", "error")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if !cfg.BetterStackEnabled {
		t.Fatalf("expected BetterStackEnabled=true")
	}
	if cfg.BetterStackToken != "token-123" {
		t.Fatalf("unexpected BetterStackToken")
	}
	if cfg.BetterStackTimeout != 4*time.Second {
		t.Fatalf("unexpected BetterStackTimeout: %s", cfg.BetterStackTimeout)
	}
	if cfg.BetterStackMinLevel != logging.LevelError {
		t.Fatalf("unexpected BetterStackMinLevel: %s", cfg.BetterStackMinLevel)
	}
}

func TestLoad_BetterStackRequiresEndpointWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("BETTERSTACK_ENABLED", "true")
	t.Setenv("BETTERSTACK_ENDPOINT", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when BETTERSTACK_ENABLED=true without BETTERSTACK_ENDPOINT")
	}
}

func TestLoad_RejectsBadValues(t *testing.T) {
	tests := map[string]string{
		"APP_LOG_LEVEL":              "loud",
		"ESPN_TIMEOUT":               "0s",
		"ESPN_CIRCUIT_FAILURE_COUNT": "0",
		"ESPN_SITE_BASE_URL":         "not a url",
		"NFL_BEST_EFFORT":            "maybe",
	}

	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv("APP_ENV", EnvDev)
			t.Setenv(key, value)

			_, err := Load()
			if err == nil {
				t.Fatalf("expected error for %s=%q", key, value)
			}
			if !strings.Contains(err.Error(), key) {
				t.Fatalf("expected error to name %s, got %v", key, err)
			}
		})
	}
}
