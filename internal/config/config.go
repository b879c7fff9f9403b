package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/nfl-league/internal/domain/nfl"
	"github.com/riskibarqy/nfl-league/internal/platform/logging"
)

// Config stores runtime configuration for the nflweek command.
type Config struct {
	AppEnv         string `validate:"oneof=dev stage prod"`
	ServiceName    string `validate:"required"`
	ServiceVersion string `validate:"required"`
	LogLevel       logging.Level

	Week       int `validate:"min=1,max=22"`
	BestEffort bool
	DebugDir   string
	SourceDir  string

	ESPNSiteBaseURL      string        `validate:"required,url"`
	ESPNStandingsBaseURL string        `validate:"required,url"`
	ESPNCoreBaseURL      string        `validate:"required,url"`
	ESPNTimeout          time.Duration `validate:"gt=0"`

	ESPNCircuitEnabled        bool
	ESPNCircuitFailureCount   int           `validate:"min=1"`
	ESPNCircuitOpenTimeout    time.Duration `validate:"gt=0"`
	ESPNCircuitHalfOpenMaxReq int           `validate:"min=1"`

	MetricsTextfile string

	UptraceEnabled bool
	UptraceDSN     string `validate:"required_if=UptraceEnabled true"`

	BetterStackEnabled   bool
	BetterStackEndpoint  string `validate:"required_if=BetterStackEnabled true"`
	BetterStackToken     string
	BetterStackTimeout   time.Duration `validate:"gt=0"`
	BetterStackMinLevel  logging.Level
	BetterStackBatchSize int `validate:"min=1"`
}

var configValidator = validator.New()

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	logLevel, err := logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_LOG_LEVEL: %w", err)
	}

	week, err := getEnvAsInt("NFL_WEEK", nfl.FirstWeek)
	if err != nil {
		return Config{}, fmt.Errorf("parse NFL_WEEK: %w", err)
	}
	bestEffort, err := getEnvAsBool("NFL_BEST_EFFORT", false)
	if err != nil {
		return Config{}, fmt.Errorf("parse NFL_BEST_EFFORT: %w", err)
	}

	espnTimeout, err := getEnvAsDuration("ESPN_TIMEOUT", 20*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("parse ESPN_TIMEOUT: %w", err)
	}
	circuitEnabled, err := getEnvAsBool("ESPN_CIRCUIT_ENABLED", true)
	if err != nil {
		return Config{}, fmt.Errorf("parse ESPN_CIRCUIT_ENABLED: %w", err)
	}
	circuitFailureCount, err := getEnvAsInt("ESPN_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse ESPN_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	circuitOpenTimeout, err := getEnvAsDuration("ESPN_CIRCUIT_OPEN_TIMEOUT", 15*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("parse ESPN_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	circuitHalfOpenMaxReq, err := getEnvAsInt("ESPN_CIRCUIT_HALF_OPEN_MAX_REQ", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse ESPN_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}

	uptraceEnabled, err := getEnvAsBool("UPTRACE_ENABLED", false)
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}

	betterStackEnabled, err := getEnvAsBool("BETTERSTACK_ENABLED", false)
	if err != nil {
		return Config{}, fmt.Errorf("parse BETTERSTACK_ENABLED: %w", err)
	}
	betterStackTimeout, err := getEnvAsDuration("BETTERSTACK_TIMEOUT", 3*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("parse BETTERSTACK_TIMEOUT: %w", err)
	}
	betterStackMinLevel, err := logging.ParseLevel(getEnv("BETTERSTACK_MIN_LEVEL", "warn"))
	if err != nil {
		return Config{}, fmt.Errorf("parse BETTERSTACK_MIN_LEVEL: %w", err)
	}
	betterStackBatchSize, err := getEnvAsInt("BETTERSTACK_BATCH_SIZE", 50)
	if err != nil {
		return Config{}, fmt.Errorf("parse BETTERSTACK_BATCH_SIZE: %w", err)
	}

	cfg := Config{
		AppEnv:                    appEnv,
		ServiceName:               strings.TrimSpace(getEnv("APP_SERVICE_NAME", "nflweek")),
		ServiceVersion:            strings.TrimSpace(getEnv("APP_SERVICE_VERSION", "dev")),
		LogLevel:                  logLevel,
		Week:                      week,
		BestEffort:                bestEffort,
		DebugDir:                  strings.TrimSpace(getEnv("NFL_DEBUG_DIR", "")),
		SourceDir:                 strings.TrimSpace(getEnv("NFL_SOURCE_DIR", "")),
		ESPNSiteBaseURL:           strings.TrimSpace(getEnv("ESPN_SITE_BASE_URL", "https://site.api.espn.com/apis/site/v2/sports/football/nfl")),
		ESPNStandingsBaseURL:      strings.TrimSpace(getEnv("ESPN_STANDINGS_BASE_URL", "https://site.api.espn.com/apis/v2/sports/football/nfl")),
		ESPNCoreBaseURL:           strings.TrimSpace(getEnv("ESPN_CORE_BASE_URL", "https://sports.core.api.espn.com/v2/sports/football/leagues/nfl")),
		ESPNTimeout:               espnTimeout,
		ESPNCircuitEnabled:        circuitEnabled,
		ESPNCircuitFailureCount:   circuitFailureCount,
		ESPNCircuitOpenTimeout:    circuitOpenTimeout,
		ESPNCircuitHalfOpenMaxReq: circuitHalfOpenMaxReq,
		MetricsTextfile:           strings.TrimSpace(getEnv("METRICS_TEXTFILE", "")),
		UptraceEnabled:            uptraceEnabled,
		UptraceDSN:                uptraceDSN,
		BetterStackEnabled:        betterStackEnabled,
		BetterStackEndpoint:       strings.TrimSpace(getEnv("BETTERSTACK_ENDPOINT", "")),
		BetterStackToken:          strings.TrimSpace(getEnv("BETTERSTACK_TOKEN", "")),
		BetterStackTimeout:        betterStackTimeout,
		BetterStackMinLevel:       betterStackMinLevel,
		BetterStackBatchSize:      betterStackBatchSize,
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid field using its environment variable name.
func (c Config) Validate() error {
	err := configValidator.Struct(c)
	if err == nil {
		return nil
	}
	if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		name := envNames[fe.Field()]
		if name == "" {
			name = fe.Field()
		}
		if fe.Tag() == "required_if" {
			return fmt.Errorf("%s is required when %s", name, requiredIfReason[fe.Field()])
		}
		return fmt.Errorf("invalid %s: failed %q check (value=%v)", name, fe.Tag(), fe.Value())
	}
	return fmt.Errorf("validate config: %w", err)
}

var envNames = map[string]string{
	"AppEnv":                    "APP_ENV",
	"ServiceName":               "APP_SERVICE_NAME",
	"ServiceVersion":            "APP_SERVICE_VERSION",
	"Week":                      "NFL_WEEK",
	"ESPNSiteBaseURL":           "ESPN_SITE_BASE_URL",
	"ESPNStandingsBaseURL":      "ESPN_STANDINGS_BASE_URL",
	"ESPNCoreBaseURL":           "ESPN_CORE_BASE_URL",
	"ESPNTimeout":               "ESPN_TIMEOUT",
	"ESPNCircuitFailureCount":   "ESPN_CIRCUIT_FAILURE_COUNT",
	"ESPNCircuitOpenTimeout":    "ESPN_CIRCUIT_OPEN_TIMEOUT",
	"ESPNCircuitHalfOpenMaxReq": "ESPN_CIRCUIT_HALF_OPEN_MAX_REQ",
	"UptraceDSN":                "UPTRACE_DSN",
	"BetterStackEndpoint":       "BETTERSTACK_ENDPOINT",
	"BetterStackTimeout":        "BETTERSTACK_TIMEOUT",
	"BetterStackBatchSize":      "BETTERSTACK_BATCH_SIZE",
}

var requiredIfReason = map[string]string{
	"UptraceDSN":          "UPTRACE_ENABLED=true",
	"BetterStackEndpoint": "BETTERSTACK_ENABLED=true",
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	return strconv.Atoi(value)
}

func getEnvAsBool(key string, fallback bool) (bool, error) {
	return strconv.ParseBool(getEnv(key, strconv.FormatBool(fallback)))
}

func getEnvAsDuration(key string, fallback time.Duration) (time.Duration, error) {
	return time.ParseDuration(getEnv(key, fallback.String()))
}

// parseUptraceDSNFromOTLPHeaders reads uptrace-dsn out of an
// OTEL_EXPORTER_OTLP_HEADERS style "k=v,k=v" list.
func parseUptraceDSNFromOTLPHeaders(raw string) string {
	for _, item := range strings.Split(raw, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(item), "=")
		if !ok {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(key), "uptrace-dsn") {
			return strings.Trim(strings.TrimSpace(value), "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
