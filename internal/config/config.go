package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/yfantasy-go/yfantasy/internal/platform/resilience"
)

// Config collects every knob the process reads from the environment.
type Config struct {
	AppEnv         string `validate:"required,oneof=development staging production"`
	ServiceName    string `validate:"required"`
	ServiceVersion string `validate:"required"`
	LogLevel       string `validate:"required,oneof=debug info warn error"`

	YahooBaseURL     string        `validate:"required,url"`
	YahooAccessToken string        `validate:"required"`
	YahooTimeout     time.Duration `validate:"required,min=1s"`
	YahooMaxRetries  int           `validate:"min=0,max=10"`

	LeagueID string `validate:"required"`
	GameCode string `validate:"required,oneof=mlb nhl nfl nba"`

	CircuitBreaker resilience.CircuitBreakerConfig

	UptraceEnabled bool
	UptraceDSN     string `validate:"required_if=UptraceEnabled true"`

	PyroscopeEnabled       bool
	PyroscopeServerAddress string `validate:"required_if=PyroscopeEnabled true,omitempty,url"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads the environment, applies defaults, and validates the result.
func Load() (*Config, error) {
	timeout, err := parseDurationEnv("YAHOO_TIMEOUT", 20*time.Second)
	if err != nil {
		return nil, err
	}
	breakerTimeout, err := parseDurationEnv("YAHOO_CB_OPEN_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		ServiceName:    getEnv("SERVICE_NAME", "yfantasy"),
		ServiceVersion: getEnv("SERVICE_VERSION", "dev"),
		LogLevel:       strings.ToLower(getEnv("LOG_LEVEL", "info")),

		YahooBaseURL:     getEnv("YAHOO_BASE_URL", "https://fantasysports.yahooapis.com/fantasy/v2"),
		YahooAccessToken: os.Getenv("YAHOO_ACCESS_TOKEN"),
		YahooTimeout:     timeout,
		YahooMaxRetries:  getEnvAsInt("YAHOO_MAX_RETRIES", 2),

		LeagueID: os.Getenv("YAHOO_LEAGUE_ID"),
		GameCode: strings.ToLower(getEnv("YAHOO_GAME_CODE", "mlb")),

		CircuitBreaker: resilience.NormalizeCircuitBreakerConfig(resilience.CircuitBreakerConfig{
			Enabled:          getEnvAsBool("YAHOO_CB_ENABLED", true),
			FailureThreshold: getEnvAsInt("YAHOO_CB_FAILURE_THRESHOLD", 5),
			OpenTimeout:      breakerTimeout,
			HalfOpenMaxReq:   getEnvAsInt("YAHOO_CB_HALF_OPEN_MAX_REQ", 2),
		}),

		UptraceEnabled: getEnvAsBool("UPTRACE_ENABLED", false),
		UptraceDSN:     os.Getenv("UPTRACE_DSN"),

		PyroscopeEnabled:       getEnvAsBool("PYROSCOPE_ENABLED", false),
		PyroscopeServerAddress: os.Getenv("PYROSCOPE_SERVER_ADDRESS"),
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func getEnvAsBool(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return value
}

func parseDurationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return value, nil
}
