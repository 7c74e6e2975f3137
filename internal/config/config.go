package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every setting the marketplace reads at startup.
type Config struct {
	Port               string
	CORSAllowedOrigins []string

	// StrictTransitions makes ignored reservation transitions fail.
	StrictTransitions bool
	IDStrategy        string
	InitialPoints     int

	CardSuccessRate float64
	CardLatency     time.Duration
	HourlyRate      float64
	DailyDiscount   float64

	CalendarEnabled bool
	CalendarID      string
	CalendarAPIKey  string
	CalendarTimeout time.Duration
}

// Default returns the settings used when nothing is configured.
func Default() *Config {
	return &Config{
		Port:               "8080",
		CORSAllowedOrigins: []string{"http://localhost:5173"},
		IDStrategy:         "uuid",
		InitialPoints:      100,
		CardSuccessRate:    0.95,
		CardLatency:        100 * time.Millisecond,
		HourlyRate:         1.0,
		DailyDiscount:      0.20,
		CalendarTimeout:    2 * time.Second,
	}
}

// LoadConfig reads the .env file at path, when one is given, then fills a
// Config from the environment. Unset variables keep their defaults.
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	cfg := Default()
	var err error
	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		cfg.CORSAllowedOrigins = splitList(v)
	}
	if v := os.Getenv("ID_STRATEGY"); v != "" {
		cfg.IDStrategy = strings.ToLower(v)
	}
	if cfg.IDStrategy != "uuid" && cfg.IDStrategy != "ulid" {
		return nil, fmt.Errorf("ID_STRATEGY must be uuid or ulid, got %q", cfg.IDStrategy)
	}
	if cfg.StrictTransitions, err = boolVar("STRICT_TRANSITIONS", cfg.StrictTransitions); err != nil {
		return nil, err
	}
	if cfg.InitialPoints, err = intVar("INITIAL_POINTS", cfg.InitialPoints); err != nil {
		return nil, err
	}
	if cfg.InitialPoints < 0 {
		return nil, fmt.Errorf("INITIAL_POINTS cannot be negative, got %d", cfg.InitialPoints)
	}
	if cfg.CardSuccessRate, err = floatVar("CARD_SUCCESS_RATE", cfg.CardSuccessRate); err != nil {
		return nil, err
	}
	if cfg.CardSuccessRate < 0 || cfg.CardSuccessRate > 1 {
		return nil, fmt.Errorf("CARD_SUCCESS_RATE must be within [0,1], got %v", cfg.CardSuccessRate)
	}
	if cfg.CardLatency, err = durationVar("CARD_LATENCY", cfg.CardLatency); err != nil {
		return nil, err
	}
	if cfg.HourlyRate, err = floatVar("HOURLY_RATE", cfg.HourlyRate); err != nil {
		return nil, err
	}
	if cfg.HourlyRate <= 0 {
		return nil, fmt.Errorf("HOURLY_RATE must be positive, got %v", cfg.HourlyRate)
	}
	if cfg.DailyDiscount, err = floatVar("DAILY_DISCOUNT", cfg.DailyDiscount); err != nil {
		return nil, err
	}
	if cfg.DailyDiscount < 0 || cfg.DailyDiscount >= 1 {
		return nil, fmt.Errorf("DAILY_DISCOUNT must be within [0,1), got %v", cfg.DailyDiscount)
	}
	if cfg.CalendarEnabled, err = boolVar("CALENDAR_ENABLED", cfg.CalendarEnabled); err != nil {
		return nil, err
	}
	cfg.CalendarID = os.Getenv("CALENDAR_ID")
	cfg.CalendarAPIKey = os.Getenv("CALENDAR_API_KEY")
	if cfg.CalendarTimeout, err = durationVar("CALENDAR_TIMEOUT", cfg.CalendarTimeout); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string { return ":" + c.Port }

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func boolVar(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func intVar(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func floatVar(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func durationVar(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
