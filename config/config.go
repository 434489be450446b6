package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"cryptoPaperBot/internal/adapters/logger"
)

// Config holds all application configuration.
type Config struct {
	// Simulated account
	InitialBalance      float64 // Starting cash in quote currency
	DefaultRiskPercent  float64 // Risk per trade when the caller gives none (1.0 = 1%)
	MaxNotionalFraction float64 // Per-trade cap as a fraction of equity (0 disables)

	// Market data
	Pair      string   // Default market symbol (e.g., "BTC/USDT")
	Interval  string   // Default kline interval (e.g., "1h")
	Providers []string // Provider failover order
	APIKey    string   // Optional Binance API key (public data works without)
	SecretKey string
	IsTestnet bool

	// Kline cache; empty path disables it
	KlineDBPath string

	// Indicators
	RSIPeriod     int
	RSIOverbought float64
	RSIOversold   float64

	// Poll loop
	PollInterval time.Duration

	// Logging
	LogLevel logger.LogLevel
}

// LoadConfig loads configuration from environment variables (.env file).
func LoadConfig() (*Config, error) {
	// Load .env file, but don't fail if it doesn't exist (allow pure env vars)
	_ = godotenv.Load()

	cfg := &Config{}
	var err error
	var errs []string

	cfg.InitialBalance, err = getEnvAsFloat("INITIAL_BALANCE", 10_000.0)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid INITIAL_BALANCE: %v", err))
	} else if cfg.InitialBalance <= 0 {
		errs = append(errs, "INITIAL_BALANCE must be positive")
	}

	cfg.DefaultRiskPercent, err = getEnvAsFloat("DEFAULT_RISK_PERCENT", 1.0)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid DEFAULT_RISK_PERCENT: %v", err))
	} else if cfg.DefaultRiskPercent <= 0 {
		errs = append(errs, "DEFAULT_RISK_PERCENT must be positive")
	}

	cfg.MaxNotionalFraction, err = getEnvAsFloat("MAX_NOTIONAL_FRACTION", 0.20)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid MAX_NOTIONAL_FRACTION: %v", err))
	} else if cfg.MaxNotionalFraction < 0 || cfg.MaxNotionalFraction > 1.0 {
		errs = append(errs, "MAX_NOTIONAL_FRACTION must be between 0.0 and 1.0")
	}

	cfg.Pair = getEnv("PAIR", "BTC/USDT")
	cfg.Interval = getEnv("INTERVAL", "1h")

	providers := getEnv("DATA_PROVIDERS", "binance")
	for _, p := range strings.Split(providers, ",") {
		if p = strings.TrimSpace(strings.ToLower(p)); p != "" {
			cfg.Providers = append(cfg.Providers, p)
		}
	}
	if len(cfg.Providers) == 0 {
		errs = append(errs, "DATA_PROVIDERS must name at least one provider")
	}

	cfg.APIKey = getEnv("BINANCE_API_KEY", "")
	cfg.SecretKey = getEnv("BINANCE_API_SECRET", "")
	cfg.IsTestnet = getEnvAsBool("IS_TESTNET", false)

	cfg.KlineDBPath = getEnv("KLINE_DB_PATH", "")

	cfg.RSIPeriod, err = getEnvAsInt("RSI_PERIOD", 14)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid RSI_PERIOD: %v", err))
	} else if cfg.RSIPeriod <= 0 {
		errs = append(errs, "RSI_PERIOD must be positive")
	}

	cfg.RSIOverbought, err = getEnvAsFloat("RSI_OVERBOUGHT", 70.0)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid RSI_OVERBOUGHT: %v", err))
	}
	cfg.RSIOversold, err = getEnvAsFloat("RSI_OVERSOLD", 30.0)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid RSI_OVERSOLD: %v", err))
	}
	if cfg.RSIOversold >= cfg.RSIOverbought {
		errs = append(errs, "RSI_OVERSOLD must be below RSI_OVERBOUGHT")
	}

	cfg.PollInterval, err = getEnvAsDuration("POLL_INTERVAL", 30*time.Second)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid POLL_INTERVAL: %v", err))
	} else if cfg.PollInterval <= 0 {
		errs = append(errs, "POLL_INTERVAL must be positive")
	}

	cfg.LogLevel = logger.ParseLevel(getEnv("LOG_LEVEL", "INFO"))

	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}
	return cfg, nil
}

// --- Env helpers ---

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) (int, error) {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, fmt.Errorf("value %q for %s is not an integer", valueStr, key)
	}
	return value, nil
}

func getEnvAsFloat(key string, fallback float64) (float64, error) {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback, nil
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return 0, fmt.Errorf("value %q for %s is not a number", valueStr, key)
	}
	return value, nil
}

func getEnvAsBool(key string, fallback bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return fallback
	}
	return value
}

func getEnvAsDuration(key string, fallback time.Duration) (time.Duration, error) {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback, nil
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return 0, fmt.Errorf("value %q for %s is not a duration", valueStr, key)
	}
	return value, nil
}
