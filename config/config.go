package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	ServerPort          string
	DatabaseURL         string
	CHAPIKey            string
	CacheTTLHours       string
	LogLevel            string
	SlaveryRegistryURL  string
	RiskLookbackMonths  string
	RiskChangeThreshold string
}

// GetCacheTTL returns the fetch cache TTL from environment or default
func (c *Config) GetCacheTTL() time.Duration {
	if c.CacheTTLHours == "" {
		return 24 * time.Hour
	}

	hours, err := strconv.Atoi(c.CacheTTLHours)
	if err != nil {
		logrus.Warnf("Invalid CACHE_TTL_HOURS value: %s, using default 24 hours", c.CacheTTLHours)
		return 24 * time.Hour
	}

	return time.Duration(hours) * time.Hour
}

// GetRiskLookbackMonths returns the officer-churn lookback window in months.
func (c *Config) GetRiskLookbackMonths() int {
	return parsePositiveInt(c.RiskLookbackMonths, 12, "RISK_LOOKBACK_MONTHS")
}

// GetRiskChangeThreshold returns the officer-churn change threshold.
func (c *Config) GetRiskChangeThreshold() int {
	return parsePositiveInt(c.RiskChangeThreshold, 3, "RISK_CHANGE_THRESHOLD")
}

func parsePositiveInt(value string, fallback int, name string) int {
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		logrus.Warnf("Invalid %s value: %s, using default %d", name, value, fallback)
		return fallback
	}
	return parsed
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		logrus.Warn("Error loading .env file, using system environment variables")
	}

	return &Config{
		ServerPort:          getEnv("SERVER_PORT", "8080"),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		CHAPIKey:            getEnv("CH_API_KEY", ""),
		CacheTTLHours:       getEnv("CACHE_TTL_HOURS", "24"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		SlaveryRegistryURL:  getEnv("SLAVERY_REGISTRY_BASE_URL", ""),
		RiskLookbackMonths:  getEnv("RISK_LOOKBACK_MONTHS", "12"),
		RiskChangeThreshold: getEnv("RISK_CHANGE_THRESHOLD", "3"),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
