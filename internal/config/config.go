package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"cbr-rate-service/internal/cbr"
)

type Config struct {
	Server ServerConfig
	CBR    CBRConfig
	Log    LogConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type CBRConfig struct {
	BaseURL       string
	Timeout       time.Duration
	RetryAttempts uint64
	RetryDelay    time.Duration
}

type LogConfig struct {
	Level string
}

func LoadConfig() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port:         getEnvInt("SERVER_PORT", 5000),
			ReadTimeout: getEnvDuration("SERVER_READ_TIMEOUT", 5*time.Second),
			// A long history walk fetches up to days*3 feeds sequentially,
			// so the write timeout has to cover minutes, not seconds.
			WriteTimeout: getEnvDuration("SERVER_WRITE_TIMEOUT", 10*time.Minute),
			IdleTimeout:  getEnvDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
		},
		CBR: CBRConfig{
			BaseURL:       getEnvString("CBR_BASE_URL", cbr.DefaultBaseURL),
			Timeout:       getEnvDuration("CBR_TIMEOUT", 15*time.Second),
			RetryAttempts: uint64(getEnvInt("CBR_RETRY_ATTEMPTS", 3)),
			RetryDelay:    getEnvDuration("CBR_RETRY_DELAY", 2*time.Second),
		},
		Log: LogConfig{
			Level: getEnvString("LOG_LEVEL", "info"),
		},
	}

	return config, nil
}

func getEnvString(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		fmt.Printf("Warning: Invalid value for %s, using default: %d\n", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		fmt.Printf("Warning: Invalid duration for %s, using default: %s\n", key, defaultValue)
		return defaultValue
	}

	return value
}
