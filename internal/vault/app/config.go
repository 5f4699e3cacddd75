package app

import "os"

type Config struct {
	DatabaseFile string // Optional: path to SQLite vault file (default: ./otpvault.db)
	Env          string // Environment (dev, prod) (default: prod)
	LogLevel     string // Log level (debug, info, warn, error) (default: info)
	LogFormat    string // Log format (json, text) (default: text)
}

func LoadConfig() Config {
	return Config{
		DatabaseFile: getEnvOrDefault("OTPVAULT_DATABASE_FILE", "otpvault.db"),
		Env:          getEnvOrDefault("ENV", "prod"),
		LogLevel:     getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:    getEnvOrDefault("LOG_FORMAT", "text"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
