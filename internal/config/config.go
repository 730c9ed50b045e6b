package config

import (
	"os"
	"strconv"
)

// Config holds the server's runtime settings, read from the environment.
type Config struct {
	Addr        string
	DBPath      string
	TargetScore int
	LogLevel    string
}

// FromEnv builds a Config from environment variables with sane defaults.
func FromEnv() Config {
	return Config{
		Addr:        ":" + getEnv("PORT", "8080"),
		DBPath:      getEnv("DB_PATH", "passtnicht.db"),
		TargetScore: getEnvInt("TARGET_SCORE", 50),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getEnvInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
