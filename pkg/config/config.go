package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server ServerConfig
	Remote RemoteConfig
	Store  StoreConfig
	Sync   SyncConfig
	Logger LoggerConfig
}

type LoggerConfig struct {
	Level string
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type RemoteConfig struct {
	BaseURL string
	Timeout time.Duration
	// Token is an optional pre-seeded bearer token; normally the token is
	// obtained at runtime through the login/register proxy.
	Token string
}

type StoreConfig struct {
	Path string
}

type SyncConfig struct {
	// ProbeInterval controls how often connectivity is re-checked by the
	// background trigger loop.
	ProbeInterval time.Duration
	// MaxAttempts is the number of replay failures tolerated before a pending
	// operation is moved to the dead-letter table.
	MaxAttempts int
}

func Load() (*Config, error) {
	// Try to load .env file from current directory or project root
	envFiles := []string{".env", "../.env", "../../.env"}
	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	readTimeout, _ := strconv.Atoi(getEnv("SERVER_READ_TIMEOUT", "30"))
	writeTimeout, _ := strconv.Atoi(getEnv("SERVER_WRITE_TIMEOUT", "30"))
	apiTimeout, _ := strconv.Atoi(getEnv("API_TIMEOUT", "15"))
	probeInterval, _ := strconv.Atoi(getEnv("PROBE_INTERVAL", "30"))
	maxAttempts, _ := strconv.Atoi(getEnv("SYNC_MAX_ATTEMPTS", "5"))

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  time.Duration(readTimeout) * time.Second,
			WriteTimeout: time.Duration(writeTimeout) * time.Second,
		},
		Remote: RemoteConfig{
			BaseURL: getEnv("API_URL", "http://localhost:5000"),
			Timeout: time.Duration(apiTimeout) * time.Second,
			Token:   getEnv("AUTH_TOKEN", ""),
		},
		Store: StoreConfig{
			Path: getEnv("DB_PATH", "finance-tracker.db"),
		},
		Sync: SyncConfig{
			ProbeInterval: time.Duration(probeInterval) * time.Second,
			MaxAttempts:   maxAttempts,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
