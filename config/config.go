package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"yanoback/model"
)

// Config stores the application configuration. Required values are validated
// eagerly by Load; a missing or malformed value fails startup.
type Config struct {
	ServerPort string

	// Cache
	CacheTTL time.Duration // from CACHE_TTL_SECONDS

	// Security
	EncryptionKey string // master secret for token encryption at rest, >= 32 chars

	// Spotify
	SpotifyClientID     string
	SpotifyClientSecret string
	SpotifyRefreshToken string
	TokenBuffer         time.Duration // from TOKEN_BUFFER_TIME_MS

	// Redis配置。RedisHost为空表示本地开发模式：只使用进程内缓存。
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// Logging
	LogLevel string
	LogPath  string
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// requireEnv gets an environment variable or fails with a configuration error.
func requireEnv(key string) (string, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return "", model.NewConfigurationError(fmt.Sprintf("required environment variable %q is not set", key))
	}
	return value, nil
}

// requireEnvInt gets a required environment variable as int.
func requireEnvInt(key string) (int, error) {
	value, err := requireEnv(key)
	if err != nil {
		return 0, err
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, model.NewConfigurationError(fmt.Sprintf("environment variable %q must be a valid number, got: %s", key, value))
	}
	return parsed, nil
}

// getEnvInt gets an environment variable as int or returns a default value.
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// Load loads configuration from environment variables (via .env file) and
// validates every required value.
func Load() (*Config, error) {
	// Attempt to load .env file. godotenv.Load() will not override existing env vars.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading .env, relying on existing environment variables.")
	}

	cacheTTLSeconds, err := requireEnvInt("CACHE_TTL_SECONDS")
	if err != nil {
		return nil, err
	}
	encryptionKey, err := requireEnv("ENCRYPTION_KEY")
	if err != nil {
		return nil, err
	}
	if len(encryptionKey) < 32 {
		return nil, model.NewConfigurationError("ENCRYPTION_KEY must be at least 32 characters")
	}
	clientID, err := requireEnv("SPOTIFY_CLIENT_ID")
	if err != nil {
		return nil, err
	}
	clientSecret, err := requireEnv("SPOTIFY_CLIENT_SECRET")
	if err != nil {
		return nil, err
	}
	refreshToken, err := requireEnv("SPOTIFY_REFRESH_TOKEN")
	if err != nil {
		return nil, err
	}
	tokenBufferMs, err := requireEnvInt("TOKEN_BUFFER_TIME_MS")
	if err != nil {
		return nil, err
	}

	return &Config{
		ServerPort:          getEnv("SERVER_PORT", "8080"),
		CacheTTL:            time.Duration(cacheTTLSeconds) * time.Second,
		EncryptionKey:       encryptionKey,
		SpotifyClientID:     clientID,
		SpotifyClientSecret: clientSecret,
		SpotifyRefreshToken: refreshToken,
		TokenBuffer:         time.Duration(tokenBufferMs) * time.Millisecond,
		RedisHost:           getEnv("REDIS_HOST", ""), // 默认为空：无持久层绑定
		RedisPort:           getEnv("REDIS_PORT", "6379"),
		RedisPassword:       getEnv("REDIS_PASSWORD", ""),
		RedisDB:             getEnvInt("REDIS_DB", 0),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		LogPath:             getEnv("LOG_PATH", ""),
	}, nil
}

// LocalDevelopment reports whether the process runs without a durable store
// binding. The durable cache tier is skipped entirely in that mode.
func (c *Config) LocalDevelopment() bool {
	return c.RedisHost == ""
}

// RedisAddr returns the host:port address of the durable store.
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}
