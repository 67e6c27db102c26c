// Package config は環境変数からアプリケーション設定を読み込む。
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Storage
	StorageDriver      string
	SQLitePath         string
	DatabaseURL        string
	StorageAutoMigrate bool
	SeedFile           string

	// Server
	ServerPort        string
	CORSAllowedOrigin string
	RateLimitGeneral  int

	// Logging
	LogLevel string

	// Quest
	MemoryDisplayDuration time.Duration
	SpeedTapInterval      time.Duration
	SpeedTapLimit         int
	QuestSessionTTL       time.Duration
	QuestSweepInterval    time.Duration
}

var validDrivers = []string{"sqlite", "postgres", "memory"}

var validLogLevels = []string{"debug", "info", "warn", "error"}

// LoadDotEnv は.envファイルの内容を環境変数に読み込む。
// 既に設定済みの環境変数は上書きしない。ファイルが存在しない場合は何もしない。
func LoadDotEnv(paths ...string) error {
	if err := godotenv.Load(paths...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

// Load は環境変数からConfigを読み込む。
// 必須環境変数の未設定や不正な値がある場合はエラーを返す。
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.StorageDriver = strings.ToLower(getEnvString("STORAGE_DRIVER", "sqlite"))
	cfg.SQLitePath = getEnvString("SQLITE_PATH", "woodbine.db")
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.StorageAutoMigrate = getEnvBool("STORAGE_AUTO_MIGRATE", true)
	cfg.SeedFile = getEnvString("SEED_FILE", "")

	var problems []string
	if !slices.Contains(validDrivers, cfg.StorageDriver) {
		problems = append(problems, fmt.Sprintf("STORAGE_DRIVER must be one of %v", validDrivers))
	}
	if cfg.StorageDriver == "postgres" && cfg.DatabaseURL == "" {
		problems = append(problems, "DATABASE_URL is required when STORAGE_DRIVER=postgres")
	}

	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "http://localhost:8081")
	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 120)

	cfg.LogLevel = strings.ToLower(getEnvString("LOG_LEVEL", "info"))
	if !slices.Contains(validLogLevels, cfg.LogLevel) {
		problems = append(problems, fmt.Sprintf("LOG_LEVEL must be one of %v", validLogLevels))
	}

	cfg.MemoryDisplayDuration = getEnvDuration("MEMORY_DISPLAY_DURATION", 3*time.Second)
	cfg.SpeedTapInterval = getEnvDuration("SPEED_TAP_INTERVAL", time.Second)
	cfg.SpeedTapLimit = getEnvInt("SPEED_TAP_LIMIT", 10)
	cfg.QuestSessionTTL = getEnvDuration("QUEST_SESSION_TTL", 30*time.Minute)
	cfg.QuestSweepInterval = getEnvDuration("QUEST_SWEEP_INTERVAL", 5*time.Minute)
	if cfg.QuestSweepInterval <= 0 {
		problems = append(problems, "QUEST_SWEEP_INTERVAL must be positive")
	}

	if len(problems) > 0 {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}

	return cfg, nil
}

// StorageDSN はドライバに応じた接続先を返す。
func (c *Config) StorageDSN() string {
	if c.StorageDriver == "postgres" {
		return c.DatabaseURL
	}
	return c.SQLitePath
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal
	}
	return b
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
