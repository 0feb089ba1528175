package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/hazel/mudae-tracker-go/internal/constants"
)

type Config struct {
	Discord  DiscordConfig
	Mudae    MudaeConfig
	Redis    RedisConfig
	Postgres PostgresConfig
	Logging  LoggingConfig
	Bot      BotConfig
}

type DiscordConfig struct {
	Token      string
	GatewayURL string
	GuildID    string
	ChannelID  string
}

type MudaeConfig struct {
	UserID string
	// Timing is the packed cooldown integer produced by cmd/timing.
	// Zero means "not configured"; the value stored in Redis is used instead
	// when present.
	Timing uint64
	Wishes []string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

type LoggingConfig struct {
	Level string
	File  string
}

type BotConfig struct {
	Prefix string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Discord: DiscordConfig{
			Token:      getEnv("DISCORD_TOKEN", ""),
			GatewayURL: getEnv("DISCORD_GATEWAY_URL", "wss://gateway.discord.gg/?v=10&encoding=json"),
			GuildID:    getEnv("DISCORD_GUILD_ID", ""),
			ChannelID:  getEnv("DISCORD_CHANNEL_ID", ""),
		},
		Mudae: MudaeConfig{
			UserID: getEnv("MUDAE_USER_ID", constants.MudaeUserID),
			Timing: getEnvUint64("MUDAE_TIMING", 0),
			Wishes: parseCommaSeparated(getEnv("MUDAE_WISHES", "")),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Postgres: PostgresConfig{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnvInt("POSTGRES_PORT", 5432),
			User:     getEnv("POSTGRES_USER", "mudae_user"),
			Password: getEnv("POSTGRES_PASSWORD", ""),
			Database: getEnv("POSTGRES_DB", "mudae_tracker"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", "logs/bot.log"),
		},
		Bot: BotConfig{
			Prefix: getEnv("BOT_PREFIX", "!"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Discord.Token == "" {
		return fmt.Errorf("DISCORD_TOKEN is required")
	}
	if c.Discord.ChannelID == "" {
		return fmt.Errorf("DISCORD_CHANNEL_ID is required")
	}
	if c.Mudae.UserID == "" {
		return fmt.Errorf("MUDAE_USER_ID is required")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvUint64(key string, defaultValue uint64) uint64 {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.ParseUint(value, 10, 64); err == nil {
			return v
		}
	}
	return defaultValue
}

func parseCommaSeparated(value string) []string {
	if value == "" {
		return []string{}
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
