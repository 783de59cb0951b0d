package config

import (
	"sync"

	"event-dashboard-api/core/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Cache    CacheConfig
	Auth     AuthConfig
	Events   EventsConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type CacheConfig struct {
	// Backend selects the listing cache implementation: "memory" or "redis".
	Backend string
}

type AuthConfig struct {
	JWTSecret string
}

type EventsConfig struct {
	// ReminderFilterScope controls whose reminders the hasReminder listing
	// filter matches: "requester" (default) or "any".
	ReminderFilterScope string
}

type LogConfig struct {
	Level  string
	Format string
}

var (
	cfg  *Config
	once sync.Once
)

// Load reads configuration from the environment (with an optional .env file
// in development) exactly once and returns the shared instance.
func Load() *Config {
	once.Do(func() {
		if err := godotenv.Load(); err != nil {
			logger.Debug("no .env file loaded", "error", err)
		}

		v := viper.New()
		v.AutomaticEnv()

		v.SetDefault("SERVER_PORT", "7070")
		v.SetDefault("DB_HOST", "localhost")
		v.SetDefault("DB_PORT", 5432)
		v.SetDefault("DB_USER", "postgres")
		v.SetDefault("DB_PASSWORD", "")
		v.SetDefault("DB_NAME", "eventdash")
		v.SetDefault("DB_SSLMODE", "disable")
		v.SetDefault("REDIS_ADDR", "localhost:6379")
		v.SetDefault("REDIS_PASSWORD", "")
		v.SetDefault("REDIS_DB", 0)
		v.SetDefault("CACHE_BACKEND", "memory")
		v.SetDefault("JWT_SECRET", "")
		v.SetDefault("EVENTS_REMINDER_FILTER_SCOPE", "requester")
		v.SetDefault("LOG_LEVEL", "info")
		v.SetDefault("LOG_FORMAT", "text")

		cfg = &Config{
			Server: ServerConfig{
				Port: v.GetString("SERVER_PORT"),
			},
			Database: DatabaseConfig{
				Host:     v.GetString("DB_HOST"),
				Port:     v.GetInt("DB_PORT"),
				User:     v.GetString("DB_USER"),
				Password: v.GetString("DB_PASSWORD"),
				DBName:   v.GetString("DB_NAME"),
				SSLMode:  v.GetString("DB_SSLMODE"),
			},
			Redis: RedisConfig{
				Addr:     v.GetString("REDIS_ADDR"),
				Password: v.GetString("REDIS_PASSWORD"),
				DB:       v.GetInt("REDIS_DB"),
			},
			Cache: CacheConfig{
				Backend: v.GetString("CACHE_BACKEND"),
			},
			Auth: AuthConfig{
				JWTSecret: v.GetString("JWT_SECRET"),
			},
			Events: EventsConfig{
				ReminderFilterScope: v.GetString("EVENTS_REMINDER_FILTER_SCOPE"),
			},
			Log: LogConfig{
				Level:  v.GetString("LOG_LEVEL"),
				Format: v.GetString("LOG_FORMAT"),
			},
		}
	})
	return cfg
}
