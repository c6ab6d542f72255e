package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application settings.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Session   SessionConfig   `mapstructure:"session"`
	Video     VideoConfig     `mapstructure:"video"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig holds HTTP server settings. Timeouts are in seconds.
type ServerConfig struct {
	Port           string   `mapstructure:"port" validate:"required"`
	ReadTimeout    int      `mapstructure:"read_timeout" validate:"gte=0"`
	WriteTimeout   int      `mapstructure:"write_timeout" validate:"gte=0"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string `mapstructure:"host" validate:"required"`
	Port     string `mapstructure:"port" validate:"required"`
	User     string `mapstructure:"user" validate:"required"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname" validate:"required"`
	SSLMode  string `mapstructure:"sslmode" validate:"oneof=disable allow prefer require verify-ca verify-full"`
}

// RedisConfig supports the single, sentinel and cluster modes.
type RedisConfig struct {
	Mode string `mapstructure:"mode" validate:"omitempty,oneof=single sentinel cluster"`

	// Addrs takes precedence over Addr.
	Addrs []string `mapstructure:"addrs"`
	Addr  string   `mapstructure:"addr"`

	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`

	// MasterName is only used in sentinel mode.
	MasterName string `mapstructure:"master_name"`

	MaxRetries int `mapstructure:"max_retries"`
	// Backoffs are in milliseconds.
	MinRetryBackoff int `mapstructure:"min_retry_backoff"`
	MaxRetryBackoff int `mapstructure:"max_retry_backoff"`
}

// JWTConfig holds token verification settings.
type JWTConfig struct {
	Secret        string `mapstructure:"secret" validate:"required,min=16"`
	Issuer        string `mapstructure:"issuer"`
	ExpirationHrs int    `mapstructure:"expiration_hrs" validate:"gte=0"`
}

// SessionConfig holds quiz session settings.
type SessionConfig struct {
	AnswerLockTTL        time.Duration `mapstructure:"answer_lock_ttl" validate:"gt=0"`
	DefaultQuestionCount int           `mapstructure:"default_question_count" validate:"gt=0"`
	DefaultStartLevel    int           `mapstructure:"default_start_level" validate:"gte=1,lte=6"`
}

// VideoConfig holds video search API settings.
type VideoConfig struct {
	BaseURL        string        `mapstructure:"base_url" validate:"required,url"`
	APIKey         string        `mapstructure:"api_key"`
	MaxResults     int           `mapstructure:"max_results" validate:"gt=0,lte=50"`
	CacheTTL       time.Duration `mapstructure:"cache_ttl" validate:"gt=0"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" validate:"gt=0"`
}

// RateLimitConfig limits answer submissions per student.
type RateLimitConfig struct {
	AnswersPerMinute int `mapstructure:"answers_per_minute" validate:"gt=0"`
}

// LogConfig selects the zap level and encoder.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format" validate:"omitempty,oneof=json console"`
}

// PostgresConnectionString builds a lib/pq style DSN.
func (d *DatabaseConfig) PostgresConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// PostgresURL builds a URL DSN as expected by golang-migrate.
func (d *DatabaseConfig) PostgresURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

func setDefaults(vip *viper.Viper) {
	vip.SetDefault("server.port", "8080")
	vip.SetDefault("server.read_timeout", 15)
	vip.SetDefault("server.write_timeout", 30)
	vip.SetDefault("database.port", "5432")
	vip.SetDefault("database.sslmode", "disable")
	vip.SetDefault("redis.mode", "single")
	vip.SetDefault("redis.addr", "localhost:6379")
	vip.SetDefault("jwt.issuer", "adaptivin")
	vip.SetDefault("jwt.expiration_hrs", 24)
	vip.SetDefault("session.answer_lock_ttl", "10s")
	vip.SetDefault("session.default_question_count", 10)
	vip.SetDefault("session.default_start_level", 1)
	vip.SetDefault("video.base_url", "https://www.googleapis.com/youtube/v3")
	vip.SetDefault("video.max_results", 3)
	vip.SetDefault("video.cache_ttl", "24h")
	vip.SetDefault("video.request_timeout", "5s")
	vip.SetDefault("rate_limit.answers_per_minute", 30)
	vip.SetDefault("log.level", "info")
	vip.SetDefault("log.format", "json")
}

var envBindings = map[string]string{
	"server.port":                   "SERVER_PORT",
	"database.host":                 "DATABASE_HOST",
	"database.port":                 "DATABASE_PORT",
	"database.user":                 "DATABASE_USER",
	"database.password":             "DATABASE_PASSWORD",
	"database.dbname":               "DATABASE_DBNAME",
	"database.sslmode":              "DATABASE_SSLMODE",
	"redis.mode":                    "REDIS_MODE",
	"redis.addrs":                   "REDIS_ADDRS",
	"redis.addr":                    "REDIS_ADDR",
	"redis.password":                "REDIS_PASSWORD",
	"redis.db":                      "REDIS_DB",
	"redis.master_name":             "REDIS_MASTER_NAME",
	"jwt.secret":                    "JWT_SECRET",
	"jwt.issuer":                    "JWT_ISSUER",
	"video.base_url":                "VIDEO_BASE_URL",
	"video.api_key":                 "VIDEO_API_KEY",
	"session.answer_lock_ttl":       "SESSION_ANSWER_LOCK_TTL",
	"rate_limit.answers_per_minute": "RATE_LIMIT_ANSWERS_PER_MINUTE",
	"log.level":                     "LOG_LEVEL",
	"log.format":                    "LOG_FORMAT",
}

// Load reads configuration from an optional .env file, an optional config
// file at configPath and bound environment variables, then validates it.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	vip := viper.New()
	setDefaults(vip)

	for key, env := range envBindings {
		if err := vip.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if configPath != "" {
		vip.SetConfigFile(configPath)
		if err := vip.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
			}
		}
	}

	var cfg Config
	if err := vip.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks required fields and ranges.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if len(c.Redis.Addrs) == 0 && c.Redis.Addr == "" {
		return fmt.Errorf("invalid config: redis addrs or addr must be provided")
	}
	if c.Redis.Mode == "sentinel" && c.Redis.MasterName == "" {
		return fmt.Errorf("invalid config: redis sentinel mode requires master_name")
	}
	return nil
}

// ConfigPath returns CONFIG_PATH or the default config location.
func ConfigPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "config/config.yaml"
}
