package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config holds all configuration for the API server
type Config struct {
	Port      string
	Mongo     MongoConfig
	JWT       JWTConfig
	Log       LogConfig
	MQTT      MQTTConfig
	ResetCode ResetCodeConfig
	RateLimit RateLimitConfig

	// TrustProxy makes client addresses come from X-Forwarded-For /
	// X-Real-IP. Enable only behind a proxy that overwrites them.
	TrustProxy bool
}

// MongoConfig holds database settings
type MongoConfig struct {
	URI      string
	Database string
}

// JWTConfig holds token settings
type JWTConfig struct {
	Secret string
	Expiry time.Duration
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Format string
}

// MQTTConfig holds status alert broker settings. An empty broker disables
// alerts.
type MQTTConfig struct {
	Broker      string
	ClientID    string
	TopicPrefix string
	Username    string
	Password    string
}

// ResetCodeConfig holds password reset settings
type ResetCodeConfig struct {
	TTL time.Duration
}

// RateLimitConfig holds per-client request limits
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// legacyEnv maps the plain environment names used by existing deployments
// onto config keys.
var legacyEnv = map[string]string{
	"port":       "PORT",
	"mongo.uri":  "MONGO_URI",
	"jwt.secret": "JWT_SECRET",
	"jwt.expiry": "JWT_EXPIRY",
}

// Load reads .env (when present), config.yaml and environment variables,
// in increasing order of precedence.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	v.SetDefault("port", "8080")
	v.SetDefault("trust_proxy", false)
	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "marine_pms")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiry", "24h")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("mqtt.broker", "")
	v.SetDefault("mqtt.client_id", "")
	v.SetDefault("mqtt.topic_prefix", "marine-pms")
	v.SetDefault("mqtt.username", "")
	v.SetDefault("mqtt.password", "")
	v.SetDefault("reset_code.ttl", "10m")
	v.SetDefault("rate_limit.requests", 300)
	v.SetDefault("rate_limit.window_seconds", 60)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/marine-pms")
	v.AddConfigPath(".")

	if configPath := os.Getenv("PMS_CONFIG_PATH"); configPath != "" {
		v.SetConfigFile(configPath)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("PMS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range legacyEnv {
		if err := v.BindEnv(key, "PMS_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, err
		}
	}

	cfg := &Config{
		Port:       v.GetString("port"),
		TrustProxy: v.GetBool("trust_proxy"),
		Mongo: MongoConfig{
			URI:      v.GetString("mongo.uri"),
			Database: v.GetString("mongo.database"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("jwt.secret"),
			Expiry: v.GetDuration("jwt.expiry"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		MQTT: MQTTConfig{
			Broker:      v.GetString("mqtt.broker"),
			ClientID:    v.GetString("mqtt.client_id"),
			TopicPrefix: v.GetString("mqtt.topic_prefix"),
			Username:    v.GetString("mqtt.username"),
			Password:    v.GetString("mqtt.password"),
		},
		ResetCode: ResetCodeConfig{
			TTL: v.GetDuration("reset_code.ttl"),
		},
		RateLimit: RateLimitConfig{
			Requests: v.GetInt("rate_limit.requests"),
			Window:   time.Duration(v.GetInt("rate_limit.window_seconds")) * time.Second,
		},
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// validate validates the configuration values
func validate(cfg *Config) error {
	if cfg.Port == "" {
		return fmt.Errorf("port is required")
	}
	if cfg.Mongo.URI == "" {
		return fmt.Errorf("mongo.uri is required")
	}
	if cfg.Mongo.Database == "" {
		return fmt.Errorf("mongo.database is required")
	}
	if cfg.JWT.Expiry <= 0 {
		return fmt.Errorf("jwt.expiry must be greater than 0")
	}
	if cfg.ResetCode.TTL <= 0 {
		return fmt.Errorf("reset_code.ttl must be greater than 0")
	}
	if cfg.RateLimit.Requests <= 0 {
		return fmt.Errorf("rate_limit.requests must be greater than 0")
	}
	if cfg.RateLimit.Window <= 0 {
		return fmt.Errorf("rate_limit.window_seconds must be greater than 0")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[strings.ToLower(cfg.Log.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", cfg.Log.Level)
	}

	validLogFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validLogFormats[strings.ToLower(cfg.Log.Format)] {
		return fmt.Errorf("invalid log format: %s (must be text or json)", cfg.Log.Format)
	}

	return nil
}

// NewLogger builds a logrus logger from the log settings.
func (c LogConfig) NewLogger() *logrus.Logger {
	logger := logrus.New()
	level, err := logrus.ParseLevel(strings.ToLower(c.Level))
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	if strings.EqualFold(c.Format, "json") {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}
