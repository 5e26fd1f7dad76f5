package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config is built once at startup and handed to the components that need it.
// Nothing in the gateway reads the environment after Load returns.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Telnyx   TelnyxConfig
	App      AppConfig
	Session  SessionConfig
	Queue    QueueConfig
}

type ServerConfig struct {
	Address string
}

type DatabaseConfig struct {
	URL string
}

type TelnyxConfig struct {
	APIKey             string
	MessagingProfileID string
	FromNumber         string
	PublicKey          string
	APIURL             string
}

type AppConfig struct {
	Username        string
	Password        string
	RefreshInterval int
	Version         string
}

type SessionConfig struct {
	Secret    string
	TTL       time.Duration
	RedisAddr string // empty means in-memory sessions
}

type QueueConfig struct {
	AMQPURL   string // empty disables event publishing
	QueueName string
}

func Load() (*Config, error) {
	var errs []error

	cfg := &Config{
		Server: ServerConfig{
			Address: getEnv("SERVER_ADDRESS", ":8080"),
		},
		Database: DatabaseConfig{
			URL: mustEnv("DATABASE_URL", &errs),
		},
		Telnyx: TelnyxConfig{
			APIKey:             mustEnv("TELNYX_API_KEY", &errs),
			MessagingProfileID: mustEnv("TELNYX_MESSAGING_PROFILE_ID", &errs),
			FromNumber:         mustEnv("TELNYX_FROM_NUMBER", &errs),
			PublicKey:          mustEnv("TELNYX_PUBLIC_KEY", &errs),
			APIURL:             getEnv("TELNYX_API_URL", ""),
		},
		App: AppConfig{
			Username:        mustEnv("APP_USERNAME", &errs),
			Password:        mustEnv("APP_PASSWORD", &errs),
			RefreshInterval: getEnvInt("REFRESH_INTERVAL_SECONDS", 10, &errs),
			Version:         getEnv("APP_VERSION", "dev"),
		},
		Session: SessionConfig{
			Secret:    getEnv("SESSION_SECRET", "supersecret_session_key"),
			TTL:       time.Duration(getEnvInt("SESSION_TTL_SECONDS", 43200, &errs)) * time.Second,
			RedisAddr: getEnv("REDIS_ADDR", ""),
		},
		Queue: QueueConfig{
			AMQPURL:   getEnv("AMQP_URL", ""),
			QueueName: getEnv("AMQP_QUEUE", "message_events"),
		},
	}

	if cfg.App.RefreshInterval <= 0 {
		errs = append(errs, fmt.Errorf("REFRESH_INTERVAL_SECONDS must be > 0"))
	}
	if cfg.Session.TTL <= 0 {
		errs = append(errs, fmt.Errorf("SESSION_TTL_SECONDS must be > 0"))
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %v", errs)
	}
	return cfg, nil
}

func mustEnv(key string, errs *[]error) string {
	val := os.Getenv(key)
	if val == "" {
		*errs = append(*errs, fmt.Errorf("missing required env var: %s", key))
	}
	return val
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int, errs *[]error) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid int for env %s: %s", key, v))
		return def
	}
	return i
}
