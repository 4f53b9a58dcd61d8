package config

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/viper"
)

type Config struct {
	APIBase    string        `env:"API_BASE"`
	APIPath    string        `env:"API_PATH"`
	APITimeout time.Duration `env:"API_TIMEOUT"`

	ServerPort string `env:"SERVER_PORT"`

	TokenCookie        string        `env:"TOKEN_COOKIE"`
	LoginURL           string        `env:"LOGIN_URL"`
	SessionIdleTimeout time.Duration `env:"SESSION_IDLE_TIMEOUT"`

	Locale      string `env:"VIEW_LOCALE"`
	DefaultUnit string `env:"DEFAULT_UNIT"`

	KafkaHost  string `env:"KAFKA_HOST"`
	KafkaPort  string `env:"KAFKA_PORT"`
	KafkaTopic string `env:"KAFKA_TOPIC"`
}

// LoadConfig reads config.yaml from configPath when present, then applies
// environment overrides.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)

	v.SetDefault("api.base", "https://ec-course-api.hexschool.io/v2")
	v.SetDefault("server.port", "8080")
	v.SetDefault("session.cookie", "hexToken")
	v.SetDefault("session.login_url", "/")
	v.SetDefault("session.idle_timeout", "30m")
	v.SetDefault("view.locale", "en")
	v.SetDefault("kafka.port", "9092")
	v.SetDefault("kafka.topic", "product-changes")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		APIBase:            v.GetString("api.base"),
		APIPath:            v.GetString("api.path"),
		APITimeout:         v.GetDuration("api.timeout"),
		ServerPort:         v.GetString("server.port"),
		TokenCookie:        v.GetString("session.cookie"),
		LoginURL:           v.GetString("session.login_url"),
		SessionIdleTimeout: v.GetDuration("session.idle_timeout"),
		Locale:             v.GetString("view.locale"),
		DefaultUnit:        v.GetString("view.default_unit"),
		KafkaHost:          v.GetString("kafka.host"),
		KafkaPort:          v.GetString("kafka.port"),
		KafkaTopic:         v.GetString("kafka.topic"),
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("error reading environment: %w", err)
	}

	if cfg.APIBase == "" {
		return nil, errors.New("api.base (API_BASE) is required")
	}
	if cfg.APIPath == "" {
		return nil, errors.New("api.path (API_PATH) is required")
	}

	return cfg, nil
}

// KafkaEnabled reports whether product changes should be published.
func (c *Config) KafkaEnabled() bool {
	return c.KafkaHost != ""
}

func (c *Config) KafkaBroker() string {
	return net.JoinHostPort(c.KafkaHost, c.KafkaPort)
}
