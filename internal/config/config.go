// Package config loads application settings from defaults, an optional
// config/config.yaml file and the environment, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds every runtime setting of the service.
type Config struct {
	Env            string         `mapstructure:"APP_ENV" validate:"oneof=development production test"`
	Port           string         `mapstructure:"APP_PORT" validate:"required"`
	APIPrefix      string         `mapstructure:"API_PREFIX"`
	LogLevel       string         `mapstructure:"LOG_LEVEL" validate:"oneof=trace debug info warn error"`
	FrontendURL    string         `mapstructure:"FRONTEND_URL" validate:"required"`
	RabbitMQURL    string         `mapstructure:"RABBITMQ_URL" validate:"omitempty,url"`
	MetricsEnabled bool           `mapstructure:"METRICS_ENABLED"`
	Database       DatabaseConfig `mapstructure:",squash"`
}

// DatabaseConfig selects and locates the product store.
type DatabaseConfig struct {
	Driver          string        `mapstructure:"DATABASE_DRIVER" validate:"oneof=postgres sqlite memory"`
	DSN             string        `mapstructure:"DATABASE_DSN" validate:"required_unless=Driver memory"`
	ConnectAttempts int           `mapstructure:"DATABASE_CONNECT_ATTEMPTS" validate:"min=1"`
	ConnectBackoff  time.Duration `mapstructure:"DATABASE_CONNECT_BACKOFF"`
}

var defaults = map[string]any{
	"APP_ENV":                   "development",
	"APP_PORT":                  ":8080",
	"API_PREFIX":                "/api",
	"LOG_LEVEL":                 "info",
	"FRONTEND_URL":              "*",
	"RABBITMQ_URL":              "",
	"METRICS_ENABLED":           true,
	"DATABASE_DRIVER":           "postgres",
	"DATABASE_DSN":              "host=127.0.0.1 user=postgres password=postgres dbname=products port=5432 sslmode=disable",
	"DATABASE_CONNECT_ATTEMPTS": 3,
	"DATABASE_CONNECT_BACKOFF":  "1s",
}

// Load reads the configuration. configDirs are searched for config.yaml;
// when none are given ./config is used. A missing file is not an error.
func Load(configDirs ...string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()

	if len(configDirs) == 0 {
		configDirs = []string{"./config/"}
	}
	for _, dir := range configDirs {
		v.AddConfigPath(dir)
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Allow ${VAR} references inside string values of the config file.
	for _, key := range v.AllKeys() {
		val := v.Get(key)
		if val != nil && reflect.TypeOf(val).Kind() == reflect.String {
			v.Set(key, os.ExpandEnv(val.(string)))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// IsDevelopment reports whether the service runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
