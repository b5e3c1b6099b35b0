package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variable overrides.
const EnvPrefix = "DQREPLAY"

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "development")
	v.SetDefault("root", ".")
	v.SetDefault("database.driver", "duckdb")
	v.SetDefault("database.path", "db/analytics.duckdb")
	v.SetDefault("tables.source", "core.fact_events_all")
	v.SetDefault("tables.working", "core.fact_events")
	v.SetDefault("tables.timestamp_column", "event_ts")
	v.SetDefault("tables.params_view", "params")
	v.SetDefault("scripts.dir", "sql")
	v.SetDefault("scripts.load", "01_load.sql")
	v.SetDefault("scripts.dq_tables", "03_dq_tables.sql")
	v.SetDefault("scripts.dq_checks", "04_dq_checks.sql")
	v.SetDefault("scripts.anomalies", "05_anomalies.sql")
	v.SetDefault("fault.enabled", false)
	v.SetDefault("fault.date", "2019-11-18")
	v.SetDefault("fault.rate", 0.20)
	v.SetDefault("fault.column", "session_id")
	v.SetDefault("export.dir", "data/output")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.driver", "kafka")
	v.SetDefault("logging.kafka.topic", "logging")
	v.SetDefault("logging.rabbitmq.queue", "logging")
}

// Load reads configuration from path, or from configs/config.yml when path is
// empty, and from environment variables. Environment variables take
// precedence and are upper case with underscores, e.g. DQREPLAY_DATABASE_PATH.
// A missing default config file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
	}
	v.AutomaticEnv()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Logging.File == "" && cfg.Env != "production" {
		cfg.Logging.File = "app.log"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges that viper cannot express.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Fault.Rate < 0 || c.Fault.Rate > 1 {
		return fmt.Errorf("fault.rate must be within [0, 1], got %v", c.Fault.Rate)
	}
	if c.Fault.Enabled {
		if _, err := time.Parse("2006-01-02", c.Fault.Date); err != nil {
			return fmt.Errorf("fault.date must be YYYY-MM-DD, got %q", c.Fault.Date)
		}
		if c.Fault.Column == "" {
			return fmt.Errorf("fault.column is required when fault injection is enabled")
		}
	}
	return nil
}
