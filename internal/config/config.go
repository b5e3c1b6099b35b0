package config

import (
	"path/filepath"

	"github.com/lenhattri/dqreplay/internal/notifier"
)

// Config represents application configuration loaded from file or environment.
type Config struct {
	Env      string `mapstructure:"env" yaml:"env"`
	User     string `mapstructure:"user" yaml:"user"`
	Root     string `mapstructure:"root" yaml:"root"`
	Database struct {
		Driver string `mapstructure:"driver" yaml:"driver"`
		// Path is a file path for embedded engines and a DSN otherwise.
		Path string `mapstructure:"path" yaml:"path"`
	} `mapstructure:"database" yaml:"database"`
	Tables struct {
		Source          string `mapstructure:"source" yaml:"source"`
		Working         string `mapstructure:"working" yaml:"working"`
		TimestampColumn string `mapstructure:"timestamp_column" yaml:"timestamp_column"`
		ParamsView      string `mapstructure:"params_view" yaml:"params_view"`
	} `mapstructure:"tables" yaml:"tables"`
	Scripts struct {
		Dir       string `mapstructure:"dir" yaml:"dir"`
		Load      string `mapstructure:"load" yaml:"load"`
		DQTables  string `mapstructure:"dq_tables" yaml:"dq_tables"`
		DQChecks  string `mapstructure:"dq_checks" yaml:"dq_checks"`
		Anomalies string `mapstructure:"anomalies" yaml:"anomalies"`
	} `mapstructure:"scripts" yaml:"scripts"`
	Fault struct {
		Enabled bool    `mapstructure:"enabled" yaml:"enabled"`
		Date    string  `mapstructure:"date" yaml:"date"`
		Rate    float64 `mapstructure:"rate" yaml:"rate"`
		Column  string  `mapstructure:"column" yaml:"column"`
	} `mapstructure:"fault" yaml:"fault"`
	Export struct {
		Dir string `mapstructure:"dir" yaml:"dir"`
	} `mapstructure:"export" yaml:"export"`
	Metrics struct {
		Textfile string `mapstructure:"textfile" yaml:"textfile"`
	} `mapstructure:"metrics" yaml:"metrics"`
	Logging struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Driver string `mapstructure:"driver" yaml:"driver"`
		File   string `mapstructure:"file" yaml:"file"`
		Kafka  struct {
			Brokers []string `mapstructure:"brokers" yaml:"brokers"`
			Topic   string   `mapstructure:"topic" yaml:"topic"`
		} `mapstructure:"kafka" yaml:"kafka"`
		RabbitMQ struct {
			URL   string `mapstructure:"url" yaml:"url"`
			Queue string `mapstructure:"queue" yaml:"queue"`
		} `mapstructure:"rabbitmq" yaml:"rabbitmq"`
	} `mapstructure:"logging" yaml:"logging"`
	Notifier notifier.Config `mapstructure:"notifier" yaml:"notifier"`
}

// Resolve returns p relative to the project root unless it is absolute.
func (c *Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Root, p)
}

// DSN returns the connection string for the configured driver. Embedded
// engines take a file path resolved against the project root.
func (c *Config) DSN() string {
	switch c.Database.Driver {
	case "duckdb", "sqlite":
		if c.Database.Path == ":memory:" {
			return c.Database.Path
		}
		return c.Resolve(c.Database.Path)
	default:
		return c.Database.Path
	}
}
