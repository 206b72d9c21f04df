package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Valkey    ValkeyConfig    `mapstructure:"valkey"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Graph     GraphConfig     `mapstructure:"graph"`
	Query     QueryConfig     `mapstructure:"query"`
	Schedule  ScheduleConfig  `mapstructure:"schedule"`
}

type ServerConfig struct {
	Port         int `mapstructure:"port"`
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type NATSConfig struct {
	URL string `mapstructure:"url"`
}

type ValkeyConfig struct {
	Addr string `mapstructure:"addr"`
}

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	TempoAddr   string `mapstructure:"tempo_addr"`
	Enabled     bool   `mapstructure:"enabled"`
}

// GraphConfig is the builder's transfer-edge policy (spec §4.c). These are
// build-time inputs, never inferred from the schedule document itself.
type GraphConfig struct {
	MinConnectMinutes int `mapstructure:"min_connect_minutes"`
	MaxWaitMinutes    int `mapstructure:"max_wait_minutes"`
}

// QueryConfig holds the facade's request-level defaults and caps (spec §4.g).
type QueryConfig struct {
	DefaultWindowMinutes  int `mapstructure:"default_window_minutes"`
	MaxTransfersCap       int `mapstructure:"max_transfers_cap"`
	RequestTimeoutSeconds int `mapstructure:"request_timeout_seconds"`
	CacheTTLSeconds       int `mapstructure:"cache_ttl_seconds"`
}

// ScheduleConfig points at the schedule document the engine builds its
// graph from at startup.
type ScheduleConfig struct {
	FilePath string `mapstructure:"file_path"`
}

// Load reads configuration from file and environment variables.
func Load(service string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "trenbide")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "trenbide")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.tempo_addr", "tempo:4317")
	v.SetDefault("telemetry.enabled", true)
	v.SetDefault("graph.min_connect_minutes", 1)
	v.SetDefault("graph.max_wait_minutes", 60)
	v.SetDefault("query.default_window_minutes", 120)
	v.SetDefault("query.max_transfers_cap", 2)
	v.SetDefault("query.request_timeout_seconds", 30)
	v.SetDefault("query.cache_ttl_seconds", 30)
	v.SetDefault("schedule.file_path", "schedule.json")

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: TRENBIDE_DATABASE_HOST → database.host
	v.SetEnvPrefix("TRENBIDE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Database.Host == "" {
		errs = append(errs, "database.host is required")
	}
	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", c.Database.Port))
	}
	if c.Database.User == "" {
		errs = append(errs, "database.user is required")
	}
	if c.Database.DBName == "" {
		errs = append(errs, "database.dbname is required")
	}
	if c.NATS.URL == "" {
		errs = append(errs, "nats.url is required")
	}
	if c.Valkey.Addr == "" {
		errs = append(errs, "valkey.addr is required")
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}
	if c.Graph.MinConnectMinutes < 1 {
		errs = append(errs, "graph.min_connect_minutes must be >= 1")
	}
	if c.Graph.MaxWaitMinutes < c.Graph.MinConnectMinutes {
		errs = append(errs, "graph.max_wait_minutes must be >= graph.min_connect_minutes")
	}
	if c.Query.MaxTransfersCap < 0 || c.Query.MaxTransfersCap > 2 {
		errs = append(errs, "query.max_transfers_cap must be in [0,2]")
	}
	if c.Query.DefaultWindowMinutes < 0 || c.Query.DefaultWindowMinutes > 480 {
		errs = append(errs, "query.default_window_minutes must be in [0,480]")
	}
	if c.Query.RequestTimeoutSeconds <= 0 {
		errs = append(errs, "query.request_timeout_seconds must be positive")
	}
	if c.Schedule.FilePath == "" {
		errs = append(errs, "schedule.file_path is required")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
