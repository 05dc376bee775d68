package config

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"

	"github.com/xkilldash9x/sonarlens/api/schemas"
)

var (
	instance *Config
	once     sync.Once
)

// Config is the root configuration structure for the entire application.
type Config struct {
	Sonar    SonarConfig    `mapstructure:"sonar"`
	Export   ExportConfig   `mapstructure:"export"`
	Rules    RulesConfig    `mapstructure:"rules"`
	Logger   LoggerConfig   `mapstructure:"logger"`
	Network  NetworkConfig  `mapstructure:"network"`
	Postgres PostgresConfig `mapstructure:"postgres"`
}

// SonarConfig identifies the remote server and the query to run against it.
// It is constructed once per export operation and immutable thereafter.
type SonarConfig struct {
	Server       string   `mapstructure:"server"`
	Token        string   `mapstructure:"token"`
	Organization string   `mapstructure:"organization"`
	Project      string   `mapstructure:"project"`
	Types        []string `mapstructure:"types"`
	Severities   []string `mapstructure:"severities"`
	CreatedAfter string   `mapstructure:"created_after"`
}

// ExportConfig holds settings for the export run itself.
type ExportConfig struct {
	// Concurrency bounds the parallel page fan-out. Zero means one
	// goroutine per remaining page with no cap.
	Concurrency int    `mapstructure:"concurrency"`
	Output      string `mapstructure:"output"`
	Format      string `mapstructure:"format"`
	SaveDB      bool   `mapstructure:"save_db"`
}

// RulesConfig points at an optional JSON file of rule-id to display-name
// overrides, merged over the built-in table.
type RulesConfig struct {
	File string `mapstructure:"file"`
}

// ColorConfig defines the color settings for different log levels.
type ColorConfig struct {
	Debug string `mapstructure:"debug" json:"debug" yaml:"debug"`
	Info  string `mapstructure:"info" json:"info" yaml:"info"`
	Warn  string `mapstructure:"warn" json:"warn" yaml:"warn"`
	Error string `mapstructure:"error" json:"error" yaml:"error"`
	Fatal string `mapstructure:"fatal" json:"fatal" yaml:"fatal"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" json:"level" yaml:"level"`
	Format      string      `mapstructure:"format" json:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" json:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" json:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" json:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" json:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" json:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" json:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" json:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" json:"colors" yaml:"colors"`
}

// NetworkConfig holds settings for HTTP requests.
type NetworkConfig struct {
	Timeout         time.Duration `mapstructure:"timeout"`
	IgnoreTLSErrors bool          `mapstructure:"ignore_tls_errors"`
}

// PostgresConfig holds settings for the optional database sink.
type PostgresConfig struct {
	URL string `mapstructure:"url"`
}

// ValidationError identifies the first missing or invalid configuration
// field, in the fixed check order of Validate.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// Validate checks the query configuration before any network activity.
// The check order is fixed: server, token, organization, project, from-date
// format, type enumeration membership, severity enumeration membership.
// Callers must not proceed past a failure.
func (c *SonarConfig) Validate() error {
	if strings.TrimSpace(c.Server) == "" {
		return &ValidationError{Field: "server", Reason: "must not be empty"}
	}
	if strings.TrimSpace(c.Token) == "" {
		return &ValidationError{Field: "token", Reason: "must not be empty"}
	}
	if strings.TrimSpace(c.Organization) == "" {
		return &ValidationError{Field: "organization", Reason: "must not be empty"}
	}
	if strings.TrimSpace(c.Project) == "" {
		return &ValidationError{Field: "project", Reason: "must not be empty"}
	}
	if c.CreatedAfter != "" {
		if _, err := time.Parse("2006-01-02", c.CreatedAfter); err != nil {
			return &ValidationError{Field: "created_after", Reason: fmt.Sprintf("%q is not a valid YYYY-MM-DD date", c.CreatedAfter)}
		}
	}
	for _, t := range c.Types {
		if !schemas.IssueType(t).Valid() {
			return &ValidationError{Field: "types", Reason: fmt.Sprintf("unknown issue type %q", t)}
		}
	}
	for _, s := range c.Severities {
		if !schemas.Severity(s).Valid() {
			return &ValidationError{Field: "severities", Reason: fmt.Sprintf("unknown severity %q", s)}
		}
	}
	return nil
}

// SetDefaults registers default values so the app can run with a minimal
// config file.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.service_name", "sonarlens")
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("logger.colors.fatal", "red")

	v.SetDefault("sonar.server", "https://sonarcloud.io")
	v.SetDefault("export.format", "json")
	v.SetDefault("export.concurrency", 0)
	v.SetDefault("network.timeout", 30*time.Second)
}

// Load initializes the configuration singleton from Viper.
func Load(v *viper.Viper) error {
	var loadErr error
	once.Do(func() {
		var cfg Config
		if err := v.Unmarshal(&cfg); err != nil {
			loadErr = fmt.Errorf("error unmarshaling config: %w", err)
			return
		}
		instance = &cfg
	})
	return loadErr
}

// Get returns the loaded configuration instance.
func Get() *Config {
	if instance == nil {
		panic("Configuration not initialized. Call config.Load() in the root command.")
	}
	return instance
}
