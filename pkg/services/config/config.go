package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/de-tools/vehicle-atlas/pkg/models/domain"
	"github.com/de-tools/vehicle-atlas/pkg/services/format"
)

const (
	configName      = "vehicle-atlas"
	configType      = "yaml"
	envPrefix       = "VEHICLE_ATLAS"
	envKeySeparator = "_"
)

// Config is the top-level configuration shared by the CLI and the web server.
type Config struct {
	Render    RenderConfig    `mapstructure:"render"`
	Packages  PackagesConfig  `mapstructure:"packages"`
	Server    ServerConfig    `mapstructure:"server"`
	Artifacts ArtifactsConfig `mapstructure:"artifacts"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type RenderConfig struct {
	Title          string `mapstructure:"title"`
	CurrencySymbol string `mapstructure:"currency_symbol"`
	Placeholder    string `mapstructure:"placeholder"`
	FallbackFormat string `mapstructure:"fallback_format"`
	// Strategy is hide or blur for sections outside the package.
	Strategy string `mapstructure:"strategy"`
	// RulesPath names a YAML file merged over the built-in field rules.
	RulesPath string `mapstructure:"rules_path"`
}

type PackagesConfig struct {
	// Path of the package INI file. Empty uses the built-in packages.
	Path string `mapstructure:"path"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type ArtifactsConfig struct {
	// Backend is empty (no sink), file or s3.
	Backend   string `mapstructure:"backend"`
	Directory string `mapstructure:"directory"`
	S3Bucket  string `mapstructure:"s3_bucket"`
	S3Region  string `mapstructure:"s3_region"`
	S3Prefix  string `mapstructure:"s3_prefix"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

const (
	BackendNone = ""
	BackendFile = "file"
	BackendS3   = "s3"
)

// Sentinel errors for configuration validation.
var (
	ErrInvalidStrategy  = errors.New("render.strategy must be hide or blur")
	ErrInvalidPort      = errors.New("server.port must be between 1 and 65535")
	ErrInvalidTimeout   = errors.New("server.shutdown_timeout must be positive")
	ErrInvalidBackend   = errors.New("artifacts.backend must be empty, file or s3")
	ErrMissingDirectory = errors.New("artifacts.directory is required for the file backend")
	ErrMissingBucket    = errors.New("artifacts.s3_bucket is required for the s3 backend")
	ErrInvalidLogLevel  = errors.New("logging.level is not a valid level")
)

// Load reads configuration from file, env vars and defaults. An empty path
// searches for vehicle-atlas.yaml in the working directory; a missing file is
// not an error then.
func Load(path string) (*Config, error) {
	v := viper.New()
	applyDefaults(v)

	v.SetConfigType(configType)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func applyDefaults(v *viper.Viper) {
	v.SetDefault("render.title", "Vehicle History Report")
	v.SetDefault("render.currency_symbol", format.DefaultCurrencySymbol)
	v.SetDefault("render.placeholder", format.DefaultPlaceholder)
	v.SetDefault("render.fallback_format", "html")
	v.SetDefault("render.strategy", string(domain.StrategyHide))
	v.SetDefault("render.rules_path", "")

	v.SetDefault("packages.path", "")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("artifacts.backend", BackendNone)
	v.SetDefault("artifacts.directory", "")
	v.SetDefault("artifacts.s3_bucket", "")
	v.SetDefault("artifacts.s3_region", "")
	v.SetDefault("artifacts.s3_prefix", "reports/")

	v.SetDefault("logging.level", "info")
}

// Validate checks Config invariants and returns the first error found.
func (c *Config) Validate() error {
	if _, err := domain.ParseStrategy(c.Render.Strategy); err != nil {
		return ErrInvalidStrategy
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return ErrInvalidPort
	}
	if c.Server.ShutdownTimeout <= 0 {
		return ErrInvalidTimeout
	}
	switch c.Artifacts.Backend {
	case BackendNone:
	case BackendFile:
		if c.Artifacts.Directory == "" {
			return ErrMissingDirectory
		}
	case BackendS3:
		if c.Artifacts.S3Bucket == "" {
			return ErrMissingBucket
		}
	default:
		return ErrInvalidBackend
	}
	if _, err := zerolog.ParseLevel(c.Logging.Level); err != nil {
		return ErrInvalidLogLevel
	}
	return nil
}

// Strategy is the validated visibility strategy.
func (c *Config) Strategy() domain.Strategy {
	s, _ := domain.ParseStrategy(c.Render.Strategy)
	return s
}

// LogLevel is the validated log level.
func (c *Config) LogLevel() zerolog.Level {
	l, err := zerolog.ParseLevel(c.Logging.Level)
	if err != nil {
		return zerolog.InfoLevel
	}
	return l
}

// FormatOptions are the formatter options before field rules add unit
// overrides.
func (c *Config) FormatOptions() format.Options {
	opts := format.DefaultOptions()
	if c.Render.CurrencySymbol != "" {
		opts.CurrencySymbol = c.Render.CurrencySymbol
	}
	if c.Render.Placeholder != "" {
		opts.Placeholder = c.Render.Placeholder
	}
	return opts
}

func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}
