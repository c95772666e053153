package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/vango-dev/spark/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "spark.json"

	// DefaultPort is the default preview server port.
	DefaultPort = 4000

	// DefaultHost is the default preview server host.
	DefaultHost = "localhost"

	// DefaultOutput is the default publish directory.
	DefaultOutput = "dist"

	// DefaultLogLevel is the default log level.
	DefaultLogLevel = "info"

	// DefaultLogFormat is the default log format.
	DefaultLogFormat = "text"
)

// Config represents the complete spark.json configuration.
type Config struct {
	// Serve contains live preview server configuration.
	Serve ServeConfig `json:"serve"`

	// Publish contains publishing configuration.
	Publish PublishConfig `json:"publish"`

	// Log contains logging configuration.
	Log LogConfig `json:"log"`

	// configPath is the path this config was loaded from.
	configPath string
}

// ServeConfig configures the preview server.
type ServeConfig struct {
	// Host is the interface to bind.
	Host string `json:"host,omitempty"`

	// Port is the port to listen on.
	Port int `json:"port,omitempty"`

	// Watch enables reloading the tree file when it changes.
	Watch *bool `json:"watch,omitempty"`
}

// PublishConfig configures where rendered pages are written.
type PublishConfig struct {
	// Dir is the output directory for the directory publisher.
	Dir string `json:"dir,omitempty"`

	// Bucket selects the S3 publisher when set.
	Bucket string `json:"bucket,omitempty"`

	// Prefix is prepended to every object key.
	Prefix string `json:"prefix,omitempty"`

	// Region is the AWS region of the bucket.
	Region string `json:"region,omitempty"`
}

// LogConfig configures the CLI logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads configuration from the specified directory.
// It looks for spark.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.CodeConfigRead).
				WithDetail("No spark.json found in " + filepath.Dir(path)).
				WithSuggestion("Create spark.json or run without a config to use the defaults")
		}
		return nil, errors.New(errors.CodeConfigRead).Wrap(err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New(errors.CodeConfigRead).
			WithDetail("Failed to parse spark.json: " + err.Error()).
			WithSuggestion("Check that spark.json is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads spark.json from dir, falling back to defaults when the
// file does not exist. Parse and validation errors are still returned.
func LoadOrDefault(dir string) (*Config, error) {
	if !Exists(dir) {
		return New(), nil
	}
	return Load(dir)
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

func (c *Config) applyDefaults() {
	if c.Serve.Host == "" {
		c.Serve.Host = DefaultHost
	}
	if c.Serve.Port == 0 {
		c.Serve.Port = DefaultPort
	}
	if c.Serve.Watch == nil {
		watch := true
		c.Serve.Watch = &watch
	}
	if c.Publish.Dir == "" {
		c.Publish.Dir = DefaultOutput
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Serve.Port < 0 || c.Serve.Port > 65535 {
		return errors.New(errors.CodeConfigInvalid).
			WithDetailf("serve.port %d is out of range", c.Serve.Port).
			WithSuggestion("Port must be between 0 and 65535")
	}
	if _, ok := parseLevel(c.Log.Level); !ok {
		return errors.New(errors.CodeConfigInvalid).
			WithDetailf("log.level %q is not recognised", c.Log.Level).
			WithSuggestion("Use one of debug, info, warn, error")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.New(errors.CodeConfigInvalid).
			WithDetailf("log.format %q is not recognised", c.Log.Format).
			WithSuggestion("Use text or json")
	}
	if c.Publish.Bucket != "" && c.Publish.Region == "" {
		return errors.New(errors.CodeConfigInvalid).
			WithDetail("publish.region is required when publish.bucket is set")
	}
	return nil
}

// WatchEnabled reports whether the preview server reloads on file changes.
func (c *Config) WatchEnabled() bool {
	return c.Serve.Watch == nil || *c.Serve.Watch
}

// ServeAddress returns the listen address for the preview server.
func (c *Config) ServeAddress() string {
	return c.Serve.Host + ":" + strconv.Itoa(c.Serve.Port)
}

// OutputPath returns the publish directory, resolved against the config's
// directory when relative.
func (c *Config) OutputPath() string {
	if filepath.IsAbs(c.Publish.Dir) {
		return c.Publish.Dir
	}
	return filepath.Join(c.Dir(), c.Publish.Dir)
}

// Level returns the configured slog level.
func (c *Config) Level() slog.Level {
	level, _ := parseLevel(c.Log.Level)
	return level
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}
