package config

import (
	stderrors "errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/vango-dev/reactor/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "reactor.toml"

	// DefaultRecursionLimit mirrors the scheduler default.
	DefaultRecursionLimit = 100

	// DefaultLogLevel is the default slog level name.
	DefaultLogLevel = "info"

	// DefaultNamespace is the default metrics namespace.
	DefaultNamespace = "reactor"

	// DefaultTracerName is the default OpenTelemetry tracer name.
	DefaultTracerName = "reactor"

	// DefaultAddr is the default dev server address.
	DefaultAddr = "localhost:7420"
)

// Config represents reactor.toml.
type Config struct {
	// DevMode enables development warnings from the reactive engine and
	// the renderer.
	DevMode bool `toml:"dev_mode"`

	// RecursionLimit caps how many times one job may run in a flush.
	RecursionLimit int `toml:"recursion_limit"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`

	// Metrics contains Prometheus settings.
	Metrics MetricsConfig `toml:"metrics"`

	// Tracing contains OpenTelemetry settings.
	Tracing TracingConfig `toml:"tracing"`

	// Serve contains dev server settings.
	Serve ServeConfig `toml:"serve"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Enabled registers scheduler and renderer metrics.
	Enabled bool `toml:"enabled"`

	// Namespace is the metrics namespace.
	Namespace string `toml:"namespace"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	// Enabled opens spans for flushes and renders.
	Enabled bool `toml:"enabled"`

	// TracerName is the tracer name passed to otel.Tracer.
	TracerName string `toml:"tracer_name"`
}

// ServeConfig contains dev server settings.
type ServeConfig struct {
	// Addr is the listen address.
	Addr string `toml:"addr"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		RecursionLimit: DefaultRecursionLimit,
		LogLevel:       DefaultLogLevel,
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: DefaultNamespace,
		},
		Tracing: TracingConfig{
			TracerName: DefaultTracerName,
		},
		Serve: ServeConfig{
			Addr: DefaultAddr,
		},
	}
}

// Load reads reactor.toml from dir. A missing file yields the defaults.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path. A missing file
// yields the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := New()
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, errors.New("C001").Wrap(err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		detail := "Failed to parse " + filepath.Base(path) + ": " + err.Error()
		var derr *toml.DecodeError
		if stderrors.As(err, &derr) {
			row, col := derr.Position()
			detail = filepath.Base(path) + ":" + itoa(row) + ":" + itoa(col) + ": " + derr.Error()
		}
		return nil, errors.New("C001").WithDetail(detail).WithSource(path).Wrap(err)
	}

	cfg.configPath = path
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return errors.New("C001").Wrap(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("C001").Wrap(err)
	}
	c.configPath = path
	return nil
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

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.RecursionLimit == 0 {
		c.RecursionLimit = DefaultRecursionLimit
	}
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if strings.TrimSpace(c.Metrics.Namespace) == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if strings.TrimSpace(c.Tracing.TracerName) == "" {
		c.Tracing.TracerName = DefaultTracerName
	}
	if strings.TrimSpace(c.Serve.Addr) == "" {
		c.Serve.Addr = DefaultAddr
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.RecursionLimit < 0 {
		return errors.New("C002").
			WithDetail("recursion_limit must be positive").
			WithSuggestion("Remove recursion_limit to use the default of 100")
	}
	if _, ok := logLevels[c.LogLevel]; !ok {
		return errors.New("C002").
			WithDetail("log_level " + `"` + c.LogLevel + `"` + " is not one of debug, info, warn, error")
	}
	return nil
}

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// SlogLevel returns LogLevel as a slog.Level. Unknown names map to info.
func (c *Config) SlogLevel() slog.Level {
	if l, ok := logLevels[c.LogLevel]; ok {
		return l
	}
	return slog.LevelInfo
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindProjectRoot walks up directories to find the directory containing
// reactor.toml.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("C001").
				WithDetail("No " + ConfigFileName + " found in " + startDir + " or any parent directory").
				WithSuggestion("Create " + ConfigFileName + " or run without one to use the defaults")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the nearest reactor.toml at
// or above the working directory, or the defaults when there is none.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return New(), nil
	}
	return Load(root)
}

// itoa converts int to string without importing strconv.
func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	if n < 0 {
		return "-" + itoa(-n)
	}
	digits := make([]byte, 0, 10)
	for n > 0 {
		digits = append(digits, byte('0'+n%10))
		n /= 10
	}
	for i, j := 0, len(digits)-1; i < j; i, j = i+1, j-1 {
		digits[i], digits[j] = digits[j], digits[i]
	}
	return string(digits)
}
