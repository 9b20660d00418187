package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mcuadros/go-defaults"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/srg/cut/pkg/cut"
)

// Config holds runner configuration, usually read from a YAML file.
type Config struct {
	// LogLevel is empty (silent), debug, info, warn or error.
	LogLevel string `yaml:"log_level" default:"" validate:"omitempty,oneof=debug info warn error"`

	// ShowCases and ShowTests list the results that produce output lines:
	// pass, fail, skip, error, or all / none. Unset keeps the built-in defaults.
	ShowCases []string `yaml:"show_cases" validate:"omitempty,dive,oneof=pass fail skip error all none"`
	ShowTests []string `yaml:"show_tests" validate:"omitempty,dive,oneof=pass fail skip error all none"`

	Color    string        `yaml:"color" default:"auto" validate:"oneof=auto always never"`
	SlowTest time.Duration `yaml:"slow_test" default:"0s" validate:"min=0"`
	Recap    int           `yaml:"recap" default:"16" validate:"min=0,max=4096"`

	// Include holds test-name substrings; empty runs everything.
	Include []string `yaml:"include" validate:"dive,required"`

	// Scripts are Lua suite files loaded before the run.
	Scripts []string `yaml:"scripts" validate:"dive,required"`
}

// DefaultConfig returns default configuration values
func DefaultConfig() *Config {
	cfg := &Config{}
	defaults.SetDefaults(cfg)
	return cfg
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Level maps LogLevel to a logrus level. Empty means panic level, which keeps
// the runner quiet.
func (c *Config) Level() (logrus.Level, error) {
	switch c.LogLevel {
	case "":
		return logrus.PanicLevel, nil
	case "debug":
		return logrus.DebugLevel, nil
	case "info":
		return logrus.InfoLevel, nil
	case "warn":
		return logrus.WarnLevel, nil
	case "error":
		return logrus.ErrorLevel, nil
	}
	return logrus.PanicLevel, fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
}

// NewLogger creates a configured logger instance writing to stderr
func (c *Config) NewLogger() (*logrus.Logger, error) {
	level, err := c.Level()
	if err != nil {
		return nil, err
	}

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
	return logger, nil
}

// Verbosity converts ShowCases and ShowTests into session verbosity.
func (c *Config) Verbosity() (cut.Verbosity, error) {
	v := cut.DefaultVerbosity()

	var err error
	if c.ShowCases != nil {
		if v.Cases, err = flagsOf(c.ShowCases); err != nil {
			return v, fmt.Errorf("show_cases: %w", err)
		}
	}
	if c.ShowTests != nil {
		if v.Tests, err = flagsOf(c.ShowTests); err != nil {
			return v, fmt.Errorf("show_tests: %w", err)
		}
	}
	return v, nil
}

func flagsOf(names []string) (cut.Flags, error) {
	var f cut.Flags
	for _, name := range names {
		switch strings.ToLower(name) {
		case "all":
			f = cut.FlagAll
		case "none":
			f = 0
		default:
			r, err := cut.ParseResult(name)
			if err != nil {
				return 0, err
			}
			f |= r.Flag()
		}
	}
	return f, nil
}

// ColorEnabled resolves Color for the given writer. "auto" colors terminals
// unless NO_COLOR is set.
func (c *Config) ColorEnabled(w io.Writer) bool {
	switch c.Color {
	case "always":
		return true
	case "never":
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
