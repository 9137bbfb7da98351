// Package config loads and validates the host configuration.
//
// Precedence, lowest to highest: built-in defaults, the YAML config file,
// ENGINEHOST_* environment variables. The merged result is validated
// before use.
package config

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the full host configuration.
type Config struct {
	// ScriptPath is where the loadable script module is expected.
	ScriptPath string `yaml:"script_path" env:"SCRIPT_PATH" validate:"required" json:"script_path" jsonschema:"title=Script path,description=Filesystem path to the loadable script module"`

	// Backend selects the module loader: a native shared library or a
	// wasm module.
	Backend string `yaml:"backend" env:"BACKEND" validate:"oneof=native wasm" json:"backend" jsonschema:"enum=native,enum=wasm"`

	// TickRate is simulation ticks per second.
	TickRate int `yaml:"tick_rate" env:"TICK_RATE" validate:"gt=0,lte=1000" json:"tick_rate"`

	// MaxTicks bounds the number of script updates before the host is
	// asked to shut down. Zero runs until host shutdown.
	MaxTicks uint64 `yaml:"max_ticks" env:"MAX_TICKS" json:"max_ticks"`

	LogLevel  string `yaml:"log_level" env:"LOG_LEVEL" validate:"oneof=debug info warn error" json:"log_level" jsonschema:"enum=debug,enum=info,enum=warn,enum=error"`
	LogFormat string `yaml:"log_format" env:"LOG_FORMAT" validate:"oneof=text json" json:"log_format" jsonschema:"enum=text,enum=json"`
}

// Default returns the built-in configuration: the prototype's bounded
// ten-tick run against a native module next to the binary.
func Default() Config {
	return Config{
		ScriptPath: "scripts/libscript.so",
		Backend:    "native",
		TickRate:   60,
		MaxTicks:   10,
		LogLevel:   "info",
		LogFormat:  "text",
	}
}

// Load builds the effective configuration. path may be empty, in which
// case only defaults and environment variables apply.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(raw))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && err != io.EOF {
			return cfg, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "ENGINEHOST_"}); err != nil {
		return cfg, fmt.Errorf("parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the configuration against its declared constraints.
func (c Config) Validate() error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// TickInterval converts the tick rate to the loop interval.
func (c Config) TickInterval() time.Duration {
	return time.Second / time.Duration(c.TickRate)
}

// Logger creates a slog.Logger per the configured level and format. It
// does not touch the global default.
func (c Config) Logger(w io.Writer) *slog.Logger {
	var level slog.Level
	switch c.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if c.LogFormat == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}
