package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/sergev/closures/parser"
)

// Config holds the settings of the closures command.
type Config struct {
	// Dialect names a built-in keyword set: "scheme" or "js".
	Dialect string `yaml:"dialect"`
	// Keywords overrides individual keywords of the chosen dialect.
	Keywords parser.Keywords `yaml:"keywords"`
	REPL     REPL            `yaml:"repl"`
	Log      Log             `yaml:"log"`
}

// REPL configures the interactive loop.
type REPL struct {
	Prompt       string `yaml:"prompt"`
	Continuation string `yaml:"continuation"`
	// History is the history file path. A leading ~/ expands to the home
	// directory; an empty value disables history.
	History string `yaml:"history"`
}

// Log configures the zap logger.
type Log struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Dialect: parser.Scheme.Name,
		REPL: REPL{
			Prompt:       "closures> ",
			Continuation: "....      ",
			History:      "~/.closures_history",
		},
		Log: Log{Level: "warn"},
	}
}

// Load reads a YAML configuration file on top of Default. Unknown keys are
// rejected. An empty file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, fmt.Errorf("config: empty path")
	}
	file, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Default(), fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that the dialect resolves and the log level parses.
func (c Config) Validate() error {
	if _, err := c.ResolveDialect(); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// ResolveDialect returns the named dialect with keyword overrides applied.
func (c Config) ResolveDialect() (parser.Dialect, error) {
	d, err := parser.DialectByName(c.Dialect)
	if err != nil {
		return parser.Dialect{}, err
	}
	d.Keywords = d.Keywords.Merge(c.Keywords)
	if err := d.Validate(); err != nil {
		return parser.Dialect{}, err
	}
	return d, nil
}

// Level parses the configured log level. Empty means warn.
func (c Config) Level() (zapcore.Level, error) {
	if strings.TrimSpace(c.Log.Level) == "" {
		return zapcore.WarnLevel, nil
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(c.Log.Level))); err != nil {
		return lvl, fmt.Errorf("log level: %w", err)
	}
	return lvl, nil
}

// HistoryPath expands the history setting. It returns "" when history is
// disabled or the home directory is unknown.
func (c Config) HistoryPath() string {
	path := strings.TrimSpace(c.REPL.History)
	if path == "" {
		return ""
	}
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		home, err := os.UserHomeDir()
		if err != nil || home == "" {
			return ""
		}
		return filepath.Join(home, rest)
	}
	return path
}
