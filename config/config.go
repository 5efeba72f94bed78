// Package config loads kc settings from kc.toml or kc.yaml and the
// environment.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/ohadk123/kc/parse"
)

// Version is the kc release, checked against Config.Requires.
const Version = "0.3.0"

// Names are the files Discover looks for, in order.
var Names = []string{"kc.toml", "kc.yaml", "kc.yml", ".kc.toml"}

type Config struct {
	Debug     bool   `toml:"debug" yaml:"debug"`
	Color     string `toml:"color" yaml:"color"`
	MaxErrors int    `toml:"max_errors" yaml:"max_errors"`
	LogLevel  string `toml:"log_level" yaml:"log_level"`
	Jobs      int    `toml:"jobs" yaml:"jobs"`
	Requires  string `toml:"requires" yaml:"requires"`
}

func Default() *Config {
	return &Config{
		Color:     "auto",
		MaxErrors: parse.DefaultMaxErrors,
		LogLevel:  "warn",
		Jobs:      runtime.NumCPU(),
	}
}

// Load reads the file at path, picking the format from its extension, then
// applies environment overrides and validates the result. Keys that do not
// name a setting are an error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	c := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		md, err := toml.Decode(string(data), c)
		if err != nil {
			return nil, fmt.Errorf("%s: TOML parse error: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) != 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			sort.Strings(keys)
			return nil, fmt.Errorf("%s: unknown settings: %s", path, strings.Join(keys, ", "))
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: YAML parse error: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("%s: unsupported config format %q", path, ext)
	}
	if err := c.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Discover loads the first of Names found in dir. Without one it returns
// the defaults with environment overrides applied, and an empty path.
func Discover(dir string) (*Config, string, error) {
	for _, name := range Names {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		c, err := Load(path)
		return c, path, err
	}
	c := Default()
	if err := c.ApplyEnv(); err != nil {
		return nil, "", err
	}
	if err := c.Validate(); err != nil {
		return nil, "", err
	}
	return c, "", nil
}

// ApplyEnv overrides settings from KCDEBUG, KC_COLOR, KC_MAX_ERRORS and
// KC_LOG_LEVEL.
func (c *Config) ApplyEnv() error {
	if v, ok := os.LookupEnv("KCDEBUG"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("KCDEBUG: %w", err)
		}
		c.Debug = b
	}
	if v, ok := os.LookupEnv("KC_COLOR"); ok && v != "" {
		c.Color = v
	}
	if v, ok := os.LookupEnv("KC_MAX_ERRORS"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("KC_MAX_ERRORS: %w", err)
		}
		c.MaxErrors = n
	}
	if v, ok := os.LookupEnv("KC_LOG_LEVEL"); ok && v != "" {
		c.LogLevel = v
	}
	return nil
}

func (c *Config) Validate() error {
	switch c.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("invalid color %q, want auto, always or never", c.Color)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.MaxErrors < 0 {
		return fmt.Errorf("max_errors must not be negative, got %d", c.MaxErrors)
	}
	if c.Jobs < 0 {
		return fmt.Errorf("jobs must not be negative, got %d", c.Jobs)
	}
	if c.Requires != "" {
		constraint, err := semver.NewConstraint(c.Requires)
		if err != nil {
			return fmt.Errorf("invalid requires %q: %w", c.Requires, err)
		}
		if !constraint.Check(semver.MustParse(Version)) {
			return fmt.Errorf("kc %s does not satisfy requires %q", Version, c.Requires)
		}
	}
	return nil
}

// Level parses LogLevel. An empty level means warn.
func (c *Config) Level() (slog.Level, error) {
	if c.LogLevel == "" {
		return slog.LevelWarn, nil
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return l, nil
}
