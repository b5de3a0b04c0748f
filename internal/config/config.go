package config

import (
	"fmt"
	"log/slog"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"lineclamp/internal/logging"
	"lineclamp/pkg/clamp"
	"lineclamp/pkg/text"
)

// Viewport is the page size used for layout, in CSS pixels.
type Viewport struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type Server struct {
	Addr string `yaml:"addr"`
}

// Config is a clampit profile.
type Config struct {
	Viewport        Viewport        `yaml:"viewport"`
	Fonts           text.FontConfig `yaml:"fonts"`
	LogLevel        string          `yaml:"log_level"`
	NativeLineClamp *bool           `yaml:"native_line_clamp"`
	Clamp           clamp.Config    `yaml:"clamp"`
	Server          Server          `yaml:"server"`
}

func Default() *Config {
	return &Config{
		Viewport: Viewport{Width: 800, Height: 600},
		Fonts:    text.DefaultFontConfig(),
		LogLevel: "info",
		Server:   Server{Addr: ":8080"},
	}
}

// Load reads a YAML profile. ${VAR} and ${VAR:default} are expanded from
// the environment first. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file: %w", err)
	}
	if err := yaml.Unmarshal([]byte(expandEnv(string(content))), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults fills fields a profile left empty.
func (c *Config) applyDefaults() {
	def := Default()
	if c.Viewport.Width <= 0 {
		c.Viewport.Width = def.Viewport.Width
	}
	if c.Viewport.Height <= 0 {
		c.Viewport.Height = def.Viewport.Height
	}
	fonts := [][2]*string{
		{&c.Fonts.Regular, &def.Fonts.Regular},
		{&c.Fonts.Bold, &def.Fonts.Bold},
		{&c.Fonts.Italic, &def.Fonts.Italic},
		{&c.Fonts.BoldItalic, &def.Fonts.BoldItalic},
		{&c.Fonts.Monospace, &def.Fonts.Monospace},
	}
	for _, f := range fonts {
		if *f[0] == "" {
			*f[0] = *f[1]
		}
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if c.Server.Addr == "" {
		c.Server.Addr = def.Server.Addr
	}
}

// NativeClamp reports whether the layout engine should honour
// -webkit-line-clamp. It defaults to true.
func (c *Config) NativeClamp() bool {
	return c.NativeLineClamp == nil || *c.NativeLineClamp
}

// Logger builds the application logger for the profile's level.
func (c *Config) Logger() (*slog.Logger, error) {
	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	return logging.New(level), nil
}

var envPattern = regexp.MustCompile(`\$\{([a-zA-Z_][a-zA-Z0-9_]*)(?::([^}]*))?\}`)

// expandEnv replaces ${VAR} or ${VAR:default} with environment values.
func expandEnv(content string) string {
	return envPattern.ReplaceAllStringFunc(content, func(match string) string {
		m := envPattern.FindStringSubmatch(match)
		if value, ok := os.LookupEnv(m[1]); ok {
			return value
		}
		return m[2]
	})
}
