package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/philipparndt/boxmod/pkg/editor"
)

// DefaultPath is where the tools look for a config file when none is given
const DefaultPath = "boxmod.toml"

// View configures the desktop preview
type View struct {
	Width         int     `toml:"width"`
	Height        int     `toml:"height"`
	TargetFPS     int     `toml:"target_fps"`
	WatchDebounce string  `toml:"watch_debounce"`
	CursorSpeed   float64 `toml:"cursor_speed"`
}

// Config is the content of boxmod.toml
type Config struct {
	LogLevel string          `toml:"log_level"`
	Editor   editor.Settings `toml:"editor"`
	View     View            `toml:"view"`
}

// Default returns the configuration used when no file exists
func Default() Config {
	return Config{
		LogLevel: "info",
		Editor:   editor.DefaultSettings(),
		View: View{
			Width:         1280,
			Height:        800,
			TargetFPS:     60,
			WatchDebounce: "200ms",
			CursorSpeed:   1.0,
		},
	}
}

// Load reads the config at path on top of Default. A missing file is not an
// error. Unknown keys are, so typos do not go unnoticed.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	return Decode(bytes.NewReader(data))
}

// Decode parses TOML on top of Default
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return Config{}, fmt.Errorf("invalid config: %s", strict.String())
		}
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Save writes cfg as TOML, creating the directory if needed
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Level parses LogLevel, falling back to info
func (c Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Logger returns a text logger writing to w at the configured level
func (c Config) Logger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: c.Level()}))
}
