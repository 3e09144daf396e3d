// Package config loads the run configuration of a Ning program from a
// `ning.toml` file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml"
)

// FileName is the configuration file looked up next to a program.
const FileName = "ning.toml"

// Config is the run configuration as it is encoded in TOML.
type Config struct {
	Canvas Size  `toml:"canvas"`
	Window Size  `toml:"window"`
	Run    Run   `toml:"run"`
	Input  Input `toml:"input"`
}

type Size struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

type Run struct {
	FPS int `toml:"fps"`
	// Frames is the number of ticks to run; 0 runs until interrupted.
	Frames   int    `toml:"frames"`
	Images   string `toml:"images"`
	Snapshot string `toml:"snapshot,omitempty"`
	LogLevel string `toml:"loglevel"`
}

// Input is the fixed input state reported to a headless run.
type Input struct {
	MouseX    float64  `toml:"mouse-x"`
	MouseY    float64  `toml:"mouse-y"`
	MouseDown bool     `toml:"mouse-down"`
	Keys      []string `toml:"keys,omitempty"`
}

// LogLevels are the accepted values of run.loglevel.
var LogLevels = []string{"silent", "error", "warning", "verbose"}

func Default() *Config {
	return &Config{
		Canvas: Size{Width: 480, Height: 360},
		Window: Size{Width: 1280, Height: 720},
		Run: Run{
			FPS:      60,
			Images:   "images",
			LogLevel: "verbose",
		},
	}
}

// Load reads the configuration at path over the defaults. A missing file
// yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	buff, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}

	if err := toml.Unmarshal(buff, cfg); err != nil {
		return nil, fmt.Errorf("cannot parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// ForProgram returns the path of the configuration next to a program file.
func ForProgram(programPath string) string {
	return filepath.Join(filepath.Dir(programPath), FileName)
}

// Validate checks that the configuration can drive a run.
func (c *Config) Validate() error {
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return fmt.Errorf("canvas size %dx%d must be positive", c.Canvas.Width, c.Canvas.Height)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	if c.Run.FPS < 1 || c.Run.FPS > 240 {
		return fmt.Errorf("fps %d must be between 1 and 240", c.Run.FPS)
	}
	if c.Run.Frames < 0 {
		return fmt.Errorf("frame count %d must not be negative", c.Run.Frames)
	}

	for _, level := range LogLevels {
		if c.Run.LogLevel == level {
			return nil
		}
	}
	return fmt.Errorf("unknown log level `%s`", c.Run.LogLevel)
}

// ImageDir resolves run.images relative to the program's directory.
func (c *Config) ImageDir(programPath string) string {
	if filepath.IsAbs(c.Run.Images) {
		return c.Run.Images
	}
	return filepath.Join(filepath.Dir(programPath), c.Run.Images)
}

// KeySet returns the pressed keys as a set.
func (c *Config) KeySet() map[string]bool {
	keys := make(map[string]bool, len(c.Input.Keys))
	for _, k := range c.Input.Keys {
		keys[k] = true
	}
	return keys
}

// Encode renders the configuration as TOML.
func (c *Config) Encode() ([]byte, error) {
	return toml.Marshal(c)
}
