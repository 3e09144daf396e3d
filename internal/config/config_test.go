package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ning/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), config.FileName)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), config.FileName))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Canvas.Width != 480 || cfg.Run.FPS != 60 || cfg.Run.LogLevel != "verbose" {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[canvas]
width = 100

[run]
frames = 30
loglevel = "error"

[input]
mouse-x = 4.5
mouse-down = true
keys = ["ArrowLeft", " "]
`)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Canvas.Width != 100 || cfg.Canvas.Height != 360 {
		t.Fatalf("expected 100x360 canvas, got %+v", cfg.Canvas)
	}
	if cfg.Run.Frames != 30 || cfg.Run.FPS != 60 || cfg.Run.LogLevel != "error" {
		t.Fatalf("unexpected run section %+v", cfg.Run)
	}
	if cfg.Input.MouseX != 4.5 || !cfg.Input.MouseDown {
		t.Fatalf("unexpected input section %+v", cfg.Input)
	}
	keys := cfg.KeySet()
	if !keys["ArrowLeft"] || !keys[" "] || len(keys) != 2 {
		t.Fatalf("unexpected keys %v", keys)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"bad toml", "[canvas\nwidth = 1", "cannot parse"},
		{"zero canvas", "[canvas]\nwidth = 0", "canvas size"},
		{"fps too high", "[run]\nfps = 1000", "fps"},
		{"negative frames", "[run]\nframes = -1", "frame count"},
		{"unknown level", "[run]\nloglevel = \"chatty\"", "log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, tt.content))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestImageDir(t *testing.T) {
	cfg := config.Default()
	if got := cfg.ImageDir(filepath.Join("games", "pong.ning")); got != filepath.Join("games", "images") {
		t.Fatalf("expected images next to the program, got %q", got)
	}
}

func TestEncode_RoundTrips(t *testing.T) {
	cfg := config.Default()
	cfg.Run.Frames = 12

	buff, err := cfg.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	path := writeConfig(t, string(buff))

	back, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v\n%s", err, buff)
	}
	if back.Run.Frames != 12 || back.Canvas != cfg.Canvas {
		t.Fatalf("round trip mismatch: %+v", back)
	}
}
