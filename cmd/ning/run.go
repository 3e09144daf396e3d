package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/ComedicChimera/olive"
	"github.com/dustin/go-humanize"

	"ning/internal/ast"
	"ning/internal/config"
	"ning/internal/interp"
	"ning/internal/logging"
	"ning/internal/runtime"
	"ning/internal/source"
)

func execRunCommand(result *olive.ArgParseResult, loglevel string) int {
	path, _ := result.PrimaryArg()

	cfg, err := loadRunConfig(result, path, loglevel)
	if err != nil {
		logging.PrintErrorMessage("Config Error", err)
		return 1
	}

	logging.Initialize(cfg.Run.LogLevel)
	logging.DisplayHeader(version, path)

	if file := checkProgram(path); file != nil {
		runProgram(file, cfg)
	}

	logging.DisplaySummary()
	return exitStatus()
}

// loadRunConfig reads the configuration for path and applies the command
// line overrides on top of it.
func loadRunConfig(result *olive.ArgParseResult, path, loglevel string) (*config.Config, error) {
	cfgPath := config.ForProgram(path)
	if v, ok := result.Arguments["config"]; ok {
		cfgPath = v.(string)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	if v, ok := result.Arguments["frames"]; ok {
		frames, err := strconv.Atoi(v.(string))
		if err != nil || frames < 0 {
			return nil, fmt.Errorf("invalid frame count %q", v)
		}
		cfg.Run.Frames = frames
	}
	if v, ok := result.Arguments["snapshot"]; ok {
		cfg.Run.Snapshot = v.(string)
	}
	if loglevel != "" {
		cfg.Run.LogLevel = loglevel
	}

	return cfg, cfg.Validate()
}

// runProgram runs a checked program on a headless environment until the
// configured frame count is reached, the program faults or the user
// interrupts it.
func runProgram(file *source.File, cfg *config.Config) {
	warnFrameCommands(file.Defs)

	logging.BeginPhase("Loading")
	images, err := runtime.LoadImageDir(cfg.ImageDir(file.Path))
	if err != nil {
		logging.LogError("Image", err)
		return
	}
	logging.EndPhase(true)

	env := runtime.NewHeadless(
		runtime.NewRaster(cfg.Canvas.Width, cfg.Canvas.Height),
		images,
		runtime.InputState{
			WindowMouseX: cfg.Input.MouseX,
			WindowMouseY: cfg.Input.MouseY,
			CanvasMouseX: cfg.Input.MouseX,
			CanvasMouseY: cfg.Input.MouseY,
			MouseDown:    cfg.Input.MouseDown,
			WindowWidth:  float64(cfg.Window.Width),
			WindowHeight: float64(cfg.Window.Height),
			Keys:         cfg.KeySet(),
		},
	)

	loop := runtime.NewFrameLoop(cfg.Run.FPS)
	it := interp.New(file.Defs, interp.WithTickSource(loop))

	logging.BeginPhase("Running")
	if err := it.Start(env); err != nil {
		logging.LogRuntimeError(file, err)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runErr := loop.Run(ctx, cfg.Run.Frames)
	if it.Running() {
		it.Stop()
	}

	if err := it.Err(); err != nil {
		logging.LogRuntimeError(file, err)
		return
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		logging.LogError("Frame Loop", runErr)
		return
	}
	logging.EndPhase(true)
	logging.LogInfo("Frames", humanize.Comma(int64(loop.Frames())))

	if cfg.Run.Snapshot != "" {
		writeSnapshot(env.Raster(), cfg.Run.Snapshot)
	}
}

func writeSnapshot(raster *runtime.Raster, path string) {
	if err := raster.WritePNG(path); err != nil {
		logging.LogError("Snapshot", err)
		return
	}

	info, err := os.Stat(path)
	if err != nil {
		logging.LogError("Snapshot", err)
		return
	}
	logging.LogInfo("Snapshot", fmt.Sprintf("%s (%dx%d, %s)", path, raster.Width(), raster.Height(), humanize.Bytes(uint64(info.Size()))))
}

// warnFrameCommands warns when a program defines neither of the commands
// run every frame.
func warnFrameCommands(defs []ast.Def) {
	for _, def := range defs {
		if cmd, ok := def.(*ast.CommandDef); ok {
			switch ast.HeaderSignature(cmd.Header) {
			case interp.UpdateSignature, interp.RenderSignature:
				return
			}
		}
	}
	logging.LogWarning("Program", fmt.Sprintf("no `%s` or `%s` command is defined, so frames do nothing", interp.UpdateSignature, interp.RenderSignature))
}
