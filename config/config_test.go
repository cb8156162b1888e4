package config

import (
	stderrors "errors"
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/wippyai/canvas-bridge/bridge"
	"github.com/wippyai/canvas-bridge/display"
	"github.com/wippyai/canvas-bridge/errors"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.CanvasID != "main-canvas" {
		t.Errorf("CanvasID = %q", cfg.CanvasID)
	}
	if cfg.Strategy != display.StrategyViewport {
		t.Errorf("Strategy = %v", cfg.Strategy)
	}
	if cfg.PixelBudget != 2048 {
		t.Errorf("PixelBudget = %v", cfg.PixelBudget)
	}
	if cfg.StartExport != "run_game" || cfg.InitExport != "default" {
		t.Errorf("exports = %q/%q", cfg.InitExport, cfg.StartExport)
	}
	if cfg.Targets() != bridge.DefaultTargets() {
		t.Errorf("Targets() = %+v, want defaults", cfg.Targets())
	}
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"CANVAS_BRIDGE_CANVAS_ID": "game",
		"strategy":                "container",
		"PIXEL_BUDGET":            "4096",
		"fps_id":                  "frame-rate",
	})
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	if cfg.CanvasID != "game" {
		t.Errorf("CanvasID = %q", cfg.CanvasID)
	}
	if cfg.Strategy != display.StrategyContainer {
		t.Errorf("Strategy = %v", cfg.Strategy)
	}
	opts := cfg.DisplayOptions()
	if opts.Budget != 4096 || opts.Strategy != display.StrategyContainer {
		t.Errorf("DisplayOptions() = %+v", opts)
	}
	if cfg.Targets().FPS != "frame-rate" {
		t.Errorf("FPS target = %q", cfg.Targets().FPS)
	}
}

func TestLoadFrom_Invalid(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
	}{
		{"unknown strategy", map[string]string{"STRATEGY": "diagonal"}},
		{"non-numeric budget", map[string]string{"PIXEL_BUDGET": "lots"}},
		{"negative budget", map[string]string{"PIXEL_BUDGET": "-1"}},
		{"NaN budget", map[string]string{"PIXEL_BUDGET": "NaN"}},
		{"infinite budget", map[string]string{"PIXEL_BUDGET": "Inf"}},
		{"positive infinite budget", map[string]string{"PIXEL_BUDGET": "+Inf"}},
		{"blank canvas", map[string]string{"CANVAS_ID": "  "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(tt.vars)
			if err == nil {
				t.Fatal("expected error")
			}
			if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseConfig, Kind: errors.KindInvalidInput}) {
				t.Errorf("error %v is not a config error", err)
			}
		})
	}
}

func TestLoad_ProcessEnvironment(t *testing.T) {
	t.Setenv("CANVAS_BRIDGE_CANVAS_ID", "from-env")
	t.Setenv("CANVAS_BRIDGE_LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CanvasID != "from-env" {
		t.Errorf("CanvasID = %q", cfg.CanvasID)
	}

	log, err := cfg.NewLogger()
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	if !log.Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug level not enabled")
	}
}

func TestNewLogger_BadLevel(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = "chatty"
	if _, err := cfg.NewLogger(); err == nil {
		t.Error("expected error for unknown level")
	}
}
