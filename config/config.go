// Package config loads canvas-bridge settings.
//
// The same struct is filled from the process environment for native hosts
// and from a page-provided map (root element data attributes, URL query) in the
// browser, so both builds share names and defaults.
package config

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/wippyai/canvas-bridge/bridge"
	"github.com/wippyai/canvas-bridge/display"
	"github.com/wippyai/canvas-bridge/errors"
)

// Prefix is prepended to every variable name.
const Prefix = "CANVAS_BRIDGE_"

// Config controls element ids, sizing and runtime loading.
type Config struct {
	CanvasID    string           `env:"CANVAS_ID"     envDefault:"main-canvas"`
	Strategy    display.Strategy `env:"STRATEGY"      envDefault:"viewport"`
	PixelBudget float64          `env:"PIXEL_BUDGET"  envDefault:"2048"`

	PauseID     string `env:"PAUSE_ID"      envDefault:"pause-menu"`
	DebugID     string `env:"DEBUG_ID"      envDefault:"debug-overlay"`
	DebugTextID string `env:"DEBUG_TEXT_ID" envDefault:"debug-text"`
	FPSID       string `env:"FPS_ID"        envDefault:"fps"`
	FallbackID  string `env:"FALLBACK_ID"   envDefault:"load-error"`

	// ModuleURL is the runtime's JS glue module, imported dynamically.
	ModuleURL string `env:"MODULE_URL"   envDefault:"./pkg/car_game.js"`
	// WasmURL is passed to the glue module's init export; empty lets the
	// glue resolve its own binary.
	WasmURL     string `env:"WASM_URL"`
	InitExport  string `env:"INIT_EXPORT"  envDefault:"default"`
	StartExport string `env:"START_EXPORT" envDefault:"run_game"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Default returns the configuration with every default applied.
func Default() Config {
	cfg, err := LoadFrom(map[string]string{})
	if err != nil {
		// defaults are static and always parse
		panic(err)
	}
	return cfg
}

// Load reads CANVAS_BRIDGE_* variables from the process environment.
func Load() (Config, error) {
	return LoadFrom(environ())
}

// LoadFrom reads configuration from vars. Keys may be given with or without
// the CANVAS_BRIDGE_ prefix.
func LoadFrom(vars map[string]string) (Config, error) {
	normalized := make(map[string]string, len(vars))
	for k, v := range vars {
		key := strings.ToUpper(k)
		if !strings.HasPrefix(key, Prefix) {
			key = Prefix + key
		}
		normalized[key] = v
	}

	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{
		Prefix:      Prefix,
		Environment: normalized,
	}); err != nil {
		return Config{}, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "parse configuration")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values the struct tags cannot express.
func (c Config) Validate() error {
	if strings.TrimSpace(c.CanvasID) == "" {
		return errors.InvalidInput(errors.PhaseConfig, "canvas id must not be empty")
	}
	if !(c.PixelBudget > 0) || math.IsInf(c.PixelBudget, 0) {
		return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Path("PIXEL_BUDGET").
			Value(c.PixelBudget).
			Detail("pixel budget must be a positive finite number, got %v", c.PixelBudget).
			Build()
	}
	if c.StartExport == "" {
		return errors.InvalidInput(errors.PhaseConfig, "start export must not be empty")
	}
	return nil
}

// Targets returns the bridge element ids.
func (c Config) Targets() bridge.Targets {
	return bridge.Targets{
		Pause:     c.PauseID,
		Debug:     c.DebugID,
		DebugText: c.DebugTextID,
		FPS:       c.FPSID,
	}
}

// DisplayOptions returns the sizer options.
func (c Config) DisplayOptions() display.Options {
	return display.Options{
		Strategy: c.Strategy,
		Budget:   c.PixelBudget,
	}
}

func (c Config) String() string {
	return fmt.Sprintf("canvas=%s strategy=%s budget=%v module=%s start=%s",
		c.CanvasID, c.Strategy, c.PixelBudget, c.ModuleURL, c.StartExport)
}

func environ() map[string]string {
	out := make(map[string]string)
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if ok && strings.HasPrefix(k, Prefix) {
			out[k] = v
		}
	}
	return out
}
