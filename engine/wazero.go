package engine

import (
	"context"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/canvas-bridge/bootstrap"
	"github.com/wippyai/canvas-bridge/bridge"
	"github.com/wippyai/canvas-bridge/errors"
)

// Config holds loader configuration.
type Config struct {
	// ModuleName is the instance name inside the wazero runtime.
	ModuleName  string
	InitExport  string
	StartExport string
	FrameExport string

	// MemoryLimitPages sets the maximum memory per instance in pages (64KB each).
	// 0 means the wazero default.
	MemoryLimitPages uint32
}

// Option configures a Loader.
type Option func(*Config)

// WithStartExport overrides the start export name.
func WithStartExport(name string) Option {
	return func(c *Config) {
		if name != "" {
			c.StartExport = name
		}
	}
}

// WithInitExport overrides the init export name.
func WithInitExport(name string) Option {
	return func(c *Config) {
		if name != "" {
			c.InitExport = name
		}
	}
}

// WithMemoryLimitPages caps guest memory.
func WithMemoryLimitPages(pages uint32) Option {
	return func(c *Config) {
		c.MemoryLimitPages = pages
	}
}

// Loader instantiates a game module binary. It implements bootstrap.Loader.
type Loader struct {
	wasm []byte
	cfg  Config
}

var _ bootstrap.Loader = (*Loader)(nil)

// NewLoader creates a loader for wasm.
func NewLoader(wasm []byte, opts ...Option) *Loader {
	cfg := Config{
		ModuleName:  "game",
		InitExport:  DefaultInitExport,
		StartExport: DefaultStartExport,
		FrameExport: DefaultFrameExport,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Loader{wasm: wasm, cfg: cfg}
}

// Load compiles and instantiates the module with its imports bound to hb.
// Each call creates an isolated wazero runtime owned by the returned
// Instance.
func (l *Loader) Load(ctx context.Context, hb bridge.HostBridge) (bootstrap.Runtime, error) {
	return l.Instantiate(ctx, hb)
}

// Instantiate is Load with the concrete return type.
func (l *Loader) Instantiate(ctx context.Context, hb bridge.HostBridge) (*Instance, error) {
	runtimeCfg := wazero.NewRuntimeConfig()
	if l.cfg.MemoryLimitPages > 0 {
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(l.cfg.MemoryLimitPages)
	}
	rt := wazero.NewRuntimeWithConfig(ctx, runtimeCfg)

	if err := bindBridge(ctx, rt, ImportNamespace, hb); err != nil {
		rt.Close(ctx)
		return nil, err
	}

	compiled, err := rt.CompileModule(ctx, l.wasm)
	if err != nil {
		rt.Close(ctx)
		return nil, errors.Load("compile module", err)
	}

	modConfig := wazero.NewModuleConfig().
		WithName(l.cfg.ModuleName).
		WithStartFunctions()
	mod, err := rt.InstantiateModule(ctx, compiled, modConfig)
	if err != nil {
		rt.Close(ctx)
		return nil, errors.Load("instantiate module", err)
	}

	Logger().Debug("runtime module instantiated",
		zap.String("name", l.cfg.ModuleName),
		zap.Int("exports", len(mod.ExportedFunctionDefinitions())),
	)

	return &Instance{runtime: rt, module: mod, cfg: l.cfg}, nil
}

// Instance is a running game module. Calls into the guest are serialized.
type Instance struct {
	runtime wazero.Runtime
	module  api.Module
	cfg     Config
	mu      sync.Mutex
}

var _ bootstrap.Runtime = (*Instance)(nil)

// Init calls the init export when the module has one.
func (i *Instance) Init(ctx context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	fn := i.module.ExportedFunction(i.cfg.InitExport)
	if fn == nil {
		Logger().Debug("module has no init export", zap.String("export", i.cfg.InitExport))
		return nil
	}
	if _, err := fn.Call(ctx); err != nil {
		return errors.New(errors.PhaseInit, errors.KindRuntimeFailure).
			Path(i.cfg.InitExport).
			Cause(err).
			Detail("init export failed").
			Build()
	}
	return nil
}

// Start writes canvasID into guest memory and calls the start export with
// its pointer and length.
func (i *Instance) Start(ctx context.Context, canvasID string) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	fn := i.module.ExportedFunction(i.cfg.StartExport)
	if fn == nil {
		return errors.MissingExport(errors.PhaseStart, i.cfg.StartExport)
	}

	ptr, length, err := i.writeString(ctx, canvasID)
	if err != nil {
		return err
	}

	if _, err := fn.Call(ctx, api.EncodeU32(ptr), api.EncodeU32(length)); err != nil {
		return errors.New(errors.PhaseStart, errors.KindRuntimeFailure).
			Path(i.cfg.StartExport).
			Cause(err).
			Detail("start export failed").
			Build()
	}
	return nil
}

// HasFrame reports whether the module exports a frame callback.
func (i *Instance) HasFrame() bool {
	return i.module.ExportedFunction(i.cfg.FrameExport) != nil
}

// Frame calls the frame export with the elapsed time in seconds.
func (i *Instance) Frame(ctx context.Context, dt float64) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	fn := i.module.ExportedFunction(i.cfg.FrameExport)
	if fn == nil {
		return errors.MissingExport(errors.PhaseFrame, i.cfg.FrameExport)
	}
	if _, err := fn.Call(ctx, api.EncodeF64(dt)); err != nil {
		return errors.New(errors.PhaseFrame, errors.KindRuntimeFailure).
			Path(i.cfg.FrameExport).
			Cause(err).
			Detail("frame export failed").
			Build()
	}
	return nil
}

// Close releases the instance and its runtime.
func (i *Instance) Close(ctx context.Context) error {
	return i.runtime.Close(ctx)
}

func (i *Instance) writeString(ctx context.Context, s string) (uint32, uint32, error) {
	if s == "" {
		return 0, 0, nil
	}
	length := uint32(len(s))

	mem := i.module.Memory()
	if mem == nil {
		return 0, 0, errors.MissingExport(errors.PhaseStart, "memory")
	}

	ptr, err := i.alloc(ctx, length)
	if err != nil {
		return 0, 0, err
	}
	if !mem.Write(ptr, []byte(s)) {
		return 0, 0, errors.OutOfBounds(errors.PhaseStart, ptr, length)
	}
	return ptr, length, nil
}

func (i *Instance) alloc(ctx context.Context, size uint32) (uint32, error) {
	for _, name := range allocExports {
		fn := i.module.ExportedFunction(name)
		if fn == nil {
			continue
		}
		var args []uint64
		switch len(fn.Definition().ParamTypes()) {
		case 1:
			args = []uint64{api.EncodeU32(size)}
		case 2:
			// allocate(size, align)
			args = []uint64{api.EncodeU32(size), api.EncodeU32(1)}
		case 4:
			// cabi_realloc(old_ptr, old_size, align, new_size)
			args = []uint64{0, 0, api.EncodeU32(1), api.EncodeU32(size)}
		default:
			continue
		}
		results, err := fn.Call(ctx, args...)
		if err != nil {
			return 0, errors.New(errors.PhaseStart, errors.KindAllocation).
				Path(name).
				Cause(err).
				Detail("allocate %d bytes", size).
				Build()
		}
		if len(results) != 1 {
			continue
		}
		return api.DecodeU32(results[0]), nil
	}
	return 0, errors.New(errors.PhaseStart, errors.KindAllocation).
		Detail("module exports no allocator (%v) to receive %d bytes", allocExports, size).
		Build()
}
