package engine

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/wippyai/canvas-bridge/bridge"
	"github.com/wippyai/canvas-bridge/errors"
	"github.com/wippyai/canvas-bridge/memdom"
)

func newPage() (*memdom.Document, bridge.HostBridge) {
	doc := memdom.NewDocument().Add(
		memdom.NewElement("pause-menu").WithHidden(true),
		memdom.NewElement("debug-overlay").WithHidden(true),
		memdom.NewElement("debug-text"),
		memdom.NewElement("fps"),
	)
	return doc, bridge.NewDOM(doc, bridge.DefaultTargets())
}

func text(t *testing.T, doc *memdom.Document, id string) string {
	t.Helper()
	el, ok := doc.Element(id)
	if !ok {
		t.Fatalf("element %q missing", id)
	}
	return el.Text()
}

func hidden(t *testing.T, doc *memdom.Document, id string) bool {
	t.Helper()
	el, ok := doc.Element(id)
	if !ok {
		t.Fatalf("element %q missing", id)
	}
	return el.Hidden()
}

func TestLoader_Lifecycle(t *testing.T) {
	ctx := context.Background()
	doc, hb := newPage()

	inst, err := NewLoader(gameModule()).Instantiate(ctx, hb)
	if err != nil {
		t.Fatalf("instantiate: %v", err)
	}
	defer inst.Close(ctx)

	if err := inst.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	if hidden(t, doc, "debug-overlay") {
		t.Error("init did not show the debug overlay")
	}

	if err := inst.Start(ctx, "main-canvas"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if got := text(t, doc, "debug-text"); got != "main-canvas" {
		t.Errorf("debug text = %q, want canvas id", got)
	}
	if hidden(t, doc, "pause-menu") {
		t.Error("run_game did not show the pause overlay")
	}

	if !inst.HasFrame() {
		t.Fatal("frame export not detected")
	}
	if err := inst.Frame(ctx, 0.02); err != nil {
		t.Fatalf("frame: %v", err)
	}
	if got := text(t, doc, "fps"); got != "50" {
		t.Errorf("fps = %q, want 50", got)
	}
}

func TestLoader_ImplementsBootstrapLoader(t *testing.T) {
	ctx := context.Background()
	_, hb := newPage()

	rt, err := NewLoader(gameModule()).Load(ctx, hb)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	inst, ok := rt.(*Instance)
	if !ok {
		t.Fatalf("Load returned %T", rt)
	}
	inst.Close(ctx)
}

func TestLoader_AliasImport(t *testing.T) {
	ctx := context.Background()
	doc, hb := newPage()

	mod := buildModule(
		[]testImport{{"env", "showPauseMenu", typeI32}},
		[]testFunc{
			{export: "alloc", typ: typeI32RI32, body: i32Const(allocBase)},
			{export: "run_game", typ: typeI32I32, body: seq(i32Const(1), call(0))},
		},
	)

	inst, err := NewLoader(mod).Instantiate(ctx, hb)
	if err != nil {
		t.Fatalf("instantiate: %v", err)
	}
	defer inst.Close(ctx)

	if err := inst.Init(ctx); err != nil {
		t.Fatalf("init without export should succeed: %v", err)
	}
	if err := inst.Start(ctx, "c"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if hidden(t, doc, "pause-menu") {
		t.Error("showPauseMenu alias did not reach the bridge")
	}
	if inst.HasFrame() {
		t.Error("HasFrame true without export")
	}
}

func TestLoader_CustomStartExport(t *testing.T) {
	ctx := context.Background()
	doc, hb := newPage()

	mod := buildModule(bridgeImports, []testFunc{
		{export: "alloc", typ: typeI32RI32, body: i32Const(allocBase)},
		{export: "start", typ: typeI32I32, body: seq(localGet(0), localGet(1), call(2))},
	})

	inst, err := NewLoader(mod, WithStartExport("start"), WithMemoryLimitPages(4)).Instantiate(ctx, hb)
	if err != nil {
		t.Fatalf("instantiate: %v", err)
	}
	defer inst.Close(ctx)

	if err := inst.Start(ctx, "embedded-canvas"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if got := text(t, doc, "debug-text"); got != "embedded-canvas" {
		t.Errorf("debug text = %q", got)
	}
}

func TestLoader_Errors(t *testing.T) {
	tests := []struct {
		name  string
		wasm  []byte
		phase errors.Phase
		kind  errors.Kind
		stage string
	}{
		{
			name:  "garbage binary",
			wasm:  []byte("not wasm"),
			phase: errors.PhaseLoad,
			kind:  errors.KindInstantiation,
			stage: "load",
		},
		{
			name: "unknown import",
			wasm: buildModule(
				[]testImport{{"env", "setVolume", typeF64}},
				[]testFunc{{export: "run_game", typ: typeI32I32}},
			),
			phase: errors.PhaseLoad,
			kind:  errors.KindInstantiation,
			stage: "load",
		},
		{
			name: "missing start export",
			wasm: buildModule(nil, []testFunc{
				{export: "alloc", typ: typeI32RI32, body: i32Const(allocBase)},
			}),
			phase: errors.PhaseStart,
			kind:  errors.KindMissingExport,
			stage: "start",
		},
		{
			name: "no allocator",
			wasm: buildModule(nil, []testFunc{
				{export: "run_game", typ: typeI32I32},
			}),
			phase: errors.PhaseStart,
			kind:  errors.KindAllocation,
			stage: "start",
		},
		{
			name: "start traps",
			wasm: buildModule(nil, []testFunc{
				{export: "alloc", typ: typeI32RI32, body: i32Const(allocBase)},
				{export: "run_game", typ: typeI32I32, body: opUnreachable},
			}),
			phase: errors.PhaseStart,
			kind:  errors.KindRuntimeFailure,
			stage: "start",
		},
		{
			name: "init traps",
			wasm: buildModule(nil, []testFunc{
				{export: "init", typ: typeVoid, body: opUnreachable},
			}),
			phase: errors.PhaseInit,
			kind:  errors.KindRuntimeFailure,
			stage: "init",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			_, hb := newPage()

			var err error
			inst, loadErr := NewLoader(tt.wasm).Instantiate(ctx, hb)
			switch {
			case tt.stage == "load":
				err = loadErr
			case loadErr != nil:
				t.Fatalf("instantiate: %v", loadErr)
			case tt.stage == "init":
				err = inst.Init(ctx)
			default:
				err = inst.Start(ctx, "main-canvas")
			}
			if inst != nil {
				defer inst.Close(ctx)
			}

			if err == nil {
				t.Fatal("expected error")
			}
			if !stderrors.Is(err, &errors.Error{Phase: tt.phase, Kind: tt.kind}) {
				t.Errorf("error = %v, want [%s] %s", err, tt.phase, tt.kind)
			}
		})
	}
}

func TestDecodeString_OutOfBounds(t *testing.T) {
	ctx := context.Background()
	doc, hb := newPage()

	// setDebugText(ptr=65530, len=100) runs past the single page
	mod := buildModule(bridgeImports, []testFunc{
		{export: "alloc", typ: typeI32RI32, body: i32Const(allocBase)},
		{export: "run_game", typ: typeI32I32, body: seq(i32Const(65530), i32Const(100), call(2))},
	})

	inst, err := NewLoader(mod).Instantiate(ctx, hb)
	if err != nil {
		t.Fatalf("instantiate: %v", err)
	}
	defer inst.Close(ctx)

	if err := inst.Start(ctx, "main-canvas"); err != nil {
		t.Fatalf("bad bridge arguments must not trap the guest: %v", err)
	}
	if got := text(t, doc, "debug-text"); got != "" {
		t.Errorf("debug text = %q, want untouched", got)
	}
}

func TestInstance_FrameErrors(t *testing.T) {
	ctx := context.Background()
	_, hb := newPage()

	tests := []struct {
		name string
		kind errors.Kind
		mod  []byte
	}{
		{
			name: "missing frame export",
			kind: errors.KindMissingExport,
			mod:  buildModule(nil, []testFunc{{export: "run_game", typ: typeI32I32, body: nil}}),
		},
		{
			name: "frame trap",
			kind: errors.KindRuntimeFailure,
			mod: buildModule(nil, []testFunc{
				{export: "run_game", typ: typeI32I32, body: nil},
				{export: "frame", typ: typeF64, body: opUnreachable},
			}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst, err := NewLoader(tt.mod).Instantiate(ctx, hb)
			if err != nil {
				t.Fatalf("instantiate: %v", err)
			}
			defer inst.Close(ctx)

			err = inst.Frame(ctx, 0.016)
			if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseFrame, Kind: tt.kind}) {
				t.Fatalf("Frame error = %v, want frame/%s", err, tt.kind)
			}
			if stderrors.Is(err, &errors.Error{Phase: errors.PhaseStart, Kind: tt.kind}) {
				t.Error("frame failure reported as a start failure")
			}
		})
	}
}
