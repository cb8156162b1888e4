package engine

import (
	"encoding/binary"
	"math"
)

// Core wasm encoding for the small guest modules the tests instantiate.

const (
	valI32 = 0x7F
	valF64 = 0x7C
)

// Function types shared by every test module.
const (
	typeI32     = iota // (i32) -> ()
	typeI32I32         // (i32, i32) -> ()
	typeF64            // (f64) -> ()
	typeI32RI32        // (i32) -> i32
	typeVoid           // () -> ()
)

var testTypes = [][]byte{
	{0x60, 0x01, valI32, 0x00},
	{0x60, 0x02, valI32, valI32, 0x00},
	{0x60, 0x01, valF64, 0x00},
	{0x60, 0x01, valI32, 0x01, valI32},
	{0x60, 0x00, 0x00},
}

type testImport struct {
	module, name string
	typ          byte
}

type testFunc struct {
	export string
	body   []byte // instructions without the trailing end
	typ    byte
}

func uleb(v uint32) []byte {
	var out []byte
	for {
		b := byte(v & 0x7F)
		v >>= 7
		if v != 0 {
			out = append(out, b|0x80)
			continue
		}
		return append(out, b)
	}
}

func sleb(v int32) []byte {
	var out []byte
	for {
		b := byte(v & 0x7F)
		v >>= 7
		if (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0) {
			return append(out, b)
		}
		out = append(out, b|0x80)
	}
}

func name(s string) []byte {
	return append(uleb(uint32(len(s))), s...)
}

func vec(items [][]byte) []byte {
	out := uleb(uint32(len(items)))
	for _, it := range items {
		out = append(out, it...)
	}
	return out
}

func section(id byte, payload []byte) []byte {
	out := []byte{id}
	out = append(out, uleb(uint32(len(payload)))...)
	return append(out, payload...)
}

// Instruction helpers.

func i32Const(v int32) []byte { return append([]byte{0x41}, sleb(v)...) }

func f64Const(v float64) []byte {
	out := []byte{0x44, 0, 0, 0, 0, 0, 0, 0, 0}
	binary.LittleEndian.PutUint64(out[1:], math.Float64bits(v))
	return out
}

func localGet(i uint32) []byte { return append([]byte{0x20}, uleb(i)...) }

func call(i uint32) []byte { return append([]byte{0x10}, uleb(i)...) }

var (
	opF64Div      = []byte{0xA3}
	opUnreachable = []byte{0x00}
)

func seq(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// buildModule assembles a module with one exported page of memory.
func buildModule(imports []testImport, funcs []testFunc) []byte {
	out := []byte{0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00}

	out = append(out, section(1, vec(testTypes))...)

	if len(imports) > 0 {
		var items [][]byte
		for _, imp := range imports {
			items = append(items, seq(name(imp.module), name(imp.name), []byte{0x00, imp.typ}))
		}
		out = append(out, section(2, vec(items))...)
	}

	var typeIdx [][]byte
	for _, f := range funcs {
		typeIdx = append(typeIdx, []byte{f.typ})
	}
	out = append(out, section(3, vec(typeIdx))...)

	// memory: one entry, min 1 page, no max
	out = append(out, section(5, []byte{0x01, 0x00, 0x01})...)

	exports := [][]byte{seq(name("memory"), []byte{0x02, 0x00})}
	for i, f := range funcs {
		if f.export == "" {
			continue
		}
		idx := uint32(len(imports) + i)
		exports = append(exports, seq(name(f.export), []byte{0x00}, uleb(idx)))
	}
	out = append(out, section(7, vec(exports))...)

	var bodies [][]byte
	for _, f := range funcs {
		code := seq([]byte{0x00}, f.body, []byte{0x0B}) // no locals
		bodies = append(bodies, seq(uleb(uint32(len(code))), code))
	}
	out = append(out, section(10, vec(bodies))...)

	return out
}

var bridgeImports = []testImport{
	{"env", "setPauseVisible", typeI32},
	{"env", "setDebugVisible", typeI32},
	{"env", "setDebugText", typeI32I32},
	{"env", "setFPS", typeF64},
}

const allocBase = 1024

// gameModule imports the four entry points (function indices 0..3) and:
//   - init shows the debug overlay
//   - alloc always returns allocBase
//   - run_game writes the canvas id as debug text and shows the pause overlay
//   - frame publishes 1/dt as the frame rate
func gameModule() []byte {
	return buildModule(bridgeImports, []testFunc{
		{export: "init", typ: typeVoid, body: seq(i32Const(1), call(1))},
		{export: "alloc", typ: typeI32RI32, body: i32Const(allocBase)},
		{export: "run_game", typ: typeI32I32, body: seq(localGet(0), localGet(1), call(2), i32Const(1), call(0))},
		{export: "frame", typ: typeF64, body: seq(f64Const(1), localGet(0), opF64Div, call(3))},
	})
}
