package engine

import (
	"github.com/tetratelabs/wazero/api"
	"go.bytecodealliance.org/wit"

	"github.com/wippyai/canvas-bridge/bridge"
	"github.com/wippyai/canvas-bridge/errors"
)

const (
	ImportNamespace = "env"

	DefaultInitExport  = "init"
	DefaultStartExport = "run_game"
	DefaultFrameExport = "frame"

	cabiRealloc = "cabi_realloc"
	legacyAlloc = "allocate"
	simpleAlloc = "alloc"
)

// allocExports are tried in order when the host must place bytes in guest
// memory.
var allocExports = []string{simpleAlloc, legacyAlloc, cabiRealloc}

// paramDecoder turns raw stack values into the Go value an entry point
// expects.
type paramDecoder func(mod api.Module, stack []uint64) (any, error)

// lowerParam returns the core parameter types for a WIT parameter and the
// decoder reading it back.
func lowerParam(t wit.Type) ([]api.ValueType, paramDecoder, error) {
	switch t.(type) {
	case wit.Bool:
		return []api.ValueType{api.ValueTypeI32}, decodeBool, nil
	case wit.String:
		return []api.ValueType{api.ValueTypeI32, api.ValueTypeI32}, decodeString, nil
	case wit.F64:
		return []api.ValueType{api.ValueTypeF64}, decodeF64, nil
	default:
		return nil, nil, errors.New(errors.PhaseBind, errors.KindUnsupported).
			Detail("no core lowering for %s", bridge.TypeName(t)).
			Build()
	}
}

func decodeBool(_ api.Module, stack []uint64) (any, error) {
	return api.DecodeU32(stack[0]) != 0, nil
}

func decodeF64(_ api.Module, stack []uint64) (any, error) {
	return api.DecodeF64(stack[0]), nil
}

func decodeString(mod api.Module, stack []uint64) (any, error) {
	ptr := api.DecodeU32(stack[0])
	length := api.DecodeU32(stack[1])
	mem := mod.Memory()
	if mem == nil {
		return nil, errors.New(errors.PhaseInvoke, errors.KindNotFound).
			Path("memory").
			Detail("guest has no memory to read a string from").
			Build()
	}
	data, ok := mem.Read(ptr, length)
	if !ok {
		return nil, errors.OutOfBounds(errors.PhaseInvoke, ptr, length)
	}
	// string() copies; data aliases guest memory
	return string(data), nil
}
