package bridge

import (
	"fmt"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/canvas-bridge/errors"
)

// Stable entry point names.
const (
	NameSetPauseVisible = "setPauseVisible"
	NameSetDebugVisible = "setDebugVisible"
	NameSetDebugText    = "setDebugText"
	NameSetFPS          = "setFPS"
)

// EntryPoint describes one named operation of the bridge.
type EntryPoint struct {
	// Param is the single parameter type: wit.Bool, wit.String or wit.F64.
	Param  wit.Type
	invoke func(b HostBridge, arg any) error
	Name   string
	// Aliases are extra names the same operation is published under.
	Aliases []string
}

var entryPoints = []EntryPoint{
	{
		Name:    NameSetPauseVisible,
		Aliases: []string{"showPauseMenu"},
		Param:   wit.Bool{},
		invoke: func(b HostBridge, arg any) error {
			v, ok := arg.(bool)
			if !ok {
				return errors.TypeMismatch(errors.PhaseInvoke, NameSetPauseVisible, "bool", arg)
			}
			b.SetPauseVisible(v)
			return nil
		},
	},
	{
		Name:  NameSetDebugVisible,
		Param: wit.Bool{},
		invoke: func(b HostBridge, arg any) error {
			v, ok := arg.(bool)
			if !ok {
				return errors.TypeMismatch(errors.PhaseInvoke, NameSetDebugVisible, "bool", arg)
			}
			b.SetDebugVisible(v)
			return nil
		},
	},
	{
		Name:  NameSetDebugText,
		Param: wit.String{},
		invoke: func(b HostBridge, arg any) error {
			v, ok := arg.(string)
			if !ok {
				return errors.TypeMismatch(errors.PhaseInvoke, NameSetDebugText, "string", arg)
			}
			b.SetDebugText(v)
			return nil
		},
	},
	{
		Name:  NameSetFPS,
		Param: wit.F64{},
		invoke: func(b HostBridge, arg any) error {
			v, ok := toFloat(arg)
			if !ok {
				return errors.TypeMismatch(errors.PhaseInvoke, NameSetFPS, "number", arg)
			}
			b.SetFPS(v)
			return nil
		},
	},
}

// EntryPoints returns the fixed registry in declaration order.
func EntryPoints() []EntryPoint {
	out := make([]EntryPoint, len(entryPoints))
	copy(out, entryPoints)
	return out
}

// Lookup finds an entry point by name or alias.
func Lookup(name string) (EntryPoint, bool) {
	for _, ep := range entryPoints {
		if ep.Name == name {
			return ep, true
		}
		for _, alias := range ep.Aliases {
			if alias == name {
				return ep, true
			}
		}
	}
	return EntryPoint{}, false
}

// Names returns every published name, aliases included.
func (e EntryPoint) Names() []string {
	return append([]string{e.Name}, e.Aliases...)
}

// Invoke applies the entry point to b. The error reports a binder bug
// (wrong argument type), never a UI condition.
func (e EntryPoint) Invoke(b HostBridge, arg any) error {
	return e.invoke(b, arg)
}

// Invoke dispatches a call by name.
func Invoke(b HostBridge, name string, arg any) error {
	ep, ok := Lookup(name)
	if !ok {
		return errors.NotFound(errors.PhaseInvoke, name)
	}
	return ep.Invoke(b, arg)
}

// TypeName renders a parameter type the way WIT spells it.
func TypeName(t wit.Type) string {
	switch t.(type) {
	case wit.Bool:
		return "bool"
	case wit.String:
		return "string"
	case wit.F64:
		return "f64"
	case wit.F32:
		return "f32"
	case wit.S32:
		return "s32"
	case wit.U32:
		return "u32"
	default:
		return fmt.Sprintf("%T", t)
	}
}

func toFloat(arg any) (float64, bool) {
	switch v := arg.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint32:
		return float64(v), true
	default:
		return 0, false
	}
}
