package bridge

import (
	stderrors "errors"
	"reflect"
	"testing"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/canvas-bridge/errors"
)

func TestEntryPoints_Fixed(t *testing.T) {
	var names []string
	for _, ep := range EntryPoints() {
		names = append(names, ep.Name)
	}
	want := []string{"setPauseVisible", "setDebugVisible", "setDebugText", "setFPS"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("entry points = %v, want %v", names, want)
	}
}

func TestEntryPoints_ParamTypes(t *testing.T) {
	want := map[string]string{
		NameSetPauseVisible: "bool",
		NameSetDebugVisible: "bool",
		NameSetDebugText:    "string",
		NameSetFPS:          "f64",
	}
	for _, ep := range EntryPoints() {
		if got := TypeName(ep.Param); got != want[ep.Name] {
			t.Errorf("%s param = %s, want %s", ep.Name, got, want[ep.Name])
		}
	}
	if TypeName(wit.U32{}) != "u32" {
		t.Error("TypeName(u32)")
	}
}

func TestLookup_Alias(t *testing.T) {
	ep, ok := Lookup("showPauseMenu")
	if !ok || ep.Name != NameSetPauseVisible {
		t.Fatalf("Lookup(showPauseMenu) = %v, %v", ep.Name, ok)
	}
	if _, ok := Lookup("setVolume"); ok {
		t.Error("Lookup found an unknown name")
	}
}

func TestInvoke(t *testing.T) {
	rec := &recorder{}

	calls := []struct {
		name string
		arg  any
	}{
		{"setPauseVisible", true},
		{"showPauseMenu", false},
		{"setDebugVisible", true},
		{"setDebugText", "hello"},
		{"setFPS", 59.6},
		{"setFPS", int32(30)},
	}
	for _, c := range calls {
		if err := Invoke(rec, c.name, c.arg); err != nil {
			t.Fatalf("Invoke(%s, %v): %v", c.name, c.arg, err)
		}
	}

	want := []string{"pause:on", "pause:off", "debug:on", "text:hello", "fps:60", "fps:30"}
	if !reflect.DeepEqual(rec.calls, want) {
		t.Errorf("calls = %v, want %v", rec.calls, want)
	}
}

func TestInvoke_Errors(t *testing.T) {
	rec := &recorder{}

	err := Invoke(rec, "setDebugText", 12)
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseInvoke, Kind: errors.KindTypeMismatch}) {
		t.Errorf("wrong arg type: got %v", err)
	}

	err = Invoke(rec, "reload", nil)
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseInvoke, Kind: errors.KindNotFound}) {
		t.Errorf("unknown name: got %v", err)
	}

	if len(rec.calls) != 0 {
		t.Errorf("failed invocations reached the bridge: %v", rec.calls)
	}
}
