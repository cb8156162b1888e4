package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseStart,
				Kind:   KindMissingExport,
				Path:   []string{"game", "run_game"},
				Detail: "no such export",
			},
			contains: []string{"[start]", "missing_export", "game.run_game", "no such export"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseLoad,
				Kind:  KindInstantiation,
			},
			contains: []string{"[load]", "instantiation"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseInit,
				Kind:   KindRuntimeFailure,
				Detail: "init rejected",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[init]", "runtime_failure", "init rejected", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Load("compile module", cause)

	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is did not follow the cause chain")
	}
}

func TestError_Is(t *testing.T) {
	err := NotFound(PhaseDisplay, "main-canvas")

	if !errors.Is(err, &Error{Phase: PhaseDisplay, Kind: KindNotFound}) {
		t.Error("expected match on phase and kind")
	}
	if errors.Is(err, &Error{Phase: PhaseLoad, Kind: KindNotFound}) {
		t.Error("unexpected match on different phase")
	}
	if errors.Is(err, &Error{Phase: PhaseDisplay, Kind: KindInvalidInput}) {
		t.Error("unexpected match on different kind")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("trap")
	err := New(PhaseStart, KindRuntimeFailure).
		Path("run_game").
		Value(42).
		Detail("call %s failed", "run_game").
		Cause(cause).
		Build()

	if err.Phase != PhaseStart || err.Kind != KindRuntimeFailure {
		t.Fatalf("unexpected phase/kind: %s/%s", err.Phase, err.Kind)
	}
	if err.Detail != "call run_game failed" {
		t.Errorf("detail = %q", err.Detail)
	}
	if err.Value != 42 {
		t.Errorf("value = %v", err.Value)
	}
	if !errors.Is(err, cause) {
		t.Error("cause not reachable")
	}
}

func TestConvenienceConstructors(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		kind Kind
		want string
	}{
		{"missing export", MissingExport(PhaseStart, "run_game"), KindMissingExport, `"run_game"`},
		{"type mismatch", TypeMismatch(PhaseInvoke, "setFPS", "number", "x"), KindTypeMismatch, "got string"},
		{"out of bounds", OutOfBounds(PhaseStart, 65530, 16), KindOutOfBounds, "[65530, 65546)"},
		{"registration", Registration(PhaseBind, "env", "setFPS", errors.New("dup")), KindRegistration, "env.setFPS"},
		{"invalid input", InvalidInput(PhaseConfig, "pixel budget must be positive"), KindInvalidInput, "pixel budget"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Kind != tt.kind {
				t.Errorf("kind = %s, want %s", tt.err.Kind, tt.kind)
			}
			if !strings.Contains(tt.err.Error(), tt.want) {
				t.Errorf("%q does not contain %q", tt.err.Error(), tt.want)
			}
		})
	}
}
