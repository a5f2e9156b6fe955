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
				Phase:    PhaseCheck,
				Kind:     KindLayoutIncompatible,
				Path:     []string{"module", "commands", "send"},
				TypeName: "Command",
				Detail:   "layout is not compatible",
			},
			contains: []string{"[check]", "layout_incompatible", "module.commands.send", "Command", "layout is not compatible"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseLoad,
				Kind:  KindSymbolNotFound,
			},
			contains: []string{"[load]", "symbol_not_found"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseLoad,
				Kind:   KindLoadError,
				Detail: "read header",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[load]", "load_error", "read header", "caused by", "underlying error"},
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
	err := &Error{
		Phase: PhaseLoad,
		Kind:  KindLoadError,
		Cause: cause,
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should match the wrapped cause")
	}
}

func TestError_Is(t *testing.T) {
	err := PreambleMismatch("bad magic")
	target := &Error{Phase: PhaseLoad, Kind: KindPreambleMismatch}
	if !errors.Is(err, target) {
		t.Error("errors with same phase and kind should match")
	}
	other := &Error{Phase: PhaseLoad, Kind: KindLoadError}
	if errors.Is(err, other) {
		t.Error("errors with different kinds should not match")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("boom")
	err := New(PhaseConstruct, KindBudgetExceeded).
		TypeName("Command").
		Path("storage").
		Value(uintptr(40)).
		Detail("needs %d bytes", 40).
		Cause(cause).
		Build()

	if err.Phase != PhaseConstruct || err.Kind != KindBudgetExceeded {
		t.Fatalf("unexpected phase/kind: %v/%v", err.Phase, err.Kind)
	}
	if err.TypeName != "Command" {
		t.Errorf("TypeName: got %q", err.TypeName)
	}
	if err.Detail != "needs 40 bytes" {
		t.Errorf("Detail: got %q", err.Detail)
	}
	if !errors.Is(err, cause) {
		t.Error("cause not wrapped")
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("budget exceeded", func(t *testing.T) {
		err := BudgetExceeded("Command", 40, 24)
		if err.Kind != KindBudgetExceeded || err.Phase != PhaseConstruct {
			t.Fatalf("unexpected taxonomy: %v/%v", err.Phase, err.Kind)
		}
		if !strings.Contains(err.Error(), "40") || !strings.Contains(err.Error(), "24") {
			t.Errorf("message should name sizes: %q", err.Error())
		}
	})

	t.Run("symbol not found", func(t *testing.T) {
		err := SymbolNotFound("abiguard_root_header")
		if err.Symbol != "abiguard_root_header" {
			t.Errorf("Symbol: got %q", err.Symbol)
		}
	})

	t.Run("unknown variant", func(t *testing.T) {
		err := UnknownVariant("Event", 7)
		if !strings.Contains(err.Error(), "7") {
			t.Errorf("message should name the discriminant: %q", err.Error())
		}
	})
}
