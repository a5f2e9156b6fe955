package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseBuild     Phase = "build"     // layout construction
	PhaseCheck     Phase = "check"     // layout compatibility checking
	PhaseLoad      Phase = "load"      // library loading
	PhaseConstruct Phase = "construct" // wrapper construction
	PhaseInspect   Phase = "inspect"   // shape reflection / tooling
)

// Kind categorizes the error
type Kind string

const (
	KindPreambleMismatch   Kind = "preamble_mismatch"
	KindLayoutIncompatible Kind = "layout_incompatible"
	KindBudgetExceeded     Kind = "budget_exceeded"
	KindSymbolNotFound     Kind = "symbol_not_found"
	KindLoadError          Kind = "load_error"
	KindInvalidData        Kind = "invalid_data"
	KindUnknownVariant     Kind = "unknown_variant"
	KindVersionMismatch    Kind = "version_mismatch"
	KindInvalidInput       Kind = "invalid_input"
	KindNotFound           Kind = "not_found"
	KindRegistration       Kind = "registration"
)

// Error is the structured error type used throughout the library
type Error struct {
	Value    any
	Cause    error
	Phase    Phase
	Kind     Kind
	TypeName string
	Symbol   string
	Detail   string
	Path     []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.TypeName != "" {
		b.WriteString(": type ")
		b.WriteString(e.TypeName)
	}
	if e.Symbol != "" {
		b.WriteString(": symbol ")
		b.WriteString(e.Symbol)
	}

	if e.Detail != "" {
		if e.TypeName != "" || e.Symbol != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// TypeName sets the layout type name
func (b *Builder) TypeName(t string) *Builder {
	b.err.TypeName = t
	return b
}

// Symbol sets the export symbol name
func (b *Builder) Symbol(s string) *Builder {
	b.err.Symbol = s
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// PreambleMismatch creates an error for a library header whose magic or
// format version does not byte-exact match what this host expects.
// No further trust is extended to the library.
func PreambleMismatch(detail string, args ...any) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindPreambleMismatch,
		Detail: fmt.Sprintf(detail, args...),
	}
}

// LayoutIncompatible wraps a checker rejection for one module or type.
// Other independently loaded modules may still be usable.
func LayoutIncompatible(typeName string, cause error) *Error {
	return &Error{
		Phase:    PhaseCheck,
		Kind:     KindLayoutIncompatible,
		TypeName: typeName,
		Detail:   "layout is not compatible",
		Cause:    cause,
	}
}

// BudgetExceeded creates a construction-time storage budget error.
// This is always a programming error in the library being built.
func BudgetExceeded(typeName string, size, budget uintptr) *Error {
	return &Error{
		Phase:    PhaseConstruct,
		Kind:     KindBudgetExceeded,
		TypeName: typeName,
		Detail:   fmt.Sprintf("value needs %d bytes, storage budget is %d", size, budget),
		Value:    size,
	}
}

// SymbolNotFound creates an error for a missing library export
func SymbolNotFound(symbol string) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindSymbolNotFound,
		Symbol: symbol,
		Detail: "export not found",
	}
}

// Load creates a library loading error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindLoadError,
		Detail: detail,
		Cause:  cause,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
	}
}

// UnknownVariant creates an error for a discriminant the caller's
// compilation does not recognize. Recoverable: the value can still be
// cloned, compared and dropped through its vtable.
func UnknownVariant(typeName string, discriminant int64) *Error {
	return &Error{
		Phase:    PhaseConstruct,
		Kind:     KindUnknownVariant,
		TypeName: typeName,
		Detail:   fmt.Sprintf("unrecognized discriminant %d", discriminant),
		Value:    discriminant,
	}
}

// VersionMismatch creates an error for incompatible library versions
func VersionMismatch(library, expected, found string) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindVersionMismatch,
		Symbol: library,
		Detail: fmt.Sprintf("expected version compatible with %s, found %s", expected, found),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// Registration creates a registration error
func Registration(what, name string, cause error) *Error {
	return &Error{
		Phase:  PhaseBuild,
		Kind:   KindRegistration,
		Detail: fmt.Sprintf("register %s %q", what, name),
		Cause:  cause,
	}
}
