package basic

import "fmt"

// ErrorKind categorizes the errors the interpreter core can raise, per
// spec.md §7. This mirrors the shape of parser.ErrorKind in the teacher
// repository, generalized from assembly-specific categories to the ones
// spec.md names.
type ErrorKind int

const (
	ErrorParse ErrorKind = iota
	ErrorType
	ErrorRange
	ErrorLookup
	ErrorIO
	ErrorCancelled
)

var errorKindNames = map[ErrorKind]string{
	ErrorParse:     "parse error",
	ErrorType:      "type error",
	ErrorRange:     "range error",
	ErrorLookup:    "lookup error",
	ErrorIO:        "I/O error",
	ErrorCancelled: "cancelled",
}

func (k ErrorKind) String() string {
	if s, ok := errorKindNames[k]; ok {
		return s
	}
	return "unknown error"
}

// Error is a runtime error raised by the evaluator or executor. Unlike
// parser.Error it carries no source Position of its own; the REPL reports
// it as its kind and message only.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// NewError constructs an *Error, returned as an `error` so call sites don't
// need to know about the concrete type.
func NewError(kind ErrorKind, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the ErrorKind from err if it is a *basic.Error, or
// ErrorIO for anything else (e.g. an error bubbled up from an IO
// implementation).
func KindOf(err error) ErrorKind {
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return ErrorIO
}
