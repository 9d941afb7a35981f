package parser

import "fmt"

// Position marks a location within one line of BASIC source. Lines are
// parsed independently of each other, so there is no file/line pair to
// track, only a column — grounded on the teacher's Position type,
// narrowed to what a single-line grammar needs.
type Position struct {
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("column %d", p.Column)
}

// ErrorKind categorizes a parse failure.
type ErrorKind int

const (
	ErrorSyntax ErrorKind = iota
	ErrorUnexpectedToken
	ErrorUnknownCommand
	ErrorUnknownBuiltin
	ErrorTrailingInput
)

var errorKindNames = map[ErrorKind]string{
	ErrorSyntax:          "syntax error",
	ErrorUnexpectedToken: "unexpected token",
	ErrorUnknownCommand:  "unknown command",
	ErrorUnknownBuiltin:  "unknown built-in",
	ErrorTrailingInput:   "trailing input",
}

func (k ErrorKind) String() string {
	if s, ok := errorKindNames[k]; ok {
		return s
	}
	return "parse error"
}

// Error is a parse failure tied to a position in the offending line.
type Error struct {
	Pos     Position
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at %s: %s", e.Kind, e.Pos, e.Message)
}

// NewError constructs an *Error, returned as `error`.
func NewError(pos Position, kind ErrorKind, format string, args ...any) error {
	return &Error{Pos: pos, Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// ErrorList collects every error found while parsing a batch of lines (as
// ParseLines does), mirroring the teacher's
// ErrorList so a caller can report every bad line at once instead of
// stopping at the first.
type ErrorList struct {
	Errors []*Error
}

func (el *ErrorList) Add(err *Error) { el.Errors = append(el.Errors, err) }

func (el *ErrorList) HasErrors() bool { return len(el.Errors) > 0 }

func (el *ErrorList) Error() string {
	if !el.HasErrors() {
		return ""
	}
	s := ""
	for _, e := range el.Errors {
		s += e.Error() + "\n"
	}
	return s
}
