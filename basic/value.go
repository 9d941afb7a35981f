package basic

import "fmt"

// ValueKind discriminates the two members of Value.
type ValueKind int

const (
	ValueInt ValueKind = iota
	ValueString
)

// Value is the result of evaluating an expression: either a signed 16-bit
// integer or a bounded (<=255 byte) string. AT and TAB evaluate to no
// value at all, signalled by Evaluator.Eval returning ok == false rather
// than by a third ValueKind, since "no value" is a statement-level concept
// (PRINT suppresses it), not a data kind a variable could ever hold.
type Value struct {
	Kind ValueKind
	Int  int
	Str  string
}

// IntValue wraps a canonicalized integer as a Value.
func IntValue(n int) Value {
	return Value{Kind: ValueInt, Int: Int16(n)}
}

// StringValue wraps a string as a Value. Callers are responsible for the
// 255-byte bound; use CheckString to enforce it.
func StringValue(s string) Value {
	return Value{Kind: ValueString, Str: s}
}

// IsInt reports whether v holds an integer.
func (v Value) IsInt() bool { return v.Kind == ValueInt }

// IsString reports whether v holds a string.
func (v Value) IsString() bool { return v.Kind == ValueString }

// SameKind reports whether v and other hold the same kind of value.
func (v Value) SameKind(other Value) bool { return v.Kind == other.Kind }

// String renders v the way PRINT and STR$ do: integers in decimal, strings
// verbatim.
func (v Value) String() string {
	if v.IsInt() {
		return fmt.Sprintf("%d", v.Int)
	}
	return v.Str
}

// CheckString enforces the 255-byte bound spec.md §3 places on every
// string-producing operation.
func CheckString(s string) (string, error) {
	if len(s) > 255 {
		return "", NewError(ErrorRange, "string exceeds 255 bytes")
	}
	return s, nil
}
