package basic

import (
	"fmt"
	"math/rand"
	"time"
)

// evalBuiltinCall evaluates a built-in function call. Grounded on
// cody_interpreter.py's eval_builtin_function; the argument-count checks
// there (len(args) == N) become an exhaustive switch on (name, arity) here,
// since Go has no keyword-default argument matching to lean on.
func (e *Evaluator) evalBuiltinCall(name string, args []*Expr) (Value, bool, error) {
	switch {
	case name == "ABS" && len(args) == 1:
		n, err := e.evalIntArg(args[0])
		if err != nil {
			return Value{}, false, err
		}
		if n < 0 {
			n = -n
		}
		return IntValue(n), true, nil

	case name == "SQR" && len(args) == 1:
		n, err := e.evalIntArg(args[0])
		if err != nil {
			return Value{}, false, err
		}
		if n < 0 {
			return Value{}, false, NewError(ErrorRange, "SQR of a negative number")
		}
		return IntValue(IntSqrt(n)), true, nil

	case name == "MOD" && len(args) == 2:
		a, b, err := e.evalIntPair(args)
		if err != nil {
			return Value{}, false, err
		}
		if b == 0 {
			return Value{}, false, NewError(ErrorRange, "MOD by zero")
		}
		return IntValue(FloorMod(a, b)), true, nil

	case name == "RND" && len(args) <= 1:
		if len(args) == 1 {
			seed, err := e.evalIntArg(args[0])
			if err != nil {
				return Value{}, false, err
			}
			if seed == 0 {
				rndSource.Seed(entropySeed())
			} else {
				rndSource.Seed(int64(seed))
			}
		}
		return IntValue(rndSource.Intn(256)), true, nil

	case name == "NOT" && len(args) == 1:
		n, err := e.evalIntArg(args[0])
		if err != nil {
			return Value{}, false, err
		}
		return IntValue(^n), true, nil

	case name == "AND" && len(args) == 2:
		a, b, err := e.evalIntPair(args)
		if err != nil {
			return Value{}, false, err
		}
		return IntValue(a & b), true, nil

	case name == "OR" && len(args) == 2:
		a, b, err := e.evalIntPair(args)
		if err != nil {
			return Value{}, false, err
		}
		return IntValue(a | b), true, nil

	case name == "XOR" && len(args) == 2:
		a, b, err := e.evalIntPair(args)
		if err != nil {
			return Value{}, false, err
		}
		return IntValue(a ^ b), true, nil

	case name == "SUB$" && len(args) == 3:
		return e.evalSubstring(args)

	case name == "CHR$":
		return e.evalChr(args)

	case name == "STR$" && len(args) == 1:
		n, err := e.evalIntArg(args[0])
		if err != nil {
			return Value{}, false, err
		}
		return StringValue(fmt.Sprintf("%d", n)), true, nil

	case name == "VAL" && len(args) == 1:
		s, err := e.evalStrArg(args[0])
		if err != nil {
			return Value{}, false, err
		}
		return IntValue(parseLeadingInt(s)), true, nil

	case name == "LEN" && len(args) == 1:
		s, err := e.evalStrArg(args[0])
		if err != nil {
			return Value{}, false, err
		}
		return IntValue(len(s)), true, nil

	case name == "ASC" && len(args) == 1:
		s, err := e.evalStrArg(args[0])
		if err != nil {
			return Value{}, false, err
		}
		if len(s) == 0 {
			return IntValue(0), true, nil
		}
		return IntValue(int(s[0])), true, nil

	case name == "PEEK" && len(args) == 1:
		addr, err := e.evalIntArg(args[0])
		if err != nil {
			return Value{}, false, err
		}
		n, err := e.IO.Peek(Addr16(addr))
		if err != nil {
			return Value{}, false, err
		}
		return IntValue(Byte8(n)), true, nil

	case name == "AT" && len(args) == 2:
		col, err := e.evalIntArg(args[0])
		if err != nil {
			return Value{}, false, err
		}
		row, err := e.evalIntArg(args[1])
		if err != nil {
			return Value{}, false, err
		}
		if err := e.IO.PrintAt(col, row); err != nil {
			return Value{}, false, err
		}
		return Value{}, false, nil

	case name == "TAB" && len(args) == 1:
		col, err := e.evalIntArg(args[0])
		if err != nil {
			return Value{}, false, err
		}
		if err := e.IO.PrintTab(col); err != nil {
			return Value{}, false, err
		}
		return Value{}, false, nil

	default:
		return Value{}, false, NewError(ErrorLookup, "unknown built-in function %s/%d", name, len(args))
	}
}

// rndSource is a package-level generator so that RND(seed) reseeding
// affects the sequence every subsequent bare RND() call draws from, the
// same way the original reseeds the shared `random` module.
var rndSource = rand.New(rand.NewSource(1))

// entropySeed returns a seed derived from wall-clock time, used when
// RND(0) asks for the system's default (non-reproducible) seed.
func entropySeed() int64 {
	return time.Now().UnixNano()
}

func (e *Evaluator) evalIntArg(node *Expr) (int, error) {
	v, _, err := e.Eval(node)
	if err != nil {
		return 0, err
	}
	if !v.IsInt() {
		return 0, NewError(ErrorType, "expected an integer argument")
	}
	return v.Int, nil
}

func (e *Evaluator) evalStrArg(node *Expr) (string, error) {
	v, _, err := e.Eval(node)
	if err != nil {
		return "", err
	}
	if !v.IsString() {
		return "", NewError(ErrorType, "expected a string argument")
	}
	return v.Str, nil
}

func (e *Evaluator) evalIntPair(args []*Expr) (int, int, error) {
	a, err := e.evalIntArg(args[0])
	if err != nil {
		return 0, 0, err
	}
	b, err := e.evalIntArg(args[1])
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

// evalSubstring implements SUB$(s, start, length). The bounds check is
// deliberately strict (0 <= start < len(s) and 0 <= length < len(s)-start):
// SUB$ of a suffix running exactly to the end of s is out of range, an
// inherited quirk preserved rather than smoothed over.
func (e *Evaluator) evalSubstring(args []*Expr) (Value, bool, error) {
	s, err := e.evalStrArg(args[0])
	if err != nil {
		return Value{}, false, err
	}
	start, err := e.evalIntArg(args[1])
	if err != nil {
		return Value{}, false, err
	}
	length, err := e.evalIntArg(args[2])
	if err != nil {
		return Value{}, false, err
	}
	if start < 0 || start >= len(s) || length < 0 || length >= len(s)-start {
		return Value{}, false, NewError(ErrorRange, "SUB$ arguments out of range")
	}
	return StringValue(s[start : start+length]), true, nil
}

// evalChr implements CHR$, which accepts one or more code points and
// concatenates their characters (cody_interpreter.py passes CHR$ a
// variadic args list via map()).
func (e *Evaluator) evalChr(args []*Expr) (Value, bool, error) {
	buf := make([]byte, 0, len(args))
	for _, arg := range args {
		n, err := e.evalIntArg(arg)
		if err != nil {
			return Value{}, false, err
		}
		if n < 0 || n > 255 {
			return Value{}, false, NewError(ErrorRange, "CHR$ argument out of range 0..255")
		}
		buf = append(buf, byte(n))
	}
	s, err := CheckString(string(buf))
	if err != nil {
		return Value{}, false, err
	}
	return StringValue(s), true, nil
}

// parseLeadingInt parses the longest numeric prefix of s (an optional
// leading '-' followed by digits), matching VAL's "parses the number it
// was able to parse from the beginning of the string" behavior. Returns 0
// if no digits are present, rather than the original's ValueError on
// int(""), since VAL is documented as always producing a number.
func parseLeadingInt(s string) int {
	end := 0
	for end < len(s) {
		c := s[end]
		isDigit := c >= '0' && c <= '9'
		if isDigit || (end == 0 && c == '-') {
			end++
			continue
		}
		break
	}
	if end == 0 || (end == 1 && s[0] == '-') {
		return 0
	}
	n := 0
	neg := false
	digits := s[:end]
	if digits[0] == '-' {
		neg = true
		digits = digits[1:]
	}
	for i := 0; i < len(digits); i++ {
		n = n*10 + int(digits[i]-'0')
	}
	if neg {
		n = -n
	}
	return Int16(n)
}
