package basic

// Evaluator walks Expr trees against a Vars store and an IO sink. Grounded
// on cody_interpreter.py's eval/eval_builtin_var/eval_builtin_function.
type Evaluator struct {
	Vars *Vars
	IO   IO
}

// NewEvaluator returns an Evaluator bound to the given variable store and
// I/O sink.
func NewEvaluator(vars *Vars, io IO) *Evaluator {
	return &Evaluator{Vars: vars, IO: io}
}

// Eval evaluates node to a Value. ok is false only for the AT and TAB
// built-in calls, which perform a cursor-positioning side effect and
// produce no printable value; PRINT is the only legal context for them and
// it is the only caller that inspects ok.
func (e *Evaluator) Eval(node *Expr) (value Value, ok bool, err error) {
	switch node.Kind {
	case ExprIntegerLiteral:
		return IntValue(node.IntValue), true, nil

	case ExprStringLiteral:
		return StringValue(node.StrValue), true, nil

	case ExprIntegerVariable:
		return IntValue(e.Vars.GetInt(node.Name, 0)), true, nil

	case ExprStringVariable:
		return StringValue(e.Vars.GetString(node.Name)), true, nil

	case ExprArrayExpression:
		index, _, err := e.Eval(node.Index)
		if err != nil {
			return Value{}, false, err
		}
		if !index.IsInt() {
			return Value{}, false, NewError(ErrorType, "array index must be an integer")
		}
		return IntValue(e.Vars.GetInt(node.Array.Name, index.Int)), true, nil

	case ExprBuiltInVariable:
		v, err := e.evalBuiltinVar(node.Name)
		return v, true, err

	case ExprBuiltInCall:
		return e.evalBuiltinCall(node.Name, node.Args)

	case ExprUnaryMinus:
		v, _, err := e.Eval(node.Operand)
		if err != nil {
			return Value{}, false, err
		}
		if !v.IsInt() {
			return Value{}, false, NewError(ErrorType, "unary minus requires an integer")
		}
		return IntValue(-v.Int), true, nil

	case ExprAdd:
		return e.evalAdd(node)

	case ExprSub, ExprMul, ExprDiv:
		return e.evalArith(node)

	case ExprEqual, ExprNotEqual, ExprLess, ExprLessEqual, ExprGreater, ExprGreaterEqual:
		return Value{}, false, NewError(ErrorType, "relational expression used where a value was expected")

	default:
		return Value{}, false, NewError(ErrorType, "cannot evaluate %s", node.Kind)
	}
}

// EvalCondition evaluates a relational node (the only legal shape for an IF
// condition) to a bool.
func (e *Evaluator) EvalCondition(node *Expr) (bool, error) {
	if !node.Kind.IsRelational() {
		return false, NewError(ErrorType, "condition must be a comparison")
	}
	left, _, err := e.Eval(node.Left)
	if err != nil {
		return false, err
	}
	right, _, err := e.Eval(node.Right)
	if err != nil {
		return false, err
	}
	if !left.SameKind(right) {
		return false, NewError(ErrorType, "cannot compare %v to %v", left, right)
	}

	var cmp int
	if left.IsInt() {
		cmp = compareInt(left.Int, right.Int)
	} else {
		cmp = compareString(left.Str, right.Str)
	}

	switch node.Kind {
	case ExprEqual:
		return cmp == 0, nil
	case ExprNotEqual:
		return cmp != 0, nil
	case ExprLess:
		return cmp < 0, nil
	case ExprLessEqual:
		return cmp <= 0, nil
	case ExprGreater:
		return cmp > 0, nil
	case ExprGreaterEqual:
		return cmp >= 0, nil
	default:
		panic("unreachable")
	}
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareString(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// evalAdd implements BinaryAdd: integer addition when both sides are
// integers, string concatenation when both sides are strings. Mixed-kind
// addition is a type error, matching the original's assert.
func (e *Evaluator) evalAdd(node *Expr) (Value, bool, error) {
	left, _, err := e.Eval(node.Left)
	if err != nil {
		return Value{}, false, err
	}
	right, _, err := e.Eval(node.Right)
	if err != nil {
		return Value{}, false, err
	}
	if left.IsInt() && right.IsInt() {
		return IntValue(left.Int + right.Int), true, nil
	}
	if left.IsString() && right.IsString() {
		s, err := CheckString(left.Str + right.Str)
		if err != nil {
			return Value{}, false, err
		}
		return StringValue(s), true, nil
	}
	return Value{}, false, NewError(ErrorType, "+ requires two integers or two strings")
}

// evalArith implements BinarySub/BinaryMul/BinaryDiv, which are all
// integer-only per the original. Division uses floor semantics (see
// FloorDiv), not Go's truncating /.
func (e *Evaluator) evalArith(node *Expr) (Value, bool, error) {
	left, _, err := e.Eval(node.Left)
	if err != nil {
		return Value{}, false, err
	}
	right, _, err := e.Eval(node.Right)
	if err != nil {
		return Value{}, false, err
	}
	if !left.IsInt() || !right.IsInt() {
		return Value{}, false, NewError(ErrorType, "%s requires two integers", node.Kind)
	}
	switch node.Kind {
	case ExprSub:
		return IntValue(left.Int - right.Int), true, nil
	case ExprMul:
		return IntValue(left.Int * right.Int), true, nil
	case ExprDiv:
		if right.Int == 0 {
			return Value{}, false, NewError(ErrorRange, "division by zero")
		}
		return IntValue(FloorDiv(left.Int, right.Int)), true, nil
	default:
		panic("unreachable")
	}
}

// evalBuiltinVar evaluates a zero-argument built-in like TI.
func (e *Evaluator) evalBuiltinVar(name string) (Value, error) {
	if name == "TI" {
		return IntValue(e.IO.GetTime()), nil
	}
	return Value{}, NewError(ErrorLookup, "unknown built-in variable %s", name)
}

// computeTarget resolves an lvalue Expr (IntegerVariable, StringVariable,
// or ArrayExpression) to the underlying variable name and index, matching
// cody_interpreter.py's compute_target.
func (e *Evaluator) computeTarget(node *Expr) (name string, index int, isInt bool, err error) {
	switch node.Kind {
	case ExprArrayExpression:
		idx, _, ierr := e.Eval(node.Index)
		if ierr != nil {
			return "", 0, false, ierr
		}
		if !idx.IsInt() {
			return "", 0, false, NewError(ErrorType, "array index must be an integer")
		}
		return node.Array.Name, idx.Int, true, nil
	case ExprIntegerVariable:
		return node.Name, 0, true, nil
	case ExprStringVariable:
		return node.Name, 0, false, nil
	default:
		return "", 0, false, NewError(ErrorType, "not an assignable target")
	}
}

// Assign stores value into the variable referenced by target.
func (e *Evaluator) Assign(target *Expr, value Value) error {
	name, index, isInt, err := e.computeTarget(target)
	if err != nil {
		return err
	}
	if isInt {
		if !value.IsInt() {
			return NewError(ErrorType, "cannot assign a string to an integer variable")
		}
		e.Vars.SetInt(name, index, value.Int)
		return nil
	}
	if !value.IsString() {
		return NewError(ErrorType, "cannot assign an integer to a string variable")
	}
	s, err := CheckString(value.Str)
	if err != nil {
		return err
	}
	e.Vars.SetString(name, s)
	return nil
}
