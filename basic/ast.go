package basic

// ExprKind identifies the shape of an Expr node. The set is closed: the
// evaluator's dispatch (evaluator.go) is exhaustive over these values.
type ExprKind int

const (
	ExprIntegerLiteral ExprKind = iota
	ExprStringLiteral
	ExprIntegerVariable
	ExprStringVariable
	ExprArrayExpression
	ExprBuiltInVariable
	ExprBuiltInCall
	ExprUnaryMinus
	ExprAdd
	ExprSub
	ExprMul
	ExprDiv
	ExprEqual
	ExprNotEqual
	ExprLess
	ExprLessEqual
	ExprGreater
	ExprGreaterEqual
)

var exprKindNames = map[ExprKind]string{
	ExprIntegerLiteral:  "IntegerLiteral",
	ExprStringLiteral:   "StringLiteral",
	ExprIntegerVariable: "IntegerVariable",
	ExprStringVariable:  "StringVariable",
	ExprArrayExpression: "ArrayExpression",
	ExprBuiltInVariable: "BuiltInVariable",
	ExprBuiltInCall:     "BuiltInCall",
	ExprUnaryMinus:      "UnaryMinus",
	ExprAdd:             "BinaryAdd",
	ExprSub:             "BinarySub",
	ExprMul:             "BinaryMul",
	ExprDiv:             "BinaryDiv",
	ExprEqual:           "Equal",
	ExprNotEqual:        "NotEqual",
	ExprLess:            "Less",
	ExprLessEqual:       "LessEqual",
	ExprGreater:         "Greater",
	ExprGreaterEqual:    "GreaterEqual",
}

func (k ExprKind) String() string {
	if s, ok := exprKindNames[k]; ok {
		return s
	}
	return "Unknown"
}

// relationalKinds is the set of ExprKinds legal as an IF condition.
var relationalKinds = map[ExprKind]bool{
	ExprEqual:        true,
	ExprNotEqual:     true,
	ExprLess:         true,
	ExprLessEqual:    true,
	ExprGreater:      true,
	ExprGreaterEqual: true,
}

// IsRelational reports whether k produces a boolean rather than a Value.
func (k ExprKind) IsRelational() bool {
	return relationalKinds[k]
}

// Expr is an AST expression node. Rather than one Go type per node kind
// (which would need a shared interface and type switches everywhere), this
// follows the teacher's single-struct-plus-kind-tag shape (see
// vm.Instruction): Kind selects which of the fields below are meaningful.
//
//	ExprIntegerLiteral:  IntValue
//	ExprStringLiteral:   StrValue
//	ExprIntegerVariable: Name
//	ExprStringVariable:  Name
//	ExprArrayExpression: Array (the variable node), Index
//	ExprBuiltInVariable: Name
//	ExprBuiltInCall:     Name, Args
//	ExprUnaryMinus:      Operand
//	binary/relational:   Left, Right
type Expr struct {
	Kind ExprKind

	IntValue int
	StrValue string
	Name     string

	Left, Right *Expr
	Operand     *Expr

	Array *Expr
	Index *Expr

	Args []*Expr
}

// IntegerLiteral constructs an already-canonicalized integer literal node.
func IntegerLiteral(value int) *Expr {
	return &Expr{Kind: ExprIntegerLiteral, IntValue: Int16(value)}
}

// StringLiteral constructs a string literal node. Callers must have already
// checked the 255-byte bound.
func StringLiteral(text string) *Expr {
	return &Expr{Kind: ExprStringLiteral, StrValue: text}
}
