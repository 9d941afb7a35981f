// Package parser turns one line of Cody BASIC source into a *basic.Command
// tree. Grounded structurally on the teacher's parser package (a
// tokenizing Lexer feeding a recursive-descent Parser, with a shared
// Position/Error/ErrorList shape) and semantically on cody_parser.py's
// CodyBasicParser, whose grammar and quirks (not least find_op's
// longest-match operator scan) it reproduces exactly.
package parser

import (
	"strconv"
	"strings"

	"github.com/JonnyWalker/cody-basic-interpreter/basic"
)

// builtinFunctions and builtinVariables list the names parse_variable_or_builtin
// recognizes before falling back to a plain variable, the same names as
// cody_parser.py's builtin_functions/builtin_vars tables.
var builtinFunctions = map[string]bool{
	"ABS": true, "ASC": true, "AND": true, "AT": true, "CHR$": true,
	"LEN": true, "MOD": true, "NOT": true, "OR": true, "PEEK": true,
	"RND": true, "SQR": true, "STR$": true, "SUB$": true, "TAB": true,
	"VAL": true, "XOR": true,
}

var builtinVariables = map[string]bool{
	"TI": true,
}

// commandPrefixes lists, in the same order cody_parser.py's CommandTypes
// enum declares them (minus ASSIGNMENT/EMPTY, which are never matched by
// prefix), every command keyword. The first keyword the trimmed line
// starts with wins, exactly as the original's linear enum scan does.
var commandPrefixes = []struct {
	kind basic.CommandKind
	name string
}{
	{basic.CmdREM, "REM"},
	{basic.CmdGosub, "GOSUB"},
	{basic.CmdPrint, "PRINT"},
	{basic.CmdIf, "IF"},
	{basic.CmdEnd, "END"},
	{basic.CmdInput, "INPUT"},
	{basic.CmdGoto, "GOTO"},
	{basic.CmdNext, "NEXT"},
	{basic.CmdFor, "FOR"},
	{basic.CmdReturn, "RETURN"},
	{basic.CmdOpen, "OPEN"},
	{basic.CmdClose, "CLOSE"},
	{basic.CmdData, "DATA"},
	{basic.CmdRead, "READ"},
	{basic.CmdRestore, "RESTORE"},
	{basic.CmdPoke, "POKE"},
	{basic.CmdSys, "SYS"},
	{basic.CmdNew, "NEW"},
	{basic.CmdLoad, "LOAD"},
	{basic.CmdSave, "SAVE"},
	{basic.CmdRun, "RUN"},
	{basic.CmdList, "LIST"},
}

// exprParser is a recursive-descent parser over one token stream, used
// both for a full command line's operand portion and, recursively, for
// every parenthesized sub-expression.
type exprParser struct {
	tokens []Token
	pos    int
}

func newExprParser(s string) (*exprParser, error) {
	tokens, err := NewLexer(s).Tokenize()
	if err != nil {
		return nil, err
	}
	return &exprParser{tokens: tokens}, nil
}

func (p *exprParser) peek() Token { return p.tokens[p.pos] }
func (p *exprParser) advance()    { p.pos++ }
func (p *exprParser) atEOF() bool { return p.peek().Type == TokenEOF }

func (p *exprParser) expectEOF() error {
	if !p.atEOF() {
		return NewError(p.peek().Pos, ErrorTrailingInput, "expected end of input, got %q", p.peek().Literal)
	}
	return nil
}

// parseExprList parses a comma-separated list of expressions (PRINT,
// INPUT, READ, DATA, OPEN, POKE, LIST operand lists). An empty input
// string yields an empty list, as in parse_list.
func (p *exprParser) parseExprList(relOp bool) ([]*basic.Expr, error) {
	var nodes []*basic.Expr
	if p.atEOF() {
		return nodes, nil
	}
	first, err := p.parseExpr(relOp)
	if err != nil {
		return nil, err
	}
	nodes = append(nodes, first)
	for p.peek().Type == TokenComma {
		p.advance()
		next, err := p.parseExpr(relOp)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, next)
	}
	return nodes, nil
}

func (p *exprParser) parseExpr(relOp bool) (*basic.Expr, error) {
	if relOp {
		return p.parseRelOp()
	}
	return p.parseTerm()
}

var relOps = map[string]basic.ExprKind{
	"=": basic.ExprEqual, "<>": basic.ExprNotEqual,
	"<": basic.ExprLess, "<=": basic.ExprLessEqual,
	">": basic.ExprGreater, ">=": basic.ExprGreaterEqual,
}

func (p *exprParser) parseRelOp() (*basic.Expr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.peek().Type == TokenOp {
		kind, ok := relOps[p.peek().Literal]
		if !ok {
			break
		}
		p.advance()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &basic.Expr{Kind: kind, Left: left, Right: right}
	}
	return left, nil
}

var termOps = map[string]basic.ExprKind{"+": basic.ExprAdd, "-": basic.ExprSub}

func (p *exprParser) parseTerm() (*basic.Expr, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for p.peek().Type == TokenOp {
		kind, ok := termOps[p.peek().Literal]
		if !ok {
			break
		}
		p.advance()
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		left = &basic.Expr{Kind: kind, Left: left, Right: right}
	}
	return left, nil
}

var factorOps = map[string]basic.ExprKind{"*": basic.ExprMul, "/": basic.ExprDiv}

func (p *exprParser) parseFactor() (*basic.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.peek().Type == TokenOp {
		kind, ok := factorOps[p.peek().Literal]
		if !ok {
			break
		}
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &basic.Expr{Kind: kind, Left: left, Right: right}
	}
	return left, nil
}

func (p *exprParser) parseUnary() (*basic.Expr, error) {
	if p.peek().Type == TokenOp && p.peek().Literal == "-" {
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &basic.Expr{Kind: basic.ExprUnaryMinus, Operand: operand}, nil
	}
	return p.parsePrimary()
}

func (p *exprParser) parsePrimary() (*basic.Expr, error) {
	tok := p.peek()
	switch {
	case tok.Type == TokenString:
		p.advance()
		s, err := basic.CheckString(tok.Literal)
		if err != nil {
			return nil, err
		}
		return basic.StringLiteral(s), nil
	case tok.Type == TokenLParen:
		p.advance()
		node, err := p.parseExpr(false)
		if err != nil {
			return nil, err
		}
		if p.peek().Type != TokenRParen {
			return nil, NewError(p.peek().Pos, ErrorUnexpectedToken, "expected )")
		}
		p.advance()
		return node, nil
	case tok.Type == TokenNumber:
		p.advance()
		n, err := strconv.Atoi(tok.Literal)
		if err != nil {
			return nil, NewError(tok.Pos, ErrorSyntax, "invalid integer literal %q", tok.Literal)
		}
		return basic.IntegerLiteral(n), nil
	case tok.Type == TokenIdent:
		return p.parseVariableOrBuiltin()
	default:
		return nil, NewError(tok.Pos, ErrorSyntax, "parse error near %q", tok.Literal)
	}
}

// parseVariableOrBuiltin implements parse_variable_or_builtin: a bare
// letter is an integer variable, a letter followed by "$" is a string
// variable, and known names dispatch to a built-in variable or function
// instead, each with its own parameter arity rule.
func (p *exprParser) parseVariableOrBuiltin() (*basic.Expr, error) {
	tok := p.peek()
	p.advance()
	name := tok.Literal

	switch {
	case builtinVariables[name]:
		return &basic.Expr{Kind: basic.ExprBuiltInVariable, Name: name}, nil

	case builtinFunctions[name]:
		if p.peek().Type != TokenLParen {
			return nil, NewError(tok.Pos, ErrorUnexpectedToken, "built-in %s requires arguments", name)
		}
		args, err := p.parseParenArgs()
		if err != nil {
			return nil, err
		}
		return &basic.Expr{Kind: basic.ExprBuiltInCall, Name: name, Args: args}, nil

	case len(name) == 1:
		node := &basic.Expr{Kind: basic.ExprIntegerVariable, Name: name}
		if p.peek().Type == TokenLParen {
			args, err := p.parseParenArgs()
			if err != nil {
				return nil, err
			}
			if len(args) != 1 {
				return nil, NewError(tok.Pos, ErrorSyntax, "array index requires exactly one expression")
			}
			return &basic.Expr{Kind: basic.ExprArrayExpression, Array: node, Index: args[0]}, nil
		}
		return node, nil

	case len(name) == 2 && name[1] == '$':
		return &basic.Expr{Kind: basic.ExprStringVariable, Name: name[:1]}, nil

	default:
		return nil, NewError(tok.Pos, ErrorUnknownBuiltin, "unknown built-in %s", name)
	}
}

func (p *exprParser) parseParenArgs() ([]*basic.Expr, error) {
	p.advance() // consume "("
	var args []*basic.Expr
	if p.peek().Type != TokenRParen {
		var err error
		args, err = p.parseExprList(false)
		if err != nil {
			return nil, err
		}
	}
	if p.peek().Type != TokenRParen {
		return nil, NewError(p.peek().Pos, ErrorUnexpectedToken, "expected )")
	}
	p.advance()
	return args, nil
}

// parseExpr parses s as a single expression, requiring the whole string to
// be consumed unless ignoreTail is set (used for the assignment target,
// the IF condition, and the FOR variable and initial value, each already
// cut out of the line at "=", THEN, or TO).
func parseExpr(s string, relOp, ignoreTail bool) (*basic.Expr, error) {
	ep, err := newExprParser(s)
	if err != nil {
		return nil, err
	}
	node, err := ep.parseExpr(relOp)
	if err != nil {
		return nil, err
	}
	if !ignoreTail {
		if err := ep.expectEOF(); err != nil {
			return nil, err
		}
	}
	return node, nil
}

func parseExprListFull(s string, relOp bool) ([]*basic.Expr, error) {
	ep, err := newExprParser(s)
	if err != nil {
		return nil, err
	}
	nodes, err := ep.parseExprList(relOp)
	if err != nil {
		return nil, err
	}
	if err := ep.expectEOF(); err != nil {
		return nil, err
	}
	return nodes, nil
}

// ParseCommand parses one full source line (with its leading line number,
// if hasLineNumber) into a *basic.Command. Grounded on parse_command.
func ParseCommand(source string, hasLineNumber bool) (*basic.Command, error) {
	trimmed := strings.TrimSpace(source)

	var lineNumber *int
	if hasLineNumber {
		i := 0
		for i < len(trimmed) && trimmed[i] >= '0' && trimmed[i] <= '9' {
			i++
		}
		if i > 0 {
			n, err := strconv.Atoi(trimmed[:i])
			if err != nil || n < 0 || n >= 65535 {
				return nil, NewError(Position{}, ErrorSyntax, "invalid line number in %q", source)
			}
			lineNumber = &n
			trimmed = strings.TrimSpace(trimmed[i:])
		}
	}

	kind, rest, ok := matchCommandPrefix(trimmed)
	if !ok {
		if trimmed == "" {
			kind = basic.CmdEmpty
			rest = ""
		} else if strings.Contains(trimmed, "=") {
			kind = basic.CmdAssignment
			rest = trimmed
		} else {
			return nil, NewError(Position{}, ErrorUnknownCommand, "unknown command: %s", source)
		}
	}

	cmd := &basic.Command{Kind: kind, LineNumber: lineNumber, Source: source}
	if err := parseOperands(cmd, rest); err != nil {
		return nil, err
	}
	return cmd, nil
}

// matchCommandPrefix finds the first command keyword trimmed starts with,
// in the same priority order the original's enum iteration used.
func matchCommandPrefix(trimmed string) (basic.CommandKind, string, bool) {
	for _, c := range commandPrefixes {
		if strings.HasPrefix(trimmed, c.name) {
			return c.kind, strings.TrimSpace(trimmed[len(c.name):]), true
		}
	}
	return 0, "", false
}

// parseOperands fills in the kind-specific fields of cmd from the
// remaining text after the command keyword, mirroring parse_command's
// per-CommandType branch.
func parseOperands(cmd *basic.Command, rest string) error {
	switch cmd.Kind {
	case basic.CmdREM:
		// ignore the rest of the line entirely

	case basic.CmdEmpty, basic.CmdNext, basic.CmdReturn, basic.CmdEnd,
		basic.CmdClose, basic.CmdRestore, basic.CmdNew, basic.CmdRun:
		if rest != "" {
			return NewError(Position{}, ErrorTrailingInput, "expected end of line after %s, got %q", cmd.Kind, rest)
		}

	case basic.CmdAssignment:
		eq := strings.Index(rest, "=")
		if eq < 0 {
			return NewError(Position{}, ErrorSyntax, "assignment missing '='")
		}
		lvalue, err := parseExpr(strings.TrimSpace(rest[:eq]), false, true)
		if err != nil {
			return err
		}
		if lvalue.Kind != basic.ExprIntegerVariable && lvalue.Kind != basic.ExprStringVariable && lvalue.Kind != basic.ExprArrayExpression {
			return NewError(Position{}, ErrorSyntax, "invalid assignment target")
		}
		rvalue, err := parseExpr(strings.TrimSpace(rest[eq+1:]), false, false)
		if err != nil {
			return err
		}
		cmd.LValue, cmd.RValue = lvalue, rvalue

	case basic.CmdGoto, basic.CmdGosub:
		expr, err := parseExpr(rest, false, false)
		if err != nil {
			return err
		}
		cmd.LineExpr = expr

	case basic.CmdPrint:
		body, noNewline := rest, false
		if strings.HasSuffix(body, ";") {
			body, noNewline = body[:len(body)-1], true
		}
		exprs, err := parseExprListFull(body, false)
		if err != nil {
			return err
		}
		cmd.Exprs, cmd.NoNewline = exprs, noNewline

	case basic.CmdInput, basic.CmdRead:
		exprs, err := parseExprListFull(rest, false)
		if err != nil {
			return err
		}
		if len(exprs) == 0 {
			return NewError(Position{}, ErrorSyntax, "%s requires at least one target", cmd.Kind)
		}
		cmd.Targets = exprs

	case basic.CmdData:
		exprs, err := parseExprListFull(rest, false)
		if err != nil {
			return err
		}
		if len(exprs) == 0 {
			return NewError(Position{}, ErrorSyntax, "DATA requires at least one value")
		}
		for _, e := range exprs {
			literal := e
			if literal.Kind == basic.ExprUnaryMinus {
				literal = literal.Operand
			}
			if literal.Kind != basic.ExprIntegerLiteral {
				return NewError(Position{}, ErrorSyntax, "DATA values must be integer literals")
			}
		}
		cmd.IntLiterals = exprs

	case basic.CmdIf:
		thenIdx := strings.Index(rest, "THEN")
		if thenIdx < 0 {
			return NewError(Position{}, ErrorSyntax, "IF requires THEN")
		}
		cond, err := parseExpr(strings.TrimSpace(rest[:thenIdx]), true, true)
		if err != nil {
			return err
		}
		if !cond.Kind.IsRelational() {
			return NewError(Position{}, ErrorSyntax, "IF condition must be a comparison")
		}
		tail := strings.TrimSpace(rest[thenIdx+len("THEN"):])
		if tail == "" {
			return NewError(Position{}, ErrorSyntax, "IF THEN requires a command")
		}
		inner, err := ParseCommand(tail, false)
		if err != nil {
			return err
		}
		cmd.Cond, cmd.Inner = cond, inner

	case basic.CmdFor:
		eq := strings.Index(rest, "=")
		if eq < 0 {
			return NewError(Position{}, ErrorSyntax, "FOR requires '='")
		}
		loopVar, err := parseExpr(strings.TrimSpace(rest[:eq]), false, true)
		if err != nil {
			return err
		}
		if loopVar.Kind != basic.ExprIntegerVariable && loopVar.Kind != basic.ExprArrayExpression {
			return NewError(Position{}, ErrorSyntax, "FOR loop variable must be an integer variable")
		}
		toIdx := strings.Index(rest, "TO")
		if toIdx < 0 || toIdx < eq {
			return NewError(Position{}, ErrorSyntax, "FOR requires TO")
		}
		initial, err := parseExpr(strings.TrimSpace(rest[eq+1:toIdx]), false, true)
		if err != nil {
			return err
		}
		limit, err := parseExpr(strings.TrimSpace(rest[toIdx+len("TO"):]), false, false)
		if err != nil {
			return err
		}
		cmd.LoopVar, cmd.Initial, cmd.Limit = loopVar, initial, limit

	case basic.CmdOpen:
		args, err := parseExprListFull(rest, false)
		if err != nil {
			return err
		}
		if len(args) != 2 {
			return NewError(Position{}, ErrorSyntax, "OPEN requires uart, bit_rate")
		}
		cmd.Uart, cmd.BitRate = args[0], args[1]

	case basic.CmdPoke:
		args, err := parseExprListFull(rest, false)
		if err != nil {
			return err
		}
		if len(args) != 2 {
			return NewError(Position{}, ErrorSyntax, "POKE requires address, value")
		}
		cmd.Addr, cmd.Value = args[0], args[1]

	case basic.CmdSys:
		expr, err := parseExpr(rest, false, false)
		if err != nil {
			return err
		}
		cmd.Addr = expr

	case basic.CmdList:
		args, err := parseExprListFull(rest, false)
		if err != nil {
			return err
		}
		if len(args) > 2 {
			return NewError(Position{}, ErrorSyntax, "LIST takes at most two arguments")
		}
		if len(args) >= 1 {
			cmd.Start = args[0]
		}
		if len(args) >= 2 {
			cmd.End = args[1]
		}

	case basic.CmdLoad:
		args, err := parseExprListFull(rest, false)
		if err != nil {
			return err
		}
		if len(args) != 2 {
			return NewError(Position{}, ErrorSyntax, "LOAD requires uart, mode")
		}
		cmd.Uart, cmd.Mode = args[0], args[1]

	case basic.CmdSave:
		expr, err := parseExpr(rest, false, false)
		if err != nil {
			return err
		}
		cmd.Uart = expr

	default:
		return NewError(Position{}, ErrorSyntax, "command %s not implemented", cmd.Kind)
	}
	return nil
}

// ParseLines parses each non-blank line of a program listing, collecting
// every line's parse error into one *ErrorList instead of stopping at the
// first.
func ParseLines(lines []string) ([]*basic.Command, error) {
	var commands []*basic.Command
	errs := &ErrorList{}
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		cmd, err := ParseCommand(line, true)
		if err != nil {
			if pe, ok := err.(*Error); ok {
				errs.Add(pe)
				continue
			}
			return nil, err
		}
		commands = append(commands, cmd)
	}
	if errs.HasErrors() {
		return nil, errs
	}
	return commands, nil
}
