package basic

import "strings"

// OutcomeKind tags how the executor should continue after a command runs.
// Modeled explicitly as a tagged struct (see the Expr/Command comment on
// why) rather than the original's union of "recalc"/int/None, per spec.md
// §9's guidance to avoid a runtime string sentinel standing in for a third
// case.
type OutcomeKind int

const (
	// OutcomeContinue means "resume at the line after this command's own
	// line number", resolved by resolveContinue once the command has run.
	OutcomeContinue OutcomeKind = iota
	// OutcomeJump means "go to program-store index Index next."
	OutcomeJump
	// OutcomeHalt means "stop running."
	OutcomeHalt
)

// Outcome is the resolved result of dispatching one command.
type Outcome struct {
	Kind  OutcomeKind
	Index int // meaningful only when Kind == OutcomeJump
}

// loopFrame is one entry of the FOR/NEXT stack: the loop variable (name
// plus array index, since FOR A(1)=... is legal), the inclusive limit, and
// the FOR command's own line number for NEXT's back-jump.
type loopFrame struct {
	varName  string
	varIndex int
	limit    int
	forLine  int
}

// Executor drives a Program against a Vars store and an IO sink, one
// command at a time. Grounded on cody_interpreter.py's Interpreter class:
// _run_command/run_command/_run_loop become step/RunCommand/runLoop here.
type Executor struct {
	Program *Program
	Vars    *Vars
	Eval    *Evaluator
	IO      IO
	Cancel  *Canceller

	// ParseLine parses one line of BASIC source into a Command, used by
	// LOAD to rebuild a program from lines read over a uart channel. Left
	// nil until the owning REPL wires in a parser; nil is only reached if
	// LOAD is invoked without one configured.
	ParseLine func(source string) (*Command, error)

	// Running is true exactly while a program is executing (as opposed to
	// a single command being dispatched from the prompt). Mirrors the
	// original's `running`/`repl` pair (repl == !running).
	Running bool

	// MaxSteps bounds how many program lines one run may execute before
	// the executor gives up (0 means unbounded). Wired from
	// config.Execution.MaxSteps; the teacher's VM applies the same kind of
	// cycle limit to runaway programs.
	MaxSteps uint64

	// OnLine, when non-nil, is called with each program line number just
	// before it executes. The CLI wires a trace.Recorder here.
	OnLine func(line int)

	callStack []int
	loopStack []loopFrame

	// currentLine is the line number of the stored command currently
	// dispatching, used as the caller/FOR line for commands nested inside
	// IF ... THEN (the inner command itself carries no line number).
	currentLine *int
}

// NewExecutor returns an idle Executor with empty program and variable
// stores, wired to io.
func NewExecutor(io IO) *Executor {
	vars := NewVars()
	return &Executor{
		Program: NewProgram(),
		Vars:    vars,
		Eval:    NewEvaluator(vars, io),
		IO:      io,
		Cancel:  &Canceller{},
	}
}

// Reset clears variables and the call/loop stacks, and additionally the
// program store when clearProgram is true. Matches Interpreter.reset.
func (x *Executor) Reset(clearProgram bool) {
	if clearProgram {
		x.Program.Clear()
	}
	x.callStack = nil
	x.loopStack = nil
	x.currentLine = nil
	x.Vars.Reset()
}

// RunCommand dispatches a single REPL-typed command and, if it starts or
// continues program execution, pumps the run loop until the program
// halts. This is the entry point the console REPL calls; the debugger
// instead drives one command at a time through Dispatch.
func (x *Executor) RunCommand(cmd *Command) error {
	out, err := x.step(cmd)
	if err == nil {
		err = x.runLoop(out)
	}
	if err != nil {
		// Any error returns control to the prompt with variables intact
		// but the call and loop stacks cleared; the stored program is
		// never altered by a failure.
		x.callStack = nil
		x.loopStack = nil
		x.currentLine = nil
	}
	return err
}

func (x *Executor) runLoop(start Outcome) error {
	x.Running = true
	defer func() { x.Running = false }()

	var steps uint64
	out := start
	for out.Kind == OutcomeJump {
		if x.MaxSteps > 0 && steps >= x.MaxSteps {
			return NewError(ErrorRange, "program exceeded %d executed lines", x.MaxSteps)
		}
		steps++
		next := x.Program.At(out.Index)
		if x.OnLine != nil && next.LineNumber != nil {
			x.OnLine(*next.LineNumber)
		}
		var err error
		out, err = x.step(next)
		if err != nil {
			return err
		}
	}
	return nil
}

// CallStackLines returns a copy of the current GOSUB call stack, outermost
// caller first, for a debugger view.
func (x *Executor) CallStackLines() []int {
	out := make([]int, len(x.callStack))
	copy(out, x.callStack)
	return out
}

// LoopStackDepth returns the current FOR/NEXT nesting depth, for a
// debugger view.
func (x *Executor) LoopStackDepth() int {
	return len(x.loopStack)
}

// Dispatch executes exactly one command and returns the resulting Outcome
// without pumping a run loop to completion. RunCommand is the entry point
// for a plain REPL, which always wants to run to a halt; Dispatch is
// exported for debugger, which drives execution one program line at a
// time and decides for itself when to stop at a breakpoint.
func (x *Executor) Dispatch(cmd *Command) (Outcome, error) {
	return x.step(cmd)
}

// step dispatches one command and resolves its continuation to an Outcome.
func (x *Executor) step(cmd *Command) (Outcome, error) {
	if x.Cancel.Poll() {
		return Outcome{}, NewError(ErrorCancelled, "program cancelled")
	}

	if !x.Running && cmd.LineNumber != nil {
		x.Program.Store(cmd)
		return Outcome{Kind: OutcomeHalt}, nil
	}

	if err := x.checkMode(cmd); err != nil {
		return Outcome{}, err
	}

	if cmd.LineNumber != nil {
		x.currentLine = cmd.LineNumber
	}

	out := Outcome{} // zero value: OutcomeContinue
	var err error

	switch cmd.Kind {
	case CmdREM, CmdEmpty, CmdData:
		// no-op: comments, blank lines, and DATA are inert when reached;
		// DATA's literals are only consumed lazily via READ.

	case CmdAssignment:
		var value Value
		value, _, err = x.Eval.Eval(cmd.RValue)
		if err == nil {
			err = x.Eval.Assign(cmd.LValue, value)
		}

	case CmdPrint:
		err = x.execPrint(cmd)

	case CmdInput:
		err = x.execInput(cmd)

	case CmdIf:
		out, err = x.execIf(cmd)

	case CmdGoto:
		out, err = x.execGoto(cmd)

	case CmdGosub:
		out, err = x.execGosub(cmd)

	case CmdReturn:
		out, err = x.execReturn()

	case CmdEnd:
		out = Outcome{Kind: OutcomeHalt}

	case CmdFor:
		err = x.execFor(cmd)

	case CmdNext:
		out, err = x.execNext()

	case CmdRead:
		err = x.execRead(cmd)

	case CmdRestore:
		x.Vars.RestoreData()

	case CmdPoke:
		err = x.execPoke(cmd)

	case CmdSys:
		err = x.execSys(cmd)

	case CmdOpen:
		err = x.execOpen(cmd)

	case CmdClose:
		err = x.IO.CloseUart()

	case CmdLoad:
		err = x.execLoad(cmd)

	case CmdSave:
		err = x.execSave(cmd)

	case CmdNew:
		x.Reset(true)

	case CmdRun:
		out, err = x.execRun()

	case CmdList:
		err = x.execList(cmd)

	default:
		err = NewError(ErrorParse, "command %s not implemented", cmd.Kind)
	}

	if err != nil {
		return Outcome{}, err
	}
	if out.Kind != OutcomeContinue {
		return out, nil
	}
	return x.resolveContinue(cmd), nil
}

// resolveContinue converts OutcomeContinue into an explicit jump to the
// line after cmd's own line number, or a halt if cmd has no line number
// (an immediate-mode command) or no such line exists.
func (x *Executor) resolveContinue(cmd *Command) Outcome {
	if cmd.LineNumber == nil {
		return Outcome{Kind: OutcomeHalt}
	}
	idx, ok := x.Program.FirstGreaterThan(*cmd.LineNumber)
	if !ok {
		return Outcome{Kind: OutcomeHalt}
	}
	return Outcome{Kind: OutcomeJump, Index: idx}
}

func (x *Executor) checkMode(cmd *Command) error {
	if cmd.Kind.RequiresRunning() && !x.Running {
		return NewError(ErrorParse, "%s requires a running program", cmd.Kind)
	}
	if cmd.Kind.RequiresREPL() && x.Running {
		return NewError(ErrorParse, "%s is only legal in immediate mode", cmd.Kind)
	}
	return nil
}

func (x *Executor) execPrint(cmd *Command) error {
	for _, expr := range cmd.Exprs {
		v, ok, err := x.Eval.Eval(expr)
		if err != nil {
			return err
		}
		if !ok {
			// AT/TAB: the cursor move already happened as a side effect.
			continue
		}
		if err := Print(x.IO, v.String()); err != nil {
			return err
		}
	}
	if !cmd.NoNewline {
		x.IO.Println("")
	}
	return nil
}

func (x *Executor) execInput(cmd *Command) error {
	for _, target := range cmd.Targets {
		name, index, isInt, err := x.Eval.computeTarget(target)
		if err != nil {
			return err
		}
		line, err := x.IO.Input(x.IO.PromptChar() + " ")
		if err != nil {
			return err
		}
		if isInt {
			n, err := parseStrictInt(line)
			if err != nil {
				return err
			}
			x.Vars.SetInt(name, index, n)
		} else {
			s, err := CheckString(line)
			if err != nil {
				return err
			}
			x.Vars.SetString(name, s)
		}
	}
	return nil
}

func (x *Executor) execIf(cmd *Command) (Outcome, error) {
	cond, err := x.Eval.EvalCondition(cmd.Cond)
	if err != nil {
		return Outcome{}, err
	}
	if !cond {
		return Outcome{}, nil
	}
	inner, err := x.step(cmd.Inner)
	if err != nil {
		return Outcome{}, err
	}
	if inner.Kind == OutcomeJump {
		return inner, nil
	}
	// An inner END or no-op resolves to a halt/continue of its own
	// (line-less) command, which the original's "is not None" check
	// discards: THEN END does not stop the program, it merely falls
	// through to whatever follows the IF line.
	return Outcome{}, nil
}

func (x *Executor) execGoto(cmd *Command) (Outcome, error) {
	target, err := x.Eval.evalIntArg(cmd.LineExpr)
	if err != nil {
		return Outcome{}, err
	}
	idx, ok := x.Program.IndexOf(target)
	if !ok {
		return Outcome{}, NewError(ErrorLookup, "no such line %d", target)
	}
	return Outcome{Kind: OutcomeJump, Index: idx}, nil
}

func (x *Executor) execGosub(cmd *Command) (Outcome, error) {
	target, err := x.Eval.evalIntArg(cmd.LineExpr)
	if err != nil {
		return Outcome{}, err
	}
	idx, ok := x.Program.IndexOf(target)
	if !ok {
		return Outcome{}, NewError(ErrorLookup, "no such line %d", target)
	}
	caller := cmd.LineNumber
	if caller == nil {
		// GOSUB nested inside IF ... THEN: the inner command has no line
		// number of its own, so the IF's line is the caller.
		caller = x.currentLine
	}
	if caller == nil {
		return Outcome{}, NewError(ErrorLookup, "GOSUB has no calling line")
	}
	x.callStack = append(x.callStack, *caller)
	return Outcome{Kind: OutcomeJump, Index: idx}, nil
}

func (x *Executor) execReturn() (Outcome, error) {
	if len(x.callStack) == 0 {
		return Outcome{}, NewError(ErrorLookup, "RETURN without GOSUB")
	}
	line := x.callStack[len(x.callStack)-1]
	x.callStack = x.callStack[:len(x.callStack)-1]
	idx, ok := x.Program.FirstGreaterThan(line)
	if !ok {
		return Outcome{Kind: OutcomeHalt}, nil
	}
	return Outcome{Kind: OutcomeJump, Index: idx}, nil
}

func (x *Executor) execFor(cmd *Command) error {
	name, index, isInt, err := x.Eval.computeTarget(cmd.LoopVar)
	if err != nil {
		return err
	}
	if !isInt {
		return NewError(ErrorType, "FOR loop variable must be an integer variable")
	}
	initial, err := x.Eval.evalIntArg(cmd.Initial)
	if err != nil {
		return err
	}
	x.Vars.SetInt(name, index, initial)
	limit, err := x.Eval.evalIntArg(cmd.Limit)
	if err != nil {
		return err
	}
	if initial >= limit {
		return NewError(ErrorRange, "FOR initial value must be less than limit")
	}
	forLine := cmd.LineNumber
	if forLine == nil {
		forLine = x.currentLine
	}
	if forLine == nil {
		return NewError(ErrorLookup, "FOR has no line for NEXT to return to")
	}
	x.loopStack = append(x.loopStack, loopFrame{
		varName:  name,
		varIndex: index,
		limit:    limit,
		forLine:  *forLine,
	})
	return nil
}

func (x *Executor) execNext() (Outcome, error) {
	if len(x.loopStack) == 0 {
		return Outcome{}, NewError(ErrorLookup, "NEXT without FOR")
	}
	frame := x.loopStack[len(x.loopStack)-1]
	current := x.Vars.GetInt(frame.varName, frame.varIndex)
	if current >= frame.limit {
		x.loopStack = x.loopStack[:len(x.loopStack)-1]
		return Outcome{}, nil
	}
	x.Vars.SetInt(frame.varName, frame.varIndex, current+1)
	idx, ok := x.Program.FirstGreaterThan(frame.forLine)
	if !ok {
		return Outcome{}, NewError(ErrorLookup, "FOR line missing for active loop")
	}
	return Outcome{Kind: OutcomeJump, Index: idx}, nil
}

func (x *Executor) execRead(cmd *Command) error {
	for _, target := range cmd.Targets {
		name, index, isInt, err := x.Eval.computeTarget(target)
		if err != nil {
			return err
		}
		if !isInt {
			return NewError(ErrorType, "READ target must be an integer variable")
		}
		value, err := x.readNextDataValue()
		if err != nil {
			return err
		}
		x.Vars.SetInt(name, index, value)
	}
	return nil
}

// readNextDataValue advances the lazy DATA cursor, scanning forward from
// where it last stopped for the next DATA command with literals, and pops
// one value off it. Grounded on read_next_data_value; kept lazy rather
// than precomputed, per spec.md §9.
func (x *Executor) readNextDataValue() (int, error) {
	for len(x.Vars.dataValues) == 0 {
		if x.Vars.dataLine >= x.Program.Len() {
			return 0, NewError(ErrorLookup, "no more data values")
		}
		cmd := x.Program.At(x.Vars.dataLine)
		x.Vars.dataLine++
		if cmd.Kind == CmdData && len(cmd.IntLiterals) > 0 {
			values := make([]int, 0, len(cmd.IntLiterals))
			for _, expr := range cmd.IntLiterals {
				v, err := x.Eval.evalIntArg(expr)
				if err != nil {
					return 0, err
				}
				values = append(values, v)
			}
			x.Vars.dataValues = values
		}
	}
	value := x.Vars.dataValues[0]
	x.Vars.dataValues = x.Vars.dataValues[1:]
	return value, nil
}

func (x *Executor) execPoke(cmd *Command) error {
	addr, err := x.Eval.evalIntArg(cmd.Addr)
	if err != nil {
		return err
	}
	value, err := x.Eval.evalIntArg(cmd.Value)
	if err != nil {
		return err
	}
	return x.IO.Poke(Addr16(addr), Byte8(value))
}

func (x *Executor) execSys(cmd *Command) error {
	addr, err := x.Eval.evalIntArg(cmd.Addr)
	if err != nil {
		return err
	}
	return x.IO.Sys(Addr16(addr))
}

func (x *Executor) execOpen(cmd *Command) error {
	uart, err := x.Eval.evalIntArg(cmd.Uart)
	if err != nil {
		return err
	}
	bitRate, err := x.Eval.evalIntArg(cmd.BitRate)
	if err != nil {
		return err
	}
	return x.IO.OpenUart(uart, bitRate)
}

func (x *Executor) execLoad(cmd *Command) error {
	uart, err := x.Eval.evalIntArg(cmd.Uart)
	if err != nil {
		return err
	}
	mode, err := x.Eval.evalIntArg(cmd.Mode)
	if err != nil {
		return err
	}
	if mode != 0 {
		return NewError(ErrorParse, "LOAD in binary mode is not supported")
	}
	lines, err := x.IO.LoadText(uart)
	if err != nil {
		return err
	}
	if x.ParseLine == nil {
		return NewError(ErrorIO, "no line parser configured for LOAD")
	}
	x.Reset(true)
	for _, line := range lines {
		parsed, err := x.ParseLine(line)
		if err != nil {
			return err
		}
		if parsed.LineNumber == nil {
			return NewError(ErrorParse, "LOAD: line %q has no line number", line)
		}
		x.Program.Store(parsed)
	}
	return nil
}

func (x *Executor) execSave(cmd *Command) error {
	uart, err := x.Eval.evalIntArg(cmd.Uart)
	if err != nil {
		return err
	}
	lines := make([]string, 0, x.Program.Len())
	for _, c := range x.Program.Lines() {
		lines = append(lines, c.Source)
	}
	return x.IO.SaveText(uart, lines)
}

func (x *Executor) execRun() (Outcome, error) {
	x.Reset(false)
	if x.Program.Len() == 0 {
		return Outcome{Kind: OutcomeHalt}, nil
	}
	return Outcome{Kind: OutcomeJump, Index: 0}, nil
}

func (x *Executor) execList(cmd *Command) error {
	var start, end *int
	if cmd.Start != nil {
		v, err := x.Eval.evalIntArg(cmd.Start)
		if err != nil {
			return err
		}
		start = &v
	}
	if cmd.End != nil {
		v, err := x.Eval.evalIntArg(cmd.End)
		if err != nil {
			return err
		}
		end = &v
	}
	for _, c := range x.Program.Lines() {
		n := *c.LineNumber
		if start != nil && n < *start {
			continue
		}
		if end != nil && n > *end {
			continue
		}
		if err := Print(x.IO, c.Source); err != nil {
			return err
		}
		x.IO.Println("")
	}
	return nil
}

// parseStrictInt parses s the way INPUT converts a typed line into an
// integer variable's value: the whole (trimmed) string must be a valid
// optionally-signed decimal integer, unlike VAL's longest-prefix parse.
func parseStrictInt(s string) (int, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, NewError(ErrorType, "expected an integer, got an empty line")
	}
	i := 0
	neg := false
	if trimmed[0] == '+' || trimmed[0] == '-' {
		neg = trimmed[0] == '-'
		i = 1
	}
	if i >= len(trimmed) {
		return 0, NewError(ErrorType, "invalid integer %q", s)
	}
	n := 0
	for ; i < len(trimmed); i++ {
		c := trimmed[i]
		if c < '0' || c > '9' {
			return 0, NewError(ErrorType, "invalid integer %q", s)
		}
		n = n*10 + int(c-'0')
	}
	if neg {
		n = -n
	}
	return Int16(n), nil
}
