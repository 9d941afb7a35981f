// Package debugger wraps a *basic.Executor with breakpoints and
// single-step/continue control, the same category of thing the teacher's
// service.DebuggerService and debugger.Debugger are over the ARM VM,
// translated from CPU registers/instructions to BASIC variables/program
// lines. Cody BASIC's own reference implementation has no debugger of its
// own; this package exists because a steppable interpreter is a natural
// consumer of the teacher's domain, and it gives tui/ something to drive.
package debugger

import (
	"io"
	"log"
	"os"
	"strconv"
	"sync"

	"github.com/JonnyWalker/cody-basic-interpreter/basic"
	"github.com/JonnyWalker/cody-basic-interpreter/trace"
)

// debugLog mirrors the teacher's init()-gated diagnostic logger: silent
// unless CODYBASIC_DEBUG is set, in which case it writes to a temp file
// rather than cluttering the TUI's own screen.
var debugLog *log.Logger

func init() {
	if os.Getenv("CODYBASIC_DEBUG") == "" {
		debugLog = log.New(io.Discard, "", 0)
		return
	}
	f, err := os.OpenFile(os.TempDir()+"/codybasic-debug.log", os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		debugLog = log.New(os.Stderr, "DEBUG: ", log.Ltime|log.Lmicroseconds)
		return
	}
	debugLog = log.New(f, "DEBUG: ", log.Ltime|log.Lmicroseconds)
}

// Debugger wraps an *basic.Executor, lets a caller set line breakpoints,
// and drives execution one program line at a time (StepLine) or until the
// next breakpoint/halt (Continue). Exactly one mutex protects every field
// here, following the service package's documented lock-ordering rule:
// callers (tui) never reach directly into the Executor while holding
// anything of their own.
type Debugger struct {
	mu    sync.RWMutex
	Exec  *basic.Executor
	Break *BreakpointManager
	Trace *trace.Recorder

	current basic.Outcome
	started bool
}

// New wraps exec. trc may be nil; when non-nil and Enabled, every stepped
// line is recorded.
func New(exec *basic.Executor, trc *trace.Recorder) *Debugger {
	return &Debugger{
		Exec:  exec,
		Break: NewBreakpointManager(),
		Trace: trc,
	}
}

// Start begins a RUN, as typing RUN at the REPL would, but leaves
// execution paused before the first line so StepLine/Continue control the
// pace instead of running to completion immediately.
func (d *Debugger) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.Trace != nil {
		d.Trace.Start()
	}
	out, err := d.Exec.Dispatch(&basic.Command{Kind: basic.CmdRun})
	if err != nil {
		return err
	}
	d.Exec.Running = out.Kind == basic.OutcomeJump
	d.current = out
	d.started = true
	debugLog.Printf("Start: outcome=%+v running=%v", out, d.Exec.Running)
	return nil
}

// Halted reports whether the last step/continue ended the program.
func (d *Debugger) Halted() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return !d.started || d.current.Kind != basic.OutcomeJump
}

// CurrentLine returns the line number about to execute, or 0 if halted.
func (d *Debugger) CurrentLine() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.current.Kind != basic.OutcomeJump {
		return 0
	}
	cmd := d.Exec.Program.At(d.current.Index)
	if cmd.LineNumber == nil {
		return 0
	}
	return *cmd.LineNumber
}

// StepLine executes exactly one program line and reports whether the
// program halted as a result.
func (d *Debugger) StepLine() (halted bool, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stepLocked()
}

func (d *Debugger) stepLocked() (halted bool, err error) {
	if d.current.Kind != basic.OutcomeJump {
		d.Exec.Running = false
		return true, nil
	}
	cmd := d.Exec.Program.At(d.current.Index)
	if cmd.LineNumber != nil && d.Trace != nil {
		d.Trace.RecordLine(*cmd.LineNumber)
	}
	out, err := d.Exec.Dispatch(cmd)
	if err != nil {
		d.Exec.Running = false
		return false, err
	}
	d.current = out
	if out.Kind != basic.OutcomeJump {
		d.Exec.Running = false
		return true, nil
	}
	return false, nil
}

// Continue steps repeatedly until the program halts, a step returns an
// error, or the about-to-execute line has an enabled breakpoint. The line
// it starts on always executes first, so continuing from a breakpoint
// moves past it. It reports whether the program halted (as opposed to
// stopping at a breakpoint).
func (d *Debugger) Continue() (halted bool, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for first := true; ; first = false {
		if !first && d.current.Kind == basic.OutcomeJump {
			cmd := d.Exec.Program.At(d.current.Index)
			if cmd.LineNumber != nil && d.Break.Hit(*cmd.LineNumber) {
				debugLog.Printf("Continue: stopped at breakpoint line %d", *cmd.LineNumber)
				return false, nil
			}
		}
		halted, err = d.stepLocked()
		if err != nil || halted {
			return halted, err
		}
	}
}

// ListingAround returns up to context lines of source before and after
// the current line, for a TUI source pane.
func (d *Debugger) ListingAround(context int) []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	lines := d.Exec.Program.Lines()
	idx := d.current.Index
	if d.current.Kind != basic.OutcomeJump || idx >= len(lines) {
		idx = 0
	}
	start := idx - context
	if start < 0 {
		start = 0
	}
	end := idx + context + 1
	if end > len(lines) {
		end = len(lines)
	}

	out := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		marker := "  "
		if i == idx && d.current.Kind == basic.OutcomeJump {
			marker = "->"
		}
		out = append(out, marker+" "+lines[i].Source)
	}
	return out
}

// VariableSnapshot renders every populated integer and string variable as
// "NAME(index)=value" / "NAME$=value" lines, sorted, for a TUI watch pane.
// Grounded on the teacher's service.RegisterState, which does the same
// job for CPU registers.
func (d *Debugger) VariableSnapshot() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.Exec.Vars.Snapshot()
}

// CallStackView renders the GOSUB call stack, outermost first.
func (d *Debugger) CallStackView() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	lines := d.Exec.CallStackLines()
	var out []string
	for _, l := range lines {
		out = append(out, "GOSUB from line "+strconv.Itoa(l))
	}
	return out
}
