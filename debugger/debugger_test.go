package debugger_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JonnyWalker/cody-basic-interpreter/basic"
	"github.com/JonnyWalker/cody-basic-interpreter/debugger"
	"github.com/JonnyWalker/cody-basic-interpreter/parser"
	"github.com/JonnyWalker/cody-basic-interpreter/textio"
	"github.com/JonnyWalker/cody-basic-interpreter/trace"
)

func newDebugger(t *testing.T, lines []string) (*debugger.Debugger, *textio.Recorder) {
	t.Helper()

	cmds, err := parser.ParseLines(lines)
	require.NoError(t, err)

	rec := textio.NewRecorder()
	exec := basic.NewExecutor(rec)
	for _, cmd := range cmds {
		exec.Program.Store(cmd)
	}

	trc := trace.NewRecorder(100)
	trc.Enabled = true
	return debugger.New(exec, trc), rec
}

func TestDebuggerStepLineAdvancesOneLineAtATime(t *testing.T) {
	dbg, rec := newDebugger(t, []string{
		`10 PRINT "A"`,
		`20 PRINT "B"`,
		`30 PRINT "C"`,
	})
	require.NoError(t, dbg.Start())

	halted, err := dbg.StepLine()
	require.NoError(t, err)
	require.False(t, halted)
	require.Equal(t, "A\n", rec.Output.String())

	halted, err = dbg.StepLine()
	require.NoError(t, err)
	require.False(t, halted)
	require.Equal(t, "A\nB\n", rec.Output.String())

	halted, err = dbg.StepLine()
	require.NoError(t, err)
	require.True(t, halted)
	require.Equal(t, "A\nB\nC\n", rec.Output.String())
}

func TestDebuggerContinueStopsAtBreakpoint(t *testing.T) {
	dbg, rec := newDebugger(t, []string{
		`10 PRINT "A"`,
		`20 PRINT "B"`,
		`30 PRINT "C"`,
	})
	require.NoError(t, dbg.Start())
	dbg.Break.Add(20)

	halted, err := dbg.Continue()
	require.NoError(t, err)
	require.False(t, halted, "should stop at the breakpoint, not run to completion")
	require.Equal(t, "A\n", rec.Output.String())
	require.Equal(t, 20, dbg.CurrentLine())

	halted, err = dbg.Continue()
	require.NoError(t, err)
	require.True(t, halted)
	require.Equal(t, "A\nB\nC\n", rec.Output.String())
}

func TestDebuggerBreakpointHitCountIncrements(t *testing.T) {
	dbg, _ := newDebugger(t, []string{
		`10 FOR I=1 TO 3`,
		`20 PRINT I`,
		`30 NEXT`,
	})
	require.NoError(t, dbg.Start())
	bp := dbg.Break.Add(20)

	for !dbg.Halted() {
		if _, err := dbg.StepLine(); err != nil {
			require.NoError(t, err)
		}
		if dbg.CurrentLine() == 20 {
			dbg.Break.Hit(20)
		}
	}
	require.GreaterOrEqual(t, bp.HitCount, 1)
}

func TestDebuggerVariableSnapshotReflectsAssignments(t *testing.T) {
	dbg, _ := newDebugger(t, []string{
		`10 A=42`,
		`20 B$="HI"`,
	})
	require.NoError(t, dbg.Start())
	_, err := dbg.Continue()
	require.NoError(t, err)

	snap := dbg.VariableSnapshot()
	require.Contains(t, snap, `A(0)=42`)
	require.Contains(t, snap, `B$="HI"`)
}

func TestDebuggerCallStackViewDuringGosub(t *testing.T) {
	dbg, _ := newDebugger(t, []string{
		`10 GOSUB 100`,
		`20 END`,
		`100 PRINT "X"`,
		`110 RETURN`,
	})
	require.NoError(t, dbg.Start())

	// Step until inside the subroutine, where the call stack is non-empty.
	for dbg.CurrentLine() != 100 && !dbg.Halted() {
		_, err := dbg.StepLine()
		require.NoError(t, err)
	}
	require.NotEmpty(t, dbg.CallStackView())
}
