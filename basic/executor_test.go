package basic_test

import (
	"testing"

	"github.com/JonnyWalker/cody-basic-interpreter/basic"
	"github.com/JonnyWalker/cody-basic-interpreter/parser"
	"github.com/JonnyWalker/cody-basic-interpreter/textio"
)

// run loads lines as a program, RUNs it, and returns everything printed.
func run(t *testing.T, lines []string, inputs ...string) *textio.Recorder {
	t.Helper()

	cmds, err := parser.ParseLines(lines)
	if err != nil {
		t.Fatalf("ParseLines: %v", err)
	}

	rec := textio.NewRecorder(inputs...)
	exec := basic.NewExecutor(rec)
	for _, cmd := range cmds {
		exec.Program.Store(cmd)
	}

	runCmd, err := parser.ParseCommand("RUN", false)
	if err != nil {
		t.Fatalf("parsing RUN: %v", err)
	}
	if err := exec.RunCommand(runCmd); err != nil {
		t.Fatalf("RUN: %v", err)
	}
	return rec
}

// runExpectError loads and RUNs lines, returning the Recorder on success
// or nil if RUN failed (the caller is asserting that it should).
func runExpectError(t *testing.T, lines []string) *textio.Recorder {
	t.Helper()

	cmds, err := parser.ParseLines(lines)
	if err != nil {
		t.Fatalf("ParseLines: %v", err)
	}
	rec := textio.NewRecorder()
	exec := basic.NewExecutor(rec)
	for _, cmd := range cmds {
		exec.Program.Store(cmd)
	}
	runCmd, _ := parser.ParseCommand("RUN", false)
	if err := exec.RunCommand(runCmd); err != nil {
		return nil
	}
	return rec
}

func TestEndToEndArithmeticPrint(t *testing.T) {
	rec := run(t, []string{`10 PRINT 3+4`})
	if got, want := rec.Output.String(), "7\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestEndToEndArrayAndScalarSameName(t *testing.T) {
	rec := run(t, []string{
		`10 A(0)=10`,
		`20 A(1)=20`,
		`30 PRINT A+A(1)*3`,
	})
	if got, want := rec.Output.String(), "70\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestEndToEndGoto(t *testing.T) {
	rec := run(t, []string{
		`10 PRINT "A"`,
		`20 GOTO 40`,
		`30 PRINT "B"`,
		`40 PRINT "Z"`,
	})
	if got, want := rec.Output.String(), "A\nZ\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestEndToEndGosubReturn(t *testing.T) {
	rec := run(t, []string{
		`10 PRINT "A"`,
		`20 GOSUB 50`,
		`30 PRINT "C"`,
		`40 END`,
		`50 PRINT "B"`,
		`60 RETURN`,
	})
	if got, want := rec.Output.String(), "A\nB\nC\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestEndToEndForNext(t *testing.T) {
	rec := run(t, []string{
		`10 FOR I=1 TO 5`,
		`20 PRINT I`,
		`30 NEXT`,
	})
	if got, want := rec.Output.String(), "1\n2\n3\n4\n5\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestEndToEndDataReadSentinel(t *testing.T) {
	rec := run(t, []string{
		`10 T=0`,
		`20 C=0`,
		`30 DATA 3,10,12,7,6`,
		`40 DATA 3,15,8,2,-1`,
		`50 READ N`,
		`60 IF N<0 THEN GOTO 100`,
		`70 T=T+N`,
		`80 C=C+1`,
		`90 GOTO 50`,
		`100 PRINT "TOTAL ",T`,
		`110 PRINT "COUNT ",C`,
		`120 PRINT "AVERAGE ",T/C`,
	})
	want := "TOTAL 66\nCOUNT 9\nAVERAGE 7\n"
	if got := rec.Output.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestEndToEndRestoreRereadsData(t *testing.T) {
	rec := run(t, []string{
		`10 DATA 5,6`,
		`20 READ A`,
		`30 RESTORE`,
		`40 READ B`,
		`50 PRINT A+B`,
	})
	if got, want := rec.Output.String(), "10\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestEndToEndInput(t *testing.T) {
	rec := run(t, []string{
		`10 INPUT A`,
		`20 PRINT A*2`,
	}, "21")
	if got, want := rec.Output.String(), "42\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestEndToEndIfThen(t *testing.T) {
	rec := run(t, []string{`10 IF 1<=1 THEN PRINT 13`})
	if got, want := rec.Output.String(), "13\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}

	rec = run(t, []string{`10 IF 2<=1 THEN PRINT 33`})
	if got, want := rec.Output.String(), ""; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestEndToEndBuiltins(t *testing.T) {
	// PRINT concatenates its comma-separated values without any separator
	// (spec.md §4.3); ABS(-10)=10, SQR(10)=3 (integer square root, not a
	// float), MOD(8,5)=3 concatenate to "1033".
	rec := run(t, []string{`10 PRINT ABS(-10), SQR(10), MOD(8,5)`})
	if got, want := rec.Output.String(), "1033\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestRunLeavesStacksEmpty(t *testing.T) {
	cmds, err := parser.ParseLines([]string{
		`10 GOSUB 30`,
		`20 END`,
		`30 FOR I=1 TO 3`,
		`40 NEXT`,
		`50 RETURN`,
	})
	if err != nil {
		t.Fatalf("ParseLines: %v", err)
	}
	rec := textio.NewRecorder()
	exec := basic.NewExecutor(rec)
	for _, cmd := range cmds {
		exec.Program.Store(cmd)
	}
	runCmd, _ := parser.ParseCommand("RUN", false)
	if err := exec.RunCommand(runCmd); err != nil {
		t.Fatalf("RUN: %v", err)
	}
	if got := exec.CallStackLines(); len(got) != 0 {
		t.Errorf("call stack not empty after RUN: %v", got)
	}
	if got := exec.LoopStackDepth(); got != 0 {
		t.Errorf("loop stack depth = %d, want 0", got)
	}
}

func TestGosubReturnResumesAfterCaller(t *testing.T) {
	rec := run(t, []string{
		`10 GOSUB 100`,
		`20 PRINT "DONE"`,
		`30 END`,
		`100 PRINT "SUB"`,
		`110 RETURN`,
	})
	if got, want := rec.Output.String(), "SUB\nDONE\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestGosubInsideIfThenUsesIfLineAsCaller(t *testing.T) {
	rec := run(t, []string{
		`10 IF 1=1 THEN GOSUB 100`,
		`20 PRINT "AFTER"`,
		`30 END`,
		`100 PRINT "SUB"`,
		`110 RETURN`,
	})
	if got, want := rec.Output.String(), "SUB\nAFTER\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestForLoopOverArrayElement(t *testing.T) {
	rec := run(t, []string{
		`10 FOR A(1)=1 TO 3`,
		`20 PRINT A(1)`,
		`30 NEXT`,
	})
	if got, want := rec.Output.String(), "1\n2\n3\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestSaveNewLoadRoundTrip(t *testing.T) {
	rec := textio.NewRecorder()
	exec := basic.NewExecutor(rec)
	exec.ParseLine = func(source string) (*basic.Command, error) {
		return parser.ParseCommand(source, true)
	}

	for _, src := range []string{`10 A=7`, `20 PRINT A`} {
		cmd, err := parser.ParseCommand(src, true)
		if err != nil {
			t.Fatalf("ParseCommand(%q): %v", src, err)
		}
		exec.Program.Store(cmd)
	}

	for _, immediate := range []string{`SAVE 1`, `NEW`, `LOAD 1,0`, `RUN`} {
		cmd, err := parser.ParseCommand(immediate, false)
		if err != nil {
			t.Fatalf("ParseCommand(%q): %v", immediate, err)
		}
		if err := exec.RunCommand(cmd); err != nil {
			t.Fatalf("RunCommand(%q): %v", immediate, err)
		}
	}
	if got, want := rec.Output.String(), "7\n"; got != want {
		t.Errorf("output after SAVE/NEW/LOAD/RUN = %q, want %q", got, want)
	}
}

func TestModeGatingRejectsImmediateGoto(t *testing.T) {
	rec := textio.NewRecorder()
	exec := basic.NewExecutor(rec)
	cmd, err := parser.ParseCommand("GOTO 10", false)
	if err != nil {
		t.Fatalf("ParseCommand: %v", err)
	}
	if err := exec.RunCommand(cmd); err == nil {
		t.Fatal("GOTO typed at the prompt should be rejected")
	}
}

func TestModeGatingRejectsListInsideProgram(t *testing.T) {
	if rec := runExpectError(t, []string{`10 LIST`}); rec != nil {
		t.Fatal("LIST inside a running program should be rejected")
	}
}

func TestCancelInterruptsRun(t *testing.T) {
	rec := textio.NewRecorder()
	exec := basic.NewExecutor(rec)
	cmd, err := parser.ParseCommand("10 GOTO 10", true)
	if err != nil {
		t.Fatalf("ParseCommand: %v", err)
	}
	exec.Program.Store(cmd)

	exec.Cancel.Request()
	runCmd, _ := parser.ParseCommand("RUN", false)
	err = exec.RunCommand(runCmd)
	if err == nil {
		t.Fatal("expected cancellation to interrupt RUN")
	}
	if got := basic.KindOf(err); got != basic.ErrorCancelled {
		t.Errorf("error kind = %v, want ErrorCancelled", got)
	}
	if exec.Cancel.Poll() {
		t.Error("cancel flag should be cleared after being observed")
	}
}

func TestMaxStepsBoundsRunawayProgram(t *testing.T) {
	rec := textio.NewRecorder()
	exec := basic.NewExecutor(rec)
	exec.MaxSteps = 100
	cmd, err := parser.ParseCommand("10 GOTO 10", true)
	if err != nil {
		t.Fatalf("ParseCommand: %v", err)
	}
	exec.Program.Store(cmd)

	runCmd, _ := parser.ParseCommand("RUN", false)
	if err := exec.RunCommand(runCmd); err == nil {
		t.Fatal("expected the step limit to stop an infinite loop")
	}
}

func TestErrorClearsCallAndLoopStacks(t *testing.T) {
	cmds, err := parser.ParseLines([]string{
		`10 GOSUB 30`,
		`20 END`,
		`30 GOTO 999`,
	})
	if err != nil {
		t.Fatalf("ParseLines: %v", err)
	}
	rec := textio.NewRecorder()
	exec := basic.NewExecutor(rec)
	for _, cmd := range cmds {
		exec.Program.Store(cmd)
	}
	runCmd, _ := parser.ParseCommand("RUN", false)
	if err := exec.RunCommand(runCmd); err == nil {
		t.Fatal("GOTO to a missing line should fail the run")
	}
	if got := exec.CallStackLines(); len(got) != 0 {
		t.Errorf("call stack not cleared after error: %v", got)
	}
	if got := exec.LoopStackDepth(); got != 0 {
		t.Errorf("loop stack depth after error = %d, want 0", got)
	}
}

func TestStoredEmptyLineDeletesViaExecutor(t *testing.T) {
	rec := textio.NewRecorder()
	exec := basic.NewExecutor(rec)
	for _, src := range []string{`10 PRINT 1`, `20 PRINT 2`} {
		cmd, err := parser.ParseCommand(src, true)
		if err != nil {
			t.Fatalf("ParseCommand(%q): %v", src, err)
		}
		if err := exec.RunCommand(cmd); err != nil {
			t.Fatalf("RunCommand(%q): %v", src, err)
		}
	}

	del, err := parser.ParseCommand("10", true)
	if err != nil {
		t.Fatalf("ParseCommand: %v", err)
	}
	if err := exec.RunCommand(del); err != nil {
		t.Fatalf("RunCommand(delete): %v", err)
	}

	runCmd, _ := parser.ParseCommand("RUN", false)
	if err := exec.RunCommand(runCmd); err != nil {
		t.Fatalf("RUN: %v", err)
	}
	if got, want := rec.Output.String(), "2\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}
