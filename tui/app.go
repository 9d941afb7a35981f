// Package tui provides a console debugger front end over a running Cody
// BASIC program. Grounded structurally on the teacher's debugger.TUI
// (tview.Flex layout of source/register/output panes plus a command
// input, F-key shortcuts, a global InputCapture), translated from ARM
// registers/memory/disassembly to BASIC variables/program listing/call
// stack. This is explicitly not the out-of-scope graphical emulator: no
// framebuffer, no palette, no sprites, just a debugger shell over the
// interpreter.
package tui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/JonnyWalker/cody-basic-interpreter/debugger"
)

// App is the tview application wiring for the console debugger.
type App struct {
	Debugger *debugger.Debugger

	app   *tview.Application
	pages *tview.Pages

	sourceView    *tview.TextView
	variablesView *tview.TextView
	stackView     *tview.TextView
	outputView    *tview.TextView
	commandInput  *tview.InputField
}

// New builds an App wired to dbg. Call Run to take over the terminal.
func New(dbg *debugger.Debugger) *App {
	a := &App{
		Debugger: dbg,
		app:      tview.NewApplication(),
	}
	a.initViews()
	a.buildLayout()
	a.setupKeyBindings()
	return a
}

func (a *App) initViews() {
	a.sourceView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(false)
	a.sourceView.SetBorder(true).SetTitle(" Program ")

	a.variablesView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	a.variablesView.SetBorder(true).SetTitle(" Variables ")

	a.stackView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	a.stackView.SetBorder(true).SetTitle(" Call Stack ")

	a.outputView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(true)
	a.outputView.SetBorder(true).SetTitle(" Output ")

	a.commandInput = tview.NewInputField().SetLabel("> ").SetFieldWidth(0)
	a.commandInput.SetBorder(true).SetTitle(" Command (step/continue/break N/quit) ")
	a.commandInput.SetDoneFunc(a.handleCommand)
}

func (a *App) buildLayout() {
	rightPanel := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.variablesView, 0, 2, false).
		AddItem(a.stackView, 0, 1, false)

	mainContent := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(a.sourceView, 0, 2, false).
		AddItem(rightPanel, 0, 1, false)

	layout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(mainContent, 0, 4, false).
		AddItem(a.outputView, 8, 0, false).
		AddItem(a.commandInput, 3, 0, true)

	a.pages = tview.NewPages().AddPage("main", layout, true, true)
}

func (a *App) setupKeyBindings() {
	a.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyF5:
			a.runCommand("continue")
			return nil
		case tcell.KeyF11:
			a.runCommand("step")
			return nil
		case tcell.KeyCtrlC:
			a.app.Stop()
			return nil
		case tcell.KeyCtrlL:
			a.refresh()
			return nil
		}
		return event
	})
}

func (a *App) handleCommand(key tcell.Key) {
	if key != tcell.KeyEnter {
		return
	}
	cmd := a.commandInput.GetText()
	a.commandInput.SetText("")
	if cmd != "" {
		a.runCommand(cmd)
	}
}

// runCommand dispatches one debugger console command: step, continue, or
// "break N" to toggle a breakpoint at line N.
func (a *App) runCommand(cmd string) {
	fields := strings.Fields(strings.TrimSpace(cmd))
	if len(fields) == 0 {
		return
	}

	switch strings.ToLower(fields[0]) {
	case "step", "s":
		halted, err := a.Debugger.StepLine()
		a.report(halted, err)
	case "continue", "c":
		halted, err := a.Debugger.Continue()
		a.report(halted, err)
	case "break", "b":
		if len(fields) < 2 {
			a.writeOutput("[red]usage: break LINE[white]\n")
			break
		}
		var line int
		if _, err := fmt.Sscanf(fields[1], "%d", &line); err != nil {
			a.writeOutput(fmt.Sprintf("[red]invalid line %q[white]\n", fields[1]))
			break
		}
		bp := a.Debugger.Break.Toggle(line)
		state := "enabled"
		if !bp.Enabled {
			state = "disabled"
		}
		a.writeOutput(fmt.Sprintf("breakpoint at line %d %s\n", line, state))
	case "quit", "q":
		a.app.Stop()
		return
	default:
		a.writeOutput(fmt.Sprintf("[red]unknown command %q[white]\n", fields[0]))
	}
	a.refresh()
}

func (a *App) report(halted bool, err error) {
	if err != nil {
		a.writeOutput(fmt.Sprintf("[red]error:[white] %v\n", err))
		return
	}
	if halted {
		a.writeOutput("program halted\n")
	}
}

func (a *App) writeOutput(text string) {
	fmt.Fprint(a.outputView, text)
	a.outputView.ScrollToEnd()
}

func (a *App) refresh() {
	a.sourceView.Clear()
	fmt.Fprint(a.sourceView, strings.Join(a.Debugger.ListingAround(10), "\n"))

	a.variablesView.Clear()
	vars := a.Debugger.VariableSnapshot()
	if len(vars) == 0 {
		fmt.Fprint(a.variablesView, "[gray](no variables set)[white]")
	} else {
		fmt.Fprint(a.variablesView, strings.Join(vars, "\n"))
	}

	a.stackView.Clear()
	stack := a.Debugger.CallStackView()
	if len(stack) == 0 {
		fmt.Fprint(a.stackView, "[gray](empty)[white]")
	} else {
		fmt.Fprint(a.stackView, strings.Join(stack, "\n"))
	}

	a.app.Draw()
}

// Run starts the BASIC program (as RUN would) and takes over the
// terminal until the user quits.
func (a *App) Run() error {
	if err := a.Debugger.Start(); err != nil {
		return err
	}
	a.refresh()
	return a.app.SetRoot(a.pages, true).SetFocus(a.commandInput).Run()
}
