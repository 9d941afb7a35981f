// Command codybasic is the Cody BASIC interpreter's command-line entry
// point: a line-oriented REPL by default, or an optional tcell/tview
// console debugger with -tui. Grounded on the teacher's root main.go
// (flag-based options, a printHelp usage block, conditional trace-file
// wiring), trimmed to the concerns this interpreter actually has.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/JonnyWalker/cody-basic-interpreter/basic"
	"github.com/JonnyWalker/cody-basic-interpreter/config"
	"github.com/JonnyWalker/cody-basic-interpreter/debugger"
	"github.com/JonnyWalker/cody-basic-interpreter/parser"
	"github.com/JonnyWalker/cody-basic-interpreter/textio"
	"github.com/JonnyWalker/cody-basic-interpreter/trace"
	"github.com/JonnyWalker/cody-basic-interpreter/tui"
)

var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version information")
		showHelp    = flag.Bool("help", false, "Show help information")
		tuiMode     = flag.Bool("tui", false, "Start the TUI (tcell/tview) console debugger")
		configPath  = flag.String("config", "", "Config file path (default: per-OS config dir)")
		verbose     = flag.Bool("verbose", false, "Verbose output")
	)
	flag.Usage = printHelp
	flag.Parse()

	if *showHelp {
		printHelp()
		return
	}
	if *showVersion {
		fmt.Printf("codybasic %s (%s)\n", Version, Commit)
		return
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "codybasic: config: %v\n", err)
		os.Exit(1)
	}
	if *verbose {
		fmt.Fprintf(os.Stderr, "codybasic: loaded config, max-steps=%d\n", cfg.Execution.MaxSteps)
	}

	// No uart transports are wired by default; OPEN then reports an I/O
	// error, matching NewConsole's documented nil-transport behavior.
	io := textio.NewConsole(os.Stdout, os.Stdin, nil, nil)

	exec := basic.NewExecutor(io)
	exec.MaxSteps = cfg.Execution.MaxSteps
	exec.ParseLine = func(source string) (*basic.Command, error) {
		return parser.ParseCommand(source, true)
	}

	var trc *trace.Recorder
	if cfg.Trace.Enabled {
		trc = trace.NewRecorder(cfg.Trace.MaxEntries)
		trc.Enabled = true
		trc.Start()
		exec.OnLine = trc.RecordLine
	}

	args := flag.Args()
	if len(args) > 0 {
		if err := loadProgramFile(exec, args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "codybasic: %v\n", err)
			os.Exit(1)
		}
	}

	if *tuiMode {
		dbg := debugger.New(exec, trc)
		app := tui.New(dbg)
		if err := app.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "codybasic: tui: %v\n", err)
			os.Exit(1)
		}
		flushTrace(trc, cfg)
		return
	}

	runREPL(exec, cfg)
	flushTrace(trc, cfg)
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

// loadProgramFile parses a BASIC source file line by line, storing each
// into the program, as LOAD over the uart channel does but reading
// directly from disk instead.
func loadProgramFile(exec *basic.Executor, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		cmd, err := parser.ParseCommand(line, true)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if cmd.LineNumber == nil {
			return fmt.Errorf("%s: line %q has no line number", path, line)
		}
		exec.Program.Store(cmd)
	}
	return nil
}

// runREPL is the plain, non-TUI command loop: read a line, parse it, and
// either store it (when it carries a line number) or dispatch it
// immediately (a direct command like RUN, PRINT, or LIST).
func runREPL(exec *basic.Executor, cfg *config.Config) {
	reader := bufio.NewScanner(os.Stdin)
	reader.Buffer(make([]byte, 0, 64*1024), 1<<20)

	if cfg.REPL.ReadyBanner != "" {
		fmt.Println(cfg.REPL.ReadyBanner)
	}
	for {
		fmt.Print(cfg.REPL.Prompt)
		if !reader.Scan() {
			break
		}
		line := reader.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		hasLineNumber := len(line) > 0 && line[0] >= '0' && line[0] <= '9'
		cmd, err := parser.ParseCommand(line, hasLineNumber)
		if err != nil {
			fmt.Fprintf(os.Stderr, "?%v\n", err)
			continue
		}

		// RunCommand itself stores a line-numbered command rather than
		// executing it immediately when the executor is idle (basic's
		// step does this once, so the REPL doesn't duplicate the check).
		if err := exec.RunCommand(cmd); err != nil {
			if basic.KindOf(err) == basic.ErrorCancelled {
				fmt.Println("BREAK")
				continue
			}
			fmt.Fprintf(os.Stderr, "?%v\n", err)
		}
	}
}

func flushTrace(trc *trace.Recorder, cfg *config.Config) {
	if trc == nil || cfg.Trace.OutputFile == "" {
		return
	}
	f, err := os.Create(cfg.Trace.OutputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "codybasic: trace: %v\n", err)
		return
	}
	defer f.Close()
	if err := trc.Flush(f); err != nil {
		fmt.Fprintf(os.Stderr, "codybasic: trace: %v\n", err)
	}
}

func printHelp() {
	fmt.Printf(`Cody BASIC %s

Usage: codybasic [options] [file.bas]

Options:
  -help            Show this help message
  -version         Show version information
  -tui             Start the TUI (tcell/tview) console debugger
  -config PATH     Config file path (default: per-OS config dir)
  -verbose         Verbose output

If file.bas is given, it is loaded as a numbered program before the REPL
(or the TUI, with -tui) starts; RUN to execute it. Without a file, the
REPL starts with an empty program.

Examples:
  codybasic
  codybasic game.bas
  codybasic -tui game.bas
`, Version)
}
