package basic

// IO is the external collaborator contract from spec.md §6: the abstract
// surface the executor calls into for print/input/peek/poke/sys/time/uart.
// The interpreter core never touches a screen, keyboard, or clock
// directly — every side effect not representable as a variable write goes
// through this interface, so the same Executor runs against a console, a
// test recorder, or (outside this repo's scope) a graphical emulator.
type IO interface {
	// PrintChar emits one CODSCII code point (0..255) to the current sink.
	// Callers should generally use Print rather than PrintChar directly;
	// Print is the one that interprets the metacode range.
	PrintChar(c byte)

	// Println emits s followed by a line terminator.
	Println(s string)

	// Input performs a blocking read of one line, prompting with prompt.
	// The returned string is at most 255 bytes.
	Input(prompt string) (string, error)

	// PromptChar returns the character INPUT prefixes its prompt with
	// ("?" for the console implementation).
	PromptChar() string

	// ClearScreen, ReverseField, SetBackgroundColor, SetForegroundColor,
	// PrintAt, and PrintTab are optional screen controls; an
	// implementation that cannot support them (e.g. while diverted to a
	// uart) returns an error rather than panicking.
	ClearScreen() error
	ReverseField() error
	SetBackgroundColor(c int) error
	SetForegroundColor(c int) error
	PrintAt(col, row int) error
	PrintTab(col int) error

	// OpenUart switches the output/input sink to serial channel uart (1
	// or 2) at the given bit rate (1..15). CloseUart restores the
	// previous sink. Only one uart may be open at a time.
	OpenUart(uart, bitRate int) error
	CloseUart() error

	// LoadText and SaveText drive a uart channel in text (line-oriented)
	// mode, as LOAD/SAVE require.
	LoadText(uart int) ([]string, error)
	SaveText(uart int, lines []string) error

	// Peek, Poke, and Sys are the memory-mapped side channel. addr is
	// already masked to unsigned 16-bit and value (for Poke) to unsigned
	// 8-bit by the executor before the call.
	Peek(addr int) (int, error)
	Poke(addr, value int) error
	Sys(addr int) error

	// GetTime returns the current jiffy count (1/60s units), not yet
	// wrapped to 16 bits; the evaluator applies Int16 to the result.
	GetTime() int
}

// Print emits value to io, interpreting the CODSCII metacode range exactly
// as cody_interpreter.py's IO.print does: 10 is a newline, 222 clears the
// screen, 223 reverses the field, 224..239 set the background color,
// 240..255 set the foreground color, and everything else is a printable
// character forwarded to PrintChar.
func Print(io IO, value string) error {
	for i := 0; i < len(value); i++ {
		n := value[i]
		switch {
		case n == 10:
			io.Println("")
		case n == 222:
			if err := io.ClearScreen(); err != nil {
				return err
			}
		case n == 223:
			if err := io.ReverseField(); err != nil {
				return err
			}
		case n >= 240:
			if err := io.SetForegroundColor(int(n) - 240); err != nil {
				return err
			}
		case n >= 224:
			if err := io.SetBackgroundColor(int(n) - 224); err != nil {
				return err
			}
		default:
			io.PrintChar(n)
		}
	}
	return nil
}
