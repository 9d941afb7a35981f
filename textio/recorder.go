package textio

import (
	"fmt"
	"io"
	"strings"

	"github.com/JonnyWalker/cody-basic-interpreter/basic"
	"github.com/JonnyWalker/cody-basic-interpreter/memio"
)

// Recorder is an in-memory basic.IO for tests: INPUT draws from a
// preloaded queue of lines, every PRINT/PRINTLN appends to an output log,
// and uart traffic is captured per channel rather than touching a real
// transport. Grounded on cody_interpreter.py's TestIO.
type Recorder struct {
	Inputs []string // consumed in order by Input

	Output     strings.Builder
	ScreenLog  []string // one entry per ClearScreen/color/reverse-field/AT/TAB call
	inputIndex int

	Memory *memio.Memory

	uartOutputs map[int][]string
	activeUart  int
	jiffies     int
}

// NewRecorder returns a Recorder preloaded with the given INPUT responses.
func NewRecorder(inputs ...string) *Recorder {
	return &Recorder{
		Inputs:      inputs,
		Memory:      memio.NewMemory(),
		uartOutputs: make(map[int][]string),
	}
}

func (r *Recorder) PrintChar(c byte) {
	if r.activeUart != 0 {
		return
	}
	r.Output.WriteByte(c)
}

func (r *Recorder) Println(s string) {
	if r.activeUart != 0 {
		r.uartOutputs[r.activeUart] = append(r.uartOutputs[r.activeUart], s)
		return
	}
	r.Output.WriteString(s)
	r.Output.WriteByte('\n')
}

func (r *Recorder) Input(prompt string) (string, error) {
	if r.inputIndex >= len(r.Inputs) {
		return "", io.EOF
	}
	line := r.Inputs[r.inputIndex]
	r.inputIndex++
	return basic.CheckString(line)
}

func (r *Recorder) PromptChar() string { return "?" }

func (r *Recorder) ClearScreen() error {
	r.ScreenLog = append(r.ScreenLog, "CLEAR")
	return nil
}

func (r *Recorder) ReverseField() error {
	r.ScreenLog = append(r.ScreenLog, "REVERSE")
	return nil
}

func (r *Recorder) SetBackgroundColor(c int) error {
	r.ScreenLog = append(r.ScreenLog, fmt.Sprintf("BG %d", c))
	return nil
}

func (r *Recorder) SetForegroundColor(c int) error {
	r.ScreenLog = append(r.ScreenLog, fmt.Sprintf("FG %d", c))
	return nil
}

func (r *Recorder) PrintAt(col, row int) error {
	r.ScreenLog = append(r.ScreenLog, fmt.Sprintf("AT %d,%d", col, row))
	return nil
}

func (r *Recorder) PrintTab(col int) error {
	r.ScreenLog = append(r.ScreenLog, fmt.Sprintf("TAB %d", col))
	return nil
}

func (r *Recorder) OpenUart(uart, bitRate int) error {
	if r.activeUart != 0 {
		return basic.NewError(basic.ErrorIO, "a uart channel is already open")
	}
	if uart != 1 && uart != 2 {
		return basic.NewError(basic.ErrorRange, "no such uart %d", uart)
	}
	if bitRate < 1 || bitRate > 15 {
		return basic.NewError(basic.ErrorRange, "bit rate %d out of range 1..15", bitRate)
	}
	r.activeUart = uart
	return nil
}

func (r *Recorder) CloseUart() error {
	r.activeUart = 0
	return nil
}

// LoadText returns the lines previously recorded for uart via SaveText,
// so a SAVE/LOAD pair round-trips through the same in-memory channel.
func (r *Recorder) LoadText(uart int) ([]string, error) {
	return r.uartOutputs[uart], nil
}

func (r *Recorder) SaveText(uart int, lines []string) error {
	r.uartOutputs[uart] = append([]string(nil), lines...)
	return nil
}

func (r *Recorder) Peek(addr int) (int, error) {
	return int(r.Memory.ReadByte(addr)), nil
}

func (r *Recorder) Poke(addr, value int) error {
	r.Memory.WriteByte(addr, byte(value))
	return nil
}

func (r *Recorder) Sys(addr int) error {
	return r.Memory.Sys(addr)
}

// GetTime returns a counter that advances by one jiffy per call, so tests
// exercising TI get a deterministic, monotonically increasing sequence
// instead of wall-clock time.
func (r *Recorder) GetTime() int {
	r.jiffies++
	return r.jiffies
}
