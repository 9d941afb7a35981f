// Package textio provides the two basic.IO implementations a session
// actually runs with: Console, backed by the process's stdin/stdout, and
// Recorder, an in-memory implementation for tests. Grounded on
// cody_interpreter.py's StdIO/TestIO split.
package textio

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/JonnyWalker/cody-basic-interpreter/basic"
	"github.com/JonnyWalker/cody-basic-interpreter/memio"
)

// Console drives basic.IO against the process's standard streams, with an
// optional pair of uart transports for OPEN/CLOSE/LOAD/SAVE.
type Console struct {
	out io.Writer
	in  *bufio.Reader

	Memory *memio.Memory

	uart1, uart2 io.ReadWriteCloser
	active       *memio.Channel

	start time.Time
}

// NewConsole returns a Console over the given streams. Passing nil uart
// transports is fine; OPEN then fails with an I/O error, the same way the
// original's StdIO raises NotImplementedError when asked to touch a uart.
func NewConsole(out io.Writer, in io.Reader, uart1, uart2 io.ReadWriteCloser) *Console {
	return &Console{
		out:    out,
		in:     bufio.NewReader(in),
		Memory: memio.NewMemory(),
		uart1:  uart1,
		uart2:  uart2,
		start:  time.Now(),
	}
}

func (c *Console) PrintChar(ch byte) {
	if c.active != nil {
		return
	}
	fmt.Fprintf(c.out, "%c", ch)
}

func (c *Console) Println(s string) {
	if c.active != nil {
		return
	}
	fmt.Fprintln(c.out, s)
}

func (c *Console) Input(prompt string) (string, error) {
	fmt.Fprint(c.out, prompt)
	line, err := c.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", basic.NewError(basic.ErrorIO, "input: %v", err)
	}
	line = strings.TrimRight(line, "\r\n")
	return basic.CheckString(line)
}

func (c *Console) PromptChar() string { return "?" }

func (c *Console) ClearScreen() error {
	fmt.Fprint(c.out, "\x1b[2J\x1b[H")
	return nil
}

func (c *Console) ReverseField() error {
	fmt.Fprint(c.out, "\x1b[7m")
	return nil
}

func (c *Console) SetBackgroundColor(n int) error {
	fmt.Fprintf(c.out, "\x1b[48;5;%dm", n)
	return nil
}

func (c *Console) SetForegroundColor(n int) error {
	fmt.Fprintf(c.out, "\x1b[38;5;%dm", n)
	return nil
}

func (c *Console) PrintAt(col, row int) error {
	fmt.Fprintf(c.out, "\x1b[%d;%dH", row+1, col+1)
	return nil
}

func (c *Console) PrintTab(col int) error {
	fmt.Fprintf(c.out, "\x1b[%dG", col+1)
	return nil
}

func (c *Console) OpenUart(uart, bitRate int) error {
	if c.active != nil {
		return basic.NewError(basic.ErrorIO, "a uart channel is already open")
	}
	if bitRate < 1 || bitRate > 15 {
		return basic.NewError(basic.ErrorRange, "bit rate %d out of range 1..15", bitRate)
	}
	var rw io.ReadWriteCloser
	switch uart {
	case 1:
		rw = c.uart1
	case 2:
		rw = c.uart2
	default:
		return basic.NewError(basic.ErrorRange, "no such uart %d", uart)
	}
	if rw == nil {
		return basic.NewError(basic.ErrorIO, "uart %d is not configured", uart)
	}
	c.active = memio.NewChannel(rw, uart, bitRate)
	return nil
}

func (c *Console) CloseUart() error {
	if c.active == nil {
		return nil
	}
	err := c.active.Close()
	c.active = nil
	if err != nil {
		return basic.NewError(basic.ErrorIO, "close uart: %v", err)
	}
	return nil
}

func (c *Console) LoadText(uart int) ([]string, error) {
	if err := c.OpenUart(uart, 15); err != nil {
		return nil, err
	}
	defer c.CloseUart()

	var lines []string
	for {
		line, err := c.active.ReadLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, basic.NewError(basic.ErrorIO, "load: %v", err)
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func (c *Console) SaveText(uart int, lines []string) error {
	if err := c.OpenUart(uart, 15); err != nil {
		return err
	}
	defer c.CloseUart()

	for _, line := range lines {
		if err := c.active.WriteLine(line); err != nil {
			return basic.NewError(basic.ErrorIO, "save: %v", err)
		}
	}
	return nil
}

func (c *Console) Peek(addr int) (int, error) {
	return int(c.Memory.ReadByte(addr)), nil
}

func (c *Console) Poke(addr, value int) error {
	c.Memory.WriteByte(addr, byte(value))
	return nil
}

func (c *Console) Sys(addr int) error {
	return c.Memory.Sys(addr)
}

func (c *Console) GetTime() int {
	return int(time.Since(c.start) / (time.Second / 60))
}
