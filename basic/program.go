package basic

import "sort"

// Program is the sorted line-number -> Command store described in
// spec.md §4.4. It replaces the original interpreter's linear
// find_line_number scan (cody_interpreter.py) with a binary search, per
// spec.md §9's explicit recommendation.
type Program struct {
	lines []*Command // sorted ascending by *LineNumber
}

// NewProgram returns an empty program store.
func NewProgram() *Program {
	return &Program{}
}

// Len returns the number of stored lines.
func (p *Program) Len() int { return len(p.lines) }

// At returns the command stored at sorted position i.
func (p *Program) At(i int) *Command { return p.lines[i] }

// Clear empties the program store.
func (p *Program) Clear() { p.lines = nil }

// search returns the index of the first line with LineNumber >= n.
func (p *Program) search(n int) int {
	return sort.Search(len(p.lines), func(i int) bool {
		return *p.lines[i].LineNumber >= n
	})
}

// IndexOf returns the sorted-store index of the command stored at line
// number n, or (-1, false) if no such line exists.
func (p *Program) IndexOf(n int) (int, bool) {
	i := p.search(n)
	if i < len(p.lines) && *p.lines[i].LineNumber == n {
		return i, true
	}
	return -1, false
}

// FirstGreaterThan returns the sorted-store index of the first line with
// line number strictly greater than n, or (-1, false) if no such line
// exists (past the end of the program, or used as the NEXT/RETURN
// continuation target).
func (p *Program) FirstGreaterThan(n int) (int, bool) {
	i := p.search(n + 1)
	if i < len(p.lines) {
		return i, true
	}
	return -1, false
}

// Store inserts or overwrites the line at command.LineNumber, or deletes it
// if command.Kind is CmdEmpty. Matches cody_interpreter.py's load_command.
func (p *Program) Store(command *Command) {
	if command.LineNumber == nil {
		panic("basic: Store requires a command with a line number")
	}
	n := *command.LineNumber
	i := p.search(n)
	exists := i < len(p.lines) && *p.lines[i].LineNumber == n

	if command.Kind == CmdEmpty {
		if exists {
			p.lines = append(p.lines[:i], p.lines[i+1:]...)
		}
		return
	}

	if exists {
		p.lines[i] = command
		return
	}

	p.lines = append(p.lines, nil)
	copy(p.lines[i+1:], p.lines[i:])
	p.lines[i] = command
}

// Smallest returns the index of the first stored line, or (-1, false) if
// the program store is empty.
func (p *Program) Smallest() (int, bool) {
	if len(p.lines) == 0 {
		return -1, false
	}
	return 0, true
}

// Lines returns the stored commands in ascending line-number order. The
// returned slice must not be mutated by the caller.
func (p *Program) Lines() []*Command { return p.lines }
