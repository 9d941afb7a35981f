// Package trace records an optional per-line execution trace of a running
// Cody BASIC program, grounded on the teacher's vm.ExecutionTrace /
// vm.PerformanceStatistics: an enable flag, a bounded in-memory entry log,
// and a flush-to-writer step invoked once when the session ends.
package trace

import (
	"fmt"
	"io"
	"time"
)

// Entry is one executed program line.
type Entry struct {
	Sequence uint64        // position of this entry in the trace, 1-based
	Line     int           // the BASIC line number that executed
	Elapsed  time.Duration // time since the trace started
}

// Recorder accumulates Entry values as the executor's run loop (through
// Executor.OnLine) or a debugger step loop runs lines, up to MaxEntries,
// and can flush them to a writer
// on request. Disabled recorders (Enabled == false) record nothing, so a
// caller can always hold one and call RecordLine unconditionally.
type Recorder struct {
	Enabled    bool
	MaxEntries int

	entries   []Entry
	startTime time.Time
	seq       uint64
}

// NewRecorder returns a disabled Recorder with the given entry cap. Set
// Enabled to true (config.Trace.Enabled wires this) before Start.
func NewRecorder(maxEntries int) *Recorder {
	return &Recorder{MaxEntries: maxEntries}
}

// Start resets the trace and begins timing from now.
func (r *Recorder) Start() {
	r.entries = r.entries[:0]
	r.seq = 0
	r.startTime = time.Now()
}

// RecordLine appends one entry for the given BASIC line number, unless the
// recorder is disabled or MaxEntries has been reached.
func (r *Recorder) RecordLine(line int) {
	if !r.Enabled {
		return
	}
	if r.MaxEntries > 0 && len(r.entries) >= r.MaxEntries {
		return
	}
	r.seq++
	r.entries = append(r.entries, Entry{
		Sequence: r.seq,
		Line:     line,
		Elapsed:  time.Since(r.startTime),
	})
}

// Entries returns the recorded entries in execution order.
func (r *Recorder) Entries() []Entry {
	return r.entries
}

// Flush writes every recorded entry to w, one per line, as
// "<sequence>\t<line>\t<elapsed>".
func (r *Recorder) Flush(w io.Writer) error {
	for _, e := range r.entries {
		if _, err := fmt.Fprintf(w, "%d\t%d\t%s\n", e.Sequence, e.Line, e.Elapsed); err != nil {
			return fmt.Errorf("trace: flush: %w", err)
		}
	}
	return nil
}

// String renders a short summary, the way the teacher's
// PerformanceStatistics.String does for -verbose output.
func (r *Recorder) String() string {
	if len(r.entries) == 0 {
		return "trace: no entries recorded"
	}
	last := r.entries[len(r.entries)-1]
	return fmt.Sprintf("trace: %d line executions over %s", len(r.entries), last.Elapsed)
}
