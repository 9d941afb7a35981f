package trace_test

import (
	"strings"
	"testing"

	"github.com/JonnyWalker/cody-basic-interpreter/trace"
)

func TestRecorderDisabledByDefaultRecordsNothing(t *testing.T) {
	r := trace.NewRecorder(10)
	r.Start()
	r.RecordLine(10)
	r.RecordLine(20)
	if got := len(r.Entries()); got != 0 {
		t.Errorf("disabled recorder captured %d entries, want 0", got)
	}
}

func TestRecorderCapsAtMaxEntries(t *testing.T) {
	r := trace.NewRecorder(2)
	r.Enabled = true
	r.Start()
	r.RecordLine(10)
	r.RecordLine(20)
	r.RecordLine(30)
	if got := len(r.Entries()); got != 2 {
		t.Errorf("len(Entries()) = %d, want 2", got)
	}
}

func TestRecorderFlushWritesEveryEntry(t *testing.T) {
	r := trace.NewRecorder(10)
	r.Enabled = true
	r.Start()
	r.RecordLine(10)
	r.RecordLine(20)

	var sb strings.Builder
	if err := r.Flush(&sb); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	out := sb.String()
	if !strings.Contains(out, "10") || !strings.Contains(out, "20") {
		t.Errorf("flushed output missing recorded lines: %q", out)
	}
}
