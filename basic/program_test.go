package basic_test

import (
	"testing"

	"github.com/JonnyWalker/cody-basic-interpreter/basic"
)

func line(n int) *basic.Command {
	return &basic.Command{Kind: basic.CmdREM, LineNumber: &n}
}

func TestProgramStoreKeepsSortedOrder(t *testing.T) {
	p := basic.NewProgram()
	p.Store(line(30))
	p.Store(line(10))
	p.Store(line(20))

	if got, want := p.Len(), 3; got != want {
		t.Fatalf("Len() = %d, want %d", got, want)
	}
	for i, want := range []int{10, 20, 30} {
		if got := *p.At(i).LineNumber; got != want {
			t.Errorf("At(%d) line number = %d, want %d", i, got, want)
		}
	}
}

func TestProgramStoreDuplicateLineReplaces(t *testing.T) {
	p := basic.NewProgram()
	p.Store(line(10))
	p.Store(&basic.Command{Kind: basic.CmdEnd, LineNumber: intPtr(10)})

	if got, want := p.Len(), 1; got != want {
		t.Fatalf("Len() = %d, want %d", got, want)
	}
	if got := p.At(0).Kind; got != basic.CmdEnd {
		t.Errorf("At(0).Kind = %v, want CmdEnd", got)
	}
}

func TestProgramStoreEmptyDeletesLine(t *testing.T) {
	p := basic.NewProgram()
	p.Store(line(10))
	p.Store(line(20))
	p.Store(&basic.Command{Kind: basic.CmdEmpty, LineNumber: intPtr(10)})

	if got, want := p.Len(), 1; got != want {
		t.Fatalf("Len() = %d, want %d", got, want)
	}
	if got := *p.At(0).LineNumber; got != 20 {
		t.Errorf("remaining line = %d, want 20", got)
	}
}

func TestProgramIndexOf(t *testing.T) {
	p := basic.NewProgram()
	p.Store(line(10))
	p.Store(line(20))

	if idx, ok := p.IndexOf(20); !ok || idx != 1 {
		t.Errorf("IndexOf(20) = (%d, %v), want (1, true)", idx, ok)
	}
	if _, ok := p.IndexOf(15); ok {
		t.Error("IndexOf(15) should not exist")
	}
}

func TestProgramFirstGreaterThan(t *testing.T) {
	p := basic.NewProgram()
	p.Store(line(10))
	p.Store(line(20))
	p.Store(line(30))

	idx, ok := p.FirstGreaterThan(10)
	if !ok || *p.At(idx).LineNumber != 20 {
		t.Errorf("FirstGreaterThan(10) did not land on line 20")
	}

	if _, ok := p.FirstGreaterThan(30); ok {
		t.Error("FirstGreaterThan(30) should report no further line")
	}
}

func intPtr(n int) *int { return &n }
