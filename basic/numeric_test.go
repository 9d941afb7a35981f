package basic_test

import (
	"testing"

	"github.com/JonnyWalker/cody-basic-interpreter/basic"
)

func TestTwosComplementBoundaries(t *testing.T) {
	cases := []struct {
		in, want int
	}{
		{32768, -32768},
		{65535, -1},
		{-32769, 32767},
		{32767, 32767},
		{-32768, -32768},
	}
	for _, c := range cases {
		if got := basic.TwosComplement(c.in, 16); got != c.want {
			t.Errorf("TwosComplement(%d, 16) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestInt16Overflow(t *testing.T) {
	if got, want := basic.Int16(32767+1), -32768; got != want {
		t.Errorf("Int16(32768) = %d, want %d", got, want)
	}
	if got, want := basic.Int16(-32768-1), 32767; got != want {
		t.Errorf("Int16(-32769) = %d, want %d", got, want)
	}
}

func TestFloorDivNegativeOperands(t *testing.T) {
	cases := []struct {
		a, b, want int
	}{
		{-1, 2, -1},
		{7, 2, 3},
		{-7, 2, -4},
		{7, -2, -4},
		{-7, -2, 3},
	}
	for _, c := range cases {
		if got := basic.FloorDiv(c.a, c.b); got != c.want {
			t.Errorf("FloorDiv(%d, %d) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestFloorModMatchesSignOfDivisor(t *testing.T) {
	cases := []struct {
		a, b, want int
	}{
		{-7, 2, 1},
		{7, -2, -1},
		{-7, -2, -1},
		{7, 2, 1},
	}
	for _, c := range cases {
		if got := basic.FloorMod(c.a, c.b); got != c.want {
			t.Errorf("FloorMod(%d, %d) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestIntSqrt(t *testing.T) {
	cases := []struct {
		n, want int
	}{
		{0, 0},
		{1, 1},
		{10, 3},
		{100, 10},
		{99, 9},
	}
	for _, c := range cases {
		if got := basic.IntSqrt(c.n); got != c.want {
			t.Errorf("IntSqrt(%d) = %d, want %d", c.n, got, c.want)
		}
	}
}

func TestIntSqrtPanicsOnNegative(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on negative argument")
		}
	}()
	basic.IntSqrt(-1)
}
