package basic

import "sync/atomic"

// Canceller is a cooperative cancellation flag, polled once per command
// dispatch by the Executor (spec.md §5). Setting it interrupts a running
// program the way the original's KeyboardInterrupt-on-io.cancel hack did,
// but without relying on an exception crossing an I/O boundary.
type Canceller struct {
	flag atomic.Bool
}

// Request marks the flag so the next poll observes a cancellation.
func (c *Canceller) Request() { c.flag.Store(true) }

// Poll reports whether cancellation was requested, clearing the flag if so.
func (c *Canceller) Poll() bool { return c.flag.CompareAndSwap(true, false) }
