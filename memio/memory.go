package memio

import "fmt"

// Memory is the flat 64KB address space PEEK, POKE, and SYS address.
// Grounded on the teacher's vm.Memory (segmented ARM address space,
// access-count telemetry), simplified to one unsegmented region since
// Cody BASIC's memory map has no page permissions of its own — every
// address is both readable and writable, with certain ranges acting as
// memory-mapped device registers handled by Sys rather than by Memory
// itself.
type Memory struct {
	data        [65536]byte
	ReadCount   uint64
	WriteCount  uint64
	SysHandlers map[int]func(m *Memory) error
}

// NewMemory returns a zeroed 64KB address space.
func NewMemory() *Memory {
	return &Memory{SysHandlers: make(map[int]func(m *Memory) error)}
}

// ReadByte returns the byte at addr (already masked to 16 bits by the
// caller).
func (m *Memory) ReadByte(addr int) byte {
	m.ReadCount++
	return m.data[addr&0xffff]
}

// WriteByte stores value at addr (already masked to 16/8 bits by the
// caller).
func (m *Memory) WriteByte(addr int, value byte) {
	m.WriteCount++
	m.data[addr&0xffff] = value
}

// Sys invokes the handler registered for addr, if any. An unregistered
// address is a no-op rather than an error: SYS is documented as calling
// into ROM routines the interpreter doesn't itself model, and silently
// accepting calls to addresses this build doesn't implement keeps
// programs that poke at unimplemented ROM entry points running.
func (m *Memory) Sys(addr int) error {
	if handler, ok := m.SysHandlers[addr]; ok {
		if err := handler(m); err != nil {
			return fmt.Errorf("memio: SYS %d: %w", addr, err)
		}
	}
	return nil
}
