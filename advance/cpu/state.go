package cpu

// ARM7TDMI operating modes, as encoded in CPSR bits 4..0.
const (
	ModeUser       uint8 = 0x10
	ModeFIQ        uint8 = 0x11
	ModeIRQ        uint8 = 0x12
	ModeSupervisor uint8 = 0x13
	ModeAbort      uint8 = 0x17
	ModeUndefined  uint8 = 0x1B
	ModeSystem     uint8 = 0x1F
)

// CPSR holds the status flags the bus core cares about. Condition flags
// live with the instruction executor and are not modelled here.
type CPSR struct {
	Thumb      bool
	Mode       uint8
	IRQDisable bool
	FIQDisable bool
}

// State is the slice of ARM7TDMI state shared with the bus: the program
// counter gates BIOS reads and prefetch eligibility, the pipeline feeds the
// open bus value, and CPSR.Thumb selects instruction width.
type State struct {
	R15  uint32
	CPSR CPSR

	// Pipeline holds the two opcodes currently fetched ahead of execution,
	// Pipeline[0] at the executing address and Pipeline[1] one step after.
	Pipeline [2]uint32
}

// InstructionWidth returns the fetch width in bytes for the current mode.
func (s *State) InstructionWidth() uint32 {
	if s.CPSR.Thumb {
		return 2
	}
	return 4
}

// PrefetchedOpcode returns the opcode at R15 + n*width from the pipeline.
func (s *State) PrefetchedOpcode(n int) uint32 {
	return s.Pipeline[n]
}

// Processor is the instruction decoder/executor driven by the execution
// loop. Implementations execute exactly one instruction per Step call and
// perform all bus traffic through the MMU entry points.
type Processor interface {
	// Step fetches, decodes and executes a single instruction.
	Step()
	// SignalIRQ performs IRQ exception entry: bank switch, CPSR update and
	// the jump to the IRQ vector.
	SignalIRQ()
}
