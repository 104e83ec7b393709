// Package emu provides the architectural register file and memory of the
// simulated 16-bit RISC machine. Both are mutated only by the pipeline's
// Commit stage — the timing engine reads and writes them through this
// package rather than holding raw slices itself.
package emu

import "github.com/sarchlab/tomasim/insts"

// RegFile represents the architectural register file: 8 general-purpose
// 16-bit registers. R0 is hardwired to zero.
type RegFile struct {
	// R holds general-purpose registers R0-R7. R[0] always reads as 0.
	R [insts.NumRegs]uint16
}

// ReadReg reads a register value. R0 always reads as 0.
func (f *RegFile) ReadReg(reg uint8) uint16 {
	if reg == 0 {
		return 0
	}
	return f.R[reg]
}

// WriteReg writes a register value. Writes to R0 are silently discarded.
func (f *RegFile) WriteReg(reg uint8, value uint16) {
	if reg == 0 {
		return
	}
	f.R[reg] = value
}

// Snapshot returns a copy of all register values, used by diagnostics and
// tests that need to assert on the whole file at once.
func (f *RegFile) Snapshot() [insts.NumRegs]uint16 {
	return f.R
}
