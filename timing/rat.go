package timing

// RAT is the register alias table: for each architectural register, either
// "value lives in the register file" or "value will be produced by ROB
// tag Tag".
type RAT struct {
	pending [8]bool
	tag     [8]Tag
}

// NewRAT returns a RAT with every register mapped to the architectural
// register file.
func NewRAT() *RAT {
	return &RAT{}
}

// Lookup reports whether register reg's next value is pending on a ROB
// tag, and if so, which one.
func (r *RAT) Lookup(reg uint8) (tag Tag, pending bool) {
	return r.tag[reg], r.pending[reg]
}

// SetPending marks register reg's next value as produced by tag.
func (r *RAT) SetPending(reg uint8, tag Tag) {
	if reg == 0 {
		return
	}
	r.pending[reg] = true
	r.tag[reg] = tag
}

// ClearIfOwner clears register reg's mapping back to architectural, but
// only if tag is still the current owner — a later Issue may have already
// overwritten the mapping.
func (r *RAT) ClearIfOwner(reg uint8, tag Tag) {
	if r.pending[reg] && r.tag[reg] == tag {
		r.pending[reg] = false
	}
}

// Reset clears every register back to architectural, used on squash.
func (r *RAT) Reset() {
	for i := range r.pending {
		r.pending[i] = false
	}
}
