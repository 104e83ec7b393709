package pipeline

import (
	"github.com/sarchlab/tomasim/insts"
	"github.com/sarchlab/tomasim/timing"
)

// resolveOperand looks up register reg in the RAT: if its mapping already
// has a computed value sitting in the ROB, that value is used immediately;
// if not, the producing tag is carried as a pending dependency; if the
// register isn't renamed at all, the register file already holds the
// value.
func (e *Engine) resolveOperand(reg uint8) (value uint16, tag timing.Tag, pending bool) {
	t, isPending := e.rat.Lookup(reg)
	if !isPending {
		return e.regs.ReadReg(reg), 0, false
	}
	if producer := e.rob.Get(t); producer != nil && producer.HasDest &&
		(producer.State == timing.Written || producer.State == timing.ReadyToCommit) {
		return producer.Value, 0, false
	}
	return 0, t, true
}

// issue dispatches the next program-order instruction into a free station
// and a free ROB slot, or stalls on a structural (station/ROB) hazard, or
// — for RET only — a data hazard on the link register.
func (e *Engine) issue(cycle int64) {
	if e.fetchPC >= uint32(len(e.program)) {
		return
	}
	inst := e.program[e.fetchPC]
	pool := e.pools[inst.Op.Unit()]

	if e.rob.Full() {
		return
	}
	station := pool.FreeStation(cycle)
	if station == nil {
		return
	}

	// RET cannot commit to a fetch-PC decision without the return address,
	// so it stalls Issue entirely — rather than issuing speculatively with
	// a pending Q — until R7 is known.
	var retTarget uint16
	if inst.Op == insts.OpRET {
		val, _, pending := e.resolveOperand(insts.LinkRegister)
		if pending {
			return
		}
		retTarget = val
	}

	tag := e.rob.Allocate(inst)
	entry := e.rob.Get(tag)

	station.Busy = true
	station.Op = inst.Op
	station.Unit = inst.Op.Unit()
	station.DestTag = tag
	station.ExecCyclesRemaining = 0
	station.Started = false
	station.Finished = false

	switch inst.Op {
	case insts.OpADD, insts.OpNAND, insts.OpMUL:
		e.bindOperand(station, true, inst.Rs)
		e.bindOperand(station, false, inst.Rt)
	case insts.OpADDI:
		e.bindOperand(station, true, inst.Rs)
		station.A = int32(inst.Imm)
	case insts.OpLOAD:
		e.bindOperand(station, true, inst.Rt)
		station.A = int32(inst.Imm)
	case insts.OpSTORE:
		e.bindOperand(station, true, inst.Rt)
		e.bindOperand(station, false, inst.Rs)
		station.A = int32(inst.Imm)
	case insts.OpBEQ:
		e.bindOperand(station, true, inst.Rs)
		e.bindOperand(station, false, inst.Rt)
		station.A = int32(inst.Imm)
	case insts.OpCALL:
		station.A = int32(inst.Target)
	case insts.OpRET:
		station.Vj, station.HasVj = retTarget, true
	}

	destReg, hasDest := inst.DestReg()
	entry.HasDest = hasDest
	if hasDest {
		entry.DestReg = destReg
		e.rat.SetPending(destReg, tag)
	}

	switch inst.Op {
	case insts.OpBEQ:
		entry.PredictedNextPC = inst.PC + 1
		e.fetchPC = inst.PC + 1
	case insts.OpCALL:
		entry.PredictedNextPC = inst.Target
		entry.ActualNextPC = inst.Target
		entry.HasActual = true
		e.fetchPC = inst.Target
	case insts.OpRET:
		entry.PredictedNextPC = uint32(retTarget)
		entry.ActualNextPC = uint32(retTarget)
		entry.HasActual = true
		e.fetchPC = uint32(retTarget)
	default:
		e.fetchPC = inst.PC + 1
	}

	e.recordIssue(tag, inst, cycle)
}

// bindOperand resolves register reg into the station's j (first) or k
// (second) operand slot.
func (e *Engine) bindOperand(station *timing.Station, first bool, reg uint8) {
	value, tag, pending := e.resolveOperand(reg)
	if first {
		if pending {
			station.Qj, station.HasQj = tag, true
		} else {
			station.Vj, station.HasVj = value, true
		}
		return
	}
	if pending {
		station.Qk, station.HasQk = tag, true
	} else {
		station.Vk, station.HasVk = value, true
	}
}
