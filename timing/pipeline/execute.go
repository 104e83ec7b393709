package pipeline

import (
	"github.com/sarchlab/tomasim/insts"
	"github.com/sarchlab/tomasim/timing"
)

// execute advances every busy station whose operands are ready by one
// cycle of its countdown, starting it first if this is its first eligible
// cycle. A station reaching 0 has its result computed here; STORE skips
// the CDB entirely and transitions straight to READY_TO_COMMIT.
func (e *Engine) execute(cycle int64) {
	for _, pool := range e.pools {
		for _, station := range pool.Stations {
			if !station.Busy || station.Finished {
				continue
			}
			if !station.Started {
				if !station.Ready() || station.WokeAt == cycle {
					continue
				}
				station.Started = true
				station.ExecCyclesRemaining = pool.Latency
				e.recordExecStart(station.DestTag, cycle)
				if entry := e.rob.Get(station.DestTag); entry != nil {
					entry.State = timing.Executing
				}
				if station.Op == insts.OpLOAD || station.Op == insts.OpSTORE {
					station.Addr = uint32(int32(station.Vj) + station.A)
				}
			}

			station.ExecCyclesRemaining--
			if station.ExecCyclesRemaining > 0 {
				continue
			}

			station.Finished = true
			e.recordExecFinish(station.DestTag, cycle)
			e.finishExecution(station, cycle)
		}
	}
}

// finishExecution computes a station's result once its countdown reaches
// zero.
func (e *Engine) finishExecution(station *timing.Station, cycle int64) {
	entry := e.rob.Get(station.DestTag)

	switch station.Op {
	case insts.OpADD:
		station.Result = station.Vj + station.Vk
	case insts.OpADDI:
		station.Result = uint16(int32(station.Vj) + station.A)
	case insts.OpNAND:
		station.Result = ^(station.Vj & station.Vk)
	case insts.OpMUL:
		station.Result = station.Vj * station.Vk
	case insts.OpLOAD:
		val, err := e.mem.ReadWord(station.Addr, entry.Inst.PC)
		if err != nil {
			e.fatal = err
			return
		}
		station.Result = val
	case insts.OpSTORE:
		entry.HasDestAddr = true
		entry.DestAddr = station.Addr
		entry.Value = station.Vk
		entry.State = timing.ReadyToCommit
		e.recordWrite(station.DestTag, cycle)
		station.Clear()
		station.FreedAt = cycle
	case insts.OpBEQ:
		predicted := entry.PredictedNextPC
		var actual uint32
		if station.Vj == station.Vk {
			actual = uint32(int32(entry.Inst.PC) + 1 + station.A)
		} else {
			actual = entry.Inst.PC + 1
		}
		station.ActualNextPC = actual
		station.Mispredicted = actual != predicted
	case insts.OpCALL:
		station.Result = uint16(entry.Inst.PC + 1)
	case insts.OpRET:
		// Actual target was already resolved at Issue.
	}
}
