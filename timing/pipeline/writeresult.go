package pipeline

import (
	"github.com/sarchlab/tomasim/insts"
	"github.com/sarchlab/tomasim/timing"
)

// writeResult broadcasts at most one station's result per cycle over the
// common data bus, chosen as the one with the oldest ROB tag among those
// with a computed, unbroadcast result.
func (e *Engine) writeResult(cycle int64) {
	best := e.oldestFinishedStation()
	if best == nil {
		return
	}

	entry := e.rob.Get(best.DestTag)
	if entry == nil {
		best.Clear()
		best.FreedAt = cycle
		return
	}

	switch best.Op {
	case insts.OpBEQ, insts.OpRET:
		entry.ActualNextPC = best.ActualNextPC
		entry.HasActual = true
		entry.Mispredicted = best.Mispredicted
	default:
		entry.Value = best.Result
	}
	entry.State = timing.Written

	if entry.HasDest {
		for _, s := range e.pools.All() {
			if s == best || !s.Busy {
				continue
			}
			if s.HasQj && s.Qj == best.DestTag {
				s.Vj, s.HasVj, s.HasQj = entry.Value, true, false
				s.WokeAt = cycle
			}
			if s.HasQk && s.Qk == best.DestTag {
				s.Vk, s.HasVk, s.HasQk = entry.Value, true, false
				s.WokeAt = cycle
			}
		}
	}

	e.recordWrite(best.DestTag, cycle)
	best.Clear()
	best.FreedAt = cycle
}

func (e *Engine) oldestFinishedStation() *timing.Station {
	var best *timing.Station
	for _, s := range e.pools.All() {
		if s.Busy && s.Finished && (best == nil || s.DestTag < best.DestTag) {
			best = s
		}
	}
	return best
}
