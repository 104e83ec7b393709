package pipeline

import (
	"github.com/sarchlab/tomasim/insts"
	"github.com/sarchlab/tomasim/timing"
)

// commit retires at most the ROB head, once per cycle. A mispredicted
// branch (CALL/RET never mispredict, since their targets are resolved at
// Issue) triggers an atomic squash and reports true so Tick skips the
// remaining stages this cycle.
func (e *Engine) commit(cycle int64) (squashed bool, err error) {
	head := e.rob.Head()
	if head == nil {
		return false, nil
	}
	if head.State != timing.Written && head.State != timing.ReadyToCommit {
		return false, nil
	}

	switch head.Inst.Op {
	case insts.OpADD, insts.OpADDI, insts.OpNAND, insts.OpMUL, insts.OpLOAD, insts.OpCALL:
		e.regs.WriteReg(head.DestReg, head.Value)
		e.rat.ClearIfOwner(head.DestReg, head.Tag)
	case insts.OpSTORE:
		if werr := e.mem.WriteWord(head.DestAddr, head.Value, head.Inst.PC); werr != nil {
			return false, werr
		}
	case insts.OpBEQ:
		e.metrics.BranchCount++
		if head.Mispredicted {
			e.metrics.MispredictedCount++
		}
	case insts.OpRET:
		// No architectural write beyond the fetch PC, already applied at Issue.
	}

	e.recordCommit(head.Tag, cycle)
	e.metrics.Retired++
	mispredicted := head.Mispredicted
	actual := head.ActualNextPC
	e.rob.Pop()

	if mispredicted {
		e.squash(actual)
		return true, nil
	}
	return false, nil
}

// squash discards every ROB entry, station and RAT mapping atomically and
// redirects the fetch pointer to the branch's actual target.
func (e *Engine) squash(target uint32) {
	e.rob.Squash()
	for _, s := range e.pools.All() {
		s.Clear()
	}
	e.rat.Reset()
	e.fetchPC = target
}
