package pipeline

import (
	"github.com/sarchlab/tomasim/insts"
	"github.com/sarchlab/tomasim/timing"
)

// unreached marks a timeline cycle stamp the instruction never reached,
// either because it has not gotten there yet or because it was squashed.
const unreached = -1

// Row is one dynamic instruction's cycle stamps: Issue, ExecStart,
// ExecFinish, Write and Commit, as rendered by the timeline table.
type Row struct {
	Tag  timing.Tag
	PC   uint32
	Inst *insts.Instruction

	Issue      int64
	ExecStart  int64
	ExecFinish int64
	Write      int64
	Commit     int64
}

func newRow(tag timing.Tag, inst *insts.Instruction, cycle int64) *Row {
	return &Row{
		Tag: tag, PC: inst.PC, Inst: inst,
		Issue: cycle, ExecStart: unreached, ExecFinish: unreached,
		Write: unreached, Commit: unreached,
	}
}

func (e *Engine) recordIssue(tag timing.Tag, inst *insts.Instruction, cycle int64) {
	row := newRow(tag, inst, cycle)
	e.timeline[tag] = row
	e.order = append(e.order, tag)
}

func (e *Engine) recordExecStart(tag timing.Tag, cycle int64) {
	e.timeline[tag].ExecStart = cycle
}

func (e *Engine) recordExecFinish(tag timing.Tag, cycle int64) {
	e.timeline[tag].ExecFinish = cycle
}

func (e *Engine) recordWrite(tag timing.Tag, cycle int64) {
	e.timeline[tag].Write = cycle
}

func (e *Engine) recordCommit(tag timing.Tag, cycle int64) {
	e.timeline[tag].Commit = cycle
}
