package pipeline

import (
	"fmt"
	"strings"

	"github.com/sarchlab/tomasim/insts"
	"github.com/sarchlab/tomasim/timing"
)

// DeadlockError reports a cycle at which the reorder buffer's head has no
// computed result and no reservation station is doing any work that could
// ever produce one, so no further progress is possible. Its Error method
// dumps the full reservation-station and ROB state.
type DeadlockError struct {
	Cycle    int64
	Stations []StationSnapshot
	ROB      []timing.Entry
}

// StationSnapshot is a point-in-time view of one reservation station for
// diagnostics.
type StationSnapshot struct {
	Unit    insts.Unit
	Busy    bool
	Op      insts.Op
	DestTag timing.Tag
	HasQj   bool
	Qj      timing.Tag
	HasQk   bool
	Qk      timing.Tag
}

func (e *Engine) deadlockError(cycle int64) *DeadlockError {
	var stations []StationSnapshot
	for _, pool := range e.pools {
		for _, s := range pool.Stations {
			stations = append(stations, StationSnapshot{
				Unit: pool.Unit, Busy: s.Busy, Op: s.Op, DestTag: s.DestTag,
				HasQj: s.HasQj, Qj: s.Qj, HasQk: s.HasQk, Qk: s.Qk,
			})
		}
	}
	return &DeadlockError{Cycle: cycle, Stations: stations, ROB: e.rob.Live()}
}

func (d *DeadlockError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "deadlock at cycle %d: reorder buffer head has no result and no reservation station is busy\n", d.Cycle)

	b.WriteString("reservation stations:\n")
	for _, s := range d.Stations {
		if !s.Busy {
			continue
		}
		fmt.Fprintf(&b, "  unit=%v op=%v dest=%d qj=%v(%d) qk=%v(%d)\n",
			s.Unit, s.Op, s.DestTag, s.HasQj, s.Qj, s.HasQk, s.Qk)
	}

	b.WriteString("reorder buffer:\n")
	for _, entry := range d.ROB {
		fmt.Fprintf(&b, "  tag=%d state=%v dest_reg=%d inst=%s\n",
			entry.Tag, entry.State, entry.DestReg, entry.Inst)
	}

	return b.String()
}
