// Package report renders the simulator's timeline table and summary
// statistics as fmt.Printf-formatted tables.
package report

import (
	"fmt"
	"io"

	"github.com/sarchlab/tomasim/timing/pipeline"
)

// stamp renders a cycle stamp, or a blank cell for a stage the
// instruction never reached.
func stamp(cycle int64) string {
	if cycle < 0 {
		return ""
	}
	return fmt.Sprintf("%d", cycle)
}

// Timeline renders the per-instruction cycle-stamp table: index, PC,
// mnemonic, Issue, ExecStart, ExecFinish, Write, Commit.
func Timeline(w io.Writer, rows []*pipeline.Row) {
	fmt.Fprintf(w, "%-5s %-6s %-24s %-6s %-9s %-10s %-6s %-6s\n",
		"#", "PC", "INSTRUCTION", "ISSUE", "EXECSTART", "EXECFINISH", "WRITE", "COMMIT")
	for i, r := range rows {
		fmt.Fprintf(w, "%-5d %-6d %-24s %-6s %-9s %-10s %-6s %-6s\n",
			i, r.PC, r.Inst.String(),
			stamp(r.Issue), stamp(r.ExecStart), stamp(r.ExecFinish), stamp(r.Write), stamp(r.Commit))
	}
}

// Summary renders total cycles, retired instructions, IPC (3 decimals),
// branch count, misprediction count and misprediction percentage (2
// decimals).
func Summary(w io.Writer, m pipeline.Metrics) {
	fmt.Fprintf(w, "cycles:            %d\n", m.Cycles)
	fmt.Fprintf(w, "instructions:      %d\n", m.Retired)
	fmt.Fprintf(w, "ipc:               %.3f\n", m.IPC())
	fmt.Fprintf(w, "branches:          %d\n", m.BranchCount)
	fmt.Fprintf(w, "mispredictions:    %d\n", m.MispredictedCount)
	fmt.Fprintf(w, "misprediction pct: %.2f%%\n", m.MispredictionRate()*100)
}
