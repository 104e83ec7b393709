// Package pipeline implements the Tomasulo pipeline controller: the
// per-cycle Commit, Write-Result, Execute and Issue stage orchestration
// that drives the reservation stations, reorder buffer and register alias
// table in package timing.
package pipeline

import (
	"github.com/sarchlab/tomasim/emu"
	"github.com/sarchlab/tomasim/insts"
	"github.com/sarchlab/tomasim/timing"
)

// Option is a functional option for configuring an Engine.
type Option func(*Engine)

// WithConfig overrides the default reservation-station/latency
// configuration.
func WithConfig(cfg *timing.Config) Option {
	return func(e *Engine) {
		e.cfg = cfg
	}
}

// WithStartPC sets the initial fetch address.
func WithStartPC(pc uint32) Option {
	return func(e *Engine) {
		e.fetchPC = pc
	}
}

// Engine owns the cycle counter, the reservation stations, the reorder
// buffer, the register alias table and the architectural state; it drives
// the Issue/Execute/Write-Result/Commit stages in strict per-cycle order.
type Engine struct {
	cfg     *timing.Config
	program []*insts.Instruction
	regs    *emu.RegFile
	mem     *emu.Memory

	rat   *timing.RAT
	rob   *timing.ROB
	pools timing.Pools

	fetchPC uint32
	cycle   int64

	metrics Metrics

	timeline map[timing.Tag]*Row
	order    []timing.Tag

	// fatal is set by execute() on an out-of-range LOAD access; Tick
	// checks and returns it after execute runs.
	fatal error
}

// New builds an Engine for program, backed by regs and mem, using
// DefaultConfig unless overridden by opts.
func New(program []*insts.Instruction, regs *emu.RegFile, mem *emu.Memory, opts ...Option) *Engine {
	e := &Engine{
		cfg:      timing.DefaultConfig(),
		program:  program,
		regs:     regs,
		mem:      mem,
		cycle:    1,
		timeline: make(map[timing.Tag]*Row),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.rat = timing.NewRAT()
	e.rob = timing.NewROB(e.cfg.ROBCapacity)
	e.pools = timing.NewPools(e.cfg)
	return e
}

// Metrics returns the simulation counters accumulated so far.
func (e *Engine) Metrics() Metrics {
	return e.metrics
}

// Rows returns the timeline, one row per dynamic instruction, in issue
// order.
func (e *Engine) Rows() []*Row {
	rows := make([]*Row, len(e.order))
	for i, tag := range e.order {
		rows[i] = e.timeline[tag]
	}
	return rows
}

// Run drives the engine to completion: the fetch pointer has passed the
// end of the program and the ROB is empty. It returns a *DeadlockError if
// no forward progress remains, or a memory fault error from a LOAD/STORE
// out-of-range access.
func (e *Engine) Run() error {
	for !e.done() {
		if err := e.Tick(); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) done() bool {
	return e.fetchPC >= uint32(len(e.program)) && e.rob.Empty()
}

// Tick executes one cycle in the strict order Commit, Write-Result,
// Execute, Issue. A squash short-circuits the remaining stages for the
// cycle.
func (e *Engine) Tick() error {
	cycle := e.cycle

	squashed, err := e.commit(cycle)
	if err != nil {
		return err
	}
	if !squashed {
		e.writeResult(cycle)
		e.execute(cycle)
		if e.fatal != nil {
			return e.fatal
		}
		e.issue(cycle)
	}

	e.metrics.Cycles++
	e.cycle++

	if e.stuck() {
		return e.deadlockError(cycle)
	}
	return nil
}

// stuck reports true only when the ROB head cannot advance on its own —
// it has no computed result yet — and no reservation station is doing any
// work that could ever produce one. A head that is already
// Written/READY_TO_COMMIT simply hasn't been committed yet this cycle,
// which is not a deadlock.
func (e *Engine) stuck() bool {
	head := e.rob.Head()
	if head == nil {
		return false
	}
	if head.State == timing.Written || head.State == timing.ReadyToCommit {
		return false
	}
	return !e.anyStationBusy()
}

func (e *Engine) anyStationBusy() bool {
	for _, s := range e.pools.All() {
		if s.Busy {
			return true
		}
	}
	return false
}
