package timing

import "github.com/sarchlab/tomasim/insts"

// Station is a reservation-station entry: it buffers an issued
// instruction's operands (or the tags that will produce them) until both
// are available. There is no separate lane limit: every ready station of
// a pool may start executing in the same cycle.
//
// For each operand slot exactly one of the V (value known) or Q
// (producing tag) fields is active; Has{Vj,Vk,Qj,Qk} record which.
type Station struct {
	Busy bool
	Op   insts.Op
	Unit insts.Unit

	Vj, Vk       uint16
	HasVj, HasVk bool
	Qj, Qk       Tag
	HasQj, HasQk bool

	// A holds the immediate operand: the ADDI immediate, the LOAD/STORE
	// offset, the BEQ branch offset, or the CALL target.
	A int32

	// Addr is the LOAD/STORE effective address, computed once Vj (the
	// base register) is ready.
	Addr uint32

	DestTag Tag

	// ExecCyclesRemaining counts down to 0 (finished, result computed but
	// not yet broadcast).
	ExecCyclesRemaining int
	Started             bool
	Finished            bool

	// Result fields, populated when ExecCyclesRemaining reaches 0.
	Result       uint16
	ActualNextPC uint32
	Mispredicted bool

	// FreedAt and WokeAt record the cycle a station was last freed or had
	// an operand resolved by a broadcast, so a station cannot be reissued
	// into or start executing in the very cycle that freed or woke it —
	// it becomes usable only on the next cycle.
	FreedAt int64
	WokeAt  int64
}

// Ready reports whether both operands are known — the precondition for
// starting execution.
func (s *Station) Ready() bool {
	return !s.HasQj && !s.HasQk
}

// Clear resets the station to its unallocated state.
func (s *Station) Clear() {
	*s = Station{}
}

// StationPool is the set of reservation stations for one functional-unit
// family.
type StationPool struct {
	Unit     insts.Unit
	Latency  int
	Stations []*Station
}

// NewStationPool allocates n stations for the given unit at the given
// latency.
func NewStationPool(unit insts.Unit, n, latency int) *StationPool {
	stations := make([]*Station, n)
	for i := range stations {
		stations[i] = &Station{}
	}
	return &StationPool{Unit: unit, Latency: latency, Stations: stations}
}

// FreeStation returns an unallocated station from the pool that was not
// itself freed this very cycle, or nil if none qualifies (a structural
// hazard).
func (p *StationPool) FreeStation(cycle int64) *Station {
	for _, s := range p.Stations {
		if !s.Busy && s.FreedAt != cycle {
			return s
		}
	}
	return nil
}

// Pools indexes a StationPool per functional-unit family.
type Pools map[insts.Unit]*StationPool

// NewPools builds one StationPool per functional-unit family from cfg.
func NewPools(cfg *Config) Pools {
	pools := make(Pools)
	for _, unit := range []insts.Unit{
		insts.UnitLoad, insts.UnitStore, insts.UnitBranch, insts.UnitCallRet,
		insts.UnitAdd, insts.UnitNand, insts.UnitMul,
	} {
		uc := cfg.unitConfig(unit)
		pools[unit] = NewStationPool(unit, uc.Stations, uc.Latency)
	}
	return pools
}

// All returns every station across every pool, for scans that don't care
// about unit family (execute, write-result, deadlock diagnostics).
func (p Pools) All() []*Station {
	var all []*Station
	for _, pool := range p {
		all = append(all, pool.Stations...)
	}
	return all
}
