// Package timing implements the Tomasulo pipeline engine: the reservation
// stations, reorder buffer, register alias table and configuration that
// back the cycle-accurate simulator.
package timing

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sarchlab/tomasim/insts"
)

// UnitConfig holds the station count and per-operation latency for one
// functional-unit family.
type UnitConfig struct {
	// Stations is the number of reservation stations of this unit type.
	Stations int `json:"stations"`

	// Latency is the total number of cycles from execution start to
	// finish for an operation on this unit.
	Latency int `json:"latency"`
}

// Config holds the reservation-station counts and unit latencies for every
// functional-unit family, plus the reorder buffer's capacity.
type Config struct {
	// Load is the LOAD unit: 2 stations, 6 cycles (2 for effective address,
	// 4 for the memory access).
	Load UnitConfig `json:"load"`

	// Store is the STORE unit: 1 station, 6 cycles.
	Store UnitConfig `json:"store"`

	// Branch is the BEQ unit: 1 station, 1 cycle.
	Branch UnitConfig `json:"branch"`

	// CallRet is the CALL/RET unit: 1 station, 1 cycle.
	CallRet UnitConfig `json:"call_ret"`

	// Add is the ADD/ADDI unit: 4 stations, 2 cycles.
	Add UnitConfig `json:"add"`

	// Nand is the NAND unit: 2 stations, 1 cycle.
	Nand UnitConfig `json:"nand"`

	// Mul is the MUL unit: 1 station, 8 cycles.
	Mul UnitConfig `json:"mul"`

	// ROBCapacity is the number of in-flight instruction slots in the
	// reorder buffer.
	ROBCapacity int `json:"rob_capacity"`
}

// DefaultConfig returns the reference reservation-station and latency
// table for the machine's seven functional units.
func DefaultConfig() *Config {
	return &Config{
		Load:        UnitConfig{Stations: 2, Latency: 6},
		Store:       UnitConfig{Stations: 1, Latency: 6},
		Branch:      UnitConfig{Stations: 1, Latency: 1},
		CallRet:     UnitConfig{Stations: 1, Latency: 1},
		Add:         UnitConfig{Stations: 4, Latency: 2},
		Nand:        UnitConfig{Stations: 2, Latency: 1},
		Mul:         UnitConfig{Stations: 1, Latency: 8},
		ROBCapacity: 32,
	}
}

// LoadConfig loads a Config from a JSON file, starting from DefaultConfig
// so that a partial file only needs to override the fields it changes.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read timing config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse timing config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid timing config: %w", err)
	}

	return config, nil
}

// SaveConfig writes a Config to a JSON file.
func (c *Config) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize timing config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write timing config file: %w", err)
	}

	return nil
}

// Validate checks that every unit has at least one station and a positive
// latency, and that the ROB has room for at least one in-flight
// instruction.
func (c *Config) Validate() error {
	for _, u := range []struct {
		name string
		cfg  UnitConfig
	}{
		{"load", c.Load},
		{"store", c.Store},
		{"branch", c.Branch},
		{"call_ret", c.CallRet},
		{"add", c.Add},
		{"nand", c.Nand},
		{"mul", c.Mul},
	} {
		if u.cfg.Stations <= 0 {
			return fmt.Errorf("%s.stations must be > 0", u.name)
		}
		if u.cfg.Latency <= 0 {
			return fmt.Errorf("%s.latency must be > 0", u.name)
		}
	}
	if c.ROBCapacity <= 0 {
		return fmt.Errorf("rob_capacity must be > 0")
	}
	return nil
}

// Clone returns a deep copy of the Config.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// unitConfig returns the UnitConfig governing the given functional-unit
// family.
func (c *Config) unitConfig(u insts.Unit) UnitConfig {
	switch u {
	case insts.UnitLoad:
		return c.Load
	case insts.UnitStore:
		return c.Store
	case insts.UnitBranch:
		return c.Branch
	case insts.UnitCallRet:
		return c.CallRet
	case insts.UnitAdd:
		return c.Add
	case insts.UnitNand:
		return c.Nand
	case insts.UnitMul:
		return c.Mul
	default:
		return UnitConfig{}
	}
}
