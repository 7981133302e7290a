package internal

import (
	"fmt"
	"time"
)

// Timing constants
const (
	TimerFrequency = 60
	FrameDuration  = time.Second / TimerFrequency

	DefaultInstructionsPerSecond = 700
	maxInstructionsPerSecond     = 60 * 1000
)

// Quirks toggles interpreter specific behaviour that ROMs written for
// different CHIP-8 implementations rely on.
type Quirks struct {
	// LogicResetsVF makes 8XY1, 8XY2 and 8XY3 set VF to 0, as the original
	// COSMAC VIP interpreter did.
	LogicResetsVF bool
	// ShiftUsesVY makes 8XY6 and 8XYE shift VY into VX instead of shifting
	// VX in place.
	ShiftUsesVY bool
	// LoadStoreIncrementsI makes FX55 and FX65 leave I pointing past the
	// last register transferred.
	LoadStoreIncrementsI bool
	// JumpUsesVX makes BNNN jump to NNN plus VX, where X is the high nibble
	// of NNN, as SUPER-CHIP does.
	JumpUsesVX bool
}

// Config holds the configuration parameters for a C8VM instance
type Config struct {
	// Number of instructions executed per second. Timers always run at
	// 60 Hz regardless of this value.
	InstructionsPerSecond int
	// Seed of the random source used by CXNN. 0 seeds from the clock.
	Seed   int64
	Quirks Quirks
}

// DefaultConfig returns the settings that mimic the original CHIP-8
// interpreter.
func DefaultConfig() Config {
	return Config{
		InstructionsPerSecond: DefaultInstructionsPerSecond,
		Quirks: Quirks{
			LogicResetsVF: true,
		},
	}
}

// Validate validates the settings
func (c Config) Validate() error {
	if c.InstructionsPerSecond < TimerFrequency {
		return fmt.Errorf("instructions per second must be >= %d, got %d",
			TimerFrequency, c.InstructionsPerSecond)
	}
	if c.InstructionsPerSecond > maxInstructionsPerSecond {
		return fmt.Errorf("instructions per second must be <= %d, got %d",
			maxInstructionsPerSecond, c.InstructionsPerSecond)
	}
	return nil
}
