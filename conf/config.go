// Package conf defines the memory-system configuration and loads the
// device and system profiles that describe it.
package conf

import "fmt"

// Technology selects the memory technology that the timing and energy
// models follow.
type Technology int

// Supported memory technologies. TechDRAM also covers conventional
// STT-MRAM devices that keep the DRAM-style sensing-on-activate model.
const (
	TechDRAM Technology = iota
	TechSmartMRAM
)

// RowBufferPolicy decides what happens to a row after a column access.
type RowBufferPolicy int

// Supported row buffer policies.
const (
	OpenPage RowBufferPolicy = iota
	ClosePage
)

// SchedulerPolicy decides how the command queue arbitrates between
// pending commands.
type SchedulerPolicy int

// Supported scheduling policies. RankThenBank walks the ranks round
// robin and picks the earliest issuable command within the rank.
// CommandFCFS picks the globally earliest issuable command.
const (
	RankThenBank SchedulerPolicy = iota
	CommandFCFS
)

// Config carries the full configuration of one memory system. It is
// immutable after construction so that multiple channels can share it.
type Config struct {
	// Topology
	NumChans   int
	NumRanks   int
	NumBanks   int
	NumRows    int
	NumCols    int
	NumDevices int

	JEDECDataBusBits int
	BL               int
	WL               int
	AL               int
	CL               int

	TCK float64 // ns

	// Timing constraints, in memory clock cycles.
	TRCD  int
	TRP   int
	TRAS  int
	TRC   int
	TRFC  int
	TRRD  int
	TCCD  int
	TRTRS int
	TWTR  int
	TRTP  int
	TWR   int
	TCMD  int
	TXP   int
	TCKE  int

	RefreshPeriod float64 // ns

	// JEDEC currents in mA and supply voltage in V.
	IDD0   int
	IDD1   int
	IDD2P  int
	IDD2N  int
	IDD3Pf int
	IDD3Ps int
	IDD3N  int
	IDD4R  int
	IDD4W  int
	IDD5   int
	IDD6   int
	IDD6L  int
	IDD7   int
	Vdd    float64

	// Policies
	Technology           Technology
	RowBufferPolicy      RowBufferPolicy
	SchedulerPolicy      SchedulerPolicy
	AddressMappingScheme string
	UseLowPower          bool

	TransQueueDepth  int
	CmdQueueDepth    int
	TotalRowAccesses int

	EpochLength      uint64
	HistogramBinSize uint64
}

// DefaultConfig returns a configuration that resembles a 2Gb DDR3-1333
// x8 part. Profiles loaded on top of it only need to state what they
// change.
func DefaultConfig() *Config {
	return &Config{
		NumChans:   1,
		NumRanks:   2,
		NumBanks:   8,
		NumRows:    16384,
		NumCols:    1024,
		NumDevices: 8,

		JEDECDataBusBits: 64,
		BL:               8,
		WL:               6,
		AL:               0,
		CL:               10,

		TCK: 1.5,

		TRCD:  10,
		TRP:   10,
		TRAS:  24,
		TRC:   34,
		TRFC:  107,
		TRRD:  4,
		TCCD:  4,
		TRTRS: 1,
		TWTR:  5,
		TRTP:  5,
		TWR:   10,
		TCMD:  1,
		TXP:   3,
		TCKE:  4,

		RefreshPeriod: 7800,

		IDD0:   85,
		IDD1:   105,
		IDD2P:  12,
		IDD2N:  37,
		IDD3Pf: 40,
		IDD3Ps: 10,
		IDD3N:  45,
		IDD4R:  150,
		IDD4W:  155,
		IDD5:   205,
		IDD6:   6,
		IDD6L:  9,
		IDD7:   315,
		Vdd:    1.5,

		Technology:           TechDRAM,
		RowBufferPolicy:      OpenPage,
		SchedulerPolicy:      RankThenBank,
		AddressMappingScheme: "scheme2",
		UseLowPower:          false,

		TransQueueDepth:  32,
		CmdQueueDepth:    32,
		TotalRowAccesses: 4,

		EpochLength:      100000,
		HistogramBinSize: 10,
	}
}

// IsSmartMRAM reports whether the SMART STT-MRAM timing and energy
// model is selected.
func (c *Config) IsSmartMRAM() bool {
	return c.Technology == TechSmartMRAM
}

// Validate rejects configurations that can never describe a working
// device.
func (c *Config) Validate() error {
	if c.NumRanks < 1 || c.NumBanks < 1 {
		return fmt.Errorf("topology must have at least one rank and one bank")
	}

	if c.BL <= 0 || c.BL%2 != 0 {
		return fmt.Errorf("burst length %d is not a positive even number", c.BL)
	}

	if c.TCK <= 0 {
		return fmt.Errorf("tCK must be positive, got %f", c.TCK)
	}

	if c.TRC < c.TRAS {
		return fmt.Errorf("tRC (%d) cannot be smaller than tRAS (%d)",
			c.TRC, c.TRAS)
	}

	if c.TRC < c.TRAS+c.TRP {
		return fmt.Errorf("tRC (%d) cannot be smaller than tRAS+tRP (%d)",
			c.TRC, c.TRAS+c.TRP)
	}

	if c.TRCD < c.AL {
		return fmt.Errorf("additive latency %d exceeds tRCD %d", c.AL, c.TRCD)
	}

	if c.RefreshPeriod <= 0 {
		return fmt.Errorf("refresh period must be positive, got %f",
			c.RefreshPeriod)
	}

	if c.TransQueueDepth < 1 || c.CmdQueueDepth < 2 {
		return fmt.Errorf("queue depths too small: trans %d, cmd %d",
			c.TransQueueDepth, c.CmdQueueDepth)
	}

	if c.EpochLength == 0 {
		return fmt.Errorf("epoch length cannot be 0")
	}

	if c.HistogramBinSize == 0 {
		return fmt.Errorf("histogram bin size cannot be 0")
	}

	t := c.DeriveTiming()
	if t.ReadToWriteDelay < 0 || t.WriteToReadDelayB < 0 ||
		t.WriteToReadDelayR < 0 || t.ReadToPreDelay < 0 {
		return fmt.Errorf("derived turnaround delays are negative; " +
			"check CL, WL, AL, BL, and tRTRS")
	}

	return nil
}

// Timing holds delays derived from the raw constraints. They are
// computed once so the per-cycle logic only ever adds integers.
type Timing struct {
	RL int

	ReadToPreDelay    int
	WriteToPreDelay   int
	ReadAutopreDelay  int
	WriteAutopreDelay int
	ReadToWriteDelay  int
	WriteToReadDelayB int
	WriteToReadDelayR int

	// RefreshCycles is the refresh interval expressed in cycles.
	RefreshCycles uint64
}

// DeriveTiming computes the derived delays from the configuration.
func (c *Config) DeriveTiming() Timing {
	rl := c.AL + c.CL

	return Timing{
		RL: rl,

		ReadToPreDelay:    c.AL + c.BL/2 + max(c.TRTP, c.TCCD) - c.TCCD,
		WriteToPreDelay:   c.WL + c.BL/2 + c.TWR,
		ReadAutopreDelay:  c.AL + c.TRTP + c.TRP,
		WriteAutopreDelay: c.WL + c.BL/2 + c.TWR + c.TRP,
		ReadToWriteDelay:  rl + c.BL/2 + c.TRTRS - c.WL,
		WriteToReadDelayB: c.WL + c.BL/2 + c.TWTR,
		WriteToReadDelayR: c.WL + c.BL/2 + c.TRTRS - rl,

		RefreshCycles: uint64(c.RefreshPeriod / c.TCK),
	}
}

// BytesPerTransaction is the amount of data one burst moves.
func (c *Config) BytesPerTransaction() int {
	return c.JEDECDataBusBits * c.BL / 8
}
