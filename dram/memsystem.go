package dram

import (
	"io"

	"github.com/sarchlab/mramsim/conf"
	"github.com/sarchlab/mramsim/dram/internal/addressmapping"
	"github.com/sarchlab/mramsim/dram/internal/org"
	"github.com/sarchlab/mramsim/dram/internal/signal"
	"github.com/sarchlab/mramsim/stats"
)

// Recorder table names.
const (
	bankStatsTable = "bank_stats"
	rankPowerTable = "rank_power"
)

// ReturnReadDataFunc is called when read data is handed back to the
// caller.
type ReturnReadDataFunc func(systemID int, addr uint64, cycle uint64)

// WriteDataDoneFunc is called when write data has fully crossed the
// data bus.
type WriteDataDoneFunc func(systemID int, addr uint64, cycle uint64)

// ReportPowerFunc receives the per-rank power breakdown at every
// statistics dump.
type ReportPowerFunc func(backgroundW, burstW, refreshW, actpreW float64)

// MemorySystem is one independent channel: a memory controller plus
// the ranks it drives, sharing one clock.
type MemorySystem struct {
	systemID int
	cfg      *conf.Config
	timing   conf.Timing

	ctrl  *MemoryController
	ranks []*org.Rank

	currentClockCycle uint64

	returnReadDataCB ReturnReadDataFunc
	writeDataDoneCB  WriteDataDoneFunc
	reportPowerCB    ReportPowerFunc

	csvOut   *stats.CSVWriter
	recorder stats.Recorder
	summary  io.Writer
}

// RegisterCallbacks installs the caller's completion callbacks. Any of
// them may be nil.
func (s *MemorySystem) RegisterCallbacks(
	readDone ReturnReadDataFunc,
	writeDone WriteDataDoneFunc,
	reportPower ReportPowerFunc,
) {
	s.returnReadDataCB = readDone
	s.writeDataDoneCB = writeDone
	s.reportPowerCB = reportPower
}

// WillAcceptTransaction reports whether the channel can take another
// request this cycle.
func (s *MemorySystem) WillAcceptTransaction() bool {
	return s.ctrl.WillAcceptTransaction()
}

// AddTransaction enqueues a read or write for the given physical
// address. It returns false on backpressure.
func (s *MemorySystem) AddTransaction(
	isWrite bool,
	addr uint64,
	data []byte,
) bool {
	t := signal.NewTransaction(signal.DataRead, addr, nil)
	if isWrite {
		t = signal.NewTransaction(signal.DataWrite, addr, data)
	}

	return s.ctrl.AddTransaction(t)
}

// Update advances the channel by one memory clock cycle. The ranks
// run first so read data lands on the bus before the controller's
// bookkeeping of the same cycle.
func (s *MemorySystem) Update() {
	for _, r := range s.ranks {
		r.Update()
	}

	s.ctrl.Update()
	s.currentClockCycle++

	if s.currentClockCycle%s.cfg.EpochLength == 0 {
		s.PrintStats(false)
	}
}

// CurrentCycle returns the channel's clock.
func (s *MemorySystem) CurrentCycle() uint64 {
	return s.currentClockCycle
}

// PrintStats dumps the statistics of the running epoch.
func (s *MemorySystem) PrintStats(finalStats bool) {
	s.ctrl.PrintStats(finalStats)
}

// Controller exposes the channel's controller, mainly for inspection.
func (s *MemorySystem) Controller() *MemoryController {
	return s.ctrl
}

// Name identifies the channel for monitoring.
func (s *MemorySystem) Name() string {
	return stats.IndexedName("MemorySystem", s.systemID)
}

func (s *MemorySystem) returnReadData(addr uint64, cycle uint64) {
	if s.returnReadDataCB != nil {
		s.returnReadDataCB(s.systemID, addr, cycle)
	}
}

func (s *MemorySystem) writeDataDone(addr uint64, cycle uint64) {
	if s.writeDataDoneCB != nil {
		s.writeDataDoneCB(s.systemID, addr, cycle)
	}
}

func (s *MemorySystem) reportPower(
	backgroundW, burstW, refreshW, actpreW float64,
) {
	if s.reportPowerCB != nil {
		s.reportPowerCB(backgroundW, burstW, refreshW, actpreW)
	}
}

// MultiChannelSystem routes transactions to NUM_CHANS independent
// channels by the channel bits of the address mapping.
type MultiChannelSystem struct {
	cfg      *conf.Config
	mapper   addressmapping.Mapper
	channels []*MemorySystem
}

// Channels returns the per-channel systems.
func (m *MultiChannelSystem) Channels() []*MemorySystem {
	return m.channels
}

// WillAcceptTransaction reports whether the channel owning addr can
// take another request.
func (m *MultiChannelSystem) WillAcceptTransaction(addr uint64) bool {
	return m.channels[m.mapper.Map(addr).Channel].WillAcceptTransaction()
}

// AddTransaction routes one request to its channel.
func (m *MultiChannelSystem) AddTransaction(
	isWrite bool,
	addr uint64,
	data []byte,
) bool {
	return m.channels[m.mapper.Map(addr).Channel].
		AddTransaction(isWrite, addr, data)
}

// RegisterCallbacks installs the callbacks on every channel.
func (m *MultiChannelSystem) RegisterCallbacks(
	readDone ReturnReadDataFunc,
	writeDone WriteDataDoneFunc,
	reportPower ReportPowerFunc,
) {
	for _, c := range m.channels {
		c.RegisterCallbacks(readDone, writeDone, reportPower)
	}
}

// Update advances all channels by one cycle.
func (m *MultiChannelSystem) Update() {
	for _, c := range m.channels {
		c.Update()
	}
}

// CurrentCycle returns the shared clock.
func (m *MultiChannelSystem) CurrentCycle() uint64 {
	return m.channels[0].CurrentCycle()
}

// PrintStats dumps all channels.
func (m *MultiChannelSystem) PrintStats(finalStats bool) {
	for _, c := range m.channels {
		c.PrintStats(finalStats)
	}
}
