// Package dram implements a cycle-accurate memory controller for
// conventional DRAM and SMART STT-MRAM devices.
package dram

import (
	"log"

	"github.com/sarchlab/mramsim/conf"
	"github.com/sarchlab/mramsim/dram/internal/addressmapping"
	"github.com/sarchlab/mramsim/dram/internal/cmdq"
	"github.com/sarchlab/mramsim/dram/internal/org"
	"github.com/sarchlab/mramsim/dram/internal/signal"
)

// seqIdx flattens a (rank, bank) pair into the per-bank stat arrays.
func (mc *MemoryController) seqIdx(rank, bank int) int {
	return rank*mc.cfg.NumBanks + bank
}

// MemoryController schedules bus commands for one channel. It owns the
// bank state matrix, the command queue, and all in-flight transactions
// of the channel.
type MemoryController struct {
	parent *MemorySystem
	cfg    *conf.Config
	timing conf.Timing

	bankStates   [][]org.BankState
	commandQueue cmdq.CommandQueue
	ranks        []*org.Rank
	mapper       addressmapping.Mapper

	currentClockCycle uint64

	transactionQueue        []*signal.Transaction
	pendingReadTransactions []*signal.Transaction
	returnTransaction       []*signal.Transaction

	// Command bus. One packet at a time; a second load is a collision.
	outgoingCmdPacket *signal.BusPacket
	cmdCyclesLeft     int

	// Data bus, controller to rank direction.
	outgoingDataPacket *signal.BusPacket
	dataCyclesLeft     int

	// Data bus, rank to controller direction. Each entry completes its
	// burst at readyAt.
	incomingReturns []pendingReturn

	// dataBusFreeAt is the first cycle a new burst may start in either
	// direction. Starting one earlier is a collision.
	dataBusFreeAt uint64

	writeDataToSend    []*signal.BusPacket
	writeDataCountdown []int

	refreshCountdown []uint64
	refreshRank      int
	powerDown        []bool

	// Energy accumulators, one per rank, in mA * cycles * devices.
	backgroundEnergy []uint64
	burstEnergy      []uint64
	actpreEnergy     []uint64
	refreshEnergy    []uint64

	totalTransactions      uint64
	grandTotalBankAccesses []uint64
	totalReadsPerBank      []uint64
	totalWritesPerBank     []uint64
	totalReadsPerRank      []uint64
	totalWritesPerRank     []uint64
	totalEpochLatency      []uint64

	latencies       map[uint64]uint64
	accessLatencies map[uint64]uint64
}

func newMemoryController(
	parent *MemorySystem,
	cfg *conf.Config,
	timing conf.Timing,
	mapper addressmapping.Mapper,
	ranks []*org.Rank,
) *MemoryController {
	mc := &MemoryController{
		parent: parent,
		cfg:    cfg,
		timing: timing,
		mapper: mapper,
		ranks:  ranks,
	}

	mc.bankStates = org.MakeBankStates(cfg.NumRanks, cfg.NumBanks)
	mc.commandQueue = cmdq.New(cfg, mc.bankStates)

	numBankStats := cfg.NumRanks * cfg.NumBanks
	mc.grandTotalBankAccesses = make([]uint64, numBankStats)
	mc.totalReadsPerBank = make([]uint64, numBankStats)
	mc.totalWritesPerBank = make([]uint64, numBankStats)
	mc.totalEpochLatency = make([]uint64, numBankStats)
	mc.totalReadsPerRank = make([]uint64, cfg.NumRanks)
	mc.totalWritesPerRank = make([]uint64, cfg.NumRanks)

	mc.backgroundEnergy = make([]uint64, cfg.NumRanks)
	mc.burstEnergy = make([]uint64, cfg.NumRanks)
	mc.actpreEnergy = make([]uint64, cfg.NumRanks)
	mc.refreshEnergy = make([]uint64, cfg.NumRanks)

	mc.powerDown = make([]bool, cfg.NumRanks)
	mc.latencies = make(map[uint64]uint64)
	mc.accessLatencies = make(map[uint64]uint64)

	// Stagger the rank refreshes across the refresh interval.
	mc.refreshCountdown = make([]uint64, cfg.NumRanks)
	for i := 0; i < cfg.NumRanks; i++ {
		mc.refreshCountdown[i] =
			timing.RefreshCycles / uint64(cfg.NumRanks) * uint64(i+1)
	}

	return mc
}

// WillAcceptTransaction reports whether the transaction queue has
// room.
func (mc *MemoryController) WillAcceptTransaction() bool {
	return len(mc.transactionQueue) < mc.cfg.TransQueueDepth
}

// AddTransaction enqueues a request. It returns false when the queue
// is full; the caller retries in a later cycle.
func (mc *MemoryController) AddTransaction(t *signal.Transaction) bool {
	if !mc.WillAcceptTransaction() {
		return false
	}

	t.TimeAdded = mc.currentClockCycle
	mc.transactionQueue = append(mc.transactionQueue, t)

	return true
}

// pendingReturn is a read burst travelling back on the data bus.
type pendingReturn struct {
	packet  *signal.BusPacket
	readyAt uint64
}

// ReceiveFromBus ingests a data packet a rank put on the data bus.
func (mc *MemoryController) ReceiveFromBus(p *signal.BusPacket) {
	if p.Kind != signal.Data {
		log.Panicf("memory controller received non-DATA packet %s from rank", p)
	}

	if mc.currentClockCycle < mc.dataBusFreeAt {
		log.Panicf("data bus collision at cycle %d", mc.currentClockCycle)
	}

	mc.dataBusFreeAt = mc.currentClockCycle + uint64(mc.cfg.BL/2)
	mc.incomingReturns = append(mc.incomingReturns, pendingReturn{
		packet:  p,
		readyAt: mc.dataBusFreeAt,
	})

	mc.totalReadsPerBank[mc.seqIdx(p.Rank, p.Bank)]++
}

// Update advances the controller by one memory clock cycle.
func (mc *MemoryController) Update() {
	mc.updateBankStateCountdowns()
	mc.advanceCommandBus()
	mc.advanceDataBus()
	mc.drainWriteData()
	mc.checkRefreshGate()
	mc.issueCommand()
	mc.admitTransaction()
	mc.accumulateBackgroundEnergy()
	mc.manageLowPower()
	mc.returnReadData()
	mc.decrementRefreshCountdowns()
	mc.commandQueue.Step()

	mc.currentClockCycle++
}

// updateBankStateCountdowns fires the implicit state transitions.
func (mc *MemoryController) updateBankStateCountdowns() {
	for r := 0; r < mc.cfg.NumRanks; r++ {
		for b := 0; b < mc.cfg.NumBanks; b++ {
			bs := &mc.bankStates[r][b]

			if bs.StateChangeCountdown == 0 {
				continue
			}

			bs.StateChangeCountdown--
			if bs.StateChangeCountdown > 0 {
				continue
			}

			switch bs.LastCommand {
			case signal.ReadP, signal.WriteP:
				if mc.cfg.IsSmartMRAM() {
					// No restore phase: the auto-precharge completes
					// the moment the burst is done.
					bs.State = org.Idle
					bs.LastCommand = signal.Precharge
					bs.StateChangeCountdown = 0
				} else {
					bs.State = org.Precharging
					bs.LastCommand = signal.Precharge
					bs.StateChangeCountdown = mc.cfg.TRP
				}

			case signal.Refresh, signal.Precharge:
				bs.State = org.Idle
			}
		}
	}
}

// advanceCommandBus hands a mid-flight command packet to its rank once
// it has held the bus for tCMD cycles.
func (mc *MemoryController) advanceCommandBus() {
	if mc.outgoingCmdPacket == nil {
		return
	}

	mc.cmdCyclesLeft--
	if mc.cmdCyclesLeft == 0 {
		mc.ranks[mc.outgoingCmdPacket.Rank].ReceiveFromBus(mc.outgoingCmdPacket)
		mc.outgoingCmdPacket = nil
	}
}

// advanceDataBus moves both data bus directions forward.
func (mc *MemoryController) advanceDataBus() {
	if mc.outgoingDataPacket != nil {
		mc.dataCyclesLeft--
		if mc.dataCyclesLeft == 0 {
			mc.parent.writeDataDone(mc.outgoingDataPacket.Address,
				mc.currentClockCycle)
			mc.ranks[mc.outgoingDataPacket.Rank].
				ReceiveFromBus(mc.outgoingDataPacket)
			mc.outgoingDataPacket = nil
		}
	}

	if len(mc.incomingReturns) > 0 &&
		mc.currentClockCycle >= mc.incomingReturns[0].readyAt {
		p := mc.incomingReturns[0].packet
		mc.returnTransaction = append(mc.returnTransaction,
			signal.NewTransaction(signal.ReturnData, p.Address, p.Payload))
		mc.incomingReturns = mc.incomingReturns[1:]
	}
}

// drainWriteData counts down the write data FIFO and loads the head
// onto the data bus when its WL delay has elapsed.
func (mc *MemoryController) drainWriteData() {
	if len(mc.writeDataCountdown) == 0 {
		return
	}

	for i := range mc.writeDataCountdown {
		mc.writeDataCountdown[i]--
	}

	if mc.writeDataCountdown[0] != 0 {
		return
	}

	if mc.outgoingDataPacket != nil ||
		mc.currentClockCycle < mc.dataBusFreeAt {
		log.Panicf("data bus collision at cycle %d", mc.currentClockCycle)
	}

	mc.outgoingDataPacket = mc.writeDataToSend[0]
	mc.dataCyclesLeft = mc.cfg.BL / 2
	mc.dataBusFreeAt = mc.currentClockCycle + uint64(mc.cfg.BL/2)

	mc.totalTransactions++
	mc.totalWritesPerBank[mc.seqIdx(mc.outgoingDataPacket.Rank,
		mc.outgoingDataPacket.Bank)]++

	mc.writeDataToSend = mc.writeDataToSend[1:]
	mc.writeDataCountdown = mc.writeDataCountdown[1:]
}

// checkRefreshGate raises the refresh request for the rank whose
// countdown expired, and wakes a powered-down rank in time for its
// refresh.
func (mc *MemoryController) checkRefreshGate() {
	if mc.refreshCountdown[mc.refreshRank] == 0 {
		mc.commandQueue.NeedRefresh(mc.refreshRank)
		mc.ranks[mc.refreshRank].RefreshWaiting = true
		mc.refreshCountdown[mc.refreshRank] = mc.timing.RefreshCycles

		mc.refreshRank++
		if mc.refreshRank == mc.cfg.NumRanks {
			mc.refreshRank = 0
		}
	} else if mc.powerDown[mc.refreshRank] &&
		mc.refreshCountdown[mc.refreshRank] <= uint64(mc.cfg.TXP) {
		mc.ranks[mc.refreshRank].RefreshWaiting = true
	}
}

// issueCommand pops at most one command and applies its timing and
// energy effects.
func (mc *MemoryController) issueCommand() {
	pkt, ok := mc.commandQueue.Pop(mc.currentClockCycle)
	if !ok {
		return
	}

	if pkt.Kind == signal.Write || pkt.Kind == signal.WriteP {
		mc.writeDataToSend = append(mc.writeDataToSend, &signal.BusPacket{
			Kind:    signal.Data,
			Address: pkt.Address,
			Column:  pkt.Column,
			Row:     pkt.Row,
			Rank:    pkt.Rank,
			Bank:    pkt.Bank,
			Payload: pkt.Payload,
		})
		mc.writeDataCountdown = append(mc.writeDataCountdown, mc.cfg.WL)
	}

	switch pkt.Kind {
	case signal.Read, signal.ReadP:
		mc.applyColumnRead(pkt)
	case signal.Write, signal.WriteP:
		mc.applyColumnWrite(pkt)
	case signal.Activate:
		mc.applyActivate(pkt)
	case signal.Precharge:
		mc.applyPrecharge(pkt)
	case signal.Refresh:
		mc.applyRefresh(pkt)
	default:
		log.Panicf("popped a command that should never be queued: %s", pkt)
	}

	if mc.outgoingCmdPacket != nil {
		log.Panicf("command bus collision at cycle %d", mc.currentClockCycle)
	}

	mc.outgoingCmdPacket = pkt
	mc.cmdCyclesLeft = mc.cfg.TCMD
}

// actpreEnergyPerOp is the charge of one activate-precharge pair: the
// row cycle at IDD0 minus the background already accounted for.
func (mc *MemoryController) actpreEnergyPerOp() uint64 {
	c := mc.cfg
	return uint64((c.IDD0*c.TRC-(c.IDD3N*c.TRAS+c.IDD2N*(c.TRC-c.TRAS))) *
		c.NumDevices)
}

// stampFirstAccess records the cycle a pending read became a row
// buffer hit, so access latency starts at the first column access.
func (mc *MemoryController) stampFirstAccess(addr uint64) {
	for _, t := range mc.pendingReadTransactions {
		if t.Address == addr && t.TimeACTIssued == 0 {
			t.TimeACTIssued = mc.currentClockCycle
			break
		}
	}
}

func (mc *MemoryController) applyColumnRead(pkt *signal.BusPacket) {
	cfg := mc.cfg
	now := mc.currentClockCycle
	rank, bank := pkt.Rank, pkt.Bank
	bs := &mc.bankStates[rank][bank]

	mc.stampFirstAccess(pkt.Address)

	// SMART defers the sensing charge from ACTIVATE to the first
	// column access of the open row.
	if cfg.IsSmartMRAM() && bs.LastCommand == signal.Activate {
		mc.actpreEnergy[rank] += mc.actpreEnergyPerOp()
	}

	mc.burstEnergy[rank] +=
		uint64((cfg.IDD4R - cfg.IDD3N) * cfg.BL / 2 * cfg.NumDevices)

	if pkt.Kind == signal.ReadP {
		bs.NextActivate = maxU64(now+uint64(mc.timing.ReadAutopreDelay),
			bs.NextActivate)
		bs.LastCommand = signal.ReadP
		bs.StateChangeCountdown = mc.timing.ReadToPreDelay
	} else {
		bs.NextPrecharge = maxU64(now+uint64(mc.timing.ReadToPreDelay),
			bs.NextPrecharge)
		bs.LastCommand = signal.Read
	}

	for r := 0; r < cfg.NumRanks; r++ {
		for b := 0; b < cfg.NumBanks; b++ {
			other := &mc.bankStates[r][b]

			if r != rank {
				if other.State == org.RowActive {
					other.NextRead = maxU64(
						now+uint64(cfg.BL/2+cfg.TRTRS), other.NextRead)
					other.NextWrite = maxU64(
						now+uint64(mc.timing.ReadToWriteDelay),
						other.NextWrite)
				}
			} else {
				other.NextRead = maxU64(
					now+uint64(maxInt(cfg.TCCD, cfg.BL/2)), other.NextRead)
				other.NextWrite = maxU64(
					now+uint64(mc.timing.ReadToWriteDelay), other.NextWrite)
			}
		}
	}

	if pkt.Kind == signal.ReadP {
		// Block further column accesses until the auto-precharge has
		// flipped the bank state.
		bs.NextRead = bs.NextActivate
		bs.NextWrite = bs.NextActivate
	}
}

func (mc *MemoryController) applyColumnWrite(pkt *signal.BusPacket) {
	cfg := mc.cfg
	now := mc.currentClockCycle
	rank, bank := pkt.Rank, pkt.Bank
	bs := &mc.bankStates[rank][bank]

	if cfg.IsSmartMRAM() && bs.LastCommand == signal.Activate {
		mc.actpreEnergy[rank] += mc.actpreEnergyPerOp()
	}

	mc.burstEnergy[rank] +=
		uint64((cfg.IDD4W - cfg.IDD3N) * cfg.BL / 2 * cfg.NumDevices)

	if pkt.Kind == signal.WriteP {
		bs.NextActivate = maxU64(now+uint64(mc.timing.WriteAutopreDelay),
			bs.NextActivate)
		bs.LastCommand = signal.WriteP
		bs.StateChangeCountdown = mc.timing.WriteToPreDelay
	} else {
		bs.NextPrecharge = maxU64(now+uint64(mc.timing.WriteToPreDelay),
			bs.NextPrecharge)
		bs.LastCommand = signal.Write
	}

	for r := 0; r < cfg.NumRanks; r++ {
		for b := 0; b < cfg.NumBanks; b++ {
			other := &mc.bankStates[r][b]

			if r != rank {
				if other.State == org.RowActive {
					other.NextWrite = maxU64(
						now+uint64(cfg.BL/2+cfg.TRTRS), other.NextWrite)
					other.NextRead = maxU64(
						now+uint64(mc.timing.WriteToReadDelayR),
						other.NextRead)
				}
			} else {
				other.NextWrite = maxU64(
					now+uint64(maxInt(cfg.BL/2, cfg.TCCD)), other.NextWrite)
				other.NextRead = maxU64(
					now+uint64(mc.timing.WriteToReadDelayB), other.NextRead)
			}
		}
	}

	if pkt.Kind == signal.WriteP {
		bs.NextRead = bs.NextActivate
		bs.NextWrite = bs.NextActivate
	}
}

func (mc *MemoryController) applyActivate(pkt *signal.BusPacket) {
	cfg := mc.cfg
	now := mc.currentClockCycle
	rank, bank := pkt.Rank, pkt.Bank
	bs := &mc.bankStates[rank][bank]

	// Access latency for reads starts at the activate.
	for _, t := range mc.pendingReadTransactions {
		if t.Address == pkt.Address {
			t.TimeACTIssued = now
			break
		}
	}

	if !cfg.IsSmartMRAM() {
		mc.actpreEnergy[rank] += mc.actpreEnergyPerOp()
	}

	bs.State = org.RowActive
	bs.LastCommand = signal.Activate
	bs.OpenRowAddress = pkt.Row

	if cfg.IsSmartMRAM() {
		// Decoding only: the row is usable immediately and may close
		// at any time.
		bs.NextActivate = maxU64(now+uint64(cfg.TRRD), bs.NextActivate)
		bs.NextPrecharge = now
		bs.NextRead = maxU64(now, bs.NextRead)
		bs.NextWrite = maxU64(now, bs.NextWrite)
	} else {
		bs.NextActivate = maxU64(now+uint64(cfg.TRC), bs.NextActivate)
		bs.NextPrecharge = maxU64(now+uint64(cfg.TRAS), bs.NextPrecharge)
		bs.NextRead = maxU64(now+uint64(cfg.TRCD-cfg.AL), bs.NextRead)
		bs.NextWrite = maxU64(now+uint64(cfg.TRCD-cfg.AL), bs.NextWrite)
	}

	for b := 0; b < cfg.NumBanks; b++ {
		if b != bank {
			other := &mc.bankStates[rank][b]
			other.NextActivate = maxU64(now+uint64(cfg.TRRD),
				other.NextActivate)
		}
	}
}

func (mc *MemoryController) applyPrecharge(pkt *signal.BusPacket) {
	cfg := mc.cfg
	now := mc.currentClockCycle
	bs := &mc.bankStates[pkt.Rank][pkt.Bank]

	if cfg.IsSmartMRAM() {
		// Nothing to restore: the bank is reusable in the same cycle.
		bs.State = org.Idle
		bs.LastCommand = signal.Precharge
		bs.StateChangeCountdown = 0
		bs.NextActivate = now
	} else {
		bs.State = org.Precharging
		bs.LastCommand = signal.Precharge
		bs.StateChangeCountdown = cfg.TRP
		bs.NextActivate = maxU64(now+uint64(cfg.TRP), bs.NextActivate)
	}
}

func (mc *MemoryController) applyRefresh(pkt *signal.BusPacket) {
	cfg := mc.cfg
	now := mc.currentClockCycle

	mc.refreshEnergy[pkt.Rank] +=
		uint64((cfg.IDD5 - cfg.IDD3N) * cfg.TRFC * cfg.NumDevices)

	for b := 0; b < cfg.NumBanks; b++ {
		bs := &mc.bankStates[pkt.Rank][b]
		bs.NextActivate = now + uint64(cfg.TRFC)
		bs.State = org.Refreshing
		bs.LastCommand = signal.Refresh
		bs.StateChangeCountdown = cfg.TRFC
	}
}

// admitTransaction decomposes at most one pending transaction into an
// (ACTIVATE, column access) pair and hands it to the command queue.
func (mc *MemoryController) admitTransaction() {
	for i, t := range mc.transactionQueue {
		loc := mc.mapper.Map(t.Address)

		if !mc.commandQueue.HasRoomFor(2, loc.Rank, loc.Bank) {
			continue
		}

		mc.transactionQueue = append(mc.transactionQueue[:i],
			mc.transactionQueue[i+1:]...)

		autoPrecharge := mc.cfg.RowBufferPolicy == conf.ClosePage

		act := &signal.BusPacket{
			Kind:    signal.Activate,
			Address: t.Address,
			Column:  loc.Column,
			Row:     loc.Row,
			Rank:    loc.Rank,
			Bank:    loc.Bank,
		}
		col := &signal.BusPacket{
			Kind:    t.BusPacketType(autoPrecharge),
			Address: t.Address,
			Column:  loc.Column,
			Row:     loc.Row,
			Rank:    loc.Rank,
			Bank:    loc.Bank,
			Payload: t.Data,
		}

		// Reads must be pending before the commands exist so the
		// activate handler can stamp them.
		if t.Type == signal.DataRead {
			mc.pendingReadTransactions = append(
				mc.pendingReadTransactions, t)
		}

		mc.commandQueue.Enqueue(act)
		mc.commandQueue.Enqueue(col)

		break
	}
}

// accumulateBackgroundEnergy charges every rank for the current cycle.
func (mc *MemoryController) accumulateBackgroundEnergy() {
	cfg := mc.cfg

	for r := 0; r < cfg.NumRanks; r++ {
		bankOpen := false

		for b := 0; b < cfg.NumBanks; b++ {
			s := mc.bankStates[r][b].State
			if s == org.RowActive || s == org.Refreshing {
				bankOpen = true
				break
			}
		}

		switch {
		case bankOpen:
			mc.backgroundEnergy[r] += uint64(cfg.IDD3N * cfg.NumDevices)
		case mc.powerDown[r]:
			mc.backgroundEnergy[r] += uint64(cfg.IDD2P * cfg.NumDevices)
		default:
			mc.backgroundEnergy[r] += uint64(cfg.IDD2N * cfg.NumDevices)
		}
	}
}

// manageLowPower powers idle ranks down and wakes them when work or a
// refresh arrives.
func (mc *MemoryController) manageLowPower() {
	if !mc.cfg.UseLowPower {
		return
	}

	cfg := mc.cfg
	now := mc.currentClockCycle

	for r := 0; r < cfg.NumRanks; r++ {
		if mc.commandQueue.IsEmpty(r) && !mc.ranks[r].RefreshWaiting {
			allIdle := true
			for b := 0; b < cfg.NumBanks; b++ {
				if mc.bankStates[r][b].State != org.Idle {
					allIdle = false
					break
				}
			}

			if allIdle && !mc.powerDown[r] {
				mc.powerDown[r] = true
				mc.ranks[r].PowerDown()

				for b := 0; b < cfg.NumBanks; b++ {
					bs := &mc.bankStates[r][b]
					bs.State = org.PowerDown
					bs.NextPowerUp = now + uint64(cfg.TCKE)
				}
			}
		} else if mc.powerDown[r] && now >= mc.bankStates[r][0].NextPowerUp {
			mc.powerDown[r] = false
			mc.ranks[r].PowerUp()

			for b := 0; b < cfg.NumBanks; b++ {
				bs := &mc.bankStates[r][b]
				bs.State = org.Idle
				bs.NextActivate = now + uint64(cfg.TXP)
			}
		}
	}
}

// returnReadData matches the head of the return queue against the
// pending reads and hands the data back to the caller.
func (mc *MemoryController) returnReadData() {
	if len(mc.returnTransaction) == 0 {
		return
	}

	ret := mc.returnTransaction[0]
	mc.totalTransactions++

	found := false
	for i, pending := range mc.pendingReadTransactions {
		if pending.Address != ret.Address {
			continue
		}

		loc := mc.mapper.Map(ret.Address)

		totalLatency := mc.currentClockCycle - pending.TimeAdded
		mc.insertHistogram(totalLatency, loc.Rank, loc.Bank)

		accessLatency := mc.currentClockCycle - pending.TimeACTIssued
		bin := accessLatency / mc.cfg.HistogramBinSize *
			mc.cfg.HistogramBinSize
		mc.accessLatencies[bin]++

		mc.parent.returnReadData(ret.Address, mc.currentClockCycle)

		mc.pendingReadTransactions = append(
			mc.pendingReadTransactions[:i],
			mc.pendingReadTransactions[i+1:]...)
		found = true

		break
	}

	if !found {
		log.Panicf("no pending read matches returned data for 0x%x",
			ret.Address)
	}

	mc.returnTransaction = mc.returnTransaction[1:]
}

func (mc *MemoryController) decrementRefreshCountdowns() {
	for i := range mc.refreshCountdown {
		if mc.refreshCountdown[i] > 0 {
			mc.refreshCountdown[i]--
		}
	}
}

// insertHistogram bins one total latency sample.
func (mc *MemoryController) insertHistogram(
	latency uint64,
	rank, bank int,
) {
	mc.totalEpochLatency[mc.seqIdx(rank, bank)] += latency
	mc.latencies[latency/mc.cfg.HistogramBinSize*mc.cfg.HistogramBinSize]++
}

func maxU64(a, b uint64) uint64 {
	if a > b {
		return a
	}

	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}

	return b
}
