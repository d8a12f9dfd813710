// Package cmdq provides the command queue that buffers decomposed bus
// packets and arbitrates which command issues each cycle.
package cmdq

import (
	"github.com/sarchlab/mramsim/conf"
	"github.com/sarchlab/mramsim/dram/internal/org"
	"github.com/sarchlab/mramsim/dram/internal/signal"
)

// A CommandQueue buffers pending bus packets per (rank, bank) and
// selects the next issuable one.
type CommandQueue interface {
	// HasRoomFor reports whether n packets can be enqueued for the
	// given bank. Admission is all-or-nothing: the caller enqueues
	// exactly n packets after a true answer.
	HasRoomFor(n, rank, bank int) bool

	// Enqueue appends a packet in arrival order.
	Enqueue(p *signal.BusPacket)

	// Pop returns the packet to issue at the given cycle, honoring all
	// bank timing guards, or false if nothing is issuable.
	Pop(now uint64) (*signal.BusPacket, bool)

	// NeedRefresh marks the rank as due for a refresh. The refresh
	// drains before any further command to that rank.
	NeedRefresh(rank int)

	// IsEmpty reports whether no packet is pending for the rank.
	IsEmpty(rank int) bool

	// Step runs per-cycle bookkeeping.
	Step()

	RowBufferHits(rank, bank int) uint64
	RowBufferMisses(rank, bank int) uint64
	ResetRowBufferStats()
}

// Queue implements CommandQueue over per-(rank,bank) FIFOs. The bank
// state matrix is shared with the controller that owns it; the queue
// only reads it.
type Queue struct {
	cfg        *conf.Config
	bankStates [][]org.BankState

	queues         [][][]*signal.BusPacket
	refreshWaiting []bool
	nextRank       int
	nextSeq        uint64

	// rowAccessCounters counts column accesses to the currently open
	// row of each bank, capped by TOTAL_ROW_ACCESSES to prevent a
	// stream of row hits from starving other rows.
	rowAccessCounters [][]int

	hits   [][]uint64
	misses [][]uint64

	currentClockCycle uint64
}

// New creates a command queue over the given shared bank state matrix.
func New(cfg *conf.Config, bankStates [][]org.BankState) *Queue {
	q := &Queue{
		cfg:        cfg,
		bankStates: bankStates,
	}

	q.queues = make([][][]*signal.BusPacket, cfg.NumRanks)
	q.refreshWaiting = make([]bool, cfg.NumRanks)
	q.rowAccessCounters = make([][]int, cfg.NumRanks)
	q.hits = make([][]uint64, cfg.NumRanks)
	q.misses = make([][]uint64, cfg.NumRanks)

	for r := 0; r < cfg.NumRanks; r++ {
		q.queues[r] = make([][]*signal.BusPacket, cfg.NumBanks)
		q.rowAccessCounters[r] = make([]int, cfg.NumBanks)
		q.hits[r] = make([]uint64, cfg.NumBanks)
		q.misses[r] = make([]uint64, cfg.NumBanks)
	}

	return q
}

func (q *Queue) HasRoomFor(n, rank, bank int) bool {
	return len(q.queues[rank][bank])+n <= q.cfg.CmdQueueDepth
}

func (q *Queue) Enqueue(p *signal.BusPacket) {
	p.Seq = q.nextSeq
	q.nextSeq++

	q.queues[p.Rank][p.Bank] = append(q.queues[p.Rank][p.Bank], p)
}

func (q *Queue) NeedRefresh(rank int) {
	q.refreshWaiting[rank] = true
}

func (q *Queue) IsEmpty(rank int) bool {
	for _, bankQueue := range q.queues[rank] {
		if len(bankQueue) > 0 {
			return false
		}
	}

	return true
}

func (q *Queue) Step() {
	q.currentClockCycle++
}

func (q *Queue) RowBufferHits(rank, bank int) uint64 {
	return q.hits[rank][bank]
}

func (q *Queue) RowBufferMisses(rank, bank int) uint64 {
	return q.misses[rank][bank]
}

func (q *Queue) ResetRowBufferStats() {
	for r := range q.hits {
		for b := range q.hits[r] {
			q.hits[r][b] = 0
			q.misses[r][b] = 0
		}
	}
}

// Pop selects the next command under the configured scheduling policy.
func (q *Queue) Pop(now uint64) (*signal.BusPacket, bool) {
	if q.cfg.SchedulerPolicy == conf.CommandFCFS {
		return q.popFCFS(now)
	}

	return q.popRankThenBank(now)
}

// popRankThenBank walks the ranks round robin, picking the earliest
// arriving issuable packet within each rank.
func (q *Queue) popRankThenBank(now uint64) (*signal.BusPacket, bool) {
	for i := 0; i < q.cfg.NumRanks; i++ {
		rank := (q.nextRank + i) % q.cfg.NumRanks

		pkt := q.popFromRank(rank, now)
		if pkt != nil {
			q.nextRank = (rank + 1) % q.cfg.NumRanks
			return pkt, true
		}
	}

	return nil, false
}

// popFCFS picks the globally earliest issuable packet across all
// ranks. Ranks waiting for refresh still drain through the refresh
// path first.
func (q *Queue) popFCFS(now uint64) (*signal.BusPacket, bool) {
	for rank := 0; rank < q.cfg.NumRanks; rank++ {
		if !q.refreshWaiting[rank] {
			continue
		}

		if pkt := q.popRefresh(rank, now); pkt != nil {
			return pkt, true
		}
	}

	var best *signal.BusPacket
	bestRank, bestBank, bestIdx := 0, 0, 0

	for rank := 0; rank < q.cfg.NumRanks; rank++ {
		if q.refreshWaiting[rank] {
			continue
		}

		pkt, bank, idx := q.findCandidate(rank, now)
		if pkt != nil && (best == nil || pkt.Seq < best.Seq) {
			best, bestRank, bestBank, bestIdx = pkt, rank, bank, idx
		}
	}

	if best != nil {
		q.removeChosen(bestRank, bestBank, bestIdx, best)
		return best, true
	}

	for rank := 0; rank < q.cfg.NumRanks; rank++ {
		if q.refreshWaiting[rank] {
			continue
		}

		if pkt := q.maybePrecharge(rank, now); pkt != nil {
			return pkt, true
		}
	}

	return nil, false
}

func (q *Queue) popFromRank(rank int, now uint64) *signal.BusPacket {
	if q.refreshWaiting[rank] {
		return q.popRefresh(rank, now)
	}

	pkt, bank, idx := q.findCandidate(rank, now)
	if pkt != nil {
		q.removeChosen(rank, bank, idx, pkt)
		return pkt
	}

	return q.maybePrecharge(rank, now)
}

// popRefresh closes any open row in the rank, then synthesizes the
// REFRESH once every bank is idle and allowed to activate. No other
// command may issue to the rank while the refresh is pending.
func (q *Queue) popRefresh(rank int, now uint64) *signal.BusPacket {
	canRefresh := true

	for bank := 0; bank < q.cfg.NumBanks; bank++ {
		bs := &q.bankStates[rank][bank]

		switch bs.State {
		case org.RowActive:
			canRefresh = false

			if now >= bs.NextPrecharge {
				q.rowAccessCounters[rank][bank] = 0
				return &signal.BusPacket{
					Kind: signal.Precharge,
					Rank: rank,
					Bank: bank,
					Row:  bs.OpenRowAddress,
				}
			}

		case org.Precharging, org.Refreshing, org.PowerDown:
			canRefresh = false

		case org.Idle:
			if now < bs.NextActivate {
				canRefresh = false
			}
		}
	}

	if !canRefresh {
		return nil
	}

	q.refreshWaiting[rank] = false

	return &signal.BusPacket{
		Kind: signal.Refresh,
		Rank: rank,
	}
}

// findCandidate scans the rank's bank FIFOs for the earliest arriving
// issuable packet. It does not remove the packet.
func (q *Queue) findCandidate(
	rank int,
	now uint64,
) (pkt *signal.BusPacket, bank, idx int) {
	for b := 0; b < q.cfg.NumBanks; b++ {
		bankQueue := q.queues[rank][b]

		for i, p := range bankQueue {
			if q.hasDependency(bankQueue, i, p) {
				continue
			}

			if !q.isIssuable(p, now) {
				continue
			}

			if pkt == nil || p.Seq < pkt.Seq {
				pkt, bank, idx = p, b, i
			}

			break
		}
	}

	return pkt, bank, idx
}

// hasDependency reports whether an earlier queued column access to the
// same row must complete first. Activates do not order column
// accesses; row hits may overtake commands for other rows.
func (q *Queue) hasDependency(
	bankQueue []*signal.BusPacket,
	i int,
	p *signal.BusPacket,
) bool {
	for j := 0; j < i; j++ {
		prev := bankQueue[j]
		if prev.Kind != signal.Activate && prev.Row == p.Row {
			return true
		}
	}

	return false
}

func (q *Queue) isIssuable(p *signal.BusPacket, now uint64) bool {
	bs := &q.bankStates[p.Rank][p.Bank]

	switch p.Kind {
	case signal.Activate:
		return bs.State == org.Idle && now >= bs.NextActivate

	case signal.Read, signal.ReadP:
		return bs.State == org.RowActive &&
			bs.OpenRowAddress == p.Row &&
			now >= bs.NextRead &&
			q.rowAccessCounters[p.Rank][p.Bank] < q.cfg.TotalRowAccesses

	case signal.Write, signal.WriteP:
		return bs.State == org.RowActive &&
			bs.OpenRowAddress == p.Row &&
			now >= bs.NextWrite &&
			q.rowAccessCounters[p.Rank][p.Bank] < q.cfg.TotalRowAccesses

	default:
		return false
	}
}

// removeChosen takes the chosen packet out of its FIFO. Issuing a
// column access whose paired ACTIVATE is still queued means the row
// was already open: the redundant ACTIVATE is dropped and a row buffer
// hit is recorded. Issuing an ACTIVATE records a miss.
func (q *Queue) removeChosen(rank, bank, idx int, p *signal.BusPacket) {
	bankQueue := q.queues[rank][bank]

	if p.Kind == signal.Activate {
		q.misses[rank][bank]++
		q.rowAccessCounters[rank][bank] = 0
		q.queues[rank][bank] = append(bankQueue[:idx], bankQueue[idx+1:]...)
		return
	}

	if p.Kind.IsReadOrWrite() {
		q.rowAccessCounters[rank][bank]++
	}

	if idx > 0 &&
		bankQueue[idx-1].Kind == signal.Activate &&
		bankQueue[idx-1].Address == p.Address {
		q.hits[rank][bank]++
		q.queues[rank][bank] = append(bankQueue[:idx-1], bankQueue[idx+1:]...)
		return
	}

	q.queues[rank][bank] = append(bankQueue[:idx], bankQueue[idx+1:]...)
}

// maybePrecharge closes a row that no queued command can use so that
// waiting commands for other rows make progress.
func (q *Queue) maybePrecharge(rank int, now uint64) *signal.BusPacket {
	for bank := 0; bank < q.cfg.NumBanks; bank++ {
		bs := &q.bankStates[rank][bank]

		if bs.State != org.RowActive || now < bs.NextPrecharge {
			continue
		}

		if len(q.queues[rank][bank]) == 0 {
			continue
		}

		if q.openRowWanted(rank, bank, bs.OpenRowAddress) {
			continue
		}

		q.rowAccessCounters[rank][bank] = 0

		return &signal.BusPacket{
			Kind: signal.Precharge,
			Rank: rank,
			Bank: bank,
			Row:  bs.OpenRowAddress,
		}
	}

	return nil
}

func (q *Queue) openRowWanted(rank, bank, openRow int) bool {
	if q.rowAccessCounters[rank][bank] >= q.cfg.TotalRowAccesses {
		return false
	}

	for _, p := range q.queues[rank][bank] {
		if p.Kind.IsReadOrWrite() && p.Row == openRow {
			return true
		}
	}

	return false
}
