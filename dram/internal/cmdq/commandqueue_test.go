package cmdq

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/mramsim/conf"
	"github.com/sarchlab/mramsim/dram/internal/org"
	"github.com/sarchlab/mramsim/dram/internal/signal"
)

var _ = Describe("Queue", func() {
	var (
		cfg        *conf.Config
		bankStates [][]org.BankState
		q          *Queue
	)

	newPacket := func(
		kind signal.BusPacketType,
		rank, bank, row int,
		addr uint64,
	) *signal.BusPacket {
		return &signal.BusPacket{
			Kind:    kind,
			Address: addr,
			Rank:    rank,
			Bank:    bank,
			Row:     row,
		}
	}

	BeforeEach(func() {
		cfg = conf.DefaultConfig()
		cfg.NumRanks = 2
		cfg.NumBanks = 2
		cfg.CmdQueueDepth = 4
		cfg.TotalRowAccesses = 2

		bankStates = org.MakeBankStates(cfg.NumRanks, cfg.NumBanks)
		q = New(cfg, bankStates)
	})

	It("should admit all or nothing", func() {
		Expect(q.HasRoomFor(2, 0, 0)).To(BeTrue())

		for i := 0; i < 4; i++ {
			q.Enqueue(newPacket(signal.Activate, 0, 0, i, uint64(i)))
		}

		Expect(q.HasRoomFor(2, 0, 0)).To(BeFalse())
		Expect(q.HasRoomFor(2, 0, 1)).To(BeTrue())
	})

	It("should report emptiness per rank", func() {
		Expect(q.IsEmpty(0)).To(BeTrue())

		q.Enqueue(newPacket(signal.Activate, 0, 1, 0, 0))

		Expect(q.IsEmpty(0)).To(BeFalse())
		Expect(q.IsEmpty(1)).To(BeTrue())
	})

	It("should pop nothing when empty", func() {
		_, ok := q.Pop(0)
		Expect(ok).To(BeFalse())
	})

	It("should respect the bank timing guards", func() {
		q.Enqueue(newPacket(signal.Activate, 0, 0, 1, 0x100))
		q.Enqueue(newPacket(signal.Read, 0, 0, 1, 0x100))

		pkt, ok := q.Pop(0)
		Expect(ok).To(BeTrue())
		Expect(pkt.Kind).To(Equal(signal.Activate))
		Expect(q.RowBufferMisses(0, 0)).To(Equal(uint64(1)))

		// The controller applies the activate's effects.
		bankStates[0][0].State = org.RowActive
		bankStates[0][0].OpenRowAddress = 1
		bankStates[0][0].NextRead = 5

		_, ok = q.Pop(4)
		Expect(ok).To(BeFalse())

		pkt, ok = q.Pop(5)
		Expect(ok).To(BeTrue())
		Expect(pkt.Kind).To(Equal(signal.Read))
	})

	It("should elide the activate on a row buffer hit", func() {
		bankStates[0][0].State = org.RowActive
		bankStates[0][0].OpenRowAddress = 7

		q.Enqueue(newPacket(signal.Activate, 0, 0, 7, 0x700))
		q.Enqueue(newPacket(signal.Read, 0, 0, 7, 0x700))

		pkt, ok := q.Pop(0)
		Expect(ok).To(BeTrue())
		Expect(pkt.Kind).To(Equal(signal.Read))

		Expect(q.RowBufferHits(0, 0)).To(Equal(uint64(1)))
		Expect(q.RowBufferMisses(0, 0)).To(Equal(uint64(0)))
		Expect(q.IsEmpty(0)).To(BeTrue())
	})

	It("should not reorder column accesses to the same row", func() {
		bankStates[0][0].State = org.RowActive
		bankStates[0][0].OpenRowAddress = 7

		q.Enqueue(newPacket(signal.Write, 0, 0, 7, 0x700))
		q.Enqueue(newPacket(signal.Read, 0, 0, 7, 0x740))

		pkt, ok := q.Pop(0)
		Expect(ok).To(BeTrue())
		Expect(pkt.Kind).To(Equal(signal.Write))
	})

	It("should precharge a row nobody wants", func() {
		bankStates[0][0].State = org.RowActive
		bankStates[0][0].OpenRowAddress = 1

		q.Enqueue(newPacket(signal.Activate, 0, 0, 2, 0x200))
		q.Enqueue(newPacket(signal.Read, 0, 0, 2, 0x200))

		pkt, ok := q.Pop(0)
		Expect(ok).To(BeTrue())
		Expect(pkt.Kind).To(Equal(signal.Precharge))
		Expect(pkt.Bank).To(Equal(0))
	})

	It("should cap the accesses to one open row", func() {
		q.Enqueue(newPacket(signal.Activate, 0, 0, 1, 0x10))
		q.Enqueue(newPacket(signal.Read, 0, 0, 1, 0x10))
		q.Enqueue(newPacket(signal.Activate, 0, 0, 1, 0x20))
		q.Enqueue(newPacket(signal.Read, 0, 0, 1, 0x20))
		q.Enqueue(newPacket(signal.Activate, 0, 0, 1, 0x30))
		q.Enqueue(newPacket(signal.Read, 0, 0, 1, 0x30))

		pkt, _ := q.Pop(0)
		Expect(pkt.Kind).To(Equal(signal.Activate))
		bankStates[0][0].State = org.RowActive
		bankStates[0][0].OpenRowAddress = 1

		pkt, _ = q.Pop(1)
		Expect(pkt.Kind).To(Equal(signal.Read))
		pkt, _ = q.Pop(2)
		Expect(pkt.Kind).To(Equal(signal.Read))

		// Two accesses used up the cap; the open row must close even
		// though another read for it is waiting.
		pkt, ok := q.Pop(3)
		Expect(ok).To(BeTrue())
		Expect(pkt.Kind).To(Equal(signal.Precharge))
		bankStates[0][0].State = org.Idle

		pkt, _ = q.Pop(4)
		Expect(pkt.Kind).To(Equal(signal.Activate))
	})

	Context("refresh", func() {
		It("should drain open banks before refreshing", func() {
			bankStates[0][0].State = org.RowActive
			bankStates[0][0].OpenRowAddress = 3

			q.NeedRefresh(0)

			pkt, ok := q.Pop(0)
			Expect(ok).To(BeTrue())
			Expect(pkt.Kind).To(Equal(signal.Precharge))

			// Still precharging: nothing issues to the rank.
			bankStates[0][0].State = org.Precharging
			_, ok = q.Pop(1)
			Expect(ok).To(BeFalse())

			bankStates[0][0].State = org.Idle
			pkt, ok = q.Pop(2)
			Expect(ok).To(BeTrue())
			Expect(pkt.Kind).To(Equal(signal.Refresh))
			Expect(pkt.Rank).To(Equal(0))
		})

		It("should block the waiting rank but not the others", func() {
			q.Enqueue(newPacket(signal.Activate, 0, 0, 1, 0x10))
			q.Enqueue(newPacket(signal.Read, 0, 0, 1, 0x10))
			q.Enqueue(newPacket(signal.Activate, 1, 0, 1, 0x20))
			q.Enqueue(newPacket(signal.Read, 1, 0, 1, 0x20))

			bankStates[0][0].NextActivate = 100
			q.NeedRefresh(0)

			// Rank 0 waits for its banks to become activable; rank 1
			// proceeds.
			pkt, ok := q.Pop(0)
			Expect(ok).To(BeTrue())
			Expect(pkt.Kind).To(Equal(signal.Activate))
			Expect(pkt.Rank).To(Equal(1))

			pkt, ok = q.Pop(100)
			Expect(ok).To(BeTrue())
			Expect(pkt.Kind).To(Equal(signal.Refresh))
			Expect(pkt.Rank).To(Equal(0))
		})
	})

	It("should pick the earliest arrival under command FCFS", func() {
		cfg.SchedulerPolicy = conf.CommandFCFS

		q.Enqueue(newPacket(signal.Activate, 1, 1, 1, 0x10))
		q.Enqueue(newPacket(signal.Read, 1, 1, 1, 0x10))
		q.Enqueue(newPacket(signal.Activate, 0, 0, 1, 0x20))
		q.Enqueue(newPacket(signal.Read, 0, 0, 1, 0x20))

		pkt, ok := q.Pop(0)
		Expect(ok).To(BeTrue())
		Expect(pkt.Rank).To(Equal(1))
	})
})
