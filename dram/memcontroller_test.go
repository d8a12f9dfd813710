package dram

import (
	"io"
	"math/bits"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/mramsim/conf"
	"github.com/sarchlab/mramsim/dram/internal/org"
	"github.com/sarchlab/mramsim/dram/internal/signal"
)

// testConfig is the default DDR3-like configuration restricted to one
// channel and one rank, with an epoch too long to trigger during a
// test.
func testConfig() *conf.Config {
	cfg := conf.DefaultConfig()
	cfg.NumChans = 1
	cfg.NumRanks = 1
	cfg.EpochLength = 1 << 40

	return cfg
}

// makeAddr builds an address that scheme2 decodes to the given
// location, assuming the test topology (8 banks, 1024 columns, BL=8,
// 64-bit bus).
func makeAddr(cfg *conf.Config, rank, bank, row, col int) uint64 {
	rankBits := bits.Len(uint(cfg.NumRanks)) - 1

	addr := uint64(row)
	addr = addr<<7 | uint64(col>>3)
	addr = addr<<3 | uint64(bank)
	addr = addr<<rankBits | uint64(rank)
	addr <<= 6

	return addr
}

func buildTestSystem(cfg *conf.Config) *MultiChannelSystem {
	return MakeBuilder().
		WithConfig(cfg).
		WithSummaryWriter(io.Discard).
		Build()
}

var _ = Describe("MemorySystem", func() {
	var (
		cfg     *conf.Config
		sys     *MultiChannelSystem
		returns []uint64
	)

	record := func(_ int, _ uint64, cycle uint64) {
		returns = append(returns, cycle)
	}

	runCycles := func(n uint64) {
		for i := uint64(0); i < n; i++ {
			sys.Update()
		}
	}

	runUntilReturns := func(n int, limit uint64) {
		for len(returns) < n && sys.CurrentCycle() < limit {
			sys.Update()
		}
	}

	BeforeEach(func() {
		cfg = testConfig()
		returns = nil
	})

	Context("conventional DRAM, open page", func() {
		JustBeforeEach(func() {
			sys = buildTestSystem(cfg)
			sys.RegisterCallbacks(record, nil, nil)
		})

		It("should return a cold read after ACT, CAS, and burst", func() {
			sys.AddTransaction(false, makeAddr(cfg, 0, 0, 3, 0), nil)

			runUntilReturns(1, 1000)

			// ACT at cycle 1, READ at 1+tRCD, data at 1+tRCD+CL, the
			// last beat lands BL/2 later.
			expected := uint64(1 + cfg.TRCD + cfg.CL + cfg.BL/2)
			Expect(returns).To(Equal([]uint64{expected}))

			ctrl := sys.Channels()[0].Controller()
			Expect(ctrl.totalRowBufferMisses()).To(Equal(uint64(1)))
			Expect(ctrl.totalRowBufferHits()).To(Equal(uint64(0)))
		})

		It("should hit the row buffer on a second read to the same row",
			func() {
				sys.AddTransaction(false, makeAddr(cfg, 0, 0, 3, 0), nil)
				sys.Update()
				sys.AddTransaction(false, makeAddr(cfg, 0, 0, 3, 8), nil)

				runUntilReturns(2, 1000)

				first := uint64(1 + cfg.TRCD + cfg.CL + cfg.BL/2)
				gap := uint64(maxInt(cfg.TCCD, cfg.BL/2))
				Expect(returns).To(Equal([]uint64{first, first + gap}))

				ctrl := sys.Channels()[0].Controller()
				Expect(ctrl.totalRowBufferMisses()).To(Equal(uint64(1)))
				Expect(ctrl.totalRowBufferHits()).To(Equal(uint64(1)))
			})

		It("should precharge and reactivate for a row conflict", func() {
			sys.AddTransaction(false, makeAddr(cfg, 0, 0, 3, 0), nil)
			sys.Update()
			sys.AddTransaction(false, makeAddr(cfg, 0, 0, 4, 0), nil)

			runUntilReturns(2, 1000)

			first := uint64(1 + cfg.TRCD + cfg.CL + cfg.BL/2)

			// The second activate waits for the first activate's tRC,
			// which covers both tRAS and the tRP of the precharge.
			second := uint64(1 + cfg.TRC + cfg.TRCD + cfg.CL + cfg.BL/2)
			Expect(returns).To(Equal([]uint64{first, second}))

			ctrl := sys.Channels()[0].Controller()
			Expect(ctrl.totalRowBufferMisses()).To(Equal(uint64(2)))
			Expect(ctrl.totalRowBufferHits()).To(Equal(uint64(0)))
		})

		It("should return same-address reads in issue order", func() {
			addr := makeAddr(cfg, 0, 0, 3, 0)
			sys.AddTransaction(false, addr, nil)
			sys.Update()
			sys.AddTransaction(false, addr, nil)

			runUntilReturns(2, 1000)

			Expect(returns).To(HaveLen(2))
			Expect(returns[0]).To(BeNumerically("<", returns[1]))
		})

		It("should signal write completion after WL and the burst", func() {
			var writeDone []uint64
			sys.RegisterCallbacks(record, func(_ int, _ uint64, c uint64) {
				writeDone = append(writeDone, c)
			}, nil)

			sys.AddTransaction(true, makeAddr(cfg, 0, 0, 3, 0),
				[]byte{1, 2, 3, 4})

			runCycles(100)

			expected := uint64(1 + cfg.TRCD + cfg.WL + cfg.BL/2)
			Expect(writeDone).To(Equal([]uint64{expected}))
		})

	})

	Context("close page", func() {
		JustBeforeEach(func() {
			cfg.RowBufferPolicy = conf.ClosePage
			sys = buildTestSystem(cfg)
			sys.RegisterCallbacks(record, nil, nil)
		})

		It("should auto-precharge after every column access", func() {
			sys.AddTransaction(false, makeAddr(cfg, 0, 0, 3, 0), nil)
			sys.Update()
			sys.AddTransaction(false, makeAddr(cfg, 0, 0, 3, 8), nil)

			runUntilReturns(2, 1000)

			// Every access pays a fresh activate; the second one waits
			// out the first activate's tRC.
			first := uint64(1 + cfg.TRCD + cfg.CL + cfg.BL/2)
			second := uint64(1 + cfg.TRC + cfg.TRCD + cfg.CL + cfg.BL/2)
			Expect(returns).To(Equal([]uint64{first, second}))

			ctrl := sys.Channels()[0].Controller()
			Expect(ctrl.totalRowBufferMisses()).To(Equal(uint64(2)))
			Expect(ctrl.totalRowBufferHits()).To(Equal(uint64(0)))
		})
	})

	Context("low power", func() {
		JustBeforeEach(func() {
			cfg.UseLowPower = true
			sys = buildTestSystem(cfg)
			sys.RegisterCallbacks(record, nil, nil)
		})

		It("should power an idle rank down and wake it for work", func() {
			runCycles(50)

			ctrl := sys.Channels()[0].Controller()
			Expect(ctrl.powerDown[0]).To(BeTrue())
			Expect(ctrl.bankStates[0][0].State).To(Equal(org.PowerDown))

			sys.AddTransaction(false, makeAddr(cfg, 0, 0, 3, 0), nil)
			runUntilReturns(1, 500)

			// Wake costs tXP before the activate may issue.
			expected := uint64(50 + cfg.TXP + cfg.TRCD + cfg.CL + cfg.BL/2)
			Expect(returns).To(Equal([]uint64{expected}))
			Expect(ctrl.powerDown[0]).To(BeFalse())
		})
	})

	Context("backpressure", func() {
		JustBeforeEach(func() {
			cfg.TransQueueDepth = 4
			sys = buildTestSystem(cfg)
			sys.RegisterCallbacks(record, nil, nil)
		})

		It("should reject transactions when the queue is full", func() {
			for i := 0; i < 4; i++ {
				ok := sys.AddTransaction(false,
					makeAddr(cfg, 0, i, 3, 0), nil)
				Expect(ok).To(BeTrue())
			}

			Expect(sys.WillAcceptTransaction(0)).To(BeFalse())
			Expect(sys.AddTransaction(false,
				makeAddr(cfg, 0, 4, 3, 0), nil)).To(BeFalse())

			// One admission per cycle frees a slot.
			sys.Update()
			Expect(sys.AddTransaction(false,
				makeAddr(cfg, 0, 4, 3, 0), nil)).To(BeTrue())
		})
	})

	Context("refresh", func() {
		refreshCycles := uint64(300)

		JustBeforeEach(func() {
			cfg.RefreshPeriod = float64(refreshCycles) * cfg.TCK
			sys = buildTestSystem(cfg)
			sys.RegisterCallbacks(record, nil, nil)
		})

		It("should refresh once per refresh period", func() {
			runCycles(1000)

			ctrl := sys.Channels()[0].Controller()
			unit := uint64((cfg.IDD5 - cfg.IDD3N) * cfg.TRFC * cfg.NumDevices)
			Expect(ctrl.refreshEnergy[0]).To(Equal(3 * unit))
		})

		It("should hold reads back until the refresh completes", func() {
			// Admitted one cycle before the refresh gate opens; the
			// REFRESH preempts the activate.
			runCycles(refreshCycles - 1)
			sys.AddTransaction(false, makeAddr(cfg, 0, 0, 3, 0), nil)

			runUntilReturns(1, 2000)

			expected := refreshCycles +
				uint64(cfg.TRFC+cfg.TRCD+cfg.CL+cfg.BL/2)
			Expect(returns).To(Equal([]uint64{expected}))

			ctrl := sys.Channels()[0].Controller()
			Expect(ctrl.refreshEnergy[0]).NotTo(BeZero())
		})

		It("should enter the refreshing state on every bank", func() {
			runCycles(refreshCycles + 1)

			ctrl := sys.Channels()[0].Controller()
			for b := 0; b < cfg.NumBanks; b++ {
				Expect(ctrl.bankStates[0][b].State).To(Equal(org.Refreshing))
			}
		})
	})

	Context("SMART STT-MRAM", func() {
		JustBeforeEach(func() {
			cfg.Technology = conf.TechSmartMRAM
			sys = buildTestSystem(cfg)
			sys.RegisterCallbacks(record, nil, nil)
		})

		It("should not charge activate energy on ACTIVATE", func() {
			sys.AddTransaction(false, makeAddr(cfg, 0, 0, 3, 0), nil)

			// ACT issues at cycle 1; sensing is deferred.
			runCycles(2)
			ctrl := sys.Channels()[0].Controller()
			Expect(ctrl.actpreEnergy[0]).To(BeZero())

			runUntilReturns(1, 1000)
			Expect(ctrl.actpreEnergy[0]).To(Equal(ctrl.actpreEnergyPerOp()))
		})

		It("should skip tRCD entirely", func() {
			sys.AddTransaction(false, makeAddr(cfg, 0, 0, 3, 0), nil)

			runUntilReturns(1, 1000)

			// ACT at 1, READ the next cycle, no row-to-column delay.
			expected := uint64(2 + cfg.CL + cfg.BL/2)
			Expect(returns).To(Equal([]uint64{expected}))
		})

		It("should close and reopen rows without restore time", func() {
			sys.AddTransaction(false, makeAddr(cfg, 0, 0, 3, 0), nil)
			sys.Update()
			sys.AddTransaction(false, makeAddr(cfg, 0, 0, 4, 0), nil)

			runUntilReturns(2, 1000)

			first := uint64(2 + cfg.CL + cfg.BL/2)

			// PRECHARGE waits only for the read-to-precharge window,
			// then ACTIVATE and READ follow on consecutive cycles.
			preCycle := uint64(2 + readToPreDelay(cfg))
			second := preCycle + 2 + uint64(cfg.CL+cfg.BL/2)
			Expect(returns).To(Equal([]uint64{first, second}))
		})

		It("should charge the same sensing energy as conventional",
			func() {
				smartCtrl := sys.Channels()[0].Controller()

				convCfg := testConfig()
				convSys := buildTestSystem(convCfg)
				convReturns := 0
				convSys.RegisterCallbacks(
					func(int, uint64, uint64) { convReturns++ }, nil, nil)

				addr := makeAddr(cfg, 0, 0, 3, 0)
				sys.AddTransaction(false, addr, nil)
				convSys.AddTransaction(false, addr, nil)

				runUntilReturns(1, 1000)
				for convReturns < 1 && convSys.CurrentCycle() < 1000 {
					convSys.Update()
				}

				convCtrl := convSys.Channels()[0].Controller()
				Expect(smartCtrl.actpreEnergy[0]).
					To(Equal(convCtrl.actpreEnergy[0]))
			})
	})
})

// readToPreDelay mirrors the derived read-to-precharge delay for test
// arithmetic.
func readToPreDelay(cfg *conf.Config) uint64 {
	return uint64(cfg.AL + cfg.BL/2 + maxInt(cfg.TRTP, cfg.TCCD) - cfg.TCCD)
}

var _ = Describe("MemoryController with a mocked command queue", func() {
	var (
		mockCtrl *gomock.Controller
		cmdQueue *MockCommandQueue
		ctrl     *MemoryController
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		cmdQueue = NewMockCommandQueue(mockCtrl)

		sys := buildTestSystem(testConfig())
		ctrl = sys.Channels()[0].Controller()
		ctrl.commandQueue = cmdQueue
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should leave the command bus empty when nothing is issuable",
		func() {
			cmdQueue.EXPECT().Pop(gomock.Any()).Return(nil, false)
			cmdQueue.EXPECT().Step()

			ctrl.Update()

			Expect(ctrl.outgoingCmdPacket).To(BeNil())
		})

	It("should schedule the write data twin WL cycles out", func() {
		pkt := &signal.BusPacket{
			Kind:    signal.Write,
			Address: 0x40,
			Rank:    0,
			Bank:    0,
			Payload: []byte{1, 2, 3, 4},
		}

		cmdQueue.EXPECT().Pop(gomock.Any()).Return(pkt, true)
		cmdQueue.EXPECT().Step()

		ctrl.Update()

		Expect(ctrl.outgoingCmdPacket).To(BeIdenticalTo(pkt))
		Expect(ctrl.writeDataToSend).To(HaveLen(1))
		Expect(ctrl.writeDataCountdown).To(Equal([]int{ctrl.cfg.WL}))
	})
})
