package org

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/mramsim/conf"
	"github.com/sarchlab/mramsim/dram/internal/signal"
)

// captureReceiver records the packets a rank puts on the bus.
type captureReceiver struct {
	packets []*signal.BusPacket
}

func (c *captureReceiver) ReceiveFromBus(p *signal.BusPacket) {
	c.packets = append(c.packets, p)
}

var _ = Describe("Rank", func() {
	var (
		cfg      *conf.Config
		timing   conf.Timing
		rank     *Rank
		receiver *captureReceiver
	)

	BeforeEach(func() {
		cfg = conf.DefaultConfig()
		timing = cfg.DeriveTiming()
		rank = NewRank(0, cfg, timing)
		receiver = &captureReceiver{}
		rank.SetController(receiver)
	})

	It("should return read data after the access latency", func() {
		rank.ReceiveFromBus(&signal.BusPacket{
			Kind:    signal.Read,
			Address: 0x1000,
			Rank:    0,
			Bank:    2,
		})

		wait := timing.RL - cfg.TCMD
		for i := 0; i < wait-1; i++ {
			rank.Update()
			Expect(receiver.packets).To(BeEmpty())
		}

		rank.Update()
		Expect(receiver.packets).To(HaveLen(1))

		data := receiver.packets[0]
		Expect(data.Kind).To(Equal(signal.Data))
		Expect(data.Address).To(Equal(uint64(0x1000)))
		Expect(data.Bank).To(Equal(2))
		Expect(data.Payload).To(HaveLen(cfg.BytesPerTransaction()))
	})

	It("should deliver back-to-back read returns in issue order", func() {
		rank.ReceiveFromBus(&signal.BusPacket{
			Kind: signal.Read, Address: 0x1000, Rank: 0, Bank: 0,
		})

		for i := 0; i < cfg.BL/2; i++ {
			rank.Update()
		}

		rank.ReceiveFromBus(&signal.BusPacket{
			Kind: signal.Read, Address: 0x2000, Rank: 0, Bank: 1,
		})

		for i := 0; i < 2*timing.RL; i++ {
			rank.Update()
		}

		Expect(receiver.packets).To(HaveLen(2))
		Expect(receiver.packets[0].Address).To(Equal(uint64(0x1000)))
		Expect(receiver.packets[1].Address).To(Equal(uint64(0x2000)))
	})

	It("should store write data and read it back", func() {
		payload := []byte{0xca, 0xfe}

		rank.ReceiveFromBus(&signal.BusPacket{
			Kind:    signal.Data,
			Address: 0x40,
			Rank:    0,
			Bank:    1,
			Payload: payload,
		})

		rank.ReceiveFromBus(&signal.BusPacket{
			Kind:    signal.Read,
			Address: 0x40,
			Rank:    0,
			Bank:    1,
		})

		for i := 0; i < timing.RL; i++ {
			rank.Update()
		}

		Expect(receiver.packets).To(HaveLen(1))
		Expect(receiver.packets[0].Payload[:2]).To(Equal(payload))
	})

	It("should clear the refresh flag when the refresh arrives", func() {
		rank.RefreshWaiting = true

		rank.ReceiveFromBus(&signal.BusPacket{Kind: signal.Refresh})

		Expect(rank.RefreshWaiting).To(BeFalse())
	})

	It("should toggle the power state", func() {
		Expect(rank.PoweredDown()).To(BeFalse())

		rank.PowerDown()
		Expect(rank.PoweredDown()).To(BeTrue())

		rank.PowerUp()
		Expect(rank.PoweredDown()).To(BeFalse())
	})

	It("should reject packets addressed to another rank", func() {
		Expect(func() {
			rank.ReceiveFromBus(&signal.BusPacket{
				Kind: signal.Read, Rank: 3,
			})
		}).To(Panic())
	})
})
