package org

import (
	"log"

	"github.com/sarchlab/mramsim/conf"
	"github.com/sarchlab/mramsim/dram/internal/signal"
)

// A BusReceiver accepts packets delivered over the modeled bus. The
// memory controller implements it for the data return path.
type BusReceiver interface {
	ReceiveFromBus(p *signal.BusPacket)
}

// A Rank executes the commands the controller puts on the command bus
// and drives read data back on the data bus after the access latency.
type Rank struct {
	ID int

	// RefreshWaiting is raised by the controller when the rank is due
	// for a refresh and cleared when the REFRESH command arrives.
	RefreshWaiting bool

	cfg    *conf.Config
	timing conf.Timing

	poweredDown bool
	banks       []*Bank

	controller          BusReceiver
	readReturn          []*signal.BusPacket
	readReturnCountdown []int
}

// NewRank creates a rank with the given position in the channel.
func NewRank(id int, cfg *conf.Config, timing conf.Timing) *Rank {
	banks := make([]*Bank, cfg.NumBanks)
	for i := range banks {
		banks[i] = NewBank()
	}

	return &Rank{
		ID:     id,
		cfg:    cfg,
		timing: timing,
		banks:  banks,
	}
}

// SetController registers the controller that receives read data.
func (r *Rank) SetController(c BusReceiver) {
	r.controller = c
}

// PoweredDown reports whether the rank is in the power-down state.
func (r *Rank) PoweredDown() bool {
	return r.poweredDown
}

// PowerDown puts the rank into the low-power state.
func (r *Rank) PowerDown() {
	r.poweredDown = true
}

// PowerUp returns the rank to the active-standby state.
func (r *Rank) PowerUp() {
	r.poweredDown = false
}

// ReceiveFromBus executes one command packet. Ownership of the packet
// transfers to the rank; it is dropped after its one-shot effect.
func (r *Rank) ReceiveFromBus(p *signal.BusPacket) {
	if p.Rank != r.ID && p.Kind != signal.Refresh {
		log.Panicf("rank %d received a packet for rank %d", r.ID, p.Rank)
	}

	switch p.Kind {
	case signal.Activate, signal.Precharge:
		// Row decode and restore are tracked by the controller's bank
		// state matrix; the rank itself has nothing to latch.

	case signal.Read, signal.ReadP:
		r.startReadReturn(p)

	case signal.Write, signal.WriteP:
		// Data follows on the data bus after WL.

	case signal.Data:
		r.banks[p.Bank].Write(p.Address, p.Payload)

	case signal.Refresh:
		r.RefreshWaiting = false

	default:
		log.Panicf("rank %d received unexpected packet kind %s", r.ID, p.Kind)
	}
}

// startReadReturn schedules the data packet for a column read. The
// command spent tCMD on the command bus, so the remaining wait is
// RL - tCMD.
func (r *Rank) startReadReturn(p *signal.BusPacket) {
	data := r.banks[p.Bank].Read(p.Address, r.cfg.BytesPerTransaction())

	wait := r.timing.RL - r.cfg.TCMD
	if wait < 1 {
		wait = 1
	}

	r.readReturn = append(r.readReturn, &signal.BusPacket{
		Kind:    signal.Data,
		Address: p.Address,
		Column:  p.Column,
		Row:     p.Row,
		Rank:    p.Rank,
		Bank:    p.Bank,
		Payload: data,
	})
	r.readReturnCountdown = append(r.readReturnCountdown, wait)
}

// Update advances the rank by one cycle.
func (r *Rank) Update() {
	for i := range r.readReturnCountdown {
		if r.readReturnCountdown[i] > 0 {
			r.readReturnCountdown[i]--
		}
	}

	if len(r.readReturnCountdown) > 0 && r.readReturnCountdown[0] == 0 {
		r.controller.ReceiveFromBus(r.readReturn[0])
		r.readReturn = r.readReturn[1:]
		r.readReturnCountdown = r.readReturnCountdown[1:]
	}
}
