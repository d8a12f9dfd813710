package trace

import (
	"fmt"
	"io"
	"os"

	"github.com/sarchlab/mramsim/dram"
)

// Harness replays a trace against a memory system, acting as the CPU
// model: it issues each record at its cycle, retries on backpressure,
// and waits for all reads to return and all writes to complete.
type Harness struct {
	sys *dram.MultiChannelSystem

	outstandingReads  uint64
	outstandingWrites uint64
	readsReturned     uint64
	writesDone        uint64

	// Progress is called once per issued record when set.
	Progress func(issued uint64)
}

// NewHarness creates a harness over the given memory system. It
// installs its own completion callbacks.
func NewHarness(sys *dram.MultiChannelSystem) *Harness {
	h := &Harness{sys: sys}

	sys.RegisterCallbacks(h.readReturned, h.writeDone, nil)

	return h
}

func (h *Harness) readReturned(_ int, _ uint64, _ uint64) {
	h.outstandingReads--
	h.readsReturned++
}

func (h *Harness) writeDone(_ int, _ uint64, _ uint64) {
	h.outstandingWrites--
	h.writesDone++
}

// ReadsReturned reports how many reads have completed.
func (h *Harness) ReadsReturned() uint64 {
	return h.readsReturned
}

// Run replays the trace until it is exhausted, all reads returned, and
// all writes completed, or until maxCycles elapse when maxCycles is
// nonzero.
func (h *Harness) Run(r *Reader, maxCycles uint64) error {
	rec, err := r.Next()
	pending := err == nil
	if err != nil && err != io.EOF {
		return err
	}

	issued := uint64(0)
	traceDone := !pending

	for {
		now := h.sys.CurrentCycle()

		if maxCycles > 0 && now >= maxCycles {
			break
		}

		if traceDone && h.outstandingReads == 0 &&
			h.outstandingWrites == 0 {
			break
		}

		// Issue every record that is due, in trace order, stalling on
		// backpressure.
		for pending && rec.Cycle <= now {
			if !h.sys.AddTransaction(rec.IsWrite, rec.Address, nil) {
				break
			}

			if rec.IsWrite {
				h.outstandingWrites++
			} else {
				h.outstandingReads++
			}

			issued++
			if h.Progress != nil {
				h.Progress(issued)
			}

			rec, err = r.Next()
			if err == io.EOF {
				pending = false
				traceDone = true
			} else if err != nil {
				return err
			}
		}

		h.sys.Update()
	}

	if h.outstandingReads > 0 {
		fmt.Fprintf(os.Stderr,
			"trace replay stopped with %d reads outstanding\n",
			h.outstandingReads)
	}

	return nil
}

// RunFile replays the named trace file.
func (h *Harness) RunFile(path string, maxCycles uint64) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return h.Run(NewReader(f), maxCycles)
}
