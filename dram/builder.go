package dram

import (
	"io"
	"os"

	"github.com/sarchlab/mramsim/conf"
	"github.com/sarchlab/mramsim/dram/internal/addressmapping"
	"github.com/sarchlab/mramsim/dram/internal/org"
	"github.com/sarchlab/mramsim/stats"
)

// Builder can build memory systems.
type Builder struct {
	cfg      *conf.Config
	csvOut   *stats.CSVWriter
	recorder stats.Recorder
	summary  io.Writer
}

// MakeBuilder creates a builder with the default configuration.
func MakeBuilder() Builder {
	return Builder{
		cfg:     conf.DefaultConfig(),
		summary: os.Stdout,
	}
}

// WithConfig sets the configuration the system is built from.
func (b Builder) WithConfig(cfg *conf.Config) Builder {
	b.cfg = cfg
	return b
}

// WithCSVOutput directs the epoch statistics to a CSV writer.
func (b Builder) WithCSVOutput(w *stats.CSVWriter) Builder {
	b.csvOut = w
	return b
}

// WithRecorder directs the epoch statistics to a database recorder.
func (b Builder) WithRecorder(r stats.Recorder) Builder {
	b.recorder = r
	return b
}

// WithSummaryWriter sets where the human-readable epoch summary goes.
func (b Builder) WithSummaryWriter(w io.Writer) Builder {
	b.summary = w
	return b
}

// Build creates the multi-channel memory system. The configuration
// must already be validated; an inconsistent one panics here.
func (b Builder) Build() *MultiChannelSystem {
	if err := b.cfg.Validate(); err != nil {
		panic(err)
	}

	timing := b.cfg.DeriveTiming()

	mapper := addressmapping.MakeBuilder().
		WithScheme(b.cfg.AddressMappingScheme).
		WithBusBits(b.cfg.JEDECDataBusBits).
		WithBurstLength(b.cfg.BL).
		WithNumChannel(b.cfg.NumChans).
		WithNumRank(b.cfg.NumRanks).
		WithNumBank(b.cfg.NumBanks).
		WithNumRow(b.cfg.NumRows).
		WithNumCol(b.cfg.NumCols).
		Build()

	if b.recorder != nil {
		b.recorder.CreateTable(bankStatsTable, stats.BankStatsEntry{})
		b.recorder.CreateTable(rankPowerTable, stats.RankPowerEntry{})
	}

	m := &MultiChannelSystem{
		cfg:    b.cfg,
		mapper: mapper,
	}

	for ch := 0; ch < b.cfg.NumChans; ch++ {
		m.channels = append(m.channels, b.buildChannel(ch, timing, mapper))
	}

	return m
}

func (b Builder) buildChannel(
	id int,
	timing conf.Timing,
	mapper addressmapping.Mapper,
) *MemorySystem {
	s := &MemorySystem{
		systemID: id,
		cfg:      b.cfg,
		timing:   timing,
		csvOut:   b.csvOut,
		recorder: b.recorder,
		summary:  b.summary,
	}

	s.ranks = make([]*org.Rank, b.cfg.NumRanks)
	for r := 0; r < b.cfg.NumRanks; r++ {
		s.ranks[r] = org.NewRank(r, b.cfg, timing)
	}

	s.ctrl = newMemoryController(s, b.cfg, timing, mapper, s.ranks)

	for _, r := range s.ranks {
		r.SetController(s.ctrl)
	}

	return s
}
