package dram

import (
	"fmt"
	"io"
	"sort"

	"github.com/sarchlab/mramsim/stats"
)

// totalRowBufferHits sums the hit counters over the whole channel.
func (mc *MemoryController) totalRowBufferHits() uint64 {
	total := uint64(0)

	for r := 0; r < mc.cfg.NumRanks; r++ {
		for b := 0; b < mc.cfg.NumBanks; b++ {
			total += mc.commandQueue.RowBufferHits(r, b)
		}
	}

	return total
}

// totalRowBufferMisses sums the activate counters over the whole
// channel.
func (mc *MemoryController) totalRowBufferMisses() uint64 {
	total := uint64(0)

	for r := 0; r < mc.cfg.NumRanks; r++ {
		for b := 0; b < mc.cfg.NumBanks; b++ {
			total += mc.commandQueue.RowBufferMisses(r, b)
		}
	}

	return total
}

func (mc *MemoryController) rowBufferHitRate() float64 {
	hits := mc.totalRowBufferHits()
	misses := mc.totalRowBufferMisses()

	if hits+misses == 0 {
		return 0
	}

	return float64(hits) / float64(hits+misses) * 100
}

// resetStats clears the per-epoch counters, folding the bank accesses
// into the grand totals first.
func (mc *MemoryController) resetStats() {
	for r := 0; r < mc.cfg.NumRanks; r++ {
		for b := 0; b < mc.cfg.NumBanks; b++ {
			idx := mc.seqIdx(r, b)
			mc.grandTotalBankAccesses[idx] +=
				mc.totalReadsPerBank[idx] + mc.totalWritesPerBank[idx]
			mc.totalReadsPerBank[idx] = 0
			mc.totalWritesPerBank[idx] = 0
			mc.totalEpochLatency[idx] = 0
		}

		mc.backgroundEnergy[r] = 0
		mc.burstEnergy[r] = 0
		mc.actpreEnergy[r] = 0
		mc.refreshEnergy[r] = 0
		mc.totalReadsPerRank[r] = 0
		mc.totalWritesPerRank[r] = 0
	}

	mc.commandQueue.ResetRowBufferStats()
}

// PrintStats reports one epoch (or the final partial epoch) to the
// summary writer, the CSV sink, the recorder, and the power callback,
// then resets the epoch counters.
//
//nolint:funlen,gocyclo
func (mc *MemoryController) PrintStats(finalStats bool) {
	cfg := mc.cfg
	channel := mc.parent.systemID

	cyclesElapsed := mc.currentClockCycle % cfg.EpochLength
	if cyclesElapsed == 0 {
		cyclesElapsed = cfg.EpochLength
	}

	bytesPerTransaction := uint64(cfg.BytesPerTransaction())
	totalBytesTransferred := mc.totalTransactions * bytesPerTransaction
	secondsThisEpoch := float64(cyclesElapsed) * cfg.TCK * 1e-9

	bandwidth := make([]float64, cfg.NumRanks*cfg.NumBanks)
	averageLatency := make([]float64, cfg.NumRanks*cfg.NumBanks)

	totalBandwidth := 0.0
	for r := 0; r < cfg.NumRanks; r++ {
		for b := 0; b < cfg.NumBanks; b++ {
			idx := mc.seqIdx(r, b)
			accesses := mc.totalReadsPerBank[idx] + mc.totalWritesPerBank[idx]

			bandwidth[idx] = float64(accesses*bytesPerTransaction) /
				(1024 * 1024 * 1024) / secondsThisEpoch

			if mc.totalReadsPerBank[idx] > 0 {
				averageLatency[idx] = float64(mc.totalEpochLatency[idx]) /
					float64(mc.totalReadsPerBank[idx]) * cfg.TCK
			}

			totalBandwidth += bandwidth[idx]
			mc.totalReadsPerRank[r] += mc.totalReadsPerBank[idx]
			mc.totalWritesPerRank[r] += mc.totalWritesPerBank[idx]
		}
	}

	out := mc.parent.summary
	fmt.Fprintf(out, " =======================================================\n")
	fmt.Fprintf(out, " ============== Printing Statistics [id:%d] ==============\n",
		channel)
	fmt.Fprintf(out, "   Total Return Transactions : %d (%d bytes)\n",
		mc.totalTransactions, totalBytesTransferred)
	fmt.Fprintf(out, "   Aggregate Average Bandwidth : %.3f GB/s\n",
		totalBandwidth)
	fmt.Fprintf(out, "   Row Buffer Hits / Misses  : %d / %d (%.3f%% hit)\n",
		mc.totalRowBufferHits(), mc.totalRowBufferMisses(),
		mc.rowBufferHitRate())

	for r := 0; r < cfg.NumRanks; r++ {
		fmt.Fprintf(out, "      -Rank %d:\n", r)
		fmt.Fprintf(out, "        -Reads  : %d (%d bytes)\n",
			mc.totalReadsPerRank[r],
			mc.totalReadsPerRank[r]*bytesPerTransaction)
		fmt.Fprintf(out, "        -Writes : %d (%d bytes)\n",
			mc.totalWritesPerRank[r],
			mc.totalWritesPerRank[r]*bytesPerTransaction)

		for b := 0; b < cfg.NumBanks; b++ {
			idx := mc.seqIdx(r, b)
			fmt.Fprintf(out,
				"        -Bandwidth / Latency (Bank %d): %.3f GB/s, %.3f ns\n",
				b, bandwidth[idx], averageLatency[idx])
		}

		mc.reportRankPower(r, cyclesElapsed, out)
	}

	if mc.parent.csvOut != nil {
		mc.writeEpochCSV(channel, bandwidth, averageLatency, cyclesElapsed)
	}

	if mc.parent.recorder != nil {
		mc.recordEpoch(channel, bandwidth, averageLatency, cyclesElapsed)
	}

	if finalStats {
		mc.printHistograms(out)
		mc.printGrandTotals(out)
	}

	fmt.Fprintf(out, " == Pending Transactions : %d (cycle %d) ==\n",
		len(mc.pendingReadTransactions), mc.currentClockCycle)

	mc.resetStats()
}

// rankPower converts the rank's energy accumulators into watts. The
// factor of 1000 accounts for the IDD values being in mA.
func (mc *MemoryController) rankPower(
	rank int,
	cyclesElapsed uint64,
) (background, burst, refresh, actpre float64) {
	vdd := mc.cfg.Vdd
	cycles := float64(cyclesElapsed)

	background = float64(mc.backgroundEnergy[rank]) / cycles * vdd / 1000
	burst = float64(mc.burstEnergy[rank]) / cycles * vdd / 1000
	refresh = float64(mc.refreshEnergy[rank]) / cycles * vdd / 1000
	actpre = float64(mc.actpreEnergy[rank]) / cycles * vdd / 1000

	return background, burst, refresh, actpre
}

func (mc *MemoryController) reportRankPower(
	rank int,
	cyclesElapsed uint64,
	out io.Writer,
) {
	background, burst, refresh, actpre := mc.rankPower(rank, cyclesElapsed)
	average := background + burst + refresh + actpre

	fmt.Fprintf(out, " == Power Data for Rank %d\n", rank)
	fmt.Fprintf(out, "   Average Power (watts)   : %.3f\n", average)
	fmt.Fprintf(out, "     -Background (watts)   : %.3f\n", background)
	fmt.Fprintf(out, "     -Act/Pre    (watts)   : %.3f\n", actpre)
	fmt.Fprintf(out, "     -Burst      (watts)   : %.3f\n", burst)
	fmt.Fprintf(out, "     -Refresh    (watts)   : %.3f\n", refresh)

	mc.parent.reportPower(background, burst, refresh, actpre)
}

func (mc *MemoryController) writeEpochCSV(
	channel int,
	bandwidth, averageLatency []float64,
	cyclesElapsed uint64,
) {
	csvOut := mc.parent.csvOut
	totalAggregate := 0.0

	for r := 0; r < mc.cfg.NumRanks; r++ {
		background, burst, refresh, actpre := mc.rankPower(r, cyclesElapsed)

		csvOut.AddEntry(stats.IndexedName("Background_Power", channel, r),
			background)
		csvOut.AddEntry(stats.IndexedName("ACT_PRE_Power", channel, r), actpre)
		csvOut.AddEntry(stats.IndexedName("Burst_Power", channel, r), burst)
		csvOut.AddEntry(stats.IndexedName("Refresh_Power", channel, r), refresh)

		rankBandwidth := 0.0
		for b := 0; b < mc.cfg.NumBanks; b++ {
			idx := mc.seqIdx(r, b)
			csvOut.AddEntry(stats.IndexedName("Bandwidth", channel, r, b),
				bandwidth[idx])
			csvOut.AddEntry(stats.IndexedName("Average_Latency", channel, r, b),
				averageLatency[idx])
			csvOut.AddEntry(
				stats.IndexedName("Row_Buffer_Hits", channel, r, b),
				float64(mc.commandQueue.RowBufferHits(r, b)))
			csvOut.AddEntry(
				stats.IndexedName("Row_Buffer_Misses", channel, r, b),
				float64(mc.commandQueue.RowBufferMisses(r, b)))

			rankBandwidth += bandwidth[idx]
			totalAggregate += bandwidth[idx]
		}

		csvOut.AddEntry(
			stats.IndexedName("Rank_Aggregate_Bandwidth", channel, r),
			rankBandwidth)
	}

	csvOut.AddEntry(stats.IndexedName("Aggregate_Bandwidth", channel),
		totalAggregate)
	csvOut.AddEntry(stats.IndexedName("Average_Bandwidth", channel),
		totalAggregate/float64(mc.cfg.NumRanks*mc.cfg.NumBanks))

	if err := csvOut.EndRow(); err != nil {
		panic(err)
	}
}

func (mc *MemoryController) recordEpoch(
	channel int,
	bandwidth, averageLatency []float64,
	cyclesElapsed uint64,
) {
	recorder := mc.parent.recorder

	for r := 0; r < mc.cfg.NumRanks; r++ {
		for b := 0; b < mc.cfg.NumBanks; b++ {
			idx := mc.seqIdx(r, b)
			recorder.InsertData(bankStatsTable, stats.BankStatsEntry{
				Cycle:           mc.currentClockCycle,
				Channel:         channel,
				Rank:            r,
				Bank:            b,
				Reads:           mc.totalReadsPerBank[idx],
				Writes:          mc.totalWritesPerBank[idx],
				BandwidthGBs:    bandwidth[idx],
				AvgLatencyNs:    averageLatency[idx],
				RowBufferHits:   mc.commandQueue.RowBufferHits(r, b),
				RowBufferMisses: mc.commandQueue.RowBufferMisses(r, b),
			})
		}

		background, burst, refresh, actpre := mc.rankPower(r, cyclesElapsed)
		recorder.InsertData(rankPowerTable, stats.RankPowerEntry{
			Cycle:           mc.currentClockCycle,
			Channel:         channel,
			Rank:            r,
			BackgroundWatts: background,
			BurstWatts:      burst,
			RefreshWatts:    refresh,
			ActPreWatts:     actpre,
			AverageWatts:    background + burst + refresh + actpre,
		})
	}
}

// printHistograms emits both latency histograms, once, at the end of
// the simulation.
func (mc *MemoryController) printHistograms(
	out io.Writer,
) {
	binSize := mc.cfg.HistogramBinSize
	csvOut := mc.parent.csvOut

	fmt.Fprintf(out, " ---  Latency list (%d)\n", len(mc.latencies))
	fmt.Fprintf(out, "       [lat] : #\n")
	if csvOut != nil {
		mustRaw(csvOut, "!!HISTOGRAM_DATA")
	}

	for _, bin := range sortedBins(mc.latencies) {
		fmt.Fprintf(out, "       [%d-%d] : %d\n",
			bin, bin+binSize-1, mc.latencies[bin])
		if csvOut != nil {
			mustRaw(csvOut, fmt.Sprintf("%d=%d", bin, mc.latencies[bin]))
		}
	}

	fmt.Fprintf(out, " ---  Access Latency list (%d)\n",
		len(mc.accessLatencies))
	fmt.Fprintf(out, "       [lat] : #\n")
	if csvOut != nil {
		mustRaw(csvOut, "!!ACCESS_HISTOGRAM_DATA")
	}

	for _, bin := range sortedBins(mc.accessLatencies) {
		fmt.Fprintf(out, "       [%d-%d] : %d\n",
			bin, bin+binSize-1, mc.accessLatencies[bin])
		if csvOut != nil {
			mustRaw(csvOut,
				fmt.Sprintf("ACCESS_%d=%d", bin, mc.accessLatencies[bin]))
		}
	}
}

func (mc *MemoryController) printGrandTotals(
	out io.Writer,
) {
	fmt.Fprintf(out, " --- Grand Total Bank usage list\n")
	for r := 0; r < mc.cfg.NumRanks; r++ {
		fmt.Fprintf(out, "Rank %d:\n", r)
		for b := 0; b < mc.cfg.NumBanks; b++ {
			idx := mc.seqIdx(r, b)
			total := mc.grandTotalBankAccesses[idx] +
				mc.totalReadsPerBank[idx] + mc.totalWritesPerBank[idx]
			fmt.Fprintf(out, "  b%d: %d\n", b, total)
		}
	}
}

func sortedBins(histogram map[uint64]uint64) []uint64 {
	bins := make([]uint64, 0, len(histogram))
	for bin := range histogram {
		bins = append(bins, bin)
	}

	sort.Slice(bins, func(i, j int) bool { return bins[i] < bins[j] })

	return bins
}

func mustRaw(w *stats.CSVWriter, line string) {
	if err := w.Raw(line); err != nil {
		panic(err)
	}
}
