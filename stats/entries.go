package stats

// BankStatsEntry is one per-bank row of an epoch dump.
type BankStatsEntry struct {
	Cycle           uint64
	Channel         int
	Rank            int
	Bank            int
	Reads           uint64
	Writes          uint64
	BandwidthGBs    float64
	AvgLatencyNs    float64
	RowBufferHits   uint64
	RowBufferMisses uint64
}

// RankPowerEntry is one per-rank power row of an epoch dump.
type RankPowerEntry struct {
	Cycle           uint64
	Channel         int
	Rank            int
	BackgroundWatts float64
	BurstWatts      float64
	RefreshWatts    float64
	ActPreWatts     float64
	AverageWatts    float64
}
