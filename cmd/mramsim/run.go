package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/mramsim/conf"
	"github.com/sarchlab/mramsim/dram"
	"github.com/sarchlab/mramsim/monitoring"
	"github.com/sarchlab/mramsim/stats"
	"github.com/sarchlab/mramsim/trace"
)

var runFlags = struct {
	deviceProfile string
	systemProfile string
	traceFile     string
	maxCycles     uint64

	csvPath     string
	sqlitePath  string
	useSQLite   bool
	useMySQL    bool
	quiet       bool
	monitor     bool
	monitorPort int
	openBrowser bool
}{}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Replay a memory trace against the simulated memory system",
	Run: func(cmd *cobra.Command, args []string) {
		run()
	},
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runFlags.deviceProfile, "device", "",
		"device profile file (timing, currents, technology)")
	runCmd.Flags().StringVar(&runFlags.systemProfile, "system", "",
		"system profile file (topology, policies)")
	runCmd.Flags().StringVar(&runFlags.traceFile, "trace", "",
		"trace file to replay")
	runCmd.Flags().Uint64Var(&runFlags.maxCycles, "cycles", 0,
		"stop after this many cycles (0 = run the whole trace)")

	runCmd.Flags().StringVar(&runFlags.csvPath, "vis", "",
		"write epoch statistics and histograms to this CSV file")
	runCmd.Flags().BoolVar(&runFlags.useSQLite, "sqlite", false,
		"record epoch statistics into a SQLite database")
	runCmd.Flags().StringVar(&runFlags.sqlitePath, "sqlite-path", "",
		"SQLite database name (default: generated)")
	runCmd.Flags().BoolVar(&runFlags.useMySQL, "mysql", false,
		"record epoch statistics into a MySQL database")
	runCmd.Flags().BoolVar(&runFlags.quiet, "quiet", false,
		"suppress the per-epoch summary")
	runCmd.Flags().BoolVar(&runFlags.monitor, "monitor", false,
		"serve live simulation state over HTTP")
	runCmd.Flags().IntVar(&runFlags.monitorPort, "monitor-port", 0,
		"monitoring server port (default: random)")
	runCmd.Flags().BoolVar(&runFlags.openBrowser, "open-browser", false,
		"open the monitoring page in a browser")

	runCmd.MarkFlagRequired("trace")
}

func run() {
	// A .env file can carry the MRAMSIM_STATS_* credentials and
	// default profile locations.
	godotenv.Load()

	if runFlags.deviceProfile == "" {
		runFlags.deviceProfile = os.Getenv("MRAMSIM_DEVICE_INI")
	}
	if runFlags.systemProfile == "" {
		runFlags.systemProfile = os.Getenv("MRAMSIM_SYSTEM_INI")
	}

	cfg := loadConfig()
	sys := buildSystem(cfg)
	harness := trace.NewHarness(sys)

	if runFlags.monitor {
		startMonitor(sys, harness)
	}

	if err := harness.RunFile(runFlags.traceFile, runFlags.maxCycles); err != nil {
		fatal("trace replay failed: %s", err)
	}

	sys.PrintStats(true)
	atexit.Exit(0)
}

func loadConfig() *conf.Config {
	cfg := conf.DefaultConfig()

	if runFlags.deviceProfile != "" {
		if err := conf.LoadDeviceProfile(runFlags.deviceProfile, cfg); err != nil {
			fatal("%s", err)
		}
	}

	if runFlags.systemProfile != "" {
		if err := conf.LoadSystemProfile(runFlags.systemProfile, cfg); err != nil {
			fatal("%s", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		fatal("invalid configuration: %s", err)
	}

	return cfg
}

func buildSystem(cfg *conf.Config) *dram.MultiChannelSystem {
	builder := dram.MakeBuilder().WithConfig(cfg)

	if runFlags.quiet {
		devNull, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
		if err != nil {
			fatal("%s", err)
		}
		builder = builder.WithSummaryWriter(devNull)
	}

	if runFlags.csvPath != "" {
		f, err := os.Create(runFlags.csvPath)
		if err != nil {
			fatal("cannot create CSV output: %s", err)
		}
		atexit.Register(func() { f.Close() })

		builder = builder.WithCSVOutput(stats.NewCSVWriter(f))
	}

	switch {
	case runFlags.useMySQL:
		builder = builder.WithRecorder(stats.NewMySQLRecorder())
	case runFlags.useSQLite:
		builder = builder.WithRecorder(stats.NewRecorder(runFlags.sqlitePath))
	}

	return builder.Build()
}

func startMonitor(
	sys *dram.MultiChannelSystem,
	harness *trace.Harness,
) {
	monitor := monitoring.NewMonitor().
		WithPortNumber(runFlags.monitorPort)

	monitor.RegisterClock(sys)
	for _, channel := range sys.Channels() {
		monitor.RegisterComponent(channel)
	}

	progress := monitor.TrackReplay("Trace replay", 0)
	harness.Progress = func(issued uint64) {
		progress.Update(issued, harness.ReadsReturned())
	}

	monitor.StartServer(runFlags.openBrowser)
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	atexit.Exit(1)
}
