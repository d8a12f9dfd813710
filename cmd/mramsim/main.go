// Command mramsim runs the trace-driven memory-system simulator.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any
// subcommands.
var rootCmd = &cobra.Command{
	Use: "mramsim",
	Short: "mramsim simulates DRAM and STT-MRAM memory systems with " +
		"cycle accuracy.",
	Long: `mramsim replays memory traces against a cycle-accurate model of ` +
		`a JEDEC-style memory system. The device profile selects the ` +
		`technology (conventional DRAM or SMART STT-MRAM) along with the ` +
		`timing and current constants; the system profile selects the ` +
		`topology and the scheduling policies.`,
}

func main() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
