package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Oussama2008x/kuru-nexus-swap/internal/telemetry"
)

var logsN int

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show recent log lines from this process",
	RunE: func(cmd *cobra.Command, args []string) error {
		lines := telemetry.Tail(logsN)
		if len(lines) == 0 {
			printInfo("No log lines recorded.")
			return nil
		}
		for _, line := range lines {
			fmt.Println(line)
		}
		return nil
	},
}

func init() {
	logsCmd.Flags().IntVarP(&logsN, "lines", "n", 50, "Number of lines to show")
	rootCmd.AddCommand(logsCmd)
}
