package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "1.0.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Display the current version of the backtester CLI.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("backtester version %s\n", version)
		fmt.Println("A deterministic trading strategy backtesting engine")
		fmt.Println("https://github.com/rustyeddy/backtester")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
