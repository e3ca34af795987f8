package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "1.0.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Display the current version of the sequential CLI.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("sequential version %s\n", version)
		fmt.Println("A sequential exhaustion scanner for OHLC bar series")
		fmt.Println("https://github.com/rustyeddy/sequential")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
