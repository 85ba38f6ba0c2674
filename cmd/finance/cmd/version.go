package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "1.0.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Display the current version of the finance CLI.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("finance version %s\n", version)
		fmt.Println("A personal finance ledger backed by SQLite")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
