package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "awvm",
	Short: "awvm runs the Another World virtual machine headlessly",
	Long:  "awvm loads a game's MEMLIST.BIN and bank files and drives the interpreter tic by tic, dumping frames to disk instead of opening a window.",
}

func init() {
	rootCmd.AddCommand(runCmd)
}

// Execute runs awvm according to the chosen subcommand and flags.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
