package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "javafmt",
		Short: "A Java source code formatter",
	}

	var configPath string
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file (defaults built in)")

	rootCmd.AddCommand(newLintCmd(&configPath))
	rootCmd.AddCommand(newFixCmd(&configPath))
	rootCmd.AddCommand(newBatchCmd(&configPath))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
