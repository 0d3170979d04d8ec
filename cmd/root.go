package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quietbit/cellar/cmd/sim"
	"github.com/quietbit/cellar/lib/store"
)

const (
	Version = "0.3.1"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "cellar",
		Short: "contract storage accounting and lazy deletion engine",
		Long: fmt.Sprintf(`cellar (v%s)

A per-contract key-value storage accounting and lazy-deletion engine:
exact bookkeeping on every mutation, bounded namespace decommissioning
across scheduling ticks.`, Version),
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of cellar",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("cellar v%s\n", Version)
		},
	}

	infoCmd = &cobra.Command{
		Use:   "info",
		Short: "Print the available store engines and their properties",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("cellar v%s\n\navailable store engines:\n\n", Version)
			for _, e := range []struct {
				engine      store.EngineType
				description string
			}{
				{store.EngineMem, "in-memory, concurrent maps, no persistence"},
				{store.EngineLdb, "leveldb backed, persistent, single process"},
			} {
				fmt.Printf("  %-4s %s\n", e.engine, e.description)
			}
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(sim.SimCmd)
	RootCmd.AddCommand(versionCmd)
	RootCmd.AddCommand(infoCmd)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
