// Package main provides the dmp CLI entrypoint.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/HBPMedical/mip-dmp/internal/audit"
	"github.com/HBPMedical/mip-dmp/internal/config"
)

var (
	version     = "1.0.0"
	auditLogger *audit.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "dmp",
		Short: "MIP Dataset Mapper - map tabular datasets onto a CDE schema",
		Long: `dmp maps the columns of an arbitrary tabular dataset onto a fixed
schema of Common Data Elements (CDEs), re-coding categorical values and
converting types along the way.

Typical flow:
  dmp match    -s data.csv -c cdes.csv -o mapping.json   # propose a mapping
  dmp edit     -s data.csv -c cdes.csv -m mapping.json   # refine interactively
  dmp validate -m mapping.json -c cdes.csv               # check invariants
  dmp apply    -s data.csv -m mapping.json -c cdes.csv -o out.csv`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if config.Env().NoColor {
				color.NoColor = true
			}
			auditLogger = audit.NewLogger("")
		},
	}

	rootCmd.AddCommand(
		applyCmd(),
		matchCmd(),
		validateCmd(),
		schemaCmd(),
		inspectCmd(),
		editCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the dmp version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("dmp %s\n", version)
		},
	}
}
