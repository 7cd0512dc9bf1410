package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/HBPMedical/mip-dmp/internal/config"
	"github.com/HBPMedical/mip-dmp/internal/mapping"
	"github.com/HBPMedical/mip-dmp/internal/tui"
)

func editCmd() *cobra.Command {
	var (
		sourcePath  string
		schemaPath  string
		mappingPath string
		outputPath  string
		backend     string
		vectorsPath string
	)

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit a mapping interactively",
		Long: `Open the interactive mapping editor. Every dataset column starts on
its best-matching CDE; retarget entries through the fuzzy CDE picker,
cycle ranked candidates, mark columns unmapped, then validate, save
and apply without leaving the session.`,
		Run: func(cmd *cobra.Command, args []string) {
			event := auditLogger.Start("edit")
			event.Dataset = sourcePath
			event.Mapping = mappingPath

			if !term.IsTerminal(int(os.Stdout.Fd())) {
				exitOnError(event, fmt.Errorf("edit needs an interactive terminal"))
			}

			sch := loadSchema(event, schemaPath)
			ds := loadDataset(event, sourcePath)
			sc := newScorer(event, backend, vectorsPath)

			var prior *mapping.Model
			if mappingPath != "" {
				if _, err := os.Stat(mappingPath); err == nil {
					prior = loadMapping(event, mappingPath)
				}
			}

			sess, err := tui.NewSession(ds, sch, sc, prior, config.Env().Keep)
			if err != nil {
				exitOnError(event, err)
			}
			sess.MappingPath = mappingPath
			sess.OutputPath = outputPath

			if err := tui.Run(sess); err != nil {
				exitOnError(event, err)
			}
			auditLogger.Log(event)
		},
	}

	cmd.Flags().StringVarP(&sourcePath, "source", "s", "", "source dataset CSV (required)")
	cmd.Flags().StringVarP(&schemaPath, "cdes", "c", "", "CDE schema CSV (required)")
	cmd.Flags().StringVarP(&mappingPath, "mapping", "m", "", "mapping JSON file to load and save")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output dataset CSV for apply")
	cmd.Flags().StringVarP(&backend, "backend", "b", "", "similarity backend: lexical, glove, chars2vec")
	cmd.Flags().StringVar(&vectorsPath, "vectors", "", "character vector table for the glove backend")
	cmd.MarkFlagRequired("source")
	cmd.MarkFlagRequired("cdes")

	return cmd
}
