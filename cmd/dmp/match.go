package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/HBPMedical/mip-dmp/internal/config"
	"github.com/HBPMedical/mip-dmp/internal/logging"
	"github.com/HBPMedical/mip-dmp/internal/match"
	"github.com/HBPMedical/mip-dmp/internal/render"
)

func matchCmd() *cobra.Command {
	var (
		sourcePath  string
		schemaPath  string
		outputPath  string
		backend     string
		vectorsPath string
		keep        int
	)

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Auto-initialize a mapping by matching columns to CDEs",
		Long: `Score every dataset column against every CDE with the selected
similarity backend (lexical, glove, chars2vec) and print the ranked
candidates. With --output the proposed mapping is written as a JSON
mapping file, ready for editing and apply.`,
		Run: func(cmd *cobra.Command, args []string) {
			start := time.Now()
			log := logging.New("match").WithDataset(sourcePath)

			event := auditLogger.Start("match")
			event.Dataset = sourcePath

			sch := loadSchema(event, schemaPath)
			ds := loadDataset(event, sourcePath)
			sc := newScorer(event, backend, vectorsPath)

			if keep == 0 {
				keep = config.Env().Keep
			}

			model, matches, err := match.InitialModel(ds, sch, sc, keep)
			if err != nil {
				exitOnError(event, err)
			}

			render.NewReport().Matches(matches, keep)

			if outputPath != "" {
				if err := model.SaveFile(outputPath); err != nil {
					exitOnError(event, err)
				}
				event.Mapping = outputPath
			}

			log.TimedEvent("match_done", start, map[string]interface{}{
				"backend": sc.Name(),
				"columns": len(matches),
			})
			auditLogger.Log(event)
		},
	}

	cmd.Flags().StringVarP(&sourcePath, "source", "s", "", "source dataset CSV (required)")
	cmd.Flags().StringVarP(&schemaPath, "cdes", "c", "", "CDE schema CSV (required)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "write the proposed mapping JSON here")
	cmd.Flags().StringVarP(&backend, "backend", "b", "", "similarity backend: lexical, glove, chars2vec")
	cmd.Flags().StringVar(&vectorsPath, "vectors", "", "character vector table for the glove backend")
	cmd.Flags().IntVarP(&keep, "keep", "k", 0, "ranked candidates kept per column")
	cmd.MarkFlagRequired("source")
	cmd.MarkFlagRequired("cdes")

	return cmd
}
