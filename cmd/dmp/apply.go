package main

import (
	"errors"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/HBPMedical/mip-dmp/internal/audit"
	"github.com/HBPMedical/mip-dmp/internal/config"
	"github.com/HBPMedical/mip-dmp/internal/logging"
	"github.com/HBPMedical/mip-dmp/internal/mapper"
	"github.com/HBPMedical/mip-dmp/internal/render"
)

func applyCmd() *cobra.Command {
	var (
		sourcePath  string
		mappingPath string
		schemaPath  string
		outputPath  string
		workers     int
		showCells   bool
	)

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply a mapping file to a dataset",
		Long: `Transform every mapped column of the source dataset and write the
output dataset. The run always completes; cells that cannot be
transformed become empty and are counted in the summary.

Exit status 0 on full success, 1 when any cell or column failed
(partial output is still written).`,
		Run: func(cmd *cobra.Command, args []string) {
			start := time.Now()
			log := logging.New("apply").WithDataset(sourcePath)

			event := auditLogger.Start("apply")
			event.Dataset = sourcePath
			event.Mapping = mappingPath

			sch := loadSchema(event, schemaPath)
			ds := loadDataset(event, sourcePath)
			m := loadMapping(event, mappingPath)

			if workers == 0 {
				workers = config.Env().Workers
			}

			out, sum, err := mapper.Run(ds, m, sch, mapper.Options{Workers: workers})
			if err != nil {
				var vf *mapper.ValidationFailure
				if errors.As(err, &vf) {
					render.NewReport().Problems(vf.Problems)
				}
				exitOnError(event, err)
			}

			if err := out.WriteFile(outputPath); err != nil {
				exitOnError(event, err)
			}

			r := render.NewReport()
			r.Summary(sum)
			if showCells {
				r.CellFailures(sum, 20)
			}

			event.RunID = sum.RunID
			event.Succeeded = sum.Succeeded
			event.Partial = sum.Partial
			event.Skipped = sum.Skipped
			event.CellFailures = sum.CellFailures

			log.TimedEvent("apply_done", start, map[string]interface{}{
				"run_id":        sum.RunID,
				"cell_failures": sum.CellFailures,
			})

			if !sum.Clean() {
				event.Status = audit.StatusPartial
				auditLogger.Log(event)
				os.Exit(1)
			}
			auditLogger.Log(event)
		},
	}

	cmd.Flags().StringVarP(&sourcePath, "source", "s", "", "source dataset CSV (required)")
	cmd.Flags().StringVarP(&mappingPath, "mapping", "m", "", "mapping JSON file (required)")
	cmd.Flags().StringVarP(&schemaPath, "cdes", "c", "", "CDE schema CSV (required)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output dataset CSV (required)")
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent column transformations (0 = sequential)")
	cmd.Flags().BoolVar(&showCells, "cells", false, "list failed cells in the summary")
	cmd.MarkFlagRequired("source")
	cmd.MarkFlagRequired("mapping")
	cmd.MarkFlagRequired("cdes")
	cmd.MarkFlagRequired("output")

	return cmd
}
