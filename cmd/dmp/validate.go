package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/HBPMedical/mip-dmp/internal/render"
)

func validateCmd() *cobra.Command {
	var (
		mappingPath string
		schemaPath  string
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a mapping file against the schema",
		Long: `Validate every mapping entry and report the complete problem list:
unknown CDE codes, value maps pointing outside a categorical value
set, transforms that do not fit the target type, duplicate source
columns. Exit status 1 when any problem is found.`,
		Run: func(cmd *cobra.Command, args []string) {
			event := auditLogger.Start("validate")
			event.Mapping = mappingPath

			sch := loadSchema(event, schemaPath)
			m := loadMapping(event, mappingPath)

			problems := m.Validate(sch)
			render.NewReport().Problems(problems)

			if len(problems) > 0 {
				auditLogger.LogError(event, fmt.Errorf("%d validation problem(s)", len(problems)))
				os.Exit(1)
			}
			auditLogger.Log(event)
		},
	}

	cmd.Flags().StringVarP(&mappingPath, "mapping", "m", "", "mapping JSON file (required)")
	cmd.Flags().StringVarP(&schemaPath, "cdes", "c", "", "CDE schema CSV (required)")
	cmd.MarkFlagRequired("mapping")
	cmd.MarkFlagRequired("cdes")

	return cmd
}
