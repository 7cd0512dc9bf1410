package main

import (
	"github.com/spf13/cobra"

	"github.com/HBPMedical/mip-dmp/internal/render"
)

func schemaCmd() *cobra.Command {
	var schemaPath string

	cmd := &cobra.Command{
		Use:   "schema [code]",
		Short: "Inspect the CDE schema",
		Long: `List the CDEs of a schema file, or show one CDE in detail including
its allowed value set.`,
		Args: cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			event := auditLogger.Start("schema")

			sch := loadSchema(event, schemaPath)
			w := render.Stdout()

			if len(args) == 1 {
				cde, err := sch.Lookup(args[0])
				if err != nil {
					exitOnError(event, err)
				}
				w.Println("%s (%s)", cde.Code, cde.Type)
				if cde.Label != "" {
					w.Item("label: %s", cde.Label)
				}
				if len(cde.Values) > 0 {
					w.Section("values")
					for _, v := range cde.Values {
						w.Item("%-12s %s", v.Code, v.Label)
					}
				}
				auditLogger.Log(event)
				return
			}

			w.Header("SCHEMA (%d CDEs)", sch.Len())
			for _, cde := range sch.CDEs() {
				label := cde.Label
				if label == "" {
					label = "-"
				}
				w.Item("%-24s %-12s %s", cde.Code, cde.Type, render.Truncate(label, 50))
			}
			auditLogger.Log(event)
		},
	}

	cmd.Flags().StringVarP(&schemaPath, "cdes", "c", "", "CDE schema CSV (required)")
	cmd.MarkFlagRequired("cdes")

	return cmd
}
