package main

import (
	"fmt"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/HBPMedical/mip-dmp/internal/render"
)

func inspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <glob>...",
		Short: "Inspect the columns of one or more datasets",
		Long: `Expand doublestar globs (e.g. 'data/**/*.csv') and report, per
dataset, the columns with their inferred kind and distinct value
count. Useful before matching, to see what a dataset actually holds.`,
		Args: cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			event := auditLogger.Start("inspect")

			var files []string
			for _, pattern := range args {
				matches, err := doublestar.FilepathGlob(pattern)
				if err != nil {
					exitOnError(event, fmt.Errorf("glob %q: %w", pattern, err))
				}
				files = append(files, matches...)
			}
			if len(files) == 0 {
				exitOnError(event, fmt.Errorf("no files match %v", args))
			}
			sort.Strings(files)

			w := render.Stdout()
			for _, path := range files {
				ds := loadDataset(event, path)
				w.Header("%s (%d rows)", path, ds.Rows())
				for i := range ds.Columns() {
					col := &ds.Columns()[i]
					w.Item("%-24s %-8s %d distinct", col.Name, col.Kind, len(col.Distinct()))
				}
				w.Line()
			}
			auditLogger.Log(event)
		},
	}

	return cmd
}
