package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"biopipe/internal/cleaning"
	"biopipe/internal/ingest"
	"biopipe/internal/pipeline"
)

func newCleanCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean [subject-dir]",
		Short: "Preview the cleaning report for a subject without persisting results",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			subjectDir, err := resolveSubjectDir(cfg, args)
			if err != nil {
				return err
			}

			manifest, err := ingest.BuildManifest(subjectDir)
			if err != nil {
				return err
			}
			metrics := manifest.Metrics()
			if len(metrics) == 0 {
				return fmt.Errorf("subject %s has no recognized metric files", manifest.Subject)
			}

			stages := pipeline.StageConfig(cfg.Cleaning)

			out := cmd.OutOrStdout()
			headers := []string{
				"Metric", "Original", "Invalid", "Range", "Outliers",
				"Sudden", "Interpolated", "Dropped", "Final",
			}
			aligns := []columnAlignment{
				alignLeft,
				alignRight, alignRight, alignRight, alignRight,
				alignRight, alignRight, alignRight, alignRight,
			}

			rows := make([][]string, 0, len(metrics))
			for _, metric := range metrics {
				raw, err := ingest.ReadMetricSeries(manifest.MetricFiles[metric], metric)
				if err != nil {
					return err
				}
				_, report := cleaning.New(metric).Clean(raw, stages)
				rows = append(rows, []string{
					metric,
					formatCount(report.Original),
					formatCount(report.Invalid),
					formatCount(report.Physiological),
					formatCount(report.Statistical),
					formatCount(report.SuddenChanges),
					formatCount(report.Interpolated),
					formatCount(report.MissingDrops),
					formatCount(report.Final),
				})
			}

			fmt.Fprintf(out, "Cleaning report for subject %s\n", manifest.Subject)
			fmt.Fprintln(out, renderTable(out, headers, rows, aligns))
			return nil
		},
	}
	return cmd
}
