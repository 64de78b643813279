package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"biopipe/internal/store"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Display one run's stored statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			st, err := store.Open(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			runID := strings.TrimSpace(args[0])
			run, err := st.GetRun(cmd.Context(), runID)
			if err != nil {
				return err
			}
			if run == nil {
				return fmt.Errorf("run %s not found", runID)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Run:       %s\n", run.ID)
			fmt.Fprintf(out, "Subject:   %s\n", run.Subject)
			fmt.Fprintf(out, "Method:    %s\n", methodDisplayName(run.Method))
			fmt.Fprintf(out, "Status:    %s\n", run.Status)
			fmt.Fprintf(out, "Started:   %s\n", formatTimestamp(run.CreatedAt))
			fmt.Fprintf(out, "Completed: %s\n", formatOptionalTimestamp(run.CompletedAt))
			if run.Error != "" {
				fmt.Fprintf(out, "Error:     %s\n", run.Error)
			}

			stats, err := st.StatsForRun(cmd.Context(), runID)
			if err != nil {
				return err
			}
			if len(stats) == 0 {
				fmt.Fprintln(out, "No group statistics recorded")
				return nil
			}

			headers := []string{"Metric", "Group", "Count", "Mean", "Std", "Min", "Max", "RMSSD", "Smoothness", "Removed"}
			aligns := []columnAlignment{
				alignLeft, alignLeft,
				alignRight, alignRight, alignRight, alignRight, alignRight,
				alignRight, alignRight, alignRight,
			}
			rows := make([][]string, 0, len(stats))
			for _, stat := range stats {
				rows = append(rows, []string{
					stat.Metric,
					stat.GroupLabel,
					formatCount(stat.SampleCount),
					formatFloat(stat.Mean),
					formatFloat(stat.Std),
					formatFloat(stat.Min),
					formatFloat(stat.Max),
					formatOptionalFloat(stat.RMSSD),
					formatOptionalFloat(stat.Smoothness),
					formatCount(stat.SamplesRemoved),
				})
			}
			fmt.Fprintln(out, renderTable(out, headers, rows, aligns))
			return nil
		},
	}
	return cmd
}
