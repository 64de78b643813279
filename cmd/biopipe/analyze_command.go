package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"biopipe/internal/config"
	"biopipe/internal/logging"
	"biopipe/internal/pipeline"
	"biopipe/internal/store"
)

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [subject-dir]",
		Short: "Clean, align, and analyze one subject's recordings",
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

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return err
			}

			st, err := store.Open(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			runner := pipeline.NewRunner(cfg, st, logger)
			result, err := runner.Run(cmd.Context(), subjectDir)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Run %s completed for subject %s (%s)\n",
				result.RunID, result.Subject, methodDisplayName(result.Method))

			printMetricSummary(cmd, result)
			printGroupStatistics(cmd, result)
			return nil
		},
	}
	return cmd
}

// resolveSubjectDir picks the subject directory: an explicit argument
// wins, otherwise the configured data directory is used directly.
func resolveSubjectDir(cfg *config.Config, args []string) (string, error) {
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		expanded, err := config.ExpandPath(args[0])
		if err != nil {
			return "", fmt.Errorf("resolve subject directory: %w", err)
		}
		return expanded, nil
	}
	if cfg.Paths.DataDir == "" {
		return "", errors.New("no subject directory given and data_dir is not configured")
	}
	return cfg.Paths.DataDir, nil
}

func printMetricSummary(cmd *cobra.Command, result *pipeline.RunResult) {
	out := cmd.OutOrStdout()
	headers := []string{"Metric", "Samples In", "Removed", "Samples Out", "Offset", "Status"}
	aligns := []columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignLeft}

	rows := make([][]string, 0, len(result.Metrics))
	for _, metric := range result.Metrics {
		status := "ok"
		if metric.Err != nil {
			status = metric.Err.Error()
		} else if len(metric.SkippedGroups) > 0 {
			status = fmt.Sprintf("skipped groups: %s", strings.Join(metric.SkippedGroups, ", "))
		}
		rows = append(rows, []string{
			metric.Metric,
			formatCount(metric.Report.Original),
			formatCount(metric.Report.Removed()),
			formatCount(metric.Report.Final),
			formatSeconds(metric.Offset),
			status,
		})
	}
	fmt.Fprintln(out, renderTable(out, headers, rows, aligns))
}

func printGroupStatistics(cmd *cobra.Command, result *pipeline.RunResult) {
	out := cmd.OutOrStdout()
	headers := []string{"Metric", "Group", "Count", "Mean", "Std", "Min", "Max", "RMSSD", "Smoothness"}
	aligns := []columnAlignment{
		alignLeft, alignLeft,
		alignRight, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight,
	}

	var rows [][]string
	for _, metric := range result.Metrics {
		for _, group := range metric.Groups {
			rows = append(rows, []string{
				metric.Metric,
				group.Label,
				formatCount(group.Stats.Count),
				formatFloat(group.Stats.Mean),
				formatFloat(group.Stats.Std),
				formatFloat(group.Stats.Min),
				formatFloat(group.Stats.Max),
				formatOptionalFloat(group.Stats.RMSSD),
				formatOptionalFloat(group.Stats.Smoothness),
			})
		}
	}
	if len(rows) == 0 {
		fmt.Fprintln(out, "No group statistics produced")
		return
	}
	fmt.Fprintln(out, renderTable(out, headers, rows, aligns))
}
