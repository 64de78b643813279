package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"biopipe/internal/analysis"
	"biopipe/internal/cleaning"
	"biopipe/internal/config"
	"biopipe/internal/ingest"
	"biopipe/internal/logging"
	"biopipe/internal/motion"
	"biopipe/internal/store"
	"biopipe/internal/timesync"
)

// ErrNoUsableData marks a metric whose cleaning removed every sample.
// Common causes are wrong units (heart rate in milliseconds collapses
// entirely under the range check), a disconnected sensor, or an
// over-aggressive stage configuration.
var ErrNoUsableData = errors.New("no usable data after cleaning")

// Runner executes analysis runs against a results store.
type Runner struct {
	cfg    *config.Config
	store  *store.Store
	logger *slog.Logger
}

// NewRunner constructs a runner. A nil logger falls back to a no-op one.
func NewRunner(cfg *config.Config, st *store.Store, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Runner{cfg: cfg, store: st, logger: logger}
}

// GroupResult is one comparison group's outcome within a metric.
type GroupResult struct {
	Label string
	Stats analysis.Statistics
}

// MetricResult aggregates one metric's cleaning report and per-group
// statistics. Err is set for data-quality failures; SkippedGroups lists
// the groups whose windows contained no samples.
type MetricResult struct {
	Metric        string
	Report        cleaning.Report
	Offset        float64
	Groups        []GroupResult
	SkippedGroups []string
	Err           error
}

// RunResult summarizes a completed run.
type RunResult struct {
	RunID   string
	Subject string
	Method  string
	Metrics []MetricResult
}

// Run analyzes one subject directory: classify its files, normalize the
// event log, then fan each metric out onto its own goroutine. Only
// structural problems (no event log, no timestamp column, locked
// workspace) fail the run; per-metric data-quality failures are recorded
// and reported.
func (r *Runner) Run(ctx context.Context, subjectDir string) (*RunResult, error) {
	if err := r.cfg.EnsureDirectories(); err != nil {
		return nil, err
	}

	lock := flock.New(filepath.Join(r.cfg.Paths.OutputDir, "biopipe.lock"))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire workspace lock: %w", err)
	}
	if !ok {
		return nil, errors.New("another analysis run is already in progress")
	}
	defer func() { _ = lock.Unlock() }()

	manifest, err := ingest.BuildManifest(subjectDir)
	if err != nil {
		return nil, err
	}
	if manifest.EventLog == "" {
		return nil, fmt.Errorf("subject %s has no event marker file", manifest.Subject)
	}
	metrics := manifest.Metrics()
	if len(metrics) == 0 {
		return nil, fmt.Errorf("subject %s has no recognized metric files", manifest.Subject)
	}

	rawLog, err := ingest.ReadEventLog(manifest.EventLog)
	if err != nil {
		return nil, err
	}
	events, dropped, err := timesync.Normalize(rawLog)
	if err != nil {
		return nil, fmt.Errorf("normalize event log: %w", err)
	}
	if dropped > 0 {
		r.logger.Warn("dropped unparseable event rows",
			slog.String("subject", manifest.Subject),
			slog.Int("dropped", dropped))
	}

	var frame *motion.Frame
	if r.cfg.Motion.Enabled && manifest.HasMotion() {
		loaded, err := ingest.ReadMotionFrame(
			manifest.MotionFiles[ingest.AxisX],
			manifest.MotionFiles[ingest.AxisY],
			manifest.MotionFiles[ingest.AxisZ],
		)
		if err != nil {
			return nil, fmt.Errorf("load motion frame: %w", err)
		}
		frame = &loaded
	}

	runID := uuid.NewString()
	if _, err := r.store.CreateRun(ctx, runID, manifest.Subject, r.cfg.Analysis.Method); err != nil {
		return nil, err
	}

	results := make([]MetricResult, len(metrics))
	var wg sync.WaitGroup
	for i, metric := range metrics {
		wg.Add(1)
		go func(i int, metric string) {
			defer wg.Done()
			results[i] = r.analyzeMetric(manifest, metric, events, frame)
		}(i, metric)
	}
	wg.Wait()

	failures := 0
	for _, result := range results {
		if result.Err != nil {
			failures++
			r.logger.Warn("metric produced no usable data",
				slog.String("subject", manifest.Subject),
				slog.String("metric", result.Metric),
				slog.Any("error", result.Err))
			continue
		}
		for _, group := range result.Groups {
			stat := store.GroupStat{
				RunID:          runID,
				Metric:         result.Metric,
				GroupLabel:     group.Label,
				Mean:           group.Stats.Mean,
				Std:            group.Stats.Std,
				Min:            group.Stats.Min,
				Max:            group.Stats.Max,
				SampleCount:    group.Stats.Count,
				RMSSD:          group.Stats.RMSSD,
				Smoothness:     group.Stats.Smoothness,
				SamplesRemoved: result.Report.Removed(),
			}
			if err := r.store.InsertGroupStat(ctx, stat); err != nil {
				_ = r.store.CompleteRun(ctx, runID, store.StatusFailed, err.Error())
				return nil, err
			}
		}
	}

	status := store.StatusCompleted
	var statusErr string
	if failures == len(results) {
		status = store.StatusFailed
		statusErr = "every metric failed cleaning"
	}
	if err := r.store.CompleteRun(ctx, runID, status, statusErr); err != nil {
		return nil, err
	}

	return &RunResult{
		RunID:   runID,
		Subject: manifest.Subject,
		Method:  r.cfg.Analysis.Method,
		Metrics: results,
	}, nil
}

// analyzeMetric runs the full chain for one metric: load, clean, motion
// exclusion, offset alignment, then one window extraction and analysis
// per comparison group.
func (r *Runner) analyzeMetric(manifest ingest.Manifest, metric string, events timesync.Log, frame *motion.Frame) MetricResult {
	result := MetricResult{Metric: metric}

	raw, err := ingest.ReadMetricSeries(manifest.MetricFiles[metric], metric)
	if err != nil {
		result.Err = err
		return result
	}

	cleaner := cleaning.New(metric)
	cleaned, report := cleaner.Clean(raw, StageConfig(r.cfg.Cleaning))
	result.Report = report
	r.logger.Debug("cleaned series",
		slog.String("subject", manifest.Subject),
		slog.String("metric", metric),
		slog.Int("original", report.Original),
		slog.Int("final", report.Final))
	if cleaned.Empty() {
		result.Err = fmt.Errorf("%w: %s", ErrNoUsableData, metric)
		return result
	}

	if frame != nil {
		excluded, intervals := motion.Exclude(cleaned, *frame, motion.Config{
			Lower:  r.cfg.Motion.Lower,
			Upper:  r.cfg.Motion.Upper,
			Margin: r.cfg.Motion.MarginSamples,
		})
		if len(intervals) > 0 {
			r.logger.Debug("excluded motion intervals",
				slog.String("metric", metric),
				slog.Int("intervals", len(intervals)),
				slog.Int("removed", cleaned.Len()-excluded.Len()))
		}
		cleaned = excluded
		if cleaned.Empty() {
			result.Err = fmt.Errorf("%w: %s removed entirely by motion exclusion", ErrNoUsableData, metric)
			return result
		}
	}

	offset, err := timesync.Offset(events, cleaned)
	if err != nil {
		result.Err = err
		return result
	}
	result.Offset = offset
	aligned := timesync.Align(cleaned, offset)

	matches := timesync.MatchEvents(aligned, events, r.cfg.Sync.MatchTolerance)
	if len(matches.Unmatched) > 0 {
		r.logger.Warn("events without a sensor sample inside tolerance",
			slog.String("metric", metric),
			slog.Int("unmatched", len(matches.Unmatched)),
			slog.Float64("tolerance", r.cfg.Sync.MatchTolerance))
	}

	opts := analysis.Options{MovingAverageWindow: r.cfg.Analysis.MovingAverageWindow}
	for _, group := range r.groups() {
		window, err := timesync.ExtractWindow(aligned, events, windowSpec(group))
		if err != nil {
			result.Err = err
			return result
		}
		if window.Empty() {
			result.SkippedGroups = append(result.SkippedGroups, group.Label)
			continue
		}
		applied, err := analysis.Apply(window, r.cfg.Analysis.Method, opts)
		if err != nil {
			result.Err = err
			return result
		}
		result.Groups = append(result.Groups, GroupResult{
			Label: group.Label,
			Stats: analysis.Compute(applied),
		})
	}
	return result
}

// groups returns the configured comparison groups, falling back to a
// single whole-session window when none are configured.
func (r *Runner) groups() []config.Group {
	if len(r.cfg.Groups) > 0 {
		return r.cfg.Groups
	}
	return []config.Group{{Label: "Session", WindowType: "all"}}
}

// StageConfig merges the TOML overrides over the documented stage
// defaults; absent flags keep their default, not false.
func StageConfig(c config.Cleaning) cleaning.StageConfig {
	cfg := cleaning.DefaultStageConfig()
	apply := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	apply(&cfg.RemoveInvalid, c.RemoveInvalid)
	apply(&cfg.RemovePhysiologicalOutliers, c.RemovePhysiologicalOutliers)
	apply(&cfg.RemoveStatisticalOutliers, c.RemoveStatisticalOutliers)
	apply(&cfg.RemoveSuddenChanges, c.RemoveSuddenChanges)
	apply(&cfg.Interpolate, c.Interpolate)
	apply(&cfg.Smooth, c.Smooth)
	return cfg
}

// windowSpec converts a configured comparison group into the extraction
// spec used by timesync.
func windowSpec(group config.Group) timesync.WindowSpec {
	return timesync.WindowSpec{
		Label:       group.Label,
		EventMarker: group.EventMarker,
		Condition:   group.Condition,
		Type:        timesync.WindowType(group.WindowType),
		CustomStart: group.CustomStart,
		CustomEnd:   group.CustomEnd,
	}
}
