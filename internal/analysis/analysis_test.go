package analysis_test

import (
	"math"
	"testing"

	"biopipe/internal/analysis"
	"biopipe/internal/series"
)

func windowOf(values ...float64) series.Series {
	s := series.Series{Metric: "HR", Samples: make([]series.Sample, len(values))}
	for i, v := range values {
		s.Samples[i] = series.Sample{Local: float64(i), Adjusted: float64(i) + 100, Value: v}
	}
	return s
}

func TestApplyRawReturnsCopy(t *testing.T) {
	in := windowOf(70, 71, 72)
	res, err := analysis.Apply(in, analysis.MethodRaw, analysis.Options{})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if res.Series.Len() != 3 {
		t.Fatalf("raw should keep every row, got %d", res.Series.Len())
	}
	res.Series.Samples[0].Value = -1
	if in.Samples[0].Value != 70 {
		t.Fatal("raw result shares storage with the input")
	}
}

func TestApplyMeanCollapsesToOneRow(t *testing.T) {
	res, err := analysis.Apply(windowOf(70, 72, 74), analysis.MethodMean, analysis.Options{})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if res.Series.Len() != 1 {
		t.Fatalf("mean should collapse to one row, got %d", res.Series.Len())
	}
	row := res.Series.Samples[0]
	if row.Value != 72 {
		t.Fatalf("mean value: got %v, want 72", row.Value)
	}
	if row.Local != 1 || row.Adjusted != 101 {
		t.Fatalf("mean timestamps: got local=%v adjusted=%v", row.Local, row.Adjusted)
	}
}

func TestApplyMeanEmptyWindow(t *testing.T) {
	res, err := analysis.Apply(series.Series{Metric: "HR"}, analysis.MethodMean, analysis.Options{})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !res.Series.Empty() {
		t.Fatalf("empty input must stay empty, got %d rows", res.Series.Len())
	}
}

func TestApplyMovingAverageShrinksAtEdges(t *testing.T) {
	res, err := analysis.Apply(windowOf(1, 2, 3, 4, 5), analysis.MethodMovingAverage, analysis.Options{MovingAverageWindow: 3})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if res.Series.Len() != 5 {
		t.Fatalf("moving average must keep every row, got %d", res.Series.Len())
	}
	want := []float64{1.5, 2, 3, 4, 4.5}
	for i, sample := range res.Series.Samples {
		if math.Abs(sample.Value-want[i]) > 1e-9 {
			t.Fatalf("position %d: got %v, want %v", i, sample.Value, want[i])
		}
	}
}

func TestApplyMovingAverageSkipsMissingValues(t *testing.T) {
	res, err := analysis.Apply(windowOf(2, math.NaN(), 4), analysis.MethodMovingAverage, analysis.Options{MovingAverageWindow: 3})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := res.Series.Samples[1].Value; got != 3 {
		t.Fatalf("middle average should ignore the missing value: got %v", got)
	}
}

func TestApplyRMSSD(t *testing.T) {
	res, err := analysis.Apply(windowOf(70, 72, 71, 73), analysis.MethodRMSSD, analysis.Options{})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !res.HasRMSSD {
		t.Fatal("RMSSD metadata missing")
	}
	if math.Abs(res.RMSSD-math.Sqrt(3)) > 1e-9 {
		t.Fatalf("RMSSD: got %v, want sqrt(3)", res.RMSSD)
	}
	if res.Series.Len() != 3 {
		t.Fatalf("expected n-1 difference rows, got %d", res.Series.Len())
	}
	want := []float64{2, -1, 2}
	for i, sample := range res.Series.Samples {
		if sample.Value != want[i] {
			t.Fatalf("difference %d: got %v, want %v", i, sample.Value, want[i])
		}
	}
}

func TestApplyRMSSDTooShort(t *testing.T) {
	res, err := analysis.Apply(windowOf(70), analysis.MethodRMSSD, analysis.Options{})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !res.Series.Empty() || res.RMSSD != 0 {
		t.Fatalf("single-sample window should yield empty diffs and zero RMSSD: %+v", res)
	}
}

func TestApplyUnknownMethod(t *testing.T) {
	if _, err := analysis.Apply(windowOf(1), "median", analysis.Options{}); err == nil {
		t.Fatal("expected an error for an unknown method")
	}
}

func TestValidMethod(t *testing.T) {
	for _, name := range analysis.Methods() {
		if !analysis.ValidMethod(name) {
			t.Fatalf("listed method %q not recognized", name)
		}
	}
	if analysis.ValidMethod("median") {
		t.Fatal("unexpected method recognized")
	}
}

func TestComputeBasicStatistics(t *testing.T) {
	res, err := analysis.Apply(windowOf(70, 72, 74), analysis.MethodRaw, analysis.Options{})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	stats := analysis.Compute(res)
	if stats.Count != 3 || stats.Mean != 72 || stats.Min != 70 || stats.Max != 74 {
		t.Fatalf("unexpected statistics: %+v", stats)
	}
	if math.Abs(stats.Std-2) > 1e-9 {
		t.Fatalf("sample std: got %v, want 2", stats.Std)
	}
	if stats.RMSSD != nil || stats.Smoothness != nil {
		t.Fatalf("raw method must not attach method metadata: %+v", stats)
	}
}

func TestComputeEmptyWindowIsAllZero(t *testing.T) {
	stats := analysis.Compute(analysis.Result{Method: analysis.MethodRaw})
	if stats.Count != 0 || stats.Mean != 0 || stats.Std != 0 || stats.Min != 0 || stats.Max != 0 {
		t.Fatalf("expected an all-zero record, got %+v", stats)
	}
}

func TestComputeCoercesSingleSampleStd(t *testing.T) {
	res, err := analysis.Apply(windowOf(70), analysis.MethodRaw, analysis.Options{})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	stats := analysis.Compute(res)
	if stats.Std != 0 {
		t.Fatalf("single-sample std must coerce to 0, got %v", stats.Std)
	}
}

func TestComputeAttachesRMSSD(t *testing.T) {
	res, err := analysis.Apply(windowOf(70, 72, 71, 73), analysis.MethodRMSSD, analysis.Options{})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	stats := analysis.Compute(res)
	if stats.RMSSD == nil {
		t.Fatal("RMSSD pointer missing for the successive-difference method")
	}
	if math.Abs(*stats.RMSSD-math.Sqrt(3)) > 1e-9 {
		t.Fatalf("RMSSD: got %v, want sqrt(3)", *stats.RMSSD)
	}
}

func TestComputeAttachesSmoothness(t *testing.T) {
	res, err := analysis.Apply(windowOf(10, 10, 10, 10), analysis.MethodMovingAverage, analysis.Options{MovingAverageWindow: 2})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	stats := analysis.Compute(res)
	if stats.Smoothness == nil {
		t.Fatal("smoothness pointer missing for the moving average method")
	}
	if *stats.Smoothness != 0 {
		t.Fatalf("constant signal smoothness: got %v, want 0", *stats.Smoothness)
	}
}

func TestComputeSmoothnessZeroMean(t *testing.T) {
	res, err := analysis.Apply(windowOf(-1, 1, -1, 1), analysis.MethodMovingAverage, analysis.Options{MovingAverageWindow: 1})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	stats := analysis.Compute(res)
	if stats.Smoothness == nil || *stats.Smoothness != 0 {
		t.Fatalf("zero-mean smoothness must be 0, got %+v", stats.Smoothness)
	}
}
