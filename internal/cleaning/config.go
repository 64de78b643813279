package cleaning

// StageConfig toggles the six cleaning stages. The zero value disables
// everything; use DefaultStageConfig as the starting point and flip
// individual fields. Flag order never influences execution order.
type StageConfig struct {
	RemoveInvalid               bool
	RemovePhysiologicalOutliers bool
	RemoveStatisticalOutliers   bool
	RemoveSuddenChanges         bool
	Interpolate                 bool
	Smooth                      bool
}

// DefaultStageConfig returns the conservative preset: everything enabled
// except statistical outlier removal and smoothing, both of which can
// erase genuine physiological variation.
func DefaultStageConfig() StageConfig {
	return StageConfig{
		RemoveInvalid:               true,
		RemovePhysiologicalOutliers: true,
		RemoveStatisticalOutliers:   false,
		RemoveSuddenChanges:         true,
		Interpolate:                 true,
		Smooth:                      false,
	}
}

// Report carries the per-stage diagnostic counts from one Clean call.
// Counts are removals except Interpolated, which counts missing values
// filled in place.
type Report struct {
	Original      int
	Invalid       int
	Physiological int
	Statistical   int
	SuddenChanges int
	Interpolated  int
	MissingDrops  int
	Final         int
}

// Removed reports the total number of samples dropped across all stages.
func (r Report) Removed() int { return r.Original - r.Final }
