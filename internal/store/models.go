package store

import "time"

// Run statuses.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Run records one pipeline invocation.
type Run struct {
	ID          string
	Subject     string
	Method      string
	Status      string
	Error       string
	CreatedAt   time.Time
	CompletedAt *time.Time
}

// GroupStat is the flat statistics record for one comparison group of one
// metric within a run. RMSSD and Smoothness are method-specific extras.
type GroupStat struct {
	RunID          string
	Metric         string
	GroupLabel     string
	Mean           float64
	Std            float64
	Min            float64
	Max            float64
	SampleCount    int
	RMSSD          *float64
	Smoothness     *float64
	SamplesRemoved int
}
