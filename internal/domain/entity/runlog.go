package entity

import "time"

// RunStatus is the lifecycle state of one orchestrated crawl run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// SourceStat is the per-source breakdown recorded in a run log.
type SourceStat struct {
	Total int `json:"total"`
	New   int `json:"new"`
}

// RunLog records one orchestrated execution of all enabled adapters.
// A row is created with status=running when the run starts and finalized
// exactly once when it ends. It is read-only to external reporting.
type RunLog struct {
	ID           int64
	StartedAt    time.Time
	FinishedAt   *time.Time
	DurationMS   int64
	TotalCount   int
	NewCount     int
	SourceStats  map[string]SourceStat
	Status       RunStatus
	ErrorMessage string
}
