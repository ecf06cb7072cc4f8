package scheduler

import (
	"context"
	"time"
)

// Job represents a scheduled background task
// ⭐ SSOT: 스케줄 작업 인터페이스는 여기서만 정의
type Job interface {
	// Name returns the job name
	Name() string

	// Run executes the job
	Run(ctx context.Context) error

	// Schedule returns the cron expression (with seconds field)
	// Examples: "0 0 5 * * *", "@every 60s"
	Schedule() string
}

// JobResult is one execution record
type JobResult struct {
	JobName   string        `json:"job_name"`
	StartTime time.Time     `json:"start_time"`
	Duration  time.Duration `json:"duration"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
}

// JobHistory keeps recent execution records per job
type JobHistory struct {
	Results []JobResult
}

// AddResult appends a result, keeping only the last 50
func (h *JobHistory) AddResult(result JobResult) {
	h.Results = append(h.Results, result)
	if len(h.Results) > 50 {
		h.Results = h.Results[len(h.Results)-50:]
	}
}

// Latest returns the most recent result, or nil if the job never ran
func (h *JobHistory) Latest() *JobResult {
	if len(h.Results) == 0 {
		return nil
	}
	return &h.Results[len(h.Results)-1]
}
