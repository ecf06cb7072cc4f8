package jobs

import (
	"context"
	"time"

	"github.com/wonny/marketcards/internal/usage"
	"github.com/wonny/marketcards/pkg/logger"
)

// UsagePurgeJob trims the usage log to the retention window
type UsagePurgeJob struct {
	repo          *usage.Repository
	retentionDays int
	logger        *logger.Logger
}

// NewUsagePurgeJob creates the usage retention job
func NewUsagePurgeJob(repo *usage.Repository, retentionDays int, log *logger.Logger) *UsagePurgeJob {
	return &UsagePurgeJob{repo: repo, retentionDays: retentionDays, logger: log}
}

// Name implements scheduler.Job
func (j *UsagePurgeJob) Name() string {
	return "usage_purge"
}

// Schedule implements scheduler.Job. Daily at 05:10 UTC, after the
// overnight data loads.
func (j *UsagePurgeJob) Schedule() string {
	return "0 10 5 * * *"
}

// Run implements scheduler.Job
func (j *UsagePurgeJob) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	cutoff := time.Now().UTC().AddDate(0, 0, -j.retentionDays)
	deleted, err := j.repo.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		return err
	}

	j.logger.WithFields(map[string]interface{}{
		"cutoff":  cutoff.Format("2006-01-02"),
		"deleted": deleted,
	}).Info("Usage log purged")

	return nil
}
