package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/marketcards/internal/catalog"
)

// CatalogRefreshJob reloads the catalog snapshot on a fixed interval so
// enable/disable toggles take effect without a restart even on an idle
// service.
type CatalogRefreshJob struct {
	gate     *catalog.Gate
	interval time.Duration
}

// NewCatalogRefreshJob creates the catalog refresh job
func NewCatalogRefreshJob(gate *catalog.Gate, interval time.Duration) *CatalogRefreshJob {
	return &CatalogRefreshJob{gate: gate, interval: interval}
}

// Name implements scheduler.Job
func (j *CatalogRefreshJob) Name() string {
	return "catalog_refresh"
}

// Schedule implements scheduler.Job
func (j *CatalogRefreshJob) Schedule() string {
	return fmt.Sprintf("@every %s", j.interval)
}

// Run implements scheduler.Job
func (j *CatalogRefreshJob) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	return j.gate.Refresh(ctx)
}
