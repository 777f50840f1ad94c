package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/yarmel/photoshare/model"
)

// PruneTokenBlacklist removes blacklist rows whose token has already
// expired. Runs hourly; the admin clear endpoint does the same thing on
// demand.
func (m *CronManager) PruneTokenBlacklist() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	jobName := "prune_token_blacklist"

	removed, err := m.auth.ClearExpiredBlacklistRecords(ctx)
	if err != nil {
		m.logJobError(jobName, fmt.Errorf("failed to prune blacklist: %w", err))
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("Removed %d expired blacklist entries", removed))
}

// CleanupCronLogs trims cron job logs older than 30 days
func (m *CronManager) CleanupCronLogs() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	jobName := "cleanup_cron_logs"
	cutoff := time.Now().AddDate(0, 0, -30)

	result := m.db.WithContext(ctx).
		Where("started_at < ?", cutoff).
		Delete(&model.CronJobLog{})
	if result.Error != nil {
		m.logJobError(jobName, fmt.Errorf("failed to delete old logs: %w", result.Error))
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("Removed %d old log rows", result.RowsAffected))
}
