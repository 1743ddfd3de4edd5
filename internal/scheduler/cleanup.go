package scheduler

import (
	"context"
	"time"

	"github.com/AdamBeresnev/tennis-leagues/internal/metrics"
	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"
)

const CodeCleanupJobName = "code-cleanup"

// CodePurger deletes account codes that can no longer be redeemed.
type CodePurger interface {
	PurgeCodes(ctx context.Context) (int64, error)
}

// CleanupCodes runs a single purge, bounded by timeout.
func CleanupCodes(ctx context.Context, purger CodePurger, m *metrics.Metrics, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	deleted, err := purger.PurgeCodes(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to purge account codes")
		return
	}
	m.CodesPurged(deleted)
	if deleted > 0 {
		log.Info().Int64("deleted", deleted).Msg("Purged stale account codes")
	}
}

// RegisterCodeCleanup schedules CleanupCodes every interval.
func (s *Service) RegisterCodeCleanup(purger CodePurger, m *metrics.Metrics, interval time.Duration) (gocron.Job, error) {
	return s.AddIntervalJob(CodeCleanupJobName, interval, func() {
		CleanupCodes(context.Background(), purger, m, interval)
	})
}
