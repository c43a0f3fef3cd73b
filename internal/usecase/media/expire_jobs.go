package media

import (
	"context"
	"errors"
	"time"

	"github.com/fhuszti/medias-transcode-go/internal/logger"
	"github.com/fhuszti/medias-transcode-go/internal/port"
)

type jobExpirerSrv struct {
	store   port.JobStore
	runs    port.RunRegistry
	cleaner port.JobCleaner
}

// compile-time check: *jobExpirerSrv must satisfy port.JobExpirer
var _ port.JobExpirer = (*jobExpirerSrv)(nil)

// NewJobExpirer constructs a JobExpirer implementation.
func NewJobExpirer(store port.JobStore, runs port.RunRegistry, cleaner port.JobCleaner) port.JobExpirer {
	return &jobExpirerSrv{store: store, runs: runs, cleaner: cleaner}
}

// ExpireJobs cleans every job created before the cutoff that has no running
// attempt, and returns how many were cleaned.
func (s *jobExpirerSrv) ExpireJobs(ctx context.Context, before time.Time) (int, error) {
	ids, err := s.store.ListCreatedBefore(ctx, before)
	if err != nil {
		return 0, err
	}

	if len(ids) == 0 {
		logger.Debug(ctx, "no jobs found to expire")
		return 0, nil
	}

	cleaned := 0
	for _, id := range ids {
		if running := s.runs.Running(id); len(running) > 0 {
			logger.Infof(ctx, "skipping expiry of job #%s: %d attempt(s) still running", id, len(running))
			continue
		}
		if err := s.cleaner.CleanupJob(ctx, id); err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			logger.Warnf(ctx, "failed to expire job #%s: %v", id, err)
			if errors.Is(err, ErrIOFailure) {
				// the record is gone anyway
				cleaned++
			}
			continue
		}
		cleaned++
	}

	logger.Infof(ctx, "⏳  Expired %d of %d job(s) created before %s", cleaned, len(ids), before.Format(time.RFC3339))
	return cleaned, nil
}
