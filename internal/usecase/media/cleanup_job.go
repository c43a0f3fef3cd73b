package media

import (
	"context"
	"errors"
	"fmt"

	"github.com/fhuszti/medias-transcode-go/internal/api_context"
	"github.com/fhuszti/medias-transcode-go/internal/logger"
	"github.com/fhuszti/medias-transcode-go/internal/port"
	"github.com/fhuszti/medias-transcode-go/internal/uuid"
)

type jobCleanerSrv struct {
	store port.JobStore
	runs  port.RunRegistry
	strg  port.Storage
}

// compile-time check: *jobCleanerSrv must satisfy port.JobCleaner
var _ port.JobCleaner = (*jobCleanerSrv)(nil)

// NewJobCleaner constructs a JobCleaner implementation.
func NewJobCleaner(store port.JobStore, runs port.RunRegistry, strg port.Storage) port.JobCleaner {
	return &jobCleanerSrv{store: store, runs: runs, strg: strg}
}

// CleanupJob stops running attempts, removes the source and every output
// derived from it, then forgets the job. The record is deleted even when a
// removal failed; those failures are reported together as ErrIOFailure.
func (s *jobCleanerSrv) CleanupJob(ctx context.Context, id uuid.UUID) error {
	ctx = api_context.WithJobID(ctx, id)

	job, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}

	if n := s.runs.CancelAll(id); n > 0 {
		logger.Infof(ctx, "🛑  Cancelled %d running attempt(s)", n)
	}

	var errs []error
	if err := s.strg.RemoveFile(ctx, UploadsBucket, job.Filename); err != nil && !errors.Is(err, ErrNotFound) {
		errs = append(errs, fmt.Errorf("removing source %q: %w", job.Filename, err))
	}

	outputs, err := s.strg.ListFiles(ctx, OutputsBucket, sourceBase(job.Filename)+"_")
	if err != nil {
		errs = append(errs, fmt.Errorf("listing outputs: %w", err))
	}
	for _, name := range outputs {
		if err := s.strg.RemoveFile(ctx, OutputsBucket, name); err != nil && !errors.Is(err, ErrNotFound) {
			errs = append(errs, fmt.Errorf("removing output %q: %w", name, err))
		}
	}

	if err := s.store.Delete(ctx, id); err != nil {
		errs = append(errs, fmt.Errorf("deleting job record: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: cleanup of job %s: %w", ErrIOFailure, id, errors.Join(errs...))
	}

	logger.Infof(ctx, "🧹  Cleaned up job #%s (%d output(s))", id, len(outputs))
	return nil
}
