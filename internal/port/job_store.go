package port

import (
	"context"
	"time"

	"github.com/fhuszti/medias-transcode-go/internal/model"
	"github.com/fhuszti/medias-transcode-go/internal/uuid"
)

// JobStore keeps job records for the lifetime of the process.
type JobStore interface {
	Create(ctx context.Context, job *model.Job) error
	Get(ctx context.Context, id uuid.UUID) (*model.Job, error)
	SaveAttempt(ctx context.Context, id uuid.UUID, attempt model.Attempt) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListCreatedBefore(ctx context.Context, before time.Time) ([]uuid.UUID, error)
}

// RunRegistry tracks cancel handles of in-flight attempts, keyed by job and output name.
type RunRegistry interface {
	// Register returns false when an attempt for the same output is already running.
	Register(jobID uuid.UUID, outputName string, cancel func()) bool
	Release(jobID uuid.UUID, outputName string)
	Running(jobID uuid.UUID) []string
	// CancelAll cancels and forgets every running attempt of the job.
	CancelAll(jobID uuid.UUID) int
}
