package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/fhuszti/medias-transcode-go/internal/logger"
	"github.com/fhuszti/medias-transcode-go/internal/model"
	"github.com/fhuszti/medias-transcode-go/internal/port"
	mediaService "github.com/fhuszti/medias-transcode-go/internal/usecase/media"
	"github.com/fhuszti/medias-transcode-go/internal/uuid"
)

// JobStore keeps jobs in a map for the lifetime of the process. The lock only
// guards bookkeeping; callers always get copies.
type JobStore struct {
	mu   sync.RWMutex
	jobs map[uuid.UUID]*model.Job
}

// compile-time check: *JobStore must satisfy port.JobStore
var _ port.JobStore = (*JobStore)(nil)

func NewJobStore() *JobStore {
	return &JobStore{jobs: make(map[uuid.UUID]*model.Job)}
}

func (s *JobStore) Create(ctx context.Context, job *model.Job) error {
	if job == nil || job.ID.IsNil() {
		return fmt.Errorf("%w: job without identifier", mediaService.ErrInvalidRequest)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[job.ID]; exists {
		return fmt.Errorf("%w: job %s already exists", mediaService.ErrInvalidRequest, job.ID)
	}
	stored := job.Clone()
	if stored.Attempts == nil {
		stored.Attempts = make(map[string]model.Attempt)
	}
	s.jobs[job.ID] = stored

	logger.Debugf(ctx, "created job record #%s for %q", job.ID, job.Filename)
	return nil
}

func (s *JobStore) Get(_ context.Context, id uuid.UUID) (*model.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return nil, fmt.Errorf("%w: job %s", mediaService.ErrNotFound, id)
	}
	return job.Clone(), nil
}

// SaveAttempt inserts or replaces the attempt keyed by its output name.
func (s *JobStore) SaveAttempt(_ context.Context, id uuid.UUID, attempt model.Attempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return fmt.Errorf("%w: job %s", mediaService.ErrNotFound, id)
	}
	if attempt.Progress != nil {
		p := *attempt.Progress
		attempt.Progress = &p
	}
	job.Attempts[attempt.OutputName] = attempt
	return nil
}

func (s *JobStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[id]; !ok {
		return fmt.Errorf("%w: job %s", mediaService.ErrNotFound, id)
	}
	delete(s.jobs, id)

	logger.Debugf(ctx, "deleted job record #%s", id)
	return nil
}

// ListCreatedBefore returns the IDs of jobs created strictly before the cutoff, oldest first.
func (s *JobStore) ListCreatedBefore(_ context.Context, before time.Time) ([]uuid.UUID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var found []*model.Job
	for _, job := range s.jobs {
		if job.CreatedAt.Before(before) {
			found = append(found, job)
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i].CreatedAt.Before(found[j].CreatedAt) })

	ids := make([]uuid.UUID, len(found))
	for i, job := range found {
		ids[i] = job.ID
	}
	return ids, nil
}
