package media

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fhuszti/medias-transcode-go/internal/uuid"
)

type mockCleaner struct {
	errs    map[uuid.UUID]error
	cleaned []uuid.UUID
}

func (m *mockCleaner) CleanupJob(ctx context.Context, id uuid.UUID) error {
	m.cleaned = append(m.cleaned, id)
	return m.errs[id]
}

func TestExpireJobs(t *testing.T) {
	idle := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	busy := uuid.MustParse("22222222-2222-2222-2222-222222222222")
	gone := uuid.MustParse("33333333-3333-3333-3333-333333333333")
	broken := uuid.MustParse("44444444-4444-4444-4444-444444444444")

	store := newMockStore()
	store.listIDs = []uuid.UUID{idle, busy, gone, broken}
	runs := newMockRuns()
	runs.running[busy] = []string{"x_tiktok.mp4"}
	cleaner := &mockCleaner{errs: map[uuid.UUID]error{
		gone:   ErrNotFound,
		broken: ErrIOFailure,
	}}
	svc := NewJobExpirer(store, runs, cleaner)

	n, err := svc.ExpireJobs(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Errorf("cleaned = %d; want 2", n)
	}
	for _, id := range cleaner.cleaned {
		if id == busy {
			t.Error("job with a running attempt must not be expired")
		}
	}
	if len(cleaner.cleaned) != 3 {
		t.Errorf("cleanup called %d times; want 3", len(cleaner.cleaned))
	}
}

func TestExpireJobs_Empty(t *testing.T) {
	cleaner := &mockCleaner{}
	svc := NewJobExpirer(newMockStore(), newMockRuns(), cleaner)

	n, err := svc.ExpireJobs(context.Background(), time.Now())
	if err != nil || n != 0 {
		t.Fatalf("got %d, %v", n, err)
	}
	if len(cleaner.cleaned) != 0 {
		t.Error("nothing should be cleaned")
	}
}

func TestExpireJobs_ListError(t *testing.T) {
	store := newMockStore()
	store.listErr = errors.New("list fail")
	svc := NewJobExpirer(store, newMockRuns(), &mockCleaner{})

	if _, err := svc.ExpireJobs(context.Background(), time.Now()); err == nil || err.Error() != "list fail" {
		t.Fatalf("expected list fail, got %v", err)
	}
}
