package media

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fhuszti/medias-transcode-go/internal/uuid"
)

func TestCleanupJob_NotFound(t *testing.T) {
	svc := NewJobCleaner(newMockStore(), newMockRuns(), newMockStorage())

	err := svc.CleanupJob(context.Background(), uuid.MustParse("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCleanupJob_TwiceFailsSecondTime(t *testing.T) {
	store := newMockStore(newImageJob())
	strg := newMockStorage()
	strg.put(UploadsBucket, "src1.png", []byte("x"))
	strg.put(OutputsBucket, "src1_tiktok.jpg", []byte("x"))
	strg.put(OutputsBucket, "src1_custom.webp", []byte("x"))
	strg.put(OutputsBucket, "other_tiktok.jpg", []byte("x"))
	strg.put(OutputsBucket, "src10_tiktok.jpg", []byte("x"))
	svc := NewJobCleaner(store, newMockRuns(), strg)

	if err := svc.CleanupJob(context.Background(), imageJobID); err != nil {
		t.Fatalf("first cleanup: %v", err)
	}
	if strg.has(UploadsBucket, "src1.png") {
		t.Error("source should be removed")
	}
	if strg.has(OutputsBucket, "src1_tiktok.jpg") || strg.has(OutputsBucket, "src1_custom.webp") {
		t.Error("derived outputs should be removed")
	}
	if !strg.has(OutputsBucket, "other_tiktok.jpg") || !strg.has(OutputsBucket, "src10_tiktok.jpg") {
		t.Error("outputs of other jobs must be kept")
	}
	if _, err := store.Get(context.Background(), imageJobID); !errors.Is(err, ErrNotFound) {
		t.Errorf("job record should be gone, got %v", err)
	}

	if err := svc.CleanupJob(context.Background(), imageJobID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second cleanup: expected ErrNotFound, got %v", err)
	}
}

func TestCleanupJob_MissingSourceIsFine(t *testing.T) {
	store := newMockStore(newImageJob())
	svc := NewJobCleaner(store, newMockRuns(), newMockStorage())

	if err := svc.CleanupJob(context.Background(), imageJobID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCleanupJob_PartialFailureStillDeletesRecord(t *testing.T) {
	store := newMockStore(newImageJob())
	strg := newMockStorage()
	strg.put(UploadsBucket, "src1.png", []byte("x"))
	strg.put(OutputsBucket, "src1_tiktok.jpg", []byte("x"))
	strg.put(OutputsBucket, "src1_youtube.jpg", []byte("x"))
	strg.removeErr[OutputsBucket+"/src1_tiktok.jpg"] = errors.New("permission denied")
	svc := NewJobCleaner(store, newMockRuns(), strg)

	err := svc.CleanupJob(context.Background(), imageJobID)
	if !errors.Is(err, ErrIOFailure) {
		t.Fatalf("expected ErrIOFailure, got %v", err)
	}
	if strg.has(UploadsBucket, "src1.png") || strg.has(OutputsBucket, "src1_youtube.jpg") {
		t.Error("other artifacts should still be removed")
	}
	if _, err := store.Get(context.Background(), imageJobID); !errors.Is(err, ErrNotFound) {
		t.Errorf("job record must not survive a partial failure, got %v", err)
	}
}

func TestCleanupJob_ListFailure(t *testing.T) {
	store := newMockStore(newImageJob())
	strg := newMockStorage()
	strg.listErr = errors.New("readdir failed")
	svc := NewJobCleaner(store, newMockRuns(), strg)

	if err := svc.CleanupJob(context.Background(), imageJobID); !errors.Is(err, ErrIOFailure) {
		t.Fatalf("expected ErrIOFailure, got %v", err)
	}
	if len(store.deleted) != 1 {
		t.Error("record should still be deleted")
	}
}

func TestCleanupJob_CancelsRunningAttempts(t *testing.T) {
	store := newMockStore(newVideoJob())
	runs := newMockRuns()
	cancelled := make(chan struct{})
	runs.Register(videoJobID, "src2_tiktok.mp4", func() { close(cancelled) })
	svc := NewJobCleaner(store, runs, newMockStorage())

	if err := svc.CleanupJob(context.Background(), videoJobID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("running attempt should be cancelled")
	}
	if len(runs.Running(videoJobID)) != 0 {
		t.Error("registry should be empty")
	}
}
