package port

import (
	"context"
	"io"
	"time"

	"github.com/fhuszti/medias-transcode-go/internal/model"
	"github.com/fhuszti/medias-transcode-go/internal/uuid"
)

type UUIDGen func() uuid.UUID

// PresetLister exposes the preset catalog.
type PresetLister interface {
	ListPresets(ctx context.Context) []model.Preset
}

// UploadRegistrar stores an uploaded source file and creates its job.
type UploadRegistrar interface {
	RegisterUpload(ctx context.Context, in RegisterUploadInput) (RegisterUploadOutput, error)
}
type RegisterUploadInput struct {
	OriginalName string
	MimeType     string
	Body         io.Reader
}
type RegisterUploadOutput struct {
	JobID        uuid.UUID       `json:"job_id"`
	OriginalName string          `json:"original_name"`
	MimeType     string          `json:"mime"`
	Kind         model.MediaKind `json:"kind"`
}

const (
	ProcessStatusDone    = "done"
	ProcessStatusStarted = "processing_started"
)

// MediaProcessor dispatches a processing request to the image or video path.
type MediaProcessor interface {
	ProcessMedia(ctx context.Context, in ProcessMediaInput) (ProcessMediaOutput, error)
}
type ProcessMediaInput struct {
	JobID     uuid.UUID
	Platform  string
	Overrides *model.ProfileOverrides
	Channel   string
}
type ProcessMediaOutput struct {
	JobID      uuid.UUID       `json:"job_id"`
	Kind       model.MediaKind `json:"-"`
	Status     string          `json:"status"`
	OutputName string          `json:"output_name,omitempty"`
	URL        string          `json:"url,omitempty"`
	Message    string          `json:"message,omitempty"`
}

// JobGetter returns a snapshot of a job and its attempts.
type JobGetter interface {
	GetJob(ctx context.Context, id uuid.UUID) (*model.Job, error)
}

// JobCleaner removes a job, its source and every output derived from it.
type JobCleaner interface {
	CleanupJob(ctx context.Context, id uuid.UUID) error
}

// JobExpirer cleans idle jobs created before a cutoff.
type JobExpirer interface {
	ExpireJobs(ctx context.Context, before time.Time) (int, error)
}

// OutputGetter opens a produced output for download.
type OutputGetter interface {
	GetOutput(ctx context.Context, name string) (*GetOutputOutput, error)
}
type GetOutputOutput struct {
	Name    string
	Body    io.ReadSeekCloser
	Size    int64
	ModTime time.Time
}
