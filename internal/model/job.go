package model

import (
	"strings"
	"time"

	"github.com/fhuszti/medias-transcode-go/internal/uuid"
)

type MediaKind string

const (
	MediaKindImage MediaKind = "image"
	MediaKindVideo MediaKind = "video"
)

// KindFromMimeType maps a declared MIME type onto a media kind. Only the
// top-level type is considered; unknown top-level types are returned as-is so
// that dispatch can reject them.
func KindFromMimeType(mimeType string) MediaKind {
	top, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(mimeType)), "/")
	switch top {
	case "image":
		return MediaKindImage
	case "video":
		return MediaKindVideo
	default:
		return MediaKind(top)
	}
}

type AttemptStatus string

const (
	AttemptStatusRunning AttemptStatus = "running"
	AttemptStatusDone    AttemptStatus = "done"
	AttemptStatusFailed  AttemptStatus = "failed"
)

// Attempt is the polled outcome of one processing attempt.
type Attempt struct {
	Platform   string        `json:"platform"`
	OutputName string        `json:"output_name"`
	Kind       MediaKind     `json:"kind"`
	Status     AttemptStatus `json:"status"`
	Progress   *Progress     `json:"progress,omitempty"`
	Error      string        `json:"error,omitempty"`
	StartedAt  time.Time     `json:"started_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

func (a Attempt) IsTerminal() bool {
	return a.Status == AttemptStatusDone || a.Status == AttemptStatusFailed
}

type Job struct {
	ID           uuid.UUID          `json:"id"`
	Filename     string             `json:"filename"`
	OriginalName string             `json:"original_name"`
	MimeType     string             `json:"mime_type"`
	Kind         MediaKind          `json:"kind"`
	SourcePath   string             `json:"-"`
	SizeBytes    int64              `json:"size_bytes"`
	CreatedAt    time.Time          `json:"created_at"`
	Attempts     map[string]Attempt `json:"attempts"`
}

// Clone returns a deep copy so callers never share the attempts map.
func (j *Job) Clone() *Job {
	if j == nil {
		return nil
	}
	c := *j
	c.Attempts = make(map[string]Attempt, len(j.Attempts))
	for k, v := range j.Attempts {
		if v.Progress != nil {
			p := *v.Progress
			v.Progress = &p
		}
		c.Attempts[k] = v
	}
	return &c
}
