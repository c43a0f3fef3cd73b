package port

import (
	"context"
	"io"

	"github.com/fhuszti/medias-transcode-go/internal/model"
)

// ImageEngine resizes and re-encodes still images.
type ImageEngine interface {
	Resize(r io.Reader, w io.Writer, opts model.ImageOptions) (model.ImageInfo, error)
}

// VideoEngine starts transcodes that run in the background.
type VideoEngine interface {
	Start(ctx context.Context, job model.VideoJob) (VideoRun, error)
}

// VideoRun is a single running transcode. Signals emits any number of
// progress signals followed by exactly one end or error signal, then closes.
type VideoRun interface {
	Description() string
	Signals() <-chan model.EngineSignal
	Cancel()
}
