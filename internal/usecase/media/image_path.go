package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fhuszti/medias-transcode-go/internal/logger"
	"github.com/fhuszti/medias-transcode-go/internal/model"
	"github.com/fhuszti/medias-transcode-go/internal/port"
)

var errAttemptCancelled = errors.New("attempt cancelled")

// processImage resizes the source synchronously and reports exactly one
// done or error event for the attempt.
func (s *mediaProcessorSrv) processImage(ctx context.Context, ref attemptRef) (port.ProcessMediaOutput, error) {
	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	if !s.runs.Register(ref.job.ID, ref.outputName, func() { cancel(errAttemptCancelled) }) {
		return port.ProcessMediaOutput{}, fmt.Errorf("%w: %q", ErrAttemptInProgress, ref.outputName)
	}
	defer s.runs.Release(ref.job.ID, ref.outputName)

	attempt := s.newAttempt(ref)
	s.saveAttempt(ctx, ref.job, attempt)

	info, err := s.renderImage(ctx, ref)
	if err != nil {
		attempt.Status = model.AttemptStatusFailed
		attempt.Error = err.Error()
		s.saveAttempt(context.WithoutCancel(ctx), ref.job, attempt)
		s.publish(context.WithoutCancel(ctx), ref, errorEvent(err))
		logger.Errorf(ctx, "❌  Image attempt %q failed: %v", ref.outputName, err)
		return port.ProcessMediaOutput{}, err
	}

	// the output exists now, so the outcome is reported even if the caller left
	bg := context.WithoutCancel(ctx)
	attempt.Status = model.AttemptStatusDone
	s.saveAttempt(bg, ref.job, attempt)
	s.publish(bg, ref, s.doneEvent(ref))
	logger.Infof(ctx, "✅  Image %q written (%dx%d %s)", ref.outputName, info.Width, info.Height, info.Format)

	return port.ProcessMediaOutput{
		JobID:      ref.job.ID,
		Kind:       model.MediaKindImage,
		Status:     port.ProcessStatusDone,
		OutputName: ref.outputName,
		URL:        DownloadURL(ref.outputName),
	}, nil
}

func (s *mediaProcessorSrv) renderImage(ctx context.Context, ref attemptRef) (model.ImageInfo, error) {
	src, err := s.strg.GetFile(ctx, UploadsBucket, ref.job.Filename)
	if err != nil {
		return model.ImageInfo{}, fmt.Errorf("%w: opening source %q: %v", ErrIOFailure, ref.job.Filename, err)
	}
	defer func(src io.ReadSeekCloser) {
		if err := src.Close(); err != nil {
			logger.Warnf(ctx, "failed to close source %q: %v", ref.job.Filename, err)
		}
	}(src)

	p := ref.res.Profile
	opts := model.ImageOptions{
		Width:   p.Width,
		Height:  p.Height,
		Format:  model.ImageFormatFor(p.Container),
		Quality: ImageQuality(p.VideoBitrateKbps),
	}

	var buf bytes.Buffer
	info, err := s.images.Resize(src, &buf, opts)
	if err != nil {
		return model.ImageInfo{}, fmt.Errorf("%w: %v", ErrEngineFailure, err)
	}
	if err := ctx.Err(); err != nil {
		return model.ImageInfo{}, fmt.Errorf("%w: attempt cancelled: %v", ErrEngineFailure, err)
	}

	if _, err := s.strg.SaveFile(ctx, OutputsBucket, ref.outputName, &buf); err != nil {
		return model.ImageInfo{}, fmt.Errorf("%w: saving output %q: %v", ErrIOFailure, ref.outputName, err)
	}
	// a cleanup that cancelled us may have listed the bucket before the save landed
	if errors.Is(context.Cause(ctx), errAttemptCancelled) {
		if err := s.strg.RemoveFile(context.WithoutCancel(ctx), OutputsBucket, ref.outputName); err != nil && !errors.Is(err, ErrNotFound) {
			logger.Warnf(ctx, "failed to remove output %q of cancelled attempt: %v", ref.outputName, err)
		}
		return model.ImageInfo{}, fmt.Errorf("%w: %v", ErrEngineFailure, errAttemptCancelled)
	}
	return info, nil
}
