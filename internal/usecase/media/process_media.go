package media

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fhuszti/medias-transcode-go/internal/api_context"
	"github.com/fhuszti/medias-transcode-go/internal/logger"
	"github.com/fhuszti/medias-transcode-go/internal/model"
	"github.com/fhuszti/medias-transcode-go/internal/port"
)

type mediaProcessorSrv struct {
	store  port.JobStore
	runs   port.RunRegistry
	strg   port.Storage
	images port.ImageEngine
	videos port.VideoEngine
	bus    port.EventBus
	now    func() time.Time
}

// compile-time check: *mediaProcessorSrv must satisfy port.MediaProcessor
var _ port.MediaProcessor = (*mediaProcessorSrv)(nil)

// NewMediaProcessor constructs a MediaProcessor implementation.
func NewMediaProcessor(
	store port.JobStore,
	runs port.RunRegistry,
	strg port.Storage,
	images port.ImageEngine,
	videos port.VideoEngine,
	bus port.EventBus,
) port.MediaProcessor {
	return &mediaProcessorSrv{
		store:  store,
		runs:   runs,
		strg:   strg,
		images: images,
		videos: videos,
		bus:    bus,
		now:    time.Now,
	}
}

// attemptRef identifies one processing attempt and where its events go.
type attemptRef struct {
	job        *model.Job
	res        Resolution
	outputName string
	channel    string
}

// ProcessMedia resolves the effective profile and routes the job to the
// image or video path. Every request-shape and configuration error is
// returned before any engine is invoked.
func (s *mediaProcessorSrv) ProcessMedia(ctx context.Context, in port.ProcessMediaInput) (port.ProcessMediaOutput, error) {
	ctx = api_context.WithChannel(api_context.WithJobID(ctx, in.JobID), in.Channel)

	job, err := s.store.Get(ctx, in.JobID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return port.ProcessMediaOutput{}, fmt.Errorf("%w: unknown job %s: %w", ErrInvalidRequest, in.JobID, err)
		}
		return port.ProcessMediaOutput{}, err
	}

	res, err := Resolve(in.Platform, in.Overrides)
	if err != nil {
		return port.ProcessMediaOutput{}, err
	}

	ext, err := res.Extension(job.Kind)
	if err != nil {
		return port.ProcessMediaOutput{}, err
	}

	ref := attemptRef{
		job:        job,
		res:        res,
		outputName: OutputName(job.Filename, res.Platform, ext),
		channel:    in.Channel,
	}

	switch job.Kind {
	case model.MediaKindImage:
		return s.processImage(ctx, ref)
	case model.MediaKindVideo:
		return s.startVideo(ctx, ref)
	default:
		return port.ProcessMediaOutput{}, fmt.Errorf("%w: %q", ErrUnsupportedMediaKind, job.Kind)
	}
}

func (s *mediaProcessorSrv) newAttempt(ref attemptRef) model.Attempt {
	now := s.now().UTC()
	return model.Attempt{
		Platform:   ref.res.Platform,
		OutputName: ref.outputName,
		Kind:       ref.job.Kind,
		Status:     model.AttemptStatusRunning,
		StartedAt:  now,
		UpdatedAt:  now,
	}
}

// saveAttempt records the attempt; a job cleaned up meanwhile is not an error.
func (s *mediaProcessorSrv) saveAttempt(ctx context.Context, job *model.Job, a model.Attempt) {
	a.UpdatedAt = s.now().UTC()
	if err := s.store.SaveAttempt(ctx, job.ID, a); err != nil {
		if errors.Is(err, ErrNotFound) {
			logger.Debugf(ctx, "job #%s is gone, attempt %q not recorded", job.ID, a.OutputName)
			return
		}
		logger.Warnf(ctx, "failed to record attempt %q of job #%s: %v", a.OutputName, job.ID, err)
	}
}

// publish stamps and sends the event. Delivery is best effort.
func (s *mediaProcessorSrv) publish(ctx context.Context, ref attemptRef, ev model.ProcessingEvent) {
	if ref.channel == "" {
		return
	}
	ev.JobID = ref.job.ID
	ev.Channel = ref.channel
	ev.Platform = ref.res.Platform
	ev.Timestamp = s.now().UTC()
	if err := s.bus.Publish(ctx, ev); err != nil {
		logger.Warnf(ctx, "failed to publish %s event: %v", ev.Type, err)
	}
}

func (s *mediaProcessorSrv) doneEvent(ref attemptRef) model.ProcessingEvent {
	return model.ProcessingEvent{
		Type:       model.EventDone,
		OutputName: ref.outputName,
		URL:        DownloadURL(ref.outputName),
	}
}

func errorEvent(err error) model.ProcessingEvent {
	return model.ProcessingEvent{Type: model.EventError, Message: err.Error()}
}
