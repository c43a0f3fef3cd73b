package media

import (
	"context"
	"errors"
	"fmt"

	"github.com/fhuszti/medias-transcode-go/internal/logger"
	"github.com/fhuszti/medias-transcode-go/internal/model"
	"github.com/fhuszti/medias-transcode-go/internal/port"
)

var errNoOutcome = errors.New("video engine exited without reporting an outcome")

// startVideo launches the transcode and returns as soon as the engine runs.
// Everything after the launch is reported through events and the attempt record.
func (s *mediaProcessorSrv) startVideo(ctx context.Context, ref attemptRef) (port.ProcessMediaOutput, error) {
	outPath, err := s.strg.LocalPath(OutputsBucket, partialName(ref.outputName))
	if err != nil {
		return port.ProcessMediaOutput{}, fmt.Errorf("%w: resolving output path: %v", ErrIOFailure, err)
	}

	// the run outlives the request that started it
	bg := context.WithoutCancel(ctx)
	runCtx, cancel := context.WithCancel(bg)
	if !s.runs.Register(ref.job.ID, ref.outputName, cancel) {
		cancel()
		return port.ProcessMediaOutput{}, fmt.Errorf("%w: %q", ErrAttemptInProgress, ref.outputName)
	}

	attempt := s.newAttempt(ref)
	run, err := s.videos.Start(runCtx, model.VideoJob{
		InputPath:  ref.job.SourcePath,
		OutputPath: outPath,
		Profile:    ref.res.Profile,
	})
	if err != nil {
		s.runs.Release(ref.job.ID, ref.outputName)
		cancel()
		err = fmt.Errorf("%w: launching video engine: %v", ErrEngineFailure, err)
		attempt.Status = model.AttemptStatusFailed
		attempt.Error = err.Error()
		s.saveAttempt(bg, ref.job, attempt)
		s.publish(bg, ref, errorEvent(err))
		return port.ProcessMediaOutput{}, err
	}

	s.saveAttempt(bg, ref.job, attempt)
	s.publish(bg, ref, model.ProcessingEvent{
		Type:        model.EventStarted,
		Description: run.Description(),
		OutputName:  ref.outputName,
	})
	logger.Infof(ctx, "🎬  Started video attempt %q: %s", ref.outputName, run.Description())

	go s.monitorVideo(bg, runCtx, cancel, ref, run, attempt)

	return port.ProcessMediaOutput{
		JobID:      ref.job.ID,
		Kind:       model.MediaKindVideo,
		Status:     port.ProcessStatusStarted,
		OutputName: ref.outputName,
		Message:    port.ProcessStatusStarted,
	}, nil
}

// monitorVideo owns the run until its signal stream closes. Once a terminal
// event went out, anything the engine still sends is swallowed. The engine
// writes a partial file that only becomes the output on success.
func (s *mediaProcessorSrv) monitorVideo(ctx, runCtx context.Context, cancel context.CancelFunc, ref attemptRef, run port.VideoRun, attempt model.Attempt) {
	defer cancel()

	terminated := false
	finish := func(ev model.ProcessingEvent, status model.AttemptStatus, msg string) {
		terminated = true
		s.runs.Release(ref.job.ID, ref.outputName)
		attempt.Status = status
		attempt.Error = msg
		s.saveAttempt(ctx, ref.job, attempt)
		s.publish(ctx, ref, ev)
	}
	fail := func(err error) {
		s.discardPartial(ctx, ref)
		finish(errorEvent(err), model.AttemptStatusFailed, err.Error())
		logger.Errorf(ctx, "❌  Video %q failed: %v", ref.outputName, err)
	}

	for sig := range run.Signals() {
		if terminated {
			logger.Debugf(ctx, "dropping %s signal after terminal event of %q", sig.Type, ref.outputName)
			continue
		}

		switch sig.Type {
		case model.SignalProgress:
			p := sig.Progress
			attempt.Progress = &p
			s.saveAttempt(ctx, ref.job, attempt)
			s.publish(ctx, ref, model.ProcessingEvent{Type: model.EventProgress, Progress: &p})

		case model.SignalEnd:
			if err := s.promoteOutput(ctx, runCtx, ref); err != nil {
				fail(err)
				continue
			}
			finish(s.doneEvent(ref), model.AttemptStatusDone, "")
			logger.Infof(ctx, "✅  Video %q done", ref.outputName)

		case model.SignalError:
			err := sig.Err
			if err == nil {
				err = errNoOutcome
			}
			fail(fmt.Errorf("%w: %v", ErrEngineFailure, err))
		}
	}

	if !terminated {
		fail(fmt.Errorf("%w: %v", ErrEngineFailure, errNoOutcome))
	}
}

// promoteOutput renames the finished partial over the output. An attempt
// cancelled meanwhile loses its output.
func (s *mediaProcessorSrv) promoteOutput(ctx, runCtx context.Context, ref attemptRef) error {
	if err := s.strg.RenameFile(ctx, OutputsBucket, partialName(ref.outputName), ref.outputName); err != nil {
		return fmt.Errorf("%w: promoting output %q: %v", ErrIOFailure, ref.outputName, err)
	}
	if err := runCtx.Err(); err != nil {
		if rmErr := s.strg.RemoveFile(ctx, OutputsBucket, ref.outputName); rmErr != nil && !errors.Is(rmErr, ErrNotFound) {
			logger.Warnf(ctx, "failed to remove output %q of cancelled attempt: %v", ref.outputName, rmErr)
		}
		return fmt.Errorf("%w: attempt cancelled: %v", ErrEngineFailure, err)
	}
	return nil
}

func (s *mediaProcessorSrv) discardPartial(ctx context.Context, ref attemptRef) {
	if err := s.strg.RemoveFile(ctx, OutputsBucket, partialName(ref.outputName)); err != nil && !errors.Is(err, ErrNotFound) {
		logger.Warnf(ctx, "failed to remove partial output of %q: %v", ref.outputName, err)
	}
}
