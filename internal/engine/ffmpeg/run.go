package ffmpeg

import (
	"context"
	"fmt"
	"io"
	"os/exec"

	"github.com/fhuszti/medias-transcode-go/internal/logger"
	"github.com/fhuszti/medias-transcode-go/internal/model"
)

type run struct {
	desc    string
	signals chan model.EngineSignal
	cancel  context.CancelFunc
}

func (r *run) Description() string { return r.desc }
func (r *run) Signals() <-chan model.EngineSignal { return r.signals }
func (r *run) Cancel() { r.cancel() }

// wait forwards progress until stdout closes, then sends exactly one terminal
// signal and closes the channel.
func (r *run) wait(ctx context.Context, cmd *exec.Cmd, stdout io.Reader, tail *tailBuffer, total float64) {
	defer close(r.signals)
	defer r.cancel()

	err := parseProgress(stdout, total, func(p model.Progress) {
		select {
		case r.signals <- model.EngineSignal{Type: model.SignalProgress, Progress: p}:
		default:
			// consumer lags, drop
		}
	})
	if err != nil {
		logger.Warnf(ctx, "⚠️ ffmpeg progress stream: %v", err)
		// keep the pipe drained so ffmpeg never blocks on a full stdout
		_, _ = io.Copy(io.Discard, stdout)
	}

	if err := cmd.Wait(); err != nil {
		switch {
		case ctx.Err() != nil:
			err = fmt.Errorf("ffmpeg: cancelled: %w", ctx.Err())
		case tail.LastLine() != "":
			err = fmt.Errorf("ffmpeg: %w: %s", err, tail.LastLine())
		default:
			err = fmt.Errorf("ffmpeg: %w", err)
		}
		r.signals <- model.EngineSignal{Type: model.SignalError, Err: err}
		return
	}
	r.signals <- model.EngineSignal{Type: model.SignalEnd}
}
