package event

import (
	"context"
	"time"

	"github.com/fhuszti/medias-transcode-go/internal/logger"
	"github.com/fhuszti/medias-transcode-go/internal/model"
)

// deliver hands ev to out. Progress is dropped at once when out is full;
// every other event waits up to timeout. Returns false when ev was dropped.
func deliver(ctx context.Context, out chan<- model.ProcessingEvent, done <-chan struct{}, ev model.ProcessingEvent, timeout time.Duration) bool {
	if ev.Type == model.EventProgress {
		select {
		case out <- ev:
			return true
		case <-done:
			return false
		default:
			logger.Debugf(ctx, "dropping progress for job %s on channel %s", ev.JobID, ev.Channel)
			return false
		}
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case out <- ev:
		return true
	case <-done:
		return false
	case <-ctx.Done():
		return false
	case <-timer.C:
		logger.Warnf(ctx, "⚠️ dropping %s for job %s: channel %s not reading", ev.Type, ev.JobID, ev.Channel)
		return false
	}
}
