package port

import (
	"context"

	"github.com/fhuszti/medias-transcode-go/internal/model"
)

// EventBus delivers processing events to the channel they are addressed to.
// Publishing to a channel nobody listens on is not an error.
type EventBus interface {
	Publish(ctx context.Context, ev model.ProcessingEvent) error
	Subscribe(ctx context.Context, channel string) (Subscription, error)
}

type Subscription interface {
	Events() <-chan model.ProcessingEvent
	Close() error
}
