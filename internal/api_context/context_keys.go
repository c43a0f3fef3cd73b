package api_context

import (
	"context"

	"github.com/fhuszti/medias-transcode-go/internal/uuid"
)

type ctxKey string

const (
	JobIDKey   ctxKey = "jobID"
	ChannelKey ctxKey = "channel"
)

func WithJobID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, JobIDKey, id)
}

func JobIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(JobIDKey).(uuid.UUID)
	return id, ok
}

func WithChannel(ctx context.Context, channel string) context.Context {
	return context.WithValue(ctx, ChannelKey, channel)
}

func ChannelFromContext(ctx context.Context) (string, bool) {
	ch, ok := ctx.Value(ChannelKey).(string)
	return ch, ok && ch != ""
}
