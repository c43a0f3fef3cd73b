package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/sse"

	"github.com/fhuszti/medias-transcode-go/internal/api_context"
	"github.com/fhuszti/medias-transcode-go/internal/logger"
	"github.com/fhuszti/medias-transcode-go/internal/port"
)

const (
	EventRegistered = "registered"
	maxChannelLen   = 128
)

type RegisteredEvent struct {
	Channel string `json:"channel"`
}

// EventsHandler streams the processing events addressed to one channel as
// server-sent events. The first frame is "registered" and names the channel
// to pass along with processing requests. A client reconnecting may ask for
// its previous channel with ?channel=.
func EventsHandler(bus port.EventBus, genID port.UUIDGen, heartbeat time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			WriteError(w, http.StatusInternalServerError, "streaming is not supported", nil)
			return
		}

		channel := r.URL.Query().Get("channel")
		if len(channel) > maxChannelLen {
			WriteError(w, http.StatusBadRequest, "channel address is too long", nil)
			return
		}
		if channel == "" {
			channel = genID().String()
		}
		ctx := api_context.WithChannel(r.Context(), channel)

		sub, err := bus.Subscribe(ctx, channel)
		if err != nil {
			WriteServiceError(w, r.WithContext(ctx), "could not open event stream", err)
			return
		}
		defer func() { _ = sub.Close() }()

		w.Header().Set("Content-Type", sse.ContentType)
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")
		w.WriteHeader(http.StatusOK)

		if err := sse.Encode(w, sse.Event{Event: EventRegistered, Data: RegisteredEvent{Channel: channel}}); err != nil {
			logger.Warnf(ctx, "failed to write registered frame: %v", err)
			return
		}
		flusher.Flush()
		logger.Info(ctx, "📡 Event stream opened")

		var tick <-chan time.Time
		if heartbeat > 0 {
			ticker := time.NewTicker(heartbeat)
			defer ticker.Stop()
			tick = ticker.C
		}

		for {
			select {
			case <-ctx.Done():
				logger.Info(ctx, "📴 Event stream closed by client")
				return
			case ev, ok := <-sub.Events():
				if !ok {
					return
				}
				if err := sse.Encode(w, sse.Event{Event: string(ev.Type), Data: ev}); err != nil {
					logger.Warnf(ctx, "failed to write %s frame: %v", ev.Type, err)
					return
				}
				flusher.Flush()
			case <-tick:
				// comment frame, ignored by EventSource clients
				if _, err := fmt.Fprint(w, ": heartbeat\n\n"); err != nil {
					return
				}
				flusher.Flush()
			}
		}
	}
}
