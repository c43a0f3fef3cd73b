package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fhuszti/medias-transcode-go/internal/model"
	"github.com/fhuszti/medias-transcode-go/internal/port"
	mediaService "github.com/fhuszti/medias-transcode-go/internal/usecase/media"
)

// Hub is the in-process event bus. Each event reaches the subscribers of its
// own channel address only.
type Hub struct {
	mu      sync.RWMutex
	subs    map[string]map[*hubSub]struct{}
	buffer  int
	timeout time.Duration
}

// compile-time check: *Hub must satisfy port.EventBus
var _ port.EventBus = (*Hub)(nil)

func NewHub(buffer int, timeout time.Duration) *Hub {
	if buffer <= 0 {
		buffer = 1
	}
	return &Hub{
		subs:    make(map[string]map[*hubSub]struct{}),
		buffer:  buffer,
		timeout: timeout,
	}
}

// Publish delivers ev to every current subscriber of ev.Channel. Nobody
// listening is not an error.
func (h *Hub) Publish(ctx context.Context, ev model.ProcessingEvent) error {
	if ev.Channel == "" {
		return nil
	}

	h.mu.RLock()
	targets := make([]*hubSub, 0, len(h.subs[ev.Channel]))
	for s := range h.subs[ev.Channel] {
		targets = append(targets, s)
	}
	h.mu.RUnlock()

	for _, s := range targets {
		s.send(ctx, ev, h.timeout)
	}
	return nil
}

func (h *Hub) Subscribe(ctx context.Context, channel string) (port.Subscription, error) {
	if channel == "" {
		return nil, fmt.Errorf("%w: channel address is required", mediaService.ErrInvalidRequest)
	}

	s := &hubSub{
		hub:     h,
		channel: channel,
		ch:      make(chan model.ProcessingEvent, h.buffer),
		done:    make(chan struct{}),
	}

	h.mu.Lock()
	if h.subs[channel] == nil {
		h.subs[channel] = make(map[*hubSub]struct{})
	}
	h.subs[channel][s] = struct{}{}
	h.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			_ = s.Close()
		case <-s.done:
		}
	}()
	return s, nil
}

// Subscribers reports how many subscriptions channel currently has.
func (h *Hub) Subscribers(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[channel])
}

func (h *Hub) remove(s *hubSub) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs[s.channel], s)
	if len(h.subs[s.channel]) == 0 {
		delete(h.subs, s.channel)
	}
}

type hubSub struct {
	hub     *Hub
	channel string
	ch      chan model.ProcessingEvent
	done    chan struct{}
	once    sync.Once

	// mu guards closed; senders hold it for reading while they write to ch
	mu     sync.RWMutex
	closed bool
}

func (s *hubSub) send(ctx context.Context, ev model.ProcessingEvent, timeout time.Duration) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return
	}
	deliver(ctx, s.ch, s.done, ev, timeout)
}

func (s *hubSub) Events() <-chan model.ProcessingEvent {
	return s.ch
}

func (s *hubSub) Close() error {
	s.once.Do(func() {
		close(s.done)
		s.hub.remove(s)
		s.mu.Lock()
		s.closed = true
		close(s.ch)
		s.mu.Unlock()
	})
	return nil
}
