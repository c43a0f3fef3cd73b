package event

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fhuszti/medias-transcode-go/internal/logger"
	"github.com/fhuszti/medias-transcode-go/internal/model"
	"github.com/fhuszti/medias-transcode-go/internal/port"
	mediaService "github.com/fhuszti/medias-transcode-go/internal/usecase/media"
)

// RedisBus carries events over Redis pub/sub, one Redis channel per address.
type RedisBus struct {
	client  *redis.Client
	buffer  int
	timeout time.Duration
}

// compile-time check: *RedisBus must satisfy port.EventBus
var _ port.EventBus = (*RedisBus)(nil)

func NewRedisBus(addr, password string, buffer int, timeout time.Duration) *RedisBus {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	return NewRedisBusWithClient(rdb, buffer, timeout)
}

func NewRedisBusWithClient(client *redis.Client, buffer int, timeout time.Duration) *RedisBus {
	if buffer <= 0 {
		buffer = 1
	}
	return &RedisBus{client: client, buffer: buffer, timeout: timeout}
}

func (b *RedisBus) Ping(ctx context.Context) error {
	if err := b.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (b *RedisBus) Close() error {
	return b.client.Close()
}

func (b *RedisBus) Publish(ctx context.Context, ev model.ProcessingEvent) error {
	if ev.Channel == "" {
		return nil
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	if err := b.client.Publish(ctx, getChannelKey(ev.Channel), data).Err(); err != nil {
		return fmt.Errorf("redis publish failed: %w", err)
	}
	return nil
}

// Subscribe returns once Redis has confirmed the subscription, so events
// published afterwards are never missed.
func (b *RedisBus) Subscribe(ctx context.Context, channel string) (port.Subscription, error) {
	if channel == "" {
		return nil, fmt.Errorf("%w: channel address is required", mediaService.ErrInvalidRequest)
	}

	ps := b.client.Subscribe(ctx, getChannelKey(channel))
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("redis subscribe failed: %w", err)
	}

	s := &redisSub{
		ps:   ps,
		ch:   make(chan model.ProcessingEvent, b.buffer),
		done: make(chan struct{}),
	}
	go s.pump(ctx, b.timeout)
	return s, nil
}

type redisSub struct {
	ps   *redis.PubSub
	ch   chan model.ProcessingEvent
	done chan struct{}
	once sync.Once
}

// pump is the only writer of ch and closes it on exit.
func (s *redisSub) pump(ctx context.Context, timeout time.Duration) {
	defer close(s.ch)
	msgs := s.ps.Channel()
	for {
		select {
		case <-ctx.Done():
			_ = s.Close()
			return
		case <-s.done:
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			var ev model.ProcessingEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				logger.Warnf(ctx, "⚠️ skipping malformed event on %s: %v", msg.Channel, err)
				continue
			}
			deliver(ctx, s.ch, s.done, ev, timeout)
		}
	}
}

func (s *redisSub) Events() <-chan model.ProcessingEvent {
	return s.ch
}

func (s *redisSub) Close() error {
	var err error
	s.once.Do(func() {
		close(s.done)
		err = s.ps.Close()
	})
	return err
}

func getChannelKey(address string) string {
	return "media:events:" + address
}
