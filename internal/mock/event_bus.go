package mock

import (
	"context"
	"sync"

	"github.com/fhuszti/medias-transcode-go/internal/model"
	"github.com/fhuszti/medias-transcode-go/internal/port"
)

// MockEventBus implements port.EventBus for tests. Subscriptions get a
// pre-filled event channel controlled by the test.
type MockEventBus struct {
	mu           sync.Mutex
	Published    []model.ProcessingEvent
	SubscribeErr error
	Channels     []string
	Stream       chan model.ProcessingEvent
	Closed       bool
}

func NewMockEventBus() *MockEventBus {
	return &MockEventBus{Stream: make(chan model.ProcessingEvent, 16)}
}

func (m *MockEventBus) Publish(ctx context.Context, ev model.ProcessingEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Published = append(m.Published, ev)
	return nil
}

func (m *MockEventBus) Subscribe(ctx context.Context, channel string) (port.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SubscribeErr != nil {
		return nil, m.SubscribeErr
	}
	m.Channels = append(m.Channels, channel)
	return &mockSubscription{bus: m}, nil
}

func (m *MockEventBus) SubscribedTo() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Channels...)
}

func (m *MockEventBus) WasClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Closed
}

type mockSubscription struct {
	bus *MockEventBus
}

func (s *mockSubscription) Events() <-chan model.ProcessingEvent {
	return s.bus.Stream
}

func (s *mockSubscription) Close() error {
	s.bus.mu.Lock()
	defer s.bus.mu.Unlock()
	s.bus.Closed = true
	return nil
}
