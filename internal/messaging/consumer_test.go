package messaging_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Johndevils/Url-shorter-bot/internal/analytics"
	"github.com/Johndevils/Url-shorter-bot/internal/messaging"
)

type mockSubscriber struct {
	msgChan      chan *message.Message
	subscribeErr error
	mu           sync.Mutex
	closed       bool
}

func newMockSubscriber() *mockSubscriber {
	return &mockSubscriber{
		msgChan: make(chan *message.Message, 10),
	}
}

func (m *mockSubscriber) Subscribe(_ context.Context, _ string) (<-chan *message.Message, error) {
	if m.subscribeErr != nil {
		return nil, m.subscribeErr
	}

	return m.msgChan, nil
}

func (m *mockSubscriber) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.closed {
		m.closed = true
		close(m.msgChan)
	}

	return nil
}

func TestConsumer_Start(t *testing.T) {
	t.Run("starts successfully", func(t *testing.T) {
		sub := newMockSubscriber()
		consumer := messaging.NewConsumer(
			sub,
			analytics.TopicLinkVisited,
			func(_ context.Context, _ *analytics.LinkVisitedEvent) error { return nil },
			zap.NewNop(),
		)

		err := consumer.Start(context.Background())

		require.NoError(t, err)
		assert.Equal(t, analytics.TopicLinkVisited, consumer.Topic())

		_ = consumer.Shutdown()
	})

	t.Run("returns error when subscribe fails", func(t *testing.T) {
		sub := &mockSubscriber{subscribeErr: errors.New("subscribe error")}
		consumer := messaging.NewConsumer(
			sub,
			analytics.TopicLinkVisited,
			func(_ context.Context, _ *analytics.LinkVisitedEvent) error { return nil },
			zap.NewNop(),
		)

		err := consumer.Start(context.Background())

		assert.Error(t, err)
	})
}

func TestConsumer_HandleMessage(t *testing.T) {
	t.Run("acks on successful handling", func(t *testing.T) {
		sub := newMockSubscriber()

		var received *analytics.LinkVisitedEvent

		consumer := messaging.NewConsumer(
			sub,
			analytics.TopicLinkVisited,
			func(_ context.Context, event *analytics.LinkVisitedEvent) error {
				received = event

				return nil
			},
			zap.NewNop(),
		)

		require.NoError(t, consumer.Start(context.Background()))

		payload, _ := json.Marshal(&analytics.LinkVisitedEvent{Code: "abc123"})
		msg := message.NewMessage(uuid.NewString(), payload)

		sub.msgChan <- msg

		select {
		case <-msg.Acked():
			assert.Equal(t, "abc123", received.Code)
		case <-msg.Nacked():
			t.Fatal("message was nacked")
		case <-time.After(time.Second):
			t.Fatal("timeout waiting for ack")
		}

		_ = consumer.Shutdown()
	})

	t.Run("nacks on unmarshal error", func(t *testing.T) {
		sub := newMockSubscriber()
		consumer := messaging.NewConsumer(
			sub,
			analytics.TopicLinkVisited,
			func(_ context.Context, _ *analytics.LinkVisitedEvent) error { return nil },
			zap.NewNop(),
		)

		require.NoError(t, consumer.Start(context.Background()))

		msg := message.NewMessage(uuid.NewString(), []byte("invalid json"))

		sub.msgChan <- msg

		select {
		case <-msg.Nacked():
		case <-msg.Acked():
			t.Fatal("message should have been nacked")
		case <-time.After(time.Second):
			t.Fatal("timeout waiting for nack")
		}

		_ = consumer.Shutdown()
	})

	t.Run("nacks on handler error", func(t *testing.T) {
		sub := newMockSubscriber()
		consumer := messaging.NewConsumer(
			sub,
			analytics.TopicLinkVisited,
			func(_ context.Context, _ *analytics.LinkVisitedEvent) error {
				return errors.New("handler error")
			},
			zap.NewNop(),
		)

		require.NoError(t, consumer.Start(context.Background()))

		payload, _ := json.Marshal(&analytics.LinkVisitedEvent{Code: "abc123"})
		msg := message.NewMessage(uuid.NewString(), payload)

		sub.msgChan <- msg

		select {
		case <-msg.Nacked():
		case <-msg.Acked():
			t.Fatal("message should have been nacked")
		case <-time.After(time.Second):
			t.Fatal("timeout waiting for nack")
		}

		_ = consumer.Shutdown()
	})
}

func TestConsumerGroup(t *testing.T) {
	t.Run("starts and stops all consumers", func(t *testing.T) {
		sub := newMockSubscriber()
		group := messaging.NewConsumerGroup(sub, zap.NewNop())

		group.Add(messaging.NewConsumer(
			sub,
			analytics.TopicLinkCreated,
			func(_ context.Context, _ *analytics.LinkCreatedEvent) error { return nil },
			zap.NewNop(),
		))
		group.Add(messaging.NewConsumer(
			sub,
			analytics.TopicLinkVisited,
			func(_ context.Context, _ *analytics.LinkVisitedEvent) error { return nil },
			zap.NewNop(),
		))

		require.NoError(t, group.Start(context.Background()))
		require.NoError(t, group.Shutdown())
	})

	t.Run("start fails when a subscriber fails", func(t *testing.T) {
		sub := &mockSubscriber{subscribeErr: errors.New("subscribe error")}
		group := messaging.NewConsumerGroup(sub, zap.NewNop())

		group.Add(messaging.NewConsumer(
			sub,
			analytics.TopicLinkCreated,
			func(_ context.Context, _ *analytics.LinkCreatedEvent) error { return nil },
			zap.NewNop(),
		))

		assert.Error(t, group.Start(context.Background()))
	})
}
