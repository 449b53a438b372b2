// Package messaging is a thin typed layer over watermill: handlers and
// publishers deal in event structs, the JSON envelope stays in here.
package messaging

import (
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// Publish sends one typed event. Implementations are topic-bound, so call
// sites carry no topic strings.
type Publish[T any] func(event *T) error

// NewPublishFunc binds a topic to a publisher and returns a typed publish
// function for it.
func NewPublishFunc[T any](publisher message.Publisher, topic string) Publish[T] {
	return func(event *T) error {
		payload, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("marshal event for %s: %w", topic, err)
		}

		return publisher.Publish(topic, message.NewMessage(watermill.NewUUID(), payload))
	}
}

// PublisherGroup owns the underlying publisher's lifecycle so the DI
// container can shut it down once, regardless of how many typed publish
// functions were derived from it.
type PublisherGroup struct {
	publisher message.Publisher
}

// NewPublisherGroup wraps a watermill publisher.
func NewPublisherGroup(publisher message.Publisher) *PublisherGroup {
	return &PublisherGroup{publisher: publisher}
}

// Publisher exposes the wrapped publisher for deriving typed publish funcs.
func (g *PublisherGroup) Publisher() message.Publisher {
	return g.publisher
}

// Shutdown closes the wrapped publisher.
func (g *PublisherGroup) Shutdown() error {
	return g.publisher.Close()
}
