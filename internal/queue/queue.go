// Package queue abstracts the ingestion transport. Readings accepted by the
// API are published here and the ingest worker consumes them, so the HTTP
// path never blocks on the database.
package queue

import "context"

// Publisher publishes messages to a subject or topic.
type Publisher interface {
	Publish(ctx context.Context, subject string, data []byte) error

	// PublishBatch publishes multiple messages and reports how many were
	// accepted by the broker.
	PublishBatch(ctx context.Context, messages []BatchMessage) (int, error)

	Close() error
}

// BatchMessage is one message in a batch publish.
type BatchMessage struct {
	Subject string
	Data    []byte
}

// MessageHandler processes one delivered message. A non-nil error leaves the
// message unacknowledged so the broker redelivers it.
type MessageHandler func(data []byte) error

// Subscriber consumes messages from a subject or topic.
type Subscriber interface {
	Subscribe(subject string, handler MessageHandler) error
	Unsubscribe(subject string) error
	Close() error
}

// Queue combines both directions.
type Queue interface {
	Publisher
	Subscriber
}
