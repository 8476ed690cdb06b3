package queue

import (
	"context"
	"testing"

	"github.com/wattline/wattline/internal/config"
)

func TestNew_MemoryQueue(t *testing.T) {
	q, err := New(config.QueueConfig{Type: "memory"}, testLogger())
	if err != nil {
		t.Fatalf("Failed to create memory queue: %v", err)
	}
	defer func() { _ = q.Close() }()

	if _, ok := q.(*MemoryQueue); !ok {
		t.Errorf("Expected *MemoryQueue, got %T", q)
	}
}

func TestNew_TypeIsCaseInsensitive(t *testing.T) {
	q, err := New(config.QueueConfig{Type: "MEMORY"}, testLogger())
	if err != nil {
		t.Fatalf("Failed to create memory queue: %v", err)
	}
	_ = q.Close()
}

func TestNew_UnsupportedType(t *testing.T) {
	if _, err := New(config.QueueConfig{Type: "rabbitmq"}, testLogger()); err == nil {
		t.Fatal("Expected error for unsupported queue type")
	}
}

func TestNew_KafkaRequiresBrokers(t *testing.T) {
	if _, err := New(config.QueueConfig{Type: "kafka"}, testLogger()); err == nil {
		t.Fatal("Expected error when kafka brokers are not configured")
	}
}

func TestNewPublisher(t *testing.T) {
	p, err := NewPublisher(config.QueueConfig{Type: "memory"}, testLogger())
	if err != nil {
		t.Fatalf("Failed to create publisher: %v", err)
	}
	defer func() { _ = p.Close() }()

	if err := p.Publish(context.Background(), "test", []byte("data")); err != nil {
		t.Fatalf("Failed to publish: %v", err)
	}
}

func TestNewSubscriber(t *testing.T) {
	s, err := NewSubscriber(config.QueueConfig{Type: "memory"}, testLogger())
	if err != nil {
		t.Fatalf("Failed to create subscriber: %v", err)
	}
	defer func() { _ = s.Close() }()

	if err := s.Subscribe("test", func([]byte) error { return nil }); err != nil {
		t.Fatalf("Failed to subscribe: %v", err)
	}
}
