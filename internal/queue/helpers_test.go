package queue

import (
	"io"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/wattline/wattline/internal/logging"
)

// Test-only constructors around the unexported ones.

func testLogger() *logging.Logger {
	return logging.NewWithWriter(io.Discard, zerolog.Disabled)
}

func NewNATSQueue(url string) (*NATSQueue, error) {
	return newNATSQueue(url, testLogger())
}

func NewNATSQueueWithConn(conn *nats.Conn) (*NATSQueue, error) {
	return newNATSQueueWithConn(conn, testLogger())
}