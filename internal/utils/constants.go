package utils

import "time"

// HTTP handler timeouts
const (
	// DefaultRequestTimeout is the default timeout for HTTP requests
	DefaultRequestTimeout = 30 * time.Second

	// BatchWriteTimeout is the timeout for batch persist operations
	BatchWriteTimeout = 10 * time.Second
)

// Storage constants
const (
	// DefaultPersistBatchSize is the default number of readings per INSERT
	DefaultPersistBatchSize = 1000

	// MaxPersistBatchSize is the maximum allowed readings per request
	MaxPersistBatchSize = 10000
)

// Cache constants
const (
	// DefaultCacheTTL is the default TTL for cached query responses
	DefaultCacheTTL = 5 * time.Minute
)

// QueueType represents the type of message queue
type QueueType string

const (
	// QueueTypeNATS represents NATS JetStream queue (default)
	QueueTypeNATS QueueType = "nats"

	// QueueTypeRedis represents Redis Streams queue
	QueueTypeRedis QueueType = "redis"

	// QueueTypeKafka represents Apache Kafka queue
	QueueTypeKafka QueueType = "kafka"

	// QueueTypeMemory represents in-memory queue (for testing)
	QueueTypeMemory QueueType = "memory"
)
