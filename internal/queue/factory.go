package queue

import (
	"fmt"
	"strings"

	"github.com/wattline/wattline/internal/config"
	"github.com/wattline/wattline/internal/logging"
	"github.com/wattline/wattline/internal/utils"
)

// New creates a Queue from configuration. An empty type defaults to NATS.
func New(cfg config.QueueConfig, logger *logging.Logger) (Queue, error) {
	queueType := utils.QueueType(strings.ToLower(cfg.Type))
	if queueType == "" {
		queueType = utils.QueueTypeNATS
	}

	switch queueType {
	case utils.QueueTypeNATS:
		return newNATSQueue(cfg.URL, logger)

	case utils.QueueTypeRedis:
		return newRedisQueue(RedisConfig{
			URL:      cfg.URL,
			Password: cfg.Password,
			DB:       cfg.RedisDB,
			Stream:   cfg.RedisStream,
			Group:    cfg.RedisGroup,
			Consumer: cfg.RedisConsumer,
		}, logger)

	case utils.QueueTypeKafka:
		return newKafkaQueue(KafkaConfig{
			Brokers: cfg.KafkaBrokers,
			GroupID: cfg.KafkaGroupID,
		}, logger)

	case utils.QueueTypeMemory:
		return NewMemoryQueue(), nil

	default:
		return nil, fmt.Errorf("unsupported queue type: %s (supported: nats, redis, kafka, memory)", queueType)
	}
}

// NewPublisher creates a publish-only view of the configured queue.
func NewPublisher(cfg config.QueueConfig, logger *logging.Logger) (Publisher, error) {
	return New(cfg, logger)
}

// NewSubscriber creates a subscribe-only view of the configured queue.
func NewSubscriber(cfg config.QueueConfig, logger *logging.Logger) (Subscriber, error) {
	return New(cfg, logger)
}
