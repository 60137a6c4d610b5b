package ingest

import (
	"fmt"
	"strings"

	"github.com/chatpulse/chatpulse/internal/config"
)

// NewConsumer creates a Consumer based on configuration. NATS is the
// default when no type is specified.
func NewConsumer(cfg config.IngestConfig) (Consumer, error) {
	consumerType := strings.ToLower(cfg.Type)
	if consumerType == "" {
		consumerType = config.IngestTypeNATS
	}

	switch consumerType {
	case config.IngestTypeNATS:
		return newNATSConsumer(cfg.URL)

	case config.IngestTypeKafka:
		return newKafkaConsumer(KafkaConfig{
			Brokers: cfg.KafkaBrokers,
			GroupID: cfg.KafkaGroupID,
		})

	case config.IngestTypeMemory:
		return newMemoryBroker(), nil

	default:
		return nil, fmt.Errorf("unsupported ingest type: %s (supported: nats, kafka, memory)", consumerType)
	}
}
