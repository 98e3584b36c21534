//go:build integration

package containers

import (
	"context"
	"testing"

	"github.com/testcontainers/testcontainers-go/modules/redpanda"
)

// KafkaContainer is a single-node Redpanda broker speaking the Kafka protocol.
type KafkaContainer struct {
	Container *redpanda.Container
	Broker    string
}

func newKafkaContainer(ctx context.Context) (*KafkaContainer, error) {
	container, err := redpanda.Run(ctx, "docker.redpanda.com/redpandadata/redpanda:v24.2.4")
	if err != nil {
		return nil, err
	}
	broker, err := container.KafkaSeedBroker(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}
	return &KafkaContainer{Container: container, Broker: broker}, nil
}

func GetKafkaContainer(t *testing.T) *KafkaContainer {
	t.Helper()
	kc, err := shared.kafka()
	if err != nil {
		t.Fatalf("start redpanda container: %v", err)
	}
	return kc
}
