//go:build integration

package integration_test

import (
	"context"
	"io"
	"log/slog"
	"net"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	"github.com/couchcryptid/hazard-verify-service/internal/adapter/reportstore"
	"github.com/couchcryptid/hazard-verify-service/internal/domain"
	"github.com/couchcryptid/hazard-verify-service/internal/observability"
	"github.com/couchcryptid/hazard-verify-service/internal/pipeline"
)

const kafkaImage = "confluentinc/confluent-local:7.5.0"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka runs a single-node Kafka container for the duration of the test
// and returns its bootstrap address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := tckafka.Run(ctx, kafkaImage, tckafka.WithClusterID("hazard-verify-test"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("terminate kafka container: %v", err)
		}
	})

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err, "resolve kafka brokers")
	require.NotEmpty(t, brokers)
	return brokers[0]
}

// createTopic creates a single-partition topic through the cluster controller.
func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err, "dial broker")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "find controller")

	ctrl, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err, "dial controller")
	defer ctrl.Close()

	require.NoError(t, ctrl.SetDeadline(time.Now().Add(10*time.Second)))
	require.NoError(t, ctrl.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}), "create topic %s", topic)
}

// loadMockData writes a report history fixture and returns its path. Two oil
// spills at 400001 and three at 400002 make a new 400001 oil spill report
// verifiable; floods exist only at a different locality.
func loadMockData(t *testing.T) string {
	t.Helper()

	var history []domain.Report
	add := func(reportType, pincode string, n int) {
		for range n {
			history = append(history, domain.Report{
				ID:          "hist-" + strconv.Itoa(len(history)+1),
				Category:    "ocean",
				Type:        reportType,
				Description: "observed " + reportType,
				Pincode:     pincode,
				Status:      domain.StatusVerified,
			})
		}
	}
	add("oil spill", "400001", 2)
	add("oil spill", "400002", 3)
	add("flood", "682001", 1)

	path := filepath.Join(t.TempDir(), "reports.json")
	require.NoError(t, reportstore.WriteHistory(path, history))
	return path
}

func newTransformer(t *testing.T, historyPath string) *pipeline.VerdictTransformer {
	t.Helper()
	metrics := observability.NewMetricsForTesting()
	store := reportstore.NewFileStore(historyPath, discardLogger(), metrics)
	verifier := pipeline.NewVerifier(store, nil, domain.CorroborationPolicy(), time.Second, discardLogger(), metrics)
	return pipeline.NewTransformer(verifier.WithSource(pipeline.SourceKafka))
}
