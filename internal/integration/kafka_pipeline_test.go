//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/hazard-verify-service/internal/adapter/kafka"
	"github.com/couchcryptid/hazard-verify-service/internal/config"
	"github.com/couchcryptid/hazard-verify-service/internal/domain"
	"github.com/couchcryptid/hazard-verify-service/internal/observability"
	"github.com/couchcryptid/hazard-verify-service/internal/pipeline"
)

const (
	testSourceTopic = "test-hazard-reports"
	testSinkTopic   = "test-hazard-verdicts"
)

// verdictMessage holds a deserialized message read from the sink topic.
type verdictMessage struct {
	Verdict domain.Verdict
	Key     string
	Headers map[string]string
}

// readVerdict reads a single message from the sink consumer and deserializes it.
func readVerdict(ctx context.Context, t *testing.T, consumer *kafkago.Reader) verdictMessage {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from sink topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	var v domain.Verdict
	require.NoError(t, json.Unmarshal(msg.Value, &v), "unmarshal sink message")

	return verdictMessage{Verdict: v, Key: string(msg.Key), Headers: headers}
}

func testConfig(broker, group string) *config.Config {
	return &config.Config{
		KafkaBrokers:       []string{broker},
		KafkaSourceTopic:   testSourceTopic,
		KafkaSinkTopic:     testSinkTopic,
		KafkaGroupID:       fmt.Sprintf("%s-%d", group, time.Now().UnixNano()),
		BatchFlushInterval: 5 * time.Second,
	}
}

func submission(t *testing.T, r domain.Report) []byte {
	t.Helper()
	data, err := json.Marshal(r)
	require.NoError(t, err)
	return data
}

func sinkConsumer(t *testing.T, broker string) *kafkago.Reader {
	t.Helper()
	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testSinkTopic,
		GroupID:     fmt.Sprintf("test-sink-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })
	return consumer
}

// TestKafkaReaderWriter verifies the adapter layer: kafka.Reader (extractor) and
// kafka.Writer (loader) round-trip a submission and its verdict through Kafka.
func TestKafkaReaderWriter(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSourceTopic)
	createTopic(t, broker, testSinkTopic)

	cfg := testConfig(broker, "test-reader")
	payload := submission(t, domain.Report{
		ID:          "rpt-100",
		Type:        "oil spill",
		Pincode:     "400001",
		Description: "Oil slick spreading near the jetty",
	})

	producer := &kafkago.Writer{Addr: kafkago.TCP(broker), Topic: testSourceTopic}
	t.Cleanup(func() { _ = producer.Close() })
	require.NoError(t, producer.WriteMessages(ctx, kafkago.Message{Key: []byte("rpt-100"), Value: payload}))

	reader := kafka.NewReader(cfg, discardLogger())
	t.Cleanup(func() { _ = reader.Close() })

	batch, err := reader.ExtractBatch(ctx, 1)
	require.NoError(t, err)
	require.Len(t, batch, 1)
	raw := batch[0]
	assert.Equal(t, []byte("rpt-100"), raw.Key)
	assert.Equal(t, payload, raw.Value)
	assert.Equal(t, testSourceTopic, raw.Topic)
	require.NotNil(t, raw.Commit, "commit callback should be set")
	require.NoError(t, raw.Commit(ctx))

	verdict, err := newTransformer(t, loadMockData(t)).Transform(ctx, raw)
	require.NoError(t, err)

	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })
	require.NoError(t, writer.LoadBatch(ctx, []domain.Verdict{verdict}))

	vm := readVerdict(ctx, t, sinkConsumer(t, broker))
	assert.Equal(t, "rpt-100", vm.Key)
	assert.Equal(t, domain.StatusVerified, vm.Headers["status"])
	_, err = time.Parse(time.RFC3339, vm.Headers["verified_at"])
	assert.NoError(t, err, "verified_at should be valid RFC3339")

	assert.Equal(t, "rpt-100", vm.Verdict.ReportID)
	assert.True(t, vm.Verdict.Result.IsHazard)
	assert.InDelta(t, 0.8, vm.Verdict.Result.Confidence, 1e-9)
	assert.Equal(t, 2, vm.Verdict.Result.Components.Counts.PairCount)
}

// TestPipelineEndToEnd wires the full pipeline (Reader, Transformer, Writer)
// with real Kafka and checks every submission gets the expected verdict.
func TestPipelineEndToEnd(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSourceTopic)
	createTopic(t, broker, testSinkTopic)

	cfg := testConfig(broker, "test-pipeline")

	submissions := map[string]struct {
		report domain.Report
		status string
	}{
		"rpt-1": {domain.Report{Type: "oil spill", Pincode: "400001", Description: "Tar balls on the beach"}, domain.StatusVerified},
		"rpt-2": {domain.Report{Type: "Oil Spill", Pincode: "400002", Description: "Sheen on the water"}, domain.StatusVerified},
		"rpt-3": {domain.Report{Type: "flood", Pincode: "400001", Description: "Road flooded"}, domain.StatusRejected},
		"rpt-4": {domain.Report{Type: "rip current", Location: "Juhu", Description: "Swimmers pulled out"}, domain.StatusRejected},
	}

	producer := &kafkago.Writer{Addr: kafkago.TCP(broker), Topic: testSourceTopic}
	t.Cleanup(func() { _ = producer.Close() })

	msgs := make([]kafkago.Message, 0, len(submissions))
	for id, s := range submissions {
		r := s.report
		r.ID = id
		msgs = append(msgs, kafkago.Message{Key: []byte(id), Value: submission(t, r)})
	}
	require.NoError(t, producer.WriteMessages(ctx, msgs...))

	reader := kafka.NewReader(cfg, discardLogger())
	t.Cleanup(func() { _ = reader.Close() })
	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	metrics := observability.NewMetricsForTesting()
	p := pipeline.New(reader, newTransformer(t, loadMockData(t)), writer, discardLogger(), metrics, 50)

	pipelineCtx, pipelineCancel := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() { errCh <- p.Run(pipelineCtx) }()

	consumer := sinkConsumer(t, broker)
	received := make(map[string]verdictMessage, len(submissions))
	for len(received) < len(submissions) {
		vm := readVerdict(ctx, t, consumer)
		received[vm.Key] = vm
	}

	pipelineCancel()
	require.NoError(t, <-errCh)

	for id, s := range submissions {
		vm, ok := received[id]
		require.True(t, ok, "missing verdict for %s", id)
		assert.Equal(t, s.status, vm.Verdict.Status, "status for %s", id)
		assert.Equal(t, s.status, vm.Headers["status"], "status header for %s", id)
		assert.Equal(t, domain.HistoryOK, vm.Verdict.Result.HistoryStatus)
	}
	assert.NoError(t, p.CheckReadiness(ctx))
}

// TestPipelineTransformError verifies that unverifiable submissions (poison
// pills) are skipped and the pipeline keeps processing valid ones.
func TestPipelineTransformError(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSourceTopic)
	createTopic(t, broker, testSinkTopic)

	cfg := testConfig(broker, "test-poison")

	producer := &kafkago.Writer{Addr: kafkago.TCP(broker), Topic: testSourceTopic}
	t.Cleanup(func() { _ = producer.Close() })

	require.NoError(t, producer.WriteMessages(ctx,
		kafkago.Message{Key: []byte("bad-json"), Value: []byte("not-json{{{")},
		kafkago.Message{Key: []byte("no-description"), Value: []byte(`{"type":"flood","pincode":"682001"}`)},
		kafkago.Message{Key: []byte("good"), Value: submission(t, domain.Report{Type: "oil spill", Pincode: "400001", Description: "slick"})},
	))

	reader := kafka.NewReader(cfg, discardLogger())
	t.Cleanup(func() { _ = reader.Close() })
	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	metrics := observability.NewMetricsForTesting()
	p := pipeline.New(reader, newTransformer(t, loadMockData(t)), writer, discardLogger(), metrics, 50)

	pipelineCtx, pipelineCancel := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() { errCh <- p.Run(pipelineCtx) }()

	consumer := sinkConsumer(t, broker)
	vm := readVerdict(ctx, t, consumer)
	assert.Equal(t, "good", vm.Key)
	assert.Equal(t, domain.StatusVerified, vm.Verdict.Status)

	// Only one verdict: the poison pills were skipped.
	readCtx, readCancel := context.WithTimeout(ctx, 5*time.Second)
	_, err := consumer.ReadMessage(readCtx)
	readCancel()
	assert.Error(t, err, "expected no second message on sink topic")

	pipelineCancel()
	require.NoError(t, <-errCh)
}
