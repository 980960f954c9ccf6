package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/couchcryptid/hazard-verify-service/internal/domain"
	"github.com/couchcryptid/hazard-verify-service/internal/observability"
)

// Request sources used as the "source" label on verification metrics.
const (
	SourceHTTP  = "http"
	SourceKafka = "kafka"
	SourceCLI   = "cli"
)

// Verifier scores a report against every signal and fuses the result with the
// configured policy. It holds no per-request state; history is re-read on
// every call.
type Verifier struct {
	history           domain.HistoryReader
	classifier        domain.Classifier
	policy            domain.FusionPolicy
	classifierTimeout time.Duration
	source            string
	logger            *slog.Logger
	metrics           *observability.Metrics
}

// NewVerifier creates a Verifier. Pass a nil classifier to disable the NLP
// signal; it then always scores 0. A classifier is also left unused when the
// policy gives the NLP signal no weight.
func NewVerifier(
	history domain.HistoryReader,
	classifier domain.Classifier,
	policy domain.FusionPolicy,
	classifierTimeout time.Duration,
	logger *slog.Logger,
	metrics *observability.Metrics,
) *Verifier {
	if !policy.Uses(domain.SignalNLP) {
		classifier = nil
	}
	metrics.ClassifierEnabled.Set(0)
	if classifier != nil {
		metrics.ClassifierEnabled.Set(1)
	}
	return &Verifier{
		history:           history,
		classifier:        classifier,
		policy:            policy,
		classifierTimeout: classifierTimeout,
		source:            SourceHTTP,
		logger:            logger,
		metrics:           metrics,
	}
}

// WithSource returns a copy of v that labels its metrics with source.
func (v *Verifier) WithSource(source string) *Verifier {
	c := *v
	c.source = source
	return &c
}

// Policy returns the active fusion policy.
func (v *Verifier) Policy() domain.FusionPolicy {
	return v.policy
}

// Verify computes the fused hazard decision for report. Signal failures
// degrade to zero scores; Verify itself never fails.
func (v *Verifier) Verify(ctx context.Context, report domain.Report) domain.FusedResult {
	start := time.Now()

	hist := v.history.LoadHistory(ctx)

	nlp, outcome := domain.ClassificationScore(ctx, report.Description, v.classifier, v.classifierTimeout, v.logger)
	v.metrics.ClassifierRequests.WithLabelValues(string(outcome)).Inc()

	corr := domain.ScoreCorroboration(hist.Reports, report)
	components := domain.Components{
		NLP:       nlp,
		Keywords:  domain.KeywordScore(report.Description),
		History:   corr.History,
		Consensus: corr.Consensus,
		Counts:    corr.Counts,
	}

	confidence := v.policy.Fuse(components.Scores())
	isHazard := v.policy.Decide(confidence)

	var aggregates []domain.AggregateEntry
	if hist.Available() {
		aggregates = domain.Aggregate(hist.Reports)
	}

	decision := "not_hazard"
	if isHazard {
		decision = "hazard"
	}
	v.metrics.Verifications.WithLabelValues(decision, v.source).Inc()
	v.metrics.Confidence.Observe(confidence)
	v.metrics.VerificationDuration.Observe(time.Since(start).Seconds())

	v.logger.Debug("report verified",
		"report_id", report.ID,
		"type", report.NormalizedType(),
		"policy", v.policy.Name,
		"confidence", confidence,
		"is_hazard", isHazard,
		"history_status", hist.Status,
		"classifier", outcome,
	)

	return domain.FusedResult{
		IsHazard:      isHazard,
		Confidence:    domain.Round3(confidence),
		Policy:        v.policy.Name,
		HistoryStatus: hist.Status,
		Components:    components.Rounded(),
		Aggregates:    aggregates,
	}
}

// Aggregates summarizes corroboration over the current history. The entries
// are nil when the history store is unavailable.
func (v *Verifier) Aggregates(ctx context.Context) ([]domain.AggregateEntry, domain.HistoryStatus) {
	hist := v.history.LoadHistory(ctx)
	if !hist.Available() {
		return nil, hist.Status
	}
	return domain.Aggregate(hist.Reports), hist.Status
}
