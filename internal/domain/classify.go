package domain

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
)

// ClassifyOutcome records how the NLP signal was obtained.
type ClassifyOutcome string

const (
	ClassifyDisabled ClassifyOutcome = "disabled"
	ClassifySkipped  ClassifyOutcome = "skipped" // empty description
	ClassifySuccess  ClassifyOutcome = "success"
	ClassifyError    ClassifyOutcome = "error"
	ClassifyTimeout  ClassifyOutcome = "timeout"
)

// ClassificationScore returns the probability the classifier assigns to
// HazardLabel for text. A nil classifier, an empty text, an error or a
// timeout all yield 0.0 (graceful degradation); the outcome says which.
func ClassificationScore(ctx context.Context, text string, classifier Classifier, timeout time.Duration, logger *slog.Logger) (float64, ClassifyOutcome) {
	if classifier == nil {
		return 0.0, ClassifyDisabled
	}
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return 0.0, ClassifySkipped
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	results, err := classifier.Classify(ctx, text, CandidateLabels)
	if err != nil {
		outcome := ClassifyError
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			outcome = ClassifyTimeout
		}
		logger.Warn("classification failed, nlp signal degraded to 0",
			"outcome", outcome,
			"timeout", timeout,
			"error", err,
		)
		return 0.0, outcome
	}

	for _, r := range results {
		if r.Label == HazardLabel {
			return Clamp01(r.Score), ClassifySuccess
		}
	}
	return 0.0, ClassifySuccess
}
