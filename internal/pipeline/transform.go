package pipeline

import (
	"context"

	"github.com/google/uuid"

	"github.com/couchcryptid/hazard-verify-service/internal/domain"
)

// VerdictTransformer implements Transformer by verifying each submitted report.
type VerdictTransformer struct {
	verifier *Verifier
}

// NewTransformer creates a VerdictTransformer backed by verifier.
func NewTransformer(verifier *Verifier) *VerdictTransformer {
	return &VerdictTransformer{verifier: verifier}
}

// Transform parses a submission and returns its verdict. Submissions without
// an id or message key are assigned a random one.
func (t *VerdictTransformer) Transform(ctx context.Context, raw domain.RawEvent) (domain.Verdict, error) {
	report, err := domain.ParseSubmission(raw)
	if err != nil {
		return domain.Verdict{}, err
	}
	if report.ID == "" {
		report.ID = uuid.NewString()
	}

	result := t.verifier.Verify(ctx, report)
	return domain.NewVerdict(report.ID, result), nil
}
