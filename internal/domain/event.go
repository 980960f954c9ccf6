package domain

import (
	"context"
	"strings"
	"time"
)

// Report is one hazard report as persisted by the reporting backend. The
// verifier only reads Type, Location, Pincode and Description; the remaining
// fields are carried so history files round-trip unchanged.
type Report struct {
	ID          string `json:"id,omitempty"`
	Category    string `json:"category,omitempty"` // "ocean", "criminal", "municipality"
	Title       string `json:"title,omitempty"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Location    string `json:"location,omitempty"`
	Pincode     string `json:"pincode,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
	Status      string `json:"status,omitempty"`
}

// NormalizedType returns the trimmed, lower-cased report type.
func (r Report) NormalizedType() string {
	return strings.ToLower(strings.TrimSpace(r.Type))
}

// NormalizedPincode returns the trimmed, lower-cased pincode.
func (r Report) NormalizedPincode() string {
	return strings.ToLower(strings.TrimSpace(r.Pincode))
}

// Locality returns the normalized pincode, falling back to the free text
// location when no pincode was submitted. Only single-report corroboration
// uses the fallback; aggregates group by pincode alone.
func (r Report) Locality() string {
	if p := r.NormalizedPincode(); p != "" {
		return p
	}
	return strings.ToLower(strings.TrimSpace(r.Location))
}

// RawEvent represents an unprocessed report submission from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// Verdict statuses written back for each verified report.
const (
	StatusVerified = "verified"
	StatusRejected = "rejected"
)

// Verdict is the outcome of verifying one submitted report.
type Verdict struct {
	ReportID   string      `json:"report_id"`
	Status     string      `json:"status"`
	Result     FusedResult `json:"result"`
	VerifiedAt time.Time   `json:"verified_at"`
}

// NewVerdict derives the verdict status from the fused decision and stamps it
// with the package clock.
func NewVerdict(reportID string, result FusedResult) Verdict {
	status := StatusRejected
	if result.IsHazard {
		status = StatusVerified
	}
	return Verdict{
		ReportID:   reportID,
		Status:     status,
		Result:     result,
		VerifiedAt: clock.Now().UTC(),
	}
}
