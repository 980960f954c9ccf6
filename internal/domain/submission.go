package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMissingDescription rejects submissions without a description field.
var ErrMissingDescription = errors.New("description is required")

// submission shadows Report.Description so an absent key decodes to nil.
type submission struct {
	Report
	Description *string `json:"description"`
}

// ParseSubmission deserializes a report submission from the source topic. The
// description key must be present; an empty description is verified with
// zeroed text signals. The report ID falls back to the message key when the
// payload has none.
func ParseSubmission(raw RawEvent) (Report, error) {
	var s submission
	if err := json.Unmarshal(raw.Value, &s); err != nil {
		return Report{}, fmt.Errorf("parse report submission: %w", err)
	}
	if s.Description == nil {
		return Report{}, ErrMissingDescription
	}
	r := s.Report
	r.Description = *s.Description
	if r.ID == "" {
		r.ID = string(raw.Key)
	}
	return r, nil
}
