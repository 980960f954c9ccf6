package domain

import "context"

// HazardLabel is the candidate label whose probability becomes the NLP signal.
const HazardLabel = "ocean hazard"

// CandidateLabels is the fixed label set offered to the zero-shot classifier.
var CandidateLabels = []string{HazardLabel, "spam", "weather report", "not relevant"}

// LabelScore is one ranked (label, probability) pair from a classifier.
type LabelScore struct {
	Label string
	Score float64 // 0.0–1.0, roughly summing to 1 across the label set
}

// Classifier scores text against candidate labels.
type Classifier interface {
	Classify(ctx context.Context, text string, labels []string) ([]LabelScore, error)
}
