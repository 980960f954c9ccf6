package domain

import "math"

// Signal names used as fusion policy weight keys.
const (
	SignalNLP       = "nlp"
	SignalKeywords  = "keywords"
	SignalHistory   = "history"
	SignalConsensus = "consensus"
)

// KnownSignals lists every signal a fusion policy may weigh.
var KnownSignals = []string{SignalNLP, SignalKeywords, SignalHistory, SignalConsensus}

// Components are the individual signal scores behind a fused confidence.
type Components struct {
	NLP       float64             `json:"nlp"`
	Keywords  float64             `json:"keywords"`
	History   float64             `json:"history"`
	Consensus float64             `json:"consensus"`
	Counts    CorroborationCounts `json:"counts"`
}

// Scores returns the components keyed by signal name.
func (c Components) Scores() map[string]float64 {
	return map[string]float64{
		SignalNLP:       c.NLP,
		SignalKeywords:  c.Keywords,
		SignalHistory:   c.History,
		SignalConsensus: c.Consensus,
	}
}

// Rounded returns a copy with every score rounded for reporting.
func (c Components) Rounded() Components {
	c.NLP = Round3(c.NLP)
	c.Keywords = Round3(c.Keywords)
	c.History = Round3(c.History)
	c.Consensus = Round3(c.Consensus)
	return c
}

// FusedResult is the verification outcome returned to callers.
// Aggregates is nil (JSON null) when the history store was unavailable.
type FusedResult struct {
	IsHazard      bool             `json:"isHazard"`
	Confidence    float64          `json:"confidence"`
	Policy        string           `json:"policy"`
	HistoryStatus HistoryStatus    `json:"historyStatus"`
	Components    Components       `json:"components"`
	Aggregates    []AggregateEntry `json:"aggregates"`
}

// Clamp01 bounds v to [0,1]. NaN maps to 0.
func Clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// Round3 rounds v to three decimal places.
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
