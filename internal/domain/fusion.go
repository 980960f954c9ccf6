package domain

import (
	"fmt"
	"maps"
	"slices"

	"github.com/hashicorp/go-multierror"
)

// DefaultThreshold is the confidence a report must exceed to count as a hazard.
const DefaultThreshold = 0.70

// Built-in policy names.
const (
	PolicyCorroboration = "corroboration"
	PolicyNLPKeyword    = "nlp-keyword"
)

const (
	primaryWeight   = 0.60
	secondaryWeight = 0.40
)

// FusionPolicy is a named weighting over signal scores plus the decision
// threshold. Weights are tuned per policy; policies must not be merged.
type FusionPolicy struct {
	Name      string             `json:"name" yaml:"name"`
	Weights   map[string]float64 `json:"weights" yaml:"weights"`
	Threshold float64            `json:"threshold" yaml:"threshold"`
}

// CorroborationPolicy fuses consensus and history corroboration. It ignores
// the description text entirely.
func CorroborationPolicy() FusionPolicy {
	return FusionPolicy{
		Name: PolicyCorroboration,
		Weights: map[string]float64{
			SignalConsensus: primaryWeight,
			SignalHistory:   secondaryWeight,
		},
		Threshold: DefaultThreshold,
	}
}

// NLPKeywordPolicy fuses the zero-shot classifier with the keyword signal.
func NLPKeywordPolicy() FusionPolicy {
	return FusionPolicy{
		Name: PolicyNLPKeyword,
		Weights: map[string]float64{
			SignalNLP:      primaryWeight,
			SignalKeywords: secondaryWeight,
		},
		Threshold: DefaultThreshold,
	}
}

// BuiltinPolicies returns the built-in policies keyed by name.
func BuiltinPolicies() map[string]FusionPolicy {
	return map[string]FusionPolicy{
		PolicyCorroboration: CorroborationPolicy(),
		PolicyNLPKeyword:    NLPKeywordPolicy(),
	}
}

// Validate reports every problem with the policy at once.
func (p FusionPolicy) Validate() error {
	var result *multierror.Error

	if p.Name == "" {
		result = multierror.Append(result, fmt.Errorf("policy name is required"))
	}
	if len(p.Weights) == 0 {
		result = multierror.Append(result, fmt.Errorf("policy %q: at least one weight is required", p.Name))
	}

	total := 0.0
	for _, signal := range slices.Sorted(maps.Keys(p.Weights)) {
		w := p.Weights[signal]
		if !slices.Contains(KnownSignals, signal) {
			result = multierror.Append(result, fmt.Errorf("policy %q: unknown signal %q", p.Name, signal))
		}
		if w < 0 {
			result = multierror.Append(result, fmt.Errorf("policy %q: weight for %q is negative", p.Name, signal))
		}
		total += w
	}
	if len(p.Weights) > 0 && (total <= 0 || total > 1+1e-9) {
		result = multierror.Append(result, fmt.Errorf("policy %q: weights sum to %.3f, want (0, 1]", p.Name, total))
	}
	if p.Threshold < 0 || p.Threshold >= 1 {
		result = multierror.Append(result, fmt.Errorf("policy %q: threshold %.3f outside [0, 1)", p.Name, p.Threshold))
	}

	return result.ErrorOrNil()
}

// Uses reports whether the policy gives signal a non-zero weight.
func (p FusionPolicy) Uses(signal string) bool {
	return p.Weights[signal] > 0
}

// Fuse returns the weighted sum of scores, clamped to [0,1]. Signals the
// policy weighs but scores lacks contribute 0. Summation runs in signal-name
// order so the result does not depend on map iteration.
func (p FusionPolicy) Fuse(scores map[string]float64) float64 {
	total := 0.0
	for _, signal := range slices.Sorted(maps.Keys(p.Weights)) {
		total += Clamp01(scores[signal]) * p.Weights[signal]
	}
	return Clamp01(total)
}

// Decide applies the strict threshold: a confidence equal to the threshold is
// not a hazard.
func (p FusionPolicy) Decide(confidence float64) bool {
	return confidence > p.Threshold
}
