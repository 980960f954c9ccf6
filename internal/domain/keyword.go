package domain

import "strings"

// hazardKeywords is the fixed hazard vocabulary. Matching is plain substring
// containment, so "boathouse" and "toil" both count.
var hazardKeywords = []string{"wave", "tsunami", "flood", "spill", "drown", "boat", "sink", "debris", "oil"}

// KeywordScore returns 1.0 when text contains any hazard keyword, else 0.0.
func KeywordScore(text string) float64 {
	lower := strings.ToLower(text)
	for _, kw := range hazardKeywords {
		if strings.Contains(lower, kw) {
			return 1.0
		}
	}
	return 0.0
}
