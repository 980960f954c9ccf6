package domain

import "math"

// SaturationCount is the number of corroborating reports at which a
// corroboration score reaches 1.0.
const SaturationCount = 3

// CorroborationCounts are counted over the entire history snapshot.
type CorroborationCounts struct {
	TypeCount int `json:"type_count"`
	PairCount int `json:"pair_count"`
}

// Corroboration holds the counts for one report and the scores derived from them.
type Corroboration struct {
	Counts    CorroborationCounts
	Consensus float64 // same type and same locality
	History   float64 // same type anywhere
}

// SoftCap maps a raw count onto [0,1] by dividing by SaturationCount and
// clamping. Non-positive counts map to exactly 0.
func SoftCap(count int) float64 {
	if count <= 0 {
		return 0.0
	}
	return math.Min(1.0, float64(count)/SaturationCount)
}

// CountCorroboration counts history records sharing the report's type, and of
// those, the ones that also share its locality. An empty type skips both
// counts; an empty locality leaves PairCount at 0.
func CountCorroboration(history []Report, report Report) CorroborationCounts {
	var counts CorroborationCounts

	reportType := report.NormalizedType()
	if reportType == "" {
		return counts
	}
	locality := report.Locality()

	for _, h := range history {
		if h.NormalizedType() != reportType {
			continue
		}
		counts.TypeCount++
		if locality != "" && h.Locality() == locality {
			counts.PairCount++
		}
	}
	return counts
}

// ScoreCorroboration computes the consensus and history scores for report.
func ScoreCorroboration(history []Report, report Report) Corroboration {
	counts := CountCorroboration(history, report)
	return Corroboration{
		Counts:    counts,
		Consensus: SoftCap(counts.PairCount),
		History:   SoftCap(counts.TypeCount),
	}
}
