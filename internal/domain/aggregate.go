package domain

// AggregateWindow bounds the aggregate view to the most recent records. The
// single-report path scans the whole history, so the two views can report
// different volumes for long histories.
const AggregateWindow = 200

// AggregateEntry is the corroboration view of one (type, pincode) pair.
type AggregateEntry struct {
	Type       string  `json:"type"`
	Pincode    string  `json:"pincode"`
	Count      int     `json:"count"`
	Consensus  float64 `json:"consensus"`
	History    float64 `json:"history"`
	Confidence float64 `json:"confidence"`
}

type pairKey struct {
	reportType string
	pincode    string
}

// Aggregate groups the last AggregateWindow records by (type, pincode) and
// scores each pair. Records missing either field are skipped, including those
// that only carry a free-text location. Entries are in
// order of first occurrence. An empty history yields an empty, non-nil slice.
func Aggregate(history []Report) []AggregateEntry {
	window := history
	if len(window) > AggregateWindow {
		window = window[len(window)-AggregateWindow:]
	}

	counts := make(map[pairKey]int)
	order := make([]pairKey, 0)
	for _, r := range window {
		key := pairKey{reportType: r.NormalizedType(), pincode: r.NormalizedPincode()}
		if key.reportType == "" || key.pincode == "" {
			continue
		}
		if _, seen := counts[key]; !seen {
			order = append(order, key)
		}
		counts[key]++
	}

	entries := make([]AggregateEntry, 0, len(order))
	for _, key := range order {
		count := counts[key]
		// Consensus and history collapse to the same value in this view.
		score := SoftCap(count)
		entries = append(entries, AggregateEntry{
			Type:       key.reportType,
			Pincode:    key.pincode,
			Count:      count,
			Consensus:  Round3(score),
			History:    Round3(score),
			Confidence: Round3(score*primaryWeight + score*secondaryWeight),
		})
	}
	return entries
}
