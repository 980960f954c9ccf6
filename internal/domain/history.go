package domain

import "context"

// HistoryStatus distinguishes a readable-but-empty history from one that could
// not be read at all.
type HistoryStatus string

const (
	HistoryOK          HistoryStatus = "ok"
	HistoryEmpty       HistoryStatus = "empty"
	HistoryUnavailable HistoryStatus = "unavailable"
)

// HistoryResult is a snapshot of the report history. Reports is empty when
// Status is HistoryUnavailable, and Err carries the cause for logging.
type HistoryResult struct {
	Reports []Report
	Status  HistoryStatus
	Err     error
}

// Available reports whether the history store could be read.
func (r HistoryResult) Available() bool {
	return r.Status != HistoryUnavailable
}

// HistoryFromReports wraps a successfully read snapshot.
func HistoryFromReports(reports []Report) HistoryResult {
	if len(reports) == 0 {
		return HistoryResult{Status: HistoryEmpty}
	}
	return HistoryResult{Reports: reports, Status: HistoryOK}
}

// UnavailableHistory wraps a read failure as an empty snapshot.
func UnavailableHistory(err error) HistoryResult {
	return HistoryResult{Status: HistoryUnavailable, Err: err}
}

// HistoryReader loads the prior report history. Implementations never fail:
// read errors are folded into an unavailable HistoryResult.
type HistoryReader interface {
	LoadHistory(ctx context.Context) HistoryResult
}
