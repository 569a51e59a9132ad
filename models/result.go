package models

// MatchStrategy tags which cascade stage produced a search result, so
// callers (and tests) can tell an exact hit from a degraded fallback.
type MatchStrategy string

const (
	// MatchExact: the target label was found on the first extraction pass.
	MatchExact MatchStrategy = "exact"

	// MatchRetriedExact: found after a second last-page navigation attempt.
	MatchRetriedExact MatchStrategy = "retried-exact"

	// MatchNumericFallback: no exact hit; the record with the numerically
	// smallest label was selected instead.
	MatchNumericFallback MatchStrategy = "numeric-fallback"

	// MatchFirstAvailable: no exact hit and no numeric labels; the first
	// record in discovery order was selected.
	MatchFirstAvailable MatchStrategy = "first-available"
)

// SearchResult is the outcome of one target search: either one record
// tagged with the strategy that produced it, or not-found.
type SearchResult struct {
	Found    bool
	Strategy MatchStrategy
	Record   Record
}

// FoundResult wraps a record with its producing strategy.
func FoundResult(strategy MatchStrategy, rec Record) SearchResult {
	return SearchResult{Found: true, Strategy: strategy, Record: rec}
}

// NotFound is the terminal result when every extraction came back empty.
func NotFound() SearchResult {
	return SearchResult{}
}
