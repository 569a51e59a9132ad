package crawler

import (
	"log/slog"
	"strconv"

	"github.com/finwatch/ratecrawl/browser"
	"github.com/finwatch/ratecrawl/models"
)

// TargetSearchEngine resolves one target record through an ordered
// cascade: exact match, exact match after a retried navigation, the
// numerically smallest label, then the first record in discovery order.
// The cascade never guesses "most recent": recency cannot be inferred
// from a partial render.
type TargetSearchEngine struct {
	nav *PageNavigator
	ext *RecordExtractor
	log *slog.Logger
}

// NewTargetSearchEngine wires the search over a navigator and extractor.
func NewTargetSearchEngine(nav *PageNavigator, ext *RecordExtractor) *TargetSearchEngine {
	return &TargetSearchEngine{
		nav: nav,
		ext: ext,
		log: slog.Default().With("component", "search"),
	}
}

// Find runs the cascade and always returns exactly one outcome: a tagged
// record or not-found. It never fails.
func (t *TargetSearchEngine) Find(s browser.Session, target string) models.SearchResult {
	if !t.nav.AdvanceToLastPage(s) {
		t.log.Warn("could not reach last page, continuing on current page")
	}

	first := t.ext.Extract(s)
	if rec, ok := findExact(first, target); ok {
		t.log.Info("target found", "target", target, "strategy", models.MatchExact)
		return models.FoundResult(models.MatchExact, rec)
	}

	t.log.Info("target not on first pass, retrying last-page navigation", "target", target)
	t.nav.retryLastPage(s)

	second := t.ext.Extract(s)
	if rec, ok := findExact(second, target); ok {
		t.log.Info("target found", "target", target, "strategy", models.MatchRetriedExact)
		return models.FoundResult(models.MatchRetriedExact, rec)
	}

	// Degraded selection works on the freshest non-empty extraction.
	candidates := second
	if len(candidates) == 0 {
		candidates = first
	}
	if len(candidates) == 0 {
		t.log.Warn("every extraction came back empty", "target", target)
		return models.NotFound()
	}

	if rec, ok := lowestNumberedRecord(candidates); ok {
		t.log.Info("target absent, selected numerically lowest label",
			"target", target, "selected", rec.SessionLabel)
		return models.FoundResult(models.MatchNumericFallback, rec)
	}

	t.log.Info("no numeric labels, selected first record",
		"target", target, "selected", candidates[0].SessionLabel)
	return models.FoundResult(models.MatchFirstAvailable, candidates[0])
}

// findExact scans for a record whose label equals the target.
func findExact(records []models.Record, target string) (models.Record, bool) {
	for _, rec := range records {
		if rec.SessionLabel == target {
			return rec, true
		}
	}
	return models.Record{}, false
}

// lowestNumberedRecord picks the record whose label's first digit run
// parses to the smallest number, interpreting it as the earliest session.
// Ties go to the first encountered. ok=false when no label has digits.
func lowestNumberedRecord(records []models.Record) (models.Record, bool) {
	best := models.Record{}
	bestNum := -1
	for _, rec := range records {
		num, ok := firstDigitRun(rec.SessionLabel)
		if !ok {
			continue
		}
		if bestNum < 0 || num < bestNum {
			best = rec
			bestNum = num
		}
	}
	return best, bestNum >= 0
}

// firstDigitRun parses the first maximal run of ASCII digits in s.
func firstDigitRun(s string) (int, bool) {
	start := -1
	for i, r := range s {
		if r >= '0' && r <= '9' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			n, err := strconv.Atoi(s[start:i])
			return n, err == nil
		}
	}
	if start >= 0 {
		n, err := strconv.Atoi(s[start:])
		return n, err == nil
	}
	return 0, false
}
