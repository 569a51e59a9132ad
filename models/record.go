package models

import (
	"encoding/json"
	"time"
	"unicode"
)

// TimeLayout is the timestamp format used in stored objects and response
// bodies.
const TimeLayout = "2006-01-02 15:04:05"

// Record is one observed table row: a published session label (the round
// number, e.g. "1회") and its quoted rate. RateValue stays textual to
// preserve the page's original formatting and locale punctuation.
type Record struct {
	SessionLabel string    `json:"session_label"`
	RateValue    string    `json:"rate_value"`
	CollectedAt  time.Time `json:"collected_at"`
}

// NewRecord builds a Record stamped with the current time. It returns
// ok=false when the row fails the construction invariant: both fields
// non-empty and the rate containing at least one digit. Callers discard
// such rows silently.
func NewRecord(sessionLabel, rateValue string) (Record, bool) {
	if sessionLabel == "" || rateValue == "" || !ContainsDigit(rateValue) {
		return Record{}, false
	}
	return Record{
		SessionLabel: sessionLabel,
		RateValue:    rateValue,
		CollectedAt:  time.Now(),
	}, true
}

// ContainsDigit reports whether s has at least one digit character.
func ContainsDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// MarshalJSON emits collected_at in the human-readable layout used by the
// stored objects rather than RFC 3339.
func (r Record) MarshalJSON() ([]byte, error) {
	type alias struct {
		SessionLabel string `json:"session_label"`
		RateValue    string `json:"rate_value"`
		CollectedAt  string `json:"collected_at"`
	}
	return json.Marshal(alias{
		SessionLabel: r.SessionLabel,
		RateValue:    r.RateValue,
		CollectedAt:  r.CollectedAt.Format(TimeLayout),
	})
}
