// Package storage serializes crawl results and writes them to an object
// store.
package storage

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/finwatch/ratecrawl/models"
)

const keyTimeLayout = "20060102_150405"

// csvHeader is the fixed header row of bulk exports. Fields are joined
// with bare commas; embedded delimiters are not escaped, matching the
// upstream consumers of these files.
const csvHeader = "session_label,rate_value,collected_at"

// EncodeCSV renders records as comma-separated text: the header row, then
// one line per record, no trailing newline.
func EncodeCSV(records []models.Record) []byte {
	lines := make([]string, 0, len(records))
	for _, rec := range records {
		lines = append(lines, rec.SessionLabel+","+rec.RateValue+","+rec.CollectedAt.Format(models.TimeLayout))
	}
	return []byte(csvHeader + "\n" + strings.Join(lines, "\n"))
}

// EncodeRecordJSON renders one record as a JSON object, keeping non-ASCII
// text verbatim.
func EncodeRecordJSON(rec models.Record) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(rec); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// BulkKey names a bulk CSV export.
func BulkKey(now time.Time) string {
	return "exchange_rates_" + now.Format(keyTimeLayout) + ".csv"
}

// RecordKey names a single-record JSON export after the record's label,
// with spaces replaced by underscores.
func RecordKey(label string, now time.Time) string {
	return "exchange_rate_" + strings.ReplaceAll(label, " ", "_") + "_" + now.Format(keyTimeLayout) + ".json"
}
