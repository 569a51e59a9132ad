package crawler

import (
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/finwatch/ratecrawl/browser"
	"github.com/finwatch/ratecrawl/models"
)

const (
	tableWaitTimeout = 10 * time.Second
	rowWaitTimeout   = 5 * time.Second
)

// rowXPaths are tried in priority order; the first selector yielding at
// least one row wins. The fixed structural path comes last because it is
// the most brittle.
var rowXPaths = []string{
	"//table/tbody/tr",
	"//table//tr",
	"//div[contains(@class, 'tableUI')]//table//tr",
	"/html/body/div/div[4]/div/div[4]/div[3]/div[2]/div/table/tbody/tr",
}

// genericRowXPath is the catch-all when every prioritized selector fails.
const genericRowXPath = "//tr"

// RecordExtractor parses the currently loaded page into records. It is
// total: malformed or stale rows are skipped, never propagated, and the
// result may be empty.
type RecordExtractor struct {
	log *slog.Logger
}

// NewRecordExtractor returns an extractor.
func NewRecordExtractor() *RecordExtractor {
	return &RecordExtractor{log: slog.Default().With("component", "extractor")}
}

// Extract returns every parsable record on the current page, in discovery
// order. A missing table is not fatal; neither is any single bad row.
func (e *RecordExtractor) Extract(s browser.Session) []models.Record {
	if _, err := s.WaitForElement("//table", tableWaitTimeout); err != nil {
		e.log.Warn("no table element appeared, proceeding anyway", "error", err)
	}

	rows := e.locateRows(s)
	if len(rows) == 0 {
		// Every live-row selector came up empty. Last resort: parse the
		// rendered HTML snapshot with the same cell rules.
		return e.extractFromSnapshot(s)
	}

	records := make([]models.Record, 0, len(rows))
	for idx, row := range rows {
		rec, ok := e.parseRow(row, idx)
		if ok {
			records = append(records, rec)
		}
	}
	e.log.Info("extraction finished", "rows", len(rows), "records", len(records))
	return records
}

// locateRows walks the selector cascade and returns the first non-empty
// row set, falling back to the generic tr tag.
func (e *RecordExtractor) locateRows(s browser.Session) []browser.Element {
	for _, xpath := range rowXPaths {
		if _, err := s.WaitForElement(xpath, rowWaitTimeout); err != nil {
			e.log.Warn("row selector yielded nothing", "selector", xpath)
			continue
		}
		rows, err := s.ElementsX(xpath)
		if err != nil || len(rows) == 0 {
			continue
		}
		e.log.Info("rows located", "selector", xpath, "count", len(rows))
		return rows
	}

	rows, err := s.ElementsX(genericRowXPath)
	if err != nil {
		e.log.Warn("generic row lookup failed", "error", err)
		return nil
	}
	e.log.Info("rows located via generic tr fallback", "count", len(rows))
	return rows
}

// parseRow reads one row's cells. Any failure (stale handle, missing
// cells, empty fields) discards just this row.
func (e *RecordExtractor) parseRow(row browser.Element, idx int) (models.Record, bool) {
	cells, err := row.Elements("td")
	if err != nil {
		e.log.Warn("row cells unreadable", "row", idx, "error", err)
		return models.Record{}, false
	}
	if len(cells) < 2 {
		headers, herr := row.Elements("th")
		if herr == nil {
			cells = headers
		}
	}
	if len(cells) < 2 {
		return models.Record{}, false
	}

	label, err := cells[0].Text()
	if err != nil {
		e.log.Warn("label cell unreadable", "row", idx, "error", err)
		return models.Record{}, false
	}
	label = strings.TrimSpace(label)

	rate := pickRateCell(cells)
	rec, ok := models.NewRecord(label, rate)
	if ok {
		e.log.Info("record collected", "label", rec.SessionLabel, "rate", rec.RateValue)
	}
	return rec, ok
}

// pickRateCell tries cell indices in priority order and returns the first
// digit-bearing text. With three or more cells the third is preferred
// over the second; with exactly two only the second is considered.
func pickRateCell(cells []browser.Element) string {
	candidates := []int{1}
	if len(cells) >= 3 {
		candidates = []int{2, 1}
	}
	for _, i := range candidates {
		text, err := cells[i].Text()
		if err != nil {
			continue
		}
		text = strings.TrimSpace(text)
		if models.ContainsDigit(text) {
			return text
		}
	}
	return ""
}

// extractFromSnapshot parses the rendered HTML as a static document. This
// trades the live-handle staleness risk for a one-shot parse when the
// live lookups found no rows at all.
func (e *RecordExtractor) extractFromSnapshot(s browser.Session) []models.Record {
	html, err := s.HTML()
	if err != nil {
		e.log.Warn("snapshot unavailable", "error", err)
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		e.log.Warn("snapshot parse failed", "error", err)
		return nil
	}

	var records []models.Record
	doc.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			cells = row.Find("th")
		}
		if cells.Length() < 2 {
			return
		}
		label := strings.TrimSpace(cells.Eq(0).Text())

		candidates := []int{1}
		if cells.Length() >= 3 {
			candidates = []int{2, 1}
		}
		var rate string
		for _, i := range candidates {
			text := strings.TrimSpace(cells.Eq(i).Text())
			if models.ContainsDigit(text) {
				rate = text
				break
			}
		}

		if rec, ok := models.NewRecord(label, rate); ok {
			records = append(records, rec)
		}
	})
	e.log.Info("snapshot extraction finished", "records", len(records))
	return records
}
