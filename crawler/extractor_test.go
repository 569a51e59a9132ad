package crawler

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finwatch/ratecrawl/models"
)

func TestExtract_ParsesRows(t *testing.T) {
	sess := sessionWithRows(
		rowOf("1회", "09:00", "1,300.50"),
		rowOf("2회", "10:00", "1,301.00"),
	)

	records := NewRecordExtractor().Extract(sess)
	require.Len(t, records, 2)
	assert.Equal(t, "1회", records[0].SessionLabel)
	assert.Equal(t, "1,300.50", records[0].RateValue)
	assert.Equal(t, "2회", records[1].SessionLabel)
	assert.False(t, records[0].CollectedAt.IsZero())
}

func TestExtract_SkipsRowsWithTooFewCells(t *testing.T) {
	sess := sessionWithRows(
		rowOf("lonely"),
		rowOf(),
		rowOf("1회", "1,300.50"),
	)

	records := NewRecordExtractor().Extract(sess)
	require.Len(t, records, 1)
	assert.Equal(t, "1회", records[0].SessionLabel)
}

func TestExtract_EveryRecordHasDigitRate(t *testing.T) {
	sess := sessionWithRows(
		rowOf("고시회차", "현재가"), // header-like row, no digits anywhere
		rowOf("1회", "no-rate-here"),
		rowOf("2회", "1,301.00"),
	)

	records := NewRecordExtractor().Extract(sess)
	require.Len(t, records, 1)
	for _, rec := range records {
		assert.True(t, models.ContainsDigit(rec.RateValue))
		assert.NotEmpty(t, rec.SessionLabel)
	}
}

func TestExtract_HeaderCellFallback(t *testing.T) {
	row := &fakeElement{ths: []*fakeElement{{text: "1회"}, {text: "1,300.50"}}}
	sess := sessionWithRows(row)

	records := NewRecordExtractor().Extract(sess)
	require.Len(t, records, 1)
	assert.Equal(t, "1회", records[0].SessionLabel)
}

func TestExtract_RatePriorityPrefersThirdCell(t *testing.T) {
	sess := sessionWithRows(rowOf("1회", "1,299.00", "1,300.50"))

	records := NewRecordExtractor().Extract(sess)
	require.Len(t, records, 1)
	assert.Equal(t, "1,300.50", records[0].RateValue)
}

func TestExtract_RateFallsBackToSecondCell(t *testing.T) {
	sess := sessionWithRows(rowOf("1회", "1,300.50", "장마감"))

	records := NewRecordExtractor().Extract(sess)
	require.Len(t, records, 1)
	assert.Equal(t, "1,300.50", records[0].RateValue)
}

func TestExtract_StaleRowSkipped(t *testing.T) {
	stale := &fakeElement{cellErr: errors.New("node detached")}
	sess := sessionWithRows(stale, rowOf("1회", "1,300.50"))

	records := NewRecordExtractor().Extract(sess)
	require.Len(t, records, 1)
	assert.Equal(t, "1회", records[0].SessionLabel)
}

func TestExtract_GenericRowFallback(t *testing.T) {
	sess := &fakeSession{
		elements: map[string][]*fakeElement{
			bodyXPath:       {{}},
			"//table":       {{}},
			genericRowXPath: {rowOf("1회", "1,300.50")},
		},
	}

	records := NewRecordExtractor().Extract(sess)
	require.Len(t, records, 1)
}

func TestExtract_SnapshotFallback(t *testing.T) {
	sess := &fakeSession{
		elements: map[string][]*fakeElement{},
		html: `<html><body><table><tbody>
			<tr><td>1회</td><td>09:00</td><td>1,300.50</td></tr>
			<tr><td>broken</td></tr>
			<tr><td>2회</td><td>1,301.00</td></tr>
		</tbody></table></body></html>`,
	}

	records := NewRecordExtractor().Extract(sess)
	require.Len(t, records, 2)
	assert.Equal(t, "1회", records[0].SessionLabel)
	assert.Equal(t, "1,300.50", records[0].RateValue)
	assert.Equal(t, "2회", records[1].SessionLabel)
}

func TestExtract_NothingAnywhereIsEmptyNotError(t *testing.T) {
	sess := &fakeSession{elements: map[string][]*fakeElement{}}

	records := NewRecordExtractor().Extract(sess)
	assert.Empty(t, records)
}
