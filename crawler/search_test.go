package crawler

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finwatch/ratecrawl/models"
)

func newSearchEngine(baseURL string) *TargetSearchEngine {
	return NewTargetSearchEngine(quickNavigator(baseURL), NewRecordExtractor())
}

func TestFind_ExactMatch(t *testing.T) {
	sess := sessionWithRows(
		rowOf("3회", "1,302.00"),
		rowOf("1회", "1,300.50"),
		rowOf("2회", "1,301.00"),
	)

	result := newSearchEngine("https://finance.example").Find(sess, "1회")
	require.True(t, result.Found)
	assert.Equal(t, models.MatchExact, result.Strategy)
	assert.Equal(t, "1회", result.Record.SessionLabel)
	assert.Equal(t, "1,300.50", result.Record.RateValue)
}

func TestFind_RetriedExactMatch(t *testing.T) {
	firstPage := sessionWithRows(
		rowOf("30회", "1,310.00"),
		rowOf("31회", "1,311.00"),
	)
	// Clicking the probed pagination control "navigates" to a page that
	// holds the target.
	firstPage.elements[fmt.Sprintf(pageAnchorXPathFmt, 3)] = []*fakeElement{{text: "3"}}
	firstPage.swapOnClick = map[string][]*fakeElement{
		bodyXPath:    {{}},
		"//table":    {{}},
		rowXPaths[0]: {rowOf("1회", "1,300.50"), rowOf("2회", "1,301.00")},
	}

	result := newSearchEngine("https://finance.example").Find(firstPage, "1회")
	require.True(t, result.Found)
	assert.Equal(t, models.MatchRetriedExact, result.Strategy)
	assert.Equal(t, "1회", result.Record.SessionLabel)
}

func TestFind_NumericFallbackSelectsMinimum(t *testing.T) {
	sess := sessionWithRows(
		rowOf("5회", "1,305.00"),
		rowOf("2회", "1,302.00"),
		rowOf("9회", "1,309.00"),
	)

	result := newSearchEngine("https://finance.example").Find(sess, "7회")
	require.True(t, result.Found)
	assert.Equal(t, models.MatchNumericFallback, result.Strategy)
	assert.Equal(t, "2회", result.Record.SessionLabel)
}

func TestFind_NumericFallbackTieGoesToFirst(t *testing.T) {
	sess := sessionWithRows(
		rowOf("2회 오전", "1,302.00"),
		rowOf("2회 오후", "1,303.00"),
	)

	result := newSearchEngine("https://finance.example").Find(sess, "7회")
	require.True(t, result.Found)
	assert.Equal(t, models.MatchNumericFallback, result.Strategy)
	assert.Equal(t, "2회 오전", result.Record.SessionLabel)
}

func TestFind_FirstAvailableWhenNoDigitLabels(t *testing.T) {
	sess := sessionWithRows(
		rowOf("A", "1,300.00"),
		rowOf("B", "1,301.00"),
	)

	result := newSearchEngine("https://finance.example").Find(sess, "X")
	require.True(t, result.Found)
	assert.Equal(t, models.MatchFirstAvailable, result.Strategy)
	assert.Equal(t, "A", result.Record.SessionLabel)
}

func TestFind_NotFoundWhenEveryExtractionEmpty(t *testing.T) {
	sess := &fakeSession{elements: map[string][]*fakeElement{}}

	result := newSearchEngine("https://finance.example").Find(sess, "1회")
	assert.False(t, result.Found)
}

func TestFind_IsTotal(t *testing.T) {
	// A session that fails every lookup still yields exactly one outcome.
	sess := &fakeSession{elements: map[string][]*fakeElement{}}

	assert.NotPanics(t, func() {
		result := newSearchEngine("https://finance.example").Find(sess, "anything")
		if result.Found {
			assert.Contains(t, []models.MatchStrategy{
				models.MatchExact,
				models.MatchRetriedExact,
				models.MatchNumericFallback,
				models.MatchFirstAvailable,
			}, result.Strategy)
		}
	})
}
