package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecord_Invariant(t *testing.T) {
	rec, ok := NewRecord("1회", "1,300.50")
	require.True(t, ok)
	assert.Equal(t, "1회", rec.SessionLabel)
	assert.False(t, rec.CollectedAt.IsZero())

	_, ok = NewRecord("", "1,300.50")
	assert.False(t, ok, "empty label must be rejected")

	_, ok = NewRecord("1회", "")
	assert.False(t, ok, "empty rate must be rejected")

	_, ok = NewRecord("1회", "no digits")
	assert.False(t, ok, "rate without digits must be rejected")
}

func TestContainsDigit(t *testing.T) {
	assert.True(t, ContainsDigit("1,300.50"))
	assert.True(t, ContainsDigit("약 1300원"))
	assert.False(t, ContainsDigit(""))
	assert.False(t, ContainsDigit("장마감"))
}

func TestRecord_MarshalJSONLayout(t *testing.T) {
	rec, ok := NewRecord("1회", "1300.5")
	require.True(t, ok)

	raw, err := json.Marshal(rec)
	require.NoError(t, err)

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "1회", decoded["session_label"])
	assert.Equal(t, "1300.5", decoded["rate_value"])
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}$`, decoded["collected_at"])
}
