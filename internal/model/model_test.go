package model

import (
	"testing"
	"time"

	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogType(t *testing.T) {
	lt, err := ParseLogType(" body_photo ")
	require.NoError(t, err)
	assert.Equal(t, LogTypeBodyPhoto, lt)
	assert.Equal(t, "Body Photo", lt.Label())
	assert.Equal(t, "Weight", LogTypeWeight.Label())

	_, err = ParseLogType("SLEEP")
	assert.Error(t, err)
}

func TestLog_WeightKg(t *testing.T) {
	l := &Log{LogType: LogTypeWeight, StructuredData: types.JSONText(`{"weight_kg": 81.4}`)}
	w, ok := l.WeightKg()
	assert.True(t, ok)
	assert.InDelta(t, 81.4, w, 0.0001)

	l = &Log{LogType: LogTypeNote, StructuredData: types.JSONText(`{"weight_kg": 81.4}`)}
	_, ok = l.WeightKg()
	assert.False(t, ok)

	l = &Log{LogType: LogTypeWeight, StructuredData: types.JSONText(`{}`)}
	_, ok = l.WeightKg()
	assert.False(t, ok)
}

func TestLog_Details(t *testing.T) {
	assert.Equal(t, "No details", (&Log{}).Details())
	text := "oatmeal"
	assert.Equal(t, "oatmeal", (&Log{RawText: &text}).Details())
}

func TestStringList_ScanAndValue(t *testing.T) {
	var l StringList
	require.NoError(t, l.Scan([]byte(`["a","b"]`)))
	assert.Equal(t, StringList{"a", "b"}, l)

	require.NoError(t, l.Scan(nil))
	assert.Equal(t, StringList{}, l)

	require.NoError(t, l.Scan(`[]`))
	assert.Empty(t, l)

	assert.Error(t, l.Scan(42))

	v, err := StringList(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)

	v, err = StringList{"x"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `["x"]`, v)
}

func TestUser_ProfileComplete(t *testing.T) {
	gender := "female"
	height := 168.0
	dob := time.Date(1990, 1, 2, 0, 0, 0, 0, time.UTC)

	u := &User{}
	assert.False(t, u.ProfileComplete())

	u.Gender = &gender
	u.HeightCm = &height
	assert.False(t, u.ProfileComplete())

	u.DOB = &dob
	assert.True(t, u.ProfileComplete())
}

func TestDefaultName(t *testing.T) {
	assert.Equal(t, "jane.doe", DefaultName("jane.doe@example.com"))
	assert.Equal(t, "nobody", DefaultName("nobody"))
}

func TestScopeType_PeriodStart(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, now.AddDate(0, 0, -7), *ScopeWeekly.PeriodStart(now))
	assert.Equal(t, time.Date(2026, 2, 15, 12, 0, 0, 0, time.UTC), *ScopeMonthly.PeriodStart(now))
	assert.Equal(t, time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC), *ScopeYearly.PeriodStart(now))
	assert.Nil(t, ScopeLifetime.PeriodStart(now))

	scope, err := ParseScopeType("monthly")
	require.NoError(t, err)
	assert.Equal(t, ScopeMonthly, scope)
	_, err = ParseScopeType("daily")
	assert.Error(t, err)
}

func TestResourceTypeFor(t *testing.T) {
	assert.Equal(t, ResourceTypePDF, ResourceTypeFor("application/pdf"))
	assert.Equal(t, ResourceTypeImage, ResourceTypeFor("image/png"))
}
