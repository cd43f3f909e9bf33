package banner

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var refNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func TestParseDateLayouts(t *testing.T) {
	cases := map[string]time.Time{
		"2024-06-20T03:00:00Z":      time.Date(2024, 6, 20, 3, 0, 0, 0, time.UTC),
		"2024-06-20T12:00:00+09:00": time.Date(2024, 6, 20, 3, 0, 0, 0, time.UTC),
		"2024-06-20T03:00:00":       time.Date(2024, 6, 20, 3, 0, 0, 0, time.UTC),
		"2024-06-20":                time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC),
		"  2024/06/20 ":             time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC),
		"Jun 20, 2024":              time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC),
	}
	for in, want := range cases {
		got, err := ParseDate(in)
		require.NoError(t, err, in)
		assert.True(t, want.Equal(got), "%s: got %s", in, got)
	}

	for _, bad := range []string{"", "not-a-date", "2024-13-45"} {
		_, err := ParseDate(bad)
		assert.ErrorIs(t, err, ErrInvalidDate, bad)
	}
}

func TestFilterActive(t *testing.T) {
	records := []Record{
		{ID: "past", StartDate: "2024-05-01", EndDate: "2024-06-01T00:00:00Z"},
		{ID: "current", StartDate: "2024-06-10", EndDate: "2024-06-20T00:00:00Z", Type: TypeNew},
		{ID: "bad", StartDate: "2024-06-10", EndDate: "soon"},
		{ID: "future", StartDate: "2024-07-01", EndDate: "2024-07-15T00:00:00Z", Type: TypeFes},
		{ID: "edge", StartDate: "2024-06-01", EndDate: "2024-06-15T12:00:00Z"},
	}

	active := FilterActive(records, refNow)
	require.Len(t, active, 2)
	assert.Equal(t, "current", active[0].ID)
	assert.Equal(t, "future", active[1].ID)
	assert.NotNil(t, active[0].Characters)
}

func TestFilterActiveReportListsDropped(t *testing.T) {
	records := []Record{
		{ID: "bad", EndDate: "soon"},
		{ID: "ok", EndDate: "2030-01-01"},
	}
	active, dropped := FilterActiveReport(records, refNow)
	require.Len(t, active, 1)
	require.Len(t, dropped, 1)

	var de *InvalidDateError
	require.True(t, errors.As(dropped[0], &de))
	assert.Equal(t, "bad", de.ID)
	assert.Equal(t, "endDate", de.Field)
	assert.ErrorIs(t, dropped[0], ErrInvalidDate)
}

func TestBadStartDateKeepsRecord(t *testing.T) {
	b, err := ParseRecord(Record{ID: "x", StartDate: "whenever", EndDate: "2030-01-01"})
	require.NoError(t, err)
	assert.True(t, b.StartDate.IsZero())
}

func TestMaxRarity(t *testing.T) {
	b := Banner{Characters: []Character{{Rarity: 2}, {Rarity: 3}, {Rarity: 1}}}
	assert.Equal(t, 3, b.MaxRarity())
	assert.Equal(t, 0, Banner{}.MaxRarity())
}
