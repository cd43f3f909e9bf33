package calc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallTable(t *testing.T) *Table {
	t.Helper()
	tbl, err := NewTable("test", []Level{{1, 0}, {2, 15}, {3, 45}, {4, 75}})
	require.NoError(t, err)
	return tbl
}

func TestNewTableRejectsBadRows(t *testing.T) {
	_, err := NewTable("gap", []Level{{1, 0}, {3, 10}})
	assert.True(t, errors.Is(err, ErrInvalidTable))

	_, err = NewTable("zero-indexed", []Level{{0, 0}, {1, 10}})
	assert.True(t, errors.Is(err, ErrInvalidTable))

	_, err = NewTable("flat", []Level{{1, 0}, {2, 10}, {3, 10}})
	assert.True(t, errors.Is(err, ErrInvalidTable))

	_, err = NewTable("short", []Level{{1, 0}})
	assert.True(t, errors.Is(err, ErrInvalidTable))
}

func TestCumulativeAtBounds(t *testing.T) {
	tbl := smallTable(t)

	// level 1 is the first row, not a dummy zeroth entry
	v, err := tbl.CumulativeAt(1)
	require.NoError(t, err)
	assert.Equal(t, 0, v)

	v, err = tbl.CumulativeAt(4)
	require.NoError(t, err)
	assert.Equal(t, 75, v)

	for _, lvl := range []int{0, -1, 5} {
		_, err := tbl.CumulativeAt(lvl)
		var re *RangeError
		require.ErrorAs(t, err, &re, "level %d", lvl)
		assert.Equal(t, 1, re.Min)
		assert.Equal(t, 4, re.Max)
		assert.True(t, errors.Is(err, ErrRange))
	}
}

func TestDelta(t *testing.T) {
	tbl := smallTable(t)

	d, err := tbl.Delta(1, 2)
	require.NoError(t, err)
	assert.Equal(t, 15, d)

	d, err = tbl.Delta(2, 4)
	require.NoError(t, err)
	assert.Equal(t, 60, d)

	_, err = tbl.Delta(3, 3)
	assert.ErrorIs(t, err, ErrRange)
	_, err = tbl.Delta(4, 2)
	assert.ErrorIs(t, err, ErrRange)
	_, err = tbl.Delta(1, 9)
	assert.ErrorIs(t, err, ErrRange)
}

func TestDeltaPositiveForEveryPair(t *testing.T) {
	tbl := smallTable(t)
	for from := 1; from <= tbl.MaxLevel(); from++ {
		for to := from + 1; to <= tbl.MaxLevel(); to++ {
			d, err := tbl.Delta(from, to)
			require.NoError(t, err)
			assert.Greater(t, d, 0, "%d->%d", from, to)
		}
	}
}

func TestLevelsIsACopy(t *testing.T) {
	tbl := smallTable(t)
	rows := tbl.Levels()
	rows[1].Total = 999
	v, _ := tbl.CumulativeAt(2)
	assert.Equal(t, 15, v)
}

func TestEligmaTiersCost(t *testing.T) {
	e := EligmaTiers{BatchSize: 20, Prices: []int{1, 2, 3, 4, 5}}

	assert.Equal(t, 0, e.Cost(0))
	assert.Equal(t, 20, e.Cost(20))
	assert.Equal(t, 40, e.Cost(30))
	assert.Equal(t, 300, e.Cost(100))
	// past the last tier the top price repeats
	assert.Equal(t, 350, e.Cost(110))

	prev := 0
	for n := 0; n <= 500; n++ {
		c := e.Cost(n)
		assert.GreaterOrEqual(t, c, prev, "n=%d", n)
		prev = c
	}
}
