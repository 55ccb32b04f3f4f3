package extraction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustClock(t *testing.T, s string) time.Time {
	t.Helper()
	clock, err := ParseClock(s)
	require.NoError(t, err)
	return clock
}

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()

	assert.Equal(t, 10, c.Len())
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, c.PeriodIDs())

	first, ok := c.Lookup(1)
	require.True(t, ok)
	assert.Equal(t, mustClock(t, "08:30"), first.Start)
	assert.Equal(t, mustClock(t, "09:05"), first.End)

	last, ok := c.Lookup(10)
	require.True(t, ok)
	assert.Equal(t, mustClock(t, "14:15"), last.Start)
	assert.Equal(t, mustClock(t, "14:50"), last.End)

	_, ok = c.Lookup(11)
	assert.False(t, ok)
}

func TestDefaultCatalog_SlotsOrderedAndNonOverlapping(t *testing.T) {
	c := DefaultCatalog()

	ids := c.PeriodIDs()
	for i := 1; i < len(ids); i++ {
		prev, _ := c.Lookup(ids[i-1])
		cur, _ := c.Lookup(ids[i])
		assert.True(t, prev.Start.Before(prev.End), "period %d start < end", ids[i-1])
		assert.False(t, cur.Start.Before(prev.End), "period %d begins before %d ends", ids[i], ids[i-1])
	}
}

func TestNewCatalog_RejectsStartAfterEnd(t *testing.T) {
	_, err := NewCatalog([]Period{
		{ID: 1, Slot: Slot{Start: mustClock(t, "09:00"), End: mustClock(t, "08:00")}},
	})
	assert.Error(t, err)
}

func TestNewCatalog_RejectsOverlap(t *testing.T) {
	_, err := NewCatalog([]Period{
		{ID: 1, Slot: Slot{Start: mustClock(t, "08:00"), End: mustClock(t, "09:00")}},
		{ID: 2, Slot: Slot{Start: mustClock(t, "08:30"), End: mustClock(t, "09:30")}},
	})
	assert.Error(t, err)
}

func TestNewCatalog_RejectsDuplicateID(t *testing.T) {
	_, err := NewCatalog([]Period{
		{ID: 1, Slot: Slot{Start: mustClock(t, "08:00"), End: mustClock(t, "09:00")}},
		{ID: 1, Slot: Slot{Start: mustClock(t, "09:00"), End: mustClock(t, "10:00")}},
	})
	assert.Error(t, err)
}

func TestNewCatalog_AllowsGaps(t *testing.T) {
	c, err := NewCatalog([]Period{
		{ID: 1, Slot: Slot{Start: mustClock(t, "08:00"), End: mustClock(t, "09:00")}},
		{ID: 2, Slot: Slot{Start: mustClock(t, "10:00"), End: mustClock(t, "11:00")}},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())
}

func TestNewCatalog_Empty(t *testing.T) {
	_, err := NewCatalog(nil)
	assert.Error(t, err)
}

func TestParseClock_Invalid(t *testing.T) {
	_, err := ParseClock("25:99")
	assert.Error(t, err)
}
