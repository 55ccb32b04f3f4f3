package extraction

import (
	"fmt"
	"sort"
	"time"
)

// Slot is one teaching period's wall-clock interval. Times carry only the
// clock component (zero date, UTC), matching how they are persisted.
type Slot struct {
	Start time.Time
	End   time.Time
}

// Period pairs a period identifier with its interval.
type Period struct {
	ID   int
	Slot Slot
}

// Catalog is the fixed mapping from period identifier to interval. It is
// built once at startup and never mutated.
type Catalog struct {
	periods map[int]Slot
	order   []int
}

// ParseClock parses an "HH:MM" wall-clock string into a zero-date time.
func ParseClock(s string) (time.Time, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	return t, nil
}

// NewCatalog builds a catalog from the given periods. Periods must have
// distinct IDs, start before end, and must not overlap each other.
func NewCatalog(periods []Period) (*Catalog, error) {
	if len(periods) == 0 {
		return nil, fmt.Errorf("catalog requires at least one period")
	}

	c := &Catalog{periods: make(map[int]Slot, len(periods))}
	for _, p := range periods {
		if _, exists := c.periods[p.ID]; exists {
			return nil, fmt.Errorf("duplicate period id %d", p.ID)
		}
		if !p.Slot.Start.Before(p.Slot.End) {
			return nil, fmt.Errorf("period %d: start %s is not before end %s",
				p.ID, p.Slot.Start.Format("15:04"), p.Slot.End.Format("15:04"))
		}
		c.periods[p.ID] = p.Slot
		c.order = append(c.order, p.ID)
	}
	sort.Ints(c.order)

	for i := 1; i < len(c.order); i++ {
		prev := c.periods[c.order[i-1]]
		cur := c.periods[c.order[i]]
		if cur.Start.Before(prev.End) {
			return nil, fmt.Errorf("period %d overlaps period %d", c.order[i], c.order[i-1])
		}
	}

	return c, nil
}

// DefaultCatalog returns the built-in ten-period bell schedule
// (08:30-09:05 through 14:15-14:50).
func DefaultCatalog() *Catalog {
	clock := func(s string) time.Time {
		t, err := ParseClock(s)
		if err != nil {
			panic(err) // compiled-in constants
		}
		return t
	}
	spans := [][2]string{
		{"08:30", "09:05"},
		{"09:05", "09:40"},
		{"09:40", "10:20"},
		{"10:20", "11:00"},
		{"11:00", "11:40"},
		{"11:40", "12:20"},
		{"12:20", "13:00"},
		{"13:00", "13:40"},
		{"13:40", "14:15"},
		{"14:15", "14:50"},
	}
	periods := make([]Period, 0, len(spans))
	for i, span := range spans {
		periods = append(periods, Period{
			ID:   i + 1,
			Slot: Slot{Start: clock(span[0]), End: clock(span[1])},
		})
	}
	c, err := NewCatalog(periods)
	if err != nil {
		panic(err)
	}
	return c
}

// Lookup returns the interval for the given period id.
func (c *Catalog) Lookup(periodID int) (Slot, bool) {
	slot, ok := c.periods[periodID]
	return slot, ok
}

// PeriodIDs returns all period identifiers in ascending order.
func (c *Catalog) PeriodIDs() []int {
	out := make([]int, len(c.order))
	copy(out, c.order)
	return out
}

// Len returns the number of periods in the catalog.
func (c *Catalog) Len() int { return len(c.order) }
