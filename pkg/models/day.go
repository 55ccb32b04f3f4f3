package models

import "fmt"

// Weekday is the canonical day-of-week index used everywhere in the engine
// and in the schedules table: Monday=0 through Sunday=6. Document text is
// mapped into this range at day-resolution time.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = [7]string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// String returns the English day name, or "Day(n)" for out-of-range values.
func (d Weekday) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Day(%d)", int(d))
	}
	return weekdayNames[d]
}

// Valid reports whether d is within the canonical 0..6 range.
func (d Weekday) Valid() bool {
	return d >= Monday && d <= Sunday
}
