package extraction

import (
	"strconv"
	"strings"

	"github.com/slateworks/timetable-engine/pkg/apperrors"
	"github.com/slateworks/timetable-engine/pkg/document"
)

const (
	// headerScanRows is how many leading rows are scanned for the period
	// header row.
	headerScanRows = 5
	// minPeriodMatches is the minimum number of distinct period columns a
	// row must match to be accepted as the header row.
	minPeriodMatches = 3
)

// Location is the result of locating the schedule table on a page: the table
// itself, the row carrying the period headers, and the mapping from column
// index to period identifier.
type Location struct {
	Table         document.Table
	PeriodRow     int
	PeriodColumns map[int]int // column index -> period id
}

// LocateTable picks the page's schedule table and finds its period header
// row. Pages carry one dominant table, so only the first is considered.
// Returns apperrors.ErrNoTable when the page has no tables and
// apperrors.ErrNoPeriodRow when no row matches enough period tokens.
func LocateTable(tables []document.Table, periodIDs []int) (*Location, error) {
	if len(tables) == 0 {
		return nil, apperrors.ErrNoTable
	}
	table := tables[0]

	limit := headerScanRows
	if limit > table.Rows() {
		limit = table.Rows()
	}

	for row := 0; row < limit; row++ {
		columns := make(map[int]int)
		for col := range table[row] {
			cell := table.Cell(row, col)
			if cell == "" {
				continue
			}
			if id, ok := matchPeriodToken(cell, periodIDs); ok {
				columns[col] = id
			}
		}
		if len(columns) >= minPeriodMatches {
			return &Location{Table: table, PeriodRow: row, PeriodColumns: columns}, nil
		}
	}

	return nil, apperrors.ErrNoPeriodRow
}

// matchPeriodToken reports whether a header cell denotes one of the known
// periods: the bare numeral, the numeral as its own line, or the phrase
// "period N".
func matchPeriodToken(cell string, periodIDs []int) (int, bool) {
	lower := strings.ToLower(cell)
	for _, id := range periodIDs {
		n := strconv.Itoa(id)
		if strings.TrimSpace(cell) == n ||
			strings.HasPrefix(cell, n+"\n") ||
			strings.Contains(cell, "\n"+n+"\n") ||
			containsPeriodPhrase(lower, n) {
			return id, true
		}
	}
	return 0, false
}

// containsPeriodPhrase matches "period N" without letting "period 1" claim a
// "period 10" header.
func containsPeriodPhrase(lower, n string) bool {
	phrase := "period " + n
	idx := strings.Index(lower, phrase)
	if idx < 0 {
		return false
	}
	rest := lower[idx+len(phrase):]
	return rest == "" || rest[0] < '0' || rest[0] > '9'
}
