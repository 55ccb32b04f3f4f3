package extraction

import (
	"strings"

	"github.com/slateworks/timetable-engine/pkg/apperrors"
	"github.com/slateworks/timetable-engine/pkg/document"
	"github.com/slateworks/timetable-engine/pkg/models"
)

// dayScanRows is how many leading table rows are checked for a day token
// before falling back to the page's full text.
const dayScanRows = 3

// dayVocabulary maps lowercase day names to the canonical Monday=0..Sunday=6
// index. Checked in this order; first substring match wins.
var dayVocabulary = []struct {
	token string
	day   models.Weekday
}{
	{"monday", models.Monday},
	{"tuesday", models.Tuesday},
	{"wednesday", models.Wednesday},
	{"thursday", models.Thursday},
	{"friday", models.Friday},
	{"saturday", models.Saturday},
	{"sunday", models.Sunday},
}

// ResolveDay determines which day of week a page represents. Header cells of
// the primary table are scanned first; the page's full text is the fallback.
// Returns apperrors.ErrNoDay when neither yields a match.
func ResolveDay(table document.Table, pageText string) (models.Weekday, error) {
	limit := dayScanRows
	if limit > table.Rows() {
		limit = table.Rows()
	}
	for row := 0; row < limit; row++ {
		for col := range table[row] {
			cell := table.Cell(row, col)
			if cell == "" {
				continue
			}
			if day, ok := matchDayToken(cell); ok {
				return day, nil
			}
		}
	}

	if day, ok := matchDayToken(pageText); ok {
		return day, nil
	}

	return 0, apperrors.ErrNoDay
}

func matchDayToken(text string) (models.Weekday, bool) {
	lower := strings.ToLower(text)
	for _, entry := range dayVocabulary {
		if strings.Contains(lower, entry.token) {
			return entry.day, true
		}
	}
	return 0, false
}
