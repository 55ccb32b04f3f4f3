package extraction

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/slateworks/timetable-engine/pkg/document"
	"github.com/slateworks/timetable-engine/pkg/models"
)

// Mode selects how unfilled periods are handled during extraction.
type Mode int

const (
	// ModeSparse emits only periods with recognizable academic content.
	ModeSparse Mode = iota
	// ModeComplete emits every catalog period for every class row, with
	// explicit free-period placeholders for gaps.
	ModeComplete
)

// ParseMode parses the config/CLI mode names.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "sparse":
		return ModeSparse, nil
	case "complete":
		return ModeComplete, nil
	}
	return 0, fmt.Errorf("unknown import mode %q", s)
}

func (m Mode) String() string {
	if m == ModeComplete {
		return "complete"
	}
	return "sparse"
}

// Entry is one raw schedule record extracted from a document, before entity
// resolution.
type Entry struct {
	ClassName string
	Day       models.Weekday
	StartTime time.Time
	EndTime   time.Time
	Subject   string
	Teacher   string
	PeriodID  int
	IsFree    bool
}

// Report summarizes one document's extraction.
type Report struct {
	PagesProcessed int
	PagesSkipped   int
	Academic       int
	FreePeriods    int
}

// Options configures an Extractor.
type Options struct {
	Mode Mode
	// DayFromPageIndex enables the degraded fallback of using a page's
	// index (0-6) as its day of week when no day token is found. Every use
	// is logged at Warn.
	DayFromPageIndex bool
}

// nonClassLabels are first-column values that look like class rows but are
// table furniture.
var nonClassLabels = map[string]bool{
	"class": true,
	"total": true,
	"sum":   true,
}

// Extractor walks a document's pages and produces the flat, ordered sequence
// of raw entries the import engine consumes. Extraction materializes fully
// before any import begins.
type Extractor struct {
	catalog    *Catalog
	classifier *Classifier
	opts       Options
	logger     *zap.Logger
}

// NewExtractor creates an extractor over the given catalog and classifier.
func NewExtractor(catalog *Catalog, classifier *Classifier, opts Options, logger *zap.Logger) *Extractor {
	return &Extractor{
		catalog:    catalog,
		classifier: classifier,
		opts:       opts,
		logger:     logger,
	}
}

// ExtractDocument processes every page of doc. Pages with no identifiable
// table, no period columns, or no resolvable day are skipped with a warning
// and counted; they never fail the document. Entries are ordered by page,
// then row, then period id. Cancellation is checked between pages.
func (e *Extractor) ExtractDocument(ctx context.Context, doc document.Document) ([]Entry, Report, error) {
	var (
		entries []Entry
		report  Report
	)

	for i := 0; i < doc.NumPages(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, report, err
		}

		pageEntries, err := e.extractPage(doc.Page(i), i)
		if err != nil {
			e.logger.Warn("Skipping page",
				zap.Int("page", i+1),
				zap.Error(err))
			report.PagesSkipped++
			continue
		}

		report.PagesProcessed++
		for _, entry := range pageEntries {
			if entry.IsFree {
				report.FreePeriods++
			} else {
				report.Academic++
			}
		}
		entries = append(entries, pageEntries...)
	}

	return entries, report, nil
}

func (e *Extractor) extractPage(page document.Page, pageIndex int) ([]Entry, error) {
	tables, err := page.Tables()
	if err != nil {
		return nil, fmt.Errorf("failed to extract tables: %w", err)
	}

	loc, err := LocateTable(tables, e.catalog.PeriodIDs())
	if err != nil {
		return nil, err
	}

	day, err := e.resolveDay(loc.Table, page, pageIndex)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("Located schedule table",
		zap.Int("page", pageIndex+1),
		zap.Stringer("day", day),
		zap.Int("period_row", loc.PeriodRow),
		zap.Int("period_columns", len(loc.PeriodColumns)))

	var entries []Entry
	for row := loc.PeriodRow + 1; row < loc.Table.Rows(); row++ {
		className := strings.TrimSpace(loc.Table.Cell(row, 0))
		if len(className) < 2 || nonClassLabels[strings.ToLower(className)] {
			continue
		}

		switch e.opts.Mode {
		case ModeComplete:
			entries = append(entries, e.completeRow(loc, row, className, day)...)
		default:
			entries = append(entries, e.sparseRow(loc, row, className, day)...)
		}
	}

	return entries, nil
}

// sparseRow emits one entry per period column whose cell classifies as
// academic.
func (e *Extractor) sparseRow(loc *Location, row int, className string, day models.Weekday) []Entry {
	var entries []Entry
	for _, periodID := range e.catalog.PeriodIDs() {
		col, ok := columnForPeriod(loc.PeriodColumns, periodID)
		if !ok {
			continue
		}
		slot, ok := e.catalog.Lookup(periodID)
		if !ok {
			continue
		}

		cell := e.classifier.Classify(loc.Table.Cell(row, col))
		if cell.Kind != CellAcademic {
			continue
		}

		entries = append(entries, Entry{
			ClassName: className,
			Day:       day,
			StartTime: slot.Start,
			EndTime:   slot.End,
			Subject:   cell.Subject,
			Teacher:   cell.Teacher,
			PeriodID:  periodID,
		})
	}
	return entries
}

// completeRow emits an entry for every catalog period: academic where the
// cell says so, an explicit free-period placeholder everywhere else. Every
// class row yields exactly one entry per period.
func (e *Extractor) completeRow(loc *Location, row int, className string, day models.Weekday) []Entry {
	var entries []Entry
	for _, periodID := range e.catalog.PeriodIDs() {
		slot, ok := e.catalog.Lookup(periodID)
		if !ok {
			continue
		}

		entry := Entry{
			ClassName: className,
			Day:       day,
			StartTime: slot.Start,
			EndTime:   slot.End,
			Subject:   models.SentinelSubjectName,
			Teacher:   models.SentinelTeacherName,
			PeriodID:  periodID,
			IsFree:    true,
		}

		if col, ok := columnForPeriod(loc.PeriodColumns, periodID); ok {
			if cell := e.classifier.Classify(loc.Table.Cell(row, col)); cell.Kind == CellAcademic {
				entry.Subject = cell.Subject
				entry.Teacher = cell.Teacher
				entry.IsFree = false
			}
		}

		entries = append(entries, entry)
	}
	return entries
}

func (e *Extractor) resolveDay(table document.Table, page document.Page, pageIndex int) (models.Weekday, error) {
	pageText, err := page.Text()
	if err != nil {
		e.logger.Warn("Failed to extract page text for day resolution", zap.Error(err))
		pageText = ""
	}

	day, err := ResolveDay(table, pageText)
	if err == nil {
		return day, nil
	}

	if e.opts.DayFromPageIndex && pageIndex < 7 {
		fallback := models.Weekday(pageIndex)
		e.logger.Warn("No day token found; falling back to page index as day",
			zap.Int("page", pageIndex+1),
			zap.Stringer("day", fallback))
		return fallback, nil
	}

	return 0, err
}

func columnForPeriod(periodColumns map[int]int, periodID int) (int, bool) {
	for col, id := range periodColumns {
		if id == periodID {
			return col, true
		}
	}
	return 0, false
}
