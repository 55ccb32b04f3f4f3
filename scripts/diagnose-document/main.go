// diagnose-document dumps what the extraction pipeline sees in a timetable
// PDF without touching the database: per-page table dimensions, the detected
// period header row, the resolved day, and the class rows with their cell
// classifications. Use it when an import skips pages or produces fewer
// entries than expected.
//
// Usage: go run ./scripts/diagnose-document <file.pdf>
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/slateworks/timetable-engine/pkg/apperrors"
	"github.com/slateworks/timetable-engine/pkg/document"
	"github.com/slateworks/timetable-engine/pkg/extraction"
)

func main() {
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s <file.pdf>\n", os.Args[0])
		os.Exit(2)
	}

	if err := run(flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(path string) error {
	doc, err := document.NewPDFSource().Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer doc.Close()

	catalog := extraction.DefaultCatalog()
	classifier := extraction.NewClassifier()

	fmt.Printf("%s: %d pages\n", path, doc.NumPages())

	for i := 0; i < doc.NumPages(); i++ {
		fmt.Printf("\n=== page %d ===\n", i+1)
		diagnosePage(doc.Page(i), catalog, classifier)
	}
	return nil
}

func diagnosePage(page document.Page, catalog *extraction.Catalog, classifier *extraction.Classifier) {
	text, err := page.Text()
	if err != nil {
		fmt.Printf("  text extraction failed: %v\n", err)
	} else {
		fmt.Printf("  text: %d chars\n", len(text))
	}

	tables, err := page.Tables()
	if err != nil {
		fmt.Printf("  table extraction failed: %v\n", err)
		return
	}
	if len(tables) == 0 {
		fmt.Println("  no tables found")
		return
	}
	for t, table := range tables {
		cols := 0
		if table.Rows() > 0 {
			cols = len(table[0])
		}
		fmt.Printf("  table %d: %d rows x %d cols\n", t, table.Rows(), cols)
	}

	location, err := extraction.LocateTable(tables, catalog.PeriodIDs())
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNoTable):
			fmt.Println("  no usable table")
		case errors.Is(err, apperrors.ErrNoPeriodRow):
			fmt.Println("  no period header row detected")
		default:
			fmt.Printf("  table location failed: %v\n", err)
		}
		return
	}
	fmt.Printf("  period header row: %d (%d period columns)\n",
		location.PeriodRow, len(location.PeriodColumns))

	day, err := extraction.ResolveDay(location.Table, text)
	if err != nil {
		fmt.Println("  day of week: not found")
	} else {
		fmt.Printf("  day of week: %s\n", day)
	}

	diagnoseClassRows(location, classifier)
}

func diagnoseClassRows(location *extraction.Location, classifier *extraction.Classifier) {
	for row := location.PeriodRow + 1; row < location.Table.Rows(); row++ {
		cells := location.Table[row]
		if len(cells) < 2 {
			continue
		}
		className := strings.TrimSpace(cells[0])
		if className == "" {
			continue
		}

		academic, filler, empty := 0, 0, 0
		for col := 1; col < len(cells); col++ {
			switch classifier.Classify(cells[col]).Kind {
			case extraction.CellAcademic:
				academic++
			case extraction.CellFiller:
				filler++
			default:
				empty++
			}
		}
		fmt.Printf("  class %q: %d academic, %d filler, %d empty\n",
			className, academic, filler, empty)
	}
}
