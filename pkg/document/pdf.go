package document

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Geometry tolerances for clustering positioned text into a grid, in PDF
// points. Rows are lines whose baselines sit within rowTolerance of each
// other; columns are text runs whose left edges cluster within colTolerance.
const (
	rowTolerance = 3.0
	colTolerance = 12.0
)

// PDFSource opens PDF files as documents.
type PDFSource struct{}

// NewPDFSource creates a PDF-backed document source.
func NewPDFSource() *PDFSource {
	return &PDFSource{}
}

var _ Source = (*PDFSource)(nil)

// Open opens the PDF at path. The returned document holds the file open
// until Close is called.
func (s *PDFSource) Open(path string) (Document, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF %s: %w", path, err)
	}
	return &pdfDocument{file: f, reader: reader}, nil
}

type pdfDocument struct {
	file   *os.File
	reader *pdf.Reader
}

func (d *pdfDocument) NumPages() int { return d.reader.NumPage() }

func (d *pdfDocument) Page(i int) Page {
	// ledongthuc/pdf pages are 1-based.
	return &pdfPage{page: d.reader.Page(i + 1), index: i}
}

func (d *pdfDocument) Close() error { return d.file.Close() }

type pdfPage struct {
	page  pdf.Page
	index int
}

func (p *pdfPage) Text() (string, error) {
	if p.page.V.IsNull() {
		return "", nil
	}
	text, err := p.page.GetPlainText(nil)
	if err != nil {
		return "", fmt.Errorf("failed to extract text from page %d: %w", p.index+1, err)
	}
	return text, nil
}

// Tables reconstructs the page's dominant table from positioned text runs:
// runs are grouped into lines by baseline, lines into columns by the left
// edges observed across the whole page, and wrapped lines are merged back
// into the cell above them. Pages produced by spreadsheet exports (one table
// per page) reconstruct well; free-form pages yield a single rough table the
// extraction layer will reject.
func (p *pdfPage) Tables() ([]Table, error) {
	if p.page.V.IsNull() {
		return nil, nil
	}
	content := p.page.Content()
	if len(content.Text) == 0 {
		return nil, nil
	}

	lines := groupIntoLines(content.Text)
	columns := detectColumns(content.Text)
	if len(columns) == 0 {
		return nil, nil
	}

	table := make(Table, 0, len(lines))
	for _, line := range lines {
		row := make([]string, len(columns))
		for _, run := range line {
			col := nearestColumn(columns, run.X)
			if row[col] == "" {
				row[col] = strings.TrimSpace(run.S)
			} else {
				row[col] += " " + strings.TrimSpace(run.S)
			}
		}
		table = append(table, row)
	}

	table = mergeContinuationRows(table)
	if len(table) == 0 {
		return nil, nil
	}
	return []Table{table}, nil
}

// groupIntoLines buckets text runs by baseline Y, top of page first, and
// orders each line left to right.
func groupIntoLines(texts []pdf.Text) [][]pdf.Text {
	sorted := make([]pdf.Text, len(texts))
	copy(sorted, texts)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y > sorted[j].Y // PDF origin is bottom-left
		}
		return sorted[i].X < sorted[j].X
	})

	var lines [][]pdf.Text
	for _, run := range sorted {
		if strings.TrimSpace(run.S) == "" {
			continue
		}
		if n := len(lines); n > 0 && abs(lines[n-1][0].Y-run.Y) <= rowTolerance {
			lines[n-1] = append(lines[n-1], run)
			continue
		}
		lines = append(lines, []pdf.Text{run})
	}
	return lines
}

// detectColumns clusters the left edges of all text runs on the page into
// column positions, sorted left to right.
func detectColumns(texts []pdf.Text) []float64 {
	xs := make([]float64, 0, len(texts))
	for _, run := range texts {
		if strings.TrimSpace(run.S) == "" {
			continue
		}
		xs = append(xs, run.X)
	}
	sort.Float64s(xs)

	var columns []float64
	for _, x := range xs {
		if n := len(columns); n > 0 && x-columns[n-1] <= colTolerance {
			continue
		}
		columns = append(columns, x)
	}
	return columns
}

// nearestColumn returns the index of the rightmost column at or left of x.
func nearestColumn(columns []float64, x float64) int {
	idx := 0
	for i, c := range columns {
		if x >= c-colTolerance {
			idx = i
		}
	}
	return idx
}

// mergeContinuationRows folds wrapped text back into the row above it: a row
// with an empty first cell is treated as the continuation of the previous
// row, its cells appended line-wise. This is what turns a two-line cell into
// "Subject\nTeacher" the way the classifier expects.
func mergeContinuationRows(table Table) Table {
	var merged Table
	for _, row := range table {
		if len(merged) > 0 && len(row) > 0 && row[0] == "" && !rowEmpty(row) {
			prev := merged[len(merged)-1]
			for col := 1; col < len(row) && col < len(prev); col++ {
				if row[col] == "" {
					continue
				}
				if prev[col] == "" {
					prev[col] = row[col]
				} else {
					prev[col] += "\n" + row[col]
				}
			}
			continue
		}
		merged = append(merged, row)
	}
	return merged
}

func rowEmpty(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
