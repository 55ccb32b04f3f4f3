// Package document abstracts the raw document-parsing layer: a source yields
// pages, and each page exposes its full text plus zero or more tables, each
// table a 2-D grid of optional text cells. The extraction engine only ever
// sees this interface; the PDF implementation lives in pdf.go.
package document

// Table is a row-major 2-D grid of cell text. An empty string means the cell
// is absent or blank. Rows may have differing lengths.
type Table [][]string

// Rows returns the number of rows in the table.
func (t Table) Rows() int { return len(t) }

// Cell returns the text at (row, col), or "" when out of range.
func (t Table) Cell(row, col int) string {
	if row < 0 || row >= len(t) {
		return ""
	}
	if col < 0 || col >= len(t[row]) {
		return ""
	}
	return t[row][col]
}

// Page is one page of a source document.
type Page interface {
	// Text returns the page's full extracted text.
	Text() (string, error)
	// Tables returns the tables detected on the page, in document order.
	Tables() ([]Table, error)
}

// Document is an open document with an ordered sequence of pages.
type Document interface {
	NumPages() int
	// Page returns the page at index i (0-based).
	Page(i int) Page
	Close() error
}

// Source opens documents by path.
type Source interface {
	Open(path string) (Document, error)
}
