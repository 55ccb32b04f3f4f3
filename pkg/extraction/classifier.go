package extraction

import (
	"strings"

	"github.com/slateworks/timetable-engine/pkg/models"
)

// CellKind is the classifier's verdict for one table cell.
type CellKind int

const (
	// CellEmpty means no text, or text too short to mean anything.
	CellEmpty CellKind = iota
	// CellFiller means a non-teaching interval (break, assembly, ...).
	CellFiller
	// CellAcademic means a subject/teacher pair.
	CellAcademic
)

// CellClass is a classified cell. Subject and Teacher are set only for
// CellAcademic.
type CellClass struct {
	Kind    CellKind
	Subject string
	Teacher string
}

// defaultFillerWords is the non-teaching vocabulary, matched case-insensitively
// as substrings. The reversed renderings (ylbmessa, tsafkaerb, kaerb) defend
// against an extraction artifact that reverses character order in some cells.
var defaultFillerWords = []string{
	"assembly", "breakfast", "break",
	"ylbmessa", "tsafkaerb", "kaerb",
	"lunch", "recess", "snack", "prayer",
}

// Classifier decides what a raw table cell denotes. Rules run in a fixed
// order: filler vocabulary first, then the minimum-length check, then the
// line split into subject and teacher.
type Classifier struct {
	fillerWords []string
}

// NewClassifier builds a classifier with the default filler vocabulary plus
// any extra words the caller wants matched.
func NewClassifier(extraFillerWords ...string) *Classifier {
	words := make([]string, 0, len(defaultFillerWords)+len(extraFillerWords))
	words = append(words, defaultFillerWords...)
	for _, w := range extraFillerWords {
		words = append(words, strings.ToLower(w))
	}
	return &Classifier{fillerWords: words}
}

// Classify examines one cell's raw (possibly multi-line) text.
func (c *Classifier) Classify(text string) CellClass {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return CellClass{Kind: CellEmpty}
	}

	lower := strings.ToLower(trimmed)
	for _, word := range c.fillerWords {
		if strings.Contains(lower, word) {
			return CellClass{Kind: CellFiller}
		}
	}

	if len(trimmed) < 2 {
		return CellClass{Kind: CellEmpty}
	}

	var lines []string
	for _, line := range strings.Split(trimmed, "\n") {
		if l := strings.TrimSpace(line); l != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) == 0 {
		return CellClass{Kind: CellEmpty}
	}

	subject := lines[0]
	if len(subject) < 2 {
		return CellClass{Kind: CellEmpty}
	}

	teacher := models.UnknownTeacherName
	if len(lines) > 1 {
		teacher = strings.Join(lines[1:], " ")
	}

	return CellClass{Kind: CellAcademic, Subject: subject, Teacher: teacher}
}
