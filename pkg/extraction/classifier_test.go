package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/slateworks/timetable-engine/pkg/models"
)

func TestClassify_SubjectAndTeacher(t *testing.T) {
	c := NewClassifier()

	cell := c.Classify("Math\nMr. Ali")
	assert.Equal(t, CellAcademic, cell.Kind)
	assert.Equal(t, "Math", cell.Subject)
	assert.Equal(t, "Mr. Ali", cell.Teacher)
}

func TestClassify_MultiLineTeacherJoined(t *testing.T) {
	c := NewClassifier()

	cell := c.Classify("Science\nMs.\nOmar")
	assert.Equal(t, CellAcademic, cell.Kind)
	assert.Equal(t, "Science", cell.Subject)
	assert.Equal(t, "Ms. Omar", cell.Teacher)
}

func TestClassify_SingleLineGetsUnknownTeacher(t *testing.T) {
	c := NewClassifier()

	cell := c.Classify("Art")
	assert.Equal(t, CellAcademic, cell.Kind)
	assert.Equal(t, "Art", cell.Subject)
	assert.Equal(t, models.UnknownTeacherName, cell.Teacher)
}

func TestClassify_FillerVocabulary(t *testing.T) {
	c := NewClassifier()

	for _, text := range []string{
		"Break",
		"LUNCH",
		"Morning Assembly",
		"breakfast time",
		"recess",
		"snack",
		"prayer",
	} {
		assert.Equal(t, CellFiller, c.Classify(text).Kind, "text %q", text)
	}
}

func TestClassify_ReversedFillerArtifacts(t *testing.T) {
	c := NewClassifier()

	// Some cells come back with reversed character order from the document
	// layer; the reversed keywords still have to match.
	for _, text := range []string{"ylbmessa", "tsafkaerb", "kaerb"} {
		assert.Equal(t, CellFiller, c.Classify(text).Kind, "text %q", text)
	}
}

func TestClassify_FillerBeatsLineSplit(t *testing.T) {
	c := NewClassifier()

	// A multi-line cell containing a filler word is still filler, never a
	// subject/teacher pair.
	assert.Equal(t, CellFiller, c.Classify("Lunch\nCafeteria").Kind)
}

func TestClassify_Empty(t *testing.T) {
	c := NewClassifier()

	for _, text := range []string{"", "   ", "\n", "x", " a "} {
		assert.Equal(t, CellEmpty, c.Classify(text).Kind, "text %q", text)
	}
}

func TestClassify_SubjectTooShort(t *testing.T) {
	c := NewClassifier()

	assert.Equal(t, CellEmpty, c.Classify("X\nMr. Ali").Kind)
}

func TestClassify_ExtraFillerWords(t *testing.T) {
	c := NewClassifier("activity")

	assert.Equal(t, CellFiller, c.Classify("Sports Activity").Kind)
	// Default vocabulary is still live.
	assert.Equal(t, CellFiller, c.Classify("Break").Kind)
}
