package layout

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/aerissecure/planexport/plan"
)

// EstimateLines approximates how many lines text wraps to at charsPerLine
// characters per line. Each newline-separated paragraph takes at least one
// line. Empty text takes none.
func EstimateLines(text string, charsPerLine int) int {
	text = strings.TrimRight(text, "\n")
	if strings.TrimSpace(text) == "" {
		return 0
	}
	if charsPerLine < 1 {
		charsPerLine = 1
	}
	lines := 0
	for _, para := range strings.Split(text, "\n") {
		n := utf8.RuneCountInString(para)
		lines += max(1, int(math.Ceil(float64(n)/float64(charsPerLine))))
	}
	return lines
}

func (c Constants) halfCharsPerLine() int {
	return max(1, c.CharsPerLine/2)
}

// extraLines is the number of wrapped lines beyond the first.
func extraLines(text string, charsPerLine int) int {
	return max(0, EstimateLines(text, charsPerLine)-1)
}

// TopicBlockHeight is the space reserved for the full-width topic line.
func (c Constants) TopicBlockHeight(topic string) float64 {
	return c.TopicHeight + float64(extraLines(topic, c.TopicCharsPerLine))*c.LineHeight
}

// FieldBlockHeight is the space one half-width field (label plus value)
// needs, or zero when the value is empty.
func (c Constants) FieldBlockHeight(value string) float64 {
	if strings.TrimSpace(value) == "" {
		return 0
	}
	return c.FieldHeight + float64(extraLines(value, c.halfCharsPerLine()))*c.LineHeight
}

// FieldValueLines is how many value lines fit the height FieldBlockHeight
// reserves for value.
func (c Constants) FieldValueLines(value string) int {
	return max(1, EstimateLines(value, c.halfCharsPerLine()))
}

// NotesBlockHeight is the space the full-width notes section needs, or zero
// when notes are empty.
func (c Constants) NotesBlockHeight(notes string) float64 {
	lines := EstimateLines(notes, c.CharsPerLine)
	if lines == 0 {
		return 0
	}
	return c.NotesBaseHeight + float64(lines)*c.LineHeight
}

// EmptyBlockHeight is the height of a weekday block with no plan.
func (c Constants) EmptyBlockHeight() float64 {
	return c.DayHeaderHeight + c.EmptyStateHeight + c.BlockPadding
}

// EstimateHeight approximates the vertical space the block for entry will
// occupy, header bar included. A nil entry gets the empty-state height.
//
// Every optional field adds its own increment even though the canvas draws
// two of them side by side, so the estimate is deliberately high.
func EstimateHeight(entry *plan.DailyEntry, c Constants) float64 {
	if entry == nil {
		return c.EmptyBlockHeight()
	}
	h := c.DayHeaderHeight + c.TopicBlockHeight(entry.Topic)
	h += c.FieldBlockHeight(entry.BooksAndPages)
	h += c.FieldBlockHeight(entry.Homework)
	h += c.FieldBlockHeight(entry.DueDate())
	h += c.FieldBlockHeight(entry.Assignments)
	h += c.NotesBlockHeight(entry.Notes)
	return h + c.BlockPadding
}

// EstimateNotesSection approximates the weekly notes appendix: a section
// header followed by the notes body.
func EstimateNotesSection(notes string, c Constants) float64 {
	return c.DayHeaderHeight + c.NotesBlockHeight(notes) + c.BlockPadding
}

// EstimateRows is the grid backend's counterpart of EstimateHeight: the
// number of worksheet rows a free-text region needs, clamped to the
// configured range.
func EstimateRows(text string, c Constants) int {
	rows := EstimateLines(text, c.GridCharsPerLine)
	return min(max(rows, c.MinNoteRows), c.MaxNoteRows)
}
