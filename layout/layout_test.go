package layout

import (
	"strings"
	"testing"
	"time"

	"github.com/aerissecure/planexport/plan"
)

func TestEstimateLines(t *testing.T) {
	tests := []struct {
		name string
		text string
		cpl  int
		want int
	}{
		{"empty", "", 50, 0},
		{"blank", "   ", 50, 0},
		{"short", "hello", 50, 1},
		{"exact", strings.Repeat("a", 50), 50, 1},
		{"one over", strings.Repeat("a", 51), 50, 2},
		{"paragraphs", "a\nb\nc", 50, 3},
		{"blank paragraph", "a\n\nb", 50, 3},
		{"trailing newline", "a\n", 50, 1},
		{"runes not bytes", strings.Repeat("é", 50), 50, 1},
		{"zero cpl", "abc", 0, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EstimateLines(tt.text, tt.cpl); got != tt.want {
				t.Errorf("EstimateLines(%q, %d) = %d, want %d", tt.text, tt.cpl, got, tt.want)
			}
		})
	}
}

func TestEstimateHeight(t *testing.T) {
	c := Default()

	if got, want := EstimateHeight(nil, c), c.DayHeaderHeight+c.EmptyStateHeight+c.BlockPadding; got != want {
		t.Errorf("empty block = %v, want %v", got, want)
	}

	base := &plan.DailyEntry{Topic: "Fractions"}
	baseH := EstimateHeight(base, c)
	if want := c.DayHeaderHeight + c.TopicHeight + c.BlockPadding; baseH != want {
		t.Errorf("topic only = %v, want %v", baseH, want)
	}

	due := time.Date(2024, 9, 4, 0, 0, 0, 0, time.UTC)
	full := &plan.DailyEntry{
		Topic:           "Fractions",
		BooksAndPages:   "pp.10-12",
		Homework:        "Worksheet 3",
		HomeworkDueDate: &due,
		Assignments:     "Quiz",
	}
	if got, want := EstimateHeight(full, c), baseH+4*c.FieldHeight; got != want {
		t.Errorf("four fields = %v, want %v", got, want)
	}

	notes := *base
	notes.Notes = strings.Repeat("x", 120) // 3 lines at 50 cpl
	if got, want := EstimateHeight(&notes, c), baseH+c.NotesBaseHeight+3*c.LineHeight; got != want {
		t.Errorf("with notes = %v, want %v", got, want)
	}
}

func TestTopicBlockHeight(t *testing.T) {
	c := Default()
	if got := c.TopicBlockHeight(strings.Repeat("W", c.TopicCharsPerLine)); got != c.TopicHeight {
		t.Errorf("one topic line = %v, want %v", got, c.TopicHeight)
	}
	// The topic face is wider than the body face, so it wraps before
	// CharsPerLine.
	if got, want := c.TopicBlockHeight(strings.Repeat("W", c.TopicCharsPerLine+1)), c.TopicHeight+c.LineHeight; got != want {
		t.Errorf("two topic lines = %v, want %v", got, want)
	}
	if c.TopicCharsPerLine >= c.CharsPerLine {
		t.Errorf("topic_chars_per_line %d not below chars_per_line %d", c.TopicCharsPerLine, c.CharsPerLine)
	}
}

func TestEstimateHeightGrowsWithContent(t *testing.T) {
	c := Default()
	prev := 0.0
	for n := 0; n <= 2000; n += 100 {
		e := &plan.DailyEntry{Topic: "t", Notes: strings.Repeat("n", n)}
		h := EstimateHeight(e, c)
		if h < prev {
			t.Fatalf("estimate shrank at %d chars: %v < %v", n, h, prev)
		}
		prev = h
	}
}

func TestLongNotesFitOnePage(t *testing.T) {
	c := Default()
	e := &plan.DailyEntry{Topic: "Essay workshop", Notes: strings.Repeat("word ", 400)}
	if h := EstimateHeight(e, c); h > c.PageCapacity() {
		t.Fatalf("2000-character notes estimate %v exceeds page capacity %v", h, c.PageCapacity())
	}
}

func TestEstimateRows(t *testing.T) {
	c := Default()
	if got := EstimateRows("", c); got != c.MinNoteRows {
		t.Errorf("empty = %d, want %d", got, c.MinNoteRows)
	}
	if got := EstimateRows(strings.Repeat("x", c.GridCharsPerLine*5), c); got != 5 {
		t.Errorf("five lines = %d", got)
	}
	if got := EstimateRows(strings.Repeat("x\n", 100), c); got != c.MaxNoteRows {
		t.Errorf("clamped = %d, want %d", got, c.MaxNoteRows)
	}
}

func TestLoad(t *testing.T) {
	c, err := Load(strings.NewReader("chars_per_line: 40\nline_height: 5\n"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if c.CharsPerLine != 40 || c.LineHeight != 5 {
		t.Errorf("overrides not applied: %+v", c)
	}
	if c.PageWidth != Default().PageWidth {
		t.Errorf("defaults lost: page width %v", c.PageWidth)
	}

	c, err = Load(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Load of empty document failed: %v", err)
	}
	if c != Default() {
		t.Error("empty document should yield defaults")
	}
}

func TestLoadInvalid(t *testing.T) {
	for _, doc := range []string{
		"chars_per_line: 0\n",
		"topic_chars_per_line: 0\n",
		"line_height: -1\n",
		"margin_bottom: 280\n",
		"min_note_rows: 5\nmax_note_rows: 2\n",
		"page_width: [1, 2]\n",
	} {
		if _, err := Load(strings.NewReader(doc)); err == nil {
			t.Errorf("Load(%q) succeeded, want error", doc)
		}
	}
}
