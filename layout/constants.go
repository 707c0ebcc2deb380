// Package layout holds the page geometry and the content-height estimator
// shared by the renderers.
//
// The estimator is a heuristic, not a text shaper. Its tuning values (most
// notably CharsPerLine) are not derived from font metrics; they are chosen so
// that estimates err on the high side for the fonts the PDF renderer uses.
// All lengths are millimetres.
package layout

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Constants is the full set of geometry and estimator knobs.
type Constants struct {
	PageWidth    float64 `yaml:"page_width"`
	PageHeight   float64 `yaml:"page_height"`
	MarginLeft   float64 `yaml:"margin_left"`
	MarginRight  float64 `yaml:"margin_right"`
	MarginTop    float64 `yaml:"margin_top"`
	MarginBottom float64 `yaml:"margin_bottom"`

	// Running header drawn on every non-cover page.
	RunningHeaderHeight float64 `yaml:"running_header_height"`
	SectionGap          float64 `yaml:"section_gap"`

	// Daily block estimator. The topic is set in a larger bold face, so it
	// gets its own, smaller characters-per-line figure.
	DayHeaderHeight   float64 `yaml:"day_header_height"`
	TopicHeight       float64 `yaml:"topic_height"`
	FieldHeight       float64 `yaml:"field_height"`
	NotesBaseHeight   float64 `yaml:"notes_base_height"`
	LineHeight        float64 `yaml:"line_height"`
	CharsPerLine      int     `yaml:"chars_per_line"`
	TopicCharsPerLine int     `yaml:"topic_chars_per_line"`
	BlockPadding      float64 `yaml:"block_padding"`
	EmptyStateHeight  float64 `yaml:"empty_state_height"`

	// Weekly notes longer than this many estimated lines move from the
	// overview to the appendix.
	OverviewNotesMaxLines int `yaml:"overview_notes_max_lines"`

	// Grid backend.
	GridCharsPerLine int `yaml:"grid_chars_per_line"`
	MinNoteRows      int `yaml:"min_note_rows"`
	MaxNoteRows      int `yaml:"max_note_rows"`
}

// Default returns the A4 portrait geometry used unless configured otherwise.
func Default() Constants {
	return Constants{
		PageWidth:    210,
		PageHeight:   297,
		MarginLeft:   15,
		MarginRight:  15,
		MarginTop:    12,
		MarginBottom: 20,

		RunningHeaderHeight: 18,
		SectionGap:          6,

		DayHeaderHeight:   10,
		TopicHeight:       12,
		FieldHeight:       12,
		NotesBaseHeight:   8,
		LineHeight:        4.5,
		CharsPerLine:      50,
		TopicCharsPerLine: 40,
		BlockPadding:      6,
		EmptyStateHeight:  24,

		OverviewNotesMaxLines: 10,

		GridCharsPerLine: 100,
		MinNoteRows:      3,
		MaxNoteRows:      20,
	}
}

// ContentWidth is the drawable width between the side margins.
func (c Constants) ContentWidth() float64 {
	return c.PageWidth - c.MarginLeft - c.MarginRight
}

// ContentTop is the first y position below the running header.
func (c Constants) ContentTop() float64 {
	return c.MarginTop + c.RunningHeaderHeight + c.SectionGap
}

// PageBottom is the lowest y any block may reach; the footer lives below it.
func (c Constants) PageBottom() float64 {
	return c.PageHeight - c.MarginBottom
}

// PageCapacity is the vertical space available to blocks on a fresh page.
func (c Constants) PageCapacity() float64 {
	return c.PageBottom() - c.ContentTop()
}

// Validate rejects geometry the renderers cannot work with.
func (c Constants) Validate() error {
	var errs []error
	positive := []struct {
		name  string
		value float64
	}{
		{"page_width", c.PageWidth},
		{"page_height", c.PageHeight},
		{"day_header_height", c.DayHeaderHeight},
		{"topic_height", c.TopicHeight},
		{"field_height", c.FieldHeight},
		{"notes_base_height", c.NotesBaseHeight},
		{"line_height", c.LineHeight},
		{"empty_state_height", c.EmptyStateHeight},
	}
	for _, p := range positive {
		if p.value <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %v", p.name, p.value))
		}
	}
	if c.MarginLeft < 0 || c.MarginRight < 0 || c.MarginTop < 0 || c.MarginBottom < 0 || c.BlockPadding < 0 || c.SectionGap < 0 {
		errs = append(errs, errors.New("margins, padding and gaps must not be negative"))
	}
	if c.CharsPerLine < 1 || c.TopicCharsPerLine < 1 || c.GridCharsPerLine < 1 {
		errs = append(errs, errors.New("chars_per_line, topic_chars_per_line and grid_chars_per_line must be at least 1"))
	}
	if c.MinNoteRows < 1 || c.MaxNoteRows < c.MinNoteRows {
		errs = append(errs, fmt.Errorf("note rows range [%d, %d] is invalid", c.MinNoteRows, c.MaxNoteRows))
	}
	if c.ContentWidth() <= 0 {
		errs = append(errs, errors.New("side margins leave no content width"))
	}
	if c.PageCapacity() < c.EmptyBlockHeight() {
		errs = append(errs, fmt.Errorf("page capacity %.1fmm cannot hold an empty day block", c.PageCapacity()))
	}
	if len(errs) > 0 {
		return fmt.Errorf("layout: %w", errors.Join(errs...))
	}
	return nil
}

// Load overlays the YAML document in r on Default and validates the result.
// An empty document yields the defaults.
func Load(r io.Reader) (Constants, error) {
	c := Default()
	if err := yaml.NewDecoder(r).Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Constants{}, fmt.Errorf("layout: decode: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Constants{}, err
	}
	return c, nil
}

// LoadFile is Load for a file on disk.
func LoadFile(path string) (Constants, error) {
	f, err := os.Open(path)
	if err != nil {
		return Constants{}, fmt.Errorf("layout: open %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}
