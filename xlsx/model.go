package xlsx

import (
	"fmt"
)

// Intermediate representation for XLSX. BuildWorkbook produces it from a
// plan, Write turns it into a workbook, ParseWorkbookModel reads a workbook
// back into it and RenderWorkbookHTML previews it.

// Pixel values are floats to allow fractional widths/heights if desired.

// CellStyle captures the limited set of Excel styles the grid uses. It is
// comparable, so it doubles as the key when styles are de-duplicated.
type CellStyle struct {
	FontFamily      string  // e.g. "Calibri"
	FontSizePt      float64 // size in points
	FontColor       string  // "RRGGBB"
	Bold            bool
	Italic          bool
	BackgroundColor string // "RRGGBB"
	BorderColor     string // same colour on all four sides
	HorizontalAlign string // left|center|right|justify
	VerticalAlign   string // top|middle|bottom
	WrapText        bool
	IndentPx        float64 // computed indent in pixels
}

func (s CellStyle) String() string {
	return fmt.Sprintf("FontFamily: %s, FontSizePt: %f, FontColor: %s, Bold: %t, Italic: %t, BackgroundColor: %s, BorderColor: %s, HorizontalAlign: %s, VerticalAlign: %s, WrapText: %t, IndentPx: %f", s.FontFamily, s.FontSizePt, s.FontColor, s.Bold, s.Italic, s.BackgroundColor, s.BorderColor, s.HorizontalAlign, s.VerticalAlign, s.WrapText, s.IndentPx)
}

// RenderCell is the IR for a single cell (or merged master).
type RenderCell struct {
	Ref     string    // e.g. "A1"
	Value   string    // already formatted value
	ColSpan int       // 1 if not merged
	RowSpan int       // 1 if not merged
	Style   CellStyle // resolved style
}

func (c RenderCell) String() string {
	return fmt.Sprintf("Ref: %s, Value: %s, ColSpan: %d, RowSpan: %d, Style: %s", c.Ref, c.Value, c.ColSpan, c.RowSpan, c.Style.String())
}

// RenderRow represents one logical row in a sheet.
type RenderRow struct {
	HeightPx float64 // resolved height in px
	Hidden   bool
	Cells    []*RenderCell // length == ColCount of parent sheet; nil for blank or merge-covered cells
}

func (r RenderRow) String() string {
	return fmt.Sprintf("HeightPx: %f, Hidden: %t, Cells: %d", r.HeightPx, r.Hidden, len(r.Cells))
}

// RenderSheet is the intermediate representation of a worksheet.
type RenderSheet struct {
	Name       string
	ColWidths  []float64   // per column pixel widths, len == ColCount
	ColHidden  []bool      // true if column hidden
	Rows       []RenderRow // in order
	FrozenRows int         // rows kept visible while scrolling
}

func (s RenderSheet) String() string {
	return fmt.Sprintf("Name: %s, ColWidths: %v, ColHidden: %v, Rows: %d, FrozenRows: %d", s.Name, s.ColWidths, s.ColHidden, len(s.Rows), s.FrozenRows)
}

// Cell returns the cell at the zero-based row and column, or nil.
func (s RenderSheet) Cell(row, col int) *RenderCell {
	if row < 0 || row >= len(s.Rows) || col < 0 || col >= len(s.Rows[row].Cells) {
		return nil
	}
	return s.Rows[row].Cells[col]
}

// Value returns the text of the cell at row and col, or "" when blank.
func (s RenderSheet) Value(row, col int) string {
	if c := s.Cell(row, col); c != nil {
		return c.Value
	}
	return ""
}

// WorkbookModel is the top-level IR containing all sheets.
type WorkbookModel struct {
	Sheets []RenderSheet
}

// Sheet returns the sheet called name.
func (m WorkbookModel) Sheet(name string) (RenderSheet, bool) {
	for _, s := range m.Sheets {
		if s.Name == name {
			return s, true
		}
	}
	return RenderSheet{}, false
}
