package xlsx

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
)

// Conversions between the IR's pixels and the units excelize takes.
const (
	pxPerChar   = 8.3   // column width unit (default font character)
	pxPerPt     = 1.333 // row height unit
	pxPerIndent = 8.0   // alignment indent level
)

// DocProps are the core document properties written into the workbook.
type DocProps struct {
	Title       string
	Subject     string
	Creator     string
	Identifier  string
	Description string
	// Created is stored as both creation and modification time. Fix it to get
	// byte-identical output.
	Created time.Time
}

// Write renders m as an XLSX workbook to w. Nothing is written to w unless
// the whole workbook was built.
func Write(w io.Writer, m WorkbookModel, props DocProps) error {
	if len(m.Sheets) == 0 {
		return errors.New("xlsx: workbook has no sheets")
	}
	f := excelize.NewFile()
	defer f.Close()

	sw := styleWriter{f: f, ids: make(map[CellStyle]int)}
	for i, sheet := range m.Sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheet.Name); err != nil {
				return fmt.Errorf("xlsx: rename sheet %q: %w", sheet.Name, err)
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return fmt.Errorf("xlsx: add sheet %q: %w", sheet.Name, err)
		}
		if err := writeSheet(f, &sw, sheet); err != nil {
			return fmt.Errorf("xlsx: sheet %q: %w", sheet.Name, err)
		}
	}
	f.SetActiveSheet(0)

	created := props.Created.UTC().Format(time.RFC3339)
	if err := f.SetDocProps(&excelize.DocProperties{
		Title:          props.Title,
		Subject:        props.Subject,
		Creator:        props.Creator,
		LastModifiedBy: props.Creator,
		Identifier:     props.Identifier,
		Description:    props.Description,
		Created:        created,
		Modified:       created,
	}); err != nil {
		return fmt.Errorf("xlsx: doc props: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("xlsx: write: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sw *styleWriter, sheet RenderSheet) error {
	name := sheet.Name
	for c, px := range sheet.ColWidths {
		col, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(name, col, col, px/pxPerChar); err != nil {
			return err
		}
		if c < len(sheet.ColHidden) && sheet.ColHidden[c] {
			if err := f.SetColVisible(name, col, false); err != nil {
				return err
			}
		}
	}

	for r, row := range sheet.Rows {
		if row.HeightPx > 0 {
			if err := f.SetRowHeight(name, r+1, row.HeightPx/pxPerPt); err != nil {
				return err
			}
		}
		if row.Hidden {
			if err := f.SetRowVisible(name, r+1, false); err != nil {
				return err
			}
		}
		for c, cell := range row.Cells {
			if cell == nil {
				continue
			}
			if err := writeCell(f, sw, name, r, c, cell); err != nil {
				return err
			}
		}
	}

	if sheet.FrozenRows > 0 {
		topLeft, err := excelize.CoordinatesToCellName(1, sheet.FrozenRows+1)
		if err != nil {
			return err
		}
		return f.SetPanes(name, &excelize.Panes{
			Freeze:      true,
			YSplit:      sheet.FrozenRows,
			TopLeftCell: topLeft,
			ActivePane:  "bottomLeft",
		})
	}
	return nil
}

func writeCell(f *excelize.File, sw *styleWriter, sheet string, r, c int, cell *RenderCell) error {
	from, err := excelize.CoordinatesToCellName(c+1, r+1)
	if err != nil {
		return err
	}
	to, err := excelize.CoordinatesToCellName(c+max(1, cell.ColSpan), r+max(1, cell.RowSpan))
	if err != nil {
		return err
	}
	if cell.Value != "" {
		if err := f.SetCellStr(sheet, from, cell.Value); err != nil {
			return err
		}
	}
	if to != from {
		if err := f.MergeCell(sheet, from, to); err != nil {
			return err
		}
	}
	id, err := sw.id(cell.Style)
	if err != nil {
		return err
	}
	// Covered cells of a merge share the master's style so borders and
	// fills span the whole region.
	return f.SetCellStyle(sheet, from, to, id)
}

// styleWriter registers each distinct CellStyle with the workbook once.
type styleWriter struct {
	f   *excelize.File
	ids map[CellStyle]int
}

func (sw *styleWriter) id(s CellStyle) (int, error) {
	if id, ok := sw.ids[s]; ok {
		return id, nil
	}
	id, err := sw.f.NewStyle(excelStyle(s))
	if err != nil {
		return 0, fmt.Errorf("style %s: %w", s, err)
	}
	sw.ids[s] = id
	return id, nil
}

func excelStyle(s CellStyle) *excelize.Style {
	st := &excelize.Style{
		Font: &excelize.Font{
			Family: s.FontFamily,
			Size:   s.FontSizePt,
			Color:  s.FontColor,
			Bold:   s.Bold,
			Italic: s.Italic,
		},
		Alignment: &excelize.Alignment{
			Horizontal: s.HorizontalAlign,
			Vertical:   excelVertical(s.VerticalAlign),
			WrapText:   s.WrapText,
			Indent:     int(s.IndentPx / pxPerIndent),
		},
	}
	if s.BackgroundColor != "" {
		st.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{s.BackgroundColor}}
	}
	if s.BorderColor != "" {
		for _, side := range []string{"left", "top", "right", "bottom"} {
			st.Border = append(st.Border, excelize.Border{Type: side, Color: s.BorderColor, Style: 1})
		}
	}
	return st
}

// excelVertical maps the IR's CSS-flavoured vertical alignment to Excel's.
func excelVertical(v string) string {
	if v == "middle" {
		return "center"
	}
	return v
}
