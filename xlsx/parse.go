package xlsx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/unidoc/unioffice/spreadsheet"
	"github.com/unidoc/unioffice/spreadsheet/reference"
)

// Excel defaults used when a column or row carries no explicit size.
const (
	defaultColWidthPx  = 8.43 * pxPerChar
	defaultRowHeightPx = 15.0 * pxPerPt
)

// ParseWorkbookModel reads an XLSX from r/size and returns the intermediate
// representation. Font weight and slant are not read back.
func ParseWorkbookModel(r io.ReaderAt, size int64) (WorkbookModel, error) {
	pkg, err := relativizeWorkbookRels(r, size)
	if err != nil {
		return WorkbookModel{}, fmt.Errorf("xlsx: read: %w", err)
	}
	wb, err := spreadsheet.Read(bytes.NewReader(pkg), int64(len(pkg)))
	if err != nil {
		return WorkbookModel{}, fmt.Errorf("xlsx: read: %w", err)
	}

	var model WorkbookModel
	for _, sheet := range wb.Sheets() {
		model.Sheets = append(model.Sheets, parseSheet(wb, sheet))
	}
	return model, nil
}

const workbookRels = "xl/_rels/workbook.xml.rels"

// relativizeWorkbookRels returns a copy of the package in which workbook
// relationship targets given as absolute part names ("/xl/sharedStrings.xml",
// as excelize writes them) are made relative to xl/. unioffice resolves
// targets against the workbook's directory only and would otherwise load an
// empty shared string table.
func relativizeWorkbookRels(r io.ReaderAt, size int64) ([]byte, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range zr.File {
		if f.Name != workbookRels {
			if err := zw.Copy(f); err != nil {
				return nil, err
			}
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, err
		}
		data = bytes.ReplaceAll(data, []byte(`Target="/xl/`), []byte(`Target="`))
		w, err := zw.CreateHeader(&zip.FileHeader{Name: f.Name, Method: zip.Deflate})
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(data); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type span struct{ rows, cols int }

func parseSheet(wb *spreadsheet.Workbook, sheet spreadsheet.Sheet) RenderSheet {
	// Cells are sparse, so the width of the sheet is the highest column
	// index in use rather than the number of cells in the widest row.
	maxCols := 0
	for _, row := range sheet.Rows() {
		for _, cell := range row.Cells() {
			if col, err := cell.Column(); err == nil {
				maxCols = max(maxCols, int(reference.ColumnToIndex(col))+1)
			}
		}
	}

	rs := RenderSheet{
		Name:      sheet.Name(),
		ColWidths: make([]float64, maxCols),
		ColHidden: make([]bool, maxCols),
	}
	for c := 0; c < maxCols; c++ {
		col := sheet.Column(uint32(c + 1)).X()
		rs.ColWidths[c] = defaultColWidthPx
		if col.CustomWidthAttr != nil && *col.CustomWidthAttr && col.WidthAttr != nil {
			rs.ColWidths[c] = *col.WidthAttr * pxPerChar
		}
		if col.HiddenAttr != nil {
			rs.ColHidden[c] = *col.HiddenAttr
		}
	}

	masters, covered := parseMerges(sheet)

	for _, row := range sheet.Rows() {
		rowIdx := int(row.RowNumber()) - 1
		if rowIdx >= len(rs.Rows) {
			// grow slice to accommodate sparse rows
			rs.Rows = append(rs.Rows, make([]RenderRow, rowIdx-len(rs.Rows)+1)...)
		}

		rr := &rs.Rows[rowIdx]
		rr.Cells = make([]*RenderCell, maxCols)
		rr.Hidden = row.IsHidden()
		rr.HeightPx = defaultRowHeightPx
		if row.X().CustomHeightAttr != nil && *row.X().CustomHeightAttr && row.X().HtAttr != nil {
			rr.HeightPx = *row.X().HtAttr * pxPerPt
		}

		for _, cell := range row.Cells() {
			colName, err := cell.Column()
			if err != nil {
				continue
			}
			colIdx := int(reference.ColumnToIndex(colName))
			pos := [2]int{rowIdx, colIdx}
			if covered[pos] {
				continue
			}
			rc := &RenderCell{
				Ref:     fmt.Sprintf("%s%d", colName, rowIdx+1),
				Value:   cell.GetFormattedValue(),
				ColSpan: 1,
				RowSpan: 1,
			}
			if cell.X().SAttr != nil {
				rc.Style = parseStyle(wb, *cell.X().SAttr)
			}
			if s, ok := masters[pos]; ok {
				rc.RowSpan, rc.ColSpan = s.rows, s.cols
			}
			rr.Cells[colIdx] = rc
		}
	}
	for i := range rs.Rows {
		if rs.Rows[i].Cells == nil {
			rs.Rows[i] = RenderRow{HeightPx: defaultRowHeightPx, Cells: make([]*RenderCell, maxCols)}
		}
	}
	return rs
}

// parseMerges returns the span of every merge master and the set of cells a
// merge covers, both keyed by zero-based {row, col}.
func parseMerges(sheet spreadsheet.Sheet) (map[[2]int]span, map[[2]int]bool) {
	masters := make(map[[2]int]span)
	covered := make(map[[2]int]bool)
	if sheet.X().MergeCells == nil {
		return masters, covered
	}
	for _, mc := range sheet.X().MergeCells.MergeCell {
		from, to, err := reference.ParseRangeReference(mc.RefAttr)
		if err != nil {
			continue
		}
		fromRow, fromCol := int(from.RowIdx-1), int(from.ColumnIdx)
		toRow, toCol := int(to.RowIdx-1), int(to.ColumnIdx)
		masters[[2]int{fromRow, fromCol}] = span{rows: toRow - fromRow + 1, cols: toCol - fromCol + 1}
		for r := fromRow; r <= toRow; r++ {
			for c := fromCol; c <= toCol; c++ {
				if r != fromRow || c != fromCol {
					covered[[2]int{r, c}] = true
				}
			}
		}
	}
	return masters, covered
}

func parseStyle(wb *spreadsheet.Workbook, styleID uint32) CellStyle {
	var st CellStyle
	xfs := wb.StyleSheet.X().CellXfs
	if xfs == nil || int(styleID) >= len(xfs.Xf) {
		return st
	}
	font := GetFontProps(wb.StyleSheet, styleID)
	fill := GetFillProps(wb.StyleSheet, styleID)
	border := GetBorderProps(wb.StyleSheet, styleID)

	if font != nil && len(font.Name) > 0 {
		st.FontFamily = font.Name[0].ValAttr
	}
	if font != nil && len(font.Sz) > 0 {
		st.FontSizePt = font.Sz[0].ValAttr
	}
	if font != nil && len(font.Color) > 0 && font.Color[0].RgbAttr != nil {
		st.FontColor = normalizeColor(*font.Color[0].RgbAttr)
	}
	if fill != nil && fill.PatternFill != nil && fill.PatternFill.FgColor != nil && fill.PatternFill.FgColor.RgbAttr != nil {
		st.BackgroundColor = normalizeColor(*fill.PatternFill.FgColor.RgbAttr)
	}
	if border != nil && border.Left != nil && border.Left.Color != nil && border.Left.Color.RgbAttr != nil {
		st.BorderColor = normalizeColor(*border.Left.Color.RgbAttr)
	}

	xf := xfs.Xf[styleID]
	if xf.Alignment != nil {
		st.HorizontalAlign = xf.Alignment.HorizontalAttr.String()
		switch xf.Alignment.VerticalAttr.String() {
		case "top":
			st.VerticalAlign = "top"
		case "center":
			st.VerticalAlign = "middle"
		default:
			st.VerticalAlign = "bottom"
		}
		if xf.Alignment.WrapTextAttr != nil {
			st.WrapText = *xf.Alignment.WrapTextAttr
		}
		if xf.Alignment.IndentAttr != nil {
			st.IndentPx = float64(*xf.Alignment.IndentAttr) * pxPerIndent
		}
	}
	return st
}

// normalizeColor converts an 8-digit ARGB hex (as used in XLSX) to a 6-digit
// RGB string. Any other length is returned unchanged.
func normalizeColor(hex string) string {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) == 8 {
		return strings.ToUpper(hex[2:])
	}
	return strings.ToUpper(hex)
}
