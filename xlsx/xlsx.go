// Package xlsx lays a weekly plan out as a fixed grid workbook.
//
// The grid is built as an intermediate representation (WorkbookModel) first.
// Write turns it into an XLSX file with excelize; ParseWorkbookModel reads a
// file back into the same representation with unioffice, which is how
// written workbooks are verified; RenderWorkbookHTML previews it as HTML.
package xlsx

import (
	"github.com/unidoc/unioffice/schema/soo/sml"
	"github.com/unidoc/unioffice/spreadsheet"
)

// cellXf returns the cell format record for styleID, or nil.
func cellXf(ss spreadsheet.StyleSheet, styleID uint32) *sml.CT_Xf {
	xfs := ss.X().CellXfs
	if xfs == nil || int(styleID) >= len(xfs.Xf) {
		return nil
	}
	return xfs.Xf[styleID]
}

// GetFontProps returns the font record referenced by styleID, or nil.
func GetFontProps(ss spreadsheet.StyleSheet, styleID uint32) *sml.CT_Font {
	xf := cellXf(ss, styleID)
	if xf == nil || xf.FontIdAttr == nil || ss.X().Fonts == nil {
		return nil
	}
	fontIdx := int(*xf.FontIdAttr)
	if fontIdx >= len(ss.X().Fonts.Font) {
		return nil
	}
	return ss.X().Fonts.Font[fontIdx]
}

// GetFillProps returns the fill record referenced by styleID, or nil.
func GetFillProps(ss spreadsheet.StyleSheet, styleID uint32) *sml.CT_Fill {
	xf := cellXf(ss, styleID)
	if xf == nil || xf.FillIdAttr == nil || ss.X().Fills == nil {
		return nil
	}
	fillIdx := int(*xf.FillIdAttr)
	if fillIdx >= len(ss.X().Fills.Fill) {
		return nil
	}
	return ss.X().Fills.Fill[fillIdx]
}

// GetBorderProps returns the border record referenced by styleID, or nil.
func GetBorderProps(ss spreadsheet.StyleSheet, styleID uint32) *sml.CT_Border {
	xf := cellXf(ss, styleID)
	if xf == nil || xf.BorderIdAttr == nil || ss.X().Borders == nil {
		return nil
	}
	borderIdx := int(*xf.BorderIdAttr)
	if borderIdx >= len(ss.X().Borders.Border) {
		return nil
	}
	return ss.X().Borders.Border[borderIdx]
}
