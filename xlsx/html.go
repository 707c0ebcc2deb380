package xlsx

import (
	"fmt"
	"html"
	"strings"
)

// CSS properties a CellStyle maps to, one slot per property.
const (
	cssFontFamily = iota
	cssFontSize
	cssColor
	cssFontWeight
	cssFontStyle
	cssBackground
	cssBorder
	cssTextAlign
	cssVerticalAlign
	cssWhiteSpace
	cssPadding
	cssSlots
)

type cssDecls [cssSlots]string

// styleToCSS converts a CellStyle to one declaration per slot. Unset
// properties map to explicit defaults so a class can always override the
// shared base rule.
func styleToCSS(s CellStyle) cssDecls {
	var d cssDecls
	d[cssFontFamily] = "font-family:inherit;"
	if s.FontFamily != "" {
		d[cssFontFamily] = fmt.Sprintf("font-family:'%s';", s.FontFamily)
	}
	d[cssFontSize] = "font-size:11.0pt;"
	if s.FontSizePt > 0 {
		d[cssFontSize] = fmt.Sprintf("font-size:%.1fpt;", s.FontSizePt)
	}
	d[cssColor] = "color:#000000;"
	if s.FontColor != "" {
		d[cssColor] = fmt.Sprintf("color:#%s;", s.FontColor)
	}
	d[cssFontWeight] = "font-weight:normal;"
	if s.Bold {
		d[cssFontWeight] = "font-weight:bold;"
	}
	d[cssFontStyle] = "font-style:normal;"
	if s.Italic {
		d[cssFontStyle] = "font-style:italic;"
	}
	d[cssBackground] = "background-color:transparent;"
	if s.BackgroundColor != "" {
		d[cssBackground] = fmt.Sprintf("background-color:#%s;", s.BackgroundColor)
	}
	d[cssBorder] = "border:none;"
	if s.BorderColor != "" {
		d[cssBorder] = fmt.Sprintf("border:1px solid #%s;", s.BorderColor)
	}
	switch s.HorizontalAlign {
	case "center", "centerContinuous", "distributed":
		d[cssTextAlign] = "text-align:center;"
	case "right":
		d[cssTextAlign] = "text-align:right;"
	case "justify":
		d[cssTextAlign] = "text-align:justify;"
	default:
		d[cssTextAlign] = "text-align:left;"
	}
	switch s.VerticalAlign {
	case "top":
		d[cssVerticalAlign] = "vertical-align:top;"
	case "middle":
		d[cssVerticalAlign] = "vertical-align:middle;"
	default:
		d[cssVerticalAlign] = "vertical-align:bottom;"
	}
	d[cssWhiteSpace] = "white-space:nowrap;overflow:hidden;"
	if s.WrapText {
		d[cssWhiteSpace] = "white-space:normal;"
	}
	d[cssPadding] = "padding:4px 8px;"
	if s.IndentPx > 0 {
		if s.HorizontalAlign == "right" {
			d[cssPadding] = fmt.Sprintf("padding:4px %.0fpx 4px 8px;", 8+s.IndentPx)
		} else {
			d[cssPadding] = fmt.Sprintf("padding:4px 8px 4px %.0fpx;", 8+s.IndentPx)
		}
	}
	return d
}

// tally counts declarations per slot, remembering first-seen order so ties
// resolve the same way on every run.
type tally struct {
	counts map[string]int
	order  []string
}

func (t *tally) add(decl string) {
	if t.counts == nil {
		t.counts = make(map[string]int)
	}
	if t.counts[decl] == 0 {
		t.order = append(t.order, decl)
	}
	t.counts[decl]++
}

func (t *tally) mostCommon() string {
	best, bestN := "", 0
	for _, decl := range t.order {
		if n := t.counts[decl]; n > bestN {
			best, bestN = decl, n
		}
	}
	return best
}

// RenderWorkbookHTML converts the IR into a self-contained HTML page, one
// table per sheet. The most common declaration of each CSS property becomes
// the base cell rule; each distinct style gets a class holding only what
// differs from it.
func RenderWorkbookHTML(m WorkbookModel) string {
	var builder strings.Builder

	// 1. Collect unique cell styles and count declarations per slot.
	var slots [cssSlots]tally
	styleMap := make(map[CellStyle]string) // CellStyle -> class name
	var styleList []CellStyle              // To preserve order
	for _, sheet := range m.Sheets {
		for _, row := range sheet.Rows {
			for _, cell := range row.Cells {
				if cell == nil {
					continue
				}
				decls := styleToCSS(cell.Style)
				for i, decl := range decls {
					slots[i].add(decl)
				}
				if _, exists := styleMap[cell.Style]; !exists {
					styleMap[cell.Style] = fmt.Sprintf("cellstyle%d", len(styleList)+1)
					styleList = append(styleList, cell.Style)
				}
			}
		}
	}

	// 2. Base rule.
	var base cssDecls
	for i := range slots {
		base[i] = slots[i].mostCommon()
	}

	title := "Workbook"
	if len(m.Sheets) > 0 {
		title = m.Sheets[0].Name
	}
	builder.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&builder, "<title>%s</title>\n", html.EscapeString(title))
	builder.WriteString("<style>\n")
	builder.WriteString("body { font-family: Calibri, Arial, sans-serif; margin: 1em; }\n")
	builder.WriteString(".table { border-collapse: collapse; table-layout: fixed; margin-bottom: 2em; }\n")
	fmt.Fprintf(&builder, ".table td { %s }\n", strings.Join(base[:], " "))
	builder.WriteString(".sheet { margin-bottom: 2em; }\n")

	// 3. Cell style classes (only declarations that differ from the base).
	for i, style := range styleList {
		decls := styleToCSS(style)
		var diff []string
		for slot, decl := range decls {
			if decl != base[slot] {
				diff = append(diff, decl)
			}
		}
		if len(diff) > 0 {
			fmt.Fprintf(&builder, ".cellstyle%d { %s }\n", i+1, strings.Join(diff, " "))
		}
	}
	builder.WriteString("</style>\n</head>\n<body>\n")

	for _, sheet := range m.Sheets {
		writeSheetHTML(&builder, sheet, styleMap)
	}
	builder.WriteString("</body>\n</html>\n")
	return builder.String()
}

func writeSheetHTML(b *strings.Builder, sheet RenderSheet, styleMap map[CellStyle]string) {
	totalPx := 0.0
	for _, w := range sheet.ColWidths {
		totalPx += w
	}
	fmt.Fprintf(b, "<div class=\"sheet\" data-name=\"%s\">\n", html.EscapeString(sheet.Name))
	fmt.Fprintf(b, "<h2>%s</h2>\n", html.EscapeString(sheet.Name))
	b.WriteString("<div style=\"width:100%;overflow-x:auto;\">\n")
	fmt.Fprintf(b, "<table class=\"table\" style=\"width:%.0fpx;\">\n", totalPx)
	b.WriteString("  <colgroup>\n")
	for i, w := range sheet.ColWidths {
		style := fmt.Sprintf(" style=\"width:%.0fpx;\"", w)
		if i < len(sheet.ColHidden) && sheet.ColHidden[i] {
			style = " style=\"display:none;\""
		}
		fmt.Fprintf(b, "    <col%s>\n", style)
	}
	b.WriteString("  </colgroup>\n")

	// Cells covered by a merge are nil in the IR; they must not be emitted
	// as empty <td>s or the row would grow past the column count.
	covered := make(map[[2]int]bool)
	for r, row := range sheet.Rows {
		for c, cell := range row.Cells {
			if cell == nil || (cell.RowSpan <= 1 && cell.ColSpan <= 1) {
				continue
			}
			for dr := 0; dr < max(1, cell.RowSpan); dr++ {
				for dc := 0; dc < max(1, cell.ColSpan); dc++ {
					if dr != 0 || dc != 0 {
						covered[[2]int{r + dr, c + dc}] = true
					}
				}
			}
		}
	}

	for r, row := range sheet.Rows {
		rowStyle := fmt.Sprintf("height:%.0fpx;", row.HeightPx)
		if row.Hidden {
			rowStyle += "display:none;"
		}
		fmt.Fprintf(b, "  <tr style=\"%s\">\n", rowStyle)
		for c, cell := range row.Cells {
			if covered[[2]int{r, c}] {
				continue
			}
			if cell == nil {
				b.WriteString("    <td></td>\n")
				continue
			}
			spanAttr := ""
			if cell.ColSpan > 1 {
				spanAttr += fmt.Sprintf(" colspan=\"%d\"", cell.ColSpan)
			}
			if cell.RowSpan > 1 {
				spanAttr += fmt.Sprintf(" rowspan=\"%d\"", cell.RowSpan)
			}
			escaped := html.EscapeString(cell.Value)
			// Excel stores explicit line breaks as \n; preserve them in HTML
			escaped = strings.ReplaceAll(escaped, "\n", "<br>")
			fmt.Fprintf(b, "    <td data-cell=\"%s\"%s class=\"%s\">%s</td>\n",
				cell.Ref, spanAttr, styleMap[cell.Style], escaped)
		}
		b.WriteString("  </tr>\n")
	}
	b.WriteString("</table>\n</div>\n</div>\n")
}
