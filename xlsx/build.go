package xlsx

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/aerissecure/planexport/layout"
	"github.com/aerissecure/planexport/plan"
	"github.com/aerissecure/planexport/theme"
)

const (
	OverviewSheetName = "Overview"
	DailySheetName    = "Daily Plans"

	// NoPlan fills the topic cell of a weekday without an entry.
	NoPlan = "No plan"
	// NoTopic marks a weekday whose entry exists but has a blank topic.
	NoTopic = "No topic set"
)

// Fixed geometry of the Daily Plans grid (zero-based).
const (
	// GridHeaderRow carries the weekday names and dates.
	GridHeaderRow = 1
	// GridFirstFieldRow is the row of the topic field; the other fields
	// follow in plan.FieldKinds order.
	GridFirstFieldRow = 2
	// GridColumns is the label column plus one column per weekday.
	GridColumns = 1 + plan.DaysPerWeek
)

// BuildOptions controls BuildWorkbook.
type BuildOptions struct {
	Layout     layout.Constants
	SystemName string
}

// BuildWorkbook lays p out as two sheets: Overview (metadata label/value
// rows, per-day status and weekly notes) and Daily Plans (the field by
// weekday grid). Styles depend only on a cell's role, never on its content.
func BuildWorkbook(p plan.Plan, th theme.Theme, opts BuildOptions) WorkbookModel {
	if opts.Layout == (layout.Constants{}) {
		opts.Layout = layout.Default()
	}
	st := newStyles(th)
	return WorkbookModel{Sheets: []RenderSheet{
		buildOverview(p, st, opts),
		buildDailyGrid(p, st, opts),
	}}
}

type styles struct {
	title       CellStyle
	label       CellStyle
	value       CellStyle
	header      CellStyle
	topic       CellStyle
	noPlan      CellStyle
	sectionHead CellStyle
	notes       CellStyle
	footnote    CellStyle
}

func newStyles(th theme.Theme) styles {
	base := CellStyle{
		FontFamily:      "Calibri",
		FontSizePt:      11,
		FontColor:       "1F2937",
		BorderColor:     "E5E7EB",
		HorizontalAlign: "left",
		VerticalAlign:   "top",
		WrapText:        true,
	}

	var s styles
	s.value = base

	s.title = base
	s.title.FontSizePt = 14
	s.title.Bold = true
	s.title.FontColor = "FFFFFF"
	s.title.BackgroundColor = th.Primary.Hex()
	s.title.BorderColor = th.Primary.Hex()
	s.title.VerticalAlign = "middle"
	s.title.WrapText = false

	s.label = base
	s.label.Bold = true
	s.label.BackgroundColor = th.LightBackground.Hex()

	s.header = base
	s.header.Bold = true
	s.header.FontColor = "FFFFFF"
	s.header.BackgroundColor = th.Secondary.Hex()
	s.header.HorizontalAlign = "center"
	s.header.VerticalAlign = "middle"

	s.topic = base
	s.topic.Bold = true

	s.noPlan = base
	s.noPlan.Italic = true
	s.noPlan.FontColor = th.NeutralGray.Hex()
	s.noPlan.BackgroundColor = "F9FAFB"

	s.sectionHead = s.label
	s.sectionHead.FontColor = th.Secondary.Hex()
	s.sectionHead.FontSizePt = 12

	s.notes = base
	s.notes.IndentPx = 8

	s.footnote = base
	s.footnote.Italic = true
	s.footnote.FontSizePt = 9
	s.footnote.FontColor = "6B7280"
	s.footnote.BorderColor = ""
	s.footnote.WrapText = false
	return s
}

// sheetBuilder appends rows to a sheet with a fixed column count.
type sheetBuilder struct {
	sheet RenderSheet
}

func newSheetBuilder(name string, colWidthsPx ...float64) *sheetBuilder {
	return &sheetBuilder{sheet: RenderSheet{
		Name:      name,
		ColWidths: colWidthsPx,
		ColHidden: make([]bool, len(colWidthsPx)),
	}}
}

func (b *sheetBuilder) cols() int { return len(b.sheet.ColWidths) }

// row appends an empty row and returns its zero-based index.
func (b *sheetBuilder) row(heightPx float64) int {
	b.sheet.Rows = append(b.sheet.Rows, RenderRow{HeightPx: heightPx, Cells: make([]*RenderCell, b.cols())})
	return len(b.sheet.Rows) - 1
}

func (b *sheetBuilder) set(row, col int, value string, st CellStyle) *RenderCell {
	c := &RenderCell{Ref: cellRef(row, col), Value: value, ColSpan: 1, RowSpan: 1, Style: st}
	b.sheet.Rows[row].Cells[col] = c
	return c
}

// merge writes value into a region of rowSpan rows starting at row that
// covers every column. Rows that do not exist yet are appended.
func (b *sheetBuilder) merge(row, rowSpan int, heightPx float64, value string, st CellStyle) {
	for len(b.sheet.Rows) < row+rowSpan {
		b.row(heightPx)
	}
	c := b.set(row, 0, value, st)
	c.RowSpan, c.ColSpan = rowSpan, b.cols()
}

// cellRef renders a zero-based position as an A1 reference.
func cellRef(row, col int) string {
	ref, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return ""
	}
	return ref
}

func buildOverview(p plan.Plan, st styles, opts BuildOptions) RenderSheet {
	m := p.Meta
	b := newSheetBuilder(OverviewSheetName, 160, 360)

	b.merge(b.row(32), 1, 32, "Weekly Lesson Plan", st.title)

	summary := plan.Completion(p)
	meta := []struct{ label, value string }{
		{"Teacher", m.TeacherName},
		{"Grade", m.GradeName},
		{"Subject", m.SubjectName},
		{"Week", m.WeekLabel()},
		{"Dates", m.DateRange()},
		{"Completion", summary.String()},
		{"Document ID", m.DocumentID},
	}
	for _, kv := range meta {
		r := b.row(20)
		b.set(r, 0, kv.label, st.label)
		b.set(r, 1, kv.value, st.value)
	}

	b.row(10)
	b.merge(b.row(24), 1, 24, "Daily Status", st.sectionHead)
	for _, d := range plan.Weekdays {
		r := b.row(20)
		b.set(r, 0, d.String()+", "+plan.FormatDate(m.Date(d)), st.label)
		switch e := p.Entry(d); {
		case e == nil:
			b.set(r, 1, NoPlan, st.noPlan)
		case !e.HasContent():
			b.set(r, 1, NoTopic, st.noPlan)
		default:
			b.set(r, 1, strings.TrimSpace(e.Topic), st.value)
		}
	}

	addWeeklyNotes(b, p, st, opts.Layout)

	b.row(10)
	if opts.SystemName != "" {
		b.set(b.row(18), 0, "Generated by "+opts.SystemName, st.footnote)
	}
	return b.sheet
}

// fieldRowHeightPx is fixed per field so row styling never depends on the
// amount of text.
func fieldRowHeightPx(k plan.FieldKind) float64 {
	switch k {
	case plan.FieldTopic:
		return 30
	case plan.FieldNotes:
		return 80
	}
	return 45
}

func buildDailyGrid(p plan.Plan, st styles, opts BuildOptions) RenderSheet {
	m := p.Meta
	widths := []float64{140}
	for range plan.Weekdays {
		widths = append(widths, 200)
	}
	b := newSheetBuilder(DailySheetName, widths...)
	b.sheet.FrozenRows = GridFirstFieldRow

	b.merge(b.row(30), 1, 30, fmt.Sprintf("%s - %s - %s", m.GradeName, m.SubjectName, m.WeekLabel()), st.title)

	hr := b.row(36) // GridHeaderRow
	b.set(hr, 0, "Field", st.header)
	for i, d := range plan.Weekdays {
		b.set(hr, i+1, d.String()+"\n"+plan.FormatDate(m.Date(d)), st.header)
	}

	for _, k := range plan.FieldKinds {
		r := b.row(fieldRowHeightPx(k))
		b.set(r, 0, k.Label(), st.label)
		for i, d := range plan.Weekdays {
			e := p.Entry(d)
			switch {
			case e == nil && k == plan.FieldTopic:
				b.set(r, i+1, NoPlan, st.noPlan)
			case k == plan.FieldTopic:
				b.set(r, i+1, strings.TrimSpace(e.Value(k)), st.topic)
			default:
				b.set(r, i+1, strings.TrimSpace(e.Value(k)), st.value)
			}
		}
	}

	addWeeklyNotes(b, p, st, opts.Layout)
	return b.sheet
}

// addWeeklyNotes appends a section header and a merged notes region sized by
// the row estimator. Nothing is added when the plan has no weekly notes.
func addWeeklyNotes(b *sheetBuilder, p plan.Plan, st styles, lc layout.Constants) {
	if !p.HasWeeklyNotes() {
		return
	}
	notes := strings.TrimSpace(p.WeeklyNotes)
	b.row(10)
	b.merge(b.row(24), 1, 24, "Weekly Notes", st.sectionHead)
	b.merge(len(b.sheet.Rows), max(1, layout.EstimateRows(notes, lc)), 20, notes, st.notes)
}
