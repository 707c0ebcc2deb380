package xlsx

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/aerissecure/planexport/layout"
	"github.com/aerissecure/planexport/plan"
	"github.com/aerissecure/planexport/theme"
)

var created = time.Date(2024, 8, 30, 9, 0, 0, 0, time.UTC)

func scenarioPlan() plan.Plan {
	p := plan.Plan{
		Meta: plan.WeekMeta{
			WeekNumber:  36,
			WeekYear:    2024,
			StartDate:   time.Date(2024, 9, 2, 0, 0, 0, 0, time.UTC),
			TeacherName: "J. Smith",
			GradeName:   "Grade 4",
			SubjectName: "Mathematics",
			DocumentID:  "plan-36-2024",
		},
	}
	p.Days[0] = &plan.DailyEntry{Topic: "Fractions", BooksAndPages: "pp.10-12"}
	return p
}

func build(p plan.Plan) WorkbookModel {
	return BuildWorkbook(p, theme.Resolve(p.Meta.SubjectName), BuildOptions{Layout: layout.Default(), SystemName: "Lesson Planner"})
}

func dailySheet(t *testing.T, m WorkbookModel) RenderSheet {
	t.Helper()
	s, ok := m.Sheet(DailySheetName)
	if !ok {
		t.Fatalf("no %q sheet", DailySheetName)
	}
	return s
}

func writeBytes(t *testing.T, m WorkbookModel) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := Write(&buf, m, DocProps{Title: "Weekly Lesson Plan", Creator: "Lesson Planner", Identifier: "plan-36-2024", Created: created}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	return buf.Bytes()
}

func fieldRow(k plan.FieldKind) int { return GridFirstFieldRow + int(k) }

func TestBuildWorkbookScenario(t *testing.T) {
	m := build(scenarioPlan())
	if len(m.Sheets) != 2 || m.Sheets[0].Name != OverviewSheetName || m.Sheets[1].Name != DailySheetName {
		t.Fatalf("unexpected sheets: %v", m.Sheets)
	}
	s := dailySheet(t, m)

	if got := s.Value(fieldRow(plan.FieldTopic), 1); got != "Fractions" {
		t.Errorf("Monday topic = %q", got)
	}
	if got := s.Value(fieldRow(plan.FieldBooksAndPages), 1); got != "pp.10-12" {
		t.Errorf("Monday books = %q", got)
	}
	for col := 2; col < GridColumns; col++ {
		c := s.Cell(fieldRow(plan.FieldTopic), col)
		if c == nil || c.Value != NoPlan {
			t.Errorf("column %d topic = %v, want %q", col, c, NoPlan)
			continue
		}
		if !c.Style.Italic {
			t.Errorf("column %d no-plan marker is not italic", col)
		}
		for _, k := range plan.FieldKinds[1:] {
			if v := s.Value(fieldRow(k), col); v != "" {
				t.Errorf("column %d %s = %q, want blank", col, k, v)
			}
		}
	}
	if got := s.Value(GridHeaderRow, 1); got != "Monday\nMon, Sep 2" {
		t.Errorf("Monday header = %q", got)
	}
}

func TestBuildWorkbookDailyStatus(t *testing.T) {
	p := scenarioPlan()
	p.Days[1] = &plan.DailyEntry{Topic: "  ", Homework: "Worksheet 3"}
	m := build(p)
	overview, ok := m.Sheet(OverviewSheetName)
	if !ok {
		t.Fatalf("no %q sheet", OverviewSheetName)
	}

	want := map[plan.Weekday]string{
		plan.Monday:    "Fractions",
		plan.Tuesday:   NoTopic,
		plan.Wednesday: NoPlan,
	}
	found := 0
	for r := range overview.Rows {
		for d, status := range want {
			if !strings.HasPrefix(overview.Value(r, 0), d.String()+", ") {
				continue
			}
			found++
			if got := overview.Value(r, 1); got != status {
				t.Errorf("%s status = %q, want %q", d, got, status)
			}
		}
	}
	if found != len(want) {
		t.Fatalf("found %d status rows, want %d", found, len(want))
	}

	if got := dailySheet(t, m).Value(fieldRow(plan.FieldTopic), 2); got != "" {
		t.Errorf("grid topic for a blank-topic entry = %q, want blank", got)
	}
}

func TestBuildWorkbookGridShape(t *testing.T) {
	for _, p := range []plan.Plan{scenarioPlan(), {Meta: scenarioPlan().Meta}} {
		s := dailySheet(t, build(p))
		if len(s.ColWidths) != GridColumns {
			t.Fatalf("%d columns, want %d", len(s.ColWidths), GridColumns)
		}
		if len(s.Rows) != GridFirstFieldRow+len(plan.FieldKinds) {
			t.Fatalf("%d rows, want %d", len(s.Rows), GridFirstFieldRow+len(plan.FieldKinds))
		}
		for _, k := range plan.FieldKinds {
			if got := s.Value(fieldRow(k), 0); got != k.Label() {
				t.Errorf("row label %q, want %q", got, k.Label())
			}
			for col := 1; col < GridColumns; col++ {
				if s.Cell(fieldRow(k), col) == nil {
					t.Errorf("%s column %d missing", k, col)
				}
			}
		}
	}
}

func TestBuildWorkbookWeeklyNotes(t *testing.T) {
	lc := layout.Default()
	p := scenarioPlan()
	p.WeeklyNotes = strings.Repeat("Bring calculators. ", 30)
	m := build(p)
	want := layout.EstimateRows(strings.TrimSpace(p.WeeklyNotes), lc)

	for _, s := range m.Sheets {
		var region *RenderCell
		for _, row := range s.Rows {
			if c := row.Cells[0]; c != nil && c.Value == strings.TrimSpace(p.WeeklyNotes) {
				region = c
			}
		}
		if region == nil {
			t.Fatalf("%s: weekly notes region missing", s.Name)
		}
		if region.RowSpan != want || region.ColSpan != len(s.ColWidths) {
			t.Errorf("%s: notes span %dx%d, want %dx%d", s.Name, region.RowSpan, region.ColSpan, want, len(s.ColWidths))
		}
	}
}

func TestBuildWorkbookStylesIgnoreContent(t *testing.T) {
	short := scenarioPlan()
	long := scenarioPlan()
	long.Days[0] = &plan.DailyEntry{
		Topic:         strings.Repeat("Fractions and decimals ", 10),
		BooksAndPages: strings.Repeat("pp.10-12 ", 20),
		Notes:         strings.Repeat("n", 2000),
	}
	a, b := dailySheet(t, build(short)), dailySheet(t, build(long))
	for r := range a.Rows {
		if a.Rows[r].HeightPx != b.Rows[r].HeightPx {
			t.Errorf("row %d height depends on content: %v vs %v", r, a.Rows[r].HeightPx, b.Rows[r].HeightPx)
		}
		for c := range a.Rows[r].Cells {
			ca, cb := a.Cell(r, c), b.Cell(r, c)
			if (ca == nil) != (cb == nil) || (ca != nil && ca.Style != cb.Style) {
				t.Errorf("cell %d,%d style depends on content", r, c)
			}
		}
	}
}

func TestWriteReadBack(t *testing.T) {
	out := writeBytes(t, build(scenarioPlan()))

	f, err := excelize.OpenReader(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("OpenReader failed: %v", err)
	}
	defer f.Close()

	if got := f.GetSheetList(); len(got) != 2 || got[0] != OverviewSheetName || got[1] != DailySheetName {
		t.Fatalf("sheets = %v", got)
	}
	cells := map[string]string{"B3": "Fractions", "B4": "pp.10-12", "C3": NoPlan, "F3": NoPlan, "A8": "Notes"}
	for ref, want := range cells {
		got, err := f.GetCellValue(DailySheetName, ref)
		if err != nil || got != want {
			t.Errorf("%s = %q (%v), want %q", ref, got, err, want)
		}
	}
	if got, _ := f.GetCellValue(OverviewSheetName, "B2"); got != "J. Smith" {
		t.Errorf("overview teacher = %q", got)
	}

	merges, err := f.GetMergeCells(DailySheetName)
	if err != nil || len(merges) != 1 || merges[0].GetStartAxis() != "A1" || merges[0].GetEndAxis() != "F1" {
		t.Errorf("merges = %v (%v), want the title row only", merges, err)
	}

	id, err := f.GetCellStyle(DailySheetName, "C3")
	if err != nil {
		t.Fatalf("GetCellStyle: %v", err)
	}
	st, err := f.GetStyle(id)
	if err != nil || st.Font == nil || !st.Font.Italic {
		t.Errorf("no-plan marker style = %+v (%v), want italic", st, err)
	}

	props, err := f.GetDocProps()
	if err != nil || props.Created != "2024-08-30T09:00:00Z" || props.Identifier != "plan-36-2024" {
		t.Errorf("doc props = %+v (%v)", props, err)
	}
}

func TestWriteDeterministic(t *testing.T) {
	p := scenarioPlan()
	p.WeeklyNotes = "Quiz on Friday."
	a := writeBytes(t, build(p))
	b := writeBytes(t, build(p))
	if !bytes.Equal(a, b) {
		t.Fatal("two writes of the same model differ")
	}
}

func TestWriteNoSheets(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, WorkbookModel{}, DocProps{}); err == nil {
		t.Fatal("empty model accepted")
	}
	if buf.Len() != 0 {
		t.Errorf("wrote %d bytes on failure", buf.Len())
	}
}

func TestParseWorkbookModelVerify(t *testing.T) {
	p := scenarioPlan()
	p.WeeklyNotes = "Line one\nLine two"
	m := build(p)
	out := writeBytes(t, m)

	parsed, err := ParseWorkbookModel(bytes.NewReader(out), int64(len(out)))
	if err != nil {
		t.Fatalf("ParseWorkbookModel failed: %v", err)
	}
	if err := Verify(m, parsed); err != nil {
		t.Fatalf("Verify failed: %v", err)
	}

	s := dailySheet(t, parsed)
	if got := s.Value(fieldRow(plan.FieldTopic), 1); got != "Fractions" {
		t.Errorf("parsed Monday topic = %q", got)
	}
	if c := s.Cell(0, 0); c == nil || c.ColSpan != GridColumns {
		t.Errorf("parsed title cell = %v, want a %d-column merge", c, GridColumns)
	}

	tampered := build(p)
	tampered.Sheets[1].Rows[fieldRow(plan.FieldTopic)].Cells[1].Value = "Decimals"
	if err := Verify(tampered, parsed); !errors.Is(err, ErrMismatch) {
		t.Errorf("Verify of a changed model = %v, want ErrMismatch", err)
	}
}

func TestParseWorkbookModelStrings(t *testing.T) {
	m := build(scenarioPlan())
	out := writeBytes(t, m)
	parsed, err := ParseWorkbookModel(bytes.NewReader(out), int64(len(out)))
	if err != nil {
		t.Fatalf("ParseWorkbookModel failed: %v", err)
	}
	overview, ok := parsed.Sheet(OverviewSheetName)
	if !ok {
		t.Fatalf("no %q sheet", OverviewSheetName)
	}
	if got := overview.Value(0, 0); got != "Weekly Lesson Plan" {
		t.Errorf("overview A1 = %q, want %q", got, "Weekly Lesson Plan")
	}
	s := dailySheet(t, parsed)
	for col, want := range map[int]string{1: "Fractions", 2: NoPlan, 5: NoPlan} {
		if got := s.Value(fieldRow(plan.FieldTopic), col); got != want {
			t.Errorf("daily topic column %d = %q, want %q", col, got, want)
		}
	}
}

func TestRelativizeWorkbookRels(t *testing.T) {
	out := writeBytes(t, build(scenarioPlan()))
	pkg, err := relativizeWorkbookRels(bytes.NewReader(out), int64(len(out)))
	if err != nil {
		t.Fatal(err)
	}
	zr, err := zip.NewReader(bytes.NewReader(pkg), int64(len(pkg)))
	if err != nil {
		t.Fatal(err)
	}
	names := make(map[string]bool)
	for _, f := range zr.File {
		names[f.Name] = true
		if f.Name != workbookRels {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		rels, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatal(err)
		}
		if bytes.Contains(rels, []byte(`Target="/xl/`)) {
			t.Errorf("absolute target left in %s:\n%s", workbookRels, rels)
		}
		if !bytes.Contains(rels, []byte(`Target="sharedStrings.xml"`)) {
			t.Errorf("shared strings target missing from %s:\n%s", workbookRels, rels)
		}
	}
	for _, name := range []string{workbookRels, "xl/workbook.xml", "xl/styles.xml", "xl/sharedStrings.xml", "[Content_Types].xml"} {
		if !names[name] {
			t.Errorf("%s dropped from the package", name)
		}
	}
}

func TestParseWorkbookModelStyles(t *testing.T) {
	p := scenarioPlan()
	p.WeeklyNotes = "Bring rulers"
	m := build(p)
	out := writeBytes(t, m)
	parsed, err := ParseWorkbookModel(bytes.NewReader(out), int64(len(out)))
	if err != nil {
		t.Fatalf("ParseWorkbookModel failed: %v", err)
	}

	th := theme.Resolve(p.Meta.SubjectName)
	s := dailySheet(t, parsed)
	header := s.Cell(GridHeaderRow, 1).Style
	if header.BackgroundColor != th.Secondary.Hex() || header.FontColor != "FFFFFF" || header.HorizontalAlign != "center" || header.VerticalAlign != "middle" {
		t.Errorf("parsed header style = {%s}", header)
	}
	missing := s.Cell(fieldRow(plan.FieldTopic), 2).Style
	if missing.BackgroundColor != "F9FAFB" || missing.FontColor != th.NeutralGray.Hex() || missing.BorderColor != "E5E7EB" || !missing.WrapText {
		t.Errorf("parsed no-plan style = {%s}", missing)
	}
	if title := s.Cell(0, 0).Style; title.FontFamily != "Calibri" || title.FontSizePt != 14 || title.WrapText {
		t.Errorf("parsed title style = {%s}", title)
	}

	for _, tamper := range []struct {
		name string
		edit func(*CellStyle)
	}{
		{"fill", func(cs *CellStyle) { cs.BackgroundColor = "FF0000" }},
		{"font size", func(cs *CellStyle) { cs.FontSizePt = 12 }},
		{"border", func(cs *CellStyle) { cs.BorderColor = "000000" }},
		{"alignment", func(cs *CellStyle) { cs.HorizontalAlign = "right" }},
		{"wrap", func(cs *CellStyle) { cs.WrapText = false }},
		{"indent", func(cs *CellStyle) { cs.IndentPx = 16 }},
	} {
		t.Run(tamper.name, func(t *testing.T) {
			want := build(p)
			tamper.edit(&want.Sheets[1].Rows[GridHeaderRow].Cells[1].Style)
			if err := Verify(want, parsed); !errors.Is(err, ErrMismatch) {
				t.Errorf("Verify = %v, want ErrMismatch", err)
			}
		})
	}

	// Weight and slant are not read back.
	want := build(p)
	want.Sheets[1].Rows[GridHeaderRow].Cells[1].Style.Bold = false
	if err := Verify(want, parsed); err != nil {
		t.Errorf("Verify with a different weight: %v", err)
	}
}

func TestRenderWorkbookHTML(t *testing.T) {
	p := scenarioPlan()
	p.Days[1] = &plan.DailyEntry{Topic: "<b>Decimals</b> & more"}
	m := build(p)
	out := RenderWorkbookHTML(m)

	for _, want := range []string{
		"<!DOCTYPE html>",
		`data-name="Daily Plans"`,
		">Fractions</td>",
		"&lt;b&gt;Decimals&lt;/b&gt; &amp; more",
		">No plan</td>",
		`colspan="6"`,
		"Monday<br>Mon, Sep 2",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("HTML missing %q", want)
		}
	}
	if out != RenderWorkbookHTML(m) {
		t.Error("HTML output is not deterministic")
	}

	s := dailySheet(t, m)
	start := strings.Index(out, `data-name="Daily Plans"`)
	if rows := strings.Count(out[start:], "<tr "); rows != len(s.Rows) {
		t.Errorf("daily table has %d rows, want %d", rows, len(s.Rows))
	}
}
