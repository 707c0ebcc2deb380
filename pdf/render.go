// Package pdf renders a weekly plan as a paginated A4 document.
//
// Rendering happens in two phases. The first draws every page (cover,
// overview, one block per weekday, the optional weekly notes appendix) while
// threading an explicit Cursor through each drawing step. The second revisits
// every page except the cover to stamp "Page k of N" footers, which can only
// be written once N is known.
package pdf

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/aerissecure/planexport/layout"
	"github.com/aerissecure/planexport/plan"
	"github.com/aerissecure/planexport/theme"
)

// DefaultSystemName is printed in the footer when Options leaves it blank.
const DefaultSystemName = "Lesson Planner"

// Options controls a single render.
type Options struct {
	Layout     layout.Constants
	SystemName string
	// GeneratedAt is printed on the cover and used as the document's
	// creation and modification dates. Fix it to get byte-identical output.
	GeneratedAt time.Time
}

// Cursor is the drawing position threaded through every step.
type Cursor struct {
	Page int
	Y    float64
}

// BlockKind tells a weekday block from the weekly notes appendix.
type BlockKind int

const (
	BlockDay BlockKind = iota
	BlockWeeklyNotes
)

// Placement records where one block landed.
type Placement struct {
	Kind      BlockKind
	Day       plan.Weekday // zero for BlockWeeklyNotes
	Present   bool         // an entry exists for the day
	Planned   bool         // the entry has a topic
	Page      int
	StartY    float64
	Estimated float64
	// Oversize blocks are taller than a whole page. They start on a fresh
	// page and their notes continue onto the following pages.
	Oversize bool
	EndPage  int
	EndY     float64
}

// Footer is the text stamped on one page during the second pass.
type Footer struct {
	Page   int
	Left   string
	Center string
	Right  string
}

// Layout is the trace of a finished render.
type Layout struct {
	Pages           int
	Placements      []Placement
	Footers         []Footer
	NotesInOverview bool
}

// StageError reports which rendering step failed.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("pdf: %s: %v", e.Stage, e.Err) }

func (e *StageError) Unwrap() error { return e.Err }

// Render draws p and writes the finished document to w. Nothing is written
// to w unless every page rendered without error.
func Render(w io.Writer, p plan.Plan, th theme.Theme, opts Options) (Layout, error) {
	if err := opts.Layout.Validate(); err != nil {
		return Layout{}, &StageError{Stage: "setup", Err: err}
	}
	if opts.SystemName == "" {
		opts.SystemName = DefaultSystemName
	}
	r := newRenderer(p, th, opts)
	out, err := r.run()
	if err != nil {
		return Layout{}, err
	}
	if err := r.pdf.Output(w); err != nil {
		return Layout{}, &StageError{Stage: "output", Err: err}
	}
	return out, nil
}

type renderer struct {
	pdf  *fpdf.Fpdf
	tr   func(string) string
	plan plan.Plan
	th   theme.Theme
	opts Options
	lc   layout.Constants
	out  Layout
}

func newRenderer(p plan.Plan, th theme.Theme, opts Options) *renderer {
	lc := opts.Layout
	doc := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: lc.PageWidth, Ht: lc.PageHeight},
	})
	doc.SetMargins(lc.MarginLeft, lc.MarginTop, lc.MarginRight)
	doc.SetAutoPageBreak(false, lc.MarginBottom)
	doc.SetCellMargin(0)

	m := p.Meta
	doc.SetTitle(fmt.Sprintf("Weekly Lesson Plan - %s - %s", m.SubjectName, m.WeekLabel()), true)
	doc.SetSubject(fmt.Sprintf("%s %s, %s", m.GradeName, m.SubjectName, m.DateRange()), true)
	doc.SetAuthor(m.TeacherName, true)
	doc.SetKeywords(m.DocumentID, true)
	doc.SetCreator(opts.SystemName, true)
	doc.SetCreationDate(opts.GeneratedAt)
	doc.SetModificationDate(opts.GeneratedAt)
	doc.SetCatalogSort(true)

	return &renderer{
		pdf:  doc,
		tr:   doc.UnicodeTranslatorFromDescriptor(""),
		plan: p,
		th:   th,
		opts: opts,
		lc:   lc,
	}
}

func (r *renderer) run() (Layout, error) {
	steps := []struct {
		stage string
		draw  func(Cursor) Cursor
	}{
		{"cover", r.drawCover},
		{"overview", r.drawOverview},
		{"daily", r.drawDays},
		{"weekly notes", r.drawWeeklyNotes},
	}
	var cur Cursor
	for _, s := range steps {
		cur = s.draw(cur)
		if err := r.pdf.Error(); err != nil {
			return Layout{}, &StageError{Stage: s.stage, Err: err}
		}
	}
	r.stampFooters()
	if err := r.pdf.Error(); err != nil {
		return Layout{}, &StageError{Stage: "footer", Err: err}
	}
	r.out.Pages = r.pdf.PageCount()
	return r.out, nil
}

// newPage starts a page, draws the running header and returns the cursor at
// the top of the content area.
func (r *renderer) newPage() Cursor {
	r.pdf.AddPage()
	r.drawRunningHeader()
	return Cursor{Page: r.pdf.PageCount(), Y: r.lc.ContentTop()}
}

// ensure breaks the page when a block of height est would cross the bottom
// margin. A cursor already at the top of a page is never broken again, so a
// block taller than a page starts there and continues.
func (r *renderer) ensure(cur Cursor, est float64) Cursor {
	if cur.Y+est > r.lc.PageBottom() && cur.Y > r.lc.ContentTop() {
		return r.newPage()
	}
	return cur
}

func (r *renderer) drawRunningHeader() {
	lc := r.lc
	m := r.plan.Meta
	x, w := lc.MarginLeft, lc.ContentWidth()
	y := lc.MarginTop

	r.font("B", 12, r.th.Primary)
	r.text(x, y, w, 6, r.fit(m.SubjectName, w*0.6), "L")
	r.font("", 9, textMuted)
	r.text(x, y, w, 6, m.WeekLabel(), "R")
	r.text(x, y+6, w, 5, r.fit(m.GradeName+" - "+m.TeacherName, w*0.6), "L")
	r.text(x, y+6, w, 5, m.DateRange(), "R")

	r.strokeColor(r.th.Primary)
	r.pdf.SetLineWidth(0.5)
	lineY := y + lc.RunningHeaderHeight - 2
	r.pdf.Line(x, lineY, x+w, lineY)
	r.pdf.SetLineWidth(0.2)
}

// stampFooters is the second pass. The cover (page 1) carries no footer.
func (r *renderer) stampFooters() {
	lc := r.lc
	m := r.plan.Meta
	total := r.pdf.PageCount()
	left := fmt.Sprintf("%s - %s - Week %d", m.GradeName, m.SubjectName, m.WeekNumber)
	x, w := lc.MarginLeft, lc.ContentWidth()
	lineY := lc.PageBottom() + 4
	textY := lineY + 2

	for k := 2; k <= total; k++ {
		f := Footer{
			Page:   k,
			Left:   left,
			Center: r.opts.SystemName,
			Right:  fmt.Sprintf("Page %d of %d", k, total),
		}
		r.pdf.SetPage(k)
		r.strokeColor(gridLine)
		r.pdf.SetLineWidth(0.2)
		r.pdf.Line(x, lineY, x+w, lineY)
		r.font("", 8, textMuted)
		r.text(x, textY, w, 4, r.fit(f.Left, w*0.4), "L")
		r.text(x, textY, w, 4, f.Center, "C")
		r.text(x, textY, w, 4, f.Right, "R")
		r.out.Footers = append(r.out.Footers, f)
	}
}
