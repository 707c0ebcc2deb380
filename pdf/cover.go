package pdf

import (
	"fmt"
	"strings"

	"github.com/aerissecure/planexport/layout"
	"github.com/aerissecure/planexport/plan"
)

func (r *renderer) drawCover(Cursor) Cursor {
	lc := r.lc
	m := r.plan.Meta
	x, w := lc.MarginLeft, lc.ContentWidth()

	r.pdf.AddPage()

	// Title band across the full page width.
	r.fillColor(r.th.Primary)
	r.pdf.Rect(0, 0, lc.PageWidth, 70, "F")
	r.font("B", 26, white)
	r.text(x, 22, w, 12, "Weekly Lesson Plan", "C")
	r.font("B", 16, white)
	r.text(x, 38, w, 8, r.fit(m.SubjectName, w), "C")
	r.font("", 12, white)
	r.text(x, 50, w, 6, r.fit(m.GradeName+" - "+m.WeekLabel(), w), "C")

	y := 85.0
	r.fillColor(r.th.LightBackground)
	r.strokeColor(r.th.Accent)
	r.pdf.RoundedRect(x+20, y, w-40, 16, 3, "1234", "FD")
	r.font("B", 14, r.th.Secondary)
	r.text(x+20, y+5, w-40, 6, m.DateRange(), "C")

	y += 28
	r.fillColor(white)
	r.strokeColor(r.th.Primary)
	r.pdf.SetLineWidth(0.4)
	r.pdf.RoundedRect(x+20, y, w-40, 28, 3, "1234", "FD")
	r.pdf.SetLineWidth(0.2)
	r.font("", 9, textMuted)
	r.text(x+20, y+5, w-40, 4, "Teacher", "C")
	r.font("B", 14, textDark)
	r.text(x+20, y+12, w-40, 7, r.fit(m.TeacherName, w-40), "C")

	y += 42
	summary := plan.Completion(r.plan)
	r.font("", 11, textDark)
	r.text(x, y, w, 6, summary.String(), "C")

	r.font("", 8, textMuted)
	bottom := lc.PageHeight - lc.MarginBottom
	r.text(x, bottom, w, 4, fmt.Sprintf("Generated by %s on %s", r.opts.SystemName, plan.FormatLongDate(r.opts.GeneratedAt)), "C")
	r.text(x, bottom+5, w, 4, "Document "+m.DocumentID, "C")

	return Cursor{Page: r.pdf.PageCount(), Y: bottom}
}

// drawOverview fills the page after the cover: completion dots, the field
// checklist and, when short enough, the weekly notes.
func (r *renderer) drawOverview(Cursor) Cursor {
	lc := r.lc
	x, w := lc.MarginLeft, lc.ContentWidth()
	cur := r.newPage()

	r.font("B", 14, textDark)
	r.text(x, cur.Y, w, 7, "Week at a Glance", "L")
	cur.Y += 11

	summary := plan.Completion(r.plan)
	colW := w / plan.DaysPerWeek
	for i, d := range plan.Weekdays {
		cx := x + colW*float64(i) + colW/2
		if summary.PerDay[d] {
			r.fillColor(r.th.Primary)
			r.strokeColor(r.th.Primary)
		} else {
			r.fillColor(gridLine)
			r.strokeColor(r.th.NeutralGray)
		}
		r.pdf.Circle(cx, cur.Y+4, 4, "FD")
		r.font("B", 9, textDark)
		r.text(x+colW*float64(i), cur.Y+10, colW, 4, d.String(), "C")
		r.font("", 8, textMuted)
		r.text(x+colW*float64(i), cur.Y+14.5, colW, 4, plan.FormatDate(r.plan.Meta.Date(d)), "C")
	}
	cur.Y += 22
	r.font("", 10, textDark)
	r.text(x, cur.Y, w, 5, summary.String(), "C")
	cur.Y += 11

	cur = r.drawChecklist(cur)
	return r.drawSpecialInstructions(cur)
}

func (r *renderer) drawChecklist(cur Cursor) Cursor {
	x, w := r.lc.MarginLeft, r.lc.ContentWidth()
	r.font("B", 12, textDark)
	r.text(x, cur.Y, w, 6, "Plan Checklist", "L")
	cur.Y += 9

	used := r.plan.FieldUsage()
	for _, k := range plan.FieldKinds[1:] {
		const box = 4.0
		by := cur.Y + 0.5
		if used[k] {
			r.fillColor(r.th.Primary)
			r.strokeColor(r.th.Primary)
			r.pdf.Rect(x, by, box, box, "FD")
			r.strokeColor(white)
			r.pdf.SetLineWidth(0.5)
			r.pdf.Line(x+0.8, by+2.1, x+1.7, by+3.1)
			r.pdf.Line(x+1.7, by+3.1, x+3.3, by+0.9)
			r.pdf.SetLineWidth(0.2)
		} else {
			r.strokeColor(r.th.NeutralGray)
			r.pdf.Rect(x, by, box, box, "D")
		}
		r.font("", 10, textDark)
		r.text(x+7, cur.Y, w/2, 5, k.Label(), "L")
		status := "Not used this week"
		if used[k] {
			status = "Included"
		}
		r.font("", 9, textMuted)
		r.text(x+w/2, cur.Y, w/2, 5, status, "R")
		cur.Y += 7
	}
	return cur
}

const notesPointer = "The weekly notes are too long for this box. They are printed in full in the Weekly Notes section at the end of this document."

// notesFitOverview reports whether the weekly notes are short enough for the
// overview box.
func notesFitOverview(notes string, lc layout.Constants) bool {
	return layout.EstimateLines(notes, lc.CharsPerLine) <= lc.OverviewNotesMaxLines
}

func (r *renderer) drawSpecialInstructions(cur Cursor) Cursor {
	if !r.plan.HasWeeklyNotes() {
		return cur
	}
	lc := r.lc
	x, w := lc.MarginLeft, lc.ContentWidth()
	notes := strings.TrimSpace(r.plan.WeeklyNotes)
	const pad = 4.0
	cur.Y += lc.SectionGap

	r.font("", 9, textDark)
	lines := r.wrap(notes, w-2*pad)
	h := lc.NotesBaseHeight + float64(len(lines))*lc.LineHeight
	r.out.NotesInOverview = notesFitOverview(notes, lc) &&
		len(lines) <= lc.OverviewNotesMaxLines &&
		cur.Y+8+h <= lc.PageBottom()

	r.font("B", 12, textDark)
	r.text(x, cur.Y, w, 6, "Special Instructions", "L")
	cur.Y += 8

	if r.out.NotesInOverview {
		r.font("", 9, textDark)
	} else {
		r.font("I", 9, textMuted)
		lines = r.wrap(notesPointer, w-2*pad)
		h = lc.NotesBaseHeight + float64(len(lines))*lc.LineHeight
	}
	r.fillColor(r.th.LightBackground)
	r.strokeColor(r.th.Accent)
	r.pdf.RoundedRect(x, cur.Y, w, h, 2, "1234", "FD")
	ly := cur.Y + lc.NotesBaseHeight/2
	for _, line := range lines {
		r.text(x+pad, ly, w-2*pad, lc.LineHeight, line, "L")
		ly += lc.LineHeight
	}
	cur.Y += h
	return cur
}
