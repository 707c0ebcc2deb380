package pdf

import (
	"strings"

	"github.com/aerissecure/planexport/layout"
	"github.com/aerissecure/planexport/plan"
	"github.com/aerissecure/planexport/theme"
)

// Horizontal inset of block content from the content edges.
const blockPad = 4.0

type textStyle struct {
	style string
	size  float64
	color theme.Color
}

var (
	topicStyle      = textStyle{"B", 11, textDark}
	emptyTopicStyle = textStyle{"I", 11, textMuted}
	valueStyle      = textStyle{"", 9, textDark}
)

// blockHeader is the coloured bar opening a block. It is repeated, marked
// "(continued)", at the top of every page the block flows onto.
type blockHeader struct {
	title string
	right string
	color theme.Color
}

// column is one labelled run of text inside a block.
type column struct {
	x, w  float64
	label string
	text  string
}

func (r *renderer) drawDays(Cursor) Cursor {
	x, w := r.lc.MarginLeft, r.lc.ContentWidth()
	cur := r.newPage()
	r.font("B", 14, textDark)
	r.text(x, cur.Y, w, 7, "Daily Plans", "L")
	cur.Y += 11
	for _, d := range plan.Weekdays {
		cur = r.drawDay(cur, d)
	}
	return cur
}

// drawDay draws the block for weekday d. The page is broken before the block
// whenever its estimated height does not fit below the cursor.
func (r *renderer) drawDay(cur Cursor, d plan.Weekday) Cursor {
	lc := r.lc
	e := r.plan.Entry(d)
	est := layout.EstimateHeight(e, lc)
	cur = r.ensure(cur, est)

	pl := Placement{
		Kind:      BlockDay,
		Day:       d,
		Present:   e != nil,
		Planned:   e.HasContent(),
		Page:      cur.Page,
		StartY:    cur.Y,
		Estimated: est,
		Oversize:  est > lc.PageCapacity(),
	}
	hdr := blockHeader{title: d.String(), right: plan.FormatDate(r.plan.Meta.Date(d)), color: r.th.NeutralGray}
	if pl.Planned {
		hdr.color = r.th.Primary
	}

	cur = r.drawBlockHeader(cur, hdr)
	if e == nil {
		cur = r.drawEmptyState(cur)
	} else {
		cur = r.drawEntry(cur, e, hdr)
	}
	cur.Y += lc.BlockPadding

	pl.EndPage, pl.EndY = cur.Page, cur.Y
	r.out.Placements = append(r.out.Placements, pl)
	return cur
}

func (r *renderer) drawBlockHeader(cur Cursor, hdr blockHeader) Cursor {
	lc := r.lc
	x, w := lc.MarginLeft, lc.ContentWidth()
	r.fillColor(hdr.color)
	r.pdf.RoundedRect(x, cur.Y, w, lc.DayHeaderHeight, 2, "12", "F")
	r.font("", 9, white)
	rw := r.width(hdr.right)
	r.text(x+blockPad, cur.Y, w-2*blockPad, lc.DayHeaderHeight, hdr.right, "R")
	r.font("B", 11, white)
	r.text(x+blockPad, cur.Y, w-3*blockPad-rw, lc.DayHeaderHeight, r.fit(hdr.title, w-3*blockPad-rw), "L")
	cur.Y += lc.DayHeaderHeight
	return cur
}

// continueBlock starts a new page and repeats hdr on it.
func (r *renderer) continueBlock(hdr blockHeader) Cursor {
	cur := r.newPage()
	return r.drawBlockHeader(cur, blockHeader{title: hdr.title + " (continued)", right: hdr.right, color: hdr.color})
}

func (r *renderer) drawEmptyState(cur Cursor) Cursor {
	lc := r.lc
	x, w := lc.MarginLeft, lc.ContentWidth()
	h := lc.EmptyStateHeight
	r.fillColor(emptyFill)
	r.strokeColor(gridLine)
	r.pdf.RoundedRect(x, cur.Y, w, h, 2, "34", "FD")
	r.font("I", 10, textMuted)
	r.text(x, cur.Y+h/2-5, w, 5, "No plan created for this day", "C")
	r.font("", 8, r.th.NeutralGray)
	r.text(x, cur.Y+h/2+1, w, 4, "Nothing has been scheduled yet.", "C")
	cur.Y += h
	return cur
}

// drawEntry draws the topic, the two field rows and the notes of a present
// entry. Sections are spaced by the estimator's per-field increments.
func (r *renderer) drawEntry(cur Cursor, e *plan.DailyEntry, hdr blockHeader) Cursor {
	lc := r.lc
	x, w := lc.MarginLeft+blockPad, lc.ContentWidth()-2*blockPad

	topic, ts := strings.TrimSpace(e.Topic), topicStyle
	if topic == "" {
		topic, ts = "No topic set", emptyTopicStyle
	}
	cur = r.section(cur, []column{{x: x, w: w, text: topic}}, 4, lc.TopicHeight, ts, hdr)

	colW := (w - blockPad) / 2
	rows := [][2]plan.FieldKind{
		{plan.FieldBooksAndPages, plan.FieldHomework},
		{plan.FieldAssignments, plan.FieldDueDate},
	}
	for _, row := range rows {
		var cols []column
		for i, k := range row {
			if v := strings.TrimSpace(e.Value(k)); v != "" {
				cols = append(cols, column{x: x + float64(i)*(colW+blockPad), w: colW, label: k.Label(), text: v})
			}
		}
		if len(cols) > 0 {
			cur = r.section(cur, cols, 5, lc.FieldHeight, valueStyle, hdr)
		}
	}

	if notes := strings.TrimSpace(e.Notes); notes != "" {
		cur = r.section(cur, []column{{x: x, w: w, label: plan.FieldNotes.Label(), text: notes}},
			lc.NotesBaseHeight-2, lc.NotesBaseHeight, valueStyle, hdr)
	}
	return cur
}

// section draws the column labels, then the wrapped column texts side by side
// starting lead below the cursor. A one-line section is base tall; each
// further line adds LineHeight.
func (r *renderer) section(cur Cursor, cols []column, lead, base float64, ts textStyle, hdr blockHeader) Cursor {
	lc := r.lc
	if cur.Y+lead+lc.LineHeight > lc.PageBottom() {
		cur = r.continueBlock(hdr)
	}

	r.font("B", 8, textMuted)
	for _, c := range cols {
		if c.label != "" {
			r.text(c.x, cur.Y+1, c.w, 3.5, strings.ToUpper(c.label), "L")
		}
	}

	r.setStyle(ts)
	lines := make([][]string, len(cols))
	rows := 0
	for i, c := range cols {
		lines[i] = r.wrap(c.text, c.w)
		rows = max(rows, len(lines[i]))
	}

	y := cur.Y + lead
	for row := 0; row < rows; row++ {
		if y+lc.LineHeight > lc.PageBottom() {
			cur = r.continueBlock(hdr)
			y = cur.Y + 2
			r.setStyle(ts)
		}
		for i, c := range cols {
			if row < len(lines[i]) {
				r.text(c.x, y, c.w, lc.LineHeight, lines[i][row], "L")
			}
		}
		y += lc.LineHeight
	}
	cur.Y = y + max(0, base-lead-lc.LineHeight)
	return cur
}

func (r *renderer) setStyle(ts textStyle) { r.font(ts.style, ts.size, ts.color) }

// drawWeeklyNotes draws the appendix when the weekly notes did not fit the
// overview.
func (r *renderer) drawWeeklyNotes(cur Cursor) Cursor {
	if !r.plan.HasWeeklyNotes() || r.out.NotesInOverview {
		return cur
	}
	lc := r.lc
	notes := strings.TrimSpace(r.plan.WeeklyNotes)
	est := layout.EstimateNotesSection(notes, lc)
	cur = r.ensure(cur, est)

	pl := Placement{
		Kind:      BlockWeeklyNotes,
		Present:   true,
		Planned:   true,
		Page:      cur.Page,
		StartY:    cur.Y,
		Estimated: est,
		Oversize:  est > lc.PageCapacity(),
	}
	hdr := blockHeader{title: "Weekly Notes", right: r.plan.Meta.WeekLabel(), color: r.th.Secondary}
	cur = r.drawBlockHeader(cur, hdr)
	col := column{x: lc.MarginLeft + blockPad, w: lc.ContentWidth() - 2*blockPad, text: notes}
	cur = r.section(cur, []column{col}, lc.NotesBaseHeight/2, lc.NotesBaseHeight, valueStyle, hdr)
	cur.Y += lc.BlockPadding

	pl.EndPage, pl.EndY = cur.Page, cur.Y
	r.out.Placements = append(r.out.Placements, pl)
	return cur
}
