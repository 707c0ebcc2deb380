package plan

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Canonical representation of one weekly lesson plan. Both renderers read
// from these types and nothing else.

// Weekday numbers the five school days, Monday=1 through Friday=5.
type Weekday int

const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
)

// DaysPerWeek is the number of slots every Plan carries.
const DaysPerWeek = 5

// Weekdays lists the slots in render order.
var Weekdays = [DaysPerWeek]Weekday{Monday, Tuesday, Wednesday, Thursday, Friday}

func (d Weekday) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Weekday(%d)", int(d))
	}
	return time.Weekday(d).String()
}

// Valid reports whether d is one of Monday..Friday.
func (d Weekday) Valid() bool {
	return d >= Monday && d <= Friday
}

func (d Weekday) index() int { return int(d) - 1 }

// WeekMeta is the display metadata of a plan. StartDate is the Monday of the
// week; the plan covers StartDate through StartDate+4 days.
type WeekMeta struct {
	WeekNumber  int
	WeekYear    int
	StartDate   time.Time
	TeacherName string
	GradeName   string
	SubjectName string
	DocumentID  string
}

func (m WeekMeta) String() string {
	return fmt.Sprintf("WeekNumber: %d, WeekYear: %d, StartDate: %s, TeacherName: %q, GradeName: %q, SubjectName: %q, DocumentID: %q",
		m.WeekNumber, m.WeekYear, m.StartDate.Format(time.DateOnly), m.TeacherName, m.GradeName, m.SubjectName, m.DocumentID)
}

// EndDate returns the Friday of the week.
func (m WeekMeta) EndDate() time.Time {
	return m.StartDate.AddDate(0, 0, DaysPerWeek-1)
}

// Date returns the calendar date of weekday d.
func (m WeekMeta) Date(d Weekday) time.Time {
	return m.StartDate.AddDate(0, 0, d.index())
}

// WeekLabel renders "Week 36, 2024".
func (m WeekMeta) WeekLabel() string {
	return fmt.Sprintf("Week %d, %d", m.WeekNumber, m.WeekYear)
}

// DateRange renders "Sep 2, 2024 - Sep 6, 2024".
func (m WeekMeta) DateRange() string {
	return FormatLongDate(m.StartDate) + " - " + FormatLongDate(m.EndDate())
}

// DailyEntry is the content planned for one weekday. Topic is required when
// the entry exists; everything else is optional.
type DailyEntry struct {
	Topic           string
	BooksAndPages   string
	Homework        string
	HomeworkDueDate *time.Time
	Assignments     string
	Notes           string
}

// HasContent reports whether the entry counts as a planned day.
func (e *DailyEntry) HasContent() bool {
	return e != nil && strings.TrimSpace(e.Topic) != ""
}

// DueDate returns the formatted homework due date, or "" when unset.
func (e *DailyEntry) DueDate() string {
	if e == nil || e.HomeworkDueDate == nil || e.HomeworkDueDate.IsZero() {
		return ""
	}
	return FormatDate(*e.HomeworkDueDate)
}

// Plan is the immutable, request-scoped view consumed by the renderers. A nil
// slot in Days means no plan was created for that weekday.
type Plan struct {
	Meta        WeekMeta
	Days        [DaysPerWeek]*DailyEntry
	WeeklyNotes string
}

// Entry returns the entry for weekday d, or nil when the slot is empty or d
// is out of range.
func (p Plan) Entry(d Weekday) *DailyEntry {
	if !d.Valid() {
		return nil
	}
	return p.Days[d.index()]
}

// HasWeeklyNotes reports whether week-level notes should be rendered.
func (p Plan) HasWeeklyNotes() bool {
	return strings.TrimSpace(p.WeeklyNotes) != ""
}

// NewDocumentID returns a random identifier for callers whose upstream record
// has none.
func NewDocumentID() string {
	return uuid.NewString()
}

// FormatDate renders a weekday date as "Mon, Sep 2".
func FormatDate(t time.Time) string {
	return t.Format("Mon, Jan 2")
}

// FormatLongDate renders "Sep 2, 2024".
func FormatLongDate(t time.Time) string {
	return t.Format("Jan 2, 2006")
}
