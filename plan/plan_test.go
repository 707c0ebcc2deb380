package plan

import (
	"errors"
	"os"
	"reflect"
	"strings"
	"testing"
	"time"
)

func loadRecord(t *testing.T, name string) Record {
	t.Helper()
	f, err := os.Open("testdata/" + name)
	if err != nil {
		t.Fatalf("failed to open %s: %v", name, err)
	}
	defer f.Close()
	rec, err := DecodeRecord(f)
	if err != nil {
		t.Fatalf("failed to decode %s: %v", name, err)
	}
	return rec
}

func testMeta() WeekMeta {
	return WeekMeta{
		WeekNumber:  36,
		WeekYear:    2024,
		StartDate:   time.Date(2024, 9, 2, 0, 0, 0, 0, time.UTC),
		TeacherName: "J. Smith",
		GradeName:   "Grade 4",
		SubjectName: "Mathematics",
		DocumentID:  "doc-1",
	}
}

func TestFromRecordScenario(t *testing.T) {
	p, err := FromRecord(loadRecord(t, "week36.yaml"))
	if err != nil {
		t.Fatalf("FromRecord failed: %v", err)
	}
	if p.Meta.GradeName != "Grade 4" || p.Meta.WeekNumber != 36 {
		t.Errorf("unexpected meta: %s", p.Meta)
	}
	mon := p.Entry(Monday)
	if mon == nil || mon.Topic != "Fractions" || mon.BooksAndPages != "pp.10-12" {
		t.Fatalf("unexpected Monday entry: %+v", mon)
	}
	for _, d := range []Weekday{Tuesday, Wednesday, Thursday, Friday} {
		if p.Entry(d) != nil {
			t.Errorf("%s: expected empty slot", d)
		}
	}
	if got := p.Meta.EndDate().Format(time.DateOnly); got != "2024-09-06" {
		t.Errorf("EndDate = %s, want 2024-09-06", got)
	}
	if p.HasWeeklyNotes() {
		t.Error("expected no weekly notes")
	}
}

func TestFromRecordFullWeek(t *testing.T) {
	p, err := FromRecord(loadRecord(t, "full_week.yaml"))
	if err != nil {
		t.Fatalf("FromRecord failed: %v", err)
	}
	if got := p.Entry(Monday).DueDate(); got != "Tue, Mar 18" {
		t.Errorf("Monday due date = %q", got)
	}
	if !p.HasWeeklyNotes() {
		t.Error("expected weekly notes")
	}
	usage := p.FieldUsage()
	for _, k := range FieldKinds {
		if !usage[k] {
			t.Errorf("expected %s to be used somewhere in the week", k)
		}
	}
}

func TestFromRecordShapeErrors(t *testing.T) {
	rec := Record{
		WeekNumber: 0,
		WeekYear:   2024,
		StartDate:  "2024-09-03", // a Tuesday
		Entries: []EntryRecord{
			{Weekday: 0, Topic: "x"},
			{Weekday: 2, Topic: "a"},
			{Weekday: 2, Topic: "b"},
			{Weekday: 3, Topic: "c", HomeworkDueDate: "next week"},
		},
	}
	_, err := FromRecord(rec)
	if !errors.Is(err, ErrInvalidPlanShape) {
		t.Fatalf("expected ErrInvalidPlanShape, got %v", err)
	}
	var se *ShapeError
	if !errors.As(err, &se) {
		t.Fatalf("expected *ShapeError, got %T", err)
	}
	for _, want := range []string{"week number", "out of range 1-5", "duplicate", "due date", "want Monday", "teacher name missing", "document id missing"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(Plan{Meta: testMeta()}); err != nil {
		t.Fatalf("Validate failed on complete meta: %v", err)
	}
	m := testMeta()
	m.SubjectName = "  "
	if err := Validate(Plan{Meta: m}); !errors.Is(err, ErrInvalidPlanShape) {
		t.Fatalf("expected ErrInvalidPlanShape for blank subject, got %v", err)
	}
}

func TestCompletionCounts(t *testing.T) {
	for k := 0; k <= DaysPerWeek; k++ {
		p := Plan{Meta: testMeta()}
		for i := 0; i < k; i++ {
			p.Days[i] = &DailyEntry{Topic: "topic"}
		}
		c := Completion(p)
		if c.CompletedCount != k {
			t.Errorf("k=%d: CompletedCount = %d", k, c.CompletedCount)
		}
		if want := float64(k) / 5; c.Ratio != want {
			t.Errorf("k=%d: Ratio = %v, want %v", k, c.Ratio, want)
		}
		if len(c.PerDay) != DaysPerWeek {
			t.Errorf("k=%d: PerDay has %d entries", k, len(c.PerDay))
		}
	}
}

func TestCompletionBlankTopic(t *testing.T) {
	p := Plan{Meta: testMeta()}
	p.Days[0] = &DailyEntry{Topic: "   ", Homework: "read"}
	p.Days[4] = &DailyEntry{Topic: "Review"}
	c := Completion(p)
	if c.PerDay[Monday] {
		t.Error("Monday has a blank topic and must not count")
	}
	if !c.PerDay[Friday] || c.CompletedCount != 1 {
		t.Errorf("unexpected summary: %s", c)
	}
}

func TestCompletionIdempotent(t *testing.T) {
	p, err := FromRecord(loadRecord(t, "full_week.yaml"))
	if err != nil {
		t.Fatalf("FromRecord failed: %v", err)
	}
	a, b := Completion(p), Completion(p)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("Completion not idempotent: %v vs %v", a, b)
	}
	if a.String() != "5 of 5 days planned (100%)" {
		t.Errorf("String() = %q", a.String())
	}
}

func TestFieldsOrder(t *testing.T) {
	due := time.Date(2024, 9, 4, 0, 0, 0, 0, time.UTC)
	e := &DailyEntry{Topic: "Fractions", Homework: "p. 12", HomeworkDueDate: &due}
	fields := e.Fields()
	if len(fields) != len(FieldKinds) {
		t.Fatalf("got %d fields", len(fields))
	}
	for i, f := range fields {
		if f.Kind != FieldKinds[i] {
			t.Errorf("field %d is %s, want %s", i, f.Kind, FieldKinds[i])
		}
	}
	if fields[3].Value != "Wed, Sep 4" {
		t.Errorf("due date value = %q", fields[3].Value)
	}
	var nilEntry *DailyEntry
	if v := nilEntry.Value(FieldTopic); v != "" {
		t.Errorf("nil entry value = %q", v)
	}
}

func TestWeekdayString(t *testing.T) {
	if Monday.String() != "Monday" || Friday.String() != "Friday" {
		t.Errorf("unexpected names %s %s", Monday, Friday)
	}
	if Weekday(6).Valid() {
		t.Error("Saturday slot must be invalid")
	}
}
