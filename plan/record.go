package plan

import (
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Record is the loosely shaped weekly plan handed over by the storage/API
// layer: a header plus up to five daily entries keyed by weekday number.
type Record struct {
	WeekNumber  int           `yaml:"week_number" json:"week_number"`
	WeekYear    int           `yaml:"week_year" json:"week_year"`
	StartDate   string        `yaml:"start_date" json:"start_date"` // YYYY-MM-DD
	TeacherName string        `yaml:"teacher_name" json:"teacher_name"`
	GradeName   string        `yaml:"grade_name" json:"grade_name"`
	SubjectName string        `yaml:"subject_name" json:"subject_name"`
	DocumentID  string        `yaml:"document_id" json:"document_id"`
	WeeklyNotes string        `yaml:"weekly_notes,omitempty" json:"weekly_notes,omitempty"`
	Entries     []EntryRecord `yaml:"entries,omitempty" json:"entries,omitempty"`
}

// EntryRecord is one daily plan as stored upstream.
type EntryRecord struct {
	Weekday         int    `yaml:"weekday" json:"weekday"` // 1=Monday..5=Friday
	Topic           string `yaml:"topic" json:"topic"`
	BooksAndPages   string `yaml:"books_and_pages,omitempty" json:"books_and_pages,omitempty"`
	Homework        string `yaml:"homework,omitempty" json:"homework,omitempty"`
	HomeworkDueDate string `yaml:"homework_due_date,omitempty" json:"homework_due_date,omitempty"` // YYYY-MM-DD
	Assignments     string `yaml:"assignments,omitempty" json:"assignments,omitempty"`
	Notes           string `yaml:"notes,omitempty" json:"notes,omitempty"`
}

// DecodeRecord reads a single YAML (or JSON, which YAML accepts) record.
func DecodeRecord(r io.Reader) (Record, error) {
	var rec Record
	if err := yaml.NewDecoder(r).Decode(&rec); err != nil {
		return Record{}, fmt.Errorf("plan: decode record: %w", err)
	}
	return rec, nil
}

// FromRecord normalizes an upstream record into a Plan with exactly five
// slots. Weekdays that have no entry stay nil. All shape problems are
// reported together in a *ShapeError.
func FromRecord(rec Record) (Plan, error) {
	var probs problems
	p := Plan{
		Meta: WeekMeta{
			WeekNumber:  rec.WeekNumber,
			WeekYear:    rec.WeekYear,
			TeacherName: strings.TrimSpace(rec.TeacherName),
			GradeName:   strings.TrimSpace(rec.GradeName),
			SubjectName: strings.TrimSpace(rec.SubjectName),
			DocumentID:  strings.TrimSpace(rec.DocumentID),
		},
		WeeklyNotes: strings.TrimSpace(rec.WeeklyNotes),
	}
	if rec.StartDate != "" {
		start, err := parseDate(rec.StartDate)
		if err != nil {
			probs.addf("start date %q: %v", rec.StartDate, err)
		}
		p.Meta.StartDate = start
	}

	for i, er := range rec.Entries {
		d := Weekday(er.Weekday)
		if !d.Valid() {
			probs.addf("entry %d: weekday %d out of range 1-5", i, er.Weekday)
			continue
		}
		if p.Days[d.index()] != nil {
			probs.addf("entry %d: duplicate entry for %s", i, d)
			continue
		}
		entry := &DailyEntry{
			Topic:         strings.TrimSpace(er.Topic),
			BooksAndPages: strings.TrimSpace(er.BooksAndPages),
			Homework:      strings.TrimSpace(er.Homework),
			Assignments:   strings.TrimSpace(er.Assignments),
			Notes:         strings.TrimSpace(er.Notes),
		}
		if er.HomeworkDueDate != "" {
			due, err := parseDate(er.HomeworkDueDate)
			if err != nil {
				probs.addf("entry %d: homework due date %q: %v", i, er.HomeworkDueDate, err)
			} else {
				entry.HomeworkDueDate = &due
			}
		}
		p.Days[d.index()] = entry
	}

	validateMeta(p.Meta, &probs)
	if err := probs.err(); err != nil {
		return Plan{}, err
	}
	return p, nil
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(time.DateOnly, strings.TrimSpace(s))
}
