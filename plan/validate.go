package plan

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidPlanShape is returned when a record is missing weekday slots or
// week metadata. It is raised before any rendering starts.
var ErrInvalidPlanShape = errors.New("invalid plan shape")

// ShapeError lists every problem found while checking a plan's shape.
type ShapeError struct {
	Problems []string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidPlanShape, strings.Join(e.Problems, "; "))
}

func (e *ShapeError) Is(target error) bool {
	return target == ErrInvalidPlanShape
}

type problems []string

func (p *problems) addf(format string, args ...any) {
	*p = append(*p, fmt.Sprintf(format, args...))
}

func (p problems) err() error {
	if len(p) == 0 {
		return nil
	}
	return &ShapeError{Problems: p}
}

// Validate checks that the week metadata is fully populated. Permissions and
// content rules are the caller's concern.
func Validate(p Plan) error {
	var probs problems
	validateMeta(p.Meta, &probs)
	return probs.err()
}

func validateMeta(m WeekMeta, probs *problems) {
	if m.WeekNumber < 1 || m.WeekNumber > 53 {
		probs.addf("week number %d out of range 1-53", m.WeekNumber)
	}
	if m.WeekYear < 1 || m.WeekYear > 9999 {
		probs.addf("week year %d out of range", m.WeekYear)
	}
	if m.StartDate.IsZero() {
		probs.addf("start date missing")
	} else if m.StartDate.Weekday() != time.Monday {
		probs.addf("start date %s is a %s, want Monday", m.StartDate.Format(time.DateOnly), m.StartDate.Weekday())
	}
	required := []struct {
		name, value string
	}{
		{"teacher name", m.TeacherName},
		{"grade name", m.GradeName},
		{"subject name", m.SubjectName},
		{"document id", m.DocumentID},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			probs.addf("%s missing", r.name)
		}
	}
}
