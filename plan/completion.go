package plan

import "fmt"

// CompletionSummary records which weekdays have planned content.
type CompletionSummary struct {
	PerDay         map[Weekday]bool
	CompletedCount int
	Ratio          float64
}

func (c CompletionSummary) String() string {
	return fmt.Sprintf("%d of %d days planned (%.0f%%)", c.CompletedCount, DaysPerWeek, c.Ratio*100)
}

// Percent returns the ratio as a whole percentage.
func (c CompletionSummary) Percent() int {
	return c.CompletedCount * 100 / DaysPerWeek
}

// Completion computes a fresh summary for p. A day is complete when its entry
// exists and its topic is non-blank.
func Completion(p Plan) CompletionSummary {
	s := CompletionSummary{PerDay: make(map[Weekday]bool, DaysPerWeek)}
	for _, d := range Weekdays {
		done := p.Entry(d).HasContent()
		s.PerDay[d] = done
		if done {
			s.CompletedCount++
		}
	}
	s.Ratio = float64(s.CompletedCount) / DaysPerWeek
	return s
}
