package plan

import "strings"

// FieldKind identifies one semantic field of a daily entry. The order of the
// constants is the order both renderers lay fields out in.
type FieldKind int

const (
	FieldTopic FieldKind = iota
	FieldBooksAndPages
	FieldHomework
	FieldDueDate
	FieldAssignments
	FieldNotes
)

// FieldKinds lists every field in render order.
var FieldKinds = []FieldKind{FieldTopic, FieldBooksAndPages, FieldHomework, FieldDueDate, FieldAssignments, FieldNotes}

var fieldLabels = map[FieldKind]string{
	FieldTopic:         "Topic",
	FieldBooksAndPages: "Books & Pages",
	FieldHomework:      "Homework",
	FieldDueDate:       "Due Date",
	FieldAssignments:   "Assignments",
	FieldNotes:         "Notes",
}

// Label is the human readable name printed next to a field.
func (k FieldKind) Label() string {
	if l, ok := fieldLabels[k]; ok {
		return l
	}
	return "Field"
}

func (k FieldKind) String() string { return k.Label() }

// Field is one printable fact of a daily entry. Value is already formatted,
// so every renderer prints exactly the same text.
type Field struct {
	Kind  FieldKind
	Value string
}

func (f Field) Label() string { return f.Kind.Label() }

// Empty reports whether the field has nothing to print.
func (f Field) Empty() bool { return strings.TrimSpace(f.Value) == "" }

// Value returns the formatted value of field k, or "" for a nil entry.
func (e *DailyEntry) Value(k FieldKind) string {
	if e == nil {
		return ""
	}
	switch k {
	case FieldTopic:
		return e.Topic
	case FieldBooksAndPages:
		return e.BooksAndPages
	case FieldHomework:
		return e.Homework
	case FieldDueDate:
		return e.DueDate()
	case FieldAssignments:
		return e.Assignments
	case FieldNotes:
		return e.Notes
	}
	return ""
}

// Fields returns all six fields in render order, empty ones included.
func (e *DailyEntry) Fields() []Field {
	fields := make([]Field, 0, len(FieldKinds))
	for _, k := range FieldKinds {
		fields = append(fields, Field{Kind: k, Value: e.Value(k)})
	}
	return fields
}

// FieldUsage reports, per optional field, whether any day of the week fills
// it in. Used by the overview checklist.
func (p Plan) FieldUsage() map[FieldKind]bool {
	used := make(map[FieldKind]bool, len(FieldKinds))
	for _, e := range p.Days {
		if e == nil {
			continue
		}
		for _, f := range e.Fields() {
			if !f.Empty() {
				used[f.Kind] = true
			}
		}
	}
	return used
}
