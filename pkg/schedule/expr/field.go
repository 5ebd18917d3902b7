package expr

import "strings"

// Field is a calendar field a subexpression can constrain.
type Field uint8

const (
	Second Field = iota
	Minute
	Hour
	Day
	Month
	Weekday
	numFields
)

var fieldNames = [numFields]string{"second", "minute", "hour", "day", "month", "dow"}

// fieldBounds holds [low, high) for every field.
var fieldBounds = [numFields][2]int{
	{0, 60},
	{0, 60},
	{0, 24},
	{1, 32},
	{1, 13},
	{0, 7},
}

func (f Field) String() string {
	if f >= numFields {
		return "field?"
	}
	return fieldNames[f]
}

// Bounds returns the half-open range [lo, hi) of legal values for f.
// For Day, hi is one past the longest month.
func (f Field) Bounds() (lo, hi int) {
	b := fieldBounds[f]
	return b[0], b[1]
}

// LookupField resolves a unit name; "weekday" is accepted for dow.
func LookupField(name string) (Field, bool) {
	if name == "weekday" {
		return Weekday, true
	}
	for i, n := range fieldNames {
		if n == name {
			return Field(i), true
		}
	}
	return 0, false
}

// FieldSet is a set of fields.
type FieldSet uint8

// Add returns fs with f added.
func (fs FieldSet) Add(f Field) FieldSet { return fs | 1<<f }

// Has reports whether f is in fs.
func (fs FieldSet) Has(f Field) bool { return fs&(1<<f) != 0 }

// Fields lists the members in field order.
func (fs FieldSet) Fields() []Field {
	var out []Field
	for f := Second; f < numFields; f++ {
		if fs.Has(f) {
			out = append(out, f)
		}
	}
	return out
}

func (fs FieldSet) String() string {
	names := make([]string, 0, numFields)
	for _, f := range fs.Fields() {
		names = append(names, f.String())
	}
	return "{" + strings.Join(names, ",") + "}"
}

// UnitMap records, per position, the fields any Unit wrapper at that position declares.
type UnitMap []FieldSet

var (
	weekdayNames = map[string]int{"sun": 0, "mon": 1, "tue": 2, "wed": 3, "thu": 4, "fri": 5, "sat": 6}
	monthNames   = map[string]int{
		"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
		"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
	}
)
