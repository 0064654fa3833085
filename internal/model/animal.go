// Package model defines the record, user, and analytics types shared across
// the shelter data layer.
package model

import (
	"fmt"
	"strconv"
	"time"
)

// Field names the engine relies on. Records are schema-less beyond these
// conventions; any other field is carried through untouched.
const (
	FieldAnimalID    = "animal_id"
	FieldAnimalType  = "animal_type"
	FieldBreed       = "breed"
	FieldAgeWeeks    = "age_upon_outcome_in_weeks"
	FieldOutcomeType = "outcome_type"
	FieldSex         = "sex_upon_outcome"
	FieldName        = "name"
	FieldDatetime    = "datetime"
)

// Outcome types recognized by the analytics engine.
const (
	OutcomeAdoption      = "Adoption"
	OutcomeReturnToOwner = "Return to Owner"
	OutcomeTransfer      = "Transfer"
)

// Record is one animal intake/outcome event. Numeric fields may arrive
// string-encoded (CSV sources) and are coerced on access.
type Record map[string]any

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Str returns the string form of a field, or "" when absent.
func (r Record) Str(field string) string {
	v, ok := r[field]
	if !ok {
		return ""
	}
	return Stringify(v)
}

// Number returns the numeric value of a field. ok is false when the field is
// absent or not coercible to a number.
func (r Record) Number(field string) (float64, bool) {
	v, ok := r[field]
	if !ok {
		return 0, false
	}
	return ToNumber(v)
}

// Timestamp parses the record's datetime field. ok is false when the field is
// absent, empty, or unparseable.
func (r Record) Timestamp() (time.Time, bool) {
	raw, ok := r[FieldDatetime]
	if !ok {
		return time.Time{}, false
	}
	s := Stringify(raw)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Layouts seen in the AAC outcomes dataset and its JSON exports.
var timeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02",
	"01/02/2006 15:04",
}

// ToNumber coerces scalars and numeric strings to float64.
func ToNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// Stringify renders a scalar the way query equality compares it. Floats that
// carry integral values print without the trailing ".0" so that 52 and "52"
// compare equal regardless of which decoder produced the record.
func Stringify(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		if s == float64(int64(s)) {
			return strconv.FormatInt(int64(s), 10)
		}
		return strconv.FormatFloat(s, 'g', -1, 64)
	case float32:
		return Stringify(float64(s))
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	case bool:
		if s {
			return "true"
		}
		return "false"
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}
