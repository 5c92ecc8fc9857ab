// Package decode converts raw fixed-width field substrings into typed
// values. Missing data is reported in-band through the sentinel values the
// downstream validity filter keys on (9 for education/income, -1 for the
// health rating, 0.0 for BMI); only malformed input is an error.
package decode

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/surveystream/brfssfit/internal/layout"
)

// Sentinel values recognized by the validity filter.
const (
	EducationMissing = 9
	IncomeMissing    = 9
	HealthMissing    = -1
	BMIMissing       = 0.0
)

// Error reports a field substring that cannot be parsed under its year's
// encoding rule. Records carrying one are skipped, not fatal.
type Error struct {
	Field string
	Raw   string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("decode %s field %q: %v", e.Field, e.Raw, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Education parses the one-column education level. Blank means not asked,
// reported as the sentinel 9.
func Education(s string) (int, error) {
	if s == " " {
		return EducationMissing, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, &Error{Field: "education", Raw: s, Err: err}
	}
	return v, nil
}

// Income parses the two-column income bracket. Two blanks mean not asked,
// reported as the sentinel 9.
func Income(s string) (int, error) {
	if s == "  " {
		return IncomeMissing, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, &Error{Field: "income", Raw: s, Err: err}
	}
	return v, nil
}

// Health parses the one-column general-health rating. Blank input or a
// value outside 1..6 yields the sentinel -1. The trailing check is an
// internal-consistency guard: a violation means the range logic above is
// broken, so it halts rather than returning an error.
func Health(s string) (int, error) {
	v := HealthMissing
	if s != " " {
		parsed, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return 0, &Error{Field: "genhlth", Raw: s, Err: err}
		}
		v = parsed
		if v < 1 || v > 6 {
			v = HealthMissing
		}
	}
	if v != HealthMissing && (v < 1 || v > 6) {
		panic(fmt.Sprintf("decode: health rating %d escaped range check", v))
	}
	return v, nil
}

// bmiRule is the per-generation sentinel string and implied-decimal scale.
type bmiRule struct {
	sentinel string
	scale    float64
}

var bmiRules = map[layout.Generation]bmiRule{
	layout.Gen2000: {sentinel: "999", scale: 0.1},
	layout.Gen2001: {sentinel: "999999", scale: 0.0001},
	layout.Gen2002: {sentinel: "9999", scale: 0.01},
	layout.Gen2011: {sentinel: "    ", scale: 0.01},
}

// BMI parses the body-mass-index field under the given encoding generation.
// The sentinel for the generation, or an unknown generation, yields 0.0.
func BMI(s string, g layout.Generation) (float64, error) {
	rule, ok := bmiRules[g]
	if !ok || s == rule.sentinel {
		return BMIMissing, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, &Error{Field: "bmi", Raw: s, Err: err}
	}
	return rule.scale * v, nil
}
