package schema

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

// Sentinel errors for malformed input. Wrap them in ValidationError.
var (
	ErrUnknownHormoneType = errors.New("unknown hormone type")
	ErrInvalidValue       = errors.New("invalid value")
	ErrInvalidTimestamp   = errors.New("invalid timestamp")
	ErrInvalidContext     = errors.New("invalid context field")
	ErrInvalidProfile     = errors.New("invalid profile")
)

// ValidationError reports which field of a record failed validation.
type ValidationError struct {
	Field string
	Value any
	Err   error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v (got %v)", e.Field, e.Err, e.Value)
}

// Unwrap exposes the sentinel for errors.Is.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(field string, value any, err error) error {
	return &ValidationError{Field: field, Value: value, Err: err}
}

// ParseHormoneType normalizes s and checks it against the known hormone types.
// Registration of ranges is the engine's concern; this only rejects garbage.
func ParseHormoneType(s string) (HormoneType, error) {
	h := HormoneType(strings.ToLower(strings.TrimSpace(s)))
	switch h {
	case Cortisol, Testosterone, DHEA:
		return h, nil
	}
	return "", invalid("hormone_type", s, ErrUnknownHormoneType)
}

// ParseBiologicalSex normalizes s into a BiologicalSex.
func ParseBiologicalSex(s string) (BiologicalSex, error) {
	sex := BiologicalSex(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := ValidSexes[sex]; !ok {
		return "", invalid("biological_sex", s, ErrInvalidProfile)
	}
	return sex, nil
}

// ValidateTest checks a test record before it reaches any engine.
func ValidateTest(t HormoneTest) error {
	parsed, err := ParseHormoneType(string(t.HormoneType))
	if err != nil {
		return err
	}
	// Engines match hormones by exact value, so stored tests must be canonical.
	if parsed != t.HormoneType {
		return invalid("hormone_type", t.HormoneType, ErrUnknownHormoneType)
	}
	if math.IsNaN(t.Value) || math.IsInf(t.Value, 0) || t.Value <= 0 {
		return invalid("value", t.Value, ErrInvalidValue)
	}
	if t.EffectiveTime().IsZero() {
		return invalid("timestamp", t.Timestamp, ErrInvalidTimestamp)
	}
	if t.SleepQuality != nil && (*t.SleepQuality < 1 || *t.SleepQuality > 5) {
		return invalid("sleep_quality", *t.SleepQuality, ErrInvalidContext)
	}
	if t.StressLevel != nil && (*t.StressLevel < 1 || *t.StressLevel > 5) {
		return invalid("stress_level", *t.StressLevel, ErrInvalidContext)
	}
	if utf8.RuneCountInString(t.Supplements) > MaxSupplementsLength {
		return invalid("supplements", utf8.RuneCountInString(t.Supplements), ErrInvalidContext)
	}
	return nil
}

// ValidateTests validates every test and reports the first failure with its index.
func ValidateTests(tests []HormoneTest) error {
	for i, t := range tests {
		if err := ValidateTest(t); err != nil {
			return fmt.Errorf("test %d: %w", i, err)
		}
	}
	return nil
}

// ValidateProfile checks the fields the engines rely on.
func ValidateProfile(p Profile) error {
	if p.ChronologicalAge < 1 || p.ChronologicalAge > 120 {
		return invalid("chronological_age", p.ChronologicalAge, ErrInvalidProfile)
	}
	if _, ok := ValidSexes[p.BiologicalSex]; !ok {
		return invalid("biological_sex", p.BiologicalSex, ErrInvalidProfile)
	}
	return nil
}
