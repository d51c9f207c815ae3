// Package schema has models, constants and validation for all parts of hormetric.
package schema

import (
	"strings"
	"time"
)

// MaxSupplementsLength caps the free-text supplements field, in runes.
const MaxSupplementsLength = 200

// HormoneTest is one user-submitted reading. It is immutable once created.
type HormoneTest struct {
	ID           string      `json:"id"`
	UserID       string      `json:"user_id"`
	HormoneType  HormoneType `json:"hormone_type"`
	Value        float64     `json:"value"`                   // Unit implied by hormone type
	Timestamp    time.Time   `json:"timestamp"`               // When the sample was taken
	CreatedAt    time.Time   `json:"created_at"`              // When the record was stored
	SleepQuality *int        `json:"sleep_quality,omitempty"` // 1-5 ordinal
	Exercised    *bool       `json:"exercised,omitempty"`
	StressLevel  *int        `json:"stress_level,omitempty"` // 1-5 ordinal
	Supplements  string      `json:"supplements,omitempty"`
}

// HasContext reports whether the test carries any lifestyle context.
func (t HormoneTest) HasContext() bool {
	return t.SleepQuality != nil || t.Exercised != nil || t.StressLevel != nil || strings.TrimSpace(t.Supplements) != ""
}

// EffectiveTime returns the sample time, falling back to the creation time.
func (t HormoneTest) EffectiveTime() time.Time {
	if t.Timestamp.IsZero() {
		return t.CreatedAt
	}
	return t.Timestamp
}

// Profile is the per-user data the engines need besides test history.
type Profile struct {
	UserID           string        `json:"user_id"`
	ChronologicalAge int           `json:"chronological_age"`
	BiologicalSex    BiologicalSex `json:"biological_sex"`
	Onboarded        bool          `json:"onboarded"`
	IsAdmin          bool          `json:"is_admin"`
}

// AgeNorm is the population reference for one age bucket.
type AgeNorm struct {
	MinAge int     `json:"min_age"`
	MaxAge int     `json:"max_age"` // inclusive, 0 means open ended
	Mean   float64 `json:"mean"`
	Low    float64 `json:"low"`
	High   float64 `json:"high"`
}

// HormoneRange is static reference data for a hormone (and sex, for testosterone).
type HormoneRange struct {
	HormoneType HormoneType `json:"hormone_type"`
	OptimalMin  float64     `json:"optimal_min"`
	OptimalMax  float64     `json:"optimal_max"`
	Unit        string      `json:"unit"`
	AgeNorms    []AgeNorm   `json:"age_norms,omitempty"`
}

// NormFor returns the age bucket covering age, or the closest bucket.
func (r HormoneRange) NormFor(age int) (AgeNorm, bool) {
	if len(r.AgeNorms) == 0 {
		return AgeNorm{}, false
	}
	for _, n := range r.AgeNorms {
		if age >= n.MinAge && (n.MaxAge == 0 || age <= n.MaxAge) {
			return n, true
		}
	}
	if age < r.AgeNorms[0].MinAge {
		return r.AgeNorms[0], true
	}
	return r.AgeNorms[len(r.AgeNorms)-1], true
}

// Int returns a pointer to v, for optional context fields.
func Int(v int) *int { return &v }

// Bool returns a pointer to v, for optional context fields.
func Bool(v bool) *bool { return &v }
