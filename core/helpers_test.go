package core

import (
	"fmt"
	"time"

	"github.com/huangsam/hormetric/schema"
)

// baseTime is the fixed reference instant for engine tests.
var baseTime = time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

// newTest builds a valid test taken dayOffset days after baseTime.
func newTest(h schema.HormoneType, value float64, dayOffset int) schema.HormoneTest {
	ts := baseTime.AddDate(0, 0, dayOffset)
	return schema.HormoneTest{
		ID:          fmt.Sprintf("%s-%d-%v", h, dayOffset, value),
		UserID:      "user-1",
		HormoneType: h,
		Value:       value,
		Timestamp:   ts,
		CreatedAt:   ts,
	}
}

// dailyTests builds n cortisol tests, one per day starting at baseTime.
func dailyTests(n int, value float64) []schema.HormoneTest {
	tests := make([]schema.HormoneTest, n)
	for i := range n {
		tests[i] = newTest(schema.Cortisol, value, i)
	}
	return tests
}
