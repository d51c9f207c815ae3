package core

import (
	"math"
	"testing"

	"github.com/huangsam/hormetric/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestProactiveConstants asserts the per-hormone thresholds.
func TestProactiveConstants(t *testing.T) {
	assert.Equal(t, 20.0, SignificantChange[schema.Cortisol])
	assert.Equal(t, 15.0, SignificantChange[schema.Testosterone])
	assert.Equal(t, 15.0, SignificantChange[schema.DHEA])
	assert.Equal(t, 5, StabilitySamples)
	assert.Equal(t, 9, MilestoneTestCount)
	assert.Equal(t, []string{ProactiveChange, ProactiveStability, ProactiveMilestone}, ProactiveRuleOrder())
}

// TestGenerateProactiveMessage tests each rule and the silent case.
func TestGenerateProactiveMessage(t *testing.T) {
	t.Run("cortisol drop is good news", func(t *testing.T) {
		msg := proactiveFor(t, newTest(schema.Cortisol, 11, 1), dailyTests(1, 15))
		require.NotNil(t, msg)
		assert.Equal(t, ProactiveChange, msg.Rule)
		assert.Contains(t, msg.Title, "improvement")
		assert.Contains(t, msg.Message, "dropped 27%")
	})

	t.Run("cortisol change under threshold is quiet", func(t *testing.T) {
		assert.Nil(t, proactiveFor(t, newTest(schema.Cortisol, 12.5, 1), dailyTests(1, 15)))
	})

	t.Run("testosterone drop is a warning", func(t *testing.T) {
		previous := []schema.HormoneTest{newTest(schema.Testosterone, 600, 0)}
		msg := proactiveFor(t, newTest(schema.Testosterone, 500, 1), previous)
		require.NotNil(t, msg)
		assert.Equal(t, ProactiveChange, msg.Rule)
		assert.Contains(t, msg.Title, "Notable")
	})

	t.Run("stable readings", func(t *testing.T) {
		previous := []schema.HormoneTest{
			newTest(schema.DHEA, 200, 0),
			newTest(schema.DHEA, 205, 1),
			newTest(schema.DHEA, 198, 2),
			newTest(schema.DHEA, 202, 3),
		}
		msg := proactiveFor(t, newTest(schema.DHEA, 201, 4), previous)
		require.NotNil(t, msg)
		assert.Equal(t, ProactiveStability, msg.Rule)
	})

	t.Run("too few readings for stability", func(t *testing.T) {
		previous := dailyTests(3, 15)
		assert.Nil(t, proactiveFor(t, newTest(schema.Cortisol, 15, 3), previous))
	})

	t.Run("milestone at nine tests", func(t *testing.T) {
		var previous []schema.HormoneTest
		for i := range 4 {
			previous = append(previous, newTest(schema.Cortisol, 10+float64(i)*2, i))
			previous = append(previous, newTest(schema.DHEA, 150+float64(i)*40, i))
		}
		msg := proactiveFor(t, newTest(schema.Testosterone, 600, 5), previous)
		require.NotNil(t, msg)
		assert.Equal(t, ProactiveMilestone, msg.Rule)

		previous = append(previous, newTest(schema.Cortisol, 12, 5))
		assert.Nil(t, proactiveFor(t, newTest(schema.Testosterone, 600, 6), previous))
	})
}

func proactiveFor(t *testing.T, test schema.HormoneTest, previous []schema.HormoneTest) *schema.ProactiveMessage {
	t.Helper()
	msg, err := GenerateProactiveMessage(test, previous)
	require.NoError(t, err)
	return msg
}

// TestGenerateProactiveMessageRejectsBadInput tests that invalid tests are an error.
func TestGenerateProactiveMessageRejectsBadInput(t *testing.T) {
	_, err := GenerateProactiveMessage(newTest(schema.Cortisol, math.NaN(), 1), dailyTests(1, 15))
	assert.ErrorIs(t, err, schema.ErrInvalidValue)

	_, err = GenerateProactiveMessage(newTest(schema.Cortisol, -2, 1), dailyTests(1, 15))
	assert.ErrorIs(t, err, schema.ErrInvalidValue)

	previous := []schema.HormoneTest{newTest("Cortisol", 15, 0)}
	_, err = GenerateProactiveMessage(newTest(schema.Cortisol, 12, 1), previous)
	assert.ErrorIs(t, err, schema.ErrUnknownHormoneType)
}
