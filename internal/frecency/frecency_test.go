package frecency

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecencyWeight(t *testing.T) {
	tests := []struct {
		age      time.Duration
		expected int
	}{
		{-5 * time.Minute, 100},
		{0, 100},
		{59 * time.Minute, 100},
		{time.Hour, 70},
		{23 * time.Hour, 70},
		{24 * time.Hour, 50},
		{6 * 24 * time.Hour, 50},
		{7 * 24 * time.Hour, 30},
		{29 * 24 * time.Hour, 30},
		{30 * 24 * time.Hour, 10},
		{400 * 24 * time.Hour, 10},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.expected, RecencyWeight(tc.age), "weight for age %s", tc.age)
	}
}

func TestFrequencyBonus(t *testing.T) {
	tests := []struct {
		visits   int
		expected int
	}{
		{0, 10},
		{1, 10},
		{2, 20},
		{19, 190},
		{20, 200},
		{21, 200},
		{1000, 200},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.expected, FrequencyBonus(tc.visits), "bonus for %d visits", tc.visits)
	}
}

func TestScore_NewEntry(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, 110, Score(1, now, now, now))
}

func TestScore_IgnoresFirstVisit(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	last := now.Add(-2 * time.Hour)

	a := Score(5, last, last, now)
	b := Score(5, last, now.Add(-365*24*time.Hour), now)
	assert.Equal(t, a, b)
	assert.Equal(t, 70+50, a)
}

func TestScore_StaleFrequentEntry(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	last := now.Add(-90 * 24 * time.Hour)
	assert.Equal(t, 10+200, Score(50, last, last, now))
}
