// Package frecency scores history entries by how recently and how often
// they were visited.
package frecency

import "time"

// Recency weights by age of the most recent visit.
const (
	WeightHour  = 100
	WeightDay   = 70
	WeightWeek  = 50
	WeightMonth = 30
	WeightOlder = 10
)

// Frequency bonus per visit, and its ceiling.
const (
	BonusPerVisit = 10
	MaxBonus      = 200
)

const (
	day   = 24 * time.Hour
	week  = 7 * day
	month = 30 * day
)

// Score returns the frecency of an entry visited visitCount times, most
// recently at lastVisit, evaluated at now. firstVisit is accepted for
// provenance and does not affect the result.
func Score(visitCount int, lastVisit, firstVisit, now time.Time) int {
	_ = firstVisit
	return RecencyWeight(now.Sub(lastVisit)) + FrequencyBonus(visitCount)
}

// RecencyWeight maps the age of the last visit to a weight. Negative ages
// (a clock that stepped backwards) count as fresh.
func RecencyWeight(age time.Duration) int {
	switch {
	case age < time.Hour:
		return WeightHour
	case age < day:
		return WeightDay
	case age < week:
		return WeightWeek
	case age < month:
		return WeightMonth
	default:
		return WeightOlder
	}
}

// FrequencyBonus is min(visitCount*10, 200). Counts below one score as one.
func FrequencyBonus(visitCount int) int {
	if visitCount < 1 {
		visitCount = 1
	}
	if visitCount >= MaxBonus/BonusPerVisit {
		return MaxBonus
	}
	return visitCount * BonusPerVisit
}
