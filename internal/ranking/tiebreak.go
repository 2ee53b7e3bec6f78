package ranking

import (
	"cmp"
	"math"
	"sort"
	"strings"
	"time"
)

// tieBreaker orders participants that share score and submission count.
type tieBreaker struct {
	start   *time.Time
	weights map[uint]float64
}

// compare returns a negative number when a ranks above b.
//
// Precedence: smaller summed elapsed time over the questions both solved, then the
// elapsed time on the heaviest question each solved (having one beats having none),
// then the case-insensitive name.
func (t tieBreaker) compare(a, b *ParticipantStats) int {
	if common := commonQuestions(a.FirstAccepted, b.FirstAccepted); len(common) > 0 {
		sumA := t.elapsedSum(a, common)
		sumB := t.elapsedSum(b, common)
		if sumA != sumB {
			return cmp.Compare(sumA, sumB)
		}
	}

	timeA, okA := t.heaviestElapsed(a)
	timeB, okB := t.heaviestElapsed(b)
	switch {
	case okA && !okB:
		return -1
	case !okA && okB:
		return 1
	case okA && okB && timeA != timeB:
		return cmp.Compare(timeA, timeB)
	}

	return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
}

// elapsed returns the seconds between the event start and ts, never below zero.
// It reports false when the event start is unknown.
func (t tieBreaker) elapsed(ts time.Time) (float64, bool) {
	if t.start == nil || t.start.IsZero() || ts.IsZero() {
		return 0, false
	}
	return math.Max(0, ts.Sub(*t.start).Seconds()), true
}

func (t tieBreaker) elapsedSum(stats *ParticipantStats, questions []uint) float64 {
	total := 0.0
	for _, questionID := range questions {
		ts, ok := stats.FirstAccepted[questionID]
		if !ok {
			return math.Inf(1)
		}
		seconds, ok := t.elapsed(ts)
		if !ok {
			return math.Inf(1)
		}
		total += seconds
	}
	return total
}

// heaviestElapsed finds the solved question with the highest weight, preferring the
// faster solve among equal weights, and returns its elapsed time.
func (t tieBreaker) heaviestElapsed(stats *ParticipantStats) (float64, bool) {
	found := false
	bestWeight := 0.0
	bestElapsed := 0.0
	bestHasTime := false

	for _, questionID := range sortedKeys(stats.FirstAccepted) {
		weight := t.weights[questionID]
		seconds, ok := t.elapsed(stats.FirstAccepted[questionID])
		switch {
		case !found, weight > bestWeight:
			found = true
			bestWeight, bestElapsed, bestHasTime = weight, seconds, ok
		case weight == bestWeight && ok && (!bestHasTime || seconds < bestElapsed):
			bestElapsed, bestHasTime = seconds, true
		}
	}

	if !found || !bestHasTime {
		return 0, false
	}
	return bestElapsed, true
}

func commonQuestions(a, b map[uint]time.Time) []uint {
	common := make([]uint, 0)
	for questionID := range a {
		if _, ok := b[questionID]; ok {
			common = append(common, questionID)
		}
	}
	sort.Slice(common, func(i, j int) bool { return common[i] < common[j] })
	return common
}

func sortedKeys(m map[uint]time.Time) []uint {
	keys := make([]uint, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
