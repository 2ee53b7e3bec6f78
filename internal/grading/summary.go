package grading

import (
	"math"
	"strings"
)

// Summary statuses produced for graded submissions.
const (
	StatusAccepted = "ACCEPTED"
	StatusPartial  = "PARTIAL"
	StatusFailed   = "FAILED"
	StatusPending  = "PENDING"
)

// Outcome is the judge verdict for a single test case.
type Outcome struct {
	Status  string
	Output  string
	Message string
}

// Summary condenses the outcomes of one submission.
type Summary struct {
	Status      string
	TestsTotal  int
	TestsPassed int
	Percent     float64
	Message     *string
}

// IsAccepted reports whether a judge status counts as a passing test.
func IsAccepted(status string) bool {
	switch strings.ToUpper(status) {
	case "ACCEPTED", "AC":
		return true
	default:
		return false
	}
}

// Summarize reduces per-test outcomes into a single submission summary.
// fallback is the submission-level status used when nothing has been judged yet.
func Summarize(outcomes []Outcome, fallback string) Summary {
	total := len(outcomes)
	if total == 0 {
		if fallback == "" {
			fallback = StatusPending
		}
		return Summary{Status: strings.ToUpper(fallback)}
	}

	passed := 0
	firstFailure := -1
	for idx, outcome := range outcomes {
		if IsAccepted(outcome.Status) {
			passed++
			continue
		}
		if firstFailure < 0 {
			firstFailure = idx
		}
	}

	summary := Summary{
		TestsTotal:  total,
		TestsPassed: passed,
		Percent:     roundTo(100*float64(passed)/float64(total), 2),
	}

	switch {
	case passed == total:
		summary.Status = StatusAccepted
	case passed > 0:
		summary.Status = StatusPartial
		summary.Message = failureMessage(outcomes[firstFailure])
	default:
		summary.Status = StatusFailed
		summary.Percent = 0
		summary.Message = failureMessage(outcomes[firstFailure])
	}

	return summary
}

// Score computes the points earned by a submission: the question value scaled by the
// share of accepted tests, rounded to two decimals. It returns nil when no test ran.
func Score(points float64, outcomes []Outcome) *float64 {
	if len(outcomes) == 0 {
		return nil
	}
	passed := 0
	for _, outcome := range outcomes {
		if IsAccepted(outcome.Status) {
			passed++
		}
	}
	score := roundTo(points*float64(passed)/float64(len(outcomes)), 2)
	return &score
}

func failureMessage(outcome Outcome) *string {
	msg := outcome.Message
	if msg == "" {
		msg = outcome.Output
	}
	if msg == "" {
		msg = outcome.Status
	}
	return &msg
}

// roundTo rounds half to even, so 3.125 becomes 3.12.
func roundTo(value float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.RoundToEven(value*factor) / factor
}
