package ranking

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"
)

// RankEntry is one row of the computed standings.
type RankEntry struct {
	Position         int
	ParticipantID    uint
	Name             string
	TotalScore       float64
	TotalSubmissions int64
	LatestSubmission *time.Time
}

// Compute loads the event data through source and returns its standings.
// An event without participants yields an empty slice.
func Compute(ctx context.Context, source StatsSource, eventID uint) ([]RankEntry, error) {
	start, err := source.EventStart(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("load event start: %w", err)
	}

	participants, err := source.Participants(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("load participants: %w", err)
	}
	if len(participants) == 0 {
		return []RankEntry{}, nil
	}

	ids := make([]uint, 0, len(participants))
	for _, participant := range participants {
		ids = append(ids, participant.ID)
	}

	records, err := source.Submissions(ctx, eventID, ids)
	if err != nil {
		return nil, fmt.Errorf("load submissions: %w", err)
	}

	stats := Aggregate(participants, records)

	weights := map[uint]float64{}
	if questionIDs := AcceptedQuestions(stats); len(questionIDs) > 0 {
		weights, err = source.QuestionWeights(ctx, questionIDs)
		if err != nil {
			return nil, fmt.Errorf("load question weights: %w", err)
		}
	}

	return Rank(start, stats, weights), nil
}

// Rank orders the participant stats and assigns positions.
//
// Participants are bucketed by (score desc, submissions asc) and ties inside a bucket
// are broken by the elapsed-time comparator. Participants with zero points are moved
// to the end ordered by name. When nobody has a scored submission the whole list is
// ordered by the first letter of the name instead.
func Rank(eventStart *time.Time, stats []ParticipantStats, weights map[uint]float64) []RankEntry {
	if len(stats) == 0 {
		return []RankEntry{}
	}

	var ordered []ParticipantStats
	if anyAccepted(stats) {
		ordered = orderByScore(stats, tieBreaker{start: eventStart, weights: weights})
		ordered = moveZeroScoresLast(ordered)
	} else {
		ordered = slices.Clone(stats)
		slices.SortStableFunc(ordered, func(a, b ParticipantStats) int {
			return strings.Compare(firstLetter(a.Name), firstLetter(b.Name))
		})
	}

	return assignPositions(ordered)
}

type bucketKey struct {
	score       float64
	submissions int64
}

func orderByScore(stats []ParticipantStats, tb tieBreaker) []ParticipantStats {
	buckets := map[bucketKey][]ParticipantStats{}
	keys := make([]bucketKey, 0)
	for _, entry := range stats {
		key := bucketKey{score: entry.TotalScore, submissions: entry.TotalSubmissions}
		if _, ok := buckets[key]; !ok {
			keys = append(keys, key)
		}
		buckets[key] = append(buckets[key], entry)
	}

	slices.SortFunc(keys, func(a, b bucketKey) int {
		if a.score != b.score {
			if a.score > b.score {
				return -1
			}
			return 1
		}
		switch {
		case a.submissions < b.submissions:
			return -1
		case a.submissions > b.submissions:
			return 1
		}
		return 0
	})

	ordered := make([]ParticipantStats, 0, len(stats))
	for _, key := range keys {
		bucket := buckets[key]
		if len(bucket) > 1 {
			slices.SortStableFunc(bucket, func(a, b ParticipantStats) int {
				return tb.compare(&a, &b)
			})
		}
		ordered = append(ordered, bucket...)
	}
	return ordered
}

func moveZeroScoresLast(ordered []ParticipantStats) []ParticipantStats {
	scored := make([]ParticipantStats, 0, len(ordered))
	zero := make([]ParticipantStats, 0)
	for _, entry := range ordered {
		if entry.TotalScore > 0 {
			scored = append(scored, entry)
		} else {
			zero = append(zero, entry)
		}
	}
	slices.SortStableFunc(zero, func(a, b ParticipantStats) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
	return append(scored, zero...)
}

// assignPositions numbers the rows. The counter advances on every row; a row whose
// (score, submissions, latest submission) equals the previous row's reuses its position.
func assignPositions(ordered []ParticipantStats) []RankEntry {
	entries := make([]RankEntry, 0, len(ordered))
	counter := 0
	for i, entry := range ordered {
		counter++
		position := counter
		if i > 0 && sameStanding(ordered[i-1], entry) {
			position = entries[i-1].Position
		}
		entries = append(entries, RankEntry{
			Position:         position,
			ParticipantID:    entry.ID,
			Name:             entry.Name,
			TotalScore:       entry.TotalScore,
			TotalSubmissions: entry.TotalSubmissions,
			LatestSubmission: entry.LatestSubmission,
		})
	}
	return entries
}

func sameStanding(a, b ParticipantStats) bool {
	if a.TotalScore != b.TotalScore || a.TotalSubmissions != b.TotalSubmissions {
		return false
	}
	switch {
	case a.LatestSubmission == nil && b.LatestSubmission == nil:
		return true
	case a.LatestSubmission == nil || b.LatestSubmission == nil:
		return false
	default:
		return a.LatestSubmission.Equal(*b.LatestSubmission)
	}
}

func anyAccepted(stats []ParticipantStats) bool {
	for _, entry := range stats {
		if len(entry.FirstAccepted) > 0 {
			return true
		}
	}
	return false
}

func firstLetter(name string) string {
	lowered := strings.ToLower(name)
	if lowered == "" {
		return ""
	}
	_, size := utf8.DecodeRuneInString(lowered)
	return lowered[:size]
}
