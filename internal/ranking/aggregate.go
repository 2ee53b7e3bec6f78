package ranking

import (
	"sort"
	"time"
)

// ParticipantStats holds the per-participant figures the ranking is built from.
type ParticipantStats struct {
	ID               uint
	Name             string
	TotalScore       float64
	TotalSubmissions int64
	LatestSubmission *time.Time
	// FirstAccepted maps a question id to the earliest submission with a score.
	FirstAccepted map[uint]time.Time
}

// Aggregate folds the submission records into per-participant stats in a single pass.
// The result keeps the order of participants. Records of unknown participants are ignored.
func Aggregate(participants []Participant, records []SubmissionRecord) []ParticipantStats {
	stats := make([]ParticipantStats, len(participants))
	index := make(map[uint]int, len(participants))
	for i, participant := range participants {
		stats[i] = ParticipantStats{
			ID:            participant.ID,
			Name:          participant.Name,
			FirstAccepted: map[uint]time.Time{},
		}
		index[participant.ID] = i
	}

	for _, record := range records {
		i, ok := index[record.ParticipantID]
		if !ok {
			continue
		}
		entry := &stats[i]
		entry.TotalSubmissions++
		if entry.LatestSubmission == nil || record.SubmittedAt.After(*entry.LatestSubmission) {
			submittedAt := record.SubmittedAt
			entry.LatestSubmission = &submittedAt
		}
		if record.Score == nil {
			continue
		}
		entry.TotalScore += *record.Score
		if first, seen := entry.FirstAccepted[record.QuestionID]; !seen || record.SubmittedAt.Before(first) {
			entry.FirstAccepted[record.QuestionID] = record.SubmittedAt
		}
	}

	return stats
}

// AcceptedQuestions returns the sorted ids of every question that appears in any
// first-accepted map.
func AcceptedQuestions(stats []ParticipantStats) []uint {
	seen := map[uint]struct{}{}
	for _, entry := range stats {
		for questionID := range entry.FirstAccepted {
			seen[questionID] = struct{}{}
		}
	}
	ids := make([]uint, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
