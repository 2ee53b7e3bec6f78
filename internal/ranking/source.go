package ranking

import (
	"context"
	"errors"
	"time"
)

// ErrEventNotFound is returned by a StatsSource when the event does not exist.
var ErrEventNotFound = errors.New("event not found")

// Participant identifies a user enrolled in an event.
type Participant struct {
	ID   uint
	Name string
}

// SubmissionRecord is the slice of a submission the standings depend on.
// Score is nil until the submission has been graded.
type SubmissionRecord struct {
	ParticipantID uint
	QuestionID    uint
	Score         *float64
	SubmittedAt   time.Time
}

// StatsSource exposes the read-only queries needed to rank one event.
type StatsSource interface {
	// EventStart returns the creation time of the event. A nil time is allowed and
	// disables elapsed-time tie-breaks.
	EventStart(ctx context.Context, eventID uint) (*time.Time, error)
	// Participants lists the users enrolled in the event.
	Participants(ctx context.Context, eventID uint) ([]Participant, error)
	// Submissions lists the submissions of the given participants to questions of the event.
	Submissions(ctx context.Context, eventID uint, participantIDs []uint) ([]SubmissionRecord, error)
	// QuestionWeights returns the point value of each requested question.
	QuestionWeights(ctx context.Context, questionIDs []uint) (map[uint]float64, error)
}
