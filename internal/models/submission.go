package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	// SubmissionStatusPending indicates the submission has not been sent to the judge.
	SubmissionStatusPending = "pending"
	// SubmissionStatusProcessing indicates the judge is running the test cases.
	SubmissionStatusProcessing = "processing"
	// SubmissionStatusDone indicates every test result has been recorded.
	SubmissionStatusDone = "done"
	// SubmissionStatusError indicates the judge could not evaluate the submission.
	SubmissionStatusError = "error"
)

// Submission is one attempt by a user at a question.
type Submission struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	UserID      uint              `gorm:"not null;index" json:"user_id"`
	QuestionID  uint              `gorm:"not null;index" json:"question_id"`
	Code        string            `gorm:"type:text" json:"code"`
	Language    string            `gorm:"size:30;not null" json:"language"`
	SubmittedAt time.Time         `gorm:"not null;index" json:"submitted_at"`
	Score       *float64          `json:"score"`
	Attempt     uint              `gorm:"not null;default:1" json:"attempt"`
	JudgeToken  string            `gorm:"size:200" json:"judge_token"`
	Status      string            `gorm:"size:50;not null" json:"status"`
	Details     datatypes.JSONMap `json:"details"`
	User        User              `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Question    Question          `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Results     []TestResult      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// IsScored reports whether grading produced a score.
func (s Submission) IsScored() bool {
	return s.Score != nil
}

// TestResult stores the judge verdict of a submission on one test case.
type TestResult struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SubmissionID uint      `gorm:"not null;index" json:"submission_id"`
	TestCaseID   uint      `gorm:"not null" json:"test_case_id"`
	Status       string    `gorm:"size:50;not null" json:"status"`
	Output       string    `gorm:"type:text" json:"output"`
	Message      string    `gorm:"type:text" json:"message"`
	Time         *float64  `json:"time"`
	CreatedAt    time.Time `json:"created_at"`
}
