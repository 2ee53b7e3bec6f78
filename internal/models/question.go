package models

import "time"

// Question is a programming problem. Questions without an event belong to the platform.
type Question struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Title     string     `gorm:"size:200;not null" json:"title"`
	Statement string     `gorm:"type:text" json:"statement"`
	Points    float64    `gorm:"not null;default:100" json:"points"`
	Attempts  uint       `gorm:"not null;default:0" json:"attempts"`
	EventID   *uint      `gorm:"index" json:"event_id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	TestCases []TestCase `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// TestCase is one input/expected-output pair used by the judge.
type TestCase struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	QuestionID     uint   `gorm:"not null;index" json:"question_id"`
	Input          string `gorm:"type:text" json:"input"`
	ExpectedOutput string `gorm:"type:text" json:"expected_output"`
	Position       uint   `gorm:"not null;default:0" json:"position"`
}
