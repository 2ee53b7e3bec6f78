package models

import "time"

// Event visibility values.
const (
	EventTypePublic  = "publico"
	EventTypePrivate = "privado"
)

// Event represents a coding-challenge room with its own questions and participants.
type Event struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Title            string    `gorm:"size:200;not null" json:"title"`
	RoomCode         string    `gorm:"size:12;uniqueIndex" json:"room_code"`
	Type             string    `gorm:"size:10;not null" json:"type"`
	ParticipantLimit *uint     `json:"participant_limit"`
	CreatorID        uint      `gorm:"not null" json:"creator_id"`
	BadgeURL         string    `gorm:"size:500" json:"badge_url"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// IsPrivate reports whether joining the event requires a password.
func (e Event) IsPrivate() bool {
	return e.Type == EventTypePrivate
}

// EventParticipation links a user to an event they joined.
type EventParticipation struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	UserID   uint      `gorm:"not null;uniqueIndex:idx_participation_user_event" json:"user_id"`
	EventID  uint      `gorm:"not null;uniqueIndex:idx_participation_user_event;index" json:"event_id"`
	JoinedAt time.Time `gorm:"autoCreateTime" json:"joined_at"`
	User     User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Event    Event     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}
