package models

import "time"

// PlatformScore accumulates the points a user earned across the whole platform.
type PlatformScore struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex" json:"user_id"`
	Points    int64     `gorm:"not null;default:0" json:"points"`
	UpdatedAt time.Time `json:"updated_at"`
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}
