package models

import "time"

// Link represents a shortened URL owned by a user.
//
// ClickCount is an all-time running total maintained by a single atomic
// SQL increment on each redirect. Deleting individual click events does
// not decrement it, so it can exceed the number of surviving ClickEvent
// rows.
//
// Links are hard-deleted (no soft-delete column): deleting a link must
// actually remove it and cascade to its click events.
type Link struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	Identifier string    `gorm:"uniqueIndex;not null;size:10" json:"identifier"`
	Target     string    `gorm:"not null;size:10000" json:"target"`
	ClickCount uint      `gorm:"default:0" json:"click_count"`
	IsActive   bool      `gorm:"default:true" json:"is_active"`

	// Relationships
	User   User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Clicks []ClickEvent `gorm:"foreignKey:LinkID" json:"clicks,omitempty"`
}
