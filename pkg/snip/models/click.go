package models

import "time"

// ClickEvent records a single resolved redirect with classified client
// metadata. Events are immutable once written; they are removed only by
// an explicit owner delete or by cascade when their link is deleted.
type ClickEvent struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	LinkID    uint      `gorm:"not null;index" json:"link_id"`
	IPAddress string    `gorm:"not null" json:"ip_address"`
	UserAgent string    `json:"user_agent"`
	Browser   string    `gorm:"size:100" json:"browser"`
	Platform  string    `gorm:"size:100" json:"platform"`
	Device    string    `gorm:"size:100" json:"device"`

	// Relationships
	Link Link `gorm:"foreignKey:LinkID" json:"-"`
}
