package models

import (
	"time"
)

// ChatMessage is an internally sourced chat message shown on the viewer
// page when the chat source is "internal" or "both".
type ChatMessage struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	SessionID   string    `gorm:"size:64;index;not null" json:"session_id"`
	UserID      *uint     `gorm:"index" json:"user_id,omitempty"` // nil for guests
	User        *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	DisplayName string    `gorm:"size:100;not null" json:"display_name"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	Approved    bool      `gorm:"default:false;index" json:"approved"`
	CreatedAt   time.Time `json:"created_at"`
}

// ChatRejectReason classifies why a posted message was not queued for
// display. Checks run cheapest first: length, then blocked words, then
// the stateful slow-mode check.
type ChatRejectReason string

const (
	ChatRejectTooLong     ChatRejectReason = "too_long"
	ChatRejectBlockedWord ChatRejectReason = "blocked_word"
	ChatRejectSlowMode    ChatRejectReason = "slow_mode"
	ChatRejectGuestDenied ChatRejectReason = "guest_denied"
	ChatRejectDisabled    ChatRejectReason = "chat_disabled"
)
