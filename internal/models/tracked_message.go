package models

import "time"

// TrackedMessage is one channel message scheduled for deletion.
//
// MessageID is intentionally not unique: forwarding the same message twice
// creates two records, and both deletion attempts are expected to succeed
// (Telegram treats deleting an already-deleted message as an error the
// sweep tolerates).
type TrackedMessage struct {
	ID uint `gorm:"primaryKey;autoIncrement"`

	MessageID int   `gorm:"not null;index"`
	ChatID    int64 `gorm:"not null;index"`

	// ForwardDate is when the message was registered with the bot, taken
	// from the forward origin when available.
	ForwardDate time.Time `gorm:"not null"`
	// DeleteDate is ForwardDate plus the retention configured at insert
	// time. It is never recomputed after creation.
	DeleteDate time.Time `gorm:"not null;index"`

	// CreatedAt drives stale-record pruning only.
	CreatedAt time.Time
}
