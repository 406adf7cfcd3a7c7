package models

import "time"

// SessionValue is one persisted key of a browser session (access token,
// refresh token or the cached user JSON).
type SessionValue struct {
	SessionID string    `gorm:"primaryKey;size:64"`
	Key       string    `gorm:"primaryKey;size:32"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"index"`
}
