package models

import (
	"time"

	"gorm.io/gorm"
)

// Submission is one settled relay attempt from the contact form.
type Submission struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SessionID    string    `gorm:"type:varchar(64);index" json:"session_id"`
	Locale       string    `gorm:"type:varchar(10)" json:"locale"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	Email        string    `gorm:"type:varchar(255);not null;index" json:"email"`
	Message      string    `gorm:"type:text;not null" json:"message"`
	Status       string    `gorm:"type:varchar(20);not null" json:"status"`  // success, error
	Failure      string    `gorm:"type:varchar(20)" json:"failure,omitempty"` // rejected, transport, configuration
	RelayMessage string    `gorm:"type:text" json:"relay_message,omitempty"`
	DurationMS   int64     `json:"duration_ms"`
	CreatedAt    time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (Submission) TableName() string {
	return "submissions"
}

func (s *Submission) BeforeCreate(tx *gorm.DB) error {
	if s.Status == "" {
		s.Status = "error"
	}
	return nil
}

// SystemSetting is a key/value row overriding environment configuration.
type SystemSetting struct {
	Key       string    `gorm:"primaryKey;type:varchar(100)" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (SystemSetting) TableName() string {
	return "system_settings"
}
