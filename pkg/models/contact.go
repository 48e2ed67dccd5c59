package models

import "time"

// FieldChangeRequest carries one keystroke of the contact form
type FieldChangeRequest struct {
	Field string `json:"field" binding:"required,oneof=name email message"`
	Value string `json:"value"`
}

// FieldBlurRequest marks a field as left by the visitor
type FieldBlurRequest struct {
	Field string `json:"field" binding:"required,oneof=name email message"`
}

// SubmissionQuery filters the admin submission list
type SubmissionQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=success error"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=200"`
	Offset int    `form:"offset" binding:"omitempty,min=0"`
}

// SubmissionView is a stored submission as returned to the admin
type SubmissionView struct {
	ID           uint      `json:"id"`
	SessionID    string    `json:"session_id"`
	Locale       string    `json:"locale"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Message      string    `json:"message"`
	Status       string    `json:"status"`
	Failure      string    `json:"failure,omitempty"`
	RelayMessage string    `json:"relay_message,omitempty"`
	DurationMS   int64     `json:"duration_ms"`
	CreatedAt    time.Time `json:"created_at"`
}

// SubmissionList is one page of stored submissions
type SubmissionList struct {
	Items  []SubmissionView `json:"items"`
	Total  int64            `json:"total"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

// Catalog is the flattened translation table of one locale
type Catalog struct {
	Locale    string            `json:"locale"`
	Supported []string          `json:"supported"`
	Messages  map[string]string `json:"messages"`
}
