//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"strings"
	"time"
	"unicode/utf8"
)

const maxMessageContentLen = 5000

// Message is a free-text entry in an application's thread.
type Message struct {
	ID            string    `json:"id"             db:"id"`
	ApplicationID string    `json:"application_id" db:"application_id"`
	SenderID      string    `json:"sender_id"      db:"sender_id"`
	SenderName    string    `json:"sender_name"    db:"sender_name"`
	Content       string    `json:"content"        db:"content"`
	CreatedAt     time.Time `json:"created_at"     db:"created_at"`
}

// CreateMessageRequest represents parameters to post a Message.
type CreateMessageRequest struct {
	ApplicationID string
	SenderID      string
	Content       string
}

// Validate trims content and rejects empty or oversized messages.
func (r *CreateMessageRequest) Validate() error {
	r.Content = strings.TrimSpace(r.Content)
	if r.Content == "" {
		return ErrEmptyMessage
	}
	if strings.TrimSpace(r.ApplicationID) == "" || strings.TrimSpace(r.SenderID) == "" {
		return ErrAllFieldsRequired
	}
	if utf8.RuneCountInString(r.Content) > maxMessageContentLen {
		return ErrFieldTooLong
	}
	return nil
}
