//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import "time"

// Notification is a one-way message delivered to a user.
type Notification struct {
	ID        string    `json:"id"         db:"id"`
	UserID    string    `json:"user_id"    db:"user_id"`
	Message   string    `json:"message"    db:"message"`
	IsRead    bool      `json:"is_read"    db:"is_read"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// NotificationListOptions controls paging for a user's notifications.
type NotificationListOptions struct {
	UserID     string
	UnreadOnly bool
	Limit      int
	Offset     int
}
