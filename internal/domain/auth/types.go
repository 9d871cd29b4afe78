package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import (
	"errors"
	"strings"
	"time"
)

// ErrSessionNotFound is returned by session stores for missing or expired sessions.
var ErrSessionNotFound = errors.New("session not found")

// Role represents a user's authorization role.
// Keep string form for easy persistence and cookies.
// Valid values are defined as constants below.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleEmployer Role = "employer"
)

// Valid reports whether the role is one of the registrable roles.
func (r Role) Valid() bool {
	switch r {
	case RoleEmployee, RoleEmployer:
		return true
	default:
		return false
	}
}

// ParseRole normalizes a role string and reports whether it is supported.
func ParseRole(value string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(value)))
	if r.Valid() {
		return r, true
	}
	return "", false
}

// FlashCategory mirrors the CSS class used to render a flash message.
type FlashCategory string

const (
	FlashSuccess FlashCategory = "success"
	FlashDanger  FlashCategory = "danger"
	FlashWarning FlashCategory = "warning"
	FlashInfo    FlashCategory = "info"
)

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Category FlashCategory `json:"category"`
	Message  string        `json:"message"`
}

// Session is the server-side record persisted for every visitor.
// ID is an opaque session identifier. Anonymous sessions have an empty UserID
// and exist only to carry a locale choice or pending flashes.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id,omitempty"`
	Name      string    `json:"name,omitempty"`
	Role      Role      `json:"role,omitempty"`
	Locale    string    `json:"locale,omitempty"`
	Flashes   []Flash   `json:"flashes,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsAuthenticated reports whether the session belongs to a logged-in user.
func (s Session) IsAuthenticated() bool { return s.UserID != "" }

// IsEmployer returns true if the session role is employer.
func (s Session) IsEmployer() bool { return s.IsAuthenticated() && s.Role == RoleEmployer }

// IsEmployee returns true if the session role is employee.
func (s Session) IsEmployee() bool { return s.IsAuthenticated() && s.Role == RoleEmployee }

// Expired reports whether the session is past its expiry at the given time.
func (s Session) Expired(now time.Time) bool { return !now.Before(s.ExpiresAt) }

// AddFlash appends a flash message.
func (s *Session) AddFlash(category FlashCategory, message string) {
	s.Flashes = append(s.Flashes, Flash{Category: category, Message: message})
}

// PopFlashes returns and clears the pending flashes.
func (s *Session) PopFlashes() []Flash {
	out := s.Flashes
	s.Flashes = nil
	return out
}
