//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxJobTitleLen       = 100
	maxJobCompanyLen     = 100
	maxJobLocationLen    = 100
	maxJobDescriptionLen = 10000
)

// Job is a vacancy posted by an employer.
type Job struct {
	ID          string    `json:"id"          db:"id"`
	Title       string    `json:"title"       db:"title"`
	Description string    `json:"description" db:"description"`
	Company     string    `json:"company"     db:"company"`
	Location    string    `json:"location"    db:"location"`
	PostedAt    time.Time `json:"posted_at"   db:"posted_at"`
	UserID      string    `json:"user_id"     db:"user_id"`
}

// OwnedBy reports whether the job was posted by userID.
func (j *Job) OwnedBy(userID string) bool {
	return j != nil && userID != "" && j.UserID == userID
}

// JobInput is the editable part of a job, shared by create and update.
type JobInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Company     string `json:"company"`
	Location    string `json:"location"`
}

// Validate trims every field and enforces presence and length limits.
func (in *JobInput) Validate() error {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Company = strings.TrimSpace(in.Company)
	in.Location = strings.TrimSpace(in.Location)
	if anyBlank(in.Title, in.Description, in.Company, in.Location) {
		return ErrAllFieldsRequired
	}
	if utf8.RuneCountInString(in.Title) > maxJobTitleLen ||
		utf8.RuneCountInString(in.Company) > maxJobCompanyLen ||
		utf8.RuneCountInString(in.Location) > maxJobLocationLen ||
		utf8.RuneCountInString(in.Description) > maxJobDescriptionLen {
		return ErrFieldTooLong
	}
	return nil
}

// CreateJobRequest represents parameters to create a Job.
type CreateJobRequest struct {
	JobInput
	UserID string `json:"user_id"`
}

// Validate validates CreateJobRequest.
func (r *CreateJobRequest) Validate() error {
	if strings.TrimSpace(r.UserID) == "" {
		return ErrAllFieldsRequired
	}
	return r.JobInput.Validate()
}

// JobListOptions controls paging and filtering for the job listing.
// Notes:
// - Title and Location match via ILIKE substring.
// - PostedSince keeps jobs posted on or after the given instant.
// - Results are ordered newest first.
type JobListOptions struct {
	Limit       int
	Offset      int
	Title       string
	Location    string
	PostedSince *time.Time
	UserID      string // restrict to one employer when set
}
