//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const maxApplicationMessageLen = 5000

// ApplicationStatus tracks an employer's decision on an application.
type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusApproved ApplicationStatus = "approved"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

// ErrInvalidTransition is returned when a status change is not allowed.
var ErrInvalidTransition = errors.New("invalid application status transition")

// Valid reports whether the status is supported.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusApproved, ApplicationStatusRejected:
		return true
	default:
		return false
	}
}

// Decided reports whether the employer has approved or rejected the application.
func (s ApplicationStatus) Decided() bool {
	return s == ApplicationStatusApproved || s == ApplicationStatusRejected
}

// CanTransitionTo reports whether moving from s to next is allowed.
// Only pending applications can be decided; re-applying the current
// decision is accepted and treated as a no-op by callers.
func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	if !next.Decided() {
		return false
	}
	return s == ApplicationStatusPending || s == next
}

// Application is an employee's request to be considered for a Job.
type Application struct {
	ID          string            `json:"id"           db:"id"`
	JobID       string            `json:"job_id"       db:"job_id"`
	ApplicantID string            `json:"applicant_id" db:"applicant_id"`
	Status      ApplicationStatus `json:"status"       db:"status"`
	Message     string            `json:"message"      db:"message"`
	Email       string            `json:"email"        db:"email"`
	Phone       string            `json:"phone"        db:"phone"`
	CreatedAt   time.Time         `json:"created_at"   db:"created_at"`
}

// ApplicationDetail joins an application with its job and applicant for display.
type ApplicationDetail struct {
	Application
	JobTitle      string `json:"job_title"      db:"job_title"`
	JobCompany    string `json:"job_company"    db:"job_company"`
	JobLocation   string `json:"job_location"   db:"job_location"`
	EmployerID    string `json:"employer_id"    db:"employer_id"`
	ApplicantName string `json:"applicant_name" db:"applicant_name"`
}

// IsParticipant reports whether userID is the applicant or the job's employer.
func (d *ApplicationDetail) IsParticipant(userID string) bool {
	if d == nil || userID == "" {
		return false
	}
	return d.ApplicantID == userID || d.EmployerID == userID
}

// CreateApplicationRequest represents parameters to apply for a Job.
type CreateApplicationRequest struct {
	JobID       string `json:"job_id"`
	ApplicantID string `json:"applicant_id"`
	Message     string `json:"message"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
}

// Validate checks required fields and contact formats.
func (r *CreateApplicationRequest) Validate() error {
	r.Message = strings.TrimSpace(r.Message)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	if anyBlank(r.JobID, r.ApplicantID, r.Email) {
		return ErrAllFieldsRequired
	}
	if !ValidEmail(r.Email) {
		return ErrInvalidEmail
	}
	if r.Phone != "" && !ValidMobile(r.Phone) {
		return ErrInvalidMobile
	}
	if utf8.RuneCountInString(r.Message) > maxApplicationMessageLen {
		return ErrFieldTooLong
	}
	return nil
}

// ApplicationListOptions controls paging and filtering for application queries.
// Exactly one of EmployerID or ApplicantID is expected to be set.
type ApplicationListOptions struct {
	Limit       int
	Offset      int
	EmployerID  string
	ApplicantID string
	Status      *ApplicationStatus
}

// DecideApplicationRequest carries an employer's approve/reject decision.
type DecideApplicationRequest struct {
	ApplicationID string
	EmployerID    string
	Status        ApplicationStatus
	// Message is the text recorded in the application's thread.
	Message string
	// Notification is the text delivered to the applicant.
	Notification string
}

// DecisionResult reports what a decision changed.
type DecisionResult struct {
	Application *ApplicationDetail
	// Changed is false when the application already had the requested status.
	Changed bool
}
