//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"encoding/json"
	"time"
)

// ApplicationEventType names an outbox event.
type ApplicationEventType string

const (
	ApplicationEventSubmitted ApplicationEventType = "application.submitted"
	ApplicationEventApproved  ApplicationEventType = "application.approved"
	ApplicationEventRejected  ApplicationEventType = "application.rejected"
)

// EventTypeForStatus maps a decided status to its event type.
func EventTypeForStatus(s ApplicationStatus) ApplicationEventType {
	switch s {
	case ApplicationStatusApproved:
		return ApplicationEventApproved
	case ApplicationStatusRejected:
		return ApplicationEventRejected
	case ApplicationStatusPending:
		return ApplicationEventSubmitted
	default:
		return ApplicationEventSubmitted
	}
}

// ApplicationEvent is an outbox row written alongside an application change
// and later relayed to a broker.
type ApplicationEvent struct {
	ID            string               `json:"id"                     db:"id"`
	ApplicationID string               `json:"application_id"         db:"application_id"`
	Type          ApplicationEventType `json:"type"                   db:"type"`
	Payload       json.RawMessage      `json:"payload"                db:"payload"`
	CreatedAt     time.Time            `json:"created_at"             db:"created_at"`
	PublishedAt   *time.Time           `json:"published_at,omitempty" db:"published_at"`
}

// ApplicationEventPayload is the JSON body stored in ApplicationEvent.Payload.
type ApplicationEventPayload struct {
	ApplicationID string            `json:"application_id"`
	JobID         string            `json:"job_id"`
	JobTitle      string            `json:"job_title,omitempty"`
	ApplicantID   string            `json:"applicant_id"`
	EmployerID    string            `json:"employer_id,omitempty"`
	Status        ApplicationStatus `json:"status"`
	OccurredAt    time.Time         `json:"occurred_at"`
}
