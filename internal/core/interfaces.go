package core

import (
	"context"
	"time"

	"github.com/target/jobportal/internal/domain/model"
)

// This file contains repository interface definitions (ports in hexagonal architecture).
// These interfaces define the contracts between the service layer and data layer.
// Service implementations should depend on these interfaces, not concrete implementations.

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	Create(ctx context.Context, req *model.CreateUserRequest) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByMobile(ctx context.Context, mobile string) (*model.User, error)
}

// JobRepository defines the interface for job data operations.
type JobRepository interface {
	Create(ctx context.Context, req *model.CreateJobRequest) (*model.Job, error)
	GetByID(ctx context.Context, id string) (*model.Job, error)
	List(ctx context.Context, opts model.JobListOptions) ([]*model.Job, error)
	Update(ctx context.Context, id string, in model.JobInput) (*model.Job, error)
	// Delete removes the job together with its applications and their messages and events.
	Delete(ctx context.Context, id string) (bool, error)
}

// ApplicationRepository defines the interface for application data operations.
type ApplicationRepository interface {
	Create(ctx context.Context, req *model.CreateApplicationRequest) (*model.Application, error)
	GetDetail(ctx context.Context, id string) (*model.ApplicationDetail, error)
	List(ctx context.Context, opts model.ApplicationListOptions) ([]*model.ApplicationDetail, error)
	// AppliedJobIDs returns the subset of jobIDs the applicant has applied to.
	AppliedJobIDs(ctx context.Context, applicantID string, jobIDs []string) (map[string]bool, error)
	// Decide moves a pending application to a decided status and records the
	// employer message, the applicant notification and an outbox event atomically.
	Decide(ctx context.Context, req model.DecideApplicationRequest) (*model.DecisionResult, error)
}

// MessageRepository defines the interface for message data operations.
type MessageRepository interface {
	Create(ctx context.Context, req *model.CreateMessageRequest) (*model.Message, error)
	ListByApplication(ctx context.Context, applicationID string) ([]*model.Message, error)
	ListByApplications(ctx context.Context, applicationIDs []string) (map[string][]*model.Message, error)
}

// NotificationRepository defines the interface for notification data operations.
type NotificationRepository interface {
	List(ctx context.Context, opts model.NotificationListOptions) ([]*model.Notification, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, userID, id string) (bool, error)
	MarkAllRead(ctx context.Context, userID string) (int, error)
	DeleteReadBefore(ctx context.Context, before time.Time, limit int) (int, error)
}

// EventRepository defines the interface for outbox operations.
type EventRepository interface {
	// Create appends an event outside of a status transition (e.g. on submission).
	Create(ctx context.Context, evt *model.ApplicationEvent) error
	// PublishPending claims up to limit unpublished events, hands them to fn,
	// and marks them published only when fn succeeds.
	PublishPending(ctx context.Context, limit int, fn func([]*model.ApplicationEvent) error) (int, error)
	DeletePublishedBefore(ctx context.Context, before time.Time, limit int) (int, error)
}
