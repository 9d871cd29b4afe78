package service

import (
	"context"
	"fmt"

	"github.com/target/jobportal/internal/core"
	"github.com/target/jobportal/internal/domain/model"
)

// NotificationPageSize is the number of notifications shown per page.
const NotificationPageSize = 20

// NotificationServiceOptions groups dependencies for NotificationService.
type NotificationServiceOptions struct {
	Notifications core.NotificationRepository
}

// NotificationService reads and acknowledges a user's notifications.
type NotificationService struct {
	notes core.NotificationRepository
}

// NewNotificationService constructs a new NotificationService.
func NewNotificationService(opts NotificationServiceOptions) *NotificationService {
	return &NotificationService{notes: opts.Notifications}
}

// NotificationPage is one page of a user's notifications, newest first.
type NotificationPage struct {
	Items   []*model.Notification
	Page    int
	HasPrev bool
	HasNext bool
}

// List returns the given 1-based page of userID's notifications.
func (s *NotificationService) List(ctx context.Context, userID string, page int) (*NotificationPage, error) {
	page = clampPage(page)
	items, err := s.notes.List(ctx, model.NotificationListOptions{
		UserID: userID,
		Limit:  NotificationPageSize + 1,
		Offset: pageOffset(page, NotificationPageSize),
	})
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	out := &NotificationPage{Page: page, HasPrev: page > 1}
	if len(items) > NotificationPageSize {
		out.HasNext = true
		items = items[:NotificationPageSize]
	}
	out.Items = items
	return out, nil
}

// UnreadCount returns how many unread notifications userID has.
func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	if userID == "" {
		return 0, nil
	}
	return s.notes.CountUnread(ctx, userID)
}

// MarkRead marks one of userID's notifications read. Marking an already-read
// or foreign notification is a no-op.
func (s *NotificationService) MarkRead(ctx context.Context, userID, id string) error {
	if _, err := s.notes.MarkRead(ctx, userID, id); err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return nil
}

// MarkAllRead marks every unread notification of userID read and returns how many changed.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int, error) {
	n, err := s.notes.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	return n, nil
}
