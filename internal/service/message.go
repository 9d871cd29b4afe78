package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/target/jobportal/internal/core"
	"github.com/target/jobportal/internal/domain/model"
	"github.com/target/jobportal/internal/observability/metrics"
)

// ErrNotParticipant is returned when a user is neither the applicant nor the job's employer.
var ErrNotParticipant = errors.New("user is not a participant of this application")

// MessageServiceOptions groups dependencies for MessageService.
type MessageServiceOptions struct {
	Applications core.ApplicationRepository
	Messages     core.MessageRepository
	Metrics      metrics.Recorder
	Logger       *slog.Logger
}

// MessageService manages the per-application message thread.
type MessageService struct {
	apps     core.ApplicationRepository
	messages core.MessageRepository
	metrics  metrics.Recorder
	logger   *slog.Logger
}

// NewMessageService constructs a new MessageService.
func NewMessageService(opts MessageServiceOptions) *MessageService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &MessageService{
		apps:     opts.Applications,
		messages: opts.Messages,
		metrics:  metrics.OrNoop(opts.Metrics),
		logger:   logger.With("component", "message_service"),
	}
}

// Thread returns the application and its messages when userID takes part in it.
func (s *MessageService) Thread(ctx context.Context, userID, applicationID string) (*Thread, error) {
	detail, err := s.participant(ctx, userID, applicationID)
	if err != nil {
		return nil, err
	}
	msgs, err := s.messages.ListByApplication(ctx, applicationID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return &Thread{Detail: detail, Messages: msgs}, nil
}

// Send posts content to the thread as userID.
func (s *MessageService) Send(ctx context.Context, userID, applicationID, content string) (*model.Message, error) {
	req := &model.CreateMessageRequest{ApplicationID: applicationID, SenderID: userID, Content: content}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.participant(ctx, userID, applicationID); err != nil {
		return nil, err
	}
	msg, err := s.messages.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	s.metrics.MessageSent()
	return msg, nil
}

func (s *MessageService) participant(ctx context.Context, userID, applicationID string) (*model.ApplicationDetail, error) {
	detail, err := s.apps.GetDetail(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if !detail.IsParticipant(userID) {
		return nil, ErrNotParticipant
	}
	return detail, nil
}
