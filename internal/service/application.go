package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/target/jobportal/internal/core"
	"github.com/target/jobportal/internal/data"
	"github.com/target/jobportal/internal/domain/model"
	"github.com/target/jobportal/internal/i18n"
	"github.com/target/jobportal/internal/observability/metrics"
	"golang.org/x/sync/errgroup"
)

// managementPageLimit bounds how many applications the management page loads.
const managementPageLimit = 200

// ApplicationServiceOptions groups dependencies for ApplicationService.
type ApplicationServiceOptions struct {
	Applications core.ApplicationRepository
	Jobs         core.JobRepository
	Messages     core.MessageRepository
	Translations *i18n.Bundle
	Metrics      metrics.Recorder
	Logger       *slog.Logger
}

// ApplicationService handles applying to jobs and the employer's decisions.
type ApplicationService struct {
	apps     core.ApplicationRepository
	jobs     core.JobRepository
	messages core.MessageRepository
	bundle   *i18n.Bundle
	metrics  metrics.Recorder
	logger   *slog.Logger
}

// NewApplicationService constructs a new ApplicationService.
func NewApplicationService(opts ApplicationServiceOptions) *ApplicationService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ApplicationService{
		apps:     opts.Applications,
		jobs:     opts.Jobs,
		messages: opts.Messages,
		bundle:   opts.Translations,
		metrics:  metrics.OrNoop(opts.Metrics),
		logger:   logger.With("component", "application_service"),
	}
}

// Apply submits an application from applicantID to jobID as pending.
func (s *ApplicationService) Apply(
	ctx context.Context,
	applicantID, jobID string,
	form model.CreateApplicationRequest,
) (*model.Application, error) {
	form.JobID = jobID
	form.ApplicantID = applicantID
	if err := form.Validate(); err != nil {
		return nil, err
	}
	app, err := s.apps.Create(ctx, &form)
	if err != nil {
		return nil, err
	}
	s.metrics.ApplicationSubmitted()
	s.logger.InfoContext(ctx, "application submitted", "application_id", app.ID, "job_id", jobID)
	return app, nil
}

// Thread is an application with its messages, oldest first.
type Thread struct {
	Detail   *model.ApplicationDetail
	Messages []*model.Message
}

// Management is everything the employer's management page shows.
type Management struct {
	Jobs    []*model.Job
	Threads []Thread
}

// Management loads the employer's jobs and the applications to them with their messages.
func (s *ApplicationService) Management(ctx context.Context, employerID string) (*Management, error) {
	var (
		jobs []*model.Job
		apps []*model.ApplicationDetail
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		jobs, err = s.jobs.List(gctx, model.JobListOptions{UserID: employerID, Limit: managementPageLimit})
		if err != nil {
			return fmt.Errorf("list jobs: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		apps, err = s.apps.List(gctx, model.ApplicationListOptions{EmployerID: employerID, Limit: managementPageLimit})
		if err != nil {
			return fmt.Errorf("list applications: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &Management{Jobs: jobs, Threads: make([]Thread, 0, len(apps))}
	if len(apps) == 0 {
		return out, nil
	}
	ids := make([]string, len(apps))
	for i, a := range apps {
		ids[i] = a.ID
	}
	byApp, err := s.messages.ListByApplications(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	for _, a := range apps {
		out.Threads = append(out.Threads, Thread{Detail: a, Messages: byApp[a.ID]})
	}
	return out, nil
}

// Approved lists the employee's approved applications.
func (s *ApplicationService) Approved(ctx context.Context, applicantID string) ([]*model.ApplicationDetail, error) {
	status := model.ApplicationStatusApproved
	apps, err := s.apps.List(ctx, model.ApplicationListOptions{ApplicantID: applicantID, Status: &status})
	if err != nil {
		return nil, fmt.Errorf("list approved applications: %w", err)
	}
	return apps, nil
}

// DecideInput carries an employer's approve or reject action.
type DecideInput struct {
	EmployerID    string
	ApplicationID string
	Status        model.ApplicationStatus
	// Locale selects the language of the generated message and notification.
	Locale string
}

// Decide approves or rejects an application. The status change, the
// employer's message, the applicant's notification and the outbox event are
// written together. Repeating the current decision changes nothing.
func (s *ApplicationService) Decide(ctx context.Context, in DecideInput) (*model.DecisionResult, error) {
	if !in.Status.Decided() {
		return nil, model.ErrInvalidTransition
	}
	detail, err := s.apps.GetDetail(ctx, in.ApplicationID)
	if err != nil {
		return nil, err
	}
	if detail.EmployerID != in.EmployerID {
		return nil, data.ErrNotJobOwner
	}

	message, notification := s.decisionTexts(in.Locale, in.Status, detail.JobTitle)
	res, err := s.apps.Decide(ctx, model.DecideApplicationRequest{
		ApplicationID: in.ApplicationID,
		EmployerID:    in.EmployerID,
		Status:        in.Status,
		Message:       message,
		Notification:  notification,
	})
	if err != nil {
		s.metrics.ApplicationDecided(string(in.Status), metrics.ResultError)
		return nil, err
	}
	result := metrics.ResultSuccess
	if !res.Changed {
		result = metrics.ResultNoop
	}
	s.metrics.ApplicationDecided(string(in.Status), result)
	s.logger.InfoContext(ctx, "application decided",
		"application_id", in.ApplicationID,
		"status", in.Status,
		"changed", res.Changed,
	)
	return res, nil
}

// decisionTexts renders the thread message and the notification for a decision.
func (s *ApplicationService) decisionTexts(locale string, status model.ApplicationStatus, title string) (string, string) {
	tr := i18n.Translator{}
	if s.bundle != nil {
		tr = s.bundle.For(locale)
	}
	if status == model.ApplicationStatusApproved {
		return tr.T("application_approved_message", "Your application has been approved."),
			joinNonEmpty(
				tr.T("application_approved_notification", "Your application for job:"),
				title,
				tr.T("has_been_approved", "has been approved."),
			)
	}
	return tr.T("application_rejected_message", "Your application has been rejected."),
		joinNonEmpty(
			tr.T("application_rejected_notification", "Your application for job:"),
			title,
			tr.T("has_been_rejected", "has been rejected."),
		)
}

func joinNonEmpty(parts ...string) string {
	out := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}
