package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/target/jobportal/internal/core"
	"github.com/target/jobportal/internal/data"
	"github.com/target/jobportal/internal/domain/model"
	"github.com/target/jobportal/internal/observability/metrics"
)

// JobListingPageSize is the number of jobs shown per listing page.
const JobListingPageSize = 10

// JobServiceOptions groups dependencies for JobService.
type JobServiceOptions struct {
	Jobs         core.JobRepository
	Applications core.ApplicationRepository
	Metrics      metrics.Recorder
	Logger       *slog.Logger
}

// JobService handles posting, editing and browsing jobs.
type JobService struct {
	jobs    core.JobRepository
	apps    core.ApplicationRepository
	metrics metrics.Recorder
	logger  *slog.Logger
}

// NewJobService constructs a new JobService.
func NewJobService(opts JobServiceOptions) *JobService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &JobService{
		jobs:    opts.Jobs,
		apps:    opts.Applications,
		metrics: metrics.OrNoop(opts.Metrics),
		logger:  logger.With("component", "job_service"),
	}
}

// Post creates a job owned by employerID.
func (s *JobService) Post(ctx context.Context, employerID string, in model.JobInput) (*model.Job, error) {
	req := &model.CreateJobRequest{JobInput: in, UserID: employerID}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	job, err := s.jobs.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	s.metrics.JobPosted()
	s.logger.InfoContext(ctx, "job posted", "job_id", job.ID, "employer_id", employerID)
	return job, nil
}

// GetByID retrieves a job by ID.
func (s *JobService) GetByID(ctx context.Context, id string) (*model.Job, error) {
	return s.jobs.GetByID(ctx, id)
}

// GetOwned returns the job when employerID posted it, or data.ErrNotJobOwner.
func (s *JobService) GetOwned(ctx context.Context, employerID, id string) (*model.Job, error) {
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !job.OwnedBy(employerID) {
		return nil, data.ErrNotJobOwner
	}
	return job, nil
}

// Update edits a job the employer owns.
func (s *JobService) Update(ctx context.Context, employerID, id string, in model.JobInput) (*model.Job, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.GetOwned(ctx, employerID, id); err != nil {
		return nil, err
	}
	job, err := s.jobs.Update(ctx, id, in)
	if err != nil {
		return nil, fmt.Errorf("update job: %w", err)
	}
	return job, nil
}

// Delete removes a job the employer owns, cascading to its applications.
func (s *JobService) Delete(ctx context.Context, employerID, id string) error {
	if _, err := s.GetOwned(ctx, employerID, id); err != nil {
		return err
	}
	ok, err := s.jobs.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	if !ok {
		return data.ErrJobNotFound
	}
	s.logger.InfoContext(ctx, "job deleted", "job_id", id, "employer_id", employerID)
	return nil
}

// ListingQuery describes one page of the job listing.
type ListingQuery struct {
	Filters model.JobListOptions
	// Page is 1-based.
	Page int
	// ApplicantID marks jobs the employee already applied to.
	ApplicantID string
}

// Listing is one page of jobs plus what the viewer needs to render it.
type Listing struct {
	Jobs    []*model.Job
	Applied map[string]bool
	Page    int
	HasPrev bool
	HasNext bool
}

// Listing returns a page of jobs, newest first.
func (s *JobService) Listing(ctx context.Context, q ListingQuery) (*Listing, error) {
	page := clampPage(q.Page)
	opts := q.Filters
	opts.Limit = JobListingPageSize + 1
	opts.Offset = pageOffset(page, JobListingPageSize)

	jobs, err := s.jobs.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	out := &Listing{Page: page, HasPrev: page > 1, Applied: map[string]bool{}}
	if len(jobs) > JobListingPageSize {
		out.HasNext = true
		jobs = jobs[:JobListingPageSize]
	}
	out.Jobs = jobs

	if q.ApplicantID != "" && len(jobs) > 0 && s.apps != nil {
		ids := make([]string, len(jobs))
		for i, j := range jobs {
			ids[i] = j.ID
		}
		applied, appErr := s.apps.AppliedJobIDs(ctx, q.ApplicantID, ids)
		if appErr != nil {
			return nil, fmt.Errorf("applied jobs: %w", appErr)
		}
		if applied != nil {
			out.Applied = applied
		}
	}
	return out, nil
}
