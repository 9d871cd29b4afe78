// Package devseed loads a small, repeatable set of development data.
package devseed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/target/jobportal/internal/core"
	"github.com/target/jobportal/internal/data"
	domainauth "github.com/target/jobportal/internal/domain/auth"
	"github.com/target/jobportal/internal/domain/model"
	"github.com/target/jobportal/internal/ports"
	"github.com/target/jobportal/internal/service"
)

// DefaultPassword is the password of every seeded account.
const DefaultPassword = "password123"

// Services bundles the dependencies needed for development seeding.
type Services struct {
	users core.UserRepository
	jobs  core.JobRepository
	auth  *service.AuthService
	posts *service.JobService
	apps  *service.ApplicationService
}

// ServicesOptions wires seeding onto arbitrary repositories (tests).
type ServicesOptions struct {
	Users        core.UserRepository
	Jobs         core.JobRepository
	Applications core.ApplicationRepository
	Hasher       ports.PasswordHasher
	Logger       *slog.Logger
}

// NewServices constructs all required services for seeding using the provided DB.
func NewServices(db *sql.DB, hasher ports.PasswordHasher) Services {
	return NewServicesWithOptions(ServicesOptions{
		Users:        data.NewUserRepo(db),
		Jobs:         data.NewJobRepo(db),
		Applications: data.NewApplicationRepo(db),
		Hasher:       hasher,
	})
}

// NewServicesWithOptions constructs seeding services from explicit repositories.
func NewServicesWithOptions(opts ServicesOptions) Services {
	return Services{
		users: opts.Users,
		jobs:  opts.Jobs,
		auth: service.NewAuthService(service.AuthServiceOptions{
			Users:  opts.Users,
			Hasher: opts.Hasher,
			Logger: opts.Logger,
		}),
		posts: service.NewJobService(service.JobServiceOptions{
			Jobs:         opts.Jobs,
			Applications: opts.Applications,
			Logger:       opts.Logger,
		}),
		apps: service.NewApplicationService(service.ApplicationServiceOptions{
			Applications: opts.Applications,
			Jobs:         opts.Jobs,
			Logger:       opts.Logger,
		}),
	}
}

type seedUser struct {
	Name   string
	Mobile string
	Role   domainauth.Role
	Jobs   []model.JobInput
}

func defaultUsers() []seedUser {
	return []seedUser{
		{
			Name:   "Ravi Kumar",
			Mobile: "9000000001",
			Role:   domainauth.RoleEmployer,
			Jobs: []model.JobInput{
				{
					Title:       "Backend Developer",
					Description: "Build and operate Go services for our hiring platform.",
					Company:     "Kaveri Systems",
					Location:    "Chennai",
				},
				{
					Title:       "Support Engineer",
					Description: "Help customers get the most from our products.",
					Company:     "Kaveri Systems",
					Location:    "Coimbatore",
				},
			},
		},
		{
			Name:   "Meena Raj",
			Mobile: "9000000003",
			Role:   domainauth.RoleEmployer,
			Jobs: []model.JobInput{
				{
					Title:       "Accountant",
					Description: "Maintain books and prepare monthly statements.",
					Company:     "Madurai Traders",
					Location:    "Madurai",
				},
			},
		},
		{Name: "Asha Devi", Mobile: "9000000002", Role: domainauth.RoleEmployee},
		{Name: "Karthik S", Mobile: "9000000004", Role: domainauth.RoleEmployee},
	}
}

// Run executes the full development seeding workflow. It is safe to run
// repeatedly: existing accounts, jobs and applications are left alone.
func Run(ctx context.Context, svcs Services, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	failures := 0
	users := map[string]*model.User{}

	for _, su := range defaultUsers() {
		u, err := ensureUser(ctx, svcs, su, logger)
		if err != nil {
			logger.ErrorContext(ctx, "failed to seed user", "mobile", su.Mobile, "error", err)
			failures++
			continue
		}
		users[su.Mobile] = u
		if su.Role == domainauth.RoleEmployer {
			failures += seedJobs(ctx, svcs, u, su.Jobs, logger)
		}
	}

	if employer, applicant := users["9000000001"], users["9000000002"]; employer != nil && applicant != nil {
		if err := seedApplication(ctx, svcs, employer, applicant, logger); err != nil {
			logger.ErrorContext(ctx, "failed to seed application", "error", err)
			failures++
		}
	}

	if failures > 0 {
		return fmt.Errorf("%d seed errors; check logs", failures)
	}
	return nil
}

func ensureUser(ctx context.Context, svcs Services, su seedUser, logger *slog.Logger) (*model.User, error) {
	existing, err := svcs.users.GetByMobile(ctx, su.Mobile)
	if err == nil {
		logger.InfoContext(ctx, "user already exists", "mobile", su.Mobile, "role", existing.Role)
		return existing, nil
	}
	if !errors.Is(err, data.ErrUserNotFound) {
		return nil, err
	}

	created, err := svcs.auth.Register(ctx, model.RegisterRequest{
		Name:     su.Name,
		Mobile:   su.Mobile,
		Password: DefaultPassword,
		Role:     string(su.Role),
	})
	if err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "created user", "mobile", su.Mobile, "role", su.Role)
	return created, nil
}

func seedJobs(ctx context.Context, svcs Services, employer *model.User, jobs []model.JobInput, logger *slog.Logger) int {
	posted, err := svcs.jobs.List(ctx, model.JobListOptions{UserID: employer.ID, Limit: 1})
	if err != nil {
		logger.ErrorContext(ctx, "failed to list employer jobs", "user_id", employer.ID, "error", err)
		return 1
	}
	if len(posted) > 0 {
		logger.InfoContext(ctx, "employer already has jobs", "user_id", employer.ID)
		return 0
	}

	failures := 0
	for _, in := range jobs {
		job, err := svcs.posts.Post(ctx, employer.ID, in)
		if err != nil {
			logger.ErrorContext(ctx, "failed to post job", "title", in.Title, "error", err)
			failures++
			continue
		}
		logger.InfoContext(ctx, "created job", "job_id", job.ID, "title", job.Title)
	}
	return failures
}

func seedApplication(ctx context.Context, svcs Services, employer, applicant *model.User, logger *slog.Logger) error {
	jobs, err := svcs.jobs.List(ctx, model.JobListOptions{UserID: employer.ID, Limit: 1})
	if err != nil {
		return fmt.Errorf("list jobs: %w", err)
	}
	if len(jobs) == 0 {
		return nil
	}

	app, err := svcs.apps.Apply(ctx, applicant.ID, jobs[0].ID, model.CreateApplicationRequest{
		Message: "I have five years of experience and would love to join your team.",
		Email:   "asha@example.com",
		Phone:   applicant.Mobile,
	})
	if errors.Is(err, data.ErrAlreadyApplied) {
		logger.InfoContext(ctx, "application already exists", "job_id", jobs[0].ID)
		return nil
	}
	if err != nil {
		return err
	}
	logger.InfoContext(ctx, "created application", "application_id", app.ID, "job_id", jobs[0].ID)
	return nil
}
