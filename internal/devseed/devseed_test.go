package devseed

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/jobportal/internal/data"
	domainauth "github.com/target/jobportal/internal/domain/auth"
	"github.com/target/jobportal/internal/domain/model"
	"github.com/target/jobportal/internal/mocks"
	mockauth "github.com/target/jobportal/internal/mocks/auth"
	"go.uber.org/mock/gomock"
)

type seedMocks struct {
	users *mocks.MockUserRepository
	jobs  *mocks.MockJobRepository
	apps  *mocks.MockApplicationRepository
	svcs  Services
}

func newSeedMocks(t *testing.T) *seedMocks {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := &seedMocks{
		users: mocks.NewMockUserRepository(ctrl),
		jobs:  mocks.NewMockJobRepository(ctrl),
		apps:  mocks.NewMockApplicationRepository(ctrl),
	}
	m.svcs = NewServicesWithOptions(ServicesOptions{
		Users:        m.users,
		Jobs:         m.jobs,
		Applications: m.apps,
		Hasher:       mockauth.PlainHasher{},
		Logger:       discardLogger(),
	})
	return m
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRun_FreshDatabase(t *testing.T) {
	m := newSeedMocks(t)
	ctx := context.Background()

	m.users.EXPECT().GetByMobile(gomock.Any(), gomock.Any()).Return(nil, data.ErrUserNotFound).Times(4)
	m.users.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req *model.CreateUserRequest) (*model.User, error) {
			assert.Equal(t, "plain:"+DefaultPassword, req.PasswordHash)
			return &model.User{ID: "u-" + req.Mobile, Name: req.Name, Mobile: req.Mobile, Role: req.Role}, nil
		}).Times(4)

	posted := map[string][]*model.Job{}
	m.jobs.EXPECT().List(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, opts model.JobListOptions) ([]*model.Job, error) {
			return posted[opts.UserID], nil
		}).AnyTimes()
	m.jobs.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req *model.CreateJobRequest) (*model.Job, error) {
			job := &model.Job{ID: "j-" + req.Title, Title: req.Title, UserID: req.UserID}
			posted[req.UserID] = append(posted[req.UserID], job)
			return job, nil
		}).Times(3)
	m.apps.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req *model.CreateApplicationRequest) (*model.Application, error) {
			assert.Equal(t, "u-9000000002", req.ApplicantID)
			assert.Equal(t, "j-Backend Developer", req.JobID)
			return &model.Application{ID: "a1", JobID: req.JobID, ApplicantID: req.ApplicantID}, nil
		})

	require.NoError(t, Run(ctx, m.svcs, discardLogger()))
}

func TestRun_IsRepeatable(t *testing.T) {
	m := newSeedMocks(t)

	m.users.EXPECT().GetByMobile(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, mobile string) (*model.User, error) {
			role := domainauth.RoleEmployee
			if mobile == "9000000001" || mobile == "9000000003" {
				role = domainauth.RoleEmployer
			}
			return &model.User{ID: "u-" + mobile, Mobile: mobile, Role: role}, nil
		}).Times(4)
	m.jobs.EXPECT().List(gomock.Any(), gomock.Any()).Return([]*model.Job{{ID: "j1"}}, nil).Times(3)
	m.apps.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, data.ErrAlreadyApplied)

	require.NoError(t, Run(context.Background(), m.svcs, nil))
}

func TestRun_CountsFailures(t *testing.T) {
	m := newSeedMocks(t)

	m.users.EXPECT().GetByMobile(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection refused")).Times(4)

	err := Run(context.Background(), m.svcs, discardLogger())
	require.EqualError(t, err, "4 seed errors; check logs")
}
