package httpx

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/jobportal/internal/data"
	domainauth "github.com/target/jobportal/internal/domain/auth"
	"github.com/target/jobportal/internal/domain/model"
	"github.com/target/jobportal/internal/service"
	"go.uber.org/mock/gomock"
)

func sampleJob(id, owner string) *model.Job {
	return &model.Job{
		ID:          id,
		Title:       "Go developer " + id,
		Description: "Build services",
		Company:     "Acme",
		Location:    "Chennai",
		PostedAt:    time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		UserID:      owner,
	}
}

func jobForm() url.Values {
	return url.Values{
		"title":       {"Go developer"},
		"description": {"Build services"},
		"company":     {"Acme"},
		"location":    {"Chennai"},
	}
}

func TestJobListing_Employee(t *testing.T) {
	h := newPageHarness(t)
	h.loginAs("u1", "Asha", domainauth.RoleEmployee)
	h.allowUnread(3)

	h.jobs.EXPECT().List(gomock.Any(), model.JobListOptions{Limit: 11}).
		Return([]*model.Job{sampleJob("j1", "e1"), sampleJob("j2", "e1")}, nil)
	h.apps.EXPECT().AppliedJobIDs(gomock.Any(), "u1", []string{"j1", "j2"}).
		Return(map[string]bool{"j2": true}, nil)

	resp := h.get("/job-listing")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, `data-job-id="j1"`)
	assert.Contains(t, body, `href="/apply-job/j1"`)
	assert.NotContains(t, body, `href="/apply-job/j2"`)
	assert.Contains(t, body, h.text("applied"))
	assert.Contains(t, body, `data-unread="3"`)
	assert.NotContains(t, body, `/edit-job/`)
}

func TestJobListing_EmployerFiltersAndPaging(t *testing.T) {
	h := newPageHarness(t)
	h.loginAs("e1", "Ravi", domainauth.RoleEmployer)
	h.allowUnread(0)

	jobs := make([]*model.Job, 11)
	for i := range jobs {
		owner := "e1"
		if i%2 == 1 {
			owner = "e2"
		}
		jobs[i] = sampleJob(string(rune('a'+i)), owner)
	}
	h.jobs.EXPECT().List(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, opts model.JobListOptions) ([]*model.Job, error) {
			assert.Equal(t, "go", opts.Title)
			assert.Equal(t, 11, opts.Limit)
			assert.Equal(t, 10, opts.Offset)
			require.NotNil(t, opts.PostedSince)
			assert.True(t, opts.PostedSince.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)),
				"date filter starts at UTC midnight, got %s", opts.PostedSince)
			assert.Equal(t, time.UTC, opts.PostedSince.Location())
			return jobs, nil
		})

	resp := h.get("/job-listing?filter_title=go&filter_date=2026-03-01&page=2")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, `href="/edit-job/a"`)
	assert.NotContains(t, body, `href="/edit-job/b"`, "only the owner manages a job")
	assert.NotContains(t, body, `data-job-id="k"`, "the look-ahead row is not shown")
	assert.Contains(t, body, `value="go"`)
	assert.Contains(t, body, "page=1")
	assert.Contains(t, body, "page=3")
	assert.NotContains(t, body, `data-unread`)
}

func TestJobListing_InvalidDateIgnored(t *testing.T) {
	h := newPageHarness(t)
	h.loginAs("u1", "Asha", domainauth.RoleEmployee)
	h.allowUnread(0)

	h.jobs.EXPECT().List(gomock.Any(), model.JobListOptions{Limit: 11}).Return(nil, nil)

	resp := h.get("/job-listing?filter_date=yesterday")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, h.text("no_jobs_found"))
	assert.NotContains(t, body, `value="yesterday"`)
}

func TestJobListing_HugePageIsCapped(t *testing.T) {
	h := newPageHarness(t)
	h.loginAs("u1", "Asha", domainauth.RoleEmployee)
	h.allowUnread(0)

	h.jobs.EXPECT().List(gomock.Any(), model.JobListOptions{
		Limit:  11,
		Offset: (service.MaxPage - 1) * service.JobListingPageSize,
	}).Return(nil, nil)

	resp := h.get("/job-listing?page=1000000000000000000")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, h.text("no_jobs_found"))
	assert.Contains(t, body, "page="+strconv.Itoa(service.MaxPage-1))
}

func TestPageParam(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", 1},
		{"0", 1},
		{"-4", 1},
		{"abc", 1},
		{"7", 7},
		{"1000000000000000000", service.MaxPage},
		{"99999999999999999999999", 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, pageParam(url.Values{"page": {tt.raw}}), "page=%q", tt.raw)
	}
}

func TestJobListing_RequiresLogin(t *testing.T) {
	h := newPageHarness(t)

	requireRedirect(t, h.get("/job-listing"), "/")
	assert.Equal(t, []string{h.msg("must_be_logged_in_to_view_jobs")}, h.flashes())
}

func TestJobPosting(t *testing.T) {
	t.Run("employee is turned away", func(t *testing.T) {
		h := newPageHarness(t)
		h.loginAs("u1", "Asha", domainauth.RoleEmployee)

		requireRedirect(t, h.get("/job-posting"), "/job-listing")
		assert.Equal(t, []string{h.msg("not_authorized_to_post_jobs")}, h.flashes())
	})

	t.Run("form renders", func(t *testing.T) {
		h := newPageHarness(t)
		h.loginAs("e1", "Ravi", domainauth.RoleEmployer)
		h.allowUnread(0)

		resp := h.get("/job-posting")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := readBody(t, resp)
		assert.Contains(t, body, `action="/job-posting"`)
		assert.Contains(t, body, h.text("submit"))
	})

	t.Run("success", func(t *testing.T) {
		h := newPageHarness(t)
		h.loginAs("e1", "Ravi", domainauth.RoleEmployer)
		h.jobs.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, req *model.CreateJobRequest) (*model.Job, error) {
				assert.Equal(t, "e1", req.UserID)
				assert.Equal(t, "Go developer", req.Title)
				return sampleJob("j1", "e1"), nil
			})

		requireRedirect(t, h.post("/job-posting", jobForm()), "/job-listing")
		assert.Equal(t, []string{h.msg("job_posted_successfully")}, h.flashes())
	})

	t.Run("blank field re-renders with input", func(t *testing.T) {
		h := newPageHarness(t)
		h.loginAs("e1", "Ravi", domainauth.RoleEmployer)
		h.allowUnread(0)
		f := jobForm()
		f.Set("company", "  ")

		resp := h.post("/job-posting", f)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := readBody(t, resp)
		assert.Contains(t, body, h.text("all_fields_required"))
		assert.Contains(t, body, `value="Go developer"`)
		assert.Empty(t, h.flashes(), "the flash is shown once")
	})
}

func TestEditJob(t *testing.T) {
	t.Run("form is prefilled", func(t *testing.T) {
		h := newPageHarness(t)
		h.loginAs("e1", "Ravi", domainauth.RoleEmployer)
		h.allowUnread(0)
		h.jobs.EXPECT().GetByID(gomock.Any(), "j1").Return(sampleJob("j1", "e1"), nil)

		resp := h.get("/edit-job/j1")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := readBody(t, resp)
		assert.Contains(t, body, `action="/edit-job/j1"`)
		assert.Contains(t, body, `value="Go developer j1"`)
		assert.Contains(t, body, h.text("save"))
	})

	t.Run("foreign job", func(t *testing.T) {
		h := newPageHarness(t)
		h.loginAs("e1", "Ravi", domainauth.RoleEmployer)
		h.jobs.EXPECT().GetByID(gomock.Any(), "j1").Return(sampleJob("j1", "e2"), nil)

		requireRedirect(t, h.get("/edit-job/j1"), "/job-listing")
		assert.Equal(t, []string{h.msg("not_authorized_to_edit_this_job")}, h.flashes())
	})

	t.Run("missing job", func(t *testing.T) {
		h := newPageHarness(t)
		h.loginAs("e1", "Ravi", domainauth.RoleEmployer)
		h.jobs.EXPECT().GetByID(gomock.Any(), "nope").Return(nil, data.ErrJobNotFound)

		requireRedirect(t, h.get("/edit-job/nope"), "/job-listing")
		assert.Equal(t, []string{h.msg("job_not_found")}, h.flashes())
	})

	t.Run("save", func(t *testing.T) {
		h := newPageHarness(t)
		h.loginAs("e1", "Ravi", domainauth.RoleEmployer)
		gomock.InOrder(
			h.jobs.EXPECT().GetByID(gomock.Any(), "j1").Return(sampleJob("j1", "e1"), nil),
			h.jobs.EXPECT().Update(gomock.Any(), "j1", model.JobInput{
				Title:       "Go developer",
				Description: "Build services",
				Company:     "Acme",
				Location:    "Chennai",
			}).Return(sampleJob("j1", "e1"), nil),
		)

		requireRedirect(t, h.post("/edit-job/j1", jobForm()), "/job-listing")
		assert.Equal(t, []string{h.msg("job_updated_successfully")}, h.flashes())
	})

	t.Run("save foreign job", func(t *testing.T) {
		h := newPageHarness(t)
		h.loginAs("e1", "Ravi", domainauth.RoleEmployer)
		h.jobs.EXPECT().GetByID(gomock.Any(), "j1").Return(sampleJob("j1", "e2"), nil)

		requireRedirect(t, h.post("/edit-job/j1", jobForm()), "/job-listing")
		assert.Equal(t, []string{h.msg("not_authorized_to_edit_this_job")}, h.flashes())
	})
}

func TestDeleteJob(t *testing.T) {
	t.Run("owner", func(t *testing.T) {
		h := newPageHarness(t)
		h.loginAs("e1", "Ravi", domainauth.RoleEmployer)
		h.jobs.EXPECT().GetByID(gomock.Any(), "j1").Return(sampleJob("j1", "e1"), nil)
		h.jobs.EXPECT().Delete(gomock.Any(), "j1").Return(true, nil)

		requireRedirect(t, h.post("/delete-job/j1", nil), "/job-listing")
		assert.Equal(t, []string{h.msg("job_deleted_successfully")}, h.flashes())
	})

	t.Run("not the owner", func(t *testing.T) {
		h := newPageHarness(t)
		h.loginAs("e1", "Ravi", domainauth.RoleEmployer)
		h.jobs.EXPECT().GetByID(gomock.Any(), "j1").Return(sampleJob("j1", "e2"), nil)

		requireRedirect(t, h.post("/delete-job/j1", nil), "/job-listing")
		assert.Equal(t, []string{h.msg("not_authorized_to_delete_this_job")}, h.flashes())
	})

	t.Run("employee", func(t *testing.T) {
		h := newPageHarness(t)
		h.loginAs("u1", "Asha", domainauth.RoleEmployee)

		requireRedirect(t, h.post("/delete-job/j1", nil), "/job-listing")
		assert.Equal(t, []string{h.msg("not_authorized_to_delete_jobs")}, h.flashes())
	})
}
