package httpx

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/target/jobportal/internal/data"
	domainauth "github.com/target/jobportal/internal/domain/auth"
	"github.com/target/jobportal/internal/domain/model"
	"github.com/target/jobportal/internal/http/ui/pages"
	"github.com/target/jobportal/internal/service"
)

// denial redirects a failed ownership or lookup check back to a list page.
type denial struct {
	err       error
	target    string
	deniedKey string

	// deniedTarget overrides target for ownership failures.
	deniedTarget string
}

// deny flashes deniedKey for ownership failures and the mapped message for
// everything else.
func (h *UIHandlers) deny(w http.ResponseWriter, r *http.Request, d denial) {
	if d.deniedKey != "" && (errors.Is(d.err, data.ErrNotJobOwner) || errors.Is(d.err, service.ErrNotParticipant)) {
		target := d.target
		if d.deniedTarget != "" {
			target = d.deniedTarget
		}
		h.Sessions.FlashRedirect(w, r, domainauth.FlashDanger, d.deniedKey, target)
		return
	}
	h.flashError(w, r, d.err, d.target)
}

// JobListing renders one page of jobs, newest first, with optional filters.
// GET /job-listing.
func (h *UIHandlers) JobListing(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sess := GetSessionFromContext(r.Context())
	filters := pages.JobFilters{
		Title:    strings.TrimSpace(q.Get("filter_title")),
		Location: strings.TrimSpace(q.Get("filter_location")),
		Date:     strings.TrimSpace(q.Get("filter_date")),
	}
	postedSince := pages.ParseDateFilter(filters.Date, time.UTC)
	if postedSince == nil {
		filters.Date = ""
	}

	query := service.ListingQuery{
		Filters: model.JobListOptions{
			Title:       filters.Title,
			Location:    filters.Location,
			PostedSince: postedSince,
		},
		Page: pageParam(q),
	}
	if sess.IsEmployee() {
		query.ApplicantID = sess.UserID
	}

	listing, err := h.Jobs.Listing(r.Context(), query)
	if err != nil {
		h.logger().ErrorContext(r.Context(), "job listing failed", "error", err)
		h.renderErrorPage(w, r, http.StatusInternalServerError)
		return
	}
	page := &pages.ListingPage{
		Jobs:       pages.NewJobRows(listing.Jobs, listing.Applied, sess.UserID),
		Filters:    filters,
		Pagination: pagination("/job-listing", q, listing.Page, listing.HasPrev, listing.HasNext),
	}
	h.render(w, r, page, PageMeta{TitleKey: "job_listing", CurrentPage: PageJobListing})
}

func jobInputFromForm(r *http.Request) model.JobInput {
	return model.JobInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Company:     r.FormValue("company"),
		Location:    r.FormValue("location"),
	}
}

func (h *UIHandlers) renderJobForm(w http.ResponseWriter, r *http.Request, page *pages.JobFormPage) {
	meta := PageMeta{TitleKey: "job_posting", CurrentPage: PageJobPosting}
	if page.IsEdit() {
		meta = PageMeta{TitleKey: "edit_job", CurrentPage: PageEditJob}
	}
	h.render(w, r, page, meta)
}

// JobPostingPage renders an empty job form.
// GET /job-posting.
func (h *UIHandlers) JobPostingPage(w http.ResponseWriter, r *http.Request) {
	h.renderJobForm(w, r, &pages.JobFormPage{Mode: string(FormModeCreate), Action: "/job-posting"})
}

// JobPosting creates a job owned by the employer.
// POST /job-posting.
func (h *UIHandlers) JobPosting(w http.ResponseWriter, r *http.Request) {
	in := jobInputFromForm(r)
	sess := GetSessionFromContext(r.Context())
	if _, err := h.Jobs.Post(r.Context(), sess.UserID, in); err != nil {
		h.addErrorFlash(r, err)
		h.renderJobForm(w, r, &pages.JobFormPage{Mode: string(FormModeCreate), Action: "/job-posting", Job: in})
		return
	}
	h.Sessions.FlashRedirect(w, r, domainauth.FlashSuccess, "job_posted_successfully", "/job-listing")
}

// EditJobPage renders the form for one of the employer's jobs.
// GET /edit-job/{id}.
func (h *UIHandlers) EditJobPage(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	job, err := h.Jobs.GetOwned(r.Context(), GetSessionFromContext(r.Context()).UserID, id)
	if err != nil {
		h.deny(w, r, denial{err: err, target: "/job-listing", deniedKey: "not_authorized_to_edit_this_job"})
		return
	}
	h.renderJobForm(w, r, &pages.JobFormPage{
		Mode:   string(FormModeEdit),
		Action: "/edit-job/" + id,
		Job: model.JobInput{
			Title:       job.Title,
			Description: job.Description,
			Company:     job.Company,
			Location:    job.Location,
		},
	})
}

// EditJob saves changes to one of the employer's jobs.
// POST /edit-job/{id}.
func (h *UIHandlers) EditJob(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	in := jobInputFromForm(r)
	_, err := h.Jobs.Update(r.Context(), GetSessionFromContext(r.Context()).UserID, id, in)
	var fieldErr *model.FieldError
	switch {
	case err == nil:
		h.Sessions.FlashRedirect(w, r, domainauth.FlashSuccess, "job_updated_successfully", "/job-listing")
	case errors.As(err, &fieldErr):
		h.addErrorFlash(r, err)
		h.renderJobForm(w, r, &pages.JobFormPage{Mode: string(FormModeEdit), Action: "/edit-job/" + id, Job: in})
	default:
		h.deny(w, r, denial{err: err, target: "/job-listing", deniedKey: "not_authorized_to_edit_this_job"})
	}
}

// DeleteJob removes one of the employer's jobs with its applications.
// POST /delete-job/{id}.
func (h *UIHandlers) DeleteJob(w http.ResponseWriter, r *http.Request) {
	err := h.Jobs.Delete(r.Context(), GetSessionFromContext(r.Context()).UserID, r.PathValue("id"))
	if err != nil {
		h.deny(w, r, denial{err: err, target: "/job-listing", deniedKey: "not_authorized_to_delete_this_job"})
		return
	}
	h.Sessions.FlashRedirect(w, r, domainauth.FlashSuccess, "job_deleted_successfully", "/job-listing")
}
