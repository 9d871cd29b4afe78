package httpx

import (
	"errors"
	"net/http"

	"github.com/target/jobportal/internal/data"
	domainauth "github.com/target/jobportal/internal/domain/auth"
	"github.com/target/jobportal/internal/domain/model"
	"github.com/target/jobportal/internal/http/ui/pages"
	"github.com/target/jobportal/internal/service"
)

// ApplyJobPage renders the application form for a job.
// GET /apply-job/{id}.
func (h *UIHandlers) ApplyJobPage(w http.ResponseWriter, r *http.Request) {
	job, err := h.Jobs.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		h.flashError(w, r, err, "/job-listing")
		return
	}
	h.render(w, r, &pages.ApplyPage{Job: job}, PageMeta{TitleKey: "apply_job", CurrentPage: PageApplyJob})
}

// ApplyJob submits the employee's application.
// POST /apply-job/{id}.
func (h *UIHandlers) ApplyJob(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	form := model.CreateApplicationRequest{
		Message: r.FormValue("message"),
		Email:   r.FormValue("email"),
		Phone:   r.FormValue("phone"),
	}
	_, err := h.Applications.Apply(r.Context(), GetSessionFromContext(r.Context()).UserID, id, form)
	var fieldErr *model.FieldError
	switch {
	case err == nil:
		h.Sessions.FlashRedirect(w, r, domainauth.FlashSuccess, "application_submitted_successfully", "/job-listing")
	case errors.As(err, &fieldErr):
		job, jobErr := h.Jobs.GetByID(r.Context(), id)
		if jobErr != nil {
			h.flashError(w, r, jobErr, "/job-listing")
			return
		}
		h.addErrorFlash(r, err)
		h.render(w, r, &pages.ApplyPage{Job: job, Form: form}, PageMeta{TitleKey: "apply_job", CurrentPage: PageApplyJob})
	case errors.Is(err, data.ErrAlreadyApplied):
		h.Sessions.FlashRedirect(w, r, domainauth.FlashWarning, "already_applied", "/job-listing")
	default:
		h.flashError(w, r, err, "/job-listing")
	}
}

// ApplicationManagement lists the employer's jobs and the applications to them.
// GET /application-management.
func (h *UIHandlers) ApplicationManagement(w http.ResponseWriter, r *http.Request) {
	m, err := h.Applications.Management(r.Context(), GetSessionFromContext(r.Context()).UserID)
	if err != nil {
		h.logger().ErrorContext(r.Context(), "application management failed", "error", err)
		h.renderErrorPage(w, r, http.StatusInternalServerError)
		return
	}
	page := &pages.ManagementPage{Jobs: m.Jobs, Applications: make([]pages.ApplicationRow, 0, len(m.Threads))}
	for _, t := range m.Threads {
		page.Applications = append(page.Applications, pages.ApplicationRow{ApplicationDetail: t.Detail, Messages: t.Messages})
	}
	h.render(w, r, page, PageMeta{TitleKey: "application_management", CurrentPage: PageApplicationManagement})
}

// ApproveApplication approves a pending application.
// POST /approve-application/{id}.
func (h *UIHandlers) ApproveApplication(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, decision{
		status:     model.ApplicationStatusApproved,
		successKey: "application_approved_successfully",
		deniedKey:  "not_authorized_to_approve_applications",
	})
}

// RejectApplication rejects a pending application.
// POST /reject-application/{id}.
func (h *UIHandlers) RejectApplication(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, decision{
		status:     model.ApplicationStatusRejected,
		successKey: "application_rejected_successfully",
		deniedKey:  "not_authorized_to_reject_applications",
	})
}

type decision struct {
	status     model.ApplicationStatus
	successKey string
	deniedKey  string
}

func (h *UIHandlers) decide(w http.ResponseWriter, r *http.Request, d decision) {
	const target = "/application-management"
	_, err := h.Applications.Decide(r.Context(), service.DecideInput{
		EmployerID:    GetSessionFromContext(r.Context()).UserID,
		ApplicationID: r.PathValue("id"),
		Status:        d.status,
		Locale:        TranslatorFromContext(r.Context()).Locale(),
	})
	if err != nil {
		h.deny(w, r, denial{err: err, target: target, deniedKey: d.deniedKey})
		return
	}
	h.Sessions.FlashRedirect(w, r, domainauth.FlashSuccess, d.successKey, target)
}

// ApprovedJobs lists the employee's approved applications.
// GET /approved-jobs.
func (h *UIHandlers) ApprovedJobs(w http.ResponseWriter, r *http.Request) {
	apps, err := h.Applications.Approved(r.Context(), GetSessionFromContext(r.Context()).UserID)
	if err != nil {
		h.logger().ErrorContext(r.Context(), "approved jobs failed", "error", err)
		h.renderErrorPage(w, r, http.StatusInternalServerError)
		return
	}
	page := &pages.ApprovedPage{Applications: make([]pages.ApplicationRow, len(apps))}
	for i, a := range apps {
		page.Applications[i] = pages.ApplicationRow{ApplicationDetail: a}
	}
	h.render(w, r, page, PageMeta{TitleKey: "approved_jobs", CurrentPage: PageApprovedJobs})
}
