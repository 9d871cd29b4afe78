// Package pages defines the typed view models passed to the page templates.
package pages

import (
	"time"

	"github.com/target/jobportal/internal/domain/model"
	"github.com/target/jobportal/internal/http/ui/viewmodel"
)

// JobRow is one job in the listing.
type JobRow struct {
	*model.Job
	// Applied is set when the viewing employee already applied.
	Applied bool
	// CanManage is set when the viewer posted the job.
	CanManage bool
}

// JobFilters echoes the listing filters back into the form.
type JobFilters struct {
	Title    string
	Location string
	Date     string
}

// Active reports whether any filter is set.
func (f JobFilters) Active() bool {
	return f.Title != "" || f.Location != "" || f.Date != ""
}

// ListingPage is the job listing.
type ListingPage struct {
	viewmodel.Layout

	Jobs       []JobRow
	Filters    JobFilters
	Pagination viewmodel.Pagination
}

// JobFormPage backs both the posting and the edit form.
type JobFormPage struct {
	viewmodel.Layout

	Mode   string
	Action string
	Job    model.JobInput
}

// IsEdit reports whether the form edits an existing job.
func (p *JobFormPage) IsEdit() bool { return p.Mode == "edit" }

// ApplyPage is the application form for one job.
type ApplyPage struct {
	viewmodel.Layout

	Job  *model.Job
	Form model.CreateApplicationRequest
}

// ApplicationRow is an application together with its messages.
type ApplicationRow struct {
	*model.ApplicationDetail
	Messages []*model.Message
}

// StatusBadgeClass returns the CSS modifier for the status badge.
func (r ApplicationRow) StatusBadgeClass() string {
	switch r.Status {
	case model.ApplicationStatusApproved:
		return "badge-success"
	case model.ApplicationStatusRejected:
		return "badge-danger"
	default:
		return "badge-warning"
	}
}

// Pending reports whether the employer can still decide the application.
func (r ApplicationRow) Pending() bool {
	return r.Status == model.ApplicationStatusPending
}

// ManagementPage lists the employer's jobs and the applications to them.
type ManagementPage struct {
	viewmodel.Layout

	Jobs         []*model.Job
	Applications []ApplicationRow
}

// ApprovedPage lists the employee's approved applications.
type ApprovedPage struct {
	viewmodel.Layout

	Applications []ApplicationRow
}

// ThreadPage shows one application's messages.
type ThreadPage struct {
	viewmodel.Layout

	Application ApplicationRow
}

// NotificationRow is one notification.
type NotificationRow struct {
	*model.Notification
}

// NotificationsPage is one page of the viewer's notifications.
type NotificationsPage struct {
	viewmodel.Layout

	Items      []NotificationRow
	Pagination viewmodel.Pagination
}

// HasUnread reports whether any listed notification is unread.
func (p *NotificationsPage) HasUnread() bool {
	for _, n := range p.Items {
		if !n.IsRead {
			return true
		}
	}
	return false
}

// AuthPage backs the login and registration forms.
type AuthPage struct {
	viewmodel.Layout

	Mobile string
	Name   string
	Role   string
}

// ErrorPage is rendered for 404 and unexpected failures.
type ErrorPage struct {
	viewmodel.Layout

	Status  int
	Heading string
	Detail  string
}

// NewJobRows wraps jobs for display. applied marks jobs the viewer applied to.
func NewJobRows(jobs []*model.Job, applied map[string]bool, viewerID string) []JobRow {
	rows := make([]JobRow, 0, len(jobs))
	for _, j := range jobs {
		rows = append(rows, JobRow{Job: j, Applied: applied[j.ID], CanManage: j.OwnedBy(viewerID)})
	}
	return rows
}

// NewNotificationRows wraps notifications for display.
func NewNotificationRows(items []*model.Notification) []NotificationRow {
	rows := make([]NotificationRow, len(items))
	for i, n := range items {
		rows[i] = NotificationRow{Notification: n}
	}
	return rows
}

// ParseDateFilter parses a YYYY-MM-DD filter in loc. An empty or malformed
// value yields nil.
func ParseDateFilter(value string, loc *time.Location) *time.Time {
	if value == "" {
		return nil
	}
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(time.DateOnly, value, loc)
	if err != nil {
		return nil
	}
	return &t
}
