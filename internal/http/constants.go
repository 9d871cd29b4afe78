package httpx

// CurrentPage constants define the page identifiers used in templates and navigation.
// These constants ensure consistency across UI handlers and template mapping.
const (
	// Public pages.
	PageLogin    = "login"
	PageRegister = "register"

	// Job pages.
	PageJobListing = "job-listing"
	PageJobPosting = "job-posting"
	PageEditJob    = "edit-job"
	PageApplyJob   = "apply-job"

	// Application pages.
	PageApplicationManagement = "application-management"
	PageApprovedJobs          = "approved-jobs"
	PageMessages              = "view-messages"

	PageNotifications = "notifications"
)

// Cookie names shared by the session and CSRF middleware.
const (
	SessionCookieName = "session_id"
)

// Template paths used for loading templates in tests and production.
const (
	// Template directory paths.
	TemplatePathFromRoot = "frontend/templates"       // From project root
	TemplatePathFromTest = "../../frontend/templates" // From internal/http test files
)

// FormMode represents the mode of a form (create or edit).
// Using a dedicated type improves compile-time checks and prevents typos.
type FormMode string

const (
	// FormModeEdit indicates the form is in edit mode.
	FormModeEdit FormMode = "edit"
	// FormModeCreate indicates the form is in create mode.
	FormModeCreate FormMode = "create"
)

// Content templates are defined once and reused to avoid per-call allocations.
//
//nolint:gochecknoglobals // static read-only lookup for templates; avoids per-call allocations
var contentTemplates = map[string]string{
	PageLogin:                 "login-content",
	PageRegister:              "register-content",
	PageJobListing:            "job-listing-content",
	PageJobPosting:            "job-form-content",
	PageEditJob:               "job-form-content",
	PageApplyJob:              "apply-job-content",
	PageApplicationManagement: "application-management-content",
	PageApprovedJobs:          "approved-jobs-content",
	PageMessages:              "messages-content",
	PageNotifications:         "notifications-content",
}

// ContentTemplateMap returns the mapping from CurrentPage to template name.
// This is the single source of truth for page-to-template mapping.
func ContentTemplateMap() map[string]string { return contentTemplates }

// ContentTemplateFor returns the content template for the given CurrentPage.
// Falls back to the job listing for unknown pages.
func ContentTemplateFor(currentPage string) string {
	if name, ok := ContentTemplateMap()[currentPage]; ok {
		return name
	}
	return "job-listing-content"
}
