package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	domainauth "github.com/target/jobportal/internal/domain/auth"
	"github.com/target/jobportal/internal/domain/model"
	"github.com/target/jobportal/internal/http/ui/pages"
	"github.com/target/jobportal/internal/http/ui/viewmodel"
	"github.com/target/jobportal/internal/service"
)

// JobsService exposes the job operations used by the pages.
type JobsService interface {
	Post(ctx context.Context, employerID string, in model.JobInput) (*model.Job, error)
	GetByID(ctx context.Context, id string) (*model.Job, error)
	GetOwned(ctx context.Context, employerID, id string) (*model.Job, error)
	Update(ctx context.Context, employerID, id string, in model.JobInput) (*model.Job, error)
	Delete(ctx context.Context, employerID, id string) error
	Listing(ctx context.Context, q service.ListingQuery) (*service.Listing, error)
}

// ApplicationsService exposes the application operations used by the pages.
type ApplicationsService interface {
	Apply(ctx context.Context, applicantID, jobID string, form model.CreateApplicationRequest) (*model.Application, error)
	Management(ctx context.Context, employerID string) (*service.Management, error)
	Approved(ctx context.Context, applicantID string) ([]*model.ApplicationDetail, error)
	Decide(ctx context.Context, in service.DecideInput) (*model.DecisionResult, error)
}

// MessagesService exposes application threads.
type MessagesService interface {
	Thread(ctx context.Context, userID, applicationID string) (*service.Thread, error)
	Send(ctx context.Context, userID, applicationID, content string) (*model.Message, error)
}

// NotificationsService exposes a user's notifications.
type NotificationsService interface {
	List(ctx context.Context, userID string, page int) (*service.NotificationPage, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, userID, id string) error
	MarkAllRead(ctx context.Context, userID string) (int, error)
}

// Compile-time interface assertions to ensure concrete services satisfy their UI interfaces.
var (
	_ AuthServiceInterface = (*service.AuthService)(nil)
	_ JobsService          = (*service.JobService)(nil)
	_ ApplicationsService  = (*service.ApplicationService)(nil)
	_ MessagesService      = (*service.MessageService)(nil)
	_ NotificationsService = (*service.NotificationService)(nil)
)

// UIHandlers serves the browser-facing pages.
type UIHandlers struct {
	T             *TemplateRenderer
	Sessions      *SessionManager
	Auth          AuthServiceInterface
	Jobs          JobsService
	Applications  ApplicationsService
	Messages      MessagesService
	Notifications NotificationsService
	Logger        *slog.Logger
}

// logger returns the configured logger or falls back to slog.Default().
func (h *UIHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// PageMeta contains metadata for page rendering.
type PageMeta struct {
	// TitleKey is the translation key of the document title.
	TitleKey    string
	CurrentPage string
}

// buildLayout constructs shared layout metadata from the request/session context.
func (h *UIHandlers) buildLayout(w http.ResponseWriter, r *http.Request, meta PageMeta) viewmodel.Layout {
	tr := TranslatorFromContext(r.Context())
	sess := GetSessionFromContext(r.Context())

	layout := viewmodel.Layout{
		Title:       tr.T(meta.TitleKey, ""),
		CurrentPage: meta.CurrentPage,
		CSRFToken:   GetCSRFToken(r),
		Locale:      tr.Locale(),
	}
	if h.Sessions != nil {
		layout.Locales = h.Sessions.bundle.Locales()
		for _, f := range h.Sessions.popFlashes(w, r) {
			layout.Flashes = append(layout.Flashes, viewmodel.Flash{Category: string(f.Category), Message: f.Message})
		}
	}

	if sess.IsAuthenticated() {
		layout.User = &viewmodel.User{ID: sess.UserID, Name: sess.Name, Role: string(sess.Role)}
		layout.IsAuthenticated = true
		layout.IsEmployer = sess.IsEmployer()
		layout.IsEmployee = sess.IsEmployee()
		layout.UnreadCount = h.unreadCount(r.Context(), sess.UserID)
	}
	return layout
}

func (h *UIHandlers) unreadCount(ctx context.Context, userID string) int {
	if h.Notifications == nil {
		return 0
	}
	n, err := h.Notifications.UnreadCount(ctx, userID)
	if err != nil {
		h.logger().WarnContext(ctx, "unread count failed", "error", err)
		return 0
	}
	return n
}

// render fills the page's layout and writes the full page.
func (h *UIHandlers) render(w http.ResponseWriter, r *http.Request, page viewmodel.LayoutProvider, meta PageMeta) {
	*page.LayoutData() = h.buildLayout(w, r, meta)
	if err := h.T.RenderFull(w, r, page); err != nil {
		h.logAndRenderTemplateError(w, r, err)
	}
}

// NotFound renders the 404 page in the visitor's locale.
func (h *UIHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	h.renderErrorPage(w, r, http.StatusNotFound)
}

// renderErrorPage renders the standalone error page for status.
func (h *UIHandlers) renderErrorPage(w http.ResponseWriter, r *http.Request, status int) {
	tr := TranslatorFromContext(r.Context())
	page := &pages.ErrorPage{Status: status}
	page.Layout = h.buildLayout(w, r, PageMeta{TitleKey: "error_title"})
	if status == http.StatusNotFound {
		page.Title = tr.T("page_not_found", "Page not found")
		page.Heading = page.Title
		page.Detail = tr.T("page_not_found_detail", "")
	} else {
		page.Heading = page.Title
		page.Detail = tr.T("an_error_occurred", "")
	}
	if err := h.T.RenderError(w, r, status, page); err != nil {
		h.logAndRenderTemplateError(w, r, err)
	}
}

// logAndRenderTemplateError logs a failed render. Headers may already be
// gone, so the fallback body is best effort.
func (h *UIHandlers) logAndRenderTemplateError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger().ErrorContext(r.Context(), "template rendering failed",
		"error", err,
		"path", r.URL.Path,
		"method", r.Method,
	)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// flashError flashes the message for err and redirects to target. Errors
// without a user-facing message are logged and shown as an_error_occurred.
func (h *UIHandlers) flashError(w http.ResponseWriter, r *http.Request, err error, target string) {
	key, known := flashKeyFor(err)
	if !known {
		h.logger().ErrorContext(r.Context(), "request failed",
			"error", err,
			"path", r.URL.Path,
			"request_id", GetRequestID(r.Context()),
		)
	}
	h.Sessions.FlashRedirect(w, r, domainauth.FlashDanger, key, target)
}

// addErrorFlash queues the message for err on the current page.
func (h *UIHandlers) addErrorFlash(r *http.Request, err error) {
	key, known := flashKeyFor(err)
	if !known {
		h.logger().ErrorContext(r.Context(), "request failed", "error", err, "path", r.URL.Path)
	}
	h.Sessions.AddFlash(r, domainauth.FlashDanger, key)
}

// pageParam returns the 1-based page query parameter, capped at service.MaxPage.
func pageParam(q url.Values) int {
	if n, err := strconv.Atoi(q.Get("page")); err == nil && n > 0 {
		return min(n, service.MaxPage)
	}
	return 1
}

// buildPageURL returns basePath with page set, preserving the non-empty
// query parameters of q.
func buildPageURL(basePath string, q url.Values, page int) string {
	qq := make(url.Values, len(q))
	for k, v := range q {
		tmp := make([]string, 0, len(v))
		for _, s := range v {
			if strings.TrimSpace(s) != "" {
				tmp = append(tmp, s)
			}
		}
		if len(tmp) > 0 {
			qq[k] = tmp
		}
	}
	qq.Set("page", strconv.Itoa(page))
	return basePath + "?" + qq.Encode()
}

// pagination builds the prev/next links for a paged list.
func pagination(basePath string, q url.Values, page int, hasPrev, hasNext bool) viewmodel.Pagination {
	p := viewmodel.Pagination{Page: page, HasPrev: hasPrev, HasNext: hasNext}
	if hasPrev {
		p.PrevURL = buildPageURL(basePath, q, page-1)
	}
	if hasNext {
		p.NextURL = buildPageURL(basePath, q, page+1)
	}
	return p
}
