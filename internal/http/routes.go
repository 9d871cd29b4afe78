package httpx

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"regexp"

	jobportal "github.com/target/jobportal"
	domainauth "github.com/target/jobportal/internal/domain/auth"
	httpassets "github.com/target/jobportal/internal/http/assets"
	"github.com/target/jobportal/internal/i18n"
	"github.com/target/jobportal/internal/observability/metrics"
)

// RouterServices holds everything the HTTP router needs.
type RouterServices struct {
	Auth          AuthServiceInterface
	Jobs          JobsService
	Applications  ApplicationsService
	Messages      MessagesService
	Notifications NotificationsService
	Translations  *i18n.Bundle

	Metrics        metrics.Recorder
	MetricsHandler http.Handler // Served at MetricsPath when set
	MetricsPath    string
	HealthChecks   []HealthCheck

	CookieDomain string
	CookieSecure bool
	Compression  *CompressionConfig // nil disables gzip

	IsDev      bool  // Serve templates and static files from disk
	TemplateFS fs.FS // Overrides the template filesystem (tests)
	Logger     *slog.Logger
}

// NewRouter builds the application handler. Static files, health and metrics
// are served without touching the session store; every other route runs
// behind the session and CSRF middleware.
func NewRouter(services RouterServices) (http.Handler, error) {
	if services.Auth == nil || services.Translations == nil {
		return nil, errors.New("router: auth service and translations are required")
	}
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ui, err := setupUIHandlers(services, logger)
	if err != nil {
		return nil, err
	}

	pages := http.NewServeMux()
	registerPageRoutes(routeRegistrar{mux: pages, metrics: services.Metrics}, ui)

	csrf := CSRFProtection(CSRFConfig{
		CookieDomain: services.CookieDomain,
		Secure:       services.CookieSecure,
		OnFailure:    csrfFailureHandler(ui.Sessions),
	})
	app := chain(&notFoundHandler{mux: pages, ui: ui}, ui.Sessions.Load, csrf)

	root := http.NewServeMux()
	root.Handle("GET /static/", staticHandler(services.IsDev))
	health := healthHandler(services.HealthChecks)
	root.Handle("GET /healthz", health)
	root.Handle("HEAD /healthz", health)
	if services.MetricsHandler != nil {
		path := services.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		root.Handle("GET "+path, services.MetricsHandler)
	}
	root.Handle("/", app)

	mws := []func(http.Handler) http.Handler{Recover(logger), RequestID(), Logging(logger)}
	if services.Compression != nil {
		mws = append(mws, Compression(*services.Compression))
	}
	return chain(root, mws...), nil
}

// setupUIHandlers wires the session manager and renderer. In dev mode
// templates and the asset manifest come from disk, otherwise from the
// embedded filesystem.
func setupUIHandlers(services RouterServices, logger *slog.Logger) (*UIHandlers, error) {
	templateFS, criticalCSSFS, resolver := templateSources(services.IsDev, logger)
	if services.TemplateFS != nil {
		templateFS = services.TemplateFS
	}
	resolver.SetLogger(logger)

	tr, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS:    templateFS,
		Translations:  services.Translations,
		Resolver:      resolver,
		CriticalCSSFS: criticalCSSFS,
		DevMode:       services.IsDev,
		Logger:        logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create template renderer: %w", err)
	}

	sessions := NewSessionManager(SessionManagerOptions{
		Auth:         services.Auth,
		Translations: services.Translations,
		CookieDomain: services.CookieDomain,
		CookieSecure: services.CookieSecure,
		Logger:       logger,
	})

	return &UIHandlers{
		T:             tr,
		Sessions:      sessions,
		Auth:          services.Auth,
		Jobs:          services.Jobs,
		Applications:  services.Applications,
		Messages:      services.Messages,
		Notifications: services.Notifications,
		Logger:        logger,
	}, nil
}

func templateSources(isDev bool, logger *slog.Logger) (fs.FS, fs.FS, *AssetResolver) {
	diskManifest := filepath.Join("frontend", "static", "manifest.json")
	if isDev {
		resolver, err := httpassets.NewAssetResolverFromDisk(diskManifest)
		if err != nil {
			logger.Warn("asset manifest unavailable; using logical names", "path", diskManifest, "error", err)
			resolver = &AssetResolver{}
		}
		return os.DirFS(TemplatePathFromRoot), os.DirFS("frontend/static"), resolver
	}

	templateFS, err := fs.Sub(jobportal.TemplateFS, "frontend/templates")
	if err != nil {
		logger.Warn("embedded templates unavailable; falling back to disk", "error", err)
		templateFS = os.DirFS(TemplatePathFromRoot)
	}
	staticFS, err := fs.Sub(jobportal.StaticFS, "frontend/static")
	if err != nil {
		logger.Warn("embedded static assets unavailable", "error", err)
		return templateFS, nil, &AssetResolver{}
	}
	resolver, err := httpassets.NewAssetResolverFromFS(staticFS, "manifest.json")
	if err != nil {
		logger.Warn("embedded asset manifest unreadable; using logical names", "error", err)
		resolver = &AssetResolver{}
	}
	return templateFS, staticFS, resolver
}

// csrfFailureHandler flashes the rejection and sends the browser back to the
// page it came from.
func csrfFailureHandler(sm *SessionManager) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sm.FlashRedirect(w, r, domainauth.FlashDanger, "invalid_csrf_token", sameOriginReferer(r, "/"))
	})
}

// routeRegistrar registers page routes with per-pattern instrumentation.
type routeRegistrar struct {
	mux     *http.ServeMux
	metrics metrics.Recorder
}

func (rr routeRegistrar) handle(pattern string, h http.HandlerFunc, mws ...func(http.Handler) http.Handler) {
	rr.mux.Handle(pattern, Instrument(rr.metrics, pattern)(chain(h, mws...)))
}

func registerPageRoutes(rr routeRegistrar, h *UIHandlers) {
	registerAuthRoutes(rr, h)
	registerJobRoutes(rr, h)
	registerApplicationRoutes(rr, h)
	registerMessageRoutes(rr, h)
	registerNotificationRoutes(rr, h)
}

func registerAuthRoutes(rr routeRegistrar, h *UIHandlers) {
	rr.handle("GET /{$}", h.LoginPage)
	rr.handle("POST /{$}", h.Login)
	rr.handle("GET /register", h.RegisterPage)
	rr.handle("POST /register", h.Register)
	rr.handle("POST /logout", h.Logout)
	rr.handle("GET /set-language/{lang}", h.SetLanguage)
}

func registerJobRoutes(rr routeRegistrar, h *UIHandlers) {
	sm := h.Sessions
	rr.handle("GET /job-listing", h.JobListing, RequireAuthBrowser(sm, "must_be_logged_in_to_view_jobs"))

	post := RequireRoleBrowser(sm, domainauth.RoleEmployer, "not_authorized_to_post_jobs")
	rr.handle("GET /job-posting", h.JobPostingPage, post)
	rr.handle("POST /job-posting", h.JobPosting, post)

	edit := RequireRoleBrowser(sm, domainauth.RoleEmployer, "not_authorized_to_edit_jobs")
	rr.handle("GET /edit-job/{id}", h.EditJobPage, edit)
	rr.handle("POST /edit-job/{id}", h.EditJob, edit)

	rr.handle("POST /delete-job/{id}", h.DeleteJob,
		RequireRoleBrowser(sm, domainauth.RoleEmployer, "not_authorized_to_delete_jobs"))
}

func registerApplicationRoutes(rr routeRegistrar, h *UIHandlers) {
	sm := h.Sessions
	apply := RequireRoleBrowser(sm, domainauth.RoleEmployee, "not_authorized_to_apply_for_jobs")
	rr.handle("GET /apply-job/{id}", h.ApplyJobPage, apply)
	rr.handle("POST /apply-job/{id}", h.ApplyJob, apply)

	rr.handle("GET /application-management", h.ApplicationManagement,
		RequireRoleBrowser(sm, domainauth.RoleEmployer, "not_authorized_to_view_applications"))
	rr.handle("POST /approve-application/{id}", h.ApproveApplication,
		RequireRoleBrowser(sm, domainauth.RoleEmployer, "not_authorized_to_approve_applications"))
	rr.handle("POST /reject-application/{id}", h.RejectApplication,
		RequireRoleBrowser(sm, domainauth.RoleEmployer, "not_authorized_to_reject_applications"))
	rr.handle("GET /approved-jobs", h.ApprovedJobs,
		RequireRoleBrowser(sm, domainauth.RoleEmployee, "not_authorized_to_view_approved_jobs"))
}

func registerMessageRoutes(rr routeRegistrar, h *UIHandlers) {
	sm := h.Sessions
	rr.handle("GET /view-messages/{id}", h.ViewMessages, RequireAuthBrowser(sm, "must_be_logged_in_to_view_messages"))
	rr.handle("POST /send-message/{id}", h.SendMessage, RequireAuthBrowser(sm, "must_be_logged_in_to_send_messages"))
}

func registerNotificationRoutes(rr routeRegistrar, h *UIHandlers) {
	auth := RequireAuthBrowser(h.Sessions, "")
	rr.handle("GET /notifications", h.NotificationsPage, auth)
	rr.handle("POST /notifications/read-all", h.MarkAllNotificationsRead, auth)
	rr.handle("POST /notifications/{id}/read", h.MarkNotificationRead, auth)
}

// staticHandler serves /static/* from disk in dev mode and from the embedded
// filesystem otherwise.
func staticHandler(isDev bool) http.Handler {
	var files http.FileSystem = http.Dir("frontend/static")
	if !isDev {
		if sub, err := fs.Sub(jobportal.StaticFS, "frontend/static"); err == nil {
			files = http.FS(sub)
		}
	}
	return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(files)))
}

// hashedFilePattern matches content-hashed filenames such as styles.def45678.css.
var hashedFilePattern = regexp.MustCompile(`\.[a-f0-9]{8}\.(?:js|css)(?:\.map)?$`)

// staticWithCacheHeaders marks fingerprinted assets immutable and everything
// else uncacheable.
func staticWithCacheHeaders(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hashedFilePattern.MatchString(r.URL.Path) {
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		} else {
			w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
			w.Header().Set("Pragma", "no-cache")
			w.Header().Set("Expires", "0")
		}
		handler.ServeHTTP(w, r)
	})
}

// notFoundHandler renders the localized 404 page for unmatched routes.
type notFoundHandler struct {
	mux *http.ServeMux
	ui  *UIHandlers
}

func (h *notFoundHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if _, pattern := h.mux.Handler(r); pattern != "" {
		h.mux.ServeHTTP(w, r)
		return
	}
	// Unmatched: let the mux decide between 404 and 405.
	cw := newCaptureWriter()
	h.mux.ServeHTTP(cw, r)
	if cw.status == http.StatusNotFound {
		h.ui.NotFound(w, r)
		return
	}
	cw.flushTo(w, h.ui.logger())
}

// captureWriter buffers headers, status and body so we can decide post-dispatch.
type captureWriter struct {
	header http.Header
	status int
	buf    bytes.Buffer
}

func newCaptureWriter() *captureWriter {
	return &captureWriter{header: make(http.Header), status: http.StatusOK}
}

func (c *captureWriter) Header() http.Header         { return c.header }
func (c *captureWriter) WriteHeader(code int)        { c.status = code }
func (c *captureWriter) Write(b []byte) (int, error) { return c.buf.Write(b) }

func (c *captureWriter) flushTo(w http.ResponseWriter, logger *slog.Logger) {
	for k, vs := range c.header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(c.status)
	if _, err := w.Write(c.buf.Bytes()); err != nil {
		logger.Debug("failed to write captured response", "error", err)
	}
}
