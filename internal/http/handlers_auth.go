package httpx

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	domainauth "github.com/target/jobportal/internal/domain/auth"
	"github.com/target/jobportal/internal/domain/model"
	"github.com/target/jobportal/internal/http/ui/pages"
	"github.com/target/jobportal/internal/service"
)

// LoginPage renders the login form. Logged-in visitors go to the listing.
// GET /.
func (h *UIHandlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	if !IsGuestUser(r.Context()) {
		http.Redirect(w, r, "/job-listing", http.StatusSeeOther)
		return
	}
	h.render(w, r, &pages.AuthPage{}, PageMeta{TitleKey: "login", CurrentPage: PageLogin})
}

// Login checks the credentials and rotates the visitor's session.
// POST /.
func (h *UIHandlers) Login(w http.ResponseWriter, r *http.Request) {
	req := model.LoginRequest{Mobile: r.FormValue("mobile"), Password: r.FormValue("password")}
	sess, err := h.Auth.Login(r.Context(), *GetSessionFromContext(r.Context()), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.Sessions.AddFlash(r, domainauth.FlashDanger, "invalid_credentials")
		} else {
			h.addErrorFlash(r, err)
		}
		page := &pages.AuthPage{Mobile: strings.TrimSpace(req.Mobile)}
		h.render(w, r, page, PageMeta{TitleKey: "login", CurrentPage: PageLogin})
		return
	}
	h.Sessions.Replace(r, sess)
	h.Sessions.FlashRedirect(w, r, domainauth.FlashSuccess, "login_successful", "/job-listing")
}

// RegisterPage renders the registration form.
// GET /register.
func (h *UIHandlers) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, &pages.AuthPage{}, PageMeta{TitleKey: "register", CurrentPage: PageRegister})
}

// Register creates an account and sends the visitor to the login form.
// POST /register.
func (h *UIHandlers) Register(w http.ResponseWriter, r *http.Request) {
	req := model.RegisterRequest{
		Name:     r.FormValue("name"),
		Mobile:   r.FormValue("mobile"),
		Password: r.FormValue("password"),
		Role:     r.FormValue("role"),
	}
	if _, err := h.Auth.Register(r.Context(), req); err != nil {
		h.addErrorFlash(r, err)
		page := &pages.AuthPage{
			Name:   strings.TrimSpace(req.Name),
			Mobile: strings.TrimSpace(req.Mobile),
			Role:   req.Role,
		}
		h.render(w, r, page, PageMeta{TitleKey: "register", CurrentPage: PageRegister})
		return
	}
	h.Sessions.FlashRedirect(w, r, domainauth.FlashSuccess, "registration_successful", "/")
}

// Logout ends the session. The visitor keeps their language.
// POST /logout.
func (h *UIHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	next, err := h.Auth.Logout(r.Context(), *GetSessionFromContext(r.Context()))
	if err != nil {
		h.logger().ErrorContext(r.Context(), "logout failed", "error", err)
	}
	h.Sessions.Replace(r, next)
	h.Sessions.FlashRedirect(w, r, domainauth.FlashSuccess, "logged_out_successfully", "/")
}

// SetLanguage stores the chosen locale and returns to the previous page.
// GET /set-language/{lang}.
func (h *UIHandlers) SetLanguage(w http.ResponseWriter, r *http.Request) {
	target := sameOriginReferer(r, "/job-listing")
	lang := r.PathValue("lang")
	if !h.Sessions.bundle.Supported(lang) {
		h.Sessions.FlashRedirect(w, r, domainauth.FlashDanger, "unsupported_language", target)
		return
	}
	h.Sessions.SetLocale(r, lang)
	if err := h.Sessions.Save(w, r); err != nil {
		h.flashError(w, r, err, target)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// sameOriginReferer returns the path of the Referer when it points at this
// host, otherwise fallback.
func sameOriginReferer(r *http.Request, fallback string) string {
	ref := r.Referer()
	if ref == "" {
		return fallback
	}
	u, err := url.Parse(ref)
	if err != nil || (u.Host != "" && u.Host != r.Host) {
		return fallback
	}
	if u.RequestURI() == "" {
		return fallback
	}
	return safeRedirectPath(u.RequestURI(), fallback)
}

// safeRedirectPath ensures candidate is a same-origin relative path starting
// with a single "/". Returns fallback when invalid.
func safeRedirectPath(candidate, fallback string) string {
	if candidate == "" || strings.HasPrefix(candidate, "//") || strings.HasPrefix(candidate, `/\`) {
		return fallback
	}
	u, err := url.Parse(candidate)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") {
		return fallback
	}
	return candidate
}
