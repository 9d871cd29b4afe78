package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	domainauth "github.com/target/jobportal/internal/domain/auth"
	"github.com/target/jobportal/internal/domain/model"
	"github.com/target/jobportal/internal/i18n"
)

// AuthServiceInterface is the subset of service.AuthService used by handlers and middleware.
type AuthServiceInterface interface {
	Register(ctx context.Context, req model.RegisterRequest) (*model.User, error)
	Login(ctx context.Context, current domainauth.Session, req model.LoginRequest) (domainauth.Session, error)
	GetSession(ctx context.Context, sessionID string) (domainauth.Session, error)
	Save(ctx context.Context, sess *domainauth.Session) error
	Logout(ctx context.Context, sess domainauth.Session) (domainauth.Session, error)
	TTL() time.Duration
}

// SessionManagerOptions groups dependencies for SessionManager.
type SessionManagerOptions struct {
	Auth         AuthServiceInterface
	Translations *i18n.Bundle
	CookieDomain string
	CookieSecure bool
	Logger       *slog.Logger
}

// SessionManager loads the visitor's session for every request and writes it
// back together with the session cookie.
type SessionManager struct {
	auth         AuthServiceInterface
	bundle       *i18n.Bundle
	cookieDomain string
	cookieSecure bool
	logger       *slog.Logger
}

// NewSessionManager constructs a SessionManager.
func NewSessionManager(opts SessionManagerOptions) *SessionManager {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionManager{
		auth:         opts.Auth,
		bundle:       opts.Translations,
		cookieDomain: opts.CookieDomain,
		cookieSecure: opts.CookieSecure,
		logger:       logger.With("component", "session_manager"),
	}
}

// Load returns a middleware that attaches the visitor's session and
// translator to the request context. Unknown or expired cookies yield a fresh
// anonymous session, which is only persisted once something is stored in it.
func (m *SessionManager) Load(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := m.lookup(r)
		locale := m.bundle.Resolve(sess.Locale, r.Header.Get("Accept-Language"))
		ctx := withRequestState(r.Context(), &sess, m.bundle.For(locale))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *SessionManager) lookup(r *http.Request) domainauth.Session {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return domainauth.Session{}
	}
	sess, err := m.auth.GetSession(r.Context(), cookie.Value)
	if err != nil {
		if !errors.Is(err, domainauth.ErrSessionNotFound) {
			m.logger.WarnContext(r.Context(), "session lookup failed", "error", err)
		}
		return domainauth.Session{}
	}
	return sess
}

// Save persists the request's session and refreshes the cookie.
func (m *SessionManager) Save(w http.ResponseWriter, r *http.Request) error {
	sess := GetSessionFromContext(r.Context())
	if err := m.auth.Save(r.Context(), sess); err != nil {
		return err
	}
	m.setCookie(w, sess.ID)
	return nil
}

// Replace swaps the request's session for next, keeping the context pointer.
func (m *SessionManager) Replace(r *http.Request, next domainauth.Session) {
	*GetSessionFromContext(r.Context()) = next
}

// SetLocale stores locale in the session and rebinds the request's translator.
func (m *SessionManager) SetLocale(r *http.Request, locale string) {
	st, ok := stateFromContext(r.Context())
	if !ok {
		return
	}
	st.session.Locale = locale
	st.translator = m.bundle.For(locale)
}

// AddFlash queues the translation of key for the page rendered by this request.
func (m *SessionManager) AddFlash(r *http.Request, category domainauth.FlashCategory, key string) {
	tr := TranslatorFromContext(r.Context())
	GetSessionFromContext(r.Context()).AddFlash(category, tr.T(key, ""))
}

// Flash stores the translation of key as a one-shot message and saves the session.
func (m *SessionManager) Flash(w http.ResponseWriter, r *http.Request, category domainauth.FlashCategory, key string) {
	m.AddFlash(r, category, key)
	if err := m.Save(w, r); err != nil {
		m.logger.ErrorContext(r.Context(), "failed to save flash", "error", err, "key", key)
	}
}

// FlashRedirect flashes key and redirects to target with 303 See Other.
func (m *SessionManager) FlashRedirect(
	w http.ResponseWriter,
	r *http.Request,
	category domainauth.FlashCategory,
	key, target string,
) {
	m.Flash(w, r, category, key)
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// popFlashes drains the pending flashes and persists the now-empty list.
func (m *SessionManager) popFlashes(w http.ResponseWriter, r *http.Request) []domainauth.Flash {
	sess := GetSessionFromContext(r.Context())
	flashes := sess.PopFlashes()
	if len(flashes) == 0 || sess.ID == "" {
		return flashes
	}
	if err := m.Save(w, r); err != nil {
		m.logger.ErrorContext(r.Context(), "failed to clear flashes", "error", err)
	}
	return flashes
}

func (m *SessionManager) setCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    id,
		Path:     "/",
		Domain:   m.cookieDomain,
		HttpOnly: true,
		Secure:   m.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(m.auth.TTL().Seconds()),
	})
}
