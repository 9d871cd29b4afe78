package httpx

import (
	"context"

	domainauth "github.com/target/jobportal/internal/domain/auth"
	"github.com/target/jobportal/internal/i18n"
)

// requestStateKey is an unexported context key type to avoid collisions across packages.
// Centralized in this file so all handlers/middleware use the same key.
type requestStateKey struct{}

// requestState is the per-request view of the visitor: their session, which
// handlers mutate in place, and the resolved translator.
type requestState struct {
	session    *domainauth.Session
	translator i18n.Translator
}

// withRequestState returns a child context carrying the session and translator.
func withRequestState(ctx context.Context, sess *domainauth.Session, tr i18n.Translator) context.Context {
	if sess == nil {
		sess = &domainauth.Session{}
	}
	return context.WithValue(ctx, requestStateKey{}, &requestState{session: sess, translator: tr})
}

func stateFromContext(ctx context.Context) (*requestState, bool) {
	st, ok := ctx.Value(requestStateKey{}).(*requestState)
	return st, ok && st != nil
}

// SetSessionInContext returns a child context that carries the given session.
// If session is nil, the original ctx is returned unchanged.
func SetSessionInContext(ctx context.Context, session *domainauth.Session) context.Context {
	if session == nil {
		return ctx
	}
	tr := i18n.Translator{}
	if st, ok := stateFromContext(ctx); ok {
		tr = st.translator
	}
	return withRequestState(ctx, session, tr)
}

// GetUserSessionFromContext returns the session from context and a boolean indicating presence.
func GetUserSessionFromContext(ctx context.Context) (*domainauth.Session, bool) {
	if st, ok := stateFromContext(ctx); ok {
		return st.session, true
	}
	return nil, false
}

// GetSessionFromContext retrieves the session from the request context.
// Requests that bypassed the session middleware get an empty anonymous session.
func GetSessionFromContext(ctx context.Context) *domainauth.Session {
	if s, ok := GetUserSessionFromContext(ctx); ok {
		return s
	}
	return &domainauth.Session{}
}

// TranslatorFromContext returns the translator bound to the request's locale.
func TranslatorFromContext(ctx context.Context) i18n.Translator {
	if st, ok := stateFromContext(ctx); ok {
		return st.translator
	}
	return i18n.Translator{}
}

// IsGuestUser reports whether the current request context is unauthenticated.
func IsGuestUser(ctx context.Context) bool {
	return !GetSessionFromContext(ctx).IsAuthenticated()
}
