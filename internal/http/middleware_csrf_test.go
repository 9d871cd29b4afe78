package httpx

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func csrfHandler(cfg CSRFConfig) http.Handler {
	return CSRFProtection(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(GetCSRFToken(r)))
	}))
}

func csrfCookieFrom(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	resp := rec.Result()
	defer resp.Body.Close()
	for _, c := range resp.Cookies() {
		if c.Name == DefaultCSRFCookieName {
			return c
		}
	}
	return nil
}

// issueCSRFToken performs a GET and returns the cookie the middleware set.
func issueCSRFToken(t *testing.T, h http.Handler) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	c := csrfCookieFrom(t, rec)
	require.NotNil(t, c, "CSRF cookie not set")
	require.NotEmpty(t, c.Value)
	assert.Equal(t, c.Value, rec.Body.String(), "token exposed to handlers")
	return c
}

func TestCSRFProtection_SafeMethodsExempt(t *testing.T) {
	h := csrfHandler(CSRFConfig{})
	for _, method := range []string{http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(method, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code, method)
	}
}

func TestCSRFProtection_PostValidation(t *testing.T) {
	h := csrfHandler(CSRFConfig{})
	cookie := issueCSRFToken(t, h)

	tests := []struct {
		name   string
		build  func() *http.Request
		status int
	}{
		{
			name:   "no cookie and no token",
			build:  func() *http.Request { return httptest.NewRequest(http.MethodPost, "/", nil) },
			status: http.StatusForbidden,
		},
		{
			name: "valid header token",
			build: func() *http.Request {
				r := httptest.NewRequest(http.MethodPost, "/", nil)
				r.AddCookie(cookie)
				r.Header.Set(DefaultCSRFHeaderName, cookie.Value)
				return r
			},
			status: http.StatusOK,
		},
		{
			name: "valid form token",
			build: func() *http.Request {
				form := url.Values{DefaultCSRFCookieName: {cookie.Value}}
				r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
				r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
				r.AddCookie(cookie)
				return r
			},
			status: http.StatusOK,
		},
		{
			name: "mismatched token",
			build: func() *http.Request {
				r := httptest.NewRequest(http.MethodPost, "/", nil)
				r.AddCookie(cookie)
				r.Header.Set(DefaultCSRFHeaderName, "forged")
				return r
			},
			status: http.StatusForbidden,
		},
		{
			name: "form token ignored for JSON bodies",
			build: func() *http.Request {
				r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"csrf_token":"x"}`))
				r.Header.Set("Content-Type", "application/json")
				r.AddCookie(cookie)
				return r
			},
			status: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, tt.build())
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestCSRFProtection_CookieAttributes(t *testing.T) {
	h := csrfHandler(CSRFConfig{CookieDomain: "jobs.example.com"})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-Proto", "http, https")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	c := csrfCookieFrom(t, rec)
	require.NotNil(t, c)
	assert.True(t, c.Secure)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
	assert.Equal(t, "jobs.example.com", c.Domain)
	assert.Equal(t, "/", c.Path)

	plain := httptest.NewRecorder()
	csrfHandler(CSRFConfig{}).ServeHTTP(plain, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, csrfCookieFrom(t, plain).Secure)

	forced := httptest.NewRecorder()
	csrfHandler(CSRFConfig{Secure: true}).ServeHTTP(forced, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, csrfCookieFrom(t, forced).Secure)
}

func TestCSRFProtection_CookieNotReissuedWhenPresent(t *testing.T) {
	h := csrfHandler(CSRFConfig{})
	cookie := issueCSRFToken(t, h)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Nil(t, csrfCookieFrom(t, rec))
	assert.Equal(t, cookie.Value, rec.Body.String())
}

func TestCSRFProtection_OnFailure(t *testing.T) {
	called := false
	h := csrfHandler(CSRFConfig{OnFailure: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		http.Redirect(w, r, "/", http.StatusSeeOther)
	})})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/job-posting", nil))
	assert.True(t, called)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestGetCSRFToken_NoToken(t *testing.T) {
	assert.Empty(t, GetCSRFToken(httptest.NewRequest(http.MethodGet, "/", nil)))
}
