package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/target/jobportal/internal/domain/auth"
	"github.com/target/jobportal/internal/http/ui/pages"
	"github.com/target/jobportal/internal/http/ui/viewmodel"
	"github.com/target/jobportal/internal/i18n"
)

func TestTemplateRenderer_DefinesEveryContentTemplate(t *testing.T) {
	r := RequireTemplateRenderer(t)

	for locale, set := range r.sets {
		for page, name := range ContentTemplateMap() {
			assert.NotNil(t, set.Lookup(name), "%s: %s has no %q", locale, page, name)
		}
		for _, name := range []string{"layout", "error-layout", "nav", "flashes", "csrf-field", "pagination"} {
			assert.NotNil(t, set.Lookup(name), "%s: missing %q", locale, name)
		}
	}
}

func localizedRequest(t *testing.T, locale string) *http.Request {
	t.Helper()
	bundle, err := i18n.Load(i18n.English)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	return req.WithContext(withRequestState(req.Context(), &domainauth.Session{}, bundle.For(locale)))
}

func TestTemplateRenderer_RenderFull(t *testing.T) {
	r := RequireTemplateRenderer(t)
	bundle, err := i18n.Load(i18n.English)
	require.NoError(t, err)

	page := &pages.AuthPage{
		Layout: viewmodel.Layout{CurrentPage: PageLogin, Locale: i18n.Tamil, CSRFToken: "tok"},
		Mobile: "98765<43210",
	}
	rec := httptest.NewRecorder()
	require.NoError(t, r.RenderFull(rec, localizedRequest(t, i18n.Tamil), page))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.True(t, ContainsAll(body, []string{
		`<html lang="ta">`,
		bundle.T(i18n.Tamil, "login", ""),
		`value="98765&lt;43210"`,
		`value="tok"`,
	}), body)
}

func TestTemplateRenderer_RenderError(t *testing.T) {
	r := RequireTemplateRenderer(t)

	page := &pages.ErrorPage{Status: http.StatusNotFound, Heading: "Gone", Detail: "Nothing here"}
	rec := httptest.NewRecorder()
	require.NoError(t, r.RenderError(rec, localizedRequest(t, i18n.English), http.StatusNotFound, page))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Nothing here")
}

func TestTemplateRenderer_ExecutionErrorWritesNothing(t *testing.T) {
	r := RequireTemplateRenderer(t)

	rec := httptest.NewRecorder()
	err := r.RenderFull(rec, localizedRequest(t, i18n.English), struct{}{})
	require.Error(t, err)
	assert.Empty(t, rec.Body.String())
	assert.Empty(t, rec.Header().Get("Content-Type"))
}

func TestNewTemplateRenderer_Validation(t *testing.T) {
	_, err := NewTemplateRenderer(TemplateRendererConfig{})
	require.Error(t, err)
}
