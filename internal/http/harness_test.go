package httpx

import (
	"context"
	"html"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	domainauth "github.com/target/jobportal/internal/domain/auth"
	"github.com/target/jobportal/internal/i18n"
	"github.com/target/jobportal/internal/mocks"
	mockauth "github.com/target/jobportal/internal/mocks/auth"
	"github.com/target/jobportal/internal/service"
	"go.uber.org/mock/gomock"
	"golang.org/x/net/publicsuffix"
)

// pageHarness runs the full router over real services backed by gomock
// repositories and an in-memory session store.
type pageHarness struct {
	t        *testing.T
	users    *mocks.MockUserRepository
	jobs     *mocks.MockJobRepository
	apps     *mocks.MockApplicationRepository
	messages *mocks.MockMessageRepository
	notes    *mocks.MockNotificationRepository
	store    *mockauth.MemorySessionStore
	bundle   *i18n.Bundle
	server   *httptest.Server
	client   *http.Client
	base     *url.URL
}

func newPageHarness(t *testing.T) *pageHarness {
	t.Helper()
	SkipIfNoTemplates(t)

	ctrl := gomock.NewController(t)
	h := &pageHarness{
		t:        t,
		users:    mocks.NewMockUserRepository(ctrl),
		jobs:     mocks.NewMockJobRepository(ctrl),
		apps:     mocks.NewMockApplicationRepository(ctrl),
		messages: mocks.NewMockMessageRepository(ctrl),
		notes:    mocks.NewMockNotificationRepository(ctrl),
		store:    mockauth.NewMemorySessionStore(),
	}
	bundle, err := i18n.Load(i18n.English)
	require.NoError(t, err)
	h.bundle = bundle

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router, err := NewRouter(RouterServices{
		Auth: service.NewAuthService(service.AuthServiceOptions{
			Users:    h.users,
			Sessions: h.store,
			Hasher:   mockauth.PlainHasher{},
			Logger:   logger,
		}),
		Jobs: service.NewJobService(service.JobServiceOptions{
			Jobs:         h.jobs,
			Applications: h.apps,
			Logger:       logger,
		}),
		Applications: service.NewApplicationService(service.ApplicationServiceOptions{
			Applications: h.apps,
			Jobs:         h.jobs,
			Messages:     h.messages,
			Translations: bundle,
			Logger:       logger,
		}),
		Messages: service.NewMessageService(service.MessageServiceOptions{
			Applications: h.apps,
			Messages:     h.messages,
			Logger:       logger,
		}),
		Notifications: service.NewNotificationService(service.NotificationServiceOptions{Notifications: h.notes}),
		Translations:  bundle,
		TemplateFS:    os.DirFS(TemplatePathFromTest),
		Logger:        logger,
	})
	require.NoError(t, err)

	h.server = httptest.NewServer(router)
	t.Cleanup(h.server.Close)
	h.base, err = url.Parse(h.server.URL)
	require.NoError(t, err)

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	require.NoError(t, err)
	h.client = &http.Client{
		Jar:     jar,
		Timeout: 10 * time.Second,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return h
}

// loginAs stores an authenticated session and hands its cookie to the client.
func (h *pageHarness) loginAs(userID, name string, role domainauth.Role) {
	h.t.Helper()
	sess := domainauth.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      name,
		Role:      role,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(h.t, h.store.Save(context.Background(), sess))
	h.client.Jar.SetCookies(h.base, []*http.Cookie{{Name: SessionCookieName, Value: sess.ID, Path: "/"}})
}

// allowUnread answers every unread-count lookup made by the layout.
func (h *pageHarness) allowUnread(n int) {
	h.notes.EXPECT().CountUnread(gomock.Any(), gomock.Any()).Return(n, nil).AnyTimes()
}

func (h *pageHarness) do(req *http.Request) *http.Response {
	h.t.Helper()
	resp, err := h.client.Do(req)
	require.NoError(h.t, err)
	h.t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func (h *pageHarness) get(path string, headers ...string) *http.Response {
	h.t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, h.server.URL+path, nil)
	require.NoError(h.t, err)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	return h.do(req)
}

// post submits form with a valid CSRF token.
func (h *pageHarness) post(path string, form url.Values) *http.Response {
	h.t.Helper()
	if form == nil {
		form = url.Values{}
	}
	form.Set(DefaultCSRFCookieName, h.csrfToken())
	return h.postRaw(path, form)
}

func (h *pageHarness) postRaw(path string, form url.Values) *http.Response {
	h.t.Helper()
	req, err := http.NewRequestWithContext(
		context.Background(), http.MethodPost, h.server.URL+path, strings.NewReader(form.Encode()))
	require.NoError(h.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return h.do(req)
}

func (h *pageHarness) cookie(name string) string {
	for _, c := range h.client.Jar.Cookies(h.base) {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

// csrfToken returns the CSRF cookie, fetching the login page once to get one.
func (h *pageHarness) csrfToken() string {
	h.t.Helper()
	if tok := h.cookie(DefaultCSRFCookieName); tok != "" {
		return tok
	}
	h.get("/")
	tok := h.cookie(DefaultCSRFCookieName)
	require.NotEmpty(h.t, tok, "csrf cookie not issued")
	return tok
}

// session returns the stored session behind the client's cookie.
func (h *pageHarness) session() domainauth.Session {
	h.t.Helper()
	id := h.cookie(SessionCookieName)
	require.NotEmpty(h.t, id, "no session cookie")
	sess, err := h.store.Get(context.Background(), id)
	require.NoError(h.t, err)
	return sess
}

// flashes returns the pending flash messages of the client's session.
func (h *pageHarness) flashes() []string {
	h.t.Helper()
	var out []string
	for _, f := range h.session().Flashes {
		out = append(out, f.Message)
	}
	return out
}

// text is the English translation of key as html/template renders it.
func (h *pageHarness) text(key string) string {
	return html.EscapeString(h.bundle.T(i18n.English, key, ""))
}

func (h *pageHarness) msg(key string) string {
	return h.bundle.T(i18n.English, key, "")
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func requireRedirect(t *testing.T, resp *http.Response, location string) {
	t.Helper()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, location, resp.Header.Get("Location"))
}
