package httpx

import (
	"errors"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/target/jobportal/internal/domain/auth"
	"github.com/target/jobportal/internal/domain/model"
	"go.uber.org/mock/gomock"
)

func TestNotificationsPage(t *testing.T) {
	t.Run("lists newest page with read controls", func(t *testing.T) {
		h := newPageHarness(t)
		h.loginAs("u1", "Asha", domainauth.RoleEmployee)
		h.allowUnread(1)

		h.notes.EXPECT().List(gomock.Any(), model.NotificationListOptions{UserID: "u1", Limit: 21, Offset: 20}).
			Return([]*model.Notification{
				{ID: "n1", UserID: "u1", Message: "Your application was approved", CreatedAt: time.Now()},
				{ID: "n2", UserID: "u1", Message: "Older news", IsRead: true, CreatedAt: time.Now().Add(-time.Hour)},
			}, nil)

		resp := h.get("/notifications?page=2")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := readBody(t, resp)
		assert.Contains(t, body, "Your application was approved")
		assert.Contains(t, body, `action="/notifications/n1/read"`)
		assert.NotContains(t, body, `action="/notifications/n2/read"`)
		assert.Contains(t, body, `action="/notifications/read-all"`)
		assert.Contains(t, body, `value="/notifications?page=2"`)
		assert.Contains(t, body, "page=1", "previous page link")
	})

	t.Run("empty", func(t *testing.T) {
		h := newPageHarness(t)
		h.loginAs("e1", "Ravi", domainauth.RoleEmployer)
		h.allowUnread(0)
		h.notes.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, nil)

		body := readBody(t, h.get("/notifications"))
		assert.Contains(t, body, h.text("no_notifications"))
		assert.NotContains(t, body, `action="/notifications/read-all"`)
	})

	t.Run("store failure renders the error page", func(t *testing.T) {
		h := newPageHarness(t)
		h.loginAs("u1", "Asha", domainauth.RoleEmployee)
		h.allowUnread(0)
		h.notes.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection reset"))

		resp := h.get("/notifications")
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Contains(t, readBody(t, resp), h.text("an_error_occurred"))
	})

	t.Run("anonymous", func(t *testing.T) {
		h := newPageHarness(t)

		requireRedirect(t, h.get("/notifications"), "/")
		assert.Equal(t, []string{h.msg("must_be_logged_in")}, h.flashes())
	})
}

func TestMarkNotificationRead(t *testing.T) {
	h := newPageHarness(t)
	h.loginAs("u1", "Asha", domainauth.RoleEmployee)
	h.notes.EXPECT().MarkRead(gomock.Any(), "u1", "n1").Return(true, nil)

	resp := h.post("/notifications/n1/read", url.Values{"return_to": {"/notifications?page=2"}})
	requireRedirect(t, resp, "/notifications?page=2")
	assert.Empty(t, h.flashes())
}

func TestMarkAllNotificationsRead(t *testing.T) {
	h := newPageHarness(t)
	h.loginAs("u1", "Asha", domainauth.RoleEmployee)
	h.notes.EXPECT().MarkAllRead(gomock.Any(), "u1").Return(4, nil)

	requireRedirect(t, h.post("/notifications/read-all", nil), "/notifications")
	assert.Equal(t, []string{h.msg("notifications_marked_read")}, h.flashes())
}
