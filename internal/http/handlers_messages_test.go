package httpx

import (
	"context"
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

func TestViewMessages(t *testing.T) {
	t.Run("applicant sees the thread", func(t *testing.T) {
		h := newPageHarness(t)
		h.loginAs("u1", "Asha", domainauth.RoleEmployee)
		h.allowUnread(0)
		h.apps.EXPECT().GetDetail(gomock.Any(), "a1").Return(sampleDetail("a1", model.ApplicationStatusApproved), nil)
		h.messages.EXPECT().ListByApplication(gomock.Any(), "a1").Return([]*model.Message{
			{ID: "m1", ApplicationID: "a1", SenderID: "e1", SenderName: "Ravi", Content: "Please join on Monday", CreatedAt: time.Now()},
		}, nil)

		resp := h.get("/view-messages/a1")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := readBody(t, resp)
		assert.Contains(t, body, "Please join on Monday")
		assert.Contains(t, body, `action="/send-message/a1"`)
	})

	t.Run("outsider is denied", func(t *testing.T) {
		h := newPageHarness(t)
		h.loginAs("u9", "Kumar", domainauth.RoleEmployee)
		h.apps.EXPECT().GetDetail(gomock.Any(), "a1").Return(sampleDetail("a1", model.ApplicationStatusApproved), nil)

		requireRedirect(t, h.get("/view-messages/a1"), "/job-listing")
		assert.Equal(t, []string{h.msg("not_authorized_to_view_messages")}, h.flashes())
	})

	t.Run("anonymous", func(t *testing.T) {
		h := newPageHarness(t)

		requireRedirect(t, h.get("/view-messages/a1"), "/")
		assert.Equal(t, []string{h.msg("must_be_logged_in_to_view_messages")}, h.flashes())
	})
}

func TestSendMessage(t *testing.T) {
	t.Run("employer returns to management", func(t *testing.T) {
		h := newPageHarness(t)
		h.loginAs("e1", "Ravi", domainauth.RoleEmployer)
		h.apps.EXPECT().GetDetail(gomock.Any(), "a1").Return(sampleDetail("a1", model.ApplicationStatusPending), nil)
		h.messages.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, req *model.CreateMessageRequest) (*model.Message, error) {
				assert.Equal(t, "e1", req.SenderID)
				assert.Equal(t, "Can you start soon?", req.Content)
				return &model.Message{ID: "m1", ApplicationID: "a1", SenderID: "e1", Content: req.Content}, nil
			})

		resp := h.post("/send-message/a1", url.Values{
			"content":   {"  Can you start soon?  "},
			"return_to": {"/application-management"},
		})
		requireRedirect(t, resp, "/application-management")
		assert.Equal(t, []string{h.msg("message_sent_successfully")}, h.flashes())
	})

	t.Run("foreign return_to falls back to the thread", func(t *testing.T) {
		h := newPageHarness(t)
		h.loginAs("u1", "Asha", domainauth.RoleEmployee)
		h.apps.EXPECT().GetDetail(gomock.Any(), "a1").Return(sampleDetail("a1", model.ApplicationStatusPending), nil)
		h.messages.EXPECT().Create(gomock.Any(), gomock.Any()).Return(&model.Message{ID: "m1"}, nil)

		resp := h.post("/send-message/a1", url.Values{
			"content":   {"Thanks"},
			"return_to": {"https://evil.example/"},
		})
		requireRedirect(t, resp, "/view-messages/a1")
	})

	t.Run("empty content", func(t *testing.T) {
		h := newPageHarness(t)
		h.loginAs("u1", "Asha", domainauth.RoleEmployee)

		requireRedirect(t, h.post("/send-message/a1", url.Values{"content": {"   "}}), "/view-messages/a1")
		assert.Equal(t, []string{h.msg("message_content_cannot_be_empty")}, h.flashes())
	})

	t.Run("outsider is denied", func(t *testing.T) {
		h := newPageHarness(t)
		h.loginAs("u9", "Kumar", domainauth.RoleEmployee)
		h.apps.EXPECT().GetDetail(gomock.Any(), "a1").Return(sampleDetail("a1", model.ApplicationStatusPending), nil)

		resp := h.post("/send-message/a1", url.Values{
			"content":   {"hello"},
			"return_to": {"/view-messages/a1"},
		})
		requireRedirect(t, resp, "/job-listing")
		assert.Equal(t, []string{h.msg("not_authorized_to_send_messages")}, h.flashes())
	})
}
