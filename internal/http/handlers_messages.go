package httpx

import (
	"net/http"

	domainauth "github.com/target/jobportal/internal/domain/auth"
	"github.com/target/jobportal/internal/http/ui/pages"
)

// ViewMessages renders an application's thread for one of its participants.
// GET /view-messages/{id}.
func (h *UIHandlers) ViewMessages(w http.ResponseWriter, r *http.Request) {
	thread, err := h.Messages.Thread(r.Context(), GetSessionFromContext(r.Context()).UserID, r.PathValue("id"))
	if err != nil {
		h.deny(w, r, denial{err: err, target: "/job-listing", deniedKey: "not_authorized_to_view_messages"})
		return
	}
	page := &pages.ThreadPage{
		Application: pages.ApplicationRow{ApplicationDetail: thread.Detail, Messages: thread.Messages},
	}
	h.render(w, r, page, PageMeta{TitleKey: "messages", CurrentPage: PageMessages})
}

// SendMessage posts to an application's thread and returns to the page the
// form was on.
// POST /send-message/{id}.
func (h *UIHandlers) SendMessage(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	back := safeRedirectPath(r.FormValue("return_to"), "/view-messages/"+id)
	_, err := h.Messages.Send(r.Context(), GetSessionFromContext(r.Context()).UserID, id, r.FormValue("content"))
	if err != nil {
		h.deny(w, r, denial{
			err:          err,
			target:       back,
			deniedKey:    "not_authorized_to_send_messages",
			deniedTarget: "/job-listing",
		})
		return
	}
	h.Sessions.FlashRedirect(w, r, domainauth.FlashSuccess, "message_sent_successfully", back)
}
