package httpx

import (
	"net/http"

	domainauth "github.com/target/jobportal/internal/domain/auth"
	"github.com/target/jobportal/internal/http/ui/pages"
)

// NotificationsPage lists the visitor's notifications, newest first.
// GET /notifications.
func (h *UIHandlers) NotificationsPage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := h.Notifications.List(r.Context(), GetSessionFromContext(r.Context()).UserID, pageParam(q))
	if err != nil {
		h.logger().ErrorContext(r.Context(), "list notifications failed", "error", err)
		h.renderErrorPage(w, r, http.StatusInternalServerError)
		return
	}
	page := &pages.NotificationsPage{
		Items:      pages.NewNotificationRows(res.Items),
		Pagination: pagination("/notifications", q, res.Page, res.HasPrev, res.HasNext),
	}
	h.render(w, r, page, PageMeta{TitleKey: "notifications", CurrentPage: PageNotifications})
}

// MarkNotificationRead marks one notification read.
// POST /notifications/{id}/read.
func (h *UIHandlers) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	back := safeRedirectPath(r.FormValue("return_to"), "/notifications")
	err := h.Notifications.MarkRead(r.Context(), GetSessionFromContext(r.Context()).UserID, r.PathValue("id"))
	if err != nil {
		h.flashError(w, r, err, back)
		return
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// MarkAllNotificationsRead marks every notification of the visitor read.
// POST /notifications/read-all.
func (h *UIHandlers) MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	if _, err := h.Notifications.MarkAllRead(r.Context(), GetSessionFromContext(r.Context()).UserID); err != nil {
		h.flashError(w, r, err, "/notifications")
		return
	}
	h.Sessions.FlashRedirect(w, r, domainauth.FlashSuccess, "notifications_marked_read", "/notifications")
}
