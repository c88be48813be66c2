// Package handler wires the inbox store to the HTTP surface: a JSON
// API for clients plus server-rendered demo pages.
package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"herald/inbox"
	"herald/internal/httputil"
	"herald/internal/store"
)

// InboxHandler handles the JSON inbox API. Every route expects the
// MemberToken middleware to have placed a member ID in the context.
type InboxHandler struct {
	store  *store.FeedStore
	logger *slog.Logger
}

// NewInboxHandler creates a new inbox API handler
func NewInboxHandler(store *store.FeedStore, logger *slog.Logger) *InboxHandler {
	return &InboxHandler{
		store:  store,
		logger: logger,
	}
}

// HealthCheck reports process liveness
// GET /health
func (h *InboxHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"time":   time.Now(),
	})
}

// ListMessages returns one page of the member's feed
// GET /api/inbox/messages
func (h *InboxHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	memberID := httputil.GetMemberID(r)

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			httputil.RespondError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = n
	}

	feed, err := h.store.List(r.Context(), memberID, r.URL.Query().Get("cursor"), limit)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, feed)
}

// GetMessage returns the full message payload as stored. The payload
// is served unvalidated on purpose; strict consumers run their own
// checks and this is what makes the demo's bad seed message reachable.
// GET /api/inbox/messages/{id}
func (h *InboxHandler) GetMessage(w http.ResponseWriter, r *http.Request) {
	memberID := httputil.GetMemberID(r)

	details, err := h.store.Details(r.Context(), memberID, r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, details)
}

// MarkRead marks one message read and returns its updated summary
// POST /api/inbox/messages/{id}/read
func (h *InboxHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	memberID := httputil.GetMemberID(r)

	msg, err := h.store.MarkRead(r.Context(), memberID, r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, msg)
}

// MarkAllRead marks every unread message read
// POST /api/inbox/read-all
func (h *InboxHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	memberID := httputil.GetMemberID(r)

	updated, err := h.store.MarkAllRead(r.Context(), memberID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, struct {
		Updated int `json:"updated"`
	}{Updated: updated})
}

// GetUnreadCount returns the bell-indicator payload
// GET /api/inbox/unread-count
func (h *InboxHandler) GetUnreadCount(w http.ResponseWriter, r *http.Request) {
	memberID := httputil.GetMemberID(r)

	count, err := h.store.UnreadCount(r.Context(), memberID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, inbox.UnreadCount{Count: count})
}

// GetPreferences retrieves the member's notification preferences
// GET /api/inbox/preferences
func (h *InboxHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	memberID := httputil.GetMemberID(r)

	prefs, err := h.store.Preferences(r.Context(), memberID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, prefs)
}

// UpdatePreferences applies a partial preferences update
// PATCH /api/inbox/preferences
func (h *InboxHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	memberID := httputil.GetMemberID(r)

	var update inbox.PreferencesUpdate
	if err := httputil.ParseJSON(w, r, &update); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := update.Validate(); err != nil {
		var verrs validation.Errors
		if errors.As(err, &verrs) {
			httputil.RespondErrorWithExtras(w, http.StatusBadRequest, "invalid preferences update",
				map[string]interface{}{"errors": verrs})
			return
		}
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	prefs, err := h.store.UpdatePreferences(r.Context(), memberID, update)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, prefs)
}
