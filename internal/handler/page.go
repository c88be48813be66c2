package handler

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"herald/inbox"
	"herald/internal/config"
	"herald/internal/domain"
	"herald/internal/store"
	"herald/safeurl"
	"herald/sanitize"
)

//go:embed templates/*.html
var templateFiles embed.FS

// PageHandler renders the server-side demo pages. Pages act as one
// fixed demo member; bearer tokens apply to the JSON API only.
type PageHandler struct {
	store     *store.FeedStore
	templates *template.Template
	memberID  string
	logger    *slog.Logger
}

// NewPageHandler parses the embedded templates and creates the page
// handler acting as memberID.
func NewPageHandler(store *store.FeedStore, memberID string, logger *slog.Logger) (*PageHandler, error) {
	templates, err := template.ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse page templates: %w", err)
	}

	return &PageHandler{
		store:     store,
		templates: templates,
		memberID:  memberID,
		logger:    logger,
	}, nil
}

type inboxPage struct {
	Member      string
	UnreadCount int
	Messages    []messageRow
	NextCursor  string
}

type messageRow struct {
	ID        string
	Title     string
	Snippet   string
	Category  string
	CreatedAt string
	Read      bool
}

type messagePage struct {
	Member    string
	ID        string
	Title     string
	Category  string
	CreatedAt string
	Body      template.HTML
	Actions   []actionView
	Dropped   int
}

type actionView struct {
	Label    string
	Kind     string
	URL      string
	Target   string
	Rel      string
	ActionID string
	Primary  bool
}

// Inbox renders the feed list
// GET /
func (h *PageHandler) Inbox(w http.ResponseWriter, r *http.Request) {
	feed, err := h.store.List(r.Context(), h.memberID, r.URL.Query().Get("cursor"), config.DefaultFeedLimit)
	if err != nil {
		h.renderError(w, err)
		return
	}

	page := inboxPage{
		Member:      h.memberID,
		UnreadCount: feed.UnreadCount,
		NextCursor:  feed.NextCursor,
	}
	for _, m := range feed.Messages {
		page.Messages = append(page.Messages, messageRow{
			ID:        m.ID,
			Title:     m.Title,
			Snippet:   m.Snippet,
			Category:  m.Category,
			CreatedAt: m.CreatedAt.Format("Jan 2, 2006"),
			Read:      m.Read(),
		})
	}

	h.render(w, "inbox.html", page)
}

// Message renders one message: sanitized body plus whichever actions
// survive the lenient checks, with a note when some did not. Opening
// a message marks it read, the way an inbox panel does.
// GET /messages/{id}
func (h *PageHandler) Message(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if _, err := h.store.MarkRead(r.Context(), h.memberID, id); err != nil {
		h.renderError(w, err)
		return
	}
	details, err := h.store.Details(r.Context(), h.memberID, id)
	if err != nil {
		h.renderError(w, err)
		return
	}

	clean := inbox.SanitizeResponse(details)

	page := messagePage{
		Member:    h.memberID,
		ID:        clean.MessageID,
		Title:     clean.PlainTitle(),
		Category:  stringValue(clean.Category),
		CreatedAt: formatWhen(clean.CreatedAt),
		Body:      clean.SafeBodyHTML(),
		Dropped:   countActions(details) - countActions(clean),
	}
	page.Actions = append(page.Actions, actionViews(clean.PrimaryAction, true)...)
	page.Actions = append(page.Actions, actionViews(clean.SecondaryAction, false)...)

	h.render(w, "message.html", page)
}

// MarkRead handles the list's mark-read button
// POST /messages/{id}/read
func (h *PageHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	if _, err := h.store.MarkRead(r.Context(), h.memberID, r.PathValue("id")); err != nil {
		h.renderError(w, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// MarkAllRead handles the inbox header button
// POST /read-all
func (h *PageHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	if _, err := h.store.MarkAllRead(r.Context(), h.memberID); err != nil {
		h.renderError(w, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Outbound guards navigation out of the inbox. Only targets that
// pass the URL safety check get a redirect; everything else is
// refused without echoing the target back as markup.
// GET /out
func (h *PageHandler) Outbound(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Query().Get("to")
	if !safeurl.Redirect(w, r, target) {
		h.logger.Warn("refused outbound redirect", "target", target)
		http.Error(w, "refused: target URL is not safe", http.StatusBadRequest)
	}
}

// render executes the template into a buffer first so a mid-render
// failure cannot leave a half-written page on the wire.
func (h *PageHandler) render(w http.ResponseWriter, name string, data interface{}) {
	var buf bytes.Buffer
	if err := h.templates.ExecuteTemplate(&buf, name, data); err != nil {
		h.logger.Error("template render failed", "template", name, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

func (h *PageHandler) renderError(w http.ResponseWriter, err error) {
	var httpErr domain.HTTPError
	if errors.As(err, &httpErr) {
		http.Error(w, httpErr.Error(), httpErr.StatusCode())
		return
	}
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// actionViews converts one action slot to its page form. Link actions
// are routed through the outbound guard, and links that open a new
// tab always carry the opener-isolation rel tokens.
func actionViews(action inbox.Action, primary bool) []actionView {
	switch a := action.(type) {
	case inbox.LinkAction:
		return []actionView{{
			Label:   a.Label,
			Kind:    inbox.KindLink,
			URL:     "/out?to=" + url.QueryEscape(a.Href),
			Target:  a.Target,
			Rel:     sanitize.HardenRel(a.Target, a.Rel),
			Primary: primary,
		}}
	case inbox.CallbackAction:
		return []actionView{{
			Label:    a.Label,
			Kind:     inbox.KindCallback,
			ActionID: a.ActionID,
			Primary:  primary,
		}}
	default:
		return nil
	}
}

func countActions(d inbox.MessageDetails) int {
	n := 0
	if d.PrimaryAction != nil {
		n++
	}
	if d.SecondaryAction != nil {
		n++
	}
	return n
}

func formatWhen(createdAt string) string {
	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return createdAt
	}
	return t.Format("Jan 2, 2006 at 15:04 MST")
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
