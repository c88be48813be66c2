package handler

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"herald/internal/store"
)

func newPageServer(t *testing.T) (*http.ServeMux, *store.FeedStore) {
	t.Helper()
	feedStore := newTestStore(t)
	h, err := NewPageHandler(feedStore, testMember, testLogger())
	if err != nil {
		t.Fatalf("NewPageHandler() error = %v", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.Inbox)
	mux.HandleFunc("GET /messages/{id}", h.Message)
	mux.HandleFunc("POST /messages/{id}/read", h.MarkRead)
	mux.HandleFunc("POST /read-all", h.MarkAllRead)
	mux.HandleFunc("GET /out", h.Outbound)
	return mux, feedStore
}

func TestInboxPage(t *testing.T) {
	mux, _ := newPageServer(t)

	rec := do(t, mux, http.MethodGet, "/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q, want text/html", ct)
	}

	body := rec.Body.String()
	for _, want := range []string{
		`<span class="badge">2</span>`,
		"Claim your reward",
		"Invoice ready",
		"Welcome",
		"Mark all read",
		"Signed in as " + testMember,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("page is missing %q", want)
		}
	}
	// List titles render flattened, not as markup.
	if strings.Contains(body, "<em>") {
		t.Error("page contains <em> from a message title, want plain text")
	}
}

// TestMessagePage renders the hostile seed message and checks the
// lenient path end to end: body sanitized, the unsafe link action
// dropped with a notice, the callback action kept.
func TestMessagePage(t *testing.T) {
	mux, feedStore := newPageServer(t)

	rec := do(t, mux, http.MethodGet, "/messages/m3", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	body := rec.Body.String()
	for _, banned := range []string{"<script", "javascript:", "onclick"} {
		if strings.Contains(body, banned) {
			t.Errorf("page contains %q, want it sanitized away", banned)
		}
	}
	// The script collapsed to its text content.
	if !strings.Contains(body, "document.cookie") {
		t.Error("script text content missing, want it kept as plain text")
	}

	if strings.Contains(body, "Claim now") {
		t.Error("unsafe link action rendered, want it dropped")
	}
	if !strings.Contains(body, "Dismiss") {
		t.Error("callback action missing, want it to survive the checks")
	}
	if !strings.Contains(body, "1 action was removed for failing safety checks.") {
		t.Error("dropped-action notice missing")
	}

	// Opening the message marked it read.
	count, err := feedStore.UnreadCount(context.Background(), testMember)
	if err != nil {
		t.Fatalf("UnreadCount() error = %v", err)
	}
	if count != 1 {
		t.Errorf("unread count after open = %d, want 1", count)
	}
}

func TestMessagePageLinkAction(t *testing.T) {
	mux, _ := newPageServer(t)

	rec := do(t, mux, http.MethodGet, "/messages/m2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	body := rec.Body.String()
	// The link is routed through the outbound guard, keeps its new-tab
	// target and gains the opener-isolation tokens next to the
	// declared ones.
	for _, want := range []string{
		"/out?to=https%3A%2F%2Fbilling.example.com%2Finvoices%2F42",
		`target="_blank"`,
		`rel="nofollow noopener noreferrer"`,
		"View invoice",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("page is missing %q", want)
		}
	}
	if strings.Contains(body, "removed for failing safety checks") {
		t.Error("notice shown for a message with no dropped actions")
	}
}

func TestMessagePageNotFound(t *testing.T) {
	mux, _ := newPageServer(t)

	rec := do(t, mux, http.MethodGet, "/messages/nope", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestPageMarkReadRedirects(t *testing.T) {
	mux, feedStore := newPageServer(t)

	rec := do(t, mux, http.MethodPost, "/messages/m3/read", "")
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Errorf("Location = %q, want /", loc)
	}

	rec = do(t, mux, http.MethodPost, "/read-all", "")
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("read-all status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	count, err := feedStore.UnreadCount(context.Background(), testMember)
	if err != nil {
		t.Fatalf("UnreadCount() error = %v", err)
	}
	if count != 0 {
		t.Errorf("unread count = %d, want 0 after read-all", count)
	}
}

func TestOutbound(t *testing.T) {
	mux, _ := newPageServer(t)

	tests := []struct {
		name         string
		target       string
		wantStatus   int
		wantLocation string
	}{
		{"https link", "https://example.com/docs", http.StatusSeeOther, "https://example.com/docs"},
		{"relative link", "/settings", http.StatusSeeOther, "/settings"},
		{"mailto link", "mailto:team@example.com", http.StatusSeeOther, "mailto:team@example.com"},
		{"javascript scheme", "javascript:alert(1)", http.StatusBadRequest, ""},
		{"data scheme", "data:text/html,<script>1</script>", http.StatusBadRequest, ""},
		{"empty target", "", http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, mux, http.MethodGet, "/out?to="+url.QueryEscape(tt.target), "")
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantLocation != "" {
				if loc := rec.Header().Get("Location"); loc != tt.wantLocation {
					t.Errorf("Location = %q, want %q", loc, tt.wantLocation)
				}
			}
			// Refusals must not echo the target back as markup.
			if tt.wantStatus == http.StatusBadRequest && tt.target != "" {
				if strings.Contains(rec.Body.String(), tt.target) {
					t.Errorf("refusal echoes the raw target %q", tt.target)
				}
			}
		})
	}
}
