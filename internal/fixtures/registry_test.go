package fixtures

import (
	"strings"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	messages, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(messages) == 0 {
		t.Fatal("Load() returned no messages")
	}

	seen := make(map[string]bool, len(messages))
	var last time.Time
	for i, m := range messages {
		if m.ID == "" {
			t.Fatalf("message %d has no id", i)
		}
		if seen[m.ID] {
			t.Fatalf("duplicate message id %s", m.ID)
		}
		seen[m.ID] = true

		summary, err := m.Summary()
		if err != nil {
			t.Fatalf("Summary() for %s: %v", m.ID, err)
		}
		if i > 0 && summary.CreatedAt.After(last) {
			t.Errorf("message %s is newer than its predecessor; the feed must be newest first", m.ID)
		}
		last = summary.CreatedAt

		if _, err := m.Details(); err != nil {
			t.Fatalf("Details() for %s: %v", m.ID, err)
		}
	}
}

// The seed intentionally contains one message whose details fail
// strict validation (unsafe primary action) and one with a hostile
// body. Guard both so the demo flows keep demonstrating them.
func TestSeedCoversValidationPaths(t *testing.T) {
	messages, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	var invalidAction, hostileBody bool
	for _, m := range messages {
		details, err := m.Details()
		if err != nil {
			t.Fatalf("Details() for %s: %v", m.ID, err)
		}
		if details.PrimaryAction != nil && details.PrimaryAction.Validate() != nil {
			invalidAction = true
		}
		if strings.Contains(details.BodyHTML, "<script") {
			hostileBody = true
		}
	}

	if !invalidAction {
		t.Error("no seed message carries an action that fails validation")
	}
	if !hostileBody {
		t.Error("no seed message carries a hostile body")
	}
}

func TestSummaryFlattensMarkup(t *testing.T) {
	snippet := "Claim your <em>exclusive</em> reward before it expires."
	m := Message{
		ID:        "m1",
		Snippet:   &snippet,
		CreatedAt: "2026-08-22T20:05:33Z",
	}

	summary, err := m.Summary()
	if err != nil {
		t.Fatalf("Summary() error: %v", err)
	}
	if want := "Claim your exclusive reward before it expires."; summary.Snippet != want {
		t.Errorf("Snippet = %q, want %q", summary.Snippet, want)
	}
}
