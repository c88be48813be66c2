package safeurl

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNormalize(t *testing.T) {
	for _, tc := range []struct {
		input string
		want  string
		ok    bool
	}{
		{"https://example.com/a", "https://example.com/a", true},
		{"  https://example.com/a \n", "https://example.com/a", true},
		{"HTTP://EXAMPLE.COM/A", "HTTP://EXAMPLE.COM/A", true},
		{"mailto:team@example.com", "mailto:team@example.com", true},
		{"tel:+15551234567", "tel:+15551234567", true},
		{"#section-2", "#section-2", true},
		{"/inbox/42", "/inbox/42", true},
		{"messages/42?tab=archive", "messages/42?tab=archive", true},
		{"//cdn.example.com/logo.png", "//cdn.example.com/logo.png", true},
		{"?page=2", "?page=2", true},
		{"javascript:alert(1)", "", false},
		{"JaVaScRiPt:alert(1)", "", false},
		{" javascript:alert(1) ", "", false},
		{"data:text/html;base64,PHNjcmlwdD4=", "", false},
		{"vbscript:msgbox(1)", "", false},
		{"file:///etc/passwd", "", false},
		{"blob:https://example.com/d4f0", "", false},
		{"ftp://example.com/pub", "", false},
		{"", "", false},
		{"   ", "", false},
		{"https://example.com/%zz", "", false},
	} {
		t.Run(fmt.Sprintf("%q", tc.input), func(t *testing.T) {
			got, ok := Normalize(tc.input)
			if ok != tc.ok || got != tc.want {
				t.Fatalf("Normalize(%q) = %q, %v; want %q, %v", tc.input, got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestIsSafe(t *testing.T) {
	if !IsSafe("https://example.com/path") {
		t.Error("expected https URL to be safe")
	}
	if IsSafe("javascript:void(0)") {
		t.Error("expected javascript: URL to be unsafe")
	}
}

func TestRedirect(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/out", nil)

	rec := httptest.NewRecorder()
	if !Redirect(rec, req, "https://example.com/docs") {
		t.Fatal("expected safe target to redirect")
	}
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "https://example.com/docs" {
		t.Fatalf("unexpected Location %q", loc)
	}

	rec = httptest.NewRecorder()
	if Redirect(rec, req, "javascript:alert(1)") {
		t.Fatal("expected unsafe target to be refused")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected recorder untouched, got status %d", rec.Code)
	}
}
