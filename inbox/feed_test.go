package inbox

import (
	"strings"
	"testing"
	"time"
)

func TestMessageRead(t *testing.T) {
	var m Message
	if m.Read() {
		t.Fatal("expected unread message")
	}
	now := time.Now()
	m.ReadAt = &now
	if !m.Read() {
		t.Fatal("expected read message")
	}
}

func TestPreferencesUpdateValidate(t *testing.T) {
	if err := (PreferencesUpdate{}).Validate(); err != nil {
		t.Fatalf("empty update must be valid, got %v", err)
	}

	muted := []string{"billing", "digest"}
	if err := (PreferencesUpdate{MutedCategories: &muted}).Validate(); err != nil {
		t.Fatalf("expected valid categories, got %v", err)
	}

	bad := []string{"billing", ""}
	if err := (PreferencesUpdate{MutedCategories: &bad}).Validate(); err == nil {
		t.Fatal("expected empty category to fail")
	}

	long := []string{strings.Repeat("x", 65)}
	if err := (PreferencesUpdate{MutedCategories: &long}).Validate(); err == nil {
		t.Fatal("expected oversized category to fail")
	}
}

func TestPreferencesUpdateApply(t *testing.T) {
	current := Preferences{EmailUpdates: true, InAppAlerts: true, MutedCategories: []string{"digest"}}

	off := false
	muted := []string{"billing"}
	next := PreferencesUpdate{EmailUpdates: &off, MutedCategories: &muted}.Apply(current)

	if next.EmailUpdates {
		t.Fatal("expected emailUpdates to be switched off")
	}
	if !next.InAppAlerts {
		t.Fatal("expected inAppAlerts to keep its value")
	}
	if len(next.MutedCategories) != 1 || next.MutedCategories[0] != "billing" {
		t.Fatalf("unexpected muted categories %v", next.MutedCategories)
	}
	if current.MutedCategories[0] != "digest" {
		t.Fatal("input preferences were mutated")
	}
}
