package inbox

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestLinkActionValidate(t *testing.T) {
	valid := LinkAction{Label: "Open", Type: TypePrimary, Href: "https://example.com/m/1"}

	tests := []struct {
		name    string
		mutate  func(a LinkAction) LinkAction
		wantErr string
	}{
		{"valid", func(a LinkAction) LinkAction { return a }, ""},
		{"blank target ok", func(a LinkAction) LinkAction { a.Target = "_blank"; return a }, ""},
		{"custom underscore target ok", func(a LinkAction) LinkAction { a.Target = "_reader"; return a }, ""},
		{"relative href ok", func(a LinkAction) LinkAction { a.Href = "/m/1"; return a }, ""},
		{"missing label", func(a LinkAction) LinkAction { a.Label = ""; return a }, "label must be a non-empty string"},
		{"bad type", func(a LinkAction) LinkAction { a.Type = "tertiary"; return a }, "type must be primary or secondary"},
		{"missing href", func(a LinkAction) LinkAction { a.Href = ""; return a }, "href must be a non-empty string"},
		{"unsafe href", func(a LinkAction) LinkAction { a.Href = "javascript:alert(1)"; return a }, "must be a safe URL"},
		{"bare target", func(a LinkAction) LinkAction { a.Target = "frame1"; return a }, "must begin with an underscore"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.mutate(valid).Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("expected valid action, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestCallbackActionValidate(t *testing.T) {
	valid := CallbackAction{Label: "Dismiss", Type: TypeSecondary, ActionID: "dismiss"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid action, got %v", err)
	}

	missing := valid
	missing.ActionID = ""
	if err := missing.Validate(); err == nil || !strings.Contains(err.Error(), "actionId must be a non-empty string") {
		t.Fatalf("expected actionId error, got %v", err)
	}
}

func TestActionJSONRoundTrip(t *testing.T) {
	link := LinkAction{ID: "a1", Label: "Open", Type: TypePrimary, Href: "https://example.com", Target: "_blank", Rel: "external"}
	data, err := json.Marshal(link)
	if err != nil {
		t.Fatalf("failed to marshal link action: %v", err)
	}
	if !strings.Contains(string(data), `"kind":"link"`) {
		t.Fatalf("expected kind discriminator in %s", data)
	}
	decoded, err := decodeAction(data)
	if err != nil {
		t.Fatalf("failed to decode link action: %v", err)
	}
	if got, ok := decoded.(LinkAction); !ok || got != link {
		t.Fatalf("round trip mismatch: %+v", decoded)
	}

	callback := CallbackAction{Label: "Dismiss", Type: TypeSecondary, ActionID: "dismiss"}
	data, err = json.Marshal(callback)
	if err != nil {
		t.Fatalf("failed to marshal callback action: %v", err)
	}
	if !strings.Contains(string(data), `"kind":"callback"`) {
		t.Fatalf("expected kind discriminator in %s", data)
	}
	decoded, err = decodeAction(data)
	if err != nil {
		t.Fatalf("failed to decode callback action: %v", err)
	}
	if got, ok := decoded.(CallbackAction); !ok || got != callback {
		t.Fatalf("round trip mismatch: %+v", decoded)
	}

	if _, err := decodeAction([]byte(`{"kind":"button","label":"x"}`)); err == nil {
		t.Fatal("expected unknown kind to fail")
	}
}

func TestMessageDetailsJSON(t *testing.T) {
	data := []byte(`{
		"messageId": "m-9",
		"title": "Digest",
		"createdAt": "2026-08-22T09:00:00Z",
		"bodyHtml": "<p>hello</p>",
		"primaryAction": {"kind": "link", "label": "Open", "type": "primary", "href": "/m/9"},
		"secondaryAction": null
	}`)

	var details MessageDetails
	if err := json.Unmarshal(data, &details); err != nil {
		t.Fatalf("failed to unmarshal details: %v", err)
	}
	if details.SecondaryAction != nil {
		t.Fatalf("expected null action slot to stay empty, got %+v", details.SecondaryAction)
	}
	link, ok := details.PrimaryAction.(LinkAction)
	if !ok || link.Href != "/m/9" {
		t.Fatalf("unexpected primary action %+v", details.PrimaryAction)
	}

	out, err := json.Marshal(details)
	if err != nil {
		t.Fatalf("failed to marshal details: %v", err)
	}
	if !strings.Contains(string(out), `"kind":"link"`) {
		t.Fatalf("expected kind discriminator in %s", out)
	}
}

func TestSafeBodyHTML(t *testing.T) {
	details := MessageDetails{
		MessageID: "m-2",
		CreatedAt: "2026-08-20T10:00:00Z",
		BodyHTML:  `<p>Hello</p><script>alert(1)</script>`,
	}
	got := string(details.SafeBodyHTML())
	if !strings.Contains(got, "Hello") {
		t.Fatalf("expected body text to survive, got %q", got)
	}
	if strings.Contains(got, "<script") {
		t.Fatalf("expected script to be removed, got %q", got)
	}
	if details.BodyHTML != `<p>Hello</p><script>alert(1)</script>` {
		t.Fatal("stored record was mutated")
	}
}
