// Package inbox models notification messages and validates the
// payloads a notification service returns for them. The strict
// validator rejects malformed message-details responses with a
// field-level diagnostic; the lenient sanitizer strips unsafe actions
// from an already-typed record without failing. Message bodies stay
// raw on the record and are sanitized at render time.
package inbox

import (
	"encoding/json"
	"fmt"
	"html/template"

	"herald/sanitize"
)

// MessageDetails is the full payload for a single message. Title,
// Snippet and Category are nullable on the wire; BodyHTML may be
// empty but is always present. The two action slots are optional and
// hold at most one action each.
type MessageDetails struct {
	MessageID       string  `json:"messageId"`
	Title           *string `json:"title,omitempty"`
	Snippet         *string `json:"snippet,omitempty"`
	CreatedAt       string  `json:"createdAt"`
	BodyHTML        string  `json:"bodyHtml"`
	Category        *string `json:"category,omitempty"`
	PrimaryAction   Action  `json:"primaryAction,omitempty"`
	SecondaryAction Action  `json:"secondaryAction,omitempty"`
}

// UnmarshalJSON decodes the action slots through their kind
// discriminator. An action that is present but malformed JSON fails
// the decode; shape checking beyond that is ValidateResponse's job.
func (m *MessageDetails) UnmarshalJSON(data []byte) error {
	type plain MessageDetails
	aux := struct {
		*plain
		PrimaryAction   json.RawMessage `json:"primaryAction"`
		SecondaryAction json.RawMessage `json:"secondaryAction"`
	}{plain: (*plain)(m)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	var err error
	if m.PrimaryAction, err = decodeOptionalAction(aux.PrimaryAction); err != nil {
		return fmt.Errorf("primaryAction: %w", err)
	}
	if m.SecondaryAction, err = decodeOptionalAction(aux.SecondaryAction); err != nil {
		return fmt.Errorf("secondaryAction: %w", err)
	}
	return nil
}

func decodeOptionalAction(raw json.RawMessage) (Action, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	return decodeAction(raw)
}

// SafeBodyHTML runs BodyHTML through the sanitizer and marks the
// result safe for html/template embedding. The stored record keeps
// the raw markup; sanitization is a derived view.
func (m MessageDetails) SafeBodyHTML() template.HTML {
	return sanitize.HTML(m.BodyHTML)
}

// PlainTitle returns the title reduced to plain text, or the empty
// string for a null title.
func (m MessageDetails) PlainTitle() string {
	if m.Title == nil {
		return ""
	}
	return sanitize.Text(*m.Title)
}

// PlainSnippet returns the snippet reduced to plain text, or the
// empty string for a null snippet.
func (m MessageDetails) PlainSnippet() string {
	if m.Snippet == nil {
		return ""
	}
	return sanitize.Text(*m.Snippet)
}
