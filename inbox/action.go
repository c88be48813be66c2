package inbox

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"herald/safeurl"
)

// Action kinds as they appear on the wire.
const (
	KindLink     = "link"
	KindCallback = "callback"
)

// Action display types. Every action renders as either the prominent
// or the secondary button of a message.
const (
	TypePrimary   = "primary"
	TypeSecondary = "secondary"
)

// Action is a server-declared button on a message: either a link to
// navigate to or a host-registered callback to invoke. The concrete
// type is LinkAction or CallbackAction, discriminated on the wire by
// the "kind" field.
type Action interface {
	// Kind returns the wire discriminator, KindLink or KindCallback.
	Kind() string
	// Validate reports whether the action is safe to render.
	Validate() error

	sealed()
}

// LinkAction navigates to a URL when activated.
type LinkAction struct {
	ID     string `json:"id,omitempty"`
	Label  string `json:"label"`
	Type   string `json:"type"`
	Href   string `json:"href"`
	Target string `json:"target,omitempty"`
	Rel    string `json:"rel,omitempty"`
}

// CallbackAction invokes a callback registered by the host page.
type CallbackAction struct {
	ID       string `json:"id,omitempty"`
	Label    string `json:"label"`
	Type     string `json:"type"`
	ActionID string `json:"actionId"`
}

func (LinkAction) Kind() string     { return KindLink }
func (CallbackAction) Kind() string { return KindCallback }

func (LinkAction) sealed()     {}
func (CallbackAction) sealed() {}

// Validate checks the invariants a link action must hold before it
// may drive navigation: a visible label, a known display type, and an
// href that passes the URL safety check. Targets are permissive but
// must at least be browsing-context names (underscore-prefixed).
func (a LinkAction) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Label, validation.Required.Error("label must be a non-empty string")),
		validation.Field(&a.Type, validation.Required.Error("type is required"),
			validation.In(TypePrimary, TypeSecondary).Error("type must be primary or secondary")),
		validation.Field(&a.Href, validation.Required.Error("href must be a non-empty string"),
			validation.By(validSafeURL)),
		validation.Field(&a.Target, validation.By(validAnchorTarget)),
	)
}

// Validate checks the invariants a callback action must hold: a
// visible label, a known display type and the callback identifier.
func (a CallbackAction) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Label, validation.Required.Error("label must be a non-empty string")),
		validation.Field(&a.Type, validation.Required.Error("type is required"),
			validation.In(TypePrimary, TypeSecondary).Error("type must be primary or secondary")),
		validation.Field(&a.ActionID, validation.Required.Error("actionId must be a non-empty string")),
	)
}

func validSafeURL(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if !safeurl.IsSafe(s) {
		return errors.New("must be a safe URL")
	}
	return nil
}

func validAnchorTarget(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if !strings.HasPrefix(s, "_") {
		return errors.New("must begin with an underscore")
	}
	return nil
}

// MarshalJSON adds the kind discriminator to the wire form.
func (a LinkAction) MarshalJSON() ([]byte, error) {
	type plain LinkAction
	return json.Marshal(struct {
		Kind string `json:"kind"`
		plain
	}{Kind: KindLink, plain: plain(a)})
}

// MarshalJSON adds the kind discriminator to the wire form.
func (a CallbackAction) MarshalJSON() ([]byte, error) {
	type plain CallbackAction
	return json.Marshal(struct {
		Kind string `json:"kind"`
		plain
	}{Kind: KindCallback, plain: plain(a)})
}

// decodeAction unmarshals one action, dispatching on the kind field.
func decodeAction(data []byte) (Action, error) {
	var probe struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("failed to decode action: %w", err)
	}
	switch probe.Kind {
	case KindLink:
		var a LinkAction
		if err := json.Unmarshal(data, &a); err != nil {
			return nil, fmt.Errorf("failed to decode link action: %w", err)
		}
		return a, nil
	case KindCallback:
		var a CallbackAction
		if err := json.Unmarshal(data, &a); err != nil {
			return nil, fmt.Errorf("failed to decode callback action: %w", err)
		}
		return a, nil
	default:
		return nil, fmt.Errorf("unknown action kind %q", probe.Kind)
	}
}
