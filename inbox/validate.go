package inbox

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"herald/safeurl"
)

// ResponseError reports why a message-details payload failed strict
// validation. Field names the offending field when one is known.
type ResponseError struct {
	Field  string
	Reason string
}

func (e *ResponseError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return e.Field + ": " + e.Reason
}

// ValidateResponse checks a decoded JSON value against the
// message-details schema and returns it as a typed record. Checks run
// in a fixed order and stop at the first failure, so the returned
// error always names the first offending field. Values pass through
// untransformed; in particular bodyHtml stays raw, sanitization
// happens at render time.
func ValidateResponse(response any) (*MessageDetails, error) {
	obj, ok := response.(map[string]any)
	if !ok {
		return nil, &ResponseError{Reason: "response is not an object"}
	}
	if !isNonEmptyString(obj["messageId"]) {
		return nil, &ResponseError{Field: "messageId", Reason: "must be a non-empty string"}
	}
	if !isOptionalString(obj, "title") {
		return nil, &ResponseError{Field: "title", Reason: "must be a string or null"}
	}
	if !isOptionalString(obj, "snippet") {
		return nil, &ResponseError{Field: "snippet", Reason: "must be a string or null"}
	}
	if !isNonEmptyString(obj["createdAt"]) {
		return nil, &ResponseError{Field: "createdAt", Reason: "must be a non-empty string"}
	}
	if _, isString := obj["bodyHtml"].(string); !isString {
		return nil, &ResponseError{Field: "bodyHtml", Reason: "must be a string"}
	}
	if !isOptionalString(obj, "category") {
		return nil, &ResponseError{Field: "category", Reason: "must be a string or null"}
	}

	primary, err := validateOptionalAction(obj, "primaryAction")
	if err != nil {
		return nil, &ResponseError{Field: "primaryAction", Reason: err.Error()}
	}
	secondary, err := validateOptionalAction(obj, "secondaryAction")
	if err != nil {
		return nil, &ResponseError{Field: "secondaryAction", Reason: err.Error()}
	}

	details := &MessageDetails{
		MessageID:       obj["messageId"].(string),
		Title:           optionalString(obj, "title"),
		Snippet:         optionalString(obj, "snippet"),
		CreatedAt:       obj["createdAt"].(string),
		BodyHTML:        obj["bodyHtml"].(string),
		Category:        optionalString(obj, "category"),
		PrimaryAction:   primary,
		SecondaryAction: secondary,
	}
	return details, nil
}

// Decode unmarshals raw JSON and runs ValidateResponse over it.
func Decode(data []byte) (*MessageDetails, error) {
	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode message details: %w", err)
	}
	return ValidateResponse(payload)
}

// SanitizeResponse returns a copy of m with any action that fails
// validation stripped. This is the lenient render-time counterpart to
// ValidateResponse: it never fails and never touches the input or any
// field other than the two action slots.
func SanitizeResponse(m MessageDetails) MessageDetails {
	out := m
	if out.PrimaryAction != nil && out.PrimaryAction.Validate() != nil {
		out.PrimaryAction = nil
	}
	if out.SecondaryAction != nil && out.SecondaryAction.Validate() != nil {
		out.SecondaryAction = nil
	}
	return out
}

// validateOptionalAction checks the action slot named by key on the
// raw object. Absent slots pass; present slots must match the link or
// callback shape exactly.
func validateOptionalAction(obj map[string]any, key string) (Action, error) {
	v, present := obj[key]
	if !present {
		return nil, nil
	}
	return validateActionValue(v)
}

func validateActionValue(v any) (Action, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, errors.New("must be an object")
	}
	kind, _ := obj["kind"].(string)
	switch kind {
	case KindLink:
		return validateLinkObject(obj)
	case KindCallback:
		return validateCallbackObject(obj)
	default:
		return nil, fmt.Errorf("kind must be %q or %q", KindLink, KindCallback)
	}
}

func validateLinkObject(obj map[string]any) (Action, error) {
	if !isNonEmptyString(obj["label"]) {
		return nil, errors.New("label must be a non-empty string")
	}
	if !isActionType(obj["type"]) {
		return nil, errors.New("type must be primary or secondary")
	}
	href, _ := obj["href"].(string)
	if href == "" {
		return nil, errors.New("href must be a non-empty string")
	}
	if !safeurl.IsSafe(href) {
		return nil, errors.New("href is not a safe URL")
	}
	if v, present := obj["target"]; present {
		target, isString := v.(string)
		if !isString || !strings.HasPrefix(target, "_") {
			return nil, errors.New("target must be a string beginning with an underscore")
		}
	}
	if !isStringIfPresent(obj, "rel") {
		return nil, errors.New("rel must be a string")
	}
	if !isStringIfPresent(obj, "id") {
		return nil, errors.New("id must be a string")
	}
	return LinkAction{
		ID:     stringOrEmpty(obj["id"]),
		Label:  obj["label"].(string),
		Type:   obj["type"].(string),
		Href:   href,
		Target: stringOrEmpty(obj["target"]),
		Rel:    stringOrEmpty(obj["rel"]),
	}, nil
}

func validateCallbackObject(obj map[string]any) (Action, error) {
	if !isNonEmptyString(obj["label"]) {
		return nil, errors.New("label must be a non-empty string")
	}
	if !isActionType(obj["type"]) {
		return nil, errors.New("type must be primary or secondary")
	}
	if !isNonEmptyString(obj["actionId"]) {
		return nil, errors.New("actionId must be a non-empty string")
	}
	if !isStringIfPresent(obj, "id") {
		return nil, errors.New("id must be a string")
	}
	return CallbackAction{
		ID:       stringOrEmpty(obj["id"]),
		Label:    obj["label"].(string),
		Type:     obj["type"].(string),
		ActionID: obj["actionId"].(string),
	}, nil
}

func isNonEmptyString(v any) bool {
	s, ok := v.(string)
	return ok && s != ""
}

func isActionType(v any) bool {
	s, ok := v.(string)
	return ok && (s == TypePrimary || s == TypeSecondary)
}

// isOptionalString reports whether key is absent, null or a string.
// Only the top-level nullable fields (title, snippet, category) use
// it; action fields are never nullable.
func isOptionalString(obj map[string]any, key string) bool {
	v, present := obj[key]
	if !present || v == nil {
		return true
	}
	_, ok := v.(string)
	return ok
}

// isStringIfPresent reports whether key is absent or a string. A
// present null fails.
func isStringIfPresent(obj map[string]any, key string) bool {
	v, present := obj[key]
	if !present {
		return true
	}
	_, ok := v.(string)
	return ok
}

// optionalString returns a pointer for string values and nil for
// absent or null ones. Callers check isOptionalString first.
func optionalString(obj map[string]any, key string) *string {
	if s, ok := obj[key].(string); ok {
		return &s
	}
	return nil
}

func stringOrEmpty(v any) string {
	s, _ := v.(string)
	return s
}
