// Package fixtures carries the embedded demo feed that seeds every
// member's inbox.
package fixtures

import (
	"embed"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"herald/inbox"
	"herald/sanitize"
)

//go:embed feed.yaml
var feedFile embed.FS

// Message is the YAML shape of one seed message.
type Message struct {
	ID              string  `yaml:"id"`
	Title           *string `yaml:"title"`
	Snippet         *string `yaml:"snippet"`
	Category        *string `yaml:"category"`
	CreatedAt       string  `yaml:"created_at"`
	ReadAt          string  `yaml:"read_at"`
	BodyHTML        string  `yaml:"body_html"`
	PrimaryAction   *Action `yaml:"primary_action"`
	SecondaryAction *Action `yaml:"secondary_action"`
}

// Action is the YAML shape of a message action. Kind decides which
// fields apply.
type Action struct {
	Kind     string `yaml:"kind"`
	Label    string `yaml:"label"`
	Type     string `yaml:"type"`
	Href     string `yaml:"href"`
	Target   string `yaml:"target"`
	Rel      string `yaml:"rel"`
	ID       string `yaml:"id"`
	ActionID string `yaml:"action_id"`
}

type feedData struct {
	Messages []Message `yaml:"messages"`
}

// Load parses the embedded seed feed. Messages come back in file
// order, newest first; the store trusts that ordering.
func Load() ([]Message, error) {
	data, err := feedFile.ReadFile("feed.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read feed.yaml: %w", err)
	}

	var feed feedData
	if err := yaml.Unmarshal(data, &feed); err != nil {
		return nil, fmt.Errorf("failed to unmarshal feed.yaml: %w", err)
	}

	return feed.Messages, nil
}

// Summary converts the seed message to its feed-list form. Title and
// snippet are flattened to plain text here so list views never carry
// markup.
func (m Message) Summary() (inbox.Message, error) {
	createdAt, err := time.Parse(time.RFC3339, m.CreatedAt)
	if err != nil {
		return inbox.Message{}, fmt.Errorf("invalid created_at %q: %w", m.CreatedAt, err)
	}

	msg := inbox.Message{
		ID:        m.ID,
		Title:     sanitize.Text(value(m.Title)),
		Snippet:   sanitize.Text(value(m.Snippet)),
		Category:  value(m.Category),
		CreatedAt: createdAt,
	}

	if m.ReadAt != "" {
		readAt, err := time.Parse(time.RFC3339, m.ReadAt)
		if err != nil {
			return inbox.Message{}, fmt.Errorf("invalid read_at %q: %w", m.ReadAt, err)
		}
		msg.ReadAt = &readAt
	}

	return msg, nil
}

// Details converts the seed message to the full payload served by the
// message endpoint. The body stays as authored, hostile markup
// included; sanitizing is the renderer's job, and an unsafe action
// here is exactly what the strict decode path exists to catch.
func (m Message) Details() (inbox.MessageDetails, error) {
	details := inbox.MessageDetails{
		MessageID: m.ID,
		Title:     m.Title,
		Snippet:   m.Snippet,
		CreatedAt: m.CreatedAt,
		BodyHTML:  m.BodyHTML,
		Category:  m.Category,
	}

	if m.PrimaryAction != nil {
		action, err := m.PrimaryAction.toAction()
		if err != nil {
			return inbox.MessageDetails{}, fmt.Errorf("primary action: %w", err)
		}
		details.PrimaryAction = action
	}

	if m.SecondaryAction != nil {
		action, err := m.SecondaryAction.toAction()
		if err != nil {
			return inbox.MessageDetails{}, fmt.Errorf("secondary action: %w", err)
		}
		details.SecondaryAction = action
	}

	return details, nil
}

func (a Action) toAction() (inbox.Action, error) {
	switch a.Kind {
	case inbox.KindLink:
		return inbox.LinkAction{
			ID:     a.ID,
			Label:  a.Label,
			Type:   a.Type,
			Href:   a.Href,
			Target: a.Target,
			Rel:    a.Rel,
		}, nil
	case inbox.KindCallback:
		return inbox.CallbackAction{
			ID:       a.ID,
			Label:    a.Label,
			Type:     a.Type,
			ActionID: a.ActionID,
		}, nil
	default:
		return nil, fmt.Errorf("unknown action kind %q", a.Kind)
	}
}

func value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
