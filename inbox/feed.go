package inbox

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Message is the header-level view of a message as it appears in the
// feed list. The full body and actions live on MessageDetails and are
// fetched separately.
type Message struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Snippet   string     `json:"snippet,omitempty"`
	Category  string     `json:"category,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	ReadAt    *time.Time `json:"readAt,omitempty"`
}

// Read reports whether the message has been marked read.
func (m Message) Read() bool { return m.ReadAt != nil }

// Feed is one page of the message list with its continuation cursor.
// An empty NextCursor means the feed is exhausted.
type Feed struct {
	Messages    []Message `json:"messages"`
	NextCursor  string    `json:"nextCursor,omitempty"`
	UnreadCount int       `json:"unreadCount"`
}

// UnreadCount is the bell-indicator payload.
type UnreadCount struct {
	Count int `json:"count"`
}

// Event types pushed on the live stream.
const (
	EventMessageNew    = "message.new"
	EventUnreadChanged = "unread.changed"
)

// Event is one live update from the service: a new message header or
// a change of the unread count.
type Event struct {
	Type    string   `json:"type"`
	Count   int      `json:"count,omitempty"`
	Message *Message `json:"message,omitempty"`
}

// Preferences holds a member's notification delivery settings.
type Preferences struct {
	EmailUpdates    bool     `json:"emailUpdates"`
	InAppAlerts     bool     `json:"inAppAlerts"`
	MutedCategories []string `json:"mutedCategories,omitempty"`
}

// PreferencesUpdate is a partial update: nil fields keep their
// current value.
type PreferencesUpdate struct {
	EmailUpdates    *bool     `json:"emailUpdates,omitempty"`
	InAppAlerts     *bool     `json:"inAppAlerts,omitempty"`
	MutedCategories *[]string `json:"mutedCategories,omitempty"`
}

// Validate checks that muted category names are present and sane.
func (u PreferencesUpdate) Validate() error {
	if u.MutedCategories == nil {
		return nil
	}
	return validation.Validate(*u.MutedCategories,
		validation.Each(validation.Required.Error("category must not be empty"),
			validation.Length(1, 64).Error("category must be at most 64 characters")))
}

// Apply merges the update into p and returns the result.
func (u PreferencesUpdate) Apply(p Preferences) Preferences {
	if u.EmailUpdates != nil {
		p.EmailUpdates = *u.EmailUpdates
	}
	if u.InAppAlerts != nil {
		p.InAppAlerts = *u.InAppAlerts
	}
	if u.MutedCategories != nil {
		p.MutedCategories = append([]string(nil), (*u.MutedCategories)...)
	}
	return p
}
