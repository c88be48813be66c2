package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"herald/inbox"
)

// Feed returns one page of the member's feed. An empty cursor starts
// from the newest message; a zero limit uses the service default.
func (c *Client) Feed(ctx context.Context, cursor string, limit int) (*inbox.Feed, error) {
	query := url.Values{}
	if cursor != "" {
		query.Set("cursor", cursor)
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	var feed inbox.Feed
	if err := c.do(ctx, http.MethodGet, "/api/inbox/messages", query, nil, &feed); err != nil {
		return nil, err
	}
	return &feed, nil
}

// Message fetches one message's details and runs the response through
// strict validation before returning it. A payload that fails the
// schema or carries an unsafe action is an error here, never a value.
func (c *Client) Message(ctx context.Context, id string) (*inbox.MessageDetails, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/inbox/messages/"+url.PathEscape(id), nil, nil, &raw); err != nil {
		return nil, err
	}
	details, err := inbox.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("message %s failed validation: %w", id, err)
	}
	return details, nil
}

// MarkRead marks one message as read. Marking an already-read message
// is not an error.
func (c *Client) MarkRead(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/api/inbox/messages/"+url.PathEscape(id)+"/read", nil, nil, nil)
}

// MarkAllRead marks every message in the feed as read.
func (c *Client) MarkAllRead(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/inbox/read-all", nil, nil, nil)
}

// UnreadCount returns the bell-indicator count.
func (c *Client) UnreadCount(ctx context.Context) (int, error) {
	var count inbox.UnreadCount
	if err := c.do(ctx, http.MethodGet, "/api/inbox/unread-count", nil, nil, &count); err != nil {
		return 0, err
	}
	return count.Count, nil
}

// Preferences returns the member's notification preferences.
func (c *Client) Preferences(ctx context.Context) (*inbox.Preferences, error) {
	var prefs inbox.Preferences
	if err := c.do(ctx, http.MethodGet, "/api/inbox/preferences", nil, nil, &prefs); err != nil {
		return nil, err
	}
	return &prefs, nil
}

// UpdatePreferences applies a partial preferences update and returns
// the resulting settings.
func (c *Client) UpdatePreferences(ctx context.Context, update inbox.PreferencesUpdate) (*inbox.Preferences, error) {
	if err := update.Validate(); err != nil {
		return nil, fmt.Errorf("invalid preferences update: %w", err)
	}
	var prefs inbox.Preferences
	if err := c.do(ctx, http.MethodPatch, "/api/inbox/preferences", nil, update, &prefs); err != nil {
		return nil, err
	}
	return &prefs, nil
}
