package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"herald/inbox"
)

const (
	writeWait       = 10 * time.Second
	pongWait        = 60 * time.Second
	pingInterval    = 30 * time.Second
	eventBufferSize = 64
)

// Subscribe opens the live event stream. Events arrive on the
// returned channel until ctx is cancelled or the connection drops,
// after which the channel is closed. The stream does not retry the
// token on auth failure; callers reconnect on a closed channel.
func (c *Client) Subscribe(ctx context.Context) (<-chan inbox.Event, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to obtain member token: %w", err)
	}
	endpoint, err := liveEndpoint(c.baseURL)
	if err != nil {
		return nil, err
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, endpoint, header)
	if err != nil {
		if resp != nil {
			defer resp.Body.Close()
			return nil, newAPIError(resp)
		}
		return nil, fmt.Errorf("failed to connect to live stream: %w", err)
	}

	events := make(chan inbox.Event, eventBufferSize)
	go c.readLoop(ctx, conn, events)
	go pingLoop(ctx, conn)
	return events, nil
}

func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn, events chan<- inbox.Event) {
	defer close(events)
	defer conn.Close()

	conn.SetReadLimit(1 << 20)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var event inbox.Event
		if err := conn.ReadJSON(&event); err != nil {
			if ctx.Err() == nil && websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Warn("live stream closed unexpectedly", "error", err)
			}
			return
		}
		select {
		case events <- event:
		case <-ctx.Done():
			return
		}
	}
}

func pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			deadline := time.Now().Add(writeWait)
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
			conn.Close()
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

// liveEndpoint rewrites the API base URL to its websocket form.
func liveEndpoint(baseURL string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported base URL scheme %q", u.Scheme)
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/api/inbox/live"
	return u.String(), nil
}
