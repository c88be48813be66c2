// Package store keeps per-member inbox state in memory. Every member
// starts from the same embedded seed feed and diverges through reads
// and preference changes; state lives for the life of the process.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"herald/inbox"
	"herald/internal/config"
	"herald/internal/domain"
	"herald/internal/fixtures"
)

// messageRecord pairs the feed-list view of a message with the full
// payload served by the message endpoint.
type messageRecord struct {
	summary inbox.Message
	details inbox.MessageDetails
}

// memberState is one member's copy of the inbox.
type memberState struct {
	messages []messageRecord // newest first
	prefs    inbox.Preferences
	watchers map[chan int]struct{}
}

// FeedStore holds every member's inbox, seeded lazily from the
// fixture feed on first touch.
type FeedStore struct {
	seed   []messageRecord
	logger *slog.Logger
	now    func() time.Time

	mu      sync.Mutex
	members map[string]*memberState
}

// New converts the seed messages and prepares an empty store.
func New(seed []fixtures.Message, logger *slog.Logger) (*FeedStore, error) {
	records := make([]messageRecord, 0, len(seed))
	for _, m := range seed {
		summary, err := m.Summary()
		if err != nil {
			return nil, fmt.Errorf("seed message %s: %w", m.ID, err)
		}
		details, err := m.Details()
		if err != nil {
			return nil, fmt.Errorf("seed message %s: %w", m.ID, err)
		}
		records = append(records, messageRecord{summary: summary, details: details})
	}

	return &FeedStore{
		seed:    records,
		logger:  logger,
		now:     time.Now,
		members: make(map[string]*memberState),
	}, nil
}

// List returns one page of the member's feed, newest first. An empty
// cursor starts at the top; the returned cursor resumes after the
// last message of the page.
func (s *FeedStore) List(ctx context.Context, memberID, cursor string, limit int) (inbox.Feed, error) {
	if limit <= 0 {
		limit = config.DefaultFeedLimit
	}
	if limit > config.MaxFeedLimit {
		limit = config.MaxFeedLimit
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.memberLocked(memberID)

	start := 0
	if cursor != "" {
		idx := indexOf(state.messages, cursor)
		if idx < 0 {
			return inbox.Feed{}, &domain.ValidationError{Message: fmt.Sprintf("unknown cursor %q", cursor)}
		}
		start = idx + 1
	}

	end := start + limit
	if end > len(state.messages) {
		end = len(state.messages)
	}

	feed := inbox.Feed{
		Messages:    make([]inbox.Message, 0, end-start),
		UnreadCount: unread(state),
	}
	for _, rec := range state.messages[start:end] {
		feed.Messages = append(feed.Messages, rec.summary)
	}
	if end < len(state.messages) {
		feed.NextCursor = state.messages[end-1].summary.ID
	}

	return feed, nil
}

// Details returns the full message payload as stored, without
// validation or sanitizing. Consumers decide how defensive to be.
func (s *FeedStore) Details(ctx context.Context, memberID, messageID string) (inbox.MessageDetails, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.memberLocked(memberID)

	idx := indexOf(state.messages, messageID)
	if idx < 0 {
		return inbox.MessageDetails{}, &domain.NotFoundError{Message: fmt.Sprintf("message %s not found", messageID)}
	}

	return state.messages[idx].details, nil
}

// MarkRead marks one message read and returns its updated summary.
// Marking an already-read message is a no-op; watchers are notified
// only when the unread count actually changes.
func (s *FeedStore) MarkRead(ctx context.Context, memberID, messageID string) (inbox.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.memberLocked(memberID)

	idx := indexOf(state.messages, messageID)
	if idx < 0 {
		return inbox.Message{}, &domain.NotFoundError{Message: fmt.Sprintf("message %s not found", messageID)}
	}

	rec := &state.messages[idx]
	if rec.summary.ReadAt == nil {
		readAt := s.now()
		rec.summary.ReadAt = &readAt
		s.notifyLocked(state)
	}

	return rec.summary, nil
}

// MarkAllRead marks every unread message read and returns how many
// changed.
func (s *FeedStore) MarkAllRead(ctx context.Context, memberID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.memberLocked(memberID)

	readAt := s.now()
	changed := 0
	for i := range state.messages {
		if state.messages[i].summary.ReadAt == nil {
			state.messages[i].summary.ReadAt = &readAt
			changed++
		}
	}
	if changed > 0 {
		s.notifyLocked(state)
	}

	return changed, nil
}

// UnreadCount returns the number of unread messages.
func (s *FeedStore) UnreadCount(ctx context.Context, memberID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return unread(s.memberLocked(memberID)), nil
}

// Preferences returns the member's current delivery settings.
func (s *FeedStore) Preferences(ctx context.Context, memberID string) (inbox.Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return clonePrefs(s.memberLocked(memberID).prefs), nil
}

// UpdatePreferences merges the partial update into the member's
// settings. The update is assumed valid; callers check first.
func (s *FeedStore) UpdatePreferences(ctx context.Context, memberID string, update inbox.PreferencesUpdate) (inbox.Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.memberLocked(memberID)

	state.prefs = update.Apply(state.prefs)
	return clonePrefs(state.prefs), nil
}

// Subscribe registers a watcher for the member's unread count. The
// channel receives the count after every change until stop is called;
// slow consumers lose intermediate counts, never the latest.
func (s *FeedStore) Subscribe(memberID string) (<-chan int, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.memberLocked(memberID)

	ch := make(chan int, config.MaxLiveBacklog)
	state.watchers[ch] = struct{}{}

	stop := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := state.watchers[ch]; ok {
			delete(state.watchers, ch)
			close(ch)
		}
	}

	return ch, stop
}

// memberLocked returns the state for memberID, seeding it on first
// touch. Callers hold s.mu.
func (s *FeedStore) memberLocked(memberID string) *memberState {
	state, ok := s.members[memberID]
	if !ok {
		state = &memberState{
			messages: append([]messageRecord(nil), s.seed...),
			prefs: inbox.Preferences{
				EmailUpdates: true,
				InAppAlerts:  true,
			},
			watchers: make(map[chan int]struct{}),
		}
		s.members[memberID] = state
		s.logger.Debug("seeded member inbox",
			"member_id", memberID,
			"messages", len(state.messages),
		)
	}
	return state
}

// notifyLocked pushes the current unread count to every watcher.
// Callers hold s.mu.
func (s *FeedStore) notifyLocked(state *memberState) {
	count := unread(state)
	for ch := range state.watchers {
		select {
		case ch <- count:
		default:
			// Full buffer: drop the oldest pending count so the
			// newest one always fits.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- count:
			default:
			}
		}
	}
}

func unread(state *memberState) int {
	count := 0
	for i := range state.messages {
		if state.messages[i].summary.ReadAt == nil {
			count++
		}
	}
	return count
}

func indexOf(messages []messageRecord, id string) int {
	for i := range messages {
		if messages[i].summary.ID == id {
			return i
		}
	}
	return -1
}

func clonePrefs(p inbox.Preferences) inbox.Preferences {
	p.MutedCategories = append([]string(nil), p.MutedCategories...)
	return p
}
