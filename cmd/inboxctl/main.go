package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"herald/client"
	"herald/inbox"
	"herald/internal/config"
	"herald/sanitize"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorBlue   = "\033[34m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
)

const tokenTTL = time.Hour

type CLI struct {
	ctx    context.Context
	client *client.Client
	logger *slog.Logger
}

func main() {
	var (
		baseURL = flag.String("base", "http://localhost:8080", "notification service base URL")
		member  = flag.String("member", "", "member ID to act as (default: the server's demo member)")
		secret  = flag.String("secret", "", "shared secret for minting member tokens (default: TOKEN_SECRET)")
		token   = flag.String("token", "", "pre-issued bearer token; overrides -secret")
		cursor  = flag.String("cursor", "", "feed cursor for list")
		limit   = flag.Int("limit", 0, "feed page size for list (0 uses the service default)")
		verbose = flag.Bool("v", false, "enable debug logging")
	)
	flag.Usage = usage
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	// Fall back to the server's own configuration so a bare
	// `inboxctl list` works against a freshly started dev server.
	cfg := config.Load()
	if *member == "" {
		*member = cfg.DemoMemberID
	}
	if *secret == "" {
		*secret = cfg.TokenSecret
	}

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	var tokens client.TokenSource
	if *token != "" {
		tokens = client.NewStaticTokenSource(*token)
	} else {
		tokens = client.NewHMACTokenSource([]byte(*secret), *member, tokenTTL)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cli := &CLI{
		ctx:    ctx,
		client: client.New(*baseURL, tokens, client.WithLogger(logger)),
		logger: logger,
	}

	cmd, rest := args[0], args[1:]
	logger.Debug("running command", "command", cmd, "member", *member, "base", *baseURL)

	var err error
	switch cmd {
	case "list":
		err = cli.list(*cursor, *limit)
	case "show":
		err = withID(rest, cli.show)
	case "read":
		err = withID(rest, cli.markRead)
	case "read-all":
		err = cli.markAllRead()
	case "unread":
		err = cli.unread()
	case "prefs":
		err = cli.prefs()
	case "mute":
		err = cli.updateMuted(rest, true)
	case "unmute":
		err = cli.updateMuted(rest, false)
	case "watch":
		err = cli.watch()
	default:
		fmt.Printf("%s⚠ Unknown command %q%s\n\n", colorYellow, cmd, colorReset)
		usage()
		os.Exit(2)
	}

	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		fmt.Printf("%s❌ %v%s\n", colorRed, err, colorReset)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `inboxctl - notification inbox client

Usage:
  inboxctl [flags] <command> [args]

Commands:
  list             Show a page of the feed
  show <id>        Fetch, validate and render one message
  read <id>        Mark one message read
  read-all         Mark every message read
  unread           Print the unread count
  prefs            Show notification preferences
  mute <cat>...    Mute feed categories
  unmute <cat>...  Unmute feed categories
  watch            Stream live updates until interrupted

Flags:
`)
	flag.PrintDefaults()
}

// withID runs fn with the single message ID expected in args.
func withID(args []string, fn func(string) error) error {
	if len(args) != 1 {
		return errors.New("expected exactly one message ID")
	}
	return fn(args[0])
}

func (cli *CLI) list(cursor string, limit int) error {
	feed, err := cli.client.Feed(cli.ctx, cursor, limit)
	if err != nil {
		return err
	}

	fmt.Printf("%s=== Inbox ===%s  %d unread\n\n", colorCyan, colorReset, feed.UnreadCount)
	if len(feed.Messages) == 0 {
		fmt.Println("No messages.")
		return nil
	}

	for _, m := range feed.Messages {
		marker := " "
		if !m.Read() {
			marker = colorBlue + "●" + colorReset
		}
		category := ""
		if m.Category != "" {
			category = fmt.Sprintf("  %s[%s]%s", colorYellow, m.Category, colorReset)
		}
		fmt.Printf("%s %s  %s%s\n", marker, m.CreatedAt.Format("2006-01-02 15:04"), m.Title, category)
		fmt.Printf("   %s\n", m.ID)
		if m.Snippet != "" {
			fmt.Printf("   %s\n", m.Snippet)
		}
		fmt.Println()
	}

	if feed.NextCursor != "" {
		fmt.Printf("More messages: inboxctl -cursor=%s list\n", feed.NextCursor)
	}
	return nil
}

func (cli *CLI) show(id string) error {
	details, err := cli.client.Message(cli.ctx, id)
	if err != nil {
		// Surface the field-level diagnostic when the payload was
		// rejected rather than a generic fetch failure.
		var responseErr *inbox.ResponseError
		if errors.As(err, &responseErr) {
			field := responseErr.Field
			if field == "" {
				field = "response"
			}
			return fmt.Errorf("message %s rejected by validation (%s: %s)", id, field, responseErr.Reason)
		}
		return err
	}

	title := details.PlainTitle()
	if title == "" {
		title = "(no title)"
	}
	fmt.Printf("%s=== %s ===%s\n", colorCyan, title, colorReset)
	meta := details.CreatedAt
	if details.Category != nil {
		meta += "  [" + *details.Category + "]"
	}
	fmt.Printf("%s\n\n", meta)

	body, err := sanitize.Markdown(details.BodyHTML)
	if err != nil {
		return fmt.Errorf("failed to render body: %w", err)
	}
	if body = strings.TrimSpace(body); body != "" {
		fmt.Println(body)
		fmt.Println()
	}

	printAction("Primary", details.PrimaryAction)
	printAction("Secondary", details.SecondaryAction)

	// Opening a message counts as reading it. The body has already
	// been shown, so a failure here only warrants a warning.
	if err := cli.client.MarkRead(cli.ctx, id); err != nil {
		cli.logger.Warn("failed to mark message read", "id", id, "error", err)
	}
	return nil
}

func printAction(slot string, action inbox.Action) {
	switch a := action.(type) {
	case inbox.LinkAction:
		fmt.Printf("%s%s:%s %s → %s\n", colorGreen, slot, colorReset, a.Label, a.Href)
	case inbox.CallbackAction:
		fmt.Printf("%s%s:%s %s (runs %q in the host app)\n", colorGreen, slot, colorReset, a.Label, a.ActionID)
	}
}

func (cli *CLI) markRead(id string) error {
	if err := cli.client.MarkRead(cli.ctx, id); err != nil {
		return err
	}
	fmt.Printf("%s✓ Marked %s read%s\n", colorGreen, id, colorReset)
	return nil
}

func (cli *CLI) markAllRead() error {
	if err := cli.client.MarkAllRead(cli.ctx); err != nil {
		return err
	}
	fmt.Printf("%s✓ Marked all messages read%s\n", colorGreen, colorReset)
	return nil
}

func (cli *CLI) unread() error {
	count, err := cli.client.UnreadCount(cli.ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%d unread\n", count)
	return nil
}

func (cli *CLI) prefs() error {
	prefs, err := cli.client.Preferences(cli.ctx)
	if err != nil {
		return err
	}

	fmt.Printf("%s=== Notification Preferences ===%s\n", colorCyan, colorReset)
	fmt.Printf("Email updates:    %s\n", onOff(prefs.EmailUpdates))
	fmt.Printf("In-app alerts:    %s\n", onOff(prefs.InAppAlerts))
	if len(prefs.MutedCategories) == 0 {
		fmt.Println("Muted categories: none")
	} else {
		fmt.Printf("Muted categories: %s\n", strings.Join(prefs.MutedCategories, ", "))
	}
	return nil
}

func (cli *CLI) updateMuted(categories []string, mute bool) error {
	if len(categories) == 0 {
		return errors.New("expected at least one category")
	}

	current, err := cli.client.Preferences(cli.ctx)
	if err != nil {
		return err
	}

	muted := current.MutedCategories
	for _, category := range categories {
		if mute {
			if !contains(muted, category) {
				muted = append(muted, category)
			}
		} else {
			muted = remove(muted, category)
		}
	}

	updated, err := cli.client.UpdatePreferences(cli.ctx, inbox.PreferencesUpdate{MutedCategories: &muted})
	if err != nil {
		return err
	}
	if len(updated.MutedCategories) == 0 {
		fmt.Printf("%s✓ No categories muted%s\n", colorGreen, colorReset)
	} else {
		fmt.Printf("%s✓ Muted: %s%s\n", colorGreen, strings.Join(updated.MutedCategories, ", "), colorReset)
	}
	return nil
}

func (cli *CLI) watch() error {
	events, err := cli.client.Subscribe(cli.ctx)
	if err != nil {
		return err
	}

	fmt.Printf("%s⏳ Watching for live updates (ctrl-c to stop)...%s\n", colorBlue, colorReset)
	for event := range events {
		stamp := time.Now().Format("15:04:05")
		switch event.Type {
		case inbox.EventUnreadChanged:
			fmt.Printf("%s  %d unread\n", stamp, event.Count)
		case inbox.EventMessageNew:
			title := "(no title)"
			if event.Message != nil && event.Message.Title != "" {
				title = event.Message.Title
			}
			fmt.Printf("%s  %snew message:%s %s\n", stamp, colorGreen, colorReset, title)
		default:
			cli.logger.Debug("ignoring unknown event", "type", event.Type)
		}
	}

	// The channel closes on cancellation and on connection loss;
	// only the latter is an error.
	if cli.ctx.Err() != nil {
		fmt.Printf("\n%s✓ Stream closed%s\n", colorGreen, colorReset)
		return nil
	}
	return errors.New("live stream disconnected")
}

func onOff(enabled bool) string {
	if enabled {
		return colorGreen + "on" + colorReset
	}
	return "off"
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}

func remove(values []string, drop string) []string {
	out := values[:0]
	for _, v := range values {
		if v != drop {
			out = append(out, v)
		}
	}
	return out
}
