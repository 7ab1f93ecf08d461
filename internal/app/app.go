package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ozaka001/shopfront/internal/api"
	"github.com/ozaka001/shopfront/internal/config"
	"github.com/ozaka001/shopfront/internal/prefs"
	"github.com/ozaka001/shopfront/internal/search"
	"github.com/ozaka001/shopfront/internal/session"
	"github.com/ozaka001/shopfront/internal/store"
	"github.com/ozaka001/shopfront/internal/ui"
)

// Options configure the shopfront application.
type Options struct {
	ConfigPath   string
	PrefsPath    string // empty uses default ~/.config/shopfront/prefs.toml
	SessionPath  string // empty uses default ~/.config/shopfront/session.toml
	RefreshEvery int    // seconds between background reloads; zero uses default
	LogPath      string // when set, debug logging is written here
}

// searchResultBuffer bounds how many settled search results can queue up
// before the UI drains them.
const searchResultBuffer = 8

// Run boots the shopfront TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	userPrefs := prefs.Load(opts.PrefsPath)
	sess := session.Open(opts.SessionPath)

	logger, closeLog, err := newLogger(opts.LogPath)
	if err != nil {
		return err
	}
	defer closeLog()

	client, err := api.NewClient(cfg.APIURL, sess, logger)
	if err != nil {
		return fmt.Errorf("init api client: %w", err)
	}

	cart := store.NewCart(client, sess, logger, nil)
	wishlist := store.NewWishlist(client, sess, logger, nil)

	results := make(chan search.Result, searchResultBuffer)
	searcher := search.New(client, search.DefaultDelay, func(r search.Result) {
		select {
		case results <- r:
		default:
			// The UI fell behind; drop rather than block the controller.
		}
	}, logger)
	defer searcher.Close()

	interval := defaultRefreshInterval
	if opts.RefreshEvery > 0 {
		interval = time.Duration(opts.RefreshEvery) * time.Second
	}

	// Background refresher keeps local state converging on the server even
	// without user activity.
	StartRefresher(ctx, cart, wishlist, interval)

	// Populate the stores before the UI starts when a session is present.
	if sess.SignedIn() {
		cart.Load(ctx)
		wishlist.Load(ctx)
	}

	uiOpts := ui.Options{
		Context:       ctx,
		Client:        client,
		Session:       sess,
		Cart:          cart,
		Wishlist:      wishlist,
		Search:        searcher,
		SearchResults: results,
		PageSize:      cfg.PageSize,
		ThemeName:     userPrefs.Theme,
		PrefsPath:     opts.PrefsPath,
	}
	return ui.Run(uiOpts)
}

// newLogger builds the structured logger. Without a log path everything is
// discarded; the TUI owns the terminal, so stderr is not an option.
func newLogger(path string) (*log.Logger, func(), error) {
	if path == "" {
		return log.New(io.Discard), func() {}, nil
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	logger := log.NewWithOptions(file, log.Options{
		ReportTimestamp: true,
		Level:           log.DebugLevel,
	})
	return logger, func() { _ = file.Close() }, nil
}
