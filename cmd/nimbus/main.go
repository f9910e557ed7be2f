package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"nimbus/cmd/nimbus/ui"
	"nimbus/internal/api"
	"nimbus/internal/config"
	"nimbus/internal/fetch"
	"nimbus/internal/journal"
	"nimbus/internal/logger"
	"nimbus/internal/nav"
	"nimbus/internal/session"
	"nimbus/internal/store"
	"nimbus/internal/upload"
	"nimbus/internal/watch"
)

func main() {
	backend := flag.String("backend", "", "Override backend base URL")
	watchDir := flag.String("watch", "", "Override drop folder to auto-upload from")
	token := flag.String("token", "", "Bearer token (overrides the token file)")
	flag.Parse()

	cfg := config.Init()
	if *backend != "" {
		cfg.BackendURL = *backend
	}
	if *watchDir != "" {
		cfg.WatchDir = *watchDir
	}

	// The TUI owns stdout, so the log always goes to a file.
	logPath := cfg.LogPath
	if logPath == "" {
		logPath = filepath.Join(os.TempDir(), "nimbus", "drive.log")
		_ = os.MkdirAll(filepath.Dir(logPath), 0o755)
	}
	if err := logger.Init(logPath); err != nil {
		fmt.Fprintf(os.Stderr, "init log: %v\n", err)
		os.Exit(1)
	}

	client := api.New(cfg.BackendURL, cfg.RequestTimeout)

	sess := session.New()
	switch {
	case *token != "":
		sess.SetToken(*token)
	default:
		if b, err := os.ReadFile(config.TokenFilePath()); err == nil {
			sess.SetToken(strings.TrimSpace(string(b)))
		}
	}
	if sess.Token() != "" {
		if !sess.Valid() {
			logger.Infof("stored token is expired, continuing unauthenticated")
		} else {
			client.SetAuthToken(sess.Token())
		}
	}

	fs := store.NewFileSystem()
	pages := store.NewRegistry(cfg.PageLimit)
	navigator := nav.NewNavigator()
	coord := fetch.NewCoordinator(client, fs, pages, navigator)
	uploads := upload.NewManager(client, fs)

	// One logout clears every session-scoped cache together.
	sess.OnLogout(fs.Clear)
	sess.OnLogout(pages.Clear)
	sess.OnLogout(navigator.Clear)
	sess.OnLogout(coord.Search.Clear)
	sess.OnLogout(coord.Report.Clear)
	sess.OnLogout(coord.Dashboard.Clear)
	sess.OnLogout(uploads.Reset)
	sess.OnLogout(func() { client.SetAuthToken("") })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.WatchDir != "" {
		j, err := journal.Open(cfg.JournalPath)
		if err != nil {
			logger.Errorf("open journal %s: %v", cfg.JournalPath, err)
		} else {
			defer j.Close()
			w, err := watch.New(cfg.WatchDir, store.RootID, j)
			if err != nil {
				logger.Errorf("watch %s: %v", cfg.WatchDir, err)
			} else {
				w.Start()
				defer w.Stop()
				watch.StartDrainLoop(ctx, j, uploads, 10*time.Second)
			}
		}
	}

	m := ui.NewRootModel(ui.Deps{
		Coord:   coord,
		FS:      fs,
		Nav:     navigator,
		Uploads: uploads,
		Session: sess,
	})
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		logger.Errorf("ui: %v", err)
		fmt.Fprintf(os.Stderr, "nimbus: %v\n", err)
		os.Exit(1)
	}
}
