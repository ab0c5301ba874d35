// Package tui is the interactive widget preview: the three widget cards as
// the home screen would draw them, with taps routed to a dispatcher.
package tui

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"lilynotes-widgets/internal/action"
	"lilynotes-widgets/internal/render"
	"lilynotes-widgets/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

type Options struct {
	Store            store.Store
	PlatformWidgetID string
	Glyphs           render.Glyphs
	// Refresh is the periodic re-render interval (the widgets' update period).
	Refresh time.Duration
	// Dispatcher receives tap actions. Callers usually wrap it in action.Guard.
	Dispatcher action.Dispatcher
}

// DebugLogEnv names a file that receives log output while the preview owns
// the terminal. Without it, logs are discarded until the preview exits.
const DebugLogEnv = "LILYWIDGETS_TUI_DEBUG_LOG"

func Run(ctx context.Context, opt Options) error {
	if err := opt.Store.Ensure(); err != nil {
		return err
	}

	restore, err := redirectLogs(strings.TrimSpace(os.Getenv(DebugLogEnv)))
	if err != nil {
		return err
	}
	defer restore()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := newAppModel(ctx, opt)

	changes := make(chan struct{}, 1)
	stop, err := watchStore(ctx, opt.Store.Dir, func() {
		select {
		case changes <- struct{}{}:
		default:
		}
	})
	if err != nil {
		slog.Info("store watch unavailable; polling for changes", "dir", opt.Store.Dir, "err", err)
		m.polling = true
	} else {
		defer stop()
		m.changes = changes
	}

	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

// redirectLogs swaps the default logger so nothing writes to stderr under the
// alt screen. The returned func puts the previous logger back.
func redirectLogs(path string) (func(), error) {
	prev := slog.Default()
	prevOut, prevFlags := log.Writer(), log.Flags()
	var (
		w         io.Writer = io.Discard
		closeFile           = func() {}
	)
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		w, closeFile = f, func() { _ = f.Close() }
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})))
	return func() {
		slog.SetDefault(prev)
		// SetDefault reroutes the log package; undo that too.
		log.SetOutput(prevOut)
		log.SetFlags(prevFlags)
		closeFile()
	}, nil
}
