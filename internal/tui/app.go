package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"lilynotes-widgets/internal/action"
	"lilynotes-widgets/internal/derive"
	"lilynotes-widgets/internal/model"
	"lilynotes-widgets/internal/render"
	"lilynotes-widgets/internal/store"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const pollInterval = 750 * time.Millisecond

type (
	// pollTickMsg drives mod-time polling when the store can't be watched.
	pollTickMsg struct{}
	// refreshTickMsg is the periodic widget update.
	refreshTickMsg  struct{}
	storeChangedMsg struct{}
)

type tappedMsg struct {
	req action.Request
	err error
}

type appModel struct {
	ctx        context.Context
	store      store.Store
	pwid       string
	glyphs     render.Glyphs
	refresh    time.Duration
	dispatcher action.Dispatcher

	polling bool
	changes <-chan struct{}

	width  int
	height int

	widgets list.Model
	keys    keyMap
	help    help.Model

	src         store.Map
	cursor      int
	lastModTime time.Time
	status      string
	err         error
}

func newAppModel(ctx context.Context, opt Options) appModel {
	refresh := opt.Refresh
	if refresh <= 0 {
		refresh = store.DefaultRefreshMinutes * time.Minute
	}
	m := appModel{
		ctx:        ctx,
		store:      opt.Store,
		pwid:       opt.PlatformWidgetID,
		glyphs:     opt.Glyphs,
		refresh:    refresh,
		dispatcher: opt.Dispatcher,
		widgets:    newWidgetList(nil),
		keys:       defaultKeyMap(),
		help:       help.New(),
	}
	m.reload()
	return m
}

func (m appModel) Init() tea.Cmd {
	cmds := []tea.Cmd{tickRefresh(m.refresh)}
	if m.polling {
		cmds = append(cmds, tickPoll())
	}
	if m.changes != nil {
		cmds = append(cmds, waitForChange(m.ctx, m.changes))
	}
	return tea.Batch(cmds...)
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case pollTickMsg:
		if m.storeChanged() {
			m.reload()
		}
		return m, tickPoll()

	case storeChangedMsg:
		m.reload()
		return m, waitForChange(m.ctx, m.changes)

	case refreshTickMsg:
		m.reload()
		return m, tickRefresh(m.refresh)

	case tappedMsg:
		if msg.err != nil {
			m.status = "tap failed: " + msg.err.Error()
		} else if msg.req.Deliverable() {
			m.status = "sent " + msg.req.URI()
		} else {
			m.status = "dropped: widget is not configured"
		}
		m.reload()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Reload):
			m.reload()
			m.status = "reloaded"
			return m, nil
		case key.Matches(msg, m.keys.NextWidget):
			m.selectWidget(m.widgets.Index() + 1)
			return m, nil
		case key.Matches(msg, m.keys.PrevWidget):
			m.selectWidget(m.widgets.Index() - 1)
			return m, nil
		case key.Matches(msg, m.keys.RowDown):
			m.moveCursor(1)
			return m, nil
		case key.Matches(msg, m.keys.RowUp):
			m.moveCursor(-1)
			return m, nil
		case key.Matches(msg, m.keys.Tap):
			return m, m.tap(false)
		case key.Matches(msg, m.keys.Increment):
			return m, m.tap(true)
		}
	}
	return m, nil
}

func (m appModel) View() string {
	header := lipgloss.NewStyle().Bold(true).Render("LilyNotes widgets") +
		lipgloss.NewStyle().Faint(true).Render(fmt.Sprintf("  store=%s  widget=%s", m.store.Path(), emptyAsDash(m.pwid)))
	if m.polling {
		header += lipgloss.NewStyle().Faint(true).Render("  (polling)")
	}

	card := ""
	if it, ok := m.widgets.SelectedItem().(widgetItem); ok {
		card = render.Card(it.display, render.Options{
			Width:  render.DefaultWidth,
			Glyphs: m.glyphs,
			Focus:  true,
			Cursor: m.cursor,
		})
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.widgets.View(), lipgloss.NewStyle().MarginLeft(2).Render(card))

	footer := m.help.View(m.keys)
	switch {
	case m.err != nil:
		footer = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Render(m.err.Error()) + "\n" + footer
	case m.status != "":
		footer = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + footer
	}
	return strings.Join([]string{header, body, footer}, "\n\n")
}

func (m *appModel) resize() {
	// Leave room for header, footer and the card.
	h := max(m.height-8, 8)
	w := max(m.width-render.DefaultWidth-4, 24)
	m.widgets.SetSize(w, h)
	m.help.Width = m.width
}

// reload re-reads the store and re-derives every card. On read errors the
// previous snapshot stays on screen.
func (m *appModel) reload() {
	src, err := m.store.Snapshot(m.ctx)
	m.lastModTime = m.storeModTime()
	if err != nil {
		m.err = err
		if m.src == nil {
			m.src = store.Map{}
		}
	} else {
		m.err = nil
		m.src = src
	}

	sel := m.widgets.Index()
	items := make([]list.Item, 0, len(model.Kinds()))
	for _, k := range model.Kinds() {
		items = append(items, widgetItem{kind: k, display: derive.Derive(m.src, k, m.pwid)})
	}
	m.widgets.SetItems(items)
	m.widgets.Select(min(max(sel, 0), len(items)-1))
	m.clampCursor()
}

func (m *appModel) selectWidget(i int) {
	n := len(m.widgets.Items())
	if n == 0 {
		return
	}
	m.widgets.Select((i%n + n) % n)
	m.cursor = 0
}

func (m *appModel) moveCursor(delta int) {
	m.cursor += delta
	m.clampCursor()
}

func (m *appModel) clampCursor() {
	n := 0
	if it, ok := m.widgets.SelectedItem().(widgetItem); ok {
		n = rowCount(it.display)
	}
	m.cursor = min(max(m.cursor, 0), max(n-1, 0))
}

// tap builds the action for the focused row and dispatches it off the update
// loop. increment only applies to progress cards.
func (m *appModel) tap(increment bool) tea.Cmd {
	it, ok := m.widgets.SelectedItem().(widgetItem)
	if !ok || m.dispatcher == nil {
		return nil
	}
	inst := instanceOf(it.display)

	var req action.Request
	switch d := it.display.(type) {
	case model.ChecklistDisplay:
		if increment || len(d.Rows) == 0 {
			return nil
		}
		req = action.ToggleItem(inst.ID, m.cursor)
	case model.HabitDisplay:
		if increment || len(d.Rows) == 0 {
			return nil
		}
		req = action.ToggleHabit(inst.ID, d.Rows[m.cursor].ID)
	case model.ProgressDisplay:
		req = action.IncrementProgress(inst.ID)
	default:
		return nil
	}

	ctx, d := m.ctx, m.dispatcher
	return func() tea.Msg {
		err := d.Dispatch(ctx, req)
		if err != nil {
			slog.Warn("tap dispatch failed", "uri", req.URI(), "err", err)
		}
		return tappedMsg{req: req, err: err}
	}
}

func (m appModel) storeModTime() time.Time {
	mt := store.FileModTime(m.store.Path())
	if wal := store.FileModTime(m.store.Path() + "-wal"); wal.After(mt) {
		mt = wal
	}
	return mt
}

func (m appModel) storeChanged() bool {
	return m.storeModTime().After(m.lastModTime)
}

func tickPoll() tea.Cmd {
	return tea.Tick(pollInterval, func(time.Time) tea.Msg { return pollTickMsg{} })
}

func tickRefresh(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return refreshTickMsg{} })
}

func waitForChange(ctx context.Context, ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case <-ch:
			return storeChangedMsg{}
		}
	}
}

func emptyAsDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
