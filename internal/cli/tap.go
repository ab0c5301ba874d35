package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"lilynotes-widgets/internal/action"
	"lilynotes-widgets/internal/derive"
	"lilynotes-widgets/internal/host"
	"lilynotes-widgets/internal/model"

	"github.com/spf13/cobra"
)

const (
	dispatchPrint  = "print"
	dispatchOutbox = "outbox"
	dispatchApply  = "apply"
)

type tapResult struct {
	Request   action.Request `json:"request"`
	URI       string         `json:"uri"`
	Dispatch  string         `json:"dispatch"`
	Delivered bool           `json:"delivered"`
	Display   model.Display  `json:"display,omitempty"`
}

func (r tapResult) Text() string {
	if !r.Delivered {
		return "dropped: " + r.URI
	}
	return r.Dispatch + ": " + r.URI
}

func newTapCmd(app *App) *cobra.Command {
	var (
		widgetID string
		mode     string
	)

	cmd := &cobra.Command{
		Use:   "tap",
		Short: "Send a widget tap action (toggle a row, increment progress)",
		Long: strings.TrimSpace(`
Build the action request a widget tap sends and dispatch it:

  print   write the deep link to stdout (default)
  outbox  queue it in the store for the notes app
  apply   apply it to the store directly, as the notes app would

Requests without --widget-id are dropped, like taps on an unconfigured widget.
`),
	}

	cmd.PersistentFlags().StringVar(&widgetID, "widget-id", "", "Widget instance id")
	cmd.PersistentFlags().StringVar(&mode, "dispatch", dispatchPrint, "Dispatch mode (print|outbox|apply)")

	var index int
	toggleItem := &cobra.Command{
		Use:   "toggle-item",
		Short: "Toggle a checklist row",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTap(cmd, app, mode, action.ToggleItem(widgetID, index))
		},
	}
	toggleItem.Flags().IntVar(&index, "index", 0, "Row index (0-based)")

	var habitID string
	toggleHabit := &cobra.Command{
		Use:   "toggle-habit",
		Short: "Toggle today's completion of a habit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTap(cmd, app, mode, action.ToggleHabit(widgetID, habitID))
		},
	}
	toggleHabit.Flags().StringVar(&habitID, "habit", "", "Habit id (may be empty for habits stored without one)")
	_ = toggleHabit.MarkFlagRequired("habit")

	increment := &cobra.Command{
		Use:   "increment",
		Short: "Increment a progress widget",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTap(cmd, app, mode, action.IncrementProgress(widgetID))
		},
	}

	uri := &cobra.Command{
		Use:   "uri <deep-link>",
		Short: "Dispatch a lilynotes:// action deep link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := action.Parse(args[0])
			if err != nil {
				return writeErr(cmd, errInvalidAction(args[0], err.Error()))
			}
			return runTap(cmd, app, mode, r)
		},
	}

	cmd.AddCommand(toggleItem, toggleHabit, increment, uri)

	return cmd
}

func runTap(cmd *cobra.Command, app *App, mode string, r action.Request) error {
	st := app.store()

	mode = strings.ToLower(strings.TrimSpace(mode))
	var d action.Dispatcher
	switch mode {
	case dispatchPrint:
		d = action.WriterDispatcher{W: cmd.OutOrStdout()}
	case dispatchOutbox:
		d = action.OutboxDispatcher{Store: st}
	case dispatchApply:
		d = host.Applier{Store: st}
	default:
		return writeErr(cmd, errInvalidAction(mode, "unknown dispatch mode (want print|outbox|apply)"))
	}

	if !r.Deliverable() {
		slog.Warn("action dropped: missing parameters", "name", r.Name, "widgetId", r.WidgetID)
	}
	if err := action.Guard(d).Dispatch(cmd.Context(), r); err != nil {
		return writeErr(cmd, fmt.Errorf("dispatch %s: %w", r.Name, err))
	}
	// The printed deep link is the whole output in print mode.
	if mode == dispatchPrint {
		return nil
	}

	res := tapResult{Request: r, URI: r.URI(), Dispatch: mode, Delivered: r.Deliverable()}
	if mode == dispatchApply && res.Delivered {
		src, err := st.Snapshot(cmd.Context())
		if err != nil {
			return writeErr(cmd, err)
		}
		res.Display = derive.ForInstance(src, r.Name.Kind(), model.InstanceOf(r.WidgetID))
	}
	return writeOut(cmd, app, map[string]any{"data": res})
}
