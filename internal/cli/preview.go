package cli

import (
	"strings"

	"lilynotes-widgets/internal/action"
	"lilynotes-widgets/internal/host"
	"lilynotes-widgets/internal/render"
	"lilynotes-widgets/internal/tui"

	"github.com/spf13/cobra"
)

func newPreviewCmd(app *App) *cobra.Command {
	var (
		widget string
		mode   string
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Interactive preview of the widgets (default when no command is given)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreview(cmd, app, widget, mode)
		},
	}

	cmd.Flags().StringVar(&widget, "widget", "", "Platform widget id (placement) to preview (default: config platformWidgetId)")
	cmd.Flags().StringVar(&mode, "dispatch", dispatchApply, "Where taps go (apply|outbox)")

	return cmd
}

func runPreview(cmd *cobra.Command, app *App, widget, mode string) error {
	st := app.store()

	var d action.Dispatcher
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", dispatchApply:
		d = host.Applier{Store: st}
	case dispatchOutbox:
		d = action.OutboxDispatcher{Store: st}
	default:
		return writeErr(cmd, errInvalidAction(mode, "unknown dispatch mode (want apply|outbox)"))
	}

	render.ApplyColorProfile()
	err := tui.Run(cmd.Context(), tui.Options{
		Store:            st,
		PlatformWidgetID: app.platformWidgetID(widget),
		Glyphs:           app.glyphs(),
		Refresh:          app.cfg.RefreshInterval(),
		Dispatcher:       action.Guard(d),
	})
	if err != nil {
		return writeErr(cmd, err)
	}
	return nil
}
