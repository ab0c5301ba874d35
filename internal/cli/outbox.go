package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"lilynotes-widgets/internal/action"
	"lilynotes-widgets/internal/host"
	"lilynotes-widgets/internal/store"

	"github.com/spf13/cobra"
)

type outboxList []store.OutboxEntry

func (l outboxList) Text() string {
	var b strings.Builder
	for _, e := range l {
		fmt.Fprintf(&b, "%s  %s  %s\n", e.IssuedAt.Format("2006-01-02 15:04:05"), e.ID, e.URI)
	}
	return b.String()
}

type skippedEntry struct {
	ID     string `json:"id"`
	URI    string `json:"uri"`
	Reason string `json:"reason"`
}

func newOutboxCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "outbox",
		Short: "Inspect or drain queued widget actions",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List pending actions (oldest first)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pending, err := app.store().PendingActions(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": outboxList(pending)})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "drain",
		Short: "Apply pending actions to the store, as the notes app would",
		Long: strings.TrimSpace(`
Apply every pending action in order and acknowledge it. Entries whose deep
link no longer parses are acknowledged too and reported as skipped.
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st := app.store()
			pending, err := st.PendingActions(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}

			applier := host.Applier{Store: st}
			applied := 0
			skipped := []skippedEntry{}
			for _, e := range pending {
				r, err := action.Parse(e.URI)
				if err != nil {
					slog.Warn("skipping outbox entry", "id", e.ID, "err", err)
					skipped = append(skipped, skippedEntry{ID: e.ID, URI: e.URI, Reason: err.Error()})
				} else {
					r.ID = e.ID
					ok, err := applier.Apply(cmd.Context(), r)
					if err != nil {
						return writeErr(cmd, fmt.Errorf("apply %s: %w", e.ID, err))
					}
					if ok {
						applied++
					} else {
						skipped = append(skipped, skippedEntry{ID: e.ID, URI: e.URI, Reason: "nothing to apply"})
					}
				}
				if err := st.AckActions(cmd.Context(), e.ID); err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"applied": applied,
				"skipped": skipped,
			}})
		},
	})

	return cmd
}
