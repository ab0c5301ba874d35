package cli

import (
	"lilynotes-widgets/internal/store"

	"github.com/spf13/cobra"
)

func newSeedCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Write one demo widget per kind and make them the defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st := app.store()
			if err := st.SetMany(cmd.Context(), store.SeedPrefs()); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"store":     st.Path(),
				"backend":   st.ResolvedBackend(),
				"instances": []string{store.SeedChecklistID, store.SeedHabitID, store.SeedProgressID},
			}})
		},
	}
}
