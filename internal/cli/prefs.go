package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"lilynotes-widgets/internal/store"

	"github.com/spf13/cobra"
)

type prefEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type prefList []prefEntry

func (l prefList) Text() string {
	var b strings.Builder
	for _, e := range l {
		b.WriteString(e.Key)
		b.WriteByte('=')
		b.WriteString(e.Value)
		b.WriteByte('\n')
	}
	return b.String()
}

func newPrefsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Inspect and edit the shared widget preferences (host side)",
	}

	cmd.AddCommand(newPrefsListCmd(app))
	cmd.AddCommand(newPrefsGetCmd(app))
	cmd.AddCommand(newPrefsSetCmd(app))
	cmd.AddCommand(newPrefsUnsetCmd(app))
	cmd.AddCommand(newPrefsImportCmd(app))

	return cmd
}

func newPrefsListCmd(app *App) *cobra.Command {
	var prefix string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List preferences (sorted by key)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := app.store().Snapshot(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			out := prefList{}
			for _, k := range m.Keys() {
				if prefix != "" && !strings.HasPrefix(k, prefix) {
					continue
				}
				out = append(out, prefEntry{Key: k, Value: m[k]})
			}
			return writeOut(cmd, app, map[string]any{"data": out})
		},
	}

	cmd.Flags().StringVar(&prefix, "prefix", "", "Only keys with this prefix (e.g. widget_demo-checklist_)")

	return cmd
}

func newPrefsGetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print one preference",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := app.store().Snapshot(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			v, ok := m.Get(args[0])
			if !ok {
				return writeErr(cmd, errNotFound("preference", args[0]))
			}
			if app.Format == "text" {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), v)
				return err
			}
			return writeOut(cmd, app, map[string]any{"data": prefEntry{Key: args[0], Value: v}})
		},
	}
}

func newPrefsSetCmd(app *App) *cobra.Command {
	var fromFile string

	cmd := &cobra.Command{
		Use:   "set <key> [value]",
		Short: "Write one preference",
		Example: strings.TrimSpace(`
  lilywidgets prefs set default_checklist groceries
  lilywidgets prefs set widget_groceries_data '[{"text":"Milk"}]'
  lilywidgets prefs set widget_groceries_data --file items.json
`),
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			var value string
			switch {
			case fromFile != "" && len(args) == 2:
				return writeErr(cmd, errors.New("pass either a value or --file, not both"))
			case fromFile != "":
				b, err := readInput(cmd, fromFile)
				if err != nil {
					return writeErr(cmd, err)
				}
				value = strings.TrimRight(string(b), "\r\n")
			case len(args) == 2:
				value = args[1]
			default:
				return writeErr(cmd, errors.New("missing value (or use --file)"))
			}

			if err := app.store().Set(cmd.Context(), key, value); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": prefEntry{Key: key, Value: value}})
		},
	}

	cmd.Flags().StringVar(&fromFile, "file", "", "Read the value from a file ('-' for stdin)")

	return cmd
}

func newPrefsUnsetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "unset <key>...",
		Short: "Remove preferences",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.store().Delete(cmd.Context(), args...); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"removed": args}})
		},
	}
}

func newPrefsImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Merge a YAML or JSON mapping of keys into the store ('-' for stdin)",
		Long: strings.TrimSpace(`
Merge a YAML or JSON mapping into the store. Scalar values are stored as
strings; lists and maps are stored as their JSON encoding, so payloads can be
written inline:

  default_checklist: groceries
  widget_groceries_title: Groceries
  widget_groceries_data:
    - {text: Milk, checked: true}
    - {text: Eggs}
`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := readInput(cmd, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			kv, err := store.ParseImport(b)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := app.store().SetMany(cmd.Context(), kv); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"imported": kv.Keys()}})
		},
	}
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}
