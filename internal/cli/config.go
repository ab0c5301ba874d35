package cli

import (
	"fmt"
	"strconv"
	"strings"

	"lilynotes-widgets/internal/render"
	"lilynotes-widgets/internal/store"

	"github.com/spf13/cobra"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change global settings (~/.lilywidgets/config.json)",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the config file contents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := store.ConfigPath()
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"path": path, "config": app.cfg}})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set storePath|backend|platformWidgetId|glyphs|refreshMinutes ('' to clear)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := store.LoadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := setConfigField(cfg, args[0], args[1]); err != nil {
				return writeErr(cmd, err)
			}
			if err := store.SaveConfig(cfg); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": cfg})
		},
	})

	return cmd
}

func setConfigField(cfg *store.GlobalConfig, key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case "storePath":
		cfg.StorePath = value
	case "backend":
		cfg.Backend = strings.ToLower(value)
	case "platformWidgetId":
		cfg.PlatformWidgetID = value
	case "glyphs":
		if value != "" {
			value = render.ParseGlyphs(value).String()
		}
		cfg.Glyphs = value
	case "refreshMinutes":
		if value == "" {
			cfg.RefreshMinutes = 0
			return nil
		}
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("refreshMinutes must be a non-negative integer, got %q", value)
		}
		cfg.RefreshMinutes = n
	default:
		return errNotFound("config key", key)
	}
	return nil
}
