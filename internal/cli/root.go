package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"lilynotes-widgets/internal/format"
	"lilynotes-widgets/internal/render"
	"lilynotes-widgets/internal/store"

	"github.com/spf13/cobra"
)

type App struct {
	StoreDir   string
	Backend    string
	Format     string
	PrettyJSON bool
	LogLevel   string

	cfg *store.GlobalConfig
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "lilywidgets",
		Short:        "LilyNotes home-screen widgets in the terminal",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Interactive preview of all three widgets
  lilywidgets

  # Fill the store with demo widgets
  lilywidgets seed

  # Draw a card (shortcut for: lilywidgets render checklist)
  lilywidgets checklist --format text

  # Tap the second checklist row the way the notes app would handle it
  lilywidgets tap toggle-item --widget-id demo-checklist --index 1 --dispatch apply
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive preview.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runPreview(cmd, app, "", dispatchApply)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.configure(cmd)
	}

	cmd.PersistentFlags().StringVar(&app.StoreDir, "store", envOr("LILYWIDGETS_STORE", ""), "Preferences store directory (default: config storePath, then ~/.lilywidgets/group.com.lilynotes.app.widgets)")
	cmd.PersistentFlags().StringVar(&app.Backend, "backend", envOr("LILYWIDGETS_BACKEND", ""), "Store backend (json|sqlite; default: autodetect)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON/EDN output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("LILYWIDGETS_FORMAT", format.JSON), "Output format (json|edn|text)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", envOr("LILYWIDGETS_LOG_LEVEL", "warn"), "Log level (debug|info|warn|error)")

	cmd.AddCommand(newRenderCmd(app))
	cmd.AddCommand(newResolveCmd(app))
	cmd.AddCommand(newPrefsCmd(app))
	cmd.AddCommand(newSeedCmd(app))
	cmd.AddCommand(newTapCmd(app))
	cmd.AddCommand(newOutboxCmd(app))
	cmd.AddCommand(newPreviewCmd(app))
	cmd.AddCommand(newDocsCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newDoctorCmd(app))

	return cmd
}

// configure installs the logger and fills unset globals from the config file.
// Flags and env vars were applied by cobra already, so config only fills gaps.
func (app *App) configure(cmd *cobra.Command) error {
	level, err := parseLogLevel(app.LogLevel)
	if err != nil {
		return writeErr(cmd, err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))

	f, err := format.Validate(app.Format)
	if err != nil {
		return writeErr(cmd, err)
	}
	app.Format = f

	cfg, err := store.LoadConfig()
	if err != nil {
		return writeErr(cmd, fmt.Errorf("load config: %w", err))
	}
	app.cfg = cfg

	if app.StoreDir == "" {
		app.StoreDir = cfg.StorePath
	}
	if app.StoreDir == "" {
		d, err := store.DefaultStoreDir()
		if err != nil {
			return writeErr(cmd, err)
		}
		app.StoreDir = d
	}
	if app.Backend == "" {
		app.Backend = cfg.Backend
	}
	slog.Debug("cli configured", "store", app.StoreDir, "backend", app.Backend, "format", app.Format)
	return nil
}

func (app *App) store() store.Store {
	return store.Store{Dir: app.StoreDir, Backend: app.Backend}
}

// platformWidgetID falls back to the configured placement id.
func (app *App) platformWidgetID(flag string) string {
	if strings.TrimSpace(flag) != "" {
		return flag
	}
	if app.cfg != nil {
		return app.cfg.PlatformWidgetID
	}
	return ""
}

func (app *App) glyphs() render.Glyphs {
	def := ""
	if app.cfg != nil {
		def = app.cfg.Glyphs
	}
	return render.GlyphsFromEnv(def)
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "", "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level: %q (want debug|info|warn|error)", s)
	}
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
