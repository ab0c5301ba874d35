package cli

import (
	"encoding/json"
	"strings"

	"lilynotes-widgets/internal/derive"
	"lilynotes-widgets/internal/model"
	"lilynotes-widgets/internal/render"
	"lilynotes-widgets/internal/store"

	"github.com/spf13/cobra"
)

// renderedCard serializes as its display model and prints as the card.
type renderedCard struct {
	display model.Display
	card    string
}

func (c renderedCard) MarshalJSON() ([]byte, error) { return json.Marshal(c.display) }
func (c renderedCard) Text() string                 { return c.card }

type cardList []renderedCard

func (l cardList) Text() string {
	cards := make([]string, 0, len(l))
	for _, c := range l {
		cards = append(cards, c.card)
	}
	return strings.Join(cards, "\n\n")
}

func newRenderCmd(app *App) *cobra.Command {
	var (
		widget     string
		instanceID string
		width      int
	)

	cmd := &cobra.Command{
		Use:   "render <kind|all>",
		Short: "Derive a widget's display model (use --format text to draw the card)",
		Example: strings.TrimSpace(`
  lilywidgets render checklist --widget 17
  lilywidgets render progress --id demo-progress --format text
  lilywidgets render all --format text
`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds := model.Kinds()
			if strings.ToLower(strings.TrimSpace(args[0])) != "all" {
				k, err := model.ParseKind(args[0])
				if err != nil {
					return writeErr(cmd, err)
				}
				kinds = []model.Kind{k}
			}

			src, err := app.store().Snapshot(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			if app.Format == "text" {
				render.ApplyColorProfile()
			}
			opt := render.Options{Width: width, Glyphs: app.glyphs()}
			pwid := app.platformWidgetID(widget)

			out := make(cardList, 0, len(kinds))
			for _, k := range kinds {
				var d model.Display
				if instanceID != "" {
					d = derive.ForInstance(src, k, model.InstanceOf(instanceID))
				} else {
					d = derive.Derive(src, k, pwid)
				}
				out = append(out, renderedCard{display: d, card: render.Card(d, opt)})
			}
			if len(out) == 1 {
				return writeOut(cmd, app, map[string]any{"data": out[0]})
			}
			return writeOut(cmd, app, map[string]any{"data": out})
		},
	}

	cmd.Flags().StringVar(&widget, "widget", "", "Platform widget id (placement) to resolve (default: config platformWidgetId)")
	cmd.Flags().StringVar(&instanceID, "id", "", "Render this widget instance id directly, skipping resolution")
	cmd.Flags().IntVar(&width, "width", render.DefaultWidth, "Card width for --format text")

	return cmd
}

type resolution struct {
	Kind             model.Kind     `json:"kind"`
	PlatformWidgetID string         `json:"platformWidgetId"`
	Instance         model.Instance `json:"instance"`
	Source           string         `json:"source"`
}

func (r resolution) Text() string {
	if !r.Instance.Resolved {
		return string(r.Kind) + ": unresolved"
	}
	return string(r.Kind) + ": " + r.Instance.ID + " (" + r.Source + ")"
}

// resolutionSource names the key that decided the instance.
func resolutionSource(src store.Map, kind model.Kind, pwid string) string {
	if v, ok := src.Get(model.ConfigKey(pwid)); ok && v != "" {
		return "config"
	}
	if _, ok := src.Get(model.DefaultKey(kind)); ok {
		return "default"
	}
	return "none"
}

func newResolveCmd(app *App) *cobra.Command {
	var widget string

	cmd := &cobra.Command{
		Use:   "resolve <kind>",
		Short: "Show which widget instance a placement resolves to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := model.ParseKind(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			src, err := app.store().Snapshot(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			pwid := app.platformWidgetID(widget)
			return writeOut(cmd, app, map[string]any{"data": resolution{
				Kind:             k,
				PlatformWidgetID: pwid,
				Instance:         derive.ResolveInstance(src, k, pwid),
				Source:           resolutionSource(src, k, pwid),
			}})
		},
	}

	cmd.Flags().StringVar(&widget, "widget", "", "Platform widget id (placement) to resolve (default: config platformWidgetId)")

	return cmd
}
