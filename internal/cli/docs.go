package cli

import (
	"fmt"
	"strings"

	"lilynotes-widgets/internal/docs"

	"github.com/spf13/cobra"
)

type docPage struct {
	Topic    string `json:"topic"`
	Markdown string `json:"markdown"`
	width    int
}

func (p docPage) Text() string { return docs.Render(p.Markdown, p.width) }

type topicList struct {
	Topics []string `json:"topics"`
}

func (l topicList) Text() string { return strings.Join(l.Topics, "\n") }

func newDocsCmd(app *App) *cobra.Command {
	var (
		raw   bool
		width int
	)

	cmd := &cobra.Command{
		Use:   "docs [topic]",
		Short: "Show built-in documentation (store keys, payloads, actions)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return writeOut(cmd, app, map[string]any{"data": topicList{Topics: docs.Topics()}})
			}

			topic := args[0]
			body, ok := docs.Get(topic)
			if !ok {
				return writeErr(cmd, fmt.Errorf("unknown docs topic: %q (run `lilywidgets docs` to list topics)", topic))
			}

			if raw {
				_, err := fmt.Fprint(cmd.OutOrStdout(), body)
				return err
			}

			// --format text renders the markdown for the terminal.
			return writeOut(cmd, app, map[string]any{"data": docPage{Topic: topic, Markdown: body, width: width}})
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print raw markdown (no envelope)")
	cmd.Flags().IntVar(&width, "width", 80, "Wrap width for --format text")

	return cmd
}
