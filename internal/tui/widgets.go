package tui

import (
	"lilynotes-widgets/internal/model"
	"lilynotes-widgets/internal/render"

	"github.com/charmbracelet/bubbles/list"
)

// widgetItem is one entry of the widget picker.
type widgetItem struct {
	kind    model.Kind
	display model.Display
}

func (i widgetItem) FilterValue() string { return string(i.kind) }
func (i widgetItem) Title() string       { return i.kind.DefaultTitle() + " widget" }
func (i widgetItem) Description() string {
	inst := instanceOf(i.display)
	if !inst.Resolved {
		return "unconfigured"
	}
	return inst.ID + " · " + render.Summary(i.display)
}

func instanceOf(d model.Display) model.Instance {
	switch v := d.(type) {
	case model.ChecklistDisplay:
		return v.Instance
	case model.HabitDisplay:
		return v.Instance
	case model.ProgressDisplay:
		return v.Instance
	default:
		return model.Instance{}
	}
}

// rowCount is the number of tappable rows on a card. Progress cards have a
// single target, the (+) button.
func rowCount(d model.Display) int {
	switch v := d.(type) {
	case model.ChecklistDisplay:
		return len(v.Rows)
	case model.HabitDisplay:
		return len(v.Rows)
	case model.ProgressDisplay:
		return 1
	default:
		return 0
	}
}

func newWidgetList(items []list.Item) list.Model {
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Widgets"
	// The app renders its own header and help, and owns all key handling.
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(false)
	return l
}
