// Package render draws derived widget models as terminal cards, laid out like
// the home-screen widgets: a title row with a badge, then the body rows.
package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"

	"lilynotes-widgets/internal/model"
)

const (
	DefaultWidth = 36
	minInner     = 12
)

type Options struct {
	// Width is the outer card width including padding.
	Width  int
	Glyphs Glyphs
	// Focus highlights body row Cursor (the (+) button on progress cards).
	Focus  bool
	Cursor int
}

func (o Options) inner() int {
	w := o.Width
	if w <= 0 {
		w = DefaultWidth
	}
	return max(minInner, w-2)
}

// Card renders any display model. Unknown kinds render as an empty card.
func Card(d model.Display, opt Options) string {
	switch v := d.(type) {
	case model.ChecklistDisplay:
		return Checklist(v, opt)
	case model.HabitDisplay:
		return Habits(v, opt)
	case model.ProgressDisplay:
		return Progress(v, opt)
	default:
		return frame(nil, opt)
	}
}

func Checklist(d model.ChecklistDisplay, opt Options) string {
	inner := opt.inner()
	badgeStyle := mutedStyle
	if d.Complete {
		badgeStyle = accentStyle
	}
	lines := []string{header(d.Title, d.CountLabel(), badgeStyle, inner)}
	if d.Total == 0 {
		lines = append(lines, mutedStyle.Render(truncate(model.EmptyChecklistText, inner)))
		return frame(lines, opt)
	}
	for i, it := range d.Rows {
		box := boxEmptyStyle.Render(opt.Glyphs.boxEmpty())
		text := textStyle
		if it.Checked {
			box = accentStyle.Render(opt.Glyphs.boxChecked())
			text = mutedStyle.Strikethrough(true)
		}
		lines = append(lines, row(opt, i, box, it.Text, text, "", inner))
	}
	if label := d.OverflowLabel(); label != "" {
		lines = append(lines, mutedStyle.Render(label))
	}
	return frame(lines, opt)
}

func Habits(d model.HabitDisplay, opt Options) string {
	inner := opt.inner()
	lines := []string{header(d.Title, "", mutedStyle, inner)}
	if d.Total == 0 {
		lines = append(lines, mutedStyle.Render(truncate(model.EmptyHabitText, inner)))
		return frame(lines, opt)
	}
	for i, h := range d.Rows {
		box := boxEmptyStyle.Render(opt.Glyphs.boxEmpty())
		if h.Done {
			box = on(lipgloss.NewStyle().Foreground(habitColor(h.Color)).Bold(true)).Render(opt.Glyphs.boxChecked())
		}
		lines = append(lines, row(opt, i, box, h.Name, textStyle, h.StreakLabel(), inner))
	}
	return frame(lines, opt)
}

func Progress(d model.ProgressDisplay, opt Options) string {
	inner := opt.inner()
	lines := []string{
		header(d.Title, d.CountLabel(), mutedStyle, inner),
		bar(d.Fraction, d.Complete, opt.Glyphs, inner),
	}

	pct := d.PercentLabel()
	pctStyle := mutedStyle
	if d.Complete {
		pctStyle = on(lipgloss.NewStyle().Foreground(colorComplete).Bold(true))
	}
	button := opt.Glyphs.plusButton()
	buttonStyle := accentStyle
	if opt.Focus {
		buttonStyle = cursorStyle.Reverse(true)
	}
	gap := max(1, inner-lipgloss.Width(pct)-lipgloss.Width(button))
	lines = append(lines, pctStyle.Render(pct)+on(lipgloss.NewStyle()).Render(strings.Repeat(" ", gap))+buttonStyle.Render(button))
	return frame(lines, opt)
}

// bar draws the filled/empty track the same way the list view draws progress
// cookies, scaled to the card width.
func bar(fraction float64, complete bool, g Glyphs, width int) string {
	if math.IsNaN(fraction) {
		fraction = 0
	}
	fraction = min(1, max(0, fraction))
	filled := int(math.Round(fraction * float64(width)))
	filledStyle := on(lipgloss.NewStyle().Foreground(barColor(complete)))
	return filledStyle.Render(strings.Repeat(g.barFill(), filled)) +
		boxEmptyStyle.Render(strings.Repeat(g.barEmpty(), width-filled))
}

func header(title, badge string, badgeStyle lipgloss.Style, inner int) string {
	bw := lipgloss.Width(badge)
	tw := inner
	if bw > 0 {
		tw = max(1, inner-bw-1)
	}
	t := titleStyle.Render(truncate(title, tw))
	if badge == "" {
		return t
	}
	gap := max(1, inner-lipgloss.Width(t)-bw)
	return t + on(lipgloss.NewStyle()).Render(strings.Repeat(" ", gap)) + badgeStyle.Render(badge)
}

// row lays out cursor marker, box, text and an optional right-aligned
// suffix on a single line.
func row(opt Options, i int, box, text string, textSt lipgloss.Style, suffix string, inner int) string {
	marker := on(lipgloss.NewStyle()).Render(" ")
	if opt.Focus && i == opt.Cursor {
		marker = cursorStyle.Render(opt.Glyphs.cursor())
	}
	space := on(lipgloss.NewStyle()).Render(" ")
	prefix := marker + space + box + space
	avail := inner - lipgloss.Width(prefix)
	if suffix != "" {
		avail -= lipgloss.Width(suffix) + 1
	}
	body := textSt.Render(truncate(text, max(1, avail)))
	if suffix == "" {
		return prefix + body
	}
	gap := max(1, inner-lipgloss.Width(prefix)-lipgloss.Width(body)-lipgloss.Width(suffix))
	return prefix + body + on(lipgloss.NewStyle()).Render(strings.Repeat(" ", gap)) + mutedStyle.Render(suffix)
}

func frame(lines []string, opt Options) string {
	return cardStyle.Width(opt.inner() + 2).Render(strings.Join(lines, "\n"))
}

// truncate keeps rows single-line: newlines collapse to spaces and overlong
// text gets an ellipsis.
func truncate(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	if width <= 0 {
		return ""
	}
	if xansi.StringWidth(s) <= width {
		return s
	}
	return xansi.Truncate(s, width, "…")
}

// Summary is a one-line plain description of a card, used by list views.
func Summary(d model.Display) string {
	switch v := d.(type) {
	case model.ChecklistDisplay:
		if v.Total == 0 {
			return "empty"
		}
		return v.CountLabel() + " done"
	case model.HabitDisplay:
		done := 0
		for _, h := range v.Rows {
			if h.Done {
				done++
			}
		}
		if v.Total == 0 {
			return "no habits"
		}
		return fmt.Sprintf("%d/%d today", done, len(v.Rows))
	case model.ProgressDisplay:
		return v.CountLabel() + " · " + v.PercentLabel()
	default:
		return ""
	}
}
