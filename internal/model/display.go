package model

import "fmt"

type ChecklistItem struct {
	Text    string `json:"text"`
	Checked bool   `json:"checked"`
}

type HabitItem struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Done   bool   `json:"done"`
	Streak int    `json:"streak"`
	Color  uint32 `json:"color"`
}

// StreakLabel returns "<n>d", or "" when there is no streak to show.
func (h HabitItem) StreakLabel() string {
	if h.Streak <= 0 {
		return ""
	}
	return fmt.Sprintf("%dd", h.Streak)
}

// HexColor returns the habit color as #RRGGBB. Alpha is ignored.
func (h HabitItem) HexColor() string {
	return fmt.Sprintf("#%06X", h.Color&0xFFFFFF)
}

type ProgressState struct {
	Current int `json:"current"`
	Target  int `json:"target"`
	Percent int `json:"percent"`
}

// Display is the derived model a rendering adapter draws.
type Display interface {
	WidgetKind() Kind
	WidgetTitle() string
}

type ChecklistDisplay struct {
	Instance      Instance        `json:"instance"`
	Title         string          `json:"title"`
	Rows          []ChecklistItem `json:"rows"`
	Total         int             `json:"total"`
	CheckedCount  int             `json:"checkedCount"`
	OverflowCount int             `json:"overflowCount"`
	Complete      bool            `json:"complete"`
}

func (d ChecklistDisplay) WidgetKind() Kind    { return KindChecklist }
func (d ChecklistDisplay) WidgetTitle() string { return d.Title }

// CountLabel is the "checked/total" badge; empty when there are no items.
func (d ChecklistDisplay) CountLabel() string {
	if d.Total == 0 {
		return ""
	}
	return fmt.Sprintf("%d/%d", d.CheckedCount, d.Total)
}

func (d ChecklistDisplay) OverflowLabel() string {
	if d.OverflowCount <= 0 {
		return ""
	}
	return fmt.Sprintf("+%d more", d.OverflowCount)
}

type HabitDisplay struct {
	Instance Instance    `json:"instance"`
	Title    string      `json:"title"`
	Rows     []HabitItem `json:"rows"`
	Total    int         `json:"total"`
}

func (d HabitDisplay) WidgetKind() Kind    { return KindHabit }
func (d HabitDisplay) WidgetTitle() string { return d.Title }

type ProgressDisplay struct {
	Instance Instance `json:"instance"`
	Title    string   `json:"title"`
	ProgressState
	Fraction float64 `json:"fraction"`
	Complete bool    `json:"complete"`
}

func (d ProgressDisplay) WidgetKind() Kind    { return KindProgress }
func (d ProgressDisplay) WidgetTitle() string { return d.Title }

func (d ProgressDisplay) CountLabel() string {
	return fmt.Sprintf("%d/%d", d.Current, d.Target)
}

func (d ProgressDisplay) PercentLabel() string {
	return fmt.Sprintf("%d%%", d.Percent)
}

// Empty-state texts shown by the widget cards.
const (
	EmptyChecklistText = "No items — open app to add"
	EmptyHabitText     = "No habits yet — open app to add"
)
