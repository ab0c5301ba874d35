package model

import (
	"fmt"
	"strings"
)

type Kind string

const (
	KindChecklist Kind = "checklist"
	KindHabit     Kind = "habit"
	KindProgress  Kind = "progress"
)

// Row limits per widget card.
const (
	ChecklistMaxRows = 8
	HabitMaxRows     = 6
)

const (
	DefaultProgressTarget = 10

	// DefaultHabitColor is used when a habit has no usable color (ARGB).
	DefaultHabitColor uint32 = 0xFF64B5F6
)

func Kinds() []Kind {
	return []Kind{KindChecklist, KindHabit, KindProgress}
}

// ParseKind accepts the kind names plus a few spellings used by the platform
// widget classes (e.g. "habits", "ProgressWidget").
func ParseKind(s string) (Kind, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	v = strings.TrimSuffix(v, "widget")
	switch v {
	case "checklist", "list":
		return KindChecklist, nil
	case "habit", "habits":
		return KindHabit, nil
	case "progress", "progressbar", "progress-bar":
		return KindProgress, nil
	default:
		return "", fmt.Errorf("unknown widget kind: %q (want checklist|habit|progress)", s)
	}
}

func (k Kind) DefaultTitle() string {
	switch k {
	case KindChecklist:
		return "Checklist"
	case KindHabit:
		return "Habits"
	case KindProgress:
		return "Progress"
	default:
		return ""
	}
}

// DefaultData is the payload assumed when widget_<id>_data is missing.
func (k Kind) DefaultData() string {
	if k == KindProgress {
		return "{}"
	}
	return "[]"
}

// Instance is a resolved application-level widget id. The zero value means
// no instance could be resolved.
type Instance struct {
	ID       string `json:"id"`
	Resolved bool   `json:"resolved"`
}

func InstanceOf(id string) Instance {
	return Instance{ID: id, Resolved: true}
}

// Preference keys shared with the host application.

func ConfigKey(platformWidgetID string) string {
	return "config_" + platformWidgetID
}

func DefaultKey(k Kind) string {
	return "default_" + string(k)
}

func TitleKey(id string) string {
	return "widget_" + id + "_title"
}

func DataKey(id string) string {
	return "widget_" + id + "_data"
}
