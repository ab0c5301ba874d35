// Package derive turns the raw widget preferences written by the notes app
// into the display models the widget cards draw.
//
// Everything here is pure: no I/O, no logging, no errors. Missing keys,
// malformed JSON and wrong-typed fields fall back to per-field defaults, so a
// broken stored document renders as an empty widget rather than failing.
package derive

import (
	"math"

	"lilynotes-widgets/internal/model"
)

// Lookup is a read-only view of the shared preferences store.
type Lookup interface {
	Get(key string) (string, bool)
}

// ResolveInstance maps a platform widget placement to an application-level
// widget id: a non-empty config_<platformWidgetID> wins, then
// default_<kind>. The zero Instance means neither key is set.
func ResolveInstance(src Lookup, kind model.Kind, platformWidgetID string) model.Instance {
	if src == nil {
		return model.Instance{}
	}
	if id, ok := src.Get(model.ConfigKey(platformWidgetID)); ok && id != "" {
		return model.InstanceOf(id)
	}
	if id, ok := src.Get(model.DefaultKey(kind)); ok {
		return model.InstanceOf(id)
	}
	return model.Instance{}
}

// Derive resolves the instance for a placement and derives its display model.
func Derive(src Lookup, kind model.Kind, platformWidgetID string) model.Display {
	return ForInstance(src, kind, ResolveInstance(src, kind, platformWidgetID))
}

// ForInstance derives the display model of an already resolved instance.
func ForInstance(src Lookup, kind model.Kind, inst model.Instance) model.Display {
	switch kind {
	case model.KindHabit:
		return DeriveHabits(src, inst)
	case model.KindProgress:
		return DeriveProgress(src, inst)
	default:
		return DeriveChecklist(src, inst)
	}
}

func DeriveChecklist(src Lookup, inst model.Instance) model.ChecklistDisplay {
	title, raw := read(src, inst, model.KindChecklist)
	elems := parseArray(raw)

	d := model.ChecklistDisplay{
		Instance: inst,
		Title:    title,
		Rows:     make([]model.ChecklistItem, 0, min(len(elems), model.ChecklistMaxRows)),
		Total:    len(elems),
	}
	for i, e := range elems {
		o := asObject(e)
		it := model.ChecklistItem{
			Text:    o.String("text", ""),
			Checked: o.Bool("checked", false),
		}
		if it.Checked {
			d.CheckedCount++
		}
		if i < model.ChecklistMaxRows {
			d.Rows = append(d.Rows, it)
		}
	}
	d.OverflowCount = max(0, d.Total-model.ChecklistMaxRows)
	d.Complete = d.Total > 0 && d.CheckedCount == d.Total
	return d
}

// DeriveHabits keeps the first HabitMaxRows habits. Unlike the checklist
// there is no overflow summary.
func DeriveHabits(src Lookup, inst model.Instance) model.HabitDisplay {
	title, raw := read(src, inst, model.KindHabit)
	elems := parseArray(raw)

	n := min(len(elems), model.HabitMaxRows)
	d := model.HabitDisplay{
		Instance: inst,
		Title:    title,
		Rows:     make([]model.HabitItem, 0, n),
		Total:    len(elems),
	}
	for _, e := range elems[:n] {
		d.Rows = append(d.Rows, decodeHabit(asObject(e)))
	}
	return d
}

func decodeHabit(o Object) model.HabitItem {
	return model.HabitItem{
		ID:     o.String("id", ""),
		Name:   o.String("name", ""),
		Done:   o.Bool("done", false),
		Streak: o.Int("streak", 0),
		Color:  o.Color("color", model.DefaultHabitColor),
	}
}

func DeriveProgress(src Lookup, inst model.Instance) model.ProgressDisplay {
	title, raw := read(src, inst, model.KindProgress)
	o := parseObject(raw)

	st := model.ProgressState{
		Current: o.Int("current", 0),
		Target:  o.Int("target", model.DefaultProgressTarget),
		Percent: o.Int("percent", 0),
	}
	return model.ProgressDisplay{
		Instance:      inst,
		Title:         title,
		ProgressState: st,
		Fraction:      Fraction(st.Current, st.Target),
		Complete:      st.Percent >= 100,
	}
}

// Fraction is current/target clamped to [0, 1]; 0 when target <= 0.
func Fraction(current, target int) float64 {
	if target <= 0 {
		return 0
	}
	f := float64(current) / float64(target)
	return math.Min(1, math.Max(0, f))
}

// read returns the title and payload for an instance, defaulting both when
// the instance is unresolved or the keys are absent.
func read(src Lookup, inst model.Instance, kind model.Kind) (title, raw string) {
	title, raw = kind.DefaultTitle(), kind.DefaultData()
	if src == nil || !inst.Resolved {
		return title, raw
	}
	if v, ok := src.Get(model.TitleKey(inst.ID)); ok {
		title = v
	}
	if v, ok := src.Get(model.DataKey(inst.ID)); ok {
		raw = v
	}
	return title, raw
}
