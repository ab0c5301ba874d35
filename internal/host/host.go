// Package host plays the notes app's side of a widget tap: it applies an
// action request to the stored widget payload so the next render shows the
// change. Payload fields it does not touch are preserved.
package host

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"lilynotes-widgets/internal/action"
	"lilynotes-widgets/internal/derive"
	"lilynotes-widgets/internal/model"
	"lilynotes-widgets/internal/store"
)

type Applier struct {
	Store store.Store
}

// Dispatch lets an Applier stand in for the real app as an action.Dispatcher.
func (a Applier) Dispatch(ctx context.Context, r action.Request) error {
	_, err := a.Apply(ctx, r)
	return err
}

// Apply mutates the payload of r.WidgetID. It reports false when the request
// had nothing to act on: an unknown row or habit, or a payload that does not
// parse (which is left untouched).
func (a Applier) Apply(ctx context.Context, r action.Request) (bool, error) {
	if !r.Deliverable() {
		return false, nil
	}
	var mutate func(string, bool) (string, bool)
	switch r.Name {
	case action.ToggleItemName:
		mutate = func(cur string, ok bool) (string, bool) { return toggleItem(cur, ok, r.Index) }
	case action.ToggleHabitName:
		mutate = func(cur string, ok bool) (string, bool) { return toggleHabit(cur, ok, r.HabitID) }
	case action.IncrementProgressName:
		mutate = incrementProgress
	default:
		return false, nil
	}

	applied := false
	err := a.Store.Update(ctx, model.DataKey(r.WidgetID), func(cur string, ok bool) (string, bool) {
		next, write := mutate(cur, ok)
		applied = write
		return next, write
	})
	if err != nil {
		return false, err
	}
	slog.Info("applied widget action", "name", r.Name, "widgetId", r.WidgetID, "applied", applied)
	return applied, nil
}

func toggleItem(cur string, ok bool, index int) (string, bool) {
	if !ok {
		return "", false
	}
	items, good := decodeArray(cur)
	if !good || index < 0 || index >= len(items) {
		return "", false
	}
	it, isObj := items[index].(map[string]any)
	if !isObj {
		return "", false
	}
	it["checked"] = !derive.Object(it).Bool("checked", false)
	return encode(items)
}

func toggleHabit(cur string, ok bool, habitID string) (string, bool) {
	if !ok {
		return "", false
	}
	habits, good := decodeArray(cur)
	if !good {
		return "", false
	}
	for _, h := range habits {
		m, isObj := h.(map[string]any)
		if !isObj || derive.Object(m).String("id", "") != habitID {
			continue
		}
		done := !derive.Object(m).Bool("done", false)
		streak := derive.Object(m).Int("streak", 0)
		if done {
			streak++
		} else {
			streak = max(0, streak-1)
		}
		m["done"] = done
		m["streak"] = streak
		return encode(habits)
	}
	return "", false
}

// incrementProgress bumps current and recomputes percent, capped at 100.
// A missing payload starts from the widget defaults.
func incrementProgress(cur string, ok bool) (string, bool) {
	obj := map[string]any{}
	if ok {
		v, good := derive.Decode(cur)
		m, isObj := v.(map[string]any)
		if !good || !isObj {
			return "", false
		}
		obj = m
	}
	current := derive.Object(obj).Int("current", 0) + 1
	target := derive.Object(obj).Int("target", model.DefaultProgressTarget)
	obj["current"] = current
	if target > 0 {
		obj["percent"] = min(100, current*100/target)
	}
	return encode(obj)
}

func decodeArray(raw string) ([]any, bool) {
	v, ok := derive.Decode(raw)
	xs, isArr := v.([]any)
	return xs, ok && isArr
}

func encode(v any) (string, bool) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", false
	}
	return strings.TrimSpace(buf.String()), true
}
