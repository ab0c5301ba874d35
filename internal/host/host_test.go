package host

import (
	"context"
	"testing"

	"lilynotes-widgets/internal/action"
	"lilynotes-widgets/internal/derive"
	"lilynotes-widgets/internal/model"
	"lilynotes-widgets/internal/store"
)

func seeded(t *testing.T, backend string) (Applier, store.Store) {
	t.Helper()
	st := store.Store{Dir: t.TempDir(), Backend: backend}
	if err := st.SetMany(context.Background(), store.SeedPrefs()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return Applier{Store: st}, st
}

func snapshot(t *testing.T, st store.Store) store.Map {
	t.Helper()
	m, err := st.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	return m
}

func TestApply_ToggleItem(t *testing.T) {
	t.Parallel()

	for _, backend := range []string{store.BackendJSON, store.BackendSQLite} {
		a, st := seeded(t, backend)
		ctx := context.Background()

		before := derive.DeriveChecklist(snapshot(t, st), model.InstanceOf(store.SeedChecklistID))
		if before.Rows[1].Checked {
			t.Fatalf("%s: seed row 1 should start unchecked", backend)
		}

		ok, err := a.Apply(ctx, action.ToggleItem(store.SeedChecklistID, 1))
		if err != nil || !ok {
			t.Fatalf("%s: Apply: ok=%v err=%v", backend, ok, err)
		}
		after := derive.DeriveChecklist(snapshot(t, st), model.InstanceOf(store.SeedChecklistID))
		if !after.Rows[1].Checked || after.CheckedCount != before.CheckedCount+1 {
			t.Fatalf("%s: toggle not applied: %#v", backend, after)
		}
		if after.Rows[1].Text != "Eggs" {
			t.Fatalf("%s: text must be preserved; got %q", backend, after.Rows[1].Text)
		}

		// Out of range is a no-op.
		ok, err = a.Apply(ctx, action.ToggleItem(store.SeedChecklistID, 99))
		if err != nil || ok {
			t.Fatalf("%s: out of range: ok=%v err=%v", backend, ok, err)
		}
	}
}

func TestApply_ToggleHabitAdjustsStreak(t *testing.T) {
	t.Parallel()

	a, st := seeded(t, store.BackendJSON)
	ctx := context.Background()

	if _, err := a.Apply(ctx, action.ToggleHabit(store.SeedHabitID, "h-walk")); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	d := derive.DeriveHabits(snapshot(t, st), model.InstanceOf(store.SeedHabitID))
	walk := d.Rows[1]
	if !walk.Done || walk.Streak != 1 {
		t.Fatalf("want done with streak 1; got %#v", walk)
	}
	if walk.Color != 0xFFFF9800 {
		t.Fatalf("color must be preserved; got %#x", walk.Color)
	}

	if _, err := a.Apply(ctx, action.ToggleHabit(store.SeedHabitID, "h-read")); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	read := derive.DeriveHabits(snapshot(t, st), model.InstanceOf(store.SeedHabitID)).Rows[0]
	if read.Done || read.Streak != 3 {
		t.Fatalf("want undone with streak 3; got %#v", read)
	}

	ok, err := a.Apply(ctx, action.ToggleHabit(store.SeedHabitID, "missing"))
	if err != nil || ok {
		t.Fatalf("unknown habit: ok=%v err=%v", ok, err)
	}
}

func TestApply_IncrementProgress(t *testing.T) {
	t.Parallel()

	a, st := seeded(t, store.BackendSQLite)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		if _, err := a.Apply(ctx, action.IncrementProgress(store.SeedProgressID)); err != nil {
			t.Fatalf("Apply: %v", err)
		}
	}
	d := derive.DeriveProgress(snapshot(t, st), model.InstanceOf(store.SeedProgressID))
	if d.Current != 11 || d.Target != 10 || d.Percent != 100 || !d.Complete || d.Fraction != 1 {
		t.Fatalf("unexpected progress after increments: %#v", d)
	}
}

func TestApply_IncrementMissingPayloadStartsFromDefaults(t *testing.T) {
	t.Parallel()

	st := store.Store{Dir: t.TempDir()}
	ok, err := (Applier{Store: st}).Apply(context.Background(), action.IncrementProgress("fresh"))
	if err != nil || !ok {
		t.Fatalf("Apply: ok=%v err=%v", ok, err)
	}
	d := derive.DeriveProgress(snapshot(t, st), model.InstanceOf("fresh"))
	if d.Current != 1 || d.Target != 10 || d.Percent != 10 {
		t.Fatalf("unexpected progress: %#v", d)
	}
}

func TestApply_MalformedPayloadIsLeftAlone(t *testing.T) {
	t.Parallel()

	st := store.Store{Dir: t.TempDir()}
	ctx := context.Background()
	if err := st.Set(ctx, model.DataKey("p"), "not json"); err != nil {
		t.Fatal(err)
	}
	ok, err := (Applier{Store: st}).Apply(ctx, action.IncrementProgress("p"))
	if err != nil || ok {
		t.Fatalf("malformed: ok=%v err=%v", ok, err)
	}
	if v := snapshot(t, st)[model.DataKey("p")]; v != "not json" {
		t.Fatalf("payload overwritten: %q", v)
	}
}

func TestApply_UndeliverableIsIgnored(t *testing.T) {
	t.Parallel()

	a, _ := seeded(t, store.BackendJSON)
	ok, err := a.Apply(context.Background(), action.ToggleItem("", 0))
	if err != nil || ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
}

func TestApply_ReadsFieldsLikeTheRenderer(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := store.Store{Dir: t.TempDir()}
	a := Applier{Store: st}

	// Stringly-typed and fractional values as older app builds wrote them.
	err := st.SetMany(ctx, store.Map{
		model.DataKey("h"): `[{"id":7,"name":"Read","done":"TRUE","streak":"2.9"}]`,
		model.DataKey("p"): `{"current":"4","target":8.5}`,
	})
	if err != nil {
		t.Fatal(err)
	}

	before := derive.DeriveHabits(snapshot(t, st), model.InstanceOf("h"))
	if before.Rows[0].ID != "7" || !before.Rows[0].Done || before.Rows[0].Streak != 2 {
		t.Fatalf("unexpected derived habit: %#v", before.Rows[0])
	}
	ok, err := a.Apply(ctx, action.ToggleHabit("h", before.Rows[0].ID))
	if err != nil || !ok {
		t.Fatalf("toggle habit: ok=%v err=%v", ok, err)
	}
	after := derive.DeriveHabits(snapshot(t, st), model.InstanceOf("h"))
	if after.Rows[0].Done || after.Rows[0].Streak != 1 {
		t.Fatalf("want undone with streak 1, got %#v", after.Rows[0])
	}

	if ok, err := a.Apply(ctx, action.IncrementProgress("p")); err != nil || !ok {
		t.Fatalf("increment: ok=%v err=%v", ok, err)
	}
	p := derive.DeriveProgress(snapshot(t, st), model.InstanceOf("p"))
	if p.Current != 5 || p.Target != 8 || p.Percent != 62 {
		t.Fatalf("want 5/8 at 62%%, got %#v", p)
	}
}
