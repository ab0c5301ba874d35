package derive

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"lilynotes-widgets/internal/model"
)

type prefs map[string]string

func (p prefs) Get(key string) (string, bool) {
	v, ok := p[key]
	return v, ok
}

func withData(kind model.Kind, data string) prefs {
	return prefs{
		model.DefaultKey(kind): "w1",
		model.DataKey("w1"):    data,
	}
}

func TestResolveInstance_ConfigThenDefault(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		p     prefs
		want  model.Instance
		place string
	}{
		{"config wins", prefs{"config_42": "a", "default_checklist": "b"}, model.InstanceOf("a"), "42"},
		{"empty config falls back", prefs{"config_42": "", "default_checklist": "b"}, model.InstanceOf("b"), "42"},
		{"default only", prefs{"default_checklist": "b"}, model.InstanceOf("b"), "42"},
		{"other placement", prefs{"config_7": "a"}, model.Instance{}, "42"},
		{"nothing", prefs{}, model.Instance{}, "42"},
		{"other kind default ignored", prefs{"default_habit": "h"}, model.Instance{}, "42"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := ResolveInstance(tc.p, model.KindChecklist, tc.place)
			if got != tc.want {
				t.Fatalf("want %#v, got %#v", tc.want, got)
			}
		})
	}

	if got := ResolveInstance(nil, model.KindHabit, "1"); got.Resolved {
		t.Fatalf("nil store must not resolve; got %#v", got)
	}
}

func TestDeriveChecklist_EmptyPayload(t *testing.T) {
	t.Parallel()

	d := DeriveChecklist(withData(model.KindChecklist, "[]"), model.InstanceOf("w1"))
	if d.Title != "Checklist" {
		t.Fatalf("expected default title; got %q", d.Title)
	}
	if d.Total != 0 || len(d.Rows) != 0 || d.CountLabel() != "" || d.OverflowLabel() != "" {
		t.Fatalf("expected empty checklist without badge; got %#v", d)
	}
	if d.Complete {
		t.Fatalf("empty checklist must not be complete")
	}
}

func TestDeriveChecklist_TwoItems(t *testing.T) {
	t.Parallel()

	p := withData(model.KindChecklist, `[{"text":"Milk","checked":true},{"text":"Eggs","checked":false}]`)
	p[model.TitleKey("w1")] = "Groceries"

	d := DeriveChecklist(p, ResolveInstance(p, model.KindChecklist, "9"))
	if d.Title != "Groceries" {
		t.Fatalf("title: want Groceries, got %q", d.Title)
	}
	if d.CountLabel() != "1/2" {
		t.Fatalf("badge: want 1/2, got %q", d.CountLabel())
	}
	want := []model.ChecklistItem{{Text: "Milk", Checked: true}, {Text: "Eggs"}}
	if !reflect.DeepEqual(d.Rows, want) {
		t.Fatalf("rows: want %#v, got %#v", want, d.Rows)
	}
	if d.OverflowCount != 0 || d.OverflowLabel() != "" {
		t.Fatalf("expected no overflow; got %d", d.OverflowCount)
	}
}

func TestDeriveChecklist_OverflowPastEight(t *testing.T) {
	t.Parallel()

	var parts []string
	for i := 0; i < 10; i++ {
		parts = append(parts, fmt.Sprintf(`{"text":"item %d","checked":%t}`, i, i%3 == 0 && i < 9))
	}
	d := DeriveChecklist(withData(model.KindChecklist, "["+strings.Join(parts, ",")+"]"), model.InstanceOf("w1"))

	if d.CountLabel() != "3/10" {
		t.Fatalf("badge: want 3/10, got %q", d.CountLabel())
	}
	if len(d.Rows) != 8 {
		t.Fatalf("want 8 visible rows, got %d", len(d.Rows))
	}
	for i, r := range d.Rows {
		if r.Text != fmt.Sprintf("item %d", i) {
			t.Fatalf("row %d out of order: %q", i, r.Text)
		}
	}
	if d.OverflowLabel() != "+2 more" {
		t.Fatalf("overflow: want +2 more, got %q", d.OverflowLabel())
	}
}

func TestDeriveChecklist_CountsAndLimitsHoldForAnyLength(t *testing.T) {
	t.Parallel()

	for n := 0; n <= 20; n++ {
		var parts []string
		wantChecked := 0
		for i := 0; i < n; i++ {
			c := (i*7)%5 < 2
			if c {
				wantChecked++
			}
			parts = append(parts, fmt.Sprintf(`{"text":"t%d","checked":%t}`, i, c))
		}
		d := DeriveChecklist(withData(model.KindChecklist, "["+strings.Join(parts, ",")+"]"), model.InstanceOf("w1"))

		if d.Total != n || d.CheckedCount != wantChecked {
			t.Fatalf("n=%d: want total=%d checked=%d, got %d/%d", n, n, wantChecked, d.Total, d.CheckedCount)
		}
		if d.CheckedCount < 0 || d.CheckedCount > d.Total {
			t.Fatalf("n=%d: checked out of range: %d", n, d.CheckedCount)
		}
		if len(d.Rows) != min(n, 8) {
			t.Fatalf("n=%d: want %d rows, got %d", n, min(n, 8), len(d.Rows))
		}
		if d.OverflowCount != max(0, n-8) {
			t.Fatalf("n=%d: want overflow %d, got %d", n, max(0, n-8), d.OverflowCount)
		}
		if d.Complete != (n > 0 && wantChecked == n) {
			t.Fatalf("n=%d: complete=%v with %d/%d", n, d.Complete, wantChecked, n)
		}
	}
}

func TestDeriveChecklist_AllCheckedIsComplete(t *testing.T) {
	t.Parallel()

	d := DeriveChecklist(withData(model.KindChecklist, `[{"text":"a","checked":true},{"text":"b","checked":true}]`), model.InstanceOf("w1"))
	if !d.Complete {
		t.Fatalf("expected complete; got %#v", d)
	}
}

func TestDeriveChecklist_MissingAndWrongTypedFieldsUseDefaults(t *testing.T) {
	t.Parallel()

	d := DeriveChecklist(withData(model.KindChecklist, `[{}, {"text": 5, "checked": "true"}, 3, null, {"checked": [1]}]`), model.InstanceOf("w1"))
	want := []model.ChecklistItem{
		{},
		{Text: "5", Checked: true},
		{},
		{},
		{},
	}
	if !reflect.DeepEqual(d.Rows, want) {
		t.Fatalf("want %#v, got %#v", want, d.Rows)
	}
	if d.Total != 5 || d.CheckedCount != 1 {
		t.Fatalf("want 1/5, got %d/%d", d.CheckedCount, d.Total)
	}
}

func TestDeriveHabits_FieldsAndLimit(t *testing.T) {
	t.Parallel()

	var parts []string
	for i := 0; i < 8; i++ {
		parts = append(parts, fmt.Sprintf(`{"id":"h%d","name":"Habit %d","done":%t,"streak":%d,"color":%d}`, i, i, i%2 == 0, i, 0xFF4CAF50))
	}
	d := DeriveHabits(withData(model.KindHabit, "["+strings.Join(parts, ",")+"]"), model.InstanceOf("w1"))

	if d.Title != "Habits" {
		t.Fatalf("title: want Habits, got %q", d.Title)
	}
	if len(d.Rows) != 6 || d.Total != 8 {
		t.Fatalf("want 6 of 8 rows, got %d of %d", len(d.Rows), d.Total)
	}
	first := d.Rows[0]
	if first.ID != "h0" || first.Name != "Habit 0" || !first.Done || first.Streak != 0 || first.Color != 0xFF4CAF50 {
		t.Fatalf("unexpected first habit: %#v", first)
	}
	if first.StreakLabel() != "" {
		t.Fatalf("zero streak must be hidden; got %q", first.StreakLabel())
	}
	if d.Rows[5].StreakLabel() != "5d" {
		t.Fatalf("want 5d, got %q", d.Rows[5].StreakLabel())
	}
}

func TestDeriveHabits_Defaults(t *testing.T) {
	t.Parallel()

	d := DeriveHabits(withData(model.KindHabit, `[{"streak":-3}, {"color":"nope"}, {"color":-10177034}]`), model.InstanceOf("w1"))
	if len(d.Rows) != 3 {
		t.Fatalf("want 3 rows, got %d", len(d.Rows))
	}
	if d.Rows[0].Color != model.DefaultHabitColor || d.Rows[0].StreakLabel() != "" {
		t.Fatalf("unexpected defaults: %#v", d.Rows[0])
	}
	if d.Rows[1].Color != model.DefaultHabitColor {
		t.Fatalf("wrong-typed color must default; got %#x", d.Rows[1].Color)
	}
	// Signed Java ints keep their ARGB bit pattern.
	if d.Rows[2].Color != 0xFF64B5F6 {
		t.Fatalf("signed color: want 0xFF64B5F6, got %#x", d.Rows[2].Color)
	}
	if got := d.Rows[2].HexColor(); got != "#64B5F6" {
		t.Fatalf("hex: want #64B5F6, got %s", got)
	}
}

func TestDeriveProgress_Scenarios(t *testing.T) {
	t.Parallel()

	cases := []struct {
		data         string
		wantFraction float64
		wantPercent  string
		wantComplete bool
	}{
		{`{"current":7,"target":10,"percent":70}`, 0.7, "70%", false},
		{`{"current":10,"target":10,"percent":100}`, 1.0, "100%", true},
		{`{"current":15,"target":10,"percent":150}`, 1.0, "150%", true},
		{`{"current":-2,"target":10,"percent":0}`, 0, "0%", false},
		{`{"current":5,"target":0,"percent":50}`, 0, "50%", false},
		{`{"current":5,"target":-4,"percent":50}`, 0, "50%", false},
	}
	for _, tc := range cases {
		d := DeriveProgress(withData(model.KindProgress, tc.data), model.InstanceOf("w1"))
		if d.Fraction != tc.wantFraction {
			t.Fatalf("%s: fraction want %v, got %v", tc.data, tc.wantFraction, d.Fraction)
		}
		if d.PercentLabel() != tc.wantPercent {
			t.Fatalf("%s: percent want %s, got %s", tc.data, tc.wantPercent, d.PercentLabel())
		}
		if d.Complete != tc.wantComplete {
			t.Fatalf("%s: complete want %v, got %v", tc.data, tc.wantComplete, d.Complete)
		}
	}
}

func TestDeriveProgress_FieldsDefaultIndependently(t *testing.T) {
	t.Parallel()

	d := DeriveProgress(withData(model.KindProgress, `{"current":"3","target":"ten","percent":30.9}`), model.InstanceOf("w1"))
	want := model.ProgressState{Current: 3, Target: 10, Percent: 30}
	if d.ProgressState != want {
		t.Fatalf("want %#v, got %#v", want, d.ProgressState)
	}
	if d.CountLabel() != "3/10" {
		t.Fatalf("want 3/10, got %s", d.CountLabel())
	}
}

func TestFraction_ClampsForAnyTarget(t *testing.T) {
	t.Parallel()

	for target := -3; target <= 12; target++ {
		for current := -5; current <= 25; current++ {
			f := Fraction(current, target)
			if target <= 0 {
				if f != 0 {
					t.Fatalf("Fraction(%d,%d) = %v, want 0", current, target, f)
				}
				continue
			}
			want := float64(current) / float64(target)
			if want < 0 {
				want = 0
			}
			if want > 1 {
				want = 1
			}
			if f != want {
				t.Fatalf("Fraction(%d,%d) = %v, want %v", current, target, f, want)
			}
		}
	}
}

func TestDerive_MalformedPayloadMatchesEmptyDefault(t *testing.T) {
	t.Parallel()

	malformed := []string{`not json`, `"not json"`, `{"a":`, `[] []`, ``, `42`}
	for _, kind := range model.Kinds() {
		empty := Derive(withData(kind, kind.DefaultData()), kind, "1")
		for _, raw := range malformed {
			got := Derive(withData(kind, raw), kind, "1")
			if !reflect.DeepEqual(empty, got) {
				t.Fatalf("%s with %q:\nwant %#v\ngot  %#v", kind, raw, empty, got)
			}
		}
	}

	// Wrong top-level types.
	if got, want := Derive(withData(model.KindChecklist, `{"text":"x"}`), model.KindChecklist, "1"), Derive(withData(model.KindChecklist, `[]`), model.KindChecklist, "1"); !reflect.DeepEqual(got, want) {
		t.Fatalf("object payload for checklist: want %#v, got %#v", want, got)
	}
	if got, want := Derive(withData(model.KindProgress, `[1,2]`), model.KindProgress, "1"), Derive(withData(model.KindProgress, `{}`), model.KindProgress, "1"); !reflect.DeepEqual(got, want) {
		t.Fatalf("array payload for progress: want %#v, got %#v", want, got)
	}
}

func TestDerive_UnresolvedInstanceRendersDefaults(t *testing.T) {
	t.Parallel()

	p := prefs{model.TitleKey(""): "stray", model.DataKey(""): `[{"text":"x"}]`}
	for _, kind := range model.Kinds() {
		d := Derive(p, kind, "1")
		if d.WidgetTitle() != kind.DefaultTitle() {
			t.Fatalf("%s: want title %q, got %q", kind, kind.DefaultTitle(), d.WidgetTitle())
		}
		if d.WidgetKind() != kind {
			t.Fatalf("kind mismatch: %s vs %s", d.WidgetKind(), kind)
		}
	}

	pd := Derive(prefs{}, model.KindProgress, "1").(model.ProgressDisplay)
	if pd.CountLabel() != "0/10" || pd.PercentLabel() != "0%" || pd.Fraction != 0 {
		t.Fatalf("unexpected empty progress: %#v", pd)
	}
}

func TestDerive_TitleKeyMissingUsesDefault(t *testing.T) {
	t.Parallel()

	p := prefs{"config_5": "w9", model.DataKey("w9"): `[]`}
	if got := Derive(p, model.KindHabit, "5").WidgetTitle(); got != "Habits" {
		t.Fatalf("want Habits, got %q", got)
	}
	p[model.TitleKey("w9")] = "Morning"
	if got := Derive(p, model.KindHabit, "5").WidgetTitle(); got != "Morning" {
		t.Fatalf("want Morning, got %q", got)
	}
}

func TestForInstance_SkipsResolution(t *testing.T) {
	p := prefs{
		model.DefaultKey(model.KindProgress): "a",
		model.DataKey("b"):                   `{"current":3,"target":4}`,
	}
	d, ok := ForInstance(p, model.KindProgress, model.InstanceOf("b")).(model.ProgressDisplay)
	if !ok {
		t.Fatal("expected a progress display")
	}
	if d.Instance.ID != "b" || d.Current != 3 || d.Fraction != 0.75 {
		t.Fatalf("unexpected display: %#v", d)
	}
}
