package store

import (
	"context"
	"errors"
	"os"
	"reflect"
	"testing"
)

func TestStore_MissingStoreIsEmpty(t *testing.T) {
	t.Parallel()

	for _, backend := range []string{BackendJSON, BackendSQLite} {
		s := Store{Dir: t.TempDir(), Backend: backend}
		m, err := s.Snapshot(context.Background())
		if err != nil {
			t.Fatalf("%s: Snapshot: %v", backend, err)
		}
		if len(m) != 0 {
			t.Fatalf("%s: expected empty snapshot; got %#v", backend, m)
		}
	}
}

func TestStore_SetDeleteRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	for _, backend := range []string{BackendJSON, BackendSQLite} {
		s := Store{Dir: t.TempDir(), Backend: backend}

		if err := s.SetMany(ctx, SeedPrefs()); err != nil {
			t.Fatalf("%s: SetMany: %v", backend, err)
		}
		if err := s.Set(ctx, "config_17", SeedHabitID); err != nil {
			t.Fatalf("%s: Set: %v", backend, err)
		}
		if err := s.Delete(ctx, "default_progress", "not-there"); err != nil {
			t.Fatalf("%s: Delete: %v", backend, err)
		}

		got, err := s.Snapshot(ctx)
		if err != nil {
			t.Fatalf("%s: Snapshot: %v", backend, err)
		}
		want := SeedPrefs()
		want["config_17"] = SeedHabitID
		delete(want, "default_progress")
		if !reflect.DeepEqual(want, got) {
			t.Fatalf("%s: roundtrip mismatch:\nwant: %#v\ngot:  %#v", backend, want, got)
		}
	}
}

func TestStore_AutodetectsSQLite(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dir := t.TempDir()

	if got := (Store{Dir: dir}).ResolvedBackend(); got != BackendJSON {
		t.Fatalf("empty dir: want json, got %s", got)
	}
	if err := (Store{Dir: dir, Backend: BackendSQLite}).Set(ctx, "k", "v"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	s := Store{Dir: dir}
	if got := s.ResolvedBackend(); got != BackendSQLite {
		t.Fatalf("after sqlite write: want sqlite, got %s", got)
	}
	m, err := s.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if v, _ := m.Get("k"); v != "v" {
		t.Fatalf("want v, got %q", v)
	}
}

func TestStore_Update(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	for _, backend := range []string{BackendJSON, BackendSQLite} {
		s := Store{Dir: t.TempDir(), Backend: backend}

		err := s.Update(ctx, "counter", func(cur string, ok bool) (string, bool) {
			if ok {
				t.Fatalf("%s: expected missing key", backend)
			}
			return "1", true
		})
		if err != nil {
			t.Fatalf("%s: Update: %v", backend, err)
		}
		err = s.Update(ctx, "counter", func(cur string, ok bool) (string, bool) {
			if !ok || cur != "1" {
				t.Fatalf("%s: want existing 1, got %q ok=%v", backend, cur, ok)
			}
			return "", false
		})
		if err != nil {
			t.Fatalf("%s: Update (no write): %v", backend, err)
		}
		m, _ := s.Snapshot(ctx)
		if m["counter"] != "1" {
			t.Fatalf("%s: want counter=1, got %#v", backend, m)
		}
	}
}

func TestStore_RejectsEmptyKeyAndUnknownBackend(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s := Store{Dir: t.TempDir()}
	if err := s.Set(ctx, " ", "x"); !errors.Is(err, ErrEmptyKey) {
		t.Fatalf("want ErrEmptyKey, got %v", err)
	}
	bad := Store{Dir: t.TempDir(), Backend: "redis"}
	if _, err := bad.Snapshot(ctx); err == nil {
		t.Fatalf("expected unknown backend error")
	}
}

func TestStore_CorruptJSONIsAnError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile((Store{Dir: dir}).jsonPath(), []byte("{nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := (Store{Dir: dir}).Snapshot(context.Background()); err == nil {
		t.Fatalf("expected parse error for corrupt prefs.json")
	}
}

func TestMap_KeysSorted(t *testing.T) {
	t.Parallel()

	m := Map{"b": "", "a": "", "c": ""}
	if got := m.Keys(); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("unexpected keys: %v", got)
	}
}
