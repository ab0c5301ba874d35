package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"

	prefsFileName  = "prefs.json"
	sqliteFileName = "prefs.sqlite"
	outboxFileName = "outbox.jsonl"
)

var ErrEmptyKey = errors.New("preference key is empty")

// Map is an immutable-by-convention snapshot of the shared preferences.
type Map map[string]string

func (m Map) Get(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// Keys returns the keys in sorted order.
func (m Map) Keys() []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Store is the host-side preferences store for one widget "app group".
//
// Backend is "json" (a single prefs.json object) or "sqlite" (prefs.sqlite).
// When empty, an existing prefs.sqlite selects sqlite; otherwise json.
type Store struct {
	Dir     string
	Backend string
}

// writeMu serializes read-modify-write cycles within a process. Cross-process
// writers rely on atomic renames (json) or sqlite transactions.
var writeMu sync.Mutex

func (s Store) Ensure() error {
	if strings.TrimSpace(s.Dir) == "" {
		return errors.New("store dir is empty")
	}
	return os.MkdirAll(s.Dir, 0o755)
}

func (s Store) ResolvedBackend() string {
	switch strings.ToLower(strings.TrimSpace(s.Backend)) {
	case BackendSQLite:
		return BackendSQLite
	case BackendJSON:
		return BackendJSON
	}
	if _, err := os.Stat(s.sqlitePath()); err == nil {
		return BackendSQLite
	}
	return BackendJSON
}

// Path is the file that holds the preferences for the resolved backend.
func (s Store) Path() string {
	if s.ResolvedBackend() == BackendSQLite {
		return s.sqlitePath()
	}
	return s.jsonPath()
}

func (s Store) jsonPath() string   { return filepath.Join(s.Dir, prefsFileName) }
func (s Store) sqlitePath() string { return filepath.Join(s.Dir, sqliteFileName) }
func (s Store) outboxPath() string { return filepath.Join(s.Dir, outboxFileName) }

func validateBackend(name string) error {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", BackendJSON, BackendSQLite:
		return nil
	default:
		return fmt.Errorf("unknown backend: %q (want json|sqlite)", name)
	}
}

// Snapshot reads every preference. A store that was never written yields an
// empty map, which renders every widget in its empty state.
func (s Store) Snapshot(ctx context.Context) (Map, error) {
	if err := validateBackend(s.Backend); err != nil {
		return nil, err
	}
	var (
		m   Map
		err error
	)
	switch s.ResolvedBackend() {
	case BackendSQLite:
		m, err = s.snapshotSQLite(ctx)
	default:
		m, err = s.loadJSON()
	}
	if err != nil {
		slog.Warn("prefs snapshot failed", "path", s.Path(), "err", err)
		return nil, err
	}
	slog.Debug("prefs loaded", "backend", s.ResolvedBackend(), "keys", len(m))
	return m, nil
}

func (s Store) Set(ctx context.Context, key, value string) error {
	return s.SetMany(ctx, Map{key: value})
}

// SetMany writes all pairs at once (one transaction / one file rename).
func (s Store) SetMany(ctx context.Context, kv Map) error {
	if err := validateBackend(s.Backend); err != nil {
		return err
	}
	for k := range kv {
		if strings.TrimSpace(k) == "" {
			return ErrEmptyKey
		}
	}
	if len(kv) == 0 {
		return nil
	}

	writeMu.Lock()
	defer writeMu.Unlock()

	if s.ResolvedBackend() == BackendSQLite {
		return s.setSQLite(ctx, kv)
	}
	cur, err := s.loadJSON()
	if err != nil {
		return err
	}
	for k, v := range kv {
		cur[k] = v
	}
	return s.saveJSON(cur)
}

// Delete removes keys; missing keys are ignored.
func (s Store) Delete(ctx context.Context, keys ...string) error {
	if err := validateBackend(s.Backend); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}

	writeMu.Lock()
	defer writeMu.Unlock()

	if s.ResolvedBackend() == BackendSQLite {
		return s.deleteSQLite(ctx, keys)
	}
	cur, err := s.loadJSON()
	if err != nil {
		return err
	}
	for _, k := range keys {
		delete(cur, k)
	}
	return s.saveJSON(cur)
}

// Update applies fn to the current value of key inside the store's write
// lock. fn reports whether the value should be written back.
func (s Store) Update(ctx context.Context, key string, fn func(cur string, ok bool) (string, bool)) error {
	if strings.TrimSpace(key) == "" {
		return ErrEmptyKey
	}
	if err := validateBackend(s.Backend); err != nil {
		return err
	}

	writeMu.Lock()
	defer writeMu.Unlock()

	if s.ResolvedBackend() == BackendSQLite {
		return s.updateSQLite(ctx, key, fn)
	}
	cur, err := s.loadJSON()
	if err != nil {
		return err
	}
	v, ok := cur[key]
	next, write := fn(v, ok)
	if !write {
		return nil
	}
	cur[key] = next
	return s.saveJSON(cur)
}
