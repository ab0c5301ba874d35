package store

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"strings"
	"time"
)

// OutboxEntry is one queued widget action request, kept as its deep-link URI
// so the host app can replay it without knowing this module's types.
type OutboxEntry struct {
	ID       string    `json:"id"`
	URI      string    `json:"uri"`
	IssuedAt time.Time `json:"issuedAt"`
}

// EnqueueAction appends an entry. Re-enqueuing an existing id is a no-op.
func (s Store) EnqueueAction(ctx context.Context, e OutboxEntry) error {
	if strings.TrimSpace(e.ID) == "" {
		return errors.New("outbox entry id is empty")
	}
	if e.IssuedAt.IsZero() {
		e.IssuedAt = time.Now().UTC()
	}

	writeMu.Lock()
	defer writeMu.Unlock()

	if s.ResolvedBackend() == BackendSQLite {
		db, err := s.openSQLite(ctx)
		if err != nil {
			return err
		}
		defer db.Close()
		_, err = db.ExecContext(ctx, `INSERT OR IGNORE INTO action_outbox(id, uri, issued_at_unixms, acked) VALUES(?, ?, ?, 0)`,
			e.ID, e.URI, e.IssuedAt.UTC().UnixMilli())
		return err
	}

	existing, err := s.readOutboxJSONL()
	if err != nil {
		return err
	}
	for _, x := range existing {
		if x.ID == e.ID {
			return nil
		}
	}
	if err := s.Ensure(); err != nil {
		return err
	}
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(s.outboxPath(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(append(b, '\n')); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// PendingActions returns un-acked entries, oldest first.
func (s Store) PendingActions(ctx context.Context) ([]OutboxEntry, error) {
	if s.ResolvedBackend() == BackendSQLite {
		db, err := s.openSQLite(ctx)
		if err != nil {
			return nil, err
		}
		defer db.Close()

		rows, err := db.QueryContext(ctx, `SELECT id, uri, issued_at_unixms FROM action_outbox WHERE acked = 0 ORDER BY issued_at_unixms, id`)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		out := []OutboxEntry{}
		for rows.Next() {
			var e OutboxEntry
			var ms int64
			if err := rows.Scan(&e.ID, &e.URI, &ms); err != nil {
				return nil, err
			}
			e.IssuedAt = time.UnixMilli(ms).UTC()
			out = append(out, e)
		}
		return out, rows.Err()
	}
	return s.readOutboxJSONL()
}

// AckActions marks entries as delivered so they are not replayed.
func (s Store) AckActions(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}

	writeMu.Lock()
	defer writeMu.Unlock()

	if s.ResolvedBackend() == BackendSQLite {
		db, err := s.openSQLite(ctx)
		if err != nil {
			return err
		}
		defer db.Close()
		for _, id := range ids {
			if _, err := db.ExecContext(ctx, `UPDATE action_outbox SET acked = 1 WHERE id = ?`, id); err != nil {
				return err
			}
		}
		return nil
	}

	acked := map[string]bool{}
	for _, id := range ids {
		acked[id] = true
	}
	cur, err := s.readOutboxJSONL()
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	for _, e := range cur {
		if acked[e.ID] {
			continue
		}
		b, err := json.Marshal(e)
		if err != nil {
			return err
		}
		buf.Write(b)
		buf.WriteByte('\n')
	}
	if err := s.Ensure(); err != nil {
		return err
	}
	return atomicWriteFile(s.Dir, outboxFileName+".*.tmp", s.outboxPath(), buf.Bytes(), 0o644)
}

func (s Store) readOutboxJSONL() ([]OutboxEntry, error) {
	f, err := os.Open(s.outboxPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []OutboxEntry{}, nil
		}
		return nil, err
	}
	defer f.Close()

	out := []OutboxEntry{}
	sc := bufio.NewScanner(f)
	line := 0
	for sc.Scan() {
		line++
		raw := bytes.TrimSpace(sc.Bytes())
		if len(raw) == 0 {
			continue
		}
		var e OutboxEntry
		if err := json.Unmarshal(raw, &e); err != nil {
			// Partially written line from a crashed writer; skip it.
			slog.Warn("skipping corrupt outbox line", "path", s.outboxPath(), "line", line, "err", err)
			continue
		}
		out = append(out, e)
	}
	return out, sc.Err()
}
