package action

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"lilynotes-widgets/internal/store"
)

// Dispatcher delivers a request. There is no response; the next render reads
// whatever state the host app wrote.
type Dispatcher interface {
	Dispatch(ctx context.Context, r Request) error
}

type DispatcherFunc func(ctx context.Context, r Request) error

func (f DispatcherFunc) Dispatch(ctx context.Context, r Request) error { return f(ctx, r) }

// Guard drops requests that are missing parameters instead of passing them
// on, mirroring the platform tap callbacks.
func Guard(d Dispatcher) Dispatcher {
	return DispatcherFunc(func(ctx context.Context, r Request) error {
		if !r.Deliverable() {
			slog.Debug("dropping undeliverable action", "name", r.Name, "widgetId", r.WidgetID)
			return nil
		}
		return d.Dispatch(ctx, r)
	})
}

// Fanout dispatches to every dispatcher in order and stops at the first error.
func Fanout(ds ...Dispatcher) Dispatcher {
	return DispatcherFunc(func(ctx context.Context, r Request) error {
		for _, d := range ds {
			if err := d.Dispatch(ctx, r); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriterDispatcher prints each request's deep link on its own line.
type WriterDispatcher struct {
	W io.Writer
}

func (d WriterDispatcher) Dispatch(_ context.Context, r Request) error {
	_, err := fmt.Fprintln(d.W, r.URI())
	return err
}

// OutboxDispatcher queues requests in the store's action outbox for the host
// app to pick up.
type OutboxDispatcher struct {
	Store store.Store
}

func (d OutboxDispatcher) Dispatch(ctx context.Context, r Request) error {
	slog.Debug("queueing action", "id", r.ID, "uri", r.URI())
	return d.Store.EnqueueAction(ctx, store.OutboxEntry{ID: r.ID, URI: r.URI(), IssuedAt: r.IssuedAt})
}
