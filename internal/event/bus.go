package event

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Event is a domain event identified by name.
type Event interface {
	Name() string
}

// Phase selects when a handler runs relative to the publishing transaction.
type Phase int

const (
	// BeforeCommit handlers run synchronously inside the transaction; an error rolls it back.
	BeforeCommit Phase = iota
	// AfterCommit handlers run asynchronously once the transaction committed; errors are only logged.
	AfterCommit
)

func (p Phase) String() string {
	if p == BeforeCommit {
		return "before_commit"
	}
	return "after_commit"
}

type Handler func(ctx context.Context, e Event) error

// Transactor runs fn inside a database transaction carried by the context.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

const allEvents = "*"

type subscription struct {
	phase   Phase
	handler Handler
}

// Bus dispatches domain events to in-process handlers.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]subscription
	wg       sync.WaitGroup
	log      *slog.Logger
}

func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{handlers: make(map[string][]subscription), log: logger}
}

// Subscribe registers h for events named name.
func (b *Bus) Subscribe(name string, phase Phase, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[name] = append(b.handlers[name], subscription{phase: phase, handler: h})
}

// SubscribeAll registers h for every event.
func (b *Bus) SubscribeAll(phase Phase, h Handler) {
	b.Subscribe(allEvents, phase, h)
}

type recorderKey struct{}

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) add(e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *recorder) at(i int) (Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i >= len(r.events) {
		return nil, false
	}
	return r.events[i], true
}

func (r *recorder) snapshot() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Publish records e when ctx belongs to an Atomic scope. Outside a scope,
// before-commit handlers run immediately and after-commit handlers are started in the background.
func (b *Bus) Publish(ctx context.Context, e Event) error {
	if rec, ok := ctx.Value(recorderKey{}).(*recorder); ok {
		rec.add(e)
		return nil
	}
	if err := b.dispatch(ctx, e); err != nil {
		return err
	}
	b.dispatchAsync(context.WithoutCancel(ctx), []Event{e})
	return nil
}

// Atomic runs fn inside a transaction. Events published on the scoped context are
// delivered to before-commit handlers prior to commit and to after-commit handlers after it.
// A nested call joins the outer scope.
func (b *Bus) Atomic(ctx context.Context, tx Transactor, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(recorderKey{}).(*recorder); ok {
		return fn(ctx)
	}

	rec := &recorder{}
	err := tx.WithinTx(ctx, func(txCtx context.Context) error {
		scoped := context.WithValue(txCtx, recorderKey{}, rec)
		if err := fn(scoped); err != nil {
			return err
		}
		// before-commit handlers may publish further events
		for i := 0; ; i++ {
			e, ok := rec.at(i)
			if !ok {
				return nil
			}
			if err := b.dispatch(scoped, e); err != nil {
				return err
			}
		}
	})
	if err != nil {
		return err
	}

	b.dispatchAsync(context.WithoutCancel(ctx), rec.snapshot())
	return nil
}

// Wait blocks until every started after-commit handler returned.
func (b *Bus) Wait() {
	b.wg.Wait()
}

func (b *Bus) subscribers(name string, phase Phase) []Handler {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var out []Handler
	for _, key := range []string{name, allEvents} {
		for _, s := range b.handlers[key] {
			if s.phase == phase {
				out = append(out, s.handler)
			}
		}
	}
	return out
}

func (b *Bus) dispatch(ctx context.Context, e Event) error {
	for _, h := range b.subscribers(e.Name(), BeforeCommit) {
		if err := h(ctx, e); err != nil {
			return fmt.Errorf("handle %s: %w", e.Name(), err)
		}
	}
	return nil
}

func (b *Bus) dispatchAsync(ctx context.Context, events []Event) {
	for _, e := range events {
		for _, h := range b.subscribers(e.Name(), AfterCommit) {
			b.wg.Add(1)
			go b.run(ctx, e, h)
		}
	}
}

func (b *Bus) run(ctx context.Context, e Event, h Handler) {
	defer b.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			b.log.ErrorContext(ctx, "event handler panicked", "event", e.Name(), "panic", fmt.Sprint(r))
		}
	}()
	if err := h(ctx, e); err != nil {
		b.log.ErrorContext(ctx, "event handler failed", "event", e.Name(), "phase", AfterCommit.String(), "error", err)
	}
}
