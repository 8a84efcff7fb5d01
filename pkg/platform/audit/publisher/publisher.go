// Package publisher decouples event emission from sink latency. In sync mode
// Emit appends directly; with an async buffer events flow through a worker
// goroutine and Close drains the backlog.
package publisher

import (
	"context"
	"sync"

	"custodia/pkg/requestcontext"

	audit "custodia/pkg/platform/audit"
)

type Publisher struct {
	sink  audit.Sink
	inbox chan audit.Event
	wg    sync.WaitGroup

	closeOnce sync.Once
}

type Option func(*Publisher)

// WithAsyncBuffer enables asynchronous emission with the given channel
// capacity. Emit blocks once the buffer is full rather than dropping events.
func WithAsyncBuffer(size int) Option {
	return func(p *Publisher) {
		p.inbox = make(chan audit.Event, size)
	}
}

func NewPublisher(sink audit.Sink, opts ...Option) *Publisher {
	p := &Publisher{sink: sink}
	for _, opt := range opts {
		opt(p)
	}
	if p.inbox != nil {
		p.wg.Add(1)
		go p.drain()
	}
	return p
}

// Emit records one protocol event. A zero timestamp is filled from the
// request-scoped clock.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}

	if p.inbox == nil {
		return p.sink.Append(ctx, event)
	}
	p.inbox <- event
	return nil
}

// Close stops the async worker after the buffered backlog is flushed. Safe to
// call more than once; a sync-mode publisher closes as a no-op.
func (p *Publisher) Close() {
	p.closeOnce.Do(func() {
		if p.inbox != nil {
			close(p.inbox)
			p.wg.Wait()
		}
	})
}

func (p *Publisher) drain() {
	defer p.wg.Done()
	for event := range p.inbox {
		// Sink failures are not surfaced to the emitting operation; the
		// registry counters remain the authoritative history.
		_ = p.sink.Append(context.Background(), event)
	}
}
