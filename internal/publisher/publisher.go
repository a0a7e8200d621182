// Package publisher queues assembled server events and drains them to a
// delivery transport on a fixed pool of workers.
package publisher

import (
	"context"
	"log/slog"
	"sync"

	"github.com/storelink/metabridge/internal/capi"
	"github.com/storelink/metabridge/internal/metrics"
)

// Publisher is a bounded queue with n delivery workers.
type Publisher struct {
	queue     chan *capi.ServerEvent
	transport Transport
	wg        sync.WaitGroup
}

// New creates a Publisher and starts its workers. Workers stop when ctx is
// cancelled or the queue is drained.
func New(ctx context.Context, transport Transport, workers, queueDepth int) *Publisher {
	p := &Publisher{
		queue:     make(chan *capi.ServerEvent, queueDepth),
		transport: transport,
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			p.run(ctx)
		}()
	}
	return p
}

func (p *Publisher) run(ctx context.Context) {
	for {
		select {
		case ev, ok := <-p.queue:
			if !ok {
				return
			}
			p.deliver(ctx, ev)
		case <-ctx.Done():
			return
		}
	}
}

func (p *Publisher) deliver(ctx context.Context, ev *capi.ServerEvent) {
	if err := p.transport.Deliver(ctx, ev); err != nil {
		metrics.EventsDelivered.WithLabelValues(p.transport.Name(), "error").Inc()
		slog.Warn("event delivery failed", "event_id", ev.EventID, "err", err)
		return
	}
	metrics.EventsDelivered.WithLabelValues(p.transport.Name(), "success").Inc()
}

// Submit enqueues an event without blocking. Returns false when the queue
// is full; the caller decides whether that is a client error.
func (p *Publisher) Submit(ev *capi.ServerEvent) bool {
	select {
	case p.queue <- ev:
		metrics.EventsQueued.Inc()
		return true
	default:
		metrics.EventsDropped.Inc()
		return false
	}
}

// QueueUtilization returns queue used / capacity (0–1).
func (p *Publisher) QueueUtilization() float64 {
	if cap(p.queue) == 0 {
		return 0
	}
	return float64(len(p.queue)) / float64(cap(p.queue))
}

// Drain closes the queue and waits for in-flight deliveries to finish.
func (p *Publisher) Drain() {
	close(p.queue)
	p.wg.Wait()
}
