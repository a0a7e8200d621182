package publisher

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/storelink/metabridge/internal/capi"
)

// Transport hands a fully assembled server event to a delivery mechanism.
// Network semantics live entirely behind this interface.
type Transport interface {
	// Name returns the string key this transport is registered under.
	Name() string
	// Deliver hands off one event.
	Deliver(ctx context.Context, ev *capi.ServerEvent) error
}

// Registry maps transport names to implementations. Safe for concurrent
// reads; Register should only be called at startup.
type Registry struct {
	mu         sync.RWMutex
	transports map[string]Transport
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{transports: make(map[string]Transport)}
}

// Register adds a transport. Panics on duplicate name to surface
// misconfiguration early.
func (r *Registry) Register(t Transport) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.transports[t.Name()]; exists {
		panic(fmt.Sprintf("transport registry: duplicate name %q", t.Name()))
	}
	r.transports[t.Name()] = t
}

// Get returns the transport for the given name.
func (r *Registry) Get(name string) (Transport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.transports[name]
	if !ok {
		return nil, fmt.Errorf("no transport registered for name %q", name)
	}
	return t, nil
}

// Names returns all registered transport names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.transports))
	for k := range r.transports {
		out = append(out, k)
	}
	return out
}

// LogTransport writes event summaries to the structured log instead of the
// network. It is the stock transport.
type LogTransport struct{}

func NewLogTransport() *LogTransport { return &LogTransport{} }

func (t *LogTransport) Name() string { return "log" }

func (t *LogTransport) Deliver(_ context.Context, ev *capi.ServerEvent) error {
	fields := 0
	if ev.UserData != nil {
		fields = len(ev.UserData.PopulatedFields())
	}
	slog.Info("event delivered",
		"event_name", ev.EventName,
		"event_id", ev.EventID,
		"matched_fields", fields,
	)
	return nil
}
