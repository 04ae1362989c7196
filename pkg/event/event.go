// Package event provides a small in-process event dispatcher. Services fire
// domain events after their transaction commits; listeners handle
// cross-cutting reactions such as metrics and audit logging.
//
//	d := event.New()
//	d.Listen(event.OrderPlaced, func(ctx context.Context, p any) { ... })
//	d.Fire(ctx, event.OrderPlaced, payload)
package event

import (
	"context"
	"sync"

	"github.com/shashiranjanraj/nexus/pkg/logger"
)

// Event names.
const (
	UserRegistered     = "user.registered"
	UserLoggedIn       = "user.logged_in"
	LoginFailed        = "user.login_failed"
	OrderPlaced        = "order.placed"
	OrderRejected      = "order.rejected"
	OrderStatusChanged = "order.status_changed"
)

// Handler receives an event payload.
type Handler func(ctx context.Context, payload any)

// Dispatcher routes fired events to their listeners. The zero value is not
// usable; call New.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

// New returns an empty dispatcher.
func New() *Dispatcher {
	return &Dispatcher{handlers: map[string][]Handler{}}
}

// Listen registers a handler for the given event name.
func (d *Dispatcher) Listen(name string, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[name] = append(d.handlers[name], h)
}

// Fire dispatches an event synchronously to all registered listeners. A
// panicking listener is logged and does not stop the others. Firing on a
// nil dispatcher is a no-op.
func (d *Dispatcher) Fire(ctx context.Context, name string, payload any) {
	if d == nil {
		return
	}
	d.mu.RLock()
	hs := make([]Handler, len(d.handlers[name]))
	copy(hs, d.handlers[name])
	d.mu.RUnlock()

	for _, h := range hs {
		d.call(ctx, name, h, payload)
	}
}

func (d *Dispatcher) call(ctx context.Context, name string, h Handler, payload any) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.WithCtx(ctx).Error("event listener panicked", "event", name, "panic", rec)
		}
	}()
	h(ctx, payload)
}
