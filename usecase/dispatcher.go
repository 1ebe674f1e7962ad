package usecase

import (
	"context"
	"fmt"
	"sync"
)

// ReplayHandler re-executes a buffered operation from its encoded payload.
type ReplayHandler func(ctx context.Context, payload []byte) error

// Dispatcher routes buffered operations to the use case that owns them.
type Dispatcher struct {
	handlers map[string]ReplayHandler
	mu       sync.RWMutex
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[string]ReplayHandler)}
}

func CommandName(entity, operation string) string {
	return entity + "." + operation
}

func (d *Dispatcher) Register(entity, operation string, handler ReplayHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[CommandName(entity, operation)] = handler
}

func (d *Dispatcher) Replay(ctx context.Context, entity, operation string, payload []byte) error {
	name := CommandName(entity, operation)
	d.mu.RLock()
	handler, ok := d.handlers[name]
	d.mu.RUnlock()
	if !ok {
		return fmt.Errorf("replay handler %s not registered", name)
	}
	return handler(ctx, payload)
}
