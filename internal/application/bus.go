package application

import (
	"sync"

	"github.com/google/uuid"

	"github.com/mkossman/noted-cli/internal/ports"
)

// Bus is the in-memory unauthorized-event broadcaster. The request wrapper
// publishes on it; whoever owns session state subscribes.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string]func(reason string)
}

var _ ports.Bus = (*Bus)(nil)

func NewBus() *Bus {
	return &Bus{subscribers: map[string]func(reason string){}}
}

func (b *Bus) Subscribe(fn func(reason string)) func() {
	id := uuid.NewString()

	b.mu.Lock()
	b.subscribers[id] = fn
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.subscribers, id)
		b.mu.Unlock()
	}
}

// Publish invokes every subscriber with the reason. A panicking subscriber
// is swallowed so it cannot block the others.
func (b *Bus) Publish(reason string) {
	b.mu.RLock()
	snapshot := make([]func(string), 0, len(b.subscribers))
	for _, fn := range b.subscribers {
		snapshot = append(snapshot, fn)
	}
	b.mu.RUnlock()

	for _, fn := range snapshot {
		invoke(fn, reason)
	}
}

func invoke(fn func(string), reason string) {
	defer func() {
		_ = recover()
	}()
	fn(reason)
}
