package eventbus

import (
	"sync"

	"go.uber.org/zap"
)

type Handler func(payload interface{})

type listener struct {
	id   uint64
	fn   Handler
	once bool
}

// Bus. per-instance synchronous publish/subscribe hub. Emit dispatches in
// listener-registration order against a snapshot of the registry, so handlers
// may subscribe, unsubscribe, emit or reenter the planner while a dispatch is
// running. a panicking handler is recovered and logged, it never stops later
// handlers or reaches the emitter.
type Bus struct {
	mu        sync.Mutex
	seq       uint64
	listeners map[string][]listener
	log       *zap.Logger
}

func NewBus(log *zap.Logger) *Bus {
	return &Bus{
		listeners: make(map[string][]listener),
		log:       log,
	}
}

// On registers fn for event and returns an unsubscribe handle.
func (b *Bus) On(event string, fn Handler) func() {
	return b.subscribe(event, fn, false)
}

// Once registers fn for event, self-unregistering before its first invocation.
func (b *Bus) Once(event string, fn Handler) func() {
	return b.subscribe(event, fn, true)
}

func (b *Bus) subscribe(event string, fn Handler, once bool) func() {
	b.mu.Lock()
	b.seq++
	id := b.seq
	b.listeners[event] = append(b.listeners[event], listener{id: id, fn: fn, once: once})
	b.mu.Unlock()

	return func() {
		b.remove(event, id)
	}
}

func (b *Bus) remove(event string, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ls := b.listeners[event]
	for i, l := range ls {
		if l.id == id {
			b.listeners[event] = append(ls[:i:i], ls[i+1:]...)
			return
		}
	}
}

func (b *Bus) Emit(event string, payload interface{}) {
	b.mu.Lock()
	snapshot := make([]listener, len(b.listeners[event]))
	copy(snapshot, b.listeners[event])
	b.mu.Unlock()

	for _, l := range snapshot {
		if l.once {
			b.remove(event, l.id)
		}
		b.dispatch(event, l, payload)
	}
}

func (b *Bus) dispatch(event string, l listener, payload interface{}) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("event listener panicked",
				zap.String("event", event), zap.Any("panic", r))
		}
	}()
	l.fn(payload)
}

// RemoveAllListeners clears the registries of the given events, or every
// registry when called with no arguments.
func (b *Bus) RemoveAllListeners(events ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(events) == 0 {
		b.listeners = make(map[string][]listener)
		return
	}
	for _, event := range events {
		delete(b.listeners, event)
	}
}

func (b *Bus) ListenerCount(event string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.listeners[event])
}
