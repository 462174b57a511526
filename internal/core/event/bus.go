package event

import (
	"reflect"
	"sync"
)

// queued is one emitted event tagged with its static type.
type queued struct {
	typ reflect.Type
	ev  any
}

// Bus is a double-buffered event bus. Events emitted during a turn become
// readable once SwapBuffers runs at the end of that turn. DispatchAll then
// delivers them in emit order across all event types, so narration that
// reacts to an ActionApplied never overtakes the action itself.
type Bus struct {
	mu       sync.Mutex // guards handlers only
	front    []queued
	back     []queued
	handlers map[reflect.Type][]func(any)
}

func NewBus() *Bus {
	return &Bus{handlers: make(map[reflect.Type][]func(any))}
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Emit queues an event for the next swap.
func Emit[T any](b *Bus, event T) {
	b.back = append(b.back, queued{typ: typeOf[T](), ev: event})
}

// Subscribe registers fn for every event of type T.
func Subscribe[T any](b *Bus, fn func(T)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t := typeOf[T]()
	b.handlers[t] = append(b.handlers[t], func(ev any) { fn(ev.(T)) })
}

// SwapBuffers makes this turn's events readable and starts an empty queue.
func (b *Bus) SwapBuffers() {
	b.front, b.back = b.back, b.front[:0]
}

// DispatchAll delivers the readable events. Events emitted by handlers wait
// for the next swap.
func (b *Bus) DispatchAll() {
	b.mu.Lock()
	handlers := make(map[reflect.Type][]func(any), len(b.handlers))
	for t, hs := range b.handlers {
		handlers[t] = hs
	}
	b.mu.Unlock()

	for _, q := range b.front {
		for _, h := range handlers[q.typ] {
			h(q.ev)
		}
	}
}

// Pending reports how many events wait for the next swap.
func (b *Bus) Pending() int { return len(b.back) }
