// Copyright © 2024 The ELPS authors

package program

import "sync"

const (
	eventFileAdded    = "file-added"
	eventFileRemoved  = "file-removed"
	eventScopeAdded   = "scope-added"
	eventScopeRemoved = "scope-removed"
)

// Unsubscribe cancels a previously registered subscription.
type Unsubscribe func()

// emitter is a multi-event broadcaster: one Program owns exactly one, and
// every subscription handle it hands out is owned by exactly one
// subscriber (spec §9 Design Note: "Event-driven parent linkage →
// explicit signal graph").
type emitter struct {
	mu        sync.Mutex
	listeners map[string][]func(any)
}

func newEmitter() *emitter {
	return &emitter{listeners: map[string][]func(any){}}
}

func (e *emitter) on(event string, fn func(any)) Unsubscribe {
	e.mu.Lock()
	idx := len(e.listeners[event])
	e.listeners[event] = append(e.listeners[event], fn)
	e.mu.Unlock()
	return func() {
		e.mu.Lock()
		list := e.listeners[event]
		if idx < len(list) {
			list[idx] = nil
		}
		e.mu.Unlock()
	}
}

func (e *emitter) emit(event string, payload any) {
	e.mu.Lock()
	fire := append([]func(any){}, e.listeners[event]...)
	e.mu.Unlock()
	for _, fn := range fire {
		if fn != nil {
			fn(payload)
		}
	}
}
