package bridge

import (
	"sync"
)

// Relay is a HostBridge that can be called from any goroutine. Calls are
// queued and applied to the target, in arrival order, when the owning
// goroutine calls Drain. Nothing is coalesced: ten SetFPS calls are ten
// writes, and only the last one stays visible.
type Relay struct {
	target  HostBridge
	notify  chan struct{}
	pending []func(HostBridge)
	mu      sync.Mutex
}

var _ HostBridge = (*Relay)(nil)

// NewRelay creates a relay in front of target.
func NewRelay(target HostBridge) *Relay {
	return &Relay{
		target: target,
		notify: make(chan struct{}, 1),
	}
}

func (r *Relay) SetPauseVisible(visible bool) {
	r.enqueue(func(b HostBridge) { b.SetPauseVisible(visible) })
}

func (r *Relay) SetDebugVisible(visible bool) {
	r.enqueue(func(b HostBridge) { b.SetDebugVisible(visible) })
}

func (r *Relay) SetDebugText(text string) {
	r.enqueue(func(b HostBridge) { b.SetDebugText(text) })
}

func (r *Relay) SetFPS(value float64) {
	r.enqueue(func(b HostBridge) { b.SetFPS(value) })
}

// Ready receives a value when calls are waiting to be drained.
func (r *Relay) Ready() <-chan struct{} {
	return r.notify
}

// Drain applies every queued call and returns how many ran.
// It must be called from the goroutine that owns the target.
func (r *Relay) Drain() int {
	r.mu.Lock()
	batch := r.pending
	r.pending = nil
	r.mu.Unlock()

	for _, call := range batch {
		call(r.target)
	}
	return len(batch)
}

// Pending reports the number of queued calls.
func (r *Relay) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}

func (r *Relay) enqueue(call func(HostBridge)) {
	r.mu.Lock()
	r.pending = append(r.pending, call)
	r.mu.Unlock()

	select {
	case r.notify <- struct{}{}:
	default:
	}
}
