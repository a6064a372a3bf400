package generation

import (
	"context"
	"sync"
)

// runRegistry tracks in-flight generation runs so they can be cancelled
// cooperatively. Cancellation only reaches runs on this instance.
type runRegistry struct {
	mu   sync.Mutex
	runs map[string]context.CancelFunc
}

func newRunRegistry() *runRegistry {
	return &runRegistry{runs: make(map[string]context.CancelFunc)}
}

// register derives a cancellable context for a document's run.
func (r *runRegistry) register(parent context.Context, documentID string) context.Context {
	ctx, cancel := context.WithCancel(parent)
	r.mu.Lock()
	r.runs[documentID] = cancel
	r.mu.Unlock()
	return ctx
}

// cancel signals the run for documentID, if it is running here.
// Returns false when no such run is registered.
func (r *runRegistry) cancel(documentID string) bool {
	r.mu.Lock()
	cancel, ok := r.runs[documentID]
	r.mu.Unlock()
	if ok {
		cancel()
	}
	return ok
}

// release removes a finished run and frees its context.
func (r *runRegistry) release(documentID string) {
	r.mu.Lock()
	cancel, ok := r.runs[documentID]
	delete(r.runs, documentID)
	r.mu.Unlock()
	if ok {
		cancel()
	}
}
