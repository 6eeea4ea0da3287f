package console

import (
	"context"
	"errors"
	"sync"
)

// ErrSuperseded is returned when a newer request of the same kind replaced
// the one in flight. Its result is discarded.
var ErrSuperseded = errors.New("request superseded by a newer one")

// TaskKey identifies a request slot: one in-flight request per view and kind.
type TaskKey struct {
	View string
	Kind string
}

// TaskRegistry cancels the in-flight request of a slot when a new one starts.
type TaskRegistry struct {
	mu      sync.Mutex
	seq     uint64
	running map[TaskKey]*Task
}

func NewTaskRegistry() *TaskRegistry {
	return &TaskRegistry{running: make(map[TaskKey]*Task)}
}

// Task is a handle on one started request.
type Task struct {
	registry *TaskRegistry
	key      TaskKey
	id       uint64
	cancel   context.CancelFunc
}

// Begin starts a task for key, cancelling any older task of the same key.
// Callers must call Done when the request finishes.
func (r *TaskRegistry) Begin(ctx context.Context, key TaskKey) (context.Context, *Task) {
	taskCtx, cancel := context.WithCancel(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.running[key]; ok {
		prev.cancel()
	}
	r.seq++
	t := &Task{registry: r, key: key, id: r.seq, cancel: cancel}
	r.running[key] = t
	return taskCtx, t
}

// Current reports whether t is still the latest task of its key.
func (t *Task) Current() bool {
	t.registry.mu.Lock()
	defer t.registry.mu.Unlock()
	cur, ok := t.registry.running[t.key]
	return ok && cur.id == t.id
}

// Done releases the slot if t still owns it.
func (t *Task) Done() {
	t.registry.mu.Lock()
	defer t.registry.mu.Unlock()
	if cur, ok := t.registry.running[t.key]; ok && cur.id == t.id {
		delete(t.registry.running, t.key)
	}
	t.cancel()
}

// InFlight reports whether a task runs for key.
func (r *TaskRegistry) InFlight(key TaskKey) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.running[key]
	return ok
}

// CancelAll cancels every running task.
func (r *TaskRegistry) CancelAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, t := range r.running {
		t.cancel()
		delete(r.running, key)
	}
}
