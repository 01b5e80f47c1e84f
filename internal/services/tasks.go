package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ErrTaskSetClosed is returned by Go once Shutdown has started.
var ErrTaskSetClosed = errors.New("task set is closed")

// TaskSet runs detached background work. Spawning never blocks the caller;
// at most limit tasks execute at once and the rest wait their turn. Task
// errors and panics stop at the task boundary and are only logged.
type TaskSet struct {
	ctx    context.Context
	cancel context.CancelFunc
	group  errgroup.Group
	sem    chan struct{}

	mu     sync.Mutex
	closed bool
}

func NewTaskSet(limit int) *TaskSet {
	if limit < 1 {
		limit = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &TaskSet{
		ctx:    ctx,
		cancel: cancel,
		sem:    make(chan struct{}, limit),
	}
}

// Go spawns fn. fn receives the set's context, which is independent of any
// caller's context and is only cancelled by Shutdown.
func (t *TaskSet) Go(name string, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrTaskSetClosed
	}

	logCtx := slog.With("task", name, "taskId", uuid.NewString())
	t.group.Go(func() error {
		defer func() {
			if r := recover(); r != nil {
				logCtx.Error("Detached task panicked.", "panic", r)
			}
		}()

		select {
		case t.sem <- struct{}{}:
			defer func() { <-t.sem }()
		case <-t.ctx.Done():
			logCtx.Warn("Detached task dropped before start.", "error", t.ctx.Err())
			return nil
		}

		if err := fn(t.ctx); err != nil {
			logCtx.Error("Detached task failed.", "error", err)
		}
		return nil
	})
	return nil
}

// Wait blocks until every task spawned so far has returned.
func (t *TaskSet) Wait() {
	_ = t.group.Wait()
}

// Shutdown rejects new tasks and waits for running ones. If ctx ends first
// the remaining tasks are cancelled and ctx's error is returned once they exit.
func (t *TaskSet) Shutdown(ctx context.Context) error {
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()

	done := make(chan struct{})
	go func() {
		t.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.cancel()
		return nil
	case <-ctx.Done():
		t.cancel()
		<-done
		return ctx.Err()
	}
}
