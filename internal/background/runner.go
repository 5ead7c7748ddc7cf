package background

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Task is the handle of a detached job. Its result is readable once Done is
// closed.
type Task struct {
	name string
	done chan struct{}
	err  error
}

func (t *Task) Name() string { return t.name }

// Done is closed when the task finishes.
func (t *Task) Done() <-chan struct{} { return t.done }

// Err returns the task's error. It is only meaningful after Done is closed.
func (t *Task) Err() error {
	select {
	case <-t.done:
		return t.err
	default:
		return nil
	}
}

// Wait blocks until the task finishes or ctx ends.
func (t *Task) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return t.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Observer is told about every finished task; err is nil on success.
type Observer func(name string, err error)

// Runner starts detached tasks that outlive the request that spawned them.
// Failures are logged and reported to the observer instead of being dropped.
type Runner struct {
	logger   *log.Logger
	timeout  time.Duration
	observer Observer
	wg       sync.WaitGroup
}

func NewRunner(logger *log.Logger, timeout time.Duration, observer Observer) *Runner {
	if logger == nil {
		logger = log.New(os.Stderr)
	}
	return &Runner{logger: logger, timeout: timeout, observer: observer}
}

// Go runs fn in its own goroutine. The task keeps ctx's values but not its
// cancellation, so it survives the caller returning.
func (r *Runner) Go(ctx context.Context, name string, fn func(ctx context.Context) error) *Task {
	task := &Task{name: name, done: make(chan struct{})}

	taskCtx := context.WithoutCancel(ctx)
	var cancel context.CancelFunc = func() {}
	if r.timeout > 0 {
		taskCtx, cancel = context.WithTimeout(taskCtx, r.timeout)
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer close(task.done)
		defer cancel()

		task.err = r.run(taskCtx, name, fn)
		if task.err != nil {
			r.logger.Error("background task failed", "task", name, "err", task.err)
		} else {
			r.logger.Debug("background task finished", "task", name)
		}
		if r.observer != nil {
			r.observer(name, task.err)
		}
	}()
	return task
}

func (r *Runner) run(ctx context.Context, name string, fn func(ctx context.Context) error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("task %s panicked: %v", name, rec)
		}
	}()
	return fn(ctx)
}

// Wait blocks until every started task has finished. Used on shutdown.
func (r *Runner) Wait() {
	r.wg.Wait()
}
