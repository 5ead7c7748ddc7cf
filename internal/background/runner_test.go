package background

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recorder struct {
	mu      sync.Mutex
	results map[string]error
}

func (r *recorder) observe(name string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.results == nil {
		r.results = make(map[string]error)
	}
	r.results[name] = err
}

func TestTaskReportsFailure(t *testing.T) {
	rec := &recorder{}
	runner := NewRunner(log.New(io.Discard), time.Second, rec.observe)
	boom := errors.New("boom")

	task := runner.Go(context.Background(), "replenish", func(context.Context) error { return boom })
	err := task.Wait(context.Background())

	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, task.Err(), boom)
	runner.Wait()
	assert.ErrorIs(t, rec.results["replenish"], boom)
}

func TestTaskOutlivesCallerContext(t *testing.T) {
	runner := NewRunner(log.New(io.Discard), time.Second, nil)
	ctx, cancel := context.WithCancel(context.Background())
	release := make(chan struct{})

	task := runner.Go(ctx, "detached", func(taskCtx context.Context) error {
		<-release
		return taskCtx.Err()
	})
	cancel()
	close(release)

	require.NoError(t, task.Wait(context.Background()))
	runner.Wait()
}

func TestTaskTimeout(t *testing.T) {
	runner := NewRunner(log.New(io.Discard), 20*time.Millisecond, nil)

	task := runner.Go(context.Background(), "slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	assert.ErrorIs(t, task.Wait(context.Background()), context.DeadlineExceeded)
	runner.Wait()
}

func TestTaskPanicBecomesError(t *testing.T) {
	runner := NewRunner(log.New(io.Discard), 0, nil)

	task := runner.Go(context.Background(), "panicky", func(context.Context) error { panic("oops") })

	assert.ErrorContains(t, task.Wait(context.Background()), "panicked")
	runner.Wait()
}

func TestErrBeforeDoneIsNil(t *testing.T) {
	runner := NewRunner(log.New(io.Discard), 0, nil)
	release := make(chan struct{})

	task := runner.Go(context.Background(), "pending", func(context.Context) error {
		<-release
		return errors.New("late")
	})
	assert.NoError(t, task.Err())

	close(release)
	runner.Wait()
	assert.Error(t, task.Err())
}
