package workflow

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Flarenzy/labcam/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEvents struct {
	mu         sync.Mutex
	input      []func()
	validate   []func()
	submit     []func()
	dialogOpen []func(string)
}

func register[T any](mu *sync.Mutex, list *[]T, fn T) func() {
	mu.Lock()
	defer mu.Unlock()
	*list = append(*list, fn)
	idx := len(*list) - 1
	return func() {
		mu.Lock()
		defer mu.Unlock()
		var zero T
		(*list)[idx] = zero
	}
}

func (e *fakeEvents) OnInput(fn func()) func()             { return register(&e.mu, &e.input, fn) }
func (e *fakeEvents) OnValidate(fn func()) func()          { return register(&e.mu, &e.validate, fn) }
func (e *fakeEvents) OnSubmit(fn func()) func()            { return register(&e.mu, &e.submit, fn) }
func (e *fakeEvents) OnDialogOpen(fn func(string)) func() { return register(&e.mu, &e.dialogOpen, fn) }

func (e *fakeEvents) fire(list *[]func()) {
	e.mu.Lock()
	fns := append([]func(){}, (*list)...)
	e.mu.Unlock()
	for _, fn := range fns {
		if fn != nil {
			fn()
		}
	}
}

func (e *fakeEvents) openDialog(lab string) {
	e.mu.Lock()
	fns := append([]func(string){}, e.dialogOpen...)
	e.mu.Unlock()
	for _, fn := range fns {
		if fn != nil {
			fn(lab)
		}
	}
}

func (e *fakeEvents) listeners() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for _, fn := range e.input {
		if fn != nil {
			n++
		}
	}
	for _, fn := range e.validate {
		if fn != nil {
			n++
		}
	}
	for _, fn := range e.submit {
		if fn != nil {
			n++
		}
	}
	for _, fn := range e.dialogOpen {
		if fn != nil {
			n++
		}
	}
	return n
}

func TestBindDrivesWorkflowFromEvents(t *testing.T) {
	added := make(chan domain.AddCameraInput, 1)
	registry := &stubRegistry{
		checkCameraFn: found(`{"model":"X"}`),
		addCameraFn: func(_ context.Context, input domain.AddCameraInput) (domain.AddCameraResult, error) {
			added <- input
			return domain.AddCameraResult{Success: true}, nil
		},
	}
	ctrl, host := newTestController(registry, DefaultOptions())
	events := &fakeEvents{}

	dispose := ctrl.Bind(context.Background(), events)
	defer dispose()
	require.Equal(t, 4, events.listeners())

	events.openDialog("E2-L6-016")
	host.setAddress("10.0.0.5")
	events.fire(&events.input)
	events.fire(&events.validate)

	require.Eventually(t, func() bool {
		return host.snapshot().submitEnabled
	}, time.Second, 5*time.Millisecond)

	events.fire(&events.submit)

	select {
	case input := <-added:
		assert.Equal(t, domain.LabIdentifier("E2-L6-016"), input.Lab)
		assert.Equal(t, "10.0.0.5", input.IP)
	case <-time.After(time.Second):
		t.Fatal("expected submission to reach the registry")
	}
	assert.Eventually(t, func() bool {
		return host.snapshot().refreshes == 1
	}, time.Second, 5*time.Millisecond)
}

func TestDisposeWaitsForInFlightSubmission(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	registry := &stubRegistry{
		checkCameraFn: found(`{"model":"X"}`),
		addCameraFn: func(ctx context.Context, _ domain.AddCameraInput) (domain.AddCameraResult, error) {
			close(started)
			select {
			case <-release:
				return domain.AddCameraResult{Success: true}, nil
			case <-ctx.Done():
				return domain.AddCameraResult{}, ctx.Err()
			}
		},
	}
	ctrl, host := newTestController(registry, Options{Lab: "E2-L6-016"})
	host.setAddress("10.0.0.5")
	require.NoError(t, ctrl.Validate(context.Background()))

	events := &fakeEvents{}
	dispose := ctrl.Bind(context.Background(), events)
	events.fire(&events.submit)
	<-started

	disposed := make(chan struct{})
	go func() {
		dispose()
		close(disposed)
	}()
	assert.Eventually(t, func() bool { return events.listeners() == 0 }, time.Second, 5*time.Millisecond)

	close(release)
	select {
	case <-disposed:
	case <-time.After(time.Second):
		t.Fatal("dispose did not return after the submission finished")
	}

	got := host.snapshot()
	assert.Equal(t, []string{NoticeAdded}, got.notices)
	assert.Equal(t, 1, got.refreshes)
}

func TestCancelledContextAbortsInFlightValidation(t *testing.T) {
	started := make(chan struct{})
	registry := &stubRegistry{
		checkCameraFn: func(ctx context.Context, _ string) (domain.CameraLookup, error) {
			close(started)
			<-ctx.Done()
			return domain.CameraLookup{}, ctx.Err()
		},
	}
	ctrl, host := newTestController(registry, DefaultOptions())
	events := &fakeEvents{}
	host.setAddress("10.0.0.5")

	ctx, cancel := context.WithCancel(context.Background())
	dispose := ctrl.Bind(ctx, events)
	events.fire(&events.validate)
	<-started

	cancel()
	dispose()

	assert.Zero(t, events.listeners())
	got := host.snapshot()
	assert.False(t, got.busy)
	assert.NotEqual(t, MsgServerError, got.message.Text)

	events.fire(&events.validate)
	assert.Equal(t, int32(1), registry.checkCalls.Load())

	dispose()
}
