package workflow

import (
	"context"
	"sync"

	"github.com/Flarenzy/labcam/internal/domain"
)

// Bind registers the controller on the host's events. Validation and
// submission run on their own goroutines so the host is never blocked by a
// round-trip. The returned dispose removes the listeners and waits for
// in-flight handlers to finish, so their outcome still reaches the host.
// Cancelling ctx aborts them.
func (c *Controller) Bind(ctx context.Context, events Events) (dispose func()) {
	ctx, cancel := context.WithCancel(ctx)

	var (
		mu     sync.Mutex
		closed bool
		wg     sync.WaitGroup
	)

	async := func(name string, op func(context.Context) error) func() {
		return func() {
			mu.Lock()
			if closed {
				mu.Unlock()
				return
			}
			wg.Add(1)
			mu.Unlock()

			go func() {
				defer wg.Done()
				if err := op(ctx); err != nil {
					c.logger.DebugContext(ctx, name+" ended with error", "err", err.Error())
				}
			}()
		}
	}

	removers := []func(){
		events.OnInput(c.InputChanged),
		events.OnValidate(async("validate", c.Validate)),
		events.OnSubmit(async("submit", c.Submit)),
		events.OnDialogOpen(func(lab string) {
			c.SetLab(domain.LabIdentifier(lab))
		}),
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			mu.Lock()
			closed = true
			mu.Unlock()

			for _, remove := range removers {
				remove()
			}
			wg.Wait()
			cancel()
			c.Close()
		})
	}
}
