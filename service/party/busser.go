package party

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/maitred/maitred/model"
	"github.com/maitred/maitred/service/floor"
)

// Busser cleans tables as the receptionist signals turnovers. One goroutine
// watches each table.
type Busser struct {
	floor   *floor.Floor
	cleaned int64
	// tokens carries one element per handled turnover so callers can block
	// on completion instead of polling; a full run produces at most one
	// turnover per group.
	tokens chan struct{}
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewBusser creates a busser for the floor's tables.
func NewBusser(f *floor.Floor) (*Busser, error) {
	if f == nil {
		return nil, fmt.Errorf("floor is required")
	}
	return &Busser{floor: f, tokens: make(chan struct{}, f.Groups())}, nil
}

// Start launches the per-table watchers. They run until Stop or the parent
// context is cancelled.
func (b *Busser) Start(ctx context.Context) {
	ctx, b.cancel = context.WithCancel(ctx)
	for t := 0; t < b.floor.Tables(); t++ {
		b.wg.Add(1)
		go func(table model.TableID) {
			defer b.wg.Done()
			for {
				if err := b.floor.AwaitTurnover(ctx, table); err != nil {
					return
				}
				atomic.AddInt64(&b.cleaned, 1)
				select {
				case b.tokens <- struct{}{}:
				case <-ctx.Done():
					return
				}
			}
		}(model.TableID(t))
	}
}

// Stop terminates the watchers and waits for them to exit.
func (b *Busser) Stop() {
	if b.cancel != nil {
		b.cancel()
	}
	b.wg.Wait()
}

// AwaitCleaned blocks until n turnovers have been handled since Start, or
// ctx is done.
func (b *Busser) AwaitCleaned(ctx context.Context, n int) error {
	for i := 0; i < n; i++ {
		select {
		case <-b.tokens:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Cleaned returns how many turnovers have been handled so far.
func (b *Busser) Cleaned() int {
	return int(atomic.LoadInt64(&b.cleaned))
}
