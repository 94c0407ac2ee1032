package party

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/maitred/maitred/model"
	"github.com/maitred/maitred/service/floor"
	"github.com/maitred/maitred/service/messaging"
)

// Config represents simulation parameters for the customer groups.
type Config struct {
	// Seed drives the per-group random delays; runs with the same seed and
	// policies replay the same schedule.
	Seed int64
	// MaxArrivalDelay bounds the random pause before a group asks for a
	// table.
	MaxArrivalDelay time.Duration
	// MaxDiningTime bounds the random time a group spends at its table.
	MaxDiningTime time.Duration
}

func (c *Config) init() {
	if c.MaxArrivalDelay <= 0 {
		c.MaxArrivalDelay = 50 * time.Millisecond
	}
	if c.MaxDiningTime <= 0 {
		c.MaxDiningTime = 50 * time.Millisecond
	}
}

// Runner drives every customer group through its lifecycle.
type Runner struct {
	config Config
	floor  *floor.Floor
	queue  messaging.Queue[model.Request]
}

// NewRunner creates a runner for the given floor and request queue.
func NewRunner(config Config, f *floor.Floor, queue messaging.Queue[model.Request]) (*Runner, error) {
	if f == nil {
		return nil, fmt.Errorf("floor is required")
	}
	if queue == nil {
		return nil, fmt.Errorf("request queue is required")
	}
	config.init()
	return &Runner{config: config, floor: f, queue: queue}, nil
}

// Run launches one goroutine per group and blocks until every group has
// paid and left, or any group fails. The first failure wins; remaining
// groups are abandoned via context cancellation.
func (r *Runner) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	groups := r.floor.Groups()
	errCh := make(chan error, groups)
	var wg sync.WaitGroup
	for g := 0; g < groups; g++ {
		wg.Add(1)
		go func(group model.GroupID) {
			defer wg.Done()
			if err := r.live(ctx, group); err != nil {
				errCh <- fmt.Errorf("group %d: %w", group, err)
				cancel()
			}
		}(model.GroupID(g))
	}
	wg.Wait()
	close(errCh)
	return <-errCh
}

// live walks one group through arrive, request table, wait for the grant,
// dine and pay. Each group gets its own rand stream so groups do not
// contend on a shared source.
func (r *Runner) live(ctx context.Context, group model.GroupID) error {
	random := rand.New(rand.NewSource(r.config.Seed + int64(group)))

	if err := sleep(ctx, randomDelay(random, r.config.MaxArrivalDelay)); err != nil {
		return err
	}
	if err := r.queue.Publish(ctx, &model.Request{Kind: model.TableRequest, Group: group}); err != nil {
		return fmt.Errorf("table request failed: %w", err)
	}
	if _, err := r.floor.AwaitTable(ctx, group); err != nil {
		return fmt.Errorf("waiting for table: %w", err)
	}
	if err := sleep(ctx, randomDelay(random, r.config.MaxDiningTime)); err != nil {
		return err
	}
	if err := r.queue.Publish(ctx, &model.Request{Kind: model.BillRequest, Group: group}); err != nil {
		return fmt.Errorf("bill request failed: %w", err)
	}
	return nil
}

func randomDelay(random *rand.Rand, max time.Duration) time.Duration {
	if max <= 0 {
		return 0
	}
	return time.Duration(random.Int63n(int64(max)))
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
