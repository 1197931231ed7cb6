package utils

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	goutils "go.viam.com/utils"
)

// StoppableWorkers is a set of background loops, such as a player stepping a craft, that share one
// context canceled by Stop.
type StoppableWorkers interface {
	AddWorkers(...func(context.Context))
	Stop()
	Context() context.Context
}

// stoppableWorkersImpl holds a sync.WaitGroup, so it is only handed out behind the interface.
type stoppableWorkersImpl struct {
	mu      sync.Mutex
	ctx     context.Context
	cancel  func()
	running sync.WaitGroup
}

// NewStoppableWorkers starts each loop in its own goroutine.
func NewStoppableWorkers(loops ...func(context.Context)) StoppableWorkers {
	ctx, cancel := context.WithCancel(context.Background())
	sw := &stoppableWorkersImpl{ctx: ctx, cancel: cancel}
	sw.AddWorkers(loops...)
	return sw
}

// NewTickingWorkers calls step once per period of clk until Stop. Ticks that arrive while step is
// still running are dropped. The ticker is registered with clk before NewTickingWorkers returns, so
// a mock clock can be advanced right away.
func NewTickingWorkers(clk clock.Clock, period time.Duration, step func(context.Context)) StoppableWorkers {
	ticker := clk.Ticker(period)
	return NewStoppableWorkers(func(ctx context.Context) {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			// Stop may have raced the tick
			if ctx.Err() != nil {
				return
			}
			step(ctx)
		}
	})
}

// AddWorkers starts more loops. Loops added after Stop never run.
func (sw *stoppableWorkersImpl) AddWorkers(loops ...func(context.Context)) {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	if sw.ctx.Err() != nil {
		return
	}

	sw.running.Add(len(loops))
	for _, loop := range loops {
		goutils.PanicCapturingGo(func() {
			defer sw.running.Done()
			loop(sw.ctx)
		})
	}
}

// Stop cancels the shared context and blocks until every loop has returned.
func (sw *stoppableWorkersImpl) Stop() {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	sw.cancel()
	sw.running.Wait()
}

func (sw *stoppableWorkersImpl) Context() context.Context {
	return sw.ctx
}
